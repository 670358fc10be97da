package fetch

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/roach88/execdash/internal/config"
	"github.com/roach88/execdash/internal/records"
)

// maxBodyBytes caps a single response body. Larger bodies fail with
// CodeBodyTooLarge.
const maxBodyBytes = 32 << 20

// Client fetches the four metric payloads from the backend API.
//
// The base URL, timeout and decoding mode are fixed at construction. A Client
// holds no per-fetch state and is safe for concurrent use.
type Client struct {
	baseURL    string
	timeout    time.Duration
	httpClient *http.Client
	observer   Observer
	ids        IDGenerator
	now        func() time.Time
	decodeOpts records.DecodeOptions
	maxBody    int64
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithObserver sets the request/response observer.
func WithObserver(o Observer) Option {
	return func(c *Client) {
		if o == nil {
			o = NopObserver{}
		}
		c.observer = o
	}
}

// WithLogger routes observer events and decode warnings to logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.observer = NewSlogObserver(logger)
		c.decodeOpts.Logger = logger
	}
}

// WithIDGenerator overrides snapshot ID generation (for testing).
func WithIDGenerator(g IDGenerator) Option {
	return func(c *Client) {
		c.ids = g
	}
}

// WithClock overrides the time source (for testing).
func WithClock(now func() time.Time) Option {
	return func(c *Client) {
		c.now = now
	}
}

// New creates a Client from a resolved configuration.
func New(cfg config.Config, opts ...Option) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = config.DefaultTimeout
	}

	c := &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		timeout:    timeout,
		httpClient: &http.Client{},
		observer:   NewSlogObserver(nil),
		ids:        UUIDv7Generator{},
		now:        time.Now,
		decodeOpts: records.DecodeOptions{SkipMalformed: cfg.SkipMalformedRows},
		maxBody:    maxBodyBytes,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the API root this client talks to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// URL returns the endpoint URL for a category.
func (c *Client) URL(cat records.Category) string {
	return c.baseURL + cat.Path()
}

// FetchAll issues the four GETs concurrently and waits for all of them.
//
// It succeeds only if every request and every decode succeeds. The first
// failure is returned as a *Error and cancels the shared context; the other
// payloads are discarded, never returned as a partial result.
func (c *Client) FetchAll(ctx context.Context) (*Snapshot, error) {
	snap := &Snapshot{
		ID:     c.ids.Generate(),
		Source: c.baseURL,
	}

	var (
		financial *records.FinancialPayload
		hr        *records.HRPayload
		rnd       *records.RNDPayload
		security  *records.SecurityPayload
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		body, err := c.get(gctx, snap.ID, records.CategoryFinancial)
		if err != nil {
			return err
		}
		financial, err = records.DecodeFinancial(body, c.decodeOpts)
		return c.wrapDecode(records.CategoryFinancial, err)
	})
	g.Go(func() error {
		body, err := c.get(gctx, snap.ID, records.CategoryHR)
		if err != nil {
			return err
		}
		hr, err = records.DecodeHR(body, c.decodeOpts)
		return c.wrapDecode(records.CategoryHR, err)
	})
	g.Go(func() error {
		body, err := c.get(gctx, snap.ID, records.CategoryRND)
		if err != nil {
			return err
		}
		rnd, err = records.DecodeRND(body, c.decodeOpts)
		return c.wrapDecode(records.CategoryRND, err)
	})
	g.Go(func() error {
		body, err := c.get(gctx, snap.ID, records.CategorySecurity)
		if err != nil {
			return err
		}
		security, err = records.DecodeSecurity(body, c.decodeOpts)
		return c.wrapDecode(records.CategorySecurity, err)
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	snap.Financial = financial
	snap.HR = hr
	snap.RND = rnd
	snap.Security = security
	snap.FetchedAt = c.now()
	return snap, nil
}

// get performs one GET with its own deadline and returns the body of a 2xx
// response.
func (c *Client) get(ctx context.Context, snapshotID string, cat records.Category) ([]byte, error) {
	url := c.URL(cat)

	reqCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	reqEvent := RequestEvent{
		SnapshotID: snapshotID,
		Category:   cat,
		Method:     http.MethodGet,
		URL:        url,
	}

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &Error{Category: cat, Op: OpRequest, URL: url, Code: CodeNetwork, Err: err}
	}
	req.Header.Set("Accept", "application/json")

	notifyRequest(c.observer, reqEvent)
	start := c.now()

	resp, err := c.httpClient.Do(req)
	if err != nil {
		fe := newTransportError(cat, url, err)
		notifyResponse(c.observer, ResponseEvent{RequestEvent: reqEvent, Duration: c.now().Sub(start), Err: fe})
		return nil, fe
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		fe := newStatusError(cat, url, resp.StatusCode)
		notifyResponse(c.observer, ResponseEvent{RequestEvent: reqEvent, Status: resp.StatusCode, Duration: c.now().Sub(start), Err: fe})
		return nil, fe
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBody+1))
	if err != nil {
		fe := &Error{Category: cat, Op: OpRead, URL: url, StatusCode: resp.StatusCode, Code: transportCode(err), Err: err}
		notifyResponse(c.observer, ResponseEvent{RequestEvent: reqEvent, Status: resp.StatusCode, Duration: c.now().Sub(start), Err: fe})
		return nil, fe
	}
	if int64(len(body)) > c.maxBody {
		fe := newBodyTooLargeError(cat, url, resp.StatusCode, c.maxBody)
		notifyResponse(c.observer, ResponseEvent{RequestEvent: reqEvent, Status: resp.StatusCode, Duration: c.now().Sub(start), Err: fe})
		return nil, fe
	}

	notifyResponse(c.observer, ResponseEvent{RequestEvent: reqEvent, Status: resp.StatusCode, Duration: c.now().Sub(start)})
	return body, nil
}

func (c *Client) wrapDecode(cat records.Category, err error) error {
	if err == nil {
		return nil
	}
	return newDecodeError(cat, c.URL(cat), fmt.Errorf("decoding response: %w", err))
}
