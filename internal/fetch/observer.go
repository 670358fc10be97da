package fetch

import (
	"log/slog"
	"time"

	"github.com/roach88/execdash/internal/records"
)

// RequestEvent describes an outgoing request.
type RequestEvent struct {
	SnapshotID string
	Category   records.Category
	Method     string
	URL        string
}

// ResponseEvent describes the outcome of a request. Status is 0 when no
// response was received.
type ResponseEvent struct {
	RequestEvent
	Status   int
	Duration time.Duration
	Err      error
}

// Observer receives one RequestStarted and one ResponseReceived per request.
//
// Observers are called from the request goroutines and must be safe for
// concurrent use. A panicking observer is recovered and never changes the
// fetch result.
type Observer interface {
	RequestStarted(RequestEvent)
	ResponseReceived(ResponseEvent)
}

// SlogObserver logs request/response pairs through a slog.Logger.
type SlogObserver struct {
	Logger *slog.Logger
}

// NewSlogObserver returns an observer writing to logger, or slog.Default()
// when logger is nil.
func NewSlogObserver(logger *slog.Logger) *SlogObserver {
	if logger == nil {
		logger = slog.Default()
	}
	return &SlogObserver{Logger: logger.With("component", "fetch")}
}

// RequestStarted implements Observer.
func (o *SlogObserver) RequestStarted(ev RequestEvent) {
	o.Logger.Debug("request sent",
		"snapshot_id", ev.SnapshotID,
		"category", ev.Category,
		"method", ev.Method,
		"url", ev.URL)
}

// ResponseReceived implements Observer.
func (o *SlogObserver) ResponseReceived(ev ResponseEvent) {
	if ev.Err != nil {
		o.Logger.Warn("request failed",
			"snapshot_id", ev.SnapshotID,
			"category", ev.Category,
			"method", ev.Method,
			"url", ev.URL,
			"status", ev.Status,
			"duration", ev.Duration,
			"error", ev.Err)
		return
	}
	o.Logger.Info("response received",
		"snapshot_id", ev.SnapshotID,
		"category", ev.Category,
		"method", ev.Method,
		"url", ev.URL,
		"status", ev.Status,
		"duration", ev.Duration)
}

// NopObserver discards all events.
type NopObserver struct{}

func (NopObserver) RequestStarted(RequestEvent)   {}
func (NopObserver) ResponseReceived(ResponseEvent) {}

// notifyRequest calls the observer, swallowing any panic.
func notifyRequest(o Observer, ev RequestEvent) {
	defer func() { _ = recover() }()
	o.RequestStarted(ev)
}

// notifyResponse calls the observer, swallowing any panic.
func notifyResponse(o Observer, ev ResponseEvent) {
	defer func() { _ = recover() }()
	o.ResponseReceived(ev)
}
