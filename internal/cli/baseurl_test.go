package cli

import (
	"encoding/json"
	"io"
	"net/http"
	"path"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/execdash/internal/config"
	"github.com/roach88/execdash/internal/fetch"
	"github.com/roach88/execdash/internal/testutil"
)

// recordingTransport answers every GET with the matching fixture payload and
// remembers the requested URLs. No network is touched.
type recordingTransport struct {
	mu   sync.Mutex
	urls []string
}

func (rt *recordingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	rt.mu.Lock()
	rt.urls = append(rt.urls, req.URL.String())
	rt.mu.Unlock()

	body, ok := testutil.FixtureBodies()[path.Base(req.URL.Path)]
	status := http.StatusOK
	if !ok {
		status = http.StatusNotFound
	}
	return &http.Response{
		StatusCode: status,
		Header:     http.Header{"Content-Type": []string{"application/json"}},
		Body:       io.NopCloser(strings.NewReader(body)),
		Request:    req,
	}, nil
}

func (rt *recordingTransport) requested() []string {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	return append([]string(nil), rt.urls...)
}

// localhostOptions resolves as if running on a machine named localhost.
func localhostOptions(rt *recordingTransport) *RootOptions {
	opts := testOptions(nil)
	opts.Hostname = func() (string, error) { return config.LocalHostname, nil }
	opts.FetchOptions = append(opts.FetchOptions, fetch.WithHTTPClient(&http.Client{Transport: rt}))
	return opts
}

func TestFetchCommand_LocalhostUsesLocalBackend(t *testing.T) {
	rt := &recordingTransport{}

	out, _, err := execute(t, localhostOptions(rt), "fetch", "--format", "json")
	require.NoError(t, err)

	var resp struct {
		Data FetchResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, config.LocalBaseURL, resp.Data.Source)
	assert.ElementsMatch(t, []string{
		config.LocalBaseURL + "/financial/",
		config.LocalBaseURL + "/hr/",
		config.LocalBaseURL + "/rnd/",
		config.LocalBaseURL + "/security/",
	}, rt.requested())
}

func TestShowCommand_LocalhostUsesLocalBackend(t *testing.T) {
	rt := &recordingTransport{}

	out, _, err := execute(t, localhostOptions(rt), "show", "--format", "json")
	require.NoError(t, err)

	var resp struct {
		Data struct {
			Source string `json:"source"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, config.LocalBaseURL, resp.Data.Source)
	require.Len(t, rt.requested(), 4)
	for _, u := range rt.requested() {
		assert.True(t, strings.HasPrefix(u, config.LocalBaseURL+"/"), "unexpected URL %s", u)
	}
}

func TestFetchCommand_URLCommandAgrees(t *testing.T) {
	rt := &recordingTransport{}
	opts := localhostOptions(rt)

	urlOut, _, err := execute(t, opts, "url")
	require.NoError(t, err)
	assert.Equal(t, config.LocalBaseURL+"\n", urlOut)

	_, _, err = execute(t, opts, "fetch")
	require.NoError(t, err)
	for _, u := range rt.requested() {
		assert.True(t, strings.HasPrefix(u, strings.TrimSpace(urlOut)+"/"), "fetch used %s", u)
	}
}
