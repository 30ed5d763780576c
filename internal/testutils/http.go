package testutils

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/net/publicsuffix"
)

var pageIDPattern = regexp.MustCompile(`/api/(?:posts|users)/([0-9a-f-]{36})/`)

// TestServer serves a handler and talks to it like one browser: cookies set
// by the server are sent back on later requests.
type TestServer struct {
	*httptest.Server
	t      *testing.T
	client *http.Client
}

func NewTestServer(t *testing.T, handler http.Handler) *TestServer {
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return &TestServer{
		Server: server,
		t:      t,
		client: NewBrowserClient(t),
	}
}

// NewBrowserClient returns a client with its own cookie jar.
func NewBrowserClient(t *testing.T) *http.Client {
	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	require.NoError(t, err)
	return &http.Client{Jar: jar}
}

// WithClient returns a view of the same server used through another browser.
func (ts *TestServer) WithClient(client *http.Client) *TestServer {
	return &TestServer{Server: ts.Server, t: ts.t, client: client}
}

func (ts *TestServer) GET(path string) *http.Response {
	return ts.do(http.MethodGet, path, nil)
}

func (ts *TestServer) POST(path string, form url.Values) *http.Response {
	return ts.do(http.MethodPost, path, form)
}

func (ts *TestServer) PATCH(path string, form url.Values) *http.Response {
	return ts.do(http.MethodPatch, path, form)
}

func (ts *TestServer) DELETE(path string) *http.Response {
	return ts.do(http.MethodDelete, path, nil)
}

func (ts *TestServer) do(method, path string, form url.Values) *http.Response {
	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}
	req, err := http.NewRequest(method, ts.URL+path, body)
	require.NoError(ts.t, err)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	if strings.HasPrefix(path, "/api/") {
		req.Header.Set("HX-Request", "true")
	}

	resp, err := ts.client.Do(req)
	require.NoError(ts.t, err)
	return resp
}

// ReadBody reads and closes the response body.
func ReadBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(b)
}

// PageID extracts the page ID a full page embeds in its htmx URLs.
func PageID(t *testing.T, html string) string {
	t.Helper()
	m := pageIDPattern.FindStringSubmatch(html)
	require.NotNil(t, m, "no page id in response")
	return m[1]
}

func AssertJSONResponse(t *testing.T, resp *http.Response, expectedStatus int, target interface{}) {
	require.Equal(t, expectedStatus, resp.StatusCode)

	if target != nil {
		defer resp.Body.Close()
		err := json.NewDecoder(resp.Body).Decode(target)
		require.NoError(t, err)
	}
}
