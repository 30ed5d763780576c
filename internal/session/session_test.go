package session

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func echoVisitor() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(VisitorID(r.Context())))
	})
}

func TestMiddleware_AssignsVisitor(t *testing.T) {
	handler := NewStore("test-secret-test-secret-test-sec", false).Middleware(echoVisitor())

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Body.String())

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, CookieName, cookies[0].Name)
	assert.True(t, cookies[0].HttpOnly)
}

func TestMiddleware_KeepsVisitorAcrossRequests(t *testing.T) {
	handler := NewStore("test-secret-test-secret-test-sec", false).Middleware(echoVisitor())

	first := httptest.NewRecorder()
	handler.ServeHTTP(first, httptest.NewRequest(http.MethodGet, "/", nil))
	visitor := first.Body.String()

	req := httptest.NewRequest(http.MethodGet, "/posts", nil)
	for _, c := range first.Result().Cookies() {
		req.AddCookie(c)
	}
	second := httptest.NewRecorder()
	handler.ServeHTTP(second, req)

	assert.Equal(t, visitor, second.Body.String())
	assert.Empty(t, second.Result().Cookies(), "no new cookie for a known visitor")
}

func TestMiddleware_ForeignCookieStartsNewVisitor(t *testing.T) {
	other := NewStore("another-secret-another-secret-an", false).Middleware(echoVisitor())
	first := httptest.NewRecorder()
	other.ServeHTTP(first, httptest.NewRequest(http.MethodGet, "/", nil))

	handler := NewStore("test-secret-test-secret-test-sec", false).Middleware(echoVisitor())
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range first.Result().Cookies() {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotEqual(t, first.Body.String(), rec.Body.String())
}

func TestVisitorID_Missing(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Empty(t, VisitorID(req.Context()))
}
