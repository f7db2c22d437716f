package middleware_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-cafe/hireboard/internal/guard"
	"github.com/golang-cafe/hireboard/internal/middleware"
	"github.com/golang-cafe/hireboard/internal/remote"
	"github.com/golang-cafe/hireboard/internal/session"
	"github.com/golang-cafe/hireboard/internal/user"
	"github.com/gorilla/sessions"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var ok = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
})

type loader struct {
	profile user.Profile
	err     error
}

func (l loader) GetUserDetails(ctx context.Context, token string) (user.Profile, error) {
	return l.profile, l.err
}

func TestHTTPSMiddleware(t *testing.T) {
	h := middleware.HTTPSMiddleware(ok, "prod")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "http://hire.example/search-jobs?job_title=go", nil))
	assert.Equal(t, http.StatusMovedPermanently, rec.Code)
	assert.Equal(t, "https://hire.example/search-jobs?job_title=go", rec.Header().Get("Location"))

	rec = httptest.NewRecorder()
	middleware.HTTPSMiddleware(ok, "dev").ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestHeadersMiddleware(t *testing.T) {
	rec := httptest.NewRecorder()
	middleware.HeadersMiddleware(ok, "prod").ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, "deny", rec.Header().Get("X-Frame-Options"))
	assert.NotEmpty(t, rec.Header().Get("Strict-Transport-Security"))
}

func TestLoggingAndRecovery(t *testing.T) {
	logger := zerolog.New(io.Discard)
	boom := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	})
	rec := httptest.NewRecorder()
	middleware.RecoveryMiddleware(middleware.LoggingMiddleware(boom, logger), logger).
		ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("X-Request-Id"))
}

func newHolder(t *testing.T, l session.ProfileLoader) *session.Holder {
	t.Helper()
	profiles, err := session.NewProfileStore(time.Minute)
	require.NoError(t, err)
	t.Cleanup(func() { profiles.Close() })
	return session.NewHolder(sessions.NewCookieStore([]byte("0123456789abcdef0123456789abcdef")), profiles, l)
}

func guarded(t *testing.T, holder *session.Holder) http.Handler {
	t.Helper()
	tbl, err := guard.New(guard.DefaultRules(guard.Anyone))
	require.NoError(t, err)
	logger := zerolog.New(io.Discard)
	return middleware.SessionMiddleware(middleware.GuardMiddleware(ok, tbl, holder, logger), holder, logger)
}

// signIn returns the cookies of a session holding token.
func signIn(t *testing.T, holder *session.Holder, token string) []*http.Cookie {
	t.Helper()
	rec := httptest.NewRecorder()
	_, err := holder.Login(rec, httptest.NewRequest(http.MethodPost, "/login", nil), token)
	require.NoError(t, err)
	return rec.Result().Cookies()
}

func get(h http.Handler, path string, cookies []*http.Cookie) *httptest.ResponseRecorder {
	r := httptest.NewRequest(http.MethodGet, path, nil)
	for _, c := range cookies {
		r.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, r)
	return rec
}

func TestGuardAnonymousGoesToLogin(t *testing.T) {
	h := guarded(t, newHolder(t, loader{}))
	for _, p := range []string{"/", "/search-jobs", "/search-talent", "/post-job"} {
		rec := get(h, p, nil)
		assert.Equal(t, http.StatusSeeOther, rec.Code, p)
		assert.Equal(t, "/login", rec.Header().Get("Location"), p)
	}
	assert.Equal(t, http.StatusOK, get(h, "/login", nil).Code)
}

func TestGuardWrongProfileTypeGoesHome(t *testing.T) {
	holder := newHolder(t, loader{profile: user.Profile{IsRegistered: true, ProfileType: user.TypeJobSeeker}})
	h := guarded(t, holder)
	cookies := signIn(t, holder, "tk")
	for _, p := range []string{"/search-talent", "/post-job"} {
		rec := get(h, p, cookies)
		assert.Equal(t, http.StatusSeeOther, rec.Code, p)
		assert.Equal(t, "/", rec.Header().Get("Location"), p)
	}
	assert.Equal(t, http.StatusOK, get(h, "/search-jobs", cookies).Code)
}

func TestGuardUnauthorizedLogsOut(t *testing.T) {
	holder := newHolder(t, loader{err: &remote.APIError{Status: http.StatusUnauthorized}})
	h := guarded(t, holder)
	rec := get(h, "/search-jobs", signIn(t, holder, "tk"))
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/login", rec.Header().Get("Location"))
	require.NotEmpty(t, rec.Result().Cookies())
	assert.True(t, rec.Result().Cookies()[0].MaxAge < 0)
}
