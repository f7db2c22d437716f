package session_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	jwt "github.com/dgrijalva/jwt-go"
	"github.com/golang-cafe/hireboard/internal/session"
	"github.com/golang-cafe/hireboard/internal/user"
	"github.com/gorilla/sessions"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeLoader struct {
	calls   int32
	profile user.Profile
	err     error
}

func (f *fakeLoader) GetUserDetails(ctx context.Context, token string) (user.Profile, error) {
	atomic.AddInt32(&f.calls, 1)
	return f.profile, f.err
}

func newHolder(t *testing.T, loader session.ProfileLoader) *session.Holder {
	t.Helper()
	profiles, err := session.NewProfileStore(time.Hour)
	require.NoError(t, err)
	t.Cleanup(func() { profiles.Close() })
	return session.NewHolder(sessions.NewCookieStore([]byte("0123456789abcdef0123456789abcdef")), profiles, loader)
}

// carry returns a request bearing the cookies set on rec.
func carry(rec *httptest.ResponseRecorder) *http.Request {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range rec.Result().Cookies() {
		r.AddCookie(c)
	}
	return r
}

func TestLoadAnonymous(t *testing.T) {
	h := newHolder(t, &fakeLoader{})
	s := h.Load(httptest.NewRequest(http.MethodGet, "/", nil))
	assert.False(t, s.LoggedIn())
	assert.False(t, s.Expired)
}

func TestLoginLoadLogout(t *testing.T) {
	h := newHolder(t, &fakeLoader{})

	rec := httptest.NewRecorder()
	s, err := h.Login(rec, httptest.NewRequest(http.MethodPost, "/login", nil), "opaque-token")
	require.NoError(t, err)
	assert.NotEmpty(t, s.ID)

	loaded := h.Load(carry(rec))
	assert.True(t, loaded.LoggedIn())
	assert.Equal(t, "opaque-token", loaded.Token)
	assert.Equal(t, s.ID, loaded.ID)

	out := httptest.NewRecorder()
	require.NoError(t, h.Logout(out, carry(rec)))
	cookies := out.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.True(t, cookies[0].MaxAge < 0)
	assert.False(t, h.Load(carry(out)).LoggedIn())
}

func TestProfileIsFetchedOnceThenCached(t *testing.T) {
	loader := &fakeLoader{profile: user.Profile{IsRegistered: true, ProfileType: user.TypeEmployer}}
	h := newHolder(t, loader)
	s := &session.Session{ID: "abc", Token: "tk"}

	p, err := h.Profile(context.Background(), s)
	require.NoError(t, err)
	assert.True(t, p.IsEmployer())
	_, err = h.Profile(context.Background(), s)
	require.NoError(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&loader.calls))

	loader.profile.ProfileType = user.TypeJobSeeker
	p, err = h.Refresh(context.Background(), s)
	require.NoError(t, err)
	assert.True(t, p.IsJobSeeker())
	assert.Equal(t, int32(2), atomic.LoadInt32(&loader.calls))

	p, err = h.Profile(context.Background(), s)
	require.NoError(t, err)
	assert.True(t, p.IsJobSeeker())
	assert.Equal(t, int32(2), atomic.LoadInt32(&loader.calls))
}

func TestProfileAnonymous(t *testing.T) {
	h := newHolder(t, &fakeLoader{})
	_, err := h.Profile(context.Background(), &session.Session{})
	assert.True(t, errors.Is(err, session.ErrAnonymous))
}

func TestProfileErrorIsNotCached(t *testing.T) {
	loader := &fakeLoader{err: errors.New("boom")}
	h := newHolder(t, loader)
	s := &session.Session{ID: "abc", Token: "tk"}
	_, err := h.Profile(context.Background(), s)
	assert.Error(t, err)
	_, err = h.Profile(context.Background(), s)
	assert.Error(t, err)
	assert.Equal(t, int32(2), atomic.LoadInt32(&loader.calls))
}

func TestExpiredJWTIsLoggedOut(t *testing.T) {
	h := newHolder(t, &fakeLoader{})
	tk, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.StandardClaims{
		ExpiresAt: time.Now().Add(-time.Hour).Unix(),
	}).SignedString([]byte("k"))
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	_, err = h.Login(rec, httptest.NewRequest(http.MethodPost, "/login", nil), tk)
	require.NoError(t, err)
	s := h.Load(carry(rec))
	assert.False(t, s.LoggedIn())
	assert.True(t, s.Expired)
}

func TestTokenExpired(t *testing.T) {
	now := time.Now()
	sign := func(c jwt.Claims) string {
		tk, err := jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString([]byte("k"))
		require.NoError(t, err)
		return tk
	}
	assert.False(t, session.TokenExpired("not-a-jwt", now))
	assert.False(t, session.TokenExpired(sign(jwt.StandardClaims{}), now))
	assert.False(t, session.TokenExpired(sign(jwt.StandardClaims{ExpiresAt: now.Add(time.Hour).Unix()}), now))
	assert.True(t, session.TokenExpired(sign(jwt.StandardClaims{ExpiresAt: now.Add(-time.Minute).Unix()}), now))
}

func TestContext(t *testing.T) {
	assert.False(t, session.FromContext(context.Background()).LoggedIn())
	ctx := session.NewContext(context.Background(), &session.Session{Token: "tk"})
	assert.True(t, session.FromContext(ctx).LoggedIn())
}
