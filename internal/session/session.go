// Package session owns the browser session: whether the visitor is signed
// in, their API token and the profile copy every page reads.
package session

import (
	"context"
	"net/http"
	"time"

	"github.com/golang-cafe/hireboard/internal/user"
	"github.com/gorilla/sessions"
	"github.com/pkg/errors"
	"github.com/segmentio/ksuid"
)

const (
	CookieName = "____hb"

	keyToken = "token"
	keyID    = "sid"
)

// ErrAnonymous is returned when a profile is requested for a visitor who is
// not signed in.
var ErrAnonymous = errors.New("session is not signed in")

type Session struct {
	ID    string
	Token string
	// Expired is set when the cookie held a token that is no longer valid.
	Expired bool
}

func (s *Session) LoggedIn() bool {
	return s != nil && s.Token != ""
}

// ProfileLoader fetches the current user's profile from the API.
type ProfileLoader interface {
	GetUserDetails(ctx context.Context, token string) (user.Profile, error)
}

// Holder is the only writer of the session cookie and of the cached profile.
type Holder struct {
	store    sessions.Store
	profiles *ProfileStore
	loader   ProfileLoader
	now      func() time.Time
}

func NewHolder(store sessions.Store, profiles *ProfileStore, loader ProfileLoader) *Holder {
	return &Holder{
		store:    store,
		profiles: profiles,
		loader:   loader,
		now:      time.Now,
	}
}

// Load reads the session from the request cookie. A missing or unreadable
// cookie is an anonymous session.
func (h *Holder) Load(r *http.Request) *Session {
	sess, err := h.store.Get(r, CookieName)
	if err != nil {
		return &Session{}
	}
	tk, _ := sess.Values[keyToken].(string)
	id, _ := sess.Values[keyID].(string)
	if tk == "" {
		return &Session{}
	}
	if TokenExpired(tk, h.now()) {
		return &Session{ID: id, Expired: true}
	}
	return &Session{ID: id, Token: tk}
}

// Login stores token under a fresh session id. Any profile cached for the
// previous session is dropped.
func (h *Holder) Login(w http.ResponseWriter, r *http.Request, token string) (*Session, error) {
	sess, _ := h.store.Get(r, CookieName)
	if old, ok := sess.Values[keyID].(string); ok && old != "" {
		h.forget(old)
	}
	s := &Session{ID: ksuid.New().String(), Token: token}
	sess.Values[keyToken] = s.Token
	sess.Values[keyID] = s.ID
	if err := sess.Save(r, w); err != nil {
		return nil, errors.Wrap(err, "unable to save session cookie")
	}
	return s, nil
}

// Logout clears the cookie and the cached profile.
func (h *Holder) Logout(w http.ResponseWriter, r *http.Request) error {
	sess, _ := h.store.Get(r, CookieName)
	if id, ok := sess.Values[keyID].(string); ok && id != "" {
		h.forget(id)
	}
	for k := range sess.Values {
		delete(sess.Values, k)
	}
	sess.Options.MaxAge = -1
	return errors.Wrap(sess.Save(r, w), "unable to clear session cookie")
}

// Profile returns the cached profile of s, fetching it on first use.
func (h *Holder) Profile(ctx context.Context, s *Session) (user.Profile, error) {
	if !s.LoggedIn() {
		return user.Profile{}, ErrAnonymous
	}
	if p, ok := h.profiles.Get(s.ID); ok {
		return p, nil
	}
	return h.Refresh(ctx, s)
}

// Cached returns the profile copy of s without calling the API.
func (h *Holder) Cached(s *Session) (user.Profile, bool) {
	if !s.LoggedIn() {
		return user.Profile{}, false
	}
	return h.profiles.Get(s.ID)
}

// Refresh fetches the profile from the API and replaces the cached copy.
// Pages call it after they change the profile.
func (h *Holder) Refresh(ctx context.Context, s *Session) (user.Profile, error) {
	if !s.LoggedIn() {
		return user.Profile{}, ErrAnonymous
	}
	p, err := h.loader.GetUserDetails(ctx, s.Token)
	if err != nil {
		return user.Profile{}, err
	}
	if err := h.profiles.Set(s.ID, p); err != nil {
		return p, errors.Wrap(err, "unable to cache profile")
	}
	return p, nil
}

func (h *Holder) forget(id string) {
	_ = h.profiles.Delete(id)
}

type ctxKey struct{}

func NewContext(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, ctxKey{}, s)
}

// FromContext returns the request's session, or an anonymous one.
func FromContext(ctx context.Context) *Session {
	if s, ok := ctx.Value(ctxKey{}).(*Session); ok && s != nil {
		return s
	}
	return &Session{}
}
