package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/getsentry/raven-go"
	"github.com/golang-cafe/hireboard/internal/config"
	"github.com/golang-cafe/hireboard/internal/guard"
	"github.com/golang-cafe/hireboard/internal/middleware"
	"github.com/golang-cafe/hireboard/internal/session"
	"github.com/golang-cafe/hireboard/internal/template"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"
)

type Server struct {
	cfg      config.Config
	router   *mux.Router
	tmpl     *template.Template
	Sessions *session.Holder
	guard    *guard.Table
	submits  *singleflight.Group
	logger   zerolog.Logger
}

func NewServer(
	cfg config.Config,
	r *mux.Router,
	t *template.Template,
	holder *session.Holder,
	tbl *guard.Table,
) Server {
	if cfg.SentryDSN != "" {
		raven.SetDSN(cfg.SentryDSN)
	}
	return Server{
		cfg:      cfg,
		router:   r,
		tmpl:     t,
		Sessions: holder,
		guard:    tbl,
		submits:  &singleflight.Group{},
		logger: zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}).
			With().
			Timestamp().
			Logger(),
	}
}

// WithLogger returns a copy of s logging to logger.
func (s Server) WithLogger(logger zerolog.Logger) Server {
	s.logger = logger
	return s
}

func (s Server) RegisterRoute(path string, handler func(w http.ResponseWriter, r *http.Request), methods []string) {
	s.router.HandleFunc(path, handler).Methods(methods...)
}

func (s Server) RegisterNotFound(handler http.HandlerFunc) {
	s.router.NotFoundHandler = handler
}

func (s Server) GetConfig() config.Config {
	return s.cfg
}

// Render writes the named view. Every view gets the site name and what the
// session knows about the viewer for the navigation.
func (s Server) Render(w http.ResponseWriter, r *http.Request, status int, htmlView string, data map[string]interface{}) error {
	if data == nil {
		data = make(map[string]interface{})
	}
	sess := session.FromContext(r.Context())
	data["SiteName"] = s.cfg.SiteName
	data["LoggedIn"] = sess.LoggedIn()
	data["ProfileType"] = ""
	if p, ok := s.Sessions.Cached(sess); ok {
		data["ProfileType"] = p.ProfileType
	}
	if _, ok := data["Title"]; !ok {
		data["Title"] = ""
	}
	err := s.tmpl.Render(w, status, htmlView, data)
	if err != nil {
		s.Log(err, fmt.Sprintf("unable to render %s", htmlView))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
	return err
}

func (s Server) JSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

func (s Server) Log(err error, msg string) {
	if s.cfg.SentryDSN != "" {
		raven.CaptureErrorAndWait(err, map[string]string{"ctx": msg})
	}
	s.logger.Error().Err(err).Msg(msg)
}

func (s Server) Redirect(w http.ResponseWriter, r *http.Request, status int, dst string) {
	http.Redirect(w, r, dst, status)
}

// SignOut ends the session after the API rejected its token and sends the
// visitor to the login page.
func (s Server) SignOut(w http.ResponseWriter, r *http.Request) {
	if err := s.Sessions.Logout(w, r); err != nil {
		s.Log(err, "unable to clear session")
	}
	s.Redirect(w, r, http.StatusSeeOther, guard.LoginPath)
}

// Submit runs fn once for all concurrent callers sharing key. Handlers key
// writes by session, route and form fingerprint so a double clicked submit
// reaches the API once. fn gets a context that outlives whichever request
// started it; each caller only stops waiting when its own ctx is done.
func (s Server) Submit(ctx context.Context, key string, fn func(ctx context.Context) (interface{}, error)) (interface{}, error) {
	shared := context.WithoutCancel(ctx)
	ch := s.submits.DoChan(key, func() (interface{}, error) {
		return fn(shared)
	})
	select {
	case res := <-ch:
		return res.Val, res.Err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Handler returns the router wrapped in the site's middleware.
func (s Server) Handler() http.Handler {
	var h http.Handler = s.router
	h = middleware.GuardMiddleware(h, s.guard, s.Sessions, s.logger)
	h = middleware.SessionMiddleware(h, s.Sessions, s.logger)
	h = middleware.HeadersMiddleware(h, s.cfg.Env)
	h = middleware.LoggingMiddleware(h, s.logger)
	h = middleware.HTTPSMiddleware(h, s.cfg.Env)
	return middleware.RecoveryMiddleware(h, s.logger)
}

func (s Server) Run() error {
	addr := fmt.Sprintf(":%s", s.cfg.Port)
	if s.cfg.Env == "dev" {
		s.logger.Info().Msgf("local env http://localhost:%s", s.cfg.Port)
		addr = fmt.Sprintf("localhost:%s", s.cfg.Port)
	}
	return http.ListenAndServe(addr, s.Handler())
}
