package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/golang-cafe/hireboard/internal/guard"
	"github.com/golang-cafe/hireboard/internal/remote"
	"github.com/golang-cafe/hireboard/internal/session"
	"github.com/rs/zerolog"
	"github.com/segmentio/ksuid"
)

func HTTPSMiddleware(next http.Handler, env string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if env != "dev" && r.Header.Get("X-Forwarded-Proto") != "https" {
			target := "https://" + r.Host + r.URL.RequestURI()
			http.Redirect(w, r, target, http.StatusMovedPermanently)
			return
		}
		next.ServeHTTP(w, r)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func LoggingMiddleware(next http.Handler, logger zerolog.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		reqID := ksuid.New().String()
		w.Header().Set("X-Request-Id", reqID)
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		logger.Info().
			Str("request_id", reqID).
			Str("Host", r.Host).
			Str("method", r.Method).
			Stringer("url", r.URL).
			Str("x-forwarded-for", r.Header.Get("x-forwarded-for")).
			Int("status", rec.status).
			Dur("latency", time.Since(start)).
			Msg("req")
	})
}

func HeadersMiddleware(next http.Handler, env string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if env != "dev" {
			// filter out HeadlessChrome user agent
			if strings.Contains(r.Header.Get("User-Agent"), "HeadlessChrome") {
				w.WriteHeader(http.StatusTeapot)
				return
			}
			w.Header().Set("Content-Security-Policy", "upgrade-insecure-requests")
			w.Header().Set("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
		}
		w.Header().Set("X-Frame-Options", "deny")
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("Referrer-Policy", "same-origin")
		next.ServeHTTP(w, r)
	})
}

func RecoveryMiddleware(next http.Handler, logger zerolog.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				logger.Error().Interface("err", err).Stringer("url", r.URL).Msg("panic")
				http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// SessionMiddleware loads the session into the request context. A session
// whose token has expired is cleared before the request goes on.
func SessionMiddleware(next http.Handler, holder *session.Holder, logger zerolog.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess := holder.Load(r)
		if sess.Expired {
			if err := holder.Logout(w, r); err != nil {
				logger.Error().Err(err).Msg("unable to clear expired session")
			}
			sess = &session.Session{}
		}
		next.ServeHTTP(w, r.WithContext(session.NewContext(r.Context(), sess)))
	})
}

// GuardMiddleware applies the route table before any page runs. The profile
// is only looked up for routes that depend on the profile type.
func GuardMiddleware(next http.Handler, tbl *guard.Table, holder *session.Holder, logger zerolog.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess := session.FromContext(r.Context())
		viewer := guard.Viewer{LoggedIn: sess.LoggedIn()}
		if viewer.LoggedIn && tbl.NeedsProfile(r.URL.Path) {
			p, err := holder.Profile(r.Context(), sess)
			switch {
			case remote.IsUnauthorized(err):
				if err := holder.Logout(w, r); err != nil {
					logger.Error().Err(err).Msg("unable to clear session")
				}
				http.Redirect(w, r, guard.LoginPath, http.StatusSeeOther)
				return
			case err != nil:
				logger.Error().Err(err).Str("path", r.URL.Path).Msg("unable to load profile for guard")
				http.Redirect(w, r, guard.HomePath, http.StatusSeeOther)
				return
			}
			viewer.ProfileType = p.ProfileType
		}
		if d := tbl.Resolve(r.URL.Path, viewer); !d.Allowed {
			http.Redirect(w, r, d.Redirect, http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r)
	})
}
