package handler

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"strings"

	"github.com/golang-cafe/hireboard/internal/form"
	"github.com/golang-cafe/hireboard/internal/remote"
	"github.com/golang-cafe/hireboard/internal/server"
	"github.com/golang-cafe/hireboard/internal/session"
	"github.com/pkg/errors"
)

// signedOut ends the session when the API rejected its token. It reports
// whether the response has been written.
func signedOut(svr server.Server, w http.ResponseWriter, r *http.Request, err error) bool {
	if !remote.IsUnauthorized(err) {
		return false
	}
	svr.SignOut(w, r)
	return true
}

// failureStatus is the status a page is rendered with after an API call
// failed. Errors the API explains are the user's to fix; anything else is
// ours and gets reported unless the visitor went away.
func failureStatus(svr server.Server, err error, msg string) int {
	if errors.Is(err, context.Canceled) {
		return http.StatusBadGateway
	}
	var apiErr *remote.APIError
	if errors.As(err, &apiErr) && apiErr.Status < http.StatusInternalServerError {
		return http.StatusUnprocessableEntity
	}
	svr.Log(err, msg)
	return http.StatusBadGateway
}

// submitKey identifies one logical write: the same session posting the same
// values to the same route.
func submitKey(r *http.Request, f *form.Form) string {
	owner := session.FromContext(r.Context()).ID
	if owner == "" {
		owner = r.RemoteAddr
	}
	fp := ""
	if f != nil {
		fp = f.Fingerprint()
	}
	return strings.Join([]string{owner, r.Method, r.URL.Path, fp}, "|")
}

// resumeUpload reads the resume attached to f, if any. It is held in memory
// since the write that sends it may outlive the request that uploaded it.
func resumeUpload(f *form.Form) (*remote.File, error) {
	fh := f.File("resume")
	if fh == nil {
		return nil, nil
	}
	file, err := fh.Open()
	if err != nil {
		return nil, errors.Wrap(err, "unable to open uploaded resume")
	}
	defer file.Close()
	b, err := io.ReadAll(file)
	if err != nil {
		return nil, errors.Wrap(err, "unable to read uploaded resume")
	}
	return &remote.File{Field: "resume", Filename: fh.Filename, Content: bytes.NewReader(b)}, nil
}

func renderError(svr server.Server, w http.ResponseWriter, r *http.Request, status int, msg string) {
	svr.Render(w, r, status, "error.html", map[string]interface{}{
		"Title":   http.StatusText(status),
		"Status":  status,
		"Message": msg,
	})
}

// NotFoundHandler renders the not found page for unknown routes.
func NotFoundHandler(svr server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		renderError(svr, w, r, http.StatusNotFound, "The page you are looking for does not exist.")
	}
}

func HealthHandler(svr server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		svr.JSON(w, http.StatusOK, map[string]string{"status": "ok", "site": svr.GetConfig().SiteName})
	}
}
