package handler

import (
	"context"
	"net/http"

	"github.com/golang-cafe/hireboard/internal/form"
	"github.com/golang-cafe/hireboard/internal/page"
	"github.com/golang-cafe/hireboard/internal/remote"
	"github.com/golang-cafe/hireboard/internal/server"
	"github.com/golang-cafe/hireboard/internal/session"
	"github.com/golang-cafe/hireboard/internal/user"
	"github.com/gorilla/mux"
)

const profileSaved = "Your profile has been saved."

func renderHome(svr server.Server, w http.ResponseWriter, r *http.Request, status int, data map[string]interface{}) {
	data["Title"] = "Profile"
	if _, ok := data["Type"]; !ok {
		data["Type"] = ""
	}
	svr.Render(w, r, status, "home.html", data)
}

// HomePageHandler shows the signed in user's profile. Unregistered users are
// asked to pick a profile type first.
func HomePageHandler(svr server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := session.FromContext(r.Context())
		pg := page.New()
		p, err := svr.Sessions.Profile(r.Context(), sess)
		if err != nil {
			if signedOut(svr, w, r, err) {
				return
			}
			status := failureStatus(svr, err, "unable to load user details")
			pg.Fire(page.LoadFailed, remote.Message(err, "We could not load your profile. Please try again."))
			renderHome(svr, w, r, status, map[string]interface{}{"Page": pg, "Profile": p})
			return
		}
		data := map[string]interface{}{"Page": pg, "Profile": p}
		q := r.URL.Query()
		if !p.IsRegistered {
			pg.Fire(page.LoadedUnregistered, "")
			t := q.Get("type")
			if t == "" && user.ValidType(p.ProfileType) {
				t = p.ProfileType
			}
			if user.ValidType(t) {
				pg.Fire(page.StartEdit, "")
				data["Type"] = t
				data["Form"] = form.MustLookup(t).New(nil)
				data["Action"] = "/profile/" + t
				data["Submit"] = "Create Profile"
			}
			renderHome(svr, w, r, http.StatusOK, data)
			return
		}
		notice := ""
		if q.Get("saved") == "1" {
			notice = profileSaved
		}
		pg.Fire(page.Loaded, notice)
		if q.Get("edit") == "1" && user.ValidType(p.ProfileType) {
			pg.Fire(page.StartEdit, "")
			data["Type"] = p.ProfileType
			data["Form"] = form.MustLookup(p.ProfileType).New(p.Details.Values())
			data["Action"] = "/profile/update"
			data["Submit"] = "Save Profile"
		}
		renderHome(svr, w, r, http.StatusOK, data)
	}
}

// CreateProfileHandler registers the profile of the type in the path and
// refreshes the session's profile copy once it is saved.
func CreateProfileHandler(svr server.Server, userRepo *user.Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		t := mux.Vars(r)["type"]
		if !user.ValidType(t) {
			renderError(svr, w, r, http.StatusNotFound, "Unknown profile type.")
			return
		}
		sess := session.FromContext(r.Context())
		schema := form.MustLookup(t)
		pg := page.New()
		pg.Fire(page.LoadedUnregistered, "")
		data := map[string]interface{}{
			"Page":    pg,
			"Profile": user.Profile{ProfileType: t},
			"Type":    t,
			"Action":  "/profile/" + t,
			"Submit":  "Create Profile",
		}
		f, err := schema.Bind(w, r)
		if err != nil {
			pg.Fire(page.SubmitFailed, "Your profile could not be read. Please try again.")
			data["Form"] = schema.New(nil)
			renderHome(svr, w, r, http.StatusBadRequest, data)
			return
		}
		data["Form"] = f
		if !f.Validate() {
			pg.Fire(page.SubmitInvalid, "")
			renderHome(svr, w, r, http.StatusUnprocessableEntity, data)
			return
		}
		resume, err := resumeUpload(f)
		if err != nil {
			svr.Log(err, "unable to read resume upload")
			pg.Fire(page.SubmitFailed, "Your resume could not be read. Please try again.")
			renderHome(svr, w, r, http.StatusBadRequest, data)
			return
		}
		_, err = svr.Submit(r.Context(), submitKey(r, f), func(ctx context.Context) (interface{}, error) {
			return userRepo.CreateProfile(ctx, sess.Token, t, f.Data(), resume)
		})
		if err != nil {
			if signedOut(svr, w, r, err) {
				return
			}
			status := failureStatus(svr, err, "unable to create profile")
			pg.Fire(page.SubmitFailed, remote.Message(err, "We could not save your profile. Please try again."))
			renderHome(svr, w, r, status, data)
			return
		}
		if _, err := svr.Sessions.Refresh(r.Context(), sess); err != nil {
			if signedOut(svr, w, r, err) {
				return
			}
			svr.Log(err, "unable to refresh profile after create")
		}
		svr.Redirect(w, r, http.StatusSeeOther, "/?saved=1")
	}
}

func UpdateProfileHandler(svr server.Server, userRepo *user.Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := session.FromContext(r.Context())
		p, err := svr.Sessions.Profile(r.Context(), sess)
		if err != nil {
			if signedOut(svr, w, r, err) {
				return
			}
			svr.Log(err, "unable to load user details for update")
			svr.Redirect(w, r, http.StatusSeeOther, "/")
			return
		}
		if !p.IsRegistered || !user.ValidType(p.ProfileType) {
			svr.Redirect(w, r, http.StatusSeeOther, "/")
			return
		}
		schema := form.MustLookup(p.ProfileType)
		pg := page.New()
		pg.Fire(page.Loaded, "")
		pg.Fire(page.StartEdit, "")
		data := map[string]interface{}{
			"Page":    pg,
			"Profile": p,
			"Type":    p.ProfileType,
			"Action":  "/profile/update",
			"Submit":  "Save Profile",
		}
		f, err := schema.Bind(w, r)
		if err != nil {
			pg.Fire(page.SubmitFailed, "Your profile could not be read. Please try again.")
			data["Form"] = schema.New(p.Details.Values())
			renderHome(svr, w, r, http.StatusBadRequest, data)
			return
		}
		data["Form"] = f
		if !f.Validate() {
			pg.Fire(page.SubmitInvalid, "")
			renderHome(svr, w, r, http.StatusUnprocessableEntity, data)
			return
		}
		resume, err := resumeUpload(f)
		if err != nil {
			svr.Log(err, "unable to read resume upload")
			pg.Fire(page.SubmitFailed, "Your resume could not be read. Please try again.")
			renderHome(svr, w, r, http.StatusBadRequest, data)
			return
		}
		_, err = svr.Submit(r.Context(), submitKey(r, f), func(ctx context.Context) (interface{}, error) {
			return userRepo.UpdateProfile(ctx, sess.Token, f.Data(), resume)
		})
		if err != nil {
			if signedOut(svr, w, r, err) {
				return
			}
			status := failureStatus(svr, err, "unable to update profile")
			pg.Fire(page.SubmitFailed, remote.Message(err, "We could not save your profile. Please try again."))
			renderHome(svr, w, r, status, data)
			return
		}
		if _, err := svr.Sessions.Refresh(r.Context(), sess); err != nil {
			if signedOut(svr, w, r, err) {
				return
			}
			svr.Log(err, "unable to refresh profile after update")
		}
		svr.Redirect(w, r, http.StatusSeeOther, "/?saved=1")
	}
}
