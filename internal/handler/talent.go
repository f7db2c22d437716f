package handler

import (
	"net/http"
	"strings"

	"github.com/golang-cafe/hireboard/internal/page"
	"github.com/golang-cafe/hireboard/internal/remote"
	"github.com/golang-cafe/hireboard/internal/seeker"
	"github.com/golang-cafe/hireboard/internal/server"
	"github.com/golang-cafe/hireboard/internal/session"
	"github.com/gorilla/mux"
)

func SearchTalentPageHandler(svr server.Server, seekerRepo *seeker.Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := session.FromContext(r.Context())
		skills := strings.TrimSpace(r.URL.Query().Get("skills"))
		pg := page.New()
		data := map[string]interface{}{
			"Title":  "Search Talent",
			"Page":   pg,
			"Skills": skills,
		}
		seekers, err := seekerRepo.JobSeekersBySkills(r.Context(), sess.Token, skills)
		if err != nil {
			if signedOut(svr, w, r, err) {
				return
			}
			status := failureStatus(svr, err, "unable to search job seekers")
			pg.Fire(page.LoadFailed, remote.Message(err, "We could not search job seekers. Please try again."))
			svr.Render(w, r, status, "search-talent.html", data)
			return
		}
		pg.Fire(page.Loaded, "")
		data["Seekers"] = seekers
		svr.Render(w, r, http.StatusOK, "search-talent.html", data)
	}
}

// JobSeekerProfilePageHandler shows a job seeker's public profile. Who may
// see it is decided by the route table.
func JobSeekerProfilePageHandler(svr server.Server, seekerRepo *seeker.Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := session.FromContext(r.Context())
		username := mux.Vars(r)["username"]
		pg := page.New()
		data := map[string]interface{}{
			"Title": username,
			"Page":  pg,
		}
		details, err := seekerRepo.JobSeekerByUsername(r.Context(), sess.Token, username)
		if err != nil {
			if signedOut(svr, w, r, err) {
				return
			}
			if remote.IsNotFound(err) {
				renderError(svr, w, r, http.StatusNotFound, "This job seeker does not exist.")
				return
			}
			status := failureStatus(svr, err, "unable to load job seeker profile")
			pg.Fire(page.LoadFailed, remote.Message(err, "We could not load this profile. Please try again."))
			svr.Render(w, r, status, "job-seeker-profile.html", data)
			return
		}
		pg.Fire(page.Loaded, "")
		data["Details"] = details
		svr.Render(w, r, http.StatusOK, "job-seeker-profile.html", data)
	}
}
