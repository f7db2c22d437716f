package handler

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/golang-cafe/hireboard/internal/form"
	"github.com/golang-cafe/hireboard/internal/job"
	"github.com/golang-cafe/hireboard/internal/page"
	"github.com/golang-cafe/hireboard/internal/remote"
	"github.com/golang-cafe/hireboard/internal/server"
	"github.com/golang-cafe/hireboard/internal/session"
	"github.com/gorilla/mux"
	"golang.org/x/sync/errgroup"
)

// loadListings fetches the jobs matching title together with the ids the
// job seeker already applied to.
func loadListings(ctx context.Context, jobRepo *job.Repository, token, title string) ([]job.Job, job.AppliedSet, error) {
	var (
		jobs    []job.Job
		applied job.AppliedSet
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		jobs, err = jobRepo.JobsByTitle(gctx, token, title)
		return err
	})
	g.Go(func() error {
		var err error
		applied, err = jobRepo.AppliedJobs(gctx, token)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return jobs, applied, nil
}

func renderSearchJobs(svr server.Server, w http.ResponseWriter, r *http.Request, status int, pg *page.Machine, title string, listings []job.Listing) {
	svr.Render(w, r, status, "search-jobs.html", map[string]interface{}{
		"Title":    "Search Jobs",
		"Page":     pg,
		"JobTitle": title,
		"Listings": listings,
	})
}

func SearchJobsPageHandler(svr server.Server, jobRepo *job.Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := session.FromContext(r.Context())
		title := strings.TrimSpace(r.URL.Query().Get("job_title"))
		pg := page.New()
		jobs, applied, err := loadListings(r.Context(), jobRepo, sess.Token, title)
		if err != nil {
			if signedOut(svr, w, r, err) {
				return
			}
			status := failureStatus(svr, err, "unable to load jobs")
			pg.Fire(page.LoadFailed, remote.Message(err, "We could not load jobs. Please try again."))
			renderSearchJobs(svr, w, r, status, pg, title, nil)
			return
		}
		pg.Fire(page.Loaded, "")
		renderSearchJobs(svr, w, r, http.StatusOK, pg, title, job.Listings(jobs, applied))
	}
}

// ApplyForJobHandler applies the job seeker to a job and renders the search
// results again. The applied id is merged locally so the job shows as
// applied even before the API's list catches up.
func ApplyForJobHandler(svr server.Server, jobRepo *job.Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := session.FromContext(r.Context())
		if err := r.ParseForm(); err != nil {
			renderError(svr, w, r, http.StatusBadRequest, "Your application could not be read.")
			return
		}
		id := remote.Value(strings.TrimSpace(r.PostForm.Get("jobId")))
		title := strings.TrimSpace(r.PostForm.Get("job_title"))
		if id == "" {
			svr.Redirect(w, r, http.StatusSeeOther, "/search-jobs")
			return
		}
		key := submitKey(r, nil) + "|" + id.String()
		_, applyErr := svr.Submit(r.Context(), key, func(ctx context.Context) (interface{}, error) {
			return nil, jobRepo.ApplyForJob(ctx, sess.Token, id)
		})
		if applyErr != nil && signedOut(svr, w, r, applyErr) {
			return
		}
		pg := page.New()
		jobs, applied, err := loadListings(r.Context(), jobRepo, sess.Token, title)
		if err != nil {
			if signedOut(svr, w, r, err) {
				return
			}
			status := failureStatus(svr, err, "unable to load jobs after apply")
			pg.Fire(page.LoadFailed, remote.Message(err, "We could not load jobs. Please try again."))
			renderSearchJobs(svr, w, r, status, pg, title, nil)
			return
		}
		status := http.StatusOK
		notice := "Your application has been submitted."
		if applyErr != nil {
			status = failureStatus(svr, applyErr, "unable to apply for job")
			notice = remote.Message(applyErr, "We could not submit your application. Please try again.")
		} else {
			applied.Add(id)
		}
		pg.Fire(page.Loaded, notice)
		renderSearchJobs(svr, w, r, status, pg, title, job.Listings(jobs, applied))
	}
}

func jobRequest(f *form.Form) job.JobRq {
	budget, _ := strconv.ParseFloat(f.Value("budget"), 64)
	duration, _ := strconv.ParseFloat(f.Value("duration"), 64)
	return job.JobRq{
		JobTitle:       f.Value("jobTitle"),
		JobDescription: f.Value("jobDescription"),
		Tags:           f.Value("tags"),
		Budget:         budget,
		Duration:       duration,
	}
}

func renderPostJob(svr server.Server, w http.ResponseWriter, r *http.Request, status int, pg *page.Machine, jobs []job.Job, f *form.Form) {
	data := map[string]interface{}{
		"Title":  "Your Jobs",
		"Page":   pg,
		"Jobs":   jobs,
		"Action": "/post-job",
		"Submit": "Post Job",
	}
	if f != nil {
		data["Form"] = f
	}
	svr.Render(w, r, status, "post-job.html", data)
}

// PostJobPageHandler lists the employer's jobs; ?new=1 opens the job form.
func PostJobPageHandler(svr server.Server, jobRepo *job.Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := session.FromContext(r.Context())
		pg := page.New()
		jobs, err := jobRepo.JobsForUser(r.Context(), sess.Token)
		if err != nil {
			if signedOut(svr, w, r, err) {
				return
			}
			status := failureStatus(svr, err, "unable to load jobs for user")
			pg.Fire(page.LoadFailed, remote.Message(err, "We could not load your jobs. Please try again."))
			renderPostJob(svr, w, r, status, pg, nil, nil)
			return
		}
		notice := ""
		if r.URL.Query().Get("saved") == "1" {
			notice = "Your job has been saved."
		}
		pg.Fire(page.Loaded, notice)
		var f *form.Form
		if r.URL.Query().Get("new") == "1" {
			pg.Fire(page.StartEdit, "")
			f = form.MustLookup(form.Job).New(nil)
		}
		renderPostJob(svr, w, r, http.StatusOK, pg, jobs, f)
	}
}

func SaveJobHandler(svr server.Server, jobRepo *job.Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := session.FromContext(r.Context())
		schema := form.MustLookup(form.Job)
		pg := page.New()
		pg.Fire(page.Loaded, "")
		pg.Fire(page.StartEdit, "")
		f, err := schema.Bind(w, r)
		if err != nil {
			pg.Fire(page.SubmitFailed, "Your job could not be read. Please try again.")
			renderPostJob(svr, w, r, http.StatusBadRequest, pg, nil, schema.New(nil))
			return
		}
		if !f.Validate() {
			pg.Fire(page.SubmitInvalid, "")
			jobs, err := jobRepo.JobsForUser(r.Context(), sess.Token)
			if err != nil && signedOut(svr, w, r, err) {
				return
			}
			renderPostJob(svr, w, r, http.StatusUnprocessableEntity, pg, jobs, f)
			return
		}
		_, err = svr.Submit(r.Context(), submitKey(r, f), func(ctx context.Context) (interface{}, error) {
			return nil, jobRepo.SaveJob(ctx, sess.Token, jobRequest(f))
		})
		if err != nil {
			if signedOut(svr, w, r, err) {
				return
			}
			status := failureStatus(svr, err, "unable to save job")
			pg.Fire(page.SubmitFailed, remote.Message(err, "We could not save your job. Please try again."))
			renderPostJob(svr, w, r, status, pg, nil, f)
			return
		}
		svr.Redirect(w, r, http.StatusSeeOther, "/post-job?saved=1")
	}
}

func renderJobDetail(svr server.Server, w http.ResponseWriter, r *http.Request, status int, pg *page.Machine, j job.Job, f *form.Form) {
	data := map[string]interface{}{
		"Title":  j.Title,
		"Page":   pg,
		"Job":    j,
		"Action": "/jobs/" + j.ID.String(),
		"Submit": "Save Job",
	}
	if f != nil {
		data["Form"] = f
	}
	svr.Render(w, r, status, "job-detail.html", data)
}

// JobDetailPageHandler shows one of the employer's jobs; ?edit=1 opens the
// edit form.
func JobDetailPageHandler(svr server.Server, jobRepo *job.Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := session.FromContext(r.Context())
		id := mux.Vars(r)["id"]
		pg := page.New()
		j, err := jobRepo.JobByID(r.Context(), sess.Token, id)
		if err != nil {
			if signedOut(svr, w, r, err) {
				return
			}
			if remote.IsNotFound(err) {
				renderError(svr, w, r, http.StatusNotFound, "This job does not exist.")
				return
			}
			status := failureStatus(svr, err, "unable to load job")
			pg.Fire(page.LoadFailed, remote.Message(err, "We could not load this job. Please try again."))
			renderJobDetail(svr, w, r, status, pg, job.Job{ID: remote.Value(id)}, nil)
			return
		}
		if j.ID == "" {
			j.ID = remote.Value(id)
		}
		pg.Fire(page.Loaded, "")
		var f *form.Form
		if r.URL.Query().Get("edit") == "1" {
			pg.Fire(page.StartEdit, "")
			f = form.MustLookup(form.Job).New(j.Values())
		}
		renderJobDetail(svr, w, r, http.StatusOK, pg, j, f)
	}
}

func UpdateJobHandler(svr server.Server, jobRepo *job.Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := session.FromContext(r.Context())
		id := mux.Vars(r)["id"]
		schema := form.MustLookup(form.Job)
		pg := page.New()
		pg.Fire(page.Loaded, "")
		pg.Fire(page.StartEdit, "")
		j := job.Job{ID: remote.Value(id)}
		f, err := schema.Bind(w, r)
		if err != nil {
			pg.Fire(page.SubmitFailed, "Your job could not be read. Please try again.")
			renderJobDetail(svr, w, r, http.StatusBadRequest, pg, j, schema.New(nil))
			return
		}
		j.Title = f.Value("jobTitle")
		if !f.Validate() {
			pg.Fire(page.SubmitInvalid, "")
			renderJobDetail(svr, w, r, http.StatusUnprocessableEntity, pg, j, f)
			return
		}
		_, err = svr.Submit(r.Context(), submitKey(r, f), func(ctx context.Context) (interface{}, error) {
			return nil, jobRepo.UpdateJob(ctx, sess.Token, id, jobRequest(f))
		})
		if err != nil {
			if signedOut(svr, w, r, err) {
				return
			}
			status := failureStatus(svr, err, "unable to update job")
			pg.Fire(page.SubmitFailed, remote.Message(err, "We could not save this job. Please try again."))
			renderJobDetail(svr, w, r, status, pg, j, f)
			return
		}
		svr.Redirect(w, r, http.StatusSeeOther, "/post-job?saved=1")
	}
}
