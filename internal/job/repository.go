package job

import (
	"context"
	"net/url"

	"github.com/golang-cafe/hireboard/internal/remote"
)

type Repository struct {
	api *remote.Client
}

func NewRepository(api *remote.Client) *Repository {
	return &Repository{api}
}

// JobsByTitle lists open jobs, filtered by title when title is not empty.
func (r *Repository) JobsByTitle(ctx context.Context, token, title string) ([]Job, error) {
	res := struct {
		Jobs []Job `json:"jobs"`
	}{}
	q := url.Values{}
	q.Set("job_title", title)
	if err := r.api.Get(ctx, "/api/jobs", token, q, &res); err != nil {
		return nil, err
	}
	return res.Jobs, nil
}

func (r *Repository) JobByID(ctx context.Context, token, id string) (Job, error) {
	res := struct {
		Job Job `json:"job"`
	}{}
	if err := r.api.Get(ctx, "/api/jobs/"+url.PathEscape(id), token, nil, &res); err != nil {
		return Job{}, err
	}
	return res.Job, nil
}

func (r *Repository) UpdateJob(ctx context.Context, token, id string, rq JobRq) error {
	return r.api.PutJSON(ctx, "/api/jobs/"+url.PathEscape(id), token, rq, nil)
}

// JobsForUser lists the jobs posted by the signed in employer.
func (r *Repository) JobsForUser(ctx context.Context, token string) ([]Job, error) {
	res := struct {
		Jobs []Job `json:"jobs"`
	}{}
	if err := r.api.Get(ctx, "/api/jobs_for_user", token, nil, &res); err != nil {
		return nil, err
	}
	return res.Jobs, nil
}

func (r *Repository) SaveJob(ctx context.Context, token string, rq JobRq) error {
	return r.api.PostJSON(ctx, "/api/jobs_for_user", token, rq, nil)
}

func (r *Repository) AppliedJobs(ctx context.Context, token string) (AppliedSet, error) {
	res := struct {
		AppliedJobs []remote.Value `json:"appliedJobs"`
	}{}
	if err := r.api.Get(ctx, "/api/applied-jobs", token, nil, &res); err != nil {
		return nil, err
	}
	return NewAppliedSet(res.AppliedJobs), nil
}

func (r *Repository) ApplyForJob(ctx context.Context, token string, id remote.Value) error {
	rq := struct {
		JobID remote.Value `json:"jobId"`
	}{id}
	return r.api.PostJSON(ctx, "/api/apply-job", token, rq, nil)
}
