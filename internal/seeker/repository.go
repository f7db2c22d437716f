package seeker

import (
	"context"
	"net/url"

	"github.com/golang-cafe/hireboard/internal/remote"
	"github.com/golang-cafe/hireboard/internal/user"
)

type Repository struct {
	api *remote.Client
}

func NewRepository(api *remote.Client) *Repository {
	return &Repository{api}
}

// JobSeekersBySkills lists job seekers, optionally filtered by a skills query.
func (r *Repository) JobSeekersBySkills(ctx context.Context, token, skills string) ([]Summary, error) {
	res := struct {
		JobSeekers []Summary `json:"jobSeekers"`
	}{}
	var q url.Values
	if skills != "" {
		q = url.Values{"skills": {skills}}
	}
	if err := r.api.Get(ctx, "/api/job-seekers", token, q, &res); err != nil {
		return nil, err
	}
	return res.JobSeekers, nil
}

// JobSeekerByUsername returns the public profile of a job seeker. token may be
// empty when the page is served to anonymous visitors.
func (r *Repository) JobSeekerByUsername(ctx context.Context, token, username string) (user.Details, error) {
	res := struct {
		JobSeekerDetails user.Details `json:"jobSeekerDetails"`
	}{}
	if err := r.api.Get(ctx, "/api/job-seeker/"+url.PathEscape(username), token, nil, &res); err != nil {
		return user.Details{}, err
	}
	if res.JobSeekerDetails.Username == "" {
		res.JobSeekerDetails.Username = username
	}
	return res.JobSeekerDetails, nil
}
