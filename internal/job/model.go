package job

import (
	"strings"

	"github.com/golang-cafe/hireboard/internal/remote"
)

type Job struct {
	ID          remote.Value `json:"job_id"`
	Title       string       `json:"job_title"`
	Description string       `json:"job_description"`
	Tags        string       `json:"tags"`
	Budget      remote.Value `json:"budget"`
	Duration    remote.Value `json:"duration"`
}

// JobRq is the body for creating or updating a job posting.
type JobRq struct {
	JobTitle       string  `json:"jobTitle"`
	JobDescription string  `json:"jobDescription"`
	Tags           string  `json:"tags"`
	Budget         float64 `json:"budget"`
	Duration       float64 `json:"duration"`
}

func (j Job) TagList() []string {
	tags := make([]string, 0)
	for _, t := range strings.Split(j.Tags, ",") {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}

// Values returns the job keyed by form field name.
func (j Job) Values() map[string]string {
	return map[string]string{
		"jobTitle":       j.Title,
		"jobDescription": j.Description,
		"tags":           j.Tags,
		"budget":         j.Budget.String(),
		"duration":       j.Duration.String(),
	}
}

// AppliedSet tracks the job ids the current job seeker applied to.
type AppliedSet map[remote.Value]struct{}

func NewAppliedSet(ids []remote.Value) AppliedSet {
	s := make(AppliedSet, len(ids))
	for _, id := range ids {
		s.Add(id)
	}
	return s
}

func (s AppliedSet) Add(id remote.Value) {
	s[id] = struct{}{}
}

func (s AppliedSet) Has(id remote.Value) bool {
	_, ok := s[id]
	return ok
}

// Listing is a job as shown to a job seeker, with its application state.
type Listing struct {
	Job
	Applied bool
}

func Listings(jobs []Job, applied AppliedSet) []Listing {
	out := make([]Listing, 0, len(jobs))
	for _, j := range jobs {
		out = append(out, Listing{Job: j, Applied: applied.Has(j.ID)})
	}
	return out
}
