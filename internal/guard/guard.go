// Package guard decides, from a declarative table, whether a viewer may see a
// page and where to send them when they may not.
package guard

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/golang-cafe/hireboard/internal/user"
	"github.com/gorilla/mux"
	"github.com/pkg/errors"
)

type Requirement int

const (
	Anyone Requirement = iota
	Anonymous
	Authenticated
	Employer
	JobSeeker
)

func (r Requirement) String() string {
	switch r {
	case Anonymous:
		return "anonymous"
	case Authenticated:
		return "authenticated"
	case Employer:
		return "employer"
	case JobSeeker:
		return "jobSeeker"
	}
	return "anyone"
}

const (
	LoginPath = "/login"
	HomePath  = "/"
)

// ParseAccessPolicy maps the job seeker profile access setting to a
// requirement. The empty string means public.
func ParseAccessPolicy(v string) (Requirement, error) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "", "public":
		return Anyone, nil
	case "authenticated":
		return Authenticated, nil
	case "employer":
		return Employer, nil
	}
	return Anyone, errors.Errorf("unknown job seeker profile access policy %q", v)
}

type Rule struct {
	Pattern string
	Prefix  bool
	Require Requirement
}

// DefaultRules is the site's route table. seekerProfile is the policy of the
// public job seeker profile page.
func DefaultRules(seekerProfile Requirement) []Rule {
	return []Rule{
		{Pattern: "/", Require: Authenticated},
		{Pattern: "/register", Require: Anonymous},
		{Pattern: "/login", Require: Anonymous},
		{Pattern: "/logout", Require: Authenticated},
		{Pattern: "/profile/", Prefix: true, Require: Authenticated},
		{Pattern: "/search-jobs", Require: JobSeeker},
		{Pattern: "/x/apply", Require: JobSeeker},
		{Pattern: "/search-talent", Require: Employer},
		{Pattern: "/post-job", Require: Employer},
		{Pattern: "/jobs/{id}", Require: Employer},
		{Pattern: "/job-seeker/{username}", Require: seekerProfile},
	}
}

type Viewer struct {
	LoggedIn    bool
	ProfileType string
}

type Decision struct {
	Allowed  bool
	Redirect string
}

type entry struct {
	Rule
	route *mux.Route
}

type Table struct {
	entries []entry
}

func New(rules []Rule) (*Table, error) {
	router := mux.NewRouter()
	t := &Table{entries: make([]entry, 0, len(rules))}
	for _, rule := range rules {
		route := router.NewRoute()
		if rule.Prefix {
			route = route.PathPrefix(rule.Pattern)
		} else {
			route = route.Path(rule.Pattern)
		}
		if err := route.GetError(); err != nil {
			return nil, errors.Wrapf(err, "invalid guard pattern %s", rule.Pattern)
		}
		t.entries = append(t.entries, entry{Rule: rule, route: route})
	}
	return t, nil
}

// Match returns the first rule whose pattern matches path.
func (t *Table) Match(path string) (Rule, bool) {
	req := &http.Request{Method: http.MethodGet, URL: &url.URL{Path: path}}
	for _, e := range t.entries {
		if e.route.Match(req, &mux.RouteMatch{}) {
			return e.Rule, true
		}
	}
	return Rule{}, false
}

// Resolve applies the table to path for v. Paths with no rule are allowed.
// Anonymous viewers failing a guard go to the login page in one hop; signed
// in viewers go home.
func (t *Table) Resolve(path string, v Viewer) Decision {
	rule, ok := t.Match(path)
	if !ok {
		return Decision{Allowed: true}
	}
	switch rule.Require {
	case Anonymous:
		if v.LoggedIn {
			return Decision{Redirect: HomePath}
		}
	case Authenticated:
		if !v.LoggedIn {
			return Decision{Redirect: LoginPath}
		}
	case Employer, JobSeeker:
		if !v.LoggedIn {
			return Decision{Redirect: LoginPath}
		}
		if v.ProfileType != profileType(rule.Require) {
			return Decision{Redirect: HomePath}
		}
	}
	return Decision{Allowed: true}
}

// NeedsProfile reports whether resolving path for a signed in viewer depends
// on the profile type.
func (t *Table) NeedsProfile(path string) bool {
	rule, ok := t.Match(path)
	return ok && (rule.Require == Employer || rule.Require == JobSeeker)
}

func profileType(r Requirement) string {
	if r == Employer {
		return user.TypeEmployer
	}
	return user.TypeJobSeeker
}
