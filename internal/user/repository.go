package user

import (
	"context"
	"net/url"

	"github.com/golang-cafe/hireboard/internal/remote"
	"github.com/pkg/errors"
)

type Repository struct {
	api *remote.Client
}

func NewRepository(api *remote.Client) *Repository {
	return &Repository{api}
}

type registerRq struct {
	Username    string `json:"username"`
	Password    string `json:"password"`
	ProfileType string `json:"profileType,omitempty"`
}

type loginRq struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type messageRs struct {
	Message string `json:"message"`
}

func (r *Repository) Register(ctx context.Context, username, password, profileType string) error {
	rq := registerRq{Username: username, Password: password, ProfileType: profileType}
	return r.api.PostJSON(ctx, "/api/register", "", rq, nil)
}

// Login exchanges credentials for a bearer token.
func (r *Repository) Login(ctx context.Context, username, password string) (string, error) {
	res := struct {
		Token string `json:"token"`
	}{}
	if err := r.api.PostJSON(ctx, "/api/login", "", loginRq{username, password}, &res); err != nil {
		return "", err
	}
	if res.Token == "" {
		return "", errors.New("login response carried no token")
	}
	return res.Token, nil
}

// GetUserDetails returns the registration status, profile type and details of
// the token's owner.
func (r *Repository) GetUserDetails(ctx context.Context, token string) (Profile, error) {
	p := Profile{}
	if err := r.api.Get(ctx, "/api/user-details", token, nil, &p); err != nil {
		return Profile{}, err
	}
	return p, nil
}

// CreateProfile registers the profile of the given type. The API answers
// with a human readable message.
func (r *Repository) CreateProfile(ctx context.Context, token, profileType string, fields map[string]string, resume *remote.File) (string, error) {
	if !ValidType(profileType) {
		return "", errors.Errorf("unknown profile type %q", profileType)
	}
	res := messageRs{}
	err := r.api.PostMultipart(ctx, "/api/profile/"+url.PathEscape(profileType), token, fields, files(resume), &res)
	return res.Message, err
}

func (r *Repository) UpdateProfile(ctx context.Context, token string, fields map[string]string, resume *remote.File) (string, error) {
	res := messageRs{}
	err := r.api.PostMultipart(ctx, "/api/update-user", token, fields, files(resume), &res)
	return res.Message, err
}

func files(resume *remote.File) []remote.File {
	if resume == nil {
		return nil
	}
	return []remote.File{*resume}
}
