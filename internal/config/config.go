package config

import (
	"encoding/base64"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/golang-cafe/hireboard/internal/guard"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"
)

type Config struct {
	Port                   string
	Env                    string // either prod or dev, will disable https and few other bits
	SessionKey             []byte
	BackendAPIRootURL      string        // root of the remote job board API, no trailing slash needed
	BackendAPITimeout      time.Duration // per request timeout towards the remote API
	BackendAPIRateLimit    float64       // outbound requests per second, 0 disables pacing
	JobSeekerProfileAccess guard.Requirement
	ProfileStoreTTL        time.Duration // how long a cached profile copy lives
	SiteName               string
	SentryDSN              string
}

// LoadEnvFile loads a .env file from the working directory when there is one.
func LoadEnvFile() error {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return errors.Wrap(err, "unable to load .env file")
	}
	return nil
}

func LoadConfig() (Config, error) {
	port := os.Getenv("PORT")
	if port == "" {
		return Config{}, fmt.Errorf("PORT cannot be empty")
	}
	env := strings.ToLower(os.Getenv("ENV"))
	if env == "" {
		return Config{}, fmt.Errorf("ENV cannot be empty")
	}
	sessionKeyString := os.Getenv("SESSION_KEY")
	if sessionKeyString == "" {
		return Config{}, fmt.Errorf("SESSION_KEY cannot be empty")
	}
	sessionKeyBytes, err := base64.StdEncoding.DecodeString(sessionKeyString)
	if err != nil {
		return Config{}, errors.Wrapf(err, "unable to decode session key to bytes")
	}
	backendAPIRootURL := os.Getenv("BACKEND_API_ROOT_URL")
	if backendAPIRootURL == "" {
		return Config{}, fmt.Errorf("BACKEND_API_ROOT_URL cannot be empty")
	}
	backendAPITimeout := 10 * time.Second
	if v := os.Getenv("BACKEND_API_TIMEOUT"); v != "" {
		backendAPITimeout, err = time.ParseDuration(v)
		if err != nil {
			return Config{}, errors.Wrapf(err, "unable to parse BACKEND_API_TIMEOUT")
		}
	}
	var backendAPIRateLimit float64
	if v := os.Getenv("BACKEND_API_RATE_LIMIT"); v != "" {
		backendAPIRateLimit, err = strconv.ParseFloat(v, 64)
		if err != nil || backendAPIRateLimit < 0 {
			return Config{}, fmt.Errorf("BACKEND_API_RATE_LIMIT must be a non negative number: %q", v)
		}
	}
	jobSeekerProfileAccess, err := guard.ParseAccessPolicy(os.Getenv("JOB_SEEKER_PROFILE_ACCESS"))
	if err != nil {
		return Config{}, err
	}
	profileStoreTTL := 10 * time.Minute
	if v := os.Getenv("PROFILE_STORE_TTL"); v != "" {
		profileStoreTTL, err = time.ParseDuration(v)
		if err != nil {
			return Config{}, errors.Wrapf(err, "unable to parse PROFILE_STORE_TTL")
		}
	}
	siteName := os.Getenv("SITE_NAME")
	if siteName == "" {
		siteName = "Hireboard"
	}

	return Config{
		Port:                   port,
		Env:                    env,
		SessionKey:             sessionKeyBytes,
		BackendAPIRootURL:      backendAPIRootURL,
		BackendAPITimeout:      backendAPITimeout,
		BackendAPIRateLimit:    backendAPIRateLimit,
		JobSeekerProfileAccess: jobSeekerProfileAccess,
		ProfileStoreTTL:        profileStoreTTL,
		SiteName:               siteName,
		SentryDSN:              os.Getenv("SENTRY_DSN"),
	}, nil
}
