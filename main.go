package main

import (
	"log"

	"github.com/golang-cafe/hireboard/internal/config"
	"github.com/golang-cafe/hireboard/internal/guard"
	"github.com/golang-cafe/hireboard/internal/handler"
	"github.com/golang-cafe/hireboard/internal/job"
	"github.com/golang-cafe/hireboard/internal/remote"
	"github.com/golang-cafe/hireboard/internal/seeker"
	"github.com/golang-cafe/hireboard/internal/server"
	"github.com/golang-cafe/hireboard/internal/session"
	"github.com/golang-cafe/hireboard/internal/template"
	"github.com/golang-cafe/hireboard/internal/user"

	"github.com/gorilla/mux"
	"github.com/gorilla/sessions"
)

func main() {
	if err := config.LoadEnvFile(); err != nil {
		log.Fatalf("unable to load env file: %+v", err)
	}
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("unable to load config: %+v", err)
	}
	api, err := remote.NewClient(cfg.BackendAPIRootURL, cfg.BackendAPITimeout, cfg.BackendAPIRateLimit, nil)
	if err != nil {
		log.Fatalf("unable to create backend api client: %+v", err)
	}
	tmpl, err := template.NewTemplate(template.Views)
	if err != nil {
		log.Fatalf("unable to parse templates: %+v", err)
	}
	profiles, err := session.NewProfileStore(cfg.ProfileStoreTTL)
	if err != nil {
		log.Fatalf("unable to create profile store: %+v", err)
	}
	defer profiles.Close()
	tbl, err := guard.New(guard.DefaultRules(cfg.JobSeekerProfileAccess))
	if err != nil {
		log.Fatalf("unable to build route guard: %+v", err)
	}

	userRepo := user.NewRepository(api)
	jobRepo := job.NewRepository(api)
	seekerRepo := seeker.NewRepository(api)

	sessionStore := sessions.NewCookieStore(cfg.SessionKey)
	sessionStore.Options.HttpOnly = true
	sessionStore.Options.Secure = cfg.Env != "dev"

	svr := server.NewServer(
		cfg,
		mux.NewRouter(),
		tmpl,
		session.NewHolder(sessionStore, profiles, userRepo),
		tbl,
	)

	handler.RegisterRoutes(svr, userRepo, jobRepo, seekerRepo)

	log.Fatal(svr.Run())
}
