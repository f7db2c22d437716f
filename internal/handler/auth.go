package handler

import (
	"context"
	"net/http"

	"github.com/golang-cafe/hireboard/internal/form"
	"github.com/golang-cafe/hireboard/internal/remote"
	"github.com/golang-cafe/hireboard/internal/server"
	"github.com/golang-cafe/hireboard/internal/user"
)

func renderRegister(svr server.Server, w http.ResponseWriter, r *http.Request, status int, f *form.Form, notice string) {
	svr.Render(w, r, status, "register.html", map[string]interface{}{
		"Title":  "Register",
		"Form":   f,
		"Action": "/register",
		"Submit": "Register",
		"Notice": notice,
	})
}

func renderLogin(svr server.Server, w http.ResponseWriter, r *http.Request, status int, f *form.Form, notice string) {
	svr.Render(w, r, status, "login.html", map[string]interface{}{
		"Title":  "Login",
		"Form":   f,
		"Action": "/login",
		"Submit": "Login",
		"Notice": notice,
	})
}

func GetRegisterPageHandler(svr server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		renderRegister(svr, w, r, http.StatusOK, form.MustLookup(form.Register).New(nil), "")
	}
}

func PostRegisterPageHandler(svr server.Server, userRepo *user.Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		schema := form.MustLookup(form.Register)
		f, err := schema.Bind(w, r)
		if err != nil {
			renderRegister(svr, w, r, http.StatusBadRequest, schema.New(nil), "Your registration could not be read. Please try again.")
			return
		}
		if !f.Validate() {
			renderRegister(svr, w, r, http.StatusUnprocessableEntity, f, "")
			return
		}
		_, err = svr.Submit(r.Context(), submitKey(r, f), func(ctx context.Context) (interface{}, error) {
			return nil, userRepo.Register(ctx, f.Value("username"), f.Value("password"), f.Value("profileType"))
		})
		if err != nil {
			status := failureStatus(svr, err, "unable to register user")
			renderRegister(svr, w, r, status, f, remote.Message(err, "Registration failed. Please try again."))
			return
		}
		svr.Redirect(w, r, http.StatusSeeOther, "/login?registered=1")
	}
}

func GetLoginPageHandler(svr server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		notice := ""
		if r.URL.Query().Get("registered") == "1" {
			notice = "Registration successful. Please log in."
		}
		renderLogin(svr, w, r, http.StatusOK, form.MustLookup(form.Login).New(nil), notice)
	}
}

func PostLoginPageHandler(svr server.Server, userRepo *user.Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		schema := form.MustLookup(form.Login)
		f, err := schema.Bind(w, r)
		if err != nil {
			renderLogin(svr, w, r, http.StatusBadRequest, schema.New(nil), "Your login could not be read. Please try again.")
			return
		}
		if !f.Validate() {
			renderLogin(svr, w, r, http.StatusUnprocessableEntity, f, "")
			return
		}
		token, err := svr.Submit(r.Context(), submitKey(r, f), func(ctx context.Context) (interface{}, error) {
			return userRepo.Login(ctx, f.Value("username"), f.Value("password"))
		})
		if err != nil {
			status := failureStatus(svr, err, "unable to log in")
			renderLogin(svr, w, r, status, f, remote.Message(err, "Login failed. Please check your username and password."))
			return
		}
		if _, err := svr.Sessions.Login(w, r, token.(string)); err != nil {
			svr.Log(err, "unable to save session")
			renderLogin(svr, w, r, http.StatusInternalServerError, f, "Login failed. Please try again.")
			return
		}
		svr.Redirect(w, r, http.StatusSeeOther, "/")
	}
}

func PostLogoutPageHandler(svr server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := svr.Sessions.Logout(w, r); err != nil {
			svr.Log(err, "unable to clear session on logout")
		}
		svr.Redirect(w, r, http.StatusSeeOther, "/login")
	}
}
