package target

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/NoodlesKamiSama/reap/internal/obs"
)

// pageTemplates holds every HTML page the stand-in serves. Selectors and the
// red .form-error style mirror what the UI scenarios look for on the real
// target, so the same playwright code drives both.
const pageTemplates = `
{{define "layout_head"}}<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
body { font-family: sans-serif; max-width: 28rem; margin: 3rem auto; }
label { display: block; margin-top: 0.75rem; }
input { width: 100%; padding: 0.4rem; }
button { margin-top: 1rem; padding: 0.5rem 1.25rem; }
.form-error { color: #c0392b; font-weight: bold; }
.flash-success { color: #27ae60; }
</style>
</head>
<body>
{{end}}

{{define "signup"}}{{template "layout_head" .}}
<h1>Create your account</h1>
{{if .Error}}<p class="form-error" role="alert">{{.Error}}</p>{{end}}
<form method="post" action="/signup" id="signup-form">
  <label>Email <input type="email" name="email" value="{{.Email}}"></label>
  <label>Password <input type="password" name="password"></label>
  <label>Confirm password <input type="password" name="confirm_password"></label>
  <label>First name <input type="text" name="first_name" value="{{.FirstName}}"></label>
  <label>Last name <input type="text" name="last_name" value="{{.LastName}}"></label>
  <label>Company <input type="text" name="company" value="{{.Company}}"></label>
  <label>Phone <input type="tel" name="phone" value="{{.Phone}}"></label>
  <label><input type="checkbox" name="terms" style="width:auto"> I accept the terms</label>
  <button type="submit">Create account</button>
</form>
<p><a href="/login">Already have an account? Log in</a></p>
</body></html>{{end}}

{{define "login"}}{{template "layout_head" .}}
<h1>Log in</h1>
{{if .Error}}<p class="form-error" role="alert">{{.Error}}</p>{{end}}
<form method="post" action="/login" id="login-form">
  <label>Email <input type="email" name="email" value="{{.Email}}"></label>
  <label>Password <input type="password" name="password"></label>
  <button type="submit">Log in</button>
</form>
<p><a href="/signup">Need an account? Sign up</a></p>
</body></html>{{end}}

{{define "welcome"}}{{template "layout_head" .}}
<h1>Welcome{{if .FirstName}}, {{.FirstName}}{{end}}</h1>
{{if .Created}}<p class="flash-success" id="signup-success">Your account has been created.</p>{{end}}
<p id="welcome-message">You are signed in as {{.Email}}.</p>
</body></html>{{end}}
`

type pageData struct {
	Title     string
	Error     string
	Email     string
	FirstName string
	LastName  string
	Company   string
	Phone     string
	Created   bool
}

func (s *Server) render(w http.ResponseWriter, status int, page string, data pageData) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := s.tmpl.ExecuteTemplate(w, page, data); err != nil {
		obs.Pkg("target").Error("render page failed", "page", page, "error", err)
	}
}

func (s *Server) handleSignupPage(w http.ResponseWriter, r *http.Request) {
	s.render(w, http.StatusOK, "signup", pageData{Title: "Create account"})
}

func (s *Server) handleSignupSubmit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		s.render(w, http.StatusBadRequest, "signup", pageData{Title: "Create account", Error: "Invalid form submission."})
		return
	}

	data := pageData{
		Title:     "Create account",
		Email:     r.PostFormValue("email"),
		FirstName: r.PostFormValue("first_name"),
		LastName:  r.PostFormValue("last_name"),
		Company:   r.PostFormValue("company"),
		Phone:     r.PostFormValue("phone"),
	}
	password := r.PostFormValue("password")
	confirm := r.PostFormValue("confirm_password")

	switch {
	case validateUserName(data.Email) != "" || !looksLikeEmail(data.Email):
		data.Error = "Please enter a valid email address."
	case validatePassword(password) != "":
		data.Error = "Password must be at least 8 characters with upper, lower, digit, and special characters."
	case password != confirm:
		data.Error = "Passwords do not match."
	case r.PostFormValue("terms") == "":
		data.Error = "You must accept the terms to continue."
	}
	if data.Error != "" {
		s.render(w, http.StatusOK, "signup", data)
		return
	}

	_, err := s.store.Create(data.Email, password, data.FirstName, data.LastName, data.Company, data.Phone)
	if err == ErrDuplicate {
		data.Error = "An account with this email already exists."
		s.render(w, http.StatusOK, "signup", data)
		return
	}
	if err != nil {
		data.Error = "Something went wrong. Please try again."
		s.render(w, http.StatusInternalServerError, "signup", data)
		return
	}

	q := url.Values{"created": {"1"}, "email": {data.Email}, "name": {data.FirstName}}
	http.Redirect(w, r, "/welcome?"+q.Encode(), http.StatusSeeOther)
}

// looksLikeEmail is the browser-form email check. Far short of RFC 5322, and
// deliberately so: the form only needs to reject obviously broken input.
func looksLikeEmail(email string) bool {
	at := strings.Index(email, "@")
	if at < 1 || at == len(email)-1 {
		return false
	}
	return strings.Contains(email[at+1:], ".")
}

func (s *Server) handleLoginPage(w http.ResponseWriter, r *http.Request) {
	s.render(w, http.StatusOK, "login", pageData{Title: "Log in"})
}

func (s *Server) handleLoginSubmit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		s.render(w, http.StatusBadRequest, "login", pageData{Title: "Log in", Error: "Invalid form submission."})
		return
	}

	email := r.PostFormValue("email")
	account, err := s.store.Authenticate(email, r.PostFormValue("password"))
	if err != nil {
		s.render(w, http.StatusOK, "login", pageData{
			Title: "Log in",
			Email: email,
			Error: "Invalid email or password.",
		})
		return
	}

	q := url.Values{"email": {account.UserName}, "name": {account.FirstName}}
	http.Redirect(w, r, "/welcome?"+q.Encode(), http.StatusSeeOther)
}

func (s *Server) handleWelcome(w http.ResponseWriter, r *http.Request) {
	s.render(w, http.StatusOK, "welcome", pageData{
		Title:     "Welcome",
		Email:     r.URL.Query().Get("email"),
		FirstName: r.URL.Query().Get("name"),
		Created:   r.URL.Query().Get("created") == "1",
	})
}
