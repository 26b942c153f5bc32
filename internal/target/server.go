// Package target is the suite's hermetic stand-in for the third-party
// sign-up/login application. It serves the same surface the real target
// exposes: HTML registration and login forms with red validation errors, and
// a JSON user-account API with partial, probe-worthy validation behavior.
// Tests and the CLI's self-test mode run against it so the suite is fully
// exercisable without network access to anyone else's system.
package target

import (
	"encoding/json"
	"fmt"
	"html/template"
	"net"
	"net/http"
	"strings"
	"unicode"

	"github.com/NoodlesKamiSama/reap/internal/obs"
)

// Server hosts the stand-in application. Wire it into an httptest.Server or
// a real listener via Handler.
type Server struct {
	store   *accountStore
	limiter *clientLimiter
	tmpl    *template.Template
	mux     *http.ServeMux
}

// NewServer builds a stand-in with the given rate limiting. A zero config
// uses DefaultRateLimitConfig.
func NewServer(rl RateLimitConfig) *Server {
	if rl.RPS == 0 {
		rl = DefaultRateLimitConfig
	}
	s := &Server{
		store:   newAccountStore(),
		limiter: newClientLimiter(rl),
		tmpl:    template.Must(template.New("pages").Parse(pageTemplates)),
		mux:     http.NewServeMux(),
	}
	s.registerRoutes()
	return s
}

// Handler returns the stand-in's root handler.
func (s *Server) Handler() http.Handler {
	return s.mux
}

// Close stops background goroutines.
func (s *Server) Close() {
	s.limiter.Stop()
}

// Accounts returns the number of registered accounts, for test assertions.
func (s *Server) Accounts() int {
	return s.store.Len()
}

func (s *Server) registerRoutes() {
	s.mux.HandleFunc("GET /health", s.handleHealth)

	// HTML surface
	s.mux.HandleFunc("GET /signup", s.handleSignupPage)
	s.mux.HandleFunc("POST /signup", s.handleSignupSubmit)
	s.mux.HandleFunc("GET /login", s.handleLoginPage)
	s.mux.HandleFunc("POST /login", s.handleLoginSubmit)
	s.mux.HandleFunc("GET /welcome", s.handleWelcome)

	// JSON API surface
	s.mux.HandleFunc("POST /api/users", s.rateLimited(s.handleCreateUser))
	s.mux.HandleFunc("GET /api/users/{id}", s.rateLimited(s.handleGetUser))
	s.mux.HandleFunc("POST /api/login", s.rateLimited(s.handleAPILogin))
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"healthy"}`))
}

// =============================================================================
// Rate limiting
// =============================================================================

func (s *Server) rateLimited(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !s.limiter.Allow(clientKey(r)) {
			w.Header().Set("Content-Type", "application/json")
			w.Header().Set("Retry-After", "1")
			w.WriteHeader(http.StatusTooManyRequests)
			w.Write([]byte(`{"error":"rate_limited","message":"too many requests"}`))
			return
		}
		next(w, r)
	}
}

func clientKey(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// =============================================================================
// JSON API
// =============================================================================

type createUserRequest struct {
	UserName  any `json:"userName"`
	Password  any `json:"password"`
	FirstName any `json:"firstName"`
	LastName  any `json:"lastName"`
	Company   any `json:"company"`
	Phone     any `json:"phone"`
}

func (s *Server) handleCreateUser(w http.ResponseWriter, r *http.Request) {
	var req createUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "malformed_json", err.Error())
		return
	}

	userName, userNameOK := req.UserName.(string)
	password, passwordOK := req.Password.(string)

	fieldErrors := map[string]string{}
	switch {
	case req.UserName == nil:
		fieldErrors["userName"] = "userName is required"
	case !userNameOK:
		fieldErrors["userName"] = "userName must be a string"
	default:
		if msg := validateUserName(userName); msg != "" {
			fieldErrors["userName"] = msg
		}
	}
	switch {
	case req.Password == nil:
		fieldErrors["password"] = "password is required"
	case !passwordOK:
		fieldErrors["password"] = "password must be a string"
	default:
		if msg := validatePassword(password); msg != "" {
			fieldErrors["password"] = msg
		}
	}

	if len(fieldErrors) > 0 {
		writeValidationError(w, fieldErrors)
		return
	}

	account, err := s.store.Create(userName, password,
		stringOr(req.FirstName), stringOr(req.LastName), stringOr(req.Company), stringOr(req.Phone))
	if err == ErrDuplicate {
		writeJSONError(w, http.StatusConflict, "duplicate_user", "user name already registered")
		return
	}
	if err != nil {
		writeJSONError(w, http.StatusInternalServerError, "internal", "account creation failed")
		return
	}

	obs.Pkg("target").Info("account created", "id", account.ID)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(account)
}

func (s *Server) handleGetUser(w http.ResponseWriter, r *http.Request) {
	account := s.store.Get(r.PathValue("id"))
	if account == nil {
		writeJSONError(w, http.StatusNotFound, "not_found", "no such user")
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(account)
}

func (s *Server) handleAPILogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		UserName string `json:"userName"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "malformed_json", err.Error())
		return
	}
	account, err := s.store.Authenticate(req.UserName, req.Password)
	if err != nil {
		writeJSONError(w, http.StatusUnauthorized, "bad_credentials", "invalid user name or password")
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(account)
}

func stringOr(v any) string {
	s, _ := v.(string)
	return s
}

func writeJSONError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]any{
		"error":   code,
		"message": message,
	})
}

func writeValidationError(w http.ResponseWriter, fields map[string]string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnprocessableEntity)
	json.NewEncoder(w).Encode(map[string]any{
		"error":  "validation_failed",
		"fields": fields,
	})
}

// =============================================================================
// Validation rules
// =============================================================================

const maxUserNameLength = 254

func validateUserName(userName string) string {
	trimmed := strings.TrimSpace(userName)
	if trimmed == "" {
		return "userName must not be empty"
	}
	if len(userName) > maxUserNameLength {
		return fmt.Sprintf("userName must be at most %d characters", maxUserNameLength)
	}
	for _, r := range userName {
		if unicode.IsControl(r) {
			return "userName must not contain control characters"
		}
	}
	if strings.ContainsAny(userName, "<>") {
		return "userName must not contain markup"
	}
	return ""
}

func validatePassword(password string) string {
	if len(password) < 8 {
		return "password must be at least 8 characters"
	}
	if len(password) > 256 {
		return "password must be at most 256 characters"
	}
	var upper, lower, digit, special bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		default:
			special = true
		}
	}
	if !upper || !lower || !digit || !special {
		return "password must contain upper, lower, digit, and special characters"
	}
	return ""
}
