package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"mergington/activities/internal/config"
	"mergington/activities/internal/crypto"
	"mergington/activities/internal/metrics"
	"mergington/activities/internal/model"
	"mergington/activities/internal/repository"
)

type Server struct {
	cfg     config.Config
	store   *repository.Store
	metrics *metrics.Collector
	limiter *rateLimiter
}

func NewServer(cfg config.Config, store *repository.Store, collector *metrics.Collector) *Server {
	return &Server{
		cfg:     cfg,
		store:   store,
		metrics: collector,
		limiter: newRateLimiter(cfg.AuthRateLimit, cfg.AuthRateBurst),
	}
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(s.observe)

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/static/index.html", http.StatusTemporaryRedirect)
	})
	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.Dir(s.cfg.StaticDir))))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", s.metrics.Handler())

	r.Group(func(r chi.Router) {
		r.Use(s.limiter.middleware)
		r.Post("/auth/register", s.handleRegister)
		r.Post("/auth/login", s.handleLogin)
	})

	r.With(s.authMiddleware).Post("/auth/logout", s.handleLogout)
	r.With(s.authMiddleware).Get("/auth/me", s.handleGetMe)
	r.With(s.authMiddleware).Get("/activities", s.handleListActivities)

	r.With(s.authMiddleware, s.requireAdminOrManager).Post("/activities/{name}/signup", s.handleSignup)
	r.With(s.authMiddleware, s.requireAdminOrManager).Delete("/activities/{name}/unregister", s.handleUnregister)

	return r
}

type registerRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string `json:"token"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

type activityView struct {
	Description     string   `json:"description"`
	Schedule        string   `json:"schedule"`
	MaxParticipants int      `json:"max_participants"`
	Participants    []string `json:"participants"`
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request")
		return
	}
	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	if !strings.Contains(req.Email, "@") {
		writeError(w, http.StatusBadRequest, "invalid_email")
		return
	}
	if utf8.RuneCountInString(req.Password) < 6 {
		writeError(w, http.StatusBadRequest, "password_too_short")
		return
	}
	role := req.Role
	if role == "" {
		role = model.RoleStudent
	}
	if !model.ValidRole(role) {
		writeError(w, http.StatusBadRequest, "invalid_role")
		return
	}

	user := model.User{
		ID:           uuid.NewString(),
		Email:        req.Email,
		PasswordHash: crypto.HashPassword(req.Password),
		Role:         role,
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.store.Users.Create(user); err != nil {
		if errors.Is(err, repository.ErrUserExists) {
			writeError(w, http.StatusBadRequest, "user_already_exists")
			return
		}
		writeError(w, http.StatusInternalServerError, "server_error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "User registered successfully"})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request")
		return
	}
	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	if !strings.Contains(req.Email, "@") {
		writeError(w, http.StatusBadRequest, "invalid_email")
		return
	}

	user, err := s.store.Users.GetByEmail(req.Email)
	if err != nil {
		s.metrics.RecordLogin(false)
		writeError(w, http.StatusUnauthorized, "invalid_credentials")
		return
	}
	if err := crypto.CheckPassword(user.PasswordHash, req.Password); err != nil {
		s.metrics.RecordLogin(false)
		writeError(w, http.StatusUnauthorized, "invalid_credentials")
		return
	}

	token, err := s.store.Sessions.Create(user.Email)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "token_error")
		return
	}
	s.metrics.RecordLogin(true)
	s.metrics.SessionOpened()

	writeJSON(w, http.StatusOK, loginResponse{
		Token: token,
		Email: user.Email,
		Role:  user.Role,
	})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	user, ok := userFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "missing_token")
		return
	}

	if s.store.Sessions.Destroy(bearerToken(r.Header.Get("Authorization"))) {
		s.metrics.SessionClosed()
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Logged out " + user.Email})
}

func (s *Server) handleGetMe(w http.ResponseWriter, r *http.Request) {
	user, ok := userFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "missing_token")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"email": user.Email,
		"role":  user.Role,
	})
}

func (s *Server) handleListActivities(w http.ResponseWriter, _ *http.Request) {
	activities := s.store.Activities.List()
	resp := make(map[string]activityView, len(activities))
	for name, activity := range activities {
		resp[name] = activityView{
			Description:     activity.Description,
			Schedule:        activity.Schedule,
			MaxParticipants: activity.MaxParticipants,
			Participants:    activity.Participants,
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request) {
	name := activityName(r)
	email := r.URL.Query().Get("email")
	if email == "" {
		writeError(w, http.StatusBadRequest, "missing_email")
		return
	}

	if err := s.store.Activities.Signup(name, email); err != nil {
		switch {
		case errors.Is(err, repository.ErrActivityNotFound):
			writeError(w, http.StatusNotFound, "activity_not_found")
		case errors.Is(err, repository.ErrAlreadySignedUp):
			writeError(w, http.StatusBadRequest, "already_signed_up")
		default:
			writeError(w, http.StatusInternalServerError, "server_error")
		}
		return
	}

	s.metrics.RecordRegistration("signup")
	writeJSON(w, http.StatusOK, map[string]string{"message": "Signed up " + email + " for " + name})
}

func (s *Server) handleUnregister(w http.ResponseWriter, r *http.Request) {
	name := activityName(r)
	email := r.URL.Query().Get("email")
	if email == "" {
		writeError(w, http.StatusBadRequest, "missing_email")
		return
	}

	if err := s.store.Activities.Unregister(name, email); err != nil {
		switch {
		case errors.Is(err, repository.ErrActivityNotFound):
			writeError(w, http.StatusNotFound, "activity_not_found")
		case errors.Is(err, repository.ErrNotSignedUp):
			writeError(w, http.StatusBadRequest, "not_signed_up")
		default:
			writeError(w, http.StatusInternalServerError, "server_error")
		}
		return
	}

	s.metrics.RecordRegistration("unregister")
	writeJSON(w, http.StatusOK, map[string]string{"message": "Unregistered " + email + " from " + name})
}

// authMiddleware resolves the bearer token to a user on every request; there
// is no state beyond the session store entry.
func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r.Header.Get("Authorization"))
		if token == "" {
			writeError(w, http.StatusUnauthorized, "missing_token")
			return
		}

		email, ok := s.store.Sessions.Resolve(token)
		if !ok {
			writeError(w, http.StatusUnauthorized, "invalid_token")
			return
		}
		user, err := s.store.Users.GetByEmail(email)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "invalid_token")
			return
		}

		ctx := context.WithValue(r.Context(), userKey{}, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (s *Server) requireAdminOrManager(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := userFromContext(r.Context())
		if !ok || (user.Role != model.RoleAdmin && user.Role != model.RoleActivityManager) {
			writeError(w, http.StatusForbidden, "forbidden")
			return
		}
		next.ServeHTTP(w, r)
	})
}

type userKey struct{}

func userFromContext(ctx context.Context) (model.User, bool) {
	user, ok := ctx.Value(userKey{}).(model.User)
	return user, ok
}

// activityName returns the {name} path segment with percent-encoding removed,
// so "Chess%20Club" looks up "Chess Club".
func activityName(r *http.Request) string {
	name := chi.URLParam(r, "name")
	if decoded, err := url.PathUnescape(name); err == nil {
		return decoded
	}
	return name
}

func bearerToken(header string) string {
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

func decodeJSON(r *http.Request, out interface{}) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	return decoder.Decode(out)
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, code string) {
	writeJSON(w, status, map[string]string{"error": code})
}

func clientIP(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		parts := strings.Split(forwarded, ",")
		return strings.TrimSpace(parts[0])
	}
	if realIP := r.Header.Get("X-Real-IP"); realIP != "" {
		return realIP
	}
	return ""
}
