package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"senidea-backend-go/internal/models"
	"senidea-backend-go/internal/services"

	"github.com/jackc/pgx/v5/pgconn"
)

type RegisterRequest struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	Role        string `json:"role"`
	AdminSecret string `json:"admin_secret"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type TokenResponse struct {
	AccessToken string `json:"access_token"`
	Role        string `json:"role"`
}

func (s *Server) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "No data provided")
		return
	}
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" || strings.TrimSpace(req.Password) == "" {
		WriteError(w, http.StatusBadRequest, "Email and password are required")
		return
	}
	role := req.Role
	if role == "" {
		role = models.RoleVisitor
	}
	if !services.ValidRole(role) {
		WriteError(w, http.StatusBadRequest, "Invalid role")
		return
	}
	if role == models.RoleAdmin && req.AdminSecret != s.Config.AdminSecret {
		WriteError(w, http.StatusForbidden, "Invalid admin secret")
		return
	}
	taken, err := services.EmailTaken(s.DB, email)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	if taken {
		WriteError(w, http.StatusBadRequest, "Email already registered")
		return
	}
	hash, err := s.Tokens.HashPassword(req.Password)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	var userID int64
	err = s.DB.Get(&userID, `
INSERT INTO users (email, password_hash, role, created_at)
VALUES ($1,$2,$3,$4)
RETURNING id
`, email, hash, role, time.Now().UTC())
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			// Lost a race with a concurrent registration of the same email.
			WriteError(w, http.StatusBadRequest, "Email already registered")
			return
		}
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	access, _, err := s.Tokens.CreateAccessToken(userID, email, role)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	WriteJSON(w, http.StatusCreated, TokenResponse{AccessToken: access, Role: role})
}

func (s *Server) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "No data provided")
		return
	}
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" || strings.TrimSpace(req.Password) == "" {
		WriteError(w, http.StatusBadRequest, "Email and password are required")
		return
	}
	user, err := services.FindUserByEmail(s.DB, email)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	if user == nil || !s.Tokens.VerifyPassword(req.Password, user.PasswordHash) {
		WriteError(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}
	access, _, err := s.Tokens.CreateAccessToken(user.ID, user.Email, user.Role)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	WriteJSON(w, http.StatusOK, TokenResponse{AccessToken: access, Role: user.Role})
}

func (s *Server) Validate(w http.ResponseWriter, r *http.Request) {
	user, err := services.FindUserByID(s.DB, CurrentUserID(r))
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	if user == nil {
		WriteError(w, http.StatusNotFound, "User not found")
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{"email": user.Email, "role": user.Role})
}
