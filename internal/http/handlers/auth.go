package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/audioryx/backend/internal/auth"
	"github.com/audioryx/backend/internal/config"
	"github.com/audioryx/backend/internal/models"
	"github.com/audioryx/backend/internal/models/dto"
	"github.com/audioryx/backend/internal/storage"
)

// Slow hash cost for stored credentials.
const passwordHashCost = 12

// AuthHandler owns register, login, and the privileged employee-login.
type AuthHandler struct {
	store  storage.IdentityStore
	tokens *auth.TokenManager
	cfg    *config.Config
	log    *zap.Logger
}

// NewAuthHandler constructs the handler.
func NewAuthHandler(store storage.IdentityStore, tokens *auth.TokenManager, cfg *config.Config, log *zap.Logger) *AuthHandler {
	return &AuthHandler{store: store, tokens: tokens, cfg: cfg, log: log}
}

// Routes attaches the public auth routes.
func (h *AuthHandler) Routes(r chi.Router) {
	r.Post("/api/auth/register", h.handleRegister)
	r.Post("/api/auth/login", h.handleLogin)
	r.Post("/api/employee-login", h.handleEmployeeLogin)
}

func (h *AuthHandler) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req dto.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, tagInvalidInput)
		return
	}
	email := strings.TrimSpace(req.Email)
	if email == "" || req.Password == "" {
		respondError(w, http.StatusBadRequest, tagInvalidInput)
		return
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(req.Password), passwordHashCost)
	if err != nil {
		h.log.Error("hash password", zap.Error(err))
		respondError(w, http.StatusInternalServerError, tagPersistence)
		return
	}

	displayName := strings.TrimSpace(req.DisplayName)
	if displayName == "" {
		displayName = email
	}

	identity := models.Identity{
		Email:        email,
		PasswordHash: string(passwordHash),
		DisplayName:  displayName,
	}
	created, err := h.store.CreateIdentity(r.Context(), identity)
	if err != nil {
		if errors.Is(err, storage.ErrAlreadyExists) {
			respondError(w, http.StatusBadRequest, tagDuplicateEmail)
			return
		}
		h.log.Error("create identity", zap.Error(err))
		respondError(w, http.StatusInternalServerError, tagPersistence)
		return
	}

	token, err := h.tokens.Issue(created, auth.RoleUser)
	if err != nil {
		h.log.Error("issue token", zap.Error(err))
		respondError(w, http.StatusInternalServerError, tagPersistence)
		return
	}
	respondJSON(w, http.StatusCreated, dto.AuthResponse{User: created, Token: token})
}

func (h *AuthHandler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, tagInvalidInput)
		return
	}
	email := strings.TrimSpace(req.Email)
	if email == "" || req.Password == "" {
		respondError(w, http.StatusBadRequest, tagInvalidInput)
		return
	}

	identity, err := h.store.FindIdentityByEmail(r.Context(), email)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			// Same tag as a wrong password so callers cannot probe for emails.
			respondError(w, http.StatusBadRequest, tagInvalidCredentials)
			return
		}
		h.log.Error("find identity", zap.Error(err))
		respondError(w, http.StatusInternalServerError, tagPersistence)
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(identity.PasswordHash), []byte(req.Password)); err != nil {
		respondError(w, http.StatusBadRequest, tagInvalidCredentials)
		return
	}

	token, err := h.tokens.Issue(identity, auth.RoleUser)
	if err != nil {
		h.log.Error("issue token", zap.Error(err))
		respondError(w, http.StatusInternalServerError, tagPersistence)
		return
	}
	respondJSON(w, http.StatusOK, dto.AuthResponse{User: identity, Token: token})
}

// handleEmployeeLogin mints the synthetic employee token. Unlike its
// predecessor it does not hand out a token to anyone who can reach the route:
// the caller must present the configured employee email and a password that
// verifies against the configured bcrypt hash, through the same comparison
// path as normal login.
func (h *AuthHandler) handleEmployeeLogin(w http.ResponseWriter, r *http.Request) {
	if !h.cfg.EmployeeLoginConfigured() {
		respondError(w, http.StatusInternalServerError, tagNotConfigured)
		return
	}

	var req dto.EmployeeLoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, tagInvalidInput)
		return
	}
	if strings.TrimSpace(req.Email) == "" || req.Password == "" {
		respondError(w, http.StatusBadRequest, tagInvalidInput)
		return
	}
	if !strings.EqualFold(strings.TrimSpace(req.Email), h.cfg.EmployeeEmail) {
		respondError(w, http.StatusBadRequest, tagInvalidCredentials)
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(h.cfg.EmployeePasswordHash), []byte(req.Password)); err != nil {
		respondError(w, http.StatusBadRequest, tagInvalidCredentials)
		return
	}

	employee := models.Identity{ID: 0, Email: h.cfg.EmployeeEmail, DisplayName: "Employee"}
	token, err := h.tokens.Issue(employee, auth.RoleEmployee)
	if err != nil {
		h.log.Error("issue employee token", zap.Error(err))
		respondError(w, http.StatusInternalServerError, tagPersistence)
		return
	}
	respondJSON(w, http.StatusOK, dto.AuthResponse{User: employee, Token: token})
}
