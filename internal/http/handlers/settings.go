package handlers

import (
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/audioryx/backend/internal/middleware"
	"github.com/audioryx/backend/internal/models"
	"github.com/audioryx/backend/internal/models/dto"
	"github.com/audioryx/backend/internal/storage"
)

// SettingsHandler owns the single per-identity settings document.
type SettingsHandler struct {
	store storage.SettingsStore
	log   *zap.Logger
}

// NewSettingsHandler constructs the handler.
func NewSettingsHandler(store storage.SettingsStore, log *zap.Logger) *SettingsHandler {
	return &SettingsHandler{store: store, log: log}
}

// Routes attaches settings routes behind the ownership guard.
func (h *SettingsHandler) Routes(r chi.Router) {
	r.Post("/api/settings", h.handleSave)
	r.Get("/api/settings", h.handleGet)
}

// handleSave upserts the caller's settings document wholesale.
func (h *SettingsHandler) handleSave(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.IdentityFrom(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, tagUnauthorized)
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, models.MaxDocumentBytes+1))
	if err != nil {
		respondError(w, http.StatusBadRequest, tagInvalidInput)
		return
	}
	data := models.Document(body)
	if err := data.Validate(); err != nil {
		respondError(w, http.StatusBadRequest, tagInvalidInput)
		return
	}

	if err := h.store.UpsertSettings(r.Context(), claims.IdentityID, data); err != nil {
		h.log.Error("upsert settings", zap.Error(err))
		respondError(w, http.StatusInternalServerError, tagPersistence)
		return
	}
	respondJSON(w, http.StatusOK, dto.OKResponse{OK: true})
}

// handleGet returns the stored document, or an empty object when the caller
// has never saved settings.
func (h *SettingsHandler) handleGet(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.IdentityFrom(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, tagUnauthorized)
		return
	}

	data, err := h.store.GetSettings(r.Context(), claims.IdentityID)
	if err != nil {
		h.log.Error("get settings", zap.Error(err))
		respondError(w, http.StatusInternalServerError, tagPersistence)
		return
	}
	respondJSON(w, http.StatusOK, data)
}
