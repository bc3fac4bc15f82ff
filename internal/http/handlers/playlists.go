package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/audioryx/backend/internal/middleware"
	"github.com/audioryx/backend/internal/models"
	"github.com/audioryx/backend/internal/models/dto"
	"github.com/audioryx/backend/internal/storage"
)

// PlaylistsHandler owns playlist CRUD for the authenticated owner.
type PlaylistsHandler struct {
	store storage.PlaylistStore
	log   *zap.Logger
}

// NewPlaylistsHandler constructs the handler.
func NewPlaylistsHandler(store storage.PlaylistStore, log *zap.Logger) *PlaylistsHandler {
	return &PlaylistsHandler{store: store, log: log}
}

// Routes attaches playlist routes behind the ownership guard.
func (h *PlaylistsHandler) Routes(r chi.Router) {
	r.Post("/api/playlists", h.handleCreate)
	r.Get("/api/playlists", h.handleList)
	r.Put("/api/playlists/{id}", h.handleReplaceMetadata)
	r.Delete("/api/playlists/{id}", h.handleDelete)
}

func (h *PlaylistsHandler) handleCreate(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.IdentityFrom(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, tagUnauthorized)
		return
	}

	var req dto.CreatePlaylistRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, tagInvalidInput)
		return
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		respondError(w, http.StatusBadRequest, tagInvalidInput)
		return
	}

	playlist, err := h.store.CreatePlaylist(r.Context(), claims.IdentityID, name, models.DefaultPlaylistMetadata())
	if err != nil {
		h.log.Error("create playlist", zap.Error(err))
		respondError(w, http.StatusInternalServerError, tagPersistence)
		return
	}
	respondJSON(w, http.StatusOK, dto.CreatePlaylistResponse{ID: playlist.ID, Name: playlist.Name})
}

// handleList flattens each playlist's metadata document into the response
// object alongside id and name.
func (h *PlaylistsHandler) handleList(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.IdentityFrom(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, tagUnauthorized)
		return
	}

	playlists, err := h.store.ListPlaylistsByOwner(r.Context(), claims.IdentityID)
	if err != nil {
		h.log.Error("list playlists", zap.Error(err))
		respondError(w, http.StatusInternalServerError, tagPersistence)
		return
	}

	out := make([]map[string]any, 0, len(playlists))
	for _, p := range playlists {
		entry := map[string]any{}
		if len(p.Metadata) > 0 {
			_ = json.Unmarshal(p.Metadata, &entry)
		}
		entry["id"] = p.ID
		entry["name"] = p.Name
		out = append(out, entry)
	}
	respondJSON(w, http.StatusOK, out)
}

// handleReplaceMetadata swaps the document wholesale. The scoped update means
// a playlist the caller does not own is untouched; the response still reports
// success, which existing clients rely on.
func (h *PlaylistsHandler) handleReplaceMetadata(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.IdentityFrom(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, tagUnauthorized)
		return
	}
	playlistID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, tagInvalidInput)
		return
	}

	var req dto.ReplaceMetadataRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, tagInvalidInput)
		return
	}
	metadata := req.Metadata
	if len(metadata) == 0 {
		metadata = models.EmptyDocument()
	}
	if err := metadata.Validate(); err != nil {
		respondError(w, http.StatusBadRequest, tagInvalidInput)
		return
	}

	if err := h.store.ReplacePlaylistMetadata(r.Context(), playlistID, claims.IdentityID, metadata); err != nil {
		h.log.Error("replace playlist metadata", zap.Error(err))
		respondError(w, http.StatusInternalServerError, tagPersistence)
		return
	}
	respondJSON(w, http.StatusOK, dto.OKResponse{OK: true})
}

func (h *PlaylistsHandler) handleDelete(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.IdentityFrom(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, tagUnauthorized)
		return
	}
	playlistID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, tagInvalidInput)
		return
	}

	if err := h.store.DeletePlaylist(r.Context(), playlistID, claims.IdentityID); err != nil {
		h.log.Error("delete playlist", zap.Error(err))
		respondError(w, http.StatusInternalServerError, tagPersistence)
		return
	}
	respondJSON(w, http.StatusOK, dto.OKResponse{OK: true})
}
