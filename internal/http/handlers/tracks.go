package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/audioryx/backend/internal/middleware"
	"github.com/audioryx/backend/internal/models/dto"
	"github.com/audioryx/backend/internal/storage"
	"github.com/audioryx/backend/internal/uploads"
)

// maxUploadBytes bounds a single multipart upload.
const maxUploadBytes = 256 << 20

// TracksHandler owns upload, listing, and gated retrieval of stored files.
type TracksHandler struct {
	store  storage.TrackStore
	intake *uploads.Intake
	blobs  uploads.BlobStore
	log    *zap.Logger
}

// NewTracksHandler constructs the handler.
func NewTracksHandler(store storage.TrackStore, intake *uploads.Intake, blobs uploads.BlobStore, log *zap.Logger) *TracksHandler {
	return &TracksHandler{store: store, intake: intake, blobs: blobs, log: log}
}

// Routes attaches track routes. All of them sit behind the ownership guard.
func (h *TracksHandler) Routes(r chi.Router) {
	r.Post("/api/tracks/upload", h.handleUpload)
	r.Get("/api/tracks", h.handleList)
	r.Get("/uploads/{name}", h.handleFetchFile)
}

func (h *TracksHandler) handleUpload(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.IdentityFrom(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, tagUnauthorized)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	file, header, err := r.FormFile("file")
	if err != nil {
		respondError(w, http.StatusBadRequest, tagNoFile)
		return
	}
	defer file.Close()
	if header.Size == 0 {
		respondError(w, http.StatusBadRequest, tagNoFile)
		return
	}

	track, err := h.intake.Ingest(r.Context(), claims.IdentityID, header.Filename, file)
	if err != nil {
		h.log.Error("ingest upload", zap.Error(err))
		respondError(w, http.StatusInternalServerError, tagPersistence)
		return
	}

	respondJSON(w, http.StatusOK, dto.UploadResponse{
		ID:    track.ID,
		URL:   "/uploads/" + track.StorageName,
		Title: track.Title,
	})
}

func (h *TracksHandler) handleList(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.IdentityFrom(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, tagUnauthorized)
		return
	}

	tracks, err := h.store.ListTracksByOwner(r.Context(), claims.IdentityID)
	if err != nil {
		h.log.Error("list tracks", zap.Error(err))
		respondError(w, http.StatusInternalServerError, tagPersistence)
		return
	}

	out := make([]dto.TrackResponse, 0, len(tracks))
	for _, t := range tracks {
		out = append(out, dto.TrackResponse{
			ID:     t.ID,
			Title:  t.Title,
			Artist: t.Artist,
			URL:    "/uploads/" + t.StorageName,
		})
	}
	respondJSON(w, http.StatusOK, out)
}

// handleFetchFile streams a stored upload back to its owner. The lookup is
// scoped by the caller's identity, so a URL leaked to another account 404s.
func (h *TracksHandler) handleFetchFile(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.IdentityFrom(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, tagUnauthorized)
		return
	}

	name := chi.URLParam(r, "name")
	track, err := h.store.FindTrackByStorageName(r.Context(), claims.IdentityID, name)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			respondError(w, http.StatusNotFound, tagNotFound)
			return
		}
		h.log.Error("find track", zap.Error(err))
		respondError(w, http.StatusInternalServerError, tagPersistence)
		return
	}

	blob, err := h.blobs.Open(r.Context(), track.StorageName)
	if err != nil {
		h.log.Error("open blob", zap.String("storage_name", track.StorageName), zap.Error(err))
		respondError(w, http.StatusNotFound, tagNotFound)
		return
	}
	defer blob.Close()

	w.Header().Set("Content-Type", "application/octet-stream")
	if _, err := io.Copy(w, blob); err != nil {
		h.log.Warn("stream blob", zap.Error(err))
	}
}
