package storage

import (
	"context"
	"errors"

	"github.com/audioryx/backend/internal/models"
)

// ErrNotFound indicates a record does not exist for the given owner.
var ErrNotFound = errors.New("record not found")

// ErrAlreadyExists indicates a uniqueness conflict.
var ErrAlreadyExists = errors.New("record already exists")

// IdentityStore persists registered identities. CreateIdentity relies on the
// store's own uniqueness enforcement for email; there is no read-then-write.
type IdentityStore interface {
	CreateIdentity(ctx context.Context, identity models.Identity) (models.Identity, error)
	FindIdentityByEmail(ctx context.Context, email string) (models.Identity, error)
}

// TrackStore persists uploaded track rows, always scoped by owner.
type TrackStore interface {
	CreateTrack(ctx context.Context, track models.Track) (models.Track, error)
	ListTracksByOwner(ctx context.Context, ownerID int64) ([]models.Track, error)
	FindTrackByStorageName(ctx context.Context, ownerID int64, storageName string) (models.Track, error)
}

// PlaylistStore persists playlists. ReplacePlaylistMetadata and DeletePlaylist
// are scoped UPDATE/DELETE statements: a playlist owned by someone else simply
// matches zero rows and the call returns nil.
type PlaylistStore interface {
	CreatePlaylist(ctx context.Context, ownerID int64, name string, metadata models.Document) (models.Playlist, error)
	ListPlaylistsByOwner(ctx context.Context, ownerID int64) ([]models.Playlist, error)
	ReplacePlaylistMetadata(ctx context.Context, playlistID, ownerID int64, metadata models.Document) error
	DeletePlaylist(ctx context.Context, playlistID, ownerID int64) error
}

// SettingsStore keeps at most one settings document per owner.
type SettingsStore interface {
	UpsertSettings(ctx context.Context, ownerID int64, data models.Document) error
	GetSettings(ctx context.Context, ownerID int64) (models.Document, error)
}

// Store is the full persistence surface the handlers need.
type Store interface {
	IdentityStore
	TrackStore
	PlaylistStore
	SettingsStore
}
