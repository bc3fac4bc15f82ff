package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/audioryx/backend/internal/models"
	"github.com/audioryx/backend/internal/storage"
)

var _ storage.Store = (*Store)(nil)

// Store is an in-memory implementation of storage.Store obeying the same
// contracts as the Postgres store. It backs handler and middleware tests.
type Store struct {
	mu sync.Mutex

	identities map[int64]models.Identity
	emailIndex map[string]int64
	tracks     map[int64]models.Track
	playlists  map[int64]models.Playlist
	settings   map[int64]models.Document

	nextIdentityID int64
	nextTrackID    int64
	nextPlaylistID int64
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{
		identities: make(map[int64]models.Identity),
		emailIndex: make(map[string]int64),
		tracks:     make(map[int64]models.Track),
		playlists:  make(map[int64]models.Playlist),
		settings:   make(map[int64]models.Document),
	}
}

func (s *Store) CreateIdentity(ctx context.Context, identity models.Identity) (models.Identity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.emailIndex[identity.Email]; exists {
		return models.Identity{}, storage.ErrAlreadyExists
	}

	s.nextIdentityID++
	identity.ID = s.nextIdentityID
	identity.CreatedAt = time.Now()
	s.identities[identity.ID] = identity
	s.emailIndex[identity.Email] = identity.ID
	return identity, nil
}

func (s *Store) FindIdentityByEmail(ctx context.Context, email string) (models.Identity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, exists := s.emailIndex[email]
	if !exists {
		return models.Identity{}, storage.ErrNotFound
	}
	return s.identities[id], nil
}

func (s *Store) CreateTrack(ctx context.Context, track models.Track) (models.Track, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextTrackID++
	track.ID = s.nextTrackID
	track.CreatedAt = time.Now()
	s.tracks[track.ID] = track
	return track, nil
}

func (s *Store) ListTracksByOwner(ctx context.Context, ownerID int64) ([]models.Track, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var tracks []models.Track
	for _, t := range s.tracks {
		if t.OwnerID == ownerID {
			tracks = append(tracks, t)
		}
	}
	sort.Slice(tracks, func(i, j int) bool { return tracks[i].ID > tracks[j].ID })
	return tracks, nil
}

func (s *Store) FindTrackByStorageName(ctx context.Context, ownerID int64, storageName string) (models.Track, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, t := range s.tracks {
		if t.OwnerID == ownerID && t.StorageName == storageName {
			return t, nil
		}
	}
	return models.Track{}, storage.ErrNotFound
}

func (s *Store) CreatePlaylist(ctx context.Context, ownerID int64, name string, metadata models.Document) (models.Playlist, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextPlaylistID++
	p := models.Playlist{
		ID:        s.nextPlaylistID,
		OwnerID:   ownerID,
		Name:      name,
		Metadata:  metadata,
		CreatedAt: time.Now(),
	}
	s.playlists[p.ID] = p
	return p, nil
}

func (s *Store) ListPlaylistsByOwner(ctx context.Context, ownerID int64) ([]models.Playlist, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var playlists []models.Playlist
	for _, p := range s.playlists {
		if p.OwnerID == ownerID {
			playlists = append(playlists, p)
		}
	}
	sort.Slice(playlists, func(i, j int) bool { return playlists[i].ID < playlists[j].ID })
	return playlists, nil
}

func (s *Store) ReplacePlaylistMetadata(ctx context.Context, playlistID, ownerID int64, metadata models.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, exists := s.playlists[playlistID]
	if !exists || p.OwnerID != ownerID {
		// Scoped update matched zero rows; not an error.
		return nil
	}
	p.Metadata = metadata
	s.playlists[playlistID] = p
	return nil
}

func (s *Store) DeletePlaylist(ctx context.Context, playlistID, ownerID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, exists := s.playlists[playlistID]
	if !exists || p.OwnerID != ownerID {
		return nil
	}
	delete(s.playlists, playlistID)
	return nil
}

func (s *Store) UpsertSettings(ctx context.Context, ownerID int64, data models.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.settings[ownerID] = append(models.Document(nil), data...)
	return nil
}

func (s *Store) GetSettings(ctx context.Context, ownerID int64) (models.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, exists := s.settings[ownerID]
	if !exists {
		return models.EmptyDocument(), nil
	}
	return data, nil
}
