package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/audioryx/backend/internal/models"
	"github.com/audioryx/backend/internal/storage"
)

// Ensure Store satisfies the storage.Store interface at compile time.
var _ storage.Store = (*Store)(nil)

// Store provides Postgres-backed persistence for all owned resources.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore connects a pool and runs migrations.
func NewStore(ctx context.Context, databaseURL string) (*Store, error) {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	s := &Store{pool: pool}
	if err := s.migrate(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return s, nil
}

// Close releases database resources.
func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

func (s *Store) migrate(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id BIGSERIAL PRIMARY KEY,
			email TEXT UNIQUE NOT NULL,
			password_hash TEXT NOT NULL,
			display_name TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);`,
		`CREATE TABLE IF NOT EXISTS tracks (
			id BIGSERIAL PRIMARY KEY,
			user_id BIGINT NOT NULL REFERENCES users(id),
			storage_name TEXT NOT NULL,
			title TEXT NOT NULL,
			artist TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);`,
		`CREATE INDEX IF NOT EXISTS tracks_user_idx ON tracks (user_id, id DESC);`,
		`CREATE TABLE IF NOT EXISTS playlists (
			id BIGSERIAL PRIMARY KEY,
			user_id BIGINT NOT NULL REFERENCES users(id),
			name TEXT NOT NULL,
			metadata JSONB NOT NULL DEFAULT '{}'::jsonb,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);`,
		`CREATE INDEX IF NOT EXISTS playlists_user_idx ON playlists (user_id);`,
		`CREATE TABLE IF NOT EXISTS settings (
			user_id BIGINT PRIMARY KEY REFERENCES users(id),
			data JSONB NOT NULL DEFAULT '{}'::jsonb
		);`,
	}
	for _, stmt := range stmts {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("apply migrations: %w", err)
		}
	}
	return nil
}

// CreateIdentity inserts a new user row. The unique index on email is the
// uniqueness check; a conflict maps to storage.ErrAlreadyExists.
func (s *Store) CreateIdentity(ctx context.Context, identity models.Identity) (models.Identity, error) {
	const query = `
		INSERT INTO users (email, password_hash, display_name)
		VALUES ($1, $2, $3)
		RETURNING id, email, password_hash, display_name, created_at;
	`
	row := s.pool.QueryRow(ctx, query, identity.Email, identity.PasswordHash, identity.DisplayName)
	created, err := scanIdentity(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return models.Identity{}, storage.ErrAlreadyExists
		}
		return models.Identity{}, err
	}
	return created, nil
}

// FindIdentityByEmail fetches a user by email address.
func (s *Store) FindIdentityByEmail(ctx context.Context, email string) (models.Identity, error) {
	const query = `
		SELECT id, email, password_hash, display_name, created_at
		FROM users
		WHERE email = $1;
	`
	return scanIdentity(s.pool.QueryRow(ctx, query, email))
}

// CreateTrack inserts a track row for its owner.
func (s *Store) CreateTrack(ctx context.Context, track models.Track) (models.Track, error) {
	const query = `
		INSERT INTO tracks (user_id, storage_name, title, artist)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at;
	`
	row := s.pool.QueryRow(ctx, query, track.OwnerID, track.StorageName, track.Title, track.Artist)
	if err := row.Scan(&track.ID, &track.CreatedAt); err != nil {
		return models.Track{}, fmt.Errorf("insert track: %w", err)
	}
	return track, nil
}

// ListTracksByOwner returns the owner's tracks, most recent first.
func (s *Store) ListTracksByOwner(ctx context.Context, ownerID int64) ([]models.Track, error) {
	const query = `
		SELECT id, user_id, storage_name, title, artist, created_at
		FROM tracks
		WHERE user_id = $1
		ORDER BY id DESC;
	`
	rows, err := s.pool.Query(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list tracks: %w", err)
	}
	defer rows.Close()

	var tracks []models.Track
	for rows.Next() {
		var t models.Track
		if err := rows.Scan(&t.ID, &t.OwnerID, &t.StorageName, &t.Title, &t.Artist, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan track: %w", err)
		}
		tracks = append(tracks, t)
	}
	return tracks, rows.Err()
}

// FindTrackByStorageName resolves a stored file back to the owner's track row.
func (s *Store) FindTrackByStorageName(ctx context.Context, ownerID int64, storageName string) (models.Track, error) {
	const query = `
		SELECT id, user_id, storage_name, title, artist, created_at
		FROM tracks
		WHERE user_id = $1 AND storage_name = $2;
	`
	var t models.Track
	err := s.pool.QueryRow(ctx, query, ownerID, storageName).
		Scan(&t.ID, &t.OwnerID, &t.StorageName, &t.Title, &t.Artist, &t.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Track{}, storage.ErrNotFound
		}
		return models.Track{}, fmt.Errorf("find track: %w", err)
	}
	return t, nil
}

// CreatePlaylist inserts a playlist row with its initial metadata document.
func (s *Store) CreatePlaylist(ctx context.Context, ownerID int64, name string, metadata models.Document) (models.Playlist, error) {
	const query = `
		INSERT INTO playlists (user_id, name, metadata)
		VALUES ($1, $2, $3)
		RETURNING id, created_at;
	`
	p := models.Playlist{OwnerID: ownerID, Name: name, Metadata: metadata}
	row := s.pool.QueryRow(ctx, query, ownerID, name, []byte(metadata))
	if err := row.Scan(&p.ID, &p.CreatedAt); err != nil {
		return models.Playlist{}, fmt.Errorf("insert playlist: %w", err)
	}
	return p, nil
}

// ListPlaylistsByOwner returns all playlists owned by the caller.
func (s *Store) ListPlaylistsByOwner(ctx context.Context, ownerID int64) ([]models.Playlist, error) {
	const query = `
		SELECT id, user_id, name, metadata, created_at
		FROM playlists
		WHERE user_id = $1
		ORDER BY id;
	`
	rows, err := s.pool.Query(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list playlists: %w", err)
	}
	defer rows.Close()

	var playlists []models.Playlist
	for rows.Next() {
		var p models.Playlist
		var metadata []byte
		if err := rows.Scan(&p.ID, &p.OwnerID, &p.Name, &metadata, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan playlist: %w", err)
		}
		p.Metadata = models.Document(metadata)
		playlists = append(playlists, p)
	}
	return playlists, rows.Err()
}

// ReplacePlaylistMetadata swaps the document wholesale, scoped by owner.
// A row owned by someone else matches nothing and the call succeeds.
func (s *Store) ReplacePlaylistMetadata(ctx context.Context, playlistID, ownerID int64, metadata models.Document) error {
	const query = `
		UPDATE playlists
		SET metadata = $1
		WHERE id = $2 AND user_id = $3;
	`
	if _, err := s.pool.Exec(ctx, query, []byte(metadata), playlistID, ownerID); err != nil {
		return fmt.Errorf("replace playlist metadata: %w", err)
	}
	return nil
}

// DeletePlaylist removes the playlist if the caller owns it.
func (s *Store) DeletePlaylist(ctx context.Context, playlistID, ownerID int64) error {
	const query = `DELETE FROM playlists WHERE id = $1 AND user_id = $2;`
	if _, err := s.pool.Exec(ctx, query, playlistID, ownerID); err != nil {
		return fmt.Errorf("delete playlist: %w", err)
	}
	return nil
}

// UpsertSettings inserts or replaces the single settings row for an owner in
// one atomic statement.
func (s *Store) UpsertSettings(ctx context.Context, ownerID int64, data models.Document) error {
	const query = `
		INSERT INTO settings (user_id, data)
		VALUES ($1, $2)
		ON CONFLICT (user_id) DO UPDATE SET data = EXCLUDED.data;
	`
	if _, err := s.pool.Exec(ctx, query, ownerID, []byte(data)); err != nil {
		return fmt.Errorf("upsert settings: %w", err)
	}
	return nil
}

// GetSettings returns the stored document, or an empty object if none exists.
func (s *Store) GetSettings(ctx context.Context, ownerID int64) (models.Document, error) {
	const query = `SELECT data FROM settings WHERE user_id = $1;`
	var data []byte
	err := s.pool.QueryRow(ctx, query, ownerID).Scan(&data)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.EmptyDocument(), nil
		}
		return nil, fmt.Errorf("get settings: %w", err)
	}
	return models.Document(data), nil
}

func scanIdentity(row pgx.Row) (models.Identity, error) {
	var identity models.Identity
	err := row.Scan(&identity.ID, &identity.Email, &identity.PasswordHash, &identity.DisplayName, &identity.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Identity{}, storage.ErrNotFound
		}
		return models.Identity{}, err
	}
	return identity, nil
}
