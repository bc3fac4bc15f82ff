package uploads

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"regexp"
	"strings"
	"time"

	"github.com/audioryx/backend/internal/models"
	"github.com/audioryx/backend/internal/storage"
)

// ErrNoContent means the upload carried no readable payload.
var ErrNoContent = errors.New("no file content")

// defaultArtist is recorded when the container metadata is not parsed.
const defaultArtist = "Local"

var whitespace = regexp.MustCompile(`\s+`)

// Intake accepts uploaded audio bytes, stores them under a collision-resistant
// name, and records the owning track row. Pure bytes-in, row-out: no audio
// metadata parsing.
type Intake struct {
	tracks storage.TrackStore
	blobs  BlobStore
	now    func() time.Time
}

// NewIntake wires the intake to its track store and blob store.
func NewIntake(tracks storage.TrackStore, blobs BlobStore) *Intake {
	return &Intake{tracks: tracks, blobs: blobs, now: time.Now}
}

// Ingest stores the payload and creates the track row for its owner.
func (in *Intake) Ingest(ctx context.Context, ownerID int64, filename string, content io.Reader) (models.Track, error) {
	if content == nil {
		return models.Track{}, ErrNoContent
	}

	storageName := in.storageName(filename)
	if err := in.blobs.Save(ctx, storageName, content); err != nil {
		return models.Track{}, fmt.Errorf("store upload: %w", err)
	}

	track := models.Track{
		OwnerID:     ownerID,
		StorageName: storageName,
		Title:       titleFrom(filename),
		Artist:      defaultArtist,
	}
	created, err := in.tracks.CreateTrack(ctx, track)
	if err != nil {
		return models.Track{}, fmt.Errorf("record track: %w", err)
	}
	return created, nil
}

// storageName combines the ingestion timestamp with the sanitized original
// name so concurrent uploads never collide and traversal-unsafe names never
// reach the blob store.
func (in *Intake) storageName(filename string) string {
	return fmt.Sprintf("%d-%s", in.now().UnixMilli(), sanitizeFilename(filename))
}

func sanitizeFilename(filename string) string {
	// Strip any path components the client sent, for either separator style.
	name := path.Base(strings.ReplaceAll(filename, `\`, "/"))
	name = whitespace.ReplaceAllString(name, "_")
	if name == "" || name == "." || name == ".." || name == "/" {
		return "upload"
	}
	return name
}

func titleFrom(filename string) string {
	base := path.Base(strings.ReplaceAll(filename, `\`, "/"))
	title := strings.TrimSuffix(base, path.Ext(base))
	if title == "" {
		return base
	}
	return title
}
