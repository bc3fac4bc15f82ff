package models

import (
	"bytes"
	"encoding/json"
	"errors"
)

// MaxDocumentBytes caps wholesale JSON blobs (playlist metadata, settings).
const MaxDocumentBytes = 64 << 10

var (
	ErrDocumentTooLarge = errors.New("document exceeds size limit")
	ErrDocumentInvalid  = errors.New("document must be a JSON object")
)

// Document is a client-supplied JSON blob stored verbatim and replaced
// wholesale. Validate gates it before it ever reaches the store.
type Document []byte

// EmptyDocument is what callers get before they have saved anything.
func EmptyDocument() Document { return Document(`{}`) }

// DefaultPlaylistMetadata seeds a freshly created playlist.
func DefaultPlaylistMetadata() Document { return Document(`{"tracks":[]}`) }

// Validate rejects oversized, malformed, or non-object documents.
func (d Document) Validate() error {
	if len(d) > MaxDocumentBytes {
		return ErrDocumentTooLarge
	}
	trimmed := bytes.TrimSpace(d)
	if len(trimmed) == 0 || trimmed[0] != '{' || !json.Valid(trimmed) {
		return ErrDocumentInvalid
	}
	return nil
}

// MarshalJSON emits the raw document, defaulting to an empty object.
func (d Document) MarshalJSON() ([]byte, error) {
	if len(bytes.TrimSpace(d)) == 0 {
		return []byte(`{}`), nil
	}
	return d, nil
}

// UnmarshalJSON keeps the payload byte-for-byte.
func (d *Document) UnmarshalJSON(data []byte) error {
	*d = append((*d)[:0], data...)
	return nil
}
