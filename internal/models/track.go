package models

import "time"

// Track is one uploaded audio file. OwnerID is fixed at creation and every
// query over tracks is scoped by it; StorageName keys the blob store and is
// only exposed through the generated /uploads URL.
type Track struct {
	ID          int64     `json:"id"`
	OwnerID     int64     `json:"-"`
	StorageName string    `json:"-"`
	Title       string    `json:"title"`
	Artist      string    `json:"artist"`
	CreatedAt   time.Time `json:"created_at"`
}

// Playlist groups tracks for one owner. Metadata is replaced wholesale on
// update, never merged.
type Playlist struct {
	ID        int64     `json:"id"`
	OwnerID   int64     `json:"-"`
	Name      string    `json:"name"`
	Metadata  Document  `json:"metadata"`
	CreatedAt time.Time `json:"created_at"`
}
