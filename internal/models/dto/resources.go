package dto

import "github.com/audioryx/backend/internal/models"

type TrackResponse struct {
	ID     int64  `json:"id"`
	Title  string `json:"title"`
	Artist string `json:"artist"`
	URL    string `json:"url"`
}

type UploadResponse struct {
	ID    int64  `json:"id"`
	URL   string `json:"url"`
	Title string `json:"title"`
}

type CreatePlaylistRequest struct {
	Name string `json:"name"`
}

type CreatePlaylistResponse struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type ReplaceMetadataRequest struct {
	Metadata models.Document `json:"metadata"`
}

type OKResponse struct {
	OK bool `json:"ok"`
}
