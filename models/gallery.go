package models

import (
	"strings"
	"time"
)

const (
	ContentReel  = "reel"
	ContentPost  = "post"
	ContentStory = "story"
)

type GalleryCategory struct {
	ID          int64         `json:"id"`
	Name        string        `json:"name"`
	Slug        string        `json:"slug"`
	Description string        `json:"description"`
	Order       int           `json:"order"`
	Items       []GalleryItem `json:"items"`
}

type GalleryItem struct {
	ID           int64     `json:"id"`
	CategoryID   int64     `json:"category_id"`
	Title        string    `json:"title"`
	Subtitle     string    `json:"subtitle"`
	InstagramURL string    `json:"instagram_url"`
	ContentType  string    `json:"content_type"`
	Likes        int       `json:"likes"`
	Comments     int       `json:"comments"`
	Order        int       `json:"order"`
	IsActive     bool      `json:"is_active"`
	EmbedID      string    `json:"embed_id,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// InstagramEmbedID returns the post id following /reel/ or /p/ in the URL.
func InstagramEmbedID(url string) string {
	for _, marker := range []string{"/reel/", "/p/"} {
		if idx := strings.LastIndex(url, marker); idx >= 0 {
			return strings.Trim(url[idx+len(marker):], "/")
		}
	}
	return ""
}
