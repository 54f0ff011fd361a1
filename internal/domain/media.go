package domain

import (
	"context"
	"io"
	"time"
)

// Media is an uploaded gallery item. FilePath is the key of the blob object;
// the row and the blob are created and deleted together.
// swagger:model Media
type Media struct {
	ID         string    `json:"id"`
	EventID    string    `json:"event_id"`
	UploadedBy string    `json:"uploaded_by"`
	FilePath   string    `json:"file_path"`
	FileName   string    `json:"file_name"`
	FileType   string    `json:"file_type"`
	FileSize   int64     `json:"file_size"`
	Caption    *string   `json:"caption"`
	CreatedAt  time.Time `json:"created_at"`
}

// GalleryItem is a media record with an optional signed display URL.
type GalleryItem struct {
	*Media
	URL string `json:"url,omitempty"`
}

// UploadMediaInput describes a file to add to an event gallery.
type UploadMediaInput struct {
	EventID     string
	FileName    string
	ContentType string
	Size        int64
	Caption     string
	Body        io.Reader
}

// MediaQuery identifies an event gallery and the credentials presented to read it.
type MediaQuery struct {
	EventID    string
	UserID     string
	InviteCode string
	WithURLs   bool
}

// MediaRepository defines storage operations for media rows.
type MediaRepository interface {
	Create(ctx context.Context, m *Media) error
	GetByID(ctx context.Context, id string) (*Media, error)
	ListByEventID(ctx context.Context, eventID string) ([]*Media, error)
	Delete(ctx context.Context, id string) error
}

// BlobStore is the object storage holding media files.
type BlobStore interface {
	Put(ctx context.Context, key, contentType string, body io.Reader, size int64) error
	Delete(ctx context.Context, key string) error
	// SignedURL returns a time-limited URL for key; never a permanent public one.
	SignedURL(ctx context.Context, key string, ttl time.Duration) (string, error)
}

// MediaService defines gallery operations.
type MediaService interface {
	UploadMedia(ctx context.Context, userID string, input UploadMediaInput) (*Media, error)
	ListMedia(ctx context.Context, q MediaQuery) ([]*GalleryItem, error)
	DeleteMedia(ctx context.Context, mediaID, userID string) error
	SignedURL(ctx context.Context, q MediaQuery, path string) (string, error)
}
