// Package files manages uploaded compliance documents: storing the bytes
// through the object store gateway and tracking each file's analysis status.
package files

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Status is a file's position in the analysis workflow.
type Status string

const (
	StatusUploaded   Status = "Uploaded"
	StatusProcessing Status = "Processing"
	StatusAnalyzed   Status = "Analyzed"
)

// ParseStatus accepts the canonical spelling only.
func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusUploaded, StatusProcessing, StatusAnalyzed:
		return Status(s), nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidStatus, s)
}

// File is an uploaded document record.
type File struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Filename    string    `json:"filename"`
	StorageKey  string    `json:"storage_key"`
	StorageURL  string    `json:"storage_url"`
	ContentType string    `json:"content_type"`
	SizeBytes   int64     `json:"size_bytes"`
	PageCount   *int      `json:"page_count,omitempty"`
	OwnerID     string    `json:"owner_id"`
	Status      Status    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// OwnedBy reports whether owner may act on the file.
func (f *File) OwnedBy(owner string) bool {
	return owner != "" && f.OwnerID == owner
}

// CreateCommand carries an upload. Name defaults to Filename when empty.
type CreateCommand struct {
	Name        string
	Filename    string
	ContentType string
	Data        []byte
}

// Counts tallies an owner's files by status.
type Counts struct {
	Uploaded   int `json:"uploaded"`
	Processing int `json:"processing"`
	Analyzed   int `json:"analyzed"`
	Total      int `json:"total"`
}
