// Package analysis runs the external compliance analysis tool against
// uploaded files and records where the resulting findings are stored.
package analysis

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/JaimeStill/compliance-reports/pkg/repository"
)

// FormatJSON is the only findings format the analysis tool produces.
const FormatJSON = "JSON"

// Artifact records the findings produced for one file.
type Artifact struct {
	ID         uuid.UUID `json:"id"`
	FileID     uuid.UUID `json:"file_id"`
	StorageKey string    `json:"storage_key"`
	StorageURL string    `json:"storage_url"`
	Format     string    `json:"format"`
	CreatedAt  time.Time `json:"created_at"`
}

// Store persists analysis artifacts. A file has at most one.
type Store interface {
	FindByFile(ctx context.Context, fileID uuid.UUID) (*Artifact, error)
	Create(ctx context.Context, fileID uuid.UUID, result Result) (*Artifact, error)
}

type store struct {
	db *sql.DB
}

// NewStore creates the PostgreSQL artifact store.
func NewStore(db *sql.DB) Store {
	return &store{db: db}
}

const artifactColumns = `id, file_id, storage_key, storage_url, format, created_at`

func scanArtifact(s repository.Scanner) (Artifact, error) {
	var a Artifact
	err := s.Scan(&a.ID, &a.FileID, &a.StorageKey, &a.StorageURL, &a.Format, &a.CreatedAt)
	return a, err
}

func (s *store) FindByFile(ctx context.Context, fileID uuid.UUID) (*Artifact, error) {
	q := `SELECT ` + artifactColumns + ` FROM analyses WHERE file_id = $1`

	a, err := repository.QueryOne(ctx, s.db, q, []any{fileID}, scanArtifact)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrAlreadyAnalyzed)
	}
	return &a, nil
}

func (s *store) Create(ctx context.Context, fileID uuid.UUID, result Result) (*Artifact, error) {
	q := `INSERT INTO analyses (id, file_id, storage_key, storage_url, format)
		VALUES ($1, $2, $3, $4, $5) RETURNING ` + artifactColumns

	a, err := repository.WithTx(ctx, s.db, func(tx *sql.Tx) (Artifact, error) {
		return repository.QueryOne(ctx, tx, q, []any{
			uuid.New(), fileID, result.ReportKey, result.ReportURL, FormatJSON,
		}, scanArtifact)
	})
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrAlreadyAnalyzed)
	}
	return &a, nil
}
