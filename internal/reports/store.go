package reports

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/JaimeStill/compliance-reports/internal/render"
	"github.com/JaimeStill/compliance-reports/pkg/pagination"
	"github.com/JaimeStill/compliance-reports/pkg/query"
	"github.com/JaimeStill/compliance-reports/pkg/repository"
)

// Store persists report records.
type Store interface {
	Find(ctx context.Context, id uuid.UUID) (*Report, error)
	FindByFile(ctx context.Context, fileID uuid.UUID, format render.Format) (*Report, error)
	// Create returns ErrDuplicate when the file already has a report in format.
	Create(ctx context.Context, rec Report) (*Report, error)
	List(ctx context.Context, owner string, page pagination.PageRequest, filters Filters) (*pagination.PageResult[Report], error)
}

var projection = query.NewProjectionMap("public", "reports", "r").
	Project("id", "ID").
	Project("file_id", "FileID").
	Project("format", "Format").
	Project("storage_key", "StorageKey").
	Project("storage_url", "StorageURL").
	Project("size_bytes", "SizeBytes").
	Project("created_at", "CreatedAt")

var listProjection = query.NewProjectionMap("public", "reports", "r").
	Join("public", "files", "f", "f.id = r.file_id").
	Project("id", "ID").
	Project("file_id", "FileID").
	Project("format", "Format").
	Project("storage_key", "StorageKey").
	Project("storage_url", "StorageURL").
	Project("size_bytes", "SizeBytes").
	Project("created_at", "CreatedAt").
	ProjectQualified("f.filename", "Filename").
	Filterable("f.owner_id", "OwnerID")

var defaultSort = query.SortField{Field: "CreatedAt", Descending: true}

const returning = `RETURNING id, file_id, format, storage_key, storage_url, size_bytes, created_at`

func scanReport(s repository.Scanner) (Report, error) {
	var r Report
	err := s.Scan(&r.ID, &r.FileID, &r.Format, &r.StorageKey, &r.StorageURL, &r.SizeBytes, &r.CreatedAt)
	return r, err
}

func scanListed(s repository.Scanner) (Report, error) {
	var r Report
	err := s.Scan(&r.ID, &r.FileID, &r.Format, &r.StorageKey, &r.StorageURL, &r.SizeBytes, &r.CreatedAt, &r.Filename)
	return r, err
}

type store struct {
	db         *sql.DB
	pagination pagination.Config
}

// NewStore creates the PostgreSQL report store.
func NewStore(db *sql.DB, pagination pagination.Config) Store {
	return &store{db: db, pagination: pagination}
}

func (s *store) Find(ctx context.Context, id uuid.UUID) (*Report, error) {
	q, args := query.NewBuilder(projection, defaultSort).BuildSingle("ID", id)

	rec, err := repository.QueryOne(ctx, s.db, q, args, scanReport)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &rec, nil
}

func (s *store) FindByFile(ctx context.Context, fileID uuid.UUID, format render.Format) (*Report, error) {
	q := `SELECT ` + projection.Columns() + ` FROM ` + projection.Table() +
		` WHERE r.file_id = $1 AND r.format = $2`

	rec, err := repository.QueryOne(ctx, s.db, q, []any{fileID, string(format)}, scanReport)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &rec, nil
}

func (s *store) Create(ctx context.Context, rec Report) (*Report, error) {
	q := `INSERT INTO reports (id, file_id, format, storage_key, storage_url, size_bytes)
		VALUES ($1, $2, $3, $4, $5, $6) ` + returning

	if rec.ID == uuid.Nil {
		rec.ID = uuid.New()
	}

	created, err := repository.WithTx(ctx, s.db, func(tx *sql.Tx) (Report, error) {
		return repository.QueryOne(ctx, tx, q, []any{
			rec.ID, rec.FileID, string(rec.Format), rec.StorageKey, rec.StorageURL, rec.SizeBytes,
		}, scanReport)
	})
	if err != nil {
		mapped := repository.MapError(err, ErrNotFound, ErrDuplicate)
		if errors.Is(mapped, ErrDuplicate) {
			return nil, ErrDuplicate
		}
		return nil, fmt.Errorf("insert report: %w", err)
	}
	return &created, nil
}

func (s *store) List(ctx context.Context, owner string, page pagination.PageRequest, filters Filters) (*pagination.PageResult[Report], error) {
	page.Normalize(s.pagination)

	qb := query.NewBuilder(listProjection, defaultSort).
		WhereEquals("OwnerID", owner).
		WhereSearch(page.Search, "Filename").
		OrderBy(page.Sort...)
	filters.Apply(qb)

	countSQL, countArgs := qb.BuildCount()
	var total int
	if err := s.db.QueryRowContext(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count reports: %w", err)
	}

	pageSQL, pageArgs := qb.BuildPage(page.Page, page.PageSize)
	items, err := repository.QueryMany(ctx, s.db, pageSQL, pageArgs, scanListed)
	if err != nil {
		return nil, fmt.Errorf("query reports: %w", err)
	}

	result := pagination.NewPageResult(items, total, page.Page, page.PageSize)
	return &result, nil
}
