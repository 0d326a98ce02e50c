package files

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"github.com/JaimeStill/compliance-reports/internal/blobs"
	"github.com/JaimeStill/compliance-reports/pkg/pagination"
	"github.com/JaimeStill/compliance-reports/pkg/query"
	"github.com/JaimeStill/compliance-reports/pkg/repository"
	"github.com/JaimeStill/compliance-reports/pkg/storage"
)

type repo struct {
	db            *sql.DB
	blobs         blobs.System
	logger        *slog.Logger
	pagination    pagination.Config
	maxUploadSize int64
}

// New creates the file store over PostgreSQL and the object store gateway.
func New(db *sql.DB, blobs blobs.System, logger *slog.Logger, pagination pagination.Config, maxUploadSize int64) System {
	return &repo{
		db:            db,
		blobs:         blobs,
		logger:        logger.With("system", "files"),
		pagination:    pagination,
		maxUploadSize: maxUploadSize,
	}
}

func (r *repo) Upload(ctx context.Context, owner string, cmd CreateCommand) (*File, error) {
	if len(cmd.Data) == 0 || cmd.Filename == "" {
		return nil, ErrInvalidFile
	}
	if r.maxUploadSize > 0 && int64(len(cmd.Data)) > r.maxUploadSize {
		return nil, fmt.Errorf("%w: %s > %s", ErrFileTooLarge,
			humanize.Bytes(uint64(len(cmd.Data))), humanize.Bytes(uint64(r.maxUploadSize)))
	}

	name := strings.TrimSpace(cmd.Name)
	if name == "" {
		name = cmd.Filename
	}
	contentType := DetectContentType(cmd.Filename, cmd.ContentType, cmd.Data)

	var pageCount *int
	if contentType == "application/pdf" {
		if n, err := PDFPageCount(cmd.Data); err != nil {
			r.logger.Warn("failed to read pdf page count", "filename", cmd.Filename, "error", err)
		} else {
			pageCount = &n
		}
	}

	obj, err := r.blobs.Put(ctx, cmd.Data, cmd.Filename, blobs.FolderUploads)
	if err != nil {
		return nil, fmt.Errorf("store upload: %w", err)
	}

	q := `INSERT INTO files (id, name, filename, storage_key, storage_url, content_type,
		size_bytes, page_count, owner_id, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10) ` + returning

	file, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (File, error) {
		return repository.QueryOne(ctx, tx, q, []any{
			uuid.New(), name, filepath.Base(cmd.Filename), obj.Key, obj.URL, contentType,
			int64(len(cmd.Data)), pageCount, owner, string(StatusUploaded),
		}, scanFile)
	})
	if err != nil {
		if delErr := r.blobs.Delete(context.WithoutCancel(ctx), obj.Key); delErr != nil {
			r.logger.Error("cleanup failed after db error", "storage_key", obj.Key, "error", delErr)
		}
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("file uploaded",
		"id", file.ID,
		"owner", owner,
		"storage_key", file.StorageKey,
		"size", humanize.Bytes(uint64(file.SizeBytes)),
	)
	return &file, nil
}

func (r *repo) Find(ctx context.Context, id uuid.UUID) (*File, error) {
	q, args := query.NewBuilder(projection, defaultSort).BuildSingle("ID", id)

	file, err := repository.QueryOne(ctx, r.db, q, args, scanFile)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &file, nil
}

func (r *repo) FindOwned(ctx context.Context, id uuid.UUID, owner string) (*File, error) {
	file, err := r.Find(ctx, id)
	if err != nil {
		return nil, err
	}
	if !file.OwnedBy(owner) {
		return nil, ErrForbidden
	}
	return file, nil
}

func (r *repo) List(ctx context.Context, owner string, page pagination.PageRequest, filters Filters) (*pagination.PageResult[File], error) {
	page.Normalize(r.pagination)

	qb := query.NewBuilder(projection, defaultSort).
		WhereEquals("OwnerID", owner).
		WhereSearch(page.Search, "Name", "Filename").
		OrderBy(page.Sort...)
	filters.Apply(qb)

	countSQL, countArgs := qb.BuildCount()
	var total int
	if err := r.db.QueryRowContext(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count files: %w", err)
	}

	pageSQL, pageArgs := qb.BuildPage(page.Page, page.PageSize)
	items, err := repository.QueryMany(ctx, r.db, pageSQL, pageArgs, scanFile)
	if err != nil {
		return nil, fmt.Errorf("query files: %w", err)
	}

	result := pagination.NewPageResult(items, total, page.Page, page.PageSize)
	return &result, nil
}

func (r *repo) Counts(ctx context.Context, owner string) (*Counts, error) {
	q := `SELECT status, COUNT(*) FROM files WHERE owner_id = $1 GROUP BY status`

	type row struct {
		status Status
		n      int
	}
	rows, err := repository.QueryMany(ctx, r.db, q, []any{owner}, func(s repository.Scanner) (row, error) {
		var rw row
		err := s.Scan(&rw.status, &rw.n)
		return rw, err
	})
	if err != nil {
		return nil, fmt.Errorf("count files by status: %w", err)
	}

	var c Counts
	for _, rw := range rows {
		switch rw.status {
		case StatusUploaded:
			c.Uploaded = rw.n
		case StatusProcessing:
			c.Processing = rw.n
		case StatusAnalyzed:
			c.Analyzed = rw.n
		}
		c.Total += rw.n
	}
	return &c, nil
}

func (r *repo) SetStatus(ctx context.Context, id uuid.UUID, status Status) (*File, error) {
	if _, err := ParseStatus(string(status)); err != nil {
		return nil, err
	}

	q := `UPDATE files SET status = $1, updated_at = NOW() WHERE id = $2 ` + returning

	file, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (File, error) {
		return repository.QueryOne(ctx, tx, q, []any{string(status), id}, scanFile)
	})
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("file status updated", "id", id, "status", status)
	return &file, nil
}

func (r *repo) Transition(ctx context.Context, id uuid.UUID, from, to Status) (*File, error) {
	if _, err := ParseStatus(string(to)); err != nil {
		return nil, err
	}

	q := `UPDATE files SET status = $1, updated_at = NOW() WHERE id = $2 AND status = $3 ` + returning

	file, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (File, error) {
		return repository.QueryOne(ctx, tx, q, []any{string(to), id, string(from)}, scanFile)
	})
	if err != nil {
		mapped := repository.MapError(err, ErrNotFound, ErrDuplicate)
		if !errors.Is(mapped, ErrNotFound) {
			return nil, mapped
		}
		// distinguish a missing file from one in another status
		if _, findErr := r.Find(ctx, id); findErr != nil {
			return nil, findErr
		}
		return nil, fmt.Errorf("%w: expected %s", ErrStatusChanged, from)
	}

	r.logger.Info("file status updated", "id", id, "from", from, "to", to)
	return &file, nil
}

// DetectContentType prefers a specific declared type, then the extension,
// then content sniffing.
func DetectContentType(filename, declared string, data []byte) string {
	if declared != "" && declared != "application/octet-stream" {
		return declared
	}
	if ct := storage.ContentType(filename); ct != "application/octet-stream" {
		return ct
	}
	return http.DetectContentType(data)
}

// PDFPageCount reads the page count of a PDF document.
func PDFPageCount(data []byte) (int, error) {
	return api.PageCount(bytes.NewReader(data), model.NewDefaultConfiguration())
}
