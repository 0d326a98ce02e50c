package files

import (
	"github.com/JaimeStill/compliance-reports/pkg/query"
	"github.com/JaimeStill/compliance-reports/pkg/repository"
)

var projection = query.NewProjectionMap("public", "files", "f").
	Project("id", "ID").
	Project("name", "Name").
	Project("filename", "Filename").
	Project("storage_key", "StorageKey").
	Project("storage_url", "StorageURL").
	Project("content_type", "ContentType").
	Project("size_bytes", "SizeBytes").
	Project("page_count", "PageCount").
	Project("owner_id", "OwnerID").
	Project("status", "Status").
	Project("created_at", "CreatedAt").
	Project("updated_at", "UpdatedAt")

// newest first
var defaultSort = query.SortField{Field: "CreatedAt", Descending: true}

const returning = `RETURNING id, name, filename, storage_key, storage_url, content_type,
	size_bytes, page_count, owner_id, status, created_at, updated_at`

func scanFile(s repository.Scanner) (File, error) {
	var f File
	err := s.Scan(
		&f.ID,
		&f.Name,
		&f.Filename,
		&f.StorageKey,
		&f.StorageURL,
		&f.ContentType,
		&f.SizeBytes,
		&f.PageCount,
		&f.OwnerID,
		&f.Status,
		&f.CreatedAt,
		&f.UpdatedAt,
	)
	return f, err
}
