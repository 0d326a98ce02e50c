// Package reports serves rendered compliance reports. Each (file, format)
// pair has at most one report, generated on first request and served from
// object storage afterwards.
package reports

import (
	"net/url"
	"time"

	"github.com/google/uuid"

	"github.com/JaimeStill/compliance-reports/internal/render"
	"github.com/JaimeStill/compliance-reports/pkg/query"
)

// Report is the record of one rendered document. Records are never modified.
type Report struct {
	ID         uuid.UUID     `json:"id"`
	FileID     uuid.UUID     `json:"file_id"`
	Format     render.Format `json:"format"`
	StorageKey string        `json:"storage_key"`
	StorageURL string        `json:"storage_url"`
	SizeBytes  int64         `json:"size_bytes"`
	CreatedAt  time.Time     `json:"created_at"`

	// Filename is the source file's name. Populated by List only.
	Filename string `json:"filename,omitempty"`
}

// Artifact is a report's bytes ready to be served.
type Artifact struct {
	Report      *Report
	Data        []byte
	ContentType string
	Filename    string
}

func newArtifact(rec *Report, data []byte, id uuid.UUID) *Artifact {
	return &Artifact{
		Report:      rec,
		Data:        data,
		ContentType: rec.Format.ContentType(),
		Filename:    "report_" + id.String() + "." + rec.Format.Ext(),
	}
}

// Filters narrows a report listing.
type Filters struct {
	Format *render.Format
}

// FiltersFromQuery reads format from query parameters. An unknown format is ignored.
func FiltersFromQuery(values url.Values) Filters {
	var f Filters
	if s := values.Get("format"); s != "" {
		if format, err := render.ParseFormat(s); err == nil {
			f.Format = &format
		}
	}
	return f
}

// Apply adds the filter conditions to b.
func (f Filters) Apply(b *query.Builder) *query.Builder {
	if f.Format != nil {
		b.WhereEquals("Format", string(*f.Format))
	}
	return b
}
