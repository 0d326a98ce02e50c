package render

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/xeipuuv/gojsonschema"
)

//go:embed findings.schema.json
var findingsSchema []byte

var schemaLoader = gojsonschema.NewBytesLoader(findingsSchema)

// Findings is the structured output of a compliance analysis run.
type Findings struct {
	ReportID    string   `json:"report_id"`
	FileKey     string   `json:"file_key,omitempty"`
	S3URL       string   `json:"s3_url,omitempty"`
	ProcessedAt string   `json:"processed_at,omitempty"`
	Status      string   `json:"status"`
	Summary     string   `json:"summary,omitempty"`
	Details     []Detail `json:"details"`
}

// Detail is the outcome of one control.
type Detail struct {
	Control string `json:"control"`
	Status  string `json:"status"`
}

// ParseFindings validates raw findings JSON and decodes it.
func ParseFindings(raw []byte) (*Findings, error) {
	if err := ValidateFindings(raw); err != nil {
		return nil, err
	}

	var f Findings
	if err := json.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFindings, err)
	}
	return &f, nil
}

// ValidateFindings checks raw against the findings schema.
func ValidateFindings(raw []byte) error {
	result, err := gojsonschema.Validate(schemaLoader, gojsonschema.NewBytesLoader(raw))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidFindings, err)
	}
	if !result.Valid() {
		msgs := make([]string, 0, len(result.Errors()))
		for _, e := range result.Errors() {
			msgs = append(msgs, e.String())
		}
		return fmt.Errorf("%w: %s", ErrInvalidFindings, strings.Join(msgs, "; "))
	}
	return nil
}

// epoch stands in for a missing or unreadable processed_at.
var epoch = time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)

// ProcessedTime parses ProcessedAt. Documents are stamped with this value so
// identical findings always render identical bytes.
func (f *Findings) ProcessedTime() (time.Time, bool) {
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04:05.999999"} {
		if t, err := time.Parse(layout, f.ProcessedAt); err == nil {
			return t.UTC(), true
		}
	}
	return epoch, false
}

// ProcessedLabel is the display form of ProcessedAt.
func (f *Findings) ProcessedLabel() string {
	if t, ok := f.ProcessedTime(); ok {
		return t.Format("2006-01-02 15:04:05 UTC")
	}
	return f.ProcessedAt
}
