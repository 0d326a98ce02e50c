// Package render turns compliance findings into report documents. Rendering
// is pure: the same findings always produce the same bytes.
package render

import (
	"encoding/json"
	"errors"
	"fmt"
)

var (
	ErrInvalidFormat   = errors.New("invalid report format")
	ErrInvalidFindings = errors.New("invalid findings")
	ErrTooLarge        = errors.New("findings exceed render limit")
	ErrRender          = errors.New("render failed")
)

// DefaultMaxDetails bounds the number of detail rows a document may hold.
const DefaultMaxDetails = 10000

// Renderer converts raw findings JSON into a report format.
type Renderer struct {
	maxDetails int
}

// New creates a Renderer. maxDetails <= 0 uses DefaultMaxDetails.
func New(maxDetails int) *Renderer {
	if maxDetails <= 0 {
		maxDetails = DefaultMaxDetails
	}
	return &Renderer{maxDetails: maxDetails}
}

// Render produces the document for format. JSON returns raw unchanged.
func (r *Renderer) Render(raw []byte, format Format) ([]byte, error) {
	if format == FormatJSON {
		if !json.Valid(raw) {
			return nil, fmt.Errorf("%w: not valid JSON", ErrInvalidFindings)
		}
		return raw, nil
	}

	findings, err := ParseFindings(raw)
	if err != nil {
		return nil, err
	}
	if n := len(findings.Details); n > r.maxDetails {
		return nil, fmt.Errorf("%w: %d details (max %d)", ErrTooLarge, n, r.maxDetails)
	}

	switch format {
	case FormatPDF:
		return PDF(findings)
	case FormatDOCX:
		return DOCX(findings)
	default:
		return nil, fmt.Errorf("%w: %q", ErrInvalidFormat, format)
	}
}
