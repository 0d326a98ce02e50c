package render

import (
	"fmt"
	"strings"
)

// Format is a report encoding.
type Format string

const (
	FormatPDF  Format = "PDF"
	FormatDOCX Format = "DOCX"
	FormatJSON Format = "JSON"
)

// Formats lists every supported encoding.
var Formats = []Format{FormatPDF, FormatDOCX, FormatJSON}

// ParseFormat accepts a format name in any case.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToUpper(strings.TrimSpace(s)))
	switch f {
	case FormatPDF, FormatDOCX, FormatJSON:
		return f, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidFormat, s)
}

// ContentType returns the MIME type served for the format.
func (f Format) ContentType() string {
	switch f {
	case FormatPDF:
		return "application/pdf"
	case FormatDOCX:
		return "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	default:
		return "application/json"
	}
}

// Ext returns the file extension without the dot.
func (f Format) Ext() string {
	return strings.ToLower(string(f))
}
