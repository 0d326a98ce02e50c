package render_test

import (
	"archive/zip"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/JaimeStill/compliance-reports/internal/render"
)

const sample = `{"report_id":"r1","status":"Complete","summary":"ok","details":[{"control":"C1","status":"Pass"}]}`

func docxPart(t *testing.T, data []byte, name string) string {
	t.Helper()
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatalf("open docx: %v", err)
	}
	for _, f := range zr.File {
		if f.Name != name {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			t.Fatal(err)
		}
		defer rc.Close()
		body, err := io.ReadAll(rc)
		if err != nil {
			t.Fatal(err)
		}
		return string(body)
	}
	t.Fatalf("part %s not found", name)
	return ""
}

func TestRender_ContainsFindings(t *testing.T) {
	r := render.New(0)

	pdf, err := r.Render([]byte(sample), render.FormatPDF)
	if err != nil {
		t.Fatalf("Render(PDF) error = %v", err)
	}
	if !bytes.HasPrefix(pdf, []byte("%PDF-")) {
		t.Fatalf("not a pdf: %q", pdf[:16])
	}
	for _, want := range []string{"(r1)", "(Complete)", "(C1)", "(Pass)", "(Compliance Report)"} {
		if !bytes.Contains(pdf, []byte(want)) {
			t.Errorf("pdf missing %s", want)
		}
	}

	docx, err := r.Render([]byte(sample), render.FormatDOCX)
	if err != nil {
		t.Fatalf("Render(DOCX) error = %v", err)
	}
	doc := docxPart(t, docx, "word/document.xml")
	for _, want := range []string{">r1<", ">Complete<", ">C1<", ">Pass<", `w:val="Heading1"`} {
		if !strings.Contains(doc, want) {
			t.Errorf("document.xml missing %s", want)
		}
	}
	if n := strings.Count(doc, "<w:tr>"); n != 2 {
		t.Errorf("table rows = %d, want header + 1", n)
	}
}

func TestRender_Deterministic(t *testing.T) {
	r := render.New(0)
	raw := []byte(`{"report_id":"r2","processed_at":"2024-05-01T12:30:00.123456Z","status":"Success",
		"summary":"Quarterly review","details":[{"control":"AC-1","status":"Compliant"},{"control":"AC-2","status":"Non-Compliant"}]}`)

	for _, format := range []render.Format{render.FormatPDF, render.FormatDOCX, render.FormatJSON} {
		t.Run(string(format), func(t *testing.T) {
			a, err := r.Render(raw, format)
			if err != nil {
				t.Fatal(err)
			}
			b, err := r.Render(raw, format)
			if err != nil {
				t.Fatal(err)
			}
			if !bytes.Equal(a, b) {
				t.Error("output differs between renders")
			}
		})
	}
}

func TestRender_JSONIdentity(t *testing.T) {
	raw := []byte("{\n  \"report_id\": \"r1\",\n  \"anything\": [1, 2]\n}")

	got, err := render.New(0).Render(raw, render.FormatJSON)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got, raw) {
		t.Errorf("JSON render changed bytes: %q", got)
	}

	if _, err := render.New(0).Render([]byte("{"), render.FormatJSON); !errors.Is(err, render.ErrInvalidFindings) {
		t.Errorf("error = %v, want ErrInvalidFindings", err)
	}
}

func findingsWith(n int) []byte {
	f := render.Findings{ReportID: "big", Status: "Complete", Summary: "many rows"}
	for i := range n {
		f.Details = append(f.Details, render.Detail{Control: fmt.Sprintf("CTRL-%04d", i), Status: "Pass"})
	}
	raw, _ := json.Marshal(f)
	return raw
}

func TestPDF_PaginatesInOrder(t *testing.T) {
	pdf, err := render.New(0).Render(findingsWith(120), render.FormatPDF)
	if err != nil {
		t.Fatal(err)
	}

	pages, err := render.PageCount(pdf)
	if err != nil {
		t.Fatal(err)
	}
	if pages < 3 {
		t.Errorf("pages = %d, want the table to span several pages", pages)
	}

	if n := bytes.Count(pdf, []byte("(Control)")); n != pages {
		t.Errorf("table header drawn %d times on %d pages", n, pages)
	}
	if n := bytes.Count(pdf, []byte(" - Page ")); n != pages {
		t.Errorf("footer drawn %d times on %d pages", n, pages)
	}

	last := -1
	for i := range 120 {
		idx := bytes.Index(pdf, []byte(fmt.Sprintf("(CTRL-%04d)", i)))
		if idx < 0 {
			t.Fatalf("row %d missing", i)
		}
		if idx < last {
			t.Fatalf("row %d out of order", i)
		}
		last = idx
	}
}

func TestRender_Limits(t *testing.T) {
	r := render.New(5)

	if _, err := r.Render(findingsWith(6), render.FormatPDF); !errors.Is(err, render.ErrTooLarge) {
		t.Errorf("error = %v, want ErrTooLarge", err)
	}
	if _, err := r.Render(findingsWith(5), render.FormatDOCX); err != nil {
		t.Errorf("at limit error = %v", err)
	}
}

func TestRender_InvalidFindings(t *testing.T) {
	tests := []string{
		`{"status":"Complete","details":[]}`,
		`{"report_id":"r1","status":"Complete","details":[{"control":"C1"}]}`,
		`{"report_id":"r1","status":"Complete","details":"none"}`,
		`not json`,
	}

	for _, raw := range tests {
		if _, err := render.New(0).Render([]byte(raw), render.FormatPDF); !errors.Is(err, render.ErrInvalidFindings) {
			t.Errorf("Render(%s) error = %v, want ErrInvalidFindings", raw, err)
		}
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in   string
		want render.Format
		ext  string
		ct   string
	}{
		{"pdf", render.FormatPDF, "pdf", "application/pdf"},
		{"DOCX", render.FormatDOCX, "docx", "application/vnd.openxmlformats-officedocument.wordprocessingml.document"},
		{" Json ", render.FormatJSON, "json", "application/json"},
	}

	for _, tt := range tests {
		got, err := render.ParseFormat(tt.in)
		if err != nil || got != tt.want {
			t.Errorf("ParseFormat(%q) = %q, %v", tt.in, got, err)
			continue
		}
		if got.Ext() != tt.ext || got.ContentType() != tt.ct {
			t.Errorf("%s: ext %q, content type %q", got, got.Ext(), got.ContentType())
		}
	}

	if _, err := render.ParseFormat("xlsx"); !errors.Is(err, render.ErrInvalidFormat) {
		t.Errorf("error = %v, want ErrInvalidFormat", err)
	}
}

func TestProcessedTime(t *testing.T) {
	f := render.Findings{ProcessedAt: "2024-05-01T12:30:00.123456Z"}
	if got := f.ProcessedLabel(); got != "2024-05-01 12:30:00 UTC" {
		t.Errorf("ProcessedLabel() = %q", got)
	}

	missing := render.Findings{}
	if _, ok := missing.ProcessedTime(); ok {
		t.Error("empty processed_at should not parse")
	}
}
