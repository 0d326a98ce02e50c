package render

import (
	"bytes"
	"fmt"

	"github.com/go-pdf/fpdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

const (
	pdfMargin     = 20.0
	pdfRowHeight  = 8.0
	pdfFooterSize = 15.0
)

// PDF renders findings as a paginated A4 document. Content streams are left
// uncompressed and the document dates come from the findings, so output is
// stable for identical input. The result is validated before it is returned.
func PDF(f *Findings) ([]byte, error) {
	stamp, _ := f.ProcessedTime()

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetCompression(false)
	pdf.SetCatalogSort(true)
	pdf.SetCreationDate(stamp)
	pdf.SetModificationDate(stamp)
	pdf.SetTitle("Compliance Report", true)
	pdf.SetSubject("Report "+f.ReportID, true)
	pdf.SetCreator("compliance-reports", true)
	pdf.SetMargins(pdfMargin, pdfMargin, pdfMargin)
	pdf.SetAutoPageBreak(true, pdfMargin+pdfFooterSize)

	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetFooterFunc(func() {
		pdf.SetY(-pdfFooterSize)
		pdf.SetFont("Helvetica", "I", 8)
		pdf.CellFormat(0, 10, fmt.Sprintf("Compliance Report %s - Page %d", tr(f.ReportID), pdf.PageNo()), "", 0, "C", false, 0, "")
	})

	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 20)
	pdf.CellFormat(0, 12, "Compliance Report", "", 1, "C", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "", 12)
	for _, line := range [][2]string{
		{"Report ID", f.ReportID},
		{"Processed At", f.ProcessedLabel()},
		{"Status", f.Status},
	} {
		pdf.SetFont("Helvetica", "B", 12)
		pdf.CellFormat(35, 7, line[0]+":", "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 12)
		pdf.CellFormat(0, 7, tr(line[1]), "", 1, "L", false, 0, "")
	}
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "BU", 14)
	pdf.CellFormat(0, 9, "Summary", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 12)
	pdf.MultiCell(0, 6, tr(f.Summary), "", "L", false)
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "BU", 14)
	pdf.CellFormat(0, 9, "Details", "", 1, "L", false, 0, "")
	pdf.Ln(2)

	pageW, pageH := pdf.GetPageSize()
	colW := (pageW - 2*pdfMargin) / 2
	limit := pageH - pdfMargin - pdfFooterSize

	header := func() {
		pdf.SetFont("Helvetica", "B", 12)
		pdf.SetFillColor(230, 230, 230)
		pdf.CellFormat(colW, pdfRowHeight, "Control", "1", 0, "L", true, 0, "")
		pdf.CellFormat(colW, pdfRowHeight, "Status", "1", 1, "L", true, 0, "")
		pdf.SetFont("Helvetica", "", 12)
	}

	header()
	for _, d := range f.Details {
		if pdf.GetY()+pdfRowHeight > limit {
			pdf.AddPage()
			header()
		}
		pdf.CellFormat(colW, pdfRowHeight, tr(d.Control), "1", 0, "L", false, 0, "")
		pdf.CellFormat(colW, pdfRowHeight, tr(d.Status), "1", 1, "L", false, 0, "")
	}

	if err := pdf.Error(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRender, err)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRender, err)
	}

	data := buf.Bytes()
	if err := ValidatePDF(data); err != nil {
		return nil, err
	}
	return data, nil
}

// ValidatePDF checks that data is a well-formed PDF document.
func ValidatePDF(data []byte) error {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	if err := api.Validate(bytes.NewReader(data), conf); err != nil {
		return fmt.Errorf("%w: invalid pdf: %v", ErrRender, err)
	}
	return nil
}

// PageCount reports the number of pages in a PDF document.
func PageCount(data []byte) (int, error) {
	return api.PageCount(bytes.NewReader(data), model.NewDefaultConfiguration())
}
