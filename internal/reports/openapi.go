package reports

import (
	"github.com/JaimeStill/compliance-reports/internal/render"
	"github.com/JaimeStill/compliance-reports/pkg/openapi"
)

type spec struct {
	Generate *openapi.Operation
	List     *openapi.Operation
	Download *openapi.Operation
}

var documentTypes = []string{
	render.FormatPDF.ContentType(),
	render.FormatDOCX.ContentType(),
	render.FormatJSON.ContentType(),
}

// Spec contains OpenAPI operation definitions for the report endpoints.
var Spec = spec{
	Generate: &openapi.Operation{
		Summary:     "Generate or fetch report",
		Description: "Returns the cached report for a file and format, rendering it from the findings on first request",
		Parameters: []*openapi.Parameter{
			openapi.PathParam("id", "File UUID"),
			openapi.EnumPathParam("format", "Report format (case-insensitive)", "PDF", "DOCX", "JSON"),
		},
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseFile("Report document", documentTypes...),
			400: openapi.ResponseRef("BadRequest"),
			403: openapi.ResponseRef("Forbidden"),
			404: openapi.ResponseRef("NotFound"),
			409: openapi.ResponseRef("Conflict"),
			503: openapi.ResponseRef("ServiceUnavailable"),
		},
	},
	List: &openapi.Operation{
		Summary:     "List reports",
		Description: "Returns the caller's reports joined to their source filenames",
		Parameters: []*openapi.Parameter{
			openapi.QueryParam("page", "integer", "Page number (1-indexed)", false),
			openapi.QueryParam("page_size", "integer", "Results per page", false),
			openapi.QueryParam("search", "string", "Matches the source filename", false),
			openapi.QueryParam("sort", "string", "CreatedAt or -CreatedAt", false),
			openapi.QueryParam("format", "string", "PDF, DOCX or JSON", false),
		},
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("Paginated list of reports", "ReportPageResult"),
			400: openapi.ResponseRef("BadRequest"),
		},
	},
	Download: &openapi.Operation{
		Summary: "Download report",
		Parameters: []*openapi.Parameter{
			openapi.PathParam("id", "Report UUID"),
		},
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseFile("Report document", documentTypes...),
			403: openapi.ResponseRef("Forbidden"),
			404: openapi.ResponseRef("NotFound"),
			503: openapi.ResponseRef("ServiceUnavailable"),
		},
	},
}

// Schemas returns the report domain schemas for OpenAPI components.
func (spec) Schemas() map[string]*openapi.Schema {
	return map[string]*openapi.Schema{
		"Report": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"id":          {Type: "string", Format: "uuid"},
				"file_id":     {Type: "string", Format: "uuid"},
				"format":      {Type: "string", Enum: []string{"PDF", "DOCX", "JSON"}},
				"storage_key": {Type: "string"},
				"storage_url": {Type: "string"},
				"size_bytes":  {Type: "integer"},
				"created_at":  {Type: "string", Format: "date-time"},
				"filename":    {Type: "string", Description: "Source filename"},
			},
		},
		"ReportPageResult": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"data":        {Type: "array", Items: openapi.SchemaRef("Report")},
				"total":       {Type: "integer"},
				"page":        {Type: "integer"},
				"page_size":   {Type: "integer"},
				"total_pages": {Type: "integer"},
			},
		},
	}
}
