package files

import "github.com/JaimeStill/compliance-reports/pkg/openapi"

type spec struct {
	Upload *openapi.Operation
	List   *openapi.Operation
	Stats  *openapi.Operation
	Find   *openapi.Operation
}

// Spec contains OpenAPI operation definitions for the file endpoints.
var Spec = spec{
	Upload: &openapi.Operation{
		Summary:     "Upload file",
		Description: "Stores a document for analysis. The record starts in the Uploaded status",
		RequestBody: openapi.RequestBodyMultipart(&openapi.Schema{
			Type:     "object",
			Required: []string{"file"},
			Properties: map[string]*openapi.Schema{
				"file": {Type: "string", Format: "binary"},
				"name": {Type: "string", Description: "Display name (defaults to the filename)"},
			},
		}),
		Responses: map[int]*openapi.Response{
			201: openapi.ResponseJSON("File stored", "File"),
			400: openapi.ResponseRef("BadRequest"),
			401: openapi.ResponseRef("Unauthorized"),
			413: {Description: "File exceeds the upload limit"},
		},
	},
	List: &openapi.Operation{
		Summary:     "List files",
		Description: "Returns the caller's files, newest first unless sorted",
		Parameters: []*openapi.Parameter{
			openapi.QueryParam("page", "integer", "Page number (1-indexed)", false),
			openapi.QueryParam("page_size", "integer", "Results per page", false),
			openapi.QueryParam("search", "string", "Matches name or filename", false),
			openapi.QueryParam("sort", "string", "Comma-separated sort fields. Prefix with - for descending", false),
			openapi.QueryParam("status", "string", "Uploaded, Processing or Analyzed", false),
			openapi.QueryParam("name", "string", "Filter by name (contains)", false),
		},
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("Paginated list of files", "FilePageResult"),
			400: openapi.ResponseRef("BadRequest"),
		},
	},
	Stats: &openapi.Operation{
		Summary:     "File counts",
		Description: "Counts the caller's files by status",
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("Counts by status", "FileCounts"),
		},
	},
	Find: &openapi.Operation{
		Summary: "Get file by ID",
		Parameters: []*openapi.Parameter{
			openapi.PathParam("id", "File UUID"),
		},
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("File record", "File"),
			400: openapi.ResponseRef("BadRequest"),
			403: openapi.ResponseRef("Forbidden"),
			404: openapi.ResponseRef("NotFound"),
		},
	},
}

// Schemas returns the file domain schemas for OpenAPI components.
func (spec) Schemas() map[string]*openapi.Schema {
	return map[string]*openapi.Schema{
		"File": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"id":           {Type: "string", Format: "uuid"},
				"name":         {Type: "string"},
				"filename":     {Type: "string"},
				"storage_key":  {Type: "string"},
				"storage_url":  {Type: "string"},
				"content_type": {Type: "string", Example: "application/pdf"},
				"size_bytes":   {Type: "integer"},
				"page_count":   {Type: "integer", Description: "Set for PDF uploads"},
				"owner_id":     {Type: "string"},
				"status":       {Type: "string", Enum: []string{"Uploaded", "Processing", "Analyzed"}},
				"created_at":   {Type: "string", Format: "date-time"},
				"updated_at":   {Type: "string", Format: "date-time"},
			},
		},
		"FileCounts": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"uploaded":   {Type: "integer"},
				"processing": {Type: "integer"},
				"analyzed":   {Type: "integer"},
				"total":      {Type: "integer"},
			},
		},
		"FilePageResult": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"data":        {Type: "array", Items: openapi.SchemaRef("File")},
				"total":       {Type: "integer"},
				"page":        {Type: "integer"},
				"page_size":   {Type: "integer"},
				"total_pages": {Type: "integer"},
			},
		},
	}
}
