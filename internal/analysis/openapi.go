package analysis

import "github.com/JaimeStill/compliance-reports/pkg/openapi"

type spec struct {
	Analyze  *openapi.Operation
	Findings *openapi.Operation
}

// Spec contains OpenAPI operation definitions for the analysis endpoints.
var Spec = spec{
	Analyze: &openapi.Operation{
		Summary:     "Analyze file",
		Description: "Runs the analysis tool against an uploaded file and records its findings",
		Parameters: []*openapi.Parameter{
			openapi.PathParam("id", "File UUID"),
		},
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("Analysis recorded", "Analysis"),
			403: openapi.ResponseRef("Forbidden"),
			404: openapi.ResponseRef("NotFound"),
			409: openapi.ResponseRef("Conflict"),
			502: {Description: "Analysis tool failed"},
		},
	},
	Findings: &openapi.Operation{
		Summary:     "Get findings",
		Description: "Returns the raw findings JSON produced for a file",
		Parameters: []*openapi.Parameter{
			openapi.PathParam("id", "File UUID"),
		},
		Responses: map[int]*openapi.Response{
			200: {Description: "Findings document", Content: map[string]*openapi.MediaType{
				"application/json": {Schema: &openapi.Schema{Type: "object"}},
			}},
			403: openapi.ResponseRef("Forbidden"),
			404: openapi.ResponseRef("NotFound"),
			503: openapi.ResponseRef("ServiceUnavailable"),
		},
	},
}

// Schemas returns the analysis domain schemas for OpenAPI components.
func (spec) Schemas() map[string]*openapi.Schema {
	return map[string]*openapi.Schema{
		"Analysis": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"id":          {Type: "string", Format: "uuid"},
				"file_id":     {Type: "string", Format: "uuid"},
				"storage_key": {Type: "string"},
				"storage_url": {Type: "string"},
				"format":      {Type: "string", Example: FormatJSON},
				"created_at":  {Type: "string", Format: "date-time"},
			},
		},
	}
}
