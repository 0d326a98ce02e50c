package api

import (
	"github.com/JaimeStill/compliance-reports/internal/analysis"
	"github.com/JaimeStill/compliance-reports/internal/config"
	"github.com/JaimeStill/compliance-reports/internal/files"
	"github.com/JaimeStill/compliance-reports/internal/reports"
	"github.com/JaimeStill/compliance-reports/pkg/openapi"
	"github.com/JaimeStill/compliance-reports/pkg/routes"
)

// generateSpec builds the document from the operations attached to registered routes.
func generateSpec(rs routes.System, cfg *config.Config) ([]byte, error) {
	components := openapi.NewComponents()
	components.AddSchemas(files.Spec.Schemas())
	components.AddSchemas(analysis.Spec.Schemas())
	components.AddSchemas(reports.Spec.Schemas())

	spec := openapi.NewSpec(openapi.Info{
		Title:       cfg.API.OpenAPI.Title,
		Version:     cfg.Version,
		Description: cfg.API.OpenAPI.Description,
	}, components)
	spec.Servers = []*openapi.Server{{URL: cfg.API.BasePath}}

	for _, group := range rs.Groups() {
		processGroup(spec, "", nil, group)
	}
	for _, route := range rs.Routes() {
		if route.OpenAPI != nil {
			spec.AddOperation(route.Pattern, route.Method, route.OpenAPI)
		}
	}

	return openapi.MarshalJSON(spec)
}

func processGroup(spec *openapi.Spec, parent string, tags []string, group routes.Group) {
	prefix := parent + group.Prefix
	if len(group.Tags) > 0 {
		tags = group.Tags
	}

	for _, route := range group.Routes {
		if route.OpenAPI == nil {
			continue
		}

		op := *route.OpenAPI
		if len(op.Tags) == 0 {
			op.Tags = tags
		}
		path := prefix + route.Pattern
		if path == "" {
			path = "/"
		}
		spec.AddOperation(path, route.Method, &op)
	}

	for _, child := range group.Children {
		processGroup(spec, prefix, tags, child)
	}
}
