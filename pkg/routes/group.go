package routes

import (
	"net/http"

	"github.com/JaimeStill/compliance-reports/pkg/openapi"
)

// Group collects routes under a shared prefix. Children inherit the prefix.
type Group struct {
	Prefix      string
	Tags        []string
	Description string
	Routes      []Route
	Children    []Group
}

// Route binds a method and pattern to a handler. Patterns use net/http
// ServeMux wildcards ("/{id}").
type Route struct {
	Method  string
	Pattern string
	Handler http.HandlerFunc
	OpenAPI *openapi.Operation
}
