package files

import (
	"net/url"

	"github.com/JaimeStill/compliance-reports/pkg/query"
)

// Filters narrows a file listing.
type Filters struct {
	Status *Status
	Name   *string
}

// FiltersFromQuery reads status and name from query parameters.
// An unknown status is ignored.
func FiltersFromQuery(values url.Values) Filters {
	var f Filters

	if s := values.Get("status"); s != "" {
		if status, err := ParseStatus(s); err == nil {
			f.Status = &status
		}
	}
	if n := values.Get("name"); n != "" {
		f.Name = &n
	}

	return f
}

// Apply adds the filter conditions to b.
func (f Filters) Apply(b *query.Builder) *query.Builder {
	if f.Status != nil {
		b.WhereEquals("Status", string(*f.Status))
	}
	return b.WhereContains("Name", f.Name)
}
