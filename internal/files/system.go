package files

import (
	"context"

	"github.com/google/uuid"

	"github.com/JaimeStill/compliance-reports/pkg/pagination"
)

// System is the file record store.
type System interface {
	Upload(ctx context.Context, owner string, cmd CreateCommand) (*File, error)
	Find(ctx context.Context, id uuid.UUID) (*File, error)
	// FindOwned returns ErrForbidden when owner does not own the file.
	FindOwned(ctx context.Context, id uuid.UUID, owner string) (*File, error)
	List(ctx context.Context, owner string, page pagination.PageRequest, filters Filters) (*pagination.PageResult[File], error)
	Counts(ctx context.Context, owner string) (*Counts, error)
	SetStatus(ctx context.Context, id uuid.UUID, status Status) (*File, error)
	// Transition moves id from one status to another, failing with
	// ErrStatusChanged when the current status is not from.
	Transition(ctx context.Context, id uuid.UUID, from, to Status) (*File, error)
}
