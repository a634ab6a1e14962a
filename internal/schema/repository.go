package schema

import (
	"context"
)

// Namespace is the host server's schema identifier space.
type Namespace interface {
	// AddSchema registers doc under its $id. Returns ErrDuplicateID if
	// the id is already taken and ErrMissingID if doc carries none.
	AddSchema(ctx context.Context, doc Document) error

	// GetSchema retrieves a document by id. Returns ErrNotFound if not found.
	GetSchema(ctx context.Context, id string) (Document, error)

	// IDs returns every registered id in registration order.
	IDs(ctx context.Context) []string
}
