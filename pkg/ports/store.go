package ports

import (
	"context"

	"github.com/aretw0/weir/pkg/domain"
)

// SchemaStore persists the graph topology and the derived run-state flag.
// The topology is rewritten wholesale on every save; the run-state flag is
// consulted at process start to decide whether to auto-resume execution.
type SchemaStore interface {
	// SaveSchema persists the full topology.
	SaveSchema(ctx context.Context, schema *domain.GraphSchema) error

	// LoadSchema retrieves the persisted topology.
	// Returns domain.ErrSchemaNotFound if none has been saved.
	LoadSchema(ctx context.Context) (*domain.GraphSchema, error)

	// SaveRunState persists the "is running" flag.
	SaveRunState(ctx context.Context, running bool) error

	// LoadRunState retrieves the flag; false if never saved.
	LoadRunState(ctx context.Context) (bool, error)
}
