package driven

import (
	"context"

	"github.com/custodia-labs/blueprint/internal/core/domain"
)

// ImportHistoryStore persists import outcomes.
type ImportHistoryStore interface {
	// Save stores or updates a record.
	Save(ctx context.Context, record domain.ImportRecord) error

	// Get retrieves a record by ID.
	Get(ctx context.Context, id string) (*domain.ImportRecord, error)

	// List returns the most recent records first. A limit of zero means all.
	List(ctx context.Context, limit int) ([]domain.ImportRecord, error)
}
