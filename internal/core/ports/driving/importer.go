package driving

import (
	"context"

	"github.com/custodia-labs/blueprint/internal/core/domain"
)

// DesignImporter applies generated designs to the host document.
type DesignImporter interface {
	// Import requests a design from the generation service and builds it.
	// Cancelling ctx stops the request but never interrupts a started build.
	Import(ctx context.Context, req domain.DesignRequest, opts domain.ImportOptions) (*domain.ImportResult, error)

	// ImportPayload decodes a design payload (a saved service response) and builds it.
	ImportPayload(ctx context.Context, data []byte, opts domain.ImportOptions) (*domain.ImportResult, error)

	// ImportDocument builds an already decoded design.
	ImportDocument(ctx context.Context, doc *domain.DesignDocument, opts domain.ImportOptions) (*domain.ImportResult, error)

	// History returns recent import records, newest first.
	History(ctx context.Context, limit int) ([]domain.ImportRecord, error)

	// GetRecord returns one import record.
	GetRecord(ctx context.Context, id string) (*domain.ImportRecord, error)

	// CheckService reports whether the generation service answers.
	CheckService(ctx context.Context) error
}

// ModelService reads the host document outside of any import.
type ModelService interface {
	// Elements lists host elements of a kind, or all when kind is empty.
	Elements(ctx context.Context, kind domain.ElementKind) ([]domain.Element, error)

	// Catalog lists the prototypes a design can reference (wall types and family symbols).
	Catalog(ctx context.Context) ([]domain.Element, error)
}
