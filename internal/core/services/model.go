package services

import (
	"context"
	"fmt"

	"github.com/custodia-labs/blueprint/internal/core/domain"
	"github.com/custodia-labs/blueprint/internal/core/ports/driven"
	"github.com/custodia-labs/blueprint/internal/core/ports/driving"
)

// Ensure ModelService implements the interface.
var _ driving.ModelService = (*ModelService)(nil)

// ModelService reads the host document.
type ModelService struct {
	host driven.HostDocument
}

// NewModelService creates a new model service.
func NewModelService(host driven.HostDocument) *ModelService {
	return &ModelService{host: host}
}

// Elements lists host elements of a kind, or all when kind is empty.
func (s *ModelService) Elements(ctx context.Context, kind domain.ElementKind) ([]domain.Element, error) {
	if kind != "" && !kind.IsValid() {
		return nil, fmt.Errorf("%w: unknown element kind %q", domain.ErrInvalidInput, kind)
	}
	return s.host.Elements(ctx, kind)
}

// Catalog lists wall types and family symbols.
func (s *ModelService) Catalog(ctx context.Context) ([]domain.Element, error) {
	var out []domain.Element
	for _, kind := range []domain.ElementKind{domain.KindWallType, domain.KindFamilySymbol} {
		els, err := s.host.Elements(ctx, kind)
		if err != nil {
			return nil, fmt.Errorf("list %s: %w", kind, err)
		}
		out = append(out, els...)
	}
	return out, nil
}
