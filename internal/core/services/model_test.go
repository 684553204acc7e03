package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/blueprint/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/blueprint/internal/core/domain"
)

func TestModelService_Elements(t *testing.T) {
	svc := NewModelService(memory.NewHostDocument())

	all, err := svc.Elements(context.Background(), "")
	require.NoError(t, err)
	assert.Len(t, all, len(domain.DefaultCatalog()))

	views, err := svc.Elements(context.Background(), domain.KindView)
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, domain.ElementID(5), views[0].ID)
}

func TestModelService_Elements_UnknownKind(t *testing.T) {
	svc := NewModelService(memory.NewHostDocument())

	_, err := svc.Elements(context.Background(), "roof")

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestModelService_Catalog(t *testing.T) {
	svc := NewModelService(memory.NewHostDocument())

	catalog, err := svc.Catalog(context.Background())

	require.NoError(t, err)
	require.Len(t, catalog, 3)
	assert.Equal(t, domain.KindWallType, catalog[0].Kind)
	assert.Equal(t, domain.KindFamilySymbol, catalog[1].Kind)
	assert.Equal(t, domain.KindFamilySymbol, catalog[2].Kind)
}
