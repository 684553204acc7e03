package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/blueprint/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/blueprint/internal/core/domain"
	"github.com/custodia-labs/blueprint/internal/core/ports/driven"
)

func openSession(t *testing.T, host *memory.HostDocument) driven.HostTransaction {
	t.Helper()
	tx, err := host.BeginTransaction(context.Background(), "resolve")
	require.NoError(t, err)
	t.Cleanup(func() { _ = tx.Rollback() })
	return tx
}

func TestResolver_Resolve_WallTypeFromHost(t *testing.T) {
	r := NewResolver(openSession(t, memory.NewHostDocument()))

	id, err := r.Resolve(context.Background(), domain.WallTypeRef(1), domain.RefWallType)

	require.NoError(t, err)
	assert.Equal(t, domain.ElementID(1), id)
}

func TestResolver_Resolve_LevelPrefersDesignIndex(t *testing.T) {
	host := memory.NewHostDocument()
	tx := openSession(t, host)
	ctx := context.Background()

	first, err := tx.CreateLevel(ctx, 0)
	require.NoError(t, err)
	second, err := tx.CreateLevel(ctx, 3)
	require.NoError(t, err)

	r := NewResolver(tx)
	r.Track(domain.KindLevel, first)
	r.Track(domain.KindLevel, second)

	id, err := r.Resolve(ctx, domain.LevelRef(2), domain.RefLevel)
	require.NoError(t, err)
	assert.Equal(t, second, id)
}

func TestResolver_Resolve_LevelFallsBackToHost(t *testing.T) {
	host := memory.NewHostDocument()
	existing := host.Add(domain.Element{Kind: domain.KindLevel, Name: "Existing"})
	r := NewResolver(openSession(t, host))

	id, err := r.Resolve(context.Background(), domain.LevelRef(int64(existing)), domain.RefLevel)

	require.NoError(t, err)
	assert.Equal(t, existing, id)
}

func TestResolver_Resolve_HostElementUsesBuiltWalls(t *testing.T) {
	r := NewResolver(openSession(t, memory.NewHostDocument()))
	r.Track(domain.KindWall, 77)

	id, err := r.Resolve(context.Background(), domain.HostElementRef(1), domain.RefHostElement)

	require.NoError(t, err)
	assert.Equal(t, domain.ElementID(77), id)
}

func TestResolver_Resolve_Errors(t *testing.T) {
	tests := []struct {
		name string
		ref  domain.ResourceRef
		kind domain.RefKind
	}{
		{"missing element", domain.WallTypeRef(404), domain.RefWallType},
		{"reference of another kind", domain.LevelRef(1), domain.RefWallType},
		{"element of another kind", domain.WallTypeRef(2), domain.RefWallType},
		{"family type is a wall type", domain.FamilyTypeRef(1), domain.RefFamilyType},
		{"host element is not a wall", domain.HostElementRef(5), domain.RefHostElement},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewResolver(openSession(t, memory.NewHostDocument()))

			_, err := r.Resolve(context.Background(), tt.ref, tt.kind)

			var refErr *domain.ReferenceError
			require.ErrorAs(t, err, &refErr)
			assert.Equal(t, tt.ref, refErr.Ref)
			assert.ErrorIs(t, err, domain.ErrReferenceNotFound)
		})
	}
}

func TestResolver_Resolve_UnknownKind(t *testing.T) {
	r := NewResolver(openSession(t, memory.NewHostDocument()))

	_, err := r.Resolve(context.Background(), domain.ResourceRef{Kind: 99, ID: 1}, 99)

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestResolver_Resolve_ActivatesPrototypeOnce(t *testing.T) {
	host := memory.NewHostDocument()
	r := NewResolver(openSession(t, host))
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		id, err := r.Resolve(ctx, domain.FamilyTypeRef(3), domain.RefFamilyType)
		require.NoError(t, err)
		assert.Equal(t, domain.ElementID(3), id)
	}

	assert.Equal(t, 1, host.CallCount(memory.OpActivatePrototype))
	assert.Equal(t, []domain.ElementID{3}, r.Activated())
}

func TestResolver_Resolve_ActivePrototypeNotReactivated(t *testing.T) {
	host := memory.NewHostDocument()
	r := NewResolver(openSession(t, host))

	_, err := r.Resolve(context.Background(), domain.FamilyTypeRef(2), domain.RefFamilyType)

	require.NoError(t, err)
	assert.Zero(t, host.CallCount(memory.OpActivatePrototype))
	assert.Empty(t, r.Activated())
}

func TestResolver_Resolve_MemoisesLookups(t *testing.T) {
	host := memory.NewHostDocument()
	r := NewResolver(openSession(t, host))
	ctx := context.Background()

	_, err := r.Resolve(ctx, domain.WallTypeRef(1), domain.RefWallType)
	require.NoError(t, err)
	_, err = r.Resolve(ctx, domain.WallTypeRef(1), domain.RefWallType)
	require.NoError(t, err)

	assert.Equal(t, 1, host.CallCount(memory.OpLookup))
}

func TestResolver_Activated_ReturnsCopy(t *testing.T) {
	host := memory.NewHostDocument()
	r := NewResolver(openSession(t, host))
	_, err := r.Resolve(context.Background(), domain.FamilyTypeRef(3), domain.RefFamilyType)
	require.NoError(t, err)

	got := r.Activated()
	got[0] = 99

	assert.Equal(t, []domain.ElementID{3}, r.Activated())
}
