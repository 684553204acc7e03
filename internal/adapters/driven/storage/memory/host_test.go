package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/blueprint/internal/core/domain"
)

func wallBetween(x1, y1, x2, y2 float64, wallType, level domain.ElementID) domain.WallSpec {
	return domain.WallSpec{
		Line: domain.Line{
			Start: domain.Point3D{X: x1, Y: y1},
			End:   domain.Point3D{X: x2, Y: y2},
		},
		WallType: wallType,
		Level:    level,
		Height:   domain.DefaultWallHeight,
	}
}

func TestNewHostDocument_SeedsCatalog(t *testing.T) {
	doc := NewHostDocument()

	els, err := doc.Elements(context.Background(), "")
	require.NoError(t, err)

	require.Len(t, els, len(domain.DefaultCatalog()))
	assert.Equal(t, domain.DefaultCatalog(), els)
}

func TestHostDocument_Elements_FilterByKind(t *testing.T) {
	doc := NewHostDocument()

	symbols, err := doc.Elements(context.Background(), domain.KindFamilySymbol)
	require.NoError(t, err)

	require.Len(t, symbols, 2)
	assert.True(t, symbols[0].Active)
	assert.False(t, symbols[1].Active)
}

func TestHostDocument_Commit_MakesElementsVisible(t *testing.T) {
	doc := NewHostDocument()
	ctx := context.Background()

	tx, err := doc.BeginTransaction(ctx, "Create Design")
	require.NoError(t, err)
	assert.Equal(t, "Create Design", tx.Name())

	level, err := tx.CreateLevel(ctx, 0)
	require.NoError(t, err)
	wall, err := tx.CreateWall(ctx, wallBetween(0, 0, 5, 0, 1, level))
	require.NoError(t, err)

	// Not visible before commit.
	walls, err := doc.Elements(ctx, domain.KindWall)
	require.NoError(t, err)
	assert.Empty(t, walls)

	require.NoError(t, tx.Commit())

	walls, err = doc.Elements(ctx, domain.KindWall)
	require.NoError(t, err)
	require.Len(t, walls, 1)
	assert.Equal(t, wall, walls[0].ID)
	assert.False(t, doc.InTransaction())
}

func TestHostDocument_Rollback_DiscardsElements(t *testing.T) {
	doc := NewHostDocument()
	ctx := context.Background()

	tx, err := doc.BeginTransaction(ctx, "t")
	require.NoError(t, err)
	_, err = tx.CreateLevel(ctx, 3)
	require.NoError(t, err)
	require.NoError(t, tx.Rollback())

	levels, err := doc.Elements(ctx, domain.KindLevel)
	require.NoError(t, err)
	assert.Empty(t, levels)
}

func TestHostDocument_Activation_SurvivesRollback(t *testing.T) {
	doc := NewHostDocument()
	ctx := context.Background()

	tx, err := doc.BeginTransaction(ctx, "t")
	require.NoError(t, err)
	active, err := tx.IsPrototypeActive(ctx, 3)
	require.NoError(t, err)
	require.False(t, active)
	require.NoError(t, tx.ActivatePrototype(ctx, 3))
	require.NoError(t, tx.Rollback())

	symbols, err := doc.Elements(ctx, domain.KindFamilySymbol)
	require.NoError(t, err)
	require.Len(t, symbols, 2)
	assert.True(t, symbols[1].Active)
}

func TestHostDocument_SingleWriter(t *testing.T) {
	doc := NewHostDocument()
	ctx := context.Background()

	tx, err := doc.BeginTransaction(ctx, "first")
	require.NoError(t, err)

	_, err = doc.BeginTransaction(ctx, "second")
	assert.ErrorIs(t, err, domain.ErrImportInProgress)

	require.NoError(t, tx.Rollback())
	tx2, err := doc.BeginTransaction(ctx, "third")
	require.NoError(t, err)
	require.NoError(t, tx2.Rollback())
}

func TestHostDocument_ClosedTransaction(t *testing.T) {
	doc := NewHostDocument()
	ctx := context.Background()

	tx, err := doc.BeginTransaction(ctx, "t")
	require.NoError(t, err)
	require.NoError(t, tx.Commit())

	assert.ErrorIs(t, tx.Rollback(), domain.ErrTransactionClosed)
	assert.ErrorIs(t, tx.Commit(), domain.ErrTransactionClosed)
	_, err = tx.CreateLevel(ctx, 0)
	assert.ErrorIs(t, err, domain.ErrTransactionClosed)
}

func TestHostDocument_CreateWall_Rejections(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name string
		spec func(level domain.ElementID) domain.WallSpec
	}{
		{"degenerate line", func(l domain.ElementID) domain.WallSpec { return wallBetween(1, 1, 1, 1, 1, l) }},
		{"unknown wall type", func(l domain.ElementID) domain.WallSpec { return wallBetween(0, 0, 1, 0, 99, l) }},
		{"wall type is a symbol", func(l domain.ElementID) domain.WallSpec { return wallBetween(0, 0, 1, 0, 2, l) }},
		{"level is a view", func(domain.ElementID) domain.WallSpec { return wallBetween(0, 0, 1, 0, 1, 5) }},
		{"zero height", func(l domain.ElementID) domain.WallSpec {
			s := wallBetween(0, 0, 1, 0, 1, l)
			s.Height = 0
			return s
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := NewHostDocument()
			tx, err := doc.BeginTransaction(ctx, "t")
			require.NoError(t, err)
			defer func() { _ = tx.Rollback() }()

			level, err := tx.CreateLevel(ctx, 0)
			require.NoError(t, err)

			_, err = tx.CreateWall(ctx, tt.spec(level))
			assert.ErrorIs(t, err, domain.ErrHostCreation)
		})
	}
}

func TestHostDocument_CreateRoomBoundaryLines(t *testing.T) {
	doc := NewHostDocument()
	ctx := context.Background()
	view := domain.DefaultView()

	tx, err := doc.BeginTransaction(ctx, "t")
	require.NoError(t, err)
	defer func() { _ = tx.Rollback() }()

	_, err = tx.CreateRoomBoundaryLines(ctx, view.SketchPlane, nil, view.ID)
	assert.ErrorIs(t, err, domain.ErrHostCreation)

	curves := []domain.Line{
		{Start: domain.Point3D{}, End: domain.Point3D{X: 4}},
		{Start: domain.Point3D{X: 4}, End: domain.Point3D{X: 4, Y: 3}},
	}
	_, err = tx.CreateRoomBoundaryLines(ctx, view.ID, curves, view.ID)
	assert.ErrorIs(t, err, domain.ErrHostCreation)

	ids, err := tx.CreateRoomBoundaryLines(ctx, view.SketchPlane, curves, view.ID)
	require.NoError(t, err)
	assert.Len(t, ids, 2)
}

func TestHostDocument_CreateFamilyInstance(t *testing.T) {
	doc := NewHostDocument()
	ctx := context.Background()

	tx, err := doc.BeginTransaction(ctx, "t")
	require.NoError(t, err)
	defer func() { _ = tx.Rollback() }()

	level, err := tx.CreateLevel(ctx, 0)
	require.NoError(t, err)
	wall, err := tx.CreateWall(ctx, wallBetween(0, 0, 5, 0, 1, level))
	require.NoError(t, err)

	// Window symbol #3 starts inactive.
	_, err = tx.CreateFamilyInstance(ctx, domain.Point3D{X: 2}, 3, wall, domain.NonStructural)
	assert.ErrorIs(t, err, domain.ErrHostCreation)

	// Host must be a wall.
	_, err = tx.CreateFamilyInstance(ctx, domain.Point3D{X: 2}, 2, level, domain.NonStructural)
	assert.ErrorIs(t, err, domain.ErrHostCreation)

	id, err := tx.CreateFamilyInstance(ctx, domain.Point3D{X: 2}, 2, wall, domain.NonStructural)
	require.NoError(t, err)

	el, err := tx.LookupElement(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, domain.KindFamilyInstance, el.Kind)
}

func TestHostDocument_LookupElement_NotFound(t *testing.T) {
	doc := NewHostDocument()
	ctx := context.Background()

	tx, err := doc.BeginTransaction(ctx, "t")
	require.NoError(t, err)
	defer func() { _ = tx.Rollback() }()

	_, err = tx.LookupElement(ctx, 404)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestHostDocument_ActiveView(t *testing.T) {
	ctx := context.Background()

	doc := NewHostDocument()
	tx, err := doc.BeginTransaction(ctx, "t")
	require.NoError(t, err)
	view, err := tx.ActiveView(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultView(), view)
	require.NoError(t, tx.Rollback())

	empty := NewEmptyHostDocument()
	tx, err = empty.BeginTransaction(ctx, "t")
	require.NoError(t, err)
	_, err = tx.ActiveView(ctx)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	require.NoError(t, tx.Rollback())
}

func TestHostDocument_FailAfter(t *testing.T) {
	doc := NewHostDocument()
	ctx := context.Background()
	boom := errors.New("boom")
	doc.FailAfter(OpCreateLevel, 1, boom)

	tx, err := doc.BeginTransaction(ctx, "t")
	require.NoError(t, err)
	defer func() { _ = tx.Rollback() }()

	_, err = tx.CreateLevel(ctx, 0)
	require.NoError(t, err)
	_, err = tx.CreateLevel(ctx, 3)
	assert.ErrorIs(t, err, boom)

	doc.FailOn(OpCreateLevel, nil)
	_, err = tx.CreateLevel(ctx, 6)
	assert.NoError(t, err)
	assert.Equal(t, 3, doc.CallCount(OpCreateLevel))
}

func TestHostDocument_CommitFailure_ClosesTransaction(t *testing.T) {
	doc := NewHostDocument()
	ctx := context.Background()
	doc.FailOn(OpCommit, errors.New("disk full"))

	tx, err := doc.BeginTransaction(ctx, "t")
	require.NoError(t, err)
	_, err = tx.CreateLevel(ctx, 0)
	require.NoError(t, err)

	require.Error(t, tx.Commit())
	assert.False(t, doc.InTransaction())

	levels, err := doc.Elements(ctx, domain.KindLevel)
	require.NoError(t, err)
	assert.Empty(t, levels)
}

func TestHostDocument_Close(t *testing.T) {
	doc := NewHostDocument()
	ctx := context.Background()

	tx, err := doc.BeginTransaction(ctx, "t")
	require.NoError(t, err)
	require.NoError(t, doc.Close())

	assert.ErrorIs(t, tx.Commit(), domain.ErrTransactionClosed)
	_, err = doc.BeginTransaction(ctx, "again")
	assert.Error(t, err)
	_, err = doc.Elements(ctx, "")
	assert.Error(t, err)
}

func TestHostDocument_Add(t *testing.T) {
	doc := NewEmptyHostDocument()

	first := doc.Add(domain.Element{Kind: domain.KindWallType, Name: "Brick"})
	pinned := doc.Add(domain.Element{ID: 10, Kind: domain.KindFamilySymbol, Active: true})
	next := doc.Add(domain.Element{Kind: domain.KindLevel})

	assert.Equal(t, domain.ElementID(1), first)
	assert.Equal(t, domain.ElementID(10), pinned)
	assert.Equal(t, domain.ElementID(11), next)

	els, err := doc.Elements(context.Background(), domain.KindFamilySymbol)
	require.NoError(t, err)
	require.Len(t, els, 1)
	assert.True(t, els[0].Active)
}
