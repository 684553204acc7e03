package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/blueprint/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/blueprint/internal/core/domain"
	"github.com/custodia-labs/blueprint/internal/core/ports/driven"
)

// squareRoom returns a closed 5x4 room boundary.
func squareRoom() domain.Room {
	corners := []domain.Point2D{{X: 0, Y: 0}, {X: 5, Y: 0}, {X: 5, Y: 4}, {X: 0, Y: 4}}
	room := domain.Room{}
	for i, c := range corners {
		room.Boundary = append(room.Boundary, domain.BoundaryPoint{Point: c, Next: corners[(i+1)%len(corners)]})
	}
	return room
}

// sampleDesign is one level, one wall, one room and one window on the wall.
func sampleDesign() *domain.DesignDocument {
	return &domain.DesignDocument{
		Levels: []domain.Level{{Elevation: 0}},
		Walls: []domain.Wall{{
			Start:   domain.Point2D{X: 0, Y: 0},
			End:     domain.Point2D{X: 5, Y: 0},
			TypeID:  domain.WallTypeRef(1),
			LevelID: domain.LevelRef(1),
		}},
		Rooms: []domain.Room{squareRoom()},
		Openings: []domain.Opening{{
			Location: domain.Point2D{X: 2.5, Y: 0},
			TypeID:   domain.FamilyTypeRef(3),
			HostID:   domain.HostElementRef(1),
		}},
	}
}

// buildIn runs one Build inside a transaction that the caller commits or discards.
func buildIn(t *testing.T, host *memory.HostDocument, doc *domain.DesignDocument) (*domain.BuildResult, error) {
	t.Helper()
	ctx := context.Background()
	tx, err := host.BeginTransaction(ctx, "test")
	require.NoError(t, err)
	t.Cleanup(func() { _ = tx.Rollback() })
	return NewBuilder().Build(ctx, doc, tx)
}

func TestBuilder_Build_Scenario(t *testing.T) {
	host := memory.NewHostDocument()

	result, err := buildIn(t, host, sampleDesign())

	require.NoError(t, err)
	assert.Equal(t, domain.Counts{Levels: 1, Walls: 1, Rooms: 1, Openings: 1}, result.Counts())
	require.Len(t, result.RoomBoundaries, 1)
	assert.Len(t, result.RoomBoundaries[0], 4)
	assert.Equal(t, []domain.ElementID{3}, result.Activated)
}

func TestBuilder_Build_PhaseOrder(t *testing.T) {
	host := memory.NewHostDocument()

	_, err := buildIn(t, host, sampleDesign())
	require.NoError(t, err)

	var creates []memory.Op
	for _, op := range host.Calls() {
		switch op {
		case memory.OpCreateLevel, memory.OpCreateWall, memory.OpCreateRoomBoundary, memory.OpCreateInstance:
			creates = append(creates, op)
		}
	}
	assert.Equal(t, []memory.Op{
		memory.OpCreateLevel,
		memory.OpCreateWall,
		memory.OpCreateRoomBoundary,
		memory.OpCreateInstance,
	}, creates)
}

func TestBuilder_Build_Cardinality(t *testing.T) {
	doc := sampleDesign()
	doc.Levels = append(doc.Levels, domain.Level{Elevation: 3})
	doc.Walls = append(doc.Walls,
		domain.Wall{Start: domain.Point2D{X: 5}, End: domain.Point2D{X: 5, Y: 4}, TypeID: domain.WallTypeRef(1), LevelID: domain.LevelRef(1)},
		domain.Wall{Start: domain.Point2D{X: 0, Y: 4}, End: domain.Point2D{X: 5, Y: 4}, TypeID: domain.WallTypeRef(1), LevelID: domain.LevelRef(2)},
	)
	doc.Openings = append(doc.Openings, domain.Opening{
		Location: domain.Point2D{X: 5, Y: 2},
		TypeID:   domain.FamilyTypeRef(2),
		HostID:   domain.HostElementRef(2),
	})
	host := memory.NewHostDocument()

	result, err := buildIn(t, host, doc)

	require.NoError(t, err)
	assert.Equal(t, doc.Counts(), result.Counts())
	assert.Equal(t, 2, host.CallCount(memory.OpCreateLevel))
	assert.Equal(t, 3, host.CallCount(memory.OpCreateWall))
	assert.Equal(t, 1, host.CallCount(memory.OpCreateRoomBoundary))
	assert.Equal(t, 2, host.CallCount(memory.OpCreateInstance))
}

func TestBuilder_Build_EmptyDocument(t *testing.T) {
	host := memory.NewHostDocument()

	result, err := buildIn(t, host, &domain.DesignDocument{})

	require.NoError(t, err)
	assert.Zero(t, result.Counts().Total())
	assert.Zero(t, host.CallCount(memory.OpActiveView))
}

func TestBuilder_Build_NoRoomsSkipsActiveView(t *testing.T) {
	doc := sampleDesign()
	doc.Rooms = nil
	host := memory.NewHostDocument()

	_, err := buildIn(t, host, doc)

	require.NoError(t, err)
	assert.Zero(t, host.CallCount(memory.OpActiveView))
}

func TestBuilder_Build_OpenRoomAccepted(t *testing.T) {
	doc := sampleDesign()
	doc.Rooms[0].Boundary = doc.Rooms[0].Boundary[:2]
	require.False(t, doc.Rooms[0].Closed())
	host := memory.NewHostDocument()

	result, err := buildIn(t, host, doc)

	require.NoError(t, err)
	assert.Len(t, result.RoomBoundaries[0], 2)
}

func TestBuilder_Build_WallFailureStopsBuild(t *testing.T) {
	host := memory.NewHostDocument()
	host.FailOn(memory.OpCreateWall, errors.New("wall rejected"))

	result, err := buildIn(t, host, sampleDesign())

	assert.Nil(t, result)
	var buildErr *domain.BuildError
	require.ErrorAs(t, err, &buildErr)
	assert.Equal(t, domain.PhaseWalls, buildErr.Phase)
	assert.Equal(t, 0, buildErr.Index)
	assert.Zero(t, host.CallCount(memory.OpCreateRoomBoundary))
	assert.Zero(t, host.CallCount(memory.OpCreateInstance))
}

func TestBuilder_Build_UnresolvedReference(t *testing.T) {
	doc := sampleDesign()
	doc.Openings[0].HostID = domain.HostElementRef(42)
	host := memory.NewHostDocument()

	_, err := buildIn(t, host, doc)

	var buildErr *domain.BuildError
	require.ErrorAs(t, err, &buildErr)
	assert.Equal(t, domain.PhaseOpenings, buildErr.Phase)
	assert.ErrorIs(t, err, domain.ErrReferenceNotFound)
}

func TestBuilder_Build_DegenerateWall(t *testing.T) {
	doc := sampleDesign()
	doc.Walls[0].End = doc.Walls[0].Start
	host := memory.NewHostDocument()

	_, err := buildIn(t, host, doc)

	assert.ErrorIs(t, err, domain.ErrHostCreation)
}

func TestBuilder_Build_ActiveViewFailure(t *testing.T) {
	host := memory.NewEmptyHostDocument()
	host.Add(domain.Element{ID: 1, Kind: domain.KindWallType})
	host.Add(domain.Element{ID: 3, Kind: domain.KindFamilySymbol})

	_, err := buildIn(t, host, sampleDesign())

	var buildErr *domain.BuildError
	require.ErrorAs(t, err, &buildErr)
	assert.Equal(t, domain.PhaseRooms, buildErr.Phase)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestBuilder_Build_InvalidArguments(t *testing.T) {
	host := memory.NewHostDocument()
	tx, err := host.BeginTransaction(context.Background(), "t")
	require.NoError(t, err)
	defer func() { _ = tx.Rollback() }()

	_, err = NewBuilder().Build(context.Background(), nil, tx)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	var session driven.HostSession
	_, err = NewBuilder().Build(context.Background(), sampleDesign(), session)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestBuilder_Build_WallHeight(t *testing.T) {
	session := &recordingSession{HostSession: nil}
	host := memory.NewHostDocument()
	tx, err := host.BeginTransaction(context.Background(), "t")
	require.NoError(t, err)
	defer func() { _ = tx.Rollback() }()
	session.HostSession = tx

	doc := sampleDesign()
	doc.Rooms, doc.Openings = nil, nil
	_, err = NewBuilder().Build(context.Background(), doc, session)

	require.NoError(t, err)
	require.Len(t, session.walls, 1)
	spec := session.walls[0]
	assert.InDelta(t, domain.DefaultWallHeight, spec.Height, 1e-9)
	assert.Zero(t, spec.Offset)
	assert.False(t, spec.Flipped)
	assert.False(t, spec.Structural)
	assert.Equal(t, domain.Point3D{X: 5, Y: 0, Z: domain.BaseLevel}, spec.Line.End)
}

// recordingSession captures wall specs on the way to a real session.
type recordingSession struct {
	driven.HostSession
	walls []domain.WallSpec
}

func (r *recordingSession) CreateWall(ctx context.Context, spec domain.WallSpec) (domain.ElementID, error) {
	r.walls = append(r.walls, spec)
	return r.HostSession.CreateWall(ctx, spec)
}
