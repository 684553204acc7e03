package services

import (
	"context"
	"fmt"

	"github.com/custodia-labs/blueprint/internal/core/domain"
	"github.com/custodia-labs/blueprint/internal/core/ports/driven"
	"github.com/custodia-labs/blueprint/internal/logger"
)

// Builder applies a design to a host session in dependency order:
// levels, then walls, then rooms, then openings.
type Builder struct {
	wallHeight float64
}

// NewBuilder creates a builder using the default wall height.
func NewBuilder() *Builder {
	return &Builder{wallHeight: domain.DefaultWallHeight}
}

// build holds the state of one Build call.
type build struct {
	doc      *domain.DesignDocument
	session  driven.HostSession
	resolver *Resolver
	result   *domain.BuildResult
}

// Build creates every entity of doc in session. The first failure aborts
// the build with a *domain.BuildError; nothing is retried. Build does not
// watch ctx for cancellation: once started it runs to completion or failure.
func (b *Builder) Build(ctx context.Context, doc *domain.DesignDocument, session driven.HostSession) (*domain.BuildResult, error) {
	if doc == nil {
		return nil, fmt.Errorf("%w: nil design document", domain.ErrInvalidInput)
	}
	if session == nil {
		return nil, fmt.Errorf("%w: nil host session", domain.ErrInvalidInput)
	}

	st := &build{
		doc:      doc,
		session:  session,
		resolver: NewResolver(session),
		result: &domain.BuildResult{
			Levels:         make([]domain.ElementID, 0, len(doc.Levels)),
			Walls:          make([]domain.ElementID, 0, len(doc.Walls)),
			RoomBoundaries: make([][]domain.ElementID, 0, len(doc.Rooms)),
			Openings:       make([]domain.ElementID, 0, len(doc.Openings)),
		},
	}

	phases := []struct {
		phase domain.Phase
		run   func(context.Context, *build) error
	}{
		{domain.PhaseLevels, b.buildLevels},
		{domain.PhaseWalls, b.buildWalls},
		{domain.PhaseRooms, b.buildRooms},
		{domain.PhaseOpenings, b.buildOpenings},
	}

	for _, p := range phases {
		logger.Section("Phase: " + p.phase.String())
		if err := p.run(ctx, st); err != nil {
			logger.Debug("Phase %s failed: %v", p.phase, err)
			return nil, err
		}
	}

	st.result.Activated = st.resolver.Activated()
	c := st.result.Counts()
	logger.Info("Built %d levels, %d walls, %d rooms, %d openings",
		c.Levels, c.Walls, c.Rooms, c.Openings)
	return st.result, nil
}

func (b *Builder) buildLevels(ctx context.Context, st *build) error {
	for i, level := range st.doc.Levels {
		id, err := st.session.CreateLevel(ctx, level.Elevation)
		if err != nil {
			return phaseError(domain.PhaseLevels, i, fmt.Errorf("create level: %w", err))
		}
		st.resolver.Track(domain.KindLevel, id)
		st.result.Levels = append(st.result.Levels, id)
		logger.Debug("Level %d at elevation %.3f -> #%d", i+1, level.Elevation, id)
	}
	return nil
}

func (b *Builder) buildWalls(ctx context.Context, st *build) error {
	for i, wall := range st.doc.Walls {
		wallType, err := st.resolver.Resolve(ctx, wall.TypeID, domain.RefWallType)
		if err != nil {
			return phaseError(domain.PhaseWalls, i, err)
		}
		level, err := st.resolver.Resolve(ctx, wall.LevelID, domain.RefLevel)
		if err != nil {
			return phaseError(domain.PhaseWalls, i, err)
		}

		id, err := st.session.CreateWall(ctx, domain.WallSpec{
			Line:       wall.Line(domain.BaseLevel),
			WallType:   wallType,
			Level:      level,
			Height:     b.wallHeight,
			Offset:     0,
			Flipped:    false,
			Structural: false,
		})
		if err != nil {
			return phaseError(domain.PhaseWalls, i, fmt.Errorf("create wall: %w", err))
		}
		st.resolver.Track(domain.KindWall, id)
		st.result.Walls = append(st.result.Walls, id)
		logger.Debug("Wall %d -> #%d", i+1, id)
	}
	return nil
}

func (b *Builder) buildRooms(ctx context.Context, st *build) error {
	if len(st.doc.Rooms) == 0 {
		return nil
	}

	view, err := st.session.ActiveView(ctx)
	if err != nil {
		return phaseError(domain.PhaseRooms, 0, fmt.Errorf("active view: %w", err))
	}

	for i, room := range st.doc.Rooms {
		if !room.Closed() {
			logger.Debug("Room %d boundary is open; registering %d lines as given", i+1, len(room.Boundary))
		}
		ids, err := st.session.CreateRoomBoundaryLines(ctx, view.SketchPlane, room.Segments(domain.BaseLevel), view.ID)
		if err != nil {
			return phaseError(domain.PhaseRooms, i, fmt.Errorf("create room boundary: %w", err))
		}
		st.result.RoomBoundaries = append(st.result.RoomBoundaries, ids)
		logger.Debug("Room %d -> %d boundary lines", i+1, len(ids))
	}
	return nil
}

func (b *Builder) buildOpenings(ctx context.Context, st *build) error {
	for i, opening := range st.doc.Openings {
		symbol, err := st.resolver.Resolve(ctx, opening.TypeID, domain.RefFamilyType)
		if err != nil {
			return phaseError(domain.PhaseOpenings, i, err)
		}
		host, err := st.resolver.Resolve(ctx, opening.HostID, domain.RefHostElement)
		if err != nil {
			return phaseError(domain.PhaseOpenings, i, err)
		}

		id, err := st.session.CreateFamilyInstance(ctx,
			opening.Location.At(domain.BaseLevel), symbol, host, domain.NonStructural)
		if err != nil {
			return phaseError(domain.PhaseOpenings, i, fmt.Errorf("create family instance: %w", err))
		}
		st.result.Openings = append(st.result.Openings, id)
		logger.Debug("Opening %d on wall #%d -> #%d", i+1, host, id)
	}
	return nil
}

func phaseError(phase domain.Phase, index int, cause error) error {
	return &domain.BuildError{Phase: phase, Index: index, Cause: cause}
}
