package driven

import (
	"context"

	"github.com/custodia-labs/blueprint/internal/core/domain"
)

// HostDocument is the building model that designs are applied to.
// It is a single-writer resource: callers must not run two transactions at once.
type HostDocument interface {
	// BeginTransaction opens the single mutation gate.
	// Every primitive of the returned transaction is part of one atomic unit.
	BeginTransaction(ctx context.Context, name string) (HostTransaction, error)

	// Elements lists stored elements of a kind, or all elements when kind is empty.
	Elements(ctx context.Context, kind domain.ElementKind) ([]domain.Element, error)

	// Close releases resources.
	Close() error
}

// HostSession exposes the host's primitive construction operations.
type HostSession interface {
	// CreateLevel adds a level at an elevation relative to the base level.
	CreateLevel(ctx context.Context, elevation float64) (domain.ElementID, error)

	// CreateWall adds a wall. Degenerate geometry fails with domain.ErrHostCreation.
	CreateWall(ctx context.Context, spec domain.WallSpec) (domain.ElementID, error)

	// CreateRoomBoundaryLines registers sketch lines bounding a room, one per curve.
	CreateRoomBoundaryLines(
		ctx context.Context,
		sketchPlane domain.ElementID,
		curves []domain.Line,
		view domain.ElementID,
	) ([]domain.ElementID, error)

	// LookupElement returns an element by handle, or domain.ErrNotFound.
	LookupElement(ctx context.Context, id domain.ElementID) (*domain.Element, error)

	// IsPrototypeActive reports whether a family symbol can be placed.
	IsPrototypeActive(ctx context.Context, id domain.ElementID) (bool, error)

	// ActivatePrototype makes a family symbol placeable.
	// Hosts may keep activation outside the transaction log.
	ActivatePrototype(ctx context.Context, id domain.ElementID) error

	// CreateFamilyInstance places a prototype on a host element.
	CreateFamilyInstance(
		ctx context.Context,
		location domain.Point3D,
		prototype domain.ElementID,
		host domain.ElementID,
		structural domain.StructuralType,
	) (domain.ElementID, error)

	// ActiveView returns the view and sketch plane room boundaries are drawn on.
	ActiveView(ctx context.Context) (domain.View, error)
}

// HostTransaction is a HostSession that must be closed exactly once.
type HostTransaction interface {
	HostSession

	// Name returns the name the transaction was opened with.
	Name() string

	// Commit makes every mutation visible atomically.
	Commit() error

	// Rollback discards every mutation. Calling it after Commit returns
	// domain.ErrTransactionClosed.
	Rollback() error
}
