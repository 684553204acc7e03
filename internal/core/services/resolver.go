package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/custodia-labs/blueprint/internal/core/domain"
	"github.com/custodia-labs/blueprint/internal/core/ports/driven"
	"github.com/custodia-labs/blueprint/internal/logger"
)

// resolveFunc maps one kind of reference to a host handle.
type resolveFunc func(ctx context.Context, ref domain.ResourceRef) (domain.ElementID, error)

// Resolver maps design references to host handles for a single build.
//
// Level and host-element references first try the design's own entities,
// addressed by 1-based creation index, then fall back to elements already
// in the host document. Wall types and family types always come from the host.
type Resolver struct {
	session driven.HostSession
	lookup  map[domain.RefKind]resolveFunc

	// Entities created earlier in this build, in creation order.
	levels []domain.ElementID
	walls  []domain.ElementID

	resolved  map[domain.ResourceRef]domain.ElementID
	activated []domain.ElementID
}

// NewResolver creates a resolver bound to an open host session.
func NewResolver(session driven.HostSession) *Resolver {
	r := &Resolver{
		session:  session,
		resolved: make(map[domain.ResourceRef]domain.ElementID),
	}
	r.lookup = map[domain.RefKind]resolveFunc{
		domain.RefLevel:       r.resolveLevel,
		domain.RefWallType:    r.resolveWallType,
		domain.RefFamilyType:  r.resolveFamilyType,
		domain.RefHostElement: r.resolveHostElement,
	}
	return r
}

// Track records an entity created by the current build so later phases can reference it.
func (r *Resolver) Track(kind domain.ElementKind, id domain.ElementID) {
	switch kind {
	case domain.KindLevel:
		r.levels = append(r.levels, id)
	case domain.KindWall:
		r.walls = append(r.walls, id)
	}
}

// Activated returns the prototypes this resolver activated, in activation order.
func (r *Resolver) Activated() []domain.ElementID {
	out := make([]domain.ElementID, len(r.activated))
	copy(out, r.activated)
	return out
}

// Resolve maps ref to a host handle. The reference must be of the expected kind.
// Results are memoised, so resolving the same reference twice touches the host once.
func (r *Resolver) Resolve(ctx context.Context, ref domain.ResourceRef, kind domain.RefKind) (domain.ElementID, error) {
	resolve, ok := r.lookup[kind]
	if !ok {
		return 0, fmt.Errorf("%w: unknown reference kind %s", domain.ErrInvalidInput, kind)
	}
	if ref.Kind != kind {
		return 0, &domain.ReferenceError{
			Ref:    ref,
			Reason: fmt.Sprintf("expected a %s reference", kind),
		}
	}
	if id, ok := r.resolved[ref]; ok {
		return id, nil
	}

	id, err := resolve(ctx, ref)
	if err != nil {
		return 0, err
	}
	r.resolved[ref] = id
	return id, nil
}

func (r *Resolver) resolveLevel(ctx context.Context, ref domain.ResourceRef) (domain.ElementID, error) {
	if id, ok := local(r.levels, ref.ID); ok {
		return id, nil
	}
	return r.hostElement(ctx, ref, domain.KindLevel)
}

func (r *Resolver) resolveWallType(ctx context.Context, ref domain.ResourceRef) (domain.ElementID, error) {
	return r.hostElement(ctx, ref, domain.KindWallType)
}

func (r *Resolver) resolveHostElement(ctx context.Context, ref domain.ResourceRef) (domain.ElementID, error) {
	if id, ok := local(r.walls, ref.ID); ok {
		return id, nil
	}
	return r.hostElement(ctx, ref, domain.KindWall)
}

// resolveFamilyType looks up a prototype and activates it if needed.
// Activation is a side effect that may survive a rollback.
func (r *Resolver) resolveFamilyType(ctx context.Context, ref domain.ResourceRef) (domain.ElementID, error) {
	id, err := r.hostElement(ctx, ref, domain.KindFamilySymbol)
	if err != nil {
		return 0, err
	}

	active, err := r.session.IsPrototypeActive(ctx, id)
	if err != nil {
		return 0, fmt.Errorf("check prototype %d: %w", id, err)
	}
	if !active {
		if err := r.session.ActivatePrototype(ctx, id); err != nil {
			return 0, fmt.Errorf("activate prototype %d: %w", id, err)
		}
		r.activated = append(r.activated, id)
		logger.Debug("Activated prototype %d", id)
	}
	return id, nil
}

func (r *Resolver) hostElement(ctx context.Context, ref domain.ResourceRef, want domain.ElementKind) (domain.ElementID, error) {
	el, err := r.session.LookupElement(ctx, domain.ElementID(ref.ID))
	if errors.Is(err, domain.ErrNotFound) || (err == nil && el == nil) {
		return 0, &domain.ReferenceError{Ref: ref, Reason: "no such element"}
	}
	if err != nil {
		return 0, fmt.Errorf("lookup %s: %w", ref, err)
	}
	if el.Kind != want {
		return 0, &domain.ReferenceError{
			Ref:    ref,
			Reason: fmt.Sprintf("element %d is a %s, not a %s", el.ID, el.Kind, want),
		}
	}
	return el.ID, nil
}

// local returns the entity at a 1-based creation index.
func local(ids []domain.ElementID, index int64) (domain.ElementID, bool) {
	if index < 1 || index > int64(len(ids)) {
		return 0, false
	}
	return ids[index-1], true
}
