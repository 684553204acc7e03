package domain

import "fmt"

// RefKind says what a ResourceRef points at and therefore how it is resolved.
type RefKind int

const (
	// RefLevel points at a level, either created by the same design or already in the host.
	RefLevel RefKind = iota + 1

	// RefWallType points at a wall type in the host catalogue.
	RefWallType

	// RefFamilyType points at a door or window prototype (family symbol).
	RefFamilyType

	// RefHostElement points at a wall that hosts an opening.
	RefHostElement
)

// String returns the kind name.
func (k RefKind) String() string {
	switch k {
	case RefLevel:
		return "level"
	case RefWallType:
		return "wall-type"
	case RefFamilyType:
		return "family-type"
	case RefHostElement:
		return "host-element"
	default:
		return fmt.Sprintf("ref-kind(%d)", int(k))
	}
}

// ResourceRef is an opaque, kind-tagged identifier from a design document.
// The document never validates it; the resolver does.
type ResourceRef struct {
	Kind RefKind
	ID   int64
}

// LevelRef returns a reference to a level.
func LevelRef(id int64) ResourceRef { return ResourceRef{Kind: RefLevel, ID: id} }

// WallTypeRef returns a reference to a wall type.
func WallTypeRef(id int64) ResourceRef { return ResourceRef{Kind: RefWallType, ID: id} }

// FamilyTypeRef returns a reference to a door or window prototype.
func FamilyTypeRef(id int64) ResourceRef { return ResourceRef{Kind: RefFamilyType, ID: id} }

// HostElementRef returns a reference to a host wall.
func HostElementRef(id int64) ResourceRef { return ResourceRef{Kind: RefHostElement, ID: id} }

// String formats the reference as kind#id.
func (r ResourceRef) String() string {
	return fmt.Sprintf("%s#%d", r.Kind, r.ID)
}
