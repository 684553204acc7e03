package domain

import "fmt"

// ElementID is a handle assigned by the host document.
type ElementID int64

// ElementKind classifies host document elements.
type ElementKind string

const (
	KindLevel          ElementKind = "level"
	KindWall           ElementKind = "wall"
	KindWallType       ElementKind = "wall_type"
	KindFamilySymbol   ElementKind = "family_symbol"
	KindRoomBoundary   ElementKind = "room_boundary"
	KindFamilyInstance ElementKind = "family_instance"
	KindSketchPlane    ElementKind = "sketch_plane"
	KindView           ElementKind = "view"
)

// ElementKinds returns every kind a host document can hold.
func ElementKinds() []ElementKind {
	return []ElementKind{
		KindLevel, KindWall, KindWallType, KindFamilySymbol,
		KindRoomBoundary, KindFamilyInstance, KindSketchPlane, KindView,
	}
}

// IsValid reports whether k is a known element kind.
func (k ElementKind) IsValid() bool {
	for _, known := range ElementKinds() {
		if k == known {
			return true
		}
	}
	return false
}

// Element is the host's view of one stored entity.
type Element struct {
	ID   ElementID
	Kind ElementKind
	Name string

	// Active is only meaningful for family symbols.
	Active bool
}

// String formats the element for listings.
func (e Element) String() string {
	if e.Name == "" {
		return fmt.Sprintf("%s #%d", e.Kind, e.ID)
	}
	return fmt.Sprintf("%s #%d (%s)", e.Kind, e.ID, e.Name)
}

// View is the host's active view and the sketch plane room boundaries are drawn on.
type View struct {
	ID          ElementID
	SketchPlane ElementID
	Name        string
}

// StructuralType controls how a family instance is analysed by the host.
type StructuralType int

const (
	NonStructural StructuralType = iota
	StructuralBeam
	StructuralColumn
)

// String returns the structural type name.
func (s StructuralType) String() string {
	switch s {
	case NonStructural:
		return "non_structural"
	case StructuralBeam:
		return "beam"
	case StructuralColumn:
		return "column"
	default:
		return fmt.Sprintf("structural(%d)", int(s))
	}
}

// ShortCurveTolerance is the shortest curve a host document accepts.
const ShortCurveTolerance = 1e-6

// WallSpec carries the arguments of a host wall creation call.
type WallSpec struct {
	Line       Line
	WallType   ElementID
	Level      ElementID
	Height     float64
	Offset     float64
	Flipped    bool
	Structural bool
}

// DefaultCatalog is the set of elements a fresh host document starts with:
// one wall type, a door and a window symbol (the window inactive), and the
// sketch plane and view room boundaries are drawn on.
func DefaultCatalog() []Element {
	return []Element{
		{ID: 1, Kind: KindWallType, Name: "Generic - 200mm"},
		{ID: 2, Kind: KindFamilySymbol, Name: "Single Door 900x2100", Active: true},
		{ID: 3, Kind: KindFamilySymbol, Name: "Fixed Window 1200x1500"},
		{ID: 4, Kind: KindSketchPlane, Name: "Level 0"},
		{ID: 5, Kind: KindView, Name: "Level 0 Floor Plan"},
	}
}

// DefaultView is the active view of a host seeded with DefaultCatalog.
func DefaultView() View {
	return View{ID: 5, SketchPlane: 4, Name: "Level 0 Floor Plan"}
}
