package memory

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/custodia-labs/blueprint/internal/core/domain"
	"github.com/custodia-labs/blueprint/internal/core/ports/driven"
)

// Ensure HostDocument implements the interface.
var _ driven.HostDocument = (*HostDocument)(nil)

// Op names a host primitive for fault injection and the call journal.
type Op string

const (
	OpBegin              Op = "begin"
	OpCreateLevel        Op = "create_level"
	OpCreateWall         Op = "create_wall"
	OpCreateRoomBoundary Op = "create_room_boundary"
	OpLookup             Op = "lookup"
	OpIsPrototypeActive  Op = "is_prototype_active"
	OpActivatePrototype  Op = "activate_prototype"
	OpCreateInstance     Op = "create_family_instance"
	OpActiveView         Op = "active_view"
	OpCommit             Op = "commit"
	OpRollback           Op = "rollback"
)

// errClosed is returned once the document has been closed.
var errClosed = errors.New("host document closed")

type fault struct {
	skip int
	err  error
}

// HostDocument is an in-memory host document.
//
// Transactions work on a copy of the committed elements and swap it in on
// commit. Prototype activation is not part of that copy: like a real host,
// an activated symbol stays active after the transaction is rolled back.
type HostDocument struct {
	mu       sync.Mutex
	elements map[domain.ElementID]domain.Element
	nextID   domain.ElementID
	active   map[domain.ElementID]bool
	view     domain.View
	open     *transaction
	closed   bool

	faults  map[Op]*fault
	journal []Op
}

// NewHostDocument creates a host document seeded with domain.DefaultCatalog.
func NewHostDocument() *HostDocument {
	d := NewEmptyHostDocument()
	for _, el := range domain.DefaultCatalog() {
		d.Add(el)
	}
	d.view = domain.DefaultView()
	return d
}

// NewEmptyHostDocument creates a host document with no elements and no active view.
func NewEmptyHostDocument() *HostDocument {
	return &HostDocument{
		elements: make(map[domain.ElementID]domain.Element),
		active:   make(map[domain.ElementID]bool),
		nextID:   1,
		faults:   make(map[Op]*fault),
	}
}

// Add stores a committed element and returns its handle.
// A zero ID is replaced by the next free handle.
func (d *HostDocument) Add(el domain.Element) domain.ElementID {
	d.mu.Lock()
	defer d.mu.Unlock()

	if el.ID == 0 {
		el.ID = d.nextID
	}
	if el.ID >= d.nextID {
		d.nextID = el.ID + 1
	}
	if el.Active {
		d.active[el.ID] = true
	}
	el.Active = false
	d.elements[el.ID] = el
	return el.ID
}

// SetActiveView changes the view room boundaries are drawn on.
func (d *HostDocument) SetActiveView(view domain.View) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.view = view
}

// FailOn makes every call of op fail with err. A nil err clears the fault.
func (d *HostDocument) FailOn(op Op, err error) {
	d.FailAfter(op, 0, err)
}

// FailAfter lets n calls of op succeed, then fails every later call with err.
func (d *HostDocument) FailAfter(op Op, n int, err error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err == nil {
		delete(d.faults, op)
		return
	}
	d.faults[op] = &fault{skip: n, err: err}
}

// Calls returns the journal of primitive calls, in order.
func (d *HostDocument) Calls() []Op {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]Op, len(d.journal))
	copy(out, d.journal)
	return out
}

// CallCount returns how many times op was called.
func (d *HostDocument) CallCount(op Op) int {
	n := 0
	for _, c := range d.Calls() {
		if c == op {
			n++
		}
	}
	return n
}

// InTransaction reports whether a transaction is open.
func (d *HostDocument) InTransaction() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.open != nil
}

// BeginTransaction opens the single mutation gate.
func (d *HostDocument) BeginTransaction(_ context.Context, name string) (driven.HostTransaction, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if err := d.call(OpBegin); err != nil {
		return nil, err
	}
	if d.closed {
		return nil, errClosed
	}
	if d.open != nil {
		return nil, fmt.Errorf("%w: transaction %q is open", domain.ErrImportInProgress, d.open.name)
	}

	working := make(map[domain.ElementID]domain.Element, len(d.elements))
	for id, el := range d.elements {
		working[id] = el
	}
	d.open = &transaction{doc: d, name: name, elements: working, nextID: d.nextID}
	return d.open, nil
}

// Elements lists committed elements of a kind, or all when kind is empty, by handle.
func (d *HostDocument) Elements(_ context.Context, kind domain.ElementKind) ([]domain.Element, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return nil, errClosed
	}
	out := make([]domain.Element, 0, len(d.elements))
	for _, el := range d.elements {
		if kind != "" && el.Kind != kind {
			continue
		}
		el.Active = d.active[el.ID]
		out = append(out, el)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// Close releases the document. An open transaction is discarded.
func (d *HostDocument) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.open != nil {
		d.open.done = true
		d.open = nil
	}
	d.closed = true
	return nil
}

// call journals op and returns an injected fault, if any (caller must hold lock).
func (d *HostDocument) call(op Op) error {
	d.journal = append(d.journal, op)
	f, ok := d.faults[op]
	if !ok {
		return nil
	}
	if f.skip > 0 {
		f.skip--
		return nil
	}
	return f.err
}

// transaction is a snapshot of the committed elements.
type transaction struct {
	doc      *HostDocument
	name     string
	elements map[domain.ElementID]domain.Element
	nextID   domain.ElementID
	done     bool
}

func (t *transaction) Name() string {
	return t.name
}

// begin locks the document and checks the transaction is usable.
// The caller must call t.doc.mu.Unlock.
func (t *transaction) begin(op Op) error {
	t.doc.mu.Lock()
	if err := t.doc.call(op); err != nil {
		return err
	}
	if t.done {
		return domain.ErrTransactionClosed
	}
	return nil
}

func (t *transaction) add(kind domain.ElementKind, name string) domain.ElementID {
	id := t.nextID
	t.nextID++
	t.elements[id] = domain.Element{ID: id, Kind: kind, Name: name}
	return id
}

func (t *transaction) expect(id domain.ElementID, kind domain.ElementKind) error {
	el, ok := t.elements[id]
	if !ok {
		return fmt.Errorf("%w: element %d does not exist", domain.ErrHostCreation, id)
	}
	if el.Kind != kind {
		return fmt.Errorf("%w: element %d is a %s, not a %s", domain.ErrHostCreation, id, el.Kind, kind)
	}
	return nil
}

func (t *transaction) CreateLevel(_ context.Context, elevation float64) (domain.ElementID, error) {
	defer t.doc.mu.Unlock()
	if err := t.begin(OpCreateLevel); err != nil {
		return 0, err
	}
	return t.add(domain.KindLevel, fmt.Sprintf("Level %+.2f", elevation)), nil
}

func (t *transaction) CreateWall(_ context.Context, spec domain.WallSpec) (domain.ElementID, error) {
	defer t.doc.mu.Unlock()
	if err := t.begin(OpCreateWall); err != nil {
		return 0, err
	}
	length := spec.Line.Length()
	if length < domain.ShortCurveTolerance {
		return 0, fmt.Errorf("%w: wall line is shorter than tolerance", domain.ErrHostCreation)
	}
	if spec.Height <= 0 {
		return 0, fmt.Errorf("%w: wall height %.3f is not positive", domain.ErrHostCreation, spec.Height)
	}
	if err := t.expect(spec.WallType, domain.KindWallType); err != nil {
		return 0, err
	}
	if err := t.expect(spec.Level, domain.KindLevel); err != nil {
		return 0, err
	}
	return t.add(domain.KindWall, fmt.Sprintf("Wall %.2f m", length)), nil
}

func (t *transaction) CreateRoomBoundaryLines(
	_ context.Context,
	sketchPlane domain.ElementID,
	curves []domain.Line,
	view domain.ElementID,
) ([]domain.ElementID, error) {
	defer t.doc.mu.Unlock()
	if err := t.begin(OpCreateRoomBoundary); err != nil {
		return nil, err
	}
	if len(curves) == 0 {
		return nil, fmt.Errorf("%w: room boundary has no curves", domain.ErrHostCreation)
	}
	if err := t.expect(sketchPlane, domain.KindSketchPlane); err != nil {
		return nil, err
	}
	if err := t.expect(view, domain.KindView); err != nil {
		return nil, err
	}
	for i, c := range curves {
		if c.Length() < domain.ShortCurveTolerance {
			return nil, fmt.Errorf("%w: boundary curve %d is shorter than tolerance", domain.ErrHostCreation, i)
		}
	}

	ids := make([]domain.ElementID, 0, len(curves))
	for i := range curves {
		ids = append(ids, t.add(domain.KindRoomBoundary, fmt.Sprintf("Room Separation %d", i+1)))
	}
	return ids, nil
}

func (t *transaction) LookupElement(_ context.Context, id domain.ElementID) (*domain.Element, error) {
	defer t.doc.mu.Unlock()
	if err := t.begin(OpLookup); err != nil {
		return nil, err
	}
	el, ok := t.elements[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	el.Active = t.doc.active[id]
	return &el, nil
}

func (t *transaction) IsPrototypeActive(_ context.Context, id domain.ElementID) (bool, error) {
	defer t.doc.mu.Unlock()
	if err := t.begin(OpIsPrototypeActive); err != nil {
		return false, err
	}
	if err := t.expect(id, domain.KindFamilySymbol); err != nil {
		return false, err
	}
	return t.doc.active[id], nil
}

// ActivatePrototype writes straight to the document, outside the snapshot.
func (t *transaction) ActivatePrototype(_ context.Context, id domain.ElementID) error {
	defer t.doc.mu.Unlock()
	if err := t.begin(OpActivatePrototype); err != nil {
		return err
	}
	if err := t.expect(id, domain.KindFamilySymbol); err != nil {
		return err
	}
	t.doc.active[id] = true
	return nil
}

func (t *transaction) CreateFamilyInstance(
	_ context.Context,
	location domain.Point3D,
	prototype domain.ElementID,
	host domain.ElementID,
	structural domain.StructuralType,
) (domain.ElementID, error) {
	defer t.doc.mu.Unlock()
	if err := t.begin(OpCreateInstance); err != nil {
		return 0, err
	}
	if err := t.expect(prototype, domain.KindFamilySymbol); err != nil {
		return 0, err
	}
	if !t.doc.active[prototype] {
		return 0, fmt.Errorf("%w: prototype %d is not active", domain.ErrHostCreation, prototype)
	}
	if err := t.expect(host, domain.KindWall); err != nil {
		return 0, err
	}
	name := fmt.Sprintf("%s at (%.2f, %.2f) %s", t.elements[prototype].Name, location.X, location.Y, structural)
	return t.add(domain.KindFamilyInstance, name), nil
}

func (t *transaction) ActiveView(_ context.Context) (domain.View, error) {
	defer t.doc.mu.Unlock()
	if err := t.begin(OpActiveView); err != nil {
		return domain.View{}, err
	}
	if t.doc.view.ID == 0 {
		return domain.View{}, fmt.Errorf("no active view: %w", domain.ErrNotFound)
	}
	return t.doc.view, nil
}

// Commit swaps the snapshot in. The transaction is closed even if commit fails.
func (t *transaction) Commit() error {
	defer t.doc.mu.Unlock()
	if err := t.begin(OpCommit); err != nil {
		t.close()
		return err
	}
	t.doc.elements = t.elements
	t.doc.nextID = t.nextID
	t.close()
	return nil
}

// Rollback discards the snapshot.
func (t *transaction) Rollback() error {
	defer t.doc.mu.Unlock()
	if err := t.begin(OpRollback); err != nil {
		if !errors.Is(err, domain.ErrTransactionClosed) {
			t.close()
		}
		return err
	}
	t.close()
	return nil
}

// close releases the gate (caller must hold lock).
func (t *transaction) close() {
	t.done = true
	if t.doc.open == t {
		t.doc.open = nil
	}
}
