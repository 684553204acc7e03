package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/custodia-labs/blueprint/internal/core/domain"
	"github.com/custodia-labs/blueprint/internal/core/ports/driven"
)

// ==================== Host Document ====================

// hostDocument implements driven.HostDocument.
type hostDocument struct {
	store *Store

	mu     sync.Mutex
	open   string
	inTx   bool
	closed bool
}

var _ driven.HostDocument = (*hostDocument)(nil)

// Geometry payloads kept in the elements.geometry column.
type levelGeometry struct {
	Elevation float64 `json:"elevation"`
}

type wallGeometry struct {
	Line       domain.Line      `json:"line"`
	WallType   domain.ElementID `json:"wall_type"`
	Height     float64          `json:"height"`
	Offset     float64          `json:"offset"`
	Flipped    bool             `json:"flipped"`
	Structural bool             `json:"structural"`
}

type curveGeometry struct {
	Line domain.Line      `json:"line"`
	View domain.ElementID `json:"view"`
}

type instanceGeometry struct {
	Location   domain.Point3D   `json:"location"`
	Prototype  domain.ElementID `json:"prototype"`
	Structural string           `json:"structural"`
}

// BeginTransaction opens one SQLite transaction as the mutation gate.
func (h *hostDocument) BeginTransaction(ctx context.Context, name string) (driven.HostTransaction, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return nil, errors.New("host document closed")
	}
	if h.inTx {
		return nil, fmt.Errorf("%w: transaction %q is open", domain.ErrImportInProgress, h.open)
	}

	tx, err := h.store.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	h.inTx = true
	h.open = name
	return &hostTransaction{doc: h, tx: tx, name: name}, nil
}

// Elements lists committed elements of a kind, or all when kind is empty.
func (h *hostDocument) Elements(ctx context.Context, kind domain.ElementKind) ([]domain.Element, error) {
	query := "SELECT id, kind, name, active FROM elements"
	var args []any
	if kind != "" {
		query += " WHERE kind = ?"
		args = append(args, string(kind))
	}
	query += " ORDER BY id"

	rows, err := h.store.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying elements: %w", err)
	}
	defer rows.Close()

	var elements []domain.Element //nolint:prealloc // size unknown from query
	for rows.Next() {
		el, err := scanElement(rows)
		if err != nil {
			return nil, err
		}
		elements = append(elements, *el)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating elements: %w", err)
	}
	return elements, nil
}

// Close stops new transactions. The connection belongs to the Store.
func (h *hostDocument) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closed = true
	return nil
}

func (h *hostDocument) release() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.inTx = false
	h.open = ""
}

// hostTransaction implements driven.HostTransaction over *sql.Tx.
type hostTransaction struct {
	doc  *hostDocument
	tx   *sql.Tx
	name string
	done bool
}

var _ driven.HostTransaction = (*hostTransaction)(nil)

func (t *hostTransaction) Name() string {
	return t.name
}

func (t *hostTransaction) CreateLevel(ctx context.Context, elevation float64) (domain.ElementID, error) {
	if t.done {
		return 0, domain.ErrTransactionClosed
	}
	return t.insert(ctx, domain.KindLevel, fmt.Sprintf("Level %+.2f", elevation), 0,
		levelGeometry{Elevation: elevation})
}

func (t *hostTransaction) CreateWall(ctx context.Context, spec domain.WallSpec) (domain.ElementID, error) {
	if t.done {
		return 0, domain.ErrTransactionClosed
	}
	length := spec.Line.Length()
	if length < domain.ShortCurveTolerance {
		return 0, fmt.Errorf("%w: wall line is shorter than tolerance", domain.ErrHostCreation)
	}
	if spec.Height <= 0 {
		return 0, fmt.Errorf("%w: wall height %.3f is not positive", domain.ErrHostCreation, spec.Height)
	}
	if err := t.expect(ctx, spec.WallType, domain.KindWallType); err != nil {
		return 0, err
	}
	if err := t.expect(ctx, spec.Level, domain.KindLevel); err != nil {
		return 0, err
	}
	return t.insert(ctx, domain.KindWall, fmt.Sprintf("Wall %.2f m", length), spec.Level, wallGeometry{
		Line:       spec.Line,
		WallType:   spec.WallType,
		Height:     spec.Height,
		Offset:     spec.Offset,
		Flipped:    spec.Flipped,
		Structural: spec.Structural,
	})
}

func (t *hostTransaction) CreateRoomBoundaryLines(
	ctx context.Context,
	sketchPlane domain.ElementID,
	curves []domain.Line,
	view domain.ElementID,
) ([]domain.ElementID, error) {
	if t.done {
		return nil, domain.ErrTransactionClosed
	}
	if len(curves) == 0 {
		return nil, fmt.Errorf("%w: room boundary has no curves", domain.ErrHostCreation)
	}
	if err := t.expect(ctx, sketchPlane, domain.KindSketchPlane); err != nil {
		return nil, err
	}
	if err := t.expect(ctx, view, domain.KindView); err != nil {
		return nil, err
	}
	for i, c := range curves {
		if c.Length() < domain.ShortCurveTolerance {
			return nil, fmt.Errorf("%w: boundary curve %d is shorter than tolerance", domain.ErrHostCreation, i)
		}
	}

	ids := make([]domain.ElementID, 0, len(curves))
	for i, c := range curves {
		id, err := t.insert(ctx, domain.KindRoomBoundary, fmt.Sprintf("Room Separation %d", i+1), sketchPlane,
			curveGeometry{Line: c, View: view})
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func (t *hostTransaction) LookupElement(ctx context.Context, id domain.ElementID) (*domain.Element, error) {
	if t.done {
		return nil, domain.ErrTransactionClosed
	}
	row := t.tx.QueryRowContext(ctx, "SELECT id, kind, name, active FROM elements WHERE id = ?", int64(id))
	el, err := scanElement(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	return el, err
}

func (t *hostTransaction) IsPrototypeActive(ctx context.Context, id domain.ElementID) (bool, error) {
	if t.done {
		return false, domain.ErrTransactionClosed
	}
	el, err := t.element(ctx, id, domain.KindFamilySymbol)
	if err != nil {
		return false, err
	}
	return el.Active, nil
}

// ActivatePrototype is written inside the transaction and undone by rollback.
func (t *hostTransaction) ActivatePrototype(ctx context.Context, id domain.ElementID) error {
	if t.done {
		return domain.ErrTransactionClosed
	}
	if err := t.expect(ctx, id, domain.KindFamilySymbol); err != nil {
		return err
	}
	if _, err := t.tx.ExecContext(ctx, "UPDATE elements SET active = ? WHERE id = ?", boolToInt(true), int64(id)); err != nil {
		return fmt.Errorf("activating prototype: %w", err)
	}
	return nil
}

func (t *hostTransaction) CreateFamilyInstance(
	ctx context.Context,
	location domain.Point3D,
	prototype domain.ElementID,
	host domain.ElementID,
	structural domain.StructuralType,
) (domain.ElementID, error) {
	if t.done {
		return 0, domain.ErrTransactionClosed
	}
	symbol, err := t.element(ctx, prototype, domain.KindFamilySymbol)
	if err != nil {
		return 0, err
	}
	if !symbol.Active {
		return 0, fmt.Errorf("%w: prototype %d is not active", domain.ErrHostCreation, prototype)
	}
	if err := t.expect(ctx, host, domain.KindWall); err != nil {
		return 0, err
	}
	return t.insert(ctx, domain.KindFamilyInstance, symbol.Name, host, instanceGeometry{
		Location:   location,
		Prototype:  prototype,
		Structural: structural.String(),
	})
}

func (t *hostTransaction) ActiveView(ctx context.Context) (domain.View, error) {
	if t.done {
		return domain.View{}, domain.ErrTransactionClosed
	}
	var view domain.View
	err := t.tx.QueryRowContext(ctx, `
		SELECT v.id, v.name, p.id
		FROM host_state sv
		JOIN elements v ON v.id = sv.value
		JOIN host_state sp ON sp.key = 'active_sketch_plane'
		JOIN elements p ON p.id = sp.value
		WHERE sv.key = 'active_view'
	`).Scan(&view.ID, &view.Name, &view.SketchPlane)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.View{}, fmt.Errorf("no active view: %w", domain.ErrNotFound)
	}
	if err != nil {
		return domain.View{}, fmt.Errorf("reading active view: %w", err)
	}
	return view, nil
}

// Commit makes every mutation visible. The transaction is closed even on failure.
func (t *hostTransaction) Commit() error {
	if t.done {
		return domain.ErrTransactionClosed
	}
	t.done = true
	defer t.doc.release()
	if err := t.tx.Commit(); err != nil {
		return fmt.Errorf("committing: %w", err)
	}
	return nil
}

// Rollback discards every mutation.
func (t *hostTransaction) Rollback() error {
	if t.done {
		return domain.ErrTransactionClosed
	}
	t.done = true
	defer t.doc.release()
	if err := t.tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
		return fmt.Errorf("rolling back: %w", err)
	}
	return nil
}

func (t *hostTransaction) insert(
	ctx context.Context,
	kind domain.ElementKind,
	name string,
	host domain.ElementID,
	geometry any,
) (domain.ElementID, error) {
	geometryJSON, err := json.Marshal(geometry)
	if err != nil {
		return 0, fmt.Errorf("marshalling geometry: %w", err)
	}
	var hostID any
	if host != 0 {
		hostID = int64(host)
	}

	res, err := t.tx.ExecContext(ctx, `
		INSERT INTO elements (kind, name, host_id, geometry) VALUES (?, ?, ?, ?)
	`, string(kind), name, hostID, string(geometryJSON))
	if err != nil {
		return 0, fmt.Errorf("%w: inserting %s: %v", domain.ErrHostCreation, kind, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("reading %s id: %w", kind, err)
	}
	return domain.ElementID(id), nil
}

// element fetches id and checks its kind.
func (t *hostTransaction) element(ctx context.Context, id domain.ElementID, kind domain.ElementKind) (*domain.Element, error) {
	row := t.tx.QueryRowContext(ctx, "SELECT id, kind, name, active FROM elements WHERE id = ?", int64(id))
	el, err := scanElement(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: element %d does not exist", domain.ErrHostCreation, id)
	}
	if err != nil {
		return nil, err
	}
	if el.Kind != kind {
		return nil, fmt.Errorf("%w: element %d is a %s, not a %s", domain.ErrHostCreation, id, el.Kind, kind)
	}
	return el, nil
}

func (t *hostTransaction) expect(ctx context.Context, id domain.ElementID, kind domain.ElementKind) error {
	_, err := t.element(ctx, id, kind)
	return err
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanElement(row rowScanner) (*domain.Element, error) {
	var (
		el     domain.Element
		id     int64
		kind   string
		active int
	)
	if err := row.Scan(&id, &kind, &el.Name, &active); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning element: %w", err)
	}
	el.ID = domain.ElementID(id)
	el.Kind = domain.ElementKind(kind)
	el.Active = active != 0
	return &el, nil
}
