package designapi

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/custodia-labs/blueprint/internal/core/domain"
)

// ActionGenerateDesign is the only action the service understands.
const ActionGenerateDesign = "generate_design"

// statusSuccess is the envelope status of a usable reply.
const statusSuccess = "success"

var (
	errMissing  = errors.New("missing required field")
	errTrailing = errors.New("unexpected data after design payload")
)

// requestPayload is the /generate request body.
type requestPayload struct {
	Action       string       `json:"action"`
	Requirements requirements `json:"requirements"`
}

type requirements struct {
	Area                   float64 `json:"area"`
	Bedrooms               int     `json:"bedrooms"`
	Bathrooms              int     `json:"bathrooms"`
	Style                  string  `json:"style"`
	AdditionalRequirements string  `json:"additional_requirements"`
}

// Response DTOs use pointers so an absent field can be told apart from a zero value.

type responsePayload struct {
	Status  *string    `json:"status"`
	Message *string    `json:"message"`
	Design  *designDTO `json:"design"`
}

type designDTO struct {
	Levels   *[]levelDTO   `json:"levels"`
	Walls    *[]wallDTO    `json:"walls"`
	Rooms    *[]roomDTO    `json:"rooms"`
	Openings *[]openingDTO `json:"openings"`
}

type levelDTO struct {
	Elevation *float64 `json:"elevation"`
}

type pointDTO struct {
	X *float64 `json:"x"`
	Y *float64 `json:"y"`
}

type wallDTO struct {
	Start   *pointDTO `json:"start"`
	End     *pointDTO `json:"end"`
	TypeID  *int64    `json:"type_id"`
	LevelID *int64    `json:"level_id"`
}

type roomDTO struct {
	Name     *string        `json:"name"`
	Boundary *[]boundaryDTO `json:"boundary"`
}

type boundaryDTO struct {
	X    *float64  `json:"x"`
	Y    *float64  `json:"y"`
	Next *pointDTO `json:"next"`
}

type openingDTO struct {
	TypeID   *int64    `json:"type_id"`
	Location *pointDTO `json:"location"`
	HostID   *int64    `json:"host_id"`
}

// ToRequestPayload encodes a request in the service's wire format.
func ToRequestPayload(req domain.DesignRequest) ([]byte, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	data, err := json.Marshal(requestPayload{
		Action: ActionGenerateDesign,
		Requirements: requirements{
			Area:                   req.Area,
			Bedrooms:               req.Bedrooms,
			Bathrooms:              req.Bathrooms,
			Style:                  req.Style.String(),
			AdditionalRequirements: req.AdditionalRequirements,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}
	return data, nil
}

// FromResponsePayload decodes a service response into a design document.
// Every failure is a *domain.ParseError naming the offending path.
func FromResponsePayload(data []byte) (*domain.DesignDocument, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()

	var payload responsePayload
	if err := dec.Decode(&payload); err != nil {
		return nil, decodeError(err)
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return nil, &domain.ParseError{Err: errTrailing}
	}

	if payload.Status != nil && *payload.Status != statusSuccess {
		msg := ""
		if payload.Message != nil {
			msg = *payload.Message
		}
		return nil, &domain.ParseError{
			Path: "status",
			Err:  fmt.Errorf("service reported %q: %s", *payload.Status, msg),
		}
	}
	if payload.Design == nil {
		return nil, missing("design")
	}
	return payload.Design.toDomain("design")
}

func (d *designDTO) toDomain(path string) (*domain.DesignDocument, error) {
	if d.Levels == nil {
		return nil, missing(path + ".levels")
	}
	if d.Walls == nil {
		return nil, missing(path + ".walls")
	}
	if d.Rooms == nil {
		return nil, missing(path + ".rooms")
	}
	if d.Openings == nil {
		return nil, missing(path + ".openings")
	}

	doc := &domain.DesignDocument{
		Levels:   make([]domain.Level, 0, len(*d.Levels)),
		Walls:    make([]domain.Wall, 0, len(*d.Walls)),
		Rooms:    make([]domain.Room, 0, len(*d.Rooms)),
		Openings: make([]domain.Opening, 0, len(*d.Openings)),
	}

	for i, l := range *d.Levels {
		p := index(path+".levels", i)
		if l.Elevation == nil {
			return nil, missing(p + ".elevation")
		}
		doc.Levels = append(doc.Levels, domain.Level{Elevation: *l.Elevation})
	}

	for i, w := range *d.Walls {
		wall, err := w.toDomain(index(path+".walls", i))
		if err != nil {
			return nil, err
		}
		doc.Walls = append(doc.Walls, wall)
	}

	for i, r := range *d.Rooms {
		room, err := r.toDomain(index(path+".rooms", i))
		if err != nil {
			return nil, err
		}
		doc.Rooms = append(doc.Rooms, room)
	}

	for i, o := range *d.Openings {
		opening, err := o.toDomain(index(path+".openings", i))
		if err != nil {
			return nil, err
		}
		doc.Openings = append(doc.Openings, opening)
	}

	return doc, nil
}

func (w wallDTO) toDomain(path string) (domain.Wall, error) {
	start, err := w.Start.toDomain(path + ".start")
	if err != nil {
		return domain.Wall{}, err
	}
	end, err := w.End.toDomain(path + ".end")
	if err != nil {
		return domain.Wall{}, err
	}
	if w.TypeID == nil {
		return domain.Wall{}, missing(path + ".type_id")
	}
	if w.LevelID == nil {
		return domain.Wall{}, missing(path + ".level_id")
	}
	return domain.Wall{
		Start:   start,
		End:     end,
		TypeID:  domain.WallTypeRef(*w.TypeID),
		LevelID: domain.LevelRef(*w.LevelID),
	}, nil
}

func (r roomDTO) toDomain(path string) (domain.Room, error) {
	if r.Boundary == nil {
		return domain.Room{}, missing(path + ".boundary")
	}
	room := domain.Room{Boundary: make([]domain.BoundaryPoint, 0, len(*r.Boundary))}
	if r.Name != nil {
		room.Name = *r.Name
	}
	for i, b := range *r.Boundary {
		p := index(path+".boundary", i)
		point, err := (&pointDTO{X: b.X, Y: b.Y}).toDomain(p)
		if err != nil {
			return domain.Room{}, err
		}
		next, err := b.Next.toDomain(p + ".next")
		if err != nil {
			return domain.Room{}, err
		}
		room.Boundary = append(room.Boundary, domain.BoundaryPoint{Point: point, Next: next})
	}
	return room, nil
}

func (o openingDTO) toDomain(path string) (domain.Opening, error) {
	if o.TypeID == nil {
		return domain.Opening{}, missing(path + ".type_id")
	}
	location, err := o.Location.toDomain(path + ".location")
	if err != nil {
		return domain.Opening{}, err
	}
	if o.HostID == nil {
		return domain.Opening{}, missing(path + ".host_id")
	}
	return domain.Opening{
		Location: location,
		TypeID:   domain.FamilyTypeRef(*o.TypeID),
		HostID:   domain.HostElementRef(*o.HostID),
	}, nil
}

func (p *pointDTO) toDomain(path string) (domain.Point2D, error) {
	if p == nil {
		return domain.Point2D{}, missing(path)
	}
	if p.X == nil {
		return domain.Point2D{}, missing(path + ".x")
	}
	if p.Y == nil {
		return domain.Point2D{}, missing(path + ".y")
	}
	return domain.Point2D{X: *p.X, Y: *p.Y}, nil
}

// decodeError maps encoding/json failures to parse errors.
func decodeError(err error) error {
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		return &domain.ParseError{
			Path: typeErr.Field,
			Err:  fmt.Errorf("expected %s, got %s", typeErr.Type, typeErr.Value),
		}
	}
	return &domain.ParseError{Err: err}
}

func missing(path string) error {
	return &domain.ParseError{Path: path, Err: errMissing}
}

func index(path string, i int) string {
	return fmt.Sprintf("%s[%d]", path, i)
}
