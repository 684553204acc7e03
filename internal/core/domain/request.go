package domain

import (
	"fmt"
	"math"
	"strings"
)

// Style is the architectural style requested from the design service.
type Style int

const (
	StyleModern Style = iota
	StyleTraditional
	StyleMinimalist
	StyleContemporary
)

var styleNames = [...]string{"Modern", "Traditional", "Minimalist", "Contemporary"}

// Styles returns every supported style in display order.
func Styles() []Style {
	return []Style{StyleModern, StyleTraditional, StyleMinimalist, StyleContemporary}
}

// String returns the wire name of the style.
func (s Style) String() string {
	if s < 0 || int(s) >= len(styleNames) {
		return fmt.Sprintf("Style(%d)", int(s))
	}
	return styleNames[s]
}

// Valid reports whether s is one of the supported styles.
func (s Style) Valid() bool {
	return s >= 0 && int(s) < len(styleNames)
}

// ParseStyle converts a style name, ignoring case, to a Style.
func ParseStyle(name string) (Style, error) {
	name = strings.TrimSpace(name)
	for i, n := range styleNames {
		if strings.EqualFold(n, name) {
			return Style(i), nil
		}
	}
	return 0, fmt.Errorf("%w: unknown style %q (want one of %s)",
		ErrInvalidInput, name, strings.Join(styleNames[:], ", "))
}

// DesignRequest is the brief collected from the user.
// It is a value type; copies never share state.
type DesignRequest struct {
	// Area is the total floor area in square metres.
	Area float64

	// Bedrooms is the requested number of bedrooms.
	Bedrooms int

	// Bathrooms is the requested number of bathrooms.
	Bathrooms int

	// Style is the architectural style.
	Style Style

	// AdditionalRequirements is free text passed through to the service.
	AdditionalRequirements string
}

// NewDesignRequest creates a validated request.
func NewDesignRequest(area float64, bedrooms, bathrooms int, style Style, additional string) (DesignRequest, error) {
	req := DesignRequest{
		Area:                   area,
		Bedrooms:               bedrooms,
		Bathrooms:              bathrooms,
		Style:                  style,
		AdditionalRequirements: additional,
	}
	if err := req.Validate(); err != nil {
		return DesignRequest{}, err
	}
	return req, nil
}

// Validate checks the request bounds.
func (r DesignRequest) Validate() error {
	if !(r.Area > 0) {
		return fmt.Errorf("%w: area must be greater than zero", ErrInvalidInput)
	}
	if math.IsInf(r.Area, 0) {
		return fmt.Errorf("%w: area must be finite", ErrInvalidInput)
	}
	if r.Bedrooms < 0 {
		return fmt.Errorf("%w: bedrooms must not be negative", ErrInvalidInput)
	}
	if r.Bathrooms < 0 {
		return fmt.Errorf("%w: bathrooms must not be negative", ErrInvalidInput)
	}
	if !r.Style.Valid() {
		return fmt.Errorf("%w: unsupported style %s", ErrInvalidInput, r.Style)
	}
	return nil
}
