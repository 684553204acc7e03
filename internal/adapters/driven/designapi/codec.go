package designapi

import (
	"github.com/custodia-labs/blueprint/internal/core/domain"
	"github.com/custodia-labs/blueprint/internal/core/ports/driven"
)

// Ensure Codec implements the interface.
var _ driven.DesignCodec = Codec{}

// Codec is the JSON wire codec of the design service.
type Codec struct{}

// EncodeRequest serialises a request payload.
func (Codec) EncodeRequest(req domain.DesignRequest) ([]byte, error) {
	return ToRequestPayload(req)
}

// DecodeDesign parses a response payload.
func (Codec) DecodeDesign(data []byte) (*domain.DesignDocument, error) {
	return FromResponsePayload(data)
}
