package driven

import (
	"context"

	"github.com/custodia-labs/blueprint/internal/core/domain"
)

// DesignGenerator produces a design from a request. It is a black box:
// implementations may call a remote service, replay fixtures, or cache.
type DesignGenerator interface {
	// GenerateDesign sends the request and decodes the response.
	// Transport failures and non-2xx replies return *domain.NetworkError;
	// malformed replies return *domain.ParseError.
	GenerateDesign(ctx context.Context, req domain.DesignRequest) (*domain.DesignDocument, error)

	// Ping validates the service is reachable. Used by status checks.
	Ping(ctx context.Context) error
}

// DesignCodec converts between domain values and the service's wire format.
type DesignCodec interface {
	// EncodeRequest serialises a request payload.
	EncodeRequest(req domain.DesignRequest) ([]byte, error)

	// DecodeDesign parses a response payload. Missing or unknown fields
	// yield *domain.ParseError, never a partial document.
	DecodeDesign(data []byte) (*domain.DesignDocument, error)
}
