package cli

import (
	"errors"
	"fmt"

	"github.com/custodia-labs/blueprint/internal/core/domain"
)

// describeError turns an error into the message shown to the user.
// Build failures name their phase; anything unrecognised is a generic failure.
func describeError(err error) string {
	var (
		netErr   *domain.NetworkError
		parseErr *domain.ParseError
		buildErr *domain.BuildError
	)

	switch {
	case errors.As(err, &buildErr):
		return fmt.Sprintf("Import failed in the %s phase (item %d): %v\nNo changes were made to the model.",
			buildErr.Phase, buildErr.Index+1, buildErr.Cause)
	case errors.As(err, &netErr):
		return fmt.Sprintf("Design service error: %v", netErr)
	case errors.As(err, &parseErr):
		return fmt.Sprintf("Design rejected: %v", parseErr)
	case errors.Is(err, domain.ErrImportInProgress):
		return "Another import is in progress; try again when it finishes."
	case errors.Is(err, domain.ErrInvalidInput):
		return fmt.Sprintf("Invalid input: %v", err)
	default:
		return fmt.Sprintf("Error: %v", err)
	}
}
