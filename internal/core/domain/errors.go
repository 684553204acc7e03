package domain

import (
	"errors"
	"fmt"
)

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrInputCancelled indicates the user aborted before the request was submitted.
	// It is a normal early exit, not a failure.
	ErrInputCancelled = errors.New("input cancelled")

	// ErrNetworkFailure indicates a transport failure or a non-2xx response
	// from the design generation service.
	ErrNetworkFailure = errors.New("network failure")

	// ErrParse indicates a malformed or incomplete design document.
	ErrParse = errors.New("parse error")

	// ErrReferenceNotFound indicates a design references an identifier that
	// cannot be resolved at its phase.
	ErrReferenceNotFound = errors.New("reference not found")

	// ErrHostCreation indicates the host document rejected a construction call.
	ErrHostCreation = errors.New("host creation failure")

	// ErrImportInProgress indicates another import already holds the host document.
	ErrImportInProgress = errors.New("import in progress")

	// ErrTransactionClosed indicates a host transaction was used after commit or rollback.
	ErrTransactionClosed = errors.New("transaction closed")
)

// NetworkError carries the outcome of a failed call to the design generation service.
// StatusCode is zero for transport-level failures.
type NetworkError struct {
	StatusCode int
	Body       string
	Err        error
}

func (e *NetworkError) Error() string {
	switch {
	case e.StatusCode != 0 && e.Body != "":
		return fmt.Sprintf("design service returned status %d: %s", e.StatusCode, e.Body)
	case e.StatusCode != 0:
		return fmt.Sprintf("design service returned status %d", e.StatusCode)
	case e.Err != nil:
		return fmt.Sprintf("design service unreachable: %v", e.Err)
	default:
		return "design service unreachable"
	}
}

// Unwrap exposes both the sentinel and the transport cause.
func (e *NetworkError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrNetworkFailure}
	}
	return []error{ErrNetworkFailure, e.Err}
}

// ParseError reports where decoding of a design payload failed.
type ParseError struct {
	// Path is a JSON path like "design.walls[2].type_id".
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("parse design: %v", e.Err)
	}
	return fmt.Sprintf("parse design: %s: %v", e.Path, e.Err)
}

// Unwrap exposes both the sentinel and the decoding cause.
func (e *ParseError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrParse}
	}
	return []error{ErrParse, e.Err}
}

// ReferenceError reports a ResourceRef that could not be resolved.
type ReferenceError struct {
	Ref    ResourceRef
	Reason string
}

func (e *ReferenceError) Error() string {
	return fmt.Sprintf("resolve %s: %s", e.Ref, e.Reason)
}

func (e *ReferenceError) Unwrap() error {
	return ErrReferenceNotFound
}

// BuildError aborts an import. Phase and Index locate the entity that failed.
type BuildError struct {
	Phase Phase
	Index int
	Cause error
}

func (e *BuildError) Error() string {
	return fmt.Sprintf("build failed in %s phase at item %d: %v", e.Phase, e.Index, e.Cause)
}

func (e *BuildError) Unwrap() error {
	return e.Cause
}
