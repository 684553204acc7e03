// Package domain defines the core business entities for Blueprint.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - DesignRequest: The brief sent to the design generation service
//   - DesignDocument: A generated design (levels, walls, rooms, openings)
//   - ResourceRef: A kind-tagged identifier used inside a design
//   - BuildResult: The host handles created by one import
//   - ImportRecord: The outcome of one import, kept as history
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
