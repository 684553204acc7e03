package mcp

import (
	"github.com/custodia-labs/blueprint/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Importer requests and builds designs.
	Importer driving.DesignImporter

	// Model reads the host document.
	Model driving.ModelService
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p.Importer == nil {
		return ErrMissingImporter
	}
	// Model is optional; catalogue tools report an empty list without it.
	return nil
}
