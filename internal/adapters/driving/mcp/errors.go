// Package mcp provides an MCP (Model Context Protocol) server adapter for blueprint.
// It lets AI assistants request designs and inspect the host model.
package mcp

import "errors"

// ErrMissingImporter is returned when the design importer is not provided.
var ErrMissingImporter = errors.New("mcp: design importer is required")
