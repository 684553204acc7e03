package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/blueprint/internal/core/domain"
)

const (
	// uriScheme is the custom URI scheme for blueprint resources.
	uriScheme = "blueprint://"
)

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "imports",
		Name:        "imports",
		Description: "Recent design imports",
		MIMEType:    "application/json",
	}, s.handleImportsResource)

	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "imports/{importId}",
		Name:        "import-record",
		Description: "One design import record",
		MIMEType:    "application/json",
	}, s.handleImportResource)

	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "model",
		Name:        "model",
		Description: "Every element in the host model",
		MIMEType:    "application/json",
	}, s.handleModelResource)
}

// handleImportsResource returns the most recent imports.
func (s *Server) handleImportsResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	records, err := s.ports.Importer.History(ctx, defaultListLimit)
	if err != nil {
		return nil, fmt.Errorf("listing imports: %w", err)
	}

	out := make([]ImportOutput, len(records))
	for i := range records {
		out[i] = toImportOutput(records[i])
	}
	return jsonResource(req.Params.URI, out)
}

// handleImportResource returns one import record.
func (s *Server) handleImportResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	id := extractImportID(req.Params.URI)
	if id == "" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	record, err := s.ports.Importer.GetRecord(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}
	if err != nil {
		return nil, fmt.Errorf("getting import: %w", err)
	}
	return jsonResource(req.Params.URI, toImportOutput(*record))
}

// handleModelResource returns every host element.
func (s *Server) handleModelResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	if s.ports.Model == nil {
		return jsonResource(req.Params.URI, []ElementOutput{})
	}

	elements, err := s.ports.Model.Elements(ctx, "")
	if err != nil {
		return nil, fmt.Errorf("listing elements: %w", err)
	}
	return jsonResource(req.Params.URI, toElementOutputs(elements))
}

func jsonResource(uri string, v any) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling resource: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// extractImportID extracts the import ID from a URI like blueprint://imports/{importId}.
func extractImportID(uri string) string {
	const prefix = uriScheme + "imports/"

	if !strings.HasPrefix(uri, prefix) {
		return ""
	}

	id := strings.TrimPrefix(uri, prefix)
	if strings.Contains(id, "/") {
		return ""
	}
	return id
}
