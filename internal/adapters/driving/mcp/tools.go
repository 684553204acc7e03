package mcp

import (
	"context"
	"fmt"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/blueprint/internal/core/domain"
)

// defaultListLimit caps list_imports when no limit is given.
const defaultListLimit = 10

// ImportDesignInput is the input schema for the import_design tool.
type ImportDesignInput struct {
	Area         float64 `json:"area" jsonschema:"total floor area in square metres"`
	Bedrooms     int     `json:"bedrooms" jsonschema:"number of bedrooms"`
	Bathrooms    int     `json:"bathrooms" jsonschema:"number of bathrooms"`
	Style        string  `json:"style,omitempty" jsonschema:"Modern, Traditional, Minimalist or Contemporary (default Modern)"`
	Requirements string  `json:"requirements,omitempty" jsonschema:"free text passed to the design service"`
	DryRun       bool    `json:"dry_run,omitempty" jsonschema:"build and roll back without keeping anything"`
}

// CountsOutput tallies entities per construction phase.
type CountsOutput struct {
	Levels   int `json:"levels"`
	Walls    int `json:"walls"`
	Rooms    int `json:"rooms"`
	Openings int `json:"openings"`
}

// ImportOutput describes one import record.
type ImportOutput struct {
	ID         string       `json:"id"`
	Source     string       `json:"source"`
	Label      string       `json:"label,omitempty"`
	Status     string       `json:"status"`
	StartedAt  string       `json:"started_at"`
	DurationMS int64        `json:"duration_ms"`
	Phase      string       `json:"phase,omitempty"`
	Error      string       `json:"error,omitempty"`
	Planned    CountsOutput `json:"planned"`
	Created    CountsOutput `json:"created"`
}

// ListImportsInput is the input schema for the list_imports tool.
type ListImportsInput struct {
	Limit int `json:"limit,omitempty" jsonschema:"maximum number of imports to return (default 10)"`
}

// ListImportsOutput is the output schema for the list_imports tool.
type ListImportsOutput struct {
	Imports []ImportOutput `json:"imports"`
	Count   int            `json:"count"`
}

// ListCatalogInput is the input schema for the list_catalog tool.
type ListCatalogInput struct{}

// ElementOutput is one host element.
type ElementOutput struct {
	ID     int64  `json:"id"`
	Kind   string `json:"kind"`
	Name   string `json:"name"`
	Active bool   `json:"active,omitempty"`
}

// ListCatalogOutput is the output schema for the list_catalog tool.
type ListCatalogOutput struct {
	Elements []ElementOutput `json:"elements"`
	Count    int             `json:"count"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "import_design",
		Description: "Request a floor plan from the design service and build it into the model. " +
			"When server.cache_size is above zero, a brief identical to a recent one reuses the cached design.",
	}, s.handleImportDesign)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "list_imports",
		Description: "List recent design imports, newest first",
	}, s.handleListImports)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "list_catalog",
		Description: "List the wall types and family symbols a design can reference",
	}, s.handleListCatalog)
}

// handleImportDesign handles the import_design tool invocation.
func (s *Server) handleImportDesign(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ImportDesignInput,
) (*mcp.CallToolResult, ImportOutput, error) {
	style := domain.StyleModern
	if input.Style != "" {
		parsed, err := domain.ParseStyle(input.Style)
		if err != nil {
			return nil, ImportOutput{}, err
		}
		style = parsed
	}

	req, err := domain.NewDesignRequest(input.Area, input.Bedrooms, input.Bathrooms, style, input.Requirements)
	if err != nil {
		return nil, ImportOutput{}, err
	}

	result, err := s.ports.Importer.Import(ctx, req, domain.ImportOptions{DryRun: input.DryRun})
	if err != nil {
		return nil, ImportOutput{}, fmt.Errorf("importing design: %w", err)
	}
	return nil, toImportOutput(result.Record), nil
}

// handleListImports handles the list_imports tool invocation.
func (s *Server) handleListImports(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ListImportsInput,
) (*mcp.CallToolResult, ListImportsOutput, error) {
	limit := input.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}

	records, err := s.ports.Importer.History(ctx, limit)
	if err != nil {
		return nil, ListImportsOutput{}, fmt.Errorf("listing imports: %w", err)
	}

	output := ListImportsOutput{
		Imports: make([]ImportOutput, len(records)),
		Count:   len(records),
	}
	for i := range records {
		output.Imports[i] = toImportOutput(records[i])
	}
	return nil, output, nil
}

// handleListCatalog handles the list_catalog tool invocation.
func (s *Server) handleListCatalog(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	_ ListCatalogInput,
) (*mcp.CallToolResult, ListCatalogOutput, error) {
	if s.ports.Model == nil {
		return nil, ListCatalogOutput{Elements: []ElementOutput{}}, nil
	}

	elements, err := s.ports.Model.Catalog(ctx)
	if err != nil {
		return nil, ListCatalogOutput{}, fmt.Errorf("listing catalog: %w", err)
	}
	return nil, ListCatalogOutput{Elements: toElementOutputs(elements), Count: len(elements)}, nil
}

func toImportOutput(r domain.ImportRecord) ImportOutput {
	out := ImportOutput{
		ID:         r.ID,
		Source:     string(r.Source),
		Label:      r.Label,
		Status:     string(r.Status),
		StartedAt:  r.StartedAt.UTC().Format(time.RFC3339),
		DurationMS: r.Duration().Milliseconds(),
		Error:      r.Error,
		Planned:    toCountsOutput(r.Planned),
		Created:    toCountsOutput(r.Created),
	}
	if r.Phase != 0 {
		out.Phase = r.Phase.String()
	}
	return out
}

func toCountsOutput(c domain.Counts) CountsOutput {
	return CountsOutput{Levels: c.Levels, Walls: c.Walls, Rooms: c.Rooms, Openings: c.Openings}
}

func toElementOutputs(elements []domain.Element) []ElementOutput {
	out := make([]ElementOutput, len(elements))
	for i, el := range elements {
		out[i] = ElementOutput{ID: int64(el.ID), Kind: string(el.Kind), Name: el.Name, Active: el.Active}
	}
	return out
}
