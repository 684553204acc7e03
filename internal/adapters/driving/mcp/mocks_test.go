package mcp

import (
	"context"

	"github.com/custodia-labs/blueprint/internal/core/domain"
)

// mockImporter is a mock implementation of driving.DesignImporter.
type mockImporter struct {
	result  *domain.ImportResult
	records []domain.ImportRecord
	record  *domain.ImportRecord
	err     error

	lastRequest domain.DesignRequest
	lastOpts    domain.ImportOptions
	lastLimit   int
}

func (m *mockImporter) Import(
	_ context.Context,
	req domain.DesignRequest,
	opts domain.ImportOptions,
) (*domain.ImportResult, error) {
	m.lastRequest = req
	m.lastOpts = opts
	return m.result, m.err
}

func (m *mockImporter) ImportPayload(_ context.Context, _ []byte, _ domain.ImportOptions) (*domain.ImportResult, error) {
	return m.result, m.err
}

func (m *mockImporter) ImportDocument(
	_ context.Context,
	_ *domain.DesignDocument,
	_ domain.ImportOptions,
) (*domain.ImportResult, error) {
	return m.result, m.err
}

func (m *mockImporter) History(_ context.Context, limit int) ([]domain.ImportRecord, error) {
	m.lastLimit = limit
	return m.records, m.err
}

func (m *mockImporter) GetRecord(_ context.Context, _ string) (*domain.ImportRecord, error) {
	return m.record, m.err
}

func (m *mockImporter) CheckService(_ context.Context) error {
	return m.err
}

// mockModel is a mock implementation of driving.ModelService.
type mockModel struct {
	elements []domain.Element
	err      error
}

func (m *mockModel) Elements(_ context.Context, _ domain.ElementKind) ([]domain.Element, error) {
	return m.elements, m.err
}

func (m *mockModel) Catalog(_ context.Context) ([]domain.Element, error) {
	return m.elements, m.err
}
