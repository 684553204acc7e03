package services

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/blueprint/internal/core/domain"
	"github.com/custodia-labs/blueprint/internal/core/ports/driven"
	"github.com/custodia-labs/blueprint/internal/core/ports/driving"
	"github.com/custodia-labs/blueprint/internal/logger"
)

// Ensure ImportService implements the interface.
var _ driving.DesignImporter = (*ImportService)(nil)

// ErrGeneratorUnavailable is returned when no design generator is configured.
var ErrGeneratorUnavailable = errors.New("design generator not configured")

// transactionName is the name of the host transaction wrapping each build.
const transactionName = "Create Design"

// ImportService coordinates request, generation and build for one host document.
// It is the single mutation gate: a second import while one is running
// fails with domain.ErrImportInProgress.
type ImportService struct {
	host      driven.HostDocument
	codec     driven.DesignCodec
	generator driven.DesignGenerator
	history   driven.ImportHistoryStore
	builder   *Builder

	busy atomic.Bool
	now  func() time.Time
}

// NewImportService creates a new import service.
// The generator and history store are optional; without a generator only
// payload and document imports work, without history nothing is recorded.
func NewImportService(
	host driven.HostDocument,
	codec driven.DesignCodec,
	generator driven.DesignGenerator,
	history driven.ImportHistoryStore,
) *ImportService {
	return &ImportService{
		host:      host,
		codec:     codec,
		generator: generator,
		history:   history,
		builder:   NewBuilder(),
		now:       time.Now,
	}
}

// Import requests a design and builds it.
func (s *ImportService) Import(ctx context.Context, req domain.DesignRequest, opts domain.ImportOptions) (*domain.ImportResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if s.generator == nil {
		return nil, ErrGeneratorUnavailable
	}
	if err := s.acquire(); err != nil {
		return nil, err
	}
	defer s.release()

	record := s.newRecord(domain.SourceService, labelOr(opts.Label, summarise(req)))

	logger.Section("Generate design")
	doc, err := s.generator.GenerateDesign(ctx, req)
	if err != nil {
		status := domain.ImportFailed
		if ctx.Err() != nil {
			status = domain.ImportCancelled
		}
		s.finish(ctx, &record, status, err)
		return nil, fmt.Errorf("generate design: %w", err)
	}

	// Cancellation is honoured up to the start of the build, never after.
	if err := ctx.Err(); err != nil {
		s.finish(ctx, &record, domain.ImportCancelled, err)
		return nil, fmt.Errorf("import cancelled before build: %w", err)
	}

	return s.build(ctx, doc, opts, record)
}

// CheckService pings the generation service.
func (s *ImportService) CheckService(ctx context.Context) error {
	if s.generator == nil {
		return ErrGeneratorUnavailable
	}
	if err := s.generator.Ping(ctx); err != nil {
		return fmt.Errorf("design service health check: %w", err)
	}
	logger.Debug("Design service is healthy")
	return nil
}

// ImportPayload decodes a saved service response and builds it.
// A payload that fails to decode never opens a transaction.
func (s *ImportService) ImportPayload(ctx context.Context, data []byte, opts domain.ImportOptions) (*domain.ImportResult, error) {
	if s.codec == nil {
		return nil, fmt.Errorf("%w: design codec not configured", domain.ErrInvalidInput)
	}
	if err := s.acquire(); err != nil {
		return nil, err
	}
	defer s.release()

	record := s.newRecord(domain.SourceFile, labelOr(opts.Label, "payload"))

	doc, err := s.codec.DecodeDesign(data)
	if err != nil {
		s.finish(ctx, &record, domain.ImportFailed, err)
		return nil, err
	}
	return s.build(ctx, doc, opts, record)
}

// ImportDocument builds an already decoded design.
func (s *ImportService) ImportDocument(ctx context.Context, doc *domain.DesignDocument, opts domain.ImportOptions) (*domain.ImportResult, error) {
	if doc == nil {
		return nil, fmt.Errorf("%w: nil design document", domain.ErrInvalidInput)
	}
	if err := s.acquire(); err != nil {
		return nil, err
	}
	defer s.release()

	record := s.newRecord(domain.SourceInline, labelOr(opts.Label, "document"))
	return s.build(ctx, doc, opts, record)
}

// History returns recent import records, newest first.
func (s *ImportService) History(ctx context.Context, limit int) ([]domain.ImportRecord, error) {
	if s.history == nil {
		return nil, nil
	}
	return s.history.List(ctx, limit)
}

// GetRecord returns one import record.
func (s *ImportService) GetRecord(ctx context.Context, id string) (*domain.ImportRecord, error) {
	if s.history == nil {
		return nil, domain.ErrNotFound
	}
	return s.history.Get(ctx, id)
}

// build runs the builder inside the transaction boundary and records the outcome.
func (s *ImportService) build(
	ctx context.Context,
	doc *domain.DesignDocument,
	opts domain.ImportOptions,
	record domain.ImportRecord,
) (*domain.ImportResult, error) {
	record.Planned = doc.Counts()

	// Once the build starts it must not observe caller cancellation.
	buildCtx := context.WithoutCancel(ctx)

	run := RunAtomic
	if opts.DryRun {
		run = RunDry
	}

	result, err := run(buildCtx, s.host, transactionName, func(ctx context.Context, session driven.HostSession) (*domain.BuildResult, error) {
		return s.builder.Build(ctx, doc, session)
	})
	if err != nil {
		var buildErr *domain.BuildError
		if errors.As(err, &buildErr) {
			record.Phase = buildErr.Phase
		}
		s.finish(buildCtx, &record, domain.ImportFailed, err)
		return nil, err
	}

	status := domain.ImportSucceeded
	if opts.DryRun {
		status = domain.ImportDryRun
	} else {
		record.Created = result.Counts()
	}
	s.finish(buildCtx, &record, status, nil)

	return &domain.ImportResult{Record: record, Result: result}, nil
}

func (s *ImportService) acquire() error {
	if !s.busy.CompareAndSwap(false, true) {
		return domain.ErrImportInProgress
	}
	return nil
}

func (s *ImportService) release() {
	s.busy.Store(false)
}

func (s *ImportService) newRecord(source domain.ImportSource, label string) domain.ImportRecord {
	return domain.ImportRecord{
		ID:        uuid.New().String(),
		Source:    source,
		Label:     label,
		StartedAt: s.now().UTC(),
	}
}

// finish stamps the record and saves it. History failures are logged, not returned.
func (s *ImportService) finish(ctx context.Context, record *domain.ImportRecord, status domain.ImportStatus, cause error) {
	record.Status = status
	record.FinishedAt = s.now().UTC()
	if cause != nil {
		record.Error = cause.Error()
	}
	if s.history == nil {
		return
	}
	if err := s.history.Save(context.WithoutCancel(ctx), *record); err != nil {
		logger.Warn("Failed to save import record %s: %v", record.ID, err)
	}
}

func summarise(req domain.DesignRequest) string {
	return fmt.Sprintf("%s, %.0f m², %d bed, %d bath", req.Style, req.Area, req.Bedrooms, req.Bathrooms)
}

func labelOr(label, fallback string) string {
	if label != "" {
		return label
	}
	return fallback
}
