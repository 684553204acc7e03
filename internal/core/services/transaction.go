package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/custodia-labs/blueprint/internal/core/domain"
	"github.com/custodia-labs/blueprint/internal/core/ports/driven"
	"github.com/custodia-labs/blueprint/internal/logger"
)

// BuildFunc is the body run inside a host transaction.
type BuildFunc func(ctx context.Context, session driven.HostSession) (*domain.BuildResult, error)

// RunAtomic runs body inside one host transaction. It commits when body
// succeeds and rolls back when body fails or panics. The transaction is
// closed on every return path.
func RunAtomic(ctx context.Context, host driven.HostDocument, name string, body BuildFunc) (*domain.BuildResult, error) {
	return runInTransaction(ctx, host, name, body, false)
}

// RunDry runs body like RunAtomic but always rolls back.
// Prototype activation may still outlive the rollback.
func RunDry(ctx context.Context, host driven.HostDocument, name string, body BuildFunc) (*domain.BuildResult, error) {
	return runInTransaction(ctx, host, name, body, true)
}

func runInTransaction(
	ctx context.Context,
	host driven.HostDocument,
	name string,
	body BuildFunc,
	dry bool,
) (result *domain.BuildResult, err error) {
	if host == nil {
		return nil, fmt.Errorf("%w: host document not configured", domain.ErrInvalidInput)
	}

	tx, err := host.BeginTransaction(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("begin transaction %q: %w", name, err)
	}
	logger.Debug("Transaction %q opened", name)

	committed := false
	defer func() {
		if p := recover(); p != nil {
			result = nil
			err = fmt.Errorf("unexpected failure during build: %v", p)
		}
		if committed {
			return
		}
		if rbErr := tx.Rollback(); rbErr != nil {
			logger.Error("Rollback of %q failed: %v", name, rbErr)
			err = errors.Join(err, fmt.Errorf("rollback transaction %q: %w", name, rbErr))
		} else {
			logger.Info("Transaction %q rolled back", name)
		}
		if err != nil {
			result = nil
		}
	}()

	result, err = body(ctx, tx)
	if err != nil || dry {
		return result, err
	}

	// The transaction is closed once Commit returns, even on failure.
	committed = true
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit transaction %q: %w", name, err)
	}
	logger.Info("Transaction %q committed", name)
	return result, nil
}
