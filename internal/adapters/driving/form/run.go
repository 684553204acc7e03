package form

import (
	"context"
	"errors"
	"fmt"
	"io"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/blueprint/internal/core/domain"
)

// Run shows the form on out, reads keys from in and returns the submitted request.
// Cancelling the form or ctx yields domain.ErrInputCancelled.
func Run(ctx context.Context, in io.Reader, out io.Writer, opts ...Option) (domain.DesignRequest, error) {
	m := New(opts...)

	p := tea.NewProgram(m,
		tea.WithContext(ctx),
		tea.WithInput(in),
		tea.WithOutput(out),
	)

	final, err := p.Run()
	if err != nil {
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return domain.DesignRequest{}, fmt.Errorf("%w: %w", domain.ErrInputCancelled, ctx.Err())
		}
		return domain.DesignRequest{}, fmt.Errorf("running form: %w", err)
	}

	model, ok := final.(*Model)
	if !ok {
		return domain.DesignRequest{}, fmt.Errorf("running form: unexpected model %T", final)
	}
	return model.Result()
}
