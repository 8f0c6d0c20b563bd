package usecase

import (
	"context"
	"errors"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/eliteGoblin/focusd/hello_gate/internal/domain"
)

// Pipeline runs Requester -> Notifier once, on its own goroutine.
type Pipeline struct {
	requester domain.Requester
	notifier  domain.Notifier
	logger    *zap.Logger
	started   atomic.Bool
}

// NewPipeline creates a verification pipeline.
func NewPipeline(requester domain.Requester, notifier domain.Notifier, logger *zap.Logger) *Pipeline {
	return &Pipeline{
		requester: requester,
		notifier:  notifier,
		logger:    logger,
	}
}

// Start spawns the detached verification goroutine.
// It can be called once; later calls return domain.ErrPipelineStarted.
// The returned channel yields the Outcome and is then closed. Callers are
// free to ignore it: there is no join and no cancellation.
func (p *Pipeline) Start(ctx context.Context, hwnd domain.WindowHandle) (<-chan domain.Outcome, error) {
	if !p.started.CompareAndSwap(false, true) {
		return nil, domain.ErrPipelineStarted
	}

	done := make(chan domain.Outcome, 1)
	go func() {
		defer close(done)
		done <- p.run(ctx, hwnd)
	}()
	return done, nil
}

func (p *Pipeline) run(ctx context.Context, hwnd domain.WindowHandle) domain.Outcome {
	p.logger.Debug("verification started")

	outcome := p.requester.Request(ctx, hwnd)

	err := p.notifier.Notify(hwnd, outcome)
	switch {
	case err == nil:
	case errors.Is(err, domain.ErrLoopClosed):
		// Window already gone; the result has nobody to deliver to.
		p.logger.Info("verification result dropped, message loop already exited",
			zap.Stringer("outcome", outcome.Kind))
	default:
		p.logger.Error("failed to deliver verification result",
			zap.Stringer("outcome", outcome.Kind),
			zap.Error(err))
	}

	return outcome
}
