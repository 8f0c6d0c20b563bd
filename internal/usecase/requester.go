// Package usecase contains application business logic.
package usecase

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/eliteGoblin/focusd/hello_gate/internal/domain"
)

// DefaultPrompt is the fixed text shown in the Windows Hello prompt.
const DefaultPrompt = "Please verify your identity"

// RequesterImpl implements domain.Requester.
type RequesterImpl struct {
	verifier domain.Verifier
	prompt   string
	logger   *zap.Logger
}

// NewRequester creates a requester that shows DefaultPrompt.
func NewRequester(v domain.Verifier, logger *zap.Logger) domain.Requester {
	return NewRequesterWithPrompt(v, DefaultPrompt, logger)
}

// NewRequesterWithPrompt creates a requester with a custom prompt (for testing).
func NewRequesterWithPrompt(v domain.Verifier, prompt string, logger *zap.Logger) domain.Requester {
	return &RequesterImpl{
		verifier: v,
		prompt:   prompt,
		logger:   logger,
	}
}

// Request checks availability, then asks for verification.
// Single pass: the first failure short-circuits and nothing is retried.
func (r *RequesterImpl) Request(ctx context.Context, hwnd domain.WindowHandle) domain.Outcome {
	start := time.Now()

	availability, err := r.verifier.CheckAvailability(ctx)
	if err != nil {
		r.logger.Warn("availability check failed", zap.Error(err))
		return domain.Failed(err)
	}
	if availability != domain.AvailabilityAvailable {
		r.logger.Info("verifier not available",
			zap.Stringer("availability", availability))
		return domain.Rejected(domain.ReasonNotAvailable)
	}

	result, err := r.verifier.RequestVerification(ctx, hwnd, r.prompt)
	if err != nil {
		r.logger.Warn("verification request failed", zap.Error(err))
		return domain.Failed(err)
	}
	if result != domain.ResultVerified {
		r.logger.Info("verification rejected",
			zap.Stringer("result", result),
			zap.Duration("elapsed", time.Since(start)))
		return domain.Rejected(domain.ReasonFailedToVerify)
	}

	r.logger.Info("user verified", zap.Duration("elapsed", time.Since(start)))
	return domain.Verified()
}

// Ensure RequesterImpl implements domain.Requester.
var _ domain.Requester = (*RequesterImpl)(nil)
