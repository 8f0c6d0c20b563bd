//go:build !windows

package infra

import (
	"context"

	"go.uber.org/zap"

	"github.com/eliteGoblin/focusd/hello_gate/internal/domain"
)

// WinRTVerifier reports the platform as unsupported outside Windows.
type WinRTVerifier struct {
	config WinRTConfig
	logger *zap.Logger
}

// NewVerifier creates the platform verifier.
func NewVerifier(config WinRTConfig, logger *zap.Logger) domain.Verifier {
	return &WinRTVerifier{config: config, logger: logger}
}

func (v *WinRTVerifier) CheckAvailability(ctx context.Context) (domain.Availability, error) {
	return domain.AvailabilityDeviceNotPresent, domain.ErrUnsupportedPlatform
}

func (v *WinRTVerifier) RequestVerification(ctx context.Context, hwnd domain.WindowHandle, prompt string) (domain.VerificationResult, error) {
	return domain.ResultDeviceNotPresent, domain.ErrUnsupportedPlatform
}

// Ensure WinRTVerifier implements domain.Verifier.
var _ domain.Verifier = (*WinRTVerifier)(nil)
