// Package infra implements infrastructure concerns (Win32 window, WinRT verifier, host info).
package infra

import "time"

// UserConsentVerifierClass is the WinRT runtime class behind Windows Hello prompts.
const UserConsentVerifierClass = "Windows.Security.Credentials.UI.UserConsentVerifier"

// WinRTConfig holds verifier configuration.
type WinRTConfig struct {
	PollInterval time.Duration // How often to poll a pending async operation
}

// DefaultWinRTConfig returns default verifier configuration.
func DefaultWinRTConfig() WinRTConfig {
	return WinRTConfig{
		PollInterval: 25 * time.Millisecond,
	}
}

func (c WinRTConfig) pollInterval() time.Duration {
	if c.PollInterval <= 0 {
		return DefaultWinRTConfig().PollInterval
	}
	return c.PollInterval
}
