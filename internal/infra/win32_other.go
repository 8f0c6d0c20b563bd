//go:build !windows

package infra

import (
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/eliteGoblin/focusd/hello_gate/internal/domain"
)

// Win32Host is the non-Windows stand-in: it cannot create windows, so
// startup fails before any message loop runs.
type Win32Host struct {
	logger *zap.Logger
}

// NewWindowHost creates the platform window host.
func NewWindowHost(logger *zap.Logger) domain.WindowHost {
	return &Win32Host{logger: logger}
}

func (h *Win32Host) CreateWindow(opts domain.WindowOptions, proc domain.WindowProc) (domain.WindowHandle, error) {
	return 0, fmt.Errorf("create window %q: %w", opts.Title, domain.ErrUnsupportedPlatform)
}

func (h *Win32Host) ShowWindow(hwnd domain.WindowHandle) {}

func (h *Win32Host) RunMessageLoop() (int, error) {
	return 0, domain.ErrUnsupportedPlatform
}

func (h *Win32Host) PostQuit(code int) {}

func (h *Win32Host) PostMessage(hwnd domain.WindowHandle, msg domain.MessageID) error {
	return domain.ErrLoopClosed
}

func (h *Win32Host) DefaultProc(hwnd domain.WindowHandle, msg domain.MessageID, wparam, lparam uintptr) uintptr {
	return 0
}

// ShowError prints the dialog to stderr; there is no desktop to parent it to.
func (h *Win32Host) ShowError(hwnd domain.WindowHandle, title, text string) {
	fmt.Fprintf(os.Stderr, "%s: %s\n", title, text)
}

func (h *Win32Host) Close(hwnd domain.WindowHandle) error {
	return nil
}

// Ensure Win32Host implements domain.WindowHost.
var _ domain.WindowHost = (*Win32Host)(nil)
