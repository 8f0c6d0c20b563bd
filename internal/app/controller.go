// Package app implements the window controller that ties the message loop to
// the background verification pipeline.
package app

import (
	"context"
	"fmt"
	"runtime"

	"go.uber.org/zap"

	"github.com/eliteGoblin/focusd/hello_gate/internal/domain"
	"github.com/eliteGoblin/focusd/hello_gate/internal/lifecycle"
)

// Config holds window controller configuration.
type Config struct {
	ClassName string // Window class registered for the main window
	Title     string // Window caption
	Width     int32
	Height    int32
}

// DefaultConfig returns default controller configuration.
func DefaultConfig() Config {
	return Config{
		ClassName: "verify_window_class",
		Title:     "verify",
		Width:     300,
		Height:    200,
	}
}

// WindowOptions converts the config to the host's window description.
func (c Config) WindowOptions() domain.WindowOptions {
	return domain.WindowOptions{
		ClassName: c.ClassName,
		Title:     c.Title,
		Width:     c.Width,
		Height:    c.Height,
	}
}

// Starter launches the background verification pipeline.
// Implemented by usecase.Pipeline.
type Starter interface {
	Start(ctx context.Context, hwnd domain.WindowHandle) (<-chan domain.Outcome, error)
}

// Controller owns the window lifecycle and the message loop.
type Controller struct {
	config   Config
	host     domain.WindowHost
	pipeline Starter
	logger   *zap.Logger

	machine *lifecycle.Machine
	result  <-chan domain.Outcome
}

// NewController creates a new window controller.
func NewController(
	config Config,
	host domain.WindowHost,
	pipeline Starter,
	logger *zap.Logger,
) *Controller {
	return &Controller{
		config:   config,
		host:     host,
		pipeline: pipeline,
		logger:   logger,
	}
}

// Run creates the window, starts verification and pumps messages until quit.
// It blocks on the calling OS thread and returns the loop's exit code.
// A window creation failure is returned before the loop or pipeline start.
func (c *Controller) Run(ctx context.Context) (int, error) {
	// The window and its queue belong to the thread that creates them.
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	c.machine = lifecycle.NewMachine()

	hwnd, err := c.host.CreateWindow(c.config.WindowOptions(), c.windowProc)
	if err != nil {
		return domain.ExitRejected, fmt.Errorf("failed to create window: %w", err)
	}
	c.logger.Info("window created",
		zap.String("title", c.config.Title),
		zap.Uintptr("hwnd", uintptr(hwnd)))

	c.host.ShowWindow(hwnd)

	result, err := c.pipeline.Start(ctx, hwnd)
	if err != nil {
		// Only reachable if Run is called twice on the same pipeline.
		c.logger.Warn("verification not started", zap.Error(err))
	}
	c.result = result

	code, loopErr := c.host.RunMessageLoop()

	c.machine.Close()
	if err := c.host.Close(hwnd); err != nil {
		c.logger.Warn("failed to close window", zap.Error(err))
	}

	if loopErr != nil {
		return domain.ExitRejected, fmt.Errorf("message loop failed: %w", loopErr)
	}

	c.logger.Info("message loop exited", zap.Int("exit_code", code))
	return code, nil
}

// Result returns the pipeline's outcome channel, or nil before Run started it.
// The controller never waits on it; it is exposed for diagnostics and tests.
func (c *Controller) Result() <-chan domain.Outcome {
	return c.result
}

// windowProc routes every message through the lifecycle machine.
// Runs on the UI thread inside RunMessageLoop.
func (c *Controller) windowProc(hwnd domain.WindowHandle, msg domain.MessageID, wparam, lparam uintptr) uintptr {
	action := c.machine.Handle(msg)

	switch action.Kind {
	case lifecycle.ActionQuit:
		c.logger.Info("terminating", zap.Stringer("message", msg), zap.Int("exit_code", action.ExitCode))
		c.host.PostQuit(action.ExitCode)
	case lifecycle.ActionHandled:
		if msg == domain.MsgVerified {
			c.logger.Info("verified")
		} else {
			c.logger.Debug("ignored after termination", zap.Stringer("message", msg))
		}
	default:
		return c.host.DefaultProc(hwnd, msg, wparam, lparam)
	}
	return 0
}
