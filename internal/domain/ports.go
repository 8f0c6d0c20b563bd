package domain

import "context"

// Verifier is the platform identity-verification service (Windows Hello).
// Implementation: WinRT UserConsentVerifier via go-ole.
type Verifier interface {
	// CheckAvailability reports whether verification can be requested at all.
	CheckAvailability(ctx context.Context) (Availability, error)

	// RequestVerification shows the OS prompt parented to hwnd and waits for the answer.
	RequestVerification(ctx context.Context, hwnd WindowHandle, prompt string) (VerificationResult, error)
}

// Requester runs one full verification attempt and reduces it to an Outcome.
type Requester interface {
	Request(ctx context.Context, hwnd WindowHandle) Outcome
}

// Notifier delivers an Outcome to the window's message queue.
type Notifier interface {
	// Notify is called from the background goroutine, never the UI thread.
	Notify(hwnd WindowHandle, outcome Outcome) error
}

// MessagePoster enqueues a message for the window without waiting for it to be handled.
type MessagePoster interface {
	// PostMessage returns ErrLoopClosed once the message loop has been torn down.
	PostMessage(hwnd WindowHandle, msg MessageID) error
}

// DialogPresenter shows modal dialogs.
type DialogPresenter interface {
	// ShowError blocks the caller until the user dismisses the dialog.
	ShowError(hwnd WindowHandle, title, text string)
}

// WindowProc is the window message procedure.
type WindowProc func(hwnd WindowHandle, msg MessageID, wparam, lparam uintptr) uintptr

// WindowHost owns the OS window and its message loop.
// All methods except PostMessage and ShowError must be called on the UI thread.
type WindowHost interface {
	MessagePoster
	DialogPresenter

	// CreateWindow registers the window class and creates the window.
	CreateWindow(opts WindowOptions, proc WindowProc) (WindowHandle, error)

	// ShowWindow makes the window visible.
	ShowWindow(hwnd WindowHandle)

	// RunMessageLoop retrieves and dispatches messages until a quit is posted.
	// Returns the exit code passed to PostQuit.
	RunMessageLoop() (int, error)

	// PostQuit asks the message loop to exit with code.
	PostQuit(code int)

	// DefaultProc applies the platform's default handling to a message.
	DefaultProc(hwnd WindowHandle, msg MessageID, wparam, lparam uintptr) uintptr

	// Close tears the window down after the loop exited; later posts fail with ErrLoopClosed.
	Close(hwnd WindowHandle) error
}
