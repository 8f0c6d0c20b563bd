// Package domain contains core business entities and interfaces.
// This is the innermost layer in Clean Architecture - no external dependencies.
package domain

import (
	"errors"
	"fmt"
)

// WindowHandle identifies the top-level window (an HWND on Windows).
// It is a capability token: the background pipeline may use it to address
// posted messages and to parent dialogs, never to touch window state.
type WindowHandle uintptr

// Availability mirrors Windows.Security.Credentials.UI.UserConsentVerifierAvailability.
type Availability int32

const (
	AvailabilityAvailable            Availability = 0
	AvailabilityDeviceNotPresent     Availability = 1
	AvailabilityNotConfiguredForUser Availability = 2
	AvailabilityDisabledByPolicy     Availability = 3
	AvailabilityDeviceBusy           Availability = 4
)

// String returns the platform name of the availability state.
func (a Availability) String() string {
	switch a {
	case AvailabilityAvailable:
		return "Available"
	case AvailabilityDeviceNotPresent:
		return "DeviceNotPresent"
	case AvailabilityNotConfiguredForUser:
		return "NotConfiguredForUser"
	case AvailabilityDisabledByPolicy:
		return "DisabledByPolicy"
	case AvailabilityDeviceBusy:
		return "DeviceBusy"
	default:
		return fmt.Sprintf("Availability(%d)", int32(a))
	}
}

// VerificationResult mirrors Windows.Security.Credentials.UI.UserConsentVerificationResult.
type VerificationResult int32

const (
	ResultVerified             VerificationResult = 0
	ResultDeviceNotPresent     VerificationResult = 1
	ResultNotConfiguredForUser VerificationResult = 2
	ResultDisabledByPolicy     VerificationResult = 3
	ResultDeviceBusy           VerificationResult = 4
	ResultRetriesExhausted     VerificationResult = 5
	ResultCanceled             VerificationResult = 6
)

// String returns the platform name of the verification result.
func (r VerificationResult) String() string {
	switch r {
	case ResultVerified:
		return "Verified"
	case ResultDeviceNotPresent:
		return "DeviceNotPresent"
	case ResultNotConfiguredForUser:
		return "NotConfiguredForUser"
	case ResultDisabledByPolicy:
		return "DisabledByPolicy"
	case ResultDeviceBusy:
		return "DeviceBusy"
	case ResultRetriesExhausted:
		return "RetriesExhausted"
	case ResultCanceled:
		return "Canceled"
	default:
		return fmt.Sprintf("VerificationResult(%d)", int32(r))
	}
}

// OutcomeKind tags a verification Outcome.
type OutcomeKind int

const (
	OutcomeVerified OutcomeKind = iota
	OutcomeRejected
	OutcomeError
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomeVerified:
		return "verified"
	case OutcomeRejected:
		return "rejected"
	case OutcomeError:
		return "error"
	default:
		return "unknown"
	}
}

// Reasons reported to the user for a rejected verification.
const (
	ReasonNotAvailable   = "verifier is not available"
	ReasonFailedToVerify = "failed to verify"
)

// Outcome is the single result of one verification attempt.
type Outcome struct {
	Kind   OutcomeKind
	Reason string // Human-readable description; empty when verified
}

// Verified returns a successful outcome.
func Verified() Outcome {
	return Outcome{Kind: OutcomeVerified}
}

// Rejected returns an outcome for an explicit negative answer.
func Rejected(reason string) Outcome {
	return Outcome{Kind: OutcomeRejected, Reason: reason}
}

// Failed returns an outcome for a platform call that never reached an answer.
func Failed(err error) Outcome {
	return Outcome{Kind: OutcomeError, Reason: err.Error()}
}

// OK reports whether the user was verified.
func (o Outcome) OK() bool {
	return o.Kind == OutcomeVerified
}

// MessageID is a window message identifier.
type MessageID uint32

const (
	// MsgDestroy is WM_DESTROY.
	MsgDestroy MessageID = 0x0002
	// msgApp is WM_APP, the first ID free for private window classes.
	msgApp MessageID = 0x8000

	MsgVerified = msgApp + 1
	MsgRejected = msgApp + 2
)

func (m MessageID) String() string {
	switch m {
	case MsgDestroy:
		return "WM_DESTROY"
	case MsgVerified:
		return "VERIFIED"
	case MsgRejected:
		return "REJECTED"
	default:
		return fmt.Sprintf("0x%04x", uint32(m))
	}
}

// Process exit codes carried out of the message loop.
const (
	ExitOK       = 0
	ExitRejected = 1
)

var (
	// ErrLoopClosed is returned when a message is posted after the message loop exited.
	ErrLoopClosed = errors.New("message loop has exited")

	// ErrUnsupportedPlatform is returned by platform adapters on non-Windows builds.
	ErrUnsupportedPlatform = errors.New("unsupported platform: windows required")

	// ErrPipelineStarted is returned when verification is started a second time.
	ErrPipelineStarted = errors.New("verification pipeline already started")
)

// WindowOptions describes the single top-level window.
type WindowOptions struct {
	ClassName string
	Title     string
	Width     int32
	Height    int32
}

// HostInfo summarizes the machine for startup diagnostics.
type HostInfo struct {
	Hostname        string
	OS              string
	Platform        string
	PlatformVersion string
	KernelVersion   string
}
