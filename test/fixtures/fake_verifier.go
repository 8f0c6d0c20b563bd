package fixtures

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/eliteGoblin/focusd/hello_gate/internal/domain"
)

// FakeVerifier is a scripted domain.Verifier.
// Configure the exported fields before the pipeline starts.
type FakeVerifier struct {
	Availability    domain.Availability
	AvailabilityErr error
	Result          domain.VerificationResult
	ResultErr       error

	gate        chan struct{}
	entered     chan struct{}
	enteredOnce sync.Once

	availabilityCalls atomic.Int32
	requestCalls      atomic.Int32
}

// NewFakeVerifier returns a verifier that is available and verifies the user.
func NewFakeVerifier() *FakeVerifier {
	return &FakeVerifier{
		Availability: domain.AvailabilityAvailable,
		Result:       domain.ResultVerified,
		entered:      make(chan struct{}),
	}
}

// HoldRequest makes RequestVerification block until Release.
func (f *FakeVerifier) HoldRequest() {
	f.gate = make(chan struct{})
}

// Release unblocks a held RequestVerification.
func (f *FakeVerifier) Release() {
	close(f.gate)
}

// Entered is closed once RequestVerification has been called.
func (f *FakeVerifier) Entered() <-chan struct{} {
	return f.entered
}

// AvailabilityCalls returns how many times CheckAvailability ran.
func (f *FakeVerifier) AvailabilityCalls() int {
	return int(f.availabilityCalls.Load())
}

// RequestCalls returns how many times RequestVerification ran.
func (f *FakeVerifier) RequestCalls() int {
	return int(f.requestCalls.Load())
}

// CheckAvailability implements domain.Verifier.
func (f *FakeVerifier) CheckAvailability(ctx context.Context) (domain.Availability, error) {
	f.availabilityCalls.Add(1)
	return f.Availability, f.AvailabilityErr
}

// RequestVerification implements domain.Verifier.
func (f *FakeVerifier) RequestVerification(ctx context.Context, hwnd domain.WindowHandle, prompt string) (domain.VerificationResult, error) {
	f.requestCalls.Add(1)
	f.enteredOnce.Do(func() { close(f.entered) })
	if f.gate != nil {
		<-f.gate
	}
	return f.Result, f.ResultErr
}

// Ensure FakeVerifier implements domain.Verifier.
var _ domain.Verifier = (*FakeVerifier)(nil)
