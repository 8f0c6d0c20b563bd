package app

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"

	"github.com/eliteGoblin/focusd/hello_gate/internal/domain"
	"github.com/eliteGoblin/focusd/hello_gate/internal/lifecycle"
	"github.com/eliteGoblin/focusd/hello_gate/internal/usecase"
	"github.com/eliteGoblin/focusd/hello_gate/test/fixtures"
)

type runResult struct {
	code int
	err  error
}

func newTestController(host *fixtures.FakeHost, verifier *fixtures.FakeVerifier) *Controller {
	logger := zap.NewNop()
	pipeline := usecase.NewPipeline(
		usecase.NewRequester(verifier, logger),
		usecase.NewNotifier(host, host, logger),
		logger,
	)
	return NewController(DefaultConfig(), host, pipeline, logger)
}

func startRun(c *Controller) <-chan runResult {
	done := make(chan runResult, 1)
	go func() {
		code, err := c.Run(context.Background())
		done <- runResult{code: code, err: err}
	}()
	return done
}

func waitRun(t *testing.T, done <-chan runResult) runResult {
	t.Helper()
	select {
	case r := <-done:
		return r
	case <-time.After(5 * time.Second):
		t.Fatal("message loop did not exit")
		return runResult{}
	}
}

func waitOutcome(t *testing.T, c *Controller) domain.Outcome {
	t.Helper()
	select {
	case outcome := <-c.Result():
		return outcome
	case <-time.After(5 * time.Second):
		t.Fatal("pipeline did not finish")
		return domain.Outcome{}
	}
}

// TestDefaultConfig verifies the fixed window description
func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	assert.Equal(t, "verify_window_class", config.ClassName)
	assert.Equal(t, "verify", config.Title)
	assert.Equal(t, domain.WindowOptions{
		ClassName: "verify_window_class",
		Title:     "verify",
		Width:     300,
		Height:    200,
	}, config.WindowOptions())
}

// TestRun_VerifiedThenUserClose verifies success keeps the window open until closed
func TestRun_VerifiedThenUserClose(t *testing.T) {
	defer goleak.VerifyNone(t)

	host := fixtures.NewFakeHost()
	verifier := fixtures.NewFakeVerifier()
	c := newTestController(host, verifier)

	done := startRun(c)
	<-host.LoopStarted()

	assert.Equal(t, domain.Verified(), waitOutcome(t, c))
	assert.Eventually(t, func() bool {
		return contains(host.Events(), "dispatch:VERIFIED")
	}, 5*time.Second, 10*time.Millisecond)

	select {
	case <-done:
		t.Fatal("loop must keep running after VERIFIED")
	default:
	}

	require.NoError(t, host.UserClose())
	r := waitRun(t, done)

	require.NoError(t, r.err)
	assert.Equal(t, 0, r.code)
	assert.Equal(t, []string{
		"create:verify:300x200",
		"show",
		"post:VERIFIED",
		"dispatch:VERIFIED",
		"post:WM_DESTROY",
		"dispatch:WM_DESTROY",
		"quit:0",
		"close",
	}, host.Events())
}

// TestRun_NotAvailable verifies the dialog precedes the forced exit with code 1
func TestRun_NotAvailable(t *testing.T) {
	defer goleak.VerifyNone(t)

	host := fixtures.NewFakeHost()
	verifier := fixtures.NewFakeVerifier()
	verifier.Availability = domain.AvailabilityNotConfiguredForUser
	c := newTestController(host, verifier)

	r := waitRun(t, startRun(c))

	require.NoError(t, r.err)
	assert.Equal(t, 1, r.code)
	assert.Equal(t, domain.Rejected(domain.ReasonNotAvailable), waitOutcome(t, c))
	assert.Zero(t, verifier.RequestCalls())
	assert.Equal(t, []string{
		"create:verify:300x200",
		"show",
		"dialog:shown:Error:verifier is not available",
		"dialog:dismissed",
		"post:REJECTED",
		"dispatch:REJECTED",
		"quit:1",
		"close",
	}, host.Events())
}

// TestRun_RejectedWaitsForDialog verifies the loop keeps running while the dialog is open
func TestRun_RejectedWaitsForDialog(t *testing.T) {
	defer goleak.VerifyNone(t)

	host := fixtures.NewFakeHost()
	host.HoldDialogs = true
	verifier := fixtures.NewFakeVerifier()
	verifier.Result = domain.ResultCanceled
	c := newTestController(host, verifier)

	done := startRun(c)
	<-host.DialogShown()

	time.Sleep(20 * time.Millisecond)
	select {
	case <-done:
		t.Fatal("process quit before the dialog was dismissed")
	default:
	}
	assert.NotContains(t, host.Events(), "post:REJECTED")

	host.DismissDialog()
	r := waitRun(t, done)

	require.NoError(t, r.err)
	assert.Equal(t, 1, r.code)
	assert.Equal(t, domain.Rejected(domain.ReasonFailedToVerify), waitOutcome(t, c))
}

// TestRun_UserClosesBeforeResult verifies a late result is dropped after exit 0
func TestRun_UserClosesBeforeResult(t *testing.T) {
	defer goleak.VerifyNone(t)

	host := fixtures.NewFakeHost()
	verifier := fixtures.NewFakeVerifier()
	verifier.HoldRequest()
	c := newTestController(host, verifier)

	done := startRun(c)
	<-verifier.Entered()

	require.NoError(t, host.UserClose())
	r := waitRun(t, done)
	require.NoError(t, r.err)
	assert.Equal(t, 0, r.code)

	verifier.Release()
	assert.Equal(t, domain.Verified(), waitOutcome(t, c))

	events := host.Events()
	assert.NotContains(t, events, "post:VERIFIED")
	assert.NotContains(t, events, "dispatch:VERIFIED")
	assert.Equal(t, "close", events[len(events)-1])
	assert.ErrorIs(t, host.PostMessage(fixtures.FakeHWND, domain.MsgVerified), domain.ErrLoopClosed)
}

// TestRun_CreateWindowFails verifies startup failure never reaches the loop
func TestRun_CreateWindowFails(t *testing.T) {
	defer goleak.VerifyNone(t)

	host := fixtures.NewFakeHost()
	host.FailCreate = errors.New("RegisterClassExW: class already exists")
	verifier := fixtures.NewFakeVerifier()
	c := newTestController(host, verifier)

	code, err := c.Run(context.Background())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "class already exists")
	assert.NotZero(t, code)
	assert.Nil(t, c.Result(), "pipeline must not start")
	assert.Zero(t, verifier.AvailabilityCalls())
	assert.Empty(t, host.Events())

	select {
	case <-host.LoopStarted():
		t.Fatal("message loop must not start")
	default:
	}
}

// TestWindowProc_DefaultPassThrough verifies unknown messages reach the default procedure
func TestWindowProc_DefaultPassThrough(t *testing.T) {
	host := fixtures.NewFakeHost()
	c := newTestController(host, fixtures.NewFakeVerifier())
	c.machine = lifecycle.NewMachine()

	ret := c.windowProc(fixtures.FakeHWND, domain.MessageID(0x000F), 0, 0)

	assert.Zero(t, ret)
	assert.Equal(t, []string{"default:0x000f"}, host.Events())
}

func contains(events []string, want string) bool {
	for _, e := range events {
		if e == want {
			return true
		}
	}
	return false
}
