// Package fixtures provides in-memory platform doubles for tests.
package fixtures

import (
	"fmt"
	"sync"

	"github.com/eliteGoblin/focusd/hello_gate/internal/domain"
)

// FakeHWND is the handle FakeHost hands out.
const FakeHWND domain.WindowHandle = 0xC0FFEE

type queued struct {
	msg  domain.MessageID
	quit bool
	code int
}

// FakeHost is an in-memory domain.WindowHost with an ordered message queue.
// Every observable step is appended to an event log:
//
//	create, show, post:<msg>, dispatch:<msg>, default:<msg>, quit:<code>,
//	dialog:shown:<text>, dialog:dismissed, close
type FakeHost struct {
	// FailCreate makes CreateWindow fail with this error.
	FailCreate error
	// HoldDialogs keeps ShowError blocked until DismissDialog is called.
	HoldDialogs bool

	queue       chan queued
	dismiss     chan struct{}
	dialogShown chan struct{}
	loopStarted chan struct{}
	startOnce   sync.Once

	mu     sync.Mutex
	proc   domain.WindowProc
	closed bool
	events []string
}

// NewFakeHost creates an empty host.
func NewFakeHost() *FakeHost {
	return &FakeHost{
		queue:       make(chan queued, 256),
		dismiss:     make(chan struct{}, 1),
		dialogShown: make(chan struct{}, 1),
		loopStarted: make(chan struct{}),
	}
}

func (h *FakeHost) record(format string, args ...interface{}) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.events = append(h.events, fmt.Sprintf(format, args...))
}

// Events returns a copy of the event log.
func (h *FakeHost) Events() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]string, len(h.events))
	copy(out, h.events)
	return out
}

// LoopStarted is closed when RunMessageLoop begins.
func (h *FakeHost) LoopStarted() <-chan struct{} {
	return h.loopStarted
}

// DialogShown receives once per dialog that is opened.
func (h *FakeHost) DialogShown() <-chan struct{} {
	return h.dialogShown
}

// DismissDialog releases a dialog held by HoldDialogs.
func (h *FakeHost) DismissDialog() {
	h.dismiss <- struct{}{}
}

// UserClose simulates the user destroying the window.
func (h *FakeHost) UserClose() error {
	return h.PostMessage(FakeHWND, domain.MsgDestroy)
}

// CreateWindow implements domain.WindowHost.
func (h *FakeHost) CreateWindow(opts domain.WindowOptions, proc domain.WindowProc) (domain.WindowHandle, error) {
	if h.FailCreate != nil {
		return 0, h.FailCreate
	}
	h.mu.Lock()
	h.proc = proc
	h.mu.Unlock()
	h.record("create:%s:%dx%d", opts.Title, opts.Width, opts.Height)
	return FakeHWND, nil
}

// ShowWindow implements domain.WindowHost.
func (h *FakeHost) ShowWindow(hwnd domain.WindowHandle) {
	h.record("show")
}

// RunMessageLoop implements domain.WindowHost.
func (h *FakeHost) RunMessageLoop() (int, error) {
	h.startOnce.Do(func() { close(h.loopStarted) })

	h.mu.Lock()
	proc := h.proc
	h.mu.Unlock()
	if proc == nil {
		return 0, fmt.Errorf("no window created")
	}

	for q := range h.queue {
		if q.quit {
			return q.code, nil
		}
		h.record("dispatch:%s", q.msg)
		proc(FakeHWND, q.msg, 0, 0)
	}
	return 0, nil
}

// PostQuit implements domain.WindowHost.
func (h *FakeHost) PostQuit(code int) {
	h.record("quit:%d", code)
	h.queue <- queued{quit: true, code: code}
}

// PostMessage implements domain.MessagePoster.
func (h *FakeHost) PostMessage(hwnd domain.WindowHandle, msg domain.MessageID) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed || hwnd != FakeHWND {
		return domain.ErrLoopClosed
	}
	h.events = append(h.events, fmt.Sprintf("post:%s", msg))
	h.queue <- queued{msg: msg}
	return nil
}

// DefaultProc implements domain.WindowHost.
func (h *FakeHost) DefaultProc(hwnd domain.WindowHandle, msg domain.MessageID, wparam, lparam uintptr) uintptr {
	h.record("default:%s", msg)
	return 0
}

// ShowError implements domain.DialogPresenter.
func (h *FakeHost) ShowError(hwnd domain.WindowHandle, title, text string) {
	h.record("dialog:shown:%s:%s", title, text)
	select {
	case h.dialogShown <- struct{}{}:
	default:
	}
	if h.HoldDialogs {
		<-h.dismiss
	}
	h.record("dialog:dismissed")
}

// Close implements domain.WindowHost.
func (h *FakeHost) Close(hwnd domain.WindowHandle) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closed = true
	h.events = append(h.events, "close")
	return nil
}

// Ensure FakeHost implements domain.WindowHost.
var _ domain.WindowHost = (*FakeHost)(nil)
