//go:build windows

package infra

import (
	"fmt"
	"sync"
	"sync/atomic"
	"unsafe"

	"go.uber.org/zap"
	"golang.org/x/sys/windows"

	"github.com/eliteGoblin/focusd/hello_gate/internal/domain"
)

var (
	user32               = windows.NewLazySystemDLL("user32.dll")
	procRegisterClassExW = user32.NewProc("RegisterClassExW")
	procCreateWindowExW  = user32.NewProc("CreateWindowExW")
	procShowWindow       = user32.NewProc("ShowWindow")
	procGetMessageW      = user32.NewProc("GetMessageW")
	procTranslateMessage = user32.NewProc("TranslateMessage")
	procDispatchMessageW = user32.NewProc("DispatchMessageW")
	procDefWindowProcW   = user32.NewProc("DefWindowProcW")
	procPostQuitMessage  = user32.NewProc("PostQuitMessage")
	procPostMessageW     = user32.NewProc("PostMessageW")
	procMessageBoxW      = user32.NewProc("MessageBoxW")
	procLoadCursorW      = user32.NewProc("LoadCursorW")
	procIsWindow         = user32.NewProc("IsWindow")
	procDestroyWindow    = user32.NewProc("DestroyWindow")
)

const (
	wsOverlapped = 0x00000000
	wsCaption    = 0x00C00000
	wsSysMenu    = 0x00080000
	wsVisible    = 0x10000000

	cwUseDefault = 0x80000000
	swShow       = 5
	idcArrow     = 32512
	mbIconError  = 0x00000010
)

type wndClassEx struct {
	Size       uint32
	Style      uint32
	WndProc    uintptr
	ClsExtra   int32
	WndExtra   int32
	Instance   windows.Handle
	Icon       windows.Handle
	Cursor     windows.Handle
	Background windows.Handle
	MenuName   *uint16
	ClassName  *uint16
	IconSm     windows.Handle
}

type point struct {
	X, Y int32
}

type msg struct {
	Hwnd    windows.HWND
	Message uint32
	WParam  uintptr
	LParam  uintptr
	Time    uint32
	Pt      point
}

// The OS calls the window procedure without a context argument, so a single
// trampoline forwards to whichever WindowProc the host registered.
var (
	procMu       sync.RWMutex
	activeProc   domain.WindowProc
	wndProcThunk = windows.NewCallback(dispatchWindowMessage)
)

func dispatchWindowMessage(hwnd windows.HWND, message uint32, wparam, lparam uintptr) uintptr {
	procMu.RLock()
	proc := activeProc
	procMu.RUnlock()

	if proc == nil {
		r, _, _ := procDefWindowProcW.Call(uintptr(hwnd), uintptr(message), wparam, lparam)
		return r
	}
	return proc(domain.WindowHandle(hwnd), domain.MessageID(message), wparam, lparam)
}

// Win32Host implements domain.WindowHost on user32.dll.
type Win32Host struct {
	logger *zap.Logger
	closed atomic.Bool
}

// NewWindowHost creates the platform window host.
func NewWindowHost(logger *zap.Logger) domain.WindowHost {
	return &Win32Host{logger: logger}
}

// CreateWindow registers the window class and creates the top-level window.
func (h *Win32Host) CreateWindow(opts domain.WindowOptions, proc domain.WindowProc) (domain.WindowHandle, error) {
	className, err := windows.UTF16PtrFromString(opts.ClassName)
	if err != nil {
		return 0, fmt.Errorf("invalid class name: %w", err)
	}
	title, err := windows.UTF16PtrFromString(opts.Title)
	if err != nil {
		return 0, fmt.Errorf("invalid window title: %w", err)
	}

	cursor, _, _ := procLoadCursorW.Call(0, idcArrow)

	wc := wndClassEx{
		WndProc:   wndProcThunk,
		Cursor:    windows.Handle(cursor),
		ClassName: className,
	}
	wc.Size = uint32(unsafe.Sizeof(wc))

	// Install before CreateWindowExW: creation already sends messages.
	procMu.Lock()
	activeProc = proc
	procMu.Unlock()

	atom, _, e1 := procRegisterClassExW.Call(uintptr(unsafe.Pointer(&wc)))
	if atom == 0 {
		h.uninstall()
		return 0, fmt.Errorf("RegisterClassExW: %w", e1)
	}

	hwnd, _, e1 := procCreateWindowExW.Call(
		0,
		uintptr(unsafe.Pointer(className)),
		uintptr(unsafe.Pointer(title)),
		wsOverlapped|wsCaption|wsSysMenu|wsVisible,
		cwUseDefault,
		cwUseDefault,
		uintptr(opts.Width),
		uintptr(opts.Height),
		0, 0, 0, 0,
	)
	if hwnd == 0 {
		h.uninstall()
		return 0, fmt.Errorf("CreateWindowExW: %w", e1)
	}

	return domain.WindowHandle(hwnd), nil
}

// ShowWindow makes the window visible.
func (h *Win32Host) ShowWindow(hwnd domain.WindowHandle) {
	// Return value is the previous visibility, not an error.
	_, _, _ = procShowWindow.Call(uintptr(hwnd), swShow)
}

// RunMessageLoop pumps GetMessageW/DispatchMessageW until WM_QUIT.
func (h *Win32Host) RunMessageLoop() (int, error) {
	var m msg
	for {
		r, _, e1 := procGetMessageW.Call(uintptr(unsafe.Pointer(&m)), 0, 0, 0)
		switch int32(r) {
		case -1:
			return 0, fmt.Errorf("GetMessageW: %w", e1)
		case 0:
			// WM_QUIT carries the PostQuitMessage exit code in wParam.
			return int(int32(m.WParam)), nil
		}
		_, _, _ = procTranslateMessage.Call(uintptr(unsafe.Pointer(&m)))
		_, _, _ = procDispatchMessageW.Call(uintptr(unsafe.Pointer(&m)))
	}
}

// PostQuit posts WM_QUIT to the calling thread's queue.
func (h *Win32Host) PostQuit(code int) {
	_, _, _ = procPostQuitMessage.Call(uintptr(code))
}

// PostMessage enqueues msg for hwnd and returns immediately.
// Safe to call from any goroutine.
func (h *Win32Host) PostMessage(hwnd domain.WindowHandle, m domain.MessageID) error {
	if h.closed.Load() {
		return domain.ErrLoopClosed
	}
	r, _, e1 := procPostMessageW.Call(uintptr(hwnd), uintptr(m), 0, 0)
	if r == 0 {
		if e1 == windows.ERROR_INVALID_WINDOW_HANDLE {
			return domain.ErrLoopClosed
		}
		return fmt.Errorf("PostMessageW: %w", e1)
	}
	return nil
}

// DefaultProc forwards to DefWindowProcW.
func (h *Win32Host) DefaultProc(hwnd domain.WindowHandle, m domain.MessageID, wparam, lparam uintptr) uintptr {
	r, _, _ := procDefWindowProcW.Call(uintptr(hwnd), uintptr(m), wparam, lparam)
	return r
}

// ShowError displays a modal MessageBoxW with an error icon, owned by hwnd.
// Blocks the calling goroutine until the user dismisses it.
func (h *Win32Host) ShowError(hwnd domain.WindowHandle, title, text string) {
	titlePtr, err := windows.UTF16PtrFromString(title)
	if err != nil {
		h.logger.Warn("invalid dialog title", zap.Error(err))
		return
	}
	textPtr, err := windows.UTF16PtrFromString(text)
	if err != nil {
		h.logger.Warn("invalid dialog text", zap.Error(err))
		return
	}

	r, _, e1 := procMessageBoxW.Call(
		uintptr(hwnd),
		uintptr(unsafe.Pointer(textPtr)),
		uintptr(unsafe.Pointer(titlePtr)),
		mbIconError,
	)
	if r == 0 {
		h.logger.Warn("MessageBoxW failed", zap.Error(e1))
	}
}

// Close marks the loop closed and destroys the window if it still exists.
// Must run on the thread that created the window.
func (h *Win32Host) Close(hwnd domain.WindowHandle) error {
	h.closed.Store(true)
	defer h.uninstall()

	alive, _, _ := procIsWindow.Call(uintptr(hwnd))
	if alive == 0 {
		return nil
	}
	if r, _, e1 := procDestroyWindow.Call(uintptr(hwnd)); r == 0 {
		return fmt.Errorf("DestroyWindow: %w", e1)
	}
	return nil
}

func (h *Win32Host) uninstall() {
	procMu.Lock()
	activeProc = nil
	procMu.Unlock()
}

// Ensure Win32Host implements domain.WindowHost.
var _ domain.WindowHost = (*Win32Host)(nil)
