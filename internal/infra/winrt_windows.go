//go:build windows

package infra

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"syscall"
	"time"
	"unsafe"

	ole "github.com/go-ole/go-ole"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/eliteGoblin/focusd/hello_gate/internal/domain"
)

var (
	iidUserConsentVerifierStatics = ole.NewGUID("{AF4F3F91-564C-4DDC-B8B5-973447627C65}")
	iidUserConsentVerifierInterop = ole.NewGUID("{39E050C3-4E74-441A-8DC0-B81104DF949C}")
	iidAsyncInfo                  = ole.NewGUID("{00000036-0000-0000-C000-000000000046}")
	// IAsyncOperation<UserConsentVerificationResult>
	iidAsyncOperationVerification = ole.NewGUID("{FD596FFD-2318-558F-9DBE-D21DF43764A5}")
)

// Vtable slots. IInspectable occupies 0-5.
const (
	slotQueryInterface = 0

	slotCheckAvailabilityAsync            = 6 // IUserConsentVerifierStatics
	slotRequestVerificationForWindowAsync = 6 // IUserConsentVerifierInterop
	slotGetResults                        = 8 // IAsyncOperation<T>

	slotAsyncInfoStatus    = 7 // IAsyncInfo
	slotAsyncInfoErrorCode = 8
	slotAsyncInfoClose     = 10
)

// AsyncStatus values reported by IAsyncInfo.
const (
	asyncStarted   = 0
	asyncCompleted = 1
	asyncCanceled  = 2
	asyncError     = 3
)

const (
	roInitMultithreaded = 1
	sFalse              = 1
)

var errAsyncCanceled = errors.New("async operation was canceled")

// WinRTVerifier implements domain.Verifier with the WinRT UserConsentVerifier.
type WinRTVerifier struct {
	config WinRTConfig
	logger *zap.Logger
}

// NewVerifier creates the platform verifier.
func NewVerifier(config WinRTConfig, logger *zap.Logger) domain.Verifier {
	return &WinRTVerifier{config: config, logger: logger}
}

// CheckAvailability calls UserConsentVerifier.CheckAvailabilityAsync and waits for it.
func (v *WinRTVerifier) CheckAvailability(ctx context.Context) (domain.Availability, error) {
	var availability domain.Availability

	err := withApartment(func() error {
		factory, err := ole.RoGetActivationFactory(UserConsentVerifierClass, iidUserConsentVerifierStatics)
		if err != nil {
			return fmt.Errorf("activate %s: %w", UserConsentVerifierClass, err)
		}
		defer factory.Release()

		self := unsafe.Pointer(factory)
		var op unsafe.Pointer
		hr, _, _ := syscall.SyscallN(vtableMethod(self, slotCheckAvailabilityAsync),
			uintptr(self),
			uintptr(unsafe.Pointer(&op)))
		if err := hresult(hr); err != nil {
			return fmt.Errorf("CheckAvailabilityAsync: %w", err)
		}

		value, err := v.await(ctx, op)
		if err != nil {
			return fmt.Errorf("CheckAvailabilityAsync: %w", err)
		}
		availability = domain.Availability(value)
		return nil
	})

	return availability, err
}

// RequestVerification calls IUserConsentVerifierInterop.RequestVerificationForWindowAsync
// so the prompt is owned by hwnd, then waits for the user's answer.
func (v *WinRTVerifier) RequestVerification(ctx context.Context, hwnd domain.WindowHandle, prompt string) (domain.VerificationResult, error) {
	var result domain.VerificationResult

	err := withApartment(func() (err error) {
		factory, err := ole.RoGetActivationFactory(UserConsentVerifierClass, iidUserConsentVerifierInterop)
		if err != nil {
			return fmt.Errorf("activate %s interop: %w", UserConsentVerifierClass, err)
		}
		defer factory.Release()

		message, err := ole.NewHString(prompt)
		if err != nil {
			return fmt.Errorf("create prompt string: %w", err)
		}
		defer func() {
			err = multierr.Append(err, ole.DeleteHString(message))
		}()

		self := unsafe.Pointer(factory)
		var op unsafe.Pointer
		hr, _, _ := syscall.SyscallN(vtableMethod(self, slotRequestVerificationForWindowAsync),
			uintptr(self),
			uintptr(hwnd),
			uintptr(message),
			uintptr(unsafe.Pointer(iidAsyncOperationVerification)),
			uintptr(unsafe.Pointer(&op)))
		if err := hresult(hr); err != nil {
			return fmt.Errorf("RequestVerificationForWindowAsync: %w", err)
		}

		value, err := v.await(ctx, op)
		if err != nil {
			return fmt.Errorf("RequestVerificationForWindowAsync: %w", err)
		}
		result = domain.VerificationResult(value)
		return nil
	})

	return result, err
}

// await polls an IAsyncOperation<enum> until it leaves the Started state and
// returns its int32 result. It takes ownership of op.
func (v *WinRTVerifier) await(ctx context.Context, op unsafe.Pointer) (value int32, err error) {
	defer release(op)

	var info unsafe.Pointer
	hr, _, _ := syscall.SyscallN(vtableMethod(op, slotQueryInterface),
		uintptr(op),
		uintptr(unsafe.Pointer(iidAsyncInfo)),
		uintptr(unsafe.Pointer(&info)))
	if err := hresult(hr); err != nil {
		return 0, fmt.Errorf("query IAsyncInfo: %w", err)
	}
	defer release(info)
	defer func() {
		hr, _, _ := syscall.SyscallN(vtableMethod(info, slotAsyncInfoClose), uintptr(info))
		err = multierr.Append(err, hresult(hr))
	}()

	ticker := time.NewTicker(v.config.pollInterval())
	defer ticker.Stop()

	start := time.Now()
	for {
		var status int32
		hr, _, _ := syscall.SyscallN(vtableMethod(info, slotAsyncInfoStatus),
			uintptr(info),
			uintptr(unsafe.Pointer(&status)))
		if err := hresult(hr); err != nil {
			return 0, fmt.Errorf("get async status: %w", err)
		}

		switch status {
		case asyncStarted:
		case asyncCompleted:
			hr, _, _ := syscall.SyscallN(vtableMethod(op, slotGetResults),
				uintptr(op),
				uintptr(unsafe.Pointer(&value)))
			if err := hresult(hr); err != nil {
				return 0, fmt.Errorf("get results: %w", err)
			}
			v.logger.Debug("async operation completed",
				zap.Int32("value", value),
				zap.Duration("elapsed", time.Since(start)))
			return value, nil
		case asyncCanceled:
			return 0, errAsyncCanceled
		case asyncError:
			var code int32
			hr, _, _ := syscall.SyscallN(vtableMethod(info, slotAsyncInfoErrorCode),
				uintptr(info),
				uintptr(unsafe.Pointer(&code)))
			if err := hresult(hr); err != nil {
				return 0, fmt.Errorf("get async error code: %w", err)
			}
			return 0, ole.NewError(uintptr(uint32(code)))
		default:
			return 0, fmt.Errorf("unexpected async status %d", status)
		}

		select {
		case <-ctx.Done():
			return 0, ctx.Err()
		case <-ticker.C:
		}
	}
}

// withApartment runs fn on a locked OS thread initialized for the WinRT MTA.
func withApartment(fn func() error) error {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	if err := ole.RoInitialize(roInitMultithreaded); err != nil {
		var oleErr *ole.OleError
		if !errors.As(err, &oleErr) || oleErr.Code() != sFalse {
			return fmt.Errorf("RoInitialize: %w", err)
		}
	}
	defer ole.CoUninitialize()

	return fn()
}

func vtableMethod(obj unsafe.Pointer, slot uintptr) uintptr {
	vtbl := *(*unsafe.Pointer)(obj)
	return *(*uintptr)(unsafe.Add(vtbl, slot*unsafe.Sizeof(uintptr(0))))
}

func hresult(hr uintptr) error {
	if int32(hr) < 0 {
		return ole.NewError(hr)
	}
	return nil
}

func release(obj unsafe.Pointer) {
	if obj != nil {
		(*ole.IUnknown)(obj).Release()
	}
}

// Ensure WinRTVerifier implements domain.Verifier.
var _ domain.Verifier = (*WinRTVerifier)(nil)
