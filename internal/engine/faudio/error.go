package faudio

import "fmt"

// ErrorCode is an FAudio HRESULT.
type ErrorCode uint32

const (
	EOutOfMemory        ErrorCode = 0x8007000e
	EInvalidArg         ErrorCode = 0x80070057
	EUnsupportedFormat  ErrorCode = 0x88890008
	EInvalidCall        ErrorCode = 0x88960001
	EDeviceInvalidated  ErrorCode = 0x88960004
	FAPOFormatUnsupport ErrorCode = 0x88970001
)

func (c ErrorCode) String() string {
	switch c {
	case EOutOfMemory:
		return "out of memory"
	case EInvalidArg:
		return "invalid argument"
	case EUnsupportedFormat:
		return "unsupported format"
	case EInvalidCall:
		return "invalid call"
	case EDeviceInvalidated:
		return "device invalidated"
	case FAPOFormatUnsupport:
		return "effect format unsupported"
	}
	return fmt.Sprintf("0x%08x", uint32(c))
}

// Error is a failed engine call.
type Error struct {
	Op     string
	Code   ErrorCode
	Detail string
}

func (e *Error) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("faudio: %s: %s (0x%08x): %s", e.Op, e.Code, uint32(e.Code), e.Detail)
	}
	return fmt.Sprintf("faudio: %s: %s (0x%08x)", e.Op, e.Code, uint32(e.Code))
}

// Is matches any *Error with the same code, so the sentinels below work
// with errors.Is.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Code == e.Code
}

// Sentinels for errors.Is.
var (
	ErrOutOfMemory       = &Error{Op: "any", Code: EOutOfMemory}
	ErrInvalidArg        = &Error{Op: "any", Code: EInvalidArg}
	ErrUnsupportedFormat = &Error{Op: "any", Code: EUnsupportedFormat}
	ErrInvalidCall       = &Error{Op: "any", Code: EInvalidCall}
	ErrDeviceInvalidated = &Error{Op: "any", Code: EDeviceInvalidated}
)

func newError(op string, code ErrorCode, format string, args ...any) *Error {
	return &Error{Op: op, Code: code, Detail: fmt.Sprintf(format, args...)}
}
