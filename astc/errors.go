package astc

import "errors"

// ErrorCode classifies API failures.
//
// The low range holds the validation and framing failures detected by this
// layer before work is delegated; the remaining codes come from the codec
// itself and are propagated without reinterpretation.
type ErrorCode uint32

const (
	Success ErrorCode = 0

	// ErrInvalidArgument reports a nil, zero, or out-of-range input
	// detected before delegating to the codec.
	ErrInvalidArgument ErrorCode = 1

	// ErrOutOfSpace reports a caller-supplied output buffer that is too
	// small for the declared output dimensions and element kind.
	ErrOutOfSpace ErrorCode = 2

	// ErrBadMagic reports a container whose leading magic bytes do not
	// match the format constant.
	ErrBadMagic ErrorCode = 3

	// ErrTruncated reports a container shorter than its header or its
	// declared block payload.
	ErrTruncated ErrorCode = 4

	// Codec-native codes.

	// ErrBadBlockSize reports an unsupported block footprint.
	ErrBadBlockSize ErrorCode = 16

	// ErrBadProfile reports an unknown color profile.
	ErrBadProfile ErrorCode = 17

	// ErrBadQuality reports a quality preset outside [0, 100].
	ErrBadQuality ErrorCode = 18

	// ErrBadSwizzle reports a channel selector outside the permitted set
	// for the operation.
	ErrBadSwizzle ErrorCode = 19

	// ErrBadFlags reports an invalid or mutually exclusive flag set.
	ErrBadFlags ErrorCode = 20

	// ErrBadContext reports an operation against a context in the wrong
	// lifecycle state (released, mid-compression, wrong thread index).
	ErrBadContext ErrorCode = 21

	// ErrNotSupported reports a configuration the codec does not implement.
	ErrNotSupported ErrorCode = 22
)

// ErrorString returns a stable name for a code, or "" for unknown codes.
func ErrorString(code ErrorCode) string {
	switch code {
	case Success:
		return "SUCCESS"
	case ErrInvalidArgument:
		return "ERR_INVALID_ARGUMENT"
	case ErrOutOfSpace:
		return "ERR_OUT_OF_SPACE"
	case ErrBadMagic:
		return "ERR_BAD_MAGIC"
	case ErrTruncated:
		return "ERR_TRUNCATED"
	case ErrBadBlockSize:
		return "ERR_BAD_BLOCK_SIZE"
	case ErrBadProfile:
		return "ERR_BAD_PROFILE"
	case ErrBadQuality:
		return "ERR_BAD_QUALITY"
	case ErrBadSwizzle:
		return "ERR_BAD_SWIZZLE"
	case ErrBadFlags:
		return "ERR_BAD_FLAGS"
	case ErrBadContext:
		return "ERR_BAD_CONTEXT"
	case ErrNotSupported:
		return "ERR_NOT_SUPPORTED"
	default:
		return ""
	}
}

// Error is a typed error carrying an ErrorCode.
type Error struct {
	Code ErrorCode
	Msg  string
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Msg != "" {
		return e.Msg
	}
	if s := ErrorString(e.Code); s != "" {
		return "astc: " + s
	}
	return "astc: error"
}

// ErrorCodeOf returns the code carried by err, or Success for nil.
//
// Non-*Error errors map to ErrInvalidArgument as a conservative fallback.
func ErrorCodeOf(err error) ErrorCode {
	if err == nil {
		return Success
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ErrInvalidArgument
}

func newError(code ErrorCode, msg string) error {
	return &Error{Code: code, Msg: msg}
}
