package device

import (
	"fmt"

	"github.com/spaghettifunk/anima-gl/engine/core"
)

// ErrorCode is a device-reported error. Only the codes below are expected;
// anything else means the device and the core disagree about state.
type ErrorCode uint32

const (
	NoError                     ErrorCode = 0
	InvalidEnum                 ErrorCode = 0x0500
	InvalidValue                ErrorCode = 0x0501
	InvalidOperation            ErrorCode = 0x0502
	StackOverflow               ErrorCode = 0x0503
	StackUnderflow              ErrorCode = 0x0504
	OutOfMemory                 ErrorCode = 0x0505
	InvalidFramebufferOperation ErrorCode = 0x0506
)

func (e ErrorCode) Error() string {
	return "device error: " + e.String()
}

func (e ErrorCode) String() string {
	switch e {
	case NoError:
		return "GL_NO_ERROR"
	case InvalidEnum:
		return "GL_INVALID_ENUM"
	case InvalidValue:
		return "GL_INVALID_VALUE"
	case InvalidOperation:
		return "GL_INVALID_OPERATION"
	case StackOverflow:
		return "GL_STACK_OVERFLOW"
	case StackUnderflow:
		return "GL_STACK_UNDERFLOW"
	case OutOfMemory:
		return "GL_OUT_OF_MEMORY"
	case InvalidFramebufferOperation:
		return "GL_INVALID_FRAMEBUFFER_OPERATION"
	default:
		return fmt.Sprintf("0x%04X", uint32(e))
	}
}

func isKnown(e ErrorCode) bool {
	switch e {
	case InvalidEnum, InvalidValue, InvalidOperation, StackOverflow,
		StackUnderflow, OutOfMemory, InvalidFramebufferOperation:
		return true
	default:
		return false
	}
}

// CheckError queries the device error flag. It returns nil when no error is
// pending and an ErrorCode for known codes. An unknown code is a broken
// invariant and panics.
func CheckError(d Device) error {
	code := ErrorCode(d.GetError())
	if code == NoError {
		return nil
	}
	if !isKnown(code) {
		core.LogError("unexpected device error code %s", code)
		panic(fmt.Sprintf("device: unexpected error code %s", code))
	}
	return code
}
