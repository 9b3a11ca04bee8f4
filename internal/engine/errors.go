package engine

import (
	"errors"
	"fmt"

	"github.com/roach88/warren/internal/op"
)

// RuntimeError represents an error detected while executing a program.
//
// Runtime errors include:
//   - Unification failure: the program term does not match
//   - Step limit: the run exceeded the instruction quota
//   - Bad instruction: the program does not decode at PC
//   - Bad register: an instruction read a register that was never written
type RuntimeError struct {
	// Code identifies the error category.
	Code RuntimeErrorCode

	// Message is a human-readable description.
	Message string

	// PC is the word offset of the failing instruction.
	PC int

	// Details contains additional context.
	Details map[string]string
}

// RuntimeErrorCode categorizes runtime errors.
type RuntimeErrorCode string

const (
	// ErrCodeUnifyFailed indicates the terms do not unify.
	ErrCodeUnifyFailed RuntimeErrorCode = "UNIFY_FAILED"

	// ErrCodeStepLimit indicates the run exceeded max steps.
	ErrCodeStepLimit RuntimeErrorCode = "STEP_LIMIT"

	// ErrCodeBadInstruction indicates undecodable or unexecutable code.
	ErrCodeBadInstruction RuntimeErrorCode = "BAD_INSTRUCTION"

	// ErrCodeBadRegister indicates a read of an unwritten register.
	ErrCodeBadRegister RuntimeErrorCode = "BAD_REGISTER"
)

// Error implements the error interface.
func (e *RuntimeError) Error() string {
	return fmt.Sprintf("%s: %s (pc=%d)", e.Code, e.Message, e.PC)
}

// IsUnifyFailure returns true if the error is a unification failure.
// Uses errors.As to handle wrapped errors.
func IsUnifyFailure(err error) bool {
	var re *RuntimeError
	if errors.As(err, &re) {
		return re.Code == ErrCodeUnifyFailed
	}
	return false
}

// IsStepLimit returns true if the error is a step quota error.
// Matches both RuntimeError with ErrCodeStepLimit and StepsExceededError.
func IsStepLimit(err error) bool {
	var re *RuntimeError
	if errors.As(err, &re) {
		return re.Code == ErrCodeStepLimit
	}
	return IsStepsExceededError(err)
}

// NewUnifyError creates a RuntimeError for a failed match at o.
func NewUnifyError(pc int, o op.Operation) *RuntimeError {
	return &RuntimeError{
		Code:    ErrCodeUnifyFailed,
		Message: fmt.Sprintf("%s does not unify", o),
		PC:      pc,
	}
}

// NewStepLimitError creates a RuntimeError for quota exhaustion.
func NewStepLimitError(pc, steps, maxSteps int) *RuntimeError {
	return &RuntimeError{
		Code:    ErrCodeStepLimit,
		Message: fmt.Sprintf("run exceeded max steps (%d > %d)", steps, maxSteps),
		PC:      pc,
		Details: map[string]string{
			"steps":     fmt.Sprintf("%d", steps),
			"max_steps": fmt.Sprintf("%d", maxSteps),
		},
	}
}

// NewBadInstructionError creates a RuntimeError for code that cannot execute.
func NewBadInstructionError(pc int, cause error) *RuntimeError {
	return &RuntimeError{
		Code:    ErrCodeBadInstruction,
		Message: cause.Error(),
		PC:      pc,
	}
}

// NewBadRegisterError creates a RuntimeError for a read of an empty register.
func NewBadRegisterError(pc, register int) *RuntimeError {
	return &RuntimeError{
		Code:    ErrCodeBadRegister,
		Message: fmt.Sprintf("register X%d read before it was written", register),
		PC:      pc,
		Details: map[string]string{"register": fmt.Sprintf("%d", register)},
	}
}
