package api

import (
	stderrors "errors"

	"github.com/opsdesk/deskctl/internal/errors"
)

// Result is the discriminated outcome every service call returns.
//
// Expected failures (network, validation, auth, server faults) come back as
// a failed Result with a user-facing message and a taxonomy Kind, so screens
// render inline errors without structured exception handling at every call
// site. Go errors are reserved for genuinely unexpected failures.
type Result[T any] struct {
	OK      bool
	Data    T
	Message string
	Kind    errors.Kind
}

// Ok builds a successful Result
func Ok[T any](data T) Result[T] {
	return Result[T]{OK: true, Data: data}
}

// Err builds a failed Result from a classified client error, mapping the
// taxonomy Kind to its fixed user-facing message. Validation failures keep
// the per-field detail the server sent instead of the generic message.
func Err[T any](err error) Result[T] {
	kind := errors.KindOf(err)
	message := kind.UserMessage()
	if kind == errors.KindValidation {
		var deskErr *errors.DeskError
		if stderrors.As(err, &deskErr) && deskErr.Message != "" {
			message = deskErr.Message
		}
	}
	return Result[T]{
		OK:      false,
		Message: message,
		Kind:    kind,
	}
}

// ErrMessage builds a failed Result with an explicit message, used where a
// call site has better wording than the fixed table (e.g. invalid login
// credentials)
func ErrMessage[T any](kind errors.Kind, message string) Result[T] {
	return Result[T]{
		OK:      false,
		Message: message,
		Kind:    kind,
	}
}
