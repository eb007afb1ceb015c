// Package apperr defines the error kinds raised by the service layer.
// Handlers map Kind to an HTTP status; messages are surfaced verbatim.
package apperr

import "strings"

// Kind classifies a service-layer failure.
type Kind int

const (
	// KindValidation is malformed or missing input. Field-level messages may be aggregated.
	KindValidation Kind = iota + 1
	// KindAuthorization is an actor lacking the required role or ownership.
	KindAuthorization
	// KindNotFound is an absent entity, or one masked from a non-owner.
	KindNotFound
	// KindStateTransition is a claim lifecycle rejection.
	KindStateTransition
	// KindInvariant is a business invariant violation (e.g. deactivating the last admin).
	KindInvariant
)

// Error carries a kind and one or more messages.
type Error struct {
	Kind     Kind
	Messages []string
}

func (e *Error) Error() string {
	return strings.Join(e.Messages, "; ")
}

// Validation returns a validation error aggregating the given messages.
func Validation(messages ...string) *Error {
	return &Error{Kind: KindValidation, Messages: messages}
}

// Authorization returns an authorization error with the given message.
func Authorization(message string) *Error {
	return &Error{Kind: KindAuthorization, Messages: []string{message}}
}

// NotFound returns a not-found error with the given message.
func NotFound(message string) *Error {
	return &Error{Kind: KindNotFound, Messages: []string{message}}
}

// StateTransition returns a state transition error with the given message.
func StateTransition(message string) *Error {
	return &Error{Kind: KindStateTransition, Messages: []string{message}}
}

// Invariant returns an invariant violation error with the given message.
func Invariant(message string) *Error {
	return &Error{Kind: KindInvariant, Messages: []string{message}}
}

// KindOf returns the kind of err, or 0 if err is not an *Error.
func KindOf(err error) Kind {
	if e, ok := err.(*Error); ok {
		return e.Kind
	}
	return 0
}
