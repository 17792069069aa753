package rental

import "errors"

// Kind buckets an engine error into the HTTP-equivalent statuses the
// controllers translate to.
type Kind int

const (
	KindInternal Kind = iota
	KindNotFound
	KindBadRequest
	KindConflict
	KindForbidden
)

// Error is a classified engine error with a human-readable message.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func notFound(msg string) error {
	return &Error{Kind: KindNotFound, Message: msg}
}

func badRequest(msg string) error {
	return &Error{Kind: KindBadRequest, Message: msg}
}

func conflict(msg string) error {
	return &Error{Kind: KindConflict, Message: msg}
}

func forbidden(msg string) error {
	return &Error{Kind: KindForbidden, Message: msg}
}

func internal(msg string, err error) error {
	return &Error{Kind: KindInternal, Message: msg, Err: err}
}

// KindOf extracts the error kind; unclassified errors count as internal.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

func IsNotFound(err error) bool   { return KindOf(err) == KindNotFound }
func IsBadRequest(err error) bool { return KindOf(err) == KindBadRequest }
func IsConflict(err error) bool   { return KindOf(err) == KindConflict }
func IsForbidden(err error) bool  { return KindOf(err) == KindForbidden }
