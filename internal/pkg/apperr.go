package pkg

import "errors"

var (
	ErrNotFound         = errors.New("not found")
	ErrValidation       = errors.New("validation failed")
	ErrCapacity         = errors.New("capacity reached")
	ErrDuplicate        = errors.New("duplicate")
	ErrUnauthorized     = errors.New("unauthorized")
	ErrForbidden        = errors.New("forbidden")
	ErrStoreUnavailable = errors.New("store unavailable")
	ErrUpload           = errors.New("upload failed")
)

// Error carries a human-readable message on top of one of the sentinel
// kinds above, so handlers can map it with errors.Is.
type Error struct {
	kind error
	msg  string
}

func (e *Error) Error() string { return e.msg }

func (e *Error) Unwrap() error { return e.kind }

func Wrap(kind error, msg string) error {
	return &Error{kind: kind, msg: msg}
}
