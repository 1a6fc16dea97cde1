package errors

import "errors"

// ErrDuplicateEmail is returned by storage when an insert hits the unique email
// constraint. Lets callers tell a lost registration race from a broken database.
var ErrDuplicateEmail = errors.New("email already registered")

// default error is internal service error at handler level
// if error has different status code use ErrorWithStatusCode
type ErrorWithStatusCode struct {
	Message    string
	StatusCode int
}

func (e *ErrorWithStatusCode) Error() string {
	return e.Message
}

func IsDuplicateEmail(err error) bool {
	return errors.Is(err, ErrDuplicateEmail)
}
