package library

import "fmt"

// Kind classifies a library error.
type Kind string

const (
	KindValidation  Kind = "VALIDATION"
	KindNotFound    Kind = "NOT_FOUND"
	KindConstraint  Kind = "CONSTRAINT_VIOLATION"
	KindPersistence Kind = "PERSISTENCE"
	KindDataFormat  Kind = "DATA_FORMAT"
)

// Error is returned by every failing library operation. All kinds are
// recoverable: the operation was aborted before anything was committed.
type Error struct {
	Kind    Kind
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Cause }

// Is matches any *Error of the same kind, so the sentinels below work with errors.Is.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

var (
	ErrValidation  = &Error{Kind: KindValidation, Message: "validation failed"}
	ErrNotFound    = &Error{Kind: KindNotFound, Message: "record not found"}
	ErrConstraint  = &Error{Kind: KindConstraint, Message: "constraint violation"}
	ErrPersistence = &Error{Kind: KindPersistence, Message: "persistence failure"}
	ErrDataFormat  = &Error{Kind: KindDataFormat, Message: "malformed data"}
)

func validationf(format string, args ...any) error {
	return &Error{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

func notFoundf(format string, args ...any) error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

func constraintf(format string, args ...any) error {
	return &Error{Kind: KindConstraint, Message: fmt.Sprintf(format, args...)}
}

func persistenceErr(msg string, cause error) error {
	return &Error{Kind: KindPersistence, Message: msg, Cause: cause}
}

func dataFormatErr(msg string, cause error) error {
	return &Error{Kind: KindDataFormat, Message: msg, Cause: cause}
}
