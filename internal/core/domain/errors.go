package domain

import "errors"

var (
	ErrUnknownSection      = errors.New("unknown section")
	ErrUnknownSubsection   = errors.New("unknown subsection")
	ErrUnknownItem         = errors.New("unknown item")
	ErrInsufficientStock   = errors.New("insufficient stock")
	ErrUnknownOrder        = errors.New("unknown order")
	ErrAlreadySeeded       = errors.New("item already seeded")
	ErrUnknownUser         = errors.New("unknown user")
	ErrUsernameTaken       = errors.New("username already exists")
	ErrInvalidCredentials  = errors.New("invalid username or password")
	ErrAdminProtectedField = errors.New("admin profile field is protected")
	ErrDuplicateRequest    = errors.New("duplicate request")
)

// StorageError marks a transient storage failure. The coordinator retries
// the whole placement unit once when it sees one; everything else is
// surfaced to the caller as-is.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return "storage: " + e.Op + ": " + e.Err.Error()
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// Storagef wraps a driver-level error for the operation op.
func Storagef(op string, err error) error {
	return &StorageError{Op: op, Err: err}
}

// IsStorageFailure reports whether err is (or wraps) a transient storage
// failure rather than a domain error.
func IsStorageFailure(err error) bool {
	var se *StorageError
	return errors.As(err, &se)
}
