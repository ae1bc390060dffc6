package relay

import (
	"errors"
	"fmt"
)

// NoURLFoundMessage is reported when paste finds nothing to open.
const NoURLFoundMessage = "No URL found in the clipboard"

// ErrNoURLFound is the error behind NoURLFoundMessage.
var ErrNoURLFound = errors.New("no URL found in the clipboard")

// ErrorKind classifies relay failures.
type ErrorKind string

const (
	KindResolution        ErrorKind = "resolution"         // KindResolution means the target window or tabs could not be determined.
	KindHelperUnavailable ErrorKind = "helper_unavailable" // KindHelperUnavailable means the helper could not be created or reached.
	KindExtractionEmpty   ErrorKind = "extraction_empty"   // KindExtractionEmpty means the clipboard held no URL.
	KindTabCreation       ErrorKind = "tab_creation"       // KindTabCreation means one tab could not be opened.
	KindInternal          ErrorKind = "internal"           // KindInternal means a handler panicked.
)

// Error is a classified relay failure.
type Error struct {
	Kind ErrorKind
	Err  error
}

func (e *Error) Error() string {
	return e.Err.Error()
}

func (e *Error) Unwrap() error {
	return e.Err
}

func newError(kind ErrorKind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Err: fmt.Errorf(format, args...)}
}

// KindOf returns the kind of a relay error, or "" for other errors.
func KindOf(err error) ErrorKind {
	var relayErr *Error
	if errors.As(err, &relayErr) {
		return relayErr.Kind
	}
	return ""
}
