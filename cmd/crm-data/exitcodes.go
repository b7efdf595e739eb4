package main

import "errors"

// Exit codes follow the sysexits convention where one fits.
const (
	ExitOK          = 0
	ExitFailure     = 1
	ExitUsage       = 64
	ExitDataErr     = 65
	ExitUnavailable = 69
	// ExitPartial signals the run finished but some rows failed.
	ExitPartial = 3
)

type codedError struct {
	err  error
	code int
}

func (e *codedError) Error() string { return e.err.Error() }
func (e *codedError) Unwrap() error { return e.err }

func withCode(err error, code int) error {
	return &codedError{err: err, code: code}
}

func exitCode(err error) int {
	var coded *codedError
	if errors.As(err, &coded) {
		return coded.code
	}
	return ExitFailure
}
