package main

import (
	"errors"
	"os"

	"github.com/bjaus/csvmd"
)

// Exit codes for the csvmd CLI.
// Follows Unix conventions: 0=success, 1=general, 2=usage, and custom codes < 126.
const (
	ExitSuccess = 0 // Successful conversion
	ExitGeneral = 1 // General/unexpected error
	ExitUsage   = 2 // Invalid flags or config
	ExitIO      = 3 // Unreadable input or unwritable output
	ExitParse   = 4 // Malformed CSV
)

// exitCodeFor returns the appropriate exit code for an error.
// Config errors are checked first: a missing config file is a usage problem
// even though it also wraps os.ErrNotExist.
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	if errors.Is(err, csvmd.ErrConfig) ||
		errors.Is(err, ErrUsage) {
		return ExitUsage
	}

	if errors.Is(err, csvmd.ErrParse) {
		return ExitParse
	}

	if errors.Is(err, csvmd.ErrIO) ||
		errors.Is(err, ErrOpenInput) ||
		errors.Is(err, os.ErrNotExist) ||
		errors.Is(err, os.ErrPermission) {
		return ExitIO
	}

	return ExitGeneral
}
