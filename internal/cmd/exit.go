package cmd

import (
	"fmt"
	"io"

	"github.com/Iron-Ham/taskrank/internal/errors"
)

// Process exit codes.
const (
	ExitOK = 0

	// ExitFailure covers configuration, usage and empty-batch failures.
	ExitFailure = 1

	// ExitInvalidInput means a task document was rejected as a whole: it could
	// not be read, or it was not a sequence of task mappings.
	ExitInvalidInput = 2
)

// ExitCode maps an error returned by Execute to the process exit code.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitOK
	case errors.IsInputError(err):
		return ExitInvalidInput
	default:
		return ExitFailure
	}
}

// ReportError writes err for the person running the command. Typed taskrank
// errors already name their kind and context, so they are printed as they
// are; anything else gets the usual "Error:" prefix.
func ReportError(w io.Writer, err error) {
	if err == nil {
		return
	}
	if errors.IsUserFacing(err) {
		fmt.Fprintf(w, "taskrank: %v\n", err)
		return
	}
	fmt.Fprintf(w, "Error: %v\n", err)
}
