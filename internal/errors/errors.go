// Package errors turns command errors into the message printed on exit.
package errors

import (
	stderrors "errors"
	"fmt"
	"io"
	"os"

	"github.com/julianstephens/habitsnap/internal/logger"
	"github.com/julianstephens/habitsnap/internal/storage"
)

// Replaced in tests.
var (
	stderr io.Writer = os.Stderr
	exit             = os.Exit
)

// Format renders err as "Error: ..." plus a hint line for storage errors.
func Format(err error) string {
	if err == nil {
		return ""
	}
	msg := fmt.Sprintf("Error: %v", err)
	if hint := Hint(err); hint != "" {
		msg += "\nHint: " + hint
	}
	return msg
}

// Hint suggests what the user can do about a storage error. It returns ""
// for errors outside the storage taxonomy.
func Hint(err error) string {
	switch {
	case err == nil:
		return ""
	case stderrors.Is(err, storage.ErrStorageUnavailable):
		return "run 'habitsnap init' or check the --config path"
	case stderrors.Is(err, storage.ErrDuplicateKey):
		return "choose a different id or use 'habit edit' to overwrite"
	case stderrors.Is(err, storage.ErrNotFound):
		return "run 'habitsnap habit list' or 'habitsnap photo list' to see valid ids"
	case stderrors.Is(err, storage.ErrStorageFailure):
		return "the change was not saved; retry the command"
	}
	return ""
}

// Fatal logs err, prints it with Format and exits with status 1. A nil err
// is ignored.
func Fatal(err error) {
	if err == nil {
		return
	}
	logger.Error("Command execution failed", "error", err)
	fmt.Fprintln(stderr, Format(err))
	exit(1)
}
