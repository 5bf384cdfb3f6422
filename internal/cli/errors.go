package cli

import "errors"

// Exit codes.
const (
	exitSuccess   = 0
	exitUserError = 1
	exitSysError  = 2
)

// systemError marks failures of the environment (storage, filesystem,
// configuration) as opposed to rejected input.
type systemError struct {
	err error
}

func (e *systemError) Error() string { return e.err.Error() }
func (e *systemError) Unwrap() error { return e.err }

// exitCode maps an error returned by a command to a process exit code.
// Registry rejections and bad arguments are user errors.
func exitCode(err error) int {
	if err == nil {
		return exitSuccess
	}
	var se *systemError
	if errors.As(err, &se) {
		return exitSysError
	}
	return exitUserError
}
