package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/contentops/benchconsole/internal/jobs"
)

// Exit codes for different failure modes
const (
	ExitSuccess   = 0 // Command succeeded
	ExitJobFailed = 1 // The benchmark job reached FAILED
	ExitError     = 2 // Configuration or runtime error
)

func main() {
	if err := execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitCode(err))
	}
}

// exitCode maps an error returned by a command to the process exit code.
func exitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var failed *jobs.JobFailedError
	if errors.As(err, &failed) {
		return ExitJobFailed
	}
	return ExitError
}
