package jobs

import (
	"errors"
	"fmt"
)

// DefaultFailureMessage is reported when the backend marks a job FAILED
// without saying why.
const DefaultFailureMessage = "benchmark job failed"

// ErrUnknownStatus is counted like a transport failure when the backend
// answers with a status outside the known state machine.
var ErrUnknownStatus = errors.New("unknown job status")

// JobFailedError is the terminal error for a job the backend reported FAILED.
type JobFailedError struct {
	JobID   string
	Message string
}

func (e *JobFailedError) Error() string {
	return e.Message
}

// RetrievalError means the job completed but its result could not be
// fetched. The job itself did not fail.
type RetrievalError struct {
	JobID string
	Err   error
}

func (e *RetrievalError) Error() string {
	return fmt.Sprintf("job %s completed but its result could not be retrieved: %v", e.JobID, e.Err)
}

func (e *RetrievalError) Unwrap() error {
	return e.Err
}

// UnreachableError ends polling after too many consecutive status failures.
type UnreachableError struct {
	JobID    string
	Attempts int
	Err      error
}

func (e *UnreachableError) Error() string {
	return fmt.Sprintf("job %s: status unreachable after %d consecutive attempts: %v", e.JobID, e.Attempts, e.Err)
}

func (e *UnreachableError) Unwrap() error {
	return e.Err
}
