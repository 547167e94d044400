package verify

import "errors"

var (
	ErrNoJobs   = errors.New("batch has no jobs")
	ErrCanceled = errors.New("batch canceled")
)
