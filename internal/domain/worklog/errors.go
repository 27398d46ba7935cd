package worklog

import "errors"

var (
	ErrWorkLogNotFound         = errors.New("work log not found")
	ErrWorkLogAlreadySubmitted = errors.New("work log already submitted")
	ErrWorkLogClosed           = errors.New("work log was closed automatically and can no longer be edited")
	ErrFutureWorkDate          = errors.New("work date cannot be in the future")
)
