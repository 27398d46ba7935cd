package cron

import "errors"

var errPanicked = errors.New("job panicked")
