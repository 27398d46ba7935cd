package wfh

import "errors"

var ErrWfhRequestNotFound = errors.New("wfh request not found")
