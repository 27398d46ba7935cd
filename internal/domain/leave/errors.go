package leave

import "errors"

var (
	ErrLeaveRequestNotFound      = errors.New("leave request not found")
	ErrPermissionRequestNotFound = errors.New("permission request not found")
)
