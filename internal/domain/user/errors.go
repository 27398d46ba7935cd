package user

import "errors"

var (
	ErrUserNotFound            = errors.New("user not found")
	ErrUserEmailExists         = errors.New("email already registered")
	ErrUserBlocked             = errors.New("your account has been blocked, please contact HR")
	ErrInsufficientPermissions = errors.New("insufficient permissions")
	ErrInvalidCredentials      = errors.New("invalid email or password")
	ErrCannotDeleteSelf        = errors.New("cannot delete your own account")
	ErrInvalidReportingBH      = errors.New("reporting user must be a business head")
)
