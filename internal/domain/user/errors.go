package user

import "errors"

var (
	ErrUserNotFound          = errors.New("user not found")
	ErrUsernameExists        = errors.New("username already taken")
	ErrUserEmailExists       = errors.New("email already registered")
	ErrEmployeeIDExists      = errors.New("employee id already assigned")
	ErrInvalidRole           = errors.New("invalid role")
	ErrForbidden             = errors.New("insufficient permissions")
	ErrAdminUndeletable      = errors.New("admin accounts cannot be deleted")
	ErrCannotModifySelf      = errors.New("you cannot perform this action on your own account")
	ErrUserInactive          = errors.New("user account is inactive")
	ErrInvalidPasswordLength = errors.New("password must be at least 8 characters")
)
