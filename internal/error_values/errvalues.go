package errorvalues

import "errors"

var (
	ErrValidation = errors.New("validation failed")

	ErrUserExists       = errors.New("user with such email already exists")
	ErrUserNotFound     = errors.New("user doesn't exist")
	ErrWrongCredentials = errors.New("wrong email or password")
	ErrInvalidToken     = errors.New("invalid token")

	ErrFamilyNotFound = errors.New("family doesn't exist")
	ErrAlreadyMember  = errors.New("user already belongs to a family")
	ErrNoFamily       = errors.New("user doesn't belong to a family")
	ErrWrongFamily    = errors.New("resource belongs to a different family")

	ErrTaskNotFound  = errors.New("task doesn't exist")
	ErrTaskCompleted = errors.New("task is already completed")

	ErrEventNotFound = errors.New("event doesn't exist")

	ErrNotificationNotFound = errors.New("notification doesn't exist")
)
