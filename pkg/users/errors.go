package users

import "errors"

var (
	// ErrAgreementNotFound is returned when the agreement to create a user
	// from does not exist.
	ErrAgreementNotFound = errors.New("agreement not found")

	// ErrUserAlreadyExists is returned when a user with the same email
	// already exists or the agreement is already linked to a user.
	ErrUserAlreadyExists = errors.New("user already exists")

	// ErrUserNotFound is returned when the requested user does not exist.
	ErrUserNotFound = errors.New("user not found")
)
