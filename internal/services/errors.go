package services

import "errors"

var (
	ErrForbidden       = errors.New("forbidden")
	ErrEmailTaken      = errors.New("email already registered")
	ErrUserNotFound    = errors.New("user not found")
	ErrUnknownIdentity = errors.New("no directory record for identity")
	ErrAlreadyClaimed  = errors.New("account has already been claimed")
	ErrNoteNotFound    = errors.New("notification not found")
)
