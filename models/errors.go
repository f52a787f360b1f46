package models

import "errors"

// Common errors
var (
	ErrPollNotFound     = errors.New("poll not found")
	ErrPollClosed       = errors.New("poll is not active")
	ErrOptionOutOfRange = errors.New("option index out of range")
	ErrAlreadyVoted     = errors.New("device already voted on this poll")
)
