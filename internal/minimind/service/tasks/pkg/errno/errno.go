package errno

import (
	"errors"
)

var (
	ErrUserNotFound    = errors.New("user not found")
	ErrUsernameTaken   = errors.New("username already taken")
	ErrTaskNotFound    = errors.New("task not found")
	ErrSubtaskNotFound = errors.New("subtask not found")
	ErrMemoryNotFound  = errors.New("memory not found")
	ErrUnknownAgent    = errors.New("unknown agent type")
)
