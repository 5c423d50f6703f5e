package domain

import "errors"

var (
	ErrMemberNotFound = errors.New("member not found")
	ErrInvalidGroup   = errors.New("invalid research group")
	ErrEmptyName      = errors.New("name is required")
	ErrNoParticipants = errors.New("no participants selected")
	ErrMemoNotFound   = errors.New("memo not found")
	ErrEmptyBody      = errors.New("memo body is required")
	ErrConflict       = errors.New("conflict")
)
