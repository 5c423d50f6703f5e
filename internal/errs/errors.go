package errs

import (
	"errors"
	"net/http"

	"github.com/labdesk/workbench/internal/domain"
	"github.com/labdesk/workbench/internal/postgres"
	"github.com/labdesk/workbench/internal/roulette"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrUnauthorized = errors.New("unauthorized")
)

func ToHTTP(err error) int {
	switch {
	case errors.Is(err, ErrInvalidInput),
		errors.Is(err, roulette.ErrValidation),
		errors.Is(err, domain.ErrNoParticipants),
		errors.Is(err, domain.ErrEmptyName),
		errors.Is(err, domain.ErrInvalidGroup),
		errors.Is(err, domain.ErrEmptyBody),
		errors.Is(err, postgres.ErrInvalidCursor):
		return http.StatusBadRequest
	case errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, domain.ErrMemberNotFound),
		errors.Is(err, domain.ErrMemoNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrConflict):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
