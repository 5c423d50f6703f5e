package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/labdesk/workbench/internal/errs"

	"github.com/go-playground/validator/v10"
)

type envelope map[string]any

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("write json response failed", slog.Any("err", err))
	}
}

func ok(w http.ResponseWriter, status int, data any) {
	writeJSON(w, status, envelope{"data": data})
}

func writeError(w http.ResponseWriter, status int, msg string, meta map[string]any) {
	body := envelope{"message": msg}
	if len(meta) > 0 {
		body["meta"] = meta
	}
	writeJSON(w, status, envelope{"error": body})
}

// fail maps err to a status; 5xx details are logged, not returned.
func fail(w http.ResponseWriter, r *http.Request, op string, err error) {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		meta := make(map[string]any, len(verrs))
		for _, fe := range verrs {
			meta[fieldName(fe)] = fe.Tag()
		}
		writeError(w, http.StatusBadRequest, "validation failed", meta)
		return
	}

	status := errs.ToHTTP(err)
	if status >= http.StatusInternalServerError {
		slog.ErrorContext(r.Context(), "handler."+op, slog.Any("err", err))
		writeError(w, status, "internal error", nil)
		return
	}
	writeError(w, status, err.Error(), nil)
}

// Unauthorized is the AuthMiddleware error callback.
func Unauthorized(w http.ResponseWriter, r *http.Request, err error) {
	slog.DebugContext(r.Context(), "auth rejected", slog.Any("err", err))
	writeError(w, http.StatusUnauthorized, errs.ErrUnauthorized.Error(), nil)
}

func fieldName(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		ns = ns[i+1:]
	}
	return ns
}

func invalidInput(format string, args ...any) error {
	return fmt.Errorf("%w: %s", errs.ErrInvalidInput, fmt.Sprintf(format, args...))
}
