package httpmw

import (
	"net/http"

	"github.com/labdesk/workbench/internal/logger"

	"github.com/google/uuid"
)

const HeaderRequestID = "X-Request-ID"

// RequestID passes through or generates X-Request-ID and stores it for the logger.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reqID := r.Header.Get(HeaderRequestID)
		if reqID == "" || len(reqID) > 128 {
			reqID = uuid.NewString()
		}
		w.Header().Set(HeaderRequestID, reqID)

		next.ServeHTTP(w, r.WithContext(logger.WithRequestID(r.Context(), reqID)))
	})
}
