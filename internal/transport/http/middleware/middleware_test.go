package httpmw

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labdesk/workbench/internal/logger"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func signToken(t *testing.T, secret string, claims jwt.RegisteredClaims) string {
	t.Helper()
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return s
}

func validClaims(sub string) jwt.RegisteredClaims {
	return jwt.RegisteredClaims{
		Subject:   sub,
		Issuer:    "accounts",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
	}
}

func TestAuthMiddleware(t *testing.T) {
	v := NewTokenVerifier(testSecret, "accounts")

	var gotUID int64
	var gotErr error
	h := AuthMiddleware(v, func(w http.ResponseWriter, _ *http.Request, err error) {
		gotErr = err
		w.WriteHeader(http.StatusUnauthorized)
	})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUID = UserIDFromCtx(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}))

	expired := validClaims("7")
	expired.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Hour))
	wrongIssuer := validClaims("7")
	wrongIssuer.Issuer = "someone-else"

	cases := []struct {
		name       string
		header     string
		wantStatus int
		wantUID    int64
		wantErr    error
	}{
		{name: "valid", header: "Bearer " + signToken(t, testSecret, validClaims("7")), wantStatus: http.StatusNoContent, wantUID: 7},
		{name: "missing header", header: "", wantStatus: http.StatusUnauthorized, wantErr: ErrMissingToken},
		{name: "not bearer", header: "Basic abc", wantStatus: http.StatusUnauthorized, wantErr: ErrMissingToken},
		{name: "garbage token", header: "Bearer abc.def.ghi", wantStatus: http.StatusUnauthorized, wantErr: ErrInvalidToken},
		{name: "wrong secret", header: "Bearer " + signToken(t, "ffffffffffffffffffffffffffffffff", validClaims("7")), wantStatus: http.StatusUnauthorized, wantErr: ErrInvalidToken},
		{name: "expired", header: "Bearer " + signToken(t, testSecret, expired), wantStatus: http.StatusUnauthorized, wantErr: ErrInvalidToken},
		{name: "wrong issuer", header: "Bearer " + signToken(t, testSecret, wrongIssuer), wantStatus: http.StatusUnauthorized, wantErr: ErrInvalidToken},
		{name: "non-numeric subject", header: "Bearer " + signToken(t, testSecret, validClaims("alice")), wantStatus: http.StatusUnauthorized, wantErr: ErrInvalidSubject},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			gotUID, gotErr = 0, nil
			req := httptest.NewRequest(http.MethodGet, "/memos", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			require.Equal(t, tc.wantStatus, rec.Code)
			require.Equal(t, tc.wantUID, gotUID)
			if tc.wantErr != nil {
				require.ErrorIs(t, gotErr, tc.wantErr)
			}
		})
	}
}

func TestRequestID(t *testing.T) {
	var seen string
	h := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = logger.RequestID(r.Context())
	}))

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(HeaderRequestID, "abc-1")
	h.ServeHTTP(rec, req)
	require.Equal(t, "abc-1", seen)
	require.Equal(t, "abc-1", rec.Header().Get(HeaderRequestID))

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Len(t, seen, 36)
	require.Equal(t, seen, rec.Header().Get(HeaderRequestID))
}

func TestLogging_RecordsStatus(t *testing.T) {
	h := Logging(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
		_, _ = w.Write([]byte("short and stout"))
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusTeapot, rec.Code)
	require.Equal(t, "short and stout", rec.Body.String())
}
