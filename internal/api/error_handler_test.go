package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/leadbook/user-directory/internal/core/domain"
)

func TestHTTPErrorHandler(t *testing.T) {
	cases := []struct {
		name string
		err  error
		code int
		msg  string
	}{
		{"username conflict", domain.ErrUsernameTaken, http.StatusBadRequest, "Username already exists."},
		{"wrapped phone conflict", fmt.Errorf("create: %w", domain.ErrPhoneTaken), http.StatusBadRequest, "Phone number already exists."},
		{"email conflict", domain.ErrEmailTaken, http.StatusBadRequest, "Email already exists."},
		{"validation", domain.NewValidationError("phone must be 10 or 11 digits"), http.StatusBadRequest, "phone must be 10 or 11 digits"},
		{"invalid role", domain.ErrInvalidRole, http.StatusBadRequest, "invalid role"},
		{"not found", domain.ErrUserNotFound, http.StatusNotFound, "User not exist"},
		{"echo error", echo.NewHTTPError(http.StatusUnauthorized, "invalid token"), http.StatusUnauthorized, "invalid token"},
		{"store fault", errors.New("server selection timeout"), http.StatusInternalServerError, "internal server error"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			e := echo.New()
			req := httptest.NewRequest(http.MethodGet, "/users", nil)
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)

			NewHTTPErrorHandler(zerolog.Nop())(tc.err, c)

			if rec.Code != tc.code {
				t.Fatalf("expected %d, got %d", tc.code, rec.Code)
			}
			var resp map[string]any
			if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
				t.Fatalf("invalid json: %v", err)
			}
			if resp["message"] != tc.msg || resp["success"] != false || resp["result"] != nil {
				t.Errorf("unexpected envelope: %v", resp)
			}
		})
	}
}

func TestHTTPErrorHandler_CommittedResponseUntouched(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/users", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	_ = c.NoContent(http.StatusAccepted)

	NewHTTPErrorHandler(zerolog.Nop())(errors.New("late failure"), c)

	if rec.Code != http.StatusAccepted {
		t.Fatalf("expected committed status to stay 202, got %d", rec.Code)
	}
}
