package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// ctxUserID returns the caller id injected by the Auth middleware from the
// token subject.
func ctxUserID(c echo.Context) (string, error) {
	id, _ := c.Get("user_id").(string)
	if id == "" {
		return "", echo.NewHTTPError(http.StatusUnauthorized, "token missing subject")
	}
	return id, nil
}
