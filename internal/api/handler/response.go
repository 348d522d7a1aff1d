package handler

import "github.com/labstack/echo/v4"

// Envelope is the body of every /users and /admin response.
type Envelope struct {
	Result  any    `json:"result"`
	Message string `json:"message"`
	Success bool   `json:"success"`
}

func respond(c echo.Context, code int, result any, message string) error {
	return c.JSON(code, Envelope{Result: result, Message: message, Success: true})
}

// Fail writes the error envelope.
func Fail(c echo.Context, code int, message string) error {
	return c.JSON(code, Envelope{Result: nil, Message: message, Success: false})
}
