package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/leadbook/user-directory/internal/core/ports"
)

// AdminHandler serves maintenance operations that are not part of the
// regular /users surface.
type AdminHandler struct {
	service ports.UserService
}

func NewAdminHandler(service ports.UserService) *AdminHandler {
	return &AdminHandler{service: service}
}

// PurgeUsers handles DELETE /admin/users.
//
// @Summary      Delete every user
// @Description  Only registered when ALLOW_PURGE=true. Requires the X-Confirm-Purge: users header.
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        X-Confirm-Purge  header    string  true  "Must be \"users\""
// @Success      200              {object}  Envelope{result=deleteAllResult}
// @Failure      400              {object}  Envelope
// @Failure      403              {object}  Envelope
// @Failure      500              {object}  Envelope
// @Router       /admin/users [delete]
func (h *AdminHandler) PurgeUsers(c echo.Context) error {
	n, err := h.service.DeleteAllUsers(c.Request().Context())
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, deleteAllResult{DeletedCount: n}, "User collection deleted successfully")
}
