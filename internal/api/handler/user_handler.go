package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/leadbook/user-directory/internal/core/domain"
	"github.com/leadbook/user-directory/internal/core/ports"
)

const msgUserNotExist = "User not exist"

// UserHandler handles HTTP requests for the user directory.
type UserHandler struct {
	service ports.UserService
}

func NewUserHandler(service ports.UserService) *UserHandler {
	return &UserHandler{service: service}
}

// List handles GET /users.
//
// @Summary      List every user
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  Envelope{result=[]domain.User}
// @Failure      401  {object}  Envelope
// @Failure      500  {object}  Envelope
// @Router       /users [get]
func (h *UserHandler) List(c echo.Context) error {
	users, err := h.service.ListUsers(c.Request().Context())
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, users, "users fetched successfully")
}

// Get handles GET /users/:userId.
//
// @Summary      Get a user by id
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        userId  path      string  true  "User id"
// @Success      200     {object}  Envelope{result=domain.User}
// @Failure      401     {object}  Envelope  "unknown user"
// @Failure      500     {object}  Envelope
// @Router       /users/{userId} [get]
func (h *UserHandler) Get(c echo.Context) error {
	user, err := h.service.GetUser(c.Request().Context(), c.Param("userId"))
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return Fail(c, http.StatusUnauthorized, msgUserNotExist)
		}
		return err
	}
	return respond(c, http.StatusOK, user, "user fetched successfully")
}

// Filter handles GET /users/filter.
//
// Every query parameter other than startingDate and endingDate is an
// equality criterion on firstName, lastName, username, phone, email or role.
//
// @Summary      Filter users
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        startingDate  query     string  false  "Lower creation day bound (2006-01-02 or RFC 3339)"
// @Param        endingDate    query     string  false  "Upper creation day bound, inclusive"
// @Param        role          query     string  false  "Role"
// @Success      200           {object}  Envelope{result=[]domain.User}
// @Failure      500           {object}  Envelope
// @Router       /users/filter [get]
func (h *UserHandler) Filter(c echo.Context) error {
	params := c.QueryParams()
	input := ports.FilterUsersInput{
		Criteria:     make(map[string]string, len(params)),
		StartingDate: params.Get("startingDate"),
		EndingDate:   params.Get("endingDate"),
	}
	for key := range params {
		if key == "startingDate" || key == "endingDate" {
			continue
		}
		input.Criteria[key] = params.Get(key)
	}

	users, err := h.service.FilterUsers(c.Request().Context(), input)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, users, "users filtered successfully")
}

// ListClients handles GET /users/clients.
//
// @Summary      List clients
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  Envelope{result=[]domain.User}
// @Failure      500  {object}  Envelope
// @Router       /users/clients [get]
func (h *UserHandler) ListClients(c echo.Context) error {
	users, err := h.service.ListClients(c.Request().Context())
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, users, "clients fetched successfully")
}

// ListEmployeeClients handles GET /users/employee-clients for the calling
// employee.
//
// @Summary      List the caller's clients
// @Description  Clients whose phone appears on a non-archived lead allocated to the caller.
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  Envelope{result=[]domain.User}
// @Failure      401  {object}  Envelope
// @Failure      500  {object}  Envelope
// @Router       /users/employee-clients [get]
func (h *UserHandler) ListEmployeeClients(c echo.Context) error {
	employeeID, err := ctxUserID(c)
	if err != nil {
		return err
	}
	users, err := h.service.ListEmployeeClients(c.Request().Context(), employeeID)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, users, "clients fetched successfully")
}

// ListEmployees handles GET /users/employees.
//
// @Summary      List employees
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  Envelope{result=[]domain.User}
// @Failure      500  {object}  Envelope
// @Router       /users/employees [get]
func (h *UserHandler) ListEmployees(c echo.Context) error {
	users, err := h.service.ListEmployees(c.Request().Context())
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, users, "employees fetched successfully")
}

// CreateClient handles POST /users/clients.
//
// @Summary      Create a client
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createClientRequest  true  "Client"
// @Success      200   {object}  Envelope{result=domain.User}
// @Failure      400   {object}  Envelope  "validation failure or duplicate username, phone or email"
// @Failure      500   {object}  Envelope
// @Router       /users/clients [post]
func (h *UserHandler) CreateClient(c echo.Context) error {
	var req createClientRequest
	if err := c.Bind(&req); err != nil {
		return Fail(c, http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	user, err := h.service.CreateClient(c.Request().Context(), req.toInput())
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, user, "Client created successfully")
}

// CreateEmployee handles POST /users/employees. The stored role is always
// "employee".
//
// @Summary      Create an employee
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createEmployeeRequest  true  "Employee"
// @Success      200   {object}  Envelope{result=domain.User}
// @Failure      400   {object}  Envelope  "validation failure or duplicate username, phone or email"
// @Failure      500   {object}  Envelope
// @Router       /users/employees [post]
func (h *UserHandler) CreateEmployee(c echo.Context) error {
	var req createEmployeeRequest
	if err := c.Bind(&req); err != nil {
		return Fail(c, http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	user, err := h.service.CreateEmployee(c.Request().Context(), req.toInput())
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, user, "Employee created successfully")
}

// UpdateRole handles PUT /users/:userId/role.
//
// @Summary      Change a user's role
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        userId  path      string             true  "User id"
// @Param        body    body      updateRoleRequest  true  "New role"
// @Success      200     {object}  Envelope{result=domain.User}
// @Failure      400     {object}  Envelope
// @Failure      401     {object}  Envelope  "unknown user"
// @Failure      500     {object}  Envelope
// @Router       /users/{userId}/role [put]
func (h *UserHandler) UpdateRole(c echo.Context) error {
	var req updateRoleRequest
	if err := c.Bind(&req); err != nil {
		return Fail(c, http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	user, err := h.service.UpdateRole(c.Request().Context(), c.Param("userId"), req.Role)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return Fail(c, http.StatusUnauthorized, msgUserNotExist)
		}
		return err
	}
	return respond(c, http.StatusOK, user, "Role updated successfully")
}

// Update handles PUT /users/:userId. Absent fields are left unchanged.
//
// @Summary      Update a user
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        userId  path      string             true  "User id"
// @Param        body    body      updateUserRequest  true  "Fields to change"
// @Success      200     {object}  Envelope{result=domain.User}
// @Failure      400     {object}  Envelope  "unknown user or validation failure"
// @Failure      500     {object}  Envelope
// @Router       /users/{userId} [put]
func (h *UserHandler) Update(c echo.Context) error {
	var req updateUserRequest
	if err := c.Bind(&req); err != nil {
		return Fail(c, http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	user, err := h.service.UpdateUser(c.Request().Context(), c.Param("userId"), req.toInput())
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return Fail(c, http.StatusBadRequest, msgUserNotExist)
		}
		return err
	}
	return respond(c, http.StatusOK, user, "User updated successfully")
}

// Delete handles DELETE /users/:userId.
//
// @Summary      Delete a user
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        userId  path      string  true  "User id"
// @Success      200     {object}  Envelope{result=domain.User}
// @Failure      400     {object}  Envelope  "unknown user"
// @Failure      500     {object}  Envelope
// @Router       /users/{userId} [delete]
func (h *UserHandler) Delete(c echo.Context) error {
	user, err := h.service.DeleteUser(c.Request().Context(), c.Param("userId"))
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return Fail(c, http.StatusBadRequest, msgUserNotExist)
		}
		return err
	}
	return respond(c, http.StatusOK, user, "User deleted successfully")
}
