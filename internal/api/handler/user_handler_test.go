package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/leadbook/user-directory/internal/core/domain"
	"github.com/leadbook/user-directory/internal/core/ports"
)

// stubUserService implements ports.UserService; only the funcs a test sets
// are expected to be called.
type stubUserService struct {
	listFn          func(ctx context.Context) ([]*domain.User, error)
	getFn           func(ctx context.Context, id string) (*domain.User, error)
	filterFn        func(ctx context.Context, in ports.FilterUsersInput) ([]*domain.User, error)
	employeeClients func(ctx context.Context, employeeID string) ([]*domain.User, error)
	createClientFn  func(ctx context.Context, in ports.CreateUserInput) (*domain.User, error)
	createEmployee  func(ctx context.Context, in ports.CreateUserInput) (*domain.User, error)
	updateRoleFn    func(ctx context.Context, id, role string) (*domain.User, error)
	updateFn        func(ctx context.Context, id string, in ports.UpdateUserInput) (*domain.User, error)
	deleteFn        func(ctx context.Context, id string) (*domain.User, error)
	deleteAllFn     func(ctx context.Context) (int64, error)
}

func (s *stubUserService) ListUsers(ctx context.Context) ([]*domain.User, error) {
	return s.listFn(ctx)
}

func (s *stubUserService) GetUser(ctx context.Context, id string) (*domain.User, error) {
	return s.getFn(ctx, id)
}

func (s *stubUserService) FilterUsers(ctx context.Context, in ports.FilterUsersInput) ([]*domain.User, error) {
	return s.filterFn(ctx, in)
}

func (s *stubUserService) ListClients(ctx context.Context) ([]*domain.User, error) {
	return s.listFn(ctx)
}

func (s *stubUserService) ListEmployeeClients(ctx context.Context, employeeID string) ([]*domain.User, error) {
	return s.employeeClients(ctx, employeeID)
}

func (s *stubUserService) ListEmployees(ctx context.Context) ([]*domain.User, error) {
	return s.listFn(ctx)
}

func (s *stubUserService) CreateClient(ctx context.Context, in ports.CreateUserInput) (*domain.User, error) {
	return s.createClientFn(ctx, in)
}

func (s *stubUserService) CreateEmployee(ctx context.Context, in ports.CreateUserInput) (*domain.User, error) {
	return s.createEmployee(ctx, in)
}

func (s *stubUserService) UpdateRole(ctx context.Context, id, role string) (*domain.User, error) {
	return s.updateRoleFn(ctx, id, role)
}

func (s *stubUserService) UpdateUser(ctx context.Context, id string, in ports.UpdateUserInput) (*domain.User, error) {
	return s.updateFn(ctx, id, in)
}

func (s *stubUserService) DeleteUser(ctx context.Context, id string) (*domain.User, error) {
	return s.deleteFn(ctx, id)
}

func (s *stubUserService) DeleteAllUsers(ctx context.Context) (int64, error) {
	return s.deleteAllFn(ctx)
}

func newTestEcho() *echo.Echo {
	e := echo.New()
	e.Validator = NewValidator()
	return e
}

func newJSONContext(e *echo.Echo, method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	return resp
}

const validEmployeeBody = `{"firstName":"Ana","lastName":"Lopez","username":"ana","password":"Secret1!x","phone":"5551234567","email":"ana@example.com","role":"admin"}`

func TestUserHandler_CreateEmployee_Success(t *testing.T) {
	e := newTestEcho()
	stub := &stubUserService{
		createEmployee: func(ctx context.Context, in ports.CreateUserInput) (*domain.User, error) {
			if in.Username != "ana" || in.Password != "Secret1!x" {
				t.Fatalf("unexpected input: %+v", in)
			}
			if in.Role != "" {
				t.Fatalf("role must not be forwarded for employees, got %q", in.Role)
			}
			return &domain.User{ID: "u1", Username: in.Username, Password: "$2a$12$hash", Role: domain.RoleEmployee}, nil
		},
	}
	h := NewUserHandler(stub)

	c, rec := newJSONContext(e, http.MethodPost, "/users/employees", validEmployeeBody)
	if err := h.CreateEmployee(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	resp := decodeEnvelope(t, rec)
	if resp["success"] != true || resp["message"] != "Employee created successfully" {
		t.Fatalf("unexpected envelope: %v", resp)
	}
	result, ok := resp["result"].(map[string]any)
	if !ok {
		t.Fatalf("expected result object, got %T", resp["result"])
	}
	if result["_id"] != "u1" || result["role"] != domain.RoleEmployee {
		t.Errorf("unexpected result: %v", result)
	}
	if _, leaked := result["password"]; leaked {
		t.Error("password hash must not be serialized")
	}
	if strings.Contains(rec.Body.String(), "$2a$12$hash") {
		t.Error("password hash leaked into the body")
	}
}

func TestUserHandler_CreateEmployee_ValidationFailures(t *testing.T) {
	cases := map[string]string{
		"weak password":   `{"firstName":"Ana","lastName":"Lopez","username":"ana","password":"password","phone":"5551234567"}`,
		"missing password": `{"firstName":"Ana","lastName":"Lopez","username":"ana","phone":"5551234567"}`,
		"short phone":     `{"firstName":"Ana","lastName":"Lopez","username":"ana","password":"Secret1!x","phone":"555123"}`,
		"short name":      `{"firstName":"A","lastName":"Lopez","username":"ana","password":"Secret1!x","phone":"5551234567"}`,
		"bad email":       `{"firstName":"Ana","lastName":"Lopez","username":"ana","password":"Secret1!x","phone":"5551234567","email":"nope"}`,
	}

	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			e := newTestEcho()
			h := NewUserHandler(&stubUserService{
				createEmployee: func(context.Context, ports.CreateUserInput) (*domain.User, error) {
					t.Fatal("service must not be called")
					return nil, nil
				},
			})

			c, _ := newJSONContext(e, http.MethodPost, "/users/employees", body)
			err := h.CreateEmployee(c)
			var ve *domain.ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
		})
	}
}

func TestUserHandler_CreateClient_PasswordOptional(t *testing.T) {
	e := newTestEcho()
	called := false
	h := NewUserHandler(&stubUserService{
		createClientFn: func(ctx context.Context, in ports.CreateUserInput) (*domain.User, error) {
			called = true
			if in.Role != domain.RoleClient {
				t.Fatalf("expected payload role to be forwarded, got %q", in.Role)
			}
			return &domain.User{ID: "c1", Username: in.Username, Role: in.Role}, nil
		},
	})

	c, rec := newJSONContext(e, http.MethodPost, "/users/clients",
		`{"firstName":"Carl","lastName":"Diaz","username":"carl","phone":"55500000011","role":"client"}`)
	if err := h.CreateClient(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !called || rec.Code != http.StatusOK {
		t.Fatalf("expected 200 from service, got %d", rec.Code)
	}
	if msg := decodeEnvelope(t, rec)["message"]; msg != "Client created successfully" {
		t.Errorf("unexpected message %v", msg)
	}
}

func TestUserHandler_CreateClient_ConflictPropagates(t *testing.T) {
	e := newTestEcho()
	h := NewUserHandler(&stubUserService{
		createClientFn: func(context.Context, ports.CreateUserInput) (*domain.User, error) {
			return nil, domain.ErrPhoneTaken
		},
	})

	c, _ := newJSONContext(e, http.MethodPost, "/users/clients",
		`{"firstName":"Carl","lastName":"Diaz","username":"carl","phone":"5550000001"}`)
	if err := h.CreateClient(c); err != domain.ErrPhoneTaken {
		t.Fatalf("expected ErrPhoneTaken, got %v", err)
	}
}

func TestUserHandler_CreateClient_MalformedJSON(t *testing.T) {
	e := newTestEcho()
	h := NewUserHandler(&stubUserService{})

	c, rec := newJSONContext(e, http.MethodPost, "/users/clients", `{"username":`)
	if err := h.CreateClient(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if decodeEnvelope(t, rec)["success"] != false {
		t.Error("expected success=false")
	}
}

func TestUserHandler_NotFoundStatusPerOperation(t *testing.T) {
	notFound := func() (*domain.User, error) { return nil, domain.ErrUserNotFound }
	stub := &stubUserService{
		getFn:        func(context.Context, string) (*domain.User, error) { return notFound() },
		updateRoleFn: func(context.Context, string, string) (*domain.User, error) { return notFound() },
		updateFn:     func(context.Context, string, ports.UpdateUserInput) (*domain.User, error) { return notFound() },
		deleteFn:     func(context.Context, string) (*domain.User, error) { return notFound() },
	}
	h := NewUserHandler(stub)

	cases := []struct {
		name   string
		method string
		body   string
		call   func(echo.Context) error
		want   int
	}{
		{"get", http.MethodGet, "", h.Get, http.StatusUnauthorized},
		{"update role", http.MethodPut, `{"role":"employee"}`, h.UpdateRole, http.StatusUnauthorized},
		{"update", http.MethodPut, `{"firstName":"Anna"}`, h.Update, http.StatusBadRequest},
		{"delete", http.MethodDelete, "", h.Delete, http.StatusBadRequest},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			e := newTestEcho()
			c, rec := newJSONContext(e, tc.method, "/users/missing", tc.body)
			c.SetParamNames("userId")
			c.SetParamValues("missing")

			if err := tc.call(c); err != nil {
				t.Fatalf("handler error: %v", err)
			}
			if rec.Code != tc.want {
				t.Fatalf("expected %d, got %d", tc.want, rec.Code)
			}
			resp := decodeEnvelope(t, rec)
			if resp["message"] != "User not exist" || resp["success"] != false || resp["result"] != nil {
				t.Errorf("unexpected envelope: %v", resp)
			}
		})
	}
}

func TestUserHandler_Update_IgnoresBodyID(t *testing.T) {
	e := newTestEcho()
	h := NewUserHandler(&stubUserService{
		updateFn: func(ctx context.Context, id string, in ports.UpdateUserInput) (*domain.User, error) {
			if id != "u1" {
				t.Fatalf("expected path id u1, got %q", id)
			}
			if in.FirstName == nil || *in.FirstName != "Anna" {
				t.Fatalf("expected firstName Anna, got %+v", in.FirstName)
			}
			if in.LastName != nil || in.Password != nil {
				t.Fatalf("absent fields must stay nil: %+v", in)
			}
			return &domain.User{ID: id, FirstName: *in.FirstName}, nil
		},
	})

	c, rec := newJSONContext(e, http.MethodPut, "/users/u1", `{"_id":"other","firstName":"Anna"}`)
	c.SetParamNames("userId")
	c.SetParamValues("u1")

	if err := h.Update(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	result := decodeEnvelope(t, rec)["result"].(map[string]any)
	if result["_id"] != "u1" {
		t.Errorf("id changed: %v", result["_id"])
	}
}

func TestUserHandler_Filter_SplitsDatesFromCriteria(t *testing.T) {
	e := newTestEcho()
	h := NewUserHandler(&stubUserService{
		filterFn: func(ctx context.Context, in ports.FilterUsersInput) ([]*domain.User, error) {
			if in.StartingDate != "2024-01-05" || in.EndingDate != "invalid-date" {
				t.Fatalf("unexpected dates: %+v", in)
			}
			if len(in.Criteria) != 1 || in.Criteria["role"] != "client" {
				t.Fatalf("unexpected criteria: %v", in.Criteria)
			}
			return []*domain.User{{ID: "c1"}}, nil
		},
	})

	c, rec := newJSONContext(e, http.MethodGet, "/users/filter?role=client&startingDate=2024-01-05&endingDate=invalid-date", "")
	if err := h.Filter(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if list := decodeEnvelope(t, rec)["result"].([]any); len(list) != 1 {
		t.Errorf("expected 1 user, got %d", len(list))
	}
}

func TestUserHandler_ListEmployeeClients_UsesTokenSubject(t *testing.T) {
	e := newTestEcho()
	h := NewUserHandler(&stubUserService{
		employeeClients: func(ctx context.Context, employeeID string) ([]*domain.User, error) {
			if employeeID != "emp_1" {
				t.Fatalf("expected emp_1, got %q", employeeID)
			}
			return []*domain.User{}, nil
		},
	})

	c, rec := newJSONContext(e, http.MethodGet, "/users/employee-clients", "")
	c.Set("user_id", "emp_1")
	if err := h.ListEmployeeClients(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if list := decodeEnvelope(t, rec)["result"].([]any); len(list) != 0 {
		t.Errorf("expected empty list, got %v", list)
	}

	c, _ = newJSONContext(e, http.MethodGet, "/users/employee-clients", "")
	var he *echo.HTTPError
	if err := h.ListEmployeeClients(c); !errors.As(err, &he) || he.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without subject, got %v", err)
	}
}

func TestUserHandler_List_StoreErrorPropagates(t *testing.T) {
	e := newTestEcho()
	storeErr := errors.New("connection refused")
	h := NewUserHandler(&stubUserService{
		listFn: func(context.Context) ([]*domain.User, error) { return nil, storeErr },
	})

	c, _ := newJSONContext(e, http.MethodGet, "/users", "")
	if err := h.List(c); err != storeErr {
		t.Fatalf("expected store error, got %v", err)
	}
}

func TestAdminHandler_PurgeUsers(t *testing.T) {
	e := newTestEcho()
	h := NewAdminHandler(&stubUserService{
		deleteAllFn: func(context.Context) (int64, error) { return 3, nil },
	})

	c, rec := newJSONContext(e, http.MethodDelete, "/admin/users", "")
	if err := h.PurgeUsers(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	resp := decodeEnvelope(t, rec)
	result := resp["result"].(map[string]any)
	if result["deletedCount"] != float64(3) {
		t.Errorf("expected deletedCount 3, got %v", result["deletedCount"])
	}
	if resp["message"] != "User collection deleted successfully" {
		t.Errorf("unexpected message %v", resp["message"])
	}
}
