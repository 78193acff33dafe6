package employee_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go-hris-workflow/internal/employee"
	employeeerrors "go-hris-workflow/internal/employee/errors"
	"go-hris-workflow/internal/shared/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

type fakeEmployeeService struct {
	employee.Service
	CreateFn  func(ctx context.Context, companyID string, req employee.CreateEmployeeRequest) (employee.EmployeeResponse, error)
	GetAllFn  func(ctx context.Context, companyID string) ([]employee.EmployeeResponse, error)
	GetByIDFn func(ctx context.Context, companyID, id string) (employee.EmployeeResponse, error)
	DeleteFn  func(ctx context.Context, companyID, id string) error
}

func (f *fakeEmployeeService) Create(ctx context.Context, companyID string, req employee.CreateEmployeeRequest) (employee.EmployeeResponse, error) {
	return f.CreateFn(ctx, companyID, req)
}
func (f *fakeEmployeeService) GetAll(ctx context.Context, companyID string) ([]employee.EmployeeResponse, error) {
	return f.GetAllFn(ctx, companyID)
}
func (f *fakeEmployeeService) GetByID(ctx context.Context, companyID, id string) (employee.EmployeeResponse, error) {
	return f.GetByIDFn(ctx, companyID, id)
}
func (f *fakeEmployeeService) Delete(ctx context.Context, companyID, id string) error {
	return f.DeleteFn(ctx, companyID, id)
}

func mustDecodeEnvelope(t *testing.T, body []byte) response.ApiEnvelope {
	t.Helper()
	var env response.ApiEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		t.Fatalf("decode envelope: %v", err)
	}
	return env
}

func newContext(method, target, body, companyID string) (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	c.Set("company_id", companyID)
	return c, w
}

func TestEmployeeHandler_Create(t *testing.T) {
	companyID := uuid.NewString()

	t.Run("success", func(t *testing.T) {
		positionID := uuid.NewString()
		svc := &fakeEmployeeService{
			CreateFn: func(ctx context.Context, cid string, req employee.CreateEmployeeRequest) (employee.EmployeeResponse, error) {
				assert.Equal(t, companyID, cid)
				assert.Equal(t, positionID, req.PrimaryPositionID)
				return employee.EmployeeResponse{ID: uuid.NewString(), FullName: req.FullName, CompanyID: cid}, nil
			},
		}
		h := employee.NewHandler(svc)
		body := `{"full_name":"John Doe","email":"john@example.com","primary_position_id":"` + positionID + `"}`
		c, w := newContext(http.MethodPost, "/api/v1/employees", body, companyID)

		h.Create(c)

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Contains(t, w.Body.String(), "John Doe")
	})

	t.Run("negative - missing position", func(t *testing.T) {
		h := employee.NewHandler(&fakeEmployeeService{})
		c, w := newContext(http.MethodPost, "/api/v1/employees", `{"full_name":"John","email":"john@example.com"}`, companyID)

		h.Create(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		env := mustDecodeEnvelope(t, w.Body.Bytes())
		assert.False(t, env.Ok)
	})

	t.Run("negative - unknown position maps to 400", func(t *testing.T) {
		svc := &fakeEmployeeService{
			CreateFn: func(context.Context, string, employee.CreateEmployeeRequest) (employee.EmployeeResponse, error) {
				return employee.EmployeeResponse{}, employeeerrors.ErrInvalidPosition
			},
		}
		h := employee.NewHandler(svc)
		body := `{"full_name":"John","email":"john@example.com","primary_position_id":"` + uuid.NewString() + `"}`
		c, w := newContext(http.MethodPost, "/api/v1/employees", body, companyID)

		h.Create(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "INVALID_INPUT")
	})
}

func TestEmployeeHandler_GetAll(t *testing.T) {
	positionA := uuid.NewString()
	svc := &fakeEmployeeService{
		GetAllFn: func(context.Context, string) ([]employee.EmployeeResponse, error) {
			return []employee.EmployeeResponse{
				{ID: "3", FullName: "Citra", Email: "citra@example.com", PrimaryPositionID: positionA},
				{ID: "1", FullName: "Agus", Email: "agus@example.com", PrimaryPositionID: positionA},
				{ID: "2", FullName: "Bima", Email: "bima@example.com", PrimaryPositionID: uuid.NewString()},
			}, nil
		},
	}
	h := employee.NewHandler(svc)

	t.Run("filter by position and sort by name", func(t *testing.T) {
		c, w := newContext(http.MethodGet, "/api/v1/employees?position_id="+positionA, "", "c-1")

		h.GetAll(c)

		assert.Equal(t, http.StatusOK, w.Code)
		env := mustDecodeEnvelope(t, w.Body.Bytes())
		items := env.Data.([]any)
		if assert.Len(t, items, 2) {
			assert.Equal(t, "Agus", items[0].(map[string]any)["full_name"])
		}
		assert.Equal(t, int64(2), env.Meta.Total)
	})

	t.Run("paginate", func(t *testing.T) {
		c, w := newContext(http.MethodGet, "/api/v1/employees?page=2&page_size=2", "", "c-1")

		h.GetAll(c)

		env := mustDecodeEnvelope(t, w.Body.Bytes())
		items := env.Data.([]any)
		if assert.Len(t, items, 1) {
			assert.Equal(t, "Citra", items[0].(map[string]any)["full_name"])
		}
		assert.Equal(t, 2, env.Meta.TotalPages)
	})
}

func TestEmployeeHandler_GetById(t *testing.T) {
	svc := &fakeEmployeeService{
		GetByIDFn: func(context.Context, string, string) (employee.EmployeeResponse, error) {
			return employee.EmployeeResponse{}, employeeerrors.ErrEmployeeNotFound
		},
	}
	h := employee.NewHandler(svc)
	c, w := newContext(http.MethodGet, "/api/v1/employees/x", "", "c-1")
	c.Params = gin.Params{{Key: "id", Value: uuid.NewString()}}

	h.GetById(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "NOT_FOUND")
}

func TestEmployeeHandler_Delete(t *testing.T) {
	id := uuid.NewString()
	svc := &fakeEmployeeService{
		DeleteFn: func(_ context.Context, _ string, target string) error {
			assert.Equal(t, id, target)
			return nil
		},
	}
	h := employee.NewHandler(svc)
	c, w := newContext(http.MethodDelete, "/api/v1/employees/"+id, "", "c-1")
	c.Params = gin.Params{{Key: "id", Value: id}}

	h.Delete(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"deleted":true`)
}
