package rbac

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"go-hris-workflow/internal/domain"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

type stubService struct{}

func (m *stubService) LoadCompanyPolicy(companyID string) error {
	return nil
}

func (m *stubService) Enforce(req domain.EnforceRequest) (bool, error) {
	return req.Resource == "approval" && req.Action == "read", nil
}

func (m *stubService) RolesFor(companyID, employeeID string) ([]string, error) {
	return []string{"HR_ADMIN"}, nil
}

func TestHandler_Enforce(t *testing.T) {
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.POST("/rbac/enforce", NewHandler(&stubService{}).Enforce)

	t.Run("success", func(t *testing.T) {
		body, _ := json.Marshal(domain.EnforceRequest{
			EmployeeID: "emp-1", CompanyID: "company-1", Resource: "approval", Action: "read",
		})
		req := httptest.NewRequest(http.MethodPost, "/rbac/enforce", bytes.NewBuffer(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"allowed":true`)
	})

	t.Run("validation error", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/rbac/enforce", bytes.NewBufferString(`{}`))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestHandler_MyRoles(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/rbac/me/roles", nil)
	c.Set("company_id", "company-1")
	c.Set("employee_id", "emp-1")

	NewHandler(&stubService{}).MyRoles(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "HR_ADMIN")
}
