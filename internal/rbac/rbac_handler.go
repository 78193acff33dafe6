package rbac

import (
	"net/http"
	"strings"

	"go-hris-workflow/internal/domain"
	"go-hris-workflow/internal/shared/apperror"
	"go-hris-workflow/internal/shared/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handler struct {
	service Service
	logger  *zap.Logger
}

func NewHandler(service Service, logger ...*zap.Logger) *Handler {
	l := zap.L().Named("rbac.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("rbac.handler")
	}
	return &Handler{service: service, logger: l}
}

func (h *Handler) Enforce(c *gin.Context) {
	var req domain.EnforceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, apperror.CodeInvalidInput, "Input tidak valid", err.Error())
		return
	}

	req.EmployeeID = strings.TrimSpace(req.EmployeeID)
	req.CompanyID = strings.TrimSpace(req.CompanyID)
	req.Resource = strings.TrimSpace(req.Resource)
	req.Action = strings.TrimSpace(req.Action)

	allowed, err := h.service.Enforce(req)
	if err != nil {
		h.logger.Error("enforce failed", zap.Error(err))
		response.Error(c, http.StatusInternalServerError, apperror.CodeInternalError, "Failed to evaluate policy", nil)
		return
	}

	response.Success(c, http.StatusOK, domain.EnforceResponse{Allowed: allowed}, nil)
}

// MyRoles lists the caller's roles in their company.
func (h *Handler) MyRoles(c *gin.Context) {
	companyID := c.GetString("company_id")
	employeeID := c.GetString("employee_id")

	roles, err := h.service.RolesFor(companyID, employeeID)
	if err != nil {
		h.logger.Error("list roles failed", zap.String("employee_id", employeeID), zap.Error(err))
		response.Error(c, http.StatusInternalServerError, apperror.CodeInternalError, "Failed to load roles", nil)
		return
	}

	response.Success(c, http.StatusOK, domain.RolesResponse{EmployeeID: employeeID, Roles: roles}, nil)
}
