package workflow

import (
	"net/http"
	"strings"

	"go-hris-workflow/internal/middleware"
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
	l := zap.L().Named("workflow.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("workflow.handler")
	}
	return &Handler{service: service, logger: l}
}

func (h *Handler) writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	h.logger.Warn("approval request failed",
		zap.String("method", c.Request.Method),
		zap.String("path", c.FullPath()),
		zap.Int("status", httpErr.Status),
		zap.String("code", httpErr.Code),
		zap.Error(err),
	)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

func (h *Handler) writeBindError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(apperror.MapValidationError(err))
	response.Error(c, http.StatusBadRequest, httpErr.Code, httpErr.Message, err.Error())
}

func actorFrom(c *gin.Context) (companyID, actorID string) {
	return c.GetString(string(middleware.ContextCompanyID)), c.GetString(string(middleware.ContextEmployeeID))
}

func (h *Handler) Submit(c *gin.Context) {
	companyID, actorID := actorFrom(c)
	h.logger.Debug("http submit approval", zap.String("company_id", companyID), zap.String("requester_id", actorID))

	var req SubmitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("http submit approval validation failed", zap.Error(err))
		h.writeBindError(c, err)
		return
	}
	req.Type = RequestType(strings.ToUpper(strings.TrimSpace(string(req.Type))))

	resp, err := h.service.Submit(c.Request.Context(), companyID, actorID, req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, resp, nil)
}

func (h *Handler) List(c *gin.Context) {
	companyID, actorID := actorFrom(c)
	h.logger.Debug("http list approvals", zap.String("company_id", companyID))

	var q ListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		h.writeBindError(c, err)
		return
	}
	q.Type = RequestType(strings.ToUpper(strings.TrimSpace(string(q.Type))))
	if q.Page < 1 {
		q.Page = 1
	}
	if q.Limit < 1 {
		q.Limit = 10
	}

	resp, total, err := h.service.List(c.Request.Context(), companyID, actorID, q)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	meta := response.NewPaginationMeta(total, q.Page, q.Limit)
	response.Success(c, http.StatusOK, resp, &meta)
}

func (h *Handler) GetById(c *gin.Context) {
	companyID, actorID := actorFrom(c)
	id := c.Param("id")
	h.logger.Debug("http get approval", zap.String("company_id", companyID), zap.String("approval_id", id))

	resp, err := h.service.Get(c.Request.Context(), companyID, actorID, id)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) GetByHumanID(c *gin.Context) {
	companyID, actorID := actorFrom(c)

	resp, err := h.service.GetByHumanID(c.Request.Context(), companyID, actorID, c.Param("human_id"))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) History(c *gin.Context) {
	companyID, actorID := actorFrom(c)
	id := c.Param("id")

	resp, err := h.service.History(c.Request.Context(), companyID, actorID, id)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Decide(c *gin.Context) {
	companyID, actorID := actorFrom(c)
	id := c.Param("id")
	h.logger.Debug("http decide approval",
		zap.String("company_id", companyID),
		zap.String("approval_id", id),
		zap.String("actor_id", actorID),
	)

	var req DecisionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("http decide approval validation failed", zap.Error(err))
		h.writeBindError(c, err)
		return
	}
	req.Action = Action(strings.ToLower(strings.TrimSpace(string(req.Action))))

	resp, err := h.service.Decide(c.Request.Context(), companyID, actorID, id, req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}
