package workflow

import (
	"go-hris-workflow/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	rbacService middleware.RBACService,
	rdb *redis.Client,
	logger *zap.Logger,
) {
	approvals := r.Group("/approvals")
	approvals.Use(middleware.AuthMiddleware())
	approvals.Use(middleware.ContextLogger(logger))
	{
		approvals.GET("",
			middleware.RateLimitByUser(3, 10),
			middleware.RBACAuthorize(rbacService, "approval", "read"),
			handler.List,
		)

		approvals.GET("/ref/:human_id",
			middleware.RateLimitByUser(3, 10),
			middleware.RBACAuthorize(rbacService, "approval", "read"),
			handler.GetByHumanID,
		)

		approvals.GET("/:id",
			middleware.RateLimitByUser(3, 10),
			middleware.RBACAuthorize(rbacService, "approval", "read"),
			handler.GetById,
		)

		approvals.GET("/:id/history",
			middleware.RateLimitByUser(3, 10),
			middleware.RBACAuthorize(rbacService, "approval", "read"),
			handler.History,
		)

		approvals.POST("",
			middleware.RateLimitByUser(0.5, 3),
			middleware.RBACAuthorize(rbacService, "approval", "create"),
			middleware.Idempotency(rdb, logger),
			handler.Submit,
		)

		approvals.POST("/:id/decisions",
			middleware.RateLimitByUser(1, 5),
			middleware.RBACAuthorize(rbacService, "approval", "decide"),
			handler.Decide,
		)
	}
}
