package app

import (
	"database/sql"

	"go-hris-workflow/internal/audit"
	"go-hris-workflow/internal/config"
	"go-hris-workflow/internal/employee"
	"go-hris-workflow/internal/messaging/kafka"
	"go-hris-workflow/internal/position"
	"go-hris-workflow/internal/rbac"
	"go-hris-workflow/internal/rbac/infra"
	"go-hris-workflow/internal/shared/counter"
	"go-hris-workflow/internal/workflow"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// modules holds the wired services shared by the api and the worker.
type modules struct {
	rbac     rbac.Service
	position position.Service
	employee employee.Service
	workflow workflow.Service
	outbox   kafka.OutboxRepository
}

func buildModules(
	cfg config.Config,
	db *sql.DB,
	gormDB *gorm.DB,
	rdb *redis.Client,
	logger *zap.Logger,
) (*modules, error) {
	// --- Repositories ---
	rbacRepo := rbac.NewRepository(gormDB)
	positionRepo := position.NewRepository(gormDB)
	employeeRepo := employee.NewRepository(gormDB)
	auditRepo := audit.NewRepository(gormDB)
	workflowRepo := workflow.NewRepository(gormDB)
	counterRepo := counter.NewRepository(gormDB)
	outboxRepo := kafka.NewOutboxRepository(db)

	// --- RBAC Core ---
	enforcer, err := infra.NewEnforcer(cfg.RBACModelPath)
	if err != nil {
		return nil, err
	}
	rbacService := rbac.NewService(rbacRepo, enforcer, logger)

	// --- Services ---
	resolver := position.NewResolver(positionRepo)
	positionService := position.NewService(db, positionRepo, rdb, logger)
	employeeService := employee.NewServiceWithOutbox(db, employeeRepo, counterRepo, resolver, outboxRepo, rdb, logger)
	recorder := audit.NewRecorder(auditRepo, logger)

	workflowService := workflow.NewService(workflow.Deps{
		DB:        db,
		Repo:      workflowRepo,
		Counter:   counterRepo,
		Recorder:  recorder,
		Outbox:    outboxRepo,
		Roles:     rbacService,
		Employees: employeeService,
		Resolver:  resolver,
		Effects:   workflow.DefaultEffects(employeeService, positionService, employeeService, outboxRepo),
	}, logger)

	return &modules{
		rbac:     rbacService,
		position: positionService,
		employee: employeeService,
		workflow: workflowService,
		outbox:   outboxRepo,
	}, nil
}

func registerRoutes(router *gin.Engine, m *modules, rdb *redis.Client, logger *zap.Logger) {
	// --- Handlers ---
	positionHandler := position.NewHandler(m.position, logger)
	employeeHandler := employee.NewHandler(m.employee, logger)
	workflowHandler := workflow.NewHandler(m.workflow, logger)
	rbacHandler := rbac.NewHandler(m.rbac, logger)

	// --- Routes Registration ---
	api := router.Group("/api/v1")
	{
		position.RegisterRoutes(api, positionHandler, m.rbac)
		employee.RegisterRoutes(api, employeeHandler, m.rbac, logger)
		workflow.RegisterRoutes(api, workflowHandler, m.rbac, rdb, logger)
	}

	rbac.RegisterRoutes(router, rbacHandler)
}
