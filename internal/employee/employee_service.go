package employee

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	employeeerrors "go-hris-workflow/internal/employee/errors"
	"go-hris-workflow/internal/events"
	"go-hris-workflow/internal/messaging/kafka"
	"go-hris-workflow/internal/position"
	positionerrors "go-hris-workflow/internal/position/errors"
	"go-hris-workflow/internal/shared/apperror"
	"go-hris-workflow/internal/shared/contextutil"
	"go-hris-workflow/internal/shared/counter"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const EmployeeOptionsKeyPrefix = "employees:options:"

func GetEmployeeOptionsKey(companyID string) string {
	return EmployeeOptionsKeyPrefix + companyID
}

type Service interface {
	Create(ctx context.Context, companyID string, req CreateEmployeeRequest) (EmployeeResponse, error)
	GetAll(ctx context.Context, companyID string) ([]EmployeeResponse, error)
	GetOptions(ctx context.Context, companyID string) ([]EmployeeResponse, error)
	GetByID(ctx context.Context, companyID, id string) (EmployeeResponse, error)
	PrimaryPosition(ctx context.Context, companyID, id string) (uuid.UUID, error)
	Update(ctx context.Context, companyID, id string, req UpdateEmployeeRequest) (EmployeeResponse, error)
	Delete(ctx context.Context, companyID, id string) error
	ApplyProfileChange(ctx context.Context, companyID, id string, changes map[string]string) error
	ResyncSupervisors(ctx context.Context, companyID, positionID string) (int64, error)
}

type service struct {
	db       *sql.DB
	repo     Repository
	counter  counter.Repository
	resolver position.Resolver
	outbox   kafka.OutboxRepository
	rdb      *redis.Client
	sf       *singleflight.Group
	logger   *zap.Logger
}

func NewService(
	db *sql.DB,
	repo Repository,
	counter counter.Repository,
	resolver position.Resolver,
	rdb *redis.Client,
	logger ...*zap.Logger,
) Service {
	return NewServiceWithOutbox(db, repo, counter, resolver, nil, rdb, logger...)
}

func NewServiceWithOutbox(
	db *sql.DB,
	repo Repository,
	counter counter.Repository,
	resolver position.Resolver,
	outboxRepo kafka.OutboxRepository,
	rdb *redis.Client,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("employee.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("employee.service")
	}
	return &service{
		db:       db,
		repo:     repo,
		counter:  counter,
		resolver: resolver,
		outbox:   outboxRepo,
		rdb:      rdb,
		sf:       &singleflight.Group{},
		logger:   l,
	}
}

func (s *service) Create(
	ctx context.Context,
	companyID string,
	req CreateEmployeeRequest,
) (EmployeeResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	s.logger.Debug("create employee requested",
		zap.String("request_id", rid),
		zap.String("company_id", companyID),
		zap.String("position_id", req.PrimaryPositionID),
		zap.String("email", req.Email),
	)

	companyUUID, err := uuid.Parse(companyID)
	if err != nil {
		return EmployeeResponse{}, employeeerrors.ErrInvalidCompanyID
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("create employee begin tx failed", zap.String("request_id", rid), zap.Error(err))
		return EmployeeResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	positionID, departmentID, err := s.placement(ctx, qtx, companyID, req.PrimaryPositionID)
	if err != nil {
		return EmployeeResponse{}, err
	}
	supervisor, err := s.deriveSupervisor(ctx, companyID, req.PrimaryPositionID)
	if err != nil {
		return EmployeeResponse{}, err
	}

	if req.EmployeeNumber == "" {
		nextVal, err := s.counter.WithTx(tx).GetNextValue(ctx, companyID, counter.TypeEmployeeNumber)
		if err != nil {
			s.logger.Error("create employee generate number failed", zap.String("request_id", rid), zap.Error(err))
			return EmployeeResponse{}, err
		}
		req.EmployeeNumber = formatEmployeeNumber(nextVal)
	}

	empl := &Employee{
		ID:                   uuid.New(),
		CompanyID:            companyUUID,
		EmployeeNumber:       req.EmployeeNumber,
		FullName:             req.FullName,
		Email:                req.Email,
		Phone:                req.Phone,
		PrimaryPositionID:    positionID,
		PrimaryDepartmentID:  departmentID,
		SupervisorPositionID: supervisor,
	}

	if err := qtx.Create(ctx, empl); err != nil {
		s.logger.Error("create employee persist failed", zap.String("request_id", rid), zap.Error(err))
		return EmployeeResponse{}, mapRepositoryError(err)
	}

	if s.outbox != nil {
		event, err := kafka.NewOutboxEvent(rid, "employee", empl.ID.String(), "employee_created", events.EmployeeCreatedTopic,
			events.EmployeeCreatedEvent{
				EventType:  "employee_created",
				RequestID:  rid,
				EmployeeID: empl.ID.String(),
				CompanyID:  companyID,
				OccurredAt: time.Now().UTC(),
			})
		if err != nil {
			s.logger.Error("marshal event failed", zap.String("request_id", rid), zap.Error(err))
			return EmployeeResponse{}, err
		}
		if err := s.outbox.WithTx(tx).Create(ctx, event); err != nil {
			s.logger.Error("create employee outbox persist failed",
				zap.String("request_id", rid),
				zap.String("employee_id", empl.ID.String()),
				zap.Error(err),
			)
			return EmployeeResponse{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("commit failed", zap.String("request_id", rid), zap.Error(err))
		return EmployeeResponse{}, err
	}

	s.invalidateOptions(ctx, companyID)
	s.logger.Info("create employee success",
		zap.String("request_id", rid),
		zap.String("employee_id", empl.ID.String()),
		zap.Bool("has_supervisor", supervisor != nil),
	)

	return mapToResponse(*empl), nil
}

func (s *service) GetAll(
	ctx context.Context,
	companyID string,
) ([]EmployeeResponse, error) {
	s.logger.Debug("get all employees requested", zap.String("company_id", companyID))
	empls, err := s.repo.FindAllByCompany(ctx, companyID)
	if err != nil {
		s.logger.Error("get all employees failed", zap.Error(err))
		return nil, mapRepositoryError(err)
	}

	return mapToListResponse(empls), nil
}

func (s *service) GetOptions(ctx context.Context, companyID string) ([]EmployeeResponse, error) {
	cacheKey := GetEmployeeOptionsKey(companyID)

	if s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, cacheKey).Result(); err == nil {
			var resp []EmployeeResponse
			if json.Unmarshal([]byte(cached), &resp) == nil {
				return resp, nil
			}
		}
	}

	v, err, _ := s.sf.Do(cacheKey, func() (interface{}, error) {
		empls, err := s.repo.FindAllByCompany(ctx, companyID)
		if err != nil {
			return nil, mapRepositoryError(err)
		}

		resp := mapToListResponse(empls)
		if s.rdb != nil {
			if jsonData, err := json.Marshal(resp); err == nil {
				s.rdb.Set(ctx, cacheKey, jsonData, time.Hour)
			}
		}
		return resp, nil
	})
	if err != nil {
		return nil, err
	}

	return v.([]EmployeeResponse), nil
}

func (s *service) GetByID(
	ctx context.Context,
	companyID, id string,
) (EmployeeResponse, error) {
	s.logger.Debug("get employee by id requested",
		zap.String("company_id", companyID),
		zap.String("employee_id", id),
	)
	empl, err := s.find(ctx, s.repo, companyID, id)
	if err != nil {
		return EmployeeResponse{}, err
	}

	return mapToResponse(*empl), nil
}

// PrimaryPosition is the read the approval workflow needs to place a
// principal in the reporting graph.
func (s *service) PrimaryPosition(ctx context.Context, companyID, id string) (uuid.UUID, error) {
	empl, err := s.find(ctx, s.repo, companyID, id)
	if err != nil {
		return uuid.Nil, err
	}
	return empl.PrimaryPositionID, nil
}

func (s *service) Update(
	ctx context.Context,
	companyID, id string,
	req UpdateEmployeeRequest,
) (EmployeeResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	s.logger.Debug("update employee requested",
		zap.String("request_id", rid),
		zap.String("company_id", companyID),
		zap.String("employee_id", id),
		zap.String("position_id", req.PrimaryPositionID),
	)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("update employee begin tx failed", zap.String("request_id", rid), zap.Error(err))
		return EmployeeResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	empl, err := s.find(ctx, qtx, companyID, id)
	if err != nil {
		return EmployeeResponse{}, err
	}

	empl.FullName = req.FullName
	empl.Email = req.Email
	empl.Phone = req.Phone
	if err := s.movePosition(ctx, qtx, empl, req.PrimaryPositionID); err != nil {
		return EmployeeResponse{}, err
	}

	if err := qtx.Update(ctx, empl); err != nil {
		s.logger.Error("update employee persist failed", zap.String("request_id", rid), zap.Error(err))
		return EmployeeResponse{}, mapRepositoryError(err)
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("update employee commit failed", zap.String("request_id", rid), zap.Error(err))
		return EmployeeResponse{}, err
	}

	s.invalidateOptions(ctx, companyID)
	s.logger.Info("update employee success", zap.String("request_id", rid), zap.String("employee_id", id))

	return mapToResponse(*empl), nil
}

func (s *service) Delete(
	ctx context.Context,
	companyID, id string,
) error {
	rid := contextutil.GetRequestID(ctx)
	s.logger.Debug("delete employee requested",
		zap.String("request_id", rid),
		zap.String("company_id", companyID),
		zap.String("employee_id", id),
	)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("delete employee begin tx failed", zap.String("request_id", rid), zap.Error(err))
		return err
	}
	defer tx.Rollback()

	if err := s.repo.WithTx(tx).Delete(ctx, companyID, id); err != nil {
		s.logger.Error("delete employee failed", zap.String("request_id", rid), zap.Error(err))
		return mapRepositoryError(err)
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("delete employee commit failed", zap.String("request_id", rid), zap.Error(err))
		return err
	}

	s.invalidateOptions(ctx, companyID)
	s.logger.Info("delete employee success", zap.String("request_id", rid), zap.String("employee_id", id))
	return nil
}

// ApplyProfileChange writes the fields of an approved profile change. A
// change to primary_position_id rederives department and supervisor.
func (s *service) ApplyProfileChange(
	ctx context.Context,
	companyID, id string,
	changes map[string]string,
) error {
	rid := contextutil.GetRequestID(ctx)
	s.logger.Debug("apply profile change requested",
		zap.String("request_id", rid),
		zap.String("company_id", companyID),
		zap.String("employee_id", id),
		zap.Int("fields", len(changes)),
	)

	if err := ValidateProfileChanges(changes); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("apply profile change begin tx failed", zap.String("request_id", rid), zap.Error(err))
		return err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	empl, err := s.find(ctx, qtx, companyID, id)
	if err != nil {
		return err
	}

	for field, value := range changes {
		switch field {
		case ProfileFieldFullName:
			empl.FullName = value
		case ProfileFieldEmail:
			empl.Email = value
		case ProfileFieldPhone:
			empl.Phone = value
		}
	}
	if positionID, ok := changes[ProfileFieldPrimaryPosition]; ok {
		if err := s.movePosition(ctx, qtx, empl, positionID); err != nil {
			return err
		}
	}

	if err := qtx.Update(ctx, empl); err != nil {
		s.logger.Error("apply profile change persist failed", zap.String("request_id", rid), zap.Error(err))
		return mapRepositoryError(err)
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("apply profile change commit failed", zap.String("request_id", rid), zap.Error(err))
		return err
	}

	s.invalidateOptions(ctx, companyID)
	s.logger.Info("apply profile change success", zap.String("request_id", rid), zap.String("employee_id", id))
	return nil
}

// ResyncSupervisors rederives the supervisor of every holder of positionID,
// typically after the position was re-parented.
func (s *service) ResyncSupervisors(ctx context.Context, companyID, positionID string) (int64, error) {
	rid := contextutil.GetRequestID(ctx)
	s.logger.Debug("resync supervisors requested",
		zap.String("request_id", rid),
		zap.String("company_id", companyID),
		zap.String("position_id", positionID),
	)

	supervisor, err := s.resolver.ResolveSupervisorPosition(ctx, companyID, positionID)
	if err != nil {
		s.logger.Error("resync supervisors resolve failed", zap.String("request_id", rid), zap.Error(err))
		return 0, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("resync supervisors begin tx failed", zap.String("request_id", rid), zap.Error(err))
		return 0, err
	}
	defer tx.Rollback()

	updated, err := s.repo.WithTx(tx).UpdateSupervisorByPosition(ctx, companyID, positionID, supervisor)
	if err != nil {
		s.logger.Error("resync supervisors persist failed", zap.String("request_id", rid), zap.Error(err))
		return 0, err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("resync supervisors commit failed", zap.String("request_id", rid), zap.Error(err))
		return 0, err
	}

	if updated > 0 {
		s.invalidateOptions(ctx, companyID)
	}
	s.logger.Info("resync supervisors success",
		zap.String("request_id", rid),
		zap.String("position_id", positionID),
		zap.Int64("updated", updated),
	)
	return updated, nil
}

// ValidateProfileChanges rejects empty change sets, unknown fields and
// malformed values before anything is written.
func ValidateProfileChanges(changes map[string]string) error {
	if len(changes) == 0 {
		return apperror.RequiredField("changes")
	}
	for field, value := range changes {
		switch field {
		case ProfileFieldFullName:
			if value == "" {
				return apperror.RequiredField(field)
			}
		case ProfileFieldEmail:
			if err := apperror.Validator().Var(value, "required,email"); err != nil {
				return employeeerrors.ErrInvalidEmail
			}
		case ProfileFieldPhone:
		case ProfileFieldPrimaryPosition:
			if _, err := uuid.Parse(value); err != nil {
				return employeeerrors.ErrInvalidPosition
			}
		default:
			return employeeerrors.ErrUnsupportedProfileField
		}
	}
	return nil
}

func (s *service) find(ctx context.Context, repo Repository, companyID, id string) (*Employee, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, employeeerrors.ErrInvalidEmployeeID
	}
	empl, err := repo.FindByIDAndCompany(ctx, companyID, id)
	if err != nil {
		s.logger.Warn("find employee failed",
			zap.String("request_id", contextutil.GetRequestID(ctx)),
			zap.String("employee_id", id),
			zap.Error(err),
		)
		return nil, mapRepositoryError(err)
	}
	return empl, nil
}

// movePosition updates the primary position and, when it changed, the
// department and supervisor derived from it.
func (s *service) movePosition(ctx context.Context, qtx Repository, empl *Employee, positionID string) error {
	if positionID == empl.PrimaryPositionID.String() {
		return nil
	}
	companyID := empl.CompanyID.String()
	newPosition, departmentID, err := s.placement(ctx, qtx, companyID, positionID)
	if err != nil {
		return err
	}
	supervisor, err := s.deriveSupervisor(ctx, companyID, positionID)
	if err != nil {
		return err
	}
	empl.PrimaryPositionID = newPosition
	empl.PrimaryDepartmentID = departmentID
	empl.SupervisorPositionID = supervisor
	return nil
}

// placement resolves the position and its department inside the caller's tx.
func (s *service) placement(ctx context.Context, qtx Repository, companyID, positionID string) (uuid.UUID, uuid.UUID, error) {
	positionUUID, err := uuid.Parse(positionID)
	if err != nil {
		return uuid.Nil, uuid.Nil, employeeerrors.ErrInvalidPosition
	}
	departmentID, err := qtx.GetDepartmentIDByPosition(ctx, companyID, positionID)
	if err != nil {
		s.logger.Error("get department by position failed", zap.String("position_id", positionID), zap.Error(err))
		return uuid.Nil, uuid.Nil, err
	}
	departmentUUID, err := uuid.Parse(departmentID)
	if err != nil {
		s.logger.Warn("position not found in company",
			zap.String("company_id", companyID),
			zap.String("position_id", positionID),
		)
		return uuid.Nil, uuid.Nil, employeeerrors.ErrInvalidPosition
	}
	return positionUUID, departmentUUID, nil
}

// deriveSupervisor returns the supervisor position for a holder of
// positionID. An unresolvable position is not fatal: the employee keeps an
// empty supervisor and a warning is logged.
func (s *service) deriveSupervisor(ctx context.Context, companyID, positionID string) (*uuid.UUID, error) {
	supervisor, err := s.resolver.ResolveSupervisorPosition(ctx, companyID, positionID)
	if err != nil {
		if errors.Is(err, positionerrors.ErrPositionNotFound) {
			s.logger.Warn("supervisor derivation skipped",
				zap.String("request_id", contextutil.GetRequestID(ctx)),
				zap.String("company_id", companyID),
				zap.String("position_id", positionID),
				zap.Error(err),
			)
			return nil, nil
		}
		return nil, err
	}
	return supervisor, nil
}

func (s *service) invalidateOptions(ctx context.Context, companyID string) {
	if s.rdb == nil {
		return
	}
	cacheKey := GetEmployeeOptionsKey(companyID)
	if err := s.rdb.Del(ctx, cacheKey).Err(); err != nil {
		s.logger.Error("failed to invalidate employee options cache",
			zap.Error(err),
			zap.String("key", cacheKey),
		)
	}
}

func formatEmployeeNumber(v int64) string {
	return fmt.Sprintf("EMP-%06d", v)
}

func mapToResponse(empl Employee) EmployeeResponse {
	resp := EmployeeResponse{
		ID:                  empl.ID.String(),
		EmployeeNumber:      empl.EmployeeNumber,
		FullName:            empl.FullName,
		Email:               empl.Email,
		Phone:               empl.Phone,
		CompanyID:           empl.CompanyID.String(),
		PrimaryPositionID:   empl.PrimaryPositionID.String(),
		PrimaryDepartmentID: empl.PrimaryDepartmentID.String(),
	}
	if empl.SupervisorPositionID != nil {
		resp.SupervisorPositionID = empl.SupervisorPositionID.String()
	}
	return resp
}

func mapToListResponse(empls []Employee) []EmployeeResponse {
	res := make([]EmployeeResponse, len(empls))
	for i, e := range empls {
		res[i] = mapToResponse(e)
	}
	return res
}
