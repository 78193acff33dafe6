package position

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	positionerrors "go-hris-workflow/internal/position/errors"
	"go-hris-workflow/internal/shared/contextutil"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"
)

const PositionAllKeyPrefix = "positions:all:"

func GetPositionAllKey(companyID string) string {
	return PositionAllKeyPrefix + companyID
}

type Service interface {
	Create(ctx context.Context, companyID string, req CreatePositionRequest) (PositionResponse, error)
	GetAll(ctx context.Context, companyID string) ([]PositionResponse, error)
	GetByID(ctx context.Context, companyID, id string) (PositionResponse, error)
	GetSupervisor(ctx context.Context, companyID, id string) (SupervisorResponse, error)
	Update(ctx context.Context, companyID, id string, req UpdatePositionRequest) (PositionResponse, error)
	Reparent(ctx context.Context, companyID, id string, reportsToPositionID *string) (PositionResponse, error)
	Delete(ctx context.Context, companyID, id string) error
}

type service struct {
	db     *sql.DB
	repo   Repository
	rdb    *redis.Client
	sf     *singleflight.Group
	logger *zap.Logger
}

func NewService(db *sql.DB, repo Repository, rdb *redis.Client, logger ...*zap.Logger) Service {
	l := zap.L().Named("position.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("position.service")
	}
	return &service{db: db, repo: repo, rdb: rdb, sf: &singleflight.Group{}, logger: l}
}

func (s *service) Create(
	ctx context.Context,
	companyID string,
	req CreatePositionRequest,
) (PositionResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	s.logger.Debug("create position requested",
		zap.String("request_id", rid),
		zap.String("company_id", companyID),
		zap.String("name", req.Name),
	)

	companyUUID, err := uuid.Parse(companyID)
	if err != nil {
		return PositionResponse{}, positionerrors.ErrInvalidCompanyID
	}
	departmentID, err := uuid.Parse(req.DepartmentID)
	if err != nil {
		return PositionResponse{}, positionerrors.ErrInvalidDepartmentID
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("create position begin tx failed", zap.String("request_id", rid), zap.Error(err))
		return PositionResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	post := &Position{
		ID:           uuid.New(),
		Name:         req.Name,
		CompanyID:    companyUUID,
		DepartmentID: departmentID,
	}
	// A new position has no reports yet, so any existing parent is cycle free.
	if req.ReportsToPositionID != nil && *req.ReportsToPositionID != "" {
		parentID, err := s.requireParent(ctx, qtx, companyID, *req.ReportsToPositionID)
		if err != nil {
			return PositionResponse{}, err
		}
		post.ReportsToPositionID = &parentID
	}

	if err := qtx.Create(ctx, post); err != nil {
		s.logger.Error("create position persist failed", zap.String("request_id", rid), zap.Error(err))
		return PositionResponse{}, mapRepositoryError(err)
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("create position commit failed", zap.String("request_id", rid), zap.Error(err))
		return PositionResponse{}, err
	}

	s.invalidate(ctx, companyID)
	s.logger.Info("create position success",
		zap.String("request_id", rid),
		zap.String("position_id", post.ID.String()),
	)

	return mapToResponse(*post), nil
}

func (s *service) GetAll(
	ctx context.Context,
	companyID string,
) ([]PositionResponse, error) {
	cacheKey := GetPositionAllKey(companyID)

	if s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, cacheKey).Result(); err == nil {
			var resp []PositionResponse
			if err := json.Unmarshal([]byte(cached), &resp); err == nil {
				return resp, nil
			}
		}
	}

	v, err, _ := s.sf.Do(cacheKey, func() (interface{}, error) {
		posts, err := s.repo.FindAllByCompany(ctx, companyID)
		if err != nil {
			return nil, mapRepositoryError(err)
		}

		resp := mapToListResponse(posts)

		// master data, 30 minutes is enough
		if s.rdb != nil {
			if jsonData, err := json.Marshal(resp); err == nil {
				s.rdb.Set(ctx, cacheKey, jsonData, 30*time.Minute)
			}
		}

		return resp, nil
	})
	if err != nil {
		s.logger.Error("get all positions failed", zap.String("company_id", companyID), zap.Error(err))
		return nil, err
	}

	return v.([]PositionResponse), nil
}

func (s *service) GetByID(
	ctx context.Context,
	companyID, id string,
) (PositionResponse, error) {
	post, err := s.repo.FindByIDAndCompany(ctx, companyID, id)
	if err != nil {
		return PositionResponse{}, mapRepositoryError(err)
	}

	return mapToResponse(*post), nil
}

func (s *service) GetSupervisor(ctx context.Context, companyID, id string) (SupervisorResponse, error) {
	resolver := NewResolver(s.repo)

	supervisor, err := resolver.ResolveSupervisorPosition(ctx, companyID, id)
	if err != nil {
		return SupervisorResponse{}, err
	}

	resp := SupervisorResponse{PositionID: id, TopLevel: supervisor == nil}
	if supervisor == nil {
		return resp, nil
	}

	sid := supervisor.String()
	resp.SupervisorPositionID = &sid

	chain, err := resolver.ReportingChain(ctx, companyID, id)
	if err != nil {
		s.logger.Warn("get reporting chain failed",
			zap.String("position_id", id),
			zap.Error(err),
		)
		return resp, nil
	}
	for _, p := range chain {
		resp.Chain = append(resp.Chain, p.String())
	}
	return resp, nil
}

func (s *service) Update(
	ctx context.Context,
	companyID, id string,
	req UpdatePositionRequest,
) (PositionResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	s.logger.Debug("update position requested",
		zap.String("request_id", rid),
		zap.String("company_id", companyID),
		zap.String("position_id", id),
	)

	departmentID, err := uuid.Parse(req.DepartmentID)
	if err != nil {
		return PositionResponse{}, positionerrors.ErrInvalidDepartmentID
	}

	return s.mutate(ctx, companyID, id, func(qtx Repository, post *Position) error {
		post.Name = req.Name
		post.DepartmentID = departmentID
		return s.setParent(ctx, qtx, companyID, post, req.ReportsToPositionID)
	})
}

// Reparent changes only the reports_to link. It is the write path used when
// an approved organization-structure change is applied.
func (s *service) Reparent(
	ctx context.Context,
	companyID, id string,
	reportsToPositionID *string,
) (PositionResponse, error) {
	s.logger.Debug("reparent position requested",
		zap.String("request_id", contextutil.GetRequestID(ctx)),
		zap.String("position_id", id),
	)

	return s.mutate(ctx, companyID, id, func(qtx Repository, post *Position) error {
		return s.setParent(ctx, qtx, companyID, post, reportsToPositionID)
	})
}

func (s *service) Delete(
	ctx context.Context,
	companyID, id string,
) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	reports, err := qtx.CountDirectReports(ctx, companyID, id)
	if err != nil {
		return mapRepositoryError(err)
	}
	if reports > 0 {
		return positionerrors.ErrPositionHasReports
	}

	if err := qtx.Delete(ctx, companyID, id); err != nil {
		s.logger.Error("delete position failed", zap.String("position_id", id), zap.Error(err))
		return mapRepositoryError(err)
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	s.invalidate(ctx, companyID)
	s.logger.Info("delete position success", zap.String("position_id", id))
	return nil
}

func (s *service) mutate(
	ctx context.Context,
	companyID, id string,
	apply func(qtx Repository, post *Position) error,
) (PositionResponse, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("update position begin tx failed", zap.Error(err))
		return PositionResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	post, err := qtx.FindByIDAndCompany(ctx, companyID, id)
	if err != nil {
		return PositionResponse{}, mapRepositoryError(err)
	}

	if err := apply(qtx, post); err != nil {
		s.logger.Warn("update position rejected", zap.String("position_id", id), zap.Error(err))
		return PositionResponse{}, err
	}

	if err := qtx.Update(ctx, post); err != nil {
		s.logger.Error("update position persist failed", zap.String("position_id", id), zap.Error(err))
		return PositionResponse{}, mapRepositoryError(err)
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("update position commit failed", zap.Error(err))
		return PositionResponse{}, err
	}

	s.invalidate(ctx, companyID)
	s.logger.Info("update position success", zap.String("position_id", id))

	return mapToResponse(*post), nil
}

// setParent keeps the reporting graph acyclic: the new parent's chain must
// not pass through the position being moved.
func (s *service) setParent(
	ctx context.Context,
	qtx Repository,
	companyID string,
	post *Position,
	reportsTo *string,
) error {
	if reportsTo == nil || *reportsTo == "" {
		post.ReportsToPositionID = nil
		return nil
	}

	parentID, err := s.requireParent(ctx, qtx, companyID, *reportsTo)
	if err != nil {
		return err
	}
	if parentID == post.ID {
		return positionerrors.ErrReportingCycle
	}

	chain, err := NewResolver(qtx).ReportingChain(ctx, companyID, parentID.String())
	if err != nil {
		return err
	}
	for _, p := range chain {
		if p == post.ID {
			return positionerrors.ErrReportingCycle
		}
	}

	post.ReportsToPositionID = &parentID
	return nil
}

func (s *service) requireParent(ctx context.Context, qtx Repository, companyID, raw string) (uuid.UUID, error) {
	parentID, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, positionerrors.ErrInvalidPositionID
	}
	if _, err := qtx.FindByIDAndCompany(ctx, companyID, raw); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return uuid.Nil, positionerrors.ErrReportsToNotFound
		}
		return uuid.Nil, err
	}
	return parentID, nil
}

func (s *service) invalidate(ctx context.Context, companyID string) {
	if s.rdb == nil {
		return
	}
	cacheKey := GetPositionAllKey(companyID)
	if err := s.rdb.Del(ctx, cacheKey).Err(); err != nil {
		s.logger.Error("failed to invalidate position cache",
			zap.String("key", cacheKey),
			zap.Error(err),
		)
	}
}

func mapRepositoryError(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return positionerrors.ErrPositionNotFound
	}
	return err
}

func mapToResponse(post Position) PositionResponse {
	resp := PositionResponse{
		ID:        post.ID.String(),
		Name:      post.Name,
		CompanyID: post.CompanyID.String(),
	}
	if post.DepartmentID != uuid.Nil {
		resp.DepartmentID = post.DepartmentID.String()
	}
	if post.Department != nil {
		resp.DepartmentName = post.Department.Name
	}
	if post.ReportsToPositionID != nil {
		resp.ReportsToPositionID = post.ReportsToPositionID.String()
	}
	if !post.CreatedAt.IsZero() {
		resp.CreatedAt = post.CreatedAt.Format(time.RFC3339)
	}
	if !post.UpdatedAt.IsZero() {
		resp.UpdatedAt = post.UpdatedAt.Format(time.RFC3339)
	}
	return resp
}

func mapToListResponse(posts []Position) []PositionResponse {
	res := make([]PositionResponse, len(posts))
	for i, p := range posts {
		res[i] = mapToResponse(p)
	}
	return res
}
