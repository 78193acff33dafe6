package position

import (
	"context"
	"errors"

	positionerrors "go-hris-workflow/internal/position/errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// maxChainDepth bounds ReportingChain so a corrupted graph cannot loop forever.
const maxChainDepth = 64

// Lookup is the read side the resolver needs. Repository satisfies it.
type Lookup interface {
	FindByIDAndCompany(ctx context.Context, companyID string, id string) (*Position, error)
}

// Resolver derives supervisors from the position reporting graph. It never
// writes to positions.
type Resolver interface {
	// ResolveSupervisorPosition returns the position's reports_to link, a
	// single hop. Top-level positions resolve to nil with no error; an
	// unknown position fails with ErrPositionNotFound.
	ResolveSupervisorPosition(ctx context.Context, companyID, positionID string) (*uuid.UUID, error)
	// ReportingChain walks every hop up to the root, nearest first.
	ReportingChain(ctx context.Context, companyID, positionID string) ([]uuid.UUID, error)
}

type resolver struct {
	lookup Lookup
}

func NewResolver(lookup Lookup) Resolver {
	return &resolver{lookup: lookup}
}

func (r *resolver) ResolveSupervisorPosition(ctx context.Context, companyID, positionID string) (*uuid.UUID, error) {
	post, err := r.find(ctx, companyID, positionID)
	if err != nil {
		return nil, err
	}
	if post.ReportsToPositionID == nil {
		return nil, nil
	}
	supervisor := *post.ReportsToPositionID
	return &supervisor, nil
}

func (r *resolver) ReportingChain(ctx context.Context, companyID, positionID string) ([]uuid.UUID, error) {
	start, err := r.find(ctx, companyID, positionID)
	if err != nil {
		return nil, err
	}

	chain := make([]uuid.UUID, 0, 4)
	visited := map[uuid.UUID]struct{}{start.ID: {}}
	next := start.ReportsToPositionID

	for next != nil {
		if _, seen := visited[*next]; seen || len(chain) >= maxChainDepth {
			return chain, positionerrors.ErrReportingCycle
		}
		visited[*next] = struct{}{}
		chain = append(chain, *next)

		post, err := r.find(ctx, companyID, next.String())
		if err != nil {
			return chain, err
		}
		next = post.ReportsToPositionID
	}

	return chain, nil
}

func (r *resolver) find(ctx context.Context, companyID, positionID string) (*Position, error) {
	if _, err := uuid.Parse(positionID); err != nil {
		return nil, positionerrors.ErrPositionNotFound
	}
	post, err := r.lookup.FindByIDAndCompany(ctx, companyID, positionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, positionerrors.ErrPositionNotFound
		}
		return nil, err
	}
	if post == nil {
		return nil, positionerrors.ErrPositionNotFound
	}
	return post, nil
}
