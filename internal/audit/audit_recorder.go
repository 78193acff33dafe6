package audit

import (
	"context"
	"database/sql"
	"fmt"
	"sort"

	auditerrors "go-hris-workflow/internal/audit/errors"
	"go-hris-workflow/internal/shared/apperror"
	"go-hris-workflow/internal/shared/contextutil"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Recorder appends transition entries and answers history queries.
type Recorder interface {
	WithTx(tx *sql.Tx) Recorder
	Record(ctx context.Context, entry Entry) error
	History(ctx context.Context, companyID, requestID string) ([]Entry, error)
}

type recorder struct {
	repo   Repository
	logger *zap.Logger
}

func NewRecorder(repo Repository, logger ...*zap.Logger) Recorder {
	l := zap.L().Named("audit.recorder")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("audit.recorder")
	}
	return &recorder{repo: repo, logger: l}
}

func (r *recorder) WithTx(tx *sql.Tx) Recorder {
	return &recorder{repo: r.repo.WithTx(tx), logger: r.logger}
}

func (r *recorder) Record(ctx context.Context, entry Entry) error {
	if err := validateEntry(entry); err != nil {
		return err
	}
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}

	if err := r.repo.Append(ctx, &entry); err != nil {
		r.logger.Error("append audit entry failed",
			zap.String("request_id", contextutil.GetRequestID(ctx)),
			zap.String("approval_id", entry.RequestID.String()),
			zap.String("action", entry.Action),
			zap.Error(err),
		)
		return err
	}

	r.logger.Debug("audit entry appended",
		zap.String("request_id", contextutil.GetRequestID(ctx)),
		zap.String("human_id", entry.HumanID),
		zap.String("action", entry.Action),
		zap.String("from", entry.FromStatus),
		zap.String("to", entry.ToStatus),
	)
	return nil
}

func (r *recorder) History(ctx context.Context, companyID, requestID string) ([]Entry, error) {
	entries, err := r.repo.ListByRequest(ctx, companyID, requestID)
	if err != nil {
		r.logger.Error("list audit entries failed",
			zap.String("request_id", contextutil.GetRequestID(ctx)),
			zap.String("approval_id", requestID),
			zap.Error(err),
		)
		return nil, err
	}
	return entries, nil
}

func validateEntry(e Entry) error {
	missing := ""
	switch {
	case e.CompanyID == uuid.Nil:
		missing = "company_id"
	case e.RequestID == uuid.Nil:
		missing = "request_id"
	case e.Action == "":
		missing = "action"
	case e.ToStatus == "":
		missing = "to_status"
	case e.ActorID == "":
		missing = "actor_id"
	case e.ActorKind != ActorKindEmployee && e.ActorKind != ActorKindSystem:
		missing = "actor_kind"
	case e.OccurredAt.IsZero():
		missing = "occurred_at"
	}
	if missing == "" {
		return nil
	}
	return apperror.Wrap(fmt.Errorf("%s is missing", missing),
		auditerrors.ErrInvalidEntry.Code, auditerrors.ErrInvalidEntry.Message, auditerrors.ErrInvalidEntry.HTTPStatus)
}

// FromRequest rebuilds a trail from the fields stored on the request row:
// the submission, each decided step and the resolution. It is used for rows
// that have no ledger entries.
func FromRequest(s Snapshot) []Entry {
	entries := []Entry{{
		CompanyID:  s.CompanyID,
		RequestID:  s.RequestID,
		HumanID:    s.HumanID,
		Action:     ActionSubmitted,
		ToStatus:   s.InitialStatus,
		ActorID:    s.RequesterID,
		ActorKind:  ActorKindEmployee,
		OccurredAt: s.SubmittedAt,
	}}

	decisions := append([]Decision(nil), s.Decisions...)
	sort.SliceStable(decisions, func(i, j int) bool {
		return decisions[i].DecidedAt.Before(decisions[j].DecidedAt)
	})
	for _, d := range decisions {
		kind := ActorKindEmployee
		if d.DecidedBy == ActorKindSystem {
			kind = ActorKindSystem
		}
		entries = append(entries, Entry{
			CompanyID:  s.CompanyID,
			RequestID:  s.RequestID,
			HumanID:    s.HumanID,
			Action:     d.Step + ":" + d.Status,
			ToStatus:   d.Status,
			ActorID:    d.DecidedBy,
			ActorKind:  kind,
			Comment:    d.Comment,
			OccurredAt: d.DecidedAt,
		})
	}

	if s.ProcessedAt != nil {
		entries = append(entries, Entry{
			CompanyID:  s.CompanyID,
			RequestID:  s.RequestID,
			HumanID:    s.HumanID,
			Action:     "RESOLVED",
			ToStatus:   s.Status,
			ActorKind:  ActorKindSystem,
			Comment:    s.ResolutionComment,
			OccurredAt: *s.ProcessedAt,
		})
	}
	return entries
}
