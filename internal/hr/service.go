// Package hr holds the gateway's operations. Each one resolves the caller,
// issues the backend calls it needs, and assembles a normalized result.
package hr

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/marcus-qen/hragent/internal/metrics"
	"github.com/marcus-qen/hragent/internal/record"
	"github.com/marcus-qen/hragent/internal/telemetry"
	"github.com/marcus-qen/hragent/internal/workday"
)

// Backend is the subset of the HR backend client the operations use.
// *workday.Client implements it.
type Backend interface {
	ResolveContext(ctx context.Context) (workday.SubjectContext, error)
	WorkerProfile(ctx context.Context) (record.Record, error)

	LeaveBalances(ctx context.Context, backendID string) (any, error)
	EligibleAbsenceTypes(ctx context.Context, backendID string) (any, error)
	LeavesOfAbsence(ctx context.Context, backendID string) (any, error)
	TimeOffDetails(ctx context.Context, backendID string) (any, error)
	TimeOffEntries(ctx context.Context, backendID string) (any, error)
	InboxTasks(ctx context.Context, backendID string) (any, error)
	DirectReports(ctx context.Context, backendID string) (any, error)
	PaySlips(ctx context.Context, backendID string) (any, error)
	LearningAssignments(ctx context.Context, backendID string) (any, error)

	SearchLearningContent(ctx context.Context, skills, topics []string) (record.Record, error)
	ContentLessons(ctx context.Context, contentID string) ([]record.Record, error)

	RequestTimeOff(ctx context.Context, backendID string, days []workday.TimeOffDay) (record.Record, error)
	ChangeBusinessTitle(ctx context.Context, backendID, proposedTitle string) (record.Record, error)
}

// Operation names used in logs, metrics and spans.
const (
	OpGetWorker              = "get_worker"
	OpGetLeaveOverview       = "get_leave_overview"
	OpBookLeave              = "book_leave"
	OpChangeBusinessTitle    = "change_business_title"
	OpGetDirectReports       = "get_direct_reports"
	OpGetPaySlips            = "get_pay_slips"
	OpGetInboxTasks          = "get_inbox_tasks"
	OpGetTimeOffEntries      = "get_time_off_entries"
	OpGetLearningAssignments = "get_learning_assignments"
	OpPrepareLeaveRequest    = "prepare_leave_request"
	OpSearchLearningContent  = "search_learning_content"
)

// Service runs operations for one caller. It is request-scoped: build one
// per inbound request around a Backend bound to that request's credential.
type Service struct {
	backend Backend
	logger  *zap.Logger
	surface string
	now     func() time.Time
}

// Option customizes a Service.
type Option func(*Service)

// WithClock overrides the clock used for date defaults.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// WithSurface labels telemetry with the inbound surface ("http" or "mcp").
func WithSurface(surface string) Option {
	return func(s *Service) {
		s.surface = surface
	}
}

// NewService wraps backend.
func NewService(backend Backend, logger *zap.Logger, opts ...Option) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Service{
		backend: backend,
		logger:  logger,
		surface: "http",
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// observe wraps one operation with a span, a duration metric and the
// "processing" log line.
func (s *Service) observe(ctx context.Context, operation string, fn func(context.Context) error) error {
	s.logger.Info("processing "+operation, zap.String("surface", s.surface))
	ctx, span := telemetry.StartOperationSpan(ctx, operation, s.surface)
	started := time.Now()

	err := fn(ctx)

	outcome := outcomeOf(err)
	metrics.RecordOperation(operation, outcome, time.Since(started))
	telemetry.EndOperationSpan(span, outcome, err)
	return err
}

func outcomeOf(err error) string {
	var (
		validationErr *ValidationError
		backendErr    *workday.BackendError
	)
	switch {
	case err == nil:
		return "success"
	case errors.As(err, &validationErr):
		return "invalid"
	case errors.As(err, &backendErr):
		return "backend_error"
	default:
		return "error"
	}
}
