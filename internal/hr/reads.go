package hr

import (
	"context"

	"github.com/marcus-qen/hragent/internal/normalize"
	"github.com/marcus-qen/hragent/internal/record"
)

// Profile returns the caller's flattened worker profile.
func (s *Service) Profile(ctx context.Context) (normalize.Profile, error) {
	var profile normalize.Profile
	err := s.observe(ctx, OpGetWorker, func(ctx context.Context) error {
		worker, err := s.backend.WorkerProfile(ctx)
		if err != nil {
			return err
		}
		profile = normalize.WorkerProfile(worker)
		return nil
	})
	return profile, err
}

// listFor resolves the caller, makes one backend call and normalizes the reply.
func listFor[T any](
	ctx context.Context,
	s *Service,
	operation string,
	fetch func(context.Context, string) (any, error),
	normalizeFn func(any) []T,
) ([]T, error) {
	var items []T
	err := s.observe(ctx, operation, func(ctx context.Context) error {
		subject, err := s.backend.ResolveContext(ctx)
		if err != nil {
			return err
		}
		payload, err := fetch(ctx, subject.BackendID)
		if err != nil {
			return err
		}
		items = normalizeFn(payload)
		return nil
	})
	return items, err
}

func (s *Service) DirectReports(ctx context.Context) ([]normalize.DirectReport, error) {
	return listFor(ctx, s, OpGetDirectReports, s.backend.DirectReports, normalize.DirectReports)
}

func (s *Service) PaySlips(ctx context.Context) ([]normalize.PaySlip, error) {
	return listFor(ctx, s, OpGetPaySlips, s.backend.PaySlips, normalize.PaySlips)
}

func (s *Service) InboxTasks(ctx context.Context) ([]normalize.InboxTask, error) {
	return listFor(ctx, s, OpGetInboxTasks, s.backend.InboxTasks, normalize.InboxTasks)
}

func (s *Service) TimeOffEntries(ctx context.Context) ([]normalize.TimeOffEntry, error) {
	return listFor(ctx, s, OpGetTimeOffEntries, s.backend.TimeOffEntries, normalize.TimeOffEntries)
}

func (s *Service) LearningAssignments(ctx context.Context) ([]normalize.LearningAssignment, error) {
	return listFor(ctx, s, OpGetLearningAssignments, s.backend.LearningAssignments, normalize.LearningAssignments)
}

// TitleChange is the result of a business title change submission.
type TitleChange struct {
	Message       string        `json:"message"`
	ChangeDetails record.Record `json:"changeDetails"`
}

// ChangeBusinessTitle submits proposedTitle as the caller's new business title.
func (s *Service) ChangeBusinessTitle(ctx context.Context, proposedTitle string) (TitleChange, error) {
	var change TitleChange
	err := s.observe(ctx, OpChangeBusinessTitle, func(ctx context.Context) error {
		if proposedTitle == "" {
			return Invalidf("proposedBusinessTitle is required")
		}
		subject, err := s.backend.ResolveContext(ctx)
		if err != nil {
			return err
		}
		result, err := s.backend.ChangeBusinessTitle(ctx, subject.BackendID, proposedTitle)
		if err != nil {
			return err
		}
		change = TitleChange{
			Message:       "Business title change request submitted successfully",
			ChangeDetails: result,
		}
		return nil
	})
	return change, err
}

// DecodeTitleChange extracts proposedBusinessTitle from a JSON request body.
func DecodeTitleChange(body []byte) (string, error) {
	fields, err := decodeObject(body)
	if err != nil {
		return "", err
	}
	title := fields.Str("proposedBusinessTitle")
	if title == nil {
		return "", nil
	}
	return *title, nil
}

func decodeObject(body []byte) (record.Record, error) {
	v, err := record.Decode(body)
	if err != nil || !record.IsObject(v) {
		return nil, Invalidf("Request body must be valid JSON")
	}
	return record.From(v), nil
}
