package hr

import (
	"context"
	"sync"

	"github.com/marcus-qen/hragent/internal/record"
	"github.com/marcus-qen/hragent/internal/workday"
)

// fakeBackend serves canned payloads keyed by resource name and records every
// call it receives.
type fakeBackend struct {
	mu       sync.Mutex
	calls    []string
	subject  workday.SubjectContext
	profile  record.Record
	payloads map[string]any
	errs     map[string]error
	lessons  map[string][]record.Record

	submittedDays  []workday.TimeOffDay
	submittedTitle string
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		subject:  workday.SubjectContext{SubjectKey: "jdoe", BackendID: "wid-1"},
		payloads: map[string]any{},
		errs:     map[string]error{},
		lessons:  map[string][]record.Record{},
	}
}

func (f *fakeBackend) hit(name string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, name)
	return f.errs[name]
}

func (f *fakeBackend) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func (f *fakeBackend) called(name string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, call := range f.calls {
		if call == name {
			return true
		}
	}
	return false
}

func (f *fakeBackend) list(name string) (any, error) {
	if err := f.hit(name); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.payloads[name], nil
}

func (f *fakeBackend) ResolveContext(context.Context) (workday.SubjectContext, error) {
	if err := f.hit("resolve"); err != nil {
		return workday.SubjectContext{}, err
	}
	return f.subject, nil
}

func (f *fakeBackend) WorkerProfile(context.Context) (record.Record, error) {
	if err := f.hit("profile"); err != nil {
		return nil, err
	}
	return f.profile, nil
}

func (f *fakeBackend) LeaveBalances(_ context.Context, _ string) (any, error) {
	return f.list("balances")
}

func (f *fakeBackend) EligibleAbsenceTypes(_ context.Context, _ string) (any, error) {
	return f.list("eligible")
}

func (f *fakeBackend) LeavesOfAbsence(_ context.Context, _ string) (any, error) {
	return f.list("leaves")
}

func (f *fakeBackend) TimeOffDetails(_ context.Context, _ string) (any, error) {
	return f.list("details")
}

func (f *fakeBackend) TimeOffEntries(_ context.Context, _ string) (any, error) {
	return f.list("entries")
}

func (f *fakeBackend) InboxTasks(_ context.Context, _ string) (any, error) {
	return f.list("inbox")
}

func (f *fakeBackend) DirectReports(_ context.Context, _ string) (any, error) {
	return f.list("reports")
}

func (f *fakeBackend) PaySlips(_ context.Context, _ string) (any, error) {
	return f.list("payslips")
}

func (f *fakeBackend) LearningAssignments(_ context.Context, _ string) (any, error) {
	return f.list("assignments")
}

func (f *fakeBackend) SearchLearningContent(_ context.Context, _, _ []string) (record.Record, error) {
	payload, err := f.list("search")
	if err != nil {
		return nil, err
	}
	return record.From(payload), nil
}

func (f *fakeBackend) ContentLessons(_ context.Context, contentID string) ([]record.Record, error) {
	if err := f.hit("lessons:" + contentID); err != nil {
		return nil, err
	}
	return f.lessons[contentID], nil
}

func (f *fakeBackend) RequestTimeOff(_ context.Context, _ string, days []workday.TimeOffDay) (record.Record, error) {
	payload, err := f.list("request_time_off")
	if err != nil {
		return nil, err
	}
	f.submittedDays = days
	return record.From(payload), nil
}

func (f *fakeBackend) ChangeBusinessTitle(_ context.Context, _ string, title string) (record.Record, error) {
	payload, err := f.list("title")
	if err != nil {
		return nil, err
	}
	f.submittedTitle = title
	return record.From(payload), nil
}
