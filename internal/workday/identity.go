package workday

import (
	"context"
	"net/http"
	"net/url"

	"github.com/marcus-qen/hragent/internal/record"
)

// SubjectContext identifies the caller inside the backend's data model.
type SubjectContext struct {
	// SubjectKey is the worker key used for worker searches.
	SubjectKey string `json:"workerId"`
	// BackendID is the worker's Workday ID used in resource paths.
	BackendID string `json:"workdayId"`
}

// ResolveContext returns the caller's identifiers, performing the
// current-user report lookup on first use only. A failed lookup caches nothing.
func (c *Client) ResolveContext(ctx context.Context) (SubjectContext, error) {
	if c.subject != nil {
		return *c.subject, nil
	}

	payload, err := c.Call(ctx, Request{
		Resource: "worker_search",
		Method:   http.MethodGet,
		URL:      c.endpoints.WorkerSearchURL,
	})
	if err != nil {
		return SubjectContext{}, err
	}

	entries := record.Collection(payload, "Report_Entry")
	if len(entries) == 0 {
		return SubjectContext{}, &BackendError{
			Message: "Workday worker search report returned no entries",
			Cause:   ErrNoReportEntries,
		}
	}

	entry := entries[0]
	subjectKey := entry.FirstStr("Current_User", "current_user")
	backendID := entry.FirstStr("workdayID", "workdayId")
	if subjectKey == nil || backendID == nil {
		return SubjectContext{}, &BackendError{
			Message: "Worker search response did not include expected identifiers",
			Payload: map[string]any(entry),
			Cause:   ErrMissingIdentifiers,
		}
	}

	c.subject = &SubjectContext{SubjectKey: *subjectKey, BackendID: *backendID}
	return *c.subject, nil
}

// WorkerProfile returns the caller's worker record, fetched at most once per client.
func (c *Client) WorkerProfile(ctx context.Context) (record.Record, error) {
	if c.profile != nil {
		return c.profile, nil
	}

	subject, err := c.ResolveContext(ctx)
	if err != nil {
		return nil, err
	}

	payload, err := c.Call(ctx, Request{
		Resource: "workers",
		Method:   http.MethodGet,
		URL:      c.endpoints.WorkersAPIURL,
		Query:    url.Values{"search": {"'" + subject.SubjectKey + "'"}},
	})
	if err != nil {
		return nil, err
	}

	workers := record.Collection(payload, "data")
	if len(workers) == 0 {
		return nil, &BackendError{
			Message: "Worker search did not return any results",
			Payload: payload,
			Cause:   ErrWorkerNotFound,
		}
	}

	c.profile = workers[0]
	return c.profile, nil
}
