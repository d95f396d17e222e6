package workday

import (
	"context"
	"net/http"
	"net/url"

	"github.com/marcus-qen/hragent/internal/record"
)

// learningAssignmentWorkerParam filters the learning-assignments report by worker.
const learningAssignmentWorkerParam = "Worker_s__for_Learning_Assignment!WID"

// TimeOffDay is one calendar day of a time-off request.
type TimeOffDay struct {
	Date          string         `json:"date"`
	Start         string         `json:"start"`
	End           string         `json:"end"`
	DailyQuantity string         `json:"dailyQuantity"`
	Comment       string         `json:"comment"`
	TimeOffType   TimeOffTypeRef `json:"timeOffType"`
}

// TimeOffTypeRef references an eligible absence type by id.
type TimeOffTypeRef struct {
	ID string `json:"id"`
}

func workerPath(base, backendID, suffix string) string {
	return base + "/workers/" + url.PathEscape(backendID) + "/" + suffix
}

func (c *Client) get(ctx context.Context, resource, endpoint string, query url.Values) (any, error) {
	return c.Call(ctx, Request{Resource: resource, Method: http.MethodGet, URL: endpoint, Query: query})
}

// LeaveBalances fetches absence plan balances for backendID.
func (c *Client) LeaveBalances(ctx context.Context, backendID string) (any, error) {
	return c.get(ctx, "balances", c.endpoints.AbsenceAPIBase+"/balances", url.Values{"worker": {backendID}})
}

// EligibleAbsenceTypes fetches the absence types backendID may book.
func (c *Client) EligibleAbsenceTypes(ctx context.Context, backendID string) (any, error) {
	return c.get(ctx, "eligible_absence_types", workerPath(c.endpoints.AbsenceAPIBase, backendID, "eligibleAbsenceTypes"), nil)
}

// LeavesOfAbsence fetches leave-of-absence records.
func (c *Client) LeavesOfAbsence(ctx context.Context, backendID string) (any, error) {
	return c.get(ctx, "leaves_of_absence", workerPath(c.endpoints.AbsenceAPIBase, backendID, "leavesOfAbsence"), nil)
}

// TimeOffDetails fetches booked time off.
func (c *Client) TimeOffDetails(ctx context.Context, backendID string) (any, error) {
	return c.get(ctx, "time_off_details", workerPath(c.endpoints.AbsenceAPIBase, backendID, "timeOffDetails"), nil)
}

// TimeOffEntries fetches time-off entries from the common API.
func (c *Client) TimeOffEntries(ctx context.Context, backendID string) (any, error) {
	return c.get(ctx, "time_off_entries", workerPath(c.endpoints.CommonAPIBase, backendID, "timeOffEntries"), nil)
}

// InboxTasks fetches the worker's approval inbox.
func (c *Client) InboxTasks(ctx context.Context, backendID string) (any, error) {
	return c.get(ctx, "inbox_tasks", workerPath(c.endpoints.CommonAPIBase, backendID, "inboxTasks"), nil)
}

// DirectReports fetches the worker's direct reports.
func (c *Client) DirectReports(ctx context.Context, backendID string) (any, error) {
	return c.get(ctx, "direct_reports", workerPath(c.endpoints.CommonAPIBase, backendID, "directReports"), nil)
}

// PaySlips fetches the worker's pay slips.
func (c *Client) PaySlips(ctx context.Context, backendID string) (any, error) {
	return c.get(ctx, "pay_slips", workerPath(c.endpoints.CommonAPIBase, backendID, "paySlips"), nil)
}

// LearningAssignments fetches the required-learning report for backendID.
func (c *Client) LearningAssignments(ctx context.Context, backendID string) (any, error) {
	return c.get(ctx, "learning_assignments", c.endpoints.LearningAssignmentsReportURL, url.Values{learningAssignmentWorkerParam: {backendID}})
}

// SearchLearningContent searches the learning catalog. Each skill and topic
// is sent as a repeated query parameter. A non-object reply is returned as
// {"data": reply}.
func (c *Client) SearchLearningContent(ctx context.Context, skills, topics []string) (record.Record, error) {
	query := url.Values{}
	for _, skill := range skills {
		query.Add("skills", skill)
	}
	for _, topic := range topics {
		query.Add("topics", topic)
	}

	payload, err := c.get(ctx, "learning_content", c.endpoints.LearningAPIBase+"/content", query)
	if err != nil {
		return nil, err
	}
	if !record.IsObject(payload) {
		return record.Record{"data": payload}, nil
	}
	return record.From(payload), nil
}

// ContentLessons fetches the lessons of one learning content item.
func (c *Client) ContentLessons(ctx context.Context, contentID string) ([]record.Record, error) {
	payload, err := c.get(ctx, "content_lessons", c.endpoints.LearningAPIBase+"/content/"+url.PathEscape(contentID)+"/lessons", nil)
	if err != nil {
		return nil, err
	}
	return record.Collection(payload, "data"), nil
}

// RequestTimeOff submits one time-off request covering days. A non-object
// reply is returned as {"workdayResponse": reply}.
func (c *Client) RequestTimeOff(ctx context.Context, backendID string, days []TimeOffDay) (record.Record, error) {
	payload, err := c.Call(ctx, Request{
		Resource: "request_time_off",
		Method:   http.MethodPost,
		URL:      workerPath(c.endpoints.AbsenceAPIBase, backendID, "requestTimeOff"),
		Body:     map[string]any{"days": days},
	})
	if err != nil {
		return nil, err
	}
	return objectOrWrapped(payload), nil
}

// ChangeBusinessTitle submits a self-service business title change.
func (c *Client) ChangeBusinessTitle(ctx context.Context, backendID, proposedTitle string) (record.Record, error) {
	payload, err := c.Call(ctx, Request{
		Resource: "business_title_changes",
		Method:   http.MethodPost,
		URL:      workerPath(c.endpoints.CommonAPIBase, backendID, "businessTitleChanges"),
		Query:    url.Values{"type": {"me"}},
		Body:     map[string]any{"proposedBusinessTitle": proposedTitle},
	})
	if err != nil {
		return nil, err
	}
	return objectOrWrapped(payload), nil
}

func objectOrWrapped(payload any) record.Record {
	if record.IsObject(payload) {
		return record.From(payload)
	}
	return record.Record{"workdayResponse": payload}
}
