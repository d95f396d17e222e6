package mcpserver

import (
	"context"
	"encoding/json"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	"github.com/marcus-qen/hragent/internal/envelope"
	"github.com/marcus-qen/hragent/internal/fault"
	"github.com/marcus-qen/hragent/internal/hr"
)

type noInput struct{}

type bookLeaveInput struct {
	StartDate     string `json:"startDate" jsonschema:"first day of leave, YYYY-MM-DD"`
	EndDate       string `json:"endDate" jsonschema:"last day of leave, YYYY-MM-DD (inclusive)"`
	TimeOffTypeID string `json:"timeOffTypeId" jsonschema:"eligible absence type id from hr_get_leave_overview"`
	Quantity      string `json:"quantity,omitempty" jsonschema:"quantity per day (default 8)"`
	Unit          string `json:"unit,omitempty" jsonschema:"Hours or Days (default Hours)"`
	Reason        string `json:"reason,omitempty" jsonschema:"comment attached to each day"`
}

type changeTitleInput struct {
	ProposedBusinessTitle string `json:"proposedBusinessTitle" jsonschema:"the new business title"`
}

type prepareLeaveInput struct {
	StartDate string `json:"startDate,omitempty" jsonschema:"draft first day, YYYY-MM-DD (default tomorrow)"`
	EndDate   string `json:"endDate,omitempty" jsonschema:"draft last day, YYYY-MM-DD (default tomorrow)"`
	Quantity  string `json:"quantity,omitempty" jsonschema:"draft quantity (default 1)"`
	Unit      string `json:"unit,omitempty" jsonschema:"draft unit (default Days)"`
	Reason    string `json:"reason,omitempty" jsonschema:"draft reason (default Vacation)"`
}

type searchLearningInput struct {
	Skills []string `json:"skills,omitempty" jsonschema:"skills to match"`
	Topics []string `json:"topics,omitempty" jsonschema:"topics to match"`
}

type toolSet struct {
	newService func(*mcp.CallToolRequest) (*hr.Service, error)
	logger     *zap.Logger
}

func registerTools(srv *mcp.Server, t *toolSet) {
	mcp.AddTool(srv, &mcp.Tool{
		Name:        "hr_get_worker",
		Description: "Get the caller's worker profile: name, email, job, location and organization",
	}, t.handleGetWorker)

	mcp.AddTool(srv, &mcp.Tool{
		Name:        "hr_get_leave_overview",
		Description: "Get leave balances, eligible absence types, leaves of absence and booked time off",
	}, t.handleLeaveOverview)

	mcp.AddTool(srv, &mcp.Tool{
		Name:        "hr_book_leave",
		Description: "Submit a time-off request covering every day from startDate to endDate",
	}, t.handleBookLeave)

	mcp.AddTool(srv, &mcp.Tool{
		Name:        "hr_change_business_title",
		Description: "Request a change of the caller's business title",
	}, t.handleChangeBusinessTitle)

	mcp.AddTool(srv, &mcp.Tool{
		Name:        "hr_get_direct_reports",
		Description: "List the caller's direct reports",
	}, t.handleDirectReports)

	mcp.AddTool(srv, &mcp.Tool{
		Name:        "hr_get_pay_slips",
		Description: "List the caller's pay slips",
	}, t.handlePaySlips)

	mcp.AddTool(srv, &mcp.Tool{
		Name:        "hr_get_inbox_tasks",
		Description: "List tasks awaiting the caller's action",
	}, t.handleInboxTasks)

	mcp.AddTool(srv, &mcp.Tool{
		Name:        "hr_get_time_off_entries",
		Description: "List the caller's time-off entries",
	}, t.handleTimeOffEntries)

	mcp.AddTool(srv, &mcp.Tool{
		Name:        "hr_get_learning_assignments",
		Description: "List the caller's required learning assignments",
	}, t.handleLearningAssignments)

	mcp.AddTool(srv, &mcp.Tool{
		Name:        "hr_prepare_leave_request",
		Description: "Gather eligible types, balances and booking guidance before calling hr_book_leave; submits nothing",
	}, t.handlePrepareLeave)

	mcp.AddTool(srv, &mcp.Tool{
		Name:        "hr_search_learning_content",
		Description: "Search the learning catalog by skills and topics, including each item's lessons",
	}, t.handleSearchLearning)
}

func (t *toolSet) handleGetWorker(ctx context.Context, req *mcp.CallToolRequest, _ noInput) (*mcp.CallToolResult, any, error) {
	svc, err := t.newService(req)
	if err != nil {
		return t.result(nil, err)
	}
	profile, err := svc.Profile(ctx)
	return t.result(profile, err)
}

func (t *toolSet) handleLeaveOverview(ctx context.Context, req *mcp.CallToolRequest, _ noInput) (*mcp.CallToolResult, any, error) {
	svc, err := t.newService(req)
	if err != nil {
		return t.result(nil, err)
	}
	overview, err := svc.LeaveOverview(ctx)
	return t.result(overview, err)
}

func (t *toolSet) handleBookLeave(ctx context.Context, req *mcp.CallToolRequest, input bookLeaveInput) (*mcp.CallToolResult, any, error) {
	svc, err := t.newService(req)
	if err != nil {
		return t.result(nil, err)
	}
	booking, err := svc.BookLeave(ctx, hr.BookLeaveRequest{
		StartDate:     input.StartDate,
		EndDate:       input.EndDate,
		TimeOffTypeID: input.TimeOffTypeID,
		Quantity:      input.Quantity,
		Unit:          input.Unit,
		Reason:        input.Reason,
	})
	return t.result(booking, err)
}

func (t *toolSet) handleChangeBusinessTitle(ctx context.Context, req *mcp.CallToolRequest, input changeTitleInput) (*mcp.CallToolResult, any, error) {
	svc, err := t.newService(req)
	if err != nil {
		return t.result(nil, err)
	}
	change, err := svc.ChangeBusinessTitle(ctx, input.ProposedBusinessTitle)
	return t.result(change, err)
}

func (t *toolSet) handleDirectReports(ctx context.Context, req *mcp.CallToolRequest, _ noInput) (*mcp.CallToolResult, any, error) {
	svc, err := t.newService(req)
	if err != nil {
		return t.result(nil, err)
	}
	reports, err := svc.DirectReports(ctx)
	return t.result(map[string]any{"directReports": reports}, err)
}

func (t *toolSet) handlePaySlips(ctx context.Context, req *mcp.CallToolRequest, _ noInput) (*mcp.CallToolResult, any, error) {
	svc, err := t.newService(req)
	if err != nil {
		return t.result(nil, err)
	}
	slips, err := svc.PaySlips(ctx)
	return t.result(map[string]any{"paySlips": slips}, err)
}

func (t *toolSet) handleInboxTasks(ctx context.Context, req *mcp.CallToolRequest, _ noInput) (*mcp.CallToolResult, any, error) {
	svc, err := t.newService(req)
	if err != nil {
		return t.result(nil, err)
	}
	tasks, err := svc.InboxTasks(ctx)
	return t.result(map[string]any{"tasks": tasks}, err)
}

func (t *toolSet) handleTimeOffEntries(ctx context.Context, req *mcp.CallToolRequest, _ noInput) (*mcp.CallToolResult, any, error) {
	svc, err := t.newService(req)
	if err != nil {
		return t.result(nil, err)
	}
	entries, err := svc.TimeOffEntries(ctx)
	return t.result(map[string]any{"timeOffEntries": entries}, err)
}

func (t *toolSet) handleLearningAssignments(ctx context.Context, req *mcp.CallToolRequest, _ noInput) (*mcp.CallToolResult, any, error) {
	svc, err := t.newService(req)
	if err != nil {
		return t.result(nil, err)
	}
	assignments, err := svc.LearningAssignments(ctx)
	return t.result(map[string]any{"assignments": assignments, "total": len(assignments)}, err)
}

func (t *toolSet) handlePrepareLeave(ctx context.Context, req *mcp.CallToolRequest, input prepareLeaveInput) (*mcp.CallToolResult, any, error) {
	svc, err := t.newService(req)
	if err != nil {
		return t.result(nil, err)
	}
	prep, err := svc.PrepareLeaveRequest(ctx, hr.LeaveRequestParams{
		StartDate: input.StartDate,
		EndDate:   input.EndDate,
		Quantity:  input.Quantity,
		Unit:      input.Unit,
		Reason:    input.Reason,
	})
	return t.result(prep, err)
}

func (t *toolSet) handleSearchLearning(ctx context.Context, req *mcp.CallToolRequest, input searchLearningInput) (*mcp.CallToolResult, any, error) {
	svc, err := t.newService(req)
	if err != nil {
		return t.result(nil, err)
	}
	content, err := svc.SearchLearningContent(ctx, input.Skills, input.Topics)
	return t.result(map[string]any{"content": content, "total": len(content)}, err)
}

// result renders an operation outcome. Operation faults become tool errors
// carrying the same failure envelope the HTTP surface returns.
func (t *toolSet) result(payload any, err error) (*mcp.CallToolResult, any, error) {
	if err != nil {
		f := fault.Classify(err)
		t.logger.Warn("tool call failed",
			zap.String("kind", f.Kind.String()),
			zap.Int("status", f.Status),
			zap.Error(err),
		)
		data, encodeErr := json.Marshal(envelope.FromFault(f))
		if encodeErr != nil {
			return nil, nil, encodeErr
		}
		result := textToolResult(string(data))
		result.IsError = true
		return result, nil, nil
	}
	data, err := envelope.Success(payload)
	if err != nil {
		return nil, nil, err
	}
	return textToolResult(string(data)), nil, nil
}

func textToolResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
	}
}
