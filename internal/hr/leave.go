package hr

import (
	"context"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/marcus-qen/hragent/internal/normalize"
	"github.com/marcus-qen/hragent/internal/record"
	"github.com/marcus-qen/hragent/internal/workday"
)

const (
	dateLayout = "2006-01-02"

	workdayStart = "T08:00:00.000Z"
	workdayEnd   = "T17:00:00.000Z"

	// fullDayQuantity is booked per day when the request is expressed in days.
	fullDayQuantity = "8"
)

// LeaveOverview combines everything the caller needs to see about their leave.
type LeaveOverview struct {
	LeaveBalances        []normalize.LeaveBalance   `json:"leaveBalances"`
	EligibleAbsenceTypes []normalize.AbsenceType    `json:"eligibleAbsenceTypes"`
	LeavesOfAbsence      []normalize.LeaveOfAbsence `json:"leavesOfAbsence"`
	BookedTimeOff        []normalize.TimeOffDetail  `json:"bookedTimeOff"`
}

// LeaveOverview fetches balances, eligible types, leaves of absence and
// booked time off concurrently. Any failing call fails the whole overview.
func (s *Service) LeaveOverview(ctx context.Context) (LeaveOverview, error) {
	var overview LeaveOverview
	err := s.observe(ctx, OpGetLeaveOverview, func(ctx context.Context) error {
		subject, err := s.backend.ResolveContext(ctx)
		if err != nil {
			return err
		}
		id := subject.BackendID

		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			payload, err := s.backend.LeaveBalances(gctx, id)
			overview.LeaveBalances = normalize.LeaveBalances(payload)
			return err
		})
		g.Go(func() error {
			payload, err := s.backend.EligibleAbsenceTypes(gctx, id)
			overview.EligibleAbsenceTypes = normalize.EligibleAbsenceTypes(payload)
			return err
		})
		g.Go(func() error {
			payload, err := s.backend.LeavesOfAbsence(gctx, id)
			overview.LeavesOfAbsence = normalize.LeavesOfAbsence(payload)
			return err
		})
		g.Go(func() error {
			payload, err := s.backend.TimeOffDetails(gctx, id)
			overview.BookedTimeOff = normalize.TimeOffDetails(payload)
			return err
		})
		return g.Wait()
	})
	if err != nil {
		return LeaveOverview{}, err
	}
	return overview, nil
}

// BookLeaveRequest is the caller's time-off booking. Empty optional fields
// take their defaults: quantity "8", unit "Hours", reason "Time off request".
type BookLeaveRequest struct {
	StartDate     string
	EndDate       string
	TimeOffTypeID string
	Quantity      string
	Unit          string
	Reason        string
}

// DecodeBookLeave reads a booking from a JSON request body. A numeric
// quantity is accepted and kept in its textual form.
func DecodeBookLeave(body []byte) (BookLeaveRequest, error) {
	fields, err := decodeObject(body)
	if err != nil {
		return BookLeaveRequest{}, err
	}
	return BookLeaveRequest{
		StartDate:     stringField(fields, "startDate"),
		EndDate:       stringField(fields, "endDate"),
		TimeOffTypeID: stringField(fields, "timeOffTypeId"),
		Quantity:      stringField(fields, "quantity"),
		Unit:          stringField(fields, "unit"),
		Reason:        stringField(fields, "reason"),
	}, nil
}

func stringField(fields record.Record, key string) string {
	if v := fields.Str(key); v != nil {
		return *v
	}
	return ""
}

func (r BookLeaveRequest) withDefaults() BookLeaveRequest {
	if r.Quantity == "" {
		r.Quantity = "8"
	}
	if r.Unit == "" {
		r.Unit = "Hours"
	}
	if r.Reason == "" {
		r.Reason = "Time off request"
	}
	return r
}

// BookingDetails summarizes a submitted booking.
type BookingDetails struct {
	BusinessProcess   *string `json:"businessProcess"`
	Status            any     `json:"status"`
	TransactionStatus *string `json:"transactionStatus"`
	DaysBooked        int     `json:"daysBooked"`
	TotalQuantity     float64 `json:"totalQuantity"`
}

// Booking is the result of a time-off submission.
type Booking struct {
	Message         string         `json:"message"`
	BookingDetails  BookingDetails `json:"bookingDetails"`
	WorkdayResponse record.Record  `json:"workdayResponse"`
}

// BookLeave validates req, expands it into one entry per calendar day and
// submits it as a single time-off request.
func (s *Service) BookLeave(ctx context.Context, req BookLeaveRequest) (Booking, error) {
	var booking Booking
	err := s.observe(ctx, OpBookLeave, func(ctx context.Context) error {
		req = req.withDefaults()
		if req.StartDate == "" || req.EndDate == "" || req.TimeOffTypeID == "" {
			return Invalidf("startDate, endDate, and timeOffTypeId are required")
		}
		days, err := ExpandDays(req)
		if err != nil {
			return err
		}

		subject, err := s.backend.ResolveContext(ctx)
		if err != nil {
			return err
		}
		result, err := s.backend.RequestTimeOff(ctx, subject.BackendID, days)
		if err != nil {
			return err
		}

		process := result.Obj("businessProcessParameters")
		booking = Booking{
			Message: "Time off request submitted successfully",
			BookingDetails: BookingDetails{
				BusinessProcess:   process.Descriptor("overallBusinessProcess"),
				Status:            process.Value("overallStatus"),
				TransactionStatus: process.Descriptor("transactionStatus"),
				DaysBooked:        len(days),
				TotalQuantity:     totalQuantity(result, days),
			},
			WorkdayResponse: result,
		}
		return nil
	})
	return booking, err
}

// MaxLeaveDays caps the number of calendar days a single booking may span.
const MaxLeaveDays = 366

// ExpandDays builds one day entry per calendar day from StartDate through
// EndDate inclusive. Each day runs 08:00 to 17:00 UTC. A unit of "days"
// books a full day's quantity; any other unit books Quantity every day.
func ExpandDays(req BookLeaveRequest) ([]workday.TimeOffDay, error) {
	req = req.withDefaults()
	start, errStart := time.Parse(dateLayout, req.StartDate)
	end, errEnd := time.Parse(dateLayout, req.EndDate)
	if errStart != nil || errEnd != nil {
		return nil, Invalidf("startDate and endDate must use YYYY-MM-DD format")
	}
	if end.Before(start) {
		return nil, Invalidf("endDate cannot be earlier than startDate")
	}
	span := int(end.Sub(start).Hours()/24) + 1
	if span > MaxLeaveDays {
		return nil, Invalidf("leave cannot span more than %d days", MaxLeaveDays)
	}

	quantity := req.Quantity
	if strings.EqualFold(req.Unit, "days") {
		quantity = fullDayQuantity
	}

	days := make([]workday.TimeOffDay, 0, span)
	for day := start; !day.After(end); day = day.AddDate(0, 0, 1) {
		date := day.Format(dateLayout)
		days = append(days, workday.TimeOffDay{
			Date:          date + workdayStart,
			Start:         date + workdayStart,
			End:           date + workdayEnd,
			DailyQuantity: quantity,
			Comment:       req.Reason,
			TimeOffType:   workday.TimeOffTypeRef{ID: req.TimeOffTypeID},
		})
	}
	return days, nil
}

// totalQuantity sums the per-day quantities the backend echoed back, or the
// submitted ones when the reply has none. Unparseable quantities count as zero.
func totalQuantity(result record.Record, submitted []workday.TimeOffDay) float64 {
	var total float64
	if echoed, ok := result.Value("days").([]any); ok && len(echoed) > 0 {
		for _, day := range echoed {
			if q, ok := record.Number(record.From(day).Value("dailyQuantity")); ok {
				total += q
			}
		}
		return total
	}
	for _, day := range submitted {
		if q, ok := record.Number(day.DailyQuantity); ok {
			total += q
		}
	}
	return total
}

// LeaveRequestParams are the caller's draft booking parameters.
type LeaveRequestParams struct {
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
	Quantity  string `json:"quantity"`
	Unit      string `json:"unit"`
	Reason    string `json:"reason"`
}

// DecodeLeaveRequestParams reads draft parameters from a request body.
// A missing or malformed body yields empty parameters.
func DecodeLeaveRequestParams(body []byte) LeaveRequestParams {
	fields, err := decodeObject(body)
	if err != nil {
		return LeaveRequestParams{}
	}
	return LeaveRequestParams{
		StartDate: stringField(fields, "startDate"),
		EndDate:   stringField(fields, "endDate"),
		Quantity:  stringField(fields, "quantity"),
		Unit:      stringField(fields, "unit"),
		Reason:    stringField(fields, "reason"),
	}
}

// BookingGuidance is static advice for composing a BookLeave call.
type BookingGuidance struct {
	TimeFormat          string              `json:"timeFormat"`
	DefaultWorkingHours WorkingHours        `json:"defaultWorkingHours"`
	QuantityCalculation QuantityCalculation `json:"quantityCalculation"`
}

type WorkingHours struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

type QuantityCalculation struct {
	ForHours string `json:"forHours"`
	ForDays  string `json:"forDays"`
}

var bookingGuidance = BookingGuidance{
	TimeFormat: "ISO 8601 with timezone (e.g., 2025-02-25T08:00:00.000Z)",
	DefaultWorkingHours: WorkingHours{
		Start: strings.TrimPrefix(workdayStart, "T"),
		End:   strings.TrimPrefix(workdayEnd, "T"),
	},
	QuantityCalculation: QuantityCalculation{
		ForHours: "Use dailyDefaultQuantity * number of days",
		ForDays:  "Use 1 per day requested",
	},
}

// LeavePreparation gathers what a caller needs to compose a booking.
type LeavePreparation struct {
	RequestParameters    LeaveRequestParams        `json:"requestParameters"`
	EligibleAbsenceTypes []normalize.AbsenceType   `json:"eligibleAbsenceTypes"`
	LeaveBalances        []normalize.LeaveBalance  `json:"leaveBalances"`
	BookedTimeOff        []normalize.TimeOffDetail `json:"bookedTimeOff"`
	WorkdayID            string                    `json:"workdayId"`
	BookingGuidance      BookingGuidance           `json:"bookingGuidance"`
}

// PrepareLeaveRequest echoes params with defaults filled in (tomorrow for
// both dates, quantity "1", unit "Days", reason "Vacation") alongside the
// caller's eligible types, balances and booked time off. Nothing is submitted.
func (s *Service) PrepareLeaveRequest(ctx context.Context, params LeaveRequestParams) (LeavePreparation, error) {
	var prep LeavePreparation
	err := s.observe(ctx, OpPrepareLeaveRequest, func(ctx context.Context) error {
		tomorrow := s.now().UTC().AddDate(0, 0, 1).Format(dateLayout)
		params = LeaveRequestParams{
			StartDate: orDefault(params.StartDate, tomorrow),
			EndDate:   orDefault(params.EndDate, tomorrow),
			Quantity:  orDefault(params.Quantity, "1"),
			Unit:      orDefault(params.Unit, "Days"),
			Reason:    orDefault(params.Reason, "Vacation"),
		}

		subject, err := s.backend.ResolveContext(ctx)
		if err != nil {
			return err
		}
		id := subject.BackendID

		prep = LeavePreparation{
			RequestParameters: params,
			WorkdayID:         id,
			BookingGuidance:   bookingGuidance,
		}
		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			payload, err := s.backend.EligibleAbsenceTypes(gctx, id)
			prep.EligibleAbsenceTypes = normalize.EligibleAbsenceTypes(payload)
			return err
		})
		g.Go(func() error {
			payload, err := s.backend.LeaveBalances(gctx, id)
			prep.LeaveBalances = normalize.LeaveBalances(payload)
			return err
		})
		g.Go(func() error {
			payload, err := s.backend.TimeOffDetails(gctx, id)
			prep.BookedTimeOff = normalize.TimeOffDetails(payload)
			return err
		})
		return g.Wait()
	})
	if err != nil {
		return LeavePreparation{}, err
	}
	return prep, nil
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
