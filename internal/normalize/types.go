package normalize

// Descriptor-valued fields are *string so an absent label encodes as null.
// Fields copied through from the backend unchanged are typed any.

// Profile is the caller's flattened worker record.
type Profile struct {
	WorkdayID               any     `json:"workdayId"`
	WorkerID                any     `json:"workerId"`
	Name                    any     `json:"name"`
	Email                   any     `json:"email"`
	WorkerType              *string `json:"workerType"`
	BusinessTitle           any     `json:"businessTitle"`
	Location                *string `json:"location"`
	LocationID              any     `json:"locationId"`
	Country                 *string `json:"country"`
	CountryCode             any     `json:"countryCode"`
	SupervisoryOrganization *string `json:"supervisoryOrganization"`
	JobType                 *string `json:"jobType"`
	JobProfile              *string `json:"jobProfile"`
	PrimaryJobID            any     `json:"primaryJobId"`
	PrimaryJobDescriptor    any     `json:"primaryJobDescriptor"`
}

// LeaveBalance is one absence plan balance.
type LeaveBalance struct {
	PlanName      *string `json:"planName"`
	PlanID        any     `json:"planId"`
	Balance       any     `json:"balance"`
	Unit          *string `json:"unit"`
	EffectiveDate any     `json:"effectiveDate"`
	TimeOffTypes  any     `json:"timeOffTypes"`
}

// AbsenceType is an absence type the caller may book.
type AbsenceType struct {
	Name                         any     `json:"name"`
	ID                           any     `json:"id"`
	Unit                         *string `json:"unit"`
	Category                     *string `json:"category"`
	Group                        *string `json:"group"`
	DailyDefaultQuantity         any     `json:"dailyDefaultQuantity"`
	StartAndEndTimeRequired      any     `json:"startAndEndTimeRequired"`
	CalculateQuantityBasedOnTime any     `json:"calculateQuantityBasedOnTime"`
}

// LeaveOfAbsence is one leave-of-absence record.
type LeaveOfAbsence struct {
	ID               any     `json:"id"`
	LeaveType        *string `json:"leaveType"`
	Status           *string `json:"status"`
	FirstDayOfLeave  any     `json:"firstDayOfLeave"`
	LastDayOfWork    any     `json:"lastDayOfWork"`
	EstimatedLastDay any     `json:"estimatedLastDay"`
	Comment          any     `json:"comment"`
}

// TimeOffDetail is one booked time-off day.
type TimeOffDetail struct {
	Date        any     `json:"date"`
	TimeOffType *string `json:"timeOffType"`
	Quantity    any     `json:"quantity"`
	Unit        *string `json:"unit"`
	Status      *string `json:"status"`
	Comment     any     `json:"comment"`
}

// TimeOffEntry is one entry from the common API's time-off ledger.
type TimeOffEntry struct {
	Employee                 *string `json:"employee"`
	TimeOffRequestStatus     any     `json:"timeOffRequestStatus"`
	TimeOffRequestDescriptor any     `json:"timeOffRequestDescriptor"`
	UnitOfTime               *string `json:"unitOfTime"`
	TimeOffPlan              *string `json:"timeOffPlan"`
	TimeOffDescriptor        any     `json:"timeOffDescriptor"`
	Date                     any     `json:"date"`
	Units                    any     `json:"units"`
	Descriptor               any     `json:"descriptor"`
}

// InboxTask is one item awaiting the caller's action.
type InboxTask struct {
	Assigned       any     `json:"assigned"`
	Due            any     `json:"due"`
	Initiator      *string `json:"initiator"`
	Status         *string `json:"status"`
	StepType       *string `json:"stepType"`
	Subject        *string `json:"subject"`
	OverallProcess *string `json:"overallProcess"`
	Descriptor     any     `json:"descriptor"`
}

type DirectReport struct {
	IsManager                      any     `json:"isManager"`
	PrimaryWorkPhone               any     `json:"primaryWorkPhone"`
	PrimaryWorkEmail               any     `json:"primaryWorkEmail"`
	PrimarySupervisoryOrganization *string `json:"primarySupervisoryOrganization"`
	BusinessTitle                  any     `json:"businessTitle"`
	Descriptor                     any     `json:"descriptor"`
}

type PaySlip struct {
	Gross      any     `json:"gross"`
	Status     *string `json:"status"`
	Net        any     `json:"net"`
	Date       any     `json:"date"`
	Descriptor any     `json:"descriptor"`
}

// LearningAssignment is one row of the required-learning report.
type LearningAssignment struct {
	AssignmentStatus any     `json:"assignmentStatus"`
	DueDate          any     `json:"dueDate"`
	LearningContent  any     `json:"learningContent"`
	Overdue          bool    `json:"overdue"`
	Required         bool    `json:"required"`
	WorkdayID        *string `json:"workdayId"`
}

// Lesson is a flattened lesson of a learning content item.
type Lesson struct {
	ID                  any       `json:"id"`
	Descriptor          any       `json:"descriptor"`
	Description         any       `json:"description"`
	Order               any       `json:"order"`
	Required            any       `json:"required"`
	ContentType         *string   `json:"contentType"`
	Duration            any       `json:"duration"`
	ContentURL          any       `json:"contentURL"`
	Instructors         []*string `json:"instructors"`
	Materials           []*string `json:"materials"`
	ActivityType        *string   `json:"activityType"`
	VirtualClassroomURL any       `json:"virtualClassroomURL"`
	Location            any       `json:"location"`
	TrackAttendance     any       `json:"trackAttendance"`
	TrackGrades         any       `json:"trackGrades"`
}

// Content is a flattened learning catalog item with its lessons.
type Content struct {
	ID                         any       `json:"id"`
	Descriptor                 any       `json:"descriptor"`
	Description                any       `json:"description"`
	ContentNumber              any       `json:"contentNumber"`
	ContentURL                 any       `json:"contentURL"`
	Version                    any       `json:"version"`
	CreatedOnDate              any       `json:"createdOnDate"`
	AverageRating              any       `json:"averageRating"`
	RatingCount                any       `json:"ratingCount"`
	Popularity                 any       `json:"popularity"`
	ContentType                *string   `json:"contentType"`
	ContentProvider            *string   `json:"contentProvider"`
	AccessType                 *string   `json:"accessType"`
	DeliveryMode               *string   `json:"deliveryMode"`
	SkillLevel                 *string   `json:"skillLevel"`
	LifecycleStatus            *string   `json:"lifecycleStatus"`
	AvailabilityStatus         *string   `json:"availabilityStatus"`
	ExcludeFromRecommendations any       `json:"excludeFromRecommendations"`
	ExcludeFromSearchAndBrowse any       `json:"excludeFromSearchAndBrowse"`
	LearningCatalogs           []*string `json:"learningCatalogs"`
	Languages                  []*string `json:"languages"`
	Skills                     []*string `json:"skills"`
	Topics                     []*string `json:"topics"`
	SecurityCategories         []*string `json:"securityCategories"`
	ContactPersons             []*string `json:"contactPersons"`
	ImageURL                   any       `json:"imageURL"`
	Lessons                    []Lesson  `json:"lessons"`
}
