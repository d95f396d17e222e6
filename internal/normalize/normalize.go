// Package normalize maps backend HR records onto the gateway's stable output
// shapes. Every function is pure and total: missing or mistyped fields at any
// depth produce null or the field's default, never an error.
package normalize

import (
	"encoding/json"

	"github.com/marcus-qen/hragent/internal/record"
)

const dataKey = "data"

// WorkerProfile flattens a worker record.
func WorkerProfile(r record.Record) Profile {
	job := r.Obj("primaryJob")
	location := job.Obj("location")
	return Profile{
		WorkdayID:               r.Value("id"),
		WorkerID:                r.Value("workerId"),
		Name:                    r.Value("descriptor"),
		Email:                   r.Obj("person").Value("email"),
		WorkerType:              r.Descriptor("workerType"),
		BusinessTitle:           job.Value("businessTitle"),
		Location:                location.Str("descriptor"),
		LocationID:              location.Value("Location_ID"),
		Country:                 location.Descriptor("country"),
		CountryCode:             location.Obj("country").Value("ISO_3166-1_Alpha-3_Code"),
		SupervisoryOrganization: job.Descriptor("supervisoryOrganization"),
		JobType:                 job.Descriptor("jobType"),
		JobProfile:              job.Descriptor("jobProfile"),
		PrimaryJobID:            job.Value("id"),
		PrimaryJobDescriptor:    job.Value("descriptor"),
	}
}

func mapEach[T any](items []record.Record, fn func(record.Record) T) []T {
	out := make([]T, 0, len(items))
	for _, item := range items {
		out = append(out, fn(item))
	}
	return out
}

// LeaveBalances normalizes a {"data": [...]} balances payload.
func LeaveBalances(payload any) []LeaveBalance {
	return mapEach(record.Collection(payload, dataKey), func(item record.Record) LeaveBalance {
		plan := item.Obj("absencePlan")
		return LeaveBalance{
			PlanName:      plan.Str("descriptor"),
			PlanID:        plan.Value("id"),
			Balance:       item.ValueOr("quantity", "0"),
			Unit:          item.Descriptor("unit"),
			EffectiveDate: item.Value("effectiveDate"),
			TimeOffTypes:  plan.ValueOr("timeoffs", ""),
		}
	})
}

// EligibleAbsenceTypes normalizes the absence types the caller may book.
func EligibleAbsenceTypes(payload any) []AbsenceType {
	return mapEach(record.Collection(payload, dataKey), func(item record.Record) AbsenceType {
		return AbsenceType{
			Name:                         item.Value("descriptor"),
			ID:                           item.Value("id"),
			Unit:                         item.Descriptor("unitOfTime"),
			Category:                     item.Descriptor("category"),
			Group:                        item.Descriptor("absenceTypeGroup"),
			DailyDefaultQuantity:         item.Value("dailyDefaultQuantity"),
			StartAndEndTimeRequired:      item.ValueOr("startAndEndTimeRequired", false),
			CalculateQuantityBasedOnTime: item.ValueOr("calculateQuantityBasedOnStartAndEndTime", false),
		}
	})
}

func LeavesOfAbsence(payload any) []LeaveOfAbsence {
	return mapEach(record.Collection(payload, dataKey), func(item record.Record) LeaveOfAbsence {
		return LeaveOfAbsence{
			ID:               item.Value("id"),
			LeaveType:        item.Descriptor("leaveType"),
			Status:           item.Descriptor("status"),
			FirstDayOfLeave:  item.Value("firstDayOfLeave"),
			LastDayOfWork:    item.Value("lastDayOfWork"),
			EstimatedLastDay: item.Value("estimatedLastDayOfLeave"),
			Comment:          item.ValueOr("latestLeaveComment", ""),
		}
	})
}

func TimeOffDetails(payload any) []TimeOffDetail {
	return mapEach(record.Collection(payload, dataKey), func(item record.Record) TimeOffDetail {
		return TimeOffDetail{
			Date:        item.Value("date"),
			TimeOffType: item.Descriptor("timeOffType"),
			Quantity:    item.Value("quantity"),
			Unit:        item.Descriptor("unit"),
			Status:      item.Descriptor("status"),
			Comment:     item.ValueOr("comment", ""),
		}
	})
}

func TimeOffEntries(payload any) []TimeOffEntry {
	return mapEach(record.Collection(payload, dataKey), func(item record.Record) TimeOffEntry {
		request := item.Obj("timeOffRequest")
		timeOff := item.Obj("timeOff")
		return TimeOffEntry{
			Employee:                 item.Descriptor("employee"),
			TimeOffRequestStatus:     request.Value("status"),
			TimeOffRequestDescriptor: request.Value("descriptor"),
			UnitOfTime:               item.Descriptor("unitOfTime"),
			TimeOffPlan:              timeOff.Descriptor("plan"),
			TimeOffDescriptor:        timeOff.Value("descriptor"),
			Date:                     item.Value("date"),
			Units:                    item.Value("units"),
			Descriptor:               item.Value("descriptor"),
		}
	})
}

func InboxTasks(payload any) []InboxTask {
	return mapEach(record.Collection(payload, dataKey), func(item record.Record) InboxTask {
		return InboxTask{
			Assigned:       item.Value("assigned"),
			Due:            item.Value("due"),
			Initiator:      item.Descriptor("initiator"),
			Status:         item.Descriptor("status"),
			StepType:       item.Descriptor("stepType"),
			Subject:        item.Descriptor("subject"),
			OverallProcess: item.Descriptor("overallProcess"),
			Descriptor:     item.Value("descriptor"),
		}
	})
}

func DirectReports(payload any) []DirectReport {
	return mapEach(record.Collection(payload, dataKey), func(item record.Record) DirectReport {
		return DirectReport{
			IsManager:                      item.Value("isManager"),
			PrimaryWorkPhone:               item.Value("primaryWorkPhone"),
			PrimaryWorkEmail:               item.Value("primaryWorkEmail"),
			PrimarySupervisoryOrganization: item.Descriptor("primarySupervisoryOrganization"),
			BusinessTitle:                  item.Value("businessTitle"),
			Descriptor:                     item.Value("descriptor"),
		}
	})
}

func PaySlips(payload any) []PaySlip {
	return mapEach(record.Collection(payload, dataKey), func(item record.Record) PaySlip {
		return PaySlip{
			Gross:      item.Value("gross"),
			Status:     item.Descriptor("status"),
			Net:        item.Value("net"),
			Date:       item.Value("date"),
			Descriptor: item.Value("descriptor"),
		}
	})
}

// LearningAssignments normalizes the required-learning report. Its rows live
// under Report_Entry and encode overdue/required as "1"/"0".
func LearningAssignments(payload any) []LearningAssignment {
	return mapEach(record.Collection(payload, "Report_Entry"), func(entry record.Record) LearningAssignment {
		return LearningAssignment{
			AssignmentStatus: entry.Value("assignmentStatus"),
			DueDate:          entry.Value("dueDate"),
			LearningContent:  entry.Value("learningContent"),
			Overdue:          entry.Flag("overdue"),
			Required:         entry.Flag("required"),
			WorkdayID:        entry.FirstStr("workdayId", "workdayID"),
		}
	})
}

// FlattenLesson flattens one lesson. Duration prefers the instructor-led value over
// the media value; tracking flags prefer instructor-led over training activity.
func FlattenLesson(lesson record.Record) Lesson {
	instructorLed := lesson.Obj("instructorLedData")
	media := lesson.Obj("mediaData")
	activity := lesson.Obj("trainingActivityData")
	return Lesson{
		ID:                  lesson.Value("id"),
		Descriptor:          lesson.Value("descriptor"),
		Description:         lesson.Value("description"),
		Order:               lesson.Value("order"),
		Required:            lesson.Value("required"),
		ContentType:         lesson.Descriptor("contentType"),
		Duration:            either(instructorLed.Value("duration"), media.Value("duration")),
		ContentURL:          lesson.Obj("externalContentData").Value("contentURL"),
		Instructors:         instructorLed.Descriptors("instructors"),
		Materials:           activity.Descriptors("materials"),
		ActivityType:        activity.Descriptor("activityType"),
		VirtualClassroomURL: instructorLed.Obj("virtualClassroomData").Value("virtualClassroomURL"),
		Location:            instructorLed.Obj("inPersonLedData").Value("adhocLocationName"),
		TrackAttendance:     either(instructorLed.Value("trackAttendance"), activity.Value("trackAttendance")),
		TrackGrades:         either(instructorLed.Value("trackGrades"), activity.Value("trackGrades")),
	}
}

// FlattenLessons flattens a lesson list.
func FlattenLessons(items []record.Record) []Lesson {
	return mapEach(items, FlattenLesson)
}

// FlattenContent flattens one learning catalog item and attaches its lessons.
func FlattenContent(content record.Record, lessons []Lesson) Content {
	if lessons == nil {
		lessons = []Lesson{}
	}
	return Content{
		ID:                         content.Value("id"),
		Descriptor:                 content.Value("descriptor"),
		Description:                content.Value("description"),
		ContentNumber:              content.Value("contentNumber"),
		ContentURL:                 content.Value("contentURL"),
		Version:                    content.Value("version"),
		CreatedOnDate:              content.Value("createdOnDate"),
		AverageRating:              content.Value("averageRating"),
		RatingCount:                content.Value("ratingCount"),
		Popularity:                 content.Value("popularity"),
		ContentType:                content.Descriptor("contentType"),
		ContentProvider:            content.Descriptor("contentProvider"),
		AccessType:                 content.Descriptor("accessType"),
		DeliveryMode:               content.Descriptor("deliveryMode"),
		SkillLevel:                 content.Descriptor("skillLevel"),
		LifecycleStatus:            content.Descriptor("lifecycleStatus"),
		AvailabilityStatus:         content.Descriptor("availabilityStatus"),
		ExcludeFromRecommendations: content.Value("excludeFromRecommendations"),
		ExcludeFromSearchAndBrowse: content.Value("excludeFromSearchAndBrowse"),
		LearningCatalogs:           content.Descriptors("learningCatalogs"),
		Languages:                  content.Descriptors("languages"),
		Skills:                     content.Descriptors("skills"),
		Topics:                     content.Descriptors("topics"),
		SecurityCategories:         content.Descriptors("securityCategories"),
		ContactPersons:             content.Descriptors("contactPersons"),
		ImageURL:                   content.Obj("image").Value("publicURL"),
		Lessons:                    lessons,
	}
}

// either returns primary unless it is empty, in which case fallback is returned.
func either(primary, fallback any) any {
	if present(primary) {
		return primary
	}
	return fallback
}

// present reports whether v carries a non-empty value. False, zero, empty
// strings and empty collections count as absent.
func present(v any) bool {
	switch typed := v.(type) {
	case nil:
		return false
	case bool:
		return typed
	case string:
		return typed != ""
	case json.Number:
		f, err := typed.Float64()
		return err != nil || f != 0
	case float64:
		return typed != 0
	case []any:
		return len(typed) > 0
	case map[string]any:
		return len(typed) > 0
	default:
		return true
	}
}
