package students

import (
	"context"

	"student-crm/core/utils"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	defaultCurrency   = "INR"
	notAvailable      = "N/A"
	unavailableReason = "Could not fetch live data from the LMS."
)

// FeeDetails summarizes a student's fees in major currency units.
type FeeDetails struct {
	TotalFee    float64 `json:"total_fee"`
	PaidFee     float64 `json:"paid_fee"`
	DueFee      float64 `json:"due_fee"`
	Currency    string  `json:"currency"`
	NextDueDate string  `json:"next_due_date"`
}

// EnrolledCourse is one class the student is enrolled in.
type EnrolledCourse struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Status     string `json:"status"`
	Attendance int    `json:"attendance"`
	DueDate    string `json:"due_date"`
}

// LMSDetails is the live LMS view of a student.
type LMSDetails struct {
	LMSStudentID     string           `json:"lms_student_id"`
	CourseProgress   float64          `json:"course_progress"`
	Attendance       int              `json:"attendance"`
	EnrolledCourses  []EnrolledCourse `json:"enrolled_courses"`
	FeeDetails       FeeDetails       `json:"fee_details"`
	RecentActivities []map[string]any `json:"recent_activities"`
	RegistrationData map[string]any   `json:"registration_data,omitempty"`
	ErrorMessage     *string          `json:"error_message"`
}

// fallbackDetails is returned whenever live data cannot be assembled.
func fallbackDetails(lmsID string) *LMSDetails {
	msg := unavailableReason
	return &LMSDetails{
		LMSStudentID:     lmsID,
		EnrolledCourses:  []EnrolledCourse{},
		FeeDetails:       FeeDetails{Currency: defaultCurrency, NextDueDate: notAvailable},
		RecentActivities: []map[string]any{},
		ErrorMessage:     &msg,
	}
}

// LMSDetails returns fees, courses, progress and activity of a student from the LMS.
// LMS failures never surface as errors: the fallback payload carries an error message.
func (s *Service) LMSDetails(ctx context.Context, id uint) (*LMSDetails, error) {
	student, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	lmsID := student.LMSID()
	if lmsID == "" || !s.lms.Configured() {
		return fallbackDetails(lmsID), nil
	}

	var fees, reports, registration map[string]any
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		fees, err = s.lms.FeeSummary(gctx, lmsID)
		return err
	})
	g.Go(func() error {
		reports, _ = s.lms.StudentReports(gctx, lmsID)
		return nil
	})
	g.Go(func() error {
		registration, _ = s.lms.RegistrationData(gctx, lmsID)
		return nil
	})
	if err := g.Wait(); err != nil {
		s.logger.Warn("LMS fee summary unavailable", zap.Uint("student_id", student.ID), zap.Error(err))
		return fallbackDetails(lmsID), nil
	}

	summaries := utils.Slice(fees, "summary")
	if summaries == nil {
		return fallbackDetails(lmsID), nil
	}
	return buildDetails(lmsID, fees, reports, registration), nil
}

// buildDetails maps LMS payloads to LMSDetails. Fee values arrive in minor units.
func buildDetails(lmsID string, fees, reports, registration map[string]any) *LMSDetails {
	summary := firstObject(utils.Slice(fees, "summary"))
	classSummaries := utils.Slice(fees, "classWiseStudentSummary")
	classSummary := firstObject(classSummaries)

	remaining := minorUnits(summary, "totalRemaining")
	paid := minorUnits(summary, "totalPaid")
	due := minorUnits(summary, "totalDue")
	total := paid + due
	if remaining > total {
		total = remaining
	}

	currency := utils.ToString(summary["currency"])
	if currency == "" {
		currency = defaultCurrency
	}

	nextDue := utils.ToString(classSummary["earliestDueDate"])
	if nextDue == "" {
		nextDue = notAvailable
	}

	courses := make([]EnrolledCourse, 0, len(classSummaries))
	for _, item := range classSummaries {
		cs, ok := item.(map[string]any)
		if !ok {
			continue
		}
		status := utils.ToString(cs["status"])
		if status == "" {
			status = "Active"
		}
		dueDate := utils.ToString(cs["earliestDueDate"])
		if dueDate == "" {
			dueDate = notAvailable
		}
		courses = append(courses, EnrolledCourse{
			ID:         utils.ToString(cs["classId"]),
			Name:       utils.ToString(cs["className"]),
			Status:     status,
			Attendance: utils.ToInt(cs["joinedRequest"]),
			DueDate:    dueDate,
		})
	}

	activities := []map[string]any{}
	if list := utils.Slice(registration, "activities"); list != nil {
		for _, item := range list {
			if a, ok := item.(map[string]any); ok {
				activities = append(activities, a)
			}
		}
	} else if joined := utils.ToString(classSummary["lastJoinedAt"]); joined != "" {
		activities = append(activities, map[string]any{
			"activity": "Joined Live Session",
			"date":     joined,
		})
	}

	return &LMSDetails{
		LMSStudentID:     lmsID,
		CourseProgress:   utils.ToFloat(utils.Map(reports, "data")["overallProgress"]),
		Attendance:       utils.ToInt(classSummary["joinedRequest"]),
		EnrolledCourses:  courses,
		FeeDetails:       FeeDetails{TotalFee: total, PaidFee: paid, DueFee: due, Currency: currency, NextDueDate: nextDue},
		RecentActivities: activities,
		RegistrationData: registration,
	}
}

func firstObject(list []any) map[string]any {
	if len(list) == 0 {
		return map[string]any{}
	}
	m, _ := list[0].(map[string]any)
	if m == nil {
		return map[string]any{}
	}
	return m
}

// minorUnits reads obj[key].value and converts it to major units.
func minorUnits(obj map[string]any, key string) float64 {
	return utils.ToFloat(utils.Map(obj, key)["value"]) / 100
}
