package profile

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/academix/records/internal/registration"
)

// Academic statuses
const (
	StatusActive    = "Active"
	StatusInactive  = "Inactive"
	StatusGraduated = "Graduated"
	StatusSuspended = "Suspended"
	StatusOnLeave   = "On Leave"
	StatusProbation = "Academic Probation"
)

const (
	// CreditRequirement is the credit total needed to graduate
	CreditRequirement = 120
	minimumCredits    = 3
	goodStandingFloor = 12
)

// Indicator is how a client should badge a status
type Indicator struct {
	Color      string `json:"color"`
	Background string `json:"bg"`
	Icon       string `json:"icon"`
}

// Indicators maps every status to its badge
var Indicators = map[string]Indicator{
	StatusActive:    {Color: "#16a34a", Background: "#dcfce7", Icon: "✓"},
	StatusInactive:  {Color: "#6b7280", Background: "#f3f4f6", Icon: "○"},
	StatusGraduated: {Color: "#7c3aed", Background: "#ede9fe", Icon: "🎓"},
	StatusSuspended: {Color: "#dc2626", Background: "#fee2e2", Icon: "⚠"},
	StatusOnLeave:   {Color: "#d97706", Background: "#fef3c7", Icon: "⏸"},
	StatusProbation: {Color: "#ea580c", Background: "#ffedd5", Icon: "!"},
}

// AcademicStatus summarizes progress towards a degree
type AcademicStatus struct {
	Status             string    `json:"status"`
	StatusReason       string    `json:"status_reason"`
	Indicator          Indicator `json:"indicator"`
	TotalCredits       int       `json:"total_credits"`
	CourseCount        int       `json:"course_count"`
	CreditRequirement  int       `json:"credit_requirement"`
	CreditsRemaining   int       `json:"credits_remaining"`
	ProgressPercentage float64   `json:"progress_percentage"`
	Standing           string    `json:"standing"`
	ClassYear          string    `json:"class_year"`
}

// Assess derives the academic status from a student's enrollments
func Assess(enrollments []registration.Enrollment) AcademicStatus {
	credits := TotalCredits(enrollments)

	status, reason := StatusActive, "Currently enrolled and in good standing"
	switch {
	case len(enrollments) == 0:
		status, reason = StatusInactive, "No courses currently enrolled"
	case credits < minimumCredits:
		status, reason = StatusProbation, "Below minimum credit requirement"
	case credits >= CreditRequirement:
		status, reason = StatusGraduated, "Completed degree requirements"
	}

	standing := "Needs Improvement"
	if credits >= goodStandingFloor {
		standing = "Good Standing"
	}

	return AcademicStatus{
		Status:             status,
		StatusReason:       reason,
		Indicator:          Indicators[status],
		TotalCredits:       credits,
		CourseCount:        len(enrollments),
		CreditRequirement:  CreditRequirement,
		CreditsRemaining:   max(0, CreditRequirement-credits),
		ProgressPercentage: math.Min(100, math.Round(float64(credits)/CreditRequirement*1000)/10),
		Standing:           standing,
		ClassYear:          ClassYear(credits),
	}
}

// TotalCredits sums the credits of every enrolled course
func TotalCredits(enrollments []registration.Enrollment) int {
	total := 0
	for _, e := range enrollments {
		total += e.Credits
	}
	return total
}

// ClassYear names the year a credit total corresponds to
func ClassYear(credits int) string {
	switch {
	case credits < 30:
		return "Freshman"
	case credits < 60:
		return "Sophomore"
	case credits < 90:
		return "Junior"
	default:
		return "Senior"
	}
}

// Age returns whole years between a YYYY-MM-DD birth date and now, or
// nil when the date does not parse
func Age(dateOfBirth string, now time.Time) *int {
	dob, err := time.Parse(time.DateOnly, dateOfBirth)
	if err != nil {
		return nil
	}
	years := now.Year() - dob.Year()
	if now.Month() < dob.Month() || (now.Month() == dob.Month() && now.Day() < dob.Day()) {
		years--
	}
	return &years
}

// EnrollmentDuration describes how long ago a YYYY-MM-DD date was, as
// "2 years, 3 months" or "12 days"
func EnrollmentDuration(enrollmentDate string, now time.Time) string {
	start, err := time.Parse(time.DateOnly, enrollmentDate)
	if err != nil {
		return "N/A"
	}
	y, m, d := now.Date()
	end := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	if end.Before(start) {
		start, end = end, start
	}

	months := (end.Year()-start.Year())*12 + int(end.Month()-start.Month())
	if end.Day() < start.Day() {
		months--
	}
	years, months := months/12, months%12

	var parts []string
	if years > 0 {
		parts = append(parts, plural(years, "year"))
	}
	if months > 0 {
		parts = append(parts, plural(months, "month"))
	}
	if len(parts) == 0 {
		days := int(end.Sub(start).Hours() / 24)
		parts = append(parts, fmt.Sprintf("%d days", days))
	}
	return strings.Join(parts, ", ")
}

func plural(n int, unit string) string {
	if n == 1 {
		return "1 " + unit
	}
	return fmt.Sprintf("%d %ss", n, unit)
}
