package profile

import (
	"time"

	"github.com/academix/records/internal/registration"
	"github.com/academix/records/internal/student"
)

// Profile is the full academic profile of one student
type Profile struct {
	PersonalDetails     PersonalDetails      `json:"personal_details"`
	EnrolledCourses     []EnrolledCourse     `json:"enrolled_courses"`
	AcademicStatus      AcademicStatus       `json:"academic_status"`
	RegistrationHistory []HistoryEntry       `json:"registration_history"`
	StatusIndicators    map[string]Indicator `json:"status_indicators"`
	GeneratedAt         time.Time            `json:"generated_at"`
}

// PersonalDetails is the student record plus derived fields
type PersonalDetails struct {
	*student.Student
	Age                *int   `json:"age"`
	FullName           string `json:"full_name"`
	EnrollmentDuration string `json:"enrollment_duration"`
}

// EnrolledCourse is an enrollment as displayed on a profile
type EnrolledCourse struct {
	registration.Enrollment
	FormattedDate string `json:"formatted_date"`
	Status        string `json:"status"`
}

// HistoryEntry is one registration in chronological order
type HistoryEntry struct {
	RegistrationID int64     `json:"id"`
	RegisteredAt   time.Time `json:"registered_at"`
	CourseCode     string    `json:"course_code"`
	CourseName     string    `json:"course_name"`
	Credits        int       `json:"credits"`
}

// Build assembles a profile. enrollments must be newest first.
func Build(s *student.Student, enrollments []registration.Enrollment, now time.Time) *Profile {
	courses := make([]EnrolledCourse, len(enrollments))
	history := make([]HistoryEntry, len(enrollments))
	for i, e := range enrollments {
		courses[i] = EnrolledCourse{
			Enrollment:    e,
			FormattedDate: e.RegisteredAt.Format("January 2, 2006"),
			Status:        StatusActive,
		}
		history[len(enrollments)-1-i] = HistoryEntry{
			RegistrationID: e.RegistrationID,
			RegisteredAt:   e.RegisteredAt,
			CourseCode:     e.Code,
			CourseName:     e.Name,
			Credits:        e.Credits,
		}
	}

	return &Profile{
		PersonalDetails: PersonalDetails{
			Student:            s,
			Age:                Age(s.DateOfBirth, now),
			FullName:           s.FullName(),
			EnrollmentDuration: EnrollmentDuration(s.EnrollmentDate, now),
		},
		EnrolledCourses:     courses,
		AcademicStatus:      Assess(enrollments),
		RegistrationHistory: history,
		StatusIndicators:    Indicators,
		GeneratedAt:         now,
	}
}

// SlipEntry is one line of a registration confirmation slip
type SlipEntry struct {
	RegistrationID int64     `json:"registration_id"`
	CourseCode     string    `json:"course_code"`
	CourseName     string    `json:"course_name"`
	Credits        int       `json:"credits"`
	Instructor     string    `json:"instructor"`
	RegisteredAt   time.Time `json:"registered_at"`
	Status         string    `json:"status"`
}

// Summary totals a student's registrations
type Summary struct {
	TotalCourses      int        `json:"total_courses"`
	TotalCredits      int        `json:"total_credits"`
	FirstRegistration *time.Time `json:"first_registration"`
	LastRegistration  *time.Time `json:"last_registration"`
	OverallStatus     string     `json:"overall_status"`
}

// StudentView is what a student sees of their own record
type StudentView struct {
	Profile             *student.Student          `json:"profile"`
	Courses             []registration.Enrollment `json:"courses"`
	Registrations       []SlipEntry               `json:"registrations"`
	RegistrationSummary Summary                   `json:"registration_summary"`
	TotalCredits        int                       `json:"total_credits"`
}

// BuildStudentView assembles the self-service view. enrollments must be
// newest first.
func BuildStudentView(s *student.Student, enrollments []registration.Enrollment) *StudentView {
	entries := make([]SlipEntry, len(enrollments))
	for i, e := range enrollments {
		entries[i] = SlipEntry{
			RegistrationID: e.RegistrationID,
			CourseCode:     e.Code,
			CourseName:     e.Name,
			Credits:        e.Credits,
			Instructor:     e.Instructor,
			RegisteredAt:   e.RegisteredAt,
			Status:         StatusActive,
		}
	}

	return &StudentView{
		Profile:             s,
		Courses:             enrollments,
		Registrations:       entries,
		RegistrationSummary: Summarize(enrollments),
		TotalCredits:        TotalCredits(enrollments),
	}
}

// Summarize totals enrollments ordered newest first
func Summarize(enrollments []registration.Enrollment) Summary {
	summary := Summary{
		TotalCourses:  len(enrollments),
		TotalCredits:  TotalCredits(enrollments),
		OverallStatus: "No Registrations",
	}
	if n := len(enrollments); n > 0 {
		first, last := enrollments[n-1].RegisteredAt, enrollments[0].RegisteredAt
		summary.FirstRegistration = &first
		summary.LastRegistration = &last
		summary.OverallStatus = StatusActive
	}
	return summary
}
