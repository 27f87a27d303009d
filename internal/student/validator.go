package student

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	apperrors "github.com/academix/records/pkg/errors"
)

const (
	minNameLength      = 2
	maxNameLength      = 100
	minStudentIDLength = 5
	maxStudentIDLength = 20
	minAge             = 16
	maxAge             = 100
	maxEmailLength     = 255
	maxAddressLength   = 500
	dateLayout         = "2006-01-02"
)

var (
	emailRegex     = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	phoneRegex     = regexp.MustCompile(`^[\d\-\+\s()]{7,20}$`)
	studentIDRegex = regexp.MustCompile(`^[A-Z0-9]{5,20}$`)
	lettersRegex   = regexp.MustCompile(`^[A-Za-z]+$`)

	nameSeparators = strings.NewReplacer(" ", "", "-", "", "'", "")
)

// Validate checks a submitted student against the enrollment rules as of
// now. It returns the normalized input or a validation error listing every
// offending field. Free text is stored as typed; HTML output escapes it, so
// a stored record validates again unchanged.
func Validate(in Input, now time.Time) (Input, error) {
	fields := make(map[string]string)
	today := dateOf(now)

	out := Input{
		FirstName:      strings.TrimSpace(in.FirstName),
		LastName:       strings.TrimSpace(in.LastName),
		StudentID:      strings.ToUpper(strings.TrimSpace(in.StudentID)),
		Email:          strings.ToLower(strings.TrimSpace(in.Email)),
		DateOfBirth:    strings.TrimSpace(in.DateOfBirth),
		CourseOfStudy:  strings.TrimSpace(in.CourseOfStudy),
		EnrollmentDate: strings.TrimSpace(in.EnrollmentDate),
		Phone:          strings.TrimSpace(in.Phone),
		Address:        strings.TrimSpace(in.Address),
	}

	if msg := checkName("First name", out.FirstName); msg != "" {
		fields["first_name"] = msg
	}
	if msg := checkName("Last name", out.LastName); msg != "" {
		fields["last_name"] = msg
	}

	switch {
	case out.StudentID == "":
		fields["student_id"] = "Student ID is required"
	case len(out.StudentID) < minStudentIDLength:
		fields["student_id"] = fmt.Sprintf("Student ID must be at least %d characters", minStudentIDLength)
	case len(out.StudentID) > maxStudentIDLength:
		fields["student_id"] = fmt.Sprintf("Student ID must not exceed %d characters", maxStudentIDLength)
	case !studentIDRegex.MatchString(out.StudentID):
		fields["student_id"] = "Student ID must contain only uppercase letters and numbers"
	}

	switch {
	case out.Email == "":
		fields["email"] = "Email is required"
	case len(out.Email) > maxEmailLength:
		fields["email"] = fmt.Sprintf("Email must not exceed %d characters", maxEmailLength)
	case !emailRegex.MatchString(out.Email):
		fields["email"] = "Invalid email format"
	}

	if msg := checkDateOfBirth(out.DateOfBirth, today); msg != "" {
		fields["date_of_birth"] = msg
	}

	switch {
	case out.CourseOfStudy == "":
		fields["course_of_study"] = "Course of study is required"
	case len(out.CourseOfStudy) < 3:
		fields["course_of_study"] = "Course of study must be at least 3 characters"
	case len(out.CourseOfStudy) > 255:
		fields["course_of_study"] = "Course of study must not exceed 255 characters"
	}

	if msg := checkEnrollmentDate(out.EnrollmentDate, today); msg != "" {
		fields["enrollment_date"] = msg
	}

	if out.Phone != "" && !phoneRegex.MatchString(out.Phone) {
		fields["phone"] = "Invalid phone number format"
	}
	if len(out.Address) > maxAddressLength {
		fields["address"] = fmt.Sprintf("Address must not exceed %d characters", maxAddressLength)
	}

	if len(fields) > 0 {
		return Input{}, apperrors.Validation("Validation failed. Please check your inputs.", fields)
	}

	return out, nil
}

func checkName(label, name string) string {
	switch {
	case name == "":
		return label + " is required"
	case len(name) < minNameLength:
		return fmt.Sprintf("%s must be at least %d characters", label, minNameLength)
	case len(name) > maxNameLength:
		return fmt.Sprintf("%s must not exceed %d characters", label, maxNameLength)
	case !lettersRegex.MatchString(nameSeparators.Replace(name)):
		return label + " can only contain letters, spaces, hyphens, and apostrophes"
	}
	return ""
}

func checkDateOfBirth(value string, today time.Time) string {
	if value == "" {
		return "Date of birth is required"
	}
	dob, ok := parseDate(value)
	if !ok {
		return "Invalid date format. Use YYYY-MM-DD"
	}

	switch age := yearsBetween(dob, today); {
	case dob.After(today):
		return "Date of birth cannot be in the future"
	case age < minAge:
		return fmt.Sprintf("Student must be at least %d years old", minAge)
	case age > maxAge:
		return "Invalid date of birth"
	}
	return ""
}

func checkEnrollmentDate(value string, today time.Time) string {
	if value == "" {
		return "Enrollment date is required"
	}
	date, ok := parseDate(value)
	if !ok {
		return "Invalid date format. Use YYYY-MM-DD"
	}

	switch {
	case date.After(today.AddDate(1, 0, 0)):
		return "Enrollment date cannot be more than 1 year in the future"
	case date.Before(today.AddDate(-10, 0, 0)):
		return "Enrollment date cannot be more than 10 years in the past"
	}
	return ""
}

// parseDate accepts only canonical YYYY-MM-DD calendar dates
func parseDate(value string) (time.Time, bool) {
	date, err := time.Parse(dateLayout, value)
	if err != nil || date.Format(dateLayout) != value {
		return time.Time{}, false
	}
	return date, true
}

// dateOf drops the clock part of t, keeping its calendar date in UTC
func dateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// yearsBetween counts whole years from a to b
func yearsBetween(a, b time.Time) int {
	years := b.Year() - a.Year()
	if b.Month() < a.Month() || (b.Month() == a.Month() && b.Day() < a.Day()) {
		years--
	}
	return years
}
