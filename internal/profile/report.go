package profile

import (
	"crypto/md5"
	"embed"
	"encoding/hex"
	"fmt"
	"html/template"
	"io"
	"strings"
	"time"
	"unicode"

	"github.com/academix/records/internal/registration"
	"github.com/academix/records/internal/student"
)

//go:embed templates/*.html.tmpl
var templateFS embed.FS

var templates = template.Must(template.ParseFS(templateFS, "templates/*.html.tmpl"))

const generatedLayout = "January 2, 2006 at 3:04 PM"

type reportCourse struct {
	Code       string
	Name       string
	Instructor string
	Credits    int
}

type reportData struct {
	FullName       string
	StudentID      string
	Email          string
	DateOfBirth    string
	Phone          string
	Address        string
	CourseOfStudy  string
	EnrollmentDate string
	Status         AcademicStatus
	Courses        []reportCourse
	GeneratedAt    string
	Year           int
}

type slipRow struct {
	Code         string
	Name         string
	Credits      int
	RegisteredOn string
	Status       string
	StatusClass  string
}

type slipData struct {
	FullName         string
	StudentID        string
	Email            string
	CourseOfStudy    string
	SlipNumber       string
	Summary          Summary
	StatusClass      string
	Rows             []slipRow
	GeneratedAt      string
	VerificationCode string
}

// RenderReport writes the printable profile report
func RenderReport(w io.Writer, s *student.Student, enrollments []registration.Enrollment, now time.Time) error {
	data := reportData{
		FullName:       s.FullName(),
		StudentID:      s.StudentID,
		Email:          s.Email,
		DateOfBirth:    s.DateOfBirth,
		Phone:          orNA(s.Phone),
		Address:        orNA(s.Address),
		CourseOfStudy:  s.CourseOfStudy,
		EnrollmentDate: s.EnrollmentDate,
		Status:         Assess(enrollments),
		GeneratedAt:    now.Format(generatedLayout),
		Year:           now.Year(),
	}
	for _, e := range enrollments {
		data.Courses = append(data.Courses, reportCourse{
			Code:       e.Code,
			Name:       e.Name,
			Instructor: e.Instructor,
			Credits:    e.Credits,
		})
	}
	return templates.ExecuteTemplate(w, "report.html.tmpl", data)
}

// RenderSlip writes the registration confirmation slip
func RenderSlip(w io.Writer, s *student.Student, enrollments []registration.Enrollment, now time.Time) error {
	summary := Summarize(enrollments)
	statusClass := "pending"
	if summary.OverallStatus == StatusActive {
		statusClass = "active"
	}

	data := slipData{
		FullName:         s.FullName(),
		StudentID:        s.StudentID,
		Email:            s.Email,
		CourseOfStudy:    s.CourseOfStudy,
		SlipNumber:       SlipNumber(s.ID, now),
		Summary:          summary,
		StatusClass:      statusClass,
		GeneratedAt:      now.Format(generatedLayout),
		VerificationCode: VerificationCode(s.StudentID, now),
	}
	for _, e := range enrollments {
		data.Rows = append(data.Rows, slipRow{
			Code:         e.Code,
			Name:         e.Name,
			Credits:      e.Credits,
			RegisteredOn: e.RegisteredAt.Format("Jan 2, 2006"),
			Status:       StatusActive,
			StatusClass:  strings.ToLower(StatusActive),
		})
	}
	return templates.ExecuteTemplate(w, "slip.html.tmpl", data)
}

// SlipNumber formats a slip number as REG-YYYYMMDD-NNNN
func SlipNumber(id int64, now time.Time) string {
	return fmt.Sprintf("REG-%s-%04d", now.Format("20060102"), id)
}

// VerificationCode is a short daily code printed on each slip
func VerificationCode(studentID string, now time.Time) string {
	sum := md5.Sum([]byte(studentID + now.Format("20060102")))
	return strings.ToUpper(hex.EncodeToString(sum[:])[:12])
}

// ReportFilename names the downloadable report
func ReportFilename(s *student.Student, now time.Time) string {
	return fmt.Sprintf("Profile_Report_%s_%s_%s.html",
		filenameSafe(s.FirstName), filenameSafe(s.LastName), now.Format(time.DateOnly))
}


func orNA(value *string) string {
	if value == nil || *value == "" {
		return "N/A"
	}
	return *value
}

func filenameSafe(name string) string {
	return strings.Map(func(r rune) rune {
		if r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-') {
			return r
		}
		return '_'
	}, name)
}
