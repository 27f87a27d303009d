package registration

import "time"

// View is a registration joined with its student and course
type View struct {
	ID           int64     `db:"id" json:"id"`
	StudentID    int64     `db:"student_id" json:"student_id"`
	CourseID     int64     `db:"course_id" json:"course_id"`
	RegisteredAt time.Time `db:"registered_at" json:"registered_at"`
	StudentName  string    `db:"student_name" json:"student_name"`
	StudentEmail string    `db:"student_email" json:"student_email"`
	CourseCode   string    `db:"course_code" json:"course_code"`
	CourseName   string    `db:"course_name" json:"course_name"`
	Credits      int       `db:"credits" json:"credits"`
}

// Enrollment is one course a student is registered for
type Enrollment struct {
	RegistrationID int64     `db:"registration_id" json:"registration_id"`
	CourseID       int64     `db:"course_id" json:"course_id"`
	Code           string    `db:"code" json:"code"`
	Name           string    `db:"name" json:"name"`
	Description    string    `db:"description" json:"description"`
	Credits        int       `db:"credits" json:"credits"`
	Instructor     string    `db:"instructor" json:"instructor"`
	RegisteredAt   time.Time `db:"registered_at" json:"registered_at"`
}

// Request asks for a student to be registered on a course
type Request struct {
	StudentID int64 `json:"student_id"`
	CourseID  int64 `json:"course_id"`
}
