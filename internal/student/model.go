package student

import "time"

// Student is an enrolled student record
type Student struct {
	ID             int64     `db:"id" json:"id"`
	StudentID      string    `db:"student_id" json:"student_id"`
	FirstName      string    `db:"first_name" json:"first_name"`
	LastName       string    `db:"last_name" json:"last_name"`
	Email          string    `db:"email" json:"email"`
	Phone          *string   `db:"phone" json:"phone"`
	DateOfBirth    string    `db:"date_of_birth" json:"date_of_birth"`
	Address        *string   `db:"address" json:"address"`
	CourseOfStudy  string    `db:"course_of_study" json:"course_of_study"`
	EnrollmentDate string    `db:"enrollment_date" json:"enrollment_date"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time `db:"updated_at" json:"updated_at"`
}

// FullName joins first and last name
func (s *Student) FullName() string {
	return s.FirstName + " " + s.LastName
}

// Input is the writable part of a student, as submitted by an admin
type Input struct {
	StudentID      string `json:"student_id"`
	FirstName      string `json:"first_name"`
	LastName       string `json:"last_name"`
	Email          string `json:"email"`
	Phone          string `json:"phone"`
	DateOfBirth    string `json:"date_of_birth"`
	Address        string `json:"address"`
	CourseOfStudy  string `json:"course_of_study"`
	EnrollmentDate string `json:"enrollment_date"`
}
