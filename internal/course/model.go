package course

import "time"

// DefaultCapacity applies when a course is created without a capacity
const DefaultCapacity = 30

// Course is an offered course
type Course struct {
	ID          int64     `db:"id" json:"id"`
	Code        string    `db:"code" json:"code"`
	Name        string    `db:"name" json:"name"`
	Description string    `db:"description" json:"description"`
	Credits     int       `db:"credits" json:"credits"`
	Instructor  string    `db:"instructor" json:"instructor"`
	Capacity    int       `db:"capacity" json:"capacity"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

// Input is the writable part of a course
type Input struct {
	Code        string `json:"code"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Credits     int    `json:"credits"`
	Instructor  string `json:"instructor"`
	// nil keeps the stored capacity on update and means DefaultCapacity on create
	Capacity *int `json:"capacity,omitempty"`
}
