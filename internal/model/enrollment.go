package model

import "time"

// Enrollment links a student to a course with a progress percentage.
type Enrollment struct {
	ID         string    `db:"id" json:"id"`
	StudentID  string    `db:"student_id" json:"student_id"`
	CourseID   string    `db:"course_id" json:"course_id"`
	Progress   int       `db:"progress" json:"progress"`
	EnrolledAt time.Time `db:"enrolled_at" json:"enrolled_at"`

	Course *CourseSummary `json:"course,omitempty"`
}
