package model

import "time"

// Submission is a student's answer to a course assignment.
type Submission struct {
	ID           string    `json:"id"`
	StudentID    string    `json:"studentId"`
	CourseID     string    `json:"courseId"`
	AssignmentID string    `json:"assignmentId"`
	Content      string    `json:"content"`
	Score        *float64  `json:"score,omitempty"`
	Feedback     string    `json:"feedback,omitempty"`
	SubmittedAt  time.Time `json:"submittedAt"`
}

// QuizResult records one completed quiz attempt.
type QuizResult struct {
	ID          string    `json:"id"`
	StudentID   string    `json:"studentId"`
	CourseID    string    `json:"courseId"`
	Topic       string    `json:"topic"`
	Score       int       `json:"score"`
	Total       int       `json:"total"`
	CompletedAt time.Time `json:"completedAt"`
}
