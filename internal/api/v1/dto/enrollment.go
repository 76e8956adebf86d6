package dto

import (
	"time"

	"learnhub/internal/model"
)

type EnrollmentResponseDTO struct {
	ID         string               `json:"id"`
	StudentID  string               `json:"student_id"`
	CourseID   string               `json:"course_id"`
	Progress   int                  `json:"progress"`
	EnrolledAt time.Time            `json:"enrolled_at"`
	Course     *model.CourseSummary `json:"course,omitempty"`
}

type ProgressUpdateDTO struct {
	Progress *int `json:"progress" validate:"required,min=0,max=100"`
}

func NewEnrollmentResponse(e *model.Enrollment) EnrollmentResponseDTO {
	return EnrollmentResponseDTO{
		ID:         e.ID,
		StudentID:  e.StudentID,
		CourseID:   e.CourseID,
		Progress:   e.Progress,
		EnrolledAt: e.EnrolledAt,
		Course:     e.Course,
	}
}
