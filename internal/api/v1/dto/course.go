package dto

import (
	"time"

	"learnhub/internal/model"
)

// CourseCreateDTO is used for incoming course creation requests
type CourseCreateDTO struct {
	Title       string `json:"title" validate:"required,max=200"`
	Description string `json:"description"`
	Category    string `json:"category" validate:"max=100"`
	Level       string `json:"level" validate:"omitempty,oneof=beginner intermediate advanced"`
	Duration    string `json:"duration" validate:"max=100"`
	ImageURL    string `json:"image_url" validate:"omitempty,url"`
	IsPublished *bool  `json:"is_published,omitempty"`
}

// CourseResponseDTO is returned in API responses for courses
type CourseResponseDTO struct {
	ID              string               `json:"id"`
	TeacherID       string               `json:"teacher_id"`
	TeacherName     string               `json:"teacher_name"`
	Title           string               `json:"title"`
	Description     string               `json:"description"`
	Category        string               `json:"category"`
	Level           string               `json:"level"`
	Duration        string               `json:"duration"`
	ImageURL        string               `json:"image_url"`
	IsPublished     bool                 `json:"is_published"`
	EnrollmentCount int                  `json:"enrollment_count"`
	CreatedAt       time.Time            `json:"created_at"`
	Modules         []model.CourseModule `json:"modules,omitempty"`
	Assignments     []model.Assignment   `json:"assignments,omitempty"`
}

// TeacherCoursesResponseDTO backs the teacher dashboard
type TeacherCoursesResponseDTO struct {
	Courses       []CourseResponseDTO `json:"courses"`
	TotalCourses  int                 `json:"total_courses"`
	TotalStudents int                 `json:"total_students"`
}

type EnrollmentStatusDTO struct {
	CourseID string `json:"course_id"`
	Enrolled bool   `json:"enrolled"`
}

type CourseImageUploadDTO struct {
	Filename string `json:"filename" validate:"required,max=255"`
}

type CourseImageUploadResponseDTO struct {
	UploadURL   string    `json:"upload_url"`
	ObjectKey   string    `json:"object_key"`
	ImageURL    string    `json:"image_url"`
	ContentType string    `json:"content_type"`
	ExpiresAt   time.Time `json:"expires_at"`
}

type CourseImageUploadCompleteDTO struct {
	ObjectKey string `json:"object_key" validate:"required,max=512"`
}

type CourseImageUploadCompleteResponseDTO struct {
	CourseID string `json:"course_id"`
	ImageURL string `json:"image_url"`
}

func NewCourseResponse(c *model.Course) CourseResponseDTO {
	return CourseResponseDTO{
		ID:              c.ID,
		TeacherID:       c.TeacherID,
		TeacherName:     c.TeacherName,
		Title:           c.Title,
		Description:     c.Description,
		Category:        c.Category,
		Level:           c.Level,
		Duration:        c.Duration,
		ImageURL:        c.ImageURL,
		IsPublished:     c.IsPublished,
		EnrollmentCount: c.EnrollmentCount,
		CreatedAt:       c.CreatedAt,
		Modules:         c.Modules,
		Assignments:     c.Assignments,
	}
}

func NewCourseListResponse(courses []model.Course) []CourseResponseDTO {
	resp := make([]CourseResponseDTO, 0, len(courses))
	for i := range courses {
		resp = append(resp, NewCourseResponse(&courses[i]))
	}
	return resp
}
