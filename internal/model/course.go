package model

import "time"

// Course levels offered in the catalog.
const (
	LevelBeginner     = "beginner"
	LevelIntermediate = "intermediate"
	LevelAdvanced     = "advanced"
)

// Course represents a course in the catalog
type Course struct {
	ID          string    `db:"id" json:"id"`
	TeacherID   string    `db:"teacher_id" json:"teacher_id"`
	Title       string    `db:"title" json:"title"`
	Description string    `db:"description" json:"description"`
	Category    string    `db:"category" json:"category"`
	Level       string    `db:"level" json:"level"`
	Duration    string    `db:"duration" json:"duration"`
	ImageURL    string    `db:"image_url" json:"image_url"`
	IsPublished bool      `db:"is_published" json:"is_published"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`

	// Read-only projections filled by list/get queries.
	TeacherName     string `db:"teacher_name" json:"teacher_name,omitempty"`
	EnrollmentCount int    `db:"enrollment_count" json:"enrollment_count"`

	// Curriculum is only kept by the local store.
	Modules     []CourseModule `json:"modules,omitempty"`
	Assignments []Assignment   `json:"assignments,omitempty"`
}

type Lesson struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Duration  string `json:"duration"`
	Completed bool   `json:"completed"`
}

type CourseModule struct {
	ID      string   `json:"id"`
	Title   string   `json:"title"`
	Lessons []Lesson `json:"lessons"`
}

type Assignment struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	DueDate     string `json:"due_date"`
	Points      int    `json:"points"`
}

// CourseSummary is the nested course shape returned with a student's enrollments.
type CourseSummary struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	ImageURL    string `json:"image_url"`
	Category    string `json:"category"`
	Level       string `json:"level"`
}

// CourseFilter narrows the published catalog.
type CourseFilter struct {
	Category string
	Level    string
	Search   string
}
