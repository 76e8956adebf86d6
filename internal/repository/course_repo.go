package repository

import (
	"context"
	"database/sql"
	"errors"

	"learnhub/internal/model"

	"github.com/google/uuid"
)

// CourseRepository defines the interface for interacting with course data
type CourseRepository interface {
	// ListPublished returns published courses, newest first, with teacher
	// name and enrollment count.
	ListPublished(ctx context.Context) ([]model.Course, error)
	// ListByTeacher returns every course owned by teacherID, newest first.
	ListByTeacher(ctx context.Context, teacherID string) ([]model.Course, error)
	// GetByID returns nil when the course does not exist.
	GetByID(ctx context.Context, courseID string) (*model.Course, error)
	Create(ctx context.Context, c *model.Course) error
	// SetImageURL reports false when the course does not exist.
	SetImageURL(ctx context.Context, courseID, imageURL string) (bool, error)
}

type courseRepo struct {
	db *sql.DB
}

// NewCourseRepo creates a new CourseRepository
func NewCourseRepo(db *sql.DB) CourseRepository {
	return &courseRepo{db: db}
}

const courseSelect = `
	SELECT c.id, c.teacher_id, c.title, COALESCE(c.description, ''), COALESCE(c.category, ''),
	       COALESCE(c.level, ''), COALESCE(c.duration, ''), COALESCE(c.image_url, ''),
	       c.is_published, c.created_at, COALESCE(p.full_name, ''),
	       (SELECT COUNT(*) FROM enrollments e WHERE e.course_id = c.id)
	FROM courses c
	LEFT JOIN profiles p ON p.id = c.teacher_id
`

// validID reports whether id can name a row. Ids are uuid columns, so
// anything else is a miss rather than a query error.
func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCourse(row rowScanner) (model.Course, error) {
	var c model.Course
	err := row.Scan(
		&c.ID,
		&c.TeacherID,
		&c.Title,
		&c.Description,
		&c.Category,
		&c.Level,
		&c.Duration,
		&c.ImageURL,
		&c.IsPublished,
		&c.CreatedAt,
		&c.TeacherName,
		&c.EnrollmentCount,
	)
	return c, err
}

func (r *courseRepo) queryCourses(ctx context.Context, query string, args ...any) ([]model.Course, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	courses := []model.Course{}
	for rows.Next() {
		c, err := scanCourse(rows)
		if err != nil {
			return nil, err
		}
		courses = append(courses, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return courses, nil
}

func (r *courseRepo) ListPublished(ctx context.Context) ([]model.Course, error) {
	return r.queryCourses(ctx, courseSelect+`
		WHERE c.is_published = true
		ORDER BY c.created_at DESC
	`)
}

func (r *courseRepo) ListByTeacher(ctx context.Context, teacherID string) ([]model.Course, error) {
	if !validID(teacherID) {
		return []model.Course{}, nil
	}
	return r.queryCourses(ctx, courseSelect+`
		WHERE c.teacher_id = $1
		ORDER BY c.created_at DESC
	`, teacherID)
}

func (r *courseRepo) GetByID(ctx context.Context, courseID string) (*model.Course, error) {
	if !validID(courseID) {
		return nil, nil
	}
	c, err := scanCourse(r.db.QueryRowContext(ctx, courseSelect+`WHERE c.id = $1`, courseID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &c, nil
}

// Create inserts a new course and fills in the generated id and timestamp
func (r *courseRepo) Create(ctx context.Context, c *model.Course) error {
	query := `
		INSERT INTO courses (teacher_id, title, description, category, level, duration, image_url, is_published)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at
	`
	return r.db.QueryRowContext(ctx, query,
		c.TeacherID, c.Title, c.Description, c.Category, c.Level, c.Duration, c.ImageURL, c.IsPublished,
	).Scan(&c.ID, &c.CreatedAt)
}

func (r *courseRepo) SetImageURL(ctx context.Context, courseID, imageURL string) (bool, error) {
	if !validID(courseID) {
		return false, nil
	}
	res, err := r.db.ExecContext(ctx, `UPDATE courses SET image_url = $1 WHERE id = $2`, imageURL, courseID)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
