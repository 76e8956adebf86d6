package repository

import (
	"context"
	"database/sql"
	"errors"

	"learnhub/internal/model"
)

type EnrollmentRepository interface {
	// ListByStudent returns the student's enrollments, newest first, each with
	// its course summary.
	ListByStudent(ctx context.Context, studentID string) ([]model.Enrollment, error)
	// FindByStudentAndCourse returns nil when the student is not enrolled.
	FindByStudentAndCourse(ctx context.Context, studentID, courseID string) (*model.Enrollment, error)
	// Create always inserts; enrolling twice yields two rows.
	Create(ctx context.Context, e *model.Enrollment) error
	// UpdateProgress returns nil when the student has no enrollment with that id.
	UpdateProgress(ctx context.Context, id, studentID string, progress int) (*model.Enrollment, error)
}

type enrollmentRepo struct {
	db *sql.DB
}

func NewEnrollmentRepo(db *sql.DB) EnrollmentRepository {
	return &enrollmentRepo{db: db}
}

func (r *enrollmentRepo) ListByStudent(ctx context.Context, studentID string) ([]model.Enrollment, error) {
	if !validID(studentID) {
		return []model.Enrollment{}, nil
	}
	query := `
		SELECT e.id, e.student_id, e.course_id, e.progress, e.enrolled_at,
		       c.id, c.title, COALESCE(c.description, ''), COALESCE(c.image_url, ''),
		       COALESCE(c.category, ''), COALESCE(c.level, '')
		FROM enrollments e
		JOIN courses c ON c.id = e.course_id
		WHERE e.student_id = $1
		ORDER BY e.enrolled_at DESC
	`
	rows, err := r.db.QueryContext(ctx, query, studentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	enrollments := []model.Enrollment{}
	for rows.Next() {
		var e model.Enrollment
		var c model.CourseSummary
		if err := rows.Scan(
			&e.ID, &e.StudentID, &e.CourseID, &e.Progress, &e.EnrolledAt,
			&c.ID, &c.Title, &c.Description, &c.ImageURL, &c.Category, &c.Level,
		); err != nil {
			return nil, err
		}
		e.Course = &c
		enrollments = append(enrollments, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return enrollments, nil
}

func (r *enrollmentRepo) FindByStudentAndCourse(ctx context.Context, studentID, courseID string) (*model.Enrollment, error) {
	if !validID(studentID) || !validID(courseID) {
		return nil, nil
	}
	query := `
		SELECT id, student_id, course_id, progress, enrolled_at
		FROM enrollments
		WHERE student_id = $1 AND course_id = $2
		ORDER BY enrolled_at ASC
		LIMIT 1
	`
	var e model.Enrollment
	err := r.db.QueryRowContext(ctx, query, studentID, courseID).
		Scan(&e.ID, &e.StudentID, &e.CourseID, &e.Progress, &e.EnrolledAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &e, nil
}

func (r *enrollmentRepo) Create(ctx context.Context, e *model.Enrollment) error {
	query := `
		INSERT INTO enrollments (student_id, course_id, progress)
		VALUES ($1, $2, $3)
		RETURNING id, enrolled_at
	`
	return r.db.QueryRowContext(ctx, query, e.StudentID, e.CourseID, e.Progress).Scan(&e.ID, &e.EnrolledAt)
}

func (r *enrollmentRepo) UpdateProgress(ctx context.Context, id, studentID string, progress int) (*model.Enrollment, error) {
	if !validID(id) || !validID(studentID) {
		return nil, nil
	}
	query := `
		UPDATE enrollments SET progress = $1
		WHERE id = $2 AND student_id = $3
		RETURNING id, student_id, course_id, progress, enrolled_at
	`
	var e model.Enrollment
	err := r.db.QueryRowContext(ctx, query, progress, id, studentID).
		Scan(&e.ID, &e.StudentID, &e.CourseID, &e.Progress, &e.EnrolledAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &e, nil
}
