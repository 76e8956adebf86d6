package service

import (
	"context"
	"fmt"

	"learnhub/internal/model"
	"learnhub/internal/pubsub"
	"learnhub/internal/repository"

	"github.com/rs/zerolog"
)

type EnrollmentService interface {
	// Enroll inserts a new enrollment with zero progress. There is no
	// duplicate check: enrolling twice creates two enrollments.
	Enroll(ctx context.Context, studentID, courseID string) (*model.Enrollment, error)
	IsEnrolled(ctx context.Context, studentID, courseID string) (bool, error)
	ListForStudent(ctx context.Context, studentID string) ([]model.Enrollment, error)
	UpdateProgress(ctx context.Context, studentID, enrollmentID string, progress int) (*model.Enrollment, error)
}

type enrollmentService struct {
	repo       repository.EnrollmentRepository
	courseRepo repository.CourseRepository
	events     pubsub.EventPublisher
	logger     zerolog.Logger
}

func NewEnrollmentService(repo repository.EnrollmentRepository, courseRepo repository.CourseRepository, events pubsub.EventPublisher, logger zerolog.Logger) EnrollmentService {
	return &enrollmentService{
		repo:       repo,
		courseRepo: courseRepo,
		events:     events,
		logger:     logger.With().Str("service", "EnrollmentService").Logger(),
	}
}

func (s *enrollmentService) Enroll(ctx context.Context, studentID, courseID string) (*model.Enrollment, error) {
	course, err := s.courseRepo.GetByID(ctx, courseID)
	if err != nil {
		return nil, fmt.Errorf("getting course: %w", err)
	}
	if course == nil {
		return nil, ErrCourseNotFound
	}

	e := &model.Enrollment{StudentID: studentID, CourseID: courseID, Progress: 0}
	if err := s.repo.Create(ctx, e); err != nil {
		s.logger.Error().Err(err).Str("course_id", courseID).Str("student_id", studentID).Msg("Failed to enroll")
		return nil, fmt.Errorf("creating enrollment: %w", err)
	}

	if err := s.events.PublishEvent(ctx, pubsub.EventEnrollmentCreated, map[string]string{
		"enrollment_id": e.ID,
		"course_id":     courseID,
		"student_id":    studentID,
	}); err != nil {
		s.logger.Warn().Err(err).Str("enrollment_id", e.ID).Msg("Enrollment created but event not published")
	}
	return e, nil
}

func (s *enrollmentService) IsEnrolled(ctx context.Context, studentID, courseID string) (bool, error) {
	e, err := s.repo.FindByStudentAndCourse(ctx, studentID, courseID)
	if err != nil {
		return false, fmt.Errorf("checking enrollment: %w", err)
	}
	return e != nil, nil
}

func (s *enrollmentService) ListForStudent(ctx context.Context, studentID string) ([]model.Enrollment, error) {
	enrollments, err := s.repo.ListByStudent(ctx, studentID)
	if err != nil {
		return nil, fmt.Errorf("listing enrollments: %w", err)
	}
	return enrollments, nil
}

func (s *enrollmentService) UpdateProgress(ctx context.Context, studentID, enrollmentID string, progress int) (*model.Enrollment, error) {
	if progress < 0 || progress > 100 {
		return nil, ErrInvalidProgress
	}
	e, err := s.repo.UpdateProgress(ctx, enrollmentID, studentID, progress)
	if err != nil {
		return nil, fmt.Errorf("updating progress: %w", err)
	}
	if e == nil {
		return nil, ErrEnrollmentNotFound
	}
	return e, nil
}
