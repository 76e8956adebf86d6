package service

import (
	"context"
	"fmt"
	"strings"

	"learnhub/internal/model"
	"learnhub/internal/pubsub"
	"learnhub/internal/repository"

	"github.com/rs/zerolog"
)

// TeacherCourses is the teacher dashboard view.
type TeacherCourses struct {
	Courses       []model.Course
	TotalStudents int
}

// CourseService defines the interface for course operations
type CourseService interface {
	// ListPublished returns the catalog narrowed by filter.
	ListPublished(ctx context.Context, filter model.CourseFilter) ([]model.Course, error)
	ListForTeacher(ctx context.Context, teacherID string) (*TeacherCourses, error)
	// Get returns ErrCourseNotFound when the course does not exist.
	Get(ctx context.Context, courseID string) (*model.Course, error)
	// Create stores a course owned by userID, who must have the teacher role.
	Create(ctx context.Context, userID string, c *model.Course) (*model.Course, error)
}

type courseService struct {
	repo        repository.CourseRepository
	profileRepo repository.ProfileRepository
	events      pubsub.EventPublisher
	logger      zerolog.Logger
}

// NewCourseService creates a new CourseService
func NewCourseService(repo repository.CourseRepository, profileRepo repository.ProfileRepository, events pubsub.EventPublisher, logger zerolog.Logger) CourseService {
	return &courseService{
		repo:        repo,
		profileRepo: profileRepo,
		events:      events,
		logger:      logger.With().Str("service", "CourseService").Logger(),
	}
}

func (s *courseService) ListPublished(ctx context.Context, filter model.CourseFilter) ([]model.Course, error) {
	courses, err := s.repo.ListPublished(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing published courses: %w", err)
	}
	filtered := make([]model.Course, 0, len(courses))
	for _, c := range courses {
		if matchesFilter(c, filter) {
			filtered = append(filtered, c)
		}
	}
	return filtered, nil
}

// matchesFilter applies the catalog filters. "all" or empty disables a filter;
// search is a case-insensitive substring match on title or description.
func matchesFilter(c model.Course, f model.CourseFilter) bool {
	if f.Category != "" && f.Category != "all" && c.Category != f.Category {
		return false
	}
	if f.Level != "" && f.Level != "all" && c.Level != f.Level {
		return false
	}
	if term := strings.ToLower(strings.TrimSpace(f.Search)); term != "" {
		if !strings.Contains(strings.ToLower(c.Title), term) &&
			!strings.Contains(strings.ToLower(c.Description), term) {
			return false
		}
	}
	return true
}

func (s *courseService) ListForTeacher(ctx context.Context, teacherID string) (*TeacherCourses, error) {
	courses, err := s.repo.ListByTeacher(ctx, teacherID)
	if err != nil {
		return nil, fmt.Errorf("listing teacher courses: %w", err)
	}
	total := 0
	for _, c := range courses {
		total += c.EnrollmentCount
	}
	return &TeacherCourses{Courses: courses, TotalStudents: total}, nil
}

func (s *courseService) Get(ctx context.Context, courseID string) (*model.Course, error) {
	c, err := s.repo.GetByID(ctx, courseID)
	if err != nil {
		return nil, fmt.Errorf("getting course: %w", err)
	}
	if c == nil {
		return nil, ErrCourseNotFound
	}
	return c, nil
}

func validLevel(level string) bool {
	switch level {
	case model.LevelBeginner, model.LevelIntermediate, model.LevelAdvanced:
		return true
	}
	return false
}

func (s *courseService) Create(ctx context.Context, userID string, c *model.Course) (*model.Course, error) {
	profile, err := s.profileRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("loading profile: %w", err)
	}
	if profile == nil {
		return nil, ErrProfileNotFound
	}
	if !profile.IsTeacher() {
		return nil, ErrForbidden
	}
	if c.Level == "" {
		c.Level = model.LevelBeginner
	}
	if !validLevel(c.Level) {
		return nil, ErrInvalidLevel
	}

	c.TeacherID = userID
	if err := s.repo.Create(ctx, c); err != nil {
		s.logger.Error().Err(err).Str("teacher_id", userID).Msg("Failed to create course")
		return nil, fmt.Errorf("creating course: %w", err)
	}
	c.TeacherName = profile.FullName

	if err := s.events.PublishEvent(ctx, pubsub.EventCourseCreated, map[string]string{
		"course_id":  c.ID,
		"teacher_id": c.TeacherID,
		"title":      c.Title,
	}); err != nil {
		s.logger.Warn().Err(err).Str("course_id", c.ID).Msg("Course created but event not published")
	}
	return c, nil
}
