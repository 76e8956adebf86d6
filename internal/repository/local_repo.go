package repository

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"learnhub/internal/localstore"
	"learnhub/internal/model"
)

// LocalRepositories bundles the repositories backed by a localstore.Store.
// A single mutex serializes read-modify-write cycles on the store documents.
type LocalRepositories struct {
	Courses     CourseRepository
	Enrollments EnrollmentRepository
	Profiles    ProfileRepository
}

type localDB struct {
	mu    sync.Mutex
	store localstore.Store
	now   func() time.Time
}

func NewLocalRepositories(store localstore.Store) LocalRepositories {
	db := &localDB{store: store, now: func() time.Time { return time.Now().UTC() }}
	return LocalRepositories{
		Courses:     &localCourseRepo{db: db},
		Enrollments: &localEnrollmentRepo{db: db},
		Profiles:    &localProfileRepo{db: db},
	}
}

func (db *localDB) users(ctx context.Context) ([]model.Profile, error) {
	users := []model.Profile{}
	if _, err := db.store.Get(ctx, localstore.KeyUsers, &users); err != nil {
		return nil, fmt.Errorf("loading users: %w", err)
	}
	return users, nil
}

func (db *localDB) courses(ctx context.Context) ([]model.Course, error) {
	courses := []model.Course{}
	if _, err := db.store.Get(ctx, localstore.KeyCourses, &courses); err != nil {
		return nil, fmt.Errorf("loading courses: %w", err)
	}
	return courses, nil
}

func (db *localDB) enrollments(ctx context.Context) ([]model.Enrollment, error) {
	enrollments := []model.Enrollment{}
	if _, err := db.store.Get(ctx, localstore.KeyEnrollments, &enrollments); err != nil {
		return nil, fmt.Errorf("loading enrollments: %w", err)
	}
	return enrollments, nil
}

// decorate fills the teacher name and enrollment count projections.
func (db *localDB) decorate(ctx context.Context, courses []model.Course) error {
	users, err := db.users(ctx)
	if err != nil {
		return err
	}
	enrollments, err := db.enrollments(ctx)
	if err != nil {
		return err
	}
	names := make(map[string]string, len(users))
	for _, u := range users {
		names[u.ID] = u.FullName
	}
	counts := make(map[string]int)
	for _, e := range enrollments {
		counts[e.CourseID]++
	}
	for i := range courses {
		courses[i].TeacherName = names[courses[i].TeacherID]
		courses[i].EnrollmentCount = counts[courses[i].ID]
	}
	return nil
}

type localCourseRepo struct {
	db *localDB
}

func (r *localCourseRepo) list(ctx context.Context, keep func(model.Course) bool) ([]model.Course, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	all, err := r.db.courses(ctx)
	if err != nil {
		return nil, err
	}
	courses := []model.Course{}
	for _, c := range all {
		if keep(c) {
			courses = append(courses, c)
		}
	}
	sort.SliceStable(courses, func(i, j int) bool {
		return courses[i].CreatedAt.After(courses[j].CreatedAt)
	})
	if err := r.db.decorate(ctx, courses); err != nil {
		return nil, err
	}
	return courses, nil
}

func (r *localCourseRepo) ListPublished(ctx context.Context) ([]model.Course, error) {
	return r.list(ctx, func(c model.Course) bool { return c.IsPublished })
}

func (r *localCourseRepo) ListByTeacher(ctx context.Context, teacherID string) ([]model.Course, error) {
	return r.list(ctx, func(c model.Course) bool { return c.TeacherID == teacherID })
}

func (r *localCourseRepo) GetByID(ctx context.Context, courseID string) (*model.Course, error) {
	courses, err := r.list(ctx, func(c model.Course) bool { return c.ID == courseID })
	if err != nil {
		return nil, err
	}
	if len(courses) == 0 {
		return nil, nil
	}
	return &courses[0], nil
}

func (r *localCourseRepo) Create(ctx context.Context, c *model.Course) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	courses, err := r.db.courses(ctx)
	if err != nil {
		return err
	}
	c.ID = localstore.NewID()
	c.CreatedAt = r.db.now()
	stored := *c
	stored.TeacherName = ""
	stored.EnrollmentCount = 0
	courses = append(courses, stored)
	if err := r.db.store.Set(ctx, localstore.KeyCourses, courses); err != nil {
		return fmt.Errorf("saving courses: %w", err)
	}
	return nil
}

func (r *localCourseRepo) SetImageURL(ctx context.Context, courseID, imageURL string) (bool, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	courses, err := r.db.courses(ctx)
	if err != nil {
		return false, err
	}
	for i := range courses {
		if courses[i].ID != courseID {
			continue
		}
		courses[i].ImageURL = imageURL
		if err := r.db.store.Set(ctx, localstore.KeyCourses, courses); err != nil {
			return false, fmt.Errorf("saving courses: %w", err)
		}
		return true, nil
	}
	return false, nil
}

type localEnrollmentRepo struct {
	db *localDB
}

func (r *localEnrollmentRepo) ListByStudent(ctx context.Context, studentID string) ([]model.Enrollment, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	all, err := r.db.enrollments(ctx)
	if err != nil {
		return nil, err
	}
	courses, err := r.db.courses(ctx)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]model.Course, len(courses))
	for _, c := range courses {
		byID[c.ID] = c
	}

	enrollments := []model.Enrollment{}
	for _, e := range all {
		if e.StudentID != studentID {
			continue
		}
		c, ok := byID[e.CourseID]
		if !ok {
			continue
		}
		e.Course = &model.CourseSummary{
			ID:          c.ID,
			Title:       c.Title,
			Description: c.Description,
			ImageURL:    c.ImageURL,
			Category:    c.Category,
			Level:       c.Level,
		}
		enrollments = append(enrollments, e)
	}
	sort.SliceStable(enrollments, func(i, j int) bool {
		return enrollments[i].EnrolledAt.After(enrollments[j].EnrolledAt)
	})
	return enrollments, nil
}

func (r *localEnrollmentRepo) FindByStudentAndCourse(ctx context.Context, studentID, courseID string) (*model.Enrollment, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	enrollments, err := r.db.enrollments(ctx)
	if err != nil {
		return nil, err
	}
	for _, e := range enrollments {
		if e.StudentID == studentID && e.CourseID == courseID {
			return &e, nil
		}
	}
	return nil, nil
}

func (r *localEnrollmentRepo) Create(ctx context.Context, e *model.Enrollment) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	enrollments, err := r.db.enrollments(ctx)
	if err != nil {
		return err
	}
	e.ID = localstore.NewID()
	e.EnrolledAt = r.db.now()
	stored := *e
	stored.Course = nil
	enrollments = append(enrollments, stored)
	if err := r.db.store.Set(ctx, localstore.KeyEnrollments, enrollments); err != nil {
		return fmt.Errorf("saving enrollments: %w", err)
	}
	return nil
}

func (r *localEnrollmentRepo) UpdateProgress(ctx context.Context, id, studentID string, progress int) (*model.Enrollment, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	enrollments, err := r.db.enrollments(ctx)
	if err != nil {
		return nil, err
	}
	for i := range enrollments {
		if enrollments[i].ID != id || enrollments[i].StudentID != studentID {
			continue
		}
		enrollments[i].Progress = progress
		if err := r.db.store.Set(ctx, localstore.KeyEnrollments, enrollments); err != nil {
			return nil, fmt.Errorf("saving enrollments: %w", err)
		}
		updated := enrollments[i]
		return &updated, nil
	}
	return nil, nil
}

type localProfileRepo struct {
	db *localDB
}

func (r *localProfileRepo) Create(ctx context.Context, p *model.Profile) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	users, err := r.db.users(ctx)
	if err != nil {
		return err
	}
	for _, u := range users {
		if u.ID == p.ID {
			return ErrProfileExists
		}
	}
	p.CreatedAt = r.db.now()
	p.UpdatedAt = p.CreatedAt
	users = append(users, *p)
	if err := r.db.store.Set(ctx, localstore.KeyUsers, users); err != nil {
		return fmt.Errorf("saving users: %w", err)
	}
	return nil
}

func (r *localProfileRepo) GetByID(ctx context.Context, id string) (*model.Profile, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	users, err := r.db.users(ctx)
	if err != nil {
		return nil, err
	}
	for _, u := range users {
		if u.ID == id {
			return &u, nil
		}
	}
	return nil, nil
}

func (r *localProfileRepo) Update(ctx context.Context, p *model.Profile) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	users, err := r.db.users(ctx)
	if err != nil {
		return err
	}
	for i := range users {
		if users[i].ID != p.ID {
			continue
		}
		users[i].FullName = p.FullName
		users[i].AvatarURL = p.AvatarURL
		users[i].Bio = p.Bio
		users[i].UpdatedAt = r.db.now()
		if err := r.db.store.Set(ctx, localstore.KeyUsers, users); err != nil {
			return fmt.Errorf("saving users: %w", err)
		}
		*p = users[i]
		return nil
	}
	return ErrProfileNotFound
}
