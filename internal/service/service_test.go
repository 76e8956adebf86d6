package service

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"sync"
	"testing"
	"time"

	"learnhub/internal/localstore"
	"learnhub/internal/logger"
	"learnhub/internal/model"
	"learnhub/internal/repository"

	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

type recordedEvent struct {
	eventType string
	data      any
}

type fakeEvents struct {
	mu     sync.Mutex
	events []recordedEvent
	err    error
}

func (f *fakeEvents) PublishEvent(_ context.Context, eventType string, data any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, recordedEvent{eventType: eventType, data: data})
	return f.err
}

func newRepos(t *testing.T) repository.LocalRepositories {
	t.Helper()
	store, err := localstore.NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	if _, err := localstore.Seed(context.Background(), store, time.Now().UTC()); err != nil {
		t.Fatalf("Seed: %v", err)
	}
	return repository.NewLocalRepositories(store)
}

func TestCourseServiceListPublishedFilters(t *testing.T) {
	repos := newRepos(t)
	svc := NewCourseService(repos.Courses, repos.Profiles, &fakeEvents{}, logger.Nop())

	testCases := []struct {
		name   string
		filter model.CourseFilter
		want   []string
	}{
		{"no filter", model.CourseFilter{}, []string{"3", "2", "1"}},
		{"all sentinel", model.CourseFilter{Category: "all", Level: "all"}, []string{"3", "2", "1"}},
		{"category", model.CourseFilter{Category: "Programming"}, []string{"2"}},
		{"level", model.CourseFilter{Level: model.LevelBeginner}, []string{"3", "1"}},
		{"search title", model.CourseFilter{Search: "react"}, []string{"1"}},
		{"search description", model.CourseFilter{Search: "CLOSURES"}, []string{"2"}},
		{"no match", model.CourseFilter{Search: "haskell"}, []string{}},
	}

	for _, tc := range testCases {
		courses, err := svc.ListPublished(context.Background(), tc.filter)
		if err != nil {
			t.Fatalf("%s: %v", tc.name, err)
		}
		if len(courses) != len(tc.want) {
			t.Errorf("%s: expected %v, got %d courses", tc.name, tc.want, len(courses))
			continue
		}
		for i, id := range tc.want {
			if courses[i].ID != id {
				t.Errorf("%s: position %d expected %s, got %s", tc.name, i, id, courses[i].ID)
			}
		}
	}
}

func TestCourseServiceCreate(t *testing.T) {
	ctx := context.Background()
	repos := newRepos(t)
	events := &fakeEvents{}
	svc := NewCourseService(repos.Courses, repos.Profiles, events, logger.Nop())

	created, err := svc.Create(ctx, localstore.DemoTeacherID, &model.Course{
		Title:       "Go in Practice",
		Description: "outline",
		Level:       model.LevelIntermediate,
		IsPublished: true,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.ID == "" || created.TeacherID != localstore.DemoTeacherID || created.TeacherName != "Sarah Johnson" {
		t.Errorf("unexpected course: %+v", created)
	}
	if len(events.events) != 1 || events.events[0].eventType != "course.created" {
		t.Errorf("expected one course.created event, got %+v", events.events)
	}

	dash, err := svc.ListForTeacher(ctx, localstore.DemoTeacherID)
	if err != nil {
		t.Fatalf("ListForTeacher: %v", err)
	}
	if len(dash.Courses) != 4 || dash.TotalStudents != 1 {
		t.Errorf("unexpected dashboard: %d courses, %d students", len(dash.Courses), dash.TotalStudents)
	}

	if _, err := svc.Create(ctx, localstore.DemoStudentID, &model.Course{Title: "x"}); !errors.Is(err, ErrForbidden) {
		t.Errorf("student create: expected ErrForbidden, got %v", err)
	}
	if _, err := svc.Create(ctx, "nobody", &model.Course{Title: "x"}); !errors.Is(err, ErrProfileNotFound) {
		t.Errorf("unknown user: expected ErrProfileNotFound, got %v", err)
	}
	if _, err := svc.Create(ctx, localstore.DemoTeacherID, &model.Course{Title: "x", Level: "expert"}); !errors.Is(err, ErrInvalidLevel) {
		t.Errorf("bad level: expected ErrInvalidLevel, got %v", err)
	}
}

func TestCourseServiceCreateSurvivesEventFailure(t *testing.T) {
	repos := newRepos(t)
	svc := NewCourseService(repos.Courses, repos.Profiles, &fakeEvents{err: errors.New("down")}, logger.Nop())
	if _, err := svc.Create(context.Background(), localstore.DemoTeacherID, &model.Course{Title: "x"}); err != nil {
		t.Fatalf("event failure should not fail the create: %v", err)
	}
}

func TestCourseServiceGet(t *testing.T) {
	repos := newRepos(t)
	svc := NewCourseService(repos.Courses, repos.Profiles, &fakeEvents{}, logger.Nop())
	c, err := svc.Get(context.Background(), "1")
	if err != nil || c.Title != "Introduction to React" {
		t.Fatalf("Get: %+v %v", c, err)
	}
	if _, err := svc.Get(context.Background(), "404"); !errors.Is(err, ErrCourseNotFound) {
		t.Errorf("expected ErrCourseNotFound, got %v", err)
	}
}

func TestEnrollmentServiceEnrollTwice(t *testing.T) {
	ctx := context.Background()
	repos := newRepos(t)
	events := &fakeEvents{}
	svc := NewEnrollmentService(repos.Enrollments, repos.Courses, events, logger.Nop())

	enrolled, err := svc.IsEnrolled(ctx, localstore.DemoStudentID, "3")
	if err != nil || enrolled {
		t.Fatalf("IsEnrolled before enroll: %v %v", enrolled, err)
	}

	first, err := svc.Enroll(ctx, localstore.DemoStudentID, "3")
	if err != nil {
		t.Fatalf("first Enroll: %v", err)
	}
	second, err := svc.Enroll(ctx, localstore.DemoStudentID, "3")
	if err != nil {
		t.Fatalf("second Enroll: %v", err)
	}
	if first.ID == second.ID {
		t.Error("each enroll should create a distinct row")
	}
	if first.Progress != 0 {
		t.Errorf("new enrollment should start at 0, got %d", first.Progress)
	}
	if len(events.events) != 2 {
		t.Errorf("expected 2 enrollment events, got %d", len(events.events))
	}

	enrolled, err = svc.IsEnrolled(ctx, localstore.DemoStudentID, "3")
	if err != nil || !enrolled {
		t.Errorf("IsEnrolled after enroll: %v %v", enrolled, err)
	}

	list, err := svc.ListForStudent(ctx, localstore.DemoStudentID)
	if err != nil {
		t.Fatalf("ListForStudent: %v", err)
	}
	if len(list) != 3 {
		t.Errorf("expected seeded + 2 enrollments, got %d", len(list))
	}

	if _, err := svc.Enroll(ctx, localstore.DemoStudentID, "missing"); !errors.Is(err, ErrCourseNotFound) {
		t.Errorf("expected ErrCourseNotFound, got %v", err)
	}
}

func TestEnrollmentServiceUpdateProgress(t *testing.T) {
	ctx := context.Background()
	repos := newRepos(t)
	svc := NewEnrollmentService(repos.Enrollments, repos.Courses, &fakeEvents{}, logger.Nop())

	testCases := []struct {
		name      string
		studentID string
		id        string
		progress  int
		wantErr   error
	}{
		{"valid", localstore.DemoStudentID, "e1", 75, nil},
		{"upper bound", localstore.DemoStudentID, "e1", 100, nil},
		{"negative", localstore.DemoStudentID, "e1", -1, ErrInvalidProgress},
		{"too high", localstore.DemoStudentID, "e1", 101, ErrInvalidProgress},
		{"unknown id", localstore.DemoStudentID, "e9", 10, ErrEnrollmentNotFound},
		{"other student", localstore.DemoTeacherID, "e1", 10, ErrEnrollmentNotFound},
	}
	for _, tc := range testCases {
		e, err := svc.UpdateProgress(ctx, tc.studentID, tc.id, tc.progress)
		if tc.wantErr != nil {
			if !errors.Is(err, tc.wantErr) {
				t.Errorf("%s: expected %v, got %v", tc.name, tc.wantErr, err)
			}
			continue
		}
		if err != nil || e.Progress != tc.progress {
			t.Errorf("%s: got %+v, %v", tc.name, e, err)
		}
	}
}

func TestProfileService(t *testing.T) {
	ctx := context.Background()
	repos := newRepos(t)
	svc := NewProfileService(repos.Profiles)

	p, err := svc.Create(ctx, &model.Profile{ID: "u-9", FullName: "Dana"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if p.Role != model.RoleStudent {
		t.Errorf("default role should be student, got %q", p.Role)
	}
	if _, err := svc.Create(ctx, &model.Profile{ID: "u-9"}); !errors.Is(err, ErrProfileExists) {
		t.Errorf("expected ErrProfileExists, got %v", err)
	}
	if _, err := svc.Create(ctx, &model.Profile{ID: "u-10", Role: "admin"}); !errors.Is(err, ErrInvalidRole) {
		t.Errorf("expected ErrInvalidRole, got %v", err)
	}

	bio := "likes Go"
	updated, err := svc.Update(ctx, "u-9", ProfileUpdate{Bio: &bio})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.Bio != "likes Go" || updated.FullName != "Dana" {
		t.Errorf("partial update lost fields: %+v", updated)
	}

	if _, err := svc.Get(ctx, "ghost"); !errors.Is(err, ErrProfileNotFound) {
		t.Errorf("expected ErrProfileNotFound, got %v", err)
	}
	if _, err := svc.Update(ctx, "ghost", ProfileUpdate{}); !errors.Is(err, ErrProfileNotFound) {
		t.Errorf("expected ErrProfileNotFound on update, got %v", err)
	}
}

type fakePresigner struct {
	input *s3.PutObjectInput
	err   error
}

func (f *fakePresigner) PresignPutObject(_ context.Context, params *s3.PutObjectInput, _ ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
	f.input = params
	if f.err != nil {
		return nil, f.err
	}
	return &v4.PresignedHTTPRequest{URL: "https://storage.test/upload?sig=1", Method: http.MethodPut}, nil
}

// fakeObjects answers HeadObject from a set of uploaded keys.
type fakeObjects struct {
	uploaded map[string]bool
	err      error
}

func (f *fakeObjects) HeadObject(_ context.Context, params *s3.HeadObjectInput, _ ...func(*s3.Options)) (*s3.HeadObjectOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	if !f.uploaded[*params.Key] {
		return nil, &types.NotFound{}
	}
	return &s3.HeadObjectOutput{}, nil
}

func TestMediaServicePrepareCourseImageUpload(t *testing.T) {
	ctx := context.Background()
	repos := newRepos(t)
	presigner := &fakePresigner{}
	svc := NewMediaService(repos.Courses, presigner, &fakeObjects{}, "course-images", "https://storage.test/public/", logger.Nop())

	before, _ := repos.Courses.GetByID(ctx, "2")
	upload, err := svc.PrepareCourseImageUpload(ctx, localstore.DemoTeacherID, "2", "Cover.PNG")
	if err != nil {
		t.Fatalf("PrepareCourseImageUpload: %v", err)
	}
	if upload.UploadURL != "https://storage.test/upload?sig=1" || upload.ContentType != "image/png" {
		t.Errorf("unexpected upload: %+v", upload)
	}
	if !strings.HasPrefix(upload.ObjectKey, "courses/2/") || !strings.HasSuffix(upload.ObjectKey, ".png") {
		t.Errorf("unexpected object key %q", upload.ObjectKey)
	}
	if *presigner.input.Bucket != "course-images" || *presigner.input.Key != upload.ObjectKey {
		t.Errorf("presign input mismatch: %+v", presigner.input)
	}
	wantURL := "https://storage.test/public/course-images/" + upload.ObjectKey
	if upload.ImageURL != wantURL {
		t.Errorf("expected image url %s, got %s", wantURL, upload.ImageURL)
	}
	course, _ := repos.Courses.GetByID(ctx, "2")
	if course.ImageURL != before.ImageURL {
		t.Errorf("issuing an upload URL must not change the course image, got %s", course.ImageURL)
	}

	testCases := []struct {
		name     string
		userID   string
		courseID string
		filename string
		wantErr  error
	}{
		{"not owner", localstore.DemoStudentID, "2", "a.png", ErrForbidden},
		{"missing course", localstore.DemoTeacherID, "nope", "a.png", ErrCourseNotFound},
		{"bad extension", localstore.DemoTeacherID, "2", "a.exe", ErrUnsupportedImage},
	}
	for _, tc := range testCases {
		if _, err := svc.PrepareCourseImageUpload(ctx, tc.userID, tc.courseID, tc.filename); !errors.Is(err, tc.wantErr) {
			t.Errorf("%s: expected %v, got %v", tc.name, tc.wantErr, err)
		}
	}
}

func TestMediaServiceCompleteCourseImageUpload(t *testing.T) {
	ctx := context.Background()
	repos := newRepos(t)
	objects := &fakeObjects{uploaded: map[string]bool{}}
	svc := NewMediaService(repos.Courses, &fakePresigner{}, objects, "course-images", "https://storage.test/public", logger.Nop())

	upload, err := svc.PrepareCourseImageUpload(ctx, localstore.DemoTeacherID, "2", "cover.jpg")
	if err != nil {
		t.Fatalf("PrepareCourseImageUpload: %v", err)
	}

	// The client abandoned the PUT.
	if _, err := svc.CompleteCourseImageUpload(ctx, localstore.DemoTeacherID, "2", upload.ObjectKey); !errors.Is(err, ErrImageNotUploaded) {
		t.Fatalf("expected ErrImageNotUploaded, got %v", err)
	}
	course, _ := repos.Courses.GetByID(ctx, "2")
	if course.ImageURL == upload.ImageURL {
		t.Fatal("course should not point at an object that was never uploaded")
	}

	objects.uploaded[upload.ObjectKey] = true
	imageURL, err := svc.CompleteCourseImageUpload(ctx, localstore.DemoTeacherID, "2", upload.ObjectKey)
	if err != nil {
		t.Fatalf("CompleteCourseImageUpload: %v", err)
	}
	if imageURL != upload.ImageURL {
		t.Errorf("expected %s, got %s", upload.ImageURL, imageURL)
	}
	course, _ = repos.Courses.GetByID(ctx, "2")
	if course.ImageURL != upload.ImageURL {
		t.Errorf("course image url not updated, got %s", course.ImageURL)
	}

	testCases := []struct {
		name      string
		userID    string
		courseID  string
		objectKey string
		wantErr   error
	}{
		{"not owner", localstore.DemoStudentID, "2", upload.ObjectKey, ErrForbidden},
		{"other course key", localstore.DemoTeacherID, "1", upload.ObjectKey, ErrInvalidImageKey},
		{"nested key", localstore.DemoTeacherID, "2", "courses/2/x/a.png", ErrInvalidImageKey},
		{"not an image", localstore.DemoTeacherID, "2", "courses/2/a.txt", ErrInvalidImageKey},
		{"bare prefix", localstore.DemoTeacherID, "2", "courses/2/", ErrInvalidImageKey},
	}
	for _, tc := range testCases {
		if _, err := svc.CompleteCourseImageUpload(ctx, tc.userID, tc.courseID, tc.objectKey); !errors.Is(err, tc.wantErr) {
			t.Errorf("%s: expected %v, got %v", tc.name, tc.wantErr, err)
		}
	}

	objects.err = errors.New("storage unavailable")
	if _, err := svc.CompleteCourseImageUpload(ctx, localstore.DemoTeacherID, "2", upload.ObjectKey); err == nil || errors.Is(err, ErrImageNotUploaded) {
		t.Errorf("expected a storage error, got %v", err)
	}
}

func TestMediaServiceDisabled(t *testing.T) {
	repos := newRepos(t)
	svc := NewMediaService(repos.Courses, nil, nil, "b", "", logger.Nop())
	if _, err := svc.PrepareCourseImageUpload(context.Background(), localstore.DemoTeacherID, "1", "a.png"); !errors.Is(err, ErrMediaDisabled) {
		t.Errorf("expected ErrMediaDisabled, got %v", err)
	}
	if _, err := svc.CompleteCourseImageUpload(context.Background(), localstore.DemoTeacherID, "1", "courses/1/a.png"); !errors.Is(err, ErrMediaDisabled) {
		t.Errorf("expected ErrMediaDisabled, got %v", err)
	}
}
