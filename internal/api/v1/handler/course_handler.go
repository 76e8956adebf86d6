package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	"learnhub/internal/api/v1/dto"
	"learnhub/internal/model"
	"learnhub/internal/service"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
)

// CourseHandler handles course-related endpoints
type CourseHandler struct {
	courseService     service.CourseService
	enrollmentService service.EnrollmentService
	mediaService      service.MediaService
	validate          *validator.Validate
	logger            zerolog.Logger
}

// NewCourseHandler creates a new CourseHandler
func NewCourseHandler(
	courseService service.CourseService,
	enrollmentService service.EnrollmentService,
	mediaService service.MediaService,
	validate *validator.Validate,
	logger zerolog.Logger,
) *CourseHandler {
	return &CourseHandler{
		courseService:     courseService,
		enrollmentService: enrollmentService,
		mediaService:      mediaService,
		validate:          validate,
		logger:            logger.With().Str("handler", "CourseHandler").Logger(),
	}
}

// RegisterRoutes mounts course routes
func (h *CourseHandler) RegisterRoutes(mux *http.ServeMux, authMw func(http.Handler) http.Handler) {
	mux.Handle("/courses", authMw(http.HandlerFunc(h.handleCourses)))
	mux.Handle("/courses/", authMw(http.HandlerFunc(h.handleCourse)))
}

func (h *CourseHandler) handleCourses(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.listCourses(w, r)
	case http.MethodPost:
		h.createCourse(w, r)
	default:
		http.NotFound(w, r)
	}
}

// handleCourse dispatches /courses/{id} and its sub-resources.
func (h *CourseHandler) handleCourse(w http.ResponseWriter, r *http.Request) {
	rest := strings.Trim(strings.TrimPrefix(r.URL.Path, "/courses/"), "/")
	parts := strings.Split(rest, "/")
	if rest == "" || len(parts) > 2 {
		http.NotFound(w, r)
		return
	}
	courseID := parts[0]
	action := ""
	if len(parts) == 2 {
		action = parts[1]
	}

	switch {
	case action == "" && r.Method == http.MethodGet:
		h.getCourse(w, r, courseID)
	case action == "enrollment" && r.Method == http.MethodGet:
		h.getEnrollmentStatus(w, r, courseID)
	case action == "enroll" && r.Method == http.MethodPost:
		h.enroll(w, r, courseID)
	case action == "image-upload" && r.Method == http.MethodPost:
		h.prepareImageUpload(w, r, courseID)
	case action == "image-upload-complete" && r.Method == http.MethodPost:
		h.completeImageUpload(w, r, courseID)
	default:
		http.NotFound(w, r)
	}
}

// listCourses godoc
// @Summary List published courses
// @Description Returns published courses, newest first, optionally filtered.
// @Tags courses
// @Produce json
// @Param category query string false "Category, or all"
// @Param level query string false "Level, or all"
// @Param q query string false "Search in title and description"
// @Success 200 {array} dto.CourseResponseDTO
// @Failure 401 {string} string "Unauthorized: User ID not found in context"
// @Failure 500 {string} string "Failed to list courses"
// @Router /courses [get]
func (h *CourseHandler) listCourses(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireUser(w, r); !ok {
		return
	}
	q := r.URL.Query()
	courses, err := h.courseService.ListPublished(r.Context(), model.CourseFilter{
		Category: q.Get("category"),
		Level:    q.Get("level"),
		Search:   q.Get("q"),
	})
	if err != nil {
		writeError(w, h.logger, "list courses", err)
		return
	}
	writeJSON(w, http.StatusOK, dto.NewCourseListResponse(courses))
}

// createCourse godoc
// @Summary Create a new course
// @Description Creates a course owned by the authenticated teacher. Courses are published unless is_published is false.
// @Tags courses
// @Accept json
// @Produce json
// @Param course body dto.CourseCreateDTO true "Course creation request"
// @Success 201 {object} dto.CourseResponseDTO
// @Failure 400 {string} string "Invalid JSON payload or validation failed"
// @Failure 403 {string} string "Forbidden"
// @Failure 500 {string} string "Failed to create course"
// @Router /courses [post]
func (h *CourseHandler) createCourse(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	var req dto.CourseCreateDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON payload: "+err.Error(), http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		http.Error(w, "Validation failed: "+err.Error(), http.StatusBadRequest)
		return
	}
	isPublished := true
	if req.IsPublished != nil {
		isPublished = *req.IsPublished
	}
	course := &model.Course{
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		Level:       req.Level,
		Duration:    req.Duration,
		ImageURL:    req.ImageURL,
		IsPublished: isPublished,
	}
	created, err := h.courseService.Create(r.Context(), userID, course)
	if err != nil {
		writeError(w, h.logger, "create course", err)
		return
	}
	writeJSON(w, http.StatusCreated, dto.NewCourseResponse(created))
}

// getCourse godoc
// @Summary Get a course
// @Tags courses
// @Produce json
// @Param courseId path string true "Course ID"
// @Success 200 {object} dto.CourseResponseDTO
// @Failure 404 {string} string "Course not found"
// @Router /courses/{courseId} [get]
func (h *CourseHandler) getCourse(w http.ResponseWriter, r *http.Request, courseID string) {
	if _, ok := requireUser(w, r); !ok {
		return
	}
	course, err := h.courseService.Get(r.Context(), courseID)
	if err != nil {
		writeError(w, h.logger, "retrieve course", err)
		return
	}
	writeJSON(w, http.StatusOK, dto.NewCourseResponse(course))
}

// getEnrollmentStatus godoc
// @Summary Check enrollment
// @Description Reports whether the authenticated user is enrolled in the course.
// @Tags courses
// @Produce json
// @Param courseId path string true "Course ID"
// @Success 200 {object} dto.EnrollmentStatusDTO
// @Router /courses/{courseId}/enrollment [get]
func (h *CourseHandler) getEnrollmentStatus(w http.ResponseWriter, r *http.Request, courseID string) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	enrolled, err := h.enrollmentService.IsEnrolled(r.Context(), userID, courseID)
	if err != nil {
		writeError(w, h.logger, "check enrollment", err)
		return
	}
	writeJSON(w, http.StatusOK, dto.EnrollmentStatusDTO{CourseID: courseID, Enrolled: enrolled})
}

// enroll godoc
// @Summary Enroll in a course
// @Description Enrolls the authenticated user. Repeated calls create additional enrollments.
// @Tags courses
// @Produce json
// @Param courseId path string true "Course ID"
// @Success 201 {object} dto.EnrollmentResponseDTO
// @Failure 404 {string} string "Course not found"
// @Router /courses/{courseId}/enroll [post]
func (h *CourseHandler) enroll(w http.ResponseWriter, r *http.Request, courseID string) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	e, err := h.enrollmentService.Enroll(r.Context(), userID, courseID)
	if err != nil {
		writeError(w, h.logger, "enroll", err)
		return
	}
	writeJSON(w, http.StatusCreated, dto.NewEnrollmentResponse(e))
}

// prepareImageUpload godoc
// @Summary Get a course image upload URL
// @Description Returns a presigned PUT URL for the course image. The course keeps its current image until the upload is completed.
// @Tags courses
// @Accept json
// @Produce json
// @Param courseId path string true "Course ID"
// @Param body body dto.CourseImageUploadDTO true "Image file name"
// @Success 200 {object} dto.CourseImageUploadResponseDTO
// @Failure 403 {string} string "Forbidden"
// @Failure 503 {string} string "Course image storage is not configured"
// @Router /courses/{courseId}/image-upload [post]
func (h *CourseHandler) prepareImageUpload(w http.ResponseWriter, r *http.Request, courseID string) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	var req dto.CourseImageUploadDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON payload: "+err.Error(), http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		http.Error(w, "Validation failed: "+err.Error(), http.StatusBadRequest)
		return
	}
	upload, err := h.mediaService.PrepareCourseImageUpload(r.Context(), userID, courseID, req.Filename)
	if err != nil {
		writeError(w, h.logger, "prepare image upload", err)
		return
	}
	writeJSON(w, http.StatusOK, dto.CourseImageUploadResponseDTO{
		UploadURL:   upload.UploadURL,
		ObjectKey:   upload.ObjectKey,
		ImageURL:    upload.ImageURL,
		ContentType: upload.ContentType,
		ExpiresAt:   upload.ExpiresAt,
	})
}

// completeImageUpload godoc
// @Summary Complete a course image upload
// @Description Checks the uploaded object exists and sets it as the course image.
// @Tags courses
// @Accept json
// @Produce json
// @Param courseId path string true "Course ID"
// @Param body body dto.CourseImageUploadCompleteDTO true "Object key from the upload URL response"
// @Success 200 {object} dto.CourseImageUploadCompleteResponseDTO
// @Failure 400 {string} string "Invalid object key"
// @Failure 403 {string} string "Forbidden"
// @Failure 409 {string} string "Image has not been uploaded"
// @Failure 503 {string} string "Course image storage is not configured"
// @Router /courses/{courseId}/image-upload-complete [post]
func (h *CourseHandler) completeImageUpload(w http.ResponseWriter, r *http.Request, courseID string) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	var req dto.CourseImageUploadCompleteDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON payload: "+err.Error(), http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		http.Error(w, "Validation failed: "+err.Error(), http.StatusBadRequest)
		return
	}
	imageURL, err := h.mediaService.CompleteCourseImageUpload(r.Context(), userID, courseID, req.ObjectKey)
	if err != nil {
		writeError(w, h.logger, "complete image upload", err)
		return
	}
	writeJSON(w, http.StatusOK, dto.CourseImageUploadCompleteResponseDTO{
		CourseID: courseID,
		ImageURL: imageURL,
	})
}
