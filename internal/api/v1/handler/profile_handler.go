package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	"learnhub/internal/api/v1/dto"
	"learnhub/internal/middleware"
	"learnhub/internal/model"
	"learnhub/internal/service"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
)

// ProfileHandler serves the authenticated user's profile and dashboards.
type ProfileHandler struct {
	profileService    service.ProfileService
	courseService     service.CourseService
	enrollmentService service.EnrollmentService
	validate          *validator.Validate
	logger            zerolog.Logger
}

func NewProfileHandler(
	profileService service.ProfileService,
	courseService service.CourseService,
	enrollmentService service.EnrollmentService,
	validate *validator.Validate,
	logger zerolog.Logger,
) *ProfileHandler {
	return &ProfileHandler{
		profileService:    profileService,
		courseService:     courseService,
		enrollmentService: enrollmentService,
		validate:          validate,
		logger:            logger.With().Str("handler", "ProfileHandler").Logger(),
	}
}

// RegisterRoutes mounts v1 profile routes
func (h *ProfileHandler) RegisterRoutes(mux *http.ServeMux, authMw func(http.Handler) http.Handler) {
	mux.Handle("/me", authMw(http.HandlerFunc(h.handleMe)))
	mux.Handle("/me/courses", authMw(http.HandlerFunc(h.getTeacherCourses)))
	mux.Handle("/me/enrollments", authMw(http.HandlerFunc(h.getEnrollments)))
	mux.Handle("/me/enrollments/", authMw(http.HandlerFunc(h.updateProgress)))
}

func (h *ProfileHandler) handleMe(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.getProfile(w, r)
	case http.MethodPost:
		h.createProfile(w, r)
	case http.MethodPut:
		h.updateProfile(w, r)
	default:
		http.NotFound(w, r)
	}
}

// getProfile godoc
// @Summary Get my profile
// @Tags profile
// @Produce json
// @Success 200 {object} dto.ProfileResponseDTO
// @Failure 404 {string} string "profile not found"
// @Router /me [get]
func (h *ProfileHandler) getProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	p, err := h.profileService.Get(r.Context(), userID)
	if err != nil {
		writeError(w, h.logger, "retrieve profile", err)
		return
	}
	writeJSON(w, http.StatusOK, dto.NewProfileResponse(p))
}

// createProfile godoc
// @Summary Create my profile
// @Description Creates the profile row for the authenticated user. Email comes from the token; role and name fall back to the token's user metadata.
// @Tags profile
// @Accept json
// @Produce json
// @Param profile body dto.ProfileCreateDTO true "Profile"
// @Success 201 {object} dto.ProfileResponseDTO
// @Failure 409 {string} string "profile already exists"
// @Router /me [post]
func (h *ProfileHandler) createProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	var req dto.ProfileCreateDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON payload: "+err.Error(), http.StatusBadRequest)
		return
	}

	p := &model.Profile{
		ID:        userID,
		FullName:  req.FullName,
		Role:      req.Role,
		AvatarURL: req.AvatarURL,
		Bio:       req.Bio,
	}
	if claims, ok := middleware.ClaimsFromContext(r.Context()); ok {
		p.Email = claims.Email
		if p.FullName == "" {
			p.FullName = claims.UserMetadata.FullName
		}
		if p.Role == "" {
			p.Role = claims.UserMetadata.Role
		}
	}
	req.FullName = p.FullName
	req.Role = p.Role
	if err := h.validate.Struct(&req); err != nil {
		http.Error(w, "Validation failed: "+err.Error(), http.StatusBadRequest)
		return
	}

	created, err := h.profileService.Create(r.Context(), p)
	if err != nil {
		writeError(w, h.logger, "create profile", err)
		return
	}
	writeJSON(w, http.StatusCreated, dto.NewProfileResponse(created))
}

// updateProfile godoc
// @Summary Update my profile
// @Tags profile
// @Accept json
// @Produce json
// @Param profile body dto.ProfileUpdateDTO true "Fields to change"
// @Success 200 {object} dto.ProfileResponseDTO
// @Router /me [put]
func (h *ProfileHandler) updateProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	var req dto.ProfileUpdateDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON payload: "+err.Error(), http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		http.Error(w, "Validation failed: "+err.Error(), http.StatusBadRequest)
		return
	}
	p, err := h.profileService.Update(r.Context(), userID, service.ProfileUpdate{
		FullName:  req.FullName,
		AvatarURL: req.AvatarURL,
		Bio:       req.Bio,
	})
	if err != nil {
		writeError(w, h.logger, "update profile", err)
		return
	}
	writeJSON(w, http.StatusOK, dto.NewProfileResponse(p))
}

// getTeacherCourses godoc
// @Summary Teacher dashboard
// @Description Lists the authenticated teacher's courses with enrollment counts and the total number of students.
// @Tags profile
// @Produce json
// @Success 200 {object} dto.TeacherCoursesResponseDTO
// @Router /me/courses [get]
func (h *ProfileHandler) getTeacherCourses(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	result, err := h.courseService.ListForTeacher(r.Context(), userID)
	if err != nil {
		writeError(w, h.logger, "list teacher courses", err)
		return
	}
	writeJSON(w, http.StatusOK, dto.TeacherCoursesResponseDTO{
		Courses:       dto.NewCourseListResponse(result.Courses),
		TotalCourses:  len(result.Courses),
		TotalStudents: result.TotalStudents,
	})
}

// getEnrollments godoc
// @Summary Student dashboard
// @Description Lists the authenticated student's enrollments, newest first, with course summaries.
// @Tags profile
// @Produce json
// @Success 200 {array} dto.EnrollmentResponseDTO
// @Router /me/enrollments [get]
func (h *ProfileHandler) getEnrollments(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	enrollments, err := h.enrollmentService.ListForStudent(r.Context(), userID)
	if err != nil {
		writeError(w, h.logger, "list enrollments", err)
		return
	}
	resp := make([]dto.EnrollmentResponseDTO, 0, len(enrollments))
	for i := range enrollments {
		resp = append(resp, dto.NewEnrollmentResponse(&enrollments[i]))
	}
	writeJSON(w, http.StatusOK, resp)
}

// updateProgress godoc
// @Summary Update course progress
// @Tags profile
// @Accept json
// @Produce json
// @Param enrollmentId path string true "Enrollment ID"
// @Param body body dto.ProgressUpdateDTO true "Progress 0-100"
// @Success 200 {object} dto.EnrollmentResponseDTO
// @Failure 404 {string} string "enrollment not found"
// @Router /me/enrollments/{enrollmentId}/progress [put]
func (h *ProfileHandler) updateProgress(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/me/enrollments/")
	enrollmentID, suffix, found := strings.Cut(rest, "/")
	if r.Method != http.MethodPut || !found || suffix != "progress" || enrollmentID == "" {
		http.NotFound(w, r)
		return
	}
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	var req dto.ProgressUpdateDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON payload: "+err.Error(), http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		http.Error(w, "Validation failed: "+err.Error(), http.StatusBadRequest)
		return
	}
	e, err := h.enrollmentService.UpdateProgress(r.Context(), userID, enrollmentID, *req.Progress)
	if err != nil {
		writeError(w, h.logger, "update progress", err)
		return
	}
	writeJSON(w, http.StatusOK, dto.NewEnrollmentResponse(e))
}
