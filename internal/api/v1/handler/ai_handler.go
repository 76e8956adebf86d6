package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"learnhub/internal/ai"
	"learnhub/internal/api/v1/dto"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
)

// KeyValidator checks that the configured AI credential is accepted.
type KeyValidator interface {
	ValidateAPIKey(ctx context.Context) error
}

// AIHandler exposes the learning assistant use cases.
type AIHandler struct {
	aiService *ai.Service
	validator KeyValidator
	validate  *validator.Validate
	logger    zerolog.Logger
	routes    map[string]http.HandlerFunc
}

func NewAIHandler(aiService *ai.Service, keyValidator KeyValidator, validate *validator.Validate, logger zerolog.Logger) *AIHandler {
	h := &AIHandler{
		aiService: aiService,
		validator: keyValidator,
		validate:  validate,
		logger:    logger.With().Str("handler", "AIHandler").Logger(),
	}
	h.routes = map[string]http.HandlerFunc{
		"outline":           h.generateOutline,
		"quiz":              h.generateQuiz,
		"grade":             h.gradeAssignment,
		"lesson-plan":       h.generateLessonPlan,
		"tutor":             h.chatWithTutor,
		"study-suggestions": h.studySuggestions,
		"practice":          h.practiceQuestions,
		"summarize":         h.summarize,
		"assignment-help":   h.assignmentHelp,
	}
	return h
}

// RegisterRoutes mounts AI routes
func (h *AIHandler) RegisterRoutes(mux *http.ServeMux, authMw func(http.Handler) http.Handler) {
	mux.Handle("/ai/status", authMw(http.HandlerFunc(h.getStatus)))
	mux.Handle("/ai/", authMw(http.HandlerFunc(h.handleAI)))
}

func (h *AIHandler) handleAI(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimPrefix(r.URL.Path, "/ai/")
	route, ok := h.routes[name]
	if !ok || r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	if _, ok := requireUser(w, r); !ok {
		return
	}
	route(w, r)
}

// decode reads and validates the request body, writing 400 on failure.
func (h *AIHandler) decode(w http.ResponseWriter, r *http.Request, req any) bool {
	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		http.Error(w, "Invalid JSON payload: "+err.Error(), http.StatusBadRequest)
		return false
	}
	if err := h.validate.Struct(req); err != nil {
		http.Error(w, "Validation failed: "+err.Error(), http.StatusBadRequest)
		return false
	}
	return true
}

// generateOutline godoc
// @Summary Generate a course outline
// @Tags ai
// @Accept json
// @Produce json
// @Param body body dto.OutlineRequestDTO true "Outline request"
// @Success 200 {object} ai.CourseOutline
// @Failure 502 {string} string "AI provider error"
// @Failure 503 {string} string "AI API key is not configured"
// @Router /ai/outline [post]
func (h *AIHandler) generateOutline(w http.ResponseWriter, r *http.Request) {
	var req dto.OutlineRequestDTO
	if !h.decode(w, r, &req) {
		return
	}
	outline, err := h.aiService.GenerateCourseOutline(r.Context(), ai.OutlineRequest{
		Topic:    req.Topic,
		Duration: req.Duration,
		Level:    req.Level,
	})
	if err != nil {
		writeError(w, h.logger, "generate outline", err)
		return
	}
	writeJSON(w, http.StatusOK, outline)
}

// generateQuiz godoc
// @Summary Generate a quiz
// @Tags ai
// @Accept json
// @Produce json
// @Param body body dto.QuizRequestDTO true "Quiz request"
// @Success 200 {object} ai.Quiz
// @Router /ai/quiz [post]
func (h *AIHandler) generateQuiz(w http.ResponseWriter, r *http.Request) {
	var req dto.QuizRequestDTO
	if !h.decode(w, r, &req) {
		return
	}
	quiz, err := h.aiService.GenerateQuiz(r.Context(), ai.QuizRequest{
		Topic:        req.Topic,
		NumQuestions: req.NumQuestions,
		Difficulty:   req.Difficulty,
	})
	if err != nil {
		writeError(w, h.logger, "generate quiz", err)
		return
	}
	writeJSON(w, http.StatusOK, quiz)
}

// gradeAssignment godoc
// @Summary Grade a submission
// @Tags ai
// @Accept json
// @Produce json
// @Param body body dto.GradeRequestDTO true "Grading request"
// @Success 200 {object} ai.Grade
// @Router /ai/grade [post]
func (h *AIHandler) gradeAssignment(w http.ResponseWriter, r *http.Request) {
	var req dto.GradeRequestDTO
	if !h.decode(w, r, &req) {
		return
	}
	grade, err := h.aiService.GradeAssignment(r.Context(), ai.GradeRequest{
		Assignment: req.Assignment,
		Submission: req.Submission,
		Rubric:     req.Rubric,
	})
	if err != nil {
		writeError(w, h.logger, "grade assignment", err)
		return
	}
	writeJSON(w, http.StatusOK, grade)
}

// generateLessonPlan godoc
// @Summary Generate a lesson plan
// @Tags ai
// @Accept json
// @Produce json
// @Param body body dto.LessonPlanRequestDTO true "Lesson plan request"
// @Success 200 {object} ai.LessonPlan
// @Router /ai/lesson-plan [post]
func (h *AIHandler) generateLessonPlan(w http.ResponseWriter, r *http.Request) {
	var req dto.LessonPlanRequestDTO
	if !h.decode(w, r, &req) {
		return
	}
	plan, err := h.aiService.GenerateLessonPlan(r.Context(), ai.LessonPlanRequest{
		Topic:      req.Topic,
		Duration:   req.Duration,
		Objectives: req.Objectives,
	})
	if err != nil {
		writeError(w, h.logger, "generate lesson plan", err)
		return
	}
	writeJSON(w, http.StatusOK, plan)
}

// chatWithTutor godoc
// @Summary Ask the AI tutor
// @Description Only the last five history messages are sent as context.
// @Tags ai
// @Accept json
// @Produce json
// @Param body body dto.TutorRequestDTO true "Tutor request"
// @Success 200 {object} dto.TextResponseDTO
// @Router /ai/tutor [post]
func (h *AIHandler) chatWithTutor(w http.ResponseWriter, r *http.Request) {
	var req dto.TutorRequestDTO
	if !h.decode(w, r, &req) {
		return
	}
	history := make([]ai.ChatMessage, 0, len(req.History))
	for _, m := range req.History {
		history = append(history, ai.ChatMessage{Role: m.Role, Content: m.Content})
	}
	reply, err := h.aiService.ChatWithTutor(r.Context(), ai.TutorRequest{
		Message:       req.Message,
		CourseContext: req.CourseContext,
		History:       history,
	})
	if err != nil {
		writeError(w, h.logger, "chat with tutor", err)
		return
	}
	writeJSON(w, http.StatusOK, dto.TextResponseDTO{Response: reply})
}

// studySuggestions godoc
// @Summary Get study suggestions
// @Tags ai
// @Accept json
// @Produce json
// @Param body body dto.StudySuggestionsRequestDTO true "Study suggestions request"
// @Success 200 {object} ai.StudySuggestions
// @Router /ai/study-suggestions [post]
func (h *AIHandler) studySuggestions(w http.ResponseWriter, r *http.Request) {
	var req dto.StudySuggestionsRequestDTO
	if !h.decode(w, r, &req) {
		return
	}
	suggestions, err := h.aiService.GetStudySuggestions(r.Context(), ai.StudySuggestionsRequest{
		CourseContent: req.CourseContent,
		Progress:      req.Progress,
	})
	if err != nil {
		writeError(w, h.logger, "get study suggestions", err)
		return
	}
	writeJSON(w, http.StatusOK, suggestions)
}

// practiceQuestions godoc
// @Summary Generate practice questions
// @Tags ai
// @Accept json
// @Produce json
// @Param body body dto.PracticeRequestDTO true "Practice request"
// @Success 200 {object} ai.PracticeQuestions
// @Router /ai/practice [post]
func (h *AIHandler) practiceQuestions(w http.ResponseWriter, r *http.Request) {
	var req dto.PracticeRequestDTO
	if !h.decode(w, r, &req) {
		return
	}
	practice, err := h.aiService.GeneratePracticeQuestions(r.Context(), ai.PracticeRequest{
		Topic: req.Topic,
		Count: req.Count,
	})
	if err != nil {
		writeError(w, h.logger, "generate practice questions", err)
		return
	}
	writeJSON(w, http.StatusOK, practice)
}

// summarize godoc
// @Summary Summarize content
// @Tags ai
// @Accept json
// @Produce json
// @Param body body dto.SummaryRequestDTO true "Summary request"
// @Success 200 {object} dto.TextResponseDTO
// @Router /ai/summarize [post]
func (h *AIHandler) summarize(w http.ResponseWriter, r *http.Request) {
	var req dto.SummaryRequestDTO
	if !h.decode(w, r, &req) {
		return
	}
	summary, err := h.aiService.SummarizeContent(r.Context(), ai.SummaryRequest{
		Content: req.Content,
		Length:  req.Length,
	})
	if err != nil {
		writeError(w, h.logger, "summarize content", err)
		return
	}
	writeJSON(w, http.StatusOK, dto.TextResponseDTO{Response: summary})
}

// assignmentHelp godoc
// @Summary Get help with an assignment
// @Tags ai
// @Accept json
// @Produce json
// @Param body body dto.AssignmentHelpRequestDTO true "Assignment help request"
// @Success 200 {object} dto.TextResponseDTO
// @Router /ai/assignment-help [post]
func (h *AIHandler) assignmentHelp(w http.ResponseWriter, r *http.Request) {
	var req dto.AssignmentHelpRequestDTO
	if !h.decode(w, r, &req) {
		return
	}
	reply, err := h.aiService.HelpWithAssignment(r.Context(), ai.AssignmentHelpRequest{
		Question:          req.Question,
		AssignmentContext: req.AssignmentContext,
		PreviousAttempt:   req.PreviousAttempt,
	})
	if err != nil {
		writeError(w, h.logger, "help with assignment", err)
		return
	}
	writeJSON(w, http.StatusOK, dto.TextResponseDTO{Response: reply})
}

// getStatus godoc
// @Summary AI configuration status
// @Description Reports whether an AI key is configured and accepted by the provider.
// @Tags ai
// @Produce json
// @Success 200 {object} dto.AIStatusResponseDTO
// @Router /ai/status [get]
func (h *AIHandler) getStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	if _, ok := requireUser(w, r); !ok {
		return
	}
	resp := dto.AIStatusResponseDTO{Configured: true}
	if err := h.validator.ValidateAPIKey(r.Context()); err != nil {
		resp.Configured = !errors.Is(err, ai.ErrNotConfigured)
		resp.Error = err.Error()
	} else {
		resp.Valid = true
	}
	writeJSON(w, http.StatusOK, resp)
}
