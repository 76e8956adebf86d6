package dto

type OutlineRequestDTO struct {
	Topic    string `json:"topic" validate:"required"`
	Duration string `json:"duration" validate:"required"`
	Level    string `json:"level"`
}

type QuizRequestDTO struct {
	Topic        string `json:"topic" validate:"required"`
	NumQuestions int    `json:"numQuestions" validate:"omitempty,min=1,max=50"`
	Difficulty   string `json:"difficulty"`
}

type GradeRequestDTO struct {
	Assignment string `json:"assignment" validate:"required"`
	Submission string `json:"submission" validate:"required"`
	Rubric     string `json:"rubric"`
}

type LessonPlanRequestDTO struct {
	Topic      string   `json:"topic" validate:"required"`
	Duration   string   `json:"duration"`
	Objectives []string `json:"objectives"`
}

type ChatMessageDTO struct {
	Role    string `json:"role" validate:"required,oneof=user assistant"`
	Content string `json:"content"`
}

type TutorRequestDTO struct {
	Message       string           `json:"message" validate:"required"`
	CourseContext string           `json:"courseContext"`
	History       []ChatMessageDTO `json:"history" validate:"dive"`
}

type StudySuggestionsRequestDTO struct {
	CourseContent string         `json:"courseContent" validate:"required"`
	Progress      map[string]any `json:"progress"`
}

type PracticeRequestDTO struct {
	Topic string `json:"topic" validate:"required"`
	Count int    `json:"count" validate:"omitempty,min=1,max=50"`
}

type SummaryRequestDTO struct {
	Content string `json:"content" validate:"required"`
	Length  string `json:"length" validate:"omitempty,oneof=short medium long"`
}

type AssignmentHelpRequestDTO struct {
	Question          string `json:"question" validate:"required"`
	AssignmentContext string `json:"assignmentContext"`
	PreviousAttempt   string `json:"previousAttempt"`
}

// TextResponseDTO wraps free-text AI replies.
type TextResponseDTO struct {
	Response string `json:"response"`
}

type AIStatusResponseDTO struct {
	Configured bool   `json:"configured"`
	Valid      bool   `json:"valid"`
	Error      string `json:"error,omitempty"`
}
