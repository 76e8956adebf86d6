package ai

import (
	"context"

	"github.com/rs/zerolog"
)

const (
	// HistoryWindow is how many recent chat turns are sent as tutoring context.
	HistoryWindow = 5

	chatMaxTokens    = 2048
	summaryMaxTokens = 1024

	defaultLevel          = "intermediate"
	defaultQuestionCount  = 5
	defaultLessonDuration = "60 minutes"
	defaultSummaryLength  = "medium"
)

type OutlineRequest struct {
	Topic    string
	Duration string
	Level    string
}

type QuizRequest struct {
	Topic        string
	NumQuestions int
	Difficulty   string
}

type GradeRequest struct {
	Assignment string
	Submission string
	Rubric     string
}

type LessonPlanRequest struct {
	Topic      string
	Duration   string
	Objectives []string
}

type TutorRequest struct {
	Message       string
	CourseContext string
	History       []ChatMessage
}

type StudySuggestionsRequest struct {
	CourseContent string
	Progress      map[string]any
}

type PracticeRequest struct {
	Topic string
	Count int
}

type SummaryRequest struct {
	Content string
	Length  string
}

type AssignmentHelpRequest struct {
	Question          string
	AssignmentContext string
	PreviousAttempt   string
}

// Service builds prompts for each learning use case and recovers structured
// results from the model's free-text reply. Replies that hold no usable JSON
// object are turned into fallback values, never into errors.
type Service struct {
	completer Completer
	logger    zerolog.Logger
}

func NewService(completer Completer, logger zerolog.Logger) *Service {
	return &Service{
		completer: completer,
		logger:    logger.With().Str("service", "AIService").Logger(),
	}
}

// RecentWindow returns the last n messages of history.
func RecentWindow(history []ChatMessage, n int) []ChatMessage {
	if n <= 0 {
		return nil
	}
	if len(history) <= n {
		return history
	}
	return history[len(history)-n:]
}

func (s *Service) parse(useCase, reply string, out any) bool {
	if err := ExtractJSON(reply, out); err != nil {
		s.logger.Warn().Err(err).Str("use_case", useCase).Msg("Failed to parse AI response, using fallback")
		return false
	}
	return true
}

func (s *Service) GenerateCourseOutline(ctx context.Context, req OutlineRequest) (*CourseOutline, error) {
	if req.Level == "" {
		req.Level = defaultLevel
	}
	reply, err := s.completer.Complete(ctx, buildOutlinePrompt(req.Topic, req.Duration, req.Level), DefaultMaxTokens)
	if err != nil {
		return nil, err
	}

	var outline CourseOutline
	if !s.parse("course_outline", reply, &outline) {
		outline = CourseOutline{Title: FlexString(req.Topic), Description: FlexString(reply)}
	}
	outline.normalize()
	return &outline, nil
}

func (s *Service) GenerateQuiz(ctx context.Context, req QuizRequest) (*Quiz, error) {
	if req.NumQuestions <= 0 {
		req.NumQuestions = defaultQuestionCount
	}
	if req.Difficulty == "" {
		req.Difficulty = defaultLevel
	}
	reply, err := s.completer.Complete(ctx, buildQuizPrompt(req.Topic, req.NumQuestions, req.Difficulty), DefaultMaxTokens)
	if err != nil {
		return nil, err
	}

	var quiz Quiz
	if !s.parse("quiz", reply, &quiz) {
		quiz = Quiz{}
	}
	quiz.normalize()
	return &quiz, nil
}

func (s *Service) GradeAssignment(ctx context.Context, req GradeRequest) (*Grade, error) {
	reply, err := s.completer.Complete(ctx, buildGradePrompt(req.Assignment, req.Submission, req.Rubric), DefaultMaxTokens)
	if err != nil {
		return nil, err
	}

	var grade Grade
	if !s.parse("grade", reply, &grade) {
		grade = Grade{Feedback: FlexString(reply)}
	}
	grade.normalize()
	return &grade, nil
}

func (s *Service) GenerateLessonPlan(ctx context.Context, req LessonPlanRequest) (*LessonPlan, error) {
	if req.Duration == "" {
		req.Duration = defaultLessonDuration
	}
	reply, err := s.completer.Complete(ctx, buildLessonPlanPrompt(req.Topic, req.Duration, req.Objectives), DefaultMaxTokens)
	if err != nil {
		return nil, err
	}

	var plan LessonPlan
	if !s.parse("lesson_plan", reply, &plan) {
		plan = LessonPlan{Title: FlexString(req.Topic)}
	}
	plan.normalize()
	return &plan, nil
}

// ChatWithTutor answers a student question. Only the last HistoryWindow
// messages of req.History are included in the prompt.
func (s *Service) ChatWithTutor(ctx context.Context, req TutorRequest) (string, error) {
	history := RecentWindow(req.History, HistoryWindow)
	return s.completer.Complete(ctx, buildTutorPrompt(req.Message, req.CourseContext, history), chatMaxTokens)
}

func (s *Service) GetStudySuggestions(ctx context.Context, req StudySuggestionsRequest) (*StudySuggestions, error) {
	reply, err := s.completer.Complete(ctx, buildStudySuggestionsPrompt(req.CourseContent, req.Progress), DefaultMaxTokens)
	if err != nil {
		return nil, err
	}

	var suggestions StudySuggestions
	if !s.parse("study_suggestions", reply, &suggestions) {
		suggestions = StudySuggestions{}
	}
	suggestions.normalize()
	return &suggestions, nil
}

func (s *Service) GeneratePracticeQuestions(ctx context.Context, req PracticeRequest) (*PracticeQuestions, error) {
	if req.Count <= 0 {
		req.Count = defaultQuestionCount
	}
	reply, err := s.completer.Complete(ctx, buildPracticePrompt(req.Topic, req.Count), DefaultMaxTokens)
	if err != nil {
		return nil, err
	}

	var practice PracticeQuestions
	if !s.parse("practice_questions", reply, &practice) {
		practice = PracticeQuestions{}
	}
	practice.normalize()
	return &practice, nil
}

func (s *Service) SummarizeContent(ctx context.Context, req SummaryRequest) (string, error) {
	if req.Length == "" {
		req.Length = defaultSummaryLength
	}
	return s.completer.Complete(ctx, buildSummaryPrompt(req.Content, req.Length), summaryMaxTokens)
}

func (s *Service) HelpWithAssignment(ctx context.Context, req AssignmentHelpRequest) (string, error) {
	prompt := buildAssignmentHelpPrompt(req.Question, req.AssignmentContext, req.PreviousAttempt)
	return s.completer.Complete(ctx, prompt, chatMaxTokens)
}
