package ai

import (
	"bytes"
	"encoding/json"
	"errors"
	"regexp"
	"strconv"
	"strings"
)

// Role values used in tutoring conversations.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

var nullJSON = []byte("null")

// ChatMessage is one turn of a tutoring conversation.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// FlexString accepts any JSON value. Strings are kept as is, numbers and
// booleans are formatted, objects and arrays keep their JSON text.
type FlexString string

func (f *FlexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, nullJSON) {
		*f = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = FlexString(s)
		return nil
	}
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	switch t := v.(type) {
	case bool:
		*f = FlexString(strconv.FormatBool(t))
	case float64:
		*f = FlexString(strconv.FormatFloat(t, 'f', -1, 64))
	default:
		*f = FlexString(string(data))
	}
	return nil
}

var leadingNumber = regexp.MustCompile(`^\s*-?\d+(\.\d+)?`)

// FlexNumber accepts a JSON number or a string starting with one
// ("85", "85/100", "92%"). Anything else reads as 0.
type FlexNumber float64

func (n *FlexNumber) UnmarshalJSON(data []byte) error {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*n = 0
	switch t := v.(type) {
	case float64:
		*n = FlexNumber(t)
	case string:
		if m := leadingNumber.FindString(t); m != "" {
			f, _ := strconv.ParseFloat(strings.TrimSpace(m), 64)
			*n = FlexNumber(f)
		}
	}
	return nil
}

// List decodes a JSON array. A lone non-array value becomes a one-item list.
type List[T any] []T

func (l *List[T]) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, nullJSON) {
		*l = nil
		return nil
	}
	if len(data) > 0 && data[0] == '[' {
		var items []T
		if err := json.Unmarshal(data, &items); err != nil && !isTypeError(err) {
			return err
		}
		*l = items
		return nil
	}
	var item T
	if err := json.Unmarshal(data, &item); err != nil && !isTypeError(err) {
		return err
	}
	*l = List[T]{item}
	return nil
}

// Texts renders list items as strings: JSON strings are unquoted, other
// values keep their JSON text.
func Texts(items []json.RawMessage) []string {
	out := make([]string, 0, len(items))
	for _, raw := range items {
		var s FlexString
		if err := s.UnmarshalJSON(raw); err != nil {
			out = append(out, string(raw))
			continue
		}
		out = append(out, string(s))
	}
	return out
}

func isTypeError(err error) bool {
	var typeErr *json.UnmarshalTypeError
	return errors.As(err, &typeErr)
}

// loose remembers what the model sent beyond the typed fields: keys the
// artifact does not name, or the whole value when it was not an object.
// Both are written back on marshal.
type loose struct {
	extra   map[string]json.RawMessage
	literal json.RawMessage
}

// decode fills v from data without failing on shape mismatches.
func (l *loose) decode(data []byte, v any) error {
	data = bytes.TrimSpace(data)
	*l = loose{}
	if bytes.Equal(data, nullJSON) {
		return nil
	}
	if len(data) == 0 || data[0] != '{' {
		l.literal = append(json.RawMessage(nil), data...)
		return nil
	}
	if err := json.Unmarshal(data, &l.extra); err != nil {
		return err
	}
	if err := json.Unmarshal(data, v); err != nil && !isTypeError(err) {
		return err
	}
	return nil
}

func (l loose) encode(v any) ([]byte, error) {
	if l.literal != nil {
		return l.literal, nil
	}
	data, err := json.Marshal(v)
	if err != nil || len(l.extra) == 0 {
		return data, err
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, err
	}
	for k, raw := range l.extra {
		if _, ok := fields[k]; !ok {
			fields[k] = raw
		}
	}
	return json.Marshal(fields)
}

// Extra returns the raw value the model sent for key, typed or not.
func (l loose) Extra(key string) (json.RawMessage, bool) {
	raw, ok := l.extra[key]
	return raw, ok
}

type OutlineModule struct {
	Title       FlexString            `json:"title"`
	Description FlexString            `json:"description"`
	Topics      List[json.RawMessage] `json:"topics"`
	loose
}

func (m *OutlineModule) UnmarshalJSON(data []byte) error {
	type plain OutlineModule
	return m.decode(data, (*plain)(m))
}

func (m OutlineModule) MarshalJSON() ([]byte, error) {
	type plain OutlineModule
	return m.encode(plain(m))
}

// CourseOutline is the artifact produced by GenerateCourseOutline.
type CourseOutline struct {
	Title       FlexString            `json:"title"`
	Description FlexString            `json:"description"`
	Objectives  List[json.RawMessage] `json:"objectives"`
	Modules     List[OutlineModule]   `json:"modules"`
	Activities  List[json.RawMessage] `json:"activities"`
	loose
}

func (o *CourseOutline) UnmarshalJSON(data []byte) error {
	type plain CourseOutline
	return o.decode(data, (*plain)(o))
}

func (o CourseOutline) MarshalJSON() ([]byte, error) {
	type plain CourseOutline
	return o.encode(plain(o))
}

func (o *CourseOutline) normalize() {
	if o.Objectives == nil {
		o.Objectives = List[json.RawMessage]{}
	}
	if o.Modules == nil {
		o.Modules = List[OutlineModule]{}
	}
	for i := range o.Modules {
		if o.Modules[i].Topics == nil && o.Modules[i].literal == nil {
			o.Modules[i].Topics = List[json.RawMessage]{}
		}
	}
	if o.Activities == nil {
		o.Activities = List[json.RawMessage]{}
	}
}

type QuizQuestion struct {
	Type          FlexString            `json:"type"`
	Question      FlexString            `json:"question"`
	Options       List[json.RawMessage] `json:"options,omitempty"`
	CorrectAnswer FlexString            `json:"correctAnswer"`
	Explanation   FlexString            `json:"explanation"`
	loose
}

func (q *QuizQuestion) UnmarshalJSON(data []byte) error {
	type plain QuizQuestion
	return q.decode(data, (*plain)(q))
}

func (q QuizQuestion) MarshalJSON() ([]byte, error) {
	type plain QuizQuestion
	return q.encode(plain(q))
}

type Quiz struct {
	Questions List[QuizQuestion] `json:"questions"`
	loose
}

func (q *Quiz) UnmarshalJSON(data []byte) error {
	type plain Quiz
	return q.decode(data, (*plain)(q))
}

func (q Quiz) MarshalJSON() ([]byte, error) {
	type plain Quiz
	return q.encode(plain(q))
}

func (q *Quiz) normalize() {
	if q.Questions == nil {
		q.Questions = List[QuizQuestion]{}
	}
}

// Grade is the artifact produced by GradeAssignment.
type Grade struct {
	Score        FlexNumber            `json:"score"`
	Feedback     FlexString            `json:"feedback"`
	Strengths    List[json.RawMessage] `json:"strengths"`
	Improvements List[json.RawMessage] `json:"improvements"`
	loose
}

func (g *Grade) UnmarshalJSON(data []byte) error {
	type plain Grade
	return g.decode(data, (*plain)(g))
}

func (g Grade) MarshalJSON() ([]byte, error) {
	type plain Grade
	return g.encode(plain(g))
}

func (g *Grade) normalize() {
	if g.Strengths == nil {
		g.Strengths = List[json.RawMessage]{}
	}
	if g.Improvements == nil {
		g.Improvements = List[json.RawMessage]{}
	}
}

type LessonSection struct {
	Title      FlexString            `json:"title"`
	Duration   FlexString            `json:"duration"`
	Activities List[json.RawMessage] `json:"activities"`
	Content    FlexString            `json:"content"`
	loose
}

func (s *LessonSection) UnmarshalJSON(data []byte) error {
	type plain LessonSection
	return s.decode(data, (*plain)(s))
}

func (s LessonSection) MarshalJSON() ([]byte, error) {
	type plain LessonSection
	return s.encode(plain(s))
}

type LessonPlan struct {
	Title      FlexString            `json:"title"`
	Objectives List[json.RawMessage] `json:"objectives"`
	Materials  List[json.RawMessage] `json:"materials"`
	Sections   List[LessonSection]   `json:"sections"`
	Assessment FlexString            `json:"assessment"`
	Homework   FlexString            `json:"homework"`
	loose
}

func (l *LessonPlan) UnmarshalJSON(data []byte) error {
	type plain LessonPlan
	return l.decode(data, (*plain)(l))
}

func (l LessonPlan) MarshalJSON() ([]byte, error) {
	type plain LessonPlan
	return l.encode(plain(l))
}

func (l *LessonPlan) normalize() {
	if l.Objectives == nil {
		l.Objectives = List[json.RawMessage]{}
	}
	if l.Materials == nil {
		l.Materials = List[json.RawMessage]{}
	}
	if l.Sections == nil {
		l.Sections = List[LessonSection]{}
	}
	for i := range l.Sections {
		if l.Sections[i].Activities == nil && l.Sections[i].literal == nil {
			l.Sections[i].Activities = List[json.RawMessage]{}
		}
	}
}

type StudySuggestions struct {
	FocusTopics List[json.RawMessage] `json:"focusTopics"`
	Schedule    any                   `json:"schedule"`
	Activities  List[json.RawMessage] `json:"activities"`
	Resources   List[json.RawMessage] `json:"resources"`
	loose
}

func (s *StudySuggestions) UnmarshalJSON(data []byte) error {
	type plain StudySuggestions
	return s.decode(data, (*plain)(s))
}

func (s StudySuggestions) MarshalJSON() ([]byte, error) {
	type plain StudySuggestions
	return s.encode(plain(s))
}

func (s *StudySuggestions) normalize() {
	if s.FocusTopics == nil {
		s.FocusTopics = List[json.RawMessage]{}
	}
	if s.Schedule == nil {
		s.Schedule = map[string]any{}
	}
	if s.Activities == nil {
		s.Activities = List[json.RawMessage]{}
	}
	if s.Resources == nil {
		s.Resources = List[json.RawMessage]{}
	}
}

type PracticeQuestion struct {
	Question FlexString `json:"question"`
	Hint     FlexString `json:"hint"`
	Answer   FlexString `json:"answer"`
	loose
}

func (p *PracticeQuestion) UnmarshalJSON(data []byte) error {
	type plain PracticeQuestion
	return p.decode(data, (*plain)(p))
}

func (p PracticeQuestion) MarshalJSON() ([]byte, error) {
	type plain PracticeQuestion
	return p.encode(plain(p))
}

type PracticeQuestions struct {
	Questions List[PracticeQuestion] `json:"questions"`
	loose
}

func (p *PracticeQuestions) UnmarshalJSON(data []byte) error {
	type plain PracticeQuestions
	return p.decode(data, (*plain)(p))
}

func (p PracticeQuestions) MarshalJSON() ([]byte, error) {
	type plain PracticeQuestions
	return p.encode(plain(p))
}

func (p *PracticeQuestions) normalize() {
	if p.Questions == nil {
		p.Questions = List[PracticeQuestion]{}
	}
}
