package ai

import (
	"strings"
	"testing"
)

func TestOutlinePromptSubstitutesValues(t *testing.T) {
	prompt := buildOutlinePrompt("t", "4 weeks", "beginner")
	for _, want := range []string{`"t"`, "4 weeks", "beginner level"} {
		if !strings.Contains(prompt, want) {
			t.Errorf("outline prompt missing %q:\n%s", want, prompt)
		}
	}
	if !strings.Contains(prompt, `"modules": [`) {
		t.Error("outline prompt should describe the expected JSON shape")
	}
}

func TestPromptsAreDeterministic(t *testing.T) {
	progress := map[string]any{"module2": 40, "module1": 100}
	a := buildStudySuggestionsPrompt("Go", progress)
	b := buildStudySuggestionsPrompt("Go", progress)
	if a != b {
		t.Error("study suggestions prompt should be deterministic")
	}
	if !strings.Contains(a, `Progress: {"module1":100,"module2":40}`) {
		t.Errorf("unexpected progress rendering:\n%s", a)
	}
}

func TestOptionalPromptSections(t *testing.T) {
	testCases := []struct {
		name    string
		prompt  string
		present []string
		absent  []string
	}{
		{
			name:    "grade without rubric",
			prompt:  buildGradePrompt("essay", "my essay", ""),
			present: []string{"Assignment: essay", "Student Submission: my essay"},
			absent:  []string{"Rubric:"},
		},
		{
			name:    "grade with rubric",
			prompt:  buildGradePrompt("essay", "my essay", "clarity"),
			present: []string{"Rubric: clarity"},
		},
		{
			name:    "lesson plan objectives",
			prompt:  buildLessonPlanPrompt("Fractions", "45 minutes", []string{"add", "compare"}),
			present: []string{`teaching "Fractions"`, "Duration: 45 minutes", "Learning Objectives: add, compare"},
		},
		{
			name:   "lesson plan without objectives",
			prompt: buildLessonPlanPrompt("Fractions", "45 minutes", nil),
			absent: []string{"Learning Objectives"},
		},
		{
			name:    "tutor without context",
			prompt:  buildTutorPrompt("what is a closure?", "", nil),
			present: []string{"You are a helpful AI tutor.", "Student question: what is a closure?"},
			absent:  []string{"Previous conversation"},
		},
		{
			name: "tutor with context and history",
			prompt: buildTutorPrompt("and hooks?", "React", []ChatMessage{
				{Role: RoleUser, Content: "explain props"},
				{Role: RoleAssistant, Content: "props are inputs"},
			}),
			present: []string{`course on "React"`, "Previous conversation:\nuser: explain props\nassistant: props are inputs\n"},
		},
		{
			name:   "assignment help without attempt",
			prompt: buildAssignmentHelpPrompt("how?", "build a todo app", ""),
			absent: []string{"Previous Attempt"},
		},
		{
			name:    "assignment help with attempt",
			prompt:  buildAssignmentHelpPrompt("how?", "build a todo app", "used a class"),
			present: []string{"Assignment Context: build a todo app", "Previous Attempt: used a class", "Student Question: how?"},
		},
		{
			name:    "quiz",
			prompt:  buildQuizPrompt("Go", 3, "advanced"),
			present: []string{`Generate 3 quiz questions about "Go" at advanced level.`},
		},
		{
			name:    "practice",
			prompt:  buildPracticePrompt("SQL", 7),
			present: []string{`Generate 7 practice questions about "SQL"`},
		},
	}

	for _, tc := range testCases {
		for _, want := range tc.present {
			if !strings.Contains(tc.prompt, want) {
				t.Errorf("%s: prompt missing %q", tc.name, want)
			}
		}
		for _, unwanted := range tc.absent {
			if strings.Contains(tc.prompt, unwanted) {
				t.Errorf("%s: prompt should not contain %q", tc.name, unwanted)
			}
		}
	}
}

func TestSummaryLengthGuide(t *testing.T) {
	testCases := []struct {
		length string
		guide  string
	}{
		{"short", "2-3 sentences"},
		{"medium", "1 paragraph"},
		{"long", "2-3 paragraphs"},
		{"enormous", "1 paragraph"},
	}
	for _, tc := range testCases {
		prompt := buildSummaryPrompt("content", tc.length)
		if !strings.HasPrefix(prompt, "Summarize the following content in "+tc.guide+":") {
			t.Errorf("length %q: unexpected prompt start %q", tc.length, prompt[:60])
		}
	}
}
