package ai

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestExtractJSONFirstSpanWins(t *testing.T) {
	text := `Here is the outline: {"title": "First"} and another {"title": "Second"}`
	var out struct {
		Title string `json:"title"`
	}
	if err := ExtractJSON(text, &out); err != nil {
		t.Fatalf("ExtractJSON returned error: %v", err)
	}
	if out.Title != "First" {
		t.Errorf("expected title First, got %q", out.Title)
	}
}

func TestExtractJSONCases(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		expected string
	}{
		{"bare object", `{"title":"A"}`, "A"},
		{"markdown fence", "```json\n{\"title\": \"B\"}\n```", "B"},
		{"nested braces", `prefix {"title":"C","meta":{"x":{"y":1}}} suffix }}`, "C"},
		{"invalid span skipped", `use {curly} braces then {"title":"D"}`, "D"},
		{"trailing brace text", `{"title":"E"} {broken`, "E"},
		{"braces inside strings", `{"title":"F {not} a span"}`, "F {not} a span"},
	}

	for _, tc := range testCases {
		var out struct {
			Title string `json:"title"`
		}
		if err := ExtractJSON(tc.input, &out); err != nil {
			t.Errorf("%s: unexpected error %v", tc.name, err)
			continue
		}
		if out.Title != tc.expected {
			t.Errorf("%s: expected %q, got %q", tc.name, tc.expected, out.Title)
		}
	}
}

func TestExtractJSONNoObject(t *testing.T) {
	inputs := []string{
		"",
		"plain prose with no braces at all",
		`["an", "array"]`,
		"{ never closed",
	}
	for _, in := range inputs {
		var out map[string]any
		if err := ExtractJSON(in, &out); !errors.Is(err, ErrNoJSONObject) {
			t.Errorf("ExtractJSON(%q) = %v, want ErrNoJSONObject", in, err)
		}
	}
}

func TestExtractJSONLooseShapes(t *testing.T) {
	var grade Grade
	text := `Here you go: {"score": "85", "feedback": "Solid work", "strengths": ["clear"], "improvements": "tests", "rubricNotes": {"style": 4}}`
	if err := ExtractJSON(text, &grade); err != nil {
		t.Fatalf("mismatched field types must not reject the object: %v", err)
	}
	if grade.Score != 85 || grade.Feedback != "Solid work" {
		t.Errorf("unexpected grade %+v", grade)
	}
	if got := Texts(grade.Strengths); len(got) != 1 || got[0] != "clear" {
		t.Errorf("unexpected strengths %v", got)
	}
	if got := Texts(grade.Improvements); len(got) != 1 || got[0] != "tests" {
		t.Errorf("a lone value should become a one-item list, got %v", got)
	}
	if raw, ok := grade.Extra("rubricNotes"); !ok || string(raw) != `{"style": 4}` {
		t.Errorf("unknown keys should be kept, got %s", raw)
	}

	var outline CourseOutline
	text = `{"title": "Go", "modules": [{"title": "Basics", "topics": [{"name": "syntax"}, "types"]}, "Wrap-up"], "duration": 6}`
	if err := ExtractJSON(text, &outline); err != nil {
		t.Fatalf("ExtractJSON returned error: %v", err)
	}
	if len(outline.Modules) != 2 || outline.Modules[0].Title != "Basics" {
		t.Fatalf("modules should survive object topics, got %+v", outline.Modules)
	}
	if got := Texts(outline.Modules[0].Topics); len(got) != 2 || got[0] != `{"name": "syntax"}` || got[1] != "types" {
		t.Errorf("unexpected topics %v", got)
	}
}

func TestArtifactMarshalKeepsModelShape(t *testing.T) {
	var outline CourseOutline
	text := `{"title": "Go", "level": "beginner", "modules": ["Intro", {"title": "Channels", "weeks": 2}]}`
	if err := ExtractJSON(text, &outline); err != nil {
		t.Fatalf("ExtractJSON returned error: %v", err)
	}
	outline.normalize()

	data, err := json.Marshal(&outline)
	if err != nil {
		t.Fatalf("Marshal returned error: %v", err)
	}
	var got map[string]any
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("Unmarshal returned error: %v", err)
	}
	if got["level"] != "beginner" || got["title"] != "Go" {
		t.Errorf("expected typed and unknown keys, got %v", got)
	}
	modules, _ := got["modules"].([]any)
	if len(modules) != 2 || modules[0] != "Intro" {
		t.Fatalf("non-object module should be written back as sent, got %v", got["modules"])
	}
	second, _ := modules[1].(map[string]any)
	if second["title"] != "Channels" || second["weeks"] != float64(2) {
		t.Errorf("nested unknown keys should be kept, got %v", second)
	}
	if objectives, ok := got["objectives"].([]any); !ok || len(objectives) != 0 {
		t.Errorf("missing lists should be written as empty, got %v", got["objectives"])
	}
}

func TestFlexNumber(t *testing.T) {
	testCases := []struct {
		input string
		want  FlexNumber
	}{
		{`92.5`, 92.5},
		{`"85"`, 85},
		{`"85/100"`, 85},
		{`" 70%"`, 70},
		{`"B+"`, 0},
		{`null`, 0},
		{`[1]`, 0},
	}
	for _, tc := range testCases {
		var n FlexNumber
		if err := json.Unmarshal([]byte(tc.input), &n); err != nil {
			t.Errorf("%s: unexpected error %v", tc.input, err)
			continue
		}
		if n != tc.want {
			t.Errorf("%s: expected %v, got %v", tc.input, tc.want, n)
		}
	}
}

func TestFlexString(t *testing.T) {
	var q QuizQuestion
	if err := ExtractJSON(`{"correctAnswer": true}`, &q); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if q.CorrectAnswer != "true" {
		t.Errorf("expected \"true\", got %q", q.CorrectAnswer)
	}

	if err := ExtractJSON(`{"correctAnswer": 2}`, &q); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if q.CorrectAnswer != "2" {
		t.Errorf("expected \"2\", got %q", q.CorrectAnswer)
	}
}
