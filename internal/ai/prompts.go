package ai

import (
	"encoding/json"
	"fmt"
	"strings"
)

const (
	outlineFormat = `{
  "title": "Course Title",
  "description": "Course description",
  "objectives": ["objective1", "objective2", ...],
  "modules": [
    {
      "title": "Module Title",
      "description": "Module description",
      "topics": ["topic1", "topic2", ...]
    }
  ],
  "activities": ["activity1", "activity2", ...]
}`

	quizFormat = `{
  "questions": [
    {
      "type": "multiple_choice",
      "question": "Question text",
      "options": ["A", "B", "C", "D"],
      "correctAnswer": "A",
      "explanation": "Why this is correct"
    },
    {
      "type": "true_false",
      "question": "Statement",
      "correctAnswer": "true",
      "explanation": "Explanation"
    }
  ]
}`

	gradeFormat = `{
  "score": 85,
  "feedback": "Overall feedback...",
  "strengths": ["strength1", "strength2"],
  "improvements": ["improvement1", "improvement2"]
}`

	lessonPlanFormat = `{
  "title": "Lesson Title",
  "objectives": ["objective1", "objective2"],
  "materials": ["material1", "material2"],
  "sections": [
    {
      "title": "Section title",
      "duration": "15 minutes",
      "activities": ["activity1", "activity2"],
      "content": "Detailed content"
    }
  ],
  "assessment": "Assessment method",
  "homework": "Homework assignment"
}`

	studySuggestionsFormat = `{
  "focusTopics": ["topic1", "topic2", ...],
  "schedule": {
    "week1": "Activities for week 1",
    "week2": "Activities for week 2"
  },
  "activities": ["activity1", "activity2"],
  "resources": ["resource1", "resource2"]
}`

	practiceFormat = `{
  "questions": [
    {
      "question": "Question text",
      "hint": "Helpful hint",
      "answer": "Detailed answer with explanation"
    }
  ]
}`
)

var summaryLengths = map[string]string{
	"short":  "2-3 sentences",
	"medium": "1 paragraph",
	"long":   "2-3 paragraphs",
}

func buildOutlinePrompt(topic, duration, level string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Create a comprehensive course outline for a %s level course on \"%s\".\n", level, topic)
	fmt.Fprintf(&b, "The course should be designed for approximately %s.\n\n", duration)
	b.WriteString("Please provide:\n")
	b.WriteString("1. Course title\n")
	b.WriteString("2. Brief course description (2-3 sentences)\n")
	b.WriteString("3. Learning objectives (4-6 key objectives)\n")
	b.WriteString("4. 5-8 modules with titles and brief descriptions\n")
	b.WriteString("5. Suggested activities or projects\n\n")
	b.WriteString("Format the response as structured JSON with the following structure:\n")
	b.WriteString(outlineFormat)
	return b.String()
}

func buildQuizPrompt(topic string, numQuestions int, difficulty string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Generate %d quiz questions about \"%s\" at %s level.\n\n", numQuestions, topic, difficulty)
	b.WriteString("Include a mix of:\n")
	b.WriteString("- Multiple choice questions (provide 4 options)\n")
	b.WriteString("- True/False questions\n")
	b.WriteString("- Short answer questions\n\n")
	b.WriteString("Format as JSON:\n")
	b.WriteString(quizFormat)
	return b.String()
}

func buildGradePrompt(assignment, submission, rubric string) string {
	var b strings.Builder
	b.WriteString("Grade the following student submission based on the assignment requirements.\n\n")
	fmt.Fprintf(&b, "Assignment: %s\n\n", assignment)
	if rubric != "" {
		fmt.Fprintf(&b, "Rubric: %s\n\n", rubric)
	}
	fmt.Fprintf(&b, "Student Submission: %s\n\n", submission)
	b.WriteString("Provide:\n")
	b.WriteString("1. Score out of 100\n")
	b.WriteString("2. Detailed feedback (strengths and areas for improvement)\n")
	b.WriteString("3. Specific suggestions for improvement\n\n")
	b.WriteString("Format as JSON:\n")
	b.WriteString(gradeFormat)
	return b.String()
}

func buildLessonPlanPrompt(topic, duration string, objectives []string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Create a detailed lesson plan for teaching \"%s\".\n", topic)
	fmt.Fprintf(&b, "Duration: %s\n", duration)
	if len(objectives) > 0 {
		fmt.Fprintf(&b, "Learning Objectives: %s\n", strings.Join(objectives, ", "))
	}
	b.WriteString("\nInclude:\n")
	b.WriteString("1. Introduction (5-10 minutes)\n")
	b.WriteString("2. Main content sections with activities\n")
	b.WriteString("3. Practice exercises\n")
	b.WriteString("4. Assessment methods\n")
	b.WriteString("5. Conclusion and homework\n\n")
	b.WriteString("Format as JSON:\n")
	b.WriteString(lessonPlanFormat)
	return b.String()
}

func buildTutorPrompt(message, courseContext string, history []ChatMessage) string {
	var b strings.Builder
	if courseContext != "" {
		fmt.Fprintf(&b, "You are an AI tutor helping with a course on \"%s\".\n\n", courseContext)
	} else {
		b.WriteString("You are a helpful AI tutor.\n\n")
	}
	if len(history) > 0 {
		b.WriteString("Previous conversation:\n")
		for _, m := range history {
			fmt.Fprintf(&b, "%s: %s\n", m.Role, m.Content)
		}
		b.WriteString("\n")
	}
	fmt.Fprintf(&b, "Student question: %s\n\n", message)
	b.WriteString("Provide a clear, educational response that:\n")
	b.WriteString("1. Directly answers the question\n")
	b.WriteString("2. Provides relevant examples\n")
	b.WriteString("3. Encourages deeper understanding\n")
	b.WriteString("4. Suggests related topics to explore")
	return b.String()
}

func buildStudySuggestionsPrompt(courseContent string, progress map[string]any) string {
	var b strings.Builder
	b.WriteString("Based on this course content and student progress, provide personalized study suggestions.\n\n")
	fmt.Fprintf(&b, "Course: %s\n", courseContent)
	if len(progress) > 0 {
		// map keys marshal in sorted order, so the prompt stays deterministic
		if raw, err := json.Marshal(progress); err == nil {
			fmt.Fprintf(&b, "Progress: %s\n", raw)
		}
	}
	b.WriteString("\nProvide:\n")
	b.WriteString("1. 5-7 key topics to focus on\n")
	b.WriteString("2. Recommended study schedule\n")
	b.WriteString("3. Practice activities\n")
	b.WriteString("4. Resources to explore\n\n")
	b.WriteString("Format as JSON:\n")
	b.WriteString(studySuggestionsFormat)
	return b.String()
}

func buildPracticePrompt(topic string, count int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Generate %d practice questions about \"%s\" for self-study.\n\n", count, topic)
	b.WriteString("Include:\n")
	b.WriteString("- Questions that test understanding\n")
	b.WriteString("- Hints for each question\n")
	b.WriteString("- Detailed answers with explanations\n\n")
	b.WriteString("Format as JSON:\n")
	b.WriteString(practiceFormat)
	return b.String()
}

func buildSummaryPrompt(content, length string) string {
	guide, ok := summaryLengths[length]
	if !ok {
		guide = summaryLengths["medium"]
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Summarize the following content in %s:\n\n", guide)
	fmt.Fprintf(&b, "%s\n\n", content)
	b.WriteString("Focus on:\n")
	b.WriteString("1. Main concepts\n")
	b.WriteString("2. Key takeaways\n")
	b.WriteString("3. Important details")
	return b.String()
}

func buildAssignmentHelpPrompt(question, assignmentContext, previousAttempt string) string {
	var b strings.Builder
	b.WriteString("A student needs help with an assignment.\n\n")
	fmt.Fprintf(&b, "Assignment Context: %s\n", assignmentContext)
	if previousAttempt != "" {
		fmt.Fprintf(&b, "Previous Attempt: %s\n", previousAttempt)
	}
	fmt.Fprintf(&b, "\nStudent Question: %s\n\n", question)
	b.WriteString("Provide guidance that:\n")
	b.WriteString("1. Doesn't give away the complete answer\n")
	b.WriteString("2. Helps them think through the problem\n")
	b.WriteString("3. Provides relevant hints and examples\n")
	b.WriteString("4. Encourages independent problem-solving")
	return b.String()
}
