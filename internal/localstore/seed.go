package localstore

import (
	"context"
	"fmt"
	"time"

	"learnhub/internal/model"
)

// Demo account IDs present in a freshly seeded store.
const (
	DemoTeacherID = "1"
	DemoStudentID = "2"
)

// Seed writes the demo fixtures for every key that is currently absent.
// Keys that already hold a value, even an empty list, are left untouched.
// It returns the keys it wrote.
func Seed(ctx context.Context, s Store, now time.Time) ([]string, error) {
	fixtures := map[string]any{
		KeyUsers:       seedUsers(now),
		KeyCourses:     seedCourses(now),
		KeyEnrollments: seedEnrollments(now),
		KeySubmissions: []model.Submission{},
		KeyQuizResults: []model.QuizResult{},
	}

	var written []string
	for _, key := range Keys {
		var existing any
		found, err := s.Get(ctx, key, &existing)
		if err != nil {
			return written, fmt.Errorf("checking %s: %w", key, err)
		}
		if found {
			continue
		}
		if err := s.Set(ctx, key, fixtures[key]); err != nil {
			return written, fmt.Errorf("seeding %s: %w", key, err)
		}
		written = append(written, key)
	}
	return written, nil
}

func seedUsers(now time.Time) []model.Profile {
	return []model.Profile{
		{
			ID:        DemoTeacherID,
			Email:     "teacher@demo.com",
			FullName:  "Sarah Johnson",
			Role:      model.RoleTeacher,
			AvatarURL: "https://images.pexels.com/photos/774909/pexels-photo-774909.jpeg?auto=compress&cs=tinysrgb&w=200",
			Bio:       "Passionate educator with 10+ years of experience in online teaching.",
			CreatedAt: now,
			UpdatedAt: now,
		},
		{
			ID:        DemoStudentID,
			Email:     "student@demo.com",
			FullName:  "Alex Chen",
			Role:      model.RoleStudent,
			AvatarURL: "https://images.pexels.com/photos/1239291/pexels-photo-1239291.jpeg?auto=compress&cs=tinysrgb&w=200",
			Bio:       "Enthusiastic learner exploring new technologies and skills.",
			CreatedAt: now,
			UpdatedAt: now,
		},
	}
}

func lesson(id, title, duration string) model.Lesson {
	return model.Lesson{ID: id, Title: title, Duration: duration}
}

func seedCourses(now time.Time) []model.Course {
	return []model.Course{
		{
			ID:          "1",
			TeacherID:   DemoTeacherID,
			Title:       "Introduction to React",
			Description: "Learn the fundamentals of React, including components, hooks, and state management. Build modern web applications with confidence.",
			Category:    "Web Development",
			Level:       model.LevelBeginner,
			Duration:    "8 weeks",
			ImageURL:    "https://images.pexels.com/photos/1181467/pexels-photo-1181467.jpeg?auto=compress&cs=tinysrgb&w=800",
			IsPublished: true,
			CreatedAt:   now.Add(-3 * time.Hour),
			Modules: []model.CourseModule{
				{ID: "m1", Title: "Getting Started with React", Lessons: []model.Lesson{
					lesson("l1", "What is React?", "15 min"),
					lesson("l2", "Setting up your environment", "20 min"),
					lesson("l3", "Your first React component", "25 min"),
				}},
				{ID: "m2", Title: "React Components", Lessons: []model.Lesson{
					lesson("l4", "Functional Components", "30 min"),
					lesson("l5", "Props and State", "35 min"),
				}},
				{ID: "m3", Title: "React Hooks", Lessons: []model.Lesson{
					lesson("l6", "useState Hook", "25 min"),
					lesson("l7", "useEffect Hook", "30 min"),
				}},
			},
			Assignments: []model.Assignment{
				{
					ID:          "a1",
					Title:       "Build a Todo App",
					Description: "Create a functional todo application using React hooks",
					DueDate:     "2025-12-01",
					Points:      100,
				},
			},
		},
		{
			ID:          "2",
			TeacherID:   DemoTeacherID,
			Title:       "Advanced JavaScript",
			Description: "Master advanced JavaScript concepts including async programming, closures, and modern ES6+ features.",
			Category:    "Programming",
			Level:       model.LevelAdvanced,
			Duration:    "6 weeks",
			ImageURL:    "https://images.pexels.com/photos/546819/pexels-photo-546819.jpeg?auto=compress&cs=tinysrgb&w=800",
			IsPublished: true,
			CreatedAt:   now.Add(-2 * time.Hour),
			Modules: []model.CourseModule{
				{ID: "m1", Title: "Async JavaScript", Lessons: []model.Lesson{
					lesson("l1", "Promises", "30 min"),
					lesson("l2", "Async/Await", "25 min"),
				}},
			},
			Assignments: []model.Assignment{},
		},
		{
			ID:          "3",
			TeacherID:   DemoTeacherID,
			Title:       "UI/UX Design Fundamentals",
			Description: "Learn the principles of great user interface and user experience design. Create beautiful, functional designs.",
			Category:    "Design",
			Level:       model.LevelBeginner,
			Duration:    "4 weeks",
			ImageURL:    "https://images.pexels.com/photos/196644/pexels-photo-196644.jpeg?auto=compress&cs=tinysrgb&w=800",
			IsPublished: true,
			CreatedAt:   now.Add(-1 * time.Hour),
			Modules: []model.CourseModule{
				{ID: "m1", Title: "Design Principles", Lessons: []model.Lesson{
					lesson("l1", "Color Theory", "20 min"),
					lesson("l2", "Typography", "25 min"),
				}},
			},
			Assignments: []model.Assignment{},
		},
	}
}

func seedEnrollments(now time.Time) []model.Enrollment {
	return []model.Enrollment{
		{ID: "e1", StudentID: DemoStudentID, CourseID: "1", Progress: 0, EnrolledAt: now},
	}
}
