// Package localstore is the fallback persistence layer: a flat map from
// entity name to a JSON document. Keys are read and written independently;
// nothing is atomic across keys.
package localstore

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Entity keys.
const (
	KeyUsers       = "users"
	KeyCourses     = "courses"
	KeyEnrollments = "enrollments"
	KeySubmissions = "submissions"
	KeyQuizResults = "quizResults"
)

// Keys lists every entity key in seeding order.
var Keys = []string{KeyUsers, KeyCourses, KeyEnrollments, KeySubmissions, KeyQuizResults}

var ErrInvalidKey = errors.New("invalid store key")

// Store persists JSON-serialized values by key.
type Store interface {
	// Get decodes the value stored under key into out. It reports false when
	// the key is absent.
	Get(ctx context.Context, key string, out any) (bool, error)
	Set(ctx context.Context, key string, value any) error
	Remove(ctx context.Context, key string) error
	// Clear removes the entity documents listed in Keys and nothing else.
	Clear(ctx context.Context) error
	Close() error
}

func validateKey(key string) error {
	if key == "" || strings.ContainsAny(key, `/\.:*`) {
		return fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	return nil
}

// NewID returns a fresh identifier for a stored record.
func NewID() string {
	return uuid.NewString()
}
