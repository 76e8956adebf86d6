package service

import (
	"errors"

	"learnhub/internal/repository"
)

var (
	ErrCourseNotFound     = errors.New("course not found")
	ErrEnrollmentNotFound = errors.New("enrollment not found")
	ErrProfileNotFound    = repository.ErrProfileNotFound
	ErrProfileExists      = repository.ErrProfileExists
	ErrForbidden          = errors.New("forbidden")
	ErrInvalidLevel       = errors.New("level must be beginner, intermediate or advanced")
	ErrInvalidRole        = errors.New("role must be student or teacher")
	ErrInvalidProgress    = errors.New("progress must be between 0 and 100")
	ErrMediaDisabled      = errors.New("course image storage is not configured")
	ErrUnsupportedImage   = errors.New("unsupported image type")
	ErrInvalidImageKey    = errors.New("object key does not name an image of this course")
	ErrImageNotUploaded   = errors.New("image has not been uploaded")
)
