package service

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"
	"time"

	"learnhub/internal/repository"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const presignExpiry = 15 * time.Minute

var imageContentTypes = map[string]string{
	".png":  "image/png",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".webp": "image/webp",
	".gif":  "image/gif",
}

// ObjectPresigner is the subset of *s3.PresignClient used for course images.
type ObjectPresigner interface {
	PresignPutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error)
}

// ObjectHeader is the subset of *s3.Client used to confirm an upload landed.
type ObjectHeader interface {
	HeadObject(ctx context.Context, params *s3.HeadObjectInput, optFns ...func(*s3.Options)) (*s3.HeadObjectOutput, error)
}

// ImageUpload is returned to the client, which PUTs the file to UploadURL
// and then confirms it with CompleteCourseImageUpload.
type ImageUpload struct {
	UploadURL   string
	ObjectKey   string
	ImageURL    string
	ContentType string
	ExpiresAt   time.Time
}

type MediaService interface {
	// PrepareCourseImageUpload presigns an upload for the course image. The
	// course is not changed until the upload is completed. Only the owning
	// teacher may call it.
	PrepareCourseImageUpload(ctx context.Context, userID, courseID, filename string) (*ImageUpload, error)
	// CompleteCourseImageUpload checks that objectKey was uploaded for the
	// course and points the course at its public URL, which it returns.
	CompleteCourseImageUpload(ctx context.Context, userID, courseID, objectKey string) (string, error)
}

type mediaService struct {
	courseRepo    repository.CourseRepository
	presignClient ObjectPresigner
	objects       ObjectHeader
	bucketName    string
	publicBaseURL string
	logger        zerolog.Logger
}

// NewMediaService wires course image storage. A nil presigner or object
// client yields a service that answers ErrMediaDisabled.
func NewMediaService(courseRepo repository.CourseRepository, presignClient ObjectPresigner, objects ObjectHeader, bucketName, publicBaseURL string, logger zerolog.Logger) MediaService {
	return &mediaService{
		courseRepo:    courseRepo,
		presignClient: presignClient,
		objects:       objects,
		bucketName:    bucketName,
		publicBaseURL: strings.TrimRight(publicBaseURL, "/"),
		logger:        logger.With().Str("service", "MediaService").Logger(),
	}
}

func (s *mediaService) PrepareCourseImageUpload(ctx context.Context, userID, courseID, filename string) (*ImageUpload, error) {
	if s.presignClient == nil || s.objects == nil {
		return nil, ErrMediaDisabled
	}
	ext := strings.ToLower(path.Ext(filename))
	contentType, ok := imageContentTypes[ext]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedImage, ext)
	}
	if err := s.checkOwner(ctx, userID, courseID); err != nil {
		return nil, err
	}

	objectKey := fmt.Sprintf("%s%s%s", courseImagePrefix(courseID), uuid.NewString(), ext)
	request, err := s.presignClient.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucketName),
		Key:         aws.String(objectKey),
		ContentType: aws.String(contentType),
	}, s3.WithPresignExpires(presignExpiry))
	if err != nil {
		s.logger.Error().Err(err).Str("object_key", objectKey).Msg("Failed to generate presigned PUT URL")
		return nil, fmt.Errorf("failed to generate presigned PUT URL: %w", err)
	}

	return &ImageUpload{
		UploadURL:   request.URL,
		ObjectKey:   objectKey,
		ImageURL:    s.publicURL(objectKey),
		ContentType: contentType,
		ExpiresAt:   time.Now().Add(presignExpiry).UTC(),
	}, nil
}

func (s *mediaService) CompleteCourseImageUpload(ctx context.Context, userID, courseID, objectKey string) (string, error) {
	if s.presignClient == nil || s.objects == nil {
		return "", ErrMediaDisabled
	}
	prefix := courseImagePrefix(courseID)
	name := strings.TrimPrefix(objectKey, prefix)
	if name == objectKey || name == "" || strings.Contains(name, "/") {
		return "", fmt.Errorf("%w: %q", ErrInvalidImageKey, objectKey)
	}
	if _, ok := imageContentTypes[strings.ToLower(path.Ext(name))]; !ok {
		return "", fmt.Errorf("%w: %q", ErrInvalidImageKey, objectKey)
	}
	if err := s.checkOwner(ctx, userID, courseID); err != nil {
		return "", err
	}

	_, err := s.objects.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.bucketName),
		Key:    aws.String(objectKey),
	})
	if err != nil {
		var notFound *types.NotFound
		if errors.As(err, &notFound) {
			return "", ErrImageNotUploaded
		}
		s.logger.Error().Err(err).Str("object_key", objectKey).Msg("Failed to check uploaded course image")
		return "", fmt.Errorf("checking uploaded image: %w", err)
	}

	imageURL := s.publicURL(objectKey)
	found, err := s.courseRepo.SetImageURL(ctx, courseID, imageURL)
	if err != nil {
		return "", fmt.Errorf("saving course image url: %w", err)
	}
	if !found {
		return "", ErrCourseNotFound
	}
	s.logger.Info().Str("course_id", courseID).Str("object_key", objectKey).Msg("Course image updated")
	return imageURL, nil
}

func (s *mediaService) checkOwner(ctx context.Context, userID, courseID string) error {
	course, err := s.courseRepo.GetByID(ctx, courseID)
	if err != nil {
		return fmt.Errorf("getting course: %w", err)
	}
	if course == nil {
		return ErrCourseNotFound
	}
	if course.TeacherID != userID {
		return ErrForbidden
	}
	return nil
}

func (s *mediaService) publicURL(objectKey string) string {
	return fmt.Sprintf("%s/%s/%s", s.publicBaseURL, s.bucketName, objectKey)
}

func courseImagePrefix(courseID string) string {
	return "courses/" + courseID + "/"
}
