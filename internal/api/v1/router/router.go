package router

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"learnhub/internal/ai"
	"learnhub/internal/api/v1/handler"
	"learnhub/internal/config"
	"learnhub/internal/localstore"
	"learnhub/internal/middleware"
	"learnhub/internal/pubsub"
	"learnhub/internal/repository"
	"learnhub/internal/secrets"
	"learnhub/internal/service"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	awsmiddleware "github.com/aws/smithy-go/middleware"
	"github.com/go-playground/validator/v10"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/rs/cors"
	"github.com/rs/zerolog"
)

// repositories groups whichever storage backend is configured.
type repositories struct {
	courses     repository.CourseRepository
	enrollments repository.EnrollmentRepository
	profiles    repository.ProfileRepository
}

// closers releases resources in reverse order of acquisition.
type closers []func() error

func (c closers) Close() error {
	var errs []error
	for i := len(c) - 1; i >= 0; i-- {
		if err := c[i](); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// New builds the HTTP handler and returns a cleanup func for the storage,
// Pub/Sub and Secret Manager clients it opened.
func New(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (http.Handler, func() error, error) {
	logger.Info().
		Str("environment", cfg.Environment).
		Str("storage_backend", cfg.StorageBackend).
		Msg("Initializing router")

	var cleanup closers
	fail := func(err error) (http.Handler, func() error, error) {
		cleanup.Close()
		return nil, nil, err
	}

	// 1. Storage
	repos, closeStore, err := openRepositories(ctx, cfg, logger)
	if err != nil {
		return fail(err)
	}
	cleanup = append(cleanup, closeStore)

	// 2. Course image storage
	var presigner service.ObjectPresigner
	var objects service.ObjectHeader
	if cfg.MediaEnabled() {
		s3Client, err := newS3Client(ctx, cfg)
		if err != nil {
			return fail(fmt.Errorf("loading S3 config: %w", err))
		}
		presigner = s3.NewPresignClient(s3Client)
		objects = s3Client
	} else {
		logger.Warn().Msg("S3 not configured, course image uploads disabled")
	}
	publicBaseURL := cfg.S3PublicURL
	if publicBaseURL == "" {
		publicBaseURL = cfg.S3URL
	}

	// 3. Domain events
	events := pubsub.NoopEventPublisher()
	if cfg.EventsEnabled() {
		publisher, err := pubsub.NewPublisher(ctx, cfg)
		if err != nil {
			return fail(err)
		}
		cleanup = append(cleanup, publisher.Close)
		events = pubsub.NewEventPublisher(publisher, cfg.EventsTopic, logger)
	} else {
		logger.Warn().Msg("GCP_PROJECT_ID not set, domain events disabled")
	}

	// 4. AI client
	aiCfg := ai.ClientConfig{
		Provider: cfg.AIProvider,
		APIKey:   cfg.AIAPIKey,
		APIURL:   cfg.AIAPIURL,
		Model:    cfg.AIModel,
	}
	if cfg.AIAPIKey == "" && cfg.AIAPIKeySecret != "" {
		keyProvider, closeSecrets, err := secrets.NewSecretManagerKeyProvider(ctx, cfg.GCPProjectID, cfg.AIAPIKeySecret)
		if err != nil {
			return fail(err)
		}
		cleanup = append(cleanup, closeSecrets)
		aiCfg.KeyProvider = keyProvider
	}
	aiClient := ai.NewClient(aiCfg, logger)

	// 5. Services and handlers
	validate := validator.New(validator.WithRequiredStructEnabled())

	courseSvc := service.NewCourseService(repos.courses, repos.profiles, events, logger)
	enrollmentSvc := service.NewEnrollmentService(repos.enrollments, repos.courses, events, logger)
	profileSvc := service.NewProfileService(repos.profiles)
	mediaSvc := service.NewMediaService(repos.courses, presigner, objects, cfg.S3Bucket, publicBaseURL, logger)
	aiSvc := ai.NewService(aiClient, logger)

	authMiddleware := middleware.AuthMiddleware(cfg.JWTSecret, logger)

	apiV1Mux := http.NewServeMux()
	handler.NewHealthHandler(cfg.StorageBackend).RegisterRoutes(apiV1Mux)
	handler.NewCourseHandler(courseSvc, enrollmentSvc, mediaSvc, validate, logger).RegisterRoutes(apiV1Mux, authMiddleware)
	handler.NewProfileHandler(profileSvc, courseSvc, enrollmentSvc, validate, logger).RegisterRoutes(apiV1Mux, authMiddleware)
	handler.NewAIHandler(aiSvc, aiClient, validate, logger).RegisterRoutes(apiV1Mux, authMiddleware)

	mux := http.NewServeMux()
	mux.Handle("/v1/", http.StripPrefix("/v1", apiV1Mux))

	// Redirect /api/* to /v1/*, keeping method, body and query
	mux.HandleFunc("/api/", func(w http.ResponseWriter, r *http.Request) {
		target := "/v1/" + strings.TrimPrefix(r.URL.Path, "/api/")
		if r.URL.RawQuery != "" {
			target += "?" + r.URL.RawQuery
		}
		http.Redirect(w, r, target, http.StatusPermanentRedirect)
	})

	c := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	})

	logger.Info().Msg("Router initialized")
	return middleware.LoggerMiddleware(logger)(c.Handler(mux)), cleanup.Close, nil
}

func openRepositories(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (repositories, func() error, error) {
	switch cfg.StorageBackend {
	case config.StorageBackendPostgres:
		db, err := openDB(ctx, cfg, logger)
		if err != nil {
			return repositories{}, nil, err
		}
		return repositories{
			courses:     repository.NewCourseRepo(db),
			enrollments: repository.NewEnrollmentRepo(db),
			profiles:    repository.NewProfileRepo(db),
		}, db.Close, nil

	case config.StorageBackendLocal:
		store, err := OpenLocalStore(ctx, cfg)
		if err != nil {
			return repositories{}, nil, err
		}
		seeded, err := localstore.Seed(ctx, store, time.Now().UTC())
		if err != nil {
			store.Close()
			return repositories{}, nil, fmt.Errorf("seeding local store: %w", err)
		}
		if len(seeded) > 0 {
			logger.Info().Strs("keys", seeded).Msg("Seeded local store with demo data")
		}
		local := repository.NewLocalRepositories(store)
		return repositories{
			courses:     local.Courses,
			enrollments: local.Enrollments,
			profiles:    local.Profiles,
		}, store.Close, nil

	default:
		return repositories{}, nil, fmt.Errorf("unknown STORAGE_BACKEND %q", cfg.StorageBackend)
	}
}

// OpenLocalStore opens the key-value store selected by LOCAL_STORE_DRIVER.
func OpenLocalStore(ctx context.Context, cfg *config.Config) (localstore.Store, error) {
	switch cfg.LocalStoreDriver {
	case config.LocalStoreDriverFile:
		return localstore.NewFileStore(cfg.LocalStoreDir)
	case config.LocalStoreDriverRedis:
		return localstore.NewRedisStore(ctx, cfg.RedisAddr, cfg.RedisPrefix)
	default:
		return nil, fmt.Errorf("unknown LOCAL_STORE_DRIVER %q", cfg.LocalStoreDriver)
	}
}

func openDB(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (*sql.DB, error) {
	if cfg.DBConnectionString == "" {
		return nil, errors.New("DB_CONNECTION_STRING is required when STORAGE_BACKEND=postgres")
	}
	logger.Info().Str("db_port", getPortFromDSN(cfg.DBConnectionString)).Msg("Opening database")

	db, err := sql.Open("pgx", prepareDSN(cfg.DBConnectionString, cfg.IsDevelopment()))
	if err != nil {
		return nil, fmt.Errorf("opening DB connection: %w", err)
	}
	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging DB: %w", err)
	}
	logger.Info().Msg("Database connection successful")

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxIdleTime(5 * time.Minute)
	return db, nil
}

// prepareDSN disables SSL for local development and, elsewhere, forces the
// simple query protocol so the app works behind a transaction pooler.
func prepareDSN(dsn string, development bool) string {
	isURL := strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://")
	appendParam := func(param string) {
		separator := " "
		if isURL {
			separator = "?"
			if strings.Contains(dsn, "?") {
				separator = "&"
			}
		}
		dsn += separator + param
	}

	if development && !strings.Contains(dsn, "sslmode") {
		appendParam("sslmode=disable")
	}
	if !development && !strings.Contains(dsn, "prefer_simple_protocol") {
		appendParam("prefer_simple_protocol=true")
	}
	return dsn
}

// getPortFromDSN extracts the port from a URL-style DSN for logging.
func getPortFromDSN(dsn string) string {
	parts := strings.Split(dsn, ":")
	for i, part := range parts {
		if strings.Contains(part, "@") && len(parts) > i+1 {
			portAndDB := strings.Split(parts[i+1], "/")
			return portAndDB[0]
		}
	}
	return "not_found"
}

func newS3Client(ctx context.Context, cfg *config.Config) (*s3.Client, error) {
	s3Config, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.S3Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(cfg.S3AccessKey, cfg.S3SecretKey, "")),
		awsconfig.WithAPIOptions([]func(*awsmiddleware.Stack) error{removeDisableGzip()}),
	)
	if err != nil {
		return nil, err
	}
	return s3.NewFromConfig(s3Config, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(cfg.S3URL)
		o.UsePathStyle = true
	}), nil
}

// removeDisableGzip works around S3 signature errors with some
// S3-compatible services. See https://github.com/supabase/storage/issues/577
func removeDisableGzip() func(*awsmiddleware.Stack) error {
	return func(stack *awsmiddleware.Stack) error {
		if _, ok := stack.Finalize.Get("DisableAcceptEncodingGzip"); ok {
			_, err := stack.Finalize.Remove("DisableAcceptEncodingGzip")
			return err
		}
		return nil
	}
}
