package router

import (
	"context"
	"database/sql"
	"net/http"
	"strings"
	"time"

	"app/internal/api/v1/handler"
	"app/internal/config"
	"app/internal/middleware"
	"app/internal/pubsub"
	"app/internal/repository"
	"app/internal/service"
	"app/internal/storage"

	"github.com/go-playground/validator/v10"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/rs/cors"
	"github.com/rs/zerolog"
)

// New builds the HTTP handler tree and its dependencies. The returned *sql.DB
// is owned by the caller and must be closed on shutdown.
func New(cfg *config.Config, logger zerolog.Logger) (http.Handler, *sql.DB, error) {
	db, err := openDB(cfg)
	if err != nil {
		return nil, nil, err
	}
	logger.Info().Msg("Database connection successful")

	// Object storage is optional; without a bucket the thumbnail upload
	// endpoint reports storage as unconfigured.
	var store storage.ObjectStore
	if cfg.S3Bucket != "" {
		s3Store, err := storage.NewS3Store(context.Background(), cfg)
		if err != nil {
			db.Close()
			return nil, nil, err
		}
		store = s3Store
		logger.Info().Str("bucket", cfg.S3Bucket).Msg("Object storage initialized")
	}

	// Pub/Sub is optional; without a project ID no scheduling events are
	// published.
	var publisher pubsub.Publisher
	if cfg.GCPProjectID != "" {
		p, err := pubsub.NewPublisher(context.Background(), cfg.GCPProjectID)
		if err != nil {
			db.Close()
			return nil, nil, err
		}
		publisher = p
		logger.Info().Str("project", cfg.GCPProjectID).Msg("Pub/Sub publisher initialized")
	}

	validate := validator.New(validator.WithRequiredStructEnabled())

	userRepo := repository.NewUserRepo(db)
	courseRepo := repository.NewCourseRepo(db)
	batchRepo := repository.NewBatchRepo(db)
	lectureRepo := repository.NewLectureRepo(db)

	checker := service.NewConflictChecker(lectureRepo)
	authSvc := service.NewAuthService(userRepo, cfg.JWTSecret, cfg.JWTExpiry(), logger)
	courseSvc := service.NewCourseService(courseRepo, batchRepo, lectureRepo, store, logger)
	lectureSvc := service.NewLectureService(lectureRepo, courseRepo, userRepo, checker, publisher, cfg.LectureEventTopic, logger)

	authHandler := handler.NewAuthHandler(authSvc, validate)
	courseHandler := handler.NewCourseHandler(courseSvc, validate)
	batchHandler := handler.NewBatchHandler(courseSvc, validate)
	lectureHandler := handler.NewLectureHandler(lectureSvc, validate)
	healthHandler := handler.NewHealthHandler(db)

	authMiddleware := middleware.AuthMiddleware(cfg.JWTSecret, logger)

	apiV1Mux := http.NewServeMux()
	authHandler.RegisterRoutes(apiV1Mux, authMiddleware)
	courseHandler.RegisterRoutes(apiV1Mux, authMiddleware)
	batchHandler.RegisterRoutes(apiV1Mux, authMiddleware)
	lectureHandler.RegisterRoutes(apiV1Mux, authMiddleware)

	mux := http.NewServeMux()
	mux.Handle("/v1/", http.StripPrefix("/v1", apiV1Mux))
	healthHandler.RegisterRoutes(mux)

	// Redirect /api/* to /v1/* for backward compatibility.
	mux.HandleFunc("/api/", func(w http.ResponseWriter, r *http.Request) {
		rest := strings.TrimPrefix(r.URL.Path, "/api/")
		http.Redirect(w, r, "/v1/"+rest, http.StatusMovedPermanently)
	})

	c := cors.New(cors.Options{
		AllowedOrigins:   []string{cfg.CORSOrigin},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	})

	return middleware.LoggerMiddleware(logger)(c.Handler(mux)), db, nil
}

// openDB opens the connection pool with environment-appropriate DSN tweaks:
// development disables SSL for local testing, and non-development forces the
// simple query protocol so transaction poolers like pgbouncer do not trip
// over server-side prepared statements.
func openDB(cfg *config.Config) (*sql.DB, error) {
	dsn := cfg.DBConnectionString
	if cfg.Environment == "development" && !strings.Contains(dsn, "sslmode") {
		dsn += dsnSeparator(dsn) + "sslmode=disable"
	}
	if cfg.Environment != "development" && !strings.Contains(dsn, "prefer_simple_protocol") {
		dsn += dsnSeparator(dsn) + "prefer_simple_protocol=true"
	}

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, err
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxIdleTime(5 * time.Minute)
	return db, nil
}

func dsnSeparator(dsn string) string {
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		if strings.Contains(dsn, "?") {
			return "&"
		}
		return "?"
	}
	return " "
}
