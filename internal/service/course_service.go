package service

import (
	"context"
	"fmt"
	"time"

	"app/internal/apperr"
	"app/internal/model"
	"app/internal/repository"
	"app/internal/storage"

	"github.com/rs/zerolog"
)

// CourseService covers course CRUD, thumbnail upload URLs and enrollment
// batches.
type CourseService interface {
	CreateCourse(ctx context.Context, c *model.Course) (*model.Course, error)
	GetCourseByID(ctx context.Context, courseID string) (*model.Course, error)
	ListCourses(ctx context.Context) ([]model.Course, error)
	DeleteCourse(ctx context.Context, courseID string) error
	// ThumbnailUploadURL returns a presigned PUT URL for the course's
	// thumbnail and records the storage path on the course.
	ThumbnailUploadURL(ctx context.Context, courseID string) (string, error)

	AddBatch(ctx context.Context, courseID, name string, startDate, endDate time.Time) (*model.Batch, error)
	ListBatches(ctx context.Context, courseID string) ([]model.Batch, error)
	GetBatch(ctx context.Context, courseID, batchID string) (*model.Batch, error)
}

type courseService struct {
	repo         repository.CourseRepository
	batchRepo    repository.BatchRepository
	lectureRepo  repository.LectureRepository
	store        storage.ObjectStore
	courseLogger zerolog.Logger
}

// NewCourseService creates a new CourseService. store may be nil, in which
// case thumbnail uploads are unavailable.
func NewCourseService(
	repo repository.CourseRepository,
	batchRepo repository.BatchRepository,
	lectureRepo repository.LectureRepository,
	store storage.ObjectStore,
	logger zerolog.Logger,
) CourseService {
	return &courseService{
		repo:         repo,
		batchRepo:    batchRepo,
		lectureRepo:  lectureRepo,
		store:        store,
		courseLogger: logger.With().Str("service", "CourseService").Logger(),
	}
}

func (s *courseService) CreateCourse(ctx context.Context, c *model.Course) (*model.Course, error) {
	if c.Name == "" || c.Code == "" || c.Description == "" {
		return nil, apperr.New(apperr.Invalid, "All fields are required")
	}
	if c.Level == "" {
		c.Level = model.LevelEasy
	}
	switch c.Level {
	case model.LevelEasy, model.LevelMedium, model.LevelHard:
	default:
		return nil, apperr.New(apperr.Invalid, "Level must be easy, medium or hard")
	}

	existing, err := s.repo.GetCourseByCode(ctx, c.Code)
	if err != nil {
		s.courseLogger.Error().Err(err).Str("code", c.Code).Msg("Failed to look up course by code")
		return nil, apperr.Wrap(apperr.Internal, "failed to look up course", err)
	}
	if existing != nil {
		return nil, apperr.New(apperr.Conflict, "Course with this code already exists")
	}

	if err := s.repo.CreateCourse(ctx, c); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, apperr.New(apperr.Conflict, "Course with this code already exists")
		}
		s.courseLogger.Error().Err(err).Str("code", c.Code).Msg("Failed to create course")
		return nil, apperr.Wrap(apperr.Internal, "failed to create course", err)
	}
	return c, nil
}

func (s *courseService) GetCourseByID(ctx context.Context, courseID string) (*model.Course, error) {
	course, err := s.repo.GetCourseByID(ctx, courseID)
	if err != nil {
		s.courseLogger.Error().Err(err).Str("course_id", courseID).Msg("Failed to get course by ID")
		return nil, apperr.Wrap(apperr.Internal, "failed to look up course", err)
	}
	if course == nil {
		return nil, apperr.New(apperr.NotFound, "Course not found")
	}
	return course, nil
}

func (s *courseService) ListCourses(ctx context.Context) ([]model.Course, error) {
	courses, err := s.repo.ListCourses(ctx)
	if err != nil {
		s.courseLogger.Error().Err(err).Msg("Failed to list courses")
		return nil, apperr.Wrap(apperr.Internal, "failed to list courses", err)
	}
	return courses, nil
}

// DeleteCourse removes a course together with its lectures. The thumbnail
// object is deleted best-effort; a storage failure does not block the
// database cleanup.
func (s *courseService) DeleteCourse(ctx context.Context, courseID string) error {
	course, err := s.GetCourseByID(ctx, courseID)
	if err != nil {
		return err
	}

	if course.ThumbnailPath != "" && s.store != nil {
		if err := s.store.Delete(ctx, course.ThumbnailPath); err != nil {
			s.courseLogger.Error().Err(err).Str("course_id", courseID).Msg("Failed to delete thumbnail object")
		}
	}

	if err := s.lectureRepo.DeleteLecturesByCourse(ctx, courseID); err != nil {
		s.courseLogger.Error().Err(err).Str("course_id", courseID).Msg("Failed to delete lectures for course")
		return apperr.Wrap(apperr.Internal, "failed to delete course lectures", err)
	}
	if err := s.repo.DeleteCourse(ctx, courseID); err != nil {
		s.courseLogger.Error().Err(err).Str("course_id", courseID).Msg("Failed to delete course record")
		return apperr.Wrap(apperr.Internal, "failed to delete course", err)
	}
	return nil
}

func (s *courseService) ThumbnailUploadURL(ctx context.Context, courseID string) (string, error) {
	if s.store == nil {
		return "", apperr.New(apperr.Internal, "object storage is not configured")
	}
	if _, err := s.GetCourseByID(ctx, courseID); err != nil {
		return "", err
	}

	key := fmt.Sprintf("courses/%s/thumbnail", courseID)
	url, err := s.store.PresignPut(ctx, key)
	if err != nil {
		s.courseLogger.Error().Err(err).Str("course_id", courseID).Msg("Failed to presign thumbnail upload")
		return "", apperr.Wrap(apperr.Internal, "failed to generate upload URL", err)
	}
	if err := s.repo.UpdateThumbnail(ctx, courseID, key); err != nil {
		s.courseLogger.Error().Err(err).Str("course_id", courseID).Msg("Failed to record thumbnail path")
		return "", apperr.Wrap(apperr.Internal, "failed to record thumbnail path", err)
	}
	return url, nil
}

func (s *courseService) AddBatch(ctx context.Context, courseID, name string, startDate, endDate time.Time) (*model.Batch, error) {
	if name == "" || startDate.IsZero() || endDate.IsZero() {
		return nil, apperr.New(apperr.Invalid, "Name, start date, and end date are required")
	}
	if !startDate.Before(endDate) {
		return nil, apperr.New(apperr.Invalid, "End date must be after start date")
	}
	if _, err := s.GetCourseByID(ctx, courseID); err != nil {
		return nil, err
	}

	b := &model.Batch{CourseID: courseID, Name: name, StartDate: startDate, EndDate: endDate}
	if err := s.batchRepo.CreateBatch(ctx, b); err != nil {
		s.courseLogger.Error().Err(err).Str("course_id", courseID).Msg("Failed to create batch")
		return nil, apperr.Wrap(apperr.Internal, "failed to create batch", err)
	}
	return b, nil
}

func (s *courseService) ListBatches(ctx context.Context, courseID string) ([]model.Batch, error) {
	if _, err := s.GetCourseByID(ctx, courseID); err != nil {
		return nil, err
	}
	batches, err := s.batchRepo.ListBatchesByCourse(ctx, courseID)
	if err != nil {
		s.courseLogger.Error().Err(err).Str("course_id", courseID).Msg("Failed to list batches")
		return nil, apperr.Wrap(apperr.Internal, "failed to list batches", err)
	}
	return batches, nil
}

func (s *courseService) GetBatch(ctx context.Context, courseID, batchID string) (*model.Batch, error) {
	if _, err := s.GetCourseByID(ctx, courseID); err != nil {
		return nil, err
	}
	batch, err := s.batchRepo.GetBatchByID(ctx, courseID, batchID)
	if err != nil {
		s.courseLogger.Error().Err(err).Str("batch_id", batchID).Msg("Failed to get batch")
		return nil, apperr.Wrap(apperr.Internal, "failed to look up batch", err)
	}
	if batch == nil {
		return nil, apperr.New(apperr.NotFound, "Batch not found")
	}
	return batch, nil
}
