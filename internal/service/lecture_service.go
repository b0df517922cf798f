package service

import (
	"context"
	"encoding/json"
	"time"

	"app/internal/apperr"
	"app/internal/model"
	"app/internal/pubsub"
	"app/internal/repository"

	"github.com/rs/zerolog"
)

// CreateLectureInput carries the fields of a lecture-creation request along
// with the identity of the acting admin.
type CreateLectureInput struct {
	CourseID     string
	InstructorID string
	Title        string
	Description  string
	StartTime    time.Time
	CreatedBy    string
}

// LectureService orchestrates lecture scheduling: reference validation, the
// same-day conflict rule, persistence and enriched reads.
type LectureService interface {
	CreateLecture(ctx context.Context, in CreateLectureInput) (*model.LectureDetail, error)
	ListAllLectures(ctx context.Context) ([]model.LectureDetail, error)
	ListLecturesByInstructor(ctx context.Context, instructorID string) ([]model.LectureDetail, error)
	// ListLecturesByCourse fails with a not-found error when the course has
	// no lectures. The empty result set is treated as an error for this
	// filter only; the other filters return empty lists.
	ListLecturesByCourse(ctx context.Context, courseID string) ([]model.LectureDetail, error)
	ListMyLectures(ctx context.Context, instructorID string) ([]model.LectureDetail, error)
}

type lectureService struct {
	repo          repository.LectureRepository
	courseRepo    repository.CourseRepository
	userRepo      repository.UserRepository
	checker       *ConflictChecker
	publisher     pubsub.Publisher
	eventTopic    string
	lectureLogger zerolog.Logger
}

// NewLectureService creates a new LectureService. publisher may be nil, in
// which case no scheduling events are emitted.
func NewLectureService(
	repo repository.LectureRepository,
	courseRepo repository.CourseRepository,
	userRepo repository.UserRepository,
	checker *ConflictChecker,
	publisher pubsub.Publisher,
	eventTopic string,
	logger zerolog.Logger,
) LectureService {
	return &lectureService{
		repo:          repo,
		courseRepo:    courseRepo,
		userRepo:      userRepo,
		checker:       checker,
		publisher:     publisher,
		eventTopic:    eventTopic,
		lectureLogger: logger.With().Str("service", "LectureService").Logger(),
	}
}

// CreateLecture schedules a lecture for an instructor. The instructor must
// hold the instructor role and must not already have a lecture on the same
// calendar day.
func (s *lectureService) CreateLecture(ctx context.Context, in CreateLectureInput) (*model.LectureDetail, error) {
	if in.CourseID == "" || in.InstructorID == "" || in.Title == "" || in.StartTime.IsZero() {
		return nil, apperr.New(apperr.Invalid, "Required fields missing")
	}

	course, err := s.courseRepo.GetCourseByID(ctx, in.CourseID)
	if err != nil {
		s.lectureLogger.Error().Err(err).Str("course_id", in.CourseID).Msg("Failed to look up course")
		return nil, apperr.Wrap(apperr.Internal, "failed to look up course", err)
	}
	if course == nil {
		return nil, apperr.New(apperr.NotFound, "Course not found")
	}

	// Role gating is intentional: a valid user ID belonging to an admin is
	// rejected the same way as an unknown ID.
	instructor, err := s.userRepo.GetUserByIDAndRole(ctx, in.InstructorID, model.RoleInstructor)
	if err != nil {
		s.lectureLogger.Error().Err(err).Str("instructor_id", in.InstructorID).Msg("Failed to look up instructor")
		return nil, apperr.Wrap(apperr.Internal, "failed to look up instructor", err)
	}
	if instructor == nil {
		return nil, apperr.New(apperr.NotFound, "Instructor not found")
	}

	conflict, err := s.checker.HasConflict(ctx, in.InstructorID, in.StartTime, "")
	if err != nil {
		return nil, err
	}
	if conflict {
		return nil, apperr.New(apperr.Conflict, "Scheduling conflict - instructor already has a lecture on this date")
	}

	lecture := &model.Lecture{
		CourseID:     in.CourseID,
		InstructorID: in.InstructorID,
		Title:        in.Title,
		Description:  in.Description,
		StartTime:    in.StartTime,
		CreatedBy:    in.CreatedBy,
	}
	if err := s.repo.CreateLecture(ctx, lecture); err != nil {
		// The unique (instructor_id, start_day) index closes the window
		// between the conflict check and the insert: a concurrent same-day
		// insert loses here instead of double-booking.
		if repository.IsUniqueViolation(err) {
			return nil, apperr.New(apperr.Conflict, "Scheduling conflict - instructor already has a lecture on this date")
		}
		s.lectureLogger.Error().Err(err).Str("instructor_id", in.InstructorID).Msg("Failed to insert lecture")
		return nil, apperr.Wrap(apperr.Internal, "failed to create lecture", err)
	}

	detail, err := s.repo.GetLectureDetailByID(ctx, lecture.ID)
	if err != nil {
		s.lectureLogger.Error().Err(err).Str("lecture_id", lecture.ID).Msg("Failed to load created lecture")
		return nil, apperr.Wrap(apperr.Internal, "failed to load created lecture", err)
	}
	if detail == nil {
		return nil, apperr.New(apperr.Internal, "created lecture is missing")
	}

	s.publishScheduled(ctx, detail)
	return detail, nil
}

// publishScheduled emits a lecture.scheduled event. Failures are logged and
// swallowed; the lecture is already committed.
func (s *lectureService) publishScheduled(ctx context.Context, d *model.LectureDetail) {
	if s.publisher == nil {
		return
	}
	payload := struct {
		Event        string    `json:"event"`
		LectureID    string    `json:"lecture_id"`
		CourseID     string    `json:"course_id"`
		InstructorID string    `json:"instructor_id"`
		StartTime    time.Time `json:"start_time"`
	}{
		Event:        "lecture.scheduled",
		LectureID:    d.ID,
		CourseID:     d.CourseID,
		InstructorID: d.InstructorID,
		StartTime:    d.StartTime,
	}
	data, err := json.Marshal(payload)
	if err != nil {
		s.lectureLogger.Error().Err(err).Str("lecture_id", d.ID).Msg("Failed to marshal scheduling event")
		return
	}
	if _, err := s.publisher.Publish(ctx, s.eventTopic, data); err != nil {
		s.lectureLogger.Error().Err(err).Str("topic", s.eventTopic).Msg("Failed to publish scheduling event")
	}
}

func (s *lectureService) ListAllLectures(ctx context.Context) ([]model.LectureDetail, error) {
	lectures, err := s.repo.ListLectures(ctx)
	if err != nil {
		s.lectureLogger.Error().Err(err).Msg("Failed to list lectures")
		return nil, apperr.Wrap(apperr.Internal, "failed to list lectures", err)
	}
	return lectures, nil
}

func (s *lectureService) ListLecturesByInstructor(ctx context.Context, instructorID string) ([]model.LectureDetail, error) {
	lectures, err := s.repo.ListLecturesByInstructor(ctx, instructorID)
	if err != nil {
		s.lectureLogger.Error().Err(err).Str("instructor_id", instructorID).Msg("Failed to list lectures by instructor")
		return nil, apperr.Wrap(apperr.Internal, "failed to list lectures", err)
	}
	return lectures, nil
}

func (s *lectureService) ListLecturesByCourse(ctx context.Context, courseID string) ([]model.LectureDetail, error) {
	lectures, err := s.repo.ListLecturesByCourse(ctx, courseID)
	if err != nil {
		s.lectureLogger.Error().Err(err).Str("course_id", courseID).Msg("Failed to list lectures by course")
		return nil, apperr.Wrap(apperr.Internal, "failed to list lectures", err)
	}
	if len(lectures) == 0 {
		return nil, apperr.New(apperr.NotFound, "No lectures found for this course")
	}
	return lectures, nil
}

func (s *lectureService) ListMyLectures(ctx context.Context, instructorID string) ([]model.LectureDetail, error) {
	lectures, err := s.repo.ListLecturesByInstructor(ctx, instructorID)
	if err != nil {
		s.lectureLogger.Error().Err(err).Str("instructor_id", instructorID).Msg("Failed to list caller lectures")
		return nil, apperr.Wrap(apperr.Internal, "failed to list lectures", err)
	}
	return lectures, nil
}
