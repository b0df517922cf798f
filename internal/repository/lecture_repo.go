package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"app/internal/model"
)

// LectureRepository persists scheduled lectures. Lectures are immutable
// after creation; DeleteLecturesByCourse exists only for course-cascade
// cleanup.
type LectureRepository interface {
	// CreateLecture inserts a lecture. The lectures table carries a unique
	// (instructor_id, start_day) index, so a concurrent same-day insert for
	// the same instructor surfaces as a unique violation rather than a
	// silent double-booking.
	CreateLecture(ctx context.Context, l *model.Lecture) error
	GetLectureDetailByID(ctx context.Context, lectureID string) (*model.LectureDetail, error)
	ListLectures(ctx context.Context) ([]model.LectureDetail, error)
	ListLecturesByInstructor(ctx context.Context, instructorID string) ([]model.LectureDetail, error)
	ListLecturesByCourse(ctx context.Context, courseID string) ([]model.LectureDetail, error)
	// ExistsForInstructorBetween reports whether the instructor has any
	// lecture with start_time in [from, to), excluding excludeID when
	// non-empty.
	ExistsForInstructorBetween(ctx context.Context, instructorID string, from, to time.Time, excludeID string) (bool, error)
	DeleteLecturesByCourse(ctx context.Context, courseID string) error
}

type lectureRepo struct {
	db *sql.DB
}

func NewLectureRepo(db *sql.DB) LectureRepository {
	return &lectureRepo{db: db}
}

// detailQuery joins the course and instructor summaries every listing
// endpoint returns alongside the lecture itself.
const detailQuery = `
	SELECT l.id, l.course_id, l.instructor_id, l.title, l.description, l.start_time,
	       l.created_by, l.created_at, l.updated_at,
	       c.name, c.code, u.name, u.email
	FROM lectures l
	JOIN courses c ON c.id = l.course_id
	JOIN users u ON u.id = l.instructor_id
`

func scanLectureDetail(scan func(dest ...any) error) (*model.LectureDetail, error) {
	var d model.LectureDetail
	err := scan(
		&d.ID, &d.CourseID, &d.InstructorID, &d.Title, &d.Description, &d.StartTime,
		&d.CreatedBy, &d.CreatedAt, &d.UpdatedAt,
		&d.Course.Name, &d.Course.Code, &d.Instructor.Name, &d.Instructor.Email,
	)
	if err != nil {
		return nil, err
	}
	d.Course.ID = d.CourseID
	d.Instructor.ID = d.InstructorID
	return &d, nil
}

func (r *lectureRepo) CreateLecture(ctx context.Context, l *model.Lecture) error {
	query := `
		INSERT INTO lectures (course_id, instructor_id, title, description, start_time, start_day, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at
	`
	row := r.db.QueryRowContext(ctx, query,
		l.CourseID, l.InstructorID, l.Title, l.Description, l.StartTime, model.DayOf(l.StartTime), l.CreatedBy,
	)
	if err := row.Scan(&l.ID, &l.CreatedAt, &l.UpdatedAt); err != nil {
		return fmt.Errorf("failed to insert lecture: %w", err)
	}
	return nil
}

func (r *lectureRepo) GetLectureDetailByID(ctx context.Context, lectureID string) (*model.LectureDetail, error) {
	row := r.db.QueryRowContext(ctx, detailQuery+` WHERE l.id = $1`, lectureID)
	d, err := scanLectureDetail(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to scan lecture row: %w", err)
	}
	return d, nil
}

func (r *lectureRepo) listDetails(ctx context.Context, query string, args ...any) ([]model.LectureDetail, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query lectures: %w", err)
	}
	defer rows.Close()

	lectures := []model.LectureDetail{}
	for rows.Next() {
		d, err := scanLectureDetail(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("failed to scan lecture row: %w", err)
		}
		lectures = append(lectures, *d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return lectures, nil
}

func (r *lectureRepo) ListLectures(ctx context.Context) ([]model.LectureDetail, error) {
	return r.listDetails(ctx, detailQuery+` ORDER BY l.start_time ASC`)
}

func (r *lectureRepo) ListLecturesByInstructor(ctx context.Context, instructorID string) ([]model.LectureDetail, error) {
	return r.listDetails(ctx, detailQuery+` WHERE l.instructor_id = $1 ORDER BY l.start_time ASC`, instructorID)
}

func (r *lectureRepo) ListLecturesByCourse(ctx context.Context, courseID string) ([]model.LectureDetail, error) {
	return r.listDetails(ctx, detailQuery+` WHERE l.course_id = $1 ORDER BY l.start_time ASC`, courseID)
}

func (r *lectureRepo) ExistsForInstructorBetween(ctx context.Context, instructorID string, from, to time.Time, excludeID string) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM lectures
			WHERE instructor_id = $1
			  AND start_time >= $2 AND start_time < $3
			  AND ($4::uuid IS NULL OR id <> $4::uuid)
		)
	`
	var exclude any
	if excludeID != "" {
		exclude = excludeID
	}
	var exists bool
	if err := r.db.QueryRowContext(ctx, query, instructorID, from, to, exclude).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to query lectures for conflict check: %w", err)
	}
	return exists, nil
}

func (r *lectureRepo) DeleteLecturesByCourse(ctx context.Context, courseID string) error {
	query := `DELETE FROM lectures WHERE course_id = $1`
	if _, err := r.db.ExecContext(ctx, query, courseID); err != nil {
		return fmt.Errorf("failed to delete lectures for course: %w", err)
	}
	return nil
}
