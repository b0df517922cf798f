package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"app/internal/model"
)

// CourseRepository defines the interface for interacting with course data.
type CourseRepository interface {
	CreateCourse(ctx context.Context, c *model.Course) error
	GetCourseByID(ctx context.Context, courseID string) (*model.Course, error)
	GetCourseByCode(ctx context.Context, code string) (*model.Course, error)
	ListCourses(ctx context.Context) ([]model.Course, error)
	UpdateThumbnail(ctx context.Context, courseID, thumbnailPath string) error
	DeleteCourse(ctx context.Context, courseID string) error
}

type courseRepo struct {
	db *sql.DB
}

// NewCourseRepo creates a new CourseRepository.
func NewCourseRepo(db *sql.DB) CourseRepository {
	return &courseRepo{db: db}
}

const courseColumns = `id, name, code, description, level, thumbnail_path, created_by, created_at, updated_at`

func scanCourse(row *sql.Row, c *model.Course) error {
	return row.Scan(&c.ID, &c.Name, &c.Code, &c.Description, &c.Level, &c.ThumbnailPath, &c.CreatedBy, &c.CreatedAt, &c.UpdatedAt)
}

func (r *courseRepo) CreateCourse(ctx context.Context, c *model.Course) error {
	query := `
		INSERT INTO courses (name, code, description, level, thumbnail_path, created_by)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + courseColumns
	row := r.db.QueryRowContext(ctx, query, c.Name, c.Code, c.Description, c.Level, c.ThumbnailPath, c.CreatedBy)
	if err := scanCourse(row, c); err != nil {
		return fmt.Errorf("failed to insert course: %w", err)
	}
	return nil
}

func (r *courseRepo) GetCourseByID(ctx context.Context, courseID string) (*model.Course, error) {
	query := `SELECT ` + courseColumns + ` FROM courses WHERE id = $1`
	var c model.Course
	if err := scanCourse(r.db.QueryRowContext(ctx, query, courseID), &c); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to scan course row: %w", err)
	}
	return &c, nil
}

func (r *courseRepo) GetCourseByCode(ctx context.Context, code string) (*model.Course, error) {
	query := `SELECT ` + courseColumns + ` FROM courses WHERE code = $1`
	var c model.Course
	if err := scanCourse(r.db.QueryRowContext(ctx, query, code), &c); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to scan course row: %w", err)
	}
	return &c, nil
}

func (r *courseRepo) ListCourses(ctx context.Context) ([]model.Course, error) {
	query := `SELECT ` + courseColumns + ` FROM courses ORDER BY name ASC`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query courses: %w", err)
	}
	defer rows.Close()

	courses := []model.Course{}
	for rows.Next() {
		var c model.Course
		if err := rows.Scan(&c.ID, &c.Name, &c.Code, &c.Description, &c.Level, &c.ThumbnailPath, &c.CreatedBy, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan course row: %w", err)
		}
		courses = append(courses, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return courses, nil
}

func (r *courseRepo) UpdateThumbnail(ctx context.Context, courseID, thumbnailPath string) error {
	query := `UPDATE courses SET thumbnail_path = $1, updated_at = NOW() WHERE id = $2`
	if _, err := r.db.ExecContext(ctx, query, thumbnailPath, courseID); err != nil {
		return fmt.Errorf("failed to update course thumbnail: %w", err)
	}
	return nil
}

func (r *courseRepo) DeleteCourse(ctx context.Context, courseID string) error {
	query := `DELETE FROM courses WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, courseID); err != nil {
		return fmt.Errorf("failed to delete course: %w", err)
	}
	return nil
}
