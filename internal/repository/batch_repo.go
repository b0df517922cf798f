package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"app/internal/model"
)

// BatchRepository manages the enrollment batches attached to a course.
type BatchRepository interface {
	CreateBatch(ctx context.Context, b *model.Batch) error
	GetBatchByID(ctx context.Context, courseID, batchID string) (*model.Batch, error)
	ListBatchesByCourse(ctx context.Context, courseID string) ([]model.Batch, error)
}

type batchRepo struct {
	db *sql.DB
}

func NewBatchRepo(db *sql.DB) BatchRepository {
	return &batchRepo{db: db}
}

const batchColumns = `id, course_id, name, start_date, end_date, created_at, updated_at`

func (r *batchRepo) CreateBatch(ctx context.Context, b *model.Batch) error {
	query := `
		INSERT INTO batches (course_id, name, start_date, end_date)
		VALUES ($1, $2, $3, $4)
		RETURNING ` + batchColumns
	row := r.db.QueryRowContext(ctx, query, b.CourseID, b.Name, b.StartDate, b.EndDate)
	if err := row.Scan(&b.ID, &b.CourseID, &b.Name, &b.StartDate, &b.EndDate, &b.CreatedAt, &b.UpdatedAt); err != nil {
		return fmt.Errorf("failed to insert batch: %w", err)
	}
	return nil
}

func (r *batchRepo) GetBatchByID(ctx context.Context, courseID, batchID string) (*model.Batch, error) {
	query := `SELECT ` + batchColumns + ` FROM batches WHERE id = $1 AND course_id = $2`
	var b model.Batch
	row := r.db.QueryRowContext(ctx, query, batchID, courseID)
	if err := row.Scan(&b.ID, &b.CourseID, &b.Name, &b.StartDate, &b.EndDate, &b.CreatedAt, &b.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to scan batch row: %w", err)
	}
	return &b, nil
}

func (r *batchRepo) ListBatchesByCourse(ctx context.Context, courseID string) ([]model.Batch, error) {
	query := `SELECT ` + batchColumns + ` FROM batches WHERE course_id = $1 ORDER BY start_date ASC`
	rows, err := r.db.QueryContext(ctx, query, courseID)
	if err != nil {
		return nil, fmt.Errorf("failed to query batches: %w", err)
	}
	defer rows.Close()

	batches := []model.Batch{}
	for rows.Next() {
		var b model.Batch
		if err := rows.Scan(&b.ID, &b.CourseID, &b.Name, &b.StartDate, &b.EndDate, &b.CreatedAt, &b.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan batch row: %w", err)
		}
		batches = append(batches, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return batches, nil
}
