package dto

import "time"

// BatchCreateDTO is the request body for adding a batch to a course.
type BatchCreateDTO struct {
	Name      string    `json:"name" validate:"required"`
	StartDate time.Time `json:"startDate" validate:"required"`
	EndDate   time.Time `json:"endDate" validate:"required"`
}

// BatchResponseDTO is returned for a single batch.
type BatchResponseDTO struct {
	ID        string    `json:"id"`
	CourseID  string    `json:"courseId"`
	Name      string    `json:"name"`
	StartDate time.Time `json:"startDate"`
	EndDate   time.Time `json:"endDate"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
