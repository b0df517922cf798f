package dto

import "time"

// CourseCreateDTO is the request body for course creation.
type CourseCreateDTO struct {
	Name        string `json:"name" validate:"required"`
	Code        string `json:"code" validate:"required"`
	Description string `json:"description" validate:"required"`
	Level       string `json:"level" validate:"omitempty,oneof=easy medium hard"`
}

// CourseResponseDTO is returned for a single course.
type CourseResponseDTO struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Code          string    `json:"code"`
	Description   string    `json:"description"`
	Level         string    `json:"level"`
	ThumbnailPath string    `json:"thumbnailPath,omitempty"`
	CreatedBy     string    `json:"createdBy"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// ThumbnailUploadResponseDTO carries the presigned PUT URL for a course
// thumbnail upload.
type ThumbnailUploadResponseDTO struct {
	UploadURL string `json:"uploadUrl"`
}
