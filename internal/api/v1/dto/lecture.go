package dto

import "time"

// LectureCreateDTO is the request body for scheduling a lecture.
type LectureCreateDTO struct {
	CourseID     string    `json:"courseId" validate:"required"`
	InstructorID string    `json:"instructorId" validate:"required"`
	Title        string    `json:"title" validate:"required"`
	Description  string    `json:"description"`
	StartTime    time.Time `json:"startTime" validate:"required"`
}

// CourseSummaryDTO embeds course identification in lecture responses.
type CourseSummaryDTO struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Code string `json:"code"`
}

// InstructorSummaryDTO embeds instructor identification in lecture
// responses.
type InstructorSummaryDTO struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// LectureResponseDTO is returned for a single lecture, enriched with the
// referenced course and instructor.
type LectureResponseDTO struct {
	ID          string               `json:"id"`
	Title       string               `json:"title"`
	Description string               `json:"description,omitempty"`
	StartTime   time.Time            `json:"startTime"`
	Course      CourseSummaryDTO     `json:"course"`
	Instructor  InstructorSummaryDTO `json:"instructor"`
	CreatedBy   string               `json:"createdBy"`
	CreatedAt   time.Time            `json:"createdAt"`
	UpdatedAt   time.Time            `json:"updatedAt"`
}
