package model

import "time"

// Lecture is a single scheduled teaching session tied to one course and one
// instructor. Lectures carry a start time but no end time or duration, so
// scheduling is day-granular: an instructor holds at most one lecture per
// calendar day.
type Lecture struct {
	ID           string    `db:"id" json:"id"`
	CourseID     string    `db:"course_id" json:"course_id"`
	InstructorID string    `db:"instructor_id" json:"instructor_id"`
	Title        string    `db:"title" json:"title"`
	Description  string    `db:"description" json:"description"`
	StartTime    time.Time `db:"start_time" json:"start_time"`
	CreatedBy    string    `db:"created_by" json:"created_by"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// LectureDetail is a lecture enriched with summaries of its referenced
// course and instructor, as returned by listing and creation endpoints.
type LectureDetail struct {
	Lecture
	Course     CourseSummary `json:"course"`
	Instructor UserSummary   `json:"instructor"`
}

// DayOf truncates t to local midnight, the lower bound of the calendar day
// used for conflict detection.
func DayOf(t time.Time) time.Time {
	t = t.Local()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
