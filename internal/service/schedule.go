package service

import (
	"context"
	"time"

	"app/internal/apperr"
	"app/internal/model"
	"app/internal/repository"
)

// ConflictChecker decides whether an instructor already has a lecture on the
// same calendar day as a proposed start time.
//
// The check is day-granular, not interval-granular: lectures carry no end
// time, so two lectures at 09:00 and 17:00 on the same day conflict even
// though neither overlaps in duration. Day boundaries are local midnight to
// the next local midnight.
type ConflictChecker struct {
	lectures repository.LectureRepository
}

func NewConflictChecker(lectures repository.LectureRepository) *ConflictChecker {
	return &ConflictChecker{lectures: lectures}
}

// HasConflict reports whether the instructor has any other lecture on the
// calendar day of start. excludeLectureID, when non-empty, is ignored by the
// check; it exists to support a future update path. Read-only.
func (c *ConflictChecker) HasConflict(ctx context.Context, instructorID string, start time.Time, excludeLectureID string) (bool, error) {
	dayStart := model.DayOf(start)
	dayEnd := dayStart.AddDate(0, 0, 1)

	exists, err := c.lectures.ExistsForInstructorBetween(ctx, instructorID, dayStart, dayEnd, excludeLectureID)
	if err != nil {
		return false, apperr.Wrap(apperr.Internal, "failed to check scheduling conflicts", err)
	}
	return exists, nil
}
