package service

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"app/internal/apperr"
	"app/internal/model"

	"github.com/rs/zerolog"
)

func newLectureFixture() (*fakeStore, *fakePublisher, LectureService) {
	f := newFakeStore()
	pub := &fakePublisher{}
	svc := NewLectureService(f, f, f, NewConflictChecker(f), pub, "lecture_events", zerolog.Nop())
	return f, pub, svc
}

func TestCreateLecture(t *testing.T) {
	f, pub, svc := newLectureFixture()
	admin := f.addUser("Root", "root@example.com", model.RoleAdmin)
	instructor := f.addUser("Ada", "ada@example.com", model.RoleInstructor)
	course := f.addCourse("Algorithms", "CS101")

	start := time.Date(2026, 3, 10, 9, 0, 0, 0, time.Local)
	detail, err := svc.CreateLecture(context.Background(), CreateLectureInput{
		CourseID:     course.ID,
		InstructorID: instructor.ID,
		Title:        "Sorting",
		Description:  "Intro to sorting",
		StartTime:    start,
		CreatedBy:    admin.ID,
	})
	if err != nil {
		t.Fatalf("CreateLecture returned error: %v", err)
	}
	if detail.ID == "" {
		t.Fatal("expected a lecture ID")
	}
	if detail.Course.Code != "CS101" || detail.Instructor.Email != "ada@example.com" {
		t.Fatalf("detail not enriched: %+v", detail)
	}

	if len(pub.payloads) != 1 {
		t.Fatalf("expected 1 published event, got %d", len(pub.payloads))
	}
	var event struct {
		Event     string `json:"event"`
		LectureID string `json:"lecture_id"`
	}
	if err := json.Unmarshal(pub.payloads[0], &event); err != nil {
		t.Fatalf("event payload is not JSON: %v", err)
	}
	if event.Event != "lecture.scheduled" || event.LectureID != detail.ID {
		t.Fatalf("unexpected event: %+v", event)
	}
}

func TestCreateLectureMissingFields(t *testing.T) {
	_, _, svc := newLectureFixture()

	_, err := svc.CreateLecture(context.Background(), CreateLectureInput{Title: "No refs"})
	if apperr.KindOf(err) != apperr.Invalid {
		t.Fatalf("expected invalid, got %v", err)
	}
	if apperr.Message(err) != "Required fields missing" {
		t.Fatalf("unexpected message: %q", apperr.Message(err))
	}
}

func TestCreateLectureUnknownCourse(t *testing.T) {
	f, _, svc := newLectureFixture()
	instructor := f.addUser("Ada", "ada@example.com", model.RoleInstructor)

	_, err := svc.CreateLecture(context.Background(), CreateLectureInput{
		CourseID:     "b2f9a0cc-0000-0000-0000-000000000000",
		InstructorID: instructor.ID,
		Title:        "Orphan",
		StartTime:    time.Now(),
	})
	if apperr.KindOf(err) != apperr.NotFound {
		t.Fatalf("expected not found, got %v", err)
	}
	if apperr.Message(err) != "Course not found" {
		t.Fatalf("unexpected message: %q", apperr.Message(err))
	}
}

func TestCreateLectureRejectsAdminAsInstructor(t *testing.T) {
	f, _, svc := newLectureFixture()
	admin := f.addUser("Root", "root@example.com", model.RoleAdmin)
	course := f.addCourse("Algorithms", "CS101")

	// An existing user whose role is admin is indistinguishable from an
	// unknown ID for scheduling purposes.
	_, err := svc.CreateLecture(context.Background(), CreateLectureInput{
		CourseID:     course.ID,
		InstructorID: admin.ID,
		Title:        "Wrong role",
		StartTime:    time.Now(),
	})
	if apperr.KindOf(err) != apperr.NotFound {
		t.Fatalf("expected not found, got %v", err)
	}
	if apperr.Message(err) != "Instructor not found" {
		t.Fatalf("unexpected message: %q", apperr.Message(err))
	}
}

func TestCreateLectureSameDayConflict(t *testing.T) {
	f, pub, svc := newLectureFixture()
	instructor := f.addUser("Ada", "ada@example.com", model.RoleInstructor)
	course := f.addCourse("Algorithms", "CS101")
	other := f.addCourse("Databases", "CS201")
	seedLecture(f, instructor.ID, course.ID, time.Date(2026, 3, 10, 9, 0, 0, 0, time.Local))

	// Conflicts are per instructor across all courses.
	_, err := svc.CreateLecture(context.Background(), CreateLectureInput{
		CourseID:     other.ID,
		InstructorID: instructor.ID,
		Title:        "Evening session",
		StartTime:    time.Date(2026, 3, 10, 17, 0, 0, 0, time.Local),
	})
	if apperr.KindOf(err) != apperr.Conflict {
		t.Fatalf("expected conflict, got %v", err)
	}
	if apperr.Message(err) != "Scheduling conflict - instructor already has a lecture on this date" {
		t.Fatalf("unexpected message: %q", apperr.Message(err))
	}
	if len(pub.payloads) != 0 {
		t.Fatal("no event should be published for a rejected lecture")
	}
}

func TestCreateLectureRaceLosesToUniqueIndex(t *testing.T) {
	f, _, svc := newLectureFixture()
	instructor := f.addUser("Ada", "ada@example.com", model.RoleInstructor)
	course := f.addCourse("Algorithms", "CS101")
	seedLecture(f, instructor.ID, course.ID, time.Date(2026, 3, 10, 9, 0, 0, 0, time.Local))

	// Simulate a concurrent insert that committed after our pre-check read:
	// the check sees a free day but the insert hits the unique index.
	f.hideConflicts = true

	_, err := svc.CreateLecture(context.Background(), CreateLectureInput{
		CourseID:     course.ID,
		InstructorID: instructor.ID,
		Title:        "Racer",
		StartTime:    time.Date(2026, 3, 10, 14, 0, 0, 0, time.Local),
	})
	if apperr.KindOf(err) != apperr.Conflict {
		t.Fatalf("expected conflict from unique index, got %v", err)
	}
	if apperr.Message(err) != "Scheduling conflict - instructor already has a lecture on this date" {
		t.Fatalf("unexpected message: %q", apperr.Message(err))
	}
}

func TestListAllLecturesOrdered(t *testing.T) {
	f, _, svc := newLectureFixture()
	ada := f.addUser("Ada", "ada@example.com", model.RoleInstructor)
	grace := f.addUser("Grace", "grace@example.com", model.RoleInstructor)
	course := f.addCourse("Algorithms", "CS101")
	late := seedLecture(f, ada.ID, course.ID, time.Date(2026, 3, 12, 9, 0, 0, 0, time.Local))
	early := seedLecture(f, grace.ID, course.ID, time.Date(2026, 3, 10, 9, 0, 0, 0, time.Local))

	lectures, err := svc.ListAllLectures(context.Background())
	if err != nil {
		t.Fatalf("ListAllLectures returned error: %v", err)
	}
	if len(lectures) != 2 {
		t.Fatalf("expected 2 lectures, got %d", len(lectures))
	}
	if lectures[0].ID != early.ID || lectures[1].ID != late.ID {
		t.Fatal("lectures not ordered by start time ascending")
	}
}

func TestListLecturesByInstructorEmpty(t *testing.T) {
	f, _, svc := newLectureFixture()
	instructor := f.addUser("Ada", "ada@example.com", model.RoleInstructor)

	lectures, err := svc.ListLecturesByInstructor(context.Background(), instructor.ID)
	if err != nil {
		t.Fatalf("expected empty list, got error: %v", err)
	}
	if len(lectures) != 0 {
		t.Fatalf("expected 0 lectures, got %d", len(lectures))
	}
}

func TestListLecturesByCourseEmptyIsNotFound(t *testing.T) {
	f, _, svc := newLectureFixture()
	course := f.addCourse("Algorithms", "CS101")

	// The course filter alone treats an empty result as an error.
	_, err := svc.ListLecturesByCourse(context.Background(), course.ID)
	if apperr.KindOf(err) != apperr.NotFound {
		t.Fatalf("expected not found, got %v", err)
	}
	if apperr.Message(err) != "No lectures found for this course" {
		t.Fatalf("unexpected message: %q", apperr.Message(err))
	}
}

func TestCreateLecturePublishFailureIsSwallowed(t *testing.T) {
	f := newFakeStore()
	pub := &fakePublisher{err: context.DeadlineExceeded}
	svc := NewLectureService(f, f, f, NewConflictChecker(f), pub, "lecture_events", zerolog.Nop())
	instructor := f.addUser("Ada", "ada@example.com", model.RoleInstructor)
	course := f.addCourse("Algorithms", "CS101")

	detail, err := svc.CreateLecture(context.Background(), CreateLectureInput{
		CourseID:     course.ID,
		InstructorID: instructor.ID,
		Title:        "Sorting",
		StartTime:    time.Date(2026, 3, 10, 9, 0, 0, 0, time.Local),
	})
	if err != nil {
		t.Fatalf("publish failure must not fail the request: %v", err)
	}
	if detail == nil {
		t.Fatal("expected the created lecture back")
	}
}
