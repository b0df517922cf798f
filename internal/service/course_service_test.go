package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"app/internal/apperr"
	"app/internal/model"
	"app/internal/storage"

	"github.com/rs/zerolog"
)

func newCourseFixture(store *fakeObjectStore) (*fakeStore, CourseService) {
	f := newFakeStore()
	var objStore storage.ObjectStore
	if store != nil {
		objStore = store
	}
	return f, NewCourseService(f, f, f, objStore, zerolog.Nop())
}

func TestCreateCourseDefaultsLevel(t *testing.T) {
	_, svc := newCourseFixture(nil)

	course, err := svc.CreateCourse(context.Background(), &model.Course{
		Name:        "Algorithms",
		Code:        "CS101",
		Description: "Sorting and searching",
	})
	if err != nil {
		t.Fatalf("CreateCourse returned error: %v", err)
	}
	if course.Level != model.LevelEasy {
		t.Fatalf("expected default level easy, got %q", course.Level)
	}
}

func TestCreateCourseRejectsBadLevel(t *testing.T) {
	_, svc := newCourseFixture(nil)

	_, err := svc.CreateCourse(context.Background(), &model.Course{
		Name:        "Algorithms",
		Code:        "CS101",
		Description: "d",
		Level:       "impossible",
	})
	if apperr.KindOf(err) != apperr.Invalid {
		t.Fatalf("expected invalid, got %v", err)
	}
}

func TestCreateCourseDuplicateCode(t *testing.T) {
	f, svc := newCourseFixture(nil)
	f.addCourse("Algorithms", "CS101")

	_, err := svc.CreateCourse(context.Background(), &model.Course{
		Name:        "Other Algorithms",
		Code:        "CS101",
		Description: "d",
	})
	if apperr.KindOf(err) != apperr.Conflict {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestDeleteCourseCascadesLectures(t *testing.T) {
	store := &fakeObjectStore{}
	f, svc := newCourseFixture(store)
	instructor := f.addUser("Ada", "ada@example.com", model.RoleInstructor)
	course := f.addCourse("Algorithms", "CS101")
	course.ThumbnailPath = "courses/" + course.ID + "/thumbnail"
	seedLecture(f, instructor.ID, course.ID, time.Date(2026, 3, 10, 9, 0, 0, 0, time.Local))

	if err := svc.DeleteCourse(context.Background(), course.ID); err != nil {
		t.Fatalf("DeleteCourse returned error: %v", err)
	}
	if len(f.lectures) != 0 {
		t.Fatal("lectures not deleted with the course")
	}
	if _, ok := f.courses[course.ID]; ok {
		t.Fatal("course record not deleted")
	}
	if len(store.deleted) != 1 || store.deleted[0] != course.ThumbnailPath {
		t.Fatalf("thumbnail object not deleted: %v", store.deleted)
	}
}

func TestThumbnailUploadURL(t *testing.T) {
	store := &fakeObjectStore{}
	f, svc := newCourseFixture(store)
	course := f.addCourse("Algorithms", "CS101")

	url, err := svc.ThumbnailUploadURL(context.Background(), course.ID)
	if err != nil {
		t.Fatalf("ThumbnailUploadURL returned error: %v", err)
	}
	if !strings.Contains(url, course.ID) {
		t.Fatalf("presigned URL does not reference the course key: %q", url)
	}
	if f.courses[course.ID].ThumbnailPath == "" {
		t.Fatal("thumbnail path not recorded on the course")
	}
}

func TestThumbnailUploadURLWithoutStore(t *testing.T) {
	f, svc := newCourseFixture(nil)
	course := f.addCourse("Algorithms", "CS101")

	_, err := svc.ThumbnailUploadURL(context.Background(), course.ID)
	if apperr.KindOf(err) != apperr.Internal {
		t.Fatalf("expected internal error without storage, got %v", err)
	}
}

func TestAddBatchValidatesDateOrder(t *testing.T) {
	f, svc := newCourseFixture(nil)
	course := f.addCourse("Algorithms", "CS101")

	start := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)
	_, err := svc.AddBatch(context.Background(), course.ID, "Spring", start, start)
	if apperr.KindOf(err) != apperr.Invalid {
		t.Fatalf("expected invalid for end == start, got %v", err)
	}
	if apperr.Message(err) != "End date must be after start date" {
		t.Fatalf("unexpected message: %q", apperr.Message(err))
	}

	batch, err := svc.AddBatch(context.Background(), course.ID, "Spring", start, start.AddDate(0, 2, 0))
	if err != nil {
		t.Fatalf("AddBatch returned error: %v", err)
	}
	if batch.ID == "" {
		t.Fatal("expected a batch ID")
	}
}

func TestGetBatchUnknownCourse(t *testing.T) {
	_, svc := newCourseFixture(nil)

	_, err := svc.GetBatch(context.Background(), "c0ffee00-0000-0000-0000-000000000000", "b0000000-0000-0000-0000-000000000000")
	if apperr.KindOf(err) != apperr.NotFound {
		t.Fatalf("expected not found, got %v", err)
	}
	if apperr.Message(err) != "Course not found" {
		t.Fatalf("unexpected message: %q", apperr.Message(err))
	}
}
