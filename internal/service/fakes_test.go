package service

import (
	"context"
	"sort"
	"time"

	"app/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
)

// fakeStore is an in-memory implementation of the repository interfaces used
// by the service tests. CreateLecture enforces the same unique
// (instructor_id, start_day) constraint the real table carries.
type fakeStore struct {
	users    map[string]*model.User
	courses  map[string]*model.Course
	batches  map[string]*model.Batch
	lectures map[string]*model.Lecture

	// When set, the conflict pre-check reports no conflict even if one
	// exists, simulating a concurrent insert racing past the check.
	hideConflicts bool
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		users:    map[string]*model.User{},
		courses:  map[string]*model.Course{},
		batches:  map[string]*model.Batch{},
		lectures: map[string]*model.Lecture{},
	}
}

func uniqueViolation() error {
	return &pgconn.PgError{Code: "23505", Message: "duplicate key value violates unique constraint"}
}

func (f *fakeStore) addUser(name, email, role string) *model.User {
	u := &model.User{ID: uuid.NewString(), Name: name, Email: email, Role: role}
	f.users[u.ID] = u
	return u
}

func (f *fakeStore) addCourse(name, code string) *model.Course {
	c := &model.Course{ID: uuid.NewString(), Name: name, Code: code, Description: "d", Level: model.LevelEasy}
	f.courses[c.ID] = c
	return c
}

// UserRepository

func (f *fakeStore) CreateUser(ctx context.Context, u *model.User) error {
	for _, other := range f.users {
		if other.Email == u.Email {
			return uniqueViolation()
		}
	}
	u.ID = uuid.NewString()
	f.users[u.ID] = u
	return nil
}

func (f *fakeStore) GetUserByID(ctx context.Context, id string) (*model.User, error) {
	return f.users[id], nil
}

func (f *fakeStore) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}

func (f *fakeStore) GetUserByIDAndRole(ctx context.Context, id, role string) (*model.User, error) {
	u := f.users[id]
	if u == nil || u.Role != role {
		return nil, nil
	}
	return u, nil
}

func (f *fakeStore) ListUsersByRole(ctx context.Context, role string) ([]model.User, error) {
	out := []model.User{}
	for _, u := range f.users {
		if u.Role == role {
			out = append(out, *u)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (f *fakeStore) UpdateUser(ctx context.Context, u *model.User) error {
	for _, other := range f.users {
		if other.ID != u.ID && other.Email == u.Email {
			return uniqueViolation()
		}
	}
	f.users[u.ID] = u
	return nil
}

// CourseRepository

func (f *fakeStore) CreateCourse(ctx context.Context, c *model.Course) error {
	for _, other := range f.courses {
		if other.Code == c.Code {
			return uniqueViolation()
		}
	}
	c.ID = uuid.NewString()
	f.courses[c.ID] = c
	return nil
}

func (f *fakeStore) GetCourseByID(ctx context.Context, courseID string) (*model.Course, error) {
	return f.courses[courseID], nil
}

func (f *fakeStore) GetCourseByCode(ctx context.Context, code string) (*model.Course, error) {
	for _, c := range f.courses {
		if c.Code == code {
			return c, nil
		}
	}
	return nil, nil
}

func (f *fakeStore) ListCourses(ctx context.Context) ([]model.Course, error) {
	out := []model.Course{}
	for _, c := range f.courses {
		out = append(out, *c)
	}
	return out, nil
}

func (f *fakeStore) UpdateThumbnail(ctx context.Context, courseID, thumbnailPath string) error {
	if c := f.courses[courseID]; c != nil {
		c.ThumbnailPath = thumbnailPath
	}
	return nil
}

func (f *fakeStore) DeleteCourse(ctx context.Context, courseID string) error {
	delete(f.courses, courseID)
	return nil
}

// BatchRepository

func (f *fakeStore) CreateBatch(ctx context.Context, b *model.Batch) error {
	b.ID = uuid.NewString()
	f.batches[b.ID] = b
	return nil
}

func (f *fakeStore) GetBatchByID(ctx context.Context, courseID, batchID string) (*model.Batch, error) {
	b := f.batches[batchID]
	if b == nil || b.CourseID != courseID {
		return nil, nil
	}
	return b, nil
}

func (f *fakeStore) ListBatchesByCourse(ctx context.Context, courseID string) ([]model.Batch, error) {
	out := []model.Batch{}
	for _, b := range f.batches {
		if b.CourseID == courseID {
			out = append(out, *b)
		}
	}
	return out, nil
}

// LectureRepository

func (f *fakeStore) CreateLecture(ctx context.Context, l *model.Lecture) error {
	day := model.DayOf(l.StartTime)
	for _, other := range f.lectures {
		if other.InstructorID == l.InstructorID && model.DayOf(other.StartTime).Equal(day) {
			return uniqueViolation()
		}
	}
	l.ID = uuid.NewString()
	f.lectures[l.ID] = l
	return nil
}

func (f *fakeStore) GetLectureDetailByID(ctx context.Context, lectureID string) (*model.LectureDetail, error) {
	l := f.lectures[lectureID]
	if l == nil {
		return nil, nil
	}
	return f.toDetail(l), nil
}

func (f *fakeStore) toDetail(l *model.Lecture) *model.LectureDetail {
	d := &model.LectureDetail{Lecture: *l}
	if c := f.courses[l.CourseID]; c != nil {
		d.Course = model.CourseSummary{ID: c.ID, Name: c.Name, Code: c.Code}
	}
	if u := f.users[l.InstructorID]; u != nil {
		d.Instructor = model.UserSummary{ID: u.ID, Name: u.Name, Email: u.Email}
	}
	return d
}

func (f *fakeStore) listDetails(match func(*model.Lecture) bool) []model.LectureDetail {
	out := []model.LectureDetail{}
	for _, l := range f.lectures {
		if match(l) {
			out = append(out, *f.toDetail(l))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartTime.Before(out[j].StartTime) })
	return out
}

func (f *fakeStore) ListLectures(ctx context.Context) ([]model.LectureDetail, error) {
	return f.listDetails(func(*model.Lecture) bool { return true }), nil
}

func (f *fakeStore) ListLecturesByInstructor(ctx context.Context, instructorID string) ([]model.LectureDetail, error) {
	return f.listDetails(func(l *model.Lecture) bool { return l.InstructorID == instructorID }), nil
}

func (f *fakeStore) ListLecturesByCourse(ctx context.Context, courseID string) ([]model.LectureDetail, error) {
	return f.listDetails(func(l *model.Lecture) bool { return l.CourseID == courseID }), nil
}

func (f *fakeStore) ExistsForInstructorBetween(ctx context.Context, instructorID string, from, to time.Time, excludeID string) (bool, error) {
	if f.hideConflicts {
		return false, nil
	}
	for _, l := range f.lectures {
		if l.InstructorID != instructorID || l.ID == excludeID {
			continue
		}
		if !l.StartTime.Before(from) && l.StartTime.Before(to) {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeStore) DeleteLecturesByCourse(ctx context.Context, courseID string) error {
	for id, l := range f.lectures {
		if l.CourseID == courseID {
			delete(f.lectures, id)
		}
	}
	return nil
}

// fakePublisher records published payloads.
type fakePublisher struct {
	topics   []string
	payloads [][]byte
	err      error
}

func (p *fakePublisher) Publish(ctx context.Context, topic string, payload []byte) (string, error) {
	if p.err != nil {
		return "", p.err
	}
	p.topics = append(p.topics, topic)
	p.payloads = append(p.payloads, payload)
	return uuid.NewString(), nil
}

// fakeObjectStore records presign and delete calls.
type fakeObjectStore struct {
	deleted []string
	puts    []string
}

func (s *fakeObjectStore) PresignPut(ctx context.Context, key string) (string, error) {
	s.puts = append(s.puts, key)
	return "https://storage.example.com/" + key + "?sig=abc", nil
}

func (s *fakeObjectStore) PresignGet(ctx context.Context, key string) (string, error) {
	return "https://storage.example.com/" + key, nil
}

func (s *fakeObjectStore) Delete(ctx context.Context, key string) error {
	s.deleted = append(s.deleted, key)
	return nil
}
