package services

import (
	"context"
	"fmt"
	"mime/multipart"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dmorales/aulago/internal/app/models"
	"github.com/dmorales/aulago/internal/app/repositories"
	"github.com/dmorales/aulago/internal/pkg/apperrors"
)

// In-memory repository fakes shared by the service tests. They implement the
// narrow store interfaces the services consume and mimic the database
// semantics the real repositories provide.

type fakeCourseStore struct {
	courses map[int64]*models.Course
	nextID  int64
	// enrolledSummaries backs ListEnrolled, keyed by user id
	enrolledSummaries map[int64][]*repositories.CourseSummary
}

func newFakeCourseStore(courses ...*models.Course) *fakeCourseStore {
	s := &fakeCourseStore{
		courses:           map[int64]*models.Course{},
		nextID:            1,
		enrolledSummaries: map[int64][]*repositories.CourseSummary{},
	}
	for _, c := range courses {
		if c.ID == 0 {
			c.ID = s.nextID
		}
		if c.ID >= s.nextID {
			s.nextID = c.ID + 1
		}
		if c.Identifier == uuid.Nil {
			c.Identifier = uuid.New()
		}
		s.courses[c.ID] = c
	}
	return s
}

func (s *fakeCourseStore) Create(ctx context.Context, course *models.Course) error {
	course.ID = s.nextID
	s.nextID++
	course.Identifier = uuid.New()
	course.CreatedAt = time.Now()
	s.courses[course.ID] = course
	return nil
}

func (s *fakeCourseStore) GetByID(ctx context.Context, id int64) (*models.Course, error) {
	course, ok := s.courses[id]
	if !ok {
		return nil, apperrors.ErrCourseNotFound
	}
	return course, nil
}

func (s *fakeCourseStore) GetByIdentifier(ctx context.Context, identifier uuid.UUID) (*models.Course, error) {
	for _, c := range s.courses {
		if c.Identifier == identifier {
			return c, nil
		}
	}
	return nil, apperrors.ErrCourseNotFound
}

func (s *fakeCourseStore) Update(ctx context.Context, course *models.Course) error {
	if _, ok := s.courses[course.ID]; !ok {
		return apperrors.ErrCourseNotFound
	}
	s.courses[course.ID] = course
	return nil
}

func (s *fakeCourseStore) Delete(ctx context.Context, id int64) error {
	if _, ok := s.courses[id]; !ok {
		return apperrors.ErrCourseNotFound
	}
	delete(s.courses, id)
	return nil
}

func (s *fakeCourseStore) summary(c *models.Course) *repositories.CourseSummary {
	return &repositories.CourseSummary{Course: *c}
}

func (s *fakeCourseStore) matchesCatalogue(c *models.Course, search string) bool {
	if !c.IsListed {
		return false
	}
	if search == "" {
		return true
	}
	haystack := strings.ToLower(c.Title + " " + c.Description)
	return strings.Contains(haystack, strings.ToLower(search))
}

func (s *fakeCourseStore) ListListed(ctx context.Context, search, instructor string, offset, limit int) ([]*repositories.CourseSummary, error) {
	var out []*repositories.CourseSummary
	for _, c := range s.sorted() {
		if s.matchesCatalogue(c, search) {
			out = append(out, s.summary(c))
		}
	}
	if offset >= len(out) {
		return nil, nil
	}
	out = out[offset:]
	if limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

func (s *fakeCourseStore) CountListed(ctx context.Context, search, instructor string) (int, error) {
	n := 0
	for _, c := range s.courses {
		if s.matchesCatalogue(c, search) {
			n++
		}
	}
	return n, nil
}

func (s *fakeCourseStore) GetSummary(ctx context.Context, id int64) (*repositories.CourseSummary, error) {
	course, ok := s.courses[id]
	if !ok {
		return nil, apperrors.ErrCourseNotFound
	}
	return s.summary(course), nil
}

func (s *fakeCourseStore) ListByInstructor(ctx context.Context, instructorID int64) ([]*repositories.CourseSummary, error) {
	var out []*repositories.CourseSummary
	for _, c := range s.sorted() {
		if c.InstructorID == instructorID {
			out = append(out, s.summary(c))
		}
	}
	return out, nil
}

func (s *fakeCourseStore) ListEnrolled(ctx context.Context, userID int64) ([]*repositories.CourseSummary, error) {
	return s.enrolledSummaries[userID], nil
}

func (s *fakeCourseStore) sorted() []*models.Course {
	var out []*models.Course
	for _, c := range s.courses {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

type enrollmentKey struct{ userID, courseID int64 }

type fakeEnrollmentStore struct {
	enrolled map[enrollmentKey]bool
}

func newFakeEnrollmentStore() *fakeEnrollmentStore {
	return &fakeEnrollmentStore{enrolled: map[enrollmentKey]bool{}}
}

func (s *fakeEnrollmentStore) add(userID, courseID int64) {
	s.enrolled[enrollmentKey{userID, courseID}] = true
}

func (s *fakeEnrollmentStore) Enroll(ctx context.Context, userID, courseID int64) (bool, error) {
	key := enrollmentKey{userID, courseID}
	if s.enrolled[key] {
		return false, nil
	}
	s.enrolled[key] = true
	return true, nil
}

func (s *fakeEnrollmentStore) IsEnrolled(ctx context.Context, userID, courseID int64) (bool, error) {
	return s.enrolled[enrollmentKey{userID, courseID}], nil
}

func (s *fakeEnrollmentStore) Unenroll(ctx context.Context, userID, courseID int64) (bool, error) {
	key := enrollmentKey{userID, courseID}
	if !s.enrolled[key] {
		return false, nil
	}
	delete(s.enrolled, key)
	return true, nil
}

type fakeLessonStore struct {
	lessons   map[int64]*models.Lesson
	nextID    int64
	createErr error
	updateErr error
	reordered []repositories.LessonPlacement
}

func newFakeLessonStore(lessons ...*models.Lesson) *fakeLessonStore {
	s := &fakeLessonStore{lessons: map[int64]*models.Lesson{}, nextID: 1}
	for _, l := range lessons {
		if l.ID == 0 {
			l.ID = s.nextID
		}
		if l.ID >= s.nextID {
			s.nextID = l.ID + 1
		}
		s.lessons[l.ID] = l
	}
	return s
}

func (s *fakeLessonStore) Create(ctx context.Context, lesson *models.Lesson) error {
	if s.createErr != nil {
		return s.createErr
	}
	lesson.ID = s.nextID
	s.nextID++
	lesson.Position = s.maxPosition(lesson.CourseID) + 1
	s.lessons[lesson.ID] = lesson
	return nil
}

func (s *fakeLessonStore) maxPosition(courseID int64) int {
	max := 0
	for _, l := range s.lessons {
		if l.CourseID == courseID && l.Position > max {
			max = l.Position
		}
	}
	return max
}

func (s *fakeLessonStore) GetByID(ctx context.Context, id int64) (*models.Lesson, error) {
	lesson, ok := s.lessons[id]
	if !ok {
		return nil, apperrors.ErrLessonNotFound
	}
	return lesson, nil
}

func (s *fakeLessonStore) ListByCourse(ctx context.Context, courseID int64) ([]*models.Lesson, error) {
	var out []*models.Lesson
	for _, l := range s.lessons {
		if l.CourseID == courseID {
			out = append(out, l)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Position < out[j].Position })
	return out, nil
}

func (s *fakeLessonStore) Update(ctx context.Context, lesson *models.Lesson) error {
	if s.updateErr != nil {
		return s.updateErr
	}
	if _, ok := s.lessons[lesson.ID]; !ok {
		return apperrors.ErrLessonNotFound
	}
	s.lessons[lesson.ID] = lesson
	return nil
}

func (s *fakeLessonStore) Delete(ctx context.Context, id int64) error {
	if _, ok := s.lessons[id]; !ok {
		return apperrors.ErrLessonNotFound
	}
	delete(s.lessons, id)
	return nil
}

func (s *fakeLessonStore) Reorder(ctx context.Context, courseID int64, placements []repositories.LessonPlacement) error {
	for _, p := range placements {
		lesson, ok := s.lessons[p.LessonID]
		if !ok || lesson.CourseID != courseID {
			return apperrors.ErrLessonOutsideCourse
		}
	}
	for _, p := range placements {
		if p.Position >= 1 {
			s.lessons[p.LessonID].Position = p.Position
		}
	}
	s.reordered = placements
	return nil
}

func (s *fakeLessonStore) GetAdjacent(ctx context.Context, courseID int64, position int) (*models.Lesson, *models.Lesson, error) {
	var prev, next *models.Lesson
	for _, l := range s.lessons {
		if l.CourseID != courseID {
			continue
		}
		if l.Position < position && (prev == nil || l.Position > prev.Position) {
			prev = l
		}
		if l.Position > position && (next == nil || l.Position < next.Position) {
			next = l
		}
	}
	return prev, next, nil
}

type progressKey struct{ userID, lessonID int64 }

type fakeProgressStore struct {
	rows map[progressKey]*models.LessonProgress
	// lessonCourse maps lessons to courses for CompletedByCourse
	lessonCourse map[int64]int64
	nextID       int64
}

func newFakeProgressStore() *fakeProgressStore {
	return &fakeProgressStore{
		rows:         map[progressKey]*models.LessonProgress{},
		lessonCourse: map[int64]int64{},
		nextID:       1,
	}
}

func (s *fakeProgressStore) GetOrCreate(ctx context.Context, userID, lessonID int64) (*models.LessonProgress, error) {
	key := progressKey{userID, lessonID}
	if row, ok := s.rows[key]; ok {
		return row, nil
	}
	row := &models.LessonProgress{ID: s.nextID, UserID: userID, LessonID: lessonID}
	s.nextID++
	s.rows[key] = row
	return row, nil
}

func (s *fakeProgressStore) MarkCompleted(ctx context.Context, userID, lessonID int64) error {
	row, ok := s.rows[progressKey{userID, lessonID}]
	if !ok {
		return nil
	}
	// First completion wins; repeats keep the original timestamp
	if !row.Completed {
		now := time.Now()
		row.Completed = true
		row.CompletedAt = &now
	}
	return nil
}

func (s *fakeProgressStore) Uncomplete(ctx context.Context, userID, lessonID int64) error {
	if row, ok := s.rows[progressKey{userID, lessonID}]; ok {
		row.Completed = false
		row.CompletedAt = nil
	}
	return nil
}

func (s *fakeProgressStore) UpdatePosition(ctx context.Context, userID, lessonID int64, seconds int) error {
	if row, ok := s.rows[progressKey{userID, lessonID}]; ok {
		row.LastPositionSeconds = seconds
	}
	return nil
}

func (s *fakeProgressStore) MapByCourse(ctx context.Context, userID, courseID int64) (map[int64]*models.LessonProgress, error) {
	out := map[int64]*models.LessonProgress{}
	for key, row := range s.rows {
		if key.userID == userID && s.lessonCourse[key.lessonID] == courseID {
			out[key.lessonID] = row
		}
	}
	return out, nil
}

func (s *fakeProgressStore) CompletedByCourse(ctx context.Context, userID int64) (map[int64]int, error) {
	out := map[int64]int{}
	for key, row := range s.rows {
		if key.userID == userID && row.Completed {
			out[s.lessonCourse[key.lessonID]]++
		}
	}
	return out, nil
}

type fakeCommentStore struct {
	comments map[int64]*models.Comment
	authors  map[int64]string
	nextID   int64
}

func newFakeCommentStore() *fakeCommentStore {
	return &fakeCommentStore{comments: map[int64]*models.Comment{}, authors: map[int64]string{}, nextID: 1}
}

func (s *fakeCommentStore) Create(ctx context.Context, comment *models.Comment) error {
	comment.ID = s.nextID
	s.nextID++
	comment.CreatedAt = time.Now()
	s.comments[comment.ID] = comment
	return nil
}

func (s *fakeCommentStore) GetByID(ctx context.Context, id int64) (*models.Comment, error) {
	comment, ok := s.comments[id]
	if !ok {
		return nil, apperrors.NewResourceNotFoundError("comment not found")
	}
	return comment, nil
}

func (s *fakeCommentStore) ListByCourse(ctx context.Context, courseID int64) ([]*repositories.CommentWithAuthor, error) {
	var out []*repositories.CommentWithAuthor
	for _, c := range s.comments {
		if c.CourseID == courseID {
			out = append(out, &repositories.CommentWithAuthor{Comment: *c, AuthorName: s.authors[c.UserID]})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Comment.ID > out[j].Comment.ID })
	return out, nil
}

func (s *fakeCommentStore) Delete(ctx context.Context, id int64) error {
	if _, ok := s.comments[id]; !ok {
		return apperrors.NewResourceNotFoundError("comment not found")
	}
	delete(s.comments, id)
	return nil
}

type fakeRatingStore struct {
	ratings map[enrollmentKey]int
}

func newFakeRatingStore() *fakeRatingStore {
	return &fakeRatingStore{ratings: map[enrollmentKey]int{}}
}

func (s *fakeRatingStore) Upsert(ctx context.Context, userID, courseID int64, rating int) error {
	s.ratings[enrollmentKey{userID, courseID}] = rating
	return nil
}

func (s *fakeRatingStore) Get(ctx context.Context, userID, courseID int64) (*models.CourseRating, error) {
	rating, ok := s.ratings[enrollmentKey{userID, courseID}]
	if !ok {
		return nil, nil
	}
	return &models.CourseRating{UserID: userID, CourseID: courseID, Rating: rating}, nil
}

type fakeUserStore struct {
	users  map[int64]*models.User
	nextID int64
}

func newFakeUserStore(users ...*models.User) *fakeUserStore {
	s := &fakeUserStore{users: map[int64]*models.User{}, nextID: 1}
	for _, u := range users {
		if u.ID == 0 {
			u.ID = s.nextID
		}
		if u.ID >= s.nextID {
			s.nextID = u.ID + 1
		}
		s.users[u.ID] = u
	}
	return s
}

func (s *fakeUserStore) Create(ctx context.Context, user *models.User) error {
	for _, u := range s.users {
		if u.Email == user.Email {
			return apperrors.ErrEmailAlreadyExists
		}
	}
	user.ID = s.nextID
	s.nextID++
	user.CreatedAt = time.Now()
	s.users[user.ID] = user
	return nil
}

func (s *fakeUserStore) GetByID(ctx context.Context, id int64) (*models.User, error) {
	user, ok := s.users[id]
	if !ok {
		return nil, apperrors.ErrUserNotFound
	}
	return user, nil
}

func (s *fakeUserStore) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	for _, u := range s.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, apperrors.ErrUserNotFound
}

func (s *fakeUserStore) EmailExists(ctx context.Context, email string) (bool, error) {
	_, err := s.GetByEmail(ctx, email)
	if err != nil {
		return false, nil
	}
	return true, nil
}

func (s *fakeUserStore) UpdateProfile(ctx context.Context, userID int64, firstName, lastName, email string) error {
	user, ok := s.users[userID]
	if !ok {
		return apperrors.ErrUserNotFound
	}
	user.FirstName = firstName
	user.LastName = lastName
	user.Email = email
	return nil
}

// fakeStorage implements filestorage.FileStorage, handing out deterministic
// paths without touching the filesystem.
type fakeStorage struct {
	saves   int
	saveErr error
}

func (s *fakeStorage) SaveFile(fh *multipart.FileHeader) (string, error) {
	return s.SaveFileWithPath(fh, "")
}

func (s *fakeStorage) SaveFileWithPath(fh *multipart.FileHeader, subPath string) (string, error) {
	if s.saveErr != nil {
		return "", s.saveErr
	}
	s.saves++
	return fmt.Sprintf("/uploads/lessons/blob-%d.pdf", s.saves), nil
}

func (s *fakeStorage) DeleteFile(path string) error { return nil }
func (s *fakeStorage) Exists(path string) bool      { return true }

type fakeCleaner struct {
	scheduled []string
}

func (c *fakeCleaner) Schedule(path string) {
	if path != "" {
		c.scheduled = append(c.scheduled, path)
	}
}
