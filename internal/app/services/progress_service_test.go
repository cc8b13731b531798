package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmorales/aulago/internal/app/auth"
	"github.com/dmorales/aulago/internal/app/models"
	"github.com/dmorales/aulago/internal/app/models/dto"
	"github.com/dmorales/aulago/internal/pkg/apperrors"
)

type progressServiceFixture struct {
	service     ProgressService
	progress    *fakeProgressStore
	enrollments *fakeEnrollmentStore

	student *models.User
	course  *models.Course
	lesson  *models.Lesson
}

func newProgressServiceFixture(t *testing.T) *progressServiceFixture {
	t.Helper()

	f := &progressServiceFixture{
		student: &models.User{ID: 2, Role: models.RoleStudent},
		course:  &models.Course{ID: 10, InstructorID: 1, IsListed: true},
	}
	f.lesson = &models.Lesson{ID: 1, CourseID: f.course.ID, ContentType: models.ContentTypeVideo, Position: 1}

	lessons := newFakeLessonStore(f.lesson)
	courses := newFakeCourseStore(f.course)
	f.progress = newFakeProgressStore()
	f.enrollments = newFakeEnrollmentStore()
	f.enrollments.add(f.student.ID, f.course.ID)

	f.service = NewProgressService(f.progress, lessons, courses, auth.NewAuthorizationService(f.enrollments))
	return f
}

func TestProgressCompleteIsIdempotent(t *testing.T) {
	f := newProgressServiceFixture(t)
	ctx := context.Background()

	first, err := f.service.Update(ctx, f.student, f.lesson.ID, &dto.ProgressUpdateRequest{Action: dto.ProgressActionComplete})
	require.NoError(t, err)
	require.True(t, first.Completed)
	require.NotNil(t, first.CompletedAt)
	firstTimestamp := *first.CompletedAt

	time.Sleep(5 * time.Millisecond)

	second, err := f.service.Update(ctx, f.student, f.lesson.ID, &dto.ProgressUpdateRequest{Action: dto.ProgressActionComplete})
	require.NoError(t, err)
	assert.True(t, second.Completed)
	assert.Equal(t, firstTimestamp, *second.CompletedAt, "repeat completions keep the first timestamp")
}

func TestProgressUncompleteThenCompleteAgain(t *testing.T) {
	f := newProgressServiceFixture(t)
	ctx := context.Background()

	_, err := f.service.Update(ctx, f.student, f.lesson.ID, &dto.ProgressUpdateRequest{Action: dto.ProgressActionComplete})
	require.NoError(t, err)

	cleared, err := f.service.Update(ctx, f.student, f.lesson.ID, &dto.ProgressUpdateRequest{Action: dto.ProgressActionUncomplete})
	require.NoError(t, err)
	assert.False(t, cleared.Completed)
	assert.Nil(t, cleared.CompletedAt)

	again, err := f.service.Update(ctx, f.student, f.lesson.ID, &dto.ProgressUpdateRequest{Action: dto.ProgressActionComplete})
	require.NoError(t, err)
	assert.True(t, again.Completed)
	assert.NotNil(t, again.CompletedAt)
}

func TestProgressUpdatePosition(t *testing.T) {
	f := newProgressServiceFixture(t)
	ctx := context.Background()

	progress, err := f.service.Update(ctx, f.student, f.lesson.ID, &dto.ProgressUpdateRequest{
		Action:   dto.ProgressActionUpdatePosition,
		Position: "342",
	})
	require.NoError(t, err)
	assert.Equal(t, 342, progress.LastPositionSeconds)
}

func TestProgressIgnoresUnusablePositions(t *testing.T) {
	f := newProgressServiceFixture(t)
	ctx := context.Background()

	// Establish a known position first
	_, err := f.service.Update(ctx, f.student, f.lesson.ID, &dto.ProgressUpdateRequest{
		Action:   dto.ProgressActionUpdatePosition,
		Position: "120",
	})
	require.NoError(t, err)

	for _, bad := range []string{"NaN", "", "-5", "12.5"} {
		progress, err := f.service.Update(ctx, f.student, f.lesson.ID, &dto.ProgressUpdateRequest{
			Action:   dto.ProgressActionUpdatePosition,
			Position: bad,
		})
		require.NoError(t, err, "bad position %q must not fail the request", bad)
		assert.Equal(t, 120, progress.LastPositionSeconds, "bad position %q must not change stored progress", bad)
	}
}

func TestProgressUnknownAction(t *testing.T) {
	f := newProgressServiceFixture(t)

	_, err := f.service.Update(context.Background(), f.student, f.lesson.ID, &dto.ProgressUpdateRequest{Action: "rewind"})
	assert.ErrorIs(t, err, apperrors.ErrBadRequest)
}

func TestProgressRequiresEnrollment(t *testing.T) {
	f := newProgressServiceFixture(t)
	stranger := &models.User{ID: 99, Role: models.RoleStudent}

	_, err := f.service.Update(context.Background(), stranger, f.lesson.ID, &dto.ProgressUpdateRequest{Action: dto.ProgressActionComplete})
	assert.ErrorIs(t, err, apperrors.ErrNotEnrolled)
	assert.Empty(t, f.progress.rows, "no progress row for users without access")
}

func TestProgressUnknownLesson(t *testing.T) {
	f := newProgressServiceFixture(t)

	_, err := f.service.Update(context.Background(), f.student, 404, &dto.ProgressUpdateRequest{Action: dto.ProgressActionComplete})
	assert.ErrorIs(t, err, apperrors.ErrLessonNotFound)
}
