package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmorales/aulago/internal/app/auth"
	"github.com/dmorales/aulago/internal/app/models"
	"github.com/dmorales/aulago/internal/app/models/dto"
	"github.com/dmorales/aulago/internal/app/repositories"
	"github.com/dmorales/aulago/internal/pkg/apperrors"
)

type courseServiceFixture struct {
	service     CourseService
	courses     *fakeCourseStore
	lessons     *fakeLessonStore
	progress    *fakeProgressStore
	comments    *fakeCommentStore
	ratings     *fakeRatingStore
	enrollments *fakeEnrollmentStore

	instructor *models.User
	student    *models.User
	admin      *models.User
}

func newCourseServiceFixture(t *testing.T, courses ...*models.Course) *courseServiceFixture {
	t.Helper()

	f := &courseServiceFixture{
		instructor: &models.User{ID: 1, Role: models.RoleInstructor},
		student:    &models.User{ID: 2, Role: models.RoleStudent},
		admin:      &models.User{ID: 3, Role: models.RoleAdmin},
	}

	f.courses = newFakeCourseStore(courses...)
	f.lessons = newFakeLessonStore()
	f.progress = newFakeProgressStore()
	f.comments = newFakeCommentStore()
	f.ratings = newFakeRatingStore()
	f.enrollments = newFakeEnrollmentStore()

	f.service = NewCourseService(
		f.courses,
		f.lessons,
		f.progress,
		f.comments,
		f.ratings,
		f.enrollments,
		auth.NewAuthorizationService(f.enrollments),
	)
	return f
}

func TestCreateCourse(t *testing.T) {
	f := newCourseServiceFixture(t)
	ctx := context.Background()

	req := &dto.CreateCourseRequest{
		Title:       "Practical Go services",
		Description: "Build and ship production HTTP services in Go.",
	}

	course, err := f.service.CreateCourse(ctx, f.instructor, req)
	require.NoError(t, err)
	assert.Equal(t, f.instructor.ID, course.InstructorID)
	assert.True(t, course.IsListed, "courses are listed by default")
	assert.NotZero(t, course.Identifier)

	t.Run("students cannot create courses", func(t *testing.T) {
		_, err := f.service.CreateCourse(ctx, f.student, req)
		assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)
	})

	t.Run("search filters the catalogue", func(t *testing.T) {
		f := newCourseServiceFixture(t,
			&models.Course{ID: 10, InstructorID: 1, Title: "Go for backend work", Description: "HTTP services in Go.", IsListed: true},
			&models.Course{ID: 11, InstructorID: 1, Title: "Rust fundamentals", Description: "Ownership and borrowing.", IsListed: true},
			&models.Course{ID: 12, InstructorID: 1, Title: "Go internals", Description: "Runtime and scheduler.", IsListed: false},
		)

		courses, total, err := f.service.ListCatalogue(ctx, &dto.CourseFilterRequest{Search: "go", Page: 1, PageSize: 10})
		require.NoError(t, err)
		assert.Equal(t, 1, total, "unlisted courses never appear")
		require.Len(t, courses, 1)
		assert.Equal(t, int64(10), courses[0].ID)

		courses, total, err = f.service.ListCatalogue(ctx, &dto.CourseFilterRequest{Page: 1, PageSize: 10})
		require.NoError(t, err)
		assert.Equal(t, 2, total)
		assert.Len(t, courses, 2)
	})

	t.Run("field validation", func(t *testing.T) {
		_, err := f.service.CreateCourse(ctx, f.instructor, &dto.CreateCourseRequest{
			Title:       "Go",
			Description: "short",
		})
		var vErr *apperrors.ValidationError
		require.ErrorAs(t, err, &vErr)
		assert.Contains(t, vErr.Fields, "title")
		assert.Contains(t, vErr.Fields, "description")
	})
}

func TestUpdateCourseOwnership(t *testing.T) {
	course := &models.Course{ID: 10, InstructorID: 1, Title: "Original title here", Description: "A description long enough to pass validation.", IsListed: true}
	f := newCourseServiceFixture(t, course)
	ctx := context.Background()

	unlist := false
	req := &dto.UpdateCourseRequest{
		Title:       "Updated course title",
		Description: "A description long enough to pass validation.",
		IsListed:    &unlist,
	}

	t.Run("other instructors denied", func(t *testing.T) {
		other := &models.User{ID: 42, Role: models.RoleInstructor}
		_, err := f.service.UpdateCourse(ctx, other, course.ID, req)
		assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)
	})

	t.Run("owner updates and unlists", func(t *testing.T) {
		updated, err := f.service.UpdateCourse(ctx, f.instructor, course.ID, req)
		require.NoError(t, err)
		assert.Equal(t, "Updated course title", updated.Title)
		assert.False(t, updated.IsListed)
	})

	t.Run("admin manages any course", func(t *testing.T) {
		_, err := f.service.UpdateCourse(ctx, f.admin, course.ID, req)
		assert.NoError(t, err)
	})
}

func TestRateCourse(t *testing.T) {
	course := &models.Course{ID: 10, InstructorID: 1, IsListed: true}
	f := newCourseServiceFixture(t, course)
	ctx := context.Background()

	t.Run("out of bounds", func(t *testing.T) {
		for _, rating := range []int{0, -1, 6} {
			err := f.service.RateCourse(ctx, f.student, course.ID, rating)
			var vErr *apperrors.ValidationError
			assert.ErrorAs(t, err, &vErr)
		}
	})

	t.Run("requires enrollment", func(t *testing.T) {
		err := f.service.RateCourse(ctx, f.student, course.ID, 4)
		assert.ErrorIs(t, err, apperrors.ErrNotEnrolled)
	})

	t.Run("rating again replaces", func(t *testing.T) {
		f.enrollments.add(f.student.ID, course.ID)

		require.NoError(t, f.service.RateCourse(ctx, f.student, course.ID, 4))
		require.NoError(t, f.service.RateCourse(ctx, f.student, course.ID, 2))

		stored, err := f.ratings.Get(ctx, f.student.ID, course.ID)
		require.NoError(t, err)
		assert.Equal(t, 2, stored.Rating)
	})
}

func TestGetDetailVisibility(t *testing.T) {
	course := &models.Course{ID: 10, InstructorID: 1, Title: "Layered visibility", IsListed: true}
	f := newCourseServiceFixture(t, course)
	ctx := context.Background()

	for i := int64(1); i <= 4; i++ {
		f.lessons.lessons[i] = &models.Lesson{ID: i, CourseID: course.ID, Position: int(i), ContentType: models.ContentTypeText}
		f.progress.lessonCourse[i] = course.ID
	}
	f.comments.Create(ctx, &models.Comment{UserID: 5, CourseID: course.ID, Content: "looking forward to this"})

	t.Run("anonymous sees metadata and comments only", func(t *testing.T) {
		detail, err := f.service.GetDetail(ctx, nil, course.ID)
		require.NoError(t, err)
		assert.Empty(t, detail.Lessons)
		assert.Len(t, detail.Comments, 1)
		assert.False(t, detail.CanManage)
		assert.False(t, detail.IsEnrolled)
	})

	t.Run("signed-in but not enrolled sees no lessons", func(t *testing.T) {
		detail, err := f.service.GetDetail(ctx, f.student, course.ID)
		require.NoError(t, err)
		assert.Empty(t, detail.Lessons)
	})

	t.Run("enrolled student sees lessons and progress percent", func(t *testing.T) {
		f.enrollments.add(f.student.ID, course.ID)
		for _, lessonID := range []int64{1, 2} {
			_, err := f.progress.GetOrCreate(ctx, f.student.ID, lessonID)
			require.NoError(t, err)
			require.NoError(t, f.progress.MarkCompleted(ctx, f.student.ID, lessonID))
		}

		detail, err := f.service.GetDetail(ctx, f.student, course.ID)
		require.NoError(t, err)
		assert.Len(t, detail.Lessons, 4)
		assert.True(t, detail.IsEnrolled)
		assert.Equal(t, 50.0, detail.ProgressPercent)
	})

	t.Run("owner sees lessons without a progress percent", func(t *testing.T) {
		detail, err := f.service.GetDetail(ctx, f.instructor, course.ID)
		require.NoError(t, err)
		assert.Len(t, detail.Lessons, 4)
		assert.True(t, detail.CanManage)
		assert.True(t, detail.IsInstructor)
		assert.Zero(t, detail.ProgressPercent)
	})
}

func TestGetDashboard(t *testing.T) {
	f := newCourseServiceFixture(t)
	ctx := context.Background()

	courseA := models.Course{ID: 10, Title: "Course A", InstructorID: 9}
	courseB := models.Course{ID: 11, Title: "Course B", InstructorID: 9}
	f.courses.enrolledSummaries[f.student.ID] = []*repositories.CourseSummary{
		{Course: courseA, LessonCount: 4},
		{Course: courseB, LessonCount: 6},
	}

	// Two lessons done in course A, none in course B
	for _, lessonID := range []int64{1, 2} {
		f.progress.lessonCourse[lessonID] = courseA.ID
		_, err := f.progress.GetOrCreate(ctx, f.student.ID, lessonID)
		require.NoError(t, err)
		require.NoError(t, f.progress.MarkCompleted(ctx, f.student.ID, lessonID))
	}

	dashboard, err := f.service.GetDashboard(ctx, f.student)
	require.NoError(t, err)

	require.Len(t, dashboard.EnrolledCourses, 2)
	assert.Equal(t, 2, dashboard.EnrolledCourses[0].CompletedLessons)
	assert.Equal(t, 50.0, dashboard.EnrolledCourses[0].ProgressPercent)
	assert.Equal(t, 0, dashboard.EnrolledCourses[1].CompletedLessons)
	assert.Equal(t, 2, dashboard.TotalCompletedLessons)
	assert.Equal(t, 10, dashboard.TotalLessonsAvailable)
	assert.Empty(t, dashboard.TeachingCourses, "students have no teaching list")
}

func TestGetDashboardForInstructor(t *testing.T) {
	course := &models.Course{ID: 10, InstructorID: 1, Title: "Teaching this one", IsListed: true}
	f := newCourseServiceFixture(t, course)

	dashboard, err := f.service.GetDashboard(context.Background(), f.instructor)
	require.NoError(t, err)
	require.Len(t, dashboard.TeachingCourses, 1)
	assert.Equal(t, "Teaching this one", dashboard.TeachingCourses[0].Title)
}

func TestResolveIdentifier(t *testing.T) {
	course := &models.Course{ID: 10, InstructorID: 1, IsListed: true}
	f := newCourseServiceFixture(t, course)
	ctx := context.Background()

	created, err := f.courses.GetByID(ctx, course.ID)
	require.NoError(t, err)

	t.Run("garbage identifier", func(t *testing.T) {
		_, err := f.service.ResolveIdentifier(ctx, "not-a-uuid")
		assert.ErrorIs(t, err, apperrors.ErrCourseNotFound)
	})

	t.Run("unknown identifier", func(t *testing.T) {
		_, err := f.service.ResolveIdentifier(ctx, "0b39cbb6-6a29-4d8f-9f39-27cbbf373e0f")
		assert.ErrorIs(t, err, apperrors.ErrCourseNotFound)
	})

	t.Run("known identifier", func(t *testing.T) {
		resolved, err := f.service.ResolveIdentifier(ctx, created.Identifier.String())
		require.NoError(t, err)
		assert.Equal(t, course.ID, resolved.ID)
	})
}
