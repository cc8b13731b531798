package services

import (
	"context"
	"errors"
	"mime/multipart"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmorales/aulago/internal/app/auth"
	"github.com/dmorales/aulago/internal/app/models"
	"github.com/dmorales/aulago/internal/app/models/dto"
	"github.com/dmorales/aulago/internal/pkg/apperrors"
	"github.com/dmorales/aulago/internal/pkg/validation"
)

type lessonServiceFixture struct {
	service     LessonService
	lessons     *fakeLessonStore
	courses     *fakeCourseStore
	progress    *fakeProgressStore
	enrollments *fakeEnrollmentStore
	storage     *fakeStorage
	cleaner     *fakeCleaner

	instructor *models.User
	student    *models.User
	course     *models.Course
}

func newLessonServiceFixture(t *testing.T) *lessonServiceFixture {
	t.Helper()

	f := &lessonServiceFixture{
		instructor: &models.User{ID: 1, Role: models.RoleInstructor, Email: "teach@example.com"},
		student:    &models.User{ID: 2, Role: models.RoleStudent, Email: "learn@example.com"},
	}
	f.course = &models.Course{ID: 10, InstructorID: f.instructor.ID, Title: "Go from scratch", IsListed: true}

	f.lessons = newFakeLessonStore()
	f.courses = newFakeCourseStore(f.course)
	f.progress = newFakeProgressStore()
	f.enrollments = newFakeEnrollmentStore()
	f.storage = &fakeStorage{}
	f.cleaner = &fakeCleaner{}

	f.service = NewLessonService(
		f.lessons,
		f.courses,
		f.progress,
		f.storage,
		f.cleaner,
		validation.DefaultAttachmentLimits(),
		auth.NewAuthorizationService(f.enrollments),
	)
	return f
}

func textInput(title, content string) *LessonInput {
	return &LessonInput{Title: title, ContentType: models.ContentTypeText, TextContent: content}
}

func TestCreateLessonAppendsToEnd(t *testing.T) {
	f := newLessonServiceFixture(t)
	ctx := context.Background()

	first, err := f.service.CreateLesson(ctx, f.instructor, f.course.ID, textInput("Getting started", "Install the toolchain."))
	require.NoError(t, err)
	second, err := f.service.CreateLesson(ctx, f.instructor, f.course.ID, textInput("Your first program", "Write hello world."))
	require.NoError(t, err)

	assert.Equal(t, 1, first.Position)
	assert.Equal(t, 2, second.Position)
}

func TestCreateLessonRequiresManager(t *testing.T) {
	f := newLessonServiceFixture(t)

	_, err := f.service.CreateLesson(context.Background(), f.student, f.course.ID, textInput("Sneaky lesson", "Should not exist."))
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)
}

func TestCreateLessonValidation(t *testing.T) {
	f := newLessonServiceFixture(t)
	ctx := context.Background()

	tests := []struct {
		name  string
		input *LessonInput
		field string
	}{
		{"short title", textInput("Go", "Some lesson content."), "title"},
		{"text without content", textInput("Empty text lesson", "   "), "text_content"},
		{"video without source", &LessonInput{Title: "Silent video", ContentType: models.ContentTypeVideo}, "video_url"},
		{"image without file", &LessonInput{Title: "Missing image", ContentType: models.ContentTypeImage}, "attachment"},
		{"unknown content type", &LessonInput{Title: "Mystery lesson", ContentType: "hologram"}, "content_type"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.service.CreateLesson(ctx, f.instructor, f.course.ID, tt.input)
			var vErr *apperrors.ValidationError
			require.ErrorAs(t, err, &vErr)
			assert.Contains(t, vErr.Fields, tt.field)
		})
	}
}

func TestCreateLessonFailureCleansUpBlob(t *testing.T) {
	f := newLessonServiceFixture(t)
	f.lessons.createErr = errors.New("insert failed")

	input := &LessonInput{
		Title:       "Lesson with file",
		ContentType: models.ContentTypeFile,
		Attachment:  &multipart.FileHeader{Filename: "notes.pdf", Size: 1024},
	}

	_, err := f.service.CreateLesson(context.Background(), f.instructor, f.course.ID, input)
	require.Error(t, err)
	assert.Equal(t, []string{"/uploads/lessons/blob-1.pdf"}, f.cleaner.scheduled)
}

func TestUpdateLessonReplacesAttachment(t *testing.T) {
	f := newLessonServiceFixture(t)
	lesson := &models.Lesson{
		ID: 5, CourseID: f.course.ID, Title: "Reference sheet",
		ContentType: models.ContentTypeFile, Attachment: "/uploads/lessons/old.pdf", Position: 1,
	}
	f.lessons.lessons[lesson.ID] = lesson

	input := &LessonInput{
		Title:       "Reference sheet",
		ContentType: models.ContentTypeFile,
		Attachment:  &multipart.FileHeader{Filename: "updated.pdf", Size: 2048},
	}

	updated, err := f.service.UpdateLesson(context.Background(), f.instructor, lesson.ID, input)
	require.NoError(t, err)

	assert.Equal(t, "/uploads/lessons/blob-1.pdf", updated.Attachment)
	// The old blob goes only after the record update succeeded
	assert.Equal(t, []string{"/uploads/lessons/old.pdf"}, f.cleaner.scheduled)
}

func TestUpdateLessonFailureKeepsOldBlob(t *testing.T) {
	f := newLessonServiceFixture(t)
	lesson := &models.Lesson{
		ID: 5, CourseID: f.course.ID, Title: "Reference sheet",
		ContentType: models.ContentTypeFile, Attachment: "/uploads/lessons/old.pdf", Position: 1,
	}
	f.lessons.lessons[lesson.ID] = lesson
	f.lessons.updateErr = errors.New("update failed")

	input := &LessonInput{
		Title:       "Reference sheet",
		ContentType: models.ContentTypeFile,
		Attachment:  &multipart.FileHeader{Filename: "updated.pdf", Size: 2048},
	}

	_, err := f.service.UpdateLesson(context.Background(), f.instructor, lesson.ID, input)
	require.Error(t, err)

	// The new, now orphaned blob is cleaned; the referenced old one survives
	assert.Equal(t, []string{"/uploads/lessons/blob-1.pdf"}, f.cleaner.scheduled)
}

func TestUpdateLessonContentTypeChangeKeepsBlob(t *testing.T) {
	f := newLessonServiceFixture(t)
	lesson := &models.Lesson{
		ID: 5, CourseID: f.course.ID, Title: "Recorded walkthrough",
		ContentType: models.ContentTypeVideo, Attachment: "/uploads/lessons/walkthrough.mp4", Position: 1,
	}
	f.lessons.lessons[lesson.ID] = lesson

	input := &LessonInput{
		Title:       "Written walkthrough",
		ContentType: models.ContentTypeText,
		TextContent: "The same walkthrough, written out.",
	}

	updated, err := f.service.UpdateLesson(context.Background(), f.instructor, lesson.ID, input)
	require.NoError(t, err)

	// Switching the content type back recovers the stored file
	assert.Equal(t, "/uploads/lessons/walkthrough.mp4", updated.Attachment)
	assert.Empty(t, f.cleaner.scheduled)
}

func TestDeleteLessonSchedulesAttachment(t *testing.T) {
	f := newLessonServiceFixture(t)
	lesson := &models.Lesson{
		ID: 5, CourseID: f.course.ID, Title: "Reference sheet",
		ContentType: models.ContentTypeFile, Attachment: "/uploads/lessons/old.pdf", Position: 1,
	}
	f.lessons.lessons[lesson.ID] = lesson

	require.NoError(t, f.service.DeleteLesson(context.Background(), f.instructor, lesson.ID))
	assert.Equal(t, []string{"/uploads/lessons/old.pdf"}, f.cleaner.scheduled)

	_, err := f.lessons.GetByID(context.Background(), lesson.ID)
	assert.ErrorIs(t, err, apperrors.ErrLessonNotFound)
}

func TestGetDetailForEnrolledStudent(t *testing.T) {
	f := newLessonServiceFixture(t)
	ctx := context.Background()
	f.enrollments.add(f.student.ID, f.course.ID)

	for i, title := range []string{"Lesson one intro", "Lesson two middle", "Lesson three end"} {
		f.lessons.lessons[int64(i+1)] = &models.Lesson{
			ID: int64(i + 1), CourseID: f.course.ID, Title: title,
			ContentType: models.ContentTypeText, TextContent: "body", Position: i + 1,
		}
	}

	detail, err := f.service.GetDetail(ctx, f.student, 2)
	require.NoError(t, err)

	require.NotNil(t, detail.Progress)
	assert.Equal(t, f.student.ID, detail.Progress.UserID)
	require.NotNil(t, detail.PreviousLesson)
	require.NotNil(t, detail.NextLesson)
	assert.Equal(t, int64(1), detail.PreviousLesson.ID)
	assert.Equal(t, int64(3), detail.NextLesson.ID)

	// Edges have no neighbour on one side
	first, err := f.service.GetDetail(ctx, f.student, 1)
	require.NoError(t, err)
	assert.Nil(t, first.PreviousLesson)
	require.NotNil(t, first.NextLesson)
}

func TestGetDetailRequiresEnrollment(t *testing.T) {
	f := newLessonServiceFixture(t)
	f.lessons.lessons[1] = &models.Lesson{
		ID: 1, CourseID: f.course.ID, Title: "Members only lesson",
		ContentType: models.ContentTypeText, TextContent: "body", Position: 1,
	}

	_, err := f.service.GetDetail(context.Background(), f.student, 1)
	assert.ErrorIs(t, err, apperrors.ErrNotEnrolled)
}

func TestGetDetailInstructorLeavesNoProgressRow(t *testing.T) {
	f := newLessonServiceFixture(t)
	f.lessons.lessons[1] = &models.Lesson{
		ID: 1, CourseID: f.course.ID, Title: "Preview as owner",
		ContentType: models.ContentTypeText, TextContent: "body", Position: 1,
	}

	detail, err := f.service.GetDetail(context.Background(), f.instructor, 1)
	require.NoError(t, err)
	assert.Nil(t, detail.Progress)
	assert.Empty(t, f.progress.rows)
}

func TestReorderValidation(t *testing.T) {
	f := newLessonServiceFixture(t)
	ctx := context.Background()
	f.lessons.lessons[1] = &models.Lesson{ID: 1, CourseID: f.course.ID, Position: 1}
	f.lessons.lessons[2] = &models.Lesson{ID: 2, CourseID: f.course.ID, Position: 2}

	tests := []struct {
		name   string
		orders []dto.LessonOrder
	}{
		{"empty request", nil},
		{"duplicate lesson", []dto.LessonOrder{{ID: 1, Order: 1}, {ID: 1, Order: 2}}},
		{"duplicate position", []dto.LessonOrder{{ID: 1, Order: 1}, {ID: 2, Order: 1}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := f.service.Reorder(ctx, f.instructor, f.course.ID, &dto.ReorderRequest{LessonOrders: tt.orders})
			assert.ErrorIs(t, err, apperrors.ErrBadRequest)
		})
	}
}

func TestReorderRejectsForeignLessons(t *testing.T) {
	f := newLessonServiceFixture(t)
	f.lessons.lessons[1] = &models.Lesson{ID: 1, CourseID: f.course.ID, Position: 1}
	f.lessons.lessons[9] = &models.Lesson{ID: 9, CourseID: 999, Position: 1}

	err := f.service.Reorder(context.Background(), f.instructor, f.course.ID, &dto.ReorderRequest{
		LessonOrders: []dto.LessonOrder{{ID: 1, Order: 2}, {ID: 9, Order: 1}},
	})
	assert.ErrorIs(t, err, apperrors.ErrLessonOutsideCourse)

	// Nothing moved
	assert.Equal(t, 1, f.lessons.lessons[1].Position)
}

func TestReorderAppliesPositions(t *testing.T) {
	f := newLessonServiceFixture(t)
	f.lessons.lessons[1] = &models.Lesson{ID: 1, CourseID: f.course.ID, Position: 1}
	f.lessons.lessons[2] = &models.Lesson{ID: 2, CourseID: f.course.ID, Position: 2}
	f.lessons.lessons[3] = &models.Lesson{ID: 3, CourseID: f.course.ID, Position: 3}

	err := f.service.Reorder(context.Background(), f.instructor, f.course.ID, &dto.ReorderRequest{
		LessonOrders: []dto.LessonOrder{{ID: 3, Order: 1}, {ID: 1, Order: 2}, {ID: 2, Order: 3}},
	})
	require.NoError(t, err)

	assert.Equal(t, 1, f.lessons.lessons[3].Position)
	assert.Equal(t, 2, f.lessons.lessons[1].Position)
	assert.Equal(t, 3, f.lessons.lessons[2].Position)
}

func TestReorderLeavesUnmentionedLessonsAlone(t *testing.T) {
	f := newLessonServiceFixture(t)
	f.lessons.lessons[1] = &models.Lesson{ID: 1, CourseID: f.course.ID, Position: 1}
	f.lessons.lessons[2] = &models.Lesson{ID: 2, CourseID: f.course.ID, Position: 2}
	f.lessons.lessons[3] = &models.Lesson{ID: 3, CourseID: f.course.ID, Position: 3}
	f.lessons.lessons[4] = &models.Lesson{ID: 4, CourseID: f.course.ID, Position: 4}

	err := f.service.Reorder(context.Background(), f.instructor, f.course.ID, &dto.ReorderRequest{
		LessonOrders: []dto.LessonOrder{{ID: 1, Order: 2}, {ID: 2, Order: 1}},
	})
	require.NoError(t, err)

	assert.Equal(t, 2, f.lessons.lessons[1].Position)
	assert.Equal(t, 1, f.lessons.lessons[2].Position)
	assert.Equal(t, 3, f.lessons.lessons[3].Position, "lessons outside the request keep their positions")
	assert.Equal(t, 4, f.lessons.lessons[4].Position, "lessons outside the request keep their positions")
}

func TestReorderRequiresManager(t *testing.T) {
	f := newLessonServiceFixture(t)
	f.lessons.lessons[1] = &models.Lesson{ID: 1, CourseID: f.course.ID, Position: 1}

	err := f.service.Reorder(context.Background(), f.student, f.course.ID, &dto.ReorderRequest{
		LessonOrders: []dto.LessonOrder{{ID: 1, Order: 1}},
	})
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)
}
