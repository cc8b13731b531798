package dto

import (
	"time"

	"github.com/dmorales/aulago/internal/app/models"
)

// LessonResponse is the public view of a lesson
type LessonResponse struct {
	ID            int64              `json:"id"`
	CourseID      int64              `json:"courseId"`
	Title         string             `json:"title"`
	ContentType   models.ContentType `json:"contentType" enums:"video,text,image,file"`
	TextContent   string             `json:"textContent,omitempty"`
	VideoURL      string             `json:"videoUrl,omitempty"`
	VideoEmbedURL string             `json:"videoEmbedUrl,omitempty"`
	Attachment    string             `json:"attachment,omitempty"`
	Order         int                `json:"order"`
	CreatedAt     time.Time          `json:"createdAt"`
}

// LessonDetailResponse is the lesson detail read model with navigation
type LessonDetailResponse struct {
	Lesson         LessonResponse         `json:"lesson"`
	Progress       *models.LessonProgress `json:"progress"`
	PreviousLesson *LessonResponse        `json:"previousLesson,omitempty"`
	NextLesson     *LessonResponse        `json:"nextLesson,omitempty"`
}

// LessonOrder is one entry of a reorder request
type LessonOrder struct {
	ID    int64 `json:"id"`
	Order int   `json:"order"`
}

// ReorderRequest is the bulk reorder payload
type ReorderRequest struct {
	LessonOrders []LessonOrder `json:"lesson_orders"`
}
