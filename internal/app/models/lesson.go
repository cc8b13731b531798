package models

import (
	"path"
	"regexp"
	"strings"
	"time"
)

// Lesson is a single unit of course content. Position is the lesson's ordinal
// within its course; unique per course, contiguous on creation but allowed to
// have gaps after edits.
type Lesson struct {
	ID          int64       `db:"id" json:"id"`
	CourseID    int64       `db:"course_id" json:"courseId"`
	Title       string      `db:"title" json:"title"`
	ContentType ContentType `db:"content_type" json:"contentType"`
	TextContent string      `db:"text_content" json:"textContent,omitempty"`
	VideoURL    string      `db:"video_url" json:"videoUrl,omitempty"`
	Attachment  string      `db:"attachment" json:"attachment,omitempty"`
	Position    int         `db:"position" json:"order"`
	CreatedAt   time.Time   `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time   `db:"updated_at" json:"updatedAt"`
}

var youtubeWatchRe = regexp.MustCompile(`(?:youtube\.com/watch\?v=|youtu\.be/)([a-zA-Z0-9_-]+)`)

// VideoEmbedURL converts YouTube watch URLs to embed form. Other URLs are
// returned unchanged.
func (l *Lesson) VideoEmbedURL() string {
	if l.VideoURL == "" {
		return ""
	}
	if m := youtubeWatchRe.FindStringSubmatch(l.VideoURL); m != nil {
		return "https://www.youtube.com/embed/" + m[1]
	}
	return l.VideoURL
}

// AttachmentName returns the stored attachment's file name without its path
func (l *Lesson) AttachmentName() string {
	if l.Attachment == "" {
		return ""
	}
	return path.Base(l.Attachment)
}

// HasVideoAttachment reports whether the attachment looks like a video file
func (l *Lesson) HasVideoAttachment() bool {
	if l.Attachment == "" {
		return false
	}
	name := strings.ToLower(l.Attachment)
	for _, ext := range []string{".mp4", ".webm", ".mov", ".avi", ".mkv", ".m4v"} {
		if strings.HasSuffix(name, ext) {
			return true
		}
	}
	return false
}
