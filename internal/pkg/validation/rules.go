package validation

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/dmorales/aulago/internal/app/models"
)

// Field length bounds
const (
	TitleMinLength       = 5
	TitleMaxLength       = 200
	DescriptionMinLength = 20
	CommentMinLength     = 10
	CommentMaxLength     = 1000
)

// Default attachment size caps in bytes, overridable via configuration
const (
	DefaultMaxVideoSize = 100 * 1024 * 1024
	DefaultMaxImageSize = 10 * 1024 * 1024
	DefaultMaxFileSize  = 50 * 1024 * 1024
)

// Extension allow-lists per content type
var (
	VideoExtensions = []string{".mp4", ".webm", ".mov", ".avi", ".mkv", ".m4v"}
	ImageExtensions = []string{".jpg", ".jpeg", ".png", ".gif", ".webp", ".svg"}
	FileExtensions  = []string{".pdf", ".doc", ".docx", ".zip", ".rar", ".txt", ".xlsx", ".xls", ".pptx", ".ppt"}
)

// AttachmentLimits holds the effective size caps per content type
type AttachmentLimits struct {
	MaxVideoSize int64
	MaxImageSize int64
	MaxFileSize  int64
}

// DefaultAttachmentLimits returns the built-in caps
func DefaultAttachmentLimits() AttachmentLimits {
	return AttachmentLimits{
		MaxVideoSize: DefaultMaxVideoSize,
		MaxImageSize: DefaultMaxImageSize,
		MaxFileSize:  DefaultMaxFileSize,
	}
}

func hasAllowedExtension(filename string, allowed []string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	for _, a := range allowed {
		if ext == a {
			return true
		}
	}
	return false
}

// ValidateAttachment checks an uploaded file's extension and size against the
// allow-list and cap for the lesson's content type. Returns a user-facing
// message when invalid, empty string when fine.
func ValidateAttachment(filename string, size int64, contentType models.ContentType, limits AttachmentLimits) string {
	switch contentType {
	case models.ContentTypeVideo:
		if !hasAllowedExtension(filename, VideoExtensions) {
			return "upload a valid video file (MP4, WebM, MOV, AVI, MKV, M4V) or use a video URL"
		}
		if size > limits.MaxVideoSize {
			return fmt.Sprintf("video is too large, maximum size is %d MB", limits.MaxVideoSize/(1024*1024))
		}
	case models.ContentTypeImage:
		if !hasAllowedExtension(filename, ImageExtensions) {
			return "upload a valid image file (JPG, PNG, GIF, WEBP, SVG)"
		}
		if size > limits.MaxImageSize {
			return fmt.Sprintf("image is too large, maximum size is %d MB", limits.MaxImageSize/(1024*1024))
		}
	case models.ContentTypeText, models.ContentTypeFile:
		// Text lessons may still carry a supporting file; same rules as file.
		if !hasAllowedExtension(filename, FileExtensions) {
			return "upload a valid document (PDF, DOC, DOCX, ZIP, RAR, TXT, XLSX, PPTX, ...)"
		}
		if size > limits.MaxFileSize {
			return fmt.Sprintf("file is too large, maximum size is %d MB", limits.MaxFileSize/(1024*1024))
		}
	}
	return ""
}

// ValidateTitle returns a message when a course or lesson title is out of
// bounds
func ValidateTitle(title string) string {
	title = strings.TrimSpace(title)
	if len(title) < TitleMinLength {
		return fmt.Sprintf("title must be at least %d characters", TitleMinLength)
	}
	if len(title) > TitleMaxLength {
		return fmt.Sprintf("title cannot exceed %d characters", TitleMaxLength)
	}
	return ""
}

// ValidateCourseDescription returns a message when the description is too short
func ValidateCourseDescription(description string) string {
	if len(strings.TrimSpace(description)) < DescriptionMinLength {
		return fmt.Sprintf("description must be at least %d characters", DescriptionMinLength)
	}
	return ""
}

// ValidateComment returns a message when the comment body is out of bounds
func ValidateComment(content string) string {
	content = strings.TrimSpace(content)
	if len(content) < CommentMinLength {
		return fmt.Sprintf("comment must be at least %d characters", CommentMinLength)
	}
	if len(content) > CommentMaxLength {
		return fmt.Sprintf("comment cannot exceed %d characters", CommentMaxLength)
	}
	return ""
}
