package models

// RoleType defines a user role
type RoleType string

const (
	RoleAdmin      RoleType = "ADMIN"
	RoleInstructor RoleType = "INSTRUCTOR"
	RoleStudent    RoleType = "STUDENT"
)

// ContentType defines what kind of content a lesson carries
type ContentType string

const (
	ContentTypeVideo ContentType = "video"
	ContentTypeText  ContentType = "text"
	ContentTypeImage ContentType = "image"
	ContentTypeFile  ContentType = "file"
)

// IsValid reports whether the content type is one of the known values
func (c ContentType) IsValid() bool {
	switch c {
	case ContentTypeVideo, ContentTypeText, ContentTypeImage, ContentTypeFile:
		return true
	}
	return false
}
