package filestorage

import "mime/multipart"

// FileStorage defines the interface for blob storage operations
type FileStorage interface {
	// SaveFile saves an uploaded file and returns its accessible path
	SaveFile(fileHeader *multipart.FileHeader) (string, error)

	// SaveFileWithPath saves into a subdirectory
	SaveFileWithPath(fileHeader *multipart.FileHeader, subPath string) (string, error)

	// DeleteFile removes a file; deleting an absent file is not an error
	DeleteFile(filePath string) error

	// Exists reports whether a stored path still resolves to a file
	Exists(filePath string) bool
}
