package filestorage

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/dmorales/aulago/internal/pkg/logger"
)

// LocalStorage stores lesson attachments on the local filesystem.
type LocalStorage struct {
	basePath string
	baseURL  string // prepended to returned paths when set
}

// NewLocalStorage creates a LocalStorage rooted at basePath.
func NewLocalStorage(basePath, baseURL string) (*LocalStorage, error) {
	if err := os.MkdirAll(basePath, os.ModePerm); err != nil {
		logger.Error().Err(err).Str("path", basePath).Msg("Failed to create storage directory")
		return nil, fmt.Errorf("failed to create storage directory %s: %w", basePath, err)
	}

	return &LocalStorage{
		basePath: basePath,
		baseURL:  baseURL,
	}, nil
}

// SaveFileWithPath saves an uploaded file into a subdirectory under the
// storage root. The stored name is a fresh uuid plus the original extension,
// so distinct uploads never collide.
func (ls *LocalStorage) SaveFileWithPath(fileHeader *multipart.FileHeader, subPath string) (string, error) {
	if fileHeader == nil {
		return "", nil
	}

	file, err := fileHeader.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer file.Close()

	fullDirPath := ls.basePath
	if subPath != "" {
		fullDirPath = filepath.Join(ls.basePath, subPath)
		if err := os.MkdirAll(fullDirPath, os.ModePerm); err != nil {
			return "", fmt.Errorf("failed to create subdirectory: %w", err)
		}
	}

	ext := filepath.Ext(fileHeader.Filename)
	uniqueFilename := uuid.New().String() + ext
	dstPath := filepath.Join(fullDirPath, uniqueFilename)

	dst, err := os.Create(dstPath)
	if err != nil {
		return "", fmt.Errorf("failed to create destination file: %w", err)
	}
	defer dst.Close()

	if _, err = io.Copy(dst, file); err != nil {
		_ = os.Remove(dstPath)
		return "", fmt.Errorf("failed to save file content: %w", err)
	}

	storedPath := uniqueFilename
	if subPath != "" {
		storedPath = subPath + "/" + uniqueFilename
	}

	var accessiblePath string
	if ls.baseURL != "" {
		accessiblePath = strings.TrimRight(ls.baseURL, "/") + "/" + storedPath
	} else {
		accessiblePath = storedPath
	}

	logger.Info().Str("filename", fileHeader.Filename).Str("saved_as", storedPath).Msg("File saved")
	return accessiblePath, nil
}

// SaveFile saves an uploaded file at the storage root
func (ls *LocalStorage) SaveFile(fileHeader *multipart.FileHeader) (string, error) {
	return ls.SaveFileWithPath(fileHeader, "")
}

// physicalPath maps a stored path or URL back to the file on disk.
func (ls *LocalStorage) physicalPath(filePath string) string {
	if filePath == "" {
		return ""
	}
	// Strip the base URL when present; what remains is relative to basePath.
	if ls.baseURL != "" && strings.HasPrefix(filePath, ls.baseURL) {
		filePath = strings.TrimLeft(strings.TrimPrefix(filePath, ls.baseURL), "/")
	}
	rel := filepath.Clean("/" + filePath)[1:] // keep it inside basePath
	if rel == "" || rel == "." {
		return ""
	}
	return filepath.Join(ls.basePath, rel)
}

// DeleteFile removes a file from storage. Deleting a file that no longer
// exists is treated as success.
func (ls *LocalStorage) DeleteFile(filePath string) error {
	physical := ls.physicalPath(filePath)
	if physical == "" {
		return nil
	}

	if _, err := os.Stat(physical); os.IsNotExist(err) {
		logger.Warn().Str("path", physical).Msg("File to delete does not exist")
		return nil
	}

	if err := os.Remove(physical); err != nil {
		return fmt.Errorf("failed to delete file: %w", err)
	}

	logger.Info().Str("path", physical).Msg("File deleted")
	return nil
}

// Exists reports whether the stored path still resolves to a file on disk
func (ls *LocalStorage) Exists(filePath string) bool {
	physical := ls.physicalPath(filePath)
	if physical == "" {
		return false
	}
	_, err := os.Stat(physical)
	return err == nil
}
