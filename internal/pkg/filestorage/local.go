package filestorage

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/yigit/academy/internal/pkg/logger"
)

// ErrInvalidPath is returned for paths that escape the storage root
var ErrInvalidPath = errors.New("invalid storage path")

// StoredFile describes an uploaded object
type StoredFile struct {
	Name     string // original filename
	Path     string // key relative to the storage root, always slash separated
	URL      string // public URL
	Size     int64
	MimeType string
}

// FileStorage is the object storage used for course files
type FileStorage interface {
	Upload(fileHeader *multipart.FileHeader, dir string) (*StoredFile, error)
	Remove(key string) error
	PublicURL(key string) string
}

// LocalStorage handles saving files to the local filesystem.
type LocalStorage struct {
	basePath string // root directory on disk
	baseURL  string // URL prefix the root is served under
}

// NewLocalStorage creates a new LocalStorage instance rooted at basePath.
// baseURL is prepended to keys when building public URLs.
func NewLocalStorage(basePath, baseURL string) (*LocalStorage, error) {
	if err := os.MkdirAll(basePath, os.ModePerm); err != nil {
		logger.Error().Err(err).Str("path", basePath).Msg("Failed to create storage directory")
		return nil, fmt.Errorf("failed to create storage directory %s: %w", basePath, err)
	}
	logger.Info().Str("path", basePath).Msg("Local storage directory ensured")

	return &LocalStorage{
		basePath: basePath,
		baseURL:  strings.TrimRight(baseURL, "/"),
	}, nil
}

func cleanKey(key string) (string, error) {
	key = strings.TrimPrefix(path.Clean("/"+filepath.ToSlash(key)), "/")
	if key == "" || key == "." || strings.HasPrefix(key, "..") {
		return "", fmt.Errorf("%w: %q", ErrInvalidPath, key)
	}
	return key, nil
}

// Upload saves the file under dir with a collision-free name
func (ls *LocalStorage) Upload(fileHeader *multipart.FileHeader, dir string) (*StoredFile, error) {
	if fileHeader == nil {
		return nil, fmt.Errorf("no file provided")
	}

	src, err := fileHeader.Open()
	if err != nil {
		logger.Error().Err(err).Str("filename", fileHeader.Filename).Msg("Failed to open uploaded file")
		return nil, fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer src.Close()

	key, err := cleanKey(path.Join(dir, uuid.New().String()+strings.ToLower(filepath.Ext(fileHeader.Filename))))
	if err != nil {
		return nil, err
	}

	dstPath := filepath.Join(ls.basePath, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(dstPath), os.ModePerm); err != nil {
		logger.Error().Err(err).Str("path", dstPath).Msg("Failed to create subdirectory")
		return nil, fmt.Errorf("failed to create subdirectory: %w", err)
	}

	dst, err := os.Create(dstPath)
	if err != nil {
		logger.Error().Err(err).Str("path", dstPath).Msg("Failed to create destination file")
		return nil, fmt.Errorf("failed to create destination file: %w", err)
	}
	defer dst.Close()

	written, err := io.Copy(dst, src)
	if err != nil {
		logger.Error().Err(err).Str("path", dstPath).Msg("Failed to copy uploaded file content")
		_ = os.Remove(dstPath)
		return nil, fmt.Errorf("failed to save file content: %w", err)
	}

	mimeType := fileHeader.Header.Get("Content-Type")
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}

	stored := &StoredFile{
		Name:     filepath.Base(fileHeader.Filename),
		Path:     key,
		URL:      ls.PublicURL(key),
		Size:     written,
		MimeType: mimeType,
	}
	logger.Info().Str("filename", stored.Name).Str("key", key).Int64("size", written).Msg("File saved successfully")
	return stored, nil
}

// Remove deletes the object stored under key. Missing files are not an error.
func (ls *LocalStorage) Remove(key string) error {
	key, err := cleanKey(key)
	if err != nil {
		return err
	}

	physicalPath := filepath.Join(ls.basePath, filepath.FromSlash(key))
	if err := os.Remove(physicalPath); err != nil {
		if os.IsNotExist(err) {
			logger.Warn().Str("path", physicalPath).Msg("File to delete does not exist")
			return nil
		}
		logger.Error().Err(err).Str("path", physicalPath).Msg("Failed to delete file")
		return fmt.Errorf("failed to delete file: %w", err)
	}

	logger.Info().Str("path", physicalPath).Msg("File deleted successfully")
	return nil
}

// PublicURL returns the URL the object is served under
func (ls *LocalStorage) PublicURL(key string) string {
	key = strings.TrimLeft(filepath.ToSlash(key), "/")
	if ls.baseURL == "" {
		return "/" + key
	}
	return ls.baseURL + "/" + key
}

// BasePath returns the directory served as static files
func (ls *LocalStorage) BasePath() string {
	return ls.basePath
}
