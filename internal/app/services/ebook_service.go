package services

import (
	"context"
	"fmt"
	"mime/multipart"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/yigit/academy/internal/app/models"
	"github.com/yigit/academy/internal/db"
	"github.com/yigit/academy/internal/pkg/apperrors"
	"github.com/yigit/academy/internal/pkg/filestorage"
)

// MaxEBookSize caps a single uploaded eBook
const MaxEBookSize = 50 << 20

// EBookService manages the eBooks attached to a course
type EBookService interface {
	ListEBooks(ctx context.Context, courseID int64) ([]models.EBook, error)
	UploadEBook(ctx context.Context, courseID int64, file *multipart.FileHeader, actor string) (*models.EBook, error)
	DeleteEBook(ctx context.Context, courseID int64, ebookID string) error
}

type ebookServiceImpl struct {
	tx      db.Transactor
	courses CourseStore
	storage filestorage.FileStorage
	now     func() time.Time
	logger  zerolog.Logger
}

// NewEBookService creates a new EBookService
func NewEBookService(tx db.Transactor, courses CourseStore, storage filestorage.FileStorage, logger zerolog.Logger) EBookService {
	return &ebookServiceImpl{
		tx:      tx,
		courses: courses,
		storage: storage,
		now:     time.Now,
		logger:  logger.With().Str("service", "ebook").Logger(),
	}
}

func ebookDir(courseID int64) string {
	return filepath.ToSlash(filepath.Join("ebooks", strconv.FormatInt(courseID, 10)))
}

func (s *ebookServiceImpl) ListEBooks(ctx context.Context, courseID int64) ([]models.EBook, error) {
	course, err := s.courses.GetByID(ctx, courseID)
	if err != nil {
		return nil, err
	}
	return course.EBooks, nil
}

// UploadEBook stores the file and appends its metadata. The stored file is removed
// again when the metadata write fails.
func (s *ebookServiceImpl) UploadEBook(ctx context.Context, courseID int64, file *multipart.FileHeader, actor string) (*models.EBook, error) {
	if file == nil || strings.TrimSpace(file.Filename) == "" {
		return nil, fmt.Errorf("%w: file is required", apperrors.ErrValidationFailed)
	}
	if file.Size > MaxEBookSize {
		return nil, fmt.Errorf("%w: file exceeds %d MB", apperrors.ErrValidationFailed, MaxEBookSize>>20)
	}
	if _, err := s.courses.GetByID(ctx, courseID); err != nil {
		return nil, err
	}

	stored, err := s.storage.Upload(file, ebookDir(courseID))
	if err != nil {
		return nil, fmt.Errorf("error storing eBook: %w", err)
	}

	book := models.EBook{
		ID:         uuid.NewString(),
		Name:       stored.Name,
		URL:        stored.URL,
		Path:       stored.Path,
		Size:       stored.Size,
		MimeType:   stored.MimeType,
		UploadedAt: s.now().UTC(),
		UploadedBy: actor,
	}

	err = s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		course, err := s.courses.GetByIDForUpdate(ctx, courseID)
		if err != nil {
			return err
		}
		return s.courses.UpdateEBooks(ctx, courseID, append(course.EBooks, book))
	})
	if err != nil {
		if rmErr := s.storage.Remove(stored.Path); rmErr != nil {
			s.logger.Warn().Err(rmErr).Str("path", stored.Path).Msg("Failed to clean up eBook file")
		}
		return nil, err
	}

	s.logger.Info().Int64("courseID", courseID).Str("ebookID", book.ID).Int64("size", book.Size).Msg("eBook uploaded")
	return &book, nil
}

// DeleteEBook removes the metadata entry, then the stored file
func (s *ebookServiceImpl) DeleteEBook(ctx context.Context, courseID int64, ebookID string) error {
	var removed models.EBook

	err := s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		course, err := s.courses.GetByIDForUpdate(ctx, courseID)
		if err != nil {
			return err
		}

		books := make([]models.EBook, 0, len(course.EBooks))
		found := false
		for _, b := range course.EBooks {
			if b.ID == ebookID {
				removed = b
				found = true
				continue
			}
			books = append(books, b)
		}
		if !found {
			return fmt.Errorf("%w: %s", apperrors.ErrEBookNotFound, ebookID)
		}
		return s.courses.UpdateEBooks(ctx, courseID, books)
	})
	if err != nil {
		return err
	}

	if removed.Path != "" {
		if err := s.storage.Remove(removed.Path); err != nil {
			s.logger.Warn().Err(err).Str("path", removed.Path).Msg("Failed to remove eBook file")
		}
	}
	return nil
}
