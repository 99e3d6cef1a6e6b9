package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/photoshare/backend/internal/db"
	"github.com/photoshare/backend/internal/model"
)

type PhotoRepo interface {
	CreatePhoto(ctx context.Context, photo *model.Photo) (*model.Photo, error)
	GetPhoto(ctx context.Context, photoID uuid.UUID) (*model.Photo, error)
	DeletePhoto(ctx context.Context, photoID uuid.UUID) error
	CreateComment(ctx context.Context, photoID, userID uuid.UUID, body string) (*model.Comment, error)
	GetComment(ctx context.Context, photoID, commentID uuid.UUID) (*model.Comment, error)
	DeleteComment(ctx context.Context, photoID, commentID uuid.UUID) error
}

type PhotoService struct {
	repo PhotoRepo
	now  func() time.Time
}

func NewPhotoService(repo PhotoRepo) *PhotoService {
	return &PhotoService{repo: repo, now: time.Now}
}

// CreatePhoto records an already hosted image for the acting user.
// Reactions start empty.
func (s *PhotoService) CreatePhoto(ctx context.Context, actor *model.AuthContext, fileName string) (*model.Photo, error) {
	if actor == nil {
		return nil, ErrUnauthenticated
	}
	fileName = strings.TrimSpace(fileName)
	if fileName == "" {
		return nil, fmt.Errorf("%w: no photo uploaded", ErrValidation)
	}

	photo, err := s.repo.CreatePhoto(ctx, &model.Photo{
		ID:       uuid.New(),
		UserID:   actor.ID,
		FileName: fileName,
		DateTime: s.now().UTC(),
	})
	if db.IsForeignKeyViolation(err) {
		return nil, ErrUnauthenticated
	}
	return photo, err
}

// DeletePhoto is allowed for the owner and for admins.
func (s *PhotoService) DeletePhoto(ctx context.Context, actor *model.AuthContext, photoID uuid.UUID) error {
	if actor == nil {
		return ErrUnauthenticated
	}
	photo, err := s.getPhoto(ctx, photoID)
	if err != nil {
		return err
	}
	if photo.UserID != actor.ID && !actor.IsAdmin {
		return ErrForbidden
	}
	if err := s.repo.DeletePhoto(ctx, photoID); err != nil {
		if db.IsNoRows(err) {
			return ErrNotFound
		}
		return err
	}
	return nil
}

func (s *PhotoService) AddComment(ctx context.Context, actor *model.AuthContext, photoID uuid.UUID, text string) (*model.Comment, error) {
	if actor == nil {
		return nil, ErrUnauthenticated
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, fmt.Errorf("%w: comment cannot be empty", ErrValidation)
	}
	if _, err := s.getPhoto(ctx, photoID); err != nil {
		return nil, err
	}
	comment, err := s.repo.CreateComment(ctx, photoID, actor.ID, text)
	if err != nil {
		if db.IsForeignKeyViolation(err) {
			return nil, ErrUnauthenticated
		}
		if db.IsNoRows(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return comment, nil
}

// DeleteComment is allowed for the comment author, the photo owner and admins.
func (s *PhotoService) DeleteComment(ctx context.Context, actor *model.AuthContext, photoID, commentID uuid.UUID) error {
	if actor == nil {
		return ErrUnauthenticated
	}
	photo, err := s.getPhoto(ctx, photoID)
	if err != nil {
		return err
	}
	comment, err := s.repo.GetComment(ctx, photoID, commentID)
	if err != nil {
		if db.IsNoRows(err) {
			return ErrNotFound
		}
		return err
	}

	isAuthor := comment.User != nil && comment.User.ID == actor.ID
	if !isAuthor && photo.UserID != actor.ID && !actor.IsAdmin {
		return ErrForbidden
	}

	if err := s.repo.DeleteComment(ctx, photoID, commentID); err != nil {
		if db.IsNoRows(err) {
			return ErrNotFound
		}
		return err
	}
	return nil
}

func (s *PhotoService) getPhoto(ctx context.Context, photoID uuid.UUID) (*model.Photo, error) {
	photo, err := s.repo.GetPhoto(ctx, photoID)
	if err != nil {
		if db.IsNoRows(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return photo, nil
}
