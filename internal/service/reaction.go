package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/photoshare/backend/internal/db"
	"github.com/photoshare/backend/internal/model"
)

// ReactionRepo applies fn to a photo's reactions as one atomic
// read-modify-write and returns the stored result.
type ReactionRepo interface {
	UpdatePhotoReactions(ctx context.Context, photoID uuid.UUID, fn func(*model.Reactions) error) (model.Reactions, error)
}

type ReactionService struct {
	repo ReactionRepo
}

func NewReactionService(repo ReactionRepo) *ReactionService {
	return &ReactionService{repo: repo}
}

func (s *ReactionService) ToggleLike(ctx context.Context, photoID uuid.UUID, actor *model.AuthContext) (model.ReactionResponse, error) {
	return s.toggle(ctx, photoID, actor, model.ReactionLike)
}

func (s *ReactionService) ToggleDislike(ctx context.Context, photoID uuid.UUID, actor *model.AuthContext) (model.ReactionResponse, error) {
	return s.toggle(ctx, photoID, actor, model.ReactionDislike)
}

func (s *ReactionService) toggle(ctx context.Context, photoID uuid.UUID, actor *model.AuthContext, kind model.ReactionKind) (model.ReactionResponse, error) {
	if actor == nil {
		return model.ReactionResponse{}, ErrUnauthenticated
	}
	if actor.ID == uuid.Nil {
		return model.ReactionResponse{}, fmt.Errorf("%w: no identity attached", ErrValidation)
	}
	if photoID == uuid.Nil {
		return model.ReactionResponse{}, fmt.Errorf("%w: photo id is required", ErrValidation)
	}

	reactions, err := s.repo.UpdatePhotoReactions(ctx, photoID, func(r *model.Reactions) error {
		applyToggle(r, actor.ID, kind)
		return nil
	})
	if err != nil {
		if db.IsNoRows(err) {
			return model.ReactionResponse{}, ErrNotFound
		}
		// The token outlived its user row.
		if db.IsForeignKeyViolation(err) {
			return model.ReactionResponse{}, ErrUnauthenticated
		}
		return model.ReactionResponse{}, err
	}
	return reactions.Response(), nil
}

// applyToggle is the reaction state machine. Toggling the reaction a user
// already holds removes it; otherwise the opposite reaction is cleared first
// and the requested one is added.
func applyToggle(r *model.Reactions, userID uuid.UUID, kind model.ReactionKind) {
	own, opposite := &r.LikedBy, &r.DislikedBy
	if kind == model.ReactionDislike {
		own, opposite = opposite, own
	}

	if contains(*own, userID) {
		*own = without(*own, userID)
		return
	}
	*opposite = without(*opposite, userID)
	*own = append(*own, userID)
}

func contains(ids []uuid.UUID, id uuid.UUID) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

func without(ids []uuid.UUID, id uuid.UUID) []uuid.UUID {
	out := make([]uuid.UUID, 0, len(ids))
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}
