package model

import "github.com/google/uuid"

type ReactionKind string

const (
	ReactionLike    ReactionKind = "like"
	ReactionDislike ReactionKind = "dislike"
)

// Reactions holds the per-photo membership sets in the order users reacted.
// Counters are never stored; they are the sizes of these sets.
type Reactions struct {
	LikedBy    []uuid.UUID `json:"likedBy"`
	DislikedBy []uuid.UUID `json:"dislikedBy"`
}

func (r Reactions) Like() int    { return len(r.LikedBy) }
func (r Reactions) Dislike() int { return len(r.DislikedBy) }

// KindOf reports the reaction a user currently holds, or "" if none.
func (r Reactions) KindOf(userID uuid.UUID) ReactionKind {
	if indexOf(r.LikedBy, userID) >= 0 {
		return ReactionLike
	}
	if indexOf(r.DislikedBy, userID) >= 0 {
		return ReactionDislike
	}
	return ""
}

func (r Reactions) Response() ReactionResponse {
	likedBy := make([]uuid.UUID, len(r.LikedBy))
	copy(likedBy, r.LikedBy)
	dislikedBy := make([]uuid.UUID, len(r.DislikedBy))
	copy(dislikedBy, r.DislikedBy)
	return ReactionResponse{
		Like:       r.Like(),
		Dislike:    r.Dislike(),
		LikedBy:    likedBy,
		DislikedBy: dislikedBy,
	}
}

type ReactionResponse struct {
	Like       int         `json:"like"`
	Dislike    int         `json:"dislike"`
	LikedBy    []uuid.UUID `json:"likedBy"`
	DislikedBy []uuid.UUID `json:"dislikedBy"`
}

func indexOf(ids []uuid.UUID, id uuid.UUID) int {
	for i, v := range ids {
		if v == id {
			return i
		}
	}
	return -1
}
