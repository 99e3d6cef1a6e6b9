package model

import (
	"time"

	"github.com/google/uuid"
)

type Photo struct {
	ID        uuid.UUID `json:"_id"`
	UserID    uuid.UUID `json:"user_id"`
	FileName  string    `json:"file_name"`
	DateTime  time.Time `json:"date_time"`
	Comments  []Comment `json:"comments"`
	ReactionResponse
}

type Comment struct {
	ID       uuid.UUID    `json:"_id"`
	PhotoID  uuid.UUID    `json:"-"`
	Comment  string       `json:"comment"`
	DateTime time.Time    `json:"date_time"`
	User     *CommentUser `json:"user"`
}

type CommentUser struct {
	ID        uuid.UUID `json:"_id"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
}

type CreatePhotoRequest struct {
	FileName string `json:"file_name"`
}

type CreatePhotoResponse struct {
	Message string `json:"message"`
	Photo   Photo  `json:"photo"`
}

type CreateCommentRequest struct {
	Comment string `json:"comment"`
}
