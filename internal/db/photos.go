package db

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/photoshare/backend/internal/model"
)

func (db *Postgres) CreatePhoto(ctx context.Context, photo *model.Photo) (*model.Photo, error) {
	query := `
		INSERT INTO photos (id, user_id, file_name, date_time, created_at)
		VALUES ($1, $2, $3, $4, NOW())
		RETURNING id, user_id, file_name, date_time
	`
	var created model.Photo
	err := db.Pool.QueryRow(ctx, query, photo.ID, photo.UserID, photo.FileName, photo.DateTime).Scan(
		&created.ID,
		&created.UserID,
		&created.FileName,
		&created.DateTime,
	)
	if err != nil {
		return nil, err
	}
	created.Comments = []model.Comment{}
	created.ReactionResponse = model.Reactions{}.Response()
	return &created, nil
}

func (db *Postgres) GetPhoto(ctx context.Context, photoID uuid.UUID) (*model.Photo, error) {
	query := `
		SELECT id, user_id, file_name, date_time
		FROM photos
		WHERE id = $1
	`
	var photo model.Photo
	err := db.Pool.QueryRow(ctx, query, photoID).Scan(
		&photo.ID,
		&photo.UserID,
		&photo.FileName,
		&photo.DateTime,
	)
	if err != nil {
		return nil, err
	}

	reactions, err := loadReactions(ctx, db.Pool, photoID)
	if err != nil {
		return nil, err
	}
	photo.ReactionResponse = reactions.Response()
	return &photo, nil
}

// DeletePhoto removes the photo; comments and reactions cascade.
func (db *Postgres) DeletePhoto(ctx context.Context, photoID uuid.UUID) error {
	result, err := db.Pool.Exec(ctx, `DELETE FROM photos WHERE id = $1`, photoID)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (db *Postgres) CreateComment(ctx context.Context, photoID, userID uuid.UUID, body string) (*model.Comment, error) {
	query := `
		WITH inserted AS (
			INSERT INTO photo_comments (id, photo_id, user_id, body, date_time)
			VALUES ($1, $2, $3, $4, NOW())
			RETURNING id, photo_id, user_id, body, date_time
		)
		SELECT i.id, i.photo_id, i.body, i.date_time, u.id, u.first_name, u.last_name
		FROM inserted i
		JOIN users u ON u.id = i.user_id
	`
	var (
		comment model.Comment
		author  model.CommentUser
	)
	err := db.Pool.QueryRow(ctx, query, uuid.New(), photoID, userID, body).Scan(
		&comment.ID,
		&comment.PhotoID,
		&comment.Comment,
		&comment.DateTime,
		&author.ID,
		&author.FirstName,
		&author.LastName,
	)
	if err != nil {
		return nil, err
	}
	comment.User = &author
	return &comment, nil
}

func (db *Postgres) GetComment(ctx context.Context, photoID, commentID uuid.UUID) (*model.Comment, error) {
	query := `
		SELECT c.id, c.photo_id, c.body, c.date_time, u.id, u.first_name, u.last_name
		FROM photo_comments c
		JOIN users u ON u.id = c.user_id
		WHERE c.id = $1 AND c.photo_id = $2
	`
	var (
		comment model.Comment
		author  model.CommentUser
	)
	err := db.Pool.QueryRow(ctx, query, commentID, photoID).Scan(
		&comment.ID,
		&comment.PhotoID,
		&comment.Comment,
		&comment.DateTime,
		&author.ID,
		&author.FirstName,
		&author.LastName,
	)
	if err != nil {
		return nil, err
	}
	comment.User = &author
	return &comment, nil
}

func (db *Postgres) DeleteComment(ctx context.Context, photoID, commentID uuid.UUID) error {
	result, err := db.Pool.Exec(ctx, `
		DELETE FROM photo_comments
		WHERE id = $1 AND photo_id = $2
	`, commentID, photoID)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
