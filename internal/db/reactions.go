package db

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/photoshare/backend/internal/model"
)

type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

func loadReactions(ctx context.Context, q querier, photoID uuid.UUID) (model.Reactions, error) {
	rows, err := q.Query(ctx, `
		SELECT user_id, kind
		FROM photo_reactions
		WHERE photo_id = $1
		ORDER BY created_at ASC, user_id ASC
	`, photoID)
	if err != nil {
		return model.Reactions{}, err
	}
	defer rows.Close()

	reactions := model.Reactions{
		LikedBy:    []uuid.UUID{},
		DislikedBy: []uuid.UUID{},
	}
	for rows.Next() {
		var (
			userID uuid.UUID
			kind   string
		)
		if err := rows.Scan(&userID, &kind); err != nil {
			return model.Reactions{}, err
		}
		switch model.ReactionKind(kind) {
		case model.ReactionLike:
			reactions.LikedBy = append(reactions.LikedBy, userID)
		case model.ReactionDislike:
			reactions.DislikedBy = append(reactions.DislikedBy, userID)
		}
	}
	return reactions, rows.Err()
}

// UpdatePhotoReactions runs fn against the photo's current reactions while the
// photo row is locked, then writes back whatever fn changed in the same
// transaction. Concurrent toggles on one photo are serialized by the row lock.
func (db *Postgres) UpdatePhotoReactions(ctx context.Context, photoID uuid.UUID, fn func(*model.Reactions) error) (model.Reactions, error) {
	tx, err := db.Pool.Begin(ctx)
	if err != nil {
		return model.Reactions{}, err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	var locked uuid.UUID
	if err := tx.QueryRow(ctx, `SELECT id FROM photos WHERE id = $1 FOR UPDATE`, photoID).Scan(&locked); err != nil {
		return model.Reactions{}, err
	}

	current, err := loadReactions(ctx, tx, photoID)
	if err != nil {
		return model.Reactions{}, err
	}

	before := model.Reactions{
		LikedBy:    append([]uuid.UUID(nil), current.LikedBy...),
		DislikedBy: append([]uuid.UUID(nil), current.DislikedBy...),
	}
	if err := fn(&current); err != nil {
		return model.Reactions{}, err
	}
	deleted, upserts := reactionChanges(before, current)

	for _, userID := range deleted {
		if _, err := tx.Exec(ctx,
			`DELETE FROM photo_reactions WHERE photo_id = $1 AND user_id = $2`,
			photoID, userID,
		); err != nil {
			return model.Reactions{}, err
		}
	}

	// A switched reaction gets a fresh created_at so it sorts last in its new set.
	for userID, kind := range upserts {
		if _, err := tx.Exec(ctx, `
			INSERT INTO photo_reactions (photo_id, user_id, kind, created_at)
			VALUES ($1, $2, $3, clock_timestamp())
			ON CONFLICT (photo_id, user_id)
			DO UPDATE SET kind = EXCLUDED.kind, created_at = EXCLUDED.created_at
		`, photoID, userID, string(kind)); err != nil {
			return model.Reactions{}, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return model.Reactions{}, err
	}
	return current, nil
}

// reactionChanges lists the rows to delete and the rows to insert or switch so
// that stored reactions go from before to after. Users present in both with the
// same kind produce no write.
func reactionChanges(before, after model.Reactions) (deleted []uuid.UUID, upserts map[uuid.UUID]model.ReactionKind) {
	beforeKinds := reactionKinds(before)
	afterKinds := reactionKinds(after)

	for _, ids := range [][]uuid.UUID{before.LikedBy, before.DislikedBy} {
		for _, userID := range ids {
			if _, ok := afterKinds[userID]; !ok {
				deleted = append(deleted, userID)
			}
		}
	}

	upserts = make(map[uuid.UUID]model.ReactionKind)
	for userID, kind := range afterKinds {
		if prev, ok := beforeKinds[userID]; ok && prev == kind {
			continue
		}
		upserts[userID] = kind
	}
	return deleted, upserts
}

func reactionKinds(r model.Reactions) map[uuid.UUID]model.ReactionKind {
	kinds := make(map[uuid.UUID]model.ReactionKind, len(r.LikedBy)+len(r.DislikedBy))
	for _, id := range r.LikedBy {
		kinds[id] = model.ReactionLike
	}
	for _, id := range r.DislikedBy {
		kinds[id] = model.ReactionDislike
	}
	return kinds
}
