package handler

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/photoshare/backend/internal/model"
)

type memoryStore struct {
	mu        sync.Mutex
	users     map[string]*model.User
	photos    map[uuid.UUID]*model.Photo
	reactions map[uuid.UUID]model.Reactions
	comments  map[uuid.UUID]*model.Comment
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		users:     make(map[string]*model.User),
		photos:    make(map[uuid.UUID]*model.Photo),
		reactions: make(map[uuid.UUID]model.Reactions),
		comments:  make(map[uuid.UUID]*model.Comment),
	}
}

func (m *memoryStore) CreateUser(ctx context.Context, user *model.User) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[user.LoginName]; ok {
		return nil, &pgconn.PgError{Code: "23505"}
	}
	stored := *user
	m.users[user.LoginName] = &stored
	out := stored
	return &out, nil
}

func (m *memoryStore) GetUserByLoginName(ctx context.Context, loginName string) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	user, ok := m.users[loginName]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	out := *user
	return &out, nil
}

func (m *memoryStore) UpdateUser(ctx context.Context, user *model.User) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, stored := range m.users {
		if stored.ID != user.ID {
			continue
		}
		stored.FirstName = user.FirstName
		stored.LastName = user.LastName
		stored.Location = user.Location
		stored.Description = user.Description
		stored.Occupation = user.Occupation
		out := *stored
		return &out, nil
	}
	return nil, pgx.ErrNoRows
}

func (m *memoryStore) CreatePhoto(ctx context.Context, photo *model.Photo) (*model.Photo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored := *photo
	stored.Comments = []model.Comment{}
	stored.ReactionResponse = model.Reactions{}.Response()
	m.photos[photo.ID] = &stored
	m.reactions[photo.ID] = model.Reactions{}
	out := stored
	return &out, nil
}

func (m *memoryStore) GetPhoto(ctx context.Context, photoID uuid.UUID) (*model.Photo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	photo, ok := m.photos[photoID]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	out := *photo
	out.ReactionResponse = m.reactions[photoID].Response()
	return &out, nil
}

func (m *memoryStore) DeletePhoto(ctx context.Context, photoID uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.photos[photoID]; !ok {
		return pgx.ErrNoRows
	}
	delete(m.photos, photoID)
	delete(m.reactions, photoID)
	return nil
}

func (m *memoryStore) CreateComment(ctx context.Context, photoID, userID uuid.UUID, body string) (*model.Comment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	comment := &model.Comment{ID: uuid.New(), PhotoID: photoID, Comment: body, User: &model.CommentUser{ID: userID}}
	m.comments[comment.ID] = comment
	out := *comment
	return &out, nil
}

func (m *memoryStore) GetComment(ctx context.Context, photoID, commentID uuid.UUID) (*model.Comment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	comment, ok := m.comments[commentID]
	if !ok || comment.PhotoID != photoID {
		return nil, pgx.ErrNoRows
	}
	out := *comment
	return &out, nil
}

func (m *memoryStore) DeleteComment(ctx context.Context, photoID, commentID uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.comments[commentID]; !ok {
		return pgx.ErrNoRows
	}
	delete(m.comments, commentID)
	return nil
}

func (m *memoryStore) UpdatePhotoReactions(ctx context.Context, photoID uuid.UUID, fn func(*model.Reactions) error) (model.Reactions, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	current, ok := m.reactions[photoID]
	if !ok {
		return model.Reactions{}, pgx.ErrNoRows
	}
	working := model.Reactions{
		LikedBy:    append([]uuid.UUID{}, current.LikedBy...),
		DislikedBy: append([]uuid.UUID{}, current.DislikedBy...),
	}
	if err := fn(&working); err != nil {
		return model.Reactions{}, err
	}
	m.reactions[photoID] = working
	return working, nil
}
