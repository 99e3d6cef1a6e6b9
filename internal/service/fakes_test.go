package service

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/photoshare/backend/internal/model"
)

type fakeUserRepo struct {
	mu      sync.Mutex
	byLogin map[string]*model.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{byLogin: make(map[string]*model.User)}
}

func (f *fakeUserRepo) CreateUser(ctx context.Context, user *model.User) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.byLogin[user.LoginName]; ok {
		return nil, &pgconn.PgError{Code: "23505"}
	}
	stored := *user
	f.byLogin[user.LoginName] = &stored
	out := stored
	return &out, nil
}

func (f *fakeUserRepo) GetUserByLoginName(ctx context.Context, loginName string) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	user, ok := f.byLogin[loginName]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	out := *user
	return &out, nil
}

func (f *fakeUserRepo) UpdateUser(ctx context.Context, user *model.User) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, stored := range f.byLogin {
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

type fakeLockout struct {
	mu        sync.Mutex
	threshold int
	failures  map[string]int
	cleared   []string
}

func newFakeLockout(threshold int) *fakeLockout {
	return &fakeLockout{threshold: threshold, failures: make(map[string]int)}
}

func (f *fakeLockout) Locked(ctx context.Context, loginName string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.failures[loginName] >= f.threshold, nil
}

func (f *fakeLockout) RecordFailure(ctx context.Context, loginName string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failures[loginName]++
	return nil
}

func (f *fakeLockout) Clear(ctx context.Context, loginName string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.failures, loginName)
	f.cleared = append(f.cleared, loginName)
	return nil
}

// fakePhotoStore serializes reaction updates with a mutex, standing in for
// the row lock the Postgres repository takes.
type fakePhotoStore struct {
	mu        sync.Mutex
	photos    map[uuid.UUID]*model.Photo
	reactions map[uuid.UUID]model.Reactions
	comments  map[uuid.UUID]*model.Comment
}

func newFakePhotoStore() *fakePhotoStore {
	return &fakePhotoStore{
		photos:    make(map[uuid.UUID]*model.Photo),
		reactions: make(map[uuid.UUID]model.Reactions),
		comments:  make(map[uuid.UUID]*model.Comment),
	}
}

func (f *fakePhotoStore) addPhoto(ownerID uuid.UUID) uuid.UUID {
	f.mu.Lock()
	defer f.mu.Unlock()
	id := uuid.New()
	f.photos[id] = &model.Photo{ID: id, UserID: ownerID, FileName: "https://img.example/" + id.String()}
	f.reactions[id] = model.Reactions{}
	return id
}

func (f *fakePhotoStore) UpdatePhotoReactions(ctx context.Context, photoID uuid.UUID, fn func(*model.Reactions) error) (model.Reactions, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	current, ok := f.reactions[photoID]
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
	f.reactions[photoID] = working
	return working, nil
}

func (f *fakePhotoStore) CreatePhoto(ctx context.Context, photo *model.Photo) (*model.Photo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	stored := *photo
	stored.Comments = []model.Comment{}
	stored.ReactionResponse = model.Reactions{}.Response()
	f.photos[photo.ID] = &stored
	f.reactions[photo.ID] = model.Reactions{}
	out := stored
	return &out, nil
}

func (f *fakePhotoStore) GetPhoto(ctx context.Context, photoID uuid.UUID) (*model.Photo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	photo, ok := f.photos[photoID]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	out := *photo
	out.ReactionResponse = f.reactions[photoID].Response()
	return &out, nil
}

func (f *fakePhotoStore) DeletePhoto(ctx context.Context, photoID uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.photos[photoID]; !ok {
		return pgx.ErrNoRows
	}
	delete(f.photos, photoID)
	delete(f.reactions, photoID)
	for id, c := range f.comments {
		if c.PhotoID == photoID {
			delete(f.comments, id)
		}
	}
	return nil
}

func (f *fakePhotoStore) CreateComment(ctx context.Context, photoID, userID uuid.UUID, body string) (*model.Comment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	comment := &model.Comment{
		ID:      uuid.New(),
		PhotoID: photoID,
		Comment: body,
		User:    &model.CommentUser{ID: userID},
	}
	f.comments[comment.ID] = comment
	out := *comment
	return &out, nil
}

func (f *fakePhotoStore) GetComment(ctx context.Context, photoID, commentID uuid.UUID) (*model.Comment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	comment, ok := f.comments[commentID]
	if !ok || comment.PhotoID != photoID {
		return nil, pgx.ErrNoRows
	}
	out := *comment
	return &out, nil
}

func (f *fakePhotoStore) DeleteComment(ctx context.Context, photoID, commentID uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	comment, ok := f.comments[commentID]
	if !ok || comment.PhotoID != photoID {
		return pgx.ErrNoRows
	}
	delete(f.comments, commentID)
	return nil
}
