package users

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/streamly/authd/internal/common"
)

// InMemoryRepository is a map-backed Repository used in tests and local
// development. Email uniqueness is enforced case-insensitively, mirroring the
// lower-cased unique index of the Postgres schema.
type InMemoryRepository struct {
	mu    sync.RWMutex
	byID  map[string]*User
	index map[string]string // lower-cased email -> id
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{
		byID:  make(map[string]*User),
		index: make(map[string]string),
	}
}

func (r *InMemoryRepository) Create(ctx context.Context, user *User) (*User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := strings.ToLower(user.Email)
	if _, ok := r.index[key]; ok {
		return nil, common.ErrEmailExists
	}

	stored := *user
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = time.Now()
	}
	r.byID[stored.ID] = &stored
	r.index[key] = stored.ID

	created := stored
	return &created, nil
}

func (r *InMemoryRepository) GetByEmail(ctx context.Context, email string) (*User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.index[strings.ToLower(email)]
	if !ok {
		return nil, common.ErrorNotFound
	}

	clone := *r.byID[id]
	return &clone, nil
}

func (r *InMemoryRepository) GetByID(ctx context.Context, id string) (*User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.byID[id]
	if !ok {
		return nil, common.ErrorNotFound
	}

	clone := *user
	return &clone, nil
}

func (r *InMemoryRepository) Update(ctx context.Context, user *User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[user.ID]; !ok {
		return common.ErrorNotFound
	}

	stored := *user
	r.byID[user.ID] = &stored
	return nil
}
