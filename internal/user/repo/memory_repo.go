package repo

import (
	"context"
	"sync"
	"time"

	"github.com/ovaphlow/pitchfork/service-youapp/internal/user/entity"
)

// MemoryRepo keeps users in process. Used for local runs and tests.
type MemoryRepo struct {
	mu         sync.RWMutex
	byID       map[string]*entity.User
	byEmail    map[string]string
	byUsername map[string]string
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		byID:       make(map[string]*entity.User),
		byEmail:    make(map[string]string),
		byUsername: make(map[string]string),
	}
}

func (r *MemoryRepo) FindByEmailOrUsername(_ context.Context, email, username string) (*entity.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if id, ok := r.byEmail[email]; ok && email != "" {
		c := *r.byID[id]
		return &c, nil
	}
	if id, ok := r.byUsername[username]; ok && username != "" {
		c := *r.byID[id]
		return &c, nil
	}
	return nil, ErrNotFound
}

func (r *MemoryRepo) Create(_ context.Context, u *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byEmail[u.Email]; ok {
		return conflictFor("email", nil)
	}
	if _, ok := r.byUsername[u.Username]; ok {
		return conflictFor("username", nil)
	}
	if _, ok := r.byID[u.ID]; ok {
		return conflictFor("id", nil)
	}
	c := *u
	r.byID[u.ID] = &c
	r.byEmail[u.Email] = u.ID
	r.byUsername[u.Username] = u.ID
	return nil
}

func (r *MemoryRepo) FindByID(_ context.Context, id string) (*entity.View, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	return u.View(), nil
}

func (r *MemoryRepo) TouchLastLogin(_ context.Context, id string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.byID[id]
	if !ok {
		return ErrNotFound
	}
	t := at
	u.LastLoginAt = &t
	u.UpdatedAt = at
	return nil
}
