package repo

import (
	"context"
	"slices"
	"sync"

	"github.com/ovaphlow/pitchfork/service-youapp/internal/profile/entity"
)

// MemoryRepo keeps profiles in process, keyed by user id.
type MemoryRepo struct {
	mu     sync.RWMutex
	byUser map[string]entity.Profile
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{byUser: make(map[string]entity.Profile)}
}

func clone(p entity.Profile) *entity.Profile {
	p.Interests = slices.Clone(p.Interests)
	return &p
}

func (r *MemoryRepo) Create(_ context.Context, p *entity.Profile) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byUser[p.UserID]; ok {
		return errProfileExists(nil)
	}
	r.byUser[p.UserID] = *clone(*p)
	return nil
}

func (r *MemoryRepo) FindByUserID(_ context.Context, userID string) (*entity.Profile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.byUser[userID]
	if !ok {
		return nil, ErrNotFound
	}
	return clone(p), nil
}

func (r *MemoryRepo) Update(_ context.Context, p *entity.Profile) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cur, ok := r.byUser[p.UserID]
	if !ok {
		return ErrNotFound
	}
	next := *clone(*p)
	next.ID, next.CreatedAt = cur.ID, cur.CreatedAt
	r.byUser[p.UserID] = next
	return nil
}
