package memory

import (
	"context"

	"github.com/jhoicas/inventario-taller/internal/domain"
	"github.com/jhoicas/inventario-taller/internal/domain/entity"
	"github.com/jhoicas/inventario-taller/internal/domain/repository"
)

var _ repository.UserRepository = (*UserRepo)(nil)

// UserRepo usuarios en memoria.
type UserRepo struct {
	store *Store
}

// Create persiste un usuario; username único.
func (r *UserRepo) Create(_ context.Context, user *entity.User) error {
	r.store.usersMu.Lock()
	defer r.store.usersMu.Unlock()
	for _, u := range r.store.users {
		if u.Username == user.Username {
			return domain.ErrDuplicate
		}
	}
	r.store.users[user.ID] = *user
	return nil
}

// GetByID obtiene un usuario por ID.
func (r *UserRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	r.store.usersMu.RLock()
	defer r.store.usersMu.RUnlock()
	u, ok := r.store.users[id]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

// GetByUsername obtiene un usuario por username.
func (r *UserRepo) GetByUsername(_ context.Context, username string) (*entity.User, error) {
	r.store.usersMu.RLock()
	defer r.store.usersMu.RUnlock()
	for _, u := range r.store.users {
		if u.Username == username {
			found := u
			return &found, nil
		}
	}
	return nil, nil
}
