package memory

import (
	"context"
	"strings"
	"time"

	"bookstore/internal/domain/model"
	repo "bookstore/internal/repository"
)

type UserRepository struct {
	s  *Store
	tx bool // WithinTx の中から使うとき true
}

func (r *UserRepository) Create(ctx context.Context, user *model.User) error {
	defer r.s.lockWrite(r.tx)()

	for _, u := range r.s.users {
		if strings.EqualFold(u.Username, user.Username) {
			return repo.ErrDuplicateUsername
		}
	}

	user.ID = r.s.nextUserID
	r.s.nextUserID++
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now
	r.s.users = append(r.s.users, *user)
	return nil
}

// 見つからなければ nil, nil（gorm版と同じ）
func (r *UserRepository) FindByID(ctx context.Context, userID int64) (*model.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, u := range r.s.users {
		if u.ID == userID {
			cp := u
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *UserRepository) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, u := range r.s.users {
		if u.Username == username {
			cp := u
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *UserRepository) Update(ctx context.Context, user *model.User) error {
	defer r.s.lockWrite(r.tx)()

	for i, u := range r.s.users {
		if u.ID == user.ID {
			user.UpdatedAt = time.Now()
			r.s.users[i] = *user
			return nil
		}
	}
	return repo.ErrUserNotFound
}
