package memory

import (
	"context"
	"sort"
	"strings"

	"github.com/aithenode/booking-service/internal/models"
	"github.com/aithenode/booking-service/internal/repositories"
)

type userMemory struct {
	store *store
}

func (r *userMemory) Create(ctx context.Context, user *models.User) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for _, existing := range r.store.users {
		if existing.Username == user.Username || existing.Email == user.Email {
			return repositories.ErrDuplicateKey
		}
	}

	user.ID = r.store.nextID("users")
	r.store.users[user.ID] = *user
	return nil
}

func (r *userMemory) GetByID(ctx context.Context, id int64) (*models.User, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	user, ok := r.store.users[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return &user, nil
}

func (r *userMemory) GetByIDs(ctx context.Context, ids []int64) ([]*models.User, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	users := make([]*models.User, 0, len(ids))
	for _, id := range ids {
		if user, ok := r.store.users[id]; ok {
			u := user
			users = append(users, &u)
		}
	}
	return users, nil
}

func (r *userMemory) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	for _, user := range r.store.users {
		if user.Username == username {
			u := user
			return &u, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (r *userMemory) List(ctx context.Context, filters repositories.UserFilters) ([]*models.User, int64, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	query := strings.ToLower(filters.Query)
	users := make([]*models.User, 0, len(r.store.users))
	for _, user := range r.store.users {
		if filters.Role != nil && user.Role != *filters.Role {
			continue
		}
		if query != "" && !matchesUserQuery(user, query) {
			continue
		}
		u := user
		users = append(users, &u)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })

	total := int64(len(users))
	return paginate(users, filters.Limit, filters.Offset), total, nil
}

func (r *userMemory) ExistsByID(ctx context.Context, id int64) (bool, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	_, ok := r.store.users[id]
	return ok, nil
}

func matchesUserQuery(user models.User, query string) bool {
	return strings.Contains(strings.ToLower(user.Username), query) ||
		strings.Contains(strings.ToLower(user.FirstName), query) ||
		strings.Contains(strings.ToLower(user.LastName), query)
}
