package memory

import (
	"context"
	"sort"
	"time"

	"github.com/aithenode/booking-service/internal/models"
	"github.com/aithenode/booking-service/internal/repositories"
)

type sessionMemory struct {
	store *store
}

func (r *sessionMemory) Create(ctx context.Context, session *models.Session) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	session.ID = r.store.nextID("sessions")
	if session.CreatedAt.IsZero() {
		session.CreatedAt = time.Now()
	}
	r.store.sessions[session.ID] = *session
	return nil
}

func (r *sessionMemory) GetByID(ctx context.Context, id int64) (*models.Session, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	session, ok := r.store.sessions[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return &session, nil
}

func (r *sessionMemory) List(ctx context.Context, filters repositories.SessionFilters) ([]*models.Session, int64, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	sessions := make([]*models.Session, 0)
	for _, session := range r.store.sessions {
		if filters.EducatorID != nil && session.EducatorID != *filters.EducatorID {
			continue
		}
		if filters.StudentID != nil && session.StudentID != *filters.StudentID {
			continue
		}
		if filters.Status != nil && session.Status != *filters.Status {
			continue
		}
		s := session
		sessions = append(sessions, &s)
	}
	sortSessions(sessions, filters.SortBy, filters.SortOrder)

	total := int64(len(sessions))
	return paginate(sessions, filters.Limit, filters.Offset), total, nil
}

// UpdateStatus applies the status change only if the stored status still
// equals from. Holding the write lock across check and write makes the
// compare-and-swap atomic against concurrent transitions.
func (r *sessionMemory) UpdateStatus(ctx context.Context, id int64, from, to models.SessionStatus) (bool, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	session, ok := r.store.sessions[id]
	if !ok {
		return false, repositories.ErrNotFound
	}
	if session.Status != from {
		return false, nil
	}
	session.Status = to
	r.store.sessions[id] = session
	return true, nil
}

func (r *sessionMemory) UpdatePayment(ctx context.Context, id int64, from, to models.PaymentStatus) (bool, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	session, ok := r.store.sessions[id]
	if !ok {
		return false, repositories.ErrNotFound
	}
	if session.PaymentStatus != from {
		return false, nil
	}
	session.PaymentStatus = to
	r.store.sessions[id] = session
	return true, nil
}

func sortSessions(sessions []*models.Session, sortBy, sortOrder string) {
	less := func(i, j int) bool { return sessions[i].ID < sessions[j].ID }
	switch sortBy {
	case "start_time":
		less = func(i, j int) bool {
			if sessions[i].StartTime.Equal(sessions[j].StartTime) {
				return sessions[i].ID < sessions[j].ID
			}
			return sessions[i].StartTime.Before(sessions[j].StartTime)
		}
	case "created_at":
		less = func(i, j int) bool {
			if sessions[i].CreatedAt.Equal(sessions[j].CreatedAt) {
				return sessions[i].ID < sessions[j].ID
			}
			return sessions[i].CreatedAt.Before(sessions[j].CreatedAt)
		}
	}
	if sortOrder == "desc" || sortOrder == "DESC" {
		inner := less
		less = func(i, j int) bool { return inner(j, i) }
	}
	sort.Slice(sessions, less)
}
