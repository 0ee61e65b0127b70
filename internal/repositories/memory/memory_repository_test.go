package memory

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/aithenode/booking-service/internal/models"
	"github.com/aithenode/booking-service/internal/repositories"
	"github.com/aithenode/booking-service/internal/repositories/repotest"
)

func TestMemoryRepositoryConformance(t *testing.T) {
	repotest.Run(t, func(t *testing.T) repositories.Repository {
		return NewMemoryRepository()
	})
}

// Session orderings must follow the sort column, not insertion order.
func TestSortSessionsColumns(t *testing.T) {
	base := time.Date(2026, 10, 5, 14, 0, 0, 0, time.UTC)
	sessions := []*models.Session{
		{ID: 1, StartTime: base.Add(2 * time.Hour), CreatedAt: base.Add(3 * time.Minute)},
		{ID: 2, StartTime: base, CreatedAt: base.Add(time.Minute)},
		{ID: 3, StartTime: base.Add(time.Hour), CreatedAt: base.Add(2 * time.Minute)},
	}

	ids := func() []int64 {
		out := make([]int64, len(sessions))
		for i, s := range sessions {
			out[i] = s.ID
		}
		return out
	}

	sortSessions(sessions, "start_time", "asc")
	assert.Equal(t, []int64{2, 3, 1}, ids())

	sortSessions(sessions, "created_at", "desc")
	assert.Equal(t, []int64{1, 3, 2}, ids())

	// created_at need not track id order
	for _, s := range sessions {
		if s.ID == 3 {
			s.CreatedAt = base
		}
	}
	sortSessions(sessions, "created_at", "asc")
	assert.Equal(t, []int64{3, 2, 1}, ids())

	sortSessions(sessions, "", "asc")
	assert.Equal(t, []int64{1, 2, 3}, ids())
}
