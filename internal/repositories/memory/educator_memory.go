package memory

import (
	"context"
	"sort"

	"github.com/aithenode/booking-service/internal/models"
	"github.com/aithenode/booking-service/internal/repositories"
)

type educatorMemory struct {
	store *store
}

func (r *educatorMemory) Create(ctx context.Context, profile *models.EducatorProfile) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for _, existing := range r.store.educators {
		if existing.UserID == profile.UserID {
			return repositories.ErrDuplicateKey
		}
	}

	profile.ID = r.store.nextID("educator_profiles")
	r.store.educators[profile.ID] = *profile
	return nil
}

func (r *educatorMemory) GetByID(ctx context.Context, id int64) (*models.EducatorProfile, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	profile, ok := r.store.educators[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return &profile, nil
}

func (r *educatorMemory) GetByUserID(ctx context.Context, userID int64) (*models.EducatorProfile, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	for _, profile := range r.store.educators {
		if profile.UserID == userID {
			p := profile
			return &p, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (r *educatorMemory) List(ctx context.Context, filters repositories.EducatorFilters) ([]*models.EducatorProfile, int64, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	// Resolve subject/category filters to a set of educator IDs first.
	var allowed map[int64]bool
	if filters.SubjectID != nil || filters.CategoryID != nil {
		allowed = make(map[int64]bool)
		for _, link := range r.store.educatorSubjects {
			if filters.SubjectID != nil && link.SubjectID != *filters.SubjectID {
				continue
			}
			if filters.CategoryID != nil {
				subject, ok := r.store.subjects[link.SubjectID]
				if !ok || subject.CategoryID != *filters.CategoryID {
					continue
				}
			}
			allowed[link.EducatorID] = true
		}
	}

	profiles := make([]*models.EducatorProfile, 0, len(r.store.educators))
	for _, profile := range r.store.educators {
		if allowed != nil && !allowed[profile.ID] {
			continue
		}
		p := profile
		profiles = append(profiles, &p)
	}
	sort.Slice(profiles, func(i, j int) bool { return profiles[i].ID < profiles[j].ID })

	total := int64(len(profiles))
	return paginate(profiles, filters.Limit, filters.Offset), total, nil
}

func (r *educatorMemory) ExistsByID(ctx context.Context, id int64) (bool, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	_, ok := r.store.educators[id]
	return ok, nil
}

type educatorSubjectMemory struct {
	store *store
}

func (r *educatorSubjectMemory) Create(ctx context.Context, link *models.EducatorSubject) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for _, existing := range r.store.educatorSubjects {
		if existing.EducatorID == link.EducatorID && existing.SubjectID == link.SubjectID {
			return repositories.ErrDuplicateKey
		}
	}

	link.ID = r.store.nextID("educator_subjects")
	r.store.educatorSubjects[link.ID] = *link
	return nil
}

func (r *educatorSubjectMemory) GetByPair(ctx context.Context, educatorID, subjectID int64) (*models.EducatorSubject, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	for _, link := range r.store.educatorSubjects {
		if link.EducatorID == educatorID && link.SubjectID == subjectID {
			l := link
			return &l, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (r *educatorSubjectMemory) ListByEducator(ctx context.Context, educatorID int64) ([]*models.EducatorSubject, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	links := make([]*models.EducatorSubject, 0)
	for _, link := range r.store.educatorSubjects {
		if link.EducatorID == educatorID {
			l := link
			links = append(links, &l)
		}
	}
	sort.Slice(links, func(i, j int) bool { return links[i].ID < links[j].ID })
	return links, nil
}

func (r *educatorSubjectMemory) ListBySubject(ctx context.Context, subjectID int64) ([]*models.EducatorSubject, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	links := make([]*models.EducatorSubject, 0)
	for _, link := range r.store.educatorSubjects {
		if link.SubjectID == subjectID {
			l := link
			links = append(links, &l)
		}
	}
	sort.Slice(links, func(i, j int) bool { return links[i].ID < links[j].ID })
	return links, nil
}

func (r *educatorSubjectMemory) Delete(ctx context.Context, educatorID, subjectID int64) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for id, link := range r.store.educatorSubjects {
		if link.EducatorID == educatorID && link.SubjectID == subjectID {
			delete(r.store.educatorSubjects, id)
			return nil
		}
	}
	return repositories.ErrNotFound
}
