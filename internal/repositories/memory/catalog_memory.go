package memory

import (
	"context"
	"sort"

	"github.com/aithenode/booking-service/internal/models"
	"github.com/aithenode/booking-service/internal/repositories"
)

type categoryMemory struct {
	store *store
}

func (r *categoryMemory) Create(ctx context.Context, category *models.Category) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for _, existing := range r.store.categories {
		if existing.Name == category.Name {
			return repositories.ErrDuplicateKey
		}
	}

	category.ID = r.store.nextID("categories")
	r.store.categories[category.ID] = *category
	return nil
}

func (r *categoryMemory) GetByID(ctx context.Context, id int64) (*models.Category, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	category, ok := r.store.categories[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return &category, nil
}

func (r *categoryMemory) List(ctx context.Context) ([]*models.Category, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	categories := make([]*models.Category, 0, len(r.store.categories))
	for _, category := range r.store.categories {
		c := category
		categories = append(categories, &c)
	}
	sort.Slice(categories, func(i, j int) bool { return categories[i].ID < categories[j].ID })
	return categories, nil
}

func (r *categoryMemory) UpdateEducatorCount(ctx context.Context, id int64, delta int) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	category, ok := r.store.categories[id]
	if !ok {
		return repositories.ErrNotFound
	}
	category.EducatorCount += delta
	if category.EducatorCount < 0 {
		category.EducatorCount = 0
	}
	r.store.categories[id] = category
	return nil
}

func (r *categoryMemory) ExistsByID(ctx context.Context, id int64) (bool, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	_, ok := r.store.categories[id]
	return ok, nil
}

type subjectMemory struct {
	store *store
}

func (r *subjectMemory) Create(ctx context.Context, subject *models.Subject) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	subject.ID = r.store.nextID("subjects")
	r.store.subjects[subject.ID] = *subject
	return nil
}

func (r *subjectMemory) GetByID(ctx context.Context, id int64) (*models.Subject, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	subject, ok := r.store.subjects[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return &subject, nil
}

func (r *subjectMemory) GetByIDs(ctx context.Context, ids []int64) ([]*models.Subject, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	subjects := make([]*models.Subject, 0, len(ids))
	for _, id := range ids {
		if subject, ok := r.store.subjects[id]; ok {
			s := subject
			subjects = append(subjects, &s)
		}
	}
	return subjects, nil
}

func (r *subjectMemory) List(ctx context.Context) ([]*models.Subject, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	subjects := make([]*models.Subject, 0, len(r.store.subjects))
	for _, subject := range r.store.subjects {
		s := subject
		subjects = append(subjects, &s)
	}
	sort.Slice(subjects, func(i, j int) bool { return subjects[i].ID < subjects[j].ID })
	return subjects, nil
}

func (r *subjectMemory) ListByCategory(ctx context.Context, categoryID int64) ([]*models.Subject, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	subjects := make([]*models.Subject, 0)
	for _, subject := range r.store.subjects {
		if subject.CategoryID == categoryID {
			s := subject
			subjects = append(subjects, &s)
		}
	}
	sort.Slice(subjects, func(i, j int) bool { return subjects[i].ID < subjects[j].ID })
	return subjects, nil
}
