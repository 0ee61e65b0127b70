package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aithenode/booking-service/internal/models"
	"github.com/aithenode/booking-service/internal/repositories"
	"github.com/aithenode/booking-service/internal/validator"
)

type catalogService struct {
	repo      repositories.Repository
	resolver  *resolver
	logger    *slog.Logger
	validator *validator.BusinessValidator
}

func NewCatalogService(repo repositories.Repository, logger *slog.Logger, bv *validator.BusinessValidator) CatalogService {
	return &catalogService{
		repo:      repo,
		resolver:  newResolver(repo, logger),
		logger:    logger,
		validator: bv,
	}
}

// ===== CATEGORIES =====

func (s *catalogService) CreateCategory(ctx context.Context, req *CreateCategoryRequest) (*CategoryResponse, error) {
	s.logger.Info("Creating category", "name", req.Name)

	if errs := s.validator.Validate(req); errs.HasErrors() {
		return nil, errs
	}

	category := &models.Category{
		Name:        req.Name,
		Description: req.Description,
		ImageURL:    req.ImageURL,
	}
	if err := s.repo.Category().Create(ctx, category); err != nil {
		if repositories.IsDuplicateError(err) {
			return nil, ErrCategoryNameTaken
		}
		return nil, fmt.Errorf("failed to create category: %w", err)
	}

	return &CategoryResponse{Category: category}, nil
}

func (s *catalogService) GetCategory(ctx context.Context, id int64) (*CategoryResponse, error) {
	category, err := s.repo.Category().GetByID(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrCategoryNotFound
		}
		return nil, fmt.Errorf("failed to get category: %w", err)
	}

	subjects, err := s.repo.Subject().ListByCategory(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to list category subjects: %w", err)
	}

	out := make([]*models.Subject, len(subjects))
	copy(out, subjects)
	return &CategoryResponse{Category: category, Subjects: out}, nil
}

func (s *catalogService) ListCategories(ctx context.Context) ([]*CategoryResponse, error) {
	categories, err := s.repo.Category().List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}

	responses := make([]*CategoryResponse, len(categories))
	for i, category := range categories {
		responses[i] = &CategoryResponse{Category: category}
	}
	return responses, nil
}

// ===== SUBJECTS =====

func (s *catalogService) CreateSubject(ctx context.Context, req *CreateSubjectRequest) (*models.Subject, error) {
	s.logger.Info("Creating subject", "name", req.Name, "category_id", req.CategoryID)

	if errs := s.validator.Validate(req); errs.HasErrors() {
		return nil, errs
	}

	// Category must exist before the subject is admitted
	exists, err := s.repo.Category().ExistsByID(ctx, req.CategoryID)
	if err != nil {
		return nil, fmt.Errorf("failed to check category: %w", err)
	}
	if !exists {
		return nil, ErrCategoryNotFound
	}

	subject := &models.Subject{
		CategoryID:  req.CategoryID,
		Name:        req.Name,
		Description: req.Description,
	}
	if err := s.repo.Subject().Create(ctx, subject); err != nil {
		return nil, fmt.Errorf("failed to create subject: %w", err)
	}

	return subject, nil
}

func (s *catalogService) GetSubject(ctx context.Context, id int64) (*models.Subject, error) {
	subject, err := s.repo.Subject().GetByID(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrSubjectNotFound
		}
		return nil, fmt.Errorf("failed to get subject: %w", err)
	}
	return subject, nil
}

func (s *catalogService) ListSubjects(ctx context.Context) ([]*models.Subject, error) {
	subjects, err := s.repo.Subject().List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list subjects: %w", err)
	}
	return subjects, nil
}

func (s *catalogService) ListSubjectsByCategory(ctx context.Context, categoryID int64) ([]*models.Subject, error) {
	exists, err := s.repo.Category().ExistsByID(ctx, categoryID)
	if err != nil {
		return nil, fmt.Errorf("failed to check category: %w", err)
	}
	if !exists {
		return nil, ErrCategoryNotFound
	}

	subjects, err := s.repo.Subject().ListByCategory(ctx, categoryID)
	if err != nil {
		return nil, fmt.Errorf("failed to list subjects: %w", err)
	}
	return subjects, nil
}

// ===== SUBJECT ASSIGNMENT =====

// AssignSubject links a subject to an educator. Idempotent: assigning an
// already-linked pair returns the existing link, including when a concurrent
// assign wins the insert race.
func (s *catalogService) AssignSubject(ctx context.Context, educatorID, subjectID int64, actor Actor) (*models.EducatorSubject, error) {
	s.logger.Info("Assigning subject to educator", "educator_id", educatorID, "subject_id", subjectID)

	profile, err := s.repo.Educator().GetByID(ctx, educatorID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrEducatorNotFound
		}
		return nil, fmt.Errorf("failed to get educator: %w", err)
	}
	if profile.UserID != actor.UserID {
		return nil, NewPermissionError(actor.UserID, educatorID, "educator_subject", "assign", "only the educator can manage their subjects")
	}

	subject, err := s.repo.Subject().GetByID(ctx, subjectID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrSubjectNotFound
		}
		return nil, fmt.Errorf("failed to get subject: %w", err)
	}

	link := &models.EducatorSubject{EducatorID: educatorID, SubjectID: subjectID}
	err = s.repo.EducatorSubject().Create(ctx, link)
	if err == nil {
		// First link into this category bumps its educator count
		if countErr := s.bumpCategoryCount(ctx, educatorID, subject.CategoryID, subjectID, 1); countErr != nil {
			s.logger.Error("Failed to update category educator count", "error", countErr, "category_id", subject.CategoryID)
		}
		return link, nil
	}
	if !repositories.IsDuplicateError(err) {
		return nil, fmt.Errorf("failed to assign subject: %w", err)
	}

	existing, err := s.repo.EducatorSubject().GetByPair(ctx, educatorID, subjectID)
	if err != nil {
		return nil, fmt.Errorf("failed to get existing assignment: %w", err)
	}
	return existing, nil
}

// UnassignSubject removes the link. This is the one real delete in the
// system; nothing downstream references the pair.
func (s *catalogService) UnassignSubject(ctx context.Context, educatorID, subjectID int64, actor Actor) error {
	s.logger.Info("Unassigning subject from educator", "educator_id", educatorID, "subject_id", subjectID)

	profile, err := s.repo.Educator().GetByID(ctx, educatorID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrEducatorNotFound
		}
		return fmt.Errorf("failed to get educator: %w", err)
	}
	if profile.UserID != actor.UserID {
		return NewPermissionError(actor.UserID, educatorID, "educator_subject", "unassign", "only the educator can manage their subjects")
	}

	subject, err := s.repo.Subject().GetByID(ctx, subjectID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrSubjectNotFound
		}
		return fmt.Errorf("failed to get subject: %w", err)
	}

	if err := s.repo.EducatorSubject().Delete(ctx, educatorID, subjectID); err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrSubjectNotFound
		}
		return fmt.Errorf("failed to unassign subject: %w", err)
	}

	if countErr := s.bumpCategoryCount(ctx, educatorID, subject.CategoryID, subjectID, -1); countErr != nil {
		s.logger.Error("Failed to update category educator count", "error", countErr, "category_id", subject.CategoryID)
	}
	return nil
}

func (s *catalogService) ListEducatorSubjects(ctx context.Context, educatorID int64) ([]*EducatorSubjectInfo, error) {
	exists, err := s.repo.Educator().ExistsByID(ctx, educatorID)
	if err != nil {
		return nil, fmt.Errorf("failed to check educator: %w", err)
	}
	if !exists {
		return nil, ErrEducatorNotFound
	}

	return s.resolver.educatorSubjects(ctx, educatorID)
}

// bumpCategoryCount adjusts a category's educator counter when an educator
// gains their first, or loses their last, subject in that category.
func (s *catalogService) bumpCategoryCount(ctx context.Context, educatorID, categoryID, changedSubjectID int64, delta int) error {
	links, err := s.repo.EducatorSubject().ListByEducator(ctx, educatorID)
	if err != nil {
		return err
	}

	// Count remaining links of this educator into the same category,
	// excluding the one just changed.
	others := 0
	for _, link := range links {
		if link.SubjectID == changedSubjectID {
			continue
		}
		subject, err := s.repo.Subject().GetByID(ctx, link.SubjectID)
		if err != nil {
			if repositories.IsNotFoundError(err) {
				continue
			}
			return err
		}
		if subject.CategoryID == categoryID {
			others++
		}
	}

	if others > 0 {
		return nil
	}
	return s.repo.Category().UpdateEducatorCount(ctx, categoryID, delta)
}
