package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aithenode/booking-service/internal/models"
	"github.com/aithenode/booking-service/internal/repositories"
	"github.com/aithenode/booking-service/internal/validator"
)

type testimonialService struct {
	repo      repositories.Repository
	logger    *slog.Logger
	validator *validator.BusinessValidator
}

func NewTestimonialService(repo repositories.Repository, logger *slog.Logger, bv *validator.BusinessValidator) TestimonialService {
	return &testimonialService{
		repo:      repo,
		logger:    logger,
		validator: bv,
	}
}

func (s *testimonialService) Create(ctx context.Context, req *CreateTestimonialRequest, actor Actor) (*TestimonialResponse, error) {
	s.logger.Info("Creating testimonial", "user_id", actor.UserID)

	if errs := s.validator.Validate(req); errs.HasErrors() {
		return nil, errs
	}

	user, err := s.repo.User().GetByID(ctx, actor.UserID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, NewPermissionError(actor.UserID, 0, "testimonial", "create", "unknown acting user")
		}
		return nil, fmt.Errorf("failed to get acting user: %w", err)
	}

	testimonial := &models.Testimonial{
		UserID:    user.ID,
		Content:   req.Content,
		UserRole:  req.UserRole,
		IsVisible: true,
	}
	if err := s.repo.Testimonial().Create(ctx, testimonial); err != nil {
		return nil, fmt.Errorf("failed to create testimonial: %w", err)
	}

	return &TestimonialResponse{
		Testimonial: testimonial,
		User:        buildUserResponse(user),
	}, nil
}

func (s *testimonialService) ListVisible(ctx context.Context) ([]*TestimonialResponse, error) {
	testimonials, err := s.repo.Testimonial().ListVisible(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list testimonials: %w", err)
	}

	responses := make([]*TestimonialResponse, 0, len(testimonials))
	for _, testimonial := range testimonials {
		response := &TestimonialResponse{Testimonial: testimonial}
		user, err := s.repo.User().GetByID(ctx, testimonial.UserID)
		if err != nil {
			if repositories.IsNotFoundError(err) {
				s.logger.Warn("Skipping testimonial with missing user",
					"testimonial_id", testimonial.ID, "user_id", testimonial.UserID)
				continue
			}
			return nil, fmt.Errorf("failed to get testimonial user: %w", err)
		}
		response.User = buildUserResponse(user)
		responses = append(responses, response)
	}

	return responses, nil
}

// Hide flips the visibility flag; the row is never deleted. Only the author
// can hide their own testimonial.
func (s *testimonialService) Hide(ctx context.Context, id int64, actor Actor) error {
	testimonial, err := s.repo.Testimonial().GetByID(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrTestimonialNotFound
		}
		return fmt.Errorf("failed to get testimonial: %w", err)
	}

	if testimonial.UserID != actor.UserID {
		return NewPermissionError(actor.UserID, id, "testimonial", "hide", "only the author can hide a testimonial")
	}

	if err := s.repo.Testimonial().SetVisibility(ctx, id, false); err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrTestimonialNotFound
		}
		return fmt.Errorf("failed to hide testimonial: %w", err)
	}

	s.logger.Info("Testimonial hidden", "testimonial_id", id)
	return nil
}
