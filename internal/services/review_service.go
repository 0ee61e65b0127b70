package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aithenode/booking-service/internal/models"
	"github.com/aithenode/booking-service/internal/repositories"
	"github.com/aithenode/booking-service/internal/validator"
)

type reviewService struct {
	repo      repositories.Repository
	resolver  *resolver
	logger    *slog.Logger
	validator *validator.BusinessValidator
}

func NewReviewService(repo repositories.Repository, logger *slog.Logger, bv *validator.BusinessValidator) ReviewService {
	return &reviewService{
		repo:      repo,
		resolver:  newResolver(repo, logger),
		logger:    logger,
		validator: bv,
	}
}

func (s *reviewService) Create(ctx context.Context, req *CreateReviewRequest, actor Actor) (*ReviewResponse, error) {
	s.logger.Info("Creating review", "educator_id", req.EducatorID, "student_id", actor.UserID)

	if errs := s.validator.ValidateReviewCreate(req); errs.HasErrors() {
		return nil, errs
	}

	student, err := s.repo.User().GetByID(ctx, actor.UserID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, NewPermissionError(actor.UserID, 0, "review", "create", "unknown acting user")
		}
		return nil, fmt.Errorf("failed to get acting user: %w", err)
	}
	if student.Role != models.RoleStudent {
		return nil, validator.ValidationErrors{{
			Field:   "student_id",
			Message: "only students can submit reviews",
			Value:   actor.UserID,
			Rule:    "business_logic",
		}}
	}

	exists, err := s.repo.Educator().ExistsByID(ctx, req.EducatorID)
	if err != nil {
		return nil, fmt.Errorf("failed to check educator: %w", err)
	}
	if !exists {
		return nil, ErrEducatorNotFound
	}

	if req.SessionID != nil {
		if err := s.checkReviewSession(ctx, req, student.ID); err != nil {
			return nil, err
		}
	}

	review := &models.Review{
		EducatorID: req.EducatorID,
		StudentID:  student.ID,
		SessionID:  req.SessionID,
		Rating:     req.Rating,
		Comment:    req.Comment,
	}

	if err := s.repo.Review().Create(ctx, review); err != nil {
		return nil, fmt.Errorf("failed to create review: %w", err)
	}

	s.logger.Info("Review created", "review_id", review.ID, "rating", review.Rating)
	return &ReviewResponse{
		Review:  review,
		Student: buildUserResponse(student),
	}, nil
}

// checkReviewSession validates the optional session reference: the session
// must exist, match the (student, educator) pair, be completed, and not be
// reviewed twice by the same student.
func (s *reviewService) checkReviewSession(ctx context.Context, req *CreateReviewRequest, studentID int64) error {
	session, err := s.repo.Session().GetByID(ctx, *req.SessionID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrSessionNotFound
		}
		return fmt.Errorf("failed to get session: %w", err)
	}

	if session.StudentID != studentID || session.EducatorID != req.EducatorID {
		return validator.ValidationErrors{{
			Field:   "session_id",
			Message: "session does not belong to this student and educator",
			Value:   *req.SessionID,
			Rule:    "business_logic",
		}}
	}
	if session.Status != models.SessionCompleted {
		return validator.ValidationErrors{{
			Field:   "session_id",
			Message: "session must be completed before it can be reviewed",
			Value:   *req.SessionID,
			Rule:    "business_logic",
		}}
	}

	reviewed, err := s.repo.Review().ExistsBySession(ctx, studentID, *req.SessionID)
	if err != nil {
		return fmt.Errorf("failed to check existing review: %w", err)
	}
	if reviewed {
		return validator.ValidationErrors{{
			Field:   "session_id",
			Message: "session has already been reviewed",
			Value:   *req.SessionID,
			Rule:    "business_logic",
		}}
	}

	return nil
}

func (s *reviewService) ListByEducator(ctx context.Context, educatorID int64, filters repositories.ReviewFilters) ([]*ReviewResponse, int64, error) {
	exists, err := s.repo.Educator().ExistsByID(ctx, educatorID)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to check educator: %w", err)
	}
	if !exists {
		return nil, 0, ErrEducatorNotFound
	}

	filters.EducatorID = &educatorID
	reviews, total, err := s.repo.Review().List(ctx, filters)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list reviews: %w", err)
	}

	responses, err := s.resolver.reviewsWithStudent(ctx, reviews)
	if err != nil {
		return nil, 0, err
	}
	return responses, total, nil
}

// EducatorRating recomputes the aggregate from the live review set on every
// call and rounds the average for display. No caching, no stored counters.
func (s *reviewService) EducatorRating(ctx context.Context, educatorID int64) (*RatingResponse, error) {
	exists, err := s.repo.Educator().ExistsByID(ctx, educatorID)
	if err != nil {
		return nil, fmt.Errorf("failed to check educator: %w", err)
	}
	if !exists {
		return nil, ErrEducatorNotFound
	}

	summary, err := s.repo.Review().Rating(ctx, educatorID)
	if err != nil {
		return nil, fmt.Errorf("failed to compute rating: %w", err)
	}

	return &RatingResponse{
		AverageRating: roundRating(summary.Average),
		ReviewCount:   summary.Count,
	}, nil
}
