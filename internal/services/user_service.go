package services

import (
	"context"
	"fmt"
	"log/slog"

	"gorm.io/datatypes"

	"github.com/aithenode/booking-service/internal/models"
	"github.com/aithenode/booking-service/internal/repositories"
	"github.com/aithenode/booking-service/internal/validator"
)

type userService struct {
	repo      repositories.Repository
	resolver  *resolver
	logger    *slog.Logger
	validator *validator.BusinessValidator
}

func NewUserService(repo repositories.Repository, logger *slog.Logger, bv *validator.BusinessValidator) UserService {
	return &userService{
		repo:      repo,
		resolver:  newResolver(repo, logger),
		logger:    logger,
		validator: bv,
	}
}

// ===== USERS =====

func (s *userService) Register(ctx context.Context, req *CreateUserRequest) (*UserResponse, error) {
	s.logger.Info("Registering user", "username", req.Username, "role", req.Role)

	if errs := s.validator.Validate(req); errs.HasErrors() {
		return nil, errs
	}

	// Pre-check both unique columns so the caller learns which one clashed
	if _, err := s.repo.User().GetByUsername(ctx, req.Username); err == nil {
		return nil, ErrUsernameTaken
	} else if !repositories.IsNotFoundError(err) {
		return nil, fmt.Errorf("failed to check username: %w", err)
	}

	user := &models.User{
		Username:     req.Username,
		Email:        req.Email,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Bio:          req.Bio,
		ProfileImage: req.ProfileImage,
		Role:         req.Role,
	}

	if err := s.repo.User().Create(ctx, user); err != nil {
		if repositories.IsDuplicateError(err) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.logger.Info("User registered", "user_id", user.ID)
	return buildUserResponse(user), nil
}

func (s *userService) GetByID(ctx context.Context, id int64) (*UserResponse, error) {
	user, err := s.repo.User().GetByID(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return buildUserResponse(user), nil
}

func (s *userService) GetByUsername(ctx context.Context, username string) (*UserResponse, error) {
	user, err := s.repo.User().GetByUsername(ctx, username)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return buildUserResponse(user), nil
}

func (s *userService) List(ctx context.Context, filters repositories.UserFilters) ([]*UserResponse, int64, error) {
	users, total, err := s.repo.User().List(ctx, filters)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list users: %w", err)
	}

	responses := make([]*UserResponse, len(users))
	for i, user := range users {
		responses[i] = buildUserResponse(user)
	}
	return responses, total, nil
}

// ===== EDUCATOR PROFILES =====

func (s *userService) CreateEducatorProfile(ctx context.Context, req *CreateEducatorProfileRequest, actor Actor) (*EducatorResponse, error) {
	s.logger.Info("Creating educator profile", "user_id", req.UserID, "actor_id", actor.UserID)

	if errs := s.validator.Validate(req); errs.HasErrors() {
		return nil, errs
	}

	// Only the user themselves can onboard as an educator
	if actor.UserID != req.UserID {
		return nil, NewPermissionError(actor.UserID, req.UserID, "educator_profile", "create", "profile can only be created by its owner")
	}

	user, err := s.repo.User().GetByID(ctx, req.UserID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user.Role != models.RoleEducator {
		return nil, validator.ValidationErrors{{
			Field:   "user_id",
			Message: "user does not have the educator role",
			Value:   req.UserID,
			Rule:    "business_logic",
		}}
	}

	profile := &models.EducatorProfile{
		UserID:     req.UserID,
		Title:      req.Title,
		HourlyRate: req.HourlyRate,
		Experience: req.Experience,
		Education:  req.Education,
	}
	if len(req.Specialties) > 0 {
		profile.Specialties = datatypes.NewJSONSlice(req.Specialties)
	}
	if req.Availability != nil {
		profile.Availability = datatypes.NewJSONType(*req.Availability)
	}

	if err := s.repo.Educator().Create(ctx, profile); err != nil {
		if repositories.IsDuplicateError(err) {
			return nil, ErrEducatorProfileExists
		}
		return nil, fmt.Errorf("failed to create educator profile: %w", err)
	}

	s.logger.Info("Educator profile created", "educator_id", profile.ID)
	return s.resolver.enrichEducator(ctx, profile)
}

func (s *userService) GetEducator(ctx context.Context, educatorID int64) (*EducatorResponse, error) {
	return s.resolver.educatorWithUser(ctx, educatorID)
}

func (s *userService) ListEducators(ctx context.Context, filters repositories.EducatorFilters) (*EducatorListResponse, error) {
	profiles, total, err := s.repo.Educator().List(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list educators: %w", err)
	}

	educators := make([]*EducatorResponse, 0, len(profiles))
	for _, profile := range profiles {
		response, err := s.resolver.enrichEducator(ctx, profile)
		if err != nil {
			return nil, err
		}
		educators = append(educators, response)
	}

	return &EducatorListResponse{Educators: educators, Total: total}, nil
}
