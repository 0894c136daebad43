package service

import (
	"context"
	"errors"
	"strings"

	"reviewhub/internal/apperr"
	"reviewhub/internal/dto"
	"reviewhub/internal/models"
	"reviewhub/internal/repository"

	"gorm.io/gorm"
)

type UserService interface {
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*dto.UserResponse, error)
	List(ctx context.Context, limit, offset int) (*dto.PaginatedUserResponse, error)
	// Create is the admin path; no confirmation flow involved.
	Create(ctx context.Context, req dto.AdminCreateUserRequest) (*dto.UserResponse, error)
	// UpdateSelf edits profile fields of the caller; role stays untouched.
	UpdateSelf(ctx context.Context, userID string, req dto.UpdateMeRequest) (*dto.UserResponse, error)
	// UpdateByUsername is the admin path and may change any field, role included.
	UpdateByUsername(ctx context.Context, username string, req dto.AdminUpdateUserRequest) (*dto.UserResponse, error)
	DeleteByUsername(ctx context.Context, username string) error
}

type userService struct {
	userRepo repository.UserRepository
}

func NewUserService(userRepo repository.UserRepository) UserService {
	return &userService{userRepo: userRepo}
}

func (s *userService) GetByID(ctx context.Context, id string) (*models.User, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("user")
		}
		return nil, err
	}
	return user, nil
}

func (s *userService) GetByUsername(ctx context.Context, username string) (*dto.UserResponse, error) {
	user, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("user")
		}
		return nil, err
	}
	return dto.FromModelToUserResponse(user), nil
}

func (s *userService) List(ctx context.Context, limit, offset int) (*dto.PaginatedUserResponse, error) {
	users, total, err := s.userRepo.List(ctx, limit, offset)
	if err != nil {
		return nil, err
	}
	results := make([]dto.UserResponse, 0, len(users))
	for i := range users {
		results = append(results, *dto.FromModelToUserResponse(&users[i]))
	}
	return dto.NewPaginatedUserResponse(results, total, limit, offset), nil
}

func (s *userService) Create(ctx context.Context, req dto.AdminCreateUserRequest) (*dto.UserResponse, error) {
	if req.Username == reservedUsername {
		return nil, apperr.Validation("username", "this username is reserved")
	}
	if !usernamePattern.MatchString(req.Username) {
		return nil, apperr.Validation("username", "may contain only letters, digits and @/./+/-/_")
	}
	role := req.Role
	if role == "" {
		role = models.RoleUser
	}
	if !models.ValidRole(role) {
		return nil, apperr.Validation("role", "must be one of: user, moderator, admin")
	}

	user := &models.User{
		Username: req.Username,
		Email:    strings.ToLower(req.Email),
		Role:     role,
		Bio:      req.Bio,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperr.Validation("username", "username or email already in use")
		}
		return nil, err
	}
	return dto.FromModelToUserResponse(user), nil
}

func (s *userService) UpdateSelf(ctx context.Context, userID string, req dto.UpdateMeRequest) (*dto.UserResponse, error) {
	user, err := s.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if req.Email != nil {
		user.Email = strings.ToLower(*req.Email)
	}
	if req.Bio != nil {
		user.Bio = *req.Bio
	}
	return s.save(ctx, user)
}

func (s *userService) UpdateByUsername(ctx context.Context, username string, req dto.AdminUpdateUserRequest) (*dto.UserResponse, error) {
	user, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("user")
		}
		return nil, err
	}
	if req.Email != nil {
		user.Email = strings.ToLower(*req.Email)
	}
	if req.Role != nil {
		if !models.ValidRole(*req.Role) {
			return nil, apperr.Validation("role", "must be one of: user, moderator, admin")
		}
		user.Role = *req.Role
	}
	if req.Bio != nil {
		user.Bio = *req.Bio
	}
	return s.save(ctx, user)
}

// save persists the edit; the repository bumps state_version, so outstanding
// confirmation codes die with every profile change.
func (s *userService) save(ctx context.Context, user *models.User) (*dto.UserResponse, error) {
	if err := s.userRepo.Update(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperr.Validation("email", "email already registered")
		}
		return nil, err
	}
	return dto.FromModelToUserResponse(user), nil
}

func (s *userService) DeleteByUsername(ctx context.Context, username string) error {
	if err := s.userRepo.Delete(ctx, username); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFound("user")
		}
		return err
	}
	return nil
}
