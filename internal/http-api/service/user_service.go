package service

import (
	"context"

	"titlehub/internal/http-api/dto"
	"titlehub/internal/http-api/models"
	"titlehub/internal/http-api/repository"
)

type UserService interface {
	List(ctx context.Context, search string, page, pageSize int) (*dto.PaginatedUserResponse, error)
	Create(ctx context.Context, in dto.CreateUserDTO) (*dto.UserResponse, error)
	GetByUsername(ctx context.Context, username string) (*dto.UserResponse, error)
	UpdateByUsername(ctx context.Context, username string, in dto.UpdateUserDTO) (*dto.UserResponse, error)
	DeleteByUsername(ctx context.Context, username string) error
	// UpdateSelf applies a partial update to the caller's own profile. The
	// caller's role is pinned: whatever the payload carries, role stays.
	UpdateSelf(ctx context.Context, user *models.User, in dto.UpdateUserDTO) (*dto.UserResponse, error)
}

type userService struct {
	userRepo repository.UserRepository
}

func NewUserService(userRepo repository.UserRepository) UserService {
	return &userService{userRepo: userRepo}
}

func (s *userService) List(ctx context.Context, search string, page, pageSize int) (*dto.PaginatedUserResponse, error) {
	users, total, err := s.userRepo.List(ctx, search, page, pageSize)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.UserResponse, 0, len(users))
	for i := range users {
		responses = append(responses, dto.UserFromModel(&users[i]))
	}
	return dto.NewPaginatedUserResponse(responses, int(total), page, pageSize), nil
}

func (s *userService) Create(ctx context.Context, in dto.CreateUserDTO) (*dto.UserResponse, error) {
	if in.Username == "me" {
		return nil, ErrReservedUsername
	}
	if !usernamePattern.MatchString(in.Username) {
		return nil, ErrInvalidUsername
	}

	role := in.Role
	if role == "" {
		role = models.RoleUser
	}

	user := &models.User{
		Username:  in.Username,
		Email:     in.Email,
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Bio:       in.Bio,
		Role:      role,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, ErrDuplicateIdentity
		}
		return nil, err
	}

	resp := dto.UserFromModel(user)
	return &resp, nil
}

func (s *userService) GetByUsername(ctx context.Context, username string) (*dto.UserResponse, error) {
	user, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	resp := dto.UserFromModel(user)
	return &resp, nil
}

func (s *userService) UpdateByUsername(ctx context.Context, username string, in dto.UpdateUserDTO) (*dto.UserResponse, error) {
	user, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	return s.apply(ctx, user, in, true)
}

func (s *userService) UpdateSelf(ctx context.Context, user *models.User, in dto.UpdateUserDTO) (*dto.UserResponse, error) {
	return s.apply(ctx, user, in, false)
}

func (s *userService) apply(ctx context.Context, user *models.User, in dto.UpdateUserDTO, allowRoleChange bool) (*dto.UserResponse, error) {
	if in.Username != nil {
		if *in.Username == "me" {
			return nil, ErrReservedUsername
		}
		if !usernamePattern.MatchString(*in.Username) {
			return nil, ErrInvalidUsername
		}
		user.Username = *in.Username
	}
	if in.Email != nil {
		user.Email = *in.Email
	}
	if in.FirstName != nil {
		user.FirstName = *in.FirstName
	}
	if in.LastName != nil {
		user.LastName = *in.LastName
	}
	if in.Bio != nil {
		user.Bio = *in.Bio
	}
	if in.Role != nil && allowRoleChange {
		user.Role = *in.Role
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, ErrDuplicateIdentity
		}
		return nil, err
	}

	resp := dto.UserFromModel(user)
	return &resp, nil
}

func (s *userService) DeleteByUsername(ctx context.Context, username string) error {
	return s.userRepo.Delete(ctx, username)
}
