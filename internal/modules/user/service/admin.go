package service

import (
	"context"
	"errors"

	"github.com/fauzanhakim/ratebase/internal/entity"
	"github.com/fauzanhakim/ratebase/internal/modules/user/dto"
	"github.com/fauzanhakim/ratebase/internal/modules/user/repository"
	"github.com/fauzanhakim/ratebase/pkg/apperror"
	commonDto "github.com/fauzanhakim/ratebase/pkg/dto"
	"github.com/fauzanhakim/ratebase/pkg/validator"
	"github.com/microcosm-cc/bluemonday"
	"gorm.io/gorm"
)

// AdminService is the full user-management surface; only admins reach it.
type AdminService interface {
	List(ctx context.Context, filter dto.UserFilter) (*dto.PaginatedUserResponse, error)
	Create(ctx context.Context, req dto.AdminCreateUserRequest) (*dto.UserResponse, error)
	Get(ctx context.Context, username string) (*dto.UserResponse, error)
	Update(ctx context.Context, username string, req dto.AdminUpdateUserRequest) (*dto.UserResponse, error)
	Delete(ctx context.Context, username string) error
}

type adminService struct {
	repo      repository.UserRepository
	sanitizer *bluemonday.Policy
}

func NewAdminService(repo repository.UserRepository) AdminService {
	return &adminService{repo: repo, sanitizer: bluemonday.StrictPolicy()}
}

func (s *adminService) List(ctx context.Context, filter dto.UserFilter) (*dto.PaginatedUserResponse, error) {
	filter.Normalize()

	users, total, err := s.repo.FindAll(ctx, filter.Search, filter.Limit, filter.Offset)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.UserResponse, 0, len(users))
	for _, user := range users {
		responses = append(responses, dto.NewUserResponse(user))
	}

	return &dto.PaginatedUserResponse{
		Data: responses,
		Meta: commonDto.Meta(total, filter.Pagination),
	}, nil
}

func (s *adminService) Create(ctx context.Context, req dto.AdminCreateUserRequest) (*dto.UserResponse, error) {
	if err := validator.Username(req.Username); err != nil {
		return nil, err
	}
	role := req.Role
	if role == "" {
		role = entity.RoleUser
	}
	if err := validator.Role(role); err != nil {
		return nil, err
	}

	user := &entity.User{
		Username:  req.Username,
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Bio:       s.sanitizer.Sanitize(req.Bio),
		Role:      role,
	}

	if err := s.repo.Create(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperror.Conflict("a user with this username or email already exists")
		}
		return nil, err
	}

	resp := dto.NewUserResponse(user)
	return &resp, nil
}

func (s *adminService) Get(ctx context.Context, username string) (*dto.UserResponse, error) {
	user, err := s.findByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	resp := dto.NewUserResponse(user)
	return &resp, nil
}

func (s *adminService) Update(ctx context.Context, username string, req dto.AdminUpdateUserRequest) (*dto.UserResponse, error) {
	user, err := s.findByUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	if err := applyUserPatch(user, req.Username, req.Email, req.FirstName, req.LastName, req.Bio, s.sanitizer); err != nil {
		return nil, err
	}
	// Unlike the self-service endpoint, admins may change the role.
	if req.Role != nil {
		if err := validator.Role(*req.Role); err != nil {
			return nil, err
		}
		user.Role = *req.Role
	}

	if err := s.repo.Update(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperror.Conflict("a user with this username or email already exists")
		}
		return nil, err
	}

	resp := dto.NewUserResponse(user)
	return &resp, nil
}

func (s *adminService) Delete(ctx context.Context, username string) error {
	user, err := s.findByUsername(ctx, username)
	if err != nil {
		return err
	}
	return s.repo.Delete(ctx, user.ID)
}

func (s *adminService) findByUsername(ctx context.Context, username string) (*entity.User, error) {
	user, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("user not found")
		}
		return nil, err
	}
	return user, nil
}
