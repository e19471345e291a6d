package service

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/fauzanhakim/ratebase/internal/entity"
	"github.com/fauzanhakim/ratebase/internal/modules/user/dto"
	"github.com/fauzanhakim/ratebase/internal/modules/user/repository"
	"github.com/fauzanhakim/ratebase/internal/token"
	"github.com/fauzanhakim/ratebase/pkg/apperror"
	"github.com/fauzanhakim/ratebase/pkg/mailer"
	"github.com/fauzanhakim/ratebase/pkg/validator"
	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"
	"gorm.io/gorm"
)

type AuthService interface {
	Signup(ctx context.Context, req dto.SignupRequest) (*dto.SignupResponse, error)
	IssueToken(ctx context.Context, req dto.TokenRequest) (*dto.TokenResponse, error)
	GetMe(ctx context.Context, userID uuid.UUID) (*dto.UserResponse, error)
	UpdateMe(ctx context.Context, userID uuid.UUID, req dto.UpdateMeRequest) (*dto.UserResponse, error)
}

type authService struct {
	repo      repository.UserRepository
	codes     *token.CodeEngine
	issuer    *token.Issuer
	mail      mailer.Sender
	sanitizer *bluemonday.Policy
}

func NewAuthService(repo repository.UserRepository, codes *token.CodeEngine, issuer *token.Issuer, mail mailer.Sender) AuthService {
	return &authService{
		repo:      repo,
		codes:     codes,
		issuer:    issuer,
		mail:      mail,
		sanitizer: bluemonday.StrictPolicy(),
	}
}

// Signup registers a user or re-triggers code delivery for an existing
// (username, email) pair. The unique indexes on both columns are the
// authority; a duplicate that races past the lookup comes back as
// gorm.ErrDuplicatedKey and is converted to the same conflict.
func (s *authService) Signup(ctx context.Context, req dto.SignupRequest) (*dto.SignupResponse, error) {
	if err := validator.Username(req.Username); err != nil {
		return nil, err
	}

	user, err := s.repo.FindByUsernameOrEmail(ctx, req.Username, req.Email)
	switch {
	case err == nil:
		// Exact pair match is an idempotent re-signup; a partial match
		// means the username or email belongs to someone else.
		if user.Username != req.Username {
			return nil, apperror.Conflict("email is already registered")
		}
		if user.Email != req.Email {
			return nil, apperror.Conflict("username is already taken")
		}
	case errors.Is(err, gorm.ErrRecordNotFound):
		user = &entity.User{
			Username: req.Username,
			Email:    req.Email,
			Role:     entity.RoleUser,
		}
		if err := s.repo.Create(ctx, user); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return nil, apperror.Conflict("a user with this username or email already exists")
			}
			return nil, err
		}
	default:
		return nil, err
	}

	s.deliverCode(user)

	return &dto.SignupResponse{Username: user.Username, Email: user.Email}, nil
}

func (s *authService) deliverCode(user *entity.User) {
	code := s.codes.Issue(user)
	body := fmt.Sprintf("Your confirmation code: %s", code)
	if err := s.mail.Send(user.Email, "API access confirmation code", body); err != nil {
		// Delivery is best-effort: the code is derivable again on the
		// next signup call, so the request still succeeds.
		log.Printf("failed to send confirmation code to %s: %v", user.Email, err)
	}
}

func (s *authService) IssueToken(ctx context.Context, req dto.TokenRequest) (*dto.TokenResponse, error) {
	user, err := s.repo.FindByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("user not found")
		}
		return nil, err
	}

	if !s.codes.Verify(user, req.ConfirmationCode) {
		return nil, apperror.Validation("confirmation_code", "invalid confirmation code")
	}

	tokenString, err := s.issuer.Issue(user.ID)
	if err != nil {
		return nil, err
	}

	return &dto.TokenResponse{Token: tokenString}, nil
}

func (s *authService) GetMe(ctx context.Context, userID uuid.UUID) (*dto.UserResponse, error) {
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("user not found")
		}
		return nil, err
	}
	resp := dto.NewUserResponse(user)
	return &resp, nil
}

func (s *authService) UpdateMe(ctx context.Context, userID uuid.UUID, req dto.UpdateMeRequest) (*dto.UserResponse, error) {
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("user not found")
		}
		return nil, err
	}

	if err := applyUserPatch(user, req.Username, req.Email, req.FirstName, req.LastName, req.Bio, s.sanitizer); err != nil {
		return nil, err
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

func applyUserPatch(user *entity.User, username, email, firstName, lastName, bio *string, sanitizer *bluemonday.Policy) error {
	if username != nil && *username != user.Username {
		if err := validator.Username(*username); err != nil {
			return err
		}
		user.Username = *username
	}
	if email != nil {
		user.Email = *email
	}
	if firstName != nil {
		user.FirstName = *firstName
	}
	if lastName != nil {
		user.LastName = *lastName
	}
	if bio != nil {
		user.Bio = sanitizer.Sanitize(*bio)
	}
	return nil
}
