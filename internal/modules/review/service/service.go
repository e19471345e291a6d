package review

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/fauzanhakim/ratebase/internal/entity"
	"github.com/fauzanhakim/ratebase/internal/modules/review/dto"
	"github.com/fauzanhakim/ratebase/internal/modules/review/repository"
	"github.com/fauzanhakim/ratebase/internal/permission"
	"github.com/fauzanhakim/ratebase/pkg/apperror"
	commonDto "github.com/fauzanhakim/ratebase/pkg/dto"
	"github.com/fauzanhakim/ratebase/pkg/ratelimiter"
	"github.com/fauzanhakim/ratebase/pkg/validator"
	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// TitleResolver is the slice of the title repository needed to anchor
// nested review routes.
type TitleResolver interface {
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Title, error)
}

type ReviewService interface {
	Create(ctx context.Context, actor permission.Actor, titleID uuid.UUID, req dto.CreateReviewRequest) (*dto.ReviewResponse, error)
	Get(ctx context.Context, titleID, reviewID uuid.UUID) (*dto.ReviewResponse, error)
	List(ctx context.Context, titleID uuid.UUID, filter dto.ReviewFilter) (*dto.PaginatedReviewResponse, error)
	Update(ctx context.Context, actor permission.Actor, titleID, reviewID uuid.UUID, req dto.UpdateReviewRequest) (*dto.ReviewResponse, error)
	Delete(ctx context.Context, actor permission.Actor, titleID, reviewID uuid.UUID) error
}

type reviewService struct {
	repo        repository.ReviewRepository
	titles      TitleResolver
	redisClient *redis.Client
	writeLimit  time.Duration
	sanitizer   *bluemonday.Policy
}

func NewReviewService(repo repository.ReviewRepository, titles TitleResolver, redisClient *redis.Client, writeLimit time.Duration) ReviewService {
	return &reviewService{
		repo:        repo,
		titles:      titles,
		redisClient: redisClient,
		writeLimit:  writeLimit,
		sanitizer:   bluemonday.StrictPolicy(),
	}
}

// Create enforces the one-review-per-(title, author) rule. The lookup
// produces the friendly conflict before any side effect; the composite
// unique index is the authority when two submissions race, and its
// violation is translated to the same conflict.
func (s *reviewService) Create(ctx context.Context, actor permission.Actor, titleID uuid.UUID, req dto.CreateReviewRequest) (*dto.ReviewResponse, error) {
	if err := permission.Evaluate(actor, http.MethodPost, uuid.Nil, permission.Authenticated); err != nil {
		return nil, err
	}
	if err := validator.Score(req.Score); err != nil {
		return nil, err
	}
	if _, err := s.findTitle(ctx, titleID); err != nil {
		return nil, err
	}

	if _, err := s.repo.FindByTitleAndAuthor(ctx, titleID, actor.ID); err == nil {
		return nil, apperror.Conflict("review already submitted for this title")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	allowed, err := ratelimiter.CheckAndSet(ctx, s.redisClient, actor.ID, "review", s.writeLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to check rate limit: %w", err)
	}
	if !allowed {
		ttl, _ := ratelimiter.TTL(ctx, s.redisClient, actor.ID, "review")
		return nil, apperror.New(http.StatusTooManyRequests,
			fmt.Sprintf("you are doing that too fast, please wait %.0f seconds", ttl.Seconds()),
			apperror.ErrRateLimitExceeded)
	}

	review := &entity.Review{
		TitleID:  titleID,
		AuthorID: actor.ID,
		Score:    req.Score,
		Text:     s.sanitizer.Sanitize(req.Text),
	}

	if err := s.repo.Create(ctx, review); err != nil {
		_ = ratelimiter.Clear(ctx, s.redisClient, actor.ID, "review")
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperror.Conflict("review already submitted for this title")
		}
		return nil, err
	}

	return s.Get(ctx, titleID, review.ID)
}

func (s *reviewService) Get(ctx context.Context, titleID, reviewID uuid.UUID) (*dto.ReviewResponse, error) {
	review, err := s.findReview(ctx, titleID, reviewID)
	if err != nil {
		return nil, err
	}
	resp := dto.NewReviewResponse(review)
	return &resp, nil
}

func (s *reviewService) List(ctx context.Context, titleID uuid.UUID, filter dto.ReviewFilter) (*dto.PaginatedReviewResponse, error) {
	filter.Normalize()

	if _, err := s.findTitle(ctx, titleID); err != nil {
		return nil, err
	}

	reviews, total, err := s.repo.FindByTitle(ctx, titleID, filter.Limit, filter.Offset)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.ReviewResponse, 0, len(reviews))
	for _, review := range reviews {
		responses = append(responses, dto.NewReviewResponse(review))
	}

	return &dto.PaginatedReviewResponse{
		Data: responses,
		Meta: commonDto.Meta(total, filter.Pagination),
	}, nil
}

func (s *reviewService) Update(ctx context.Context, actor permission.Actor, titleID, reviewID uuid.UUID, req dto.UpdateReviewRequest) (*dto.ReviewResponse, error) {
	review, err := s.findReview(ctx, titleID, reviewID)
	if err != nil {
		return nil, err
	}

	if err := permission.Evaluate(actor, http.MethodPatch, review.AuthorID,
		permission.AuthenticatedOrReadOnly, permission.AuthorOrModeratorOrReadOnly); err != nil {
		return nil, err
	}

	if req.Score != nil {
		if err := validator.Score(*req.Score); err != nil {
			return nil, err
		}
		review.Score = *req.Score
	}
	if req.Text != nil {
		review.Text = s.sanitizer.Sanitize(*req.Text)
	}

	if err := s.repo.Update(ctx, review); err != nil {
		return nil, err
	}

	resp := dto.NewReviewResponse(review)
	return &resp, nil
}

func (s *reviewService) Delete(ctx context.Context, actor permission.Actor, titleID, reviewID uuid.UUID) error {
	review, err := s.findReview(ctx, titleID, reviewID)
	if err != nil {
		return err
	}

	if err := permission.Evaluate(actor, http.MethodDelete, review.AuthorID,
		permission.AuthenticatedOrReadOnly, permission.AuthorOrModeratorOrReadOnly); err != nil {
		return err
	}

	return s.repo.Delete(ctx, review)
}

func (s *reviewService) findTitle(ctx context.Context, titleID uuid.UUID) (*entity.Title, error) {
	title, err := s.titles.FindByID(ctx, titleID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("title not found")
		}
		return nil, err
	}
	return title, nil
}

func (s *reviewService) findReview(ctx context.Context, titleID, reviewID uuid.UUID) (*entity.Review, error) {
	review, err := s.repo.FindByID(ctx, titleID, reviewID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("review not found")
		}
		return nil, err
	}
	return review, nil
}
