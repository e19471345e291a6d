package comment

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/fauzanhakim/ratebase/internal/entity"
	"github.com/fauzanhakim/ratebase/internal/modules/comment/dto"
	"github.com/fauzanhakim/ratebase/internal/modules/comment/repository"
	"github.com/fauzanhakim/ratebase/internal/permission"
	"github.com/fauzanhakim/ratebase/pkg/apperror"
	commonDto "github.com/fauzanhakim/ratebase/pkg/dto"
	"github.com/fauzanhakim/ratebase/pkg/ratelimiter"
	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// ReviewResolver anchors nested comment routes: the review must exist
// under the given title or the whole subtree is not found.
type ReviewResolver interface {
	FindByID(ctx context.Context, titleID, reviewID uuid.UUID) (*entity.Review, error)
}

type CommentService interface {
	Create(ctx context.Context, actor permission.Actor, titleID, reviewID uuid.UUID, req dto.CreateCommentRequest) (*dto.CommentResponse, error)
	Get(ctx context.Context, titleID, reviewID, commentID uuid.UUID) (*dto.CommentResponse, error)
	List(ctx context.Context, titleID, reviewID uuid.UUID, filter dto.CommentFilter) (*dto.PaginatedCommentResponse, error)
	Update(ctx context.Context, actor permission.Actor, titleID, reviewID, commentID uuid.UUID, req dto.UpdateCommentRequest) (*dto.CommentResponse, error)
	Delete(ctx context.Context, actor permission.Actor, titleID, reviewID, commentID uuid.UUID) error
}

type commentService struct {
	repo        repository.CommentRepository
	reviews     ReviewResolver
	redisClient *redis.Client
	writeLimit  time.Duration
	sanitizer   *bluemonday.Policy
}

func NewCommentService(repo repository.CommentRepository, reviews ReviewResolver, redisClient *redis.Client, writeLimit time.Duration) CommentService {
	return &commentService{
		repo:        repo,
		reviews:     reviews,
		redisClient: redisClient,
		writeLimit:  writeLimit,
		sanitizer:   bluemonday.StrictPolicy(),
	}
}

func (s *commentService) Create(ctx context.Context, actor permission.Actor, titleID, reviewID uuid.UUID, req dto.CreateCommentRequest) (*dto.CommentResponse, error) {
	if err := permission.Evaluate(actor, http.MethodPost, uuid.Nil, permission.Authenticated); err != nil {
		return nil, err
	}
	if _, err := s.findReview(ctx, titleID, reviewID); err != nil {
		return nil, err
	}

	allowed, err := ratelimiter.CheckAndSet(ctx, s.redisClient, actor.ID, "comment", s.writeLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to check rate limit: %w", err)
	}
	if !allowed {
		ttl, _ := ratelimiter.TTL(ctx, s.redisClient, actor.ID, "comment")
		return nil, apperror.New(http.StatusTooManyRequests,
			fmt.Sprintf("you are doing that too fast, please wait %.0f seconds", ttl.Seconds()),
			apperror.ErrRateLimitExceeded)
	}

	comment := &entity.Comment{
		ReviewID: reviewID,
		AuthorID: actor.ID,
		Text:     s.sanitizer.Sanitize(req.Text),
	}

	if err := s.repo.Create(ctx, comment); err != nil {
		_ = ratelimiter.Clear(ctx, s.redisClient, actor.ID, "comment")
		return nil, err
	}

	return s.Get(ctx, titleID, reviewID, comment.ID)
}

func (s *commentService) Get(ctx context.Context, titleID, reviewID, commentID uuid.UUID) (*dto.CommentResponse, error) {
	if _, err := s.findReview(ctx, titleID, reviewID); err != nil {
		return nil, err
	}

	comment, err := s.findComment(ctx, reviewID, commentID)
	if err != nil {
		return nil, err
	}
	resp := dto.NewCommentResponse(comment)
	return &resp, nil
}

func (s *commentService) List(ctx context.Context, titleID, reviewID uuid.UUID, filter dto.CommentFilter) (*dto.PaginatedCommentResponse, error) {
	filter.Normalize()

	if _, err := s.findReview(ctx, titleID, reviewID); err != nil {
		return nil, err
	}

	comments, total, err := s.repo.FindByReview(ctx, reviewID, filter.Limit, filter.Offset)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.CommentResponse, 0, len(comments))
	for _, comment := range comments {
		responses = append(responses, dto.NewCommentResponse(comment))
	}

	return &dto.PaginatedCommentResponse{
		Data: responses,
		Meta: commonDto.Meta(total, filter.Pagination),
	}, nil
}

func (s *commentService) Update(ctx context.Context, actor permission.Actor, titleID, reviewID, commentID uuid.UUID, req dto.UpdateCommentRequest) (*dto.CommentResponse, error) {
	if _, err := s.findReview(ctx, titleID, reviewID); err != nil {
		return nil, err
	}

	comment, err := s.findComment(ctx, reviewID, commentID)
	if err != nil {
		return nil, err
	}

	if err := permission.Evaluate(actor, http.MethodPatch, comment.AuthorID,
		permission.AuthenticatedOrReadOnly, permission.AuthorOrModeratorOrReadOnly); err != nil {
		return nil, err
	}

	if req.Text != nil {
		comment.Text = s.sanitizer.Sanitize(*req.Text)
	}

	if err := s.repo.Update(ctx, comment); err != nil {
		return nil, err
	}

	resp := dto.NewCommentResponse(comment)
	return &resp, nil
}

func (s *commentService) Delete(ctx context.Context, actor permission.Actor, titleID, reviewID, commentID uuid.UUID) error {
	if _, err := s.findReview(ctx, titleID, reviewID); err != nil {
		return err
	}

	comment, err := s.findComment(ctx, reviewID, commentID)
	if err != nil {
		return err
	}

	if err := permission.Evaluate(actor, http.MethodDelete, comment.AuthorID,
		permission.AuthenticatedOrReadOnly, permission.AuthorOrModeratorOrReadOnly); err != nil {
		return err
	}

	return s.repo.Delete(ctx, comment)
}

func (s *commentService) findReview(ctx context.Context, titleID, reviewID uuid.UUID) (*entity.Review, error) {
	review, err := s.reviews.FindByID(ctx, titleID, reviewID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("review not found")
		}
		return nil, err
	}
	return review, nil
}

func (s *commentService) findComment(ctx context.Context, reviewID, commentID uuid.UUID) (*entity.Comment, error) {
	comment, err := s.repo.FindByID(ctx, reviewID, commentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("comment not found")
		}
		return nil, err
	}
	return comment, nil
}
