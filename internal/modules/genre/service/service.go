package genre

import (
	"context"
	"errors"

	"github.com/fauzanhakim/ratebase/internal/entity"
	"github.com/fauzanhakim/ratebase/internal/modules/genre/dto"
	"github.com/fauzanhakim/ratebase/internal/modules/genre/repository"
	"github.com/fauzanhakim/ratebase/pkg/apperror"
	commonDto "github.com/fauzanhakim/ratebase/pkg/dto"
	"github.com/fauzanhakim/ratebase/pkg/validator"
	"gorm.io/gorm"
)

type GenreService interface {
	Create(ctx context.Context, req dto.CreateGenreRequest) (*dto.GenreResponse, error)
	List(ctx context.Context, filter dto.GenreFilter) (*dto.PaginatedGenreResponse, error)
	Delete(ctx context.Context, slug string) error
}

type genreService struct {
	repo repository.GenreRepository
}

func NewGenreService(repo repository.GenreRepository) GenreService {
	return &genreService{repo: repo}
}

func (s *genreService) Create(ctx context.Context, req dto.CreateGenreRequest) (*dto.GenreResponse, error) {
	if err := validator.Slug(req.Slug); err != nil {
		return nil, err
	}

	genre := &entity.Genre{Name: req.Name, Slug: req.Slug}
	if err := s.repo.Create(ctx, genre); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperror.Conflict("a genre with this slug already exists")
		}
		return nil, err
	}

	return &dto.GenreResponse{Name: genre.Name, Slug: genre.Slug}, nil
}

func (s *genreService) List(ctx context.Context, filter dto.GenreFilter) (*dto.PaginatedGenreResponse, error) {
	filter.Normalize()

	genres, total, err := s.repo.FindAll(ctx, filter.Search, filter.Limit, filter.Offset)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.GenreResponse, 0, len(genres))
	for _, genre := range genres {
		responses = append(responses, dto.GenreResponse{Name: genre.Name, Slug: genre.Slug})
	}

	return &dto.PaginatedGenreResponse{
		Data: responses,
		Meta: commonDto.Meta(total, filter.Pagination),
	}, nil
}

func (s *genreService) Delete(ctx context.Context, slug string) error {
	genre, err := s.repo.FindBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperror.NotFound("genre not found")
		}
		return err
	}

	return s.repo.Delete(ctx, genre)
}
