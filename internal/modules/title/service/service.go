package title

import (
	"context"
	"errors"
	"fmt"

	"github.com/fauzanhakim/ratebase/internal/entity"
	genreRepo "github.com/fauzanhakim/ratebase/internal/modules/genre/repository"
	"github.com/fauzanhakim/ratebase/internal/modules/title/dto"
	"github.com/fauzanhakim/ratebase/internal/modules/title/repository"
	"github.com/fauzanhakim/ratebase/pkg/apperror"
	commonDto "github.com/fauzanhakim/ratebase/pkg/dto"
	"github.com/fauzanhakim/ratebase/pkg/validator"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TitleService interface {
	Create(ctx context.Context, req dto.CreateTitleRequest) (*dto.TitleResponse, error)
	Get(ctx context.Context, id uuid.UUID) (*dto.TitleResponse, error)
	List(ctx context.Context, filter dto.TitleFilter) (*dto.PaginatedTitleResponse, error)
	Update(ctx context.Context, id uuid.UUID, req dto.UpdateTitleRequest) (*dto.TitleResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type titleService struct {
	repo       repository.TitleRepository
	categories CategoryResolver
	genres     genreRepo.GenreRepository
}

// CategoryResolver is the slice of the category repository the title
// service needs to resolve slugs.
type CategoryResolver interface {
	FindBySlug(ctx context.Context, slug string) (*entity.Category, error)
}

func NewTitleService(repo repository.TitleRepository, categories CategoryResolver, genres genreRepo.GenreRepository) TitleService {
	return &titleService{repo: repo, categories: categories, genres: genres}
}

func (s *titleService) Create(ctx context.Context, req dto.CreateTitleRequest) (*dto.TitleResponse, error) {
	if err := validator.Year(req.Year); err != nil {
		return nil, err
	}

	title := &entity.Title{
		Name:        req.Name,
		Year:        req.Year,
		Description: req.Description,
	}

	if req.Category != "" {
		category, err := s.resolveCategory(ctx, req.Category)
		if err != nil {
			return nil, err
		}
		title.CategoryID = &category.ID
		title.Category = category
	}

	if len(req.Genres) > 0 {
		genres, err := s.resolveGenres(ctx, req.Genres)
		if err != nil {
			return nil, err
		}
		title.Genres = genres
	}

	if err := s.repo.Create(ctx, title); err != nil {
		return nil, err
	}

	resp := dto.NewTitleResponse(title)
	return &resp, nil
}

func (s *titleService) Get(ctx context.Context, id uuid.UUID) (*dto.TitleResponse, error) {
	title, err := s.findTitle(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := dto.NewTitleResponse(title)
	return &resp, nil
}

func (s *titleService) List(ctx context.Context, filter dto.TitleFilter) (*dto.PaginatedTitleResponse, error) {
	filter.Normalize()

	titles, total, err := s.repo.FindAll(ctx, repository.Query{
		Category: filter.Category,
		Genre:    filter.Genre,
		Name:     filter.Name,
		Year:     filter.Year,
		Limit:    filter.Limit,
		Offset:   filter.Offset,
	})
	if err != nil {
		return nil, err
	}

	responses := make([]dto.TitleResponse, 0, len(titles))
	for _, title := range titles {
		responses = append(responses, dto.NewTitleResponse(title))
	}

	return &dto.PaginatedTitleResponse{
		Data: responses,
		Meta: commonDto.Meta(total, filter.Pagination),
	}, nil
}

func (s *titleService) Update(ctx context.Context, id uuid.UUID, req dto.UpdateTitleRequest) (*dto.TitleResponse, error) {
	title, err := s.findTitle(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		title.Name = *req.Name
	}
	if req.Year != nil {
		if err := validator.Year(*req.Year); err != nil {
			return nil, err
		}
		title.Year = *req.Year
	}
	if req.Description != nil {
		title.Description = *req.Description
	}
	if req.Category != nil {
		if *req.Category == "" {
			title.CategoryID = nil
			title.Category = nil
		} else {
			category, err := s.resolveCategory(ctx, *req.Category)
			if err != nil {
				return nil, err
			}
			title.CategoryID = &category.ID
			title.Category = category
		}
	}

	var genres []entity.Genre
	if req.Genres != nil {
		genres, err = s.resolveGenres(ctx, *req.Genres)
		if err != nil {
			return nil, err
		}
		title.Genres = genres
	}

	if err := s.repo.Update(ctx, title, genres); err != nil {
		return nil, err
	}

	// Re-read so the response carries the current rating and associations.
	return s.Get(ctx, title.ID)
}

func (s *titleService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.findTitle(ctx, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

func (s *titleService) findTitle(ctx context.Context, id uuid.UUID) (*entity.Title, error) {
	title, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("title not found")
		}
		return nil, err
	}
	return title, nil
}

func (s *titleService) resolveCategory(ctx context.Context, slug string) (*entity.Category, error) {
	category, err := s.categories.FindBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.Validation("category", fmt.Sprintf("category %q does not exist", slug))
		}
		return nil, err
	}
	return category, nil
}

func (s *titleService) resolveGenres(ctx context.Context, slugs []string) ([]entity.Genre, error) {
	genres, err := s.genres.FindBySlugs(ctx, slugs)
	if err != nil {
		return nil, err
	}
	if len(genres) != len(slugs) {
		found := make(map[string]bool, len(genres))
		for _, genre := range genres {
			found[genre.Slug] = true
		}
		for _, slug := range slugs {
			if !found[slug] {
				return nil, apperror.Validation("genres", fmt.Sprintf("genre %q does not exist", slug))
			}
		}
	}
	return genres, nil
}
