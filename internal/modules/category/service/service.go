package category

import (
	"context"
	"errors"

	"github.com/fauzanhakim/ratebase/internal/entity"
	"github.com/fauzanhakim/ratebase/internal/modules/category/dto"
	"github.com/fauzanhakim/ratebase/internal/modules/category/repository"
	"github.com/fauzanhakim/ratebase/pkg/apperror"
	commonDto "github.com/fauzanhakim/ratebase/pkg/dto"
	"github.com/fauzanhakim/ratebase/pkg/validator"
	"gorm.io/gorm"
)

type CategoryService interface {
	Create(ctx context.Context, req dto.CreateCategoryRequest) (*dto.CategoryResponse, error)
	List(ctx context.Context, filter dto.CategoryFilter) (*dto.PaginatedCategoryResponse, error)
	Delete(ctx context.Context, slug string) error
}

type categoryService struct {
	repo repository.CategoryRepository
}

func NewCategoryService(repo repository.CategoryRepository) CategoryService {
	return &categoryService{repo: repo}
}

func (s *categoryService) Create(ctx context.Context, req dto.CreateCategoryRequest) (*dto.CategoryResponse, error) {
	if err := validator.Slug(req.Slug); err != nil {
		return nil, err
	}

	category := &entity.Category{Name: req.Name, Slug: req.Slug}
	if err := s.repo.Create(ctx, category); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperror.Conflict("a category with this slug already exists")
		}
		return nil, err
	}

	return &dto.CategoryResponse{Name: category.Name, Slug: category.Slug}, nil
}

func (s *categoryService) List(ctx context.Context, filter dto.CategoryFilter) (*dto.PaginatedCategoryResponse, error) {
	filter.Normalize()

	categories, total, err := s.repo.FindAll(ctx, filter.Search, filter.Limit, filter.Offset)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.CategoryResponse, 0, len(categories))
	for _, category := range categories {
		responses = append(responses, dto.CategoryResponse{Name: category.Name, Slug: category.Slug})
	}

	return &dto.PaginatedCategoryResponse{
		Data: responses,
		Meta: commonDto.Meta(total, filter.Pagination),
	}, nil
}

func (s *categoryService) Delete(ctx context.Context, slug string) error {
	category, err := s.repo.FindBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperror.NotFound("category not found")
		}
		return err
	}

	return s.repo.Delete(ctx, category)
}
