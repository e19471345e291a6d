package repository

import (
	"context"
	"strings"

	"github.com/fauzanhakim/ratebase/internal/entity"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ratingSelect computes the derived rating inline so listing stays a
// single aggregate query instead of loading reviews into memory.
const ratingSelect = "DISTINCT titles.*, COALESCE((SELECT AVG(reviews.score) FROM reviews WHERE reviews.title_id = titles.id), 0) AS rating"

// Query is the filter set of the catalog list endpoint.
type Query struct {
	Category string
	Genre    string
	Name     string
	Year     *int
	Limit    int
	Offset   int
}

type TitleRepository interface {
	Create(ctx context.Context, title *entity.Title) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Title, error)
	FindAll(ctx context.Context, q Query) ([]*entity.Title, int64, error)
	Update(ctx context.Context, title *entity.Title, genres []entity.Genre) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type titleRepository struct {
	db *gorm.DB
}

func NewTitleRepository(db *gorm.DB) TitleRepository {
	return &titleRepository{db: db}
}

func (r *titleRepository) Create(ctx context.Context, title *entity.Title) error {
	return r.db.WithContext(ctx).Create(title).Error
}

func (r *titleRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Title, error) {
	var title entity.Title
	if err := r.db.WithContext(ctx).
		Preload("Category").
		Preload("Genres").
		Select(ratingSelect).
		Where("titles.id = ?", id).
		First(&title).Error; err != nil {
		return nil, err
	}
	return &title, nil
}

func (r *titleRepository) filtered(ctx context.Context, q Query) *gorm.DB {
	query := r.db.WithContext(ctx).Model(&entity.Title{})

	if q.Category != "" {
		query = query.
			Joins("JOIN categories ON categories.id = titles.category_id").
			Where("LOWER(categories.slug) LIKE ?", "%"+strings.ToLower(q.Category)+"%")
	}
	if q.Genre != "" {
		query = query.
			Joins("JOIN title_genres ON title_genres.title_id = titles.id").
			Joins("JOIN genres ON genres.id = title_genres.genre_id").
			Where("LOWER(genres.slug) LIKE ?", "%"+strings.ToLower(q.Genre)+"%")
	}
	if q.Name != "" {
		query = query.Where("LOWER(titles.name) LIKE ?", "%"+strings.ToLower(q.Name)+"%")
	}
	if q.Year != nil {
		query = query.Where("titles.year = ?", *q.Year)
	}

	return query
}

func (r *titleRepository) FindAll(ctx context.Context, q Query) ([]*entity.Title, int64, error) {
	var titles []*entity.Title
	var total int64

	// Genre joins can fan a title out into several rows, so the count
	// collapses on the primary key.
	if err := r.filtered(ctx, q).Distinct("titles.id").Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := r.filtered(ctx, q).
		Preload("Category").
		Preload("Genres").
		Select(ratingSelect).
		Order("titles.name ASC").
		Limit(q.Limit).
		Offset(q.Offset).
		Find(&titles).Error; err != nil {
		return nil, 0, err
	}

	return titles, total, nil
}

func (r *titleRepository) Update(ctx context.Context, title *entity.Title, genres []entity.Genre) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Save(title).Error; err != nil {
			return err
		}
		if genres != nil {
			if err := tx.Model(title).Association("Genres").Replace(genres); err != nil {
				return err
			}
		}
		return nil
	})
}

// Delete removes the title; its reviews, their comments and the genre
// links all go through the cascade constraints.
func (r *titleRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Select(clause.Associations).Delete(&entity.Title{ID: id}).Error
}
