package title

import (
	"context"
	"testing"
	"time"

	"github.com/fauzanhakim/ratebase/internal/entity"
	categoryRepo "github.com/fauzanhakim/ratebase/internal/modules/category/repository"
	genreRepo "github.com/fauzanhakim/ratebase/internal/modules/genre/repository"
	"github.com/fauzanhakim/ratebase/internal/modules/title/dto"
	"github.com/fauzanhakim/ratebase/internal/modules/title/repository"
	"github.com/fauzanhakim/ratebase/internal/testutil"
	"github.com/fauzanhakim/ratebase/pkg/apperror"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupTitleService(t *testing.T) (TitleService, *gorm.DB) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	svc := NewTitleService(
		repository.NewTitleRepository(db),
		categoryRepo.NewCategoryRepository(db),
		genreRepo.NewGenreRepository(db),
	)

	require.NoError(t, db.Create(&entity.Category{Name: "Films", Slug: "films"}).Error)
	require.NoError(t, db.Create(&entity.Category{Name: "Books", Slug: "books"}).Error)
	require.NoError(t, db.Create(&entity.Genre{Name: "Science Fiction", Slug: "sci-fi"}).Error)
	require.NoError(t, db.Create(&entity.Genre{Name: "Drama", Slug: "drama"}).Error)

	return svc, db
}

func TestCreateTitle(t *testing.T) {
	svc, _ := setupTitleService(t)
	ctx := context.Background()

	resp, err := svc.Create(ctx, dto.CreateTitleRequest{
		Name:     "Solaris",
		Year:     1961,
		Category: "books",
		Genres:   []string{"sci-fi", "drama"},
	})
	require.NoError(t, err)
	assert.Equal(t, "Solaris", resp.Name)
	require.NotNil(t, resp.Category)
	assert.Equal(t, "books", resp.Category.Slug)
	assert.Len(t, resp.Genres, 2)
	assert.Zero(t, resp.Rating)
}

func TestCreateTitleValidation(t *testing.T) {
	svc, _ := setupTitleService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, dto.CreateTitleRequest{Name: "From the Future", Year: time.Now().Year() + 1})
	assert.ErrorIs(t, err, apperror.ErrBadRequest)

	_, err = svc.Create(ctx, dto.CreateTitleRequest{Name: "X", Year: 2000, Category: "missing"})
	assert.ErrorIs(t, err, apperror.ErrBadRequest)

	_, err = svc.Create(ctx, dto.CreateTitleRequest{Name: "X", Year: 2000, Genres: []string{"sci-fi", "missing"}})
	assert.ErrorIs(t, err, apperror.ErrBadRequest)

	var vErr *apperror.ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Contains(t, vErr.Fields, "genres")
}

func TestListTitlesFilters(t *testing.T) {
	svc, _ := setupTitleService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, dto.CreateTitleRequest{Name: "Solaris", Year: 1961, Category: "books", Genres: []string{"sci-fi"}})
	require.NoError(t, err)
	_, err = svc.Create(ctx, dto.CreateTitleRequest{Name: "Stalker", Year: 1979, Category: "films", Genres: []string{"sci-fi", "drama"}})
	require.NoError(t, err)
	_, err = svc.Create(ctx, dto.CreateTitleRequest{Name: "Amadeus", Year: 1984, Category: "films", Genres: []string{"drama"}})
	require.NoError(t, err)

	resp, err := svc.List(ctx, dto.TitleFilter{Category: "films"})
	require.NoError(t, err)
	assert.EqualValues(t, 2, resp.Meta.TotalItems)

	resp, err = svc.List(ctx, dto.TitleFilter{Genre: "sci-fi"})
	require.NoError(t, err)
	assert.EqualValues(t, 2, resp.Meta.TotalItems)

	resp, err = svc.List(ctx, dto.TitleFilter{Name: "sol"})
	require.NoError(t, err)
	require.EqualValues(t, 1, resp.Meta.TotalItems)
	assert.Equal(t, "Solaris", resp.Data[0].Name)

	year := 1979
	resp, err = svc.List(ctx, dto.TitleFilter{Year: &year})
	require.NoError(t, err)
	require.EqualValues(t, 1, resp.Meta.TotalItems)
	assert.Equal(t, "Stalker", resp.Data[0].Name)

	// A title in two matching genres still counts once.
	resp, err = svc.List(ctx, dto.TitleFilter{Genre: "a"})
	require.NoError(t, err)
	assert.EqualValues(t, 3, resp.Meta.TotalItems)
}

func TestUpdateTitle(t *testing.T) {
	svc, _ := setupTitleService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, dto.CreateTitleRequest{Name: "Solaris", Year: 1961, Category: "books", Genres: []string{"sci-fi"}})
	require.NoError(t, err)

	name := "Solaris (restored)"
	genres := []string{"drama"}
	resp, err := svc.Update(ctx, created.ID, dto.UpdateTitleRequest{Name: &name, Genres: &genres})
	require.NoError(t, err)
	assert.Equal(t, name, resp.Name)
	require.Len(t, resp.Genres, 1)
	assert.Equal(t, "drama", resp.Genres[0].Slug)

	// Empty category string detaches the category.
	empty := ""
	resp, err = svc.Update(ctx, created.ID, dto.UpdateTitleRequest{Category: &empty})
	require.NoError(t, err)
	assert.Nil(t, resp.Category)
}

func TestDeleteCategorySetsTitleCategoryNull(t *testing.T) {
	svc, db := setupTitleService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, dto.CreateTitleRequest{Name: "Solaris", Year: 1961, Category: "books"})
	require.NoError(t, err)

	require.NoError(t, db.Delete(&entity.Category{}, "slug = ?", "books").Error)

	resp, err := svc.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Nil(t, resp.Category)
}

func TestTitleNotFound(t *testing.T) {
	svc, _ := setupTitleService(t)
	ctx := context.Background()

	_, err := svc.Get(ctx, uuid.New())
	assert.ErrorIs(t, err, apperror.ErrNotFound)

	assert.ErrorIs(t, svc.Delete(ctx, uuid.New()), apperror.ErrNotFound)
}

func TestDeleteTitle(t *testing.T) {
	svc, db := setupTitleService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, dto.CreateTitleRequest{Name: "Solaris", Year: 1961, Genres: []string{"sci-fi"}})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, created.ID))

	_, err = svc.Get(ctx, created.ID)
	assert.ErrorIs(t, err, apperror.ErrNotFound)

	// Join rows are gone, the genre itself survives.
	var joins int64
	require.NoError(t, db.Table("title_genres").Count(&joins).Error)
	assert.EqualValues(t, 0, joins)

	var genres int64
	require.NoError(t, db.Model(&entity.Genre{}).Count(&genres).Error)
	assert.EqualValues(t, 2, genres)
}
