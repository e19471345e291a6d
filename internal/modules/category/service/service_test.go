package category

import (
	"context"
	"testing"

	"github.com/fauzanhakim/ratebase/internal/modules/category/dto"
	"github.com/fauzanhakim/ratebase/internal/modules/category/repository"
	"github.com/fauzanhakim/ratebase/internal/testutil"
	"github.com/fauzanhakim/ratebase/pkg/apperror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T) CategoryService {
	t.Helper()
	return NewCategoryService(repository.NewCategoryRepository(testutil.SetupTestDB(t)))
}

func TestCreateCategory(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	resp, err := svc.Create(ctx, dto.CreateCategoryRequest{Name: "Films", Slug: "films"})
	require.NoError(t, err)
	assert.Equal(t, "Films", resp.Name)
	assert.Equal(t, "films", resp.Slug)

	_, err = svc.Create(ctx, dto.CreateCategoryRequest{Name: "Movies", Slug: "films"})
	assert.ErrorIs(t, err, apperror.ErrConflict)

	_, err = svc.Create(ctx, dto.CreateCategoryRequest{Name: "Bad", Slug: "Not A Slug"})
	assert.ErrorIs(t, err, apperror.ErrBadRequest)
}

func TestListCategoriesSearch(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	for _, c := range []dto.CreateCategoryRequest{
		{Name: "Films", Slug: "films"},
		{Name: "Books", Slug: "books"},
		{Name: "Music", Slug: "music"},
	} {
		_, err := svc.Create(ctx, c)
		require.NoError(t, err)
	}

	resp, err := svc.List(ctx, dto.CategoryFilter{})
	require.NoError(t, err)
	assert.EqualValues(t, 3, resp.Meta.TotalItems)

	resp, err = svc.List(ctx, dto.CategoryFilter{Search: "boo"})
	require.NoError(t, err)
	require.EqualValues(t, 1, resp.Meta.TotalItems)
	assert.Equal(t, "Books", resp.Data[0].Name)
}

func TestDeleteCategory(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, dto.CreateCategoryRequest{Name: "Films", Slug: "films"})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, "films"))
	assert.ErrorIs(t, svc.Delete(ctx, "films"), apperror.ErrNotFound)
}
