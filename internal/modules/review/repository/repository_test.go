package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/fauzanhakim/ratebase/internal/entity"
	"github.com/fauzanhakim/ratebase/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// A second insert for the same (title, author) must be stopped by the
// composite unique index itself and surface as gorm.ErrDuplicatedKey —
// this is the backstop when two submissions race past the service
// pre-check.
func TestCreateDuplicateReviewHitsUniqueIndex(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := NewReviewRepository(db)
	ctx := context.Background()

	author := &entity.User{Username: "reader", Email: "reader@example.com"}
	require.NoError(t, db.Create(author).Error)
	title := &entity.Title{Name: "Solaris", Year: 1961}
	require.NoError(t, db.Create(title).Error)

	first := &entity.Review{TitleID: title.ID, AuthorID: author.ID, Score: 7, Text: "first"}
	require.NoError(t, repo.Create(ctx, first))

	second := &entity.Review{TitleID: title.ID, AuthorID: author.ID, Score: 9, Text: "second"}
	err := repo.Create(ctx, second)
	assert.True(t, errors.Is(err, gorm.ErrDuplicatedKey), "expected duplicated-key error, got %v", err)

	// The same author on another title, and another author on the same
	// title, both pass the index.
	other := &entity.Title{Name: "Stalker", Year: 1979}
	require.NoError(t, db.Create(other).Error)
	require.NoError(t, repo.Create(ctx, &entity.Review{TitleID: other.ID, AuthorID: author.ID, Score: 8, Text: "x"}))

	peer := &entity.User{Username: "peer", Email: "peer@example.com"}
	require.NoError(t, db.Create(peer).Error)
	require.NoError(t, repo.Create(ctx, &entity.Review{TitleID: title.ID, AuthorID: peer.ID, Score: 5, Text: "y"}))
}
