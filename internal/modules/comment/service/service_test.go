package comment

import (
	"context"
	"testing"
	"time"

	"github.com/fauzanhakim/ratebase/internal/entity"
	"github.com/fauzanhakim/ratebase/internal/modules/comment/dto"
	"github.com/fauzanhakim/ratebase/internal/modules/comment/repository"
	reviewRepo "github.com/fauzanhakim/ratebase/internal/modules/review/repository"
	"github.com/fauzanhakim/ratebase/internal/permission"
	"github.com/fauzanhakim/ratebase/internal/testutil"
	"github.com/fauzanhakim/ratebase/pkg/apperror"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fixture struct {
	svc    CommentService
	db     *gorm.DB
	title  *entity.Title
	review *entity.Review
}

func setupFixture(t *testing.T) *fixture {
	t.Helper()
	db := testutil.SetupTestDB(t)
	svc := NewCommentService(repository.NewCommentRepository(db), reviewRepo.NewReviewRepository(db), nil, time.Second)

	author := &entity.User{Username: "reviewer", Email: "reviewer@example.com", Role: entity.RoleUser}
	require.NoError(t, db.Create(author).Error)

	title := &entity.Title{Name: "Solaris", Year: 1961}
	require.NoError(t, db.Create(title).Error)

	review := &entity.Review{TitleID: title.ID, AuthorID: author.ID, Score: 8, Text: "good"}
	require.NoError(t, db.Create(review).Error)

	return &fixture{svc: svc, db: db, title: title, review: review}
}

func (f *fixture) newUser(t *testing.T, username, role string) permission.Actor {
	t.Helper()
	user := &entity.User{Username: username, Email: username + "@example.com", Role: role}
	require.NoError(t, f.db.Create(user).Error)
	return permission.ActorFor(user)
}

func TestCreateComment(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()
	actor := f.newUser(t, "reader", entity.RoleUser)

	resp, err := f.svc.Create(ctx, actor, f.title.ID, f.review.ID, dto.CreateCommentRequest{Text: "agreed"})
	require.NoError(t, err)
	assert.Equal(t, "agreed", resp.Text)
	assert.Equal(t, "reader", resp.Author)

	_, err = f.svc.Create(ctx, permission.AnonymousActor, f.title.ID, f.review.ID, dto.CreateCommentRequest{Text: "x"})
	assert.ErrorIs(t, err, apperror.ErrUnauthorized)
}

func TestCreateCommentUnknownReviewIs404(t *testing.T) {
	f := setupFixture(t)
	actor := f.newUser(t, "reader", entity.RoleUser)

	_, err := f.svc.Create(context.Background(), actor, f.title.ID, uuid.New(), dto.CreateCommentRequest{Text: "x"})
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestCommentScopedToReviewAndTitle(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()
	actor := f.newUser(t, "reader", entity.RoleUser)

	created, err := f.svc.Create(ctx, actor, f.title.ID, f.review.ID, dto.CreateCommentRequest{Text: "agreed"})
	require.NoError(t, err)

	// The review exists, but not under this title; the whole chain 404s.
	other := &entity.Title{Name: "Stalker", Year: 1979}
	require.NoError(t, f.db.Create(other).Error)

	_, err = f.svc.Get(ctx, other.ID, f.review.ID, created.ID)
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestUpdateCommentOwnership(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()
	author := f.newUser(t, "author", entity.RoleUser)
	stranger := f.newUser(t, "stranger", entity.RoleUser)
	moderator := f.newUser(t, "mod", entity.RoleModerator)

	created, err := f.svc.Create(ctx, author, f.title.ID, f.review.ID, dto.CreateCommentRequest{Text: "draft"})
	require.NoError(t, err)

	text := "edited"
	_, err = f.svc.Update(ctx, stranger, f.title.ID, f.review.ID, created.ID, dto.UpdateCommentRequest{Text: &text})
	assert.ErrorIs(t, err, apperror.ErrForbidden)

	resp, err := f.svc.Update(ctx, author, f.title.ID, f.review.ID, created.ID, dto.UpdateCommentRequest{Text: &text})
	require.NoError(t, err)
	assert.Equal(t, "edited", resp.Text)

	removed := "removed by moderation"
	resp, err = f.svc.Update(ctx, moderator, f.title.ID, f.review.ID, created.ID, dto.UpdateCommentRequest{Text: &removed})
	require.NoError(t, err)
	assert.Equal(t, removed, resp.Text)
}

func TestDeleteCommentOwnership(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()
	author := f.newUser(t, "author", entity.RoleUser)
	stranger := f.newUser(t, "stranger", entity.RoleUser)

	created, err := f.svc.Create(ctx, author, f.title.ID, f.review.ID, dto.CreateCommentRequest{Text: "draft"})
	require.NoError(t, err)

	assert.ErrorIs(t, f.svc.Delete(ctx, stranger, f.title.ID, f.review.ID, created.ID), apperror.ErrForbidden)
	require.NoError(t, f.svc.Delete(ctx, author, f.title.ID, f.review.ID, created.ID))

	_, err = f.svc.Get(ctx, f.title.ID, f.review.ID, created.ID)
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestDeleteReviewCascadesComments(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()
	author := f.newUser(t, "author", entity.RoleUser)

	_, err := f.svc.Create(ctx, author, f.title.ID, f.review.ID, dto.CreateCommentRequest{Text: "draft"})
	require.NoError(t, err)

	require.NoError(t, f.db.Delete(&entity.Review{}, "id = ?", f.review.ID).Error)

	var count int64
	require.NoError(t, f.db.Model(&entity.Comment{}).Count(&count).Error)
	assert.EqualValues(t, 0, count)
}

func TestListComments(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()
	actor := f.newUser(t, "reader", entity.RoleUser)

	for _, text := range []string{"one", "two", "three"} {
		comment := &entity.Comment{ReviewID: f.review.ID, AuthorID: actor.ID, Text: text}
		require.NoError(t, f.db.Create(comment).Error)
	}

	resp, err := f.svc.List(ctx, f.title.ID, f.review.ID, dto.CommentFilter{})
	require.NoError(t, err)
	assert.EqualValues(t, 3, resp.Meta.TotalItems)
	assert.Len(t, resp.Data, 3)
}
