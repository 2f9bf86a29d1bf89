// Package storetest holds the behaviour every repositories.Store backend must
// share. Backends run it from their own tests against a live store.
package storetest

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/anonto42/socialfeed/backend/internal/models"
	"github.com/anonto42/socialfeed/backend/internal/repositories"
	"github.com/anonto42/socialfeed/backend/internal/services"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Run exercises store. Ids are random so the suite can share a database
// with earlier runs.
func Run(t *testing.T, store repositories.Store) {
	t.Helper()
	require.NoError(t, store.Migrate(context.Background()))
	require.NoError(t, store.Migrate(context.Background()), "migrate is repeatable")

	t.Run("Users", func(t *testing.T) { testUsers(t, store) })
	t.Run("Posts", func(t *testing.T) { testPosts(t, store) })
	t.Run("Rollback", func(t *testing.T) { testRollback(t, store) })
	t.Run("NestedTransaction", func(t *testing.T) { testNestedTransaction(t, store) })
	t.Run("CrossFollows", func(t *testing.T) { testCrossFollows(t, store) })
}

func uniqueID(prefix string) string {
	return prefix + "-" + uuid.NewString()
}

func createUser(t *testing.T, store repositories.Store, externalID string) *models.User {
	t.Helper()
	user := &models.User{ExternalID: externalID, Name: externalID, Username: externalID}
	require.NoError(t, store.Users().CreateUser(context.Background(), user))
	return user
}

func testUsers(t *testing.T, store repositories.Store) {
	ctx := context.Background()
	a := createUser(t, store, uniqueID("a"))
	b := createUser(t, store, uniqueID("b"))
	assert.NotEmpty(t, a.ID)

	err := store.Users().CreateUser(ctx, &models.User{ExternalID: a.ExternalID, Username: "again"})
	assert.ErrorIs(t, err, repositories.ErrDuplicate)

	byExt, err := store.Users().GetUserByExternalID(ctx, a.ExternalID)
	require.NoError(t, err)
	assert.Equal(t, a.ID, byExt.ID)
	assert.NotNil(t, byExt.Following)

	_, err = store.Users().GetUserByID(ctx, "not-an-id")
	assert.ErrorIs(t, err, repositories.ErrNotFound)

	users, err := store.Users().GetUsersByExternalIDs(ctx, []string{b.ExternalID, uniqueID("missing"), a.ExternalID})
	require.NoError(t, err)
	ids := make([]string, 0, len(users))
	for _, u := range users {
		ids = append(ids, u.ExternalID)
	}
	assert.ElementsMatch(t, []string{a.ExternalID, b.ExternalID}, ids)

	require.NoError(t, store.Users().UpdateFollowing(ctx, a.ID, models.NewStringSet(b.ExternalID)))
	byID, err := store.Users().GetUserByID(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, models.NewStringSet(b.ExternalID), byID.Following)
}

func testPosts(t *testing.T, store repositories.Store) {
	ctx := context.Background()
	author := uniqueID("author")

	first := &models.Post{AuthorID: author, Content: "first"}
	require.NoError(t, store.Posts().CreatePost(ctx, first))
	time.Sleep(5 * time.Millisecond)
	second := &models.Post{AuthorID: author, Content: "second"}
	require.NoError(t, store.Posts().CreatePost(ctx, second))

	posts, err := store.Posts().ListPostsByAuthor(ctx, author)
	require.NoError(t, err)
	require.Len(t, posts, 2)
	assert.Equal(t, second.ID, posts[0].ID)
	assert.Equal(t, first.ID, posts[1].ID)

	require.NoError(t, store.Posts().UpdateLikes(ctx, first.ID, models.NewStringSet("liker")))
	got, err := store.Posts().GetPostByID(ctx, first.ID)
	require.NoError(t, err)
	assert.True(t, got.Likes.Contains("liker"))
}

func testRollback(t *testing.T, store repositories.Store) {
	ctx := context.Background()
	author := uniqueID("rollback")
	boom := errors.New("boom")

	err := store.WithinTransaction(ctx, func(ctx context.Context, tx repositories.Store) error {
		if err := tx.Posts().CreatePost(ctx, &models.Post{AuthorID: author, Content: "lost"}); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	posts, err := store.Posts().ListPostsByAuthor(ctx, author)
	require.NoError(t, err)
	assert.Empty(t, posts)
}

func testNestedTransaction(t *testing.T, store repositories.Store) {
	ctx := context.Background()
	author := uniqueID("nested")

	err := store.WithinTransaction(ctx, func(ctx context.Context, tx repositories.Store) error {
		return tx.WithinTransaction(ctx, func(ctx context.Context, inner repositories.Store) error {
			return inner.Posts().CreatePost(ctx, &models.Post{AuthorID: author, Content: "kept"})
		})
	})
	require.NoError(t, err)

	posts, err := store.Posts().ListPostsByAuthor(ctx, author)
	require.NoError(t, err)
	assert.Len(t, posts, 1)
}

// testCrossFollows has two users follow each other at the same time. Both
// toggles must commit and leave the relation symmetric.
func testCrossFollows(t *testing.T, store repositories.Store) {
	ctx := context.Background()
	svc := services.New(store, services.WithLogger(zerolog.Nop()))
	a := createUser(t, store, uniqueID("a"))
	b := createUser(t, store, uniqueID("b"))

	for round := 0; round < 5; round++ {
		var wg sync.WaitGroup
		for _, pair := range [][2]string{{a.ExternalID, b.ExternalID}, {b.ExternalID, a.ExternalID}} {
			wg.Add(1)
			go func(follower, target string) {
				defer wg.Done()
				_, err := svc.Users.ToggleFollow(ctx, follower, target)
				assert.NoError(t, err)
			}(pair[0], pair[1])
		}
		wg.Wait()
	}

	gotA, err := svc.Users.Get(ctx, a.ExternalID)
	require.NoError(t, err)
	gotB, err := svc.Users.Get(ctx, b.ExternalID)
	require.NoError(t, err)
	// Five toggles each way end in the followed state.
	assert.Equal(t, models.NewStringSet(b.ExternalID), gotA.Following)
	assert.Equal(t, models.NewStringSet(b.ExternalID), gotA.Followers)
	assert.Equal(t, models.NewStringSet(a.ExternalID), gotB.Following)
	assert.Equal(t, models.NewStringSet(a.ExternalID), gotB.Followers)
}
