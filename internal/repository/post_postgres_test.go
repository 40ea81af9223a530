package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campaignbridge/campaignbridge/internal/domain"
	"github.com/campaignbridge/campaignbridge/internal/repository/testutil"
)

func testPost() *domain.Post {
	return &domain.Post{
		Title:     "Hello World",
		Permalink: "https://site.test/hello-world",
		Excerpt:   "Lorem ipsum",
		PostType:  "post",
		Status:    domain.PostStatusPublished,
		Images:    map[string]string{"large": "https://site.test/hello.jpg"},
	}
}

func postRows(post *domain.Post, id int64) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "title", "permalink", "content", "excerpt", "post_type", "status", "images", "published_at", "created_at", "updated_at"}).
		AddRow(id, post.Title, post.Permalink, post.Content, post.Excerpt, post.PostType, post.Status, []byte(`{"large":"https://site.test/hello.jpg"}`), nil, time.Now(), time.Now())
}

func TestPostRepository_CreatePost(t *testing.T) {
	db, mock, cleanup := testutil.SetupMockDB(t)
	defer cleanup()

	repo := NewPostRepository(db)
	post := testPost()

	mock.ExpectQuery(`INSERT INTO posts`).
		WithArgs(post.Title, post.Permalink, post.Content, post.Excerpt, post.PostType, post.Status, sqlmock.AnyArg(), nil, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(42)))

	err := repo.CreatePost(context.Background(), post)
	require.NoError(t, err)
	assert.Equal(t, int64(42), post.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostRepository_GetPostByID(t *testing.T) {
	db, mock, cleanup := testutil.SetupMockDB(t)
	defer cleanup()

	repo := NewPostRepository(db)
	post := testPost()

	mock.ExpectQuery(`SELECT id, title, permalink, content, excerpt, post_type, status, images, published_at, created_at, updated_at FROM posts WHERE id = \$1`).
		WithArgs(int64(42)).
		WillReturnRows(postRows(post, 42))

	got, err := repo.GetPostByID(context.Background(), 42)
	require.NoError(t, err)
	assert.Equal(t, int64(42), got.ID)
	assert.Equal(t, "Hello World", got.Title)
	assert.Equal(t, "https://site.test/hello.jpg", got.Images["large"])

	mock.ExpectQuery(`SELECT id, title, permalink, content, excerpt, post_type, status, images, published_at, created_at, updated_at FROM posts WHERE id = \$1`).
		WithArgs(int64(7)).
		WillReturnError(sql.ErrNoRows)

	got, err = repo.GetPostByID(context.Background(), 7)
	require.Error(t, err)
	assert.Nil(t, got)
	assert.IsType(t, &domain.ErrPostNotFound{}, err)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostRepository_ListPosts(t *testing.T) {
	db, mock, cleanup := testutil.SetupMockDB(t)
	defer cleanup()

	repo := NewPostRepository(db)
	post := testPost()

	t.Run("with filters", func(t *testing.T) {
		mock.ExpectQuery(`SELECT id, title, permalink, content, excerpt, post_type, status, images, published_at, created_at, updated_at FROM posts WHERE post_type = \$1 AND status = \$2 ORDER BY published_at DESC NULLS LAST, id DESC LIMIT 5`).
			WithArgs("news", domain.PostStatusPublished).
			WillReturnRows(postRows(post, 42))

		posts, err := repo.ListPosts(context.Background(), domain.ListPostsFilter{
			PostType: "news",
			Status:   domain.PostStatusPublished,
			Limit:    5,
		})
		require.NoError(t, err)
		require.Len(t, posts, 1)
	})

	t.Run("without filters", func(t *testing.T) {
		mock.ExpectQuery(`SELECT id, title, permalink, content, excerpt, post_type, status, images, published_at, created_at, updated_at FROM posts ORDER BY published_at DESC NULLS LAST, id DESC`).
			WillReturnRows(postRows(post, 42))

		posts, err := repo.ListPosts(context.Background(), domain.ListPostsFilter{})
		require.NoError(t, err)
		require.Len(t, posts, 1)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostRepository_UpdatePost(t *testing.T) {
	db, mock, cleanup := testutil.SetupMockDB(t)
	defer cleanup()

	repo := NewPostRepository(db)
	post := testPost()
	post.ID = 42

	mock.ExpectExec(`UPDATE posts SET`).
		WithArgs(post.Title, post.Permalink, post.Content, post.Excerpt, post.PostType, post.Status, sqlmock.AnyArg(), nil, sqlmock.AnyArg(), int64(42)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.UpdatePost(context.Background(), post))

	mock.ExpectExec(`UPDATE posts SET`).
		WithArgs(post.Title, post.Permalink, post.Content, post.Excerpt, post.PostType, post.Status, sqlmock.AnyArg(), nil, sqlmock.AnyArg(), int64(42)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.UpdatePost(context.Background(), post)
	require.Error(t, err)
	assert.IsType(t, &domain.ErrPostNotFound{}, err)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostRepository_DeletePost(t *testing.T) {
	db, mock, cleanup := testutil.SetupMockDB(t)
	defer cleanup()

	repo := NewPostRepository(db)

	mock.ExpectExec(`DELETE FROM posts WHERE id = \$1`).
		WithArgs(int64(42)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.DeletePost(context.Background(), 42))

	mock.ExpectExec(`DELETE FROM posts WHERE id = \$1`).
		WithArgs(int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.DeletePost(context.Background(), 7)
	require.Error(t, err)
	assert.IsType(t, &domain.ErrPostNotFound{}, err)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostRepository_GetArchiveURL(t *testing.T) {
	db, mock, cleanup := testutil.SetupMockDB(t)
	defer cleanup()

	repo := NewPostRepository(db)

	mock.ExpectQuery(`SELECT archive_url FROM post_types WHERE name = \$1`).
		WithArgs("news").
		WillReturnRows(sqlmock.NewRows([]string{"archive_url"}).AddRow("https://site.test/news"))

	url, err := repo.GetArchiveURL(context.Background(), "news")
	require.NoError(t, err)
	assert.Equal(t, "https://site.test/news", url)

	// Unregistered post types have no archive, not an error
	mock.ExpectQuery(`SELECT archive_url FROM post_types WHERE name = \$1`).
		WithArgs("unknown").
		WillReturnError(sql.ErrNoRows)

	url, err = repo.GetArchiveURL(context.Background(), "unknown")
	require.NoError(t, err)
	assert.Equal(t, "", url)

	assert.NoError(t, mock.ExpectationsWereMet())
}
