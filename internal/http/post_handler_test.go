package http_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campaignbridge/campaignbridge/internal/domain"
	"github.com/campaignbridge/campaignbridge/internal/domain/mocks"
	apphttp "github.com/campaignbridge/campaignbridge/internal/http"
)

func setupPostHandlerTest(t *testing.T) (*mocks.MockPostRepository, string) {
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	mockRepo := mocks.NewMockPostRepository(ctrl)
	handler := apphttp.NewPostHandler(mockRepo, &recordingLogger{})

	mux := http.NewServeMux()
	handler.RegisterRoutes(mux)

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	return mockRepo, server.URL
}

func handlerTestPost() *domain.Post {
	return &domain.Post{
		ID:        42,
		Title:     "Hello World",
		Permalink: "https://site.test/hello-world",
		Excerpt:   "Lorem ipsum dolor sit amet",
		PostType:  "post",
		Status:    domain.PostStatusPublished,
	}
}

func TestPostHandler_List(t *testing.T) {
	mockRepo, baseURL := setupPostHandlerTest(t)

	t.Run("success with filter", func(t *testing.T) {
		mockRepo.EXPECT().ListPosts(gomock.Any(), domain.ListPostsFilter{
			PostType: "post",
			Status:   domain.PostStatusPublished,
			Limit:    10,
		}).Return([]*domain.Post{handlerTestPost()}, nil)

		resp := sendRequest(t, http.MethodGet, baseURL+"/api/posts.list?post_type=post&status=published&limit=10", nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		body := decodeBody(t, resp)
		posts := body["posts"].([]interface{})
		assert.Len(t, posts, 1)
	})

	t.Run("invalid limit", func(t *testing.T) {
		resp := sendRequest(t, http.MethodGet, baseURL+"/api/posts.list?limit=abc", nil)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		resp.Body.Close()
	})

	t.Run("invalid status", func(t *testing.T) {
		resp := sendRequest(t, http.MethodGet, baseURL+"/api/posts.list?status=archived", nil)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		resp.Body.Close()
	})
}

func TestPostHandler_Get(t *testing.T) {
	mockRepo, baseURL := setupPostHandlerTest(t)

	t.Run("success", func(t *testing.T) {
		mockRepo.EXPECT().GetPostByID(gomock.Any(), int64(42)).Return(handlerTestPost(), nil)

		resp := sendRequest(t, http.MethodGet, baseURL+"/api/posts.get?id=42", nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		body := decodeBody(t, resp)
		post := body["post"].(map[string]interface{})
		assert.Equal(t, "Hello World", post["title"])
	})

	t.Run("non-numeric id", func(t *testing.T) {
		resp := sendRequest(t, http.MethodGet, baseURL+"/api/posts.get?id=abc", nil)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		resp.Body.Close()
	})

	t.Run("not found", func(t *testing.T) {
		mockRepo.EXPECT().GetPostByID(gomock.Any(), int64(99)).
			Return(nil, &domain.ErrPostNotFound{Message: "post not found"})

		resp := sendRequest(t, http.MethodGet, baseURL+"/api/posts.get?id=99", nil)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		resp.Body.Close()
	})
}

func TestPostHandler_Create(t *testing.T) {
	mockRepo, baseURL := setupPostHandlerTest(t)

	t.Run("success", func(t *testing.T) {
		mockRepo.EXPECT().CreatePost(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ interface{}, post *domain.Post) error {
				post.ID = 7
				return nil
			})

		resp := sendRequest(t, http.MethodPost, baseURL+"/api/posts.create", domain.Post{
			Title:    "Product Update",
			PostType: "news",
			Status:   domain.PostStatusPublished,
		})
		require.Equal(t, http.StatusCreated, resp.StatusCode)

		body := decodeBody(t, resp)
		post := body["post"].(map[string]interface{})
		assert.Equal(t, float64(7), post["id"])
	})

	t.Run("validation failure", func(t *testing.T) {
		resp := sendRequest(t, http.MethodPost, baseURL+"/api/posts.create", domain.Post{PostType: "news"})
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		resp.Body.Close()
	})
}

func TestPostHandler_Delete(t *testing.T) {
	mockRepo, baseURL := setupPostHandlerTest(t)

	t.Run("success", func(t *testing.T) {
		mockRepo.EXPECT().DeletePost(gomock.Any(), int64(42)).Return(nil)

		resp := sendRequest(t, http.MethodPost, baseURL+"/api/posts.delete", map[string]int64{"id": 42})
		require.Equal(t, http.StatusOK, resp.StatusCode)
		resp.Body.Close()
	})

	t.Run("not found", func(t *testing.T) {
		mockRepo.EXPECT().DeletePost(gomock.Any(), int64(99)).
			Return(&domain.ErrPostNotFound{Message: "post not found"})

		resp := sendRequest(t, http.MethodPost, baseURL+"/api/posts.delete", map[string]int64{"id": 99})
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		resp.Body.Close()
	})
}

