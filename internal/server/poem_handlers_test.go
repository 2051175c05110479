package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"verse/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestGetPoem(t *testing.T) {
	app := fiber.New()
	poemRepo := new(MockPoemRepository)
	s := testServer(new(MockUserRepository), poemRepo, new(MockCommentRepository))
	app.Get("/api/poem", s.GetPoem)

	poemRepo.On("GetByID", mock.Anything, uint(3)).
		Return(&models.Poem{ID: 3, Title: "Dawn", Username: "rumi"}, nil)
	poemRepo.On("GetByID", mock.Anything, uint(99)).
		Return(nil, models.NewNotFoundError("Poem", 99))

	tests := []struct {
		name           string
		url            string
		expectedStatus int
	}{
		{name: "found", url: "/api/poem?id=3", expectedStatus: http.StatusOK},
		{name: "missing poem", url: "/api/poem?id=99", expectedStatus: http.StatusUnprocessableEntity},
		{name: "no id", url: "/api/poem", expectedStatus: http.StatusUnprocessableEntity},
		{name: "non-numeric id", url: "/api/poem?id=abc", expectedStatus: http.StatusUnprocessableEntity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.url, nil)
			resp, err := app.Test(req)
			require.NoError(t, err)
			defer func() { _ = resp.Body.Close() }()
			assert.Equal(t, tt.expectedStatus, resp.StatusCode)

			if tt.expectedStatus == http.StatusOK {
				var payload struct {
					Poem models.Poem `json:"poem"`
				}
				require.NoError(t, json.NewDecoder(resp.Body).Decode(&payload))
				assert.Equal(t, "Dawn", payload.Poem.Title)
			}
		})
	}
}

func TestListPoems(t *testing.T) {
	newApp := func(poemRepo *MockPoemRepository, userRepo *MockUserRepository) *fiber.App {
		app := fiber.New()
		s := testServer(userRepo, poemRepo, new(MockCommentRepository))
		app.Get("/api/poem/list", s.ListPoems)
		return app
	}

	t.Run("page is required", func(t *testing.T) {
		app := newApp(new(MockPoemRepository), new(MockUserRepository))
		req := httptest.NewRequest(http.MethodGet, "/api/poem/list?search=sea", nil)
		resp, err := app.Test(req)
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	})

	t.Run("page must be numeric", func(t *testing.T) {
		app := newApp(new(MockPoemRepository), new(MockUserRepository))
		req := httptest.NewRequest(http.MethodGet, "/api/poem/list?page=abc&search=sea", nil)
		resp, err := app.Test(req)
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	})

	t.Run("empty search present lists everything", func(t *testing.T) {
		poemRepo := new(MockPoemRepository)
		poemRepo.On("List", mock.Anything, 10, 0).
			Return([]*models.Poem{{ID: 1, Title: "Dawn", Username: "rumi"}}, nil)
		app := newApp(poemRepo, new(MockUserRepository))

		req := httptest.NewRequest(http.MethodGet, "/api/poem/list?page=0&search=", nil)
		resp, err := app.Test(req)
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var payload struct {
			Poems []models.PoemListItem `json:"poems"`
		}
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&payload))
		require.Len(t, payload.Poems, 1)
		assert.Equal(t, "Dawn", payload.Poems[0].Title)
		poemRepo.AssertCalled(t, "List", mock.Anything, 10, 0)
	})

	t.Run("no filter at all is rejected", func(t *testing.T) {
		app := newApp(new(MockPoemRepository), new(MockUserRepository))
		req := httptest.NewRequest(http.MethodGet, "/api/poem/list?page=0", nil)
		resp, err := app.Test(req)
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	})

	t.Run("second page offsets by page size", func(t *testing.T) {
		poemRepo := new(MockPoemRepository)
		poemRepo.On("ListByUsername", mock.Anything, "rumi", 10, 10).
			Return([]*models.Poem{}, nil)
		app := newApp(poemRepo, new(MockUserRepository))

		req := httptest.NewRequest(http.MethodGet, "/api/poem/list?page=1&username=rumi", nil)
		resp, err := app.Test(req)
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		poemRepo.AssertCalled(t, "ListByUsername", mock.Anything, "rumi", 10, 10)
	})

	t.Run("likes filter", func(t *testing.T) {
		poemRepo := new(MockPoemRepository)
		userRepo := new(MockUserRepository)
		userRepo.On("GetByUsername", mock.Anything, "rumi").
			Return(&models.User{ID: 4, Username: "rumi"}, nil)
		poemRepo.On("ListLikedBy", mock.Anything, uint(4), 10, 0).
			Return([]*models.Poem{}, nil)
		app := newApp(poemRepo, userRepo)

		req := httptest.NewRequest(http.MethodGet, "/api/poem/list?page=0&username=rumi&likes=true", nil)
		resp, err := app.Test(req)
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		poemRepo.AssertCalled(t, "ListLikedBy", mock.Anything, uint(4), 10, 0)
	})
}

func TestCreatePoem(t *testing.T) {
	app := fiber.New()
	userRepo := new(MockUserRepository)
	poemRepo := new(MockPoemRepository)
	s := testServer(userRepo, poemRepo, new(MockCommentRepository))
	app.Post("/api/poem", asUser("rumi", "Rumi"), s.CreatePoem)

	userRepo.On("GetByUsername", mock.Anything, "rumi").
		Return(&models.User{ID: 9, Username: "rumi", DisplayName: "Rumi"}, nil)
	poemRepo.On("Create", mock.Anything, mock.Anything).Return(nil)

	tests := []struct {
		name           string
		body           map[string]string
		expectedStatus int
	}{
		{
			name:           "success",
			body:           map[string]string{"title": "Dawn", "content": "The breeze at dawn"},
			expectedStatus: http.StatusCreated,
		},
		{
			name:           "missing title",
			body:           map[string]string{"content": "The breeze at dawn"},
			expectedStatus: http.StatusUnprocessableEntity,
		},
		{
			name:           "missing content",
			body:           map[string]string{"title": "Dawn"},
			expectedStatus: http.StatusUnprocessableEntity,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body, _ := json.Marshal(tt.body)
			req := httptest.NewRequest(http.MethodPost, "/api/poem", bytes.NewReader(body))
			req.Header.Set("Content-Type", "application/json")

			resp, err := app.Test(req)
			require.NoError(t, err)
			defer func() { _ = resp.Body.Close() }()
			assert.Equal(t, tt.expectedStatus, resp.StatusCode)

			if tt.expectedStatus == http.StatusCreated {
				var payload struct {
					Poem models.Poem `json:"poem"`
				}
				require.NoError(t, json.NewDecoder(resp.Body).Decode(&payload))
				assert.Equal(t, "rumi", payload.Poem.Username)
				assert.Equal(t, uint(9), payload.Poem.UserID)
			}
		})
	}
}

func TestUpdatePoem(t *testing.T) {
	poem := &models.Poem{ID: 3, UserID: 9, Username: "rumi"}
	body, _ := json.Marshal(map[string]string{"title": "New", "content": "New lines"})

	t.Run("owner", func(t *testing.T) {
		app := fiber.New()
		userRepo := new(MockUserRepository)
		poemRepo := new(MockPoemRepository)
		s := testServer(userRepo, poemRepo, new(MockCommentRepository))
		app.Put("/api/poem/:id", asUser("rumi", "Rumi"), s.UpdatePoem)

		poemRepo.On("GetByID", mock.Anything, uint(3)).Return(poem, nil)
		userRepo.On("GetByUsername", mock.Anything, "rumi").
			Return(&models.User{ID: 9, Username: "rumi"}, nil)
		poemRepo.On("Update", mock.Anything, uint(3), "New", "New lines").Return(nil)

		req := httptest.NewRequest(http.MethodPut, "/api/poem/3", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		resp, err := app.Test(req)
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusNoContent, resp.StatusCode)
		poemRepo.AssertCalled(t, "Update", mock.Anything, uint(3), "New", "New lines")
	})

	t.Run("non-owner", func(t *testing.T) {
		app := fiber.New()
		userRepo := new(MockUserRepository)
		poemRepo := new(MockPoemRepository)
		s := testServer(userRepo, poemRepo, new(MockCommentRepository))
		app.Put("/api/poem/:id", asUser("hafiz", "Hafiz"), s.UpdatePoem)

		poemRepo.On("GetByID", mock.Anything, uint(3)).Return(poem, nil)
		userRepo.On("GetByUsername", mock.Anything, "hafiz").
			Return(&models.User{ID: 2, Username: "hafiz"}, nil)

		req := httptest.NewRequest(http.MethodPut, "/api/poem/3", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		resp, err := app.Test(req)
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
		poemRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestDeletePoem(t *testing.T) {
	app := fiber.New()
	userRepo := new(MockUserRepository)
	poemRepo := new(MockPoemRepository)
	s := testServer(userRepo, poemRepo, new(MockCommentRepository))
	app.Delete("/api/poem/:id", asUser("rumi", "Rumi"), s.DeletePoem)

	poemRepo.On("GetByID", mock.Anything, uint(3)).
		Return(&models.Poem{ID: 3, UserID: 9, Username: "rumi"}, nil)
	userRepo.On("GetByUsername", mock.Anything, "rumi").
		Return(&models.User{ID: 9, Username: "rumi"}, nil)
	poemRepo.On("Delete", mock.Anything, uint(3)).Return(nil)

	req := httptest.NewRequest(http.MethodDelete, "/api/poem/3", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	poemRepo.AssertCalled(t, "Delete", mock.Anything, uint(3))
}

func TestLikePoem(t *testing.T) {
	poem := &models.Poem{ID: 3, UserID: 9, Username: "rumi"}

	t.Run("toggle on", func(t *testing.T) {
		app := fiber.New()
		userRepo := new(MockUserRepository)
		poemRepo := new(MockPoemRepository)
		s := testServer(userRepo, poemRepo, new(MockCommentRepository))
		app.Put("/api/poem/like/:id", asUser("hafiz", "Hafiz"), s.LikePoem)

		userRepo.On("GetByUsername", mock.Anything, "hafiz").
			Return(&models.User{ID: 2, Username: "hafiz"}, nil)
		poemRepo.On("GetByID", mock.Anything, uint(3)).Return(poem, nil)
		poemRepo.On("IsLiked", mock.Anything, uint(2), uint(3)).Return(false, nil)
		poemRepo.On("Like", mock.Anything, uint(2), uint(3)).Return(nil)

		req := httptest.NewRequest(http.MethodPut, "/api/poem/like/3", nil)
		resp, err := app.Test(req)
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusNoContent, resp.StatusCode)
		poemRepo.AssertCalled(t, "Like", mock.Anything, uint(2), uint(3))
	})

	t.Run("toggle off", func(t *testing.T) {
		app := fiber.New()
		userRepo := new(MockUserRepository)
		poemRepo := new(MockPoemRepository)
		s := testServer(userRepo, poemRepo, new(MockCommentRepository))
		app.Put("/api/poem/like/:id", asUser("hafiz", "Hafiz"), s.LikePoem)

		userRepo.On("GetByUsername", mock.Anything, "hafiz").
			Return(&models.User{ID: 2, Username: "hafiz"}, nil)
		poemRepo.On("GetByID", mock.Anything, uint(3)).Return(poem, nil)
		poemRepo.On("IsLiked", mock.Anything, uint(2), uint(3)).Return(true, nil)
		poemRepo.On("Unlike", mock.Anything, uint(2), uint(3)).Return(nil)

		req := httptest.NewRequest(http.MethodPut, "/api/poem/like/3", nil)
		resp, err := app.Test(req)
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusNoContent, resp.StatusCode)
		poemRepo.AssertCalled(t, "Unlike", mock.Anything, uint(2), uint(3))
	})

	t.Run("own poem", func(t *testing.T) {
		app := fiber.New()
		userRepo := new(MockUserRepository)
		poemRepo := new(MockPoemRepository)
		s := testServer(userRepo, poemRepo, new(MockCommentRepository))
		app.Put("/api/poem/like/:id", asUser("rumi", "Rumi"), s.LikePoem)

		userRepo.On("GetByUsername", mock.Anything, "rumi").
			Return(&models.User{ID: 9, Username: "rumi"}, nil)
		poemRepo.On("GetByID", mock.Anything, uint(3)).Return(poem, nil)

		req := httptest.NewRequest(http.MethodPut, "/api/poem/like/3", nil)
		resp, err := app.Test(req)
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
		poemRepo.AssertNotCalled(t, "Like", mock.Anything, mock.Anything, mock.Anything)
		poemRepo.AssertNotCalled(t, "Unlike", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestAddComment(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		app := fiber.New()
		poemRepo := new(MockPoemRepository)
		commentRepo := new(MockCommentRepository)
		s := testServer(new(MockUserRepository), poemRepo, commentRepo)
		app.Post("/api/poem/comment", asUser("hafiz", "Hafiz"), s.AddComment)

		poemRepo.On("GetByID", mock.Anything, uint(3)).
			Return(&models.Poem{ID: 3}, nil)
		commentRepo.On("AddComment", mock.Anything, mock.Anything).Return(nil)

		body, _ := json.Marshal(map[string]any{"poem_id": 3, "content": "lovely"})
		req := httptest.NewRequest(http.MethodPost, "/api/poem/comment", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		resp, err := app.Test(req)
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()
		require.Equal(t, http.StatusCreated, resp.StatusCode)

		var payload struct {
			Comment models.Comment `json:"comment"`
		}
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&payload))
		assert.Equal(t, "hafiz", payload.Comment.Username)
	})

	t.Run("missing poem", func(t *testing.T) {
		app := fiber.New()
		poemRepo := new(MockPoemRepository)
		commentRepo := new(MockCommentRepository)
		s := testServer(new(MockUserRepository), poemRepo, commentRepo)
		app.Post("/api/poem/comment", asUser("hafiz", "Hafiz"), s.AddComment)

		poemRepo.On("GetByID", mock.Anything, uint(99)).
			Return(nil, models.NewNotFoundError("Poem", 99))

		body, _ := json.Marshal(map[string]any{"poem_id": 99, "content": "lovely"})
		req := httptest.NewRequest(http.MethodPost, "/api/poem/comment", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		resp, err := app.Test(req)
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
		commentRepo.AssertNotCalled(t, "AddComment", mock.Anything, mock.Anything)
	})

	t.Run("body without poem_id", func(t *testing.T) {
		app := fiber.New()
		commentRepo := new(MockCommentRepository)
		s := testServer(new(MockUserRepository), new(MockPoemRepository), commentRepo)
		app.Post("/api/poem/comment", asUser("hafiz", "Hafiz"), s.AddComment)

		body, _ := json.Marshal(map[string]any{"id": 3, "content": "lovely"})
		req := httptest.NewRequest(http.MethodPost, "/api/poem/comment", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		resp, err := app.Test(req)
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
		commentRepo.AssertNotCalled(t, "AddComment", mock.Anything, mock.Anything)
	})
}

func TestAddReply(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		app := fiber.New()
		commentRepo := new(MockCommentRepository)
		s := testServer(new(MockUserRepository), new(MockPoemRepository), commentRepo)
		app.Post("/api/poem/comment/reply", asUser("rumi", "Rumi"), s.AddReply)

		commentRepo.On("GetPoemComment", mock.Anything, uint(3), uint(7)).
			Return(&models.Comment{ID: 7, PoemID: 3}, nil)
		commentRepo.On("AddReply", mock.Anything, uint(3), mock.Anything).Return(nil)

		body, _ := json.Marshal(map[string]any{"poem_id": 3, "comment_id": 7, "content": "agreed"})
		req := httptest.NewRequest(http.MethodPost, "/api/poem/comment/reply", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		resp, err := app.Test(req)
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()
		require.Equal(t, http.StatusCreated, resp.StatusCode)

		var payload struct {
			Reply models.Reply `json:"reply"`
		}
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&payload))
		assert.Equal(t, uint(7), payload.Reply.CommentID)
	})

	t.Run("comment under a different poem", func(t *testing.T) {
		app := fiber.New()
		commentRepo := new(MockCommentRepository)
		s := testServer(new(MockUserRepository), new(MockPoemRepository), commentRepo)
		app.Post("/api/poem/comment/reply", asUser("rumi", "Rumi"), s.AddReply)

		commentRepo.On("GetPoemComment", mock.Anything, uint(5), uint(7)).
			Return(nil, models.NewNotFoundError("Comment", 7))

		body, _ := json.Marshal(map[string]any{"poem_id": 5, "comment_id": 7, "content": "agreed"})
		req := httptest.NewRequest(http.MethodPost, "/api/poem/comment/reply", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		resp, err := app.Test(req)
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
		commentRepo.AssertNotCalled(t, "AddReply", mock.Anything, mock.Anything, mock.Anything)
	})
}
