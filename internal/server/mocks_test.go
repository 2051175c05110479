package server

import (
	"context"
	"time"

	"verse/internal/auth"
	"verse/internal/models"
	"verse/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/mock"
)

// MockUserRepository is a mock of the UserRepository interface
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id uint) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) Delete(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

// MockPoemRepository is a mock of the PoemRepository interface
type MockPoemRepository struct {
	mock.Mock
}

func (m *MockPoemRepository) Create(ctx context.Context, poem *models.Poem) error {
	args := m.Called(ctx, poem)
	return args.Error(0)
}

func (m *MockPoemRepository) GetByID(ctx context.Context, id uint) (*models.Poem, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Poem), args.Error(1)
}

func (m *MockPoemRepository) List(ctx context.Context, limit, offset int) ([]*models.Poem, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Poem), args.Error(1)
}

func (m *MockPoemRepository) ListByUsername(ctx context.Context, username string, limit, offset int) ([]*models.Poem, error) {
	args := m.Called(ctx, username, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Poem), args.Error(1)
}

func (m *MockPoemRepository) ListLikedBy(ctx context.Context, userID uint, limit, offset int) ([]*models.Poem, error) {
	args := m.Called(ctx, userID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Poem), args.Error(1)
}

func (m *MockPoemRepository) Search(ctx context.Context, query string, limit, offset int) ([]*models.Poem, error) {
	args := m.Called(ctx, query, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Poem), args.Error(1)
}

func (m *MockPoemRepository) Update(ctx context.Context, poemID uint, title, content string) error {
	args := m.Called(ctx, poemID, title, content)
	return args.Error(0)
}

func (m *MockPoemRepository) Delete(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockPoemRepository) IsLiked(ctx context.Context, userID, poemID uint) (bool, error) {
	args := m.Called(ctx, userID, poemID)
	return args.Bool(0), args.Error(1)
}

func (m *MockPoemRepository) LikedPoemIDs(ctx context.Context, userID uint) ([]uint, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]uint), args.Error(1)
}

func (m *MockPoemRepository) Like(ctx context.Context, userID, poemID uint) error {
	args := m.Called(ctx, userID, poemID)
	return args.Error(0)
}

func (m *MockPoemRepository) Unlike(ctx context.Context, userID, poemID uint) error {
	args := m.Called(ctx, userID, poemID)
	return args.Error(0)
}

func (m *MockPoemRepository) CountLikes(ctx context.Context, poemID uint) (int64, error) {
	args := m.Called(ctx, poemID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockPoemRepository) ReconcileLikeCount(ctx context.Context, poemID uint) error {
	args := m.Called(ctx, poemID)
	return args.Error(0)
}

// MockCommentRepository is a mock of the CommentRepository interface
type MockCommentRepository struct {
	mock.Mock
}

func (m *MockCommentRepository) AddComment(ctx context.Context, comment *models.Comment) error {
	args := m.Called(ctx, comment)
	return args.Error(0)
}

func (m *MockCommentRepository) GetPoemComment(ctx context.Context, poemID, commentID uint) (*models.Comment, error) {
	args := m.Called(ctx, poemID, commentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Comment), args.Error(1)
}

func (m *MockCommentRepository) AddReply(ctx context.Context, poemID uint, reply *models.Reply) error {
	args := m.Called(ctx, poemID, reply)
	return args.Error(0)
}

// testServer wires a Server over mocked repositories.
func testServer(userRepo *MockUserRepository, poemRepo *MockPoemRepository, commentRepo *MockCommentRepository) *Server {
	s := &Server{
		tokens:      auth.NewTokenService("test-secret", time.Hour),
		userRepo:    userRepo,
		poemRepo:    poemRepo,
		commentRepo: commentRepo,
	}
	s.userService = service.NewUserService(userRepo, poemRepo)
	s.poemService = service.NewPoemService(poemRepo, commentRepo, userRepo)
	return s
}

// asUser injects the identity AuthRequired would set after verifying a token.
func asUser(username, displayName string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Locals("username", username)
		c.Locals("displayName", displayName)
		return c.Next()
	}
}
