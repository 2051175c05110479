// Package service implements the application's business logic layer.
package service

import (
	"context"
	"fmt"

	"verse/internal/auth"
	"verse/internal/models"
	"verse/internal/repository"
	"verse/internal/validation"
)

// UserService handles account registration, authentication and deletion.
type UserService struct {
	userRepo repository.UserRepository
	poemRepo repository.PoemRepository
}

// RegisterInput is the payload for creating an account.
type RegisterInput struct {
	Username    string `json:"username"`
	Password    string `json:"password"`
	DisplayName string `json:"displayName"`
}

// NewUserService creates a new UserService.
func NewUserService(userRepo repository.UserRepository, poemRepo repository.PoemRepository) *UserService {
	return &UserService{userRepo: userRepo, poemRepo: poemRepo}
}

// Register validates the input, hashes the password and creates the account.
// A taken username surfaces as a validation error from the repository's
// unique constraint mapping; there is no racy pre-check.
func (s *UserService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	if err := validation.ValidateRegistration(in.Username, in.Password, in.DisplayName); err != nil {
		return nil, models.NewValidationError(err.Error())
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	user := &models.User{
		Username:    in.Username,
		DisplayName: in.DisplayName,
		Password:    hash,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Authenticate checks the credentials and returns the account on success.
// An unknown username and a wrong password produce the same error.
func (s *UserService) Authenticate(ctx context.Context, username, password string) (*models.User, error) {
	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if user == nil || !auth.CheckPassword(password, user.Password) {
		return nil, models.NewUnauthorizedError("Invalid username or password")
	}
	return user, nil
}

// Account returns the account record behind an authenticated identity.
// A valid token whose account no longer exists is an internal inconsistency,
// not a client error.
func (s *UserService) Account(ctx context.Context, username string) (*models.User, error) {
	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, models.NewInternalError(fmt.Errorf("authenticated account %q not found", username))
	}
	return user, nil
}

// LikedPoemIDs returns the IDs of every poem the account has liked.
func (s *UserService) LikedPoemIDs(ctx context.Context, username string) ([]uint, error) {
	user, err := s.Account(ctx, username)
	if err != nil {
		return nil, err
	}
	return s.poemRepo.LikedPoemIDs(ctx, user.ID)
}

// DeleteAccount removes the account with the given ID along with its poems
// and likes. Only the account owner may delete it.
func (s *UserService) DeleteAccount(ctx context.Context, callerUsername string, id uint) error {
	target, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if target.Username != callerUsername {
		return models.NewForbiddenError("You can only delete your own account")
	}
	return s.userRepo.Delete(ctx, target)
}
