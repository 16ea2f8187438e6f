package service

import (
	"errors"

	"github.com/bigsteppa/backend/internal/models"
	"github.com/bigsteppa/backend/internal/repository"
)

var (
	ErrUsernameTaken = errors.New("username already taken")
)

// UserService handles profile operations. Username is the only mutable
// identity field; email is fixed at registration.
type UserService struct {
	userRepo *repository.UserRepository
}

// NewUserService creates a new UserService
func NewUserService(userRepo *repository.UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

// UpdateProfileRequest represents the profile update request
type UpdateProfileRequest struct {
	Username string `json:"username" binding:"required,min=3,max=50"`
}

// Profile retrieves the caller's user record
func (s *UserService) Profile(userID string) (*models.User, error) {
	return s.userRepo.GetByID(userID)
}

// UpdateProfile renames the user, enforcing username uniqueness
func (s *UserService) UpdateProfile(userID string, req *UpdateProfileRequest) (*models.User, error) {
	existing, err := s.userRepo.GetByUsername(req.Username)
	if err == nil && existing.ID != userID {
		return nil, ErrUsernameTaken
	}
	if err != nil && !errors.Is(err, repository.ErrUserNotFound) {
		return nil, err
	}

	if err := s.userRepo.UpdateUsername(userID, req.Username); err != nil {
		return nil, err
	}

	return s.userRepo.GetByID(userID)
}

// DeleteAccount removes the user and everything it owns
func (s *UserService) DeleteAccount(userID string) error {
	if _, err := s.userRepo.GetByID(userID); err != nil {
		return err
	}
	return s.userRepo.Delete(userID)
}
