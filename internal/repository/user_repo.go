package repository

import (
	"errors"

	"github.com/bigsteppa/backend/internal/models"
	"gorm.io/gorm"
)

var (
	ErrUserNotFound = errors.New("user not found")
)

// UserRepository handles user data access
type UserRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// CreateWithCredential creates a user and its first credential in a single
// transaction. The unique indexes on email and username are the real
// duplicate enforcement; callers only get a fast-path check beforehand.
func (r *UserRepository) CreateWithCredential(user *models.User, passwordHash string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(user).Error; err != nil {
			return err
		}
		cred := &models.Credential{
			UserID:       user.ID,
			PasswordHash: passwordHash,
		}
		return tx.Create(cred).Error
	})
}

// GetByID retrieves a user by ID
func (r *UserRepository) GetByID(id string) (*models.User, error) {
	var user models.User
	result := r.db.First(&user, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, result.Error
	}
	return &user, nil
}

// GetByEmail retrieves a user by email with credentials preloaded
func (r *UserRepository) GetByEmail(email string) (*models.User, error) {
	var user models.User
	result := r.db.Preload("Credentials", func(db *gorm.DB) *gorm.DB {
		return db.Order("created_at ASC")
	}).First(&user, "email = ?", email)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, result.Error
	}
	return &user, nil
}

// GetByUsername retrieves a user by username
func (r *UserRepository) GetByUsername(username string) (*models.User, error) {
	var user models.User
	result := r.db.First(&user, "username = ?", username)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, result.Error
	}
	return &user, nil
}

// GetByEmailOrUsername retrieves any user matching the email or the username
func (r *UserRepository) GetByEmailOrUsername(email, username string) (*models.User, error) {
	var user models.User
	result := r.db.First(&user, "email = ? OR username = ?", email, username)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, result.Error
	}
	return &user, nil
}

// UpdateUsername updates the one mutable identity field
func (r *UserRepository) UpdateUsername(id, username string) error {
	return r.db.Model(&models.User{}).Where("id = ?", id).Update("username", username).Error
}

// Delete removes a user and everything it owns. The cascade is spelled out
// so it holds on storage engines without foreign-key enforcement.
func (r *UserRepository) Delete(id string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var challengeIDs []string
		if err := tx.Model(&models.Challenge{}).Where("user_id = ?", id).
			Pluck("id", &challengeIDs).Error; err != nil {
			return err
		}
		if len(challengeIDs) > 0 {
			if err := tx.Where("challenge_id IN ?", challengeIDs).
				Delete(&models.ChallengeLog{}).Error; err != nil {
				return err
			}
		}
		if err := tx.Where("user_id = ?", id).Delete(&models.Challenge{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", id).Delete(&models.Credential{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.User{}, "id = ?", id).Error
	})
}
