package repository

import (
	"errors"

	"github.com/bigsteppa/backend/internal/models"
	"gorm.io/gorm"
)

var (
	ErrChallengeNotFound = errors.New("challenge not found")
)

// ChallengeRepository handles challenge data access
type ChallengeRepository struct {
	db *gorm.DB
}

// NewChallengeRepository creates a new ChallengeRepository
func NewChallengeRepository(db *gorm.DB) *ChallengeRepository {
	return &ChallengeRepository{db: db}
}

// Create creates a new challenge
func (r *ChallengeRepository) Create(challenge *models.Challenge) error {
	return r.db.Create(challenge).Error
}

// GetByIDAndUserID retrieves a challenge by ID scoped to its owner
func (r *ChallengeRepository) GetByIDAndUserID(id, userID string) (*models.Challenge, error) {
	var challenge models.Challenge
	result := r.db.Where("id = ? AND user_id = ?", id, userID).First(&challenge)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrChallengeNotFound
		}
		return nil, result.Error
	}
	return &challenge, nil
}

// GetWithLogs retrieves an owner-scoped challenge with its logs preloaded
// in creation order
func (r *ChallengeRepository) GetWithLogs(id, userID string) (*models.Challenge, error) {
	var challenge models.Challenge
	result := r.db.Preload("Logs", func(db *gorm.DB) *gorm.DB {
		return db.Order("created_at ASC")
	}).Where("id = ? AND user_id = ?", id, userID).First(&challenge)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrChallengeNotFound
		}
		return nil, result.Error
	}
	return &challenge, nil
}

// ListByUserID retrieves all challenges for a user, oldest first
func (r *ChallengeRepository) ListByUserID(userID string) ([]models.Challenge, error) {
	var challenges []models.Challenge
	result := r.db.Where("user_id = ?", userID).
		Order("created_at ASC").
		Find(&challenges)
	if result.Error != nil {
		return nil, result.Error
	}
	return challenges, nil
}

// ListByStatus retrieves all challenges in the given lifecycle state,
// across users. Used by the lifecycle worker.
func (r *ChallengeRepository) ListByStatus(status models.ChallengeStatus) ([]models.Challenge, error) {
	var challenges []models.Challenge
	result := r.db.Where("status = ?", status).Find(&challenges)
	if result.Error != nil {
		return nil, result.Error
	}
	return challenges, nil
}

// Update persists all fields of a challenge
func (r *ChallengeRepository) Update(challenge *models.Challenge) error {
	return r.db.Save(challenge).Error
}

// Delete removes a challenge and cascades removal of its logs
func (r *ChallengeRepository) Delete(id string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("challenge_id = ?", id).Delete(&models.ChallengeLog{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Challenge{}, "id = ?", id).Error
	})
}
