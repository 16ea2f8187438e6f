package repository

import (
	"github.com/bigsteppa/backend/internal/models"
	"gorm.io/gorm"
)

// ChallengeLogRepository handles challenge log data access. Logs are
// append-only; there is no update or single-row delete.
type ChallengeLogRepository struct {
	db *gorm.DB
}

// NewChallengeLogRepository creates a new ChallengeLogRepository
func NewChallengeLogRepository(db *gorm.DB) *ChallengeLogRepository {
	return &ChallengeLogRepository{db: db}
}

// Create appends a new log entry
func (r *ChallengeLogRepository) Create(log *models.ChallengeLog) error {
	return r.db.Create(log).Error
}

// ListByChallengeID retrieves all logs for a challenge, oldest first
func (r *ChallengeLogRepository) ListByChallengeID(challengeID string) ([]models.ChallengeLog, error) {
	var logs []models.ChallengeLog
	result := r.db.Where("challenge_id = ?", challengeID).
		Order("created_at ASC").
		Find(&logs)
	if result.Error != nil {
		return nil, result.Error
	}
	return logs, nil
}

// CountByChallengeID counts logs for a challenge
func (r *ChallengeLogRepository) CountByChallengeID(challengeID string) (int64, error) {
	var count int64
	err := r.db.Model(&models.ChallengeLog{}).
		Where("challenge_id = ?", challengeID).
		Count(&count).Error
	return count, err
}
