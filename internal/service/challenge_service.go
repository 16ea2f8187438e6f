package service

import (
	"errors"
	"regexp"
	"time"

	"github.com/bigsteppa/backend/internal/events"
	"github.com/bigsteppa/backend/internal/models"
	"github.com/bigsteppa/backend/internal/repository"
)

var (
	ErrInvalidDuration     = errors.New("duration must be at least 1")
	ErrInvalidDurationUnit = errors.New("duration unit must be Days, Weeks, Months or Years")
	ErrInvalidReminderTime = errors.New("reminder time must be in HH:mm format")
	ErrChallengeCompleted  = errors.New("challenge is already completed")
)

// 24-hour HH:mm
var reminderTimeRe = regexp.MustCompile(`^([0-1]\d|2[0-3]):([0-5]\d)$`)

// ChallengeService handles the challenge lifecycle. Every operation is
// scoped to the owning user; a challenge someone else owns is
// indistinguishable from one that does not exist.
type ChallengeService struct {
	challengeRepo *repository.ChallengeRepository
	logRepo       *repository.ChallengeLogRepository
	hub           *events.Hub
}

// NewChallengeService creates a new ChallengeService. hub may be nil.
func NewChallengeService(
	challengeRepo *repository.ChallengeRepository,
	logRepo *repository.ChallengeLogRepository,
	hub *events.Hub,
) *ChallengeService {
	return &ChallengeService{
		challengeRepo: challengeRepo,
		logRepo:       logRepo,
		hub:           hub,
	}
}

// CreateChallengeRequest represents the create challenge request
type CreateChallengeRequest struct {
	Name          string              `json:"name" binding:"required,min=1,max=100"`
	DurationValue int                 `json:"durationValue" binding:"required"`
	DurationUnit  models.DurationUnit `json:"durationUnit" binding:"required,oneof=Days Weeks Months Years"`
	StartDate     time.Time           `json:"startDate" binding:"required"`
	ReminderTime  string              `json:"reminderTime" binding:"required"`
	Description   string              `json:"description"`
}

// UpdateChallengeRequest represents a partial challenge edit. Lifecycle
// fields are deliberately absent; pause/resume/restart are the only
// status-mutating operations.
type UpdateChallengeRequest struct {
	Name          *string              `json:"name"`
	DurationValue *int                 `json:"durationValue"`
	DurationUnit  *models.DurationUnit `json:"durationUnit"`
	StartDate     *time.Time           `json:"startDate"`
	ReminderTime  *string              `json:"reminderTime"`
	Description   *string              `json:"description"`
}

// AddLogRequest represents the create challenge log request
type AddLogRequest struct {
	DailyReflection string `json:"dailyReflection"`
	URL             string `json:"url" binding:"required,url"`
}

// FormattedLogs is the index-aligned projection of a challenge's logs
type FormattedLogs struct {
	Days      []string `json:"days"`
	ImageURLs []string `json:"image_urls"`
}

// Create initializes a challenge in the SetToHappen state
func (s *ChallengeService) Create(userID string, req *CreateChallengeRequest) (*models.Challenge, error) {
	if req.DurationValue <= 0 {
		return nil, ErrInvalidDuration
	}
	if !req.DurationUnit.Valid() {
		return nil, ErrInvalidDurationUnit
	}
	if !reminderTimeRe.MatchString(req.ReminderTime) {
		return nil, ErrInvalidReminderTime
	}

	challenge := &models.Challenge{
		UserID:          userID,
		Name:            req.Name,
		DurationValue:   req.DurationValue,
		DurationUnit:    req.DurationUnit,
		StartDate:       req.StartDate,
		LastUpdatedDate: req.StartDate,
		ReminderTime:    req.ReminderTime,
		Description:     req.Description,
		IsPaused:        false,
		Status:          models.StatusSetToHappen,
	}

	if err := s.challengeRepo.Create(challenge); err != nil {
		return nil, err
	}

	return challenge, nil
}

// List retrieves a user's challenges, oldest first
func (s *ChallengeService) List(userID string) ([]models.Challenge, error) {
	return s.challengeRepo.ListByUserID(userID)
}

// Get retrieves a single challenge with its logs
func (s *ChallengeService) Get(userID, challengeID string) (*models.Challenge, error) {
	return s.challengeRepo.GetWithLogs(challengeID, userID)
}

// Update applies a partial edit to a challenge's descriptive fields
func (s *ChallengeService) Update(userID, challengeID string, req *UpdateChallengeRequest) (*models.Challenge, error) {
	challenge, err := s.challengeRepo.GetByIDAndUserID(challengeID, userID)
	if err != nil {
		return nil, err
	}
	if challenge.Status == models.StatusCompleted {
		return nil, ErrChallengeCompleted
	}

	if req.Name != nil {
		challenge.Name = *req.Name
	}
	if req.DurationValue != nil {
		if *req.DurationValue <= 0 {
			return nil, ErrInvalidDuration
		}
		challenge.DurationValue = *req.DurationValue
	}
	if req.DurationUnit != nil {
		if !req.DurationUnit.Valid() {
			return nil, ErrInvalidDurationUnit
		}
		challenge.DurationUnit = *req.DurationUnit
	}
	if req.StartDate != nil {
		challenge.StartDate = *req.StartDate
	}
	if req.ReminderTime != nil {
		if !reminderTimeRe.MatchString(*req.ReminderTime) {
			return nil, ErrInvalidReminderTime
		}
		challenge.ReminderTime = *req.ReminderTime
	}
	if req.Description != nil {
		challenge.Description = *req.Description
	}

	challenge.LastUpdatedDate = time.Now()
	if err := s.challengeRepo.Update(challenge); err != nil {
		return nil, err
	}

	return challenge, nil
}

// Pause stalls a challenge. Completed challenges cannot be paused.
func (s *ChallengeService) Pause(userID, challengeID string) (*models.Challenge, error) {
	challenge, err := s.challengeRepo.GetByIDAndUserID(challengeID, userID)
	if err != nil {
		return nil, err
	}
	if challenge.Status == models.StatusCompleted {
		return nil, ErrChallengeCompleted
	}

	challenge.IsPaused = true
	challenge.Status = models.StatusStalled
	challenge.LastUpdatedDate = time.Now()

	if err := s.challengeRepo.Update(challenge); err != nil {
		return nil, err
	}

	s.publishStatus(challenge)
	return challenge, nil
}

// Resume puts a challenge back in the Ongoing state
func (s *ChallengeService) Resume(userID, challengeID string) (*models.Challenge, error) {
	challenge, err := s.challengeRepo.GetByIDAndUserID(challengeID, userID)
	if err != nil {
		return nil, err
	}
	if challenge.Status == models.StatusCompleted {
		return nil, ErrChallengeCompleted
	}

	challenge.IsPaused = false
	challenge.Status = models.StatusOngoing
	challenge.LastUpdatedDate = time.Now()

	if err := s.challengeRepo.Update(challenge); err != nil {
		return nil, err
	}

	s.publishStatus(challenge)
	return challenge, nil
}

// Restart resets the schedule: start date becomes today's local midnight,
// the pause flag clears and the challenge goes back to Ongoing. A restart
// is a schedule reset, not a data wipe; existing logs are kept. It is
// allowed from any state, including Completed.
func (s *ChallengeService) Restart(userID, challengeID string) (*models.Challenge, error) {
	challenge, err := s.challengeRepo.GetByIDAndUserID(challengeID, userID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	challenge.StartDate = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	challenge.IsPaused = false
	challenge.Status = models.StatusOngoing
	challenge.LastUpdatedDate = now

	if err := s.challengeRepo.Update(challenge); err != nil {
		return nil, err
	}

	s.publishStatus(challenge)
	return challenge, nil
}

// Delete removes a challenge and all of its logs
func (s *ChallengeService) Delete(userID, challengeID string) error {
	challenge, err := s.challengeRepo.GetByIDAndUserID(challengeID, userID)
	if err != nil {
		return err
	}
	return s.challengeRepo.Delete(challenge.ID)
}

// AddLog appends one proof entry. There is no one-per-day dedup; several
// logs on the same day are accepted as submitted.
func (s *ChallengeService) AddLog(userID, challengeID string, req *AddLogRequest) (*models.ChallengeLog, error) {
	challenge, err := s.challengeRepo.GetByIDAndUserID(challengeID, userID)
	if err != nil {
		return nil, err
	}

	log := &models.ChallengeLog{
		ChallengeID:     challenge.ID,
		DailyReflection: req.DailyReflection,
		URL:             req.URL,
	}
	if err := s.logRepo.Create(log); err != nil {
		return nil, err
	}

	return log, nil
}

// FormattedLogs projects a challenge's logs into two index-aligned arrays:
// calendar days (UTC date portion) and proof-image URLs, both in creation
// order.
func (s *ChallengeService) FormattedLogs(userID, challengeID string) (*FormattedLogs, error) {
	challenge, err := s.challengeRepo.GetByIDAndUserID(challengeID, userID)
	if err != nil {
		return nil, err
	}

	logs, err := s.logRepo.ListByChallengeID(challenge.ID)
	if err != nil {
		return nil, err
	}

	formatted := &FormattedLogs{
		Days:      make([]string, 0, len(logs)),
		ImageURLs: make([]string, 0, len(logs)),
	}
	for _, log := range logs {
		formatted.Days = append(formatted.Days, log.CreatedAt.UTC().Format("2006-01-02"))
		formatted.ImageURLs = append(formatted.ImageURLs, log.URL)
	}

	return formatted, nil
}

// ActivateDue promotes un-paused SetToHappen challenges whose start date
// has arrived to Ongoing. Returns how many were promoted.
func (s *ChallengeService) ActivateDue(now time.Time) (int, error) {
	challenges, err := s.challengeRepo.ListByStatus(models.StatusSetToHappen)
	if err != nil {
		return 0, err
	}

	activated := 0
	for i := range challenges {
		challenge := &challenges[i]
		if challenge.IsPaused || challenge.StartDate.After(now) {
			continue
		}
		challenge.Status = models.StatusOngoing
		challenge.LastUpdatedDate = now
		if err := s.challengeRepo.Update(challenge); err != nil {
			return activated, err
		}
		s.publishStatus(challenge)
		activated++
	}

	return activated, nil
}

// CompleteElapsed marks un-paused Ongoing challenges whose duration has
// elapsed as Completed. Returns how many were completed.
func (s *ChallengeService) CompleteElapsed(now time.Time) (int, error) {
	challenges, err := s.challengeRepo.ListByStatus(models.StatusOngoing)
	if err != nil {
		return 0, err
	}

	completed := 0
	for i := range challenges {
		challenge := &challenges[i]
		if challenge.IsPaused || challenge.EndDate().After(now) {
			continue
		}
		challenge.Status = models.StatusCompleted
		challenge.LastUpdatedDate = now
		if err := s.challengeRepo.Update(challenge); err != nil {
			return completed, err
		}
		s.publishStatus(challenge)
		completed++
	}

	return completed, nil
}

func (s *ChallengeService) publishStatus(challenge *models.Challenge) {
	if s.hub == nil {
		return
	}
	s.hub.Publish(challenge.UserID, events.StatusChange{
		ChallengeID: challenge.ID,
		Status:      challenge.Status,
		IsPaused:    challenge.IsPaused,
	})
}
