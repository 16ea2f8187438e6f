package handler

import (
	"errors"

	"github.com/bigsteppa/backend/internal/events"
	"github.com/bigsteppa/backend/internal/middleware"
	"github.com/bigsteppa/backend/internal/repository"
	"github.com/bigsteppa/backend/internal/service"
	"github.com/bigsteppa/backend/pkg/response"
	"github.com/gin-gonic/gin"
)

// ChallengeHandler handles challenge API requests
type ChallengeHandler struct {
	challengeService *service.ChallengeService
	hub              *events.Hub
}

// NewChallengeHandler creates a new ChallengeHandler
func NewChallengeHandler(challengeService *service.ChallengeService, hub *events.Hub) *ChallengeHandler {
	return &ChallengeHandler{
		challengeService: challengeService,
		hub:              hub,
	}
}

// handleLifecycleError maps challenge service failures to HTTP responses
func (h *ChallengeHandler) handleLifecycleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, repository.ErrChallengeNotFound):
		response.NotFound(c, "challenge not found")
	case errors.Is(err, service.ErrInvalidDuration),
		errors.Is(err, service.ErrInvalidDurationUnit),
		errors.Is(err, service.ErrInvalidReminderTime),
		errors.Is(err, service.ErrChallengeCompleted):
		response.BadRequest(c, err.Error())
	default:
		middleware.LogError("challenges: %v", err)
		response.InternalError(c, "failed to process challenge")
	}
}

// CreateChallenge handles challenge creation
// POST /api/challenges/create_challenge
func (h *ChallengeHandler) CreateChallenge(c *gin.Context) {
	var req service.CreateChallengeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	if _, err := h.challengeService.Create(middleware.GetUserID(c), &req); err != nil {
		h.handleLifecycleError(c, err)
		return
	}

	response.Created(c, gin.H{
		"message":    "Challenge created, successfully! Go BigSteppa",
		"statusText": "ok",
	})
}

// CreateChallengeLog appends a proof entry to a challenge
// POST /api/challenges/create_challenge_log
func (h *ChallengeHandler) CreateChallengeLog(c *gin.Context) {
	var req struct {
		ChallengeID string `json:"challengeId" binding:"required,uuid"`
		service.AddLogRequest
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	if _, err := h.challengeService.AddLog(middleware.GetUserID(c), req.ChallengeID, &req.AddLogRequest); err != nil {
		h.handleLifecycleError(c, err)
		return
	}

	response.Created(c, gin.H{
		"message": "Today's challenge log entered! We see you BigSteppa. Keep steppin'",
	})
}

// GetChallenges lists the caller's challenges, oldest first
// GET /api/challenges/challenges
func (h *ChallengeHandler) GetChallenges(c *gin.Context) {
	challenges, err := h.challengeService.List(middleware.GetUserID(c))
	if err != nil {
		middleware.LogError("challenges: list failed: %v", err)
		response.InternalError(c, "Failed to fetch challenges")
		return
	}

	response.Success(c, challenges)
}

// GetChallenge retrieves a single challenge with its logs
// GET /api/challenges/challenge/:challenge_id
func (h *ChallengeHandler) GetChallenge(c *gin.Context) {
	challenge, err := h.challengeService.Get(middleware.GetUserID(c), c.Param("challenge_id"))
	if err != nil {
		h.handleLifecycleError(c, err)
		return
	}

	response.Success(c, challenge)
}

// GetChallengeLogs returns the index-aligned days/image_urls projection
// GET /api/challenges/challenge_logs/:challenge_id
func (h *ChallengeHandler) GetChallengeLogs(c *gin.Context) {
	logs, err := h.challengeService.FormattedLogs(middleware.GetUserID(c), c.Param("challenge_id"))
	if err != nil {
		h.handleLifecycleError(c, err)
		return
	}

	response.Success(c, logs)
}

// UpdateChallenge applies a partial edit to descriptive fields
// PATCH /api/challenges/challenge/:challenge_id
func (h *ChallengeHandler) UpdateChallenge(c *gin.Context) {
	var req service.UpdateChallengeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	challenge, err := h.challengeService.Update(middleware.GetUserID(c), c.Param("challenge_id"), &req)
	if err != nil {
		h.handleLifecycleError(c, err)
		return
	}

	response.Success(c, challenge)
}

// DeleteChallenge removes a challenge and its logs
// DELETE /api/challenges/challenge/:challenge_id
func (h *ChallengeHandler) DeleteChallenge(c *gin.Context) {
	if err := h.challengeService.Delete(middleware.GetUserID(c), c.Param("challenge_id")); err != nil {
		h.handleLifecycleError(c, err)
		return
	}

	response.Message(c, "challenge deleted")
}

// PauseChallenge stalls a challenge
// POST /api/challenges/challenge/:challenge_id/pause
func (h *ChallengeHandler) PauseChallenge(c *gin.Context) {
	challenge, err := h.challengeService.Pause(middleware.GetUserID(c), c.Param("challenge_id"))
	if err != nil {
		h.handleLifecycleError(c, err)
		return
	}

	response.Success(c, challenge)
}

// ResumeChallenge puts a stalled challenge back in motion
// POST /api/challenges/challenge/:challenge_id/resume
func (h *ChallengeHandler) ResumeChallenge(c *gin.Context) {
	challenge, err := h.challengeService.Resume(middleware.GetUserID(c), c.Param("challenge_id"))
	if err != nil {
		h.handleLifecycleError(c, err)
		return
	}

	response.Success(c, challenge)
}

// RestartChallenge resets the schedule to start today
// POST /api/challenges/challenge/:challenge_id/restart
func (h *ChallengeHandler) RestartChallenge(c *gin.Context) {
	challenge, err := h.challengeService.Restart(middleware.GetUserID(c), c.Param("challenge_id"))
	if err != nil {
		h.handleLifecycleError(c, err)
		return
	}

	response.Success(c, challenge)
}

// RegisterRoutes registers challenge routes (all protected)
func (h *ChallengeHandler) RegisterRoutes(rg *gin.RouterGroup, authMiddleware gin.HandlerFunc) {
	challenges := rg.Group("/challenges", authMiddleware)
	{
		challenges.POST("/create_challenge", h.CreateChallenge)
		challenges.POST("/create_challenge_log", h.CreateChallengeLog)
		challenges.GET("/challenges", h.GetChallenges)
		challenges.GET("/challenge/:challenge_id", h.GetChallenge)
		challenges.GET("/challenge_logs/:challenge_id", h.GetChallengeLogs)
		challenges.PATCH("/challenge/:challenge_id", h.UpdateChallenge)
		challenges.DELETE("/challenge/:challenge_id", h.DeleteChallenge)
		challenges.POST("/challenge/:challenge_id/pause", h.PauseChallenge)
		challenges.POST("/challenge/:challenge_id/resume", h.ResumeChallenge)
		challenges.POST("/challenge/:challenge_id/restart", h.RestartChallenge)
		challenges.GET("/events", h.Events)
	}
}
