package user

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/lshigami/attemptkeeper/internal/dto"
	"github.com/lshigami/attemptkeeper/internal/service"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

type UserStatsController struct {
	statsService   service.StatsService
	attemptService service.AttemptService
}

func NewUserStatsController(statsService service.StatsService, attemptService service.AttemptService) *UserStatsController {
	return &UserStatsController{
		statsService:   statsService,
		attemptService: attemptService,
	}
}

// GetDailyStats godoc
// @Summary (User) Daily attempt stats
// @Description Per-day counters and rates for the last N days, oldest first. Days without activity are omitted.
// @Tags User - Stats
// @Produce json
// @Param user_id path int true "User ID"
// @Param days query int false "Window in days (default 7, max 366)"
// @Success 200 {array} dto.DailyStatsResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid User ID format"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /users/{user_id}/stats/daily [get]
func (c *UserStatsController) GetDailyStats(ctx *gin.Context) {
	userID, ok := parseID(ctx, "user_id")
	if !ok {
		return
	}
	days, _ := strconv.Atoi(ctx.Query("days"))

	stats, err := c.statsService.GetDailyStats(ctx.Request.Context(), userID, days)
	if err != nil {
		log.Error().Err(err).Uint("userID", userID).Msg("User GetDailyStats: Service error")
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Failed to retrieve daily stats", Details: []string{err.Error()}})
		return
	}
	ctx.JSON(http.StatusOK, stats)
}

// GetSummary godoc
// @Summary (User) Stats summary
// @Description Totals, rates and the finished-weighted average score over the last N days.
// @Tags User - Stats
// @Produce json
// @Param user_id path int true "User ID"
// @Param days query int false "Window in days (default 7, max 366)"
// @Success 200 {object} dto.StatsSummaryResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid User ID format"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /users/{user_id}/stats/summary [get]
func (c *UserStatsController) GetSummary(ctx *gin.Context) {
	userID, ok := parseID(ctx, "user_id")
	if !ok {
		return
	}
	days, _ := strconv.Atoi(ctx.Query("days"))

	summary, err := c.statsService.GetSummary(ctx.Request.Context(), userID, days)
	if err != nil {
		log.Error().Err(err).Uint("userID", userID).Msg("User GetSummary: Service error")
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Failed to retrieve stats summary", Details: []string{err.Error()}})
		return
	}
	ctx.JSON(http.StatusOK, summary)
}

// StartAttempt godoc
// @Summary (User) Start an attempt
// @Tags User - Attempts
// @Accept json
// @Produce json
// @Param attempt body dto.StartAttemptRequest true "Attempt to open"
// @Success 201 {object} dto.AttemptResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid request body"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /attempts [post]
func (c *UserStatsController) StartAttempt(ctx *gin.Context) {
	var req dto.StartAttemptRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		log.Warn().Err(err).Msg("User StartAttempt: Failed to bind JSON")
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}

	attempt, err := c.attemptService.StartAttempt(ctx.Request.Context(), req)
	if err != nil {
		log.Error().Err(err).Interface("requestPayload", req).Msg("User StartAttempt: Service error")
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Failed to start attempt", Details: []string{err.Error()}})
		return
	}
	ctx.JSON(http.StatusCreated, attempt)
}

// GetAttempt godoc
// @Summary (User) Get an attempt
// @Tags User - Attempts
// @Produce json
// @Param attempt_id path int true "Attempt ID"
// @Success 200 {object} dto.AttemptResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid Attempt ID format"
// @Failure 404 {object} dto.ErrorResponse "Attempt not found"
// @Router /attempts/{attempt_id} [get]
func (c *UserStatsController) GetAttempt(ctx *gin.Context) {
	attemptID, ok := parseID(ctx, "attempt_id")
	if !ok {
		return
	}
	attempt, err := c.attemptService.GetAttempt(ctx.Request.Context(), attemptID)
	if err != nil {
		writeAttemptError(ctx, err, "User GetAttempt")
		return
	}
	ctx.JSON(http.StatusOK, attempt)
}

// RecordActivity godoc
// @Summary (User) Heartbeat for an attempt
// @Description Bumps last activity so the attempt is not considered idle.
// @Tags User - Attempts
// @Param attempt_id path int true "Attempt ID"
// @Success 204
// @Failure 404 {object} dto.ErrorResponse "Attempt not found"
// @Failure 409 {object} dto.ErrorResponse "Attempt is not in progress"
// @Router /attempts/{attempt_id}/activity [post]
func (c *UserStatsController) RecordActivity(ctx *gin.Context) {
	attemptID, ok := parseID(ctx, "attempt_id")
	if !ok {
		return
	}
	if err := c.attemptService.TouchAttempt(ctx.Request.Context(), attemptID); err != nil {
		writeAttemptError(ctx, err, "User RecordActivity")
		return
	}
	ctx.Status(http.StatusNoContent)
}

// FinishAttempt godoc
// @Summary (User) Finish an attempt
// @Tags User - Attempts
// @Accept json
// @Produce json
// @Param attempt_id path int true "Attempt ID"
// @Param result body dto.FinishAttemptRequest true "Grading result"
// @Success 200 {object} dto.AttemptResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid request body"
// @Failure 404 {object} dto.ErrorResponse "Attempt not found"
// @Failure 409 {object} dto.ErrorResponse "Attempt is not in progress"
// @Router /attempts/{attempt_id}/finish [post]
func (c *UserStatsController) FinishAttempt(ctx *gin.Context) {
	attemptID, ok := parseID(ctx, "attempt_id")
	if !ok {
		return
	}
	var req dto.FinishAttemptRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		log.Warn().Err(err).Uint("attemptID", attemptID).Msg("User FinishAttempt: Failed to bind JSON")
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}

	attempt, err := c.attemptService.FinishAttempt(ctx.Request.Context(), attemptID, req)
	if err != nil {
		writeAttemptError(ctx, err, "User FinishAttempt")
		return
	}
	ctx.JSON(http.StatusOK, attempt)
}

// GetProgress godoc
// @Summary (User) Attempt progress
// @Description Responded vs scorable question counts. Pretest questions are excluded.
// @Tags User - Attempts
// @Produce json
// @Param attempt_id path int true "Attempt ID"
// @Success 200 {object} dto.ProgressResponse
// @Failure 404 {object} dto.ErrorResponse "Attempt not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /attempts/{attempt_id}/progress [get]
func (c *UserStatsController) GetProgress(ctx *gin.Context) {
	attemptID, ok := parseID(ctx, "attempt_id")
	if !ok {
		return
	}
	progress, err := c.attemptService.GetProgress(ctx.Request.Context(), attemptID)
	if err != nil {
		writeAttemptError(ctx, err, "User GetProgress")
		return
	}
	ctx.JSON(http.StatusOK, progress)
}

func parseID(ctx *gin.Context, param string) (uint, bool) {
	id, err := strconv.ParseUint(ctx.Param(param), 10, 32)
	if err != nil || id == 0 {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid " + param + " format"})
		return 0, false
	}
	return uint(id), true
}

func writeAttemptError(ctx *gin.Context, err error, op string) {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		ctx.JSON(http.StatusNotFound, dto.ErrorResponse{Message: "Attempt not found"})
	case errors.Is(err, service.ErrInvalidTransition):
		ctx.JSON(http.StatusConflict, dto.ErrorResponse{Message: err.Error()})
	default:
		log.Error().Err(err).Msg(op + ": Service error")
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Internal server error", Details: []string{err.Error()}})
	}
}
