package admin

import (
	"crypto/subtle"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lshigami/attemptkeeper/internal/dto"
	"github.com/lshigami/attemptkeeper/internal/model"
	"github.com/lshigami/attemptkeeper/internal/service"
	"github.com/rs/zerolog/log"
)

// TokenHeader carries the shared admin secret.
const TokenHeader = "X-Admin-Token"

type AdminJobController struct {
	abandonmentService service.AbandonmentService
	purgeService       service.PurgeService
	reconcileService   service.ReconcileService
}

func NewAdminJobController(
	abandonmentService service.AbandonmentService,
	purgeService service.PurgeService,
	reconcileService service.ReconcileService,
) *AdminJobController {
	return &AdminJobController{
		abandonmentService: abandonmentService,
		purgeService:       purgeService,
		reconcileService:   reconcileService,
	}
}

// RequireToken rejects requests whose X-Admin-Token does not match token.
// An empty token leaves the admin routes open.
func RequireToken(token string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		if token == "" {
			ctx.Next()
			return
		}
		got := ctx.GetHeader(TokenHeader)
		if subtle.ConstantTimeCompare([]byte(got), []byte(token)) != 1 {
			log.Warn().Str("path", ctx.FullPath()).Str("client_ip", ctx.ClientIP()).Msg("Admin: rejected request with bad token")
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, dto.ErrorResponse{Message: "Missing or invalid admin token"})
			return
		}
		ctx.Next()
	}
}

// MarkAbandoned godoc
// @Summary (Admin) Run the abandonment detector
// @Description Marks stale in_progress attempts as abandoned, up to the configured batch limit.
// @Tags Admin - Jobs
// @Produce json
// @Param X-Admin-Token header string false "Admin token"
// @Success 200 {object} dto.AbandonSummary
// @Failure 401 {object} dto.ErrorResponse "Missing or invalid admin token"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /admin/jobs/mark-abandoned [post]
func (c *AdminJobController) MarkAbandoned(ctx *gin.Context) {
	summary, err := c.abandonmentService.MarkAbandoned(ctx.Request.Context())
	if err != nil {
		log.Error().Err(err).Msg("Admin MarkAbandoned: Service error")
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Failed to run abandonment detector", Details: []string{err.Error()}})
		return
	}
	ctx.JSON(http.StatusOK, summary)
}

// PurgeAbandoned godoc
// @Summary (Admin) Purge old low-progress abandoned attempts
// @Description Permanently deletes qualifying abandoned attempts and writes an audit entry for each. Requires confirm=true.
// @Tags Admin - Jobs
// @Produce json
// @Param X-Admin-Token header string false "Admin token"
// @Param confirm query bool true "Must be true"
// @Success 200 {object} dto.PurgeSummary
// @Failure 400 {object} dto.ErrorResponse "Confirmation missing"
// @Failure 401 {object} dto.ErrorResponse "Missing or invalid admin token"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /admin/jobs/purge-abandoned [post]
func (c *AdminJobController) PurgeAbandoned(ctx *gin.Context) {
	if ctx.Query("confirm") != "true" {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: service.ErrConfirmationRequired.Error(), Details: []string{"pass confirm=true"}})
		return
	}

	summary, err := c.purgeService.PurgeAbandoned(ctx.Request.Context())
	if err != nil {
		log.Error().Err(err).Msg("Admin PurgeAbandoned: Service error")
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Failed to purge abandoned attempts", Details: []string{err.Error()}})
		return
	}
	ctx.JSON(http.StatusOK, summary)
}

// Reconcile godoc
// @Summary (Admin) Recompute daily user stats
// @Description Rebuilds or merges DailyUserStats for [from, to] from raw attempts and the purge log. A rebuild that writes needs confirm=true.
// @Tags Admin - Stats
// @Produce json
// @Param X-Admin-Token header string false "Admin token"
// @Param from query string true "First day (YYYY-MM-DD)"
// @Param to query string true "Last day (YYYY-MM-DD)"
// @Param user_id query int false "Limit to one user"
// @Param mode query string false "rebuild (default) or merge"
// @Param dryRun query bool false "Preview without writing"
// @Param confirm query bool false "Required for a rebuild that writes"
// @Success 200 {object} dto.ReconcileResult
// @Failure 400 {object} dto.ErrorResponse "Invalid range, mode or missing confirmation"
// @Failure 401 {object} dto.ErrorResponse "Missing or invalid admin token"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /admin/stats/reconcile [post]
func (c *AdminJobController) Reconcile(ctx *gin.Context) {
	var query dto.ReconcileQuery
	if err := ctx.ShouldBindQuery(&query); err != nil {
		log.Warn().Err(err).Msg("Admin Reconcile: Failed to bind query")
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid query parameters", Details: []string{err.Error()}})
		return
	}

	from, errFrom := time.Parse(model.DayLayout, query.From)
	to, errTo := time.Parse(model.DayLayout, query.To)
	if err := errors.Join(errFrom, errTo); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: service.ErrInvalidRange.Error(), Details: []string{err.Error()}})
		return
	}

	req := dto.ReconcileRequest{From: from, To: to, UserID: query.UserID, Mode: query.Mode, DryRun: query.DryRun}
	rebuild := req.Mode == "" || req.Mode == service.ReconcileModeRebuild
	if rebuild && !req.DryRun && !query.Confirm {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: service.ErrConfirmationRequired.Error(), Details: []string{"pass confirm=true or dryRun=true"}})
		return
	}

	result, err := c.reconcileService.Reconcile(ctx.Request.Context(), req)
	if err != nil {
		if isValidationError(err) {
			ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: err.Error()})
			return
		}
		log.Error().Err(err).Str("from", query.From).Str("to", query.To).Msg("Admin Reconcile: Service error")
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Failed to reconcile daily stats", Details: []string{err.Error()}})
		return
	}
	ctx.JSON(http.StatusOK, result)
}

func isValidationError(err error) bool {
	return errors.Is(err, service.ErrInvalidRange) ||
		errors.Is(err, service.ErrRangeTooLarge) ||
		errors.Is(err, service.ErrUnknownMode) ||
		errors.Is(err, service.ErrConfirmationRequired)
}
