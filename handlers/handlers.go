// handlers/handlers.go - Service wiring and shared error mapping
package handlers

import (
	"errors"

	"codeclash/models"
	"codeclash/services"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

var (
	challengeService *services.ChallengeService
	sessionService   *services.SessionService
	violationService *services.ViolationService
	resultsService   *services.ResultsService
)

// InitHandlers wires the engine services into the handler package. Must run
// after database.InitDB and before any route is served.
func InitHandlers(db *gorm.DB, hub *Hub, violationThreshold int) {
	if db == nil {
		panic("Database not initialized before InitHandlers")
	}
	locker := services.NewChallengeLocker()
	challengeService = services.NewChallengeService(db)
	sessionService = services.NewSessionService(db, hub, locker)
	violationService = services.NewViolationService(db, hub, locker, violationThreshold)
	resultsService = services.NewResultsService(db)
}

// Sessions exposes the session service for the sweeper and the admin package.
func Sessions() *services.SessionService { return sessionService }

// Challenges exposes the challenge store for the admin package.
func Challenges() *services.ChallengeService { return challengeService }

// Results exposes the aggregator for the admin package.
func Results() *services.ResultsService { return resultsService }

// Violations exposes the monitor for the admin package.
func Violations() *services.ViolationService { return violationService }

// RespondError maps engine errors onto specific HTTP responses. The state
// machine's rejections are routine, so each gets its own actionable message
// rather than collapsing into a generic failure.
func RespondError(c *fiber.Ctx, err error) error {
	switch {
	case models.IsInvalidTransition(err):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"success": false,
			"error":   err.Error(),
		})
	case errors.Is(err, models.ErrEditingDisabled):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"success": false,
			"error":   "Editing is currently disabled for this challenge",
		})
	case errors.Is(err, models.ErrParticipantLocked):
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"success":      false,
			"error":        "You have been disqualified from this challenge",
			"disqualified": true,
		})
	case errors.Is(err, models.ErrSeatClaimed):
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"success": false,
			"error":   "This seat is already in use from another device",
		})
	case errors.Is(err, models.ErrUnknownChallenge), errors.Is(err, models.ErrUnknownParticipant),
		errors.Is(err, gorm.ErrRecordNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"success": false,
			"error":   err.Error(),
		})
	case errors.Is(err, models.ErrChallengeRunning), errors.Is(err, models.ErrTeamsFrozen):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"success": false,
			"error":   err.Error(),
		})
	case errors.Is(err, models.ErrTransitionConflict):
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"success": false,
			"error":   err.Error(),
		})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"error":   "Internal server error",
		})
	}
}
