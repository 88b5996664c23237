// handlers/admin/challenges.go - Admin console challenge management
package admin

import (
	"strconv"

	"codeclash/handlers"
	"codeclash/models"
	"codeclash/preview"
	"codeclash/services"

	"github.com/gofiber/fiber/v2"
)

func parseID(c *fiber.Ctx) (uint, bool) {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return 0, false
	}
	return uint(id), true
}

type CreateChallengeRequest struct {
	Title           string `json:"title"`
	Description     string `json:"description"`
	Instructions    string `json:"instructions"`
	DurationMinutes int    `json:"duration_minutes"`
}

// CreateChallenge creates a new draft challenge
// POST /api/admin/challenges
func CreateChallenge(c *fiber.Ctx) error {
	var req CreateChallengeRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{
			"success": false,
			"error":   "Invalid request body",
		})
	}
	if req.Title == "" {
		return c.Status(400).JSON(fiber.Map{
			"success": false,
			"error":   "Challenge title is required",
		})
	}

	challenge, err := handlers.Challenges().CreateChallenge(
		req.Title, req.Description, req.Instructions, req.DurationMinutes)
	if err != nil {
		return handlers.RespondError(c, err)
	}

	return c.Status(201).JSON(fiber.Map{
		"success":   true,
		"challenge": challenge,
	})
}

// GetChallenges lists all challenges, newest first
// GET /api/admin/challenges
func GetChallenges(c *fiber.Ctx) error {
	challenges, err := handlers.Challenges().ListChallenges()
	if err != nil {
		return handlers.RespondError(c, err)
	}
	return c.JSON(fiber.Map{
		"success":    true,
		"challenges": challenges,
	})
}

// GetChallenge returns one challenge with teams and participants
// GET /api/admin/challenges/:id
func GetChallenge(c *fiber.Ctx) error {
	id, ok := parseID(c)
	if !ok {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "Invalid challenge ID"})
	}

	challenge, err := handlers.Challenges().GetChallenge(id)
	if err != nil {
		return handlers.RespondError(c, err)
	}
	return c.JSON(fiber.Map{
		"success":   true,
		"challenge": challenge,
	})
}

// DeleteChallenge hard-deletes a draft or completed challenge
// DELETE /api/admin/challenges/:id
func DeleteChallenge(c *fiber.Ctx) error {
	id, ok := parseID(c)
	if !ok {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "Invalid challenge ID"})
	}

	if err := handlers.Challenges().DeleteChallenge(id); err != nil {
		return handlers.RespondError(c, err)
	}
	return c.JSON(fiber.Map{"success": true})
}

type AssignTeamsRequest struct {
	Teams []services.TeamAssignment `json:"teams"`
}

// AssignTeams fixes team membership for a draft challenge
// POST /api/admin/challenges/:id/teams
func AssignTeams(c *fiber.Ctx) error {
	id, ok := parseID(c)
	if !ok {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "Invalid challenge ID"})
	}

	var req AssignTeamsRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{
			"success": false,
			"error":   "Invalid request body",
		})
	}
	if len(req.Teams) == 0 {
		return c.Status(400).JSON(fiber.Map{
			"success": false,
			"error":   "At least one team is required",
		})
	}
	for _, team := range req.Teams {
		if team.Name == "" {
			return c.Status(400).JSON(fiber.Map{
				"success": false,
				"error":   "Every team needs a name",
			})
		}
	}

	challenge, err := handlers.Challenges().AssignTeams(id, req.Teams)
	if err != nil {
		return handlers.RespondError(c, err)
	}
	return c.JSON(fiber.Map{
		"success":   true,
		"challenge": challenge,
	})
}

// Lifecycle actions. Each validates the transition inside the session
// service; an illegal call comes back as a 409 with a specific message
// ("cannot start a active challenge" and so on).

// StartChallenge: POST /api/admin/challenges/:id/start
func StartChallenge(c *fiber.Ctx) error {
	return lifecycle(c, handlers.Sessions().Start)
}

// PauseChallenge: POST /api/admin/challenges/:id/pause
func PauseChallenge(c *fiber.Ctx) error {
	return lifecycle(c, handlers.Sessions().Pause)
}

// ResumeChallenge: POST /api/admin/challenges/:id/resume
func ResumeChallenge(c *fiber.Ctx) error {
	return lifecycle(c, handlers.Sessions().Resume)
}

// EndChallenge: POST /api/admin/challenges/:id/end
func EndChallenge(c *fiber.Ctx) error {
	return lifecycle(c, handlers.Sessions().End)
}

func lifecycle(c *fiber.Ctx, action func(uint) (*models.Challenge, error)) error {
	id, ok := parseID(c)
	if !ok {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "Invalid challenge ID"})
	}

	challenge, err := action(id)
	if err != nil {
		return handlers.RespondError(c, err)
	}
	return c.JSON(fiber.Map{
		"success":   true,
		"challenge": challenge,
	})
}

// GetMonitor returns the live violation/lock table for a running challenge
// GET /api/admin/challenges/:id/monitor
func GetMonitor(c *fiber.Ctx) error {
	id, ok := parseID(c)
	if !ok {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "Invalid challenge ID"})
	}

	rows, err := handlers.Results().MonitorSnapshot(id)
	if err != nil {
		return handlers.RespondError(c, err)
	}
	return c.JSON(fiber.Map{
		"success":   true,
		"threshold": handlers.Violations().Threshold(),
		"rows":      rows,
	})
}

// GetResults returns the frozen per-team results view
// GET /api/admin/challenges/:id/results
func GetResults(c *fiber.Ctx) error {
	id, ok := parseID(c)
	if !ok {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "Invalid challenge ID"})
	}

	results, err := handlers.Results().BuildResults(id)
	if err != nil {
		return handlers.RespondError(c, err)
	}
	return c.JSON(fiber.Map{
		"success": true,
		"results": results,
	})
}

// PreviewParticipant renders one participant's stored code for judging,
// live or post-hoc. Same pure renderer the participant self-preview uses.
// GET /api/admin/participants/:id/preview
func PreviewParticipant(c *fiber.Ctx) error {
	id, ok := parseID(c)
	if !ok {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "Invalid participant ID"})
	}

	participant, err := handlers.Challenges().GetParticipant(id)
	if err != nil {
		return handlers.RespondError(c, err)
	}

	doc := preview.Render(participant.HTMLCode, participant.CSSCode)
	c.Set("Content-Type", "text/html; charset=utf-8")
	return c.SendString(doc)
}
