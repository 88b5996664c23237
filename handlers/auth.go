// handlers/auth.go - Participant join flow
package handlers

import (
	"os"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

type JoinRequest struct {
	AccessCode  string `json:"access_code"`
	DisplayName string `json:"display_name"`
	JoinToken   string `json:"join_token"`
}

// Join authenticates a participant into their seat via the challenge's
// access code. The access code is the public join path; the numeric
// challenge id is never accepted here. The first join claims the seat and
// receives its join_token; re-joins must present it.
// POST /api/join
func Join(c *fiber.Ctx) error {
	var req JoinRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{
			"success": false,
			"error":   "Invalid request body",
		})
	}
	if req.AccessCode == "" || req.DisplayName == "" {
		return c.Status(400).JSON(fiber.Map{
			"success": false,
			"error":   "Access code and display name are required",
		})
	}

	participant, err := challengeService.ClaimSeat(req.AccessCode, req.DisplayName, req.JoinToken)
	if err != nil {
		return RespondError(c, err)
	}

	challenge, err := challengeService.GetChallengeByAccessCode(req.AccessCode)
	if err != nil {
		return RespondError(c, err)
	}

	token, expiresAt, err := generateParticipantToken(participant.ID, participant.ChallengeID)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{
			"success": false,
			"error":   "Failed to generate token",
		})
	}

	return c.JSON(fiber.Map{
		"success":    true,
		"token":      token,
		"expires_at": expiresAt,
		"join_token": participant.JoinToken,
		"participant": fiber.Map{
			"id":               participant.ID,
			"team_id":          participant.TeamID,
			"display_name":     participant.DisplayName,
			"html_code":        participant.HTMLCode,
			"css_code":         participant.CSSCode,
			"is_locked":        participant.IsLocked,
			"focus_violations": participant.FocusViolations,
			"submitted_at":     participant.SubmittedAt,
		},
		"challenge": fiber.Map{
			"id":               challenge.ID,
			"title":            challenge.Title,
			"instructions":     challenge.Instructions,
			"status":           challenge.Status,
			"editing_enabled":  challenge.EditingEnabled,
			"duration_minutes": challenge.DurationMinutes,
			"started_at":       challenge.StartedAt,
		},
	})
}

// Me returns the caller's authoritative current state. Reconnecting clients
// call this instead of replaying missed broadcasts; the hub is only a
// notification layer.
// GET /api/me
func Me(c *fiber.Ctx) error {
	participantID := c.Locals("participantId").(uint)

	participant, err := challengeService.GetParticipant(participantID)
	if err != nil {
		return RespondError(c, err)
	}
	challenge, err := challengeService.GetChallenge(participant.ChallengeID)
	if err != nil {
		return RespondError(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"participant": fiber.Map{
			"id":               participant.ID,
			"team_id":          participant.TeamID,
			"display_name":     participant.DisplayName,
			"html_code":        participant.HTMLCode,
			"css_code":         participant.CSSCode,
			"is_locked":        participant.IsLocked,
			"focus_violations": participant.FocusViolations,
			"submitted_at":     participant.SubmittedAt,
		},
		"challenge": fiber.Map{
			"id":               challenge.ID,
			"title":            challenge.Title,
			"instructions":     challenge.Instructions,
			"status":           challenge.Status,
			"editing_enabled":  challenge.EditingEnabled,
			"duration_minutes": challenge.DurationMinutes,
			"started_at":       challenge.StartedAt,
			"ended_at":         challenge.EndedAt,
		},
	})
}

// generateParticipantToken creates the JWT a participant's client presents
// on every subsequent request, REST and websocket alike.
func generateParticipantToken(participantID, challengeID uint) (string, int64, error) {
	expiresAt := time.Now().Add(12 * time.Hour).Unix()

	claims := jwt.MapClaims{
		"participant_id": participantID,
		"challenge_id":   challengeID,
		"role":           "participant",
		"exp":            expiresAt,
		"iat":            time.Now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(os.Getenv("JWT_SECRET")))
	if err != nil {
		return "", 0, err
	}
	return tokenString, expiresAt, nil
}
