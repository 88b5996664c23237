// handlers/code.go - Participant code, submission and violation endpoints
package handlers

import (
	"codeclash/preview"

	"github.com/gofiber/fiber/v2"
)

type CodeRequest struct {
	HTMLCode string `json:"html_code"`
	CSSCode  string `json:"css_code"`
}

// UpdateCode overwrites the caller's code buffers. Gated server-side on the
// editing window and the caller's lock state; the client-side editor disable
// is defense in depth only.
// PUT /api/code
func UpdateCode(c *fiber.Ctx) error {
	participantID := c.Locals("participantId").(uint)

	var req CodeRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{
			"success": false,
			"error":   "Invalid request body",
		})
	}

	if err := challengeService.SaveCode(participantID, req.HTMLCode, req.CSSCode); err != nil {
		return RespondError(c, err)
	}

	return c.JSON(fiber.Map{"success": true})
}

// Submit marks the caller's work as submitted. First write wins; a later
// challenge end will not overwrite the timestamp.
// POST /api/submit
func Submit(c *fiber.Ctx) error {
	participantID := c.Locals("participantId").(uint)

	participant, err := challengeService.Submit(participantID)
	if err != nil {
		return RespondError(c, err)
	}

	return c.JSON(fiber.Map{
		"success":      true,
		"submitted_at": participant.SubmittedAt,
	})
}

type ViolationRequest struct {
	// OccurredAt is advisory client time, logged but not trusted.
	OccurredAt int64 `json:"occurred_at"`
}

// ReportViolation records one focus-loss event for the caller. Every
// delivered event is a genuine occurrence; there is no deduplication.
// POST /api/violations
func ReportViolation(c *fiber.Ctx) error {
	participantID := c.Locals("participantId").(uint)

	var req ViolationRequest
	// Body is optional; violations over websocket carry no body either.
	_ = c.BodyParser(&req)

	count, lockedNow, err := violationService.RecordViolation(participantID)
	if err != nil {
		return RespondError(c, err)
	}

	resp := fiber.Map{
		"success":          true,
		"focus_violations": count,
		"locked_now":       lockedNow,
	}
	if lockedNow {
		resp["message"] = "You have been disqualified for leaving the challenge window"
	}
	return c.JSON(resp)
}

// SelfPreview renders the caller's own current code as the judges will see
// it. The render is pure; the response is a complete sandboxed document.
// GET /api/preview
func SelfPreview(c *fiber.Ctx) error {
	participantID := c.Locals("participantId").(uint)

	participant, err := challengeService.GetParticipant(participantID)
	if err != nil {
		return RespondError(c, err)
	}

	doc := preview.Render(participant.HTMLCode, participant.CSSCode)
	c.Set("Content-Type", "text/html; charset=utf-8")
	return c.SendString(doc)
}
