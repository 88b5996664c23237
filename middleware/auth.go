// middleware/auth.go
package middleware

import (
	"os"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

func parseBearer(c *fiber.Ctx) (jwt.MapClaims, error) {
	authHeader := c.Get("Authorization")
	tokenString := ""

	if authHeader != "" {
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			return nil, fiber.NewError(401, "Invalid authorization header format")
		}
		tokenString = parts[1]
	}

	// Websocket clients cannot set headers from the browser; they pass the
	// token as a query parameter instead.
	if tokenString == "" {
		tokenString = c.Query("token")
	}
	if tokenString == "" {
		return nil, fiber.NewError(401, "Missing authorization token")
	}

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fiber.NewError(401, "Invalid signing method")
		}
		return []byte(os.Getenv("JWT_SECRET")), nil
	})
	if err != nil || !token.Valid {
		return nil, fiber.NewError(401, "Invalid or expired token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, fiber.NewError(401, "Invalid token claims")
	}
	return claims, nil
}

// AdminAuthMiddleware admits only tokens minted by the admin login.
func AdminAuthMiddleware(c *fiber.Ctx) error {
	claims, err := parseBearer(c)
	if err != nil {
		fe := err.(*fiber.Error)
		return c.Status(fe.Code).JSON(fiber.Map{"error": fe.Message})
	}

	isAdmin, ok := claims["is_admin"].(bool)
	if !ok || !isAdmin {
		return c.Status(403).JSON(fiber.Map{"error": "Access denied. Admin privileges required."})
	}

	c.Locals("userId", claims["user_id"])
	c.Locals("username", claims["username"])
	c.Locals("isAdmin", true)

	return c.Next()
}

// ParticipantAuthMiddleware admits only participant tokens and stashes the
// participant/challenge identity for the handlers.
func ParticipantAuthMiddleware(c *fiber.Ctx) error {
	claims, err := parseBearer(c)
	if err != nil {
		fe := err.(*fiber.Error)
		return c.Status(fe.Code).JSON(fiber.Map{"error": fe.Message})
	}

	role, _ := claims["role"].(string)
	if role != "participant" {
		return c.Status(403).JSON(fiber.Map{"error": "Participant token required"})
	}

	participantID, ok := claims["participant_id"].(float64)
	if !ok {
		return c.Status(401).JSON(fiber.Map{"error": "Invalid token claims"})
	}
	challengeID, ok := claims["challenge_id"].(float64)
	if !ok {
		return c.Status(401).JSON(fiber.Map{"error": "Invalid token claims"})
	}

	c.Locals("participantId", uint(participantID))
	c.Locals("challengeId", uint(challengeID))
	c.Locals("isAdmin", false)

	return c.Next()
}

// SessionAuthMiddleware admits either role; the websocket endpoint serves
// both the admin monitor and participant editors.
func SessionAuthMiddleware(c *fiber.Ctx) error {
	claims, err := parseBearer(c)
	if err != nil {
		fe := err.(*fiber.Error)
		return c.Status(fe.Code).JSON(fiber.Map{"error": fe.Message})
	}

	if isAdmin, ok := claims["is_admin"].(bool); ok && isAdmin {
		c.Locals("userId", claims["user_id"])
		c.Locals("username", claims["username"])
		c.Locals("isAdmin", true)
		return c.Next()
	}

	if role, _ := claims["role"].(string); role == "participant" {
		participantID, ok := claims["participant_id"].(float64)
		if !ok {
			return c.Status(401).JSON(fiber.Map{"error": "Invalid token claims"})
		}
		challengeID, ok := claims["challenge_id"].(float64)
		if !ok {
			return c.Status(401).JSON(fiber.Map{"error": "Invalid token claims"})
		}
		c.Locals("participantId", uint(participantID))
		c.Locals("challengeId", uint(challengeID))
		c.Locals("isAdmin", false)
		return c.Next()
	}

	return c.Status(403).JSON(fiber.Map{"error": "Access denied"})
}
