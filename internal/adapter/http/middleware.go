package http

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v3"
	"github.com/golang-jwt/jwt/v5"

	"github.com/autozona/car-service/internal/platform/logger"
)

// userIDLocal is the Locals key the auth middleware stores the
// authenticated user id under.
const userIDLocal = "userID"

// Claims is the JWT payload issued by the user service.
type Claims struct {
	UserID string `json:"user_id"`
	jwt.RegisteredClaims
}

// RequireAuth validates the Bearer token and stores the user id in Locals.
func RequireAuth(jwtSecret string, log *logger.Logger) fiber.Handler {
	return func(c fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "missing authorization header"})
		}

		parts := strings.Fields(authHeader)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "invalid authorization header format, expected 'Bearer <token>'"})
		}

		claims := &Claims{}
		token, err := jwt.ParseWithClaims(parts[1], claims, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, errors.New("unexpected signing method")
			}
			return []byte(jwtSecret), nil
		})
		if err != nil {
			log.Warn("RequireAuth: token parsing or validation failed", "error", err.Error())
			if errors.Is(err, jwt.ErrTokenExpired) {
				return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "token has expired"})
			}
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "token is invalid"})
		}
		if !token.Valid || claims.UserID == "" {
			log.Warn("RequireAuth: token rejected", "valid", token.Valid)
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "token is not valid"})
		}

		c.Locals(userIDLocal, claims.UserID)
		return c.Next()
	}
}

func authenticatedUserID(c fiber.Ctx) string {
	userID, _ := c.Locals(userIDLocal).(string)
	return userID
}
