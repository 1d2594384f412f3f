package middleware

import (
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	// LocalsUserID is the fiber locals key holding the authenticated user's
	// uuid.
	LocalsUserID = "userID"
	// LocalsIsAdmin is the fiber locals key holding the admin claim.
	LocalsIsAdmin = "isAdmin"
)

// IssueToken signs an HS256 bearer token for the given user.
func IssueToken(secret string, userID uuid.UUID, isAdmin bool, ttl time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"sub":   userID.String(),
		"admin": isAdmin,
		"iat":   time.Now().Unix(),
		"exp":   time.Now().Add(ttl).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// RequireAuth validates the Authorization bearer token and stores the user
// id and admin flag in the request locals.
func RequireAuth(secret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "missing bearer token",
			})
		}

		tokenStr := strings.TrimPrefix(header, "Bearer ")
		token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
			}
			return []byte(secret), nil
		})
		if err != nil || !token.Valid {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "invalid or expired token",
			})
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "invalid token claims",
			})
		}

		sub, _ := claims["sub"].(string)
		userID, err := uuid.Parse(sub)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "invalid token subject",
			})
		}

		isAdmin, _ := claims["admin"].(bool)

		c.Locals(LocalsUserID, userID)
		c.Locals(LocalsIsAdmin, isAdmin)
		return c.Next()
	}
}

// UserID reads the authenticated user id placed by RequireAuth.
func UserID(c *fiber.Ctx) uuid.UUID {
	id, _ := c.Locals(LocalsUserID).(uuid.UUID)
	return id
}

// IsAdmin reads the admin flag placed by RequireAuth.
func IsAdmin(c *fiber.Ctx) bool {
	admin, _ := c.Locals(LocalsIsAdmin).(bool)
	return admin
}
