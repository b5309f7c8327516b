package serverutils

import (
	"os"

	"ai-legalchat-be/internal/repository/memory"
	"ai-legalchat-be/internal/repository/specification"
	"ai-legalchat-be/internal/repository/unitofwork"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// SessionGuard authenticates the bearer JWT and verifies its auth session
// is still active. The session lookup goes through the in-memory cache
// first and falls back to the database, so a logout elsewhere invalidates
// the token within the cache TTL. user_id and session_id land in locals.
func SessionGuard(sessionCache *memory.SessionCache, uowFactory unitofwork.RepositoryFactory) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		authHeader := ctx.Get("Authorization")
		if len(authHeader) < 7 || authHeader[:7] != "Bearer " {
			return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "Missing token"})
		}
		tokenStr := authHeader[7:]

		token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
			secret := os.Getenv("JWT_SECRET")
			if secret == "" {
				secret = "default_secret"
			}
			return []byte(secret), nil
		})
		if err != nil || !token.Valid {
			return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "Invalid token"})
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "Invalid claims"})
		}

		sessionIdStr, _ := claims["session_id"].(string)
		sessionId, err := uuid.Parse(sessionIdStr)
		if err != nil {
			return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "Invalid session"})
		}

		session, found := sessionCache.Get(sessionIdStr)
		if !found {
			uow := uowFactory.NewUnitOfWork(ctx.Context())
			session, err = uow.AuthSessionRepository().FindOne(ctx.Context(), specification.ByID{ID: sessionId})
			if err != nil || session == nil {
				return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "Session not found"})
			}
			sessionCache.Save(session)
		}

		if !session.IsActive {
			return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "Session expired"})
		}

		ctx.Locals("user_id", claims["user_id"])
		ctx.Locals("session_id", sessionIdStr)
		return ctx.Next()
	}
}
