package serverutils

import (
	"time"

	"wikivoice-be/internal/repository/specification"
	"wikivoice-be/internal/repository/unitofwork"
	"wikivoice-be/pkg/auth/stytch"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/patrickmn/go-cache"
)

const (
	SessionCookieName = "session_jwt"

	defaultSessionCacheTTL = 5 * time.Minute
)

// NewAuthMiddleware authenticates requests against Stytch. The session JWT
// is read from the session cookie first, then from the Authorization header.
// Verified sessions are cached until the token expires so repeated requests
// skip the round trip to Stytch. On success the local user id is stored in
// Locals("user_id") as a string.
func NewAuthMiddleware(
	stytchClient *stytch.Client,
	uowFactory unitofwork.RepositoryFactory,
	sessionCache *cache.Cache,
) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		sessionJWT := ctx.Cookies(SessionCookieName)
		if sessionJWT == "" {
			authHeader := ctx.Get("Authorization")
			if len(authHeader) > 7 && authHeader[:7] == "Bearer " {
				sessionJWT = authHeader[7:]
			}
		}
		if sessionJWT == "" {
			return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "Missing session token"})
		}

		if cached, found := sessionCache.Get(sessionJWT); found {
			ctx.Locals("user_id", cached.(string))
			return ctx.Next()
		}

		session, err := stytchClient.AuthenticateJWT(ctx.Context(), sessionJWT)
		if err != nil {
			return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "Invalid session token"})
		}

		uow := uowFactory.NewUnitOfWork(ctx.Context())
		user, err := uow.UserRepository().FindOne(ctx.Context(),
			specification.ByStytchUserID{StytchUserID: session.StytchUserID},
		)
		if err != nil || user == nil {
			return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "Unknown user"})
		}

		userIdStr := user.Id.String()
		sessionCache.Set(sessionJWT, userIdStr, cacheTTLFromToken(sessionJWT))

		ctx.Locals("user_id", userIdStr)
		return ctx.Next()
	}
}

// cacheTTLFromToken derives the cache TTL from the token's exp claim so a
// cached entry never outlives the Stytch session. The claim is read without
// signature verification; Stytch already validated the token.
func cacheTTLFromToken(sessionJWT string) time.Duration {
	token, _, err := jwt.NewParser().ParseUnverified(sessionJWT, jwt.MapClaims{})
	if err != nil {
		return defaultSessionCacheTTL
	}
	exp, err := token.Claims.GetExpirationTime()
	if err != nil || exp == nil {
		return defaultSessionCacheTTL
	}
	ttl := time.Until(exp.Time)
	if ttl <= 0 || ttl > defaultSessionCacheTTL {
		return defaultSessionCacheTTL
	}
	return ttl
}
