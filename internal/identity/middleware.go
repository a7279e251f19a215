package identity

import (
	jwtware "github.com/gofiber/contrib/jwt"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

// Middleware verifies bearer tokens and records the caller's identity in
// the request locals. It never rejects a request: anonymous callers reach
// the handlers with an empty identity and the services decide. fallback,
// when non-nil, is consulted only for requests without an Authorization
// header.
func Middleware(issuer *Issuer, fallback Resolver) fiber.Handler {
	return jwtware.New(jwtware.Config{
		SigningKey: jwtware.SigningKey{
			JWTAlg: jwtware.HS256,
			Key:    issuer.Secret(),
		},
		Claims:     &Claims{},
		ContextKey: tokenKey,
		SuccessHandler: func(c *fiber.Ctx) error {
			token, ok := c.Locals(tokenKey).(*jwt.Token)
			if !ok {
				return c.Next()
			}
			claims, ok := token.Claims.(*Claims)
			if !ok {
				return c.Next()
			}
			if id, err := subjectOf(claims); err == nil {
				setIdentity(c, id)
			}
			return c.Next()
		},
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			if fallback != nil && c.Get(fiber.HeaderAuthorization) == "" {
				if id, err := fallback.Resolve(c); err == nil {
					setIdentity(c, id)
				}
			}
			return c.Next()
		},
	})
}
