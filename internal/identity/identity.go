// Package identity turns an inbound request into the caller's user id.
//
// Bearer tokens issued at login are the only verified mechanism. The hint
// resolver, which trusts a caller-supplied user id, exists for development
// against the original web client and must stay disabled in production.
package identity

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"sixia/internal/apperr"
)

const (
	// HeaderUserID carries the identity hint.
	HeaderUserID = "X-User-Id"
	// QueryUserID is the query parameter alternative to HeaderUserID.
	QueryUserID = "userId"

	localsKey = "identity"
	tokenKey  = "identity_token"
)

// Resolver produces a user id for a request or fails with
// apperr.ErrUnauthorized.
type Resolver interface {
	Resolve(c *fiber.Ctx) (string, error)
}

// HintResolver reads the user id from the userId query parameter or the
// X-User-Id header. It performs no verification.
type HintResolver struct{}

func (HintResolver) Resolve(c *fiber.Ctx) (string, error) {
	id := strings.TrimSpace(c.Query(QueryUserID))
	if id == "" {
		id = strings.TrimSpace(c.Get(HeaderUserID))
	}
	if id == "" {
		return "", apperr.ErrUnauthorized
	}
	return id, nil
}

// FromCtx returns the identity stored by Middleware, or "" when the caller
// is anonymous.
func FromCtx(c *fiber.Ctx) string {
	id, _ := c.Locals(localsKey).(string)
	return id
}

func setIdentity(c *fiber.Ctx, id string) {
	c.Locals(localsKey, id)
}
