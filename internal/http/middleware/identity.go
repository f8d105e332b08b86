package middleware

import (
	"github.com/gofiber/fiber/v2"

	"docstore/internal/model"
)

const (
	// ActorLocalKey is the key used to store the resolved actor in Fiber's context locals.
	ActorLocalKey = "actor"

	actorIDHeader   = "X-Actor-Id"
	actorNameHeader = "X-Actor-Name"
	actorRoleHeader = "X-Actor-Role"
	actorDeptHeader = "X-Department-Id"
)

// Identity resolves the authenticated actor from trusted gateway headers.
// Credential verification happens upstream; this middleware only consumes the
// resolved {actor id, department, role} triple and rejects requests where the
// gateway supplied nothing usable.
func Identity() fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor := model.Actor{
			ID:           c.Get(actorIDHeader),
			Name:         c.Get(actorNameHeader),
			Role:         model.Role(c.Get(actorRoleHeader)),
			DepartmentID: c.Get(actorDeptHeader),
		}
		if actor.ID == "" || actor.DepartmentID == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "identity required")
		}
		switch actor.Role {
		case model.RoleManager, model.RoleEmployee:
		default:
			return fiber.NewError(fiber.StatusUnauthorized, "unknown role")
		}

		c.Locals(ActorLocalKey, actor)
		return c.Next()
	}
}

// RequireManager rejects requests whose actor does not hold the manager role.
// It must run after Identity.
func RequireManager() fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, ok := c.Locals(ActorLocalKey).(model.Actor)
		if !ok {
			return fiber.NewError(fiber.StatusUnauthorized, "identity required")
		}
		if !actor.IsManager() {
			return fiber.NewError(fiber.StatusForbidden, "manager role required")
		}
		return c.Next()
	}
}

// ActorFromCtx extracts the actor stored by Identity.
func ActorFromCtx(c *fiber.Ctx) (model.Actor, bool) {
	actor, ok := c.Locals(ActorLocalKey).(model.Actor)
	return actor, ok
}
