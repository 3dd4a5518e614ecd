package middleware

import (
	"github.com/gofiber/fiber/v2"

	"github.com/edudesk/edudesk-api/internal/utils"
)

// RequireSelfOrRole guards routes that expose a single user's data. The
// request passes when the authenticated user matches the id route
// parameter, or when their role is one of the allowed ones.
func RequireSelfOrRole(param string, roles ...string) fiber.Handler {
	allowed := make(map[string]struct{}, len(roles))
	for _, role := range roles {
		allowed[role] = struct{}{}
	}

	return func(c *fiber.Ctx) error {
		userID, _ := c.Locals("user_id").(string)
		if userID == "" {
			return utils.SendError(c, fiber.StatusUnauthorized, "authentication required")
		}

		if c.Params(param) == userID {
			return c.Next()
		}

		role := normalizeRoleValue(c.Locals("user_role"))
		if _, ok := allowed[role]; ok {
			return c.Next()
		}
		return utils.SendError(c, fiber.StatusForbidden, "insufficient permissions")
	}
}
