package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"gbh-kioskhub/internal/config"
	"gbh-kioskhub/internal/core/domain"
	"gbh-kioskhub/internal/pkg/jwt"
	"gbh-kioskhub/internal/pkg/response"
)

// AuthMiddleware creates authentication middleware
func AuthMiddleware(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		accessToken := extractToken(c)
		if accessToken == "" {
			return response.Unauthorized(c, "Access token required")
		}

		claims, err := jwt.ValidateAccessToken(accessToken, cfg.JWT.Secret)
		if err != nil {
			if err == jwt.ErrTokenExpired {
				return response.Unauthorized(c, "Access token expired")
			}
			return response.Unauthorized(c, "Invalid access token")
		}

		c.Locals("userID", claims.UserID)
		c.Locals("email", claims.Email)
		c.Locals("role", claims.Role)

		return c.Next()
	}
}

// RoleMiddleware creates role-based authorization middleware
func RoleMiddleware(allowedRoles ...domain.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		role, ok := c.Locals("role").(string)
		if !ok {
			return response.Unauthorized(c, "Unauthorized")
		}

		for _, allowed := range allowedRoles {
			if domain.Role(role) == allowed {
				return c.Next()
			}
		}

		return response.Forbidden(c, "You don't have permission to access this resource")
	}
}

// AdminOnly allows only ADMIN
func AdminOnly() fiber.Handler {
	return RoleMiddleware(domain.RoleAdmin)
}

// CommercialOrAdmin allows the sales roles that own prospects and
// proformas.
func CommercialOrAdmin() fiber.Handler {
	return RoleMiddleware(domain.RoleCommercial, domain.RoleAdmin)
}

// MaintenanceStaff allows the roles that handle service requests.
func MaintenanceStaff() fiber.Handler {
	return RoleMiddleware(domain.RoleTechnician, domain.RoleSupervisor, domain.RoleAdmin)
}

// ContractReaders allows the back-office roles with contract access.
func ContractReaders() fiber.Handler {
	return RoleMiddleware(domain.RoleCommercial, domain.RoleAccountant,
		domain.RoleSupervisor, domain.RoleLegal, domain.RoleAdmin)
}

// extractToken pulls the access token from the cookie, falling back to
// the Authorization header.
func extractToken(c *fiber.Ctx) string {
	if token := c.Cookies("access_token"); token != "" {
		return token
	}
	authHeader := c.Get("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimPrefix(authHeader, "Bearer ")
	}
	return ""
}
