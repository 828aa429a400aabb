package auth

import (
	"github.com/Abraxas-365/talentgate/pkg/iam/access"
	"github.com/Abraxas-365/talentgate/pkg/iam/scopes"
	"github.com/gofiber/fiber/v2"
)

// MeResponse describes the caller as the access engine sees them.
type MeResponse struct {
	UserID       string          `json:"user_id"`
	Email        string          `json:"email,omitempty"`
	Role         access.RoleKind `json:"role"`
	Unrestricted bool            `json:"unrestricted"`
	Scopes       []scopes.Grant  `json:"scopes"`
}

// RegisterRoutes registers GET /me.
func (am *AuthMiddleware) RegisterRoutes(router fiber.Router) {
	router.Get("/me", am.Authenticate(), am.me)
}

func (am *AuthMiddleware) me(c *fiber.Ctx) error {
	authContext, ok := GetAuthContext(c)
	if !ok {
		return ErrUnauthorized()
	}
	principal, ok := GetPrincipal(c)
	if !ok {
		return ErrUnauthorized()
	}

	return c.JSON(MeResponse{
		UserID:       principal.UserID.String(),
		Email:        authContext.Email,
		Role:         principal.Role.Kind(),
		Unrestricted: principal.IsUnrestricted(),
		Scopes:       scopes.Describe(authContext.Scopes),
	})
}
