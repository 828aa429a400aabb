package auth

import (
	"strings"

	"github.com/Abraxas-365/talentgate/pkg/iam/access"
	"github.com/Abraxas-365/talentgate/pkg/iam/scopes"
	"github.com/Abraxas-365/talentgate/pkg/kernel"
	"github.com/gofiber/fiber/v2"
)

const (
	localsAuth      = "auth"
	localsPrincipal = "principal"
)

type AuthMiddleware struct {
	tokenService TokenService
	principals   PrincipalLoader
	cookieName   string
}

func NewAuthMiddleware(tokenService TokenService, principals PrincipalLoader, cookieName string) *AuthMiddleware {
	if cookieName == "" {
		cookieName = "access_token"
	}
	return &AuthMiddleware{
		tokenService: tokenService,
		principals:   principals,
		cookieName:   cookieName,
	}
}

// Authenticate validates the bearer token (or access cookie) and loads the
// caller's principal from storage so scope changes apply immediately.
func (am *AuthMiddleware) Authenticate() fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := extractToken(c, am.cookieName)
		if token == "" {
			return unauthenticated(c, ErrUnauthorized().Error())
		}

		claims, err := am.tokenService.ValidateAccessToken(token)
		if err != nil {
			return unauthenticated(c, err.Error())
		}

		principal, err := am.principals.GetPrincipal(c.UserContext(), claims.UserID)
		if err != nil {
			return err
		}

		authContext := &kernel.AuthContext{
			UserID: &claims.UserID,
			Email:  claims.Email,
			Name:   claims.Name,
			Scopes: grantedScopes(principal.Role.Kind(), claims.Scopes),
		}
		c.Locals(localsAuth, authContext)
		c.Locals(localsPrincipal, principal)

		return c.Next()
	}
}

// RequireScope admits callers holding scope, directly or through a wildcard.
func (am *AuthMiddleware) RequireScope(scope string) fiber.Handler {
	return am.RequireAnyScope(scope)
}

// RequireAnyScope admits callers holding at least one of required.
func (am *AuthMiddleware) RequireAnyScope(required ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authContext, ok := GetAuthContext(c)
		if !ok {
			return unauthenticated(c, "Authentication required")
		}
		if !authContext.HasAnyScope(required...) {
			return forbidden(c, required...)
		}
		return c.Next()
	}
}

// RequireAdmin admits only principals whose stored role is admin, whatever
// the token claims.
func (am *AuthMiddleware) RequireAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		principal, ok := GetPrincipal(c)
		if !ok {
			return unauthenticated(c, "Authentication required")
		}
		if _, isAdmin := principal.Role.(access.Admin); !isAdmin {
			return forbidden(c, scopes.ScopeAll)
		}
		return c.Next()
	}
}

func unauthenticated(c *fiber.Ctx, reason string) error {
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": reason})
}

func forbidden(c *fiber.Ctx, required ...string) error {
	return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
		"error":           "Insufficient permissions",
		"required_scopes": required,
	})
}

// grantedScopes narrows token scopes to what the stored role allows. A token
// without scopes gets the role's full grant.
func grantedScopes(role access.RoleKind, requested []string) []string {
	allowed := &kernel.AuthContext{Scopes: scopes.ForRole(role)}
	if len(requested) == 0 {
		return allowed.Scopes
	}

	granted := make([]string, 0, len(requested))
	for _, s := range requested {
		if scopes.Known(s) && allowed.HasScope(s) {
			granted = append(granted, s)
		}
	}
	return granted
}

func extractToken(c *fiber.Ctx, cookieName string) string {
	if token, ok := strings.CutPrefix(c.Get(fiber.HeaderAuthorization), "Bearer "); ok && token != "" {
		return token
	}
	return c.Cookies(cookieName)
}

// GetAuthContext returns the context stored by Authenticate.
func GetAuthContext(c *fiber.Ctx) (*kernel.AuthContext, bool) {
	authContext, ok := c.Locals(localsAuth).(*kernel.AuthContext)
	return authContext, ok && authContext != nil && authContext.IsValid()
}

// GetPrincipal returns the principal loaded by Authenticate.
func GetPrincipal(c *fiber.Ctx) (access.Principal, bool) {
	principal, ok := c.Locals(localsPrincipal).(access.Principal)
	return principal, ok && principal.Role != nil
}
