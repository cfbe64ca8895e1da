package auth

import (
	"strings"

	"github.com/Abraxas-365/convocatoria/pkg/iam"
	"github.com/Abraxas-365/convocatoria/pkg/iam/access"
	"github.com/Abraxas-365/convocatoria/pkg/kernel"
	"github.com/gofiber/fiber/v2"
)

// TokenMiddleware autentica peticiones con JWT y deja el AuthContext en la
// petición. Los handlers lo recuperan con GetAuthContext y lo pasan
// explícitamente a los servicios.
type TokenMiddleware struct {
	tokenService TokenService
}

func NewTokenMiddleware(tokenService TokenService) *TokenMiddleware {
	return &TokenMiddleware{tokenService: tokenService}
}

func (m *TokenMiddleware) Authenticate() fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		var token string

		if authHeader != "" {
			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) == 2 && parts[0] == "Bearer" && parts[1] != "" {
				token = parts[1]
			}
		}

		if token == "" {
			token = c.Cookies("access_token")
		}

		if token == "" {
			return iam.ErrUnauthorized()
		}

		claims, err := m.tokenService.ValidateAccessToken(token)
		if err != nil {
			return err
		}

		authContext := &kernel.AuthContext{
			UserID: claims.UserID,
			Email:  claims.Email,
			Name:   claims.Name,
			Roles:  claims.Roles,
		}

		c.Locals("auth", authContext)
		return c.Next()
	}
}

// RequireAction autoriza contra la tabla declarativa de la compuerta
func (m *TokenMiddleware) RequireAction(action access.Action) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authContext, ok := GetAuthContext(c)
		if !ok {
			return iam.ErrUnauthorized()
		}

		if !access.Can(iam.RolesFromStrings(authContext.Roles), action) {
			return iam.ErrForbidden().
				WithDetail("action", string(action)).
				WithDetail("required_roles", access.RolesFor(action))
		}

		return c.Next()
	}
}

// RequireAnyRole autoriza si el actor tiene alguno de los roles dados
func (m *TokenMiddleware) RequireAnyRole(roles ...iam.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authContext, ok := GetAuthContext(c)
		if !ok {
			return iam.ErrUnauthorized()
		}

		if !iam.HasAnyRole(iam.RolesFromStrings(authContext.Roles), roles...) {
			return iam.ErrForbidden().WithDetail("required_roles", roles)
		}

		return c.Next()
	}
}

// GetAuthContext helper to extract auth context from Fiber
func GetAuthContext(c *fiber.Ctx) (*kernel.AuthContext, bool) {
	authContext, ok := c.Locals("auth").(*kernel.AuthContext)
	return authContext, ok && authContext.IsValid()
}
