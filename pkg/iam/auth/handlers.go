package auth

import (
	"github.com/Abraxas-365/convocatoria/pkg/iam"
	"github.com/Abraxas-365/convocatoria/pkg/logx"
	"github.com/gofiber/fiber/v2"
)

// AuthHandlers maneja login local y consulta del actor autenticado.
// No hay OAuth ni registro: las cuentas se aprovisionan por administración.
type AuthHandlers struct {
	accounts    AccountRepository
	roles       RoleLoader
	passwordSvc PasswordService
	tokenSvc    *JWTService
}

func NewAuthHandlers(
	accounts AccountRepository,
	roles RoleLoader,
	passwordSvc PasswordService,
	tokenSvc *JWTService,
) *AuthHandlers {
	return &AuthHandlers{
		accounts:    accounts,
		roles:       roles,
		passwordSvc: passwordSvc,
		tokenSvc:    tokenSvc,
	}
}

// RegisterRoutes registra las rutas de autenticación en Fiber
func (h *AuthHandlers) RegisterRoutes(app *fiber.App, middleware *TokenMiddleware) {
	app.Post("/auth/login", h.Login)
	app.Get("/auth/me", middleware.Authenticate(), h.Me)
}

// Login autentica con email y contraseña y emite un token de acceso
func (h *AuthHandlers) Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if req.Email == "" || req.Password == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "email and password are required",
		})
	}

	account, err := h.accounts.FindByEmail(c.Context(), req.Email)
	if err != nil {
		// Misma respuesta para cuenta inexistente y contraseña incorrecta
		return ErrInvalidCredentials()
	}

	if !h.passwordSvc.VerifyPassword(account.PasswordHash, req.Password) {
		return ErrInvalidCredentials()
	}

	if !account.CanLogin() {
		return ErrAccountInactive()
	}

	roles, err := h.roles.LoadRoles(c.Context(), account.ID)
	if err != nil {
		logx.WithFields(logx.Fields{"user_id": account.ID.String()}).
			Errorf("role load failed on login: %v", err)
		return ErrRoleLoadFailed()
	}

	token, err := h.tokenSvc.GenerateAccessToken(account, roles)
	if err != nil {
		return err
	}

	return c.JSON(LoginResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresIn:   int64(h.tokenSvc.AccessTokenTTL().Seconds()),
		UserID:      account.ID.String(),
		Name:        account.Name,
		Roles:       iam.RolesToStrings(roles),
	})
}

// Me retorna la identidad del actor autenticado
func (h *AuthHandlers) Me(c *fiber.Ctx) error {
	authContext, ok := GetAuthContext(c)
	if !ok {
		return iam.ErrUnauthorized()
	}

	return c.JSON(fiber.Map{
		"user_id": authContext.UserID,
		"email":   authContext.Email,
		"name":    authContext.Name,
		"roles":   authContext.Roles,
	})
}
