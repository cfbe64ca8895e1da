package auth

import (
	"context"
	"net/http"
	"time"

	"github.com/Abraxas-365/convocatoria/pkg/errx"
	"github.com/Abraxas-365/convocatoria/pkg/iam"
	"github.com/Abraxas-365/convocatoria/pkg/kernel"
)

// ============================================================================
// Account Entity
// ============================================================================

// Account es la cuenta local de un usuario del sistema. La autenticación es
// email + contraseña; los roles viven en filas aparte y se cargan vía
// RoleLoader.
type Account struct {
	ID           kernel.UserID `db:"id" json:"id"`
	Email        string        `db:"email" json:"email"`
	Name         string        `db:"name" json:"name"`
	PasswordHash string        `db:"password_hash" json:"-"`
	Active       bool          `db:"active" json:"active"`
	CreatedAt    time.Time     `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time     `db:"updated_at" json:"updated_at"`
}

// CanLogin verifica si la cuenta puede iniciar sesión
func (a *Account) CanLogin() bool {
	return a.Active
}

// ============================================================================
// Ports
// ============================================================================

// AccountRepository define la persistencia de cuentas
type AccountRepository interface {
	FindByID(ctx context.Context, id kernel.UserID) (*Account, error)
	FindByEmail(ctx context.Context, email string) (*Account, error)
}

// RoleLoader resuelve los roles de un usuario. Cualquier política de
// reintento o cache se implementa como wrapper de esta interfaz: el motor de
// flujo recibe roles ya resueltos.
type RoleLoader interface {
	LoadRoles(ctx context.Context, userID kernel.UserID) ([]iam.Role, error)
}

// ValidatorUnitResolver resuelve la unidad validadora asignada a un usuario
// con rol VALIDADOR (nil si no tiene asignación).
type ValidatorUnitResolver interface {
	ValidatorUnitFor(ctx context.Context, userID kernel.UserID) (*kernel.ValidatorUnitID, error)
}

// PasswordService define el contrato para el manejo de contraseñas
type PasswordService interface {
	HashPassword(password string) (string, error)
	VerifyPassword(hashedPassword, password string) bool
}

// TokenService emite y valida tokens de acceso
type TokenService interface {
	GenerateAccessToken(account *Account, roles []iam.Role) (string, error)
	ValidateAccessToken(token string) (*TokenClaims, error)
}

// TokenClaims son los claims ya validados de un token de acceso
type TokenClaims struct {
	UserID    kernel.UserID
	Email     string
	Name      string
	Roles     []string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// ============================================================================
// DTOs
// ============================================================================

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	AccessToken string   `json:"access_token"`
	TokenType   string   `json:"token_type"`
	ExpiresIn   int64    `json:"expires_in"`
	UserID      string   `json:"user_id"`
	Name        string   `json:"name"`
	Roles       []string `json:"roles"`
}

// ============================================================================
// Error Registry
// ============================================================================

var ErrRegistry = errx.NewRegistry("AUTH")

var (
	CodeInvalidCredentials    = ErrRegistry.Register("INVALID_CREDENTIALS", errx.TypeAuthentication, http.StatusUnauthorized, "Credenciales inválidas")
	CodeAccountInactive       = ErrRegistry.Register("ACCOUNT_INACTIVE", errx.TypeAuthorization, http.StatusForbidden, "La cuenta está desactivada")
	CodeAccountNotFound       = ErrRegistry.Register("ACCOUNT_NOT_FOUND", errx.TypeNotFound, http.StatusNotFound, "Cuenta no encontrada")
	CodeTokenGenerationFailed = ErrRegistry.Register("TOKEN_GENERATION_FAILED", errx.TypeInternal, http.StatusInternalServerError, "No se pudo generar el token")
	CodeTokenValidationFailed = ErrRegistry.Register("TOKEN_VALIDATION_FAILED", errx.TypeAuthentication, http.StatusUnauthorized, "Token inválido o expirado")
	CodeRoleLoadFailed        = ErrRegistry.Register("ROLE_LOAD_FAILED", errx.TypeExternal, http.StatusBadGateway, "No se pudieron cargar los roles del usuario")
)

func ErrInvalidCredentials() *errx.Error    { return ErrRegistry.New(CodeInvalidCredentials) }
func ErrAccountInactive() *errx.Error       { return ErrRegistry.New(CodeAccountInactive) }
func ErrAccountNotFound() *errx.Error       { return ErrRegistry.New(CodeAccountNotFound) }
func ErrTokenGenerationFailed() *errx.Error { return ErrRegistry.New(CodeTokenGenerationFailed) }
func ErrTokenValidationFailed() *errx.Error { return ErrRegistry.New(CodeTokenValidationFailed) }
func ErrRoleLoadFailed() *errx.Error        { return ErrRegistry.New(CodeRoleLoadFailed) }
