package kernel

import "slices"

// AuthContext es la identidad ya resuelta del actor de la petición.
// Se construye en el middleware de autenticación y se pasa explícitamente a
// los servicios: ningún servicio consulta estado global de sesión.
type AuthContext struct {
	UserID UserID   `json:"user_id"`
	Email  string   `json:"email"`
	Name   string   `json:"name"`
	Roles  []string `json:"roles"`
}

func (a *AuthContext) IsValid() bool {
	return a != nil && !a.UserID.IsEmpty()
}

// HasRole verifica si el actor tiene el rol dado
func (a *AuthContext) HasRole(role string) bool {
	return slices.Contains(a.Roles, role)
}

// HasAnyRole verifica si la intersección con los roles dados es no vacía
func (a *AuthContext) HasAnyRole(roles ...string) bool {
	return slices.ContainsFunc(roles, a.HasRole)
}
