package iam

import (
	"net/http"
	"slices"

	"github.com/Abraxas-365/convocatoria/pkg/errx"
)

// ============================================================================
// Roles
// ============================================================================

// Role es una etiqueta de rol del sistema. El conjunto es cerrado: cada rol
// cubre un tramo disjunto del flujo de reclutamiento.
type Role string

const (
	RolePlaneacion    Role = "PLANEACION"     // crea y edita campañas en borrador
	RoleAtencionSalud Role = "ATENCION_SALUD" // revisa campañas enviadas
	RoleRH            Role = "RH"             // activa y desactiva campañas
	RoleCoordEstatal  Role = "COORD_ESTATAL"  // envía propuestas de candidatos
	RoleValidador     Role = "VALIDADOR"      // resuelve validaciones de propuestas
	RoleDG            Role = "DG"             // tablero ejecutivo de solo lectura
)

// AllRoles lista los roles válidos del sistema
var AllRoles = []Role{
	RolePlaneacion,
	RoleAtencionSalud,
	RoleRH,
	RoleCoordEstatal,
	RoleValidador,
	RoleDG,
}

func (r Role) String() string { return string(r) }

// IsValid reporta si r pertenece al conjunto cerrado de roles
func (r Role) IsValid() bool {
	return slices.Contains(AllRoles, r)
}

// RoleLabels son los nombres legibles usados por los clientes
var RoleLabels = map[Role]string{
	RolePlaneacion:    "Planeación",
	RoleAtencionSalud: "Atención a la Salud",
	RoleRH:            "Recursos Humanos",
	RoleCoordEstatal:  "Coordinación Estatal",
	RoleValidador:     "Validador",
	RoleDG:            "Dirección General",
}

// HasAnyRole es el predicado central de autorización: verdadero si la
// intersección entre los roles del actor y los requeridos es no vacía.
func HasAnyRole(actorRoles []Role, required ...Role) bool {
	for _, have := range actorRoles {
		if slices.Contains(required, have) {
			return true
		}
	}
	return false
}

// RolesFromStrings convierte etiquetas crudas (claims, filas de BD) a roles,
// descartando las desconocidas.
func RolesFromStrings(raw []string) []Role {
	roles := make([]Role, 0, len(raw))
	for _, s := range raw {
		r := Role(s)
		if r.IsValid() {
			roles = append(roles, r)
		}
	}
	return roles
}

// RolesToStrings convierte roles a sus etiquetas
func RolesToStrings(roles []Role) []string {
	out := make([]string, len(roles))
	for i, r := range roles {
		out[i] = r.String()
	}
	return out
}

// ============================================================================
// Shared IAM errors
// ============================================================================

var ErrRegistry = errx.NewRegistry("IAM")

var (
	CodeUnauthorized = ErrRegistry.Register("UNAUTHORIZED", errx.TypeAuthentication, http.StatusUnauthorized, "Autenticación requerida")
	CodeForbidden    = ErrRegistry.Register("FORBIDDEN", errx.TypeAuthorization, http.StatusForbidden, "El rol del actor no autoriza esta acción")
)

func ErrUnauthorized() *errx.Error {
	return ErrRegistry.New(CodeUnauthorized)
}

func ErrForbidden() *errx.Error {
	return ErrRegistry.New(CodeForbidden)
}
