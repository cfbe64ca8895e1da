// Package access es la compuerta de autorización: una tabla declarativa
// acción × rol consumida por todos los servicios mutantes y por las guardas
// de rutas. Antes este mapeo vivía disperso por página; aquí hay una sola
// fuente de verdad.
package access

import "github.com/Abraxas-365/convocatoria/pkg/iam"

// permissions mapea cada acción a los roles que la autorizan
var permissions = map[Action][]iam.Role{
	ActionCampaignCreate:     {iam.RolePlaneacion},
	ActionCampaignEdit:       {iam.RolePlaneacion},
	ActionCampaignSubmit:     {iam.RolePlaneacion},
	ActionCampaignApprove:    {iam.RoleAtencionSalud},
	ActionCampaignReturn:     {iam.RoleAtencionSalud},
	ActionCampaignActivate:   {iam.RoleRH},
	ActionCampaignDeactivate: {iam.RoleRH},

	ActionProposalSubmit:   {iam.RoleCoordEstatal},
	ActionProposalReadOwn:  {iam.RoleCoordEstatal},
	ActionValidationList:   {iam.RoleValidador},
	ActionValidationDecide: {iam.RoleValidador},

	ActionReportDG: {iam.RoleDG},
	ActionReportRH: {iam.RoleRH},
}

// Can reporta si alguno de los roles del actor autoriza la acción
func Can(actorRoles []iam.Role, action Action) bool {
	required, ok := permissions[action]
	if !ok {
		return false
	}
	return iam.HasAnyRole(actorRoles, required...)
}

// RolesFor retorna los roles que autorizan la acción (vacío si no existe)
func RolesFor(action Action) []iam.Role {
	required := permissions[action]
	out := make([]iam.Role, len(required))
	copy(out, required)
	return out
}

// VisibleActions computa qué acciones puede ejecutar un actor; los clientes
// la usan para armar menús y botones por fase.
func VisibleActions(actorRoles []iam.Role) []Action {
	visible := make([]Action, 0, len(permissions))
	for action := range permissions {
		if Can(actorRoles, action) {
			visible = append(visible, action)
		}
	}
	return visible
}
