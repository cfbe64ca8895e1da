package campaign

import (
	"context"

	"github.com/Abraxas-365/convocatoria/pkg/kernel"
)

// CampaignRepository define la persistencia de convocatorias
type CampaignRepository interface {
	Save(ctx context.Context, c Campaign) error
	FindByID(ctx context.Context, id kernel.CampaignID) (*Campaign, error)
	FindAll(ctx context.Context) ([]Campaign, error)
	FindByStatus(ctx context.Context, statuses ...Status) ([]Campaign, error)
	// UpdateStatus cambia el estado solo si el estado actual coincide con
	// expected. Retorna false si otra transacción ganó la carrera.
	UpdateStatus(ctx context.Context, id kernel.CampaignID, expected, next Status) (bool, error)
}

// PositionRepository define la persistencia de puestos de convocatoria
type PositionRepository interface {
	Add(ctx context.Context, p Position) error
	Remove(ctx context.Context, campaignID kernel.CampaignID, positionID kernel.PositionID) (bool, error)
	FindByCampaign(ctx context.Context, campaignID kernel.CampaignID) ([]Position, error)
	CountByCampaign(ctx context.Context, campaignID kernel.CampaignID) (int, error)
	Exists(ctx context.Context, campaignID kernel.CampaignID, positionID kernel.PositionID) (bool, error)
}

// FacilityRepository define la persistencia de establecimientos autorizados
type FacilityRepository interface {
	// AddIgnoreDuplicates inserta las CLUES dadas ignorando las que ya
	// existen para la convocatoria. Retorna cuántas filas nuevas se crearon.
	AddIgnoreDuplicates(ctx context.Context, campaignID kernel.CampaignID, clues []kernel.CLUES) (int, error)
	Remove(ctx context.Context, campaignID kernel.CampaignID, facilityID string) (bool, error)
	FindByCampaign(ctx context.Context, campaignID kernel.CampaignID) ([]AuthorizedFacility, error)
	CountByCampaign(ctx context.Context, campaignID kernel.CampaignID) (int, error)
	IsAuthorized(ctx context.Context, campaignID kernel.CampaignID, clues kernel.CLUES) (bool, error)
}

// ValidatorRepository define la persistencia de asignaciones de validadores
type ValidatorRepository interface {
	// AddIgnoreDuplicate inserta la asignación; retorna false si ya existía
	AddIgnoreDuplicate(ctx context.Context, v Validator) (bool, error)
	Remove(ctx context.Context, campaignID kernel.CampaignID, assignmentID string) (bool, error)
	FindByCampaign(ctx context.Context, campaignID kernel.CampaignID) ([]Validator, error)
	// FindUnitsForPosition retorna las unidades asignadas a un puesto de la
	// convocatoria; es la fuente del fan-out de validaciones al enviar una
	// propuesta.
	FindUnitsForPosition(ctx context.Context, campaignID kernel.CampaignID, positionID kernel.PositionID) ([]kernel.ValidatorUnitID, error)
}
