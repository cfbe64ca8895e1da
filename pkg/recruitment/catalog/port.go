package catalog

import (
	"context"

	"github.com/Abraxas-365/convocatoria/pkg/kernel"
)

// PositionCatalog acceso de lectura al catálogo de puestos
type PositionCatalog interface {
	ListPositions(ctx context.Context) ([]Position, error)
	FindPosition(ctx context.Context, id kernel.PositionID) (*Position, error)
}

// FacilityCatalog acceso de lectura al catálogo de establecimientos
type FacilityCatalog interface {
	// FindFacilities retorna los establecimientos cuyas CLUES existen en el
	// catálogo. Las CLUES desconocidas simplemente no aparecen en el
	// resultado; el llamador decide si eso es un error.
	FindFacilities(ctx context.Context, clues []kernel.CLUES) ([]HealthFacility, error)
	FindFacility(ctx context.Context, clues kernel.CLUES) (*HealthFacility, error)
}

// ValidatorUnitCatalog acceso de lectura al catálogo de unidades validadoras
type ValidatorUnitCatalog interface {
	ListValidatorUnits(ctx context.Context) ([]ValidatorUnit, error)
	FindValidatorUnit(ctx context.Context, id kernel.ValidatorUnitID) (*ValidatorUnit, error)
}
