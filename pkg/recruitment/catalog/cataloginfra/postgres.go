package cataloginfra

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Abraxas-365/convocatoria/pkg/errx"
	"github.com/Abraxas-365/convocatoria/pkg/kernel"
	"github.com/Abraxas-365/convocatoria/pkg/recruitment/catalog"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// PostgresCatalog implementa los tres catálogos de referencia sobre las
// tablas positions_catalog, health_facilities y validator_units.
type PostgresCatalog struct {
	db *sqlx.DB
}

func NewPostgresCatalog(db *sqlx.DB) *PostgresCatalog {
	return &PostgresCatalog{db: db}
}

func (r *PostgresCatalog) ListPositions(ctx context.Context) ([]catalog.Position, error) {
	query := `
		SELECT id, code, name
		FROM positions_catalog
		ORDER BY name ASC`

	var positions []catalog.Position
	if err := r.db.SelectContext(ctx, &positions, query); err != nil {
		return nil, errx.Wrap(err, "failed to list positions catalog", errx.TypeInternal)
	}
	return positions, nil
}

func (r *PostgresCatalog) FindPosition(ctx context.Context, id kernel.PositionID) (*catalog.Position, error) {
	query := `
		SELECT id, code, name
		FROM positions_catalog
		WHERE id = $1`

	var position catalog.Position
	if err := r.db.GetContext(ctx, &position, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, catalog.ErrPositionNotFound().WithDetail("position_id", id.String())
		}
		return nil, errx.Wrap(err, "failed to find position", errx.TypeInternal)
	}
	return &position, nil
}

func (r *PostgresCatalog) FindFacilities(ctx context.Context, clues []kernel.CLUES) ([]catalog.HealthFacility, error) {
	if len(clues) == 0 {
		return nil, nil
	}

	codes := make([]string, len(clues))
	for i, c := range clues {
		codes[i] = c.String()
	}

	query := `
		SELECT clues, name, state, municipality
		FROM health_facilities
		WHERE clues = ANY($1)
		ORDER BY clues ASC`

	var facilities []catalog.HealthFacility
	if err := r.db.SelectContext(ctx, &facilities, query, pq.Array(codes)); err != nil {
		return nil, errx.Wrap(err, "failed to find facilities", errx.TypeInternal)
	}
	return facilities, nil
}

func (r *PostgresCatalog) FindFacility(ctx context.Context, clues kernel.CLUES) (*catalog.HealthFacility, error) {
	query := `
		SELECT clues, name, state, municipality
		FROM health_facilities
		WHERE clues = $1`

	var facility catalog.HealthFacility
	if err := r.db.GetContext(ctx, &facility, query, clues); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, catalog.ErrFacilityNotFound().WithDetail("clues", clues.String())
		}
		return nil, errx.Wrap(err, "failed to find facility", errx.TypeInternal)
	}
	return &facility, nil
}

func (r *PostgresCatalog) ListValidatorUnits(ctx context.Context) ([]catalog.ValidatorUnit, error) {
	query := `
		SELECT id, name
		FROM validator_units
		ORDER BY name ASC`

	var units []catalog.ValidatorUnit
	if err := r.db.SelectContext(ctx, &units, query); err != nil {
		return nil, errx.Wrap(err, "failed to list validator units", errx.TypeInternal)
	}
	return units, nil
}

func (r *PostgresCatalog) FindValidatorUnit(ctx context.Context, id kernel.ValidatorUnitID) (*catalog.ValidatorUnit, error) {
	query := `
		SELECT id, name
		FROM validator_units
		WHERE id = $1`

	var unit catalog.ValidatorUnit
	if err := r.db.GetContext(ctx, &unit, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, catalog.ErrUnitNotFound().WithDetail("unit_id", id.String())
		}
		return nil, errx.Wrap(err, "failed to find validator unit", errx.TypeInternal)
	}
	return &unit, nil
}
