package campaigninfra

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Abraxas-365/convocatoria/pkg/errx"
	"github.com/Abraxas-365/convocatoria/pkg/kernel"
	"github.com/Abraxas-365/convocatoria/pkg/recruitment/campaign"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// ============================================================================
// Campaigns
// ============================================================================

// PostgresCampaignRepository implementación de PostgreSQL para CampaignRepository
type PostgresCampaignRepository struct {
	db *sqlx.DB
}

func NewPostgresCampaignRepository(db *sqlx.DB) campaign.CampaignRepository {
	return &PostgresCampaignRepository{db: db}
}

func (r *PostgresCampaignRepository) Save(ctx context.Context, c campaign.Campaign) error {
	query := `
		INSERT INTO campaigns (id, name, description, status, start_date, end_date, created_by, created_at, updated_at)
		VALUES (:id, :name, :description, :status, :start_date, :end_date, :created_by, :created_at, :updated_at)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			description = EXCLUDED.description,
			start_date = EXCLUDED.start_date,
			end_date = EXCLUDED.end_date,
			updated_at = EXCLUDED.updated_at`

	if _, err := r.db.NamedExecContext(ctx, query, c); err != nil {
		return errx.Wrap(err, "failed to save campaign", errx.TypeInternal).
			WithDetail("campaign_id", c.ID.String())
	}
	return nil
}

func (r *PostgresCampaignRepository) FindByID(ctx context.Context, id kernel.CampaignID) (*campaign.Campaign, error) {
	query := `
		SELECT id, name, description, status, start_date, end_date, created_by, created_at, updated_at
		FROM campaigns
		WHERE id = $1`

	var c campaign.Campaign
	if err := r.db.GetContext(ctx, &c, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, campaign.ErrNotFound().WithDetail("campaign_id", id.String())
		}
		return nil, errx.Wrap(err, "failed to find campaign", errx.TypeInternal)
	}
	return &c, nil
}

func (r *PostgresCampaignRepository) FindAll(ctx context.Context) ([]campaign.Campaign, error) {
	query := `
		SELECT id, name, description, status, start_date, end_date, created_by, created_at, updated_at
		FROM campaigns
		ORDER BY created_at DESC`

	var campaigns []campaign.Campaign
	if err := r.db.SelectContext(ctx, &campaigns, query); err != nil {
		return nil, errx.Wrap(err, "failed to list campaigns", errx.TypeInternal)
	}
	return campaigns, nil
}

func (r *PostgresCampaignRepository) FindByStatus(ctx context.Context, statuses ...campaign.Status) ([]campaign.Campaign, error) {
	names := make([]string, len(statuses))
	for i, st := range statuses {
		names[i] = string(st)
	}

	query := `
		SELECT id, name, description, status, start_date, end_date, created_by, created_at, updated_at
		FROM campaigns
		WHERE status = ANY($1)
		ORDER BY created_at DESC`

	var campaigns []campaign.Campaign
	if err := r.db.SelectContext(ctx, &campaigns, query, pq.Array(names)); err != nil {
		return nil, errx.Wrap(err, "failed to list campaigns by status", errx.TypeInternal)
	}
	return campaigns, nil
}

// UpdateStatus es una actualización condicional: solo aplica si el estado
// actual sigue siendo el esperado, lo que resuelve carreras entre dos
// transiciones concurrentes sin bloqueo en memoria.
func (r *PostgresCampaignRepository) UpdateStatus(ctx context.Context, id kernel.CampaignID, expected, next campaign.Status) (bool, error) {
	query := `
		UPDATE campaigns
		SET status = $1, updated_at = NOW()
		WHERE id = $2 AND status = $3`

	result, err := r.db.ExecContext(ctx, query, next, id, expected)
	if err != nil {
		return false, errx.Wrap(err, "failed to update campaign status", errx.TypeInternal)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, errx.Wrap(err, "failed to read affected rows", errx.TypeInternal)
	}
	return affected == 1, nil
}

// ============================================================================
// Campaign positions
// ============================================================================

// PostgresPositionRepository implementación de PostgreSQL para PositionRepository
type PostgresPositionRepository struct {
	db *sqlx.DB
}

func NewPostgresPositionRepository(db *sqlx.DB) campaign.PositionRepository {
	return &PostgresPositionRepository{db: db}
}

func (r *PostgresPositionRepository) Add(ctx context.Context, p campaign.Position) error {
	query := `
		INSERT INTO campaign_positions (id, campaign_id, position_id, slots_authorized, created_at)
		VALUES (:id, :campaign_id, :position_id, :slots_authorized, :created_at)`

	if _, err := r.db.NamedExecContext(ctx, query, p); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return campaign.ErrPositionDuplicated().
				WithDetail("position_id", p.PositionID.String())
		}
		return errx.Wrap(err, "failed to add campaign position", errx.TypeInternal)
	}
	return nil
}

func (r *PostgresPositionRepository) Remove(ctx context.Context, campaignID kernel.CampaignID, positionID kernel.PositionID) (bool, error) {
	// Las filas de campaign_validators del puesto caen por ON DELETE CASCADE
	query := `
		DELETE FROM campaign_positions
		WHERE campaign_id = $1 AND position_id = $2`

	result, err := r.db.ExecContext(ctx, query, campaignID, positionID)
	if err != nil {
		return false, errx.Wrap(err, "failed to remove campaign position", errx.TypeInternal)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, errx.Wrap(err, "failed to read affected rows", errx.TypeInternal)
	}
	return affected > 0, nil
}

func (r *PostgresPositionRepository) FindByCampaign(ctx context.Context, campaignID kernel.CampaignID) ([]campaign.Position, error) {
	query := `
		SELECT id, campaign_id, position_id, slots_authorized, created_at
		FROM campaign_positions
		WHERE campaign_id = $1
		ORDER BY created_at ASC`

	var positions []campaign.Position
	if err := r.db.SelectContext(ctx, &positions, query, campaignID); err != nil {
		return nil, errx.Wrap(err, "failed to list campaign positions", errx.TypeInternal)
	}
	return positions, nil
}

func (r *PostgresPositionRepository) CountByCampaign(ctx context.Context, campaignID kernel.CampaignID) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM campaign_positions WHERE campaign_id = $1`
	if err := r.db.GetContext(ctx, &count, query, campaignID); err != nil {
		return 0, errx.Wrap(err, "failed to count campaign positions", errx.TypeInternal)
	}
	return count, nil
}

func (r *PostgresPositionRepository) Exists(ctx context.Context, campaignID kernel.CampaignID, positionID kernel.PositionID) (bool, error) {
	var exists bool
	query := `
		SELECT EXISTS (
			SELECT 1 FROM campaign_positions
			WHERE campaign_id = $1 AND position_id = $2
		)`
	if err := r.db.GetContext(ctx, &exists, query, campaignID, positionID); err != nil {
		return false, errx.Wrap(err, "failed to check campaign position", errx.TypeInternal)
	}
	return exists, nil
}

// ============================================================================
// Authorized facilities
// ============================================================================

// PostgresFacilityRepository implementación de PostgreSQL para FacilityRepository
type PostgresFacilityRepository struct {
	db *sqlx.DB
}

func NewPostgresFacilityRepository(db *sqlx.DB) campaign.FacilityRepository {
	return &PostgresFacilityRepository{db: db}
}

// AddIgnoreDuplicates inserta en bloque con ON CONFLICT DO NOTHING sobre
// (campaign_id, clues); las CLUES ya autorizadas no cuentan como insertadas.
func (r *PostgresFacilityRepository) AddIgnoreDuplicates(ctx context.Context, campaignID kernel.CampaignID, clues []kernel.CLUES) (int, error) {
	if len(clues) == 0 {
		return 0, nil
	}

	codes := make([]string, len(clues))
	for i, c := range clues {
		codes[i] = c.String()
	}

	query := `
		INSERT INTO campaign_authorized_facilities (id, campaign_id, clues, created_at)
		SELECT gen_random_uuid(), $1, code, NOW()
		FROM UNNEST($2::text[]) AS code
		ON CONFLICT (campaign_id, clues) DO NOTHING`

	result, err := r.db.ExecContext(ctx, query, campaignID, pq.Array(codes))
	if err != nil {
		return 0, errx.Wrap(err, "failed to add authorized facilities", errx.TypeInternal)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return 0, errx.Wrap(err, "failed to read affected rows", errx.TypeInternal)
	}
	return int(affected), nil
}

func (r *PostgresFacilityRepository) Remove(ctx context.Context, campaignID kernel.CampaignID, facilityID string) (bool, error) {
	query := `
		DELETE FROM campaign_authorized_facilities
		WHERE campaign_id = $1 AND id = $2`

	result, err := r.db.ExecContext(ctx, query, campaignID, facilityID)
	if err != nil {
		return false, errx.Wrap(err, "failed to remove authorized facility", errx.TypeInternal)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, errx.Wrap(err, "failed to read affected rows", errx.TypeInternal)
	}
	return affected > 0, nil
}

func (r *PostgresFacilityRepository) FindByCampaign(ctx context.Context, campaignID kernel.CampaignID) ([]campaign.AuthorizedFacility, error) {
	query := `
		SELECT id, campaign_id, clues, created_at
		FROM campaign_authorized_facilities
		WHERE campaign_id = $1
		ORDER BY clues ASC`

	var facilities []campaign.AuthorizedFacility
	if err := r.db.SelectContext(ctx, &facilities, query, campaignID); err != nil {
		return nil, errx.Wrap(err, "failed to list authorized facilities", errx.TypeInternal)
	}
	return facilities, nil
}

func (r *PostgresFacilityRepository) CountByCampaign(ctx context.Context, campaignID kernel.CampaignID) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM campaign_authorized_facilities WHERE campaign_id = $1`
	if err := r.db.GetContext(ctx, &count, query, campaignID); err != nil {
		return 0, errx.Wrap(err, "failed to count authorized facilities", errx.TypeInternal)
	}
	return count, nil
}

func (r *PostgresFacilityRepository) IsAuthorized(ctx context.Context, campaignID kernel.CampaignID, clues kernel.CLUES) (bool, error) {
	var exists bool
	query := `
		SELECT EXISTS (
			SELECT 1 FROM campaign_authorized_facilities
			WHERE campaign_id = $1 AND clues = $2
		)`
	if err := r.db.GetContext(ctx, &exists, query, campaignID, clues); err != nil {
		return false, errx.Wrap(err, "failed to check authorized facility", errx.TypeInternal)
	}
	return exists, nil
}

// ============================================================================
// Campaign validators
// ============================================================================

// PostgresValidatorRepository implementación de PostgreSQL para ValidatorRepository
type PostgresValidatorRepository struct {
	db *sqlx.DB
}

func NewPostgresValidatorRepository(db *sqlx.DB) campaign.ValidatorRepository {
	return &PostgresValidatorRepository{db: db}
}

func (r *PostgresValidatorRepository) AddIgnoreDuplicate(ctx context.Context, v campaign.Validator) (bool, error) {
	query := `
		INSERT INTO campaign_validators (id, campaign_id, position_id, validator_unit_id, required, created_at)
		VALUES (:id, :campaign_id, :position_id, :validator_unit_id, :required, :created_at)
		ON CONFLICT (campaign_id, position_id, validator_unit_id) DO NOTHING`

	result, err := r.db.NamedExecContext(ctx, query, v)
	if err != nil {
		return false, errx.Wrap(err, "failed to assign validator unit", errx.TypeInternal)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, errx.Wrap(err, "failed to read affected rows", errx.TypeInternal)
	}
	return affected > 0, nil
}

func (r *PostgresValidatorRepository) Remove(ctx context.Context, campaignID kernel.CampaignID, assignmentID string) (bool, error) {
	query := `
		DELETE FROM campaign_validators
		WHERE campaign_id = $1 AND id = $2`

	result, err := r.db.ExecContext(ctx, query, campaignID, assignmentID)
	if err != nil {
		return false, errx.Wrap(err, "failed to remove validator assignment", errx.TypeInternal)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, errx.Wrap(err, "failed to read affected rows", errx.TypeInternal)
	}
	return affected > 0, nil
}

func (r *PostgresValidatorRepository) FindByCampaign(ctx context.Context, campaignID kernel.CampaignID) ([]campaign.Validator, error) {
	query := `
		SELECT id, campaign_id, position_id, validator_unit_id, required, created_at
		FROM campaign_validators
		WHERE campaign_id = $1
		ORDER BY created_at ASC`

	var validators []campaign.Validator
	if err := r.db.SelectContext(ctx, &validators, query, campaignID); err != nil {
		return nil, errx.Wrap(err, "failed to list campaign validators", errx.TypeInternal)
	}
	return validators, nil
}

func (r *PostgresValidatorRepository) FindUnitsForPosition(ctx context.Context, campaignID kernel.CampaignID, positionID kernel.PositionID) ([]kernel.ValidatorUnitID, error) {
	query := `
		SELECT validator_unit_id
		FROM campaign_validators
		WHERE campaign_id = $1 AND position_id = $2
		ORDER BY validator_unit_id ASC`

	var units []kernel.ValidatorUnitID
	if err := r.db.SelectContext(ctx, &units, query, campaignID, positionID); err != nil {
		return nil, errx.Wrap(err, "failed to list validator units for position", errx.TypeInternal)
	}
	return units, nil
}
