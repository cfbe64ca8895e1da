package proposalinfra

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/Abraxas-365/convocatoria/pkg/errx"
	"github.com/Abraxas-365/convocatoria/pkg/kernel"
	"github.com/Abraxas-365/convocatoria/pkg/recruitment/proposal"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// ============================================================================
// Submission store
// ============================================================================

// PostgresSubmissionStore escribe el archivo, la propuesta y sus
// validaciones en una sola transacción.
type PostgresSubmissionStore struct {
	db *sqlx.DB
}

func NewPostgresSubmissionStore(db *sqlx.DB) proposal.SubmissionStore {
	return &PostgresSubmissionStore{db: db}
}

func (s *PostgresSubmissionStore) CreateSubmission(ctx context.Context, file proposal.CVFile, p proposal.Proposal, validations []proposal.Validation) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return errx.Wrap(err, "failed to begin submission transaction", errx.TypeInternal)
	}
	defer tx.Rollback()

	fileQuery := `
		INSERT INTO files (id, path, content_type, size_bytes, uploaded_by, uploaded_at)
		VALUES (:id, :path, :content_type, :size_bytes, :uploaded_by, :uploaded_at)`
	if _, err := tx.NamedExecContext(ctx, fileQuery, file); err != nil {
		return errx.Wrap(err, "failed to insert file record", errx.TypeInternal)
	}

	proposalQuery := `
		INSERT INTO proposals (id, campaign_id, position_id, clues, curp, candidate_name, cv_file_id, status, submitted_by, submitted_at)
		VALUES (:id, :campaign_id, :position_id, :clues, :curp, :candidate_name, :cv_file_id, :status, :submitted_by, :submitted_at)`
	if _, err := tx.NamedExecContext(ctx, proposalQuery, p); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return proposal.ErrDuplicateSubmission()
		}
		return errx.Wrap(err, "failed to insert proposal", errx.TypeInternal)
	}

	validationQuery := `
		INSERT INTO proposal_validations (id, proposal_id, validator_unit_id)
		VALUES (:id, :proposal_id, :validator_unit_id)`
	for _, v := range validations {
		if _, err := tx.NamedExecContext(ctx, validationQuery, v); err != nil {
			return errx.Wrap(err, "failed to insert proposal validation", errx.TypeInternal)
		}
	}

	if err := tx.Commit(); err != nil {
		return errx.Wrap(err, "failed to commit submission", errx.TypeInternal)
	}
	return nil
}

// ============================================================================
// Proposals
// ============================================================================

// PostgresProposalRepository implementación de PostgreSQL para ProposalRepository
type PostgresProposalRepository struct {
	db *sqlx.DB
}

func NewPostgresProposalRepository(db *sqlx.DB) proposal.ProposalRepository {
	return &PostgresProposalRepository{db: db}
}

func (r *PostgresProposalRepository) FindByID(ctx context.Context, id kernel.ProposalID) (*proposal.Proposal, error) {
	query := `
		SELECT id, campaign_id, position_id, clues, curp, candidate_name, cv_file_id, status, submitted_by, submitted_at, rejection_reason
		FROM proposals
		WHERE id = $1`

	var p proposal.Proposal
	if err := r.db.GetContext(ctx, &p, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, proposal.ErrNotFound().WithDetail("proposal_id", id.String())
		}
		return nil, errx.Wrap(err, "failed to find proposal", errx.TypeInternal)
	}
	return &p, nil
}

func (r *PostgresProposalRepository) FindBySubmitter(ctx context.Context, userID kernel.UserID) ([]proposal.Proposal, error) {
	query := `
		SELECT id, campaign_id, position_id, clues, curp, candidate_name, cv_file_id, status, submitted_by, submitted_at, rejection_reason
		FROM proposals
		WHERE submitted_by = $1
		ORDER BY submitted_at DESC`

	var proposals []proposal.Proposal
	if err := r.db.SelectContext(ctx, &proposals, query, userID); err != nil {
		return nil, errx.Wrap(err, "failed to list proposals by submitter", errx.TypeInternal)
	}
	return proposals, nil
}

// ApplyOutcome actualiza el estado solo mientras la propuesta no esté
// resuelta; dos recomputaciones concurrentes no pueden pisarse un estado
// terminal.
func (r *PostgresProposalRepository) ApplyOutcome(ctx context.Context, id kernel.ProposalID, outcome proposal.Status, rejectionReason *string) (bool, error) {
	query := `
		UPDATE proposals
		SET status = $1, rejection_reason = COALESCE($2, rejection_reason)
		WHERE id = $3 AND status IN ('SUBMITTED', 'IN_VALIDATION')`

	result, err := r.db.ExecContext(ctx, query, outcome, rejectionReason, id)
	if err != nil {
		return false, errx.Wrap(err, "failed to apply proposal outcome", errx.TypeInternal)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, errx.Wrap(err, "failed to read affected rows", errx.TypeInternal)
	}
	return affected == 1, nil
}

// ============================================================================
// Validations
// ============================================================================

// PostgresValidationRepository implementación de PostgreSQL para ValidationRepository
type PostgresValidationRepository struct {
	db *sqlx.DB
}

func NewPostgresValidationRepository(db *sqlx.DB) proposal.ValidationRepository {
	return &PostgresValidationRepository{db: db}
}

func (r *PostgresValidationRepository) FindByID(ctx context.Context, id kernel.ValidationID) (*proposal.Validation, error) {
	query := `
		SELECT id, proposal_id, validator_unit_id, decision, reason, decided_by, decided_at
		FROM proposal_validations
		WHERE id = $1`

	var v proposal.Validation
	if err := r.db.GetContext(ctx, &v, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, proposal.ErrValidationNotFound().WithDetail("validation_id", id.String())
		}
		return nil, errx.Wrap(err, "failed to find validation", errx.TypeInternal)
	}
	return &v, nil
}

func (r *PostgresValidationRepository) FindByProposal(ctx context.Context, proposalID kernel.ProposalID) ([]proposal.Validation, error) {
	query := `
		SELECT id, proposal_id, validator_unit_id, decision, reason, decided_by, decided_at
		FROM proposal_validations
		WHERE proposal_id = $1
		ORDER BY validator_unit_id ASC`

	var validations []proposal.Validation
	if err := r.db.SelectContext(ctx, &validations, query, proposalID); err != nil {
		return nil, errx.Wrap(err, "failed to list proposal validations", errx.TypeInternal)
	}
	return validations, nil
}

// pendingRow aplana el join validación + propuesta del worklist
type pendingRow struct {
	ValidationID    kernel.ValidationID    `db:"validation_id"`
	ValidatorUnitID kernel.ValidatorUnitID `db:"validator_unit_id"`
	proposal.Proposal
}

func (r *PostgresValidationRepository) FindPendingForUnit(ctx context.Context, unitID kernel.ValidatorUnitID) ([]proposal.PendingValidation, error) {
	query := `
		SELECT
			v.id AS validation_id, v.validator_unit_id,
			p.id, p.campaign_id, p.position_id, p.clues, p.curp, p.candidate_name,
			p.cv_file_id, p.status, p.submitted_by, p.submitted_at, p.rejection_reason
		FROM proposal_validations v
		JOIN proposals p ON p.id = v.proposal_id
		WHERE v.validator_unit_id = $1
		  AND v.decision IS NULL
		  AND p.status IN ('SUBMITTED', 'IN_VALIDATION')
		ORDER BY p.submitted_at ASC`

	var rows []pendingRow
	if err := r.db.SelectContext(ctx, &rows, query, unitID); err != nil {
		return nil, errx.Wrap(err, "failed to list pending validations", errx.TypeInternal)
	}

	pending := make([]proposal.PendingValidation, len(rows))
	for i, row := range rows {
		pending[i] = proposal.PendingValidation{
			Validation: proposal.Validation{
				ID:              row.ValidationID,
				ProposalID:      row.Proposal.ID,
				ValidatorUnitID: row.ValidatorUnitID,
			},
			Proposal: row.Proposal,
		}
	}
	return pending, nil
}

// RecordDecision escribe el veredicto con una actualización condicional:
// la cláusula decision IS NULL garantiza una sola escritura aunque dos
// procesos decidan a la vez.
func (r *PostgresValidationRepository) RecordDecision(ctx context.Context, id kernel.ValidationID, decision proposal.Decision, reason *string, decidedBy kernel.UserID, decidedAt time.Time) (bool, error) {
	query := `
		UPDATE proposal_validations
		SET decision = $1, reason = $2, decided_by = $3, decided_at = $4
		WHERE id = $5 AND decision IS NULL`

	result, err := r.db.ExecContext(ctx, query, decision, reason, decidedBy, decidedAt, id)
	if err != nil {
		return false, errx.Wrap(err, "failed to record validation decision", errx.TypeInternal)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, errx.Wrap(err, "failed to read affected rows", errx.TypeInternal)
	}
	return affected == 1, nil
}

// ============================================================================
// Files
// ============================================================================

// PostgresFileRepository implementación de PostgreSQL para FileRepository
type PostgresFileRepository struct {
	db *sqlx.DB
}

func NewPostgresFileRepository(db *sqlx.DB) proposal.FileRepository {
	return &PostgresFileRepository{db: db}
}

func (r *PostgresFileRepository) FindByID(ctx context.Context, id kernel.FileID) (*proposal.CVFile, error) {
	query := `
		SELECT id, path, content_type, size_bytes, uploaded_by, uploaded_at
		FROM files
		WHERE id = $1`

	var f proposal.CVFile
	if err := r.db.GetContext(ctx, &f, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, proposal.ErrNotFound().WithDetail("file_id", id.String())
		}
		return nil, errx.Wrap(err, "failed to find file", errx.TypeInternal)
	}
	return &f, nil
}
