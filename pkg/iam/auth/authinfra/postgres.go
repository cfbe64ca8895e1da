package authinfra

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Abraxas-365/convocatoria/pkg/errx"
	"github.com/Abraxas-365/convocatoria/pkg/iam"
	"github.com/Abraxas-365/convocatoria/pkg/iam/auth"
	"github.com/Abraxas-365/convocatoria/pkg/kernel"
	"github.com/jmoiron/sqlx"
)

// PostgresAccountRepository implementación del repositorio de cuentas
type PostgresAccountRepository struct {
	db *sqlx.DB
}

func NewPostgresAccountRepository(db *sqlx.DB) *PostgresAccountRepository {
	return &PostgresAccountRepository{db: db}
}

func (r *PostgresAccountRepository) FindByID(ctx context.Context, id kernel.UserID) (*auth.Account, error) {
	query := `
		SELECT id, email, name, password_hash, active, created_at, updated_at
		FROM accounts
		WHERE id = $1`

	var account auth.Account
	if err := r.db.GetContext(ctx, &account, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, auth.ErrAccountNotFound()
		}
		return nil, errx.Wrap(err, "failed to find account by id", errx.TypeInternal)
	}

	return &account, nil
}

func (r *PostgresAccountRepository) FindByEmail(ctx context.Context, email string) (*auth.Account, error) {
	query := `
		SELECT id, email, name, password_hash, active, created_at, updated_at
		FROM accounts
		WHERE LOWER(email) = LOWER($1)`

	var account auth.Account
	if err := r.db.GetContext(ctx, &account, query, email); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, auth.ErrAccountNotFound()
		}
		return nil, errx.Wrap(err, "failed to find account by email", errx.TypeInternal)
	}

	return &account, nil
}

// PostgresRoleLoader carga los roles de un usuario desde la tabla user_roles
type PostgresRoleLoader struct {
	db *sqlx.DB
}

func NewPostgresRoleLoader(db *sqlx.DB) *PostgresRoleLoader {
	return &PostgresRoleLoader{db: db}
}

func (r *PostgresRoleLoader) LoadRoles(ctx context.Context, userID kernel.UserID) ([]iam.Role, error) {
	query := `
		SELECT role
		FROM user_roles
		WHERE user_id = $1
		ORDER BY role`

	var names []string
	if err := r.db.SelectContext(ctx, &names, query, userID); err != nil {
		return nil, errx.Wrap(err, "failed to load user roles", errx.TypeExternal)
	}

	return iam.RolesFromStrings(names), nil
}

// PostgresValidatorUnitResolver resuelve la unidad validadora asignada a un
// usuario con rol VALIDADOR.
type PostgresValidatorUnitResolver struct {
	db *sqlx.DB
}

func NewPostgresValidatorUnitResolver(db *sqlx.DB) *PostgresValidatorUnitResolver {
	return &PostgresValidatorUnitResolver{db: db}
}

func (r *PostgresValidatorUnitResolver) ValidatorUnitFor(ctx context.Context, userID kernel.UserID) (*kernel.ValidatorUnitID, error) {
	query := `
		SELECT validator_unit_id
		FROM user_validator_units
		WHERE user_id = $1`

	var unitID kernel.ValidatorUnitID
	if err := r.db.GetContext(ctx, &unitID, query, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, errx.Wrap(err, "failed to resolve validator unit", errx.TypeInternal)
	}

	return &unitID, nil
}
