package proposal

import (
	"context"
	"time"

	"github.com/Abraxas-365/convocatoria/pkg/kernel"
)

// SubmissionStore persiste en una sola transacción el registro de archivo,
// la propuesta y el abanico de validaciones. El blob del CV ya debe existir
// cuando se llama; si la transacción falla el blob queda huérfano y se
// reintenta con la misma llave de idempotencia.
type SubmissionStore interface {
	CreateSubmission(ctx context.Context, file CVFile, p Proposal, validations []Validation) error
}

// ProposalRepository define la persistencia de propuestas
type ProposalRepository interface {
	FindByID(ctx context.Context, id kernel.ProposalID) (*Proposal, error)
	FindBySubmitter(ctx context.Context, userID kernel.UserID) ([]Proposal, error)
	// ApplyOutcome actualiza el estado derivado del consenso. Solo aplica
	// sobre estados no terminales; retorna false si la propuesta ya estaba
	// resuelta.
	ApplyOutcome(ctx context.Context, id kernel.ProposalID, outcome Status, rejectionReason *string) (bool, error)
}

// ValidationRepository define la persistencia de validaciones
type ValidationRepository interface {
	FindByID(ctx context.Context, id kernel.ValidationID) (*Validation, error)
	FindByProposal(ctx context.Context, proposalID kernel.ProposalID) ([]Validation, error)
	// FindPendingForUnit retorna las validaciones sin veredicto de la unidad,
	// junto con su propuesta, limitadas a propuestas aún no resueltas.
	FindPendingForUnit(ctx context.Context, unitID kernel.ValidatorUnitID) ([]PendingValidation, error)
	// RecordDecision escribe el veredicto solo si aún no existe uno.
	// Retorna false si la fila ya estaba decidida.
	RecordDecision(ctx context.Context, id kernel.ValidationID, decision Decision, reason *string, decidedBy kernel.UserID, decidedAt time.Time) (bool, error)
}

// FileRepository define el acceso a los registros de archivos de CV
type FileRepository interface {
	FindByID(ctx context.Context, id kernel.FileID) (*CVFile, error)
}

// IdempotencyStore reserva llaves de idempotencia de envíos. Reserve retorna
// false si la llave ya fue usada dentro de su TTL.
type IdempotencyStore interface {
	Reserve(ctx context.Context, key string, ttl time.Duration) (bool, error)
	Release(ctx context.Context, key string) error
}
