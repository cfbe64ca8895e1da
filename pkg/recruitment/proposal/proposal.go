package proposal

import (
	"net/http"
	"time"

	"github.com/Abraxas-365/convocatoria/pkg/errx"
	"github.com/Abraxas-365/convocatoria/pkg/kernel"
)

// ============================================================================
// Proposal Entity
// ============================================================================

// Status es el estado de una propuesta de candidato
type Status string

const (
	StatusSubmitted    Status = "SUBMITTED"
	StatusInValidation Status = "IN_VALIDATION"
	StatusApproved     Status = "APPROVED"
	StatusRejected     Status = "REJECTED"
)

// IsTerminal reporta si el estado ya no cambia
func (s Status) IsTerminal() bool {
	return s == StatusApproved || s == StatusRejected
}

// Proposal es una propuesta de candidato contra una convocatoria activa
type Proposal struct {
	ID              kernel.ProposalID `db:"id" json:"id"`
	CampaignID      kernel.CampaignID `db:"campaign_id" json:"campaign_id"`
	PositionID      kernel.PositionID `db:"position_id" json:"position_id"`
	CLUES           kernel.CLUES      `db:"clues" json:"clues"`
	CURP            string            `db:"curp" json:"curp"`
	CandidateName   string            `db:"candidate_name" json:"candidate_name"`
	CVFileID        kernel.FileID     `db:"cv_file_id" json:"cv_file_id"`
	Status          Status            `db:"status" json:"status"`
	SubmittedBy     kernel.UserID     `db:"submitted_by" json:"submitted_by"`
	SubmittedAt     time.Time         `db:"submitted_at" json:"submitted_at"`
	RejectionReason *string           `db:"rejection_reason" json:"rejection_reason,omitempty"`
}

// Decision es el veredicto de una unidad validadora
type Decision string

const (
	DecisionApproved Decision = "APPROVED"
	DecisionRejected Decision = "REJECTED"
)

func (d Decision) IsValid() bool {
	return d == DecisionApproved || d == DecisionRejected
}

// Validation es el veredicto pendiente o emitido de una unidad validadora
// sobre una propuesta. Se crea una fila por unidad asignada al puesto al
// momento del envío; es una foto, no un join vivo.
type Validation struct {
	ID              kernel.ValidationID    `db:"id" json:"id"`
	ProposalID      kernel.ProposalID      `db:"proposal_id" json:"proposal_id"`
	ValidatorUnitID kernel.ValidatorUnitID `db:"validator_unit_id" json:"validator_unit_id"`
	Decision        *Decision              `db:"decision" json:"decision,omitempty"`
	Reason          *string                `db:"reason" json:"reason,omitempty"`
	DecidedBy       *kernel.UserID         `db:"decided_by" json:"decided_by,omitempty"`
	DecidedAt       *time.Time             `db:"decided_at" json:"decided_at,omitempty"`
}

// IsDecided reporta si la unidad ya emitió veredicto
func (v *Validation) IsDecided() bool {
	return v.Decision != nil
}

// CVFile es el registro del CV almacenado en el blob store
type CVFile struct {
	ID          kernel.FileID `db:"id" json:"id"`
	Path        string        `db:"path" json:"path"`
	ContentType string        `db:"content_type" json:"content_type"`
	SizeBytes   int64         `db:"size_bytes" json:"size_bytes"`
	UploadedBy  kernel.UserID `db:"uploaded_by" json:"uploaded_by"`
	UploadedAt  time.Time     `db:"uploaded_at" json:"uploaded_at"`
}

// ============================================================================
// Consensus
// ============================================================================

// ConsensusOutcome deriva el estado de la propuesta a partir de sus
// validaciones. Regla: cualquier rechazo rechaza; la aprobación exige
// unanimidad. Con cero validaciones la propuesta queda en SUBMITTED (hueco
// conocido del flujo: no hay auto-aprobación ni escalamiento).
func ConsensusOutcome(validations []Validation) Status {
	if len(validations) == 0 {
		return StatusSubmitted
	}

	decided := 0
	for _, v := range validations {
		if !v.IsDecided() {
			continue
		}
		if *v.Decision == DecisionRejected {
			return StatusRejected
		}
		decided++
	}

	if decided == len(validations) {
		return StatusApproved
	}
	return StatusInValidation
}

// FirstRejectionReason retorna la razón del primer rechazo registrado, para
// estamparla en la propuesta.
func FirstRejectionReason(validations []Validation) *string {
	for _, v := range validations {
		if v.IsDecided() && *v.Decision == DecisionRejected {
			return v.Reason
		}
	}
	return nil
}

// ============================================================================
// DTOs
// ============================================================================

// SubmitRequest son los campos del envío multipart, ya extraídos por el
// handler. El contenido del CV viaja aparte.
type SubmitRequest struct {
	CampaignID    kernel.CampaignID
	PositionID    kernel.PositionID
	CLUES         kernel.CLUES
	CURP          string
	CandidateName string
	CVContent     []byte
	CVContentType string
	// IdempotencyKey deduplica reintentos del cliente; vacío lo desactiva
	IdempotencyKey string
}

type DecisionRequest struct {
	Decision Decision `json:"decision"`
	Reason   string   `json:"reason"`
}

// PendingValidation es una fila del worklist de un validador
type PendingValidation struct {
	Validation Validation `json:"validation"`
	Proposal   Proposal   `json:"proposal"`
}

type SignedCVURLResponse struct {
	URL       string `json:"url"`
	ExpiresIn int64  `json:"expires_in"`
}

// ============================================================================
// Error Registry
// ============================================================================

var ErrRegistry = errx.NewRegistry("PROPOSAL")

var (
	CodeNotFound            = ErrRegistry.Register("NOT_FOUND", errx.TypeNotFound, http.StatusNotFound, "Propuesta no encontrada")
	CodeValidationNotFound  = ErrRegistry.Register("VALIDATION_NOT_FOUND", errx.TypeNotFound, http.StatusNotFound, "Validación no encontrada")
	CodeCampaignNotActive   = ErrRegistry.Register("CAMPAIGN_NOT_ACTIVE", errx.TypeValidation, http.StatusBadRequest, "La convocatoria no está activa")
	CodePositionNotOffered  = ErrRegistry.Register("POSITION_NOT_OFFERED", errx.TypeValidation, http.StatusBadRequest, "El puesto no está ofertado en la convocatoria")
	CodeFacilityNotAllowed  = ErrRegistry.Register("FACILITY_NOT_ALLOWED", errx.TypeValidation, http.StatusBadRequest, "El establecimiento no está autorizado en la convocatoria")
	CodeInvalidCURP         = ErrRegistry.Register("INVALID_CURP", errx.TypeValidation, http.StatusBadRequest, "La CURP no tiene un formato válido")
	CodeCandidateNameNeeded = ErrRegistry.Register("CANDIDATE_NAME_REQUIRED", errx.TypeValidation, http.StatusBadRequest, "El nombre del candidato es obligatorio")
	CodeInvalidCV           = ErrRegistry.Register("INVALID_CV", errx.TypeValidation, http.StatusBadRequest, "El CV debe ser un PDF de máximo 10 MB")
	CodeDuplicateSubmission = ErrRegistry.Register("DUPLICATE_SUBMISSION", errx.TypeConflict, http.StatusConflict, "El envío ya fue procesado")
	CodeAlreadyDecided      = ErrRegistry.Register("ALREADY_DECIDED", errx.TypeConflict, http.StatusConflict, "La validación ya tiene un veredicto registrado")
	CodeReasonRequired      = ErrRegistry.Register("REASON_REQUIRED", errx.TypeValidation, http.StatusBadRequest, "El rechazo requiere una razón")
	CodeInvalidDecision     = ErrRegistry.Register("INVALID_DECISION", errx.TypeValidation, http.StatusBadRequest, "El veredicto debe ser APPROVED o REJECTED")
	CodeNotYourUnit         = ErrRegistry.Register("NOT_YOUR_UNIT", errx.TypeAuthorization, http.StatusForbidden, "La validación pertenece a otra unidad validadora")
	CodeNoUnitAssigned      = ErrRegistry.Register("NO_UNIT_ASSIGNED", errx.TypeAuthorization, http.StatusForbidden, "El usuario no tiene unidad validadora asignada")
	CodeCVNotAccessible     = ErrRegistry.Register("CV_NOT_ACCESSIBLE", errx.TypeAuthorization, http.StatusForbidden, "No tiene acceso al CV de esta propuesta")
)

func ErrNotFound() *errx.Error            { return ErrRegistry.New(CodeNotFound) }
func ErrValidationNotFound() *errx.Error  { return ErrRegistry.New(CodeValidationNotFound) }
func ErrCampaignNotActive() *errx.Error   { return ErrRegistry.New(CodeCampaignNotActive) }
func ErrPositionNotOffered() *errx.Error  { return ErrRegistry.New(CodePositionNotOffered) }
func ErrFacilityNotAllowed() *errx.Error  { return ErrRegistry.New(CodeFacilityNotAllowed) }
func ErrInvalidCURP() *errx.Error         { return ErrRegistry.New(CodeInvalidCURP) }
func ErrCandidateNameNeeded() *errx.Error { return ErrRegistry.New(CodeCandidateNameNeeded) }
func ErrInvalidCV() *errx.Error           { return ErrRegistry.New(CodeInvalidCV) }
func ErrDuplicateSubmission() *errx.Error { return ErrRegistry.New(CodeDuplicateSubmission) }
func ErrAlreadyDecided() *errx.Error      { return ErrRegistry.New(CodeAlreadyDecided) }
func ErrReasonRequired() *errx.Error      { return ErrRegistry.New(CodeReasonRequired) }
func ErrInvalidDecision() *errx.Error     { return ErrRegistry.New(CodeInvalidDecision) }
func ErrNotYourUnit() *errx.Error         { return ErrRegistry.New(CodeNotYourUnit) }
func ErrNoUnitAssigned() *errx.Error      { return ErrRegistry.New(CodeNoUnitAssigned) }
func ErrCVNotAccessible() *errx.Error     { return ErrRegistry.New(CodeCVNotAccessible) }
