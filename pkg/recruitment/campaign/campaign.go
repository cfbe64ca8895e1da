package campaign

import (
	"net/http"
	"time"

	"github.com/Abraxas-365/convocatoria/pkg/errx"
	"github.com/Abraxas-365/convocatoria/pkg/iam"
	"github.com/Abraxas-365/convocatoria/pkg/kernel"
)

// ============================================================================
// Campaign Entity
// ============================================================================

// Status es el estado de una convocatoria dentro del flujo de aprobación
type Status string

const (
	StatusDraft       Status = "DRAFT"
	StatusUnderReview Status = "UNDER_REVIEW"
	StatusApproved    Status = "APPROVED"
	StatusActive      Status = "ACTIVE"
	StatusInactive    Status = "INACTIVE"
)

func (s Status) IsValid() bool {
	switch s {
	case StatusDraft, StatusUnderReview, StatusApproved, StatusActive, StatusInactive:
		return true
	}
	return false
}

// Campaign es una convocatoria de reclutamiento
type Campaign struct {
	ID          kernel.CampaignID `db:"id" json:"id"`
	Name        string            `db:"name" json:"name"`
	Description *string           `db:"description" json:"description,omitempty"`
	Status      Status            `db:"status" json:"status"`
	StartDate   *time.Time        `db:"start_date" json:"start_date,omitempty"`
	EndDate     *time.Time        `db:"end_date" json:"end_date,omitempty"`
	CreatedBy   kernel.UserID     `db:"created_by" json:"created_by"`
	CreatedAt   time.Time         `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time         `db:"updated_at" json:"updated_at"`
}

// IsEditable reporta si la configuración de la convocatoria puede cambiar.
// Solo los borradores son editables; a partir de la revisión la convocatoria
// queda congelada.
func (c *Campaign) IsEditable() bool {
	return c.Status == StatusDraft
}

// Position es un puesto configurado en la convocatoria con sus plazas
type Position struct {
	ID              string            `db:"id" json:"id"`
	CampaignID      kernel.CampaignID `db:"campaign_id" json:"campaign_id"`
	PositionID      kernel.PositionID `db:"position_id" json:"position_id"`
	SlotsAuthorized int               `db:"slots_authorized" json:"slots_authorized"`
	CreatedAt       time.Time         `db:"created_at" json:"created_at"`
}

// AuthorizedFacility es un establecimiento autorizado para recibir propuestas
type AuthorizedFacility struct {
	ID         string            `db:"id" json:"id"`
	CampaignID kernel.CampaignID `db:"campaign_id" json:"campaign_id"`
	CLUES      kernel.CLUES      `db:"clues" json:"clues"`
	CreatedAt  time.Time         `db:"created_at" json:"created_at"`
}

// Validator asigna una unidad validadora a un puesto de la convocatoria.
// Las propuestas de ese puesto generan una fila de validación por cada
// asignación vigente al momento del envío.
type Validator struct {
	ID              string                 `db:"id" json:"id"`
	CampaignID      kernel.CampaignID      `db:"campaign_id" json:"campaign_id"`
	PositionID      kernel.PositionID      `db:"position_id" json:"position_id"`
	ValidatorUnitID kernel.ValidatorUnitID `db:"validator_unit_id" json:"validator_unit_id"`
	Required        bool                   `db:"required" json:"required"`
	CreatedAt       time.Time              `db:"created_at" json:"created_at"`
}

// ============================================================================
// Transition table
// ============================================================================

// transitionKey identifica una arista del grafo de estados
type transitionKey struct {
	from Status
	to   Status
}

// transitionRule define quién puede disparar la arista y qué precondición
// debe cumplirse. La tabla es la única fuente de verdad del flujo: no hay
// lógica de transición repartida en handlers.
type transitionRule struct {
	roles        []iam.Role
	precondition Precondition
}

// Precondition es una precondición evaluada sobre la configuración de la
// convocatoria antes de permitir una arista
type Precondition string

const (
	PreconditionNone           Precondition = ""
	PreconditionReadyForReview Precondition = "READY_FOR_REVIEW"
)

var transitions = map[transitionKey]transitionRule{
	{StatusDraft, StatusUnderReview}: {
		roles:        []iam.Role{iam.RolePlaneacion},
		precondition: PreconditionReadyForReview,
	},
	{StatusUnderReview, StatusApproved}: {
		roles: []iam.Role{iam.RoleAtencionSalud},
	},
	{StatusUnderReview, StatusDraft}: {
		roles: []iam.Role{iam.RoleAtencionSalud},
	},
	{StatusApproved, StatusActive}: {
		roles: []iam.Role{iam.RoleRH},
	},
	{StatusActive, StatusInactive}: {
		roles: []iam.Role{iam.RoleRH},
	},
	// INACTIVE es terminal: no hay reactivación definida
}

// RuleFor retorna la regla de la arista (from → to) si existe
func RuleFor(from, to Status) (roles []iam.Role, precondition Precondition, ok bool) {
	rule, ok := transitions[transitionKey{from, to}]
	if !ok {
		return nil, PreconditionNone, false
	}
	return rule.roles, rule.precondition, true
}

// ============================================================================
// DTOs
// ============================================================================

type CreateCampaignRequest struct {
	Name        string     `json:"name"`
	Description *string    `json:"description"`
	StartDate   *time.Time `json:"start_date"`
	EndDate     *time.Time `json:"end_date"`
}

type UpdateCampaignRequest struct {
	Name        *string    `json:"name"`
	Description *string    `json:"description"`
	StartDate   *time.Time `json:"start_date"`
	EndDate     *time.Time `json:"end_date"`
}

type TransitionRequest struct {
	Target Status `json:"target"`
}

type AddPositionRequest struct {
	PositionID      kernel.PositionID `json:"position_id"`
	SlotsAuthorized int               `json:"slots_authorized"`
}

type AddFacilitiesRequest struct {
	// Lista cruda de CLUES, separada por comas o saltos de línea
	CLUES string `json:"clues"`
}

type AddFacilitiesResponse struct {
	Added   int      `json:"added"`
	Skipped int      `json:"skipped"`
	Unknown []string `json:"unknown"`
}

type AssignValidatorRequest struct {
	PositionID      kernel.PositionID      `json:"position_id"`
	ValidatorUnitID kernel.ValidatorUnitID `json:"validator_unit_id"`
}

// CampaignDetail es la convocatoria con su configuración completa
type CampaignDetail struct {
	Campaign   Campaign             `json:"campaign"`
	Positions  []Position           `json:"positions"`
	Facilities []AuthorizedFacility `json:"facilities"`
	Validators []Validator          `json:"validators"`
}

// ============================================================================
// Error Registry
// ============================================================================

var ErrRegistry = errx.NewRegistry("CAMPAIGN")

var (
	CodeNotFound               = ErrRegistry.Register("NOT_FOUND", errx.TypeNotFound, http.StatusNotFound, "Convocatoria no encontrada")
	CodeNameRequired           = ErrRegistry.Register("NAME_REQUIRED", errx.TypeValidation, http.StatusBadRequest, "El nombre de la convocatoria es obligatorio")
	CodeInvalidDates           = ErrRegistry.Register("INVALID_DATES", errx.TypeValidation, http.StatusBadRequest, "La fecha de inicio debe ser anterior a la de término")
	CodeNotEditable            = ErrRegistry.Register("NOT_EDITABLE", errx.TypeValidation, http.StatusBadRequest, "Solo las convocatorias en borrador pueden modificarse")
	CodeInvalidTransition      = ErrRegistry.Register("INVALID_TRANSITION", errx.TypeValidation, http.StatusBadRequest, "Transición de estado no permitida")
	CodeNotReadyForReview      = ErrRegistry.Register("NOT_READY_FOR_REVIEW", errx.TypeValidation, http.StatusBadRequest, "Agregue al menos un puesto y un establecimiento antes de enviar a revisión")
	CodeTransitionDenied       = ErrRegistry.Register("TRANSITION_DENIED", errx.TypeAuthorization, http.StatusForbidden, "Su rol no autoriza esta transición")
	CodeInvalidSlots           = ErrRegistry.Register("INVALID_SLOTS", errx.TypeValidation, http.StatusBadRequest, "El número de plazas autorizadas debe ser positivo")
	CodePositionDuplicated     = ErrRegistry.Register("POSITION_DUPLICATED", errx.TypeConflict, http.StatusConflict, "El puesto ya está configurado en la convocatoria")
	CodePositionNotInCampaign  = ErrRegistry.Register("POSITION_NOT_IN_CAMPAIGN", errx.TypeNotFound, http.StatusNotFound, "El puesto no está configurado en la convocatoria")
	CodeFacilityNotInCampaign  = ErrRegistry.Register("FACILITY_NOT_IN_CAMPAIGN", errx.TypeNotFound, http.StatusNotFound, "El establecimiento no está autorizado en la convocatoria")
	CodeValidatorNotInCampaign = ErrRegistry.Register("VALIDATOR_NOT_IN_CAMPAIGN", errx.TypeNotFound, http.StatusNotFound, "La asignación de validador no existe")
	CodeNoValidCLUES           = ErrRegistry.Register("NO_VALID_CLUES", errx.TypeValidation, http.StatusBadRequest, "Ninguna CLUES de la lista existe en el catálogo")
)

func ErrNotFound() *errx.Error              { return ErrRegistry.New(CodeNotFound) }
func ErrNameRequired() *errx.Error          { return ErrRegistry.New(CodeNameRequired) }
func ErrInvalidDates() *errx.Error          { return ErrRegistry.New(CodeInvalidDates) }
func ErrNotEditable() *errx.Error           { return ErrRegistry.New(CodeNotEditable) }
func ErrInvalidTransition() *errx.Error     { return ErrRegistry.New(CodeInvalidTransition) }
func ErrNotReadyForReview() *errx.Error     { return ErrRegistry.New(CodeNotReadyForReview) }
func ErrTransitionDenied() *errx.Error      { return ErrRegistry.New(CodeTransitionDenied) }
func ErrInvalidSlots() *errx.Error          { return ErrRegistry.New(CodeInvalidSlots) }
func ErrPositionDuplicated() *errx.Error    { return ErrRegistry.New(CodePositionDuplicated) }
func ErrPositionNotInCampaign() *errx.Error { return ErrRegistry.New(CodePositionNotInCampaign) }
func ErrFacilityNotInCampaign() *errx.Error { return ErrRegistry.New(CodeFacilityNotInCampaign) }
func ErrValidatorNotInCampaign() *errx.Error {
	return ErrRegistry.New(CodeValidatorNotInCampaign)
}
func ErrNoValidCLUES() *errx.Error { return ErrRegistry.New(CodeNoValidCLUES) }
