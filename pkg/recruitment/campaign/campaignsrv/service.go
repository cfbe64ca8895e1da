package campaignsrv

import (
	"context"
	"strings"
	"time"

	"github.com/Abraxas-365/convocatoria/pkg/errx"
	"github.com/Abraxas-365/convocatoria/pkg/iam"
	"github.com/Abraxas-365/convocatoria/pkg/iam/access"
	"github.com/Abraxas-365/convocatoria/pkg/kernel"
	"github.com/Abraxas-365/convocatoria/pkg/logx"
	"github.com/Abraxas-365/convocatoria/pkg/recruitment/campaign"
	"github.com/Abraxas-365/convocatoria/pkg/recruitment/catalog"
	"github.com/google/uuid"
)

// CampaignService orquesta el ciclo de vida de las convocatorias: creación y
// edición en borrador, configuración de puestos, establecimientos y
// validadores, y las transiciones del flujo de aprobación.
type CampaignService struct {
	campaigns  campaign.CampaignRepository
	positions  campaign.PositionRepository
	facilities campaign.FacilityRepository
	validators campaign.ValidatorRepository

	positionCatalog catalog.PositionCatalog
	facilityCatalog catalog.FacilityCatalog
	unitCatalog     catalog.ValidatorUnitCatalog
}

func NewCampaignService(
	campaigns campaign.CampaignRepository,
	positions campaign.PositionRepository,
	facilities campaign.FacilityRepository,
	validators campaign.ValidatorRepository,
	positionCatalog catalog.PositionCatalog,
	facilityCatalog catalog.FacilityCatalog,
	unitCatalog catalog.ValidatorUnitCatalog,
) *CampaignService {
	return &CampaignService{
		campaigns:       campaigns,
		positions:       positions,
		facilities:      facilities,
		validators:      validators,
		positionCatalog: positionCatalog,
		facilityCatalog: facilityCatalog,
		unitCatalog:     unitCatalog,
	}
}

// ============================================================================
// CRUD de borradores
// ============================================================================

// Create crea una convocatoria en borrador
func (s *CampaignService) Create(ctx context.Context, actor *kernel.AuthContext, req campaign.CreateCampaignRequest) (*campaign.Campaign, error) {
	if !access.Can(iam.RolesFromStrings(actor.Roles), access.ActionCampaignCreate) {
		return nil, iam.ErrForbidden().WithDetail("action", string(access.ActionCampaignCreate))
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, campaign.ErrNameRequired()
	}
	if req.StartDate != nil && req.EndDate != nil && !req.StartDate.Before(*req.EndDate) {
		return nil, campaign.ErrInvalidDates()
	}

	now := time.Now()
	c := campaign.Campaign{
		ID:          kernel.NewCampaignID(uuid.NewString()),
		Name:        name,
		Description: req.Description,
		Status:      campaign.StatusDraft,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		CreatedBy:   actor.UserID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.campaigns.Save(ctx, c); err != nil {
		return nil, errx.Wrap(err, "failed to save campaign", errx.TypeInternal)
	}

	logx.WithFields(logx.Fields{
		"campaign_id": c.ID.String(),
		"user_id":     actor.UserID.String(),
	}).Infof("campaign created")

	return &c, nil
}

// Update modifica los datos generales de una convocatoria en borrador
func (s *CampaignService) Update(ctx context.Context, actor *kernel.AuthContext, id kernel.CampaignID, req campaign.UpdateCampaignRequest) (*campaign.Campaign, error) {
	c, err := s.editableCampaign(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, campaign.ErrNameRequired()
		}
		c.Name = name
	}
	if req.Description != nil {
		c.Description = req.Description
	}
	if req.StartDate != nil {
		c.StartDate = req.StartDate
	}
	if req.EndDate != nil {
		c.EndDate = req.EndDate
	}
	if c.StartDate != nil && c.EndDate != nil && !c.StartDate.Before(*c.EndDate) {
		return nil, campaign.ErrInvalidDates()
	}
	c.UpdatedAt = time.Now()

	if err := s.campaigns.Save(ctx, *c); err != nil {
		return nil, errx.Wrap(err, "failed to update campaign", errx.TypeInternal)
	}
	return c, nil
}

// Get retorna la convocatoria con su configuración completa
func (s *CampaignService) Get(ctx context.Context, id kernel.CampaignID) (*campaign.CampaignDetail, error) {
	c, err := s.campaigns.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	positions, err := s.positions.FindByCampaign(ctx, id)
	if err != nil {
		return nil, errx.Wrap(err, "failed to load campaign positions", errx.TypeInternal)
	}
	facilities, err := s.facilities.FindByCampaign(ctx, id)
	if err != nil {
		return nil, errx.Wrap(err, "failed to load authorized facilities", errx.TypeInternal)
	}
	validators, err := s.validators.FindByCampaign(ctx, id)
	if err != nil {
		return nil, errx.Wrap(err, "failed to load campaign validators", errx.TypeInternal)
	}

	return &campaign.CampaignDetail{
		Campaign:   *c,
		Positions:  positions,
		Facilities: facilities,
		Validators: validators,
	}, nil
}

// visibleStatuses define qué estados ve cada rol en el listado
var visibleStatuses = map[iam.Role][]campaign.Status{
	iam.RolePlaneacion:    {campaign.StatusDraft, campaign.StatusUnderReview, campaign.StatusApproved, campaign.StatusActive, campaign.StatusInactive},
	iam.RoleDG:            {campaign.StatusDraft, campaign.StatusUnderReview, campaign.StatusApproved, campaign.StatusActive, campaign.StatusInactive},
	iam.RoleAtencionSalud: {campaign.StatusUnderReview, campaign.StatusApproved, campaign.StatusActive, campaign.StatusInactive},
	iam.RoleRH:            {campaign.StatusApproved, campaign.StatusActive, campaign.StatusInactive},
	iam.RoleCoordEstatal:  {campaign.StatusActive},
	iam.RoleValidador:     {campaign.StatusActive},
}

// List retorna las convocatorias visibles para los roles del actor
func (s *CampaignService) List(ctx context.Context, actor *kernel.AuthContext) ([]campaign.Campaign, error) {
	statusSet := make(map[campaign.Status]struct{})
	for _, role := range iam.RolesFromStrings(actor.Roles) {
		for _, st := range visibleStatuses[role] {
			statusSet[st] = struct{}{}
		}
	}
	if len(statusSet) == 0 {
		return []campaign.Campaign{}, nil
	}
	if len(statusSet) == 5 {
		return s.campaigns.FindAll(ctx)
	}

	statuses := make([]campaign.Status, 0, len(statusSet))
	for st := range statusSet {
		statuses = append(statuses, st)
	}
	return s.campaigns.FindByStatus(ctx, statuses...)
}

// ============================================================================
// Transiciones
// ============================================================================

// CanTransition reporta si el actor puede llevar la convocatoria al estado
// destino. No evalúa precondiciones de configuración, solo el grafo y el rol;
// se usa para calcular las acciones visibles en el cliente.
func (s *CampaignService) CanTransition(c *campaign.Campaign, target campaign.Status, actorRoles []iam.Role) bool {
	roles, _, ok := campaign.RuleFor(c.Status, target)
	if !ok {
		return false
	}
	return iam.HasAnyRole(actorRoles, roles...)
}

// Transition lleva la convocatoria al estado destino si la arista existe, el
// rol del actor la autoriza y la precondición se cumple. Nunca muta estado
// en un rechazo.
func (s *CampaignService) Transition(ctx context.Context, actor *kernel.AuthContext, id kernel.CampaignID, target campaign.Status) (*campaign.Campaign, error) {
	if !target.IsValid() {
		return nil, campaign.ErrInvalidTransition().WithDetail("target", string(target))
	}

	c, err := s.campaigns.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	roles, precondition, ok := campaign.RuleFor(c.Status, target)
	if !ok {
		return nil, campaign.ErrInvalidTransition().
			WithDetail("from", string(c.Status)).
			WithDetail("target", string(target))
	}

	if !iam.HasAnyRole(iam.RolesFromStrings(actor.Roles), roles...) {
		return nil, campaign.ErrTransitionDenied().
			WithDetail("from", string(c.Status)).
			WithDetail("target", string(target)).
			WithDetail("required_roles", iam.RolesToStrings(roles))
	}

	if err := s.checkPrecondition(ctx, c, precondition); err != nil {
		return nil, err
	}

	applied, err := s.campaigns.UpdateStatus(ctx, id, c.Status, target)
	if err != nil {
		return nil, errx.Wrap(err, "failed to update campaign status", errx.TypeInternal)
	}
	if !applied {
		// Otra transacción movió la convocatoria primero
		return nil, campaign.ErrInvalidTransition().WithDetail("reason", "concurrent status change")
	}

	logx.WithFields(logx.Fields{
		"campaign_id": id.String(),
		"from":        string(c.Status),
		"to":          string(target),
		"user_id":     actor.UserID.String(),
	}).Infof("campaign status changed")

	c.Status = target
	c.UpdatedAt = time.Now()
	return c, nil
}

func (s *CampaignService) checkPrecondition(ctx context.Context, c *campaign.Campaign, p campaign.Precondition) error {
	switch p {
	case campaign.PreconditionNone:
		return nil
	case campaign.PreconditionReadyForReview:
		positionCount, err := s.positions.CountByCampaign(ctx, c.ID)
		if err != nil {
			return errx.Wrap(err, "failed to count campaign positions", errx.TypeInternal)
		}
		facilityCount, err := s.facilities.CountByCampaign(ctx, c.ID)
		if err != nil {
			return errx.Wrap(err, "failed to count authorized facilities", errx.TypeInternal)
		}
		if positionCount == 0 || facilityCount == 0 {
			return campaign.ErrNotReadyForReview().
				WithDetail("positions", positionCount).
				WithDetail("facilities", facilityCount)
		}
		return nil
	default:
		return campaign.ErrInvalidTransition().WithDetail("precondition", string(p))
	}
}

// ============================================================================
// Configuración: puestos, establecimientos, validadores
// ============================================================================

// AddPosition agrega un puesto del catálogo a la convocatoria
func (s *CampaignService) AddPosition(ctx context.Context, actor *kernel.AuthContext, id kernel.CampaignID, req campaign.AddPositionRequest) (*campaign.Position, error) {
	if _, err := s.editableCampaign(ctx, actor, id); err != nil {
		return nil, err
	}

	if req.SlotsAuthorized <= 0 {
		return nil, campaign.ErrInvalidSlots()
	}

	if _, err := s.positionCatalog.FindPosition(ctx, req.PositionID); err != nil {
		return nil, err
	}

	p := campaign.Position{
		ID:              uuid.NewString(),
		CampaignID:      id,
		PositionID:      req.PositionID,
		SlotsAuthorized: req.SlotsAuthorized,
		CreatedAt:       time.Now(),
	}
	if err := s.positions.Add(ctx, p); err != nil {
		return nil, err
	}
	return &p, nil
}

// RemovePosition quita un puesto; sus asignaciones de validador caen por
// cascada en el esquema.
func (s *CampaignService) RemovePosition(ctx context.Context, actor *kernel.AuthContext, id kernel.CampaignID, positionID kernel.PositionID) error {
	if _, err := s.editableCampaign(ctx, actor, id); err != nil {
		return err
	}

	removed, err := s.positions.Remove(ctx, id, positionID)
	if err != nil {
		return errx.Wrap(err, "failed to remove campaign position", errx.TypeInternal)
	}
	if !removed {
		return campaign.ErrPositionNotInCampaign().WithDetail("position_id", positionID.String())
	}
	return nil
}

// AddFacilities agrega establecimientos por lista de CLUES. Las CLUES que no
// existen en el catálogo se reportan sin abortar el resto; las ya
// autorizadas se ignoran.
func (s *CampaignService) AddFacilities(ctx context.Context, actor *kernel.AuthContext, id kernel.CampaignID, req campaign.AddFacilitiesRequest) (*campaign.AddFacilitiesResponse, error) {
	if _, err := s.editableCampaign(ctx, actor, id); err != nil {
		return nil, err
	}

	requested := catalog.NormalizeCLUES(req.CLUES)
	if len(requested) == 0 {
		return nil, campaign.ErrNoValidCLUES()
	}

	known, err := s.facilityCatalog.FindFacilities(ctx, requested)
	if err != nil {
		return nil, err
	}

	knownSet := make(map[kernel.CLUES]struct{}, len(known))
	valid := make([]kernel.CLUES, 0, len(known))
	for _, f := range known {
		knownSet[f.CLUES] = struct{}{}
		valid = append(valid, f.CLUES)
	}

	unknown := make([]string, 0)
	for _, clues := range requested {
		if _, ok := knownSet[clues]; !ok {
			unknown = append(unknown, clues.String())
		}
	}

	if len(valid) == 0 {
		return nil, campaign.ErrNoValidCLUES().WithDetail("unknown", unknown)
	}

	added, err := s.facilities.AddIgnoreDuplicates(ctx, id, valid)
	if err != nil {
		return nil, errx.Wrap(err, "failed to add authorized facilities", errx.TypeInternal)
	}

	return &campaign.AddFacilitiesResponse{
		Added:   added,
		Skipped: len(valid) - added,
		Unknown: unknown,
	}, nil
}

// RemoveFacility quita un establecimiento autorizado
func (s *CampaignService) RemoveFacility(ctx context.Context, actor *kernel.AuthContext, id kernel.CampaignID, facilityID string) error {
	if _, err := s.editableCampaign(ctx, actor, id); err != nil {
		return err
	}

	removed, err := s.facilities.Remove(ctx, id, facilityID)
	if err != nil {
		return errx.Wrap(err, "failed to remove authorized facility", errx.TypeInternal)
	}
	if !removed {
		return campaign.ErrFacilityNotInCampaign().WithDetail("facility_id", facilityID)
	}
	return nil
}

// AssignValidator asigna una unidad validadora a un puesto de la
// convocatoria. La asignación duplicada se ignora en silencio.
func (s *CampaignService) AssignValidator(ctx context.Context, actor *kernel.AuthContext, id kernel.CampaignID, req campaign.AssignValidatorRequest) (*campaign.Validator, error) {
	if _, err := s.editableCampaign(ctx, actor, id); err != nil {
		return nil, err
	}

	configured, err := s.positions.Exists(ctx, id, req.PositionID)
	if err != nil {
		return nil, errx.Wrap(err, "failed to check campaign position", errx.TypeInternal)
	}
	if !configured {
		return nil, campaign.ErrPositionNotInCampaign().WithDetail("position_id", req.PositionID.String())
	}

	if _, err := s.unitCatalog.FindValidatorUnit(ctx, req.ValidatorUnitID); err != nil {
		return nil, err
	}

	v := campaign.Validator{
		ID:              uuid.NewString(),
		CampaignID:      id,
		PositionID:      req.PositionID,
		ValidatorUnitID: req.ValidatorUnitID,
		Required:        true,
		CreatedAt:       time.Now(),
	}
	if _, err := s.validators.AddIgnoreDuplicate(ctx, v); err != nil {
		return nil, errx.Wrap(err, "failed to assign validator unit", errx.TypeInternal)
	}
	return &v, nil
}

// RemoveValidator quita una asignación de validador
func (s *CampaignService) RemoveValidator(ctx context.Context, actor *kernel.AuthContext, id kernel.CampaignID, assignmentID string) error {
	if _, err := s.editableCampaign(ctx, actor, id); err != nil {
		return err
	}

	removed, err := s.validators.Remove(ctx, id, assignmentID)
	if err != nil {
		return errx.Wrap(err, "failed to remove validator assignment", errx.TypeInternal)
	}
	if !removed {
		return campaign.ErrValidatorNotInCampaign().WithDetail("assignment_id", assignmentID)
	}
	return nil
}

// editableCampaign valida rol de edición y que la convocatoria siga en
// borrador. Toda mutación de configuración pasa por aquí.
func (s *CampaignService) editableCampaign(ctx context.Context, actor *kernel.AuthContext, id kernel.CampaignID) (*campaign.Campaign, error) {
	if !access.Can(iam.RolesFromStrings(actor.Roles), access.ActionCampaignEdit) {
		return nil, iam.ErrForbidden().WithDetail("action", string(access.ActionCampaignEdit))
	}

	c, err := s.campaigns.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !c.IsEditable() {
		return nil, campaign.ErrNotEditable().WithDetail("status", string(c.Status))
	}
	return c, nil
}
