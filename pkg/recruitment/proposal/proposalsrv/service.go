package proposalsrv

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Abraxas-365/convocatoria/pkg/config"
	"github.com/Abraxas-365/convocatoria/pkg/curpx"
	"github.com/Abraxas-365/convocatoria/pkg/errx"
	"github.com/Abraxas-365/convocatoria/pkg/fsx"
	"github.com/Abraxas-365/convocatoria/pkg/iam"
	"github.com/Abraxas-365/convocatoria/pkg/iam/access"
	"github.com/Abraxas-365/convocatoria/pkg/iam/auth"
	"github.com/Abraxas-365/convocatoria/pkg/kernel"
	"github.com/Abraxas-365/convocatoria/pkg/logx"
	"github.com/Abraxas-365/convocatoria/pkg/recruitment/campaign"
	"github.com/Abraxas-365/convocatoria/pkg/recruitment/proposal"
	"github.com/google/uuid"
)

const idempotencyTTL = 24 * time.Hour

// ProposalService orquesta el envío de propuestas y el consenso de
// validación. El servicio es sin estado: cada operación lee el estado
// vigente, valida y escribe; la corrección bajo concurrencia descansa en las
// restricciones del esquema.
type ProposalService struct {
	proposals   proposal.ProposalRepository
	validations proposal.ValidationRepository
	files       proposal.FileRepository
	submissions proposal.SubmissionStore
	idempotency proposal.IdempotencyStore

	campaigns          campaign.CampaignRepository
	campaignPositions  campaign.PositionRepository
	campaignFacilities campaign.FacilityRepository
	campaignValidators campaign.ValidatorRepository

	unitResolver auth.ValidatorUnitResolver
	storage      fsx.FileSystem
	storageCfg   config.StorageConfig
}

func NewProposalService(
	proposals proposal.ProposalRepository,
	validations proposal.ValidationRepository,
	files proposal.FileRepository,
	submissions proposal.SubmissionStore,
	idempotency proposal.IdempotencyStore,
	campaigns campaign.CampaignRepository,
	campaignPositions campaign.PositionRepository,
	campaignFacilities campaign.FacilityRepository,
	campaignValidators campaign.ValidatorRepository,
	unitResolver auth.ValidatorUnitResolver,
	storage fsx.FileSystem,
	storageCfg config.StorageConfig,
) *ProposalService {
	return &ProposalService{
		proposals:          proposals,
		validations:        validations,
		files:              files,
		submissions:        submissions,
		idempotency:        idempotency,
		campaigns:          campaigns,
		campaignPositions:  campaignPositions,
		campaignFacilities: campaignFacilities,
		campaignValidators: campaignValidators,
		unitResolver:       unitResolver,
		storage:            storage,
		storageCfg:         storageCfg,
	}
}

// ============================================================================
// Submission
// ============================================================================

// Submit registra una propuesta de candidato: valida los datos contra la
// convocatoria, sube el CV, crea la propuesta y el abanico de validaciones
// en una transacción, y la promueve a IN_VALIDATION si hay al menos una
// unidad asignada.
func (s *ProposalService) Submit(ctx context.Context, actor *kernel.AuthContext, req proposal.SubmitRequest) (*proposal.Proposal, error) {
	if !access.Can(iam.RolesFromStrings(actor.Roles), access.ActionProposalSubmit) {
		return nil, iam.ErrForbidden().WithDetail("action", string(access.ActionProposalSubmit))
	}

	if !curpx.IsValid(req.CURP) {
		return nil, proposal.ErrInvalidCURP().WithDetail("curp", req.CURP)
	}
	if strings.TrimSpace(req.CandidateName) == "" {
		return nil, proposal.ErrCandidateNameNeeded()
	}
	if len(req.CVContent) == 0 || int64(len(req.CVContent)) > s.storageCfg.MaxCVSize {
		return nil, proposal.ErrInvalidCV().WithDetail("size_bytes", len(req.CVContent))
	}
	if req.CVContentType != "application/pdf" {
		return nil, proposal.ErrInvalidCV().WithDetail("content_type", req.CVContentType)
	}

	c, err := s.campaigns.FindByID(ctx, req.CampaignID)
	if err != nil {
		return nil, err
	}
	if c.Status != campaign.StatusActive {
		return nil, proposal.ErrCampaignNotActive().WithDetail("status", string(c.Status))
	}

	offered, err := s.campaignPositions.Exists(ctx, req.CampaignID, req.PositionID)
	if err != nil {
		return nil, errx.Wrap(err, "failed to check campaign position", errx.TypeInternal)
	}
	if !offered {
		return nil, proposal.ErrPositionNotOffered().WithDetail("position_id", req.PositionID.String())
	}

	authorized, err := s.campaignFacilities.IsAuthorized(ctx, req.CampaignID, req.CLUES)
	if err != nil {
		return nil, errx.Wrap(err, "failed to check authorized facility", errx.TypeInternal)
	}
	if !authorized {
		return nil, proposal.ErrFacilityNotAllowed().WithDetail("clues", req.CLUES.String())
	}

	if req.IdempotencyKey != "" {
		reserved, err := s.idempotency.Reserve(ctx, req.IdempotencyKey, idempotencyTTL)
		if err != nil {
			return nil, errx.Wrap(err, "failed to reserve idempotency key", errx.TypeExternal)
		}
		if !reserved {
			return nil, proposal.ErrDuplicateSubmission().WithDetail("idempotency_key", req.IdempotencyKey)
		}
	}

	proposalID := kernel.NewProposalID(uuid.NewString())
	now := time.Now()

	cvPath := fmt.Sprintf("cv/%s/%s.pdf", req.CampaignID.String(), proposalID.String())
	storedPath, err := s.storage.WriteFile(ctx, cvPath, req.CVContent, req.CVContentType)
	if err != nil {
		s.releaseKey(ctx, req.IdempotencyKey)
		return nil, errx.Wrap(err, "failed to store CV", errx.TypeExternal)
	}

	units, err := s.campaignValidators.FindUnitsForPosition(ctx, req.CampaignID, req.PositionID)
	if err != nil {
		s.releaseKey(ctx, req.IdempotencyKey)
		return nil, errx.Wrap(err, "failed to load validator units", errx.TypeInternal)
	}

	file := proposal.CVFile{
		ID:          kernel.NewFileID(uuid.NewString()),
		Path:        storedPath,
		ContentType: req.CVContentType,
		SizeBytes:   int64(len(req.CVContent)),
		UploadedBy:  actor.UserID,
		UploadedAt:  now,
	}

	status := proposal.StatusSubmitted
	if len(units) > 0 {
		status = proposal.StatusInValidation
	}

	p := proposal.Proposal{
		ID:            proposalID,
		CampaignID:    req.CampaignID,
		PositionID:    req.PositionID,
		CLUES:         req.CLUES,
		CURP:          curpx.Normalize(req.CURP),
		CandidateName: strings.TrimSpace(req.CandidateName),
		CVFileID:      file.ID,
		Status:        status,
		SubmittedBy:   actor.UserID,
		SubmittedAt:   now,
	}

	validations := make([]proposal.Validation, len(units))
	for i, unitID := range units {
		validations[i] = proposal.Validation{
			ID:              kernel.NewValidationID(uuid.NewString()),
			ProposalID:      proposalID,
			ValidatorUnitID: unitID,
		}
	}

	if err := s.submissions.CreateSubmission(ctx, file, p, validations); err != nil {
		// El blob queda huérfano; el reintento con la misma llave lo rehace
		s.releaseKey(ctx, req.IdempotencyKey)
		return nil, err
	}

	logx.WithFields(logx.Fields{
		"proposal_id": proposalID.String(),
		"campaign_id": req.CampaignID.String(),
		"validators":  len(units),
		"user_id":     actor.UserID.String(),
	}).Infof("proposal submitted")

	return &p, nil
}

func (s *ProposalService) releaseKey(ctx context.Context, key string) {
	if key == "" {
		return
	}
	if err := s.idempotency.Release(ctx, key); err != nil {
		logx.Warnf("failed to release idempotency key %s: %v", key, err)
	}
}

// ListMine retorna las propuestas enviadas por el actor
func (s *ProposalService) ListMine(ctx context.Context, actor *kernel.AuthContext) ([]proposal.Proposal, error) {
	if !access.Can(iam.RolesFromStrings(actor.Roles), access.ActionProposalReadOwn) {
		return nil, iam.ErrForbidden().WithDetail("action", string(access.ActionProposalReadOwn))
	}
	return s.proposals.FindBySubmitter(ctx, actor.UserID)
}

// CVSignedURL genera una URL temporal de lectura del CV. Solo el remitente
// de la propuesta o un validador pueden pedirla.
func (s *ProposalService) CVSignedURL(ctx context.Context, actor *kernel.AuthContext, id kernel.ProposalID) (*proposal.SignedCVURLResponse, error) {
	p, err := s.proposals.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	isSubmitter := p.SubmittedBy == actor.UserID
	isValidator := iam.HasAnyRole(iam.RolesFromStrings(actor.Roles), iam.RoleValidador)
	if !isSubmitter && !isValidator {
		return nil, proposal.ErrCVNotAccessible()
	}

	file, err := s.files.FindByID(ctx, p.CVFileID)
	if err != nil {
		return nil, err
	}

	url, err := s.storage.SignedURL(ctx, file.Path, s.storageCfg.SignedURLTTL)
	if err != nil {
		return nil, errx.Wrap(err, "failed to sign CV url", errx.TypeExternal)
	}

	return &proposal.SignedCVURLResponse{
		URL:       url,
		ExpiresIn: int64(s.storageCfg.SignedURLTTL.Seconds()),
	}, nil
}

// ============================================================================
// Validation decisions
// ============================================================================

// PendingForActor retorna el worklist de validaciones sin veredicto de la
// unidad del actor.
func (s *ProposalService) PendingForActor(ctx context.Context, actor *kernel.AuthContext) ([]proposal.PendingValidation, error) {
	if !access.Can(iam.RolesFromStrings(actor.Roles), access.ActionValidationList) {
		return nil, iam.ErrForbidden().WithDetail("action", string(access.ActionValidationList))
	}

	unitID, err := s.unitResolver.ValidatorUnitFor(ctx, actor.UserID)
	if err != nil {
		return nil, err
	}
	if unitID == nil {
		return nil, proposal.ErrNoUnitAssigned()
	}

	return s.validations.FindPendingForUnit(ctx, *unitID)
}

// RecordDecision registra el veredicto de la unidad del actor sobre una
// validación y recalcula el consenso de la propuesta. El veredicto es de
// una sola escritura; un segundo intento es un conflicto y no altera el
// primero.
func (s *ProposalService) RecordDecision(ctx context.Context, actor *kernel.AuthContext, validationID kernel.ValidationID, req proposal.DecisionRequest) (*proposal.Proposal, error) {
	if !access.Can(iam.RolesFromStrings(actor.Roles), access.ActionValidationDecide) {
		return nil, iam.ErrForbidden().WithDetail("action", string(access.ActionValidationDecide))
	}

	if !req.Decision.IsValid() {
		return nil, proposal.ErrInvalidDecision().WithDetail("decision", string(req.Decision))
	}

	reason := strings.TrimSpace(req.Reason)
	if req.Decision == proposal.DecisionRejected && reason == "" {
		return nil, proposal.ErrReasonRequired()
	}

	v, err := s.validations.FindByID(ctx, validationID)
	if err != nil {
		return nil, err
	}

	unitID, err := s.unitResolver.ValidatorUnitFor(ctx, actor.UserID)
	if err != nil {
		return nil, err
	}
	if unitID == nil {
		return nil, proposal.ErrNoUnitAssigned()
	}
	if v.ValidatorUnitID != *unitID {
		return nil, proposal.ErrNotYourUnit().WithDetail("validation_id", validationID.String())
	}

	var reasonPtr *string
	if reason != "" {
		reasonPtr = &reason
	}

	recorded, err := s.validations.RecordDecision(ctx, validationID, req.Decision, reasonPtr, actor.UserID, time.Now())
	if err != nil {
		return nil, errx.Wrap(err, "failed to record decision", errx.TypeInternal)
	}
	if !recorded {
		return nil, proposal.ErrAlreadyDecided().WithDetail("validation_id", validationID.String())
	}

	return s.recomputeConsensus(ctx, v.ProposalID)
}

// recomputeConsensus deriva el estado de la propuesta a partir de todas sus
// validaciones y lo aplica si cambió. Nunca degrada un estado terminal:
// un veredicto tardío sobre una propuesta ya rechazada se registra pero no
// la mueve.
func (s *ProposalService) recomputeConsensus(ctx context.Context, proposalID kernel.ProposalID) (*proposal.Proposal, error) {
	p, err := s.proposals.FindByID(ctx, proposalID)
	if err != nil {
		return nil, err
	}

	validations, err := s.validations.FindByProposal(ctx, proposalID)
	if err != nil {
		return nil, errx.Wrap(err, "failed to load proposal validations", errx.TypeInternal)
	}

	outcome := proposal.ConsensusOutcome(validations)
	if outcome == p.Status || p.Status.IsTerminal() {
		return p, nil
	}

	var rejectionReason *string
	if outcome == proposal.StatusRejected {
		rejectionReason = proposal.FirstRejectionReason(validations)
	}

	applied, err := s.proposals.ApplyOutcome(ctx, proposalID, outcome, rejectionReason)
	if err != nil {
		return nil, errx.Wrap(err, "failed to apply consensus outcome", errx.TypeInternal)
	}
	if !applied {
		// Otra decisión concurrente resolvió la propuesta primero
		return s.proposals.FindByID(ctx, proposalID)
	}

	logx.WithFields(logx.Fields{
		"proposal_id": proposalID.String(),
		"outcome":     string(outcome),
	}).Infof("proposal consensus updated")

	p.Status = outcome
	p.RejectionReason = rejectionReason
	return p, nil
}
