package proposalsrv

import (
	"context"
	"testing"
	"time"

	"github.com/Abraxas-365/convocatoria/pkg/config"
	"github.com/Abraxas-365/convocatoria/pkg/errx"
	"github.com/Abraxas-365/convocatoria/pkg/iam"
	"github.com/Abraxas-365/convocatoria/pkg/kernel"
	"github.com/Abraxas-365/convocatoria/pkg/recruitment/campaign"
	"github.com/Abraxas-365/convocatoria/pkg/recruitment/proposal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validCURP = "GODE561231HDFRRL09"

// ============================================================================
// In-memory fakes
// ============================================================================

// memStore implementa en memoria todos los puertos de persistencia de
// propuestas para ejercitar el servicio completo.
type memStore struct {
	proposals   map[kernel.ProposalID]proposal.Proposal
	validations map[kernel.ValidationID]proposal.Validation
	files       map[kernel.FileID]proposal.CVFile
}

func newMemStore() *memStore {
	return &memStore{
		proposals:   make(map[kernel.ProposalID]proposal.Proposal),
		validations: make(map[kernel.ValidationID]proposal.Validation),
		files:       make(map[kernel.FileID]proposal.CVFile),
	}
}

func (m *memStore) CreateSubmission(_ context.Context, file proposal.CVFile, p proposal.Proposal, validations []proposal.Validation) error {
	m.files[file.ID] = file
	m.proposals[p.ID] = p
	for _, v := range validations {
		m.validations[v.ID] = v
	}
	return nil
}

func (m *memStore) FindByID(_ context.Context, id kernel.ProposalID) (*proposal.Proposal, error) {
	p, ok := m.proposals[id]
	if !ok {
		return nil, proposal.ErrNotFound()
	}
	return &p, nil
}

func (m *memStore) FindBySubmitter(_ context.Context, userID kernel.UserID) ([]proposal.Proposal, error) {
	var out []proposal.Proposal
	for _, p := range m.proposals {
		if p.SubmittedBy == userID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *memStore) ApplyOutcome(_ context.Context, id kernel.ProposalID, outcome proposal.Status, rejectionReason *string) (bool, error) {
	p, ok := m.proposals[id]
	if !ok || p.Status.IsTerminal() {
		return false, nil
	}
	p.Status = outcome
	if rejectionReason != nil {
		p.RejectionReason = rejectionReason
	}
	m.proposals[id] = p
	return true, nil
}

type validationRepo struct{ store *memStore }

func (r *validationRepo) FindByID(_ context.Context, id kernel.ValidationID) (*proposal.Validation, error) {
	v, ok := r.store.validations[id]
	if !ok {
		return nil, proposal.ErrValidationNotFound()
	}
	return &v, nil
}

func (r *validationRepo) FindByProposal(_ context.Context, proposalID kernel.ProposalID) ([]proposal.Validation, error) {
	var out []proposal.Validation
	for _, v := range r.store.validations {
		if v.ProposalID == proposalID {
			out = append(out, v)
		}
	}
	return out, nil
}

func (r *validationRepo) FindPendingForUnit(_ context.Context, unitID kernel.ValidatorUnitID) ([]proposal.PendingValidation, error) {
	var out []proposal.PendingValidation
	for _, v := range r.store.validations {
		if v.ValidatorUnitID != unitID || v.IsDecided() {
			continue
		}
		p := r.store.proposals[v.ProposalID]
		if p.Status.IsTerminal() {
			continue
		}
		out = append(out, proposal.PendingValidation{Validation: v, Proposal: p})
	}
	return out, nil
}

func (r *validationRepo) RecordDecision(_ context.Context, id kernel.ValidationID, decision proposal.Decision, reason *string, decidedBy kernel.UserID, decidedAt time.Time) (bool, error) {
	v, ok := r.store.validations[id]
	if !ok || v.IsDecided() {
		return false, nil
	}
	v.Decision = &decision
	v.Reason = reason
	v.DecidedBy = &decidedBy
	v.DecidedAt = &decidedAt
	r.store.validations[id] = v
	return true, nil
}

type fileRepo struct{ store *memStore }

func (r *fileRepo) FindByID(_ context.Context, id kernel.FileID) (*proposal.CVFile, error) {
	f, ok := r.store.files[id]
	if !ok {
		return nil, proposal.ErrNotFound()
	}
	return &f, nil
}

type fakeIdempotency struct {
	reserved map[string]bool
}

func (f *fakeIdempotency) Reserve(_ context.Context, key string, _ time.Duration) (bool, error) {
	if f.reserved[key] {
		return false, nil
	}
	f.reserved[key] = true
	return true, nil
}

func (f *fakeIdempotency) Release(_ context.Context, key string) error {
	delete(f.reserved, key)
	return nil
}

// fakeCampaignStore implementa los puertos de convocatoria que el servicio
// de propuestas consulta.
type fakeCampaignStore struct {
	campaign  campaign.Campaign
	positions []kernel.PositionID
	clues     []kernel.CLUES
	units     []kernel.ValidatorUnitID
}

func (f *fakeCampaignStore) Save(_ context.Context, c campaign.Campaign) error { return nil }

func (f *fakeCampaignStore) FindByID(_ context.Context, id kernel.CampaignID) (*campaign.Campaign, error) {
	if id != f.campaign.ID {
		return nil, campaign.ErrNotFound()
	}
	c := f.campaign
	return &c, nil
}

func (f *fakeCampaignStore) FindAll(_ context.Context) ([]campaign.Campaign, error) {
	return []campaign.Campaign{f.campaign}, nil
}

func (f *fakeCampaignStore) FindByStatus(_ context.Context, _ ...campaign.Status) ([]campaign.Campaign, error) {
	return []campaign.Campaign{f.campaign}, nil
}

func (f *fakeCampaignStore) UpdateStatus(_ context.Context, _ kernel.CampaignID, _, _ campaign.Status) (bool, error) {
	return true, nil
}

func (f *fakeCampaignStore) Add(_ context.Context, _ campaign.Position) error { return nil }

func (f *fakeCampaignStore) Remove(_ context.Context, _ kernel.CampaignID, _ kernel.PositionID) (bool, error) {
	return false, nil
}

func (f *fakeCampaignStore) FindByCampaign(_ context.Context, _ kernel.CampaignID) ([]campaign.Position, error) {
	return nil, nil
}

func (f *fakeCampaignStore) CountByCampaign(_ context.Context, _ kernel.CampaignID) (int, error) {
	return len(f.positions), nil
}

func (f *fakeCampaignStore) Exists(_ context.Context, _ kernel.CampaignID, positionID kernel.PositionID) (bool, error) {
	for _, p := range f.positions {
		if p == positionID {
			return true, nil
		}
	}
	return false, nil
}

type fakeFacilities struct{ store *fakeCampaignStore }

func (f *fakeFacilities) AddIgnoreDuplicates(_ context.Context, _ kernel.CampaignID, _ []kernel.CLUES) (int, error) {
	return 0, nil
}

func (f *fakeFacilities) Remove(_ context.Context, _ kernel.CampaignID, _ string) (bool, error) {
	return false, nil
}

func (f *fakeFacilities) FindByCampaign(_ context.Context, _ kernel.CampaignID) ([]campaign.AuthorizedFacility, error) {
	return nil, nil
}

func (f *fakeFacilities) CountByCampaign(_ context.Context, _ kernel.CampaignID) (int, error) {
	return len(f.store.clues), nil
}

func (f *fakeFacilities) IsAuthorized(_ context.Context, _ kernel.CampaignID, clues kernel.CLUES) (bool, error) {
	for _, c := range f.store.clues {
		if c == clues {
			return true, nil
		}
	}
	return false, nil
}

type fakeValidators struct{ store *fakeCampaignStore }

func (f *fakeValidators) AddIgnoreDuplicate(_ context.Context, _ campaign.Validator) (bool, error) {
	return true, nil
}

func (f *fakeValidators) Remove(_ context.Context, _ kernel.CampaignID, _ string) (bool, error) {
	return false, nil
}

func (f *fakeValidators) FindByCampaign(_ context.Context, _ kernel.CampaignID) ([]campaign.Validator, error) {
	return nil, nil
}

func (f *fakeValidators) FindUnitsForPosition(_ context.Context, _ kernel.CampaignID, _ kernel.PositionID) ([]kernel.ValidatorUnitID, error) {
	return f.store.units, nil
}

// fakeUnitResolver asigna una unidad por usuario
type fakeUnitResolver struct {
	units map[kernel.UserID]kernel.ValidatorUnitID
}

func (f *fakeUnitResolver) ValidatorUnitFor(_ context.Context, userID kernel.UserID) (*kernel.ValidatorUnitID, error) {
	u, ok := f.units[userID]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

type fakeBlobStore struct {
	written map[string][]byte
}

func (f *fakeBlobStore) ReadFile(_ context.Context, path string) ([]byte, error) {
	return f.written[path], nil
}

func (f *fakeBlobStore) WriteFile(_ context.Context, path string, data []byte, _ string) (string, error) {
	if f.written == nil {
		f.written = make(map[string][]byte)
	}
	f.written[path] = data
	return path, nil
}

func (f *fakeBlobStore) Exists(_ context.Context, path string) (bool, error) {
	_, ok := f.written[path]
	return ok, nil
}

func (f *fakeBlobStore) Delete(_ context.Context, path string) error {
	delete(f.written, path)
	return nil
}

func (f *fakeBlobStore) SignedURL(_ context.Context, path string, _ time.Duration) (string, error) {
	return "https://files.test/" + path + "?signed=1", nil
}

// ============================================================================
// Fixture
// ============================================================================

type fixture struct {
	svc      *ProposalService
	store    *memStore
	campaign *fakeCampaignStore
	resolver *fakeUnitResolver
}

func newFixture(units ...kernel.ValidatorUnitID) *fixture {
	campaignStore := &fakeCampaignStore{
		campaign: campaign.Campaign{
			ID:     "camp-1",
			Name:   "Campaña Enero 2025",
			Status: campaign.StatusActive,
		},
		positions: []kernel.PositionID{"pos-medico"},
		clues:     []kernel.CLUES{"ASSSA000011"},
		units:     units,
	}

	store := newMemStore()
	resolver := &fakeUnitResolver{units: map[kernel.UserID]kernel.ValidatorUnitID{}}

	svc := NewProposalService(
		store,
		&validationRepo{store: store},
		&fileRepo{store: store},
		store,
		&fakeIdempotency{reserved: map[string]bool{}},
		campaignStore,
		campaignStore,
		&fakeFacilities{store: campaignStore},
		&fakeValidators{store: campaignStore},
		resolver,
		&fakeBlobStore{},
		config.StorageConfig{MaxCVSize: 10 * 1024 * 1024, SignedURLTTL: 5 * time.Minute},
	)

	return &fixture{svc: svc, store: store, campaign: campaignStore, resolver: resolver}
}

func coordinator() *kernel.AuthContext {
	return &kernel.AuthContext{
		UserID: "coord-1",
		Email:  "coord@salud.gob.mx",
		Name:   "Coordinación Estatal",
		Roles:  []string{string(iam.RoleCoordEstatal)},
	}
}

func validatorActor(userID kernel.UserID) *kernel.AuthContext {
	return &kernel.AuthContext{
		UserID: userID,
		Email:  string(userID) + "@salud.gob.mx",
		Name:   "Validador",
		Roles:  []string{string(iam.RoleValidador)},
	}
}

func validSubmission() proposal.SubmitRequest {
	return proposal.SubmitRequest{
		CampaignID:    "camp-1",
		PositionID:    "pos-medico",
		CLUES:         "ASSSA000011",
		CURP:          validCURP,
		CandidateName: "María Pérez",
		CVContent:     []byte("%PDF-1.7 fake"),
		CVContentType: "application/pdf",
	}
}

// submit crea una propuesta válida y retorna sus validaciones indexadas por unidad
func (f *fixture) submit(t *testing.T) (*proposal.Proposal, map[kernel.ValidatorUnitID]kernel.ValidationID) {
	t.Helper()
	p, err := f.svc.Submit(context.Background(), coordinator(), validSubmission())
	require.NoError(t, err)

	byUnit := make(map[kernel.ValidatorUnitID]kernel.ValidationID)
	for _, v := range f.store.validations {
		if v.ProposalID == p.ID {
			byUnit[v.ValidatorUnitID] = v.ID
		}
	}
	return p, byUnit
}

// decideAs registra un veredicto como el validador de la unidad dada
func (f *fixture) decideAs(t *testing.T, unit kernel.ValidatorUnitID, validationID kernel.ValidationID, req proposal.DecisionRequest) (*proposal.Proposal, error) {
	t.Helper()
	userID := kernel.UserID("validator-" + string(unit))
	f.resolver.units[userID] = unit
	return f.svc.RecordDecision(context.Background(), validatorActor(userID), validationID, req)
}

// ============================================================================
// Submission tests
// ============================================================================

func TestSubmit(t *testing.T) {
	t.Run("creates proposal with validation fan-out", func(t *testing.T) {
		f := newFixture("unit-1", "unit-2")
		p, byUnit := f.submit(t)

		assert.Equal(t, proposal.StatusInValidation, p.Status)
		assert.Equal(t, validCURP, p.CURP)
		assert.Len(t, byUnit, 2)
	})

	t.Run("lowercase curp is normalized", func(t *testing.T) {
		f := newFixture("unit-1")
		req := validSubmission()
		req.CURP = "gode561231hdfrrl09"

		p, err := f.svc.Submit(context.Background(), coordinator(), req)
		require.NoError(t, err)
		assert.Equal(t, validCURP, p.CURP)
	})

	t.Run("zero validators stays submitted", func(t *testing.T) {
		f := newFixture()
		p, byUnit := f.submit(t)

		assert.Equal(t, proposal.StatusSubmitted, p.Status)
		assert.Empty(t, byUnit)
	})

	t.Run("invalid curp rejected", func(t *testing.T) {
		f := newFixture("unit-1")
		req := validSubmission()
		req.CURP = "INVALID"

		_, err := f.svc.Submit(context.Background(), coordinator(), req)
		assert.True(t, errx.IsType(err, errx.TypeValidation))
	})

	t.Run("inactive campaign rejected", func(t *testing.T) {
		f := newFixture("unit-1")
		f.campaign.campaign.Status = campaign.StatusInactive

		_, err := f.svc.Submit(context.Background(), coordinator(), validSubmission())
		assert.True(t, errx.IsType(err, errx.TypeValidation))
	})

	t.Run("position not offered rejected", func(t *testing.T) {
		f := newFixture("unit-1")
		req := validSubmission()
		req.PositionID = "pos-enfermeria"

		_, err := f.svc.Submit(context.Background(), coordinator(), req)
		assert.True(t, errx.IsType(err, errx.TypeValidation))
	})

	t.Run("unauthorized facility rejected", func(t *testing.T) {
		f := newFixture("unit-1")
		req := validSubmission()
		req.CLUES = "ZZSSA999999"

		_, err := f.svc.Submit(context.Background(), coordinator(), req)
		assert.True(t, errx.IsType(err, errx.TypeValidation))
	})

	t.Run("oversized cv rejected", func(t *testing.T) {
		f := newFixture("unit-1")
		req := validSubmission()
		req.CVContent = make([]byte, 11*1024*1024)

		_, err := f.svc.Submit(context.Background(), coordinator(), req)
		assert.True(t, errx.IsType(err, errx.TypeValidation))
	})

	t.Run("non pdf rejected", func(t *testing.T) {
		f := newFixture("unit-1")
		req := validSubmission()
		req.CVContentType = "application/msword"

		_, err := f.svc.Submit(context.Background(), coordinator(), req)
		assert.True(t, errx.IsType(err, errx.TypeValidation))
	})

	t.Run("duplicate idempotency key conflicts", func(t *testing.T) {
		f := newFixture("unit-1")
		req := validSubmission()
		req.IdempotencyKey = "retry-abc"

		_, err := f.svc.Submit(context.Background(), coordinator(), req)
		require.NoError(t, err)

		_, err = f.svc.Submit(context.Background(), coordinator(), req)
		assert.True(t, errx.IsType(err, errx.TypeConflict))
	})

	t.Run("non coordinator cannot submit", func(t *testing.T) {
		f := newFixture("unit-1")
		actor := &kernel.AuthContext{UserID: "rh-1", Email: "rh@x", Name: "RH", Roles: []string{string(iam.RoleRH)}}

		_, err := f.svc.Submit(context.Background(), actor, validSubmission())
		assert.True(t, errx.IsType(err, errx.TypeAuthorization))
	})
}

// ============================================================================
// Consensus tests
// ============================================================================

// Con dos unidades: la primera aprueba y la propuesta sigue en validación;
// la segunda rechaza y la propuesta queda rechazada con la razón estampada.
func TestConsensusAnyRejection(t *testing.T) {
	f := newFixture("unit-1", "unit-2")
	p, byUnit := f.submit(t)

	updated, err := f.decideAs(t, "unit-1", byUnit["unit-1"], proposal.DecisionRequest{Decision: proposal.DecisionApproved})
	require.NoError(t, err)
	assert.Equal(t, proposal.StatusInValidation, updated.Status)

	updated, err = f.decideAs(t, "unit-2", byUnit["unit-2"], proposal.DecisionRequest{
		Decision: proposal.DecisionRejected,
		Reason:   "CV incompleto",
	})
	require.NoError(t, err)
	assert.Equal(t, proposal.StatusRejected, updated.Status)
	require.NotNil(t, updated.RejectionReason)
	assert.Equal(t, "CV incompleto", *updated.RejectionReason)

	stored := f.store.proposals[p.ID]
	assert.Equal(t, proposal.StatusRejected, stored.Status)
}

// Con una sola unidad que aprueba, la propuesta queda aprobada
func TestConsensusUnanimousApproval(t *testing.T) {
	f := newFixture("unit-1")
	_, byUnit := f.submit(t)

	updated, err := f.decideAs(t, "unit-1", byUnit["unit-1"], proposal.DecisionRequest{Decision: proposal.DecisionApproved})
	require.NoError(t, err)
	assert.Equal(t, proposal.StatusApproved, updated.Status)
}

func TestConsensusThreeUnits(t *testing.T) {
	f := newFixture("unit-1", "unit-2", "unit-3")
	_, byUnit := f.submit(t)

	updated, err := f.decideAs(t, "unit-1", byUnit["unit-1"], proposal.DecisionRequest{Decision: proposal.DecisionApproved})
	require.NoError(t, err)
	assert.Equal(t, proposal.StatusInValidation, updated.Status)

	updated, err = f.decideAs(t, "unit-2", byUnit["unit-2"], proposal.DecisionRequest{Decision: proposal.DecisionApproved})
	require.NoError(t, err)
	assert.Equal(t, proposal.StatusInValidation, updated.Status)

	updated, err = f.decideAs(t, "unit-3", byUnit["unit-3"], proposal.DecisionRequest{Decision: proposal.DecisionApproved})
	require.NoError(t, err)
	assert.Equal(t, proposal.StatusApproved, updated.Status)
}

// Un veredicto tardío sobre una propuesta ya rechazada se registra pero no
// cambia el estado terminal
func TestLateDecisionDoesNotDemoteTerminalStatus(t *testing.T) {
	f := newFixture("unit-1", "unit-2")
	p, byUnit := f.submit(t)

	_, err := f.decideAs(t, "unit-1", byUnit["unit-1"], proposal.DecisionRequest{
		Decision: proposal.DecisionRejected,
		Reason:   "Documentación ilegible",
	})
	require.NoError(t, err)

	updated, err := f.decideAs(t, "unit-2", byUnit["unit-2"], proposal.DecisionRequest{Decision: proposal.DecisionApproved})
	require.NoError(t, err)
	assert.Equal(t, proposal.StatusRejected, updated.Status)

	stored := f.store.proposals[p.ID]
	require.NotNil(t, stored.RejectionReason)
	assert.Equal(t, "Documentación ilegible", *stored.RejectionReason)
}

func TestDecisionWriteOnce(t *testing.T) {
	f := newFixture("unit-1", "unit-2")
	_, byUnit := f.submit(t)

	_, err := f.decideAs(t, "unit-1", byUnit["unit-1"], proposal.DecisionRequest{Decision: proposal.DecisionApproved})
	require.NoError(t, err)

	_, err = f.decideAs(t, "unit-1", byUnit["unit-1"], proposal.DecisionRequest{
		Decision: proposal.DecisionRejected,
		Reason:   "cambio de opinión",
	})
	assert.True(t, errx.IsType(err, errx.TypeConflict))

	// El primer veredicto queda intacto
	v := f.store.validations[byUnit["unit-1"]]
	require.NotNil(t, v.Decision)
	assert.Equal(t, proposal.DecisionApproved, *v.Decision)
	assert.Nil(t, v.Reason)
}

func TestRejectionRequiresReason(t *testing.T) {
	f := newFixture("unit-1")
	_, byUnit := f.submit(t)

	_, err := f.decideAs(t, "unit-1", byUnit["unit-1"], proposal.DecisionRequest{
		Decision: proposal.DecisionRejected,
		Reason:   "   ",
	})
	assert.True(t, errx.IsType(err, errx.TypeValidation))

	// Sin mutación: la validación sigue sin veredicto
	v := f.store.validations[byUnit["unit-1"]]
	assert.False(t, v.IsDecided())
}

func TestDecisionUnitOwnership(t *testing.T) {
	f := newFixture("unit-1", "unit-2")
	_, byUnit := f.submit(t)

	t.Run("other unit cannot decide", func(t *testing.T) {
		_, err := f.decideAs(t, "unit-2", byUnit["unit-1"], proposal.DecisionRequest{Decision: proposal.DecisionApproved})
		assert.True(t, errx.IsType(err, errx.TypeAuthorization))
	})

	t.Run("validator without unit cannot decide", func(t *testing.T) {
		actor := validatorActor("validator-sin-unidad")
		_, err := f.svc.RecordDecision(context.Background(), actor, byUnit["unit-1"], proposal.DecisionRequest{Decision: proposal.DecisionApproved})
		assert.True(t, errx.IsType(err, errx.TypeAuthorization))
	})
}

// ============================================================================
// Worklist and CV access
// ============================================================================

func TestPendingForActor(t *testing.T) {
	f := newFixture("unit-1", "unit-2")
	p, byUnit := f.submit(t)

	userID := kernel.UserID("validator-unit-1")
	f.resolver.units[userID] = "unit-1"

	pending, err := f.svc.PendingForActor(context.Background(), validatorActor(userID))
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, p.ID, pending[0].Proposal.ID)

	_, err = f.decideAs(t, "unit-1", byUnit["unit-1"], proposal.DecisionRequest{Decision: proposal.DecisionApproved})
	require.NoError(t, err)

	pending, err = f.svc.PendingForActor(context.Background(), validatorActor(userID))
	require.NoError(t, err)
	assert.Empty(t, pending)
}

func TestCVSignedURL(t *testing.T) {
	f := newFixture("unit-1")
	p, _ := f.submit(t)

	t.Run("submitter gets url", func(t *testing.T) {
		signed, err := f.svc.CVSignedURL(context.Background(), coordinator(), p.ID)
		require.NoError(t, err)
		assert.Contains(t, signed.URL, "signed=1")
		assert.Equal(t, int64(300), signed.ExpiresIn)
	})

	t.Run("validator gets url", func(t *testing.T) {
		signed, err := f.svc.CVSignedURL(context.Background(), validatorActor("validator-x"), p.ID)
		require.NoError(t, err)
		assert.NotEmpty(t, signed.URL)
	})

	t.Run("other coordinator denied", func(t *testing.T) {
		other := &kernel.AuthContext{UserID: "coord-2", Email: "x@y", Name: "Otro", Roles: []string{string(iam.RoleCoordEstatal)}}
		_, err := f.svc.CVSignedURL(context.Background(), other, p.ID)
		assert.True(t, errx.IsType(err, errx.TypeAuthorization))
	})
}

func TestListMine(t *testing.T) {
	f := newFixture("unit-1")
	p, _ := f.submit(t)

	mine, err := f.svc.ListMine(context.Background(), coordinator())
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, p.ID, mine[0].ID)

	other := &kernel.AuthContext{UserID: "coord-2", Email: "x@y", Name: "Otro", Roles: []string{string(iam.RoleCoordEstatal)}}
	mine, err = f.svc.ListMine(context.Background(), other)
	require.NoError(t, err)
	assert.Empty(t, mine)
}

// ============================================================================
// Pure consensus function
// ============================================================================

func TestConsensusOutcome(t *testing.T) {
	approved := proposal.DecisionApproved
	rejected := proposal.DecisionRejected

	tests := []struct {
		name        string
		validations []proposal.Validation
		want        proposal.Status
	}{
		{"no validations", nil, proposal.StatusSubmitted},
		{"all undecided", []proposal.Validation{{}, {}}, proposal.StatusInValidation},
		{"partial approval", []proposal.Validation{{Decision: &approved}, {}}, proposal.StatusInValidation},
		{"unanimous approval", []proposal.Validation{{Decision: &approved}, {Decision: &approved}}, proposal.StatusApproved},
		{"single rejection wins", []proposal.Validation{{Decision: &approved}, {Decision: &rejected}}, proposal.StatusRejected},
		{"rejection with undecided rest", []proposal.Validation{{Decision: &rejected}, {}, {}}, proposal.StatusRejected},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, proposal.ConsensusOutcome(tt.validations))
		})
	}
}
