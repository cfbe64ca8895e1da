package campaignsrv

import (
	"context"
	"testing"

	"github.com/Abraxas-365/convocatoria/pkg/errx"
	"github.com/Abraxas-365/convocatoria/pkg/iam"
	"github.com/Abraxas-365/convocatoria/pkg/kernel"
	"github.com/Abraxas-365/convocatoria/pkg/recruitment/campaign"
	"github.com/Abraxas-365/convocatoria/pkg/recruitment/catalog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ============================================================================
// In-memory fakes
// ============================================================================

type fakeCampaignRepo struct {
	byID map[kernel.CampaignID]campaign.Campaign
}

func newFakeCampaignRepo() *fakeCampaignRepo {
	return &fakeCampaignRepo{byID: make(map[kernel.CampaignID]campaign.Campaign)}
}

func (r *fakeCampaignRepo) Save(_ context.Context, c campaign.Campaign) error {
	r.byID[c.ID] = c
	return nil
}

func (r *fakeCampaignRepo) FindByID(_ context.Context, id kernel.CampaignID) (*campaign.Campaign, error) {
	c, ok := r.byID[id]
	if !ok {
		return nil, campaign.ErrNotFound()
	}
	return &c, nil
}

func (r *fakeCampaignRepo) FindAll(_ context.Context) ([]campaign.Campaign, error) {
	out := make([]campaign.Campaign, 0, len(r.byID))
	for _, c := range r.byID {
		out = append(out, c)
	}
	return out, nil
}

func (r *fakeCampaignRepo) FindByStatus(_ context.Context, statuses ...campaign.Status) ([]campaign.Campaign, error) {
	var out []campaign.Campaign
	for _, c := range r.byID {
		for _, st := range statuses {
			if c.Status == st {
				out = append(out, c)
				break
			}
		}
	}
	return out, nil
}

func (r *fakeCampaignRepo) UpdateStatus(_ context.Context, id kernel.CampaignID, expected, next campaign.Status) (bool, error) {
	c, ok := r.byID[id]
	if !ok || c.Status != expected {
		return false, nil
	}
	c.Status = next
	r.byID[id] = c
	return true, nil
}

type fakePositionRepo struct {
	rows []campaign.Position
}

func (r *fakePositionRepo) Add(_ context.Context, p campaign.Position) error {
	for _, row := range r.rows {
		if row.CampaignID == p.CampaignID && row.PositionID == p.PositionID {
			return campaign.ErrPositionDuplicated()
		}
	}
	r.rows = append(r.rows, p)
	return nil
}

func (r *fakePositionRepo) Remove(_ context.Context, campaignID kernel.CampaignID, positionID kernel.PositionID) (bool, error) {
	for i, row := range r.rows {
		if row.CampaignID == campaignID && row.PositionID == positionID {
			r.rows = append(r.rows[:i], r.rows[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (r *fakePositionRepo) FindByCampaign(_ context.Context, campaignID kernel.CampaignID) ([]campaign.Position, error) {
	var out []campaign.Position
	for _, row := range r.rows {
		if row.CampaignID == campaignID {
			out = append(out, row)
		}
	}
	return out, nil
}

func (r *fakePositionRepo) CountByCampaign(_ context.Context, campaignID kernel.CampaignID) (int, error) {
	count := 0
	for _, row := range r.rows {
		if row.CampaignID == campaignID {
			count++
		}
	}
	return count, nil
}

func (r *fakePositionRepo) Exists(_ context.Context, campaignID kernel.CampaignID, positionID kernel.PositionID) (bool, error) {
	for _, row := range r.rows {
		if row.CampaignID == campaignID && row.PositionID == positionID {
			return true, nil
		}
	}
	return false, nil
}

type fakeFacilityRepo struct {
	rows []campaign.AuthorizedFacility
}

func (r *fakeFacilityRepo) AddIgnoreDuplicates(_ context.Context, campaignID kernel.CampaignID, clues []kernel.CLUES) (int, error) {
	added := 0
	for _, c := range clues {
		exists := false
		for _, row := range r.rows {
			if row.CampaignID == campaignID && row.CLUES == c {
				exists = true
				break
			}
		}
		if !exists {
			r.rows = append(r.rows, campaign.AuthorizedFacility{
				ID:         string(c) + "-row",
				CampaignID: campaignID,
				CLUES:      c,
			})
			added++
		}
	}
	return added, nil
}

func (r *fakeFacilityRepo) Remove(_ context.Context, campaignID kernel.CampaignID, facilityID string) (bool, error) {
	for i, row := range r.rows {
		if row.CampaignID == campaignID && row.ID == facilityID {
			r.rows = append(r.rows[:i], r.rows[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeFacilityRepo) FindByCampaign(_ context.Context, campaignID kernel.CampaignID) ([]campaign.AuthorizedFacility, error) {
	var out []campaign.AuthorizedFacility
	for _, row := range r.rows {
		if row.CampaignID == campaignID {
			out = append(out, row)
		}
	}
	return out, nil
}

func (r *fakeFacilityRepo) CountByCampaign(_ context.Context, campaignID kernel.CampaignID) (int, error) {
	count := 0
	for _, row := range r.rows {
		if row.CampaignID == campaignID {
			count++
		}
	}
	return count, nil
}

func (r *fakeFacilityRepo) IsAuthorized(_ context.Context, campaignID kernel.CampaignID, clues kernel.CLUES) (bool, error) {
	for _, row := range r.rows {
		if row.CampaignID == campaignID && row.CLUES == clues {
			return true, nil
		}
	}
	return false, nil
}

type fakeValidatorRepo struct {
	rows []campaign.Validator
}

func (r *fakeValidatorRepo) AddIgnoreDuplicate(_ context.Context, v campaign.Validator) (bool, error) {
	for _, row := range r.rows {
		if row.CampaignID == v.CampaignID && row.PositionID == v.PositionID && row.ValidatorUnitID == v.ValidatorUnitID {
			return false, nil
		}
	}
	r.rows = append(r.rows, v)
	return true, nil
}

func (r *fakeValidatorRepo) Remove(_ context.Context, campaignID kernel.CampaignID, assignmentID string) (bool, error) {
	for i, row := range r.rows {
		if row.CampaignID == campaignID && row.ID == assignmentID {
			r.rows = append(r.rows[:i], r.rows[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeValidatorRepo) FindByCampaign(_ context.Context, campaignID kernel.CampaignID) ([]campaign.Validator, error) {
	var out []campaign.Validator
	for _, row := range r.rows {
		if row.CampaignID == campaignID {
			out = append(out, row)
		}
	}
	return out, nil
}

func (r *fakeValidatorRepo) FindUnitsForPosition(_ context.Context, campaignID kernel.CampaignID, positionID kernel.PositionID) ([]kernel.ValidatorUnitID, error) {
	var out []kernel.ValidatorUnitID
	for _, row := range r.rows {
		if row.CampaignID == campaignID && row.PositionID == positionID {
			out = append(out, row.ValidatorUnitID)
		}
	}
	return out, nil
}

type fakeCatalog struct {
	positions  map[kernel.PositionID]catalog.Position
	facilities map[kernel.CLUES]catalog.HealthFacility
	units      map[kernel.ValidatorUnitID]catalog.ValidatorUnit
}

func newFakeCatalog() *fakeCatalog {
	return &fakeCatalog{
		positions: map[kernel.PositionID]catalog.Position{
			"pos-medico": {ID: "pos-medico", Code: "M01", Name: "Médico General"},
		},
		facilities: map[kernel.CLUES]catalog.HealthFacility{
			"ASSSA000011": {CLUES: "ASSSA000011", Name: "Centro de Salud Uno"},
			"ASSSA000022": {CLUES: "ASSSA000022", Name: "Centro de Salud Dos"},
		},
		units: map[kernel.ValidatorUnitID]catalog.ValidatorUnit{
			"unit-1": {ID: "unit-1", Name: "Unidad Estatal"},
		},
	}
}

func (f *fakeCatalog) ListPositions(_ context.Context) ([]catalog.Position, error) {
	var out []catalog.Position
	for _, p := range f.positions {
		out = append(out, p)
	}
	return out, nil
}

func (f *fakeCatalog) FindPosition(_ context.Context, id kernel.PositionID) (*catalog.Position, error) {
	p, ok := f.positions[id]
	if !ok {
		return nil, catalog.ErrPositionNotFound()
	}
	return &p, nil
}

func (f *fakeCatalog) FindFacilities(_ context.Context, clues []kernel.CLUES) ([]catalog.HealthFacility, error) {
	var out []catalog.HealthFacility
	for _, c := range clues {
		if fac, ok := f.facilities[c]; ok {
			out = append(out, fac)
		}
	}
	return out, nil
}

func (f *fakeCatalog) FindFacility(_ context.Context, clues kernel.CLUES) (*catalog.HealthFacility, error) {
	fac, ok := f.facilities[clues]
	if !ok {
		return nil, catalog.ErrFacilityNotFound()
	}
	return &fac, nil
}

func (f *fakeCatalog) ListValidatorUnits(_ context.Context) ([]catalog.ValidatorUnit, error) {
	var out []catalog.ValidatorUnit
	for _, u := range f.units {
		out = append(out, u)
	}
	return out, nil
}

func (f *fakeCatalog) FindValidatorUnit(_ context.Context, id kernel.ValidatorUnitID) (*catalog.ValidatorUnit, error) {
	u, ok := f.units[id]
	if !ok {
		return nil, catalog.ErrUnitNotFound()
	}
	return &u, nil
}

// ============================================================================
// Helpers
// ============================================================================

func actorWith(roles ...iam.Role) *kernel.AuthContext {
	return &kernel.AuthContext{
		UserID: "user-1",
		Email:  "actor@salud.gob.mx",
		Name:   "Actor de Prueba",
		Roles:  iam.RolesToStrings(roles),
	}
}

func newTestService() (*CampaignService, *fakeCampaignRepo) {
	campaigns := newFakeCampaignRepo()
	cat := newFakeCatalog()
	svc := NewCampaignService(
		campaigns,
		&fakePositionRepo{},
		&fakeFacilityRepo{},
		&fakeValidatorRepo{},
		cat, cat, cat,
	)
	return svc, campaigns
}

// configureCampaign deja una convocatoria en DRAFT con un puesto y un
// establecimiento, lista para enviarse a revisión.
func configureCampaign(t *testing.T, svc *CampaignService) *campaign.Campaign {
	t.Helper()
	ctx := context.Background()
	planner := actorWith(iam.RolePlaneacion)

	c, err := svc.Create(ctx, planner, campaign.CreateCampaignRequest{Name: "Campaña Enero 2025"})
	require.NoError(t, err)
	require.Equal(t, campaign.StatusDraft, c.Status)

	_, err = svc.AddPosition(ctx, planner, c.ID, campaign.AddPositionRequest{
		PositionID:      "pos-medico",
		SlotsAuthorized: 10,
	})
	require.NoError(t, err)

	_, err = svc.AddFacilities(ctx, planner, c.ID, campaign.AddFacilitiesRequest{CLUES: "ASSSA000011"})
	require.NoError(t, err)

	return c
}

// ============================================================================
// Tests
// ============================================================================

func TestCreateCampaign(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	t.Run("planeacion creates draft", func(t *testing.T) {
		c, err := svc.Create(ctx, actorWith(iam.RolePlaneacion), campaign.CreateCampaignRequest{Name: "Campaña Enero 2025"})
		require.NoError(t, err)
		assert.Equal(t, campaign.StatusDraft, c.Status)
		assert.Equal(t, "Campaña Enero 2025", c.Name)
	})

	t.Run("name is required", func(t *testing.T) {
		_, err := svc.Create(ctx, actorWith(iam.RolePlaneacion), campaign.CreateCampaignRequest{Name: "   "})
		assert.True(t, errx.IsType(err, errx.TypeValidation))
	})

	t.Run("other roles cannot create", func(t *testing.T) {
		_, err := svc.Create(ctx, actorWith(iam.RoleRH), campaign.CreateCampaignRequest{Name: "Campaña"})
		assert.True(t, errx.IsType(err, errx.TypeAuthorization))
	})
}

// Flujo completo: borrador configurado, revisión, aprobación y activación
func TestFullApprovalFlow(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	c := configureCampaign(t, svc)

	c, err := svc.Transition(ctx, actorWith(iam.RolePlaneacion), c.ID, campaign.StatusUnderReview)
	require.NoError(t, err)
	assert.Equal(t, campaign.StatusUnderReview, c.Status)

	c, err = svc.Transition(ctx, actorWith(iam.RoleAtencionSalud), c.ID, campaign.StatusApproved)
	require.NoError(t, err)
	assert.Equal(t, campaign.StatusApproved, c.Status)

	c, err = svc.Transition(ctx, actorWith(iam.RoleRH), c.ID, campaign.StatusActive)
	require.NoError(t, err)
	assert.Equal(t, campaign.StatusActive, c.Status)

	c, err = svc.Transition(ctx, actorWith(iam.RoleRH), c.ID, campaign.StatusInactive)
	require.NoError(t, err)
	assert.Equal(t, campaign.StatusInactive, c.Status)
}

func TestSubmitWithoutConfigurationFails(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()
	planner := actorWith(iam.RolePlaneacion)

	t.Run("no positions and no facilities", func(t *testing.T) {
		c, err := svc.Create(ctx, planner, campaign.CreateCampaignRequest{Name: "Sin configurar"})
		require.NoError(t, err)

		_, err = svc.Transition(ctx, planner, c.ID, campaign.StatusUnderReview)
		assert.True(t, errx.IsType(err, errx.TypeValidation))
	})

	t.Run("facility but no position", func(t *testing.T) {
		c, err := svc.Create(ctx, planner, campaign.CreateCampaignRequest{Name: "Solo establecimiento"})
		require.NoError(t, err)

		_, err = svc.AddFacilities(ctx, planner, c.ID, campaign.AddFacilitiesRequest{CLUES: "ASSSA000011"})
		require.NoError(t, err)

		_, err = svc.Transition(ctx, planner, c.ID, campaign.StatusUnderReview)
		assert.True(t, errx.IsType(err, errx.TypeValidation))
	})

	t.Run("state unchanged after rejected transition", func(t *testing.T) {
		c, err := svc.Create(ctx, planner, campaign.CreateCampaignRequest{Name: "Intacta"})
		require.NoError(t, err)

		_, _ = svc.Transition(ctx, planner, c.ID, campaign.StatusUnderReview)

		detail, err := svc.Get(ctx, c.ID)
		require.NoError(t, err)
		assert.Equal(t, campaign.StatusDraft, detail.Campaign.Status)
	})
}

// Ninguna arista fuera del grafo es alcanzable, sin importar el rol
func TestNoSkippingStates(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	c := configureCampaign(t, svc)

	allRolesActor := actorWith(iam.AllRoles...)

	for _, target := range []campaign.Status{campaign.StatusApproved, campaign.StatusActive, campaign.StatusInactive} {
		_, err := svc.Transition(ctx, allRolesActor, c.ID, target)
		assert.Truef(t, errx.IsType(err, errx.TypeValidation), "DRAFT -> %s should be rejected", target)
	}

	t.Run("inactive is terminal", func(t *testing.T) {
		c2 := configureCampaign(t, svc)
		_, err := svc.Transition(ctx, actorWith(iam.RolePlaneacion), c2.ID, campaign.StatusUnderReview)
		require.NoError(t, err)
		_, err = svc.Transition(ctx, actorWith(iam.RoleAtencionSalud), c2.ID, campaign.StatusApproved)
		require.NoError(t, err)
		_, err = svc.Transition(ctx, actorWith(iam.RoleRH), c2.ID, campaign.StatusActive)
		require.NoError(t, err)
		_, err = svc.Transition(ctx, actorWith(iam.RoleRH), c2.ID, campaign.StatusInactive)
		require.NoError(t, err)

		_, err = svc.Transition(ctx, allRolesActor, c2.ID, campaign.StatusActive)
		assert.True(t, errx.IsType(err, errx.TypeValidation))
	})
}

// Cada arista del grafo solo la dispara el rol autorizado
func TestTransitionRoleGate(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	tests := []struct {
		name    string
		prepare []campaign.Status
		target  campaign.Status
		allowed iam.Role
		denied  []iam.Role
	}{
		{
			name:    "draft to under review only planeacion",
			target:  campaign.StatusUnderReview,
			allowed: iam.RolePlaneacion,
			denied:  []iam.Role{iam.RoleAtencionSalud, iam.RoleRH, iam.RoleCoordEstatal, iam.RoleValidador, iam.RoleDG},
		},
		{
			name:    "under review to approved only atencion salud",
			prepare: []campaign.Status{campaign.StatusUnderReview},
			target:  campaign.StatusApproved,
			allowed: iam.RoleAtencionSalud,
			denied:  []iam.Role{iam.RolePlaneacion, iam.RoleRH, iam.RoleCoordEstatal, iam.RoleValidador, iam.RoleDG},
		},
		{
			name:    "under review back to draft only atencion salud",
			prepare: []campaign.Status{campaign.StatusUnderReview},
			target:  campaign.StatusDraft,
			allowed: iam.RoleAtencionSalud,
			denied:  []iam.Role{iam.RolePlaneacion, iam.RoleRH, iam.RoleCoordEstatal, iam.RoleValidador, iam.RoleDG},
		},
		{
			name:    "approved to active only rh",
			prepare: []campaign.Status{campaign.StatusUnderReview, campaign.StatusApproved},
			target:  campaign.StatusActive,
			allowed: iam.RoleRH,
			denied:  []iam.Role{iam.RolePlaneacion, iam.RoleAtencionSalud, iam.RoleCoordEstatal, iam.RoleValidador, iam.RoleDG},
		},
	}

	advance := map[campaign.Status]iam.Role{
		campaign.StatusUnderReview: iam.RolePlaneacion,
		campaign.StatusApproved:    iam.RoleAtencionSalud,
		campaign.StatusActive:      iam.RoleRH,
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := configureCampaign(t, svc)
			for _, st := range tt.prepare {
				_, err := svc.Transition(ctx, actorWith(advance[st]), c.ID, st)
				require.NoError(t, err)
			}

			for _, role := range tt.denied {
				_, err := svc.Transition(ctx, actorWith(role), c.ID, tt.target)
				assert.Truef(t, errx.IsType(err, errx.TypeAuthorization), "%s should be denied", role)
			}

			_, err := svc.Transition(ctx, actorWith(tt.allowed), c.ID, tt.target)
			assert.NoError(t, err)
		})
	}
}

func TestReturnToDraftMakesEditableAgain(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	c := configureCampaign(t, svc)

	_, err := svc.Transition(ctx, actorWith(iam.RolePlaneacion), c.ID, campaign.StatusUnderReview)
	require.NoError(t, err)

	// En revisión la convocatoria está congelada
	name := "Nombre nuevo"
	_, err = svc.Update(ctx, actorWith(iam.RolePlaneacion), c.ID, campaign.UpdateCampaignRequest{Name: &name})
	assert.True(t, errx.IsType(err, errx.TypeValidation))

	_, err = svc.Transition(ctx, actorWith(iam.RoleAtencionSalud), c.ID, campaign.StatusDraft)
	require.NoError(t, err)

	updated, err := svc.Update(ctx, actorWith(iam.RolePlaneacion), c.ID, campaign.UpdateCampaignRequest{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "Nombre nuevo", updated.Name)
}

func TestAddFacilities(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()
	planner := actorWith(iam.RolePlaneacion)

	c, err := svc.Create(ctx, planner, campaign.CreateCampaignRequest{Name: "Campaña"})
	require.NoError(t, err)

	t.Run("bulk add reports unknown clues", func(t *testing.T) {
		res, err := svc.AddFacilities(ctx, planner, c.ID, campaign.AddFacilitiesRequest{
			CLUES: "asssa000011, ASSSA000022\nZZZZZ999999",
		})
		require.NoError(t, err)
		assert.Equal(t, 2, res.Added)
		assert.Equal(t, 0, res.Skipped)
		assert.Equal(t, []string{"ZZZZZ999999"}, res.Unknown)
	})

	t.Run("duplicates are skipped silently", func(t *testing.T) {
		res, err := svc.AddFacilities(ctx, planner, c.ID, campaign.AddFacilitiesRequest{CLUES: "ASSSA000011"})
		require.NoError(t, err)
		assert.Equal(t, 0, res.Added)
		assert.Equal(t, 1, res.Skipped)
	})

	t.Run("all unknown is an error", func(t *testing.T) {
		_, err := svc.AddFacilities(ctx, planner, c.ID, campaign.AddFacilitiesRequest{CLUES: "NOPE"})
		assert.True(t, errx.IsType(err, errx.TypeValidation))
	})
}

func TestAddPositionValidation(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()
	planner := actorWith(iam.RolePlaneacion)

	c, err := svc.Create(ctx, planner, campaign.CreateCampaignRequest{Name: "Campaña"})
	require.NoError(t, err)

	t.Run("slots must be positive", func(t *testing.T) {
		_, err := svc.AddPosition(ctx, planner, c.ID, campaign.AddPositionRequest{
			PositionID:      "pos-medico",
			SlotsAuthorized: 0,
		})
		assert.True(t, errx.IsType(err, errx.TypeValidation))
	})

	t.Run("position must exist in catalog", func(t *testing.T) {
		_, err := svc.AddPosition(ctx, planner, c.ID, campaign.AddPositionRequest{
			PositionID:      "pos-fantasma",
			SlotsAuthorized: 5,
		})
		assert.True(t, errx.IsType(err, errx.TypeNotFound))
	})

	t.Run("duplicate position conflicts", func(t *testing.T) {
		_, err := svc.AddPosition(ctx, planner, c.ID, campaign.AddPositionRequest{PositionID: "pos-medico", SlotsAuthorized: 5})
		require.NoError(t, err)
		_, err = svc.AddPosition(ctx, planner, c.ID, campaign.AddPositionRequest{PositionID: "pos-medico", SlotsAuthorized: 3})
		assert.True(t, errx.IsType(err, errx.TypeConflict))
	})
}

func TestAssignValidator(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()
	planner := actorWith(iam.RolePlaneacion)

	c := configureCampaign(t, svc)

	t.Run("assigns unit to configured position", func(t *testing.T) {
		v, err := svc.AssignValidator(ctx, planner, c.ID, campaign.AssignValidatorRequest{
			PositionID:      "pos-medico",
			ValidatorUnitID: "unit-1",
		})
		require.NoError(t, err)
		assert.True(t, v.Required)
	})

	t.Run("position must be configured first", func(t *testing.T) {
		_, err := svc.AssignValidator(ctx, planner, c.ID, campaign.AssignValidatorRequest{
			PositionID:      "pos-otro",
			ValidatorUnitID: "unit-1",
		})
		assert.True(t, errx.IsType(err, errx.TypeNotFound))
	})
}

func TestCanTransition(t *testing.T) {
	svc, _ := newTestService()

	draft := &campaign.Campaign{Status: campaign.StatusDraft}
	assert.True(t, svc.CanTransition(draft, campaign.StatusUnderReview, []iam.Role{iam.RolePlaneacion}))
	assert.False(t, svc.CanTransition(draft, campaign.StatusUnderReview, []iam.Role{iam.RoleRH}))
	assert.False(t, svc.CanTransition(draft, campaign.StatusActive, []iam.Role{iam.RoleRH}))

	inactive := &campaign.Campaign{Status: campaign.StatusInactive}
	for _, role := range iam.AllRoles {
		for _, target := range []campaign.Status{campaign.StatusDraft, campaign.StatusUnderReview, campaign.StatusApproved, campaign.StatusActive} {
			assert.False(t, svc.CanTransition(inactive, target, []iam.Role{role}))
		}
	}
}
