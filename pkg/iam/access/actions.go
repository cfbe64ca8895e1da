package access

// ============================================================================
// ACTIONS - Every gated operation of the workflow, in one place
// ============================================================================

// Action identifica una operación protegida del sistema
type Action string

const (
	// Campaign lifecycle
	ActionCampaignCreate     Action = "campaign:create"
	ActionCampaignEdit       Action = "campaign:edit"
	ActionCampaignSubmit     Action = "campaign:submit"     // DRAFT -> UNDER_REVIEW
	ActionCampaignApprove    Action = "campaign:approve"    // UNDER_REVIEW -> APPROVED
	ActionCampaignReturn     Action = "campaign:return"     // UNDER_REVIEW -> DRAFT
	ActionCampaignActivate   Action = "campaign:activate"   // APPROVED -> ACTIVE
	ActionCampaignDeactivate Action = "campaign:deactivate" // ACTIVE -> INACTIVE

	// Proposal flow
	ActionProposalSubmit   Action = "proposal:submit"
	ActionProposalReadOwn  Action = "proposal:read_own"
	ActionValidationList   Action = "validation:list"
	ActionValidationDecide Action = "validation:decide"

	// Dashboards
	ActionReportDG Action = "report:dg"
	ActionReportRH Action = "report:rh"
)
