package report

import (
	"context"
)

// Conteos agregados de solo lectura para los tableros ejecutivos. No hay
// mutaciones aquí; el motor de flujo es la única fuente de los estados que
// estos reportes suman.

// DGDashboard es el tablero de Dirección General
type DGDashboard struct {
	CampaignsByStatus map[string]int `json:"campaigns_by_status"`
	ProposalsByStatus map[string]int `json:"proposals_by_status"`
	TotalCampaigns    int            `json:"total_campaigns"`
	TotalProposals    int            `json:"total_proposals"`
}

// RHDashboard es el tablero de Recursos Humanos
type RHDashboard struct {
	ActiveCampaigns   int            `json:"active_campaigns"`
	ProposalsByStatus map[string]int `json:"proposals_by_status"`
	ApprovedProposals int            `json:"approved_proposals"`
	RejectedProposals int            `json:"rejected_proposals"`
	PendingProposals  int            `json:"pending_proposals"`
}

// Reader calcula los agregados desde el almacén
type Reader interface {
	DGDashboard(ctx context.Context) (*DGDashboard, error)
	RHDashboard(ctx context.Context) (*RHDashboard, error)
}
