package reportinfra

import (
	"context"

	"github.com/Abraxas-365/convocatoria/pkg/errx"
	"github.com/Abraxas-365/convocatoria/pkg/recruitment/report"
	"github.com/jmoiron/sqlx"
)

// PostgresReportReader calcula los agregados de los tableros con GROUP BY
// directo sobre las tablas de flujo.
type PostgresReportReader struct {
	db *sqlx.DB
}

func NewPostgresReportReader(db *sqlx.DB) report.Reader {
	return &PostgresReportReader{db: db}
}

type statusCount struct {
	Status string `db:"status"`
	Count  int    `db:"count"`
}

func (r *PostgresReportReader) countByStatus(ctx context.Context, table string) (map[string]int, int, error) {
	// table viene de un conjunto fijo interno, nunca de entrada del usuario
	query := `SELECT status, COUNT(*) AS count FROM ` + table + ` GROUP BY status`

	var rows []statusCount
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, 0, errx.Wrap(err, "failed to count "+table+" by status", errx.TypeInternal)
	}

	counts := make(map[string]int, len(rows))
	total := 0
	for _, row := range rows {
		counts[row.Status] = row.Count
		total += row.Count
	}
	return counts, total, nil
}

func (r *PostgresReportReader) DGDashboard(ctx context.Context) (*report.DGDashboard, error) {
	campaigns, totalCampaigns, err := r.countByStatus(ctx, "campaigns")
	if err != nil {
		return nil, err
	}
	proposals, totalProposals, err := r.countByStatus(ctx, "proposals")
	if err != nil {
		return nil, err
	}

	return &report.DGDashboard{
		CampaignsByStatus: campaigns,
		ProposalsByStatus: proposals,
		TotalCampaigns:    totalCampaigns,
		TotalProposals:    totalProposals,
	}, nil
}

func (r *PostgresReportReader) RHDashboard(ctx context.Context) (*report.RHDashboard, error) {
	campaigns, _, err := r.countByStatus(ctx, "campaigns")
	if err != nil {
		return nil, err
	}
	proposals, _, err := r.countByStatus(ctx, "proposals")
	if err != nil {
		return nil, err
	}

	return &report.RHDashboard{
		ActiveCampaigns:   campaigns["ACTIVE"],
		ProposalsByStatus: proposals,
		ApprovedProposals: proposals["APPROVED"],
		RejectedProposals: proposals["REJECTED"],
		PendingProposals:  proposals["SUBMITTED"] + proposals["IN_VALIDATION"],
	}, nil
}
