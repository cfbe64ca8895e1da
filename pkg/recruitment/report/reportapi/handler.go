package reportapi

import (
	"github.com/Abraxas-365/convocatoria/pkg/iam/access"
	"github.com/Abraxas-365/convocatoria/pkg/iam/auth"
	"github.com/Abraxas-365/convocatoria/pkg/recruitment/report"
	"github.com/gofiber/fiber/v2"
)

type ReportHandlers struct {
	reader report.Reader
}

func NewReportHandlers(reader report.Reader) *ReportHandlers {
	return &ReportHandlers{reader: reader}
}

func (h *ReportHandlers) RegisterRoutes(router fiber.Router, middleware *auth.TokenMiddleware) {
	reports := router.Group("/reports", middleware.Authenticate())

	reports.Get("/dg", middleware.RequireAction(access.ActionReportDG), h.DGDashboard)
	reports.Get("/rh", middleware.RequireAction(access.ActionReportRH), h.RHDashboard)
}

func (h *ReportHandlers) DGDashboard(c *fiber.Ctx) error {
	dashboard, err := h.reader.DGDashboard(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(dashboard)
}

func (h *ReportHandlers) RHDashboard(c *fiber.Ctx) error {
	dashboard, err := h.reader.RHDashboard(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(dashboard)
}
