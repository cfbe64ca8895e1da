package proposalapi

import (
	"io"
	"strings"

	"github.com/Abraxas-365/convocatoria/pkg/iam"
	"github.com/Abraxas-365/convocatoria/pkg/iam/access"
	"github.com/Abraxas-365/convocatoria/pkg/iam/auth"
	"github.com/Abraxas-365/convocatoria/pkg/kernel"
	"github.com/Abraxas-365/convocatoria/pkg/recruitment/proposal"
	"github.com/Abraxas-365/convocatoria/pkg/recruitment/proposal/proposalsrv"
	"github.com/gofiber/fiber/v2"
)

type ProposalHandlers struct {
	service *proposalsrv.ProposalService
}

func NewProposalHandlers(service *proposalsrv.ProposalService) *ProposalHandlers {
	return &ProposalHandlers{service: service}
}

func (h *ProposalHandlers) RegisterRoutes(router fiber.Router, middleware *auth.TokenMiddleware) {
	proposals := router.Group("/proposals", middleware.Authenticate())
	proposals.Post("/", middleware.RequireAction(access.ActionProposalSubmit), h.Submit)
	proposals.Get("/mine", middleware.RequireAction(access.ActionProposalReadOwn), h.ListMine)
	proposals.Get("/:id/cv-url", h.CVSignedURL)

	validations := router.Group("/validations", middleware.Authenticate())
	validations.Get("/pending", middleware.RequireAction(access.ActionValidationList), h.PendingValidations)
	validations.Post("/:id/decision", middleware.RequireAction(access.ActionValidationDecide), h.RecordDecision)
}

// Submit recibe el envío multipart: campos de la propuesta más el CV en PDF
func (h *ProposalHandlers) Submit(c *fiber.Ctx) error {
	authContext, ok := auth.GetAuthContext(c)
	if !ok {
		return iam.ErrUnauthorized()
	}

	fileHeader, err := c.FormFile("cv")
	if err != nil {
		return proposal.ErrInvalidCV().WithDetail("error", "cv file is required")
	}

	file, err := fileHeader.Open()
	if err != nil {
		return proposal.ErrInvalidCV().WithDetail("error", err.Error())
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		return proposal.ErrInvalidCV().WithDetail("error", err.Error())
	}

	contentType := fileHeader.Header.Get("Content-Type")
	if contentType == "" && strings.HasSuffix(strings.ToLower(fileHeader.Filename), ".pdf") {
		contentType = "application/pdf"
	}

	req := proposal.SubmitRequest{
		CampaignID:     kernel.NewCampaignID(c.FormValue("campaign_id")),
		PositionID:     kernel.NewPositionID(c.FormValue("position_id")),
		CLUES:          kernel.CLUES(strings.ToUpper(strings.TrimSpace(c.FormValue("clues")))),
		CURP:           c.FormValue("curp"),
		CandidateName:  c.FormValue("candidate_name"),
		CVContent:      content,
		CVContentType:  contentType,
		IdempotencyKey: c.Get("Idempotency-Key"),
	}

	created, err := h.service.Submit(c.Context(), authContext, req)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(created)
}

func (h *ProposalHandlers) ListMine(c *fiber.Ctx) error {
	authContext, ok := auth.GetAuthContext(c)
	if !ok {
		return iam.ErrUnauthorized()
	}

	proposals, err := h.service.ListMine(c.Context(), authContext)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"proposals": proposals})
}

func (h *ProposalHandlers) CVSignedURL(c *fiber.Ctx) error {
	authContext, ok := auth.GetAuthContext(c)
	if !ok {
		return iam.ErrUnauthorized()
	}

	signed, err := h.service.CVSignedURL(c.Context(), authContext, kernel.NewProposalID(c.Params("id")))
	if err != nil {
		return err
	}
	return c.JSON(signed)
}

func (h *ProposalHandlers) PendingValidations(c *fiber.Ctx) error {
	authContext, ok := auth.GetAuthContext(c)
	if !ok {
		return iam.ErrUnauthorized()
	}

	pending, err := h.service.PendingForActor(c.Context(), authContext)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"pending": pending})
}

func (h *ProposalHandlers) RecordDecision(c *fiber.Ctx) error {
	authContext, ok := auth.GetAuthContext(c)
	if !ok {
		return iam.ErrUnauthorized()
	}

	var req proposal.DecisionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	updated, err := h.service.RecordDecision(c.Context(), authContext, kernel.NewValidationID(c.Params("id")), req)
	if err != nil {
		return err
	}
	return c.JSON(updated)
}
