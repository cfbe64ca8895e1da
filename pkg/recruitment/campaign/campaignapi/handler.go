package campaignapi

import (
	"github.com/Abraxas-365/convocatoria/pkg/iam"
	"github.com/Abraxas-365/convocatoria/pkg/iam/access"
	"github.com/Abraxas-365/convocatoria/pkg/iam/auth"
	"github.com/Abraxas-365/convocatoria/pkg/kernel"
	"github.com/Abraxas-365/convocatoria/pkg/recruitment/campaign"
	"github.com/Abraxas-365/convocatoria/pkg/recruitment/campaign/campaignsrv"
	"github.com/gofiber/fiber/v2"
)

type CampaignHandlers struct {
	service *campaignsrv.CampaignService
}

func NewCampaignHandlers(service *campaignsrv.CampaignService) *CampaignHandlers {
	return &CampaignHandlers{service: service}
}

func (h *CampaignHandlers) RegisterRoutes(router fiber.Router, middleware *auth.TokenMiddleware) {
	campaigns := router.Group("/campaigns", middleware.Authenticate())

	campaigns.Post("/", middleware.RequireAction(access.ActionCampaignCreate), h.Create)
	campaigns.Get("/", h.List)
	campaigns.Get("/:id", h.Get)
	campaigns.Put("/:id", middleware.RequireAction(access.ActionCampaignEdit), h.Update)
	campaigns.Post("/:id/transition", h.Transition)

	campaigns.Post("/:id/positions", middleware.RequireAction(access.ActionCampaignEdit), h.AddPosition)
	campaigns.Delete("/:id/positions/:posID", middleware.RequireAction(access.ActionCampaignEdit), h.RemovePosition)
	campaigns.Post("/:id/facilities", middleware.RequireAction(access.ActionCampaignEdit), h.AddFacilities)
	campaigns.Delete("/:id/facilities/:facID", middleware.RequireAction(access.ActionCampaignEdit), h.RemoveFacility)
	campaigns.Post("/:id/validators", middleware.RequireAction(access.ActionCampaignEdit), h.AssignValidator)
	campaigns.Delete("/:id/validators/:valID", middleware.RequireAction(access.ActionCampaignEdit), h.RemoveValidator)
}

func (h *CampaignHandlers) Create(c *fiber.Ctx) error {
	authContext, ok := auth.GetAuthContext(c)
	if !ok {
		return iam.ErrUnauthorized()
	}

	var req campaign.CreateCampaignRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	created, err := h.service.Create(c.Context(), authContext, req)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(created)
}

func (h *CampaignHandlers) List(c *fiber.Ctx) error {
	authContext, ok := auth.GetAuthContext(c)
	if !ok {
		return iam.ErrUnauthorized()
	}

	campaigns, err := h.service.List(c.Context(), authContext)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"campaigns": campaigns})
}

func (h *CampaignHandlers) Get(c *fiber.Ctx) error {
	detail, err := h.service.Get(c.Context(), kernel.NewCampaignID(c.Params("id")))
	if err != nil {
		return err
	}
	return c.JSON(detail)
}

func (h *CampaignHandlers) Update(c *fiber.Ctx) error {
	authContext, ok := auth.GetAuthContext(c)
	if !ok {
		return iam.ErrUnauthorized()
	}

	var req campaign.UpdateCampaignRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	updated, err := h.service.Update(c.Context(), authContext, kernel.NewCampaignID(c.Params("id")), req)
	if err != nil {
		return err
	}
	return c.JSON(updated)
}

func (h *CampaignHandlers) Transition(c *fiber.Ctx) error {
	authContext, ok := auth.GetAuthContext(c)
	if !ok {
		return iam.ErrUnauthorized()
	}

	var req campaign.TransitionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	updated, err := h.service.Transition(c.Context(), authContext, kernel.NewCampaignID(c.Params("id")), req.Target)
	if err != nil {
		return err
	}
	return c.JSON(updated)
}

func (h *CampaignHandlers) AddPosition(c *fiber.Ctx) error {
	authContext, ok := auth.GetAuthContext(c)
	if !ok {
		return iam.ErrUnauthorized()
	}

	var req campaign.AddPositionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	position, err := h.service.AddPosition(c.Context(), authContext, kernel.NewCampaignID(c.Params("id")), req)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(position)
}

func (h *CampaignHandlers) RemovePosition(c *fiber.Ctx) error {
	authContext, ok := auth.GetAuthContext(c)
	if !ok {
		return iam.ErrUnauthorized()
	}

	err := h.service.RemovePosition(
		c.Context(), authContext,
		kernel.NewCampaignID(c.Params("id")),
		kernel.NewPositionID(c.Params("posID")),
	)
	if err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *CampaignHandlers) AddFacilities(c *fiber.Ctx) error {
	authContext, ok := auth.GetAuthContext(c)
	if !ok {
		return iam.ErrUnauthorized()
	}

	var req campaign.AddFacilitiesRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	result, err := h.service.AddFacilities(c.Context(), authContext, kernel.NewCampaignID(c.Params("id")), req)
	if err != nil {
		return err
	}
	return c.JSON(result)
}

func (h *CampaignHandlers) RemoveFacility(c *fiber.Ctx) error {
	authContext, ok := auth.GetAuthContext(c)
	if !ok {
		return iam.ErrUnauthorized()
	}

	err := h.service.RemoveFacility(c.Context(), authContext, kernel.NewCampaignID(c.Params("id")), c.Params("facID"))
	if err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *CampaignHandlers) AssignValidator(c *fiber.Ctx) error {
	authContext, ok := auth.GetAuthContext(c)
	if !ok {
		return iam.ErrUnauthorized()
	}

	var req campaign.AssignValidatorRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	assignment, err := h.service.AssignValidator(c.Context(), authContext, kernel.NewCampaignID(c.Params("id")), req)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(assignment)
}

func (h *CampaignHandlers) RemoveValidator(c *fiber.Ctx) error {
	authContext, ok := auth.GetAuthContext(c)
	if !ok {
		return iam.ErrUnauthorized()
	}

	err := h.service.RemoveValidator(c.Context(), authContext, kernel.NewCampaignID(c.Params("id")), c.Params("valID"))
	if err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}
