package catalogapi

import (
	"github.com/Abraxas-365/convocatoria/pkg/iam/auth"
	"github.com/Abraxas-365/convocatoria/pkg/recruitment/catalog"
	"github.com/gofiber/fiber/v2"
)

type CatalogHandlers struct {
	positions  catalog.PositionCatalog
	facilities catalog.FacilityCatalog
	units      catalog.ValidatorUnitCatalog
}

func NewCatalogHandlers(
	positions catalog.PositionCatalog,
	facilities catalog.FacilityCatalog,
	units catalog.ValidatorUnitCatalog,
) *CatalogHandlers {
	return &CatalogHandlers{
		positions:  positions,
		facilities: facilities,
		units:      units,
	}
}

func (h *CatalogHandlers) RegisterRoutes(router fiber.Router, middleware *auth.TokenMiddleware) {
	cat := router.Group("/catalog", middleware.Authenticate())

	cat.Get("/positions", h.ListPositions)
	cat.Get("/validator-units", h.ListValidatorUnits)
	cat.Post("/facilities/lookup", h.LookupFacilities)
}

func (h *CatalogHandlers) ListPositions(c *fiber.Ctx) error {
	positions, err := h.positions.ListPositions(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"positions": positions})
}

func (h *CatalogHandlers) ListValidatorUnits(c *fiber.Ctx) error {
	units, err := h.units.ListValidatorUnits(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"validator_units": units})
}

type lookupFacilitiesRequest struct {
	// Lista cruda de CLUES tal como la captura el usuario
	CLUES string `json:"clues"`
}

// LookupFacilities resuelve una lista capturada de CLUES contra el catálogo.
// Las claves desconocidas se reportan aparte para que el cliente las muestre.
func (h *CatalogHandlers) LookupFacilities(c *fiber.Ctx) error {
	var req lookupFacilitiesRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	requested := catalog.NormalizeCLUES(req.CLUES)
	facilities, err := h.facilities.FindFacilities(c.Context(), requested)
	if err != nil {
		return err
	}

	found := make(map[string]struct{}, len(facilities))
	for _, f := range facilities {
		found[f.CLUES.String()] = struct{}{}
	}

	unknown := make([]string, 0)
	for _, clues := range requested {
		if _, ok := found[clues.String()]; !ok {
			unknown = append(unknown, clues.String())
		}
	}

	return c.JSON(fiber.Map{
		"facilities": facilities,
		"unknown":    unknown,
	})
}
