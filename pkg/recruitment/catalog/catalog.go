package catalog

import (
	"net/http"
	"strings"

	"github.com/Abraxas-365/convocatoria/pkg/errx"
	"github.com/Abraxas-365/convocatoria/pkg/kernel"
)

// ============================================================================
// Catálogos de referencia (solo lectura)
// ============================================================================

// Position es un puesto del catálogo nacional
type Position struct {
	ID   kernel.PositionID `db:"id" json:"id"`
	Code string            `db:"code" json:"code"`
	Name string            `db:"name" json:"name"`
}

// HealthFacility es un establecimiento de salud identificado por su CLUES
type HealthFacility struct {
	CLUES        kernel.CLUES `db:"clues" json:"clues"`
	Name         string       `db:"name" json:"name"`
	State        string       `db:"state" json:"state"`
	Municipality string       `db:"municipality" json:"municipality"`
}

// ValidatorUnit es una unidad organizacional que valida propuestas
type ValidatorUnit struct {
	ID   kernel.ValidatorUnitID `db:"id" json:"id"`
	Name string                 `db:"name" json:"name"`
}

// NormalizeCLUES limpia una lista de claves CLUES capturadas a mano:
// separadas por comas o saltos de línea, con espacios, en cualquier caja.
// Retorna la lista en mayúsculas sin duplicados, en orden de aparición.
func NormalizeCLUES(raw string) []kernel.CLUES {
	fields := strings.FieldsFunc(raw, func(r rune) bool {
		return r == ',' || r == '\n' || r == '\r' || r == ';'
	})

	seen := make(map[kernel.CLUES]struct{}, len(fields))
	out := make([]kernel.CLUES, 0, len(fields))
	for _, f := range fields {
		c := kernel.CLUES(strings.ToUpper(strings.TrimSpace(f)))
		if c == "" {
			continue
		}
		if _, ok := seen[c]; ok {
			continue
		}
		seen[c] = struct{}{}
		out = append(out, c)
	}
	return out
}

// ============================================================================
// Error Registry
// ============================================================================

var ErrRegistry = errx.NewRegistry("CATALOG")

var (
	CodePositionNotFound = ErrRegistry.Register("POSITION_NOT_FOUND", errx.TypeNotFound, http.StatusNotFound, "Puesto no encontrado en el catálogo")
	CodeFacilityNotFound = ErrRegistry.Register("FACILITY_NOT_FOUND", errx.TypeNotFound, http.StatusNotFound, "Establecimiento no encontrado")
	CodeUnitNotFound     = ErrRegistry.Register("UNIT_NOT_FOUND", errx.TypeNotFound, http.StatusNotFound, "Unidad validadora no encontrada")
)

func ErrPositionNotFound() *errx.Error { return ErrRegistry.New(CodePositionNotFound) }
func ErrFacilityNotFound() *errx.Error { return ErrRegistry.New(CodeFacilityNotFound) }
func ErrUnitNotFound() *errx.Error     { return ErrRegistry.New(CodeUnitNotFound) }
