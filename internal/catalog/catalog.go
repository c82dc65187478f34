// Package catalog loads the plan catalog served in canned replies.
//
// The compiled-in default catalog is used unless an override is supplied via
// PLAN_CATALOG_FILE or PLAN_CATALOG_JSON. Overrides that fail to parse or
// validate are logged and ignored; the service always starts with a usable
// catalog.
package catalog

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/horizonweb/horizon-chat/internal/domain"
)

// Default returns the compiled-in four-plan catalog.
func Default() domain.Catalog {
	return domain.Catalog{Plans: []domain.Plan{
		{
			Key:     "basico",
			Name:    "Plan Básico",
			Monthly: "$10.000/mes",
			Setup:   "$25.000 (única vez)",
			Features: []string{
				"Landing page de una sección",
				"Hosting y certificado SSL incluidos",
				"Soporte por email",
			},
		},
		{
			Key:     "esencial",
			Name:    "Plan Esencial",
			Monthly: "$18.000/mes",
			Setup:   "$35.000 (única vez)",
			Features: []string{
				"Sitio de hasta 5 secciones",
				"Dominio .com incluido el primer año",
				"Hosting y certificado SSL incluidos",
				"2 cambios de contenido por mes",
				"Soporte por WhatsApp",
			},
		},
		{
			Key:     "combo",
			Name:    "Plan Combo",
			Monthly: "$25.000/mes",
			Setup:   "$45.000 (única vez)",
			Features: []string{
				"Sitio completo + catálogo de productos",
				"Integración con redes sociales",
				"4 cambios de contenido por mes",
				"Soporte prioritario por WhatsApp",
			},
			Notes: "Requiere permanencia mínima de 6 meses.",
		},
		{
			Key:     "premium",
			Name:    "Plan Premium",
			Monthly: "$40.000/mes",
			Setup:   "$60.000 (única vez)",
			Features: []string{
				"Tienda online completa con pasarela de pagos",
				"Catálogo ilimitado de productos",
				"Cambios de contenido ilimitados",
				"Mantenimiento y soporte prioritario",
			},
			Notes: "Requiere permanencia mínima de 12 meses.",
		},
	}}
}

// Parse decodes a catalog override document and validates it. YAML and JSON
// are both accepted (JSON is a YAML subset).
func Parse(data []byte) (domain.Catalog, error) {
	var c domain.Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return domain.Catalog{}, fmt.Errorf("catalog parse: %w", err)
	}
	if err := Validate(c); err != nil {
		return domain.Catalog{}, err
	}
	return c, nil
}

// Validate checks a catalog for structural correctness. It returns the first
// validation error encountered, or nil if the catalog is valid.
func Validate(c domain.Catalog) error {
	if len(c.Plans) == 0 {
		return fmt.Errorf("catalog must contain at least one plan")
	}
	seen := make(map[string]struct{}, len(c.Plans))
	for i, p := range c.Plans {
		if strings.TrimSpace(p.Key) == "" {
			return fmt.Errorf("plans[%d]: key must not be empty", i)
		}
		if _, dup := seen[p.Key]; dup {
			return fmt.Errorf("plans[%d]: duplicate key %q", i, p.Key)
		}
		seen[p.Key] = struct{}{}
		if strings.TrimSpace(p.Name) == "" {
			return fmt.Errorf("plans[%d] (%q): name must not be empty", i, p.Key)
		}
		if strings.TrimSpace(p.Monthly) == "" {
			return fmt.Errorf("plans[%d] (%q): monthly price must not be empty", i, p.Key)
		}
	}
	return nil
}

// Load resolves the catalog for this process: override file, then inline
// override, then the default. Override failures are swallowed — a broken
// override must not keep the service from starting.
func Load(file, inline string) domain.Catalog {
	if file != "" {
		data, err := os.ReadFile(file)
		if err != nil {
			slog.Warn("Cannot read plan catalog override, keeping default", "path", file, "error", err)
		} else if c, err := Parse(data); err != nil {
			slog.Warn("Invalid plan catalog override, keeping default", "path", file, "error", err)
		} else {
			slog.Info("Plan catalog override loaded", "path", file, "plans", len(c.Plans))
			return c
		}
	}
	if inline != "" {
		c, err := Parse([]byte(inline))
		if err != nil {
			slog.Warn("Invalid inline plan catalog override, keeping default", "error", err)
		} else {
			slog.Info("Inline plan catalog override loaded", "plans", len(c.Plans))
			return c
		}
	}
	return Default()
}
