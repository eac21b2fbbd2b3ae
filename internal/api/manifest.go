package api

import (
	"net/http"

	"wikigate/pkg/version"
)

// manifestEntrypoint is the published description of one entrypoint.
type manifestEntrypoint struct {
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Price       int64       `json:"price"`
	Path        string      `json:"path"`
	Input       []FieldSpec `json:"input,omitempty"`
}

// HandleManifest serves the machine-readable self-description at the
// well-known path. Agents discover entrypoints, prices and payment
// support from here.
func (g *Gateway) HandleManifest(w http.ResponseWriter, r *http.Request) {
	eps := make([]manifestEntrypoint, 0, len(g.entrypoints))
	for _, ep := range g.entrypoints {
		eps = append(eps, manifestEntrypoint{
			Name:        ep.Name,
			Description: ep.Description,
			Price:       ep.Price,
			Path:        "/api/entrypoints/" + ep.Name,
			Input:       ep.Input,
		})
	}

	manifest := map[string]any{
		"name":        g.cfg.Service.Name,
		"description": g.cfg.Service.Description,
		"version":     version.Version,
		"baseUrl":     g.cfg.Service.BaseURL,
		"contact":     g.cfg.Service.Contact,
		"icon":        g.cfg.Service.BaseURL + "/icon.svg",
		"entrypoints": eps,
		"payment": map[string]any{
			"network": g.cfg.Payment.Network,
			"address": g.cfg.Payment.Address,
			"unit":    g.cfg.Payment.Unit,
		},
		"analytics": map[string]any{
			"summary":      "/api/analytics/summary",
			"transactions": "/api/analytics/transactions",
			"export":       "/api/analytics/export",
			"live":         "/api/analytics/live",
		},
	}

	writeJSON(w, http.StatusOK, manifest)
}
