package api

import (
	"context"

	"wikigate/pkg/version"
)

const sampleQuery = "Ada Lovelace"

// overviewEntrypoint is the free self-description call: service metadata
// plus a small live search so callers can see the output shape.
func (g *Gateway) overviewEntrypoint() *Entrypoint {
	return &Entrypoint{
		Name:        "overview",
		Description: "Service metadata and a sample entity search",
		Price:       0,
		Input:       nil,
		handle: func(ctx context.Context, in map[string]any) (map[string]any, error) {
			sample, err := g.wd.SearchEntities(ctx, sampleQuery, 3, g.cfg.Service.DefaultLanguage)
			if err != nil {
				return nil, err
			}

			pricing := map[string]int64{
				"search":  g.cfg.Pricing.Search,
				"summary": g.cfg.Pricing.Summary,
				"details": g.cfg.Pricing.Details,
				"related": g.cfg.Pricing.Related,
				"batch":   g.cfg.Pricing.Batch,
			}

			return map[string]any{
				"name":            g.cfg.Service.Name,
				"description":     g.cfg.Service.Description,
				"version":         version.Version,
				"defaultLanguage": g.cfg.Service.DefaultLanguage,
				"pricing":         pricing,
				"sampleQuery":     sampleQuery,
				"sampleResults":   sample,
			}, nil
		},
	}
}
