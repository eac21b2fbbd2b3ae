package api

import "context"

func (g *Gateway) detailsEntrypoint() *Entrypoint {
	return &Entrypoint{
		Name:        "details",
		Description: "Flattened entity data: labels, aliases and allow-listed claims",
		Price:       g.cfg.Pricing.Details,
		Input: []FieldSpec{
			{Name: "entityId", Type: "string", Required: true, Description: "Entity identifier, e.g. Q42"},
			{Name: "language", Type: "string", Description: "Preferred language for labels, defaults to the service default"},
		},
		handle: func(ctx context.Context, in map[string]any) (map[string]any, error) {
			entityID := in["entityId"].(string)

			detail := g.wd.GetEntityDetail(ctx, entityID, g.language(in))
			if detail == nil {
				return map[string]any{
					"error":    "entity not found",
					"entityId": entityID,
				}, nil
			}

			out := map[string]any{
				"id":            detail.ID,
				"aliases":       detail.Aliases,
				"claims":        detail.Claims,
				"sitelinkCount": detail.SitelinkCount,
				"canonicalUrl":  detail.CanonicalURL,
			}
			if detail.Label != "" {
				out["label"] = detail.Label
			}
			if detail.Description != "" {
				out["description"] = detail.Description
			}
			return out, nil
		},
	}
}
