package api

import "context"

func (g *Gateway) summaryEntrypoint() *Entrypoint {
	return &Entrypoint{
		Name:        "summary",
		Description: "Condensed article summary for a page title",
		Price:       g.cfg.Pricing.Summary,
		Input: []FieldSpec{
			{Name: "title", Type: "string", Required: true, Description: "Article title"},
			{Name: "language", Type: "string", Description: "Language edition, defaults to the service default"},
		},
		handle: func(ctx context.Context, in map[string]any) (map[string]any, error) {
			title := in["title"].(string)

			summary := g.wp.GetSummary(ctx, title, g.language(in))
			if summary == nil {
				// Not-found sentinel, never a thrown error
				return map[string]any{
					"error": "no summary found",
					"title": title,
				}, nil
			}

			out := map[string]any{
				"title":   summary.Title,
				"extract": summary.Extract,
			}
			if summary.Description != "" {
				out["description"] = summary.Description
			}
			if summary.ThumbnailURL != "" {
				out["thumbnailUrl"] = summary.ThumbnailURL
			}
			if summary.ContentURLs != nil {
				out["contentUrls"] = summary.ContentURLs
			}
			if summary.Coordinates != nil {
				out["coordinates"] = summary.Coordinates
			}
			if summary.LinkedEntityID != "" {
				out["linkedEntityId"] = summary.LinkedEntityID
			}
			return out, nil
		},
	}
}
