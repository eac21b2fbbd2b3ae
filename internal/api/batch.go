package api

import "context"

func (g *Gateway) batchEntrypoint() *Entrypoint {
	return &Entrypoint{
		Name:        "batch",
		Description: "Best-match entity and summary for up to ten free-text queries",
		Price:       g.cfg.Pricing.Batch,
		Input: []FieldSpec{
			{Name: "queries", Type: "string[]", Required: true, Min: intPtr(1), Max: intPtr(10), Description: "Free-text queries, 1 to 10"},
			{Name: "language", Type: "string", Description: "Language code, defaults to the service default"},
		},
		handle: func(ctx context.Context, in map[string]any) (map[string]any, error) {
			queries := in["queries"].([]string)

			results, err := g.lookup.BatchLookup(ctx, queries, g.language(in))
			if err != nil {
				return nil, err
			}

			found := 0
			for _, r := range results {
				if r.Found {
					found++
				}
			}

			return map[string]any{
				"queriesCount": len(queries),
				"foundCount":   found,
				"results":      results,
			}, nil
		},
	}
}
