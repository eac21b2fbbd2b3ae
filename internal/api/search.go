package api

import "context"

func (g *Gateway) searchEntrypoint() *Entrypoint {
	return &Entrypoint{
		Name:        "search",
		Description: "Keyword search for entities in the knowledge graph",
		Price:       g.cfg.Pricing.Search,
		Input: []FieldSpec{
			{Name: "query", Type: "string", Required: true, Description: "Free-text search terms"},
			{Name: "limit", Type: "integer", Min: intPtr(1), Max: intPtr(50), Default: 10, Description: "Maximum number of results"},
			{Name: "language", Type: "string", Description: "Language code, defaults to the service default"},
		},
		handle: func(ctx context.Context, in map[string]any) (map[string]any, error) {
			query := in["query"].(string)
			limit, _ := in["limit"].(int)

			results, err := g.wd.SearchEntities(ctx, query, limit, g.language(in))
			if err != nil {
				return nil, err
			}

			return map[string]any{
				"query":   query,
				"count":   len(results),
				"results": results,
			}, nil
		},
	}
}
