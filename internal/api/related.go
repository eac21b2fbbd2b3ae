package api

import "context"

func (g *Gateway) relatedEntrypoint() *Entrypoint {
	return &Entrypoint{
		Name:        "related",
		Description: "Entities referenced in an entity's claims, with labels",
		Price:       g.cfg.Pricing.Related,
		Input: []FieldSpec{
			{Name: "entityId", Type: "string", Required: true, Description: "Entity identifier, e.g. Q42"},
			{Name: "language", Type: "string", Description: "Preferred language for labels, defaults to the service default"},
		},
		handle: func(ctx context.Context, in map[string]any) (map[string]any, error) {
			entityID := in["entityId"].(string)
			lang := g.language(in)

			// Source detail and related discovery are independent upstream
			// chains; fan out and join.
			type detailResult struct {
				detail *sourceEntity
			}
			detailCh := make(chan detailResult, 1)
			go func() {
				var src *sourceEntity
				if d := g.wd.GetEntityDetail(ctx, entityID, lang); d != nil {
					src = &sourceEntity{ID: d.ID, Label: d.Label, Description: d.Description}
				}
				detailCh <- detailResult{detail: src}
			}()

			related, err := g.wd.RelatedEntities(ctx, entityID, lang)
			if err != nil {
				<-detailCh
				return nil, err
			}
			src := (<-detailCh).detail

			out := map[string]any{
				"relatedCount":    len(related),
				"relatedEntities": related,
			}
			if src != nil {
				out["sourceEntity"] = src
			} else {
				out["sourceEntity"] = sourceEntity{ID: entityID}
			}
			return out, nil
		},
	}
}

type sourceEntity struct {
	ID          string `json:"id"`
	Label       string `json:"label,omitempty"`
	Description string `json:"description,omitempty"`
}
