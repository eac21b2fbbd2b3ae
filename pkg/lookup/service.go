package lookup

import (
	"context"
	"sync"

	"wikigate/pkg/wikidata"
	"wikigate/pkg/wikipedia"
)

// Service composes entity search and page summaries for batched free-text
// lookups.
type Service struct {
	wd *wikidata.Client
	wp *wikipedia.Client
}

// New creates a new lookup service.
func New(wd *wikidata.Client, wp *wikipedia.Client) *Service {
	return &Service{wd: wd, wp: wp}
}

// Result is the per-query outcome of a batch lookup.
type Result struct {
	Query  string  `json:"query"`
	Found  bool    `json:"found"`
	Entity *Entity `json:"entity,omitempty"`
}

// Entity is the condensed best-match for one query.
type Entity struct {
	ID          string  `json:"id"`
	Label       string  `json:"label"`
	Description string  `json:"description,omitempty"`
	Summary     *string `json:"summary"`
	Thumbnail   *string `json:"thumbnail"`
}

// BatchLookup resolves each query independently and concurrently: best
// search match (limit 1), then a summary for the matched label. Results
// are indexed by input position, so output order always matches input
// order regardless of completion timing. A search failure for any query
// fails the whole batch.
func (s *Service) BatchLookup(ctx context.Context, queries []string, lang string) ([]Result, error) {
	results := make([]Result, len(queries))
	errs := make([]error, len(queries))

	var wg sync.WaitGroup
	for i, q := range queries {
		wg.Add(1)
		go func(i int, q string) {
			defer wg.Done()
			results[i], errs[i] = s.lookupOne(ctx, q, lang)
		}(i, q)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return results, nil
}

func (s *Service) lookupOne(ctx context.Context, query, lang string) (Result, error) {
	hits, err := s.wd.SearchEntities(ctx, query, 1, lang)
	if err != nil {
		return Result{}, err
	}
	if len(hits) == 0 {
		return Result{Query: query, Found: false}, nil
	}

	best := hits[0]
	entity := &Entity{
		ID:          best.ID,
		Label:       best.Label,
		Description: best.Description,
	}

	// Summary is best-effort: the nil sentinel leaves both fields null
	if summary := s.wp.GetSummary(ctx, best.Label, lang); summary != nil {
		if summary.Extract != "" {
			entity.Summary = &summary.Extract
		}
		if summary.ThumbnailURL != "" {
			entity.Thumbnail = &summary.ThumbnailURL
		}
	}

	return Result{Query: query, Found: true, Entity: entity}, nil
}
