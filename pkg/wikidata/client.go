package wikidata

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"wikigate/pkg/request"
)

const (
	apiEndpoint   = "https://www.wikidata.org/w/api.php"
	entityBaseURL = "https://www.wikidata.org/wiki/"

	// defaultLanguage is the fallback for label/description resolution.
	defaultLanguage = "en"

	// maxRelated caps how many discovered identifiers get hydrated.
	maxRelated = 10
)

var qidRe = regexp.MustCompile(`^Q\d+$`)

// Client handles Wikidata API interactions.
type Client struct {
	request     *request.Client
	APIEndpoint string // Optional override for testing
}

// NewClient creates a new Wikidata client.
func NewClient(r *request.Client) *Client {
	return &Client{request: r, APIEndpoint: apiEndpoint}
}

// SearchEntities searches for items by keyword. limit is clamped to 1..50
// (default 10); lang defaults to "en". An absent upstream result set maps
// to an empty slice.
func (c *Client) SearchEntities(ctx context.Context, query string, limit int, lang string) ([]SearchResult, error) {
	if limit <= 0 {
		limit = 10
	}
	if limit > 50 {
		limit = 50
	}
	if lang == "" {
		lang = defaultLanguage
	}

	u, _ := url.Parse(c.APIEndpoint)
	q := u.Query()
	q.Add("action", "wbsearchentities")
	q.Add("search", query)
	q.Add("language", lang)
	q.Add("uselang", lang)
	q.Add("format", "json")
	q.Add("type", "item")
	q.Add("limit", strconv.Itoa(limit))
	u.RawQuery = q.Encode()

	body, err := c.request.Get(ctx, u.String())
	if err != nil {
		return nil, err
	}

	var result struct {
		Search []struct {
			ID          string `json:"id"`
			Label       string `json:"label"`
			Description string `json:"description"`
			ConceptURI  string `json:"concepturi"`
		} `json:"search"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("failed to decode json: %w", err)
	}

	results := make([]SearchResult, 0, len(result.Search))
	for _, hit := range result.Search {
		canonical := hit.ConceptURI
		if canonical == "" {
			canonical = entityBaseURL + hit.ID
		}

		r := SearchResult{
			ID:           hit.ID,
			Label:        hit.Label,
			Description:  hit.Description,
			CanonicalURL: canonical,
		}
		if hit.Label != "" {
			r.ArticleURL = fmt.Sprintf("https://%s.wikipedia.org/wiki/%s",
				lang, strings.ReplaceAll(hit.Label, " ", "_"))
		}
		results = append(results, r)
	}

	return results, nil
}

// wbEntityResponse models the slice of a wbgetentities payload we consume.
type wbEntityResponse struct {
	Entities map[string]wbEntity `json:"entities"`
}

type wbEntity struct {
	Missing      *string                    `json:"missing"`
	Labels       map[string]langValue       `json:"labels"`
	Descriptions map[string]langValue       `json:"descriptions"`
	Aliases      map[string][]langValue     `json:"aliases"`
	Claims       map[string][]rawClaim      `json:"claims"`
	Sitelinks    map[string]json.RawMessage `json:"sitelinks"`
}

type langValue struct {
	Value string `json:"value"`
}

// GetEntityDetail fetches and flattens a single entity. Failures and
// missing identifiers both yield the nil sentinel; callers treat nil as
// "not found".
func (c *Client) GetEntityDetail(ctx context.Context, id, lang string) *EntityDetail {
	if lang == "" {
		lang = defaultLanguage
	}

	u, _ := url.Parse(c.APIEndpoint)
	q := u.Query()
	q.Add("action", "wbgetentities")
	q.Add("format", "json")
	q.Add("ids", id)
	q.Add("props", "labels|descriptions|aliases|claims|sitelinks")
	q.Add("languages", languagesParam(lang))
	u.RawQuery = q.Encode()

	body, err := c.request.Get(ctx, u.String())
	if err != nil {
		slog.Debug("Entity lookup failed", "id", id, "error", err)
		return nil
	}

	var result wbEntityResponse
	if err := json.Unmarshal(body, &result); err != nil {
		slog.Debug("Entity decode failed", "id", id, "error", err)
		return nil
	}

	ent, ok := result.Entities[id]
	if !ok || ent.Missing != nil {
		return nil
	}

	detail := &EntityDetail{
		ID:            id,
		Label:         pickLang(ent.Labels, lang),
		Description:   pickLang(ent.Descriptions, lang),
		Aliases:       []string{},
		Claims:        flattenClaims(ent.Claims),
		SitelinkCount: len(ent.Sitelinks),
		CanonicalURL:  entityBaseURL + id,
	}

	// Aliases: requested language only, no fallback
	for _, a := range ent.Aliases[lang] {
		if a.Value != "" {
			detail.Aliases = append(detail.Aliases, a.Value)
		}
	}

	return detail
}

// RelatedEntities discovers entities referenced in an entity's flattened
// claims and hydrates their labels in one batched request. The scan walks
// the claim table in order with insertion-ordered de-duplication, so the
// ten-entry cap is deterministic. An unknown source id yields an empty
// slice; a failure of the batch fetch propagates.
func (c *Client) RelatedEntities(ctx context.Context, id, lang string) ([]RelatedEntity, error) {
	if lang == "" {
		lang = defaultLanguage
	}

	detail := c.GetEntityDetail(ctx, id, lang)
	if detail == nil {
		return []RelatedEntity{}, nil
	}

	seen := make(map[string]bool)
	var selected []string
	for _, prop := range claimProperties {
		for _, v := range detail.Claims[prop.Name] {
			if len(selected) >= maxRelated {
				break
			}
			if !qidRe.MatchString(v) || v == id || seen[v] {
				continue
			}
			seen[v] = true
			selected = append(selected, v)
		}
	}

	if len(selected) == 0 {
		return []RelatedEntity{}, nil
	}

	entities, err := c.getEntitiesBrief(ctx, selected, lang)
	if err != nil {
		return nil, err
	}

	related := make([]RelatedEntity, 0, len(selected))
	for _, qid := range selected {
		ent, ok := entities[qid]
		if !ok {
			// Last resort: the identifier stands in for the label
			related = append(related, RelatedEntity{ID: qid, Label: qid})
			continue
		}

		label := pickLang(ent.Labels, lang)
		if label == "" {
			label = qid
		}
		related = append(related, RelatedEntity{
			ID:          qid,
			Label:       label,
			Description: pickLang(ent.Descriptions, lang),
		})
	}

	return related, nil
}

// getEntitiesBrief fetches labels and descriptions for a set of ids in a
// single request.
func (c *Client) getEntitiesBrief(ctx context.Context, ids []string, lang string) (map[string]wbEntity, error) {
	u, _ := url.Parse(c.APIEndpoint)
	q := u.Query()
	q.Add("action", "wbgetentities")
	q.Add("format", "json")
	q.Add("ids", strings.Join(ids, "|"))
	q.Add("props", "labels|descriptions")
	q.Add("languages", languagesParam(lang))
	u.RawQuery = q.Encode()

	body, err := c.request.Get(ctx, u.String())
	if err != nil {
		return nil, err
	}

	var result wbEntityResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("failed to decode json: %w", err)
	}

	return result.Entities, nil
}

// pickLang prefers the requested language and falls back to the default.
func pickLang(values map[string]langValue, lang string) string {
	if v, ok := values[lang]; ok && v.Value != "" {
		return v.Value
	}
	if v, ok := values[defaultLanguage]; ok {
		return v.Value
	}
	return ""
}

func languagesParam(lang string) string {
	if lang == defaultLanguage {
		return lang
	}
	return lang + "|" + defaultLanguage
}
