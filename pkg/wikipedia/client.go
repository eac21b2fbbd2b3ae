package wikipedia

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"wikigate/pkg/prose"
	"wikigate/pkg/request"
)

// Client handles Wikipedia REST API interactions.
type Client struct {
	request     *request.Client
	APIEndpoint string // Optional override for testing
}

// NewClient creates a new Wikipedia client.
func NewClient(r *request.Client) *Client {
	return &Client{request: r}
}

// Summary is the simplified page summary returned to entrypoint callers.
type Summary struct {
	Title          string       `json:"title"`
	Description    string       `json:"description,omitempty"`
	Extract        string       `json:"extract"`
	ThumbnailURL   string       `json:"thumbnailUrl,omitempty"`
	ContentURLs    *ContentURLs `json:"contentUrls,omitempty"`
	Coordinates    *Coordinates `json:"coordinates,omitempty"`
	LinkedEntityID string       `json:"linkedEntityId,omitempty"`
}

// ContentURLs holds the canonical page URLs per form factor.
type ContentURLs struct {
	Desktop string `json:"desktop,omitempty"`
	Mobile  string `json:"mobile,omitempty"`
}

// Coordinates holds the page's primary coordinates.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// GetSummary fetches the page summary for a title. Any failure (network,
// non-2xx including upstream 404, malformed payload) yields the nil
// sentinel: callers must treat nil as "not found", never as a transport
// error to propagate.
func (c *Client) GetSummary(ctx context.Context, title, lang string) *Summary {
	if lang == "" {
		lang = "en"
	}

	var endpoint string
	if c.APIEndpoint != "" {
		endpoint = c.APIEndpoint
	} else {
		endpoint = fmt.Sprintf("https://%s.wikipedia.org/api/rest_v1", lang)
	}

	normalized := strings.ReplaceAll(title, " ", "_")
	u := fmt.Sprintf("%s/page/summary/%s", endpoint, url.PathEscape(normalized))

	body, err := c.request.Get(ctx, u)
	if err != nil {
		slog.Debug("Summary lookup failed", "title", title, "lang", lang, "error", err)
		return nil
	}

	var apiResp struct {
		Title       string `json:"title"`
		Description string `json:"description"`
		Extract     string `json:"extract"`
		ExtractHTML string `json:"extract_html"`
		Thumbnail   struct {
			Source string `json:"source"`
		} `json:"thumbnail"`
		ContentURLs struct {
			Desktop struct {
				Page string `json:"page"`
			} `json:"desktop"`
			Mobile struct {
				Page string `json:"page"`
			} `json:"mobile"`
		} `json:"content_urls"`
		Coordinates *struct {
			Lat float64 `json:"lat"`
			Lon float64 `json:"lon"`
		} `json:"coordinates"`
		WikibaseItem string `json:"wikibase_item"`
	}
	if err := json.Unmarshal(body, &apiResp); err != nil {
		slog.Debug("Summary decode failed", "title", title, "lang", lang, "error", err)
		return nil
	}

	extract := apiResp.Extract
	if extract == "" && apiResp.ExtractHTML != "" {
		// Some pages only carry the HTML form of the extract
		extract = prose.Text(apiResp.ExtractHTML)
	}

	s := &Summary{
		Title:          apiResp.Title,
		Description:    apiResp.Description,
		Extract:        extract,
		ThumbnailURL:   apiResp.Thumbnail.Source,
		LinkedEntityID: apiResp.WikibaseItem,
	}

	if apiResp.ContentURLs.Desktop.Page != "" || apiResp.ContentURLs.Mobile.Page != "" {
		s.ContentURLs = &ContentURLs{
			Desktop: apiResp.ContentURLs.Desktop.Page,
			Mobile:  apiResp.ContentURLs.Mobile.Page,
		}
	}
	if apiResp.Coordinates != nil {
		s.Coordinates = &Coordinates{Lat: apiResp.Coordinates.Lat, Lon: apiResp.Coordinates.Lon}
	}

	return s
}
