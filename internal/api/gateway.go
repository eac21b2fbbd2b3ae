package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"wikigate/pkg/config"
	"wikigate/pkg/logging"
	"wikigate/pkg/lookup"
	"wikigate/pkg/tracker"
	"wikigate/pkg/wikidata"
	"wikigate/pkg/wikipedia"
)

// Gateway holds the adapters and collaborators behind the entrypoints.
type Gateway struct {
	cfg     *config.Config
	wd      *wikidata.Client
	wp      *wikipedia.Client
	lookup  *lookup.Service
	tracker *tracker.Tracker

	entrypoints []*Entrypoint
	byName      map[string]*Entrypoint
}

// Entrypoint is a single callable operation with a declared input contract
// and a fixed price. Price 0 means free.
type Entrypoint struct {
	Name        string
	Description string
	Price       int64
	Input       []FieldSpec
	handle      func(ctx context.Context, in map[string]any) (map[string]any, error)
}

// NewGateway creates the gateway and registers all entrypoints.
func NewGateway(cfg *config.Config, wd *wikidata.Client, wp *wikipedia.Client, ls *lookup.Service, tr *tracker.Tracker) *Gateway {
	g := &Gateway{
		cfg:     cfg,
		wd:      wd,
		wp:      wp,
		lookup:  ls,
		tracker: tr,
		byName:  make(map[string]*Entrypoint),
	}

	g.register(g.overviewEntrypoint())
	g.register(g.searchEntrypoint())
	g.register(g.summaryEntrypoint())
	g.register(g.detailsEntrypoint())
	g.register(g.relatedEntrypoint())
	g.register(g.batchEntrypoint())

	return g
}

func (g *Gateway) register(ep *Entrypoint) {
	g.entrypoints = append(g.entrypoints, ep)
	g.byName[ep.Name] = ep
}

// HandleEntrypoint dispatches POST /api/entrypoints/{name}: validate the
// declared input shape, charge the fee, invoke the adapter, stamp the
// completion timestamp.
func (g *Gateway) HandleEntrypoint(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	ep, ok := g.byName[name]
	if !ok {
		writeError(w, http.StatusNotFound, fmt.Sprintf("unknown entrypoint: %s", name))
		return
	}

	start := time.Now()

	in, err := decodeInput(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	// Validation rejects before any charge or upstream call
	if verrs := validateInput(ep.Input, in); len(verrs) > 0 {
		writeValidationErrors(w, verrs)
		return
	}

	if ep.Price > 0 {
		tx := tracker.Transaction{
			Entrypoint: ep.Name,
			Fee:        ep.Price,
			Caller:     r.Header.Get("X-Caller-Id"),
		}
		if _, err := g.tracker.Record(r.Context(), tx); err != nil {
			slog.Error("Failed to record charge", "entrypoint", ep.Name, "error", err)
			writeError(w, http.StatusInternalServerError, "failed to record charge")
			return
		}
	}

	result, err := ep.handle(r.Context(), in)
	if err != nil {
		g.tracker.TrackError(ep.Name)
		requestLog().Error("Entrypoint failed",
			"entrypoint", ep.Name, "fee", ep.Price, "error", err,
			"duration_ms", time.Since(start).Milliseconds())
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}

	if _, ok := result["fetchedAt"]; !ok {
		result["fetchedAt"] = time.Now().UTC().Format(time.RFC3339)
	}

	requestLog().Info("Entrypoint served",
		"entrypoint", ep.Name, "fee", ep.Price,
		"duration_ms", time.Since(start).Milliseconds())

	writeJSON(w, http.StatusOK, result)
}

// decodeInput parses the request body into a generic map. An empty body is
// treated as an empty input object.
func decodeInput(r *http.Request) (map[string]any, error) {
	in := make(map[string]any)
	if r.Body == nil {
		return in, nil
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		if errors.Is(err, io.EOF) {
			return make(map[string]any), nil
		}
		return nil, err
	}
	if in == nil {
		// A body of the JSON literal "null" decodes into a nil map
		in = make(map[string]any)
	}
	return in, nil
}

// language resolves the optional language field against the configured
// default.
func (g *Gateway) language(in map[string]any) string {
	if lang, ok := in["language"].(string); ok && lang != "" {
		return lang
	}
	if g.cfg.Service.DefaultLanguage != "" {
		return g.cfg.Service.DefaultLanguage
	}
	return "en"
}

// requestLog returns the dedicated request logger, falling back to the
// default logger when logging was not initialized (tests).
func requestLog() *slog.Logger {
	if logging.RequestLogger != nil {
		return logging.RequestLogger
	}
	return slog.Default()
}
