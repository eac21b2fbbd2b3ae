package api

import (
	"embed"
	"log/slog"
	"net/http"
)

//go:embed assets/icon.svg
var assetsFS embed.FS

// handleIcon serves the embedded service icon at a fixed path.
func handleIcon(w http.ResponseWriter, r *http.Request) {
	data, err := assetsFS.ReadFile("assets/icon.svg")
	if err != nil {
		http.Error(w, "icon unavailable", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "image/svg+xml")
	w.Header().Set("Cache-Control", "public, max-age=86400")
	if _, err := w.Write(data); err != nil {
		slog.Error("Failed to write icon response", "error", err)
	}
}
