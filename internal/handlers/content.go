// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"modhub/internal/catalog"
)

// Content serves the merged catalog with live counters applied.
func (a *API) Content(w http.ResponseWriter, r *http.Request) {
	items, err := a.catalog.Collection(r.Context())
	if err != nil {
		a.catalogError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"success": true, "data": items})
}

// ContentItem serves one merged item looked up by id or legacy number.
func (a *API) ContentItem(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	item, err := a.catalog.Item(r.Context(), id)
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			respondError(w, http.StatusNotFound, "Item not found")
			return
		}
		a.catalogError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"success": true, "data": item})
}

// Stats serves aggregate totals over the merged catalog.
func (a *API) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := a.catalog.Stats(r.Context())
	if err != nil {
		a.catalogError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"success": true, "stats": stats})
}

func (a *API) catalogError(w http.ResponseWriter, err error) {
	if errors.Is(err, catalog.ErrUpstreamUnavailable) {
		slog.Warn("catalog upstream unavailable", "error", err)
		respondError(w, http.StatusBadGateway, "Catalog is temporarily unavailable")
		return
	}
	slog.Error("catalog read failed", "error", err)
	respondError(w, http.StatusInternalServerError, "Internal server error")
}
