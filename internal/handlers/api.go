// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package handlers contains the HTTP handlers for the modhub edge API.
// Handlers are grouped on a single API struct and receive their
// dependencies through it.
package handlers

import (
	"encoding/json"
	"net/http"

	"modhub/internal/catalog"
	"modhub/internal/interactions"
	"modhub/internal/submissions"
)

// API groups all public HTTP handlers and their dependencies.
type API struct {
	catalog      *catalog.Service
	interactions *interactions.Service
	submissions  *submissions.Service
	proxyClient  *http.Client
}

// NewAPI creates a new API handler group with the given dependencies.
func NewAPI(cat *catalog.Service, inter *interactions.Service, sub *submissions.Service) *API {
	return &API{
		catalog:      cat,
		interactions: inter,
		submissions:  sub,
		proxyClient:  &http.Client{},
	}
}

// respondJSON writes v with the given status. Handlers build envelopes
// carrying a success flag so clients can branch without reading the status.
func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// respondError writes the failure envelope with a human-readable message.
func respondError(w http.ResponseWriter, status int, msg string) {
	respondJSON(w, status, map[string]any{"success": false, "error": msg})
}

// Health reports liveness for the load balancer.
func (a *API) Health(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{"success": true, "status": "ok"})
}
