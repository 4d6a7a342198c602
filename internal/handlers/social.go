// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"modhub/internal/interactions"
	"modhub/internal/middleware"
)

type likeRequest struct {
	ItemID string `json:"itemId"`
}

type rateRequest struct {
	ItemID string `json:"itemId"`
	Rating int    `json:"rating"`
}

// Like increments an item's like counter, once per client per day.
func (a *API) Like(w http.ResponseWriter, r *http.Request) {
	var req likeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	total, err := a.interactions.Like(r.Context(), req.ItemID, middleware.ClientIP(r))
	if err != nil {
		switch {
		case errors.Is(err, interactions.ErrInvalidRequest):
			respondError(w, http.StatusBadRequest, "Missing itemId")
		case errors.Is(err, interactions.ErrRateLimited):
			respondError(w, http.StatusTooManyRequests, "Already liked recently")
		default:
			slog.Error("like failed", "item", req.ItemID, "error", err)
			respondError(w, http.StatusInternalServerError, "Internal server error")
		}
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{"success": true, "likes": total})
}

// Rate records a 1-5 rating and returns the new running average.
func (a *API) Rate(w http.ResponseWriter, r *http.Request) {
	var req rateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	result, err := a.interactions.Rate(r.Context(), req.ItemID, req.Rating, middleware.ClientIP(r))
	if err != nil {
		switch {
		case errors.Is(err, interactions.ErrInvalidRequest):
			respondError(w, http.StatusBadRequest, "Rating must be between 1 and 5")
		case errors.Is(err, interactions.ErrAlreadyRated):
			respondError(w, http.StatusTooManyRequests, "Already rated recently")
		default:
			slog.Error("rate failed", "item", req.ItemID, "error", err)
			respondError(w, http.StatusInternalServerError, "Internal server error")
		}
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"success":     true,
		"rating":      result.Rating,
		"ratingCount": result.Count,
	})
}
