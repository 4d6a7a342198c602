// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/url"

	"modhub/internal/interactions"
)

// allowedAssetHosts is the fixed set of domains the proxy will fetch from.
var allowedAssetHosts = map[string]bool{
	"github.com":                           true,
	"objects.githubusercontent.com":        true,
	"release-assets.githubusercontent.com": true,
}

// Download proxies an allow-listed asset to the client and counts the
// download when an item id is supplied.
func (a *API) Download(w http.ResponseWriter, r *http.Request) {
	rawURL := r.URL.Query().Get("url")
	itemID := r.URL.Query().Get("itemId")

	if rawURL == "" {
		respondError(w, http.StatusBadRequest, "Missing url parameter")
		return
	}
	target, err := url.Parse(rawURL)
	if err != nil || target.Scheme != "https" || target.Host == "" {
		respondError(w, http.StatusBadRequest, "Invalid asset URL")
		return
	}
	if !allowedAssetHosts[target.Hostname()] {
		respondError(w, http.StatusBadRequest, "Host not allowed")
		return
	}

	req, err := http.NewRequestWithContext(r.Context(), http.MethodGet, target.String(), nil)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid asset URL")
		return
	}
	resp, err := a.proxyClient.Do(req)
	if err != nil {
		slog.Warn("asset fetch failed", "url", target.String(), "error", err)
		respondError(w, http.StatusBadGateway, "Failed to fetch asset")
		return
	}
	defer resp.Body.Close()

	// Non-success upstream responses pass through with the same status.
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		w.WriteHeader(resp.StatusCode)
		io.Copy(w, resp.Body)
		return
	}

	if itemID != "" {
		if _, err := a.interactions.TrackDownload(r.Context(), itemID); err != nil {
			slog.Warn("download count failed", "item", itemID, "error", err)
		}
	}

	if ct := resp.Header.Get("Content-Type"); ct != "" {
		w.Header().Set("Content-Type", ct)
	} else {
		w.Header().Set("Content-Type", "application/octet-stream")
	}
	if cl := resp.Header.Get("Content-Length"); cl != "" {
		w.Header().Set("Content-Length", cl)
	}
	if cd := resp.Header.Get("Content-Disposition"); cd != "" {
		w.Header().Set("Content-Disposition", cd)
	}
	w.Header().Set("Cache-Control", "public, max-age=86400")
	io.Copy(w, resp.Body)
}

type trackRequest struct {
	ItemID   string `json:"itemId"`
	FileName string `json:"fileName"`
}

// TrackDownload counts a download reported by a client that fetched the
// asset directly.
func (a *API) TrackDownload(w http.ResponseWriter, r *http.Request) {
	var req trackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	total, err := a.interactions.TrackDownload(r.Context(), req.ItemID)
	if err != nil {
		if errors.Is(err, interactions.ErrInvalidRequest) {
			respondError(w, http.StatusBadRequest, "Missing itemId")
			return
		}
		slog.Error("track download failed", "item", req.ItemID, "error", err)
		respondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	if req.FileName != "" {
		slog.Info("download tracked", "item", req.ItemID, "file", req.FileName)
	}
	respondJSON(w, http.StatusOK, map[string]any{"success": true, "downloads": total})
}
