// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"errors"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strings"

	"modhub/internal/middleware"
	"modhub/internal/submissions"
)

// parseMemoryLimit bounds how much of the multipart body is held in memory;
// larger files spill to temp files.
const parseMemoryLimit = 10 << 20

// Submit accepts a multipart submission and files it with the git host.
func (a *API) Submit(w http.ResponseWriter, r *http.Request) {
	if !strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		respondError(w, http.StatusUnsupportedMediaType, "Expected multipart/form-data")
		return
	}
	if err := r.ParseMultipartForm(parseMemoryLimit); err != nil {
		respondError(w, http.StatusBadRequest, "Malformed multipart body")
		return
	}

	in := submissions.Input{
		Title:           r.FormValue("title"),
		Category:        r.FormValue("category"),
		Game:            r.FormValue("game"),
		Description:     r.FormValue("description"),
		Author:          r.FormValue("author"),
		LongDescription: r.FormValue("longDescription"),
		Version:         r.FormValue("version"),
		CarOrTrack:      r.FormValue("carOrTrack"),
		Compatibility:   r.FormValue("compatibility"),
		Requirements:    r.FormValue("requirements"),
		Installation:    r.FormValue("installation"),
		Tags:            r.FormValue("tags"),
		MediaURLs:       r.FormValue("mediaUrls"),
		License:         r.FormValue("license"),
		Notes:           r.FormValue("notes"),
		CaptchaToken:    r.FormValue("cf-turnstile-response"),
		RemoteIP:        middleware.ClientIP(r),
	}

	var files []submissions.Upload
	if r.MultipartForm != nil {
		for _, headers := range r.MultipartForm.File {
			for _, fh := range headers {
				files = append(files, formUpload(fh))
			}
		}
	}

	receipt, err := a.submissions.Submit(r.Context(), in, files)
	if err != nil {
		a.submitError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"success":     true,
		"id":          receipt.ID,
		"issueNumber": receipt.IssueNumber,
		"issueUrl":    receipt.IssueURL,
		"files":       receipt.Assets,
	})
}

func formUpload(fh *multipart.FileHeader) submissions.Upload {
	return submissions.Upload{
		Name: fh.Filename,
		Size: fh.Size,
		Open: func() (io.ReadCloser, error) { return fh.Open() },
	}
}

func (a *API) submitError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, submissions.ErrInvalidRequest):
		respondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, submissions.ErrCaptchaFailed):
		respondError(w, http.StatusBadRequest, "Captcha verification failed")
	case errors.Is(err, submissions.ErrPayloadTooLarge):
		respondError(w, http.StatusRequestEntityTooLarge, "File exceeds the maximum upload size")
	case errors.Is(err, submissions.ErrUpstream):
		slog.Error("submission upstream failure", "error", err)
		respondError(w, http.StatusBadGateway, "Failed to store the submission")
	default:
		slog.Error("submission failed", "error", err)
		respondError(w, http.StatusInternalServerError, "Internal server error")
	}
}
