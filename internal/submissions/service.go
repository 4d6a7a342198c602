// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package submissions turns a validated multipart submission into release
// assets plus a tracking issue. The pipeline is linear with no retries and
// no rollback: a failure after some uploads leaves those assets orphaned,
// which is accepted over compensating transactions the git host cannot make
// atomic anyway.
package submissions

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"modhub/internal/captcha"
	"modhub/internal/hub"
	"modhub/internal/storage"
)

var (
	// ErrInvalidRequest signals missing required fields.
	ErrInvalidRequest = errors.New("submissions: invalid request")

	// ErrCaptchaFailed signals a missing or rejected captcha token.
	ErrCaptchaFailed = errors.New("submissions: captcha verification failed")

	// ErrPayloadTooLarge signals a file exceeding the configured limit.
	ErrPayloadTooLarge = errors.New("submissions: file too large")

	// ErrUpstream signals a failed call to the git host.
	ErrUpstream = errors.New("submissions: upstream error")
)

// TrackingLabel marks tracking issues so the rebuild job can find them.
const TrackingLabel = "submission"

// Upload is one attached file. Open must return a fresh reader each call so
// the bytes can be sent to the release and, best-effort, to the archive.
type Upload struct {
	Name string
	Size int64
	Open func() (io.ReadCloser, error)
}

// Input carries the raw form fields of a submission before normalization.
type Input struct {
	Title       string
	Category    string
	Game        string
	Description string
	Author      string

	LongDescription string
	Version         string
	CarOrTrack      string
	Compatibility   string // comma separated
	Requirements    string // newline separated
	Installation    string // newline separated
	Tags            string // comma separated
	MediaURLs       string // newline separated
	License         string
	Notes           string

	CaptchaToken string
	RemoteIP     string
}

// Asset records one uploaded file in the tracking summary.
type Asset struct {
	Name string `json:"name"`
	URL  string `json:"url"`
	Size int64  `json:"size"`
	Type string `json:"type"`
}

// Summary is the canonical JSON block embedded in the tracking issue body.
// It is the durable record the offline rebuild consumes.
type Summary struct {
	ID              string   `json:"id"`
	Title           string   `json:"title"`
	Category        string   `json:"category"`
	Game            string   `json:"game"`
	Description     string   `json:"description"`
	Author          string   `json:"author"`
	LongDescription string   `json:"longDescription,omitempty"`
	Version         string   `json:"version,omitempty"`
	CarOrTrack      string   `json:"carOrTrack,omitempty"`
	Compatibility   []string `json:"compatibility,omitempty"`
	Requirements    []string `json:"requirements,omitempty"`
	Installation    []string `json:"installation,omitempty"`
	Tags            []string `json:"tags,omitempty"`
	MediaURLs       []string `json:"mediaUrls,omitempty"`
	License         string   `json:"license,omitempty"`
	Notes           string   `json:"notes,omitempty"`
	SubmittedAt     string   `json:"submittedAt"`
	Files           []Asset  `json:"files,omitempty"`
}

// Receipt is the durable result returned to the submitter.
type Receipt struct {
	ID          string  `json:"id"`
	IssueNumber int     `json:"issueNumber"`
	IssueURL    string  `json:"issueUrl"`
	Assets      []Asset `json:"assets,omitempty"`
}

// Service runs the submission intake pipeline.
type Service struct {
	hub      *hub.Client
	verifier *captcha.Verifier
	archive  *storage.Client // nil when no archive is configured
	maxBytes int64
}

// NewService creates a submission service. archive may be nil.
func NewService(h *hub.Client, v *captcha.Verifier, archive *storage.Client, maxBytes int64) *Service {
	return &Service{hub: h, verifier: v, archive: archive, maxBytes: maxBytes}
}

// MonthlyTag derives the release tag for a point in time, one per UTC
// calendar month.
func MonthlyTag(t time.Time) string {
	t = t.UTC()
	return fmt.Sprintf("uploads-%04d-%02d", t.Year(), int(t.Month()))
}

// Submit validates and executes a submission. Oversized files are rejected
// before any upload begins, so a 413 never leaves partial assets behind.
// Upload or issue failures after that point abort without rollback.
func (s *Service) Submit(ctx context.Context, in Input, files []Upload) (*Receipt, error) {
	sum, err := s.validate(in)
	if err != nil {
		return nil, err
	}

	ok, err := s.verifier.Verify(ctx, in.CaptchaToken, in.RemoteIP)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	if !ok {
		return nil, ErrCaptchaFailed
	}

	// Size-check every file up front: reject-before-any-upload.
	for _, f := range files {
		if s.maxBytes > 0 && f.Size > s.maxBytes {
			return nil, fmt.Errorf("%w: %s is %d bytes (limit %d)", ErrPayloadTooLarge, f.Name, f.Size, s.maxBytes)
		}
	}

	var rel *hub.Release
	if len(files) > 0 {
		rel, err = s.resolveRelease(ctx)
		if err != nil {
			return nil, err
		}
	}

	for _, f := range files {
		asset, err := s.uploadFile(ctx, rel, sum.ID, f)
		if err != nil {
			// Files already uploaded stay behind; accepted leak.
			return nil, err
		}
		sum.Files = append(sum.Files, *asset)
	}

	issue, err := s.fileIssue(ctx, sum)
	if err != nil {
		return nil, err
	}

	slog.Info("submission accepted",
		"id", sum.ID,
		"title", sum.Title,
		"issue", issue.Number,
		"assets", len(sum.Files),
	)

	return &Receipt{
		ID:          sum.ID,
		IssueNumber: issue.Number,
		IssueURL:    issue.HTMLURL,
		Assets:      sum.Files,
	}, nil
}

// validate checks required fields and builds the normalized summary.
func (s *Service) validate(in Input) (*Summary, error) {
	required := []struct {
		name  string
		value string
	}{
		{"title", in.Title},
		{"category", in.Category},
		{"game", in.Game},
		{"description", in.Description},
		{"author", in.Author},
	}

	var missing []string
	for _, f := range required {
		if strings.TrimSpace(f.value) == "" {
			missing = append(missing, f.name)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: missing required fields: %s", ErrInvalidRequest, strings.Join(missing, ", "))
	}

	return &Summary{
		ID:              uuid.New().String(),
		Title:           strings.TrimSpace(in.Title),
		Category:        strings.TrimSpace(in.Category),
		Game:            strings.TrimSpace(in.Game),
		Description:     strings.TrimSpace(in.Description),
		Author:          strings.TrimSpace(in.Author),
		LongDescription: strings.TrimSpace(in.LongDescription),
		Version:         strings.TrimSpace(in.Version),
		CarOrTrack:      strings.TrimSpace(in.CarOrTrack),
		Compatibility:   splitList(in.Compatibility),
		Requirements:    splitLines(in.Requirements),
		Installation:    splitLines(in.Installation),
		Tags:            splitList(in.Tags),
		MediaURLs:       splitLines(in.MediaURLs),
		License:         strings.TrimSpace(in.License),
		Notes:           strings.TrimSpace(in.Notes),
		SubmittedAt:     time.Now().UTC().Format(time.RFC3339),
	}, nil
}

// resolveRelease finds or creates this month's release container.
func (s *Service) resolveRelease(ctx context.Context) (*hub.Release, error) {
	tag := MonthlyTag(time.Now())

	rel, err := s.hub.ReleaseByTag(ctx, tag)
	if err == nil {
		return rel, nil
	}
	if !errors.Is(err, hub.ErrNotFound) {
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}

	rel, err = s.hub.CreateRelease(ctx, tag, "Community uploads "+strings.TrimPrefix(tag, "uploads-"))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	return rel, nil
}

// uploadFile streams one file to the release and mirrors it to the archive
// when one is configured. The mirror is best-effort and never fails the
// submission.
func (s *Service) uploadFile(ctx context.Context, rel *hub.Release, submissionID string, f Upload) (*Asset, error) {
	name := SanitizeFilename(f.Name)

	body, err := f.Open()
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %v", ErrUpstream, name, err)
	}
	uploaded, err := s.hub.UploadAsset(ctx, rel.ID, name, "", body, f.Size)
	body.Close()
	if err != nil {
		return nil, fmt.Errorf("%w: upload %s: %v", ErrUpstream, name, err)
	}

	if s.archive != nil {
		now := time.Now().UTC()
		key := fmt.Sprintf("submissions/%04d/%02d/%s/%s", now.Year(), int(now.Month()), submissionID, name)
		if mirror, err := f.Open(); err == nil {
			if err := s.archive.Archive(ctx, key, "application/octet-stream", mirror, f.Size); err != nil {
				slog.Warn("asset archive failed", "key", key, "error", err)
			}
			mirror.Close()
		}
	}

	return &Asset{
		Name: name,
		URL:  uploaded.DownloadURL,
		Size: f.Size,
		Type: ClassifyFile(name),
	}, nil
}

// fileIssue creates the tracking issue embedding the summary block.
func (s *Service) fileIssue(ctx context.Context, sum *Summary) (*hub.Issue, error) {
	title := fmt.Sprintf("[%s] %s", strings.ToUpper(sum.Category), sum.Title)

	issue, err := s.hub.CreateIssue(ctx, title, renderBody(sum), []string{TrackingLabel})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	return issue, nil
}

// renderBody builds the human-readable issue body with the fenced canonical
// JSON block at the end.
func renderBody(sum *Summary) string {
	var b strings.Builder
	fmt.Fprintf(&b, "New submission: %s\n\n", sum.Title)
	fmt.Fprintf(&b, "- Category: %s\n", sum.Category)
	fmt.Fprintf(&b, "- Game: %s\n", sum.Game)
	fmt.Fprintf(&b, "- Author: %s\n", sum.Author)
	if sum.Version != "" {
		fmt.Fprintf(&b, "- Version: %s\n", sum.Version)
	}
	fmt.Fprintf(&b, "- Files: %d\n", len(sum.Files))
	for _, f := range sum.Files {
		fmt.Fprintf(&b, "  - [%s](%s) (%s, %d bytes)\n", f.Name, f.URL, f.Type, f.Size)
	}

	payload, _ := json.MarshalIndent(sum, "", "  ")
	fmt.Fprintf(&b, "\n```json\n%s\n```\n", payload)
	return b.String()
}

// ExtractSummary parses the fenced JSON block out of a tracking issue body.
// Returns false when the body carries no parseable block.
func ExtractSummary(body string) (*Summary, bool) {
	const open = "```json\n"
	start := strings.Index(body, open)
	if start < 0 {
		return nil, false
	}
	rest := body[start+len(open):]
	end := strings.Index(rest, "\n```")
	if end < 0 {
		return nil, false
	}

	var sum Summary
	if err := json.Unmarshal([]byte(rest[:end]), &sum); err != nil {
		return nil, false
	}
	return &sum, true
}
