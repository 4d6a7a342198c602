// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package hub is a small GitHub REST client covering the operations this
// service needs: release lookup and creation, release-asset upload, and
// tracking-issue creation and listing.
package hub

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// ErrNotFound signals a 404 from the API, e.g. a release tag that does not
// exist yet.
var ErrNotFound = errors.New("hub: not found")

// Client talks to the GitHub API for a single repository.
type Client struct {
	owner     string
	repo      string
	token     string
	baseURL   string
	uploadURL string
	client    *http.Client
}

// New creates a client for owner/repo. Base URLs default to the public API
// and can be overridden for tests via SetBaseURL.
func New(owner, repo, token string) *Client {
	return &Client{
		owner:     owner,
		repo:      repo,
		token:     token,
		baseURL:   "https://api.github.com",
		uploadURL: "https://uploads.github.com",
		client:    &http.Client{Timeout: 60 * time.Second},
	}
}

// SetBaseURL points both the API and upload endpoints at the given base.
func (c *Client) SetBaseURL(base string) {
	c.baseURL = base
	c.uploadURL = base
}

// Release is an asset-hosting container, one per calendar month.
type Release struct {
	ID      int64  `json:"id"`
	TagName string `json:"tag_name"`
	Name    string `json:"name"`
	HTMLURL string `json:"html_url"`
}

// Asset is one uploaded release asset.
type Asset struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Size        int64  `json:"size"`
	DownloadURL string `json:"browser_download_url"`
}

// Issue is a tracking record filed per accepted submission.
type Issue struct {
	Number  int    `json:"number"`
	Title   string `json:"title"`
	Body    string `json:"body"`
	HTMLURL string `json:"html_url"`
}

// ReleaseByTag looks up a release by its tag. Returns ErrNotFound when the
// tag has no release yet.
func (c *Client) ReleaseByTag(ctx context.Context, tag string) (*Release, error) {
	path := fmt.Sprintf("/repos/%s/%s/releases/tags/%s", c.owner, c.repo, url.PathEscape(tag))
	var rel Release
	if err := c.doJSON(ctx, http.MethodGet, c.baseURL+path, nil, &rel); err != nil {
		return nil, err
	}
	return &rel, nil
}

// CreateRelease creates a release for the given tag.
func (c *Client) CreateRelease(ctx context.Context, tag, name string) (*Release, error) {
	path := fmt.Sprintf("/repos/%s/%s/releases", c.owner, c.repo)
	payload := map[string]any{
		"tag_name": tag,
		"name":     name,
	}
	var rel Release
	if err := c.doJSON(ctx, http.MethodPost, c.baseURL+path, payload, &rel); err != nil {
		return nil, err
	}
	return &rel, nil
}

// UploadAsset streams a file to a release. The name must already be
// sanitized by the caller.
func (c *Client) UploadAsset(ctx context.Context, releaseID int64, name, contentType string, body io.Reader, size int64) (*Asset, error) {
	u := fmt.Sprintf("%s/repos/%s/%s/releases/%d/assets?name=%s",
		c.uploadURL, c.owner, c.repo, releaseID, url.QueryEscape(name))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, body)
	if err != nil {
		return nil, fmt.Errorf("hub upload request: %w", err)
	}
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	req.Header.Set("Content-Type", contentType)
	req.ContentLength = size
	c.auth(req)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("hub upload http: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("hub upload read body: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("hub upload error (status %d): %s", resp.StatusCode, string(respBody))
	}

	var asset Asset
	if err := json.Unmarshal(respBody, &asset); err != nil {
		return nil, fmt.Errorf("hub upload unmarshal: %w", err)
	}
	return &asset, nil
}

// CreateIssue files an issue with the given labels.
func (c *Client) CreateIssue(ctx context.Context, title, body string, labels []string) (*Issue, error) {
	path := fmt.Sprintf("/repos/%s/%s/issues", c.owner, c.repo)
	payload := map[string]any{
		"title":  title,
		"body":   body,
		"labels": labels,
	}
	var issue Issue
	if err := c.doJSON(ctx, http.MethodPost, c.baseURL+path, payload, &issue); err != nil {
		return nil, err
	}
	return &issue, nil
}

// ListIssues returns one page of open issues carrying the given label.
// Pages start at 1; an empty page means the end of the list.
func (c *Client) ListIssues(ctx context.Context, label string, page int) ([]Issue, error) {
	path := fmt.Sprintf("/repos/%s/%s/issues?state=open&per_page=100&page=%d&labels=%s",
		c.owner, c.repo, page, url.QueryEscape(label))
	var issues []Issue
	if err := c.doJSON(ctx, http.MethodGet, c.baseURL+path, nil, &issues); err != nil {
		return nil, err
	}
	return issues, nil
}

// doJSON performs a JSON request/response round trip against the API.
func (c *Client) doJSON(ctx context.Context, method, u string, payload, out any) error {
	var body io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("hub marshal: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return fmt.Errorf("hub request: %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	c.auth(req)

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("hub http: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("hub read body: %w", err)
	}

	if resp.StatusCode == http.StatusNotFound {
		return ErrNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("hub API error (status %d): %s", resp.StatusCode, string(respBody))
	}

	if out != nil {
		if err := json.Unmarshal(respBody, out); err != nil {
			return fmt.Errorf("hub unmarshal: %w", err)
		}
	}
	return nil
}

// auth applies the token and API headers to a request.
func (c *Client) auth(req *http.Request) {
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("X-GitHub-Api-Version", "2022-11-28")
}
