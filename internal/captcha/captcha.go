// Package captcha verifies Turnstile response tokens against the Cloudflare
// siteverify endpoint. When no secret is configured the verifier runs in
// open mode and accepts everything, so deployments without captcha work.
package captcha

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Verifier checks submission captcha tokens.
type Verifier struct {
	secret  string
	baseURL string
	client  *http.Client
}

// New creates a verifier. An empty secret enables open mode.
func New(secret string) *Verifier {
	return &Verifier{
		secret:  secret,
		baseURL: "https://challenges.cloudflare.com",
		client:  &http.Client{Timeout: 15 * time.Second},
	}
}

// SetBaseURL overrides the verification endpoint, used by tests.
func (v *Verifier) SetBaseURL(base string) { v.baseURL = base }

// Enabled reports whether a secret is configured.
func (v *Verifier) Enabled() bool { return v.secret != "" }

type verifyResponse struct {
	Success    bool     `json:"success"`
	ErrorCodes []string `json:"error-codes"`
}

// Verify checks a response token. In open mode it always succeeds. A false
// return with nil error means the token was rejected; errors are transport
// or decode failures.
func (v *Verifier) Verify(ctx context.Context, token, remoteIP string) (bool, error) {
	if !v.Enabled() {
		return true, nil
	}
	if token == "" {
		return false, nil
	}

	form := url.Values{}
	form.Set("secret", v.secret)
	form.Set("response", token)
	if remoteIP != "" {
		form.Set("remoteip", remoteIP)
	}

	u := v.baseURL + "/turnstile/v0/siteverify"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, strings.NewReader(form.Encode()))
	if err != nil {
		return false, fmt.Errorf("captcha request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := v.client.Do(req)
	if err != nil {
		return false, fmt.Errorf("captcha http: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return false, fmt.Errorf("captcha read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return false, fmt.Errorf("captcha verify error (status %d): %s", resp.StatusCode, string(body))
	}

	var result verifyResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return false, fmt.Errorf("captcha unmarshal: %w", err)
	}
	return result.Success, nil
}
