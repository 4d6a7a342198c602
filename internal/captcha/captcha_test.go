package captcha

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestVerifyOpenMode(t *testing.T) {
	v := New("")
	ok, err := v.Verify(context.Background(), "", "")
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if !ok {
		t.Error("open mode must accept every request")
	}
	if v.Enabled() {
		t.Error("Enabled should be false without a secret")
	}
}

func TestVerifyMissingToken(t *testing.T) {
	v := New("secret-key")
	ok, err := v.Verify(context.Background(), "", "203.0.113.7")
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if ok {
		t.Error("missing token must be rejected when a secret is configured")
	}
}

func TestVerifySuccess(t *testing.T) {
	var capturedSecret, capturedToken, capturedIP string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		r.ParseForm()
		capturedSecret = r.PostFormValue("secret")
		capturedToken = r.PostFormValue("response")
		capturedIP = r.PostFormValue("remoteip")
		w.Write([]byte(`{"success": true}`))
	}))
	defer srv.Close()

	v := New("secret-key")
	v.SetBaseURL(srv.URL)

	ok, err := v.Verify(context.Background(), "tok-123", "203.0.113.7")
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if !ok {
		t.Error("expected verification success")
	}
	if capturedSecret != "secret-key" || capturedToken != "tok-123" || capturedIP != "203.0.113.7" {
		t.Errorf("form fields: secret=%q response=%q remoteip=%q", capturedSecret, capturedToken, capturedIP)
	}
}

func TestVerifyRejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success": false, "error-codes": ["invalid-input-response"]}`))
	}))
	defer srv.Close()

	v := New("secret-key")
	v.SetBaseURL(srv.URL)

	ok, err := v.Verify(context.Background(), "bad-token", "")
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if ok {
		t.Error("rejected token must not verify")
	}
}

func TestVerifyUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	v := New("secret-key")
	v.SetBaseURL(srv.URL)

	if _, err := v.Verify(context.Background(), "tok", ""); err == nil {
		t.Error("expected error for upstream 502")
	}
}
