package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/hitoshi/merlin-gateway/internal/model"
)

func TestGetLoginURL_ContainsRequiredParams(t *testing.T) {
	p := NewGoogleOAuthProvider(GoogleOAuthConfig{
		ClientID:    "client-1",
		RedirectURL: "http://localhost:8080/auth/google/callback",
	})

	loginURL := p.GetLoginURL("state-xyz")

	u, err := url.Parse(loginURL)
	if err != nil {
		t.Fatalf("failed to parse login URL: %v", err)
	}
	q := u.Query()

	if q.Get("client_id") != "client-1" {
		t.Errorf("client_id = %q, want %q", q.Get("client_id"), "client-1")
	}
	if q.Get("state") != "state-xyz" {
		t.Errorf("state = %q, want %q", q.Get("state"), "state-xyz")
	}
	if q.Get("response_type") != "code" {
		t.Errorf("response_type = %q, want %q", q.Get("response_type"), "code")
	}
	if !strings.Contains(q.Get("scope"), "email") {
		t.Errorf("scope = %q, want to contain email", q.Get("scope"))
	}
}

func TestExchangeCode_Success_ReturnsIdentity(t *testing.T) {
	userInfoSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if auth := r.Header.Get("Authorization"); auth != "Bearer google-access-token" {
			t.Errorf("Authorization = %q, want Bearer google-access-token", auth)
		}
		w.Write([]byte(`{"sub":"google-sub-1","email":"a@b.com"}`))
	}))
	defer userInfoSrv.Close()

	tokenSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			t.Fatalf("failed to parse form: %v", err)
		}
		if code := r.PostForm.Get("code"); code != "code-1" {
			t.Errorf("code = %q, want %q", code, "code-1")
		}
		if grantType := r.PostForm.Get("grant_type"); grantType != "authorization_code" {
			t.Errorf("grant_type = %q, want authorization_code", grantType)
		}
		w.Write([]byte(`{"access_token":"google-access-token","token_type":"Bearer","expires_in":3600}`))
	}))
	defer tokenSrv.Close()

	p := NewGoogleOAuthProvider(GoogleOAuthConfig{
		ClientID:     "client-1",
		ClientSecret: "secret-1",
		RedirectURL:  "http://localhost:8080/auth/google/callback",
		TokenURL:     tokenSrv.URL,
		UserInfoURL:  userInfoSrv.URL,
	})

	identity, err := p.ExchangeCode(context.Background(), "code-1")
	if err != nil {
		t.Fatalf("ExchangeCode failed: %v", err)
	}

	if identity.ID != "google-sub-1" {
		t.Errorf("ID = %q, want %q", identity.ID, "google-sub-1")
	}
	if identity.Email != "a@b.com" {
		t.Errorf("Email = %q, want %q", identity.Email, "a@b.com")
	}
	if identity.Provider != model.ProviderGoogle {
		t.Errorf("Provider = %q, want %q", identity.Provider, model.ProviderGoogle)
	}
	// Googleのアクセストークンはセッションに載せない
	if identity.AccessToken != "" {
		t.Errorf("AccessToken = %q, want empty", identity.AccessToken)
	}
}

func TestExchangeCode_TokenEndpointError_ReturnsError(t *testing.T) {
	tokenSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":"invalid_grant"}`))
	}))
	defer tokenSrv.Close()

	p := NewGoogleOAuthProvider(GoogleOAuthConfig{
		TokenURL: tokenSrv.URL,
	})

	if _, err := p.ExchangeCode(context.Background(), "bad-code"); err == nil {
		t.Fatal("expected error for token endpoint failure, got nil")
	}
}

func TestExchangeCode_EmptySub_ReturnsError(t *testing.T) {
	userInfoSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"email":"a@b.com"}`))
	}))
	defer userInfoSrv.Close()

	tokenSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"access_token":"tok"}`))
	}))
	defer tokenSrv.Close()

	p := NewGoogleOAuthProvider(GoogleOAuthConfig{
		TokenURL:    tokenSrv.URL,
		UserInfoURL: userInfoSrv.URL,
	})

	if _, err := p.ExchangeCode(context.Background(), "code-1"); err == nil {
		t.Fatal("expected error for missing sub, got nil")
	}
}
