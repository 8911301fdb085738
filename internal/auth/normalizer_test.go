package auth

import (
	"testing"

	"github.com/hitoshi/merlin-gateway/internal/model"
)

func TestApplyLoginEvent_CredentialLogin_CopiesIdentityFields(t *testing.T) {
	identity := &model.Identity{
		ID:          "42",
		Email:       "a@b.com",
		AccessToken: "abc",
		Provider:    model.ProviderCredentials,
	}

	got := ApplyLoginEvent(model.TokenPayload{}, CredentialLogin{Identity: identity})

	if got.UserID != "42" {
		t.Errorf("UserID = %q, want %q", got.UserID, "42")
	}
	if got.Email != "a@b.com" {
		t.Errorf("Email = %q, want %q", got.Email, "a@b.com")
	}
	if got.AccessToken != "abc" {
		t.Errorf("AccessToken = %q, want %q", got.AccessToken, "abc")
	}
	if got.Provider != model.ProviderCredentials {
		t.Errorf("Provider = %q, want %q", got.Provider, model.ProviderCredentials)
	}
}

func TestApplyLoginEvent_CredentialLogin_WithoutAccessToken_SkipsAssignment(t *testing.T) {
	existing := model.TokenPayload{UserID: "old", AccessToken: "keep-me"}
	identity := &model.Identity{ID: "42"}

	got := ApplyLoginEvent(existing, CredentialLogin{Identity: identity})

	if got.UserID != "42" {
		t.Errorf("UserID = %q, want %q", got.UserID, "42")
	}
	// AccessTokenが無いIdentityは既存の値を消さない（寛容なマージ）
	if got.AccessToken != "keep-me" {
		t.Errorf("AccessToken = %q, want %q", got.AccessToken, "keep-me")
	}
}

func TestApplyLoginEvent_CredentialLogin_NilIdentity_LeavesPayloadUnchanged(t *testing.T) {
	existing := model.TokenPayload{UserID: "u1", AccessToken: "t1"}

	got := ApplyLoginEvent(existing, CredentialLogin{})

	if got != existing {
		t.Errorf("payload = %+v, want unchanged %+v", got, existing)
	}
}

func TestApplyLoginEvent_OAuthLogin_SetsProviderAndSubject(t *testing.T) {
	identity := &model.Identity{ID: "google-sub-1", Email: "a@b.com", Provider: model.ProviderGoogle}

	got := ApplyLoginEvent(model.TokenPayload{}, OAuthLogin{Identity: identity})

	if got.Provider != model.ProviderGoogle {
		t.Errorf("Provider = %q, want %q", got.Provider, model.ProviderGoogle)
	}
	if got.UserID != "google-sub-1" {
		t.Errorf("UserID = %q, want %q", got.UserID, "google-sub-1")
	}
}

func TestApplyLoginEvent_OAuthLogin_MissingSubject_FallsBackToExisting(t *testing.T) {
	existing := model.TokenPayload{UserID: "existing-sub"}

	got := ApplyLoginEvent(existing, OAuthLogin{Identity: &model.Identity{}})

	// subjectが未設定のまま残ることはない
	if got.UserID != "existing-sub" {
		t.Errorf("UserID = %q, want fallback %q", got.UserID, "existing-sub")
	}
	if got.Provider != model.ProviderGoogle {
		t.Errorf("Provider = %q, want %q", got.Provider, model.ProviderGoogle)
	}
}

func TestApplyLoginEvent_Refresh_PreservesAllFields(t *testing.T) {
	existing := model.TokenPayload{
		UserID:      "u1",
		Email:       "a@b.com",
		AccessToken: "t1",
		Provider:    model.ProviderCredentials,
	}

	got := ApplyLoginEvent(existing, Refresh{})

	if got != existing {
		t.Errorf("payload = %+v, want unchanged %+v", got, existing)
	}
}

func TestApplyLoginEvent_Idempotence_RepeatedRefresh(t *testing.T) {
	payload := model.TokenPayload{UserID: "u1", Provider: model.ProviderGoogle}

	for i := 0; i < 3; i++ {
		payload = ApplyLoginEvent(payload, Refresh{})
	}

	if payload.UserID != "u1" || payload.Provider != model.ProviderGoogle {
		t.Errorf("payload = %+v, fields were not preserved across refreshes", payload)
	}
}
