// Package handler はHTTPハンドラーを提供する。
package handler

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/hitoshi/merlin-gateway/internal/auth"
	"github.com/hitoshi/merlin-gateway/internal/guard"
	"github.com/hitoshi/merlin-gateway/internal/middleware"
	"github.com/hitoshi/merlin-gateway/internal/model"
	"github.com/hitoshi/merlin-gateway/internal/token"
)

const oauthStateCookie = "oauth_state"

// AuthServiceInterface は認証ハンドラーが必要とするサービスインターフェース。
type AuthServiceInterface interface {
	OAuthEnabled() bool
	GetLoginURL(state string) string
	LoginWithCredentials(ctx context.Context, email, password string) *auth.LoginResult
	HandleGoogleCallback(ctx context.Context, code string) (*auth.LoginResult, error)
}

// AuthHandlerConfig は認証ハンドラーの設定。
type AuthHandlerConfig struct {
	CookieDomain  string
	CookieSecure  bool
	SessionMaxAge int // セッションCookieの有効期間（秒）
}

// AuthHandler は認証関連のHTTPハンドラー。
type AuthHandler struct {
	service AuthServiceInterface
	config  AuthHandlerConfig
}

// NewAuthHandler はAuthHandlerを生成する。
func NewAuthHandler(service AuthServiceInterface, config AuthHandlerConfig) *AuthHandler {
	return &AuthHandler{
		service: service,
		config:  config,
	}
}

func (h *AuthHandler) cookieConfig() middleware.SessionCookieConfig {
	return middleware.SessionCookieConfig{
		Domain: h.config.CookieDomain,
		Secure: h.config.CookieSecure,
		MaxAge: h.config.SessionMaxAge,
	}
}

// loginRequest はPOST /auth/loginのリクエストボディ。
type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login はパスワード認証によるログインを処理する。
// POST /auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apiErr := model.NewMissingCredentialsError()
		middleware.WriteErrorResponse(w, http.StatusBadRequest, apiErr)
		return
	}

	if req.Email == "" || req.Password == "" {
		apiErr := model.NewMissingCredentialsError()
		middleware.WriteErrorResponse(w, http.StatusBadRequest, apiErr)
		return
	}

	result := h.service.LoginWithCredentials(r.Context(), req.Email, req.Password)
	if result == nil {
		// 拒否と障害は区別せず同一のエラーを返す
		apiErr := model.NewInvalidCredentialsError()
		middleware.WriteErrorResponse(w, http.StatusUnauthorized, apiErr)
		return
	}

	middleware.SetSessionCookie(w, h.cookieConfig(), result.Token)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(result.View)
}

// GoogleLogin はGoogle OAuthフローを開始する。
// GET /auth/google/login
func (h *AuthHandler) GoogleLogin(w http.ResponseWriter, r *http.Request) {
	if !h.service.OAuthEnabled() {
		http.NotFound(w, r)
		return
	}

	state, err := generateState()
	if err != nil {
		slog.Error("failed to generate oauth state", slog.String("error", err.Error()))
		middleware.WriteInternalServerError(w)
		return
	}

	// stateをCookieに保存（CSRF対策）
	http.SetCookie(w, &http.Cookie{
		Name:     oauthStateCookie,
		Value:    state,
		Path:     "/",
		MaxAge:   600, // 10分
		HttpOnly: true,
		Secure:   h.config.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})

	http.Redirect(w, r, h.service.GetLoginURL(state), http.StatusTemporaryRedirect)
}

// GoogleCallback はOAuthコールバックを処理する。
// GET /auth/google/callback?code=xxx&state=yyy
func (h *AuthHandler) GoogleCallback(w http.ResponseWriter, r *http.Request) {
	if !h.service.OAuthEnabled() {
		http.NotFound(w, r)
		return
	}

	// 1. stateの検証（CSRF対策）
	state := r.URL.Query().Get("state")
	stateCookie, err := r.Cookie(oauthStateCookie)
	if err != nil || state == "" || stateCookie.Value != state {
		slog.Warn("oauth state mismatch")
		http.Error(w, "invalid state parameter", http.StatusBadRequest)
		return
	}

	// stateクッキーを削除
	http.SetCookie(w, &http.Cookie{
		Name:     oauthStateCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.config.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})

	// 2. 認可コードの取得
	code := r.URL.Query().Get("code")
	if code == "" {
		http.Error(w, "missing authorization code", http.StatusBadRequest)
		return
	}

	// 3. 認証処理
	result, err := h.service.HandleGoogleCallback(r.Context(), code)
	if err != nil {
		slog.Error("oauth callback failed", slog.String("error", err.Error()))
		http.Error(w, "authentication failed", http.StatusInternalServerError)
		return
	}

	// 4. セッションCookieを設定してホームへ
	middleware.SetSessionCookie(w, h.cookieConfig(), result.Token)
	http.Redirect(w, r, guard.HomePath, http.StatusTemporaryRedirect)
}

// Logout はセッションCookieを破棄する。
// トークンはステートレスなのでサーバー側の破棄処理はない。
// POST /auth/logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	middleware.ClearSessionCookie(w, h.cookieConfig())
	w.WriteHeader(http.StatusNoContent)
}

// sessionResponse はGET /auth/sessionのレスポンスボディ。
// 匿名の場合userはnull。
type sessionResponse struct {
	User        *model.SessionUser `json:"user"`
	AccessToken string             `json:"access_token,omitempty"`
	Provider    string             `json:"provider,omitempty"`
}

// Session は現在のセッションビューを返す。
// 匿名リクエストには200で {"user": null} を返す（エラーにはしない）。
// GET /auth/session
func (h *AuthHandler) Session(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	payload, ok := middleware.PayloadFromContext(r.Context())
	if !ok {
		json.NewEncoder(w).Encode(sessionResponse{User: nil})
		return
	}

	view := token.View(payload)
	json.NewEncoder(w).Encode(sessionResponse{
		User:        &view.User,
		AccessToken: view.AccessToken,
		Provider:    view.Provider,
	})
}

// generateState はCSRF対策用のランダムなstate値を生成する。
func generateState() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
