package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/hitoshi/merlin-gateway/internal/backend"
	"github.com/hitoshi/merlin-gateway/internal/middleware"
	"github.com/hitoshi/merlin-gateway/internal/model"
)

// KeysServiceInterface はAPIキープロキシが必要とするバックエンド操作のインターフェース。
type KeysServiceInterface interface {
	ListKeys(ctx context.Context, accessToken string) ([]model.APIKey, error)
	CreateKey(ctx context.Context, accessToken, provider, apiKey string) (*model.APIKey, error)
	DeleteKey(ctx context.Context, accessToken, provider string) error
}

// KeysHandler はAPIキー管理のプロキシハンドラー。
// セッションに保持したバックエンドアクセストークンを転送する。
type KeysHandler struct {
	service KeysServiceInterface
}

// NewKeysHandler はKeysHandlerを生成する。
func NewKeysHandler(service KeysServiceInterface) *KeysHandler {
	return &KeysHandler{service: service}
}

// accessToken はセッションからバックエンドアクセストークンを取り出す。
// OAuthログインのセッションはトークンを持たないため403を返す。
func (h *KeysHandler) accessToken(w http.ResponseWriter, r *http.Request) (string, bool) {
	payload, ok := middleware.PayloadFromContext(r.Context())
	if !ok {
		middleware.WriteUnauthorizedResponse(w)
		return "", false
	}
	if payload.AccessToken == "" {
		middleware.WriteErrorResponse(w, http.StatusForbidden, model.NewAccessTokenRequiredError())
		return "", false
	}
	return payload.AccessToken, true
}

// listKeysBody はGET /api/keysのレスポンスボディ。
type listKeysBody struct {
	Keys []model.APIKey `json:"keys"`
}

// List は登録済みAPIキーの一覧（マスク済み）を返す。
// GET /api/keys
func (h *KeysHandler) List(w http.ResponseWriter, r *http.Request) {
	accessToken, ok := h.accessToken(w, r)
	if !ok {
		return
	}

	keys, err := h.service.ListKeys(r.Context(), accessToken)
	if err != nil {
		h.writeBackendError(w, "", err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(listKeysBody{Keys: keys})
}

// createKeyBody はPOST /api/keysのリクエストボディ。
type createKeyBody struct {
	Provider string `json:"provider"`
	APIKey   string `json:"api_key"`
}

// Create はAPIキーを登録する。検証と暗号化はバックエンドが行う。
// POST /api/keys
func (h *KeysHandler) Create(w http.ResponseWriter, r *http.Request) {
	accessToken, ok := h.accessToken(w, r)
	if !ok {
		return
	}

	var body createKeyBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Provider == "" || body.APIKey == "" {
		middleware.WriteErrorResponse(w, http.StatusBadRequest, model.NewInvalidProviderError(body.Provider))
		return
	}

	key, err := h.service.CreateKey(r.Context(), accessToken, body.Provider, body.APIKey)
	if err != nil {
		h.writeBackendError(w, body.Provider, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(key)
}

// Delete は指定プロバイダーのAPIキーを削除する。
// DELETE /api/keys/{provider}
func (h *KeysHandler) Delete(w http.ResponseWriter, r *http.Request) {
	accessToken, ok := h.accessToken(w, r)
	if !ok {
		return
	}

	provider := chi.URLParam(r, "provider")
	if provider == "" {
		middleware.WriteErrorResponse(w, http.StatusBadRequest, model.NewInvalidProviderError(provider))
		return
	}

	if err := h.service.DeleteKey(r.Context(), accessToken, provider); err != nil {
		h.writeBackendError(w, provider, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// writeBackendError はバックエンド呼び出しのエラーをHTTPレスポンスに変換する。
// バックエンドの400はキー検証失敗、401はトークン失効、404は未登録キーとして扱い、
// それ以外の失敗は502に畳み込む。
func (h *KeysHandler) writeBackendError(w http.ResponseWriter, provider string, err error) {
	var statusErr *backend.StatusError
	if errors.As(err, &statusErr) {
		switch statusErr.StatusCode {
		case http.StatusBadRequest:
			middleware.WriteErrorResponse(w, http.StatusBadRequest, model.NewInvalidAPIKeyError(provider))
			return
		case http.StatusUnauthorized:
			middleware.WriteUnauthorizedResponse(w)
			return
		case http.StatusNotFound:
			middleware.WriteErrorResponse(w, http.StatusNotFound, model.NewInvalidProviderError(provider))
			return
		}
	}

	slog.Error("backend keys request failed", slog.String("error", err.Error()))
	middleware.WriteErrorResponse(w, http.StatusBadGateway, model.NewBackendUnavailableError())
}
