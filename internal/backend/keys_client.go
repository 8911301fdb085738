// Package backend はmerlinバックエンドAPIへのHTTPクライアントを提供する。
// ゲートウェイはセッションに保持したアクセストークンをBearerとして転送し、
// APIキー管理をバックエンドに委譲する。
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/hitoshi/merlin-gateway/internal/model"
)

// KeysClient はバックエンドのAPIキー管理エンドポイントを呼び出すクライアント。
type KeysClient struct {
	baseURL string
	client  *http.Client
}

// NewKeysClient はKeysClientを生成する。
func NewKeysClient(baseURL string, timeout time.Duration) *KeysClient {
	return &KeysClient{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
	}
}

// StatusError はバックエンドが2xx以外を返した場合のエラー。
// ハンドラーはStatusCodeを見てレスポンスを組み立てる。
type StatusError struct {
	StatusCode int
	Body       []byte
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("backend returned status %d", e.StatusCode)
}

// listKeysResponse はGET /api/v1/keysのレスポンスボディ。
type listKeysResponse struct {
	Keys []model.APIKey `json:"keys"`
}

// createKeyRequest はPOST /api/v1/keysのリクエストボディ。
type createKeyRequest struct {
	Provider string `json:"provider"`
	APIKey   string `json:"api_key"`
}

// ListKeys は登録済みAPIキーの一覧（マスク済み）を取得する。
func (c *KeysClient) ListKeys(ctx context.Context, accessToken string) ([]model.APIKey, error) {
	body, err := c.do(ctx, http.MethodGet, "/api/v1/keys", accessToken, nil)
	if err != nil {
		return nil, err
	}

	var lr listKeysResponse
	if err := json.Unmarshal(body, &lr); err != nil {
		return nil, fmt.Errorf("failed to parse keys response: %w", err)
	}
	if lr.Keys == nil {
		lr.Keys = []model.APIKey{}
	}
	return lr.Keys, nil
}

// CreateKey はAPIキーを登録する。バックエンドが検証と暗号化を行う。
// 登録結果としてマスク済みレコードを返す。
func (c *KeysClient) CreateKey(ctx context.Context, accessToken, provider, apiKey string) (*model.APIKey, error) {
	reqBody, err := json.Marshal(createKeyRequest{Provider: provider, APIKey: apiKey})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal create key request: %w", err)
	}

	body, err := c.do(ctx, http.MethodPost, "/api/v1/keys", accessToken, reqBody)
	if err != nil {
		return nil, err
	}

	var key model.APIKey
	if err := json.Unmarshal(body, &key); err != nil {
		return nil, fmt.Errorf("failed to parse create key response: %w", err)
	}
	return &key, nil
}

// DeleteKey は指定プロバイダーのAPIキーを削除する。
func (c *KeysClient) DeleteKey(ctx context.Context, accessToken, provider string) error {
	_, err := c.do(ctx, http.MethodDelete, "/api/v1/keys/"+url.PathEscape(provider), accessToken, nil)
	return err
}

// do はBearerトークン付きでバックエンドを呼び出し、2xxのボディを返す。
// 2xx以外は*StatusErrorとして返す。
func (c *KeysClient) do(ctx context.Context, method, path, accessToken string, reqBody []byte) ([]byte, error) {
	var bodyReader io.Reader
	if reqBody != nil {
		bodyReader = bytes.NewReader(reqBody)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("failed to create backend request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	if reqBody != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("backend request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read backend response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &StatusError{StatusCode: resp.StatusCode, Body: respBody}
	}

	return respBody, nil
}
