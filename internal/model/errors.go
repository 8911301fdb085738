package model

import "fmt"

// APIError は統一エラーフォーマットを表す。
// UIに表示する原因カテゴリと対処方法を含む。
type APIError struct {
	Code     string // エラーコード
	Message  string // エラーメッセージ
	Category string // カテゴリ: auth, validation, system
	Action   string // ユーザー向け対処方法
}

// Error はerrorインターフェースを実装する。
func (e *APIError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// 定義済みエラーコード
const (
	ErrCodeInvalidCredentials  = "INVALID_CREDENTIALS"
	ErrCodeMissingCredentials  = "MISSING_CREDENTIALS"
	ErrCodeUnauthorized        = "UNAUTHORIZED"
	ErrCodeAccessTokenRequired = "ACCESS_TOKEN_REQUIRED"
	ErrCodeInvalidProvider     = "INVALID_PROVIDER"
	ErrCodeInvalidAPIKey       = "INVALID_API_KEY"
	ErrCodePreferenceNotFound  = "PREFERENCE_NOT_FOUND"
	ErrCodeBackendUnavailable  = "BACKEND_UNAVAILABLE"
)

// NewInvalidCredentialsError は認証失敗エラーを生成する。
// 資格情報の誤りとインフラ障害は意図的に区別しない。
func NewInvalidCredentialsError() *APIError {
	return &APIError{
		Code:     ErrCodeInvalidCredentials,
		Message:  "メールアドレスまたはパスワードが正しくありません。",
		Category: "auth",
		Action:   "入力内容を確認して再度お試しください。",
	}
}

// NewMissingCredentialsError は入力不足エラーを生成する。
func NewMissingCredentialsError() *APIError {
	return &APIError{
		Code:     ErrCodeMissingCredentials,
		Message:  "メールアドレスとパスワードの両方を入力してください。",
		Category: "validation",
		Action:   "未入力の項目を入力してください。",
	}
}

// NewUnauthorizedError は未認証エラーを生成する。
func NewUnauthorizedError() *APIError {
	return &APIError{
		Code:     ErrCodeUnauthorized,
		Message:  "ログインが必要です。",
		Category: "auth",
		Action:   "サインインページからログインしてください。",
	}
}

// NewAccessTokenRequiredError はバックエンドアクセストークンが無い
// セッション（OAuthログイン等）からのAPIキー操作に対するエラーを生成する。
func NewAccessTokenRequiredError() *APIError {
	return &APIError{
		Code:     ErrCodeAccessTokenRequired,
		Message:  "この操作にはパスワードログインによるセッションが必要です。",
		Category: "auth",
		Action:   "メールアドレスとパスワードでログインし直してください。",
	}
}

// NewInvalidProviderError は未対応プロバイダーエラーを生成する。
func NewInvalidProviderError(provider string) *APIError {
	return &APIError{
		Code:     ErrCodeInvalidProvider,
		Message:  fmt.Sprintf("未対応のプロバイダーです: %s", provider),
		Category: "validation",
		Action:   "openai、anthropic、google のいずれかを指定してください。",
	}
}

// NewInvalidAPIKeyError はAPIキー検証失敗エラーを生成する。
func NewInvalidAPIKeyError(provider string) *APIError {
	return &APIError{
		Code:     ErrCodeInvalidAPIKey,
		Message:  fmt.Sprintf("APIキーの検証に失敗しました: %s", provider),
		Category: "validation",
		Action:   "プロバイダーの管理画面でキーが有効か確認してください。",
	}
}

// NewPreferenceNotFoundError は設定値未登録エラーを生成する。
func NewPreferenceNotFoundError(key string) *APIError {
	return &APIError{
		Code:     ErrCodePreferenceNotFound,
		Message:  fmt.Sprintf("指定された設定が見つかりません: %s", key),
		Category: "validation",
		Action:   "設定キーを確認してください。",
	}
}

// NewBackendUnavailableError はバックエンドAPI呼び出し失敗エラーを生成する。
func NewBackendUnavailableError() *APIError {
	return &APIError{
		Code:     ErrCodeBackendUnavailable,
		Message:  "バックエンドAPIとの通信に失敗しました。",
		Category: "system",
		Action:   "しばらく待ってから再度お試しください。",
	}
}
