// Package model はドメインモデルを定義する。
package model

// 認証プロバイダーの識別子。
const (
	// ProviderCredentials はバックエンドAPIに対するパスワード認証を示す。
	ProviderCredentials = "credentials"
	// ProviderGoogle はGoogle OAuthによる認証を示す。
	ProviderGoogle = "google"
)

// Identity は認証に成功したユーザーの正規化された結果を表す。
// パスワード認証・OAuthのどちらで成立したかに関わらず同じ形を取る。
// IDが存在しない場合、Identityは構築されない（認証失敗はnilで表す）。
type Identity struct {
	// ID はバックエンドまたはIdPが発行したグローバル一意の不透明なID。
	ID string
	// Email はユーザーのメールアドレス。省略可。
	Email string
	// AccessToken はパスワード認証時のみ付与されるバックエンドAPIのトークン。
	// 以降のバックエンド呼び出しをユーザーに代わって認可するために使用する。
	AccessToken string
	// Provider は認証の出所（credentials, google等）。
	Provider string
}
