package auth

import "github.com/hitoshi/merlin-gateway/internal/model"

// LoginEvent はトークンペイロードへ反映されるログインイベントの閉じた直和型。
// フィールドの有無による暗黙のマージではなく、バリアントごとに
// 遷移を明示することで全ケースをレビュー可能にする。
type LoginEvent interface {
	isLoginEvent()
}

// CredentialLogin はパスワード認証によるログイン成立を表す。
type CredentialLogin struct {
	Identity *model.Identity
}

// OAuthLogin はOAuthプロバイダーによるログイン成立を表す。
type OAuthLogin struct {
	Identity *model.Identity
}

// Refresh は新しいログインイベントを伴わないリクエストを表す。
// ペイロードは有効期限の更新を除いて変更されない。
type Refresh struct{}

func (CredentialLogin) isLoginEvent() {}
func (OAuthLogin) isLoginEvent()      {}
func (Refresh) isLoginEvent()         {}

// ApplyLoginEvent はログインイベントをトークンペイロードへ反映した結果を返す。
// 純粋関数であり、失敗しない。期待するフィールドが欠けている場合は
// その代入をスキップするだけで、既存のフィールドは保持される。
func ApplyLoginEvent(payload model.TokenPayload, event LoginEvent) model.TokenPayload {
	switch ev := event.(type) {
	case CredentialLogin:
		if ev.Identity == nil {
			return payload
		}
		payload.UserID = ev.Identity.ID
		if ev.Identity.Email != "" {
			payload.Email = ev.Identity.Email
		}
		if ev.Identity.AccessToken != "" {
			payload.AccessToken = ev.Identity.AccessToken
		}
		payload.Provider = model.ProviderCredentials

	case OAuthLogin:
		payload.Provider = model.ProviderGoogle
		// OAuth Identityにsubjectがあれば採用し、無ければ既存のsubjectを
		// 維持する。subjectが未設定のまま残ることはない。
		if ev.Identity != nil {
			if ev.Identity.ID != "" {
				payload.UserID = ev.Identity.ID
			}
			if ev.Identity.Email != "" {
				payload.Email = ev.Identity.Email
			}
		}

	case Refresh:
		// 変更なし。有効期限の更新はCodec側で行う。
	}

	return payload
}
