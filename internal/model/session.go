package model

// TokenPayload は署名付きセッショントークンに格納されるフィールドの集合。
// サーバー側セッションストアは持たず、このペイロードがログイン状態の
// 唯一の永続表現となる（ステートレス設計）。
type TokenPayload struct {
	// UserID はトークンのsubject。空でないことがログイン状態の条件。
	UserID string
	// Email はユーザーのメールアドレス。省略可。
	Email string
	// AccessToken はバックエンドAPI用のトークン。パスワード認証時のみ。
	AccessToken string
	// Provider は認証の出所。省略可。
	Provider string
}

// SessionUser はセッションビューに含まれるユーザー情報。
type SessionUser struct {
	ID    string `json:"id"`
	Email string `json:"email,omitempty"`
}

// SessionView はクライアントに公開するセッションの射影。
// 有効なトークンの純粋関数として毎回導出され、独立に永続化されることはない。
type SessionView struct {
	User        SessionUser `json:"user"`
	AccessToken string      `json:"access_token,omitempty"`
	Provider    string      `json:"provider,omitempty"`
}
