package model

import "time"

// Preference はユーザーごとの設定値（テーマ、オンボーディング完了フラグ等）を表す。
// ブラウザローカルのグローバル状態ではなく、明示的なライフサイクルを持つ
// プロセス外キーバリュー状態として管理する。
type Preference struct {
	ID     string
	UserID string
	Key    string
	Value  string
	// Version は書き込みのたびにインクリメントされる。初回書き込みで1。
	Version   int
	CreatedAt time.Time
	UpdatedAt time.Time
}

// 既知の設定キー。ゲートウェイは値を不透明な文字列として扱う。
const (
	PrefKeyTheme          = "theme"
	PrefKeyOnboardingDone = "onboarding_done"
)
