// Package repository はデータ永続化のインターフェースを定義する。
package repository

import (
	"context"

	"github.com/hitoshi/merlin-gateway/internal/model"
)

// PreferenceRepository はユーザー設定の永続化インターフェース。
// 設定は明示的なライフサイクルを持つキーバリュー行として保存される。
type PreferenceRepository interface {
	// FindByUserAndKey はユーザーIDとキーで設定を取得する。見つからない場合はnilを返す。
	FindByUserAndKey(ctx context.Context, userID, key string) (*model.Preference, error)

	// ListByUserID はユーザーの全設定を返す。
	ListByUserID(ctx context.Context, userID string) ([]*model.Preference, error)

	// Upsert は設定値を冪等にUPSERTする。
	// 初回書き込みでversion=1、以降の書き込みでversionをインクリメントする。
	// 更新後の行を返す。
	Upsert(ctx context.Context, userID, key, value string) (*model.Preference, error)

	// Delete は指定キーの設定を削除する。行が存在しない場合はErrPreferenceNotFoundを返す。
	Delete(ctx context.Context, userID, key string) error

	// DeleteByUserID はユーザーの全設定を削除する（明示的リセット操作）。
	// 削除した行数を返す。
	DeleteByUserID(ctx context.Context, userID string) (int64, error)
}
