package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/hitoshi/merlin-gateway/internal/model"
)

// ErrPreferenceNotFound は削除対象の設定行が存在しない場合に返す。
var ErrPreferenceNotFound = errors.New("preference not found")

// PostgresPreferenceRepo はPostgreSQLを使用した設定リポジトリ。
type PostgresPreferenceRepo struct {
	db *sql.DB
}

// NewPostgresPreferenceRepo はPostgresPreferenceRepoを生成する。
func NewPostgresPreferenceRepo(db *sql.DB) *PostgresPreferenceRepo {
	return &PostgresPreferenceRepo{db: db}
}

// FindByUserAndKey はユーザーIDとキーで設定を取得する。見つからない場合はnilを返す。
func (r *PostgresPreferenceRepo) FindByUserAndKey(ctx context.Context, userID, key string) (*model.Preference, error) {
	pref := &model.Preference{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, user_id, key, value, version, created_at, updated_at
		 FROM preferences WHERE user_id = $1 AND key = $2`,
		userID, key,
	).Scan(&pref.ID, &pref.UserID, &pref.Key, &pref.Value, &pref.Version, &pref.CreatedAt, &pref.UpdatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find preference: %w", err)
	}

	return pref, nil
}

// ListByUserID はユーザーの全設定をキー昇順で返す。
func (r *PostgresPreferenceRepo) ListByUserID(ctx context.Context, userID string) ([]*model.Preference, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, key, value, version, created_at, updated_at
		 FROM preferences WHERE user_id = $1 ORDER BY key`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list preferences: %w", err)
	}
	defer rows.Close()

	prefs := []*model.Preference{}
	for rows.Next() {
		pref := &model.Preference{}
		if err := rows.Scan(&pref.ID, &pref.UserID, &pref.Key, &pref.Value, &pref.Version, &pref.CreatedAt, &pref.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan preference: %w", err)
		}
		prefs = append(prefs, pref)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate preferences: %w", err)
	}

	return prefs, nil
}

// Upsert は設定値を冪等にUPSERTする。
// 初回書き込みでversion=1、以降の書き込みでversionをインクリメントする。
func (r *PostgresPreferenceRepo) Upsert(ctx context.Context, userID, key, value string) (*model.Preference, error) {
	now := time.Now()
	pref := &model.Preference{}

	err := r.db.QueryRowContext(ctx,
		`INSERT INTO preferences (id, user_id, key, value, version, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, 1, $5, $5)
		 ON CONFLICT (user_id, key) DO UPDATE SET
		   value = EXCLUDED.value,
		   version = preferences.version + 1,
		   updated_at = EXCLUDED.updated_at
		 RETURNING id, user_id, key, value, version, created_at, updated_at`,
		uuid.NewString(), userID, key, value, now,
	).Scan(&pref.ID, &pref.UserID, &pref.Key, &pref.Value, &pref.Version, &pref.CreatedAt, &pref.UpdatedAt)

	if err != nil {
		return nil, fmt.Errorf("failed to upsert preference: %w", err)
	}

	return pref, nil
}

// Delete は指定キーの設定を削除する。行が存在しない場合はErrPreferenceNotFoundを返す。
func (r *PostgresPreferenceRepo) Delete(ctx context.Context, userID, key string) error {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM preferences WHERE user_id = $1 AND key = $2`,
		userID, key,
	)
	if err != nil {
		return fmt.Errorf("failed to delete preference: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrPreferenceNotFound
	}
	return nil
}

// DeleteByUserID はユーザーの全設定を削除する。削除した行数を返す。
func (r *PostgresPreferenceRepo) DeleteByUserID(ctx context.Context, userID string) (int64, error) {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM preferences WHERE user_id = $1`,
		userID,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to delete preferences: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return rowsAffected, nil
}

// compile-time interface check
var _ PreferenceRepository = (*PostgresPreferenceRepo)(nil)
