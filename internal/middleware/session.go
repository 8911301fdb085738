// Package middleware はHTTPミドルウェアを提供する。
package middleware

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/hitoshi/merlin-gateway/internal/model"
)

// SessionCookieName はセッショントークンを保持するHTTP Only Cookieの名前。
const SessionCookieName = "merlin_session"

// contextKey はコンテキストに値を格納するための型安全なキー。
type contextKey string

// payloadContextKey はリクエストコンテキストにトークンペイロードを格納するためのキー。
var payloadContextKey = contextKey("session_payload")

// TokenCodec はセッションミドルウェアが必要とするトークン操作のインターフェース。
// token.Codecの部分集合として定義する。
type TokenCodec interface {
	// Open はトークンを検証しペイロードを返す。無効ならok=false。
	Open(tokenString string) (*model.TokenPayload, bool)
	// Seal はペイロードを新しい有効期限で再封緘する。
	Seal(payload model.TokenPayload) (string, error)
}

// SessionCookieConfig はセッションCookieの属性設定。
type SessionCookieConfig struct {
	Domain string
	Secure bool
	MaxAge int // 秒
}

// NewSessionMiddleware はCookieからセッショントークンを開封し、
// 有効な場合はペイロードをリクエストコンテキストに注入するミドルウェアを返す。
// 開封に成功したトークンは毎リクエスト再封緘され、有効期限がスライドする。
// トークンが不在・無効・期限切れの場合は匿名としてそのまま通す
// （拒否の判定はガードミドルウェアおよびRequireAuthの責務）。
func NewSessionMiddleware(codec TokenCodec, cookieCfg SessionCookieConfig) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// 1. Cookieからトークンを取得
			cookie, err := r.Cookie(SessionCookieName)
			if err != nil || cookie.Value == "" {
				next.ServeHTTP(w, r)
				return
			}

			// 2. 開封。無効なら匿名扱い（エラーにはしない）
			payload, ok := codec.Open(cookie.Value)
			if !ok {
				next.ServeHTTP(w, r)
				return
			}

			// 3. 再封緘してCookieを更新（有効期限のローテーション）
			if resealed, err := codec.Seal(*payload); err != nil {
				slog.Error("failed to reseal session token", slog.String("error", err.Error()))
			} else {
				SetSessionCookie(w, cookieCfg, resealed)
			}

			// 4. ペイロードをコンテキストに注入
			ctx := ContextWithPayload(r.Context(), payload)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// SetSessionCookie はセッションCookieをHTTP Only属性付きで設定する。
func SetSessionCookie(w http.ResponseWriter, cfg SessionCookieConfig, value string) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    value,
		Path:     "/",
		Domain:   cfg.Domain,
		MaxAge:   cfg.MaxAge,
		HttpOnly: true,
		Secure:   cfg.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// ClearSessionCookie はセッションCookieを破棄する。ログアウト時に使用する。
func ClearSessionCookie(w http.ResponseWriter, cfg SessionCookieConfig) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		Domain:   cfg.Domain,
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   cfg.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// PayloadFromContext はリクエストコンテキストからトークンペイロードを取得する。
// セッションミドルウェアを通過した認証済みリクエストでのみ取得できる。
func PayloadFromContext(ctx context.Context) (*model.TokenPayload, bool) {
	payload, ok := ctx.Value(payloadContextKey).(*model.TokenPayload)
	return payload, ok && payload != nil
}

// UserIDFromContext はリクエストコンテキストからユーザーIDを取得する。
func UserIDFromContext(ctx context.Context) (string, error) {
	payload, ok := PayloadFromContext(ctx)
	if !ok || payload.UserID == "" {
		return "", fmt.Errorf("user ID not found in context")
	}
	return payload.UserID, nil
}

// ContextWithPayload はコンテキストにトークンペイロードを注入する。
// テストやミドルウェア以外のコンテキスト生成で使用する。
func ContextWithPayload(ctx context.Context, payload *model.TokenPayload) context.Context {
	return context.WithValue(ctx, payloadContextKey, payload)
}
