package middleware

import (
	"net/http"

	"github.com/hitoshi/merlin-gateway/internal/guard"
)

// GuardMetricsRecorder はルートガード判定のメトリクス記録インターフェース。
type GuardMetricsRecorder interface {
	RecordGuardDecision(verdict string)
}

// NewGuardMiddleware はページナビゲーションにルートガードの判定を適用する
// ミドルウェアを返す。判定はパスと現在のログイン状態の純粋関数であり、
// リダイレクトの実行のみをこのミドルウェアが担う。
// metricsはnil可。
func NewGuardMiddleware(metrics GuardMetricsRecorder) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, isLoggedIn := PayloadFromContext(r.Context())

			verdict := guard.Decide(r.URL.Path, isLoggedIn)
			if metrics != nil {
				metrics.RecordGuardDecision(verdict.String())
			}

			switch verdict {
			case guard.RedirectToSignIn:
				http.Redirect(w, r, guard.SignInPath, http.StatusTemporaryRedirect)
			case guard.RedirectToHome:
				http.Redirect(w, r, guard.HomePath, http.StatusTemporaryRedirect)
			default:
				next.ServeHTTP(w, r)
			}
		})
	}
}

// NewRequireAuthMiddleware は未認証のAPIリクエストに401を返すミドルウェアを返す。
// ページと異なりAPIはリダイレクトせず、統一エラーフォーマットで応答する。
func NewRequireAuthMiddleware() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := PayloadFromContext(r.Context()); !ok {
				WriteUnauthorizedResponse(w)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
