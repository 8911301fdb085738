package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/hitoshi/merlin-gateway/internal/middleware"
	"github.com/hitoshi/merlin-gateway/internal/repository"
)

// RouterDeps はNewRouterに必要な依存関係をまとめた構造体。
type RouterDeps struct {
	// ミドルウェア依存
	TokenCodec        middleware.TokenCodec
	CookieConfig      middleware.SessionCookieConfig
	CORSAllowedOrigin string
	RateLimiter       *middleware.RateLimiter
	Logger            *slog.Logger
	GuardMetrics      middleware.GuardMetricsRecorder
	HTTPMetrics       middleware.HTTPMetricsRecorder

	// メトリクス公開エンドポイント（nilの場合は公開しない）
	MetricsHandler http.Handler

	// 認証
	AuthService AuthServiceInterface
	AuthConfig  AuthHandlerConfig

	// APIキープロキシ
	KeysService KeysServiceInterface

	// ユーザー設定
	PreferenceRepo repository.PreferenceRepository

	// ヘルスチェック
	HealthChecker Pinger

	// CSRF
	CSRFConfig middleware.CSRFConfig
}

// NewRouter は全エンドポイントのルーティングとミドルウェアチェーンを構成したchi.Routerを返す。
//
// ミドルウェアスタックの実行順序:
//
//	Recovery → Logging → SecurityHeaders → CORS → Session（全ルート共通）
//
// その上でページルートにはガード、APIルートにはRequireAuth → RateLimit → CSRFを適用する。
func NewRouter(deps *RouterDeps) http.Handler {
	r := chi.NewRouter()

	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	// 全ルート共通のミドルウェア
	r.Use(middleware.NewRecoveryMiddleware())
	r.Use(middleware.NewLoggingMiddleware(logger))
	r.Use(middleware.NewHTTPMetricsMiddleware(deps.HTTPMetrics))
	r.Use(middleware.NewSecurityHeadersMiddleware())
	r.Use(middleware.NewCORSMiddleware(deps.CORSAllowedOrigin))
	r.Use(middleware.NewSessionMiddleware(deps.TokenCodec, deps.CookieConfig))

	authHandler := NewAuthHandler(deps.AuthService, deps.AuthConfig)
	keysHandler := NewKeysHandler(deps.KeysService)
	prefsHandler := NewPrefsHandler(deps.PreferenceRepo)
	pagesHandler := NewPagesHandler()
	healthHandler := NewHealthHandler(deps.HealthChecker)

	// --- ヘルスチェック ---
	r.Get("/health", healthHandler.Health)

	// --- メトリクス ---
	if deps.MetricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", deps.MetricsHandler)
	}

	// --- 認証ルート ---
	r.Route("/auth", func(r chi.Router) {
		// パスワードログインはIP単位のレート制限付き
		r.With(deps.RateLimiter.LoginMiddleware()).Post("/login", authHandler.Login)

		// OAuthフロー
		r.Get("/google/login", authHandler.GoogleLogin)
		r.Get("/google/callback", authHandler.GoogleCallback)

		// セッション管理
		r.Post("/logout", authHandler.Logout)
		r.Get("/session", authHandler.Session)
	})

	// --- ページルート（ガード対象） ---
	r.Group(func(r chi.Router) {
		r.Use(middleware.NewGuardMiddleware(deps.GuardMetrics))

		r.Get("/", pagesHandler.Landing())
		r.Get("/auth/signin", pagesHandler.SignIn())
		r.Get("/chat", pagesHandler.Chat())
		r.Get("/chat/*", pagesHandler.Chat())
		r.Get("/settings", pagesHandler.Settings())
		r.Get("/settings/*", pagesHandler.Settings())
		r.Get("/workflows", pagesHandler.Workflows())
		r.Get("/workflows/*", pagesHandler.Workflows())
		r.Get("/analytics", pagesHandler.Analytics())
		r.Get("/analytics/*", pagesHandler.Analytics())
	})

	// --- CSRFトークン取得（認証不要、Cookie設定のため） ---
	r.Method(http.MethodGet, "/api/csrf-token", middleware.NewCSRFTokenHandler(deps.CSRFConfig))

	// --- 認証が必要なAPIルート ---
	// ミドルウェアスタック: RequireAuth → RateLimit(General) → CSRF
	r.Group(func(r chi.Router) {
		r.Use(middleware.NewRequireAuthMiddleware())
		r.Use(deps.RateLimiter.GeneralMiddleware())
		r.Use(middleware.NewCSRFMiddleware(deps.CSRFConfig))

		// APIキー管理プロキシ
		r.Route("/api/keys", func(r chi.Router) {
			r.Get("/", keysHandler.List)
			r.Post("/", keysHandler.Create)
			r.Delete("/{provider}", keysHandler.Delete)
		})

		// ユーザー設定
		r.Route("/api/prefs", func(r chi.Router) {
			r.Get("/", prefsHandler.List)
			r.Delete("/", prefsHandler.Reset)

			r.Route("/{key}", func(r chi.Router) {
				r.Get("/", prefsHandler.Get)
				r.Put("/", prefsHandler.Put)
				r.Delete("/", prefsHandler.Delete)
			})
		})
	})

	return r
}
