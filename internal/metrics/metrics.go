// Package metrics はPrometheusメトリクスの収集と公開を提供する。
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector はPrometheusメトリクスを収集する実装。
// 認証サービスとルートガードのミドルウェアから利用する。
type Collector struct {
	loginSuccess  *prometheus.CounterVec
	loginFail     *prometheus.CounterVec
	guardDecision *prometheus.CounterVec
	tokenOpenFail prometheus.Counter
	httpStatus    *prometheus.CounterVec
	loginLatency  prometheus.Histogram
}

// NewCollector は新しいCollectorを生成し、指定されたレジストリにメトリクスを登録する。
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		loginSuccess: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "merlin_login_success_total",
			Help: "ログイン成功の合計数（プロバイダー別）",
		}, []string{"provider"}),
		loginFail: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "merlin_login_fail_total",
			Help: "ログイン失敗の合計数（理由別）",
		}, []string{"reason"}),
		guardDecision: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "merlin_guard_decision_total",
			Help: "ルートガード判定の合計数（判定別）",
		}, []string{"verdict"}),
		tokenOpenFail: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "merlin_token_open_fail_total",
			Help: "セッショントークン開封失敗の合計数",
		}),
		httpStatus: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "merlin_http_status_total",
			Help: "HTTPステータスコード別のレスポンス数",
		}, []string{"status_code"}),
		loginLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "merlin_login_latency_seconds",
			Help:    "ログイン処理のレイテンシ（秒）",
			Buckets: prometheus.DefBuckets,
		}),
	}

	reg.MustRegister(
		c.loginSuccess,
		c.loginFail,
		c.guardDecision,
		c.tokenOpenFail,
		c.httpStatus,
		c.loginLatency,
	)

	return c
}

// RecordLoginSuccess はログイン成功をプロバイダー別に記録する。
func (c *Collector) RecordLoginSuccess(provider string) {
	c.loginSuccess.WithLabelValues(provider).Inc()
}

// RecordLoginFailure はログイン失敗を理由別に記録する。
func (c *Collector) RecordLoginFailure(reason string) {
	c.loginFail.WithLabelValues(reason).Inc()
}

// RecordGuardDecision はルートガードの判定を記録する。
func (c *Collector) RecordGuardDecision(verdict string) {
	c.guardDecision.WithLabelValues(verdict).Inc()
}

// RecordTokenOpenFailure はセッショントークンの開封失敗を記録する。
func (c *Collector) RecordTokenOpenFailure() {
	c.tokenOpenFail.Inc()
}

// RecordHTTPStatus はHTTPステータスコードを記録する。
func (c *Collector) RecordHTTPStatus(statusCode int) {
	c.httpStatus.WithLabelValues(strconv.Itoa(statusCode)).Inc()
}

// RecordLoginLatency はログイン処理のレイテンシを記録する。
func (c *Collector) RecordLoginLatency(duration time.Duration) {
	c.loginLatency.Observe(duration.Seconds())
}

// Handler はPrometheusスクレイプ用のHTTPハンドラーを返す。
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

// SetupMetricsRoute は/metricsエンドポイントを提供するHTTPハンドラーを返す。
// Prometheusスクレイプに対応する。
func SetupMetricsRoute(gatherer prometheus.Gatherer) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", Handler(gatherer))
	return mux
}
