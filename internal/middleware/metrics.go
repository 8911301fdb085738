package middleware

import (
	"net/http"

	"github.com/hitoshi/merlin-gateway/internal/model"
)

// HTTPMetricsRecorder はレスポンスステータスのメトリクス記録インターフェース。
type HTTPMetricsRecorder interface {
	RecordHTTPStatus(statusCode int)
}

// TokenMetricsRecorder はセッショントークンの開封失敗のメトリクス記録インターフェース。
type TokenMetricsRecorder interface {
	RecordTokenOpenFailure()
}

// NewHTTPMetricsMiddleware はレスポンスのステータスコードを記録するミドルウェアを返す。
// recorderがnilの場合は何もしないミドルウェアを返す。
func NewHTTPMetricsMiddleware(recorder HTTPMetricsRecorder) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if recorder == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rec := &statusRecorder{
				ResponseWriter: w,
				statusCode:     http.StatusOK,
			}
			next.ServeHTTP(rec, r)
			recorder.RecordHTTPStatus(rec.statusCode)
		})
	}
}

// instrumentedCodec はTokenCodecをラップし、開封失敗をメトリクスに記録する。
type instrumentedCodec struct {
	codec   TokenCodec
	metrics TokenMetricsRecorder
}

// NewInstrumentedCodec はトークン開封失敗を記録するTokenCodecデコレーターを返す。
func NewInstrumentedCodec(codec TokenCodec, metrics TokenMetricsRecorder) TokenCodec {
	return &instrumentedCodec{codec: codec, metrics: metrics}
}

func (c *instrumentedCodec) Open(tokenString string) (*model.TokenPayload, bool) {
	payload, ok := c.codec.Open(tokenString)
	if !ok && c.metrics != nil {
		c.metrics.RecordTokenOpenFailure()
	}
	return payload, ok
}

func (c *instrumentedCodec) Seal(payload model.TokenPayload) (string, error) {
	return c.codec.Seal(payload)
}
