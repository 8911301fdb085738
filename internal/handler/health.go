package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
)

// Pinger はヘルスチェックが依存するDB疎通確認のインターフェース。
// sql.DBが満たす。
type Pinger interface {
	PingContext(ctx context.Context) error
}

// HealthHandler はヘルスチェックのHTTPハンドラー。
type HealthHandler struct {
	db Pinger
}

// NewHealthHandler はHealthHandlerを生成する。
func NewHealthHandler(db Pinger) *HealthHandler {
	return &HealthHandler{db: db}
}

// Health はプロセスとDB接続の状態を返す。
// GET /health
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if h.db != nil {
		if err := h.db.PingContext(r.Context()); err != nil {
			slog.Warn("health check: database unreachable", slog.String("error", err.Error()))
			w.WriteHeader(http.StatusServiceUnavailable)
			json.NewEncoder(w).Encode(map[string]string{"status": "degraded"})
			return
		}
	}

	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}
