package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/hitoshi/merlin-gateway/internal/middleware"
	"github.com/hitoshi/merlin-gateway/internal/model"
	"github.com/hitoshi/merlin-gateway/internal/repository"
)

// PrefsHandler はユーザー設定のHTTPハンドラー。
// テーマやオンボーディング状態を明示的なライフサイクルで管理する。
type PrefsHandler struct {
	repo repository.PreferenceRepository
}

// NewPrefsHandler はPrefsHandlerを生成する。
func NewPrefsHandler(repo repository.PreferenceRepository) *PrefsHandler {
	return &PrefsHandler{repo: repo}
}

// prefBody は設定1件のレスポンスボディ。
type prefBody struct {
	Key       string    `json:"key"`
	Value     string    `json:"value"`
	Version   int       `json:"version"`
	UpdatedAt time.Time `json:"updated_at"`
}

func toPrefBody(pref *model.Preference) prefBody {
	return prefBody{
		Key:       pref.Key,
		Value:     pref.Value,
		Version:   pref.Version,
		UpdatedAt: pref.UpdatedAt,
	}
}

// List はユーザーの全設定を返す。
// GET /api/prefs
func (h *PrefsHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		middleware.WriteUnauthorizedResponse(w)
		return
	}

	prefs, err := h.repo.ListByUserID(r.Context(), userID)
	if err != nil {
		slog.Error("failed to list preferences", slog.String("error", err.Error()))
		middleware.WriteInternalServerError(w)
		return
	}

	body := make([]prefBody, 0, len(prefs))
	for _, pref := range prefs {
		body = append(body, toPrefBody(pref))
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string][]prefBody{"preferences": body})
}

// Get は指定キーの設定を返す。未設定の場合は404。
// GET /api/prefs/{key}
func (h *PrefsHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		middleware.WriteUnauthorizedResponse(w)
		return
	}

	key := chi.URLParam(r, "key")
	pref, err := h.repo.FindByUserAndKey(r.Context(), userID, key)
	if err != nil {
		slog.Error("failed to find preference", slog.String("error", err.Error()))
		middleware.WriteInternalServerError(w)
		return
	}
	if pref == nil {
		middleware.WriteErrorResponse(w, http.StatusNotFound, model.NewPreferenceNotFoundError(key))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(toPrefBody(pref))
}

// putPrefBody はPUT /api/prefs/{key}のリクエストボディ。
type putPrefBody struct {
	Value string `json:"value"`
}

// Put は設定値を書き込む。初回書き込みでversion=1、以降はインクリメント。
// PUT /api/prefs/{key}
func (h *PrefsHandler) Put(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		middleware.WriteUnauthorizedResponse(w)
		return
	}

	var body putPrefBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	key := chi.URLParam(r, "key")
	pref, err := h.repo.Upsert(r.Context(), userID, key, body.Value)
	if err != nil {
		slog.Error("failed to upsert preference", slog.String("error", err.Error()))
		middleware.WriteInternalServerError(w)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(toPrefBody(pref))
}

// Delete は指定キーの設定を削除する。
// DELETE /api/prefs/{key}
func (h *PrefsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		middleware.WriteUnauthorizedResponse(w)
		return
	}

	key := chi.URLParam(r, "key")
	if err := h.repo.Delete(r.Context(), userID, key); err != nil {
		if errors.Is(err, repository.ErrPreferenceNotFound) {
			middleware.WriteErrorResponse(w, http.StatusNotFound, model.NewPreferenceNotFoundError(key))
			return
		}
		slog.Error("failed to delete preference", slog.String("error", err.Error()))
		middleware.WriteInternalServerError(w)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Reset はユーザーの全設定を削除する（明示的リセット操作）。
// DELETE /api/prefs
func (h *PrefsHandler) Reset(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		middleware.WriteUnauthorizedResponse(w)
		return
	}

	deleted, err := h.repo.DeleteByUserID(r.Context(), userID)
	if err != nil {
		slog.Error("failed to reset preferences", slog.String("error", err.Error()))
		middleware.WriteInternalServerError(w)
		return
	}

	slog.Info("preferences reset",
		slog.String("user_id", userID),
		slog.Int64("deleted", deleted),
	)
	w.WriteHeader(http.StatusNoContent)
}
