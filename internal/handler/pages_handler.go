package handler

import (
	"fmt"
	"net/http"
)

// PagesHandler はページシェルを提供するハンドラー。
// ページ本体のUIはフロントエンドの責務であり、ここでは保護判定の
// 対象となる最小限のHTMLシェルのみを返す。
type PagesHandler struct{}

// NewPagesHandler はPagesHandlerを生成する。
func NewPagesHandler() *PagesHandler {
	return &PagesHandler{}
}

// page は指定タイトルのHTMLシェルを返すハンドラーを生成する。
func (h *PagesHandler) page(title string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		fmt.Fprintf(w, `<!DOCTYPE html>
<html lang="ja">
<head><meta charset="utf-8"><title>%s - Merlin</title></head>
<body><div id="root" data-page="%s"></div></body>
</html>
`, title, title)
	}
}

// Landing は公開トップページ。
// GET /
func (h *PagesHandler) Landing() http.HandlerFunc { return h.page("home") }

// SignIn はサインインページ。ログイン済みの場合はガードがホームへ戻す。
// GET /auth/signin
func (h *PagesHandler) SignIn() http.HandlerFunc { return h.page("signin") }

// Chat はチャットページ（保護対象）。
// GET /chat
func (h *PagesHandler) Chat() http.HandlerFunc { return h.page("chat") }

// Settings は設定ページ（保護対象）。
// GET /settings
func (h *PagesHandler) Settings() http.HandlerFunc { return h.page("settings") }

// Workflows はワークフローページ（保護対象）。
// GET /workflows
func (h *PagesHandler) Workflows() http.HandlerFunc { return h.page("workflows") }

// Analytics は分析ページ（保護対象）。
// GET /analytics
func (h *PagesHandler) Analytics() http.HandlerFunc { return h.page("analytics") }
