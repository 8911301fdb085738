// Package guard はパスとログイン状態からナビゲーションの可否を判定する。
package guard

import "strings"

// Verdict はルートガードの判定結果。
type Verdict int

const (
	// Allow はそのまま処理を続行してよいことを示す。
	Allow Verdict = iota
	// RedirectToSignIn は未ログインで保護領域にアクセスしたため
	// サインインページへリダイレクトすべきことを示す。
	RedirectToSignIn
	// RedirectToHome はログイン済みで認証ページにアクセスしたため
	// ホームへリダイレクトすべきことを示す。
	RedirectToHome
)

// String はメトリクスラベル用の判定名を返す。
func (v Verdict) String() string {
	switch v {
	case RedirectToSignIn:
		return "redirect_to_sign_in"
	case RedirectToHome:
		return "redirect_to_home"
	default:
		return "allow"
	}
}

const (
	// AuthPrefix は認証ページのパスプレフィックス。
	AuthPrefix = "/auth"
	// SignInPath はサインインページのパス。リダイレクト先として使用する。
	SignInPath = "/auth/signin"
	// HomePath はログイン後のデフォルト領域。
	HomePath = "/chat"
)

// protectedPrefixes は認証済みセッションを必要とするパスプレフィックスの
// 固定リスト。このリストとの前方一致が保護領域の唯一の判定基準となる。
var protectedPrefixes = []string{
	"/chat",
	"/settings",
	"/workflows",
	"/analytics",
}

// Decide はパスと現在のログイン状態からナビゲーションの判定を返す。
// 純粋関数であり、判定はナビゲーションごとに毎回評価される。
// ルールは順に評価され、最初に一致したものが適用される:
//  1. 認証ページ: ログイン済みならRedirectToHome、未ログインならAllow
//  2. 保護領域かつ未ログイン: RedirectToSignIn
//  3. それ以外: Allow
func Decide(path string, isLoggedIn bool) Verdict {
	if hasPathPrefix(path, AuthPrefix) {
		if isLoggedIn {
			return RedirectToHome
		}
		return Allow
	}

	if isProtected(path) && !isLoggedIn {
		return RedirectToSignIn
	}

	return Allow
}

// isProtected はパスが保護領域に属するかどうかを返す。
func isProtected(path string) bool {
	for _, prefix := range protectedPrefixes {
		if hasPathPrefix(path, prefix) {
			return true
		}
	}
	return false
}

// hasPathPrefix はパスセグメント単位の前方一致判定を行う。
// "/chat" は "/chat" と "/chat/x" に一致するが "/chatter" には一致しない。
func hasPathPrefix(path, prefix string) bool {
	if !strings.HasPrefix(path, prefix) {
		return false
	}
	return len(path) == len(prefix) || path[len(prefix)] == '/'
}
