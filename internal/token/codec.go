// Package token は署名付きステートレスセッショントークンの
// エンコード・デコードを提供する。
package token

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/hitoshi/merlin-gateway/internal/model"
)

// signingMethod はトークン署名アルゴリズム。サーバー保持の共有シークレットで署名する。
var signingMethod = jwt.SigningMethodHS256

// sessionClaims はJWTに格納されるクレーム。
// subにユーザーID、加えてバックエンドアクセストークンとプロバイダーを持つ。
type sessionClaims struct {
	jwt.RegisteredClaims
	Email       string `json:"email,omitempty"`
	AccessToken string `json:"access_token,omitempty"`
	Provider    string `json:"provider,omitempty"`
}

// Codec はセッショントークンの封緘（署名）と開封（検証）を行う。
// 状態を持たず、並行呼び出しに対して安全。
type Codec struct {
	secret []byte
	maxAge time.Duration
	now    func() time.Time
}

// NewCodec はCodecを生成する。maxAgeはトークンの有効期間。
func NewCodec(secret string, maxAge time.Duration) *Codec {
	return &Codec{
		secret: []byte(secret),
		maxAge: maxAge,
		now:    time.Now,
	}
}

// NewCodecWithClock は時刻関数を差し替え可能なCodecを生成する。テスト用。
func NewCodecWithClock(secret string, maxAge time.Duration, now func() time.Time) *Codec {
	return &Codec{
		secret: []byte(secret),
		maxAge: maxAge,
		now:    now,
	}
}

// Seal はペイロードを署名付きトークン文字列に封緘する。
// 有効期限は現在時刻から設定されたmaxAge後に設定される。
// リクエストごとの再封緘（ローテーション）にも同じ経路を使用する。
func (c *Codec) Seal(payload model.TokenPayload) (string, error) {
	now := c.now()
	claims := sessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   payload.UserID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.maxAge)),
		},
		Email:       payload.Email,
		AccessToken: payload.AccessToken,
		Provider:    payload.Provider,
	}

	return jwt.NewWithClaims(signingMethod, claims).SignedString(c.secret)
}

// Open はトークン文字列を検証しペイロードを取り出す。
// トークンが空・期限切れ・署名不正・アルゴリズム不一致の場合は
// (nil, false) を返す。これはエラーではなく匿名（未ログイン）状態を表す。
// subが空のトークンも匿名として扱う（IDなしのIdentityは存在しない）。
func (c *Codec) Open(tokenString string) (*model.TokenPayload, bool) {
	if tokenString == "" {
		return nil, false
	}

	var claims sessionClaims
	_, err := jwt.ParseWithClaims(tokenString, &claims, func(t *jwt.Token) (any, error) {
		return c.secret, nil
	},
		jwt.WithValidMethods([]string{signingMethod.Alg()}),
		jwt.WithTimeFunc(c.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, false
	}

	if claims.Subject == "" {
		return nil, false
	}

	return &model.TokenPayload{
		UserID:      claims.Subject,
		Email:       claims.Email,
		AccessToken: claims.AccessToken,
		Provider:    claims.Provider,
	}, true
}

// View はペイロードからクライアント公開用のセッションビューを導出する。
// 純粋関数であり、ビューの全フィールドはペイロードのみに由来する。
func View(payload *model.TokenPayload) *model.SessionView {
	if payload == nil {
		return nil
	}
	return &model.SessionView{
		User: model.SessionUser{
			ID:    payload.UserID,
			Email: payload.Email,
		},
		AccessToken: payload.AccessToken,
		Provider:    payload.Provider,
	}
}
