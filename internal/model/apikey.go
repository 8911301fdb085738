package model

// APIKey はバックエンドが管理するLLMプロバイダーAPIキーの一覧表示用レコード。
// 生のキーはバックエンド側で暗号化保存されており、ゲートウェイには
// マスク済みの値のみが渡る。
type APIKey struct {
	Provider  string `json:"provider"`
	MaskedKey string `json:"masked_key"`
	IsValid   bool   `json:"is_valid"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}
