package vision

import (
	"fmt"
	"os"
	"strings"
)

// DefaultRegion はVISION_REGIONが未設定の場合のリージョンです。
const DefaultRegion = "us"

// Config はVision APIクライアントの設定です。
type Config struct {
	RegionID string // "us" / "eu" はリージョナルエンドポイント、空または "global" はデフォルト
}

// LoadConfig は環境変数からVision APIの設定を読み込みます。
func LoadConfig() Config {
	region := os.Getenv("VISION_REGION")
	if region == "" {
		region = DefaultRegion
	}
	return Config{RegionID: region}
}

// Endpoint はリージョンに対応するエンドポイントを返します。空文字列はライブラリのデフォルトを意味します。
func (c Config) Endpoint() string {
	region := strings.ToLower(strings.TrimSpace(c.RegionID))
	if region == "" || region == "global" {
		return ""
	}
	return fmt.Sprintf("%s-vision.googleapis.com:443", region)
}
