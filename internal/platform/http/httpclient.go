package http

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"google.golang.org/api/option"
	htransport "google.golang.org/api/transport/http"
)

// NewGoogleHTTPClient は外部API呼び出し用に調整したTransportにGoogle Cloudの認証を重ねたクライアントを作成します。
// 認証情報はADCから解決し、opts（スコープ等）を適用します。timeout が 0 の場合、リクエスト全体のタイムアウトは設定しません。
func NewGoogleHTTPClient(ctx context.Context, timeout time.Duration, opts ...option.ClientOption) (*http.Client, error) {
	rt, err := htransport.NewTransport(ctx, newTransport(), opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create authenticated transport: %w", err)
	}
	return &http.Client{Timeout: timeout, Transport: rt}, nil
}

// newTransport の設定:
//   - Proxy: 環境変数（HTTP_PROXYなど）が設定されている場合に使用
//   - Dialer.Timeout: TCP接続タイムアウト（デフォルトより短い）
//   - Dialer.KeepAlive: 再利用可能なTCP接続の維持期間
//   - MaxIdleConns: 最大アイドル接続数（高負荷時の枯渇防止のため100）
//   - IdleConnTimeout: アイドル接続の維持期間
//   - TLSHandshakeTimeout: HTTPSハンドシェイクの最大時間
func newTransport() *http.Transport {
	return &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   5 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:        100,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 5 * time.Second,
	}
}
