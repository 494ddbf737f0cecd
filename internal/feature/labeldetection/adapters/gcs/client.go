// Package gcs はGoogle Cloud Storageからオブジェクトを取得するクライアントを提供します。
package gcs

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"

	"label_detection/internal/feature/labeldetection/domain"
	"label_detection/internal/feature/labeldetection/usecase"
	"label_detection/internal/platform/gcperr"
	platformhttp "label_detection/internal/platform/http"
)

const serviceName = "storage"

// openFunc はオブジェクトのリーダーを開きます。
type openFunc func(ctx context.Context, bucket, key string) (io.ReadCloser, error)

// GCSObjectFetcher はGoogle Cloud Storageからオブジェクト本体を取得します。
type GCSObjectFetcher struct {
	open   openFunc
	closer func() error
}

// GCSObjectFetcherがObjectFetcherを実装していることをコンパイル時に検証します。
var _ usecase.ObjectFetcher = (*GCSObjectFetcher)(nil)

// NewGCSObjectFetcher はADCを使用してGCSObjectFetcherの新しいインスタンスを生成します。
// タイムアウトは設定せず、ライブラリのデフォルトに任せます。
func NewGCSObjectFetcher(ctx context.Context, opts ...option.ClientOption) (*GCSObjectFetcher, error) {
	hc, err := platformhttp.NewGoogleHTTPClient(ctx, 0, append([]option.ClientOption{option.WithScopes(storage.ScopeReadOnly)}, opts...)...)
	if err != nil {
		return nil, gcperr.ClassifyClientInit(serviceName, err)
	}
	client, err := storage.NewClient(ctx, option.WithHTTPClient(hc))
	if err != nil {
		return nil, gcperr.ClassifyClientInit(serviceName, err)
	}
	return &GCSObjectFetcher{
		open: func(ctx context.Context, bucket, key string) (io.ReadCloser, error) {
			return client.Bucket(bucket).Object(key).NewReader(ctx)
		},
		closer: client.Close,
	}, nil
}

// Close はストレージクライアントを解放します。
func (g *GCSObjectFetcher) Close() error {
	if g.closer == nil {
		return nil
	}
	return g.closer()
}

// FetchObject はオブジェクト本体を読み出して返します。
func (g *GCSObjectFetcher) FetchObject(ctx context.Context, bucket, key string) ([]byte, error) {
	r, err := g.open(ctx, bucket, key)
	if err != nil {
		return nil, ClassifyStorage(err)
	}
	defer func() {
		if err := r.Close(); err != nil {
			slog.Warn("failed to close object reader", "bucket", bucket, "key", key, "error", err)
		}
	}()

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, ClassifyStorage(fmt.Errorf("read gs://%s/%s: %w", bucket, key, err))
	}
	return data, nil
}

// ClassifyStorage はストレージのエラーを分類します。認証以外はすべてStorageAccessErrorです。
func ClassifyStorage(err error) *domain.WorkflowError {
	if err == nil {
		return nil
	}
	if errors.Is(err, storage.ErrObjectNotExist) || errors.Is(err, storage.ErrBucketNotExist) {
		return domain.NewError(domain.KindStorageAccess, serviceName, codes.NotFound.String(), err)
	}

	name, _, ok := gcperr.Code(err)
	switch {
	case name == codes.Unauthenticated.String():
		return domain.NewError(domain.KindAuthentication, serviceName, name, err)
	case !ok && gcperr.IsCredentialsError(err):
		return domain.NewError(domain.KindAuthentication, serviceName, "", err)
	default:
		return domain.NewError(domain.KindStorageAccess, serviceName, name, err)
	}
}
