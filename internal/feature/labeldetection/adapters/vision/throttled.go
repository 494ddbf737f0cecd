package vision

import (
	"context"

	"label_detection/internal/feature/labeldetection/domain/entity"
	"label_detection/internal/feature/labeldetection/usecase"
	"label_detection/internal/shared/ratelimiter"
)

// ThrottledDetector はLabelDetectorの呼び出し頻度をRateLimiterで制限します。
type ThrottledDetector struct {
	inner   usecase.LabelDetector
	limiter ratelimiter.RateLimiterInterface
}

var _ usecase.LabelDetector = (*ThrottledDetector)(nil)

// NewThrottledDetector はinnerを呼び出す前にlimiterで待機するデコレーターを生成します。
func NewThrottledDetector(inner usecase.LabelDetector, limiter ratelimiter.RateLimiterInterface) *ThrottledDetector {
	return &ThrottledDetector{inner: inner, limiter: limiter}
}

// DetectLabels は必要に応じて待機してからinnerに委譲します。
func (t *ThrottledDetector) DetectLabels(ctx context.Context, req entity.DetectionRequest, maxLabels int) ([]entity.Label, error) {
	if err := t.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	return t.inner.DetectLabels(ctx, req, maxLabels)
}
