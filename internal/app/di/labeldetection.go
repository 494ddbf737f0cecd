// Package di provides dependency injection factories for creating application components.
package di

import (
	"context"
	"log/slog"
	"os"
	"strconv"
	"time"

	"gorm.io/gorm"

	"label_detection/internal/feature/labeldetection/adapters"
	"label_detection/internal/feature/labeldetection/adapters/gcs"
	"label_detection/internal/feature/labeldetection/adapters/vision"
	"label_detection/internal/feature/labeldetection/usecase"
	"label_detection/internal/shared/ratelimiter"
)

// EnvKeyVisionCallsPerMinute limits outbound recognition calls per process. 0 or unset disables it.
const EnvKeyVisionCallsPerMinute = "VISION_CALLS_PER_MINUTE"

// CloudClients holds the recognition and storage clients pinned to one region.
type CloudClients struct {
	Region   string
	Detector usecase.LabelDetector
	Fetcher  *gcs.GCSObjectFetcher

	vision *vision.VisionLabelDetector
}

// NewCloudClients creates the Vision and Storage clients. Errors are already classified
// as *domain.WorkflowError.
func NewCloudClients(ctx context.Context, cfg vision.Config) (*CloudClients, error) {
	v, err := vision.NewVisionLabelDetector(ctx, cfg)
	if err != nil {
		return nil, err
	}
	fetcher, err := gcs.NewGCSObjectFetcher(ctx)
	if err != nil {
		_ = v.Close()
		return nil, err
	}

	var detector usecase.LabelDetector = v
	if n := CallsPerMinuteFromEnv(); n > 0 {
		detector = vision.NewThrottledDetector(v, ratelimiter.NewRateLimiter(n, time.Minute))
		slog.Info("vision calls throttled", "per_minute", n)
	}

	return &CloudClients{
		Region:   v.Region(),
		Detector: detector,
		Fetcher:  fetcher,
		vision:   v,
	}, nil
}

// Close releases both clients.
func (c *CloudClients) Close() {
	if err := c.vision.Close(); err != nil {
		slog.Warn("failed to close vision client", "error", err)
	}
	if err := c.Fetcher.Close(); err != nil {
		slog.Warn("failed to close storage client", "error", err)
	}
}

// CallsPerMinuteFromEnv reads VISION_CALLS_PER_MINUTE.
func CallsPerMinuteFromEnv() int {
	n, err := strconv.Atoi(os.Getenv(EnvKeyVisionCallsPerMinute))
	if err != nil || n < 0 {
		return 0
	}
	return n
}

// NewRunRepository returns the run history repository, or nil when no database is configured.
func NewRunRepository(db *gorm.DB) usecase.RunRepository {
	if db == nil {
		return nil
	}
	return adapters.NewRunRepository(db)
}
