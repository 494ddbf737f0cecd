// Package vision はGoogle Cloud Vision APIを使用したラベル検出クライアントを提供します。
package vision

import (
	"context"
	"log/slog"

	gvision "cloud.google.com/go/vision/v2/apiv1"
	visionpb "cloud.google.com/go/vision/v2/apiv1/visionpb"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"

	"label_detection/internal/feature/labeldetection/domain/entity"
	"label_detection/internal/feature/labeldetection/usecase"
	"label_detection/internal/platform/gcperr"
)

const (
	serviceName = "vision"
	// MaxObjectResults はOBJECT_LOCALIZATIONで要求するオブジェクト数の上限です。
	MaxObjectResults = 50
)

// annotator はBatchAnnotateImagesを呼び出せるクライアントです。
type annotator interface {
	BatchAnnotateImages(ctx context.Context, req *visionpb.BatchAnnotateImagesRequest) (*visionpb.BatchAnnotateImagesResponse, error)
}

// clientAnnotator は*gvision.ImageAnnotatorClientをannotatorに適合させます。
type clientAnnotator struct {
	client *gvision.ImageAnnotatorClient
}

func (c clientAnnotator) BatchAnnotateImages(ctx context.Context, req *visionpb.BatchAnnotateImagesRequest) (*visionpb.BatchAnnotateImagesResponse, error) {
	return c.client.BatchAnnotateImages(ctx, req)
}

// VisionLabelDetector はGoogle Cloud Vision APIを使用してラベルとその位置を検出します。
type VisionLabelDetector struct {
	api    annotator
	closer func() error
	region string
}

// VisionLabelDetectorがLabelDetectorを実装していることをコンパイル時に検証します。
var _ usecase.LabelDetector = (*VisionLabelDetector)(nil)

// NewVisionLabelDetector はADCを使用してVisionLabelDetectorの新しいインスタンスを生成します。
// クライアントの生成に失敗した場合は認証エラーとして分類されます。
func NewVisionLabelDetector(ctx context.Context, cfg Config, opts ...option.ClientOption) (*VisionLabelDetector, error) {
	if ep := cfg.Endpoint(); ep != "" {
		opts = append([]option.ClientOption{option.WithEndpoint(ep)}, opts...)
	}
	client, err := gvision.NewImageAnnotatorClient(ctx, opts...)
	if err != nil {
		return nil, gcperr.ClassifyClientInit(serviceName, err)
	}
	slog.Info("Vision client initialized", "region", cfg.RegionID, "endpoint", cfg.Endpoint())
	return &VisionLabelDetector{
		api:    clientAnnotator{client: client},
		closer: client.Close,
		region: cfg.RegionID,
	}, nil
}

// Close はVision APIクライアントを解放します。
func (v *VisionLabelDetector) Close() error {
	if v.closer == nil {
		return nil
	}
	return v.closer()
}

// DetectLabels はバケット+キーで指定された画像のラベルを検出します。
func (v *VisionLabelDetector) DetectLabels(ctx context.Context, req entity.DetectionRequest, maxLabels int) ([]entity.Label, error) {
	resp, err := v.api.BatchAnnotateImages(ctx, buildRequest(req, maxLabels))
	if err != nil {
		return nil, gcperr.ClassifyRPC(serviceName, err)
	}

	if len(resp.GetResponses()) == 0 {
		return nil, nil
	}

	res := resp.GetResponses()[0]
	if st := res.GetError(); st != nil && codes.Code(st.GetCode()) != codes.OK {
		return nil, gcperr.ClassifyImageError(serviceName, codes.Code(st.GetCode()), st.GetMessage())
	}

	return toLabels(res, maxLabels), nil
}

// buildRequest はgs:// URIで画像を指定したアノテーションリクエストを組み立てます。
func buildRequest(req entity.DetectionRequest, maxLabels int) *visionpb.BatchAnnotateImagesRequest {
	return &visionpb.BatchAnnotateImagesRequest{
		Requests: []*visionpb.AnnotateImageRequest{
			{
				Image: &visionpb.Image{
					Source: &visionpb.ImageSource{ImageUri: req.ObjectURI()},
				},
				Features: []*visionpb.Feature{
					{Type: visionpb.Feature_LABEL_DETECTION, MaxResults: int32(maxLabels)},
					{Type: visionpb.Feature_OBJECT_LOCALIZATION, MaxResults: MaxObjectResults},
				},
			},
		},
	}
}

// Region はクライアントが固定されているリージョンです。
func (v *VisionLabelDetector) Region() string {
	return v.region
}
