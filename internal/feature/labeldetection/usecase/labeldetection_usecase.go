// Package usecase はlabeldetectionフィーチャーのビジネスロジックを実装します。
package usecase

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"time"

	"label_detection/internal/feature/labeldetection/domain"
	"label_detection/internal/feature/labeldetection/domain/entity"
)

const (
	// MaxLabels は認識サービスに要求するラベル数の上限です。
	MaxLabels = 10
	// DefaultRunsLimit は実行履歴のデフォルト返却件数です。
	DefaultRunsLimit = 20
	// MaxRunsLimit は実行履歴の最大返却件数です。
	MaxRunsLimit = 100
)

// Config はワークフローの設定です。リージョンはグローバル定数ではなくここで渡します。
type Config struct {
	RegionID  string // クライアントが固定されているリージョン
	MaxLabels int    // 0 以下の場合は MaxLabels
}

// LabelDetector は認識サービスを抽象化します。
// Goの慣例に従い、インターフェースは利用者（usecase）側で定義します。
type LabelDetector interface {
	// DetectLabels はバケット+キーで指定された画像のラベルを、サービスが返した順序で返します。
	DetectLabels(ctx context.Context, req entity.DetectionRequest, maxLabels int) ([]entity.Label, error)
}

// ObjectFetcher はオブジェクトストレージからバイト列を取得します。
type ObjectFetcher interface {
	FetchObject(ctx context.Context, bucket, key string) ([]byte, error)
}

// ImageDecoder はバイト列をRGB画像にデコードします。
type ImageDecoder interface {
	Decode(data []byte) (*entity.DecodedImage, error)
}

// ImagePresenter は注釈付き画像を提示します（ファイル保存、ストリーム出力、何もしない等）。
type ImagePresenter interface {
	Present(ctx context.Context, img *entity.DecodedImage, annotations []entity.Annotation) error
}

// RunRepository は実行履歴の永続化レイヤーを抽象化します。
type RunRepository interface {
	Create(ctx context.Context, run *entity.DetectionRun) error
	ListRecent(ctx context.Context, limit int) ([]entity.DetectionRun, error)
}

// Dependencies はワークフローの外部依存です。Runs が nil の場合、履歴は記録されません。
type Dependencies struct {
	Detector  LabelDetector
	Fetcher   ObjectFetcher
	Decoder   ImageDecoder
	Presenter ImagePresenter
	Runs      RunRepository
	Out       io.Writer // ラベル一覧とエラーレポートの出力先
}

// labelDetectionUsecase は検出 → 報告 → 取得 → デコード → 注釈 → 描画を順に実行します。
type labelDetectionUsecase struct {
	cfg       Config
	detector  LabelDetector
	fetcher   ObjectFetcher
	decoder   ImageDecoder
	presenter ImagePresenter
	runs      RunRepository
	out       io.Writer
	now       func() time.Time
}

// NewLabelDetectionUsecase はlabelDetectionUsecaseの新しいインスタンスを生成します。
func NewLabelDetectionUsecase(cfg Config, deps Dependencies) *labelDetectionUsecase {
	if cfg.MaxLabels <= 0 {
		cfg.MaxLabels = MaxLabels
	}
	cfg.RegionID = normalizeRegion(cfg.RegionID)
	out := deps.Out
	if out == nil {
		out = io.Discard
	}
	return &labelDetectionUsecase{
		cfg:       cfg,
		detector:  deps.Detector,
		fetcher:   deps.Fetcher,
		decoder:   deps.Decoder,
		presenter: deps.Presenter,
		runs:      deps.Runs,
		out:       out,
		now:       time.Now,
	}
}

// Run はワークフロー全体を実行し、検出されたラベル数を返します。
// いずれかのステップが失敗すると残りは実行せず、*domain.WorkflowError を返します。
func (u *labelDetectionUsecase) Run(ctx context.Context, req entity.DetectionRequest) (count int, err error) {
	started := u.now()
	req, err = u.normalize(req)
	defer func() { u.record(ctx, req, started, count, err) }()
	if err != nil {
		return 0, err
	}

	labels, err := u.detect(ctx, req)
	if err != nil {
		return 0, err
	}

	u.report(req, labels)

	img, err := u.load(ctx, req)
	if err != nil {
		return 0, err
	}

	annotations := Annotate(labels, img)
	if err := u.presenter.Present(ctx, img, annotations); err != nil {
		return 0, domain.AsWorkflowError(err, domain.KindUnclassified, "presenter")
	}

	return len(labels), nil
}

// Execute はRunを呼び出し、失敗時はエラーレポートを出力します。
// ok が false の場合、ラベル数は利用できません。エラーは呼び出し元に伝播しません。
func (u *labelDetectionUsecase) Execute(ctx context.Context, req entity.DetectionRequest) (count int, ok bool) {
	count, err := u.Run(ctx, req)
	if err != nil {
		slog.Error("ラベル検出ワークフローが失敗",
			"kind", domain.KindOf(err).String(),
			"code", domain.CodeOf(err),
			"key", req.ImageKey,
			"bucket", req.BucketName,
			"error", err)
		u.reportError(req, err)
		return 0, false
	}
	return count, true
}

// Analyze は検出・取得・デコード・座標変換までを行い、出力や描画は行いません。
func (u *labelDetectionUsecase) Analyze(ctx context.Context, req entity.DetectionRequest) (analysis *entity.Analysis, err error) {
	started := u.now()
	req, err = u.normalize(req)
	defer func() {
		count := 0
		if analysis != nil {
			count = len(analysis.Labels)
		}
		u.record(ctx, req, started, count, err)
	}()
	if err != nil {
		return nil, err
	}

	labels, err := u.detect(ctx, req)
	if err != nil {
		return nil, err
	}

	img, err := u.load(ctx, req)
	if err != nil {
		return nil, err
	}

	return &entity.Analysis{
		Request:     req,
		Labels:      labels,
		Image:       img,
		Annotations: Annotate(labels, img),
	}, nil
}

// ListRuns は直近の実行履歴を返します。
func (u *labelDetectionUsecase) ListRuns(ctx context.Context, limit int) ([]entity.DetectionRun, error) {
	if u.runs == nil {
		return nil, domain.ErrHistoryDisabled
	}
	switch {
	case limit <= 0:
		limit = DefaultRunsLimit
	case limit > MaxRunsLimit:
		limit = MaxRunsLimit
	}
	return u.runs.ListRecent(ctx, limit)
}

// Annotate は各ラベルの各インスタンスをピクセル座標の注釈に変換します。
// 変換に使うのは正規化ボックスと画像サイズのみで、順序はラベル・インスタンスの順序のままです。
func Annotate(labels []entity.Label, img *entity.DecodedImage) []entity.Annotation {
	w, h := img.Width(), img.Height()
	var out []entity.Annotation
	for _, l := range labels {
		for _, inst := range l.Instances {
			out = append(out, entity.Annotation{
				Box:     inst.Box().ToPixels(w, h),
				Caption: l.Caption(),
			})
		}
	}
	return out
}

func (u *labelDetectionUsecase) normalize(req entity.DetectionRequest) (entity.DetectionRequest, error) {
	if req.ImageKey == "" {
		return req, domain.NewError(domain.KindInvalidRequest, "", "", domain.ErrEmptyImageKey)
	}
	if req.BucketName == "" {
		return req, domain.NewError(domain.KindInvalidRequest, "", "", domain.ErrEmptyBucket)
	}
	req.RegionID = normalizeRegion(req.RegionID)
	if req.RegionID == "" {
		req.RegionID = u.cfg.RegionID
	} else if u.cfg.RegionID != "" && req.RegionID != u.cfg.RegionID {
		return req, domain.NewError(domain.KindInvalidRequest, "", "", domain.ErrRegionMismatch)
	}
	return req, nil
}

// normalizeRegion はエンドポイントの組み立てと同じく前後の空白を除き小文字にします。
func normalizeRegion(region string) string {
	return strings.ToLower(strings.TrimSpace(region))
}

func (u *labelDetectionUsecase) detect(ctx context.Context, req entity.DetectionRequest) ([]entity.Label, error) {
	labels, err := u.detector.DetectLabels(ctx, req, u.cfg.MaxLabels)
	if err != nil {
		return nil, domain.AsWorkflowError(err, domain.KindUnclassified, "vision")
	}
	return labels, nil
}

func (u *labelDetectionUsecase) load(ctx context.Context, req entity.DetectionRequest) (*entity.DecodedImage, error) {
	data, err := u.fetcher.FetchObject(ctx, req.BucketName, req.ImageKey)
	if err != nil {
		return nil, domain.AsWorkflowError(err, domain.KindStorageAccess, "storage")
	}
	img, err := u.decoder.Decode(data)
	if err != nil {
		return nil, domain.AsWorkflowError(err, domain.KindDecode, "decoder")
	}
	return img, nil
}

func (u *labelDetectionUsecase) record(ctx context.Context, req entity.DetectionRequest, started time.Time, count int, err error) {
	if u.runs == nil {
		return
	}
	run := &entity.DetectionRun{
		ImageKey:   req.ImageKey,
		BucketName: req.BucketName,
		RegionID:   req.RegionID,
		LabelCount: count,
		StartedAt:  started,
		FinishedAt: u.now(),
	}
	if err != nil {
		run.LabelCount = 0
		run.ErrorKind = domain.KindOf(err).String()
		run.ErrorCode = domain.CodeOf(err)
	}
	if rerr := u.runs.Create(ctx, run); rerr != nil {
		slog.Warn("実行履歴の保存に失敗", "key", req.ImageKey, "error", rerr)
	}
}
