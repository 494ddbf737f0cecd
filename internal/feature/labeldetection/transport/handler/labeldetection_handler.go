// Package handler はlabeldetectionフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"label_detection/internal/feature/labeldetection/domain"
	"label_detection/internal/feature/labeldetection/domain/entity"
	"label_detection/internal/feature/labeldetection/transport/http/dto"
	jwtmw "label_detection/internal/platform/jwt"
)

// LabelDetectionUsecase はラベル検出のユースケースインターフェースを定義します。
// Goの慣例に従い、インターフェースは利用者（handler）側で定義します。
type LabelDetectionUsecase interface {
	Analyze(ctx context.Context, req entity.DetectionRequest) (*entity.Analysis, error)
	ListRuns(ctx context.Context, limit int) ([]entity.DetectionRun, error)
}

// ImageEncoder は注釈付き画像をレスポンスボディに書き出します。
type ImageEncoder interface {
	ContentType() string
	Encode(w io.Writer, img *entity.DecodedImage, annotations []entity.Annotation) error
}

// LabelDetectionHandler はラベル検出のHTTPリクエストを処理します。
type LabelDetectionHandler struct {
	uc      LabelDetectionUsecase
	encoder ImageEncoder
}

// NewLabelDetectionHandler はLabelDetectionHandlerの新しいインスタンスを生成します。
func NewLabelDetectionHandler(uc LabelDetectionUsecase, encoder ImageEncoder) *LabelDetectionHandler {
	return &LabelDetectionHandler{uc: uc, encoder: encoder}
}

// Detect はストレージ上の画像のラベルと位置を返します。
//
// エンドポイント: POST /v1/labels/detect
// Content-Type: application/json
func (h *LabelDetectionHandler) Detect(c *gin.Context) {
	analysis, ok := h.analyze(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, dto.NewDetectResponse(analysis))
}

// Annotate は枠とキャプションを描画した画像をPNGで返します。
//
// エンドポイント: POST /v1/labels/annotate
// Content-Type: application/json
func (h *LabelDetectionHandler) Annotate(c *gin.Context) {
	analysis, ok := h.analyze(c)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := h.encoder.Encode(&buf, analysis.Image, analysis.Annotations); err != nil {
		slog.Error("注釈画像のエンコードに失敗", "error", err, "key", analysis.Request.ImageKey)
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "注釈画像の生成に失敗しました"})
		return
	}
	c.Header("X-Label-Count", strconv.Itoa(len(analysis.Labels)))
	c.Data(http.StatusOK, h.encoder.ContentType(), buf.Bytes())
}

// ListRuns は直近の実行履歴を返します。
//
// エンドポイント: GET /v1/labels/runs?limit=N
func (h *LabelDetectionHandler) ListRuns(c *gin.Context) {
	limit := 0
	if s := c.Query("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 0 {
			c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "limitは0以上の整数で指定してください", Kind: domain.KindInvalidRequest.String()})
			return
		}
		limit = n
	}

	runs, err := h.uc.ListRuns(c.Request.Context(), limit)
	if errors.Is(err, domain.ErrHistoryDisabled) {
		c.JSON(http.StatusServiceUnavailable, dto.ErrorResponse{Error: "実行履歴は無効です"})
		return
	}
	if err != nil {
		slog.Error("実行履歴の取得に失敗", "error", err)
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "実行履歴の取得に失敗しました"})
		return
	}
	c.JSON(http.StatusOK, dto.NewRunItems(runs))
}

// analyze はリクエストボディを検証してユースケースを呼び出します。失敗時はレスポンスを書き込み false を返します。
func (h *LabelDetectionHandler) analyze(c *gin.Context) (*entity.Analysis, bool) {
	var req dto.DetectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Warn("ラベル検出リクエストのバリデーションに失敗", "error", err, "remote_addr", c.ClientIP())
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "bucketとkeyが必要です", Kind: domain.KindInvalidRequest.String()})
		return nil, false
	}

	analysis, err := h.uc.Analyze(c.Request.Context(), req.ToEntity())
	if err != nil {
		status := StatusFor(err)
		slog.Error("ラベル検出に失敗", "error", err, "status", status,
			"bucket", req.Bucket, "key", req.Key, "client", jwtmw.ClientID(c))
		c.JSON(status, dto.ErrorResponse{
			Error: err.Error(),
			Kind:  domain.KindOf(err).String(),
			Code:  domain.CodeOf(err),
			Hint:  domain.HintText(err),
		})
		return nil, false
	}
	return analysis, true
}

// StatusFor はワークフローエラーをHTTPステータスに対応付けます。
func StatusFor(err error) int {
	switch domain.KindOf(err) {
	case domain.KindInvalidRequest:
		return http.StatusBadRequest
	case domain.KindStorageAccess:
		if domain.IsNotFound(domain.CodeOf(err)) {
			return http.StatusNotFound
		}
		return http.StatusForbidden
	case domain.KindUnreadableObject:
		return http.StatusUnprocessableEntity
	case domain.KindUnsupportedFormat, domain.KindDecode:
		return http.StatusUnsupportedMediaType
	case domain.KindAuthentication, domain.KindService:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
