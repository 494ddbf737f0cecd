package router

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	labelhandler "label_detection/internal/feature/labeldetection/transport/handler"
	"label_detection/internal/platform/http/handler"
	jwtmw "label_detection/internal/platform/jwt"
	"label_detection/internal/platform/ratelimit"
)

// NewRouter はルーティングを設定したginエンジンを返します。limiter が nil の場合、レート制限は行いません。
func NewRouter(labels *labelhandler.LabelDetectionHandler, limiter *ratelimit.FixedWindow) *gin.Engine {
	r := gin.Default()
	r.Use(cors.Default())

	// 認証不要
	// 導通確認用
	r.GET("/healthz", handler.Health)
	r.HEAD("/healthz", handler.Health)

	// 認証必須のルート
	// JWT検証の後にクライアント単位でレート制限
	v1 := r.Group("/v1")
	v1.Use(jwtmw.AuthRequired(), ratelimit.Middleware(limiter))
	{
		v1.POST("/labels/detect", labels.Detect)
		v1.POST("/labels/annotate", labels.Annotate)
		v1.GET("/labels/runs", labels.ListRuns)
	}

	return r
}
