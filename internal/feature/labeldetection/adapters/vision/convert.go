package vision

import (
	"strings"

	visionpb "cloud.google.com/go/vision/v2/apiv1/visionpb"

	"label_detection/internal/feature/labeldetection/domain/entity"
)

// toLabels はラベル注釈をすべてレスポンス順のラベルに変換し、同名のオブジェクト注釈をインスタンスとして付与します。
// 名前は大文字小文字を区別せずに比較し、同名のラベルが複数ある場合は最初のラベルに付与します。
// 一致するラベルがないオブジェクトは、ラベル数がmaxLabelsを超えない範囲で新しいラベルになります。
func toLabels(res *visionpb.AnnotateImageResponse, maxLabels int) []entity.Label {
	labels := make([]entity.Label, 0, len(res.GetLabelAnnotations()))
	index := make(map[string]int, len(res.GetLabelAnnotations()))

	for _, ann := range res.GetLabelAnnotations() {
		key := strings.ToLower(ann.GetDescription())
		if _, seen := index[key]; !seen {
			index[key] = len(labels)
		}
		labels = append(labels, entity.Label{
			Name:       ann.GetDescription(),
			Confidence: confidence(ann.GetScore()),
		})
	}

	for _, obj := range res.GetLocalizedObjectAnnotations() {
		key := strings.ToLower(obj.GetName())
		i, ok := index[key]
		if !ok {
			if maxLabels > 0 && len(labels) >= maxLabels {
				continue
			}
			i = len(labels)
			index[key] = i
			labels = append(labels, entity.Label{
				Name:       obj.GetName(),
				Confidence: confidence(obj.GetScore()),
			})
		}
		box := normalizedBox(obj.GetBoundingPoly())
		labels[i].Instances = append(labels[i].Instances, entity.Instance{BoundingBox: box})
	}

	return labels
}

// confidence はスコア（0 ~ 1）を信頼度（0 ~ 100）に変換します。
func confidence(score float32) *float64 {
	c := float64(score) * 100
	return &c
}

// normalizedBox は正規化ポリゴンの外接矩形を返します。頂点がない場合は nil です。
func normalizedBox(poly *visionpb.BoundingPoly) *entity.NormalizedBox {
	vs := poly.GetNormalizedVertices()
	if len(vs) == 0 {
		return nil
	}
	minX, minY := float64(vs[0].GetX()), float64(vs[0].GetY())
	maxX, maxY := minX, minY
	for _, v := range vs[1:] {
		x, y := float64(v.GetX()), float64(v.GetY())
		minX = min(minX, x)
		minY = min(minY, y)
		maxX = max(maxX, x)
		maxY = max(maxY, y)
	}
	return &entity.NormalizedBox{
		Left:   minX,
		Top:    minY,
		Width:  maxX - minX,
		Height: maxY - minY,
	}
}
