// Package entity はlabeldetectionフィーチャーのドメインモデルを定義します。
package entity

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// DetectionRequest は1回のラベル検出ワークフローの入力です。生成後は変更しません。
type DetectionRequest struct {
	ImageKey   string // ストレージ上のオブジェクトキー
	BucketName string // バケット名
	RegionID   string // 認識サービスのリージョン
}

// ObjectURI はリクエストが指すオブジェクトの gs:// URI を返します。
func (r DetectionRequest) ObjectURI() string {
	return fmt.Sprintf("gs://%s/%s", r.BucketName, r.ImageKey)
}

// Label は認識サービスが返す検出ラベルです。
type Label struct {
	Name       string
	Confidence *float64 // 信頼度（0 ~ 100）。欠落時は nil
	Instances  []Instance
}

// ConfidenceOrZero は信頼度を返します。欠落している場合は 0 を返します。
func (l Label) ConfidenceOrZero() float64 {
	if l.Confidence == nil {
		return 0
	}
	return *l.Confidence
}

// RoundedConfidence は小数点以下2桁に丸めた信頼度です。
func (l Label) RoundedConfidence() float64 {
	return RoundConfidence(l.ConfidenceOrZero())
}

// DisplayName はラベル名を返します。空の場合は "?" です。
func (l Label) DisplayName() string {
	if l.Name == "" {
		return "?"
	}
	return l.Name
}

// Caption は描画用のテキスト "{name} ({confidence}%)" を返します。
func (l Label) Caption() string {
	return fmt.Sprintf("%s (%s%%)", l.DisplayName(), FormatConfidence(l.ConfidenceOrZero()))
}

// Instance はラベルの1つの出現位置です。
type Instance struct {
	BoundingBox *NormalizedBox // 欠落時は nil（全成分 0 として扱う）
}

// Box はバウンディングボックスを返します。欠落している場合はゼロ値です。
func (i Instance) Box() NormalizedBox {
	if i.BoundingBox == nil {
		return NormalizedBox{}
	}
	return *i.BoundingBox
}

// NormalizedBox は画像サイズに対する比率（0 ~ 1）で表した矩形です。
// 範囲外の値もそのまま保持します。
type NormalizedBox struct {
	Left   float64 `json:"left"`
	Top    float64 `json:"top"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// ToPixels は画像の幅・高さを掛けてピクセル座標に変換します。クランプも丸めも行いません。
func (b NormalizedBox) ToPixels(imageWidth, imageHeight int) PixelBox {
	w := float64(imageWidth)
	h := float64(imageHeight)
	return PixelBox{
		Left:   b.Left * w,
		Top:    b.Top * h,
		Width:  b.Width * w,
		Height: b.Height * h,
	}
}

// PixelBox はピクセル単位の矩形です。永続化されません。
type PixelBox struct {
	Left   float64 `json:"left"`
	Top    float64 `json:"top"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Right は右端の座標です。
func (p PixelBox) Right() float64 { return p.Left + p.Width }

// Bottom は下端の座標です。
func (p PixelBox) Bottom() float64 { return p.Top + p.Height }

// CaptionOrigin はキャプションの描画位置 (left, max(0, top-2)) を返します。
func (p PixelBox) CaptionOrigin() (x, y float64) {
	return p.Left, math.Max(0, p.Top-2)
}

// RoundConfidence は信頼度を小数点以下2桁に丸めます。
// FormatConfidence と同じ値になるよう文字列から読み戻します。
func RoundConfidence(c float64) float64 {
	v, err := strconv.ParseFloat(FormatConfidence(c), 64)
	if err != nil {
		return c
	}
	return v
}

// FormatConfidence は信頼度を小数点以下2桁に丸めた表示用の文字列にします。
// 丸めは2進数の正確な値に対して行い、ちょうど中間の値は偶数側に寄せます。末尾の0は省きます。
func FormatConfidence(c float64) string {
	s := strconv.FormatFloat(c, 'f', 2, 64)
	s = strings.TrimRight(s, "0")
	s = strings.TrimSuffix(s, ".")
	if s == "-0" {
		return "0"
	}
	return s
}
