// Package dto defines data transfer objects for the labeldetection HTTP API.
package dto

import (
	"time"

	"label_detection/internal/feature/labeldetection/domain/entity"
)

// DetectRequest is the body of POST /v1/labels/detect and /v1/labels/annotate.
type DetectRequest struct {
	Bucket string `json:"bucket" binding:"required"`
	Key    string `json:"key" binding:"required"`
	Region string `json:"region"`
}

// ToEntity converts the request body to a domain request.
func (r DetectRequest) ToEntity() entity.DetectionRequest {
	return entity.DetectionRequest{
		ImageKey:   r.Key,
		BucketName: r.Bucket,
		RegionID:   r.Region,
	}
}

// InstanceItem is one located occurrence of a label.
type InstanceItem struct {
	BoundingBox entity.NormalizedBox `json:"bounding_box"`
	PixelBox    entity.PixelBox      `json:"pixel_box"`
}

// LabelItem is a detected label. Confidence is null when the service reported none.
type LabelItem struct {
	Name       string         `json:"name"`
	Confidence *float64       `json:"confidence"`
	Instances  []InstanceItem `json:"instances"`
}

// DetectResponse is the body returned by POST /v1/labels/detect.
type DetectResponse struct {
	ImageKey   string      `json:"image_key"`
	Bucket     string      `json:"bucket"`
	Region     string      `json:"region"`
	LabelCount int         `json:"label_count"`
	Width      int         `json:"width"`
	Height     int         `json:"height"`
	Labels     []LabelItem `json:"labels"`
}

// NewDetectResponse builds the response body from an analysis.
func NewDetectResponse(a *entity.Analysis) DetectResponse {
	w, h := a.Image.Width(), a.Image.Height()
	labels := make([]LabelItem, 0, len(a.Labels))
	for _, l := range a.Labels {
		item := LabelItem{Name: l.Name, Instances: make([]InstanceItem, 0, len(l.Instances))}
		if l.Confidence != nil {
			c := entity.RoundConfidence(*l.Confidence)
			item.Confidence = &c
		}
		for _, inst := range l.Instances {
			box := inst.Box()
			item.Instances = append(item.Instances, InstanceItem{
				BoundingBox: box,
				PixelBox:    box.ToPixels(w, h),
			})
		}
		labels = append(labels, item)
	}
	return DetectResponse{
		ImageKey:   a.Request.ImageKey,
		Bucket:     a.Request.BucketName,
		Region:     a.Request.RegionID,
		LabelCount: len(a.Labels),
		Width:      w,
		Height:     h,
		Labels:     labels,
	}
}

// RunItem is one entry of GET /v1/labels/runs.
type RunItem struct {
	ID         uint      `json:"id"`
	ImageKey   string    `json:"image_key"`
	Bucket     string    `json:"bucket"`
	Region     string    `json:"region"`
	LabelCount int       `json:"label_count"`
	Succeeded  bool      `json:"succeeded"`
	ErrorKind  string    `json:"error_kind,omitempty"`
	ErrorCode  string    `json:"error_code,omitempty"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
}

// NewRunItems converts history records to response items.
func NewRunItems(runs []entity.DetectionRun) []RunItem {
	out := make([]RunItem, 0, len(runs))
	for _, r := range runs {
		out = append(out, RunItem{
			ID:         r.ID,
			ImageKey:   r.ImageKey,
			Bucket:     r.BucketName,
			Region:     r.RegionID,
			LabelCount: r.LabelCount,
			Succeeded:  r.Succeeded(),
			ErrorKind:  r.ErrorKind,
			ErrorCode:  r.ErrorCode,
			StartedAt:  r.StartedAt,
			FinishedAt: r.FinishedAt,
		})
	}
	return out
}

// ErrorResponse is the body of every error response.
type ErrorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind,omitempty"`
	Code  string `json:"code,omitempty"`
	Hint  string `json:"hint,omitempty"`
}
