package entity

import "time"

// DetectionRun はワークフロー1回分の監査記録です。ラベルそのものは保持しません。
type DetectionRun struct {
	ID         uint
	ImageKey   string
	BucketName string
	RegionID   string
	LabelCount int
	ErrorKind  string // 成功時は空
	ErrorCode  string
	StartedAt  time.Time
	FinishedAt time.Time
}

// Succeeded は実行が成功したかどうかを返します。
func (r DetectionRun) Succeeded() bool {
	return r.ErrorKind == ""
}
