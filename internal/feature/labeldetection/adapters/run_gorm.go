// Package adapters はlabeldetectionフィーチャーの実行履歴リポジトリ実装を提供します。
package adapters

import (
	"context"
	"time"

	"label_detection/internal/feature/labeldetection/domain/entity"
	"label_detection/internal/feature/labeldetection/usecase"

	"gorm.io/gorm"
)

// runGorm はRunRepositoryインターフェースのGORM実装です。
type runGorm struct {
	db *gorm.DB
}

var _ usecase.RunRepository = (*runGorm)(nil)

// NewRunRepository は指定されたDB接続でrunGormリポジトリの新しいインスタンスを生成します。
func NewRunRepository(db *gorm.DB) *runGorm {
	return &runGorm{db: db}
}

// RunModel is the GORM model for the detection_runs table.
type RunModel struct {
	ID         uint      `gorm:"primaryKey"`
	ImageKey   string    `gorm:"size:1024;not null"`
	BucketName string    `gorm:"size:222;not null;index"`
	RegionID   string    `gorm:"size:32"`
	LabelCount int       `gorm:"not null;default:0"`
	ErrorKind  string    `gorm:"size:64"`
	ErrorCode  string    `gorm:"size:64"`
	StartedAt  time.Time `gorm:"not null;index"`
	FinishedAt time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM.
func (RunModel) TableName() string {
	return "detection_runs"
}

func toRunModel(e *entity.DetectionRun) RunModel {
	return RunModel{
		ID:         e.ID,
		ImageKey:   e.ImageKey,
		BucketName: e.BucketName,
		RegionID:   e.RegionID,
		LabelCount: e.LabelCount,
		ErrorKind:  e.ErrorKind,
		ErrorCode:  e.ErrorCode,
		StartedAt:  e.StartedAt,
		FinishedAt: e.FinishedAt,
	}
}

func (m RunModel) toEntity() entity.DetectionRun {
	return entity.DetectionRun{
		ID:         m.ID,
		ImageKey:   m.ImageKey,
		BucketName: m.BucketName,
		RegionID:   m.RegionID,
		LabelCount: m.LabelCount,
		ErrorKind:  m.ErrorKind,
		ErrorCode:  m.ErrorCode,
		StartedAt:  m.StartedAt,
		FinishedAt: m.FinishedAt,
	}
}

// Create は実行記録を保存し、採番されたIDをrunに書き戻します。
func (r *runGorm) Create(ctx context.Context, run *entity.DetectionRun) error {
	m := toRunModel(run)
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return err
	}
	run.ID = m.ID
	return nil
}

// ListRecent は開始時刻の新しい順に最大limit件の実行記録を返します。
func (r *runGorm) ListRecent(ctx context.Context, limit int) ([]entity.DetectionRun, error) {
	var rows []RunModel
	q := r.db.WithContext(ctx).Order("started_at DESC").Order("id DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]entity.DetectionRun, 0, len(rows))
	for _, m := range rows {
		out = append(out, m.toEntity())
	}
	return out, nil
}
