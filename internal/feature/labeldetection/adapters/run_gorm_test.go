package adapters

import (
	"context"
	"testing"
	"time"

	"label_detection/internal/feature/labeldetection/domain/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// setupTestDB はテスト用のインメモリSQLiteデータベースを準備します。
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err, "failed to initialize test database")

	err = db.AutoMigrate(&RunModel{})
	require.NoError(t, err, "failed to migrate table")

	return db
}

func newRun(key string, started time.Time, count int, kind string) *entity.DetectionRun {
	return &entity.DetectionRun{
		ImageKey:   key,
		BucketName: "photos",
		RegionID:   "us",
		LabelCount: count,
		ErrorKind:  kind,
		StartedAt:  started,
		FinishedAt: started.Add(time.Second),
	}
}

// TestNewRunRepository はNewRunRepositoryコンストラクタが正しくインスタンスを生成することを検証します。
func TestNewRunRepository(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	repo := NewRunRepository(db)

	assert.NotNil(t, repo, "repository should not be nil")
	assert.NotNil(t, repo.db, "database connection should not be nil")
}

// TestRunGorm_Create は保存時にIDが採番されることを検証します。
func TestRunGorm_Create(t *testing.T) {
	t.Parallel()

	repo := NewRunRepository(setupTestDB(t))
	run := newRun("cat.jpg", time.Now().UTC(), 3, "")

	err := repo.Create(context.Background(), run)

	require.NoError(t, err)
	assert.NotZero(t, run.ID)

	runs, err := repo.ListRecent(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, "cat.jpg", runs[0].ImageKey)
	assert.Equal(t, 3, runs[0].LabelCount)
	assert.True(t, runs[0].Succeeded())
}

// TestRunGorm_ListRecent は新しい順の並びとlimitの適用を検証します。
func TestRunGorm_ListRecent(t *testing.T) {
	t.Parallel()

	base := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	tests := []struct {
		name     string
		seed     []*entity.DetectionRun
		limit    int
		wantKeys []string
	}{
		{
			name: "success: newest first",
			seed: []*entity.DetectionRun{
				newRun("a.jpg", base, 1, ""),
				newRun("c.jpg", base.Add(2*time.Minute), 0, "ServiceError"),
				newRun("b.jpg", base.Add(time.Minute), 2, ""),
			},
			limit:    10,
			wantKeys: []string{"c.jpg", "b.jpg", "a.jpg"},
		},
		{
			name: "success: limit applied",
			seed: []*entity.DetectionRun{
				newRun("a.jpg", base, 1, ""),
				newRun("b.jpg", base.Add(time.Minute), 1, ""),
				newRun("c.jpg", base.Add(2*time.Minute), 1, ""),
			},
			limit:    2,
			wantKeys: []string{"c.jpg", "b.jpg"},
		},
		{
			name: "success: same start time ordered by id desc",
			seed: []*entity.DetectionRun{
				newRun("first.jpg", base, 1, ""),
				newRun("second.jpg", base, 1, ""),
			},
			limit:    10,
			wantKeys: []string{"second.jpg", "first.jpg"},
		},
		{
			name:     "success: empty table",
			limit:    10,
			wantKeys: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			repo := NewRunRepository(setupTestDB(t))
			for _, r := range tt.seed {
				require.NoError(t, repo.Create(context.Background(), r))
			}

			runs, err := repo.ListRecent(context.Background(), tt.limit)

			require.NoError(t, err)
			keys := make([]string, 0, len(runs))
			for _, r := range runs {
				keys = append(keys, r.ImageKey)
			}
			assert.Equal(t, tt.wantKeys, keys)
		})
	}
}

// TestRunGorm_ListRecent_ClosedDB はDBエラーが呼び出し元に返ることを検証します。
func TestRunGorm_ListRecent_ClosedDB(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())

	_, err = NewRunRepository(db).ListRecent(context.Background(), 5)

	assert.Error(t, err)
}
