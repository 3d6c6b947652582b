package store

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"Bpublisher/internal/types"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("打开测试库失败: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestRecordAndRecent(t *testing.T) {
	s := openTestStore(t)

	base := time.Date(2026, 3, 10, 9, 0, 0, 0, time.Local)
	outcomes := []types.Outcome{
		{
			ID:         "id-1",
			Platform:   "tiktok",
			VideoPath:  "/videos/a.mp4",
			Account:    "acc1.json",
			Status:     types.AttemptPublished,
			ScheduleAt: base,
			FinishedAt: base.Add(1 * time.Minute),
		},
		{
			ID:         "id-2",
			Platform:   "tiktok",
			VideoPath:  "/videos/b.mp4",
			Account:    "acc1.json",
			Status:     types.AttemptFailed,
			Step:       "published",
			Err:        errors.New("元素等待超时"),
			FinishedAt: base.Add(2 * time.Minute),
		},
		{
			ID:         "id-3",
			Platform:   "youtube",
			VideoPath:  "/videos/c.mp4",
			Account:    "acc2.json",
			Status:     types.AttemptPublished,
			FinishedAt: base.Add(3 * time.Minute),
		},
	}
	for _, outcome := range outcomes {
		if err := s.Record(outcome); err != nil {
			t.Fatalf("落库失败: %v", err)
		}
	}

	t.Run("按完成时间倒序", func(t *testing.T) {
		records, err := s.Recent("", 10)
		if err != nil {
			t.Fatal(err)
		}
		if len(records) != 3 {
			t.Fatalf("期望3条，实际%d条", len(records))
		}
		if records[0].ID != "id-3" || records[2].ID != "id-1" {
			t.Errorf("排序不符: %s, %s, %s", records[0].ID, records[1].ID, records[2].ID)
		}
	})

	t.Run("按平台过滤", func(t *testing.T) {
		records, err := s.Recent("youtube", 10)
		if err != nil {
			t.Fatal(err)
		}
		if len(records) != 1 || records[0].Platform != "youtube" {
			t.Fatalf("平台过滤不符: %v", records)
		}
	})

	t.Run("失败记录保留步骤和错误", func(t *testing.T) {
		records, err := s.Recent("tiktok", 10)
		if err != nil {
			t.Fatal(err)
		}
		var failed *UploadRecord
		for i := range records {
			if records[i].ID == "id-2" {
				failed = &records[i]
			}
		}
		if failed == nil {
			t.Fatal("未找到失败记录")
		}
		if failed.Status != string(types.AttemptFailed) {
			t.Errorf("状态不符: %s", failed.Status)
		}
		if failed.Step != "published" {
			t.Errorf("步骤不符: %s", failed.Step)
		}
		if failed.Error != "元素等待超时" {
			t.Errorf("错误信息不符: %s", failed.Error)
		}
	})

	t.Run("限制条数", func(t *testing.T) {
		records, err := s.Recent("", 2)
		if err != nil {
			t.Fatal(err)
		}
		if len(records) != 2 {
			t.Fatalf("期望2条，实际%d条", len(records))
		}
	})
}
