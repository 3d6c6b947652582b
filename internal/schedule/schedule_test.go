package schedule

import (
	"testing"
	"time"

	"Bpublisher/internal/types"
)

var frozenNow = time.Date(2026, 3, 10, 13, 45, 30, 0, time.Local)

func TestGenerate_Disabled(t *testing.T) {
	got, err := Generate(frozenNow, 4, Config{Enabled: false})
	if err != nil {
		t.Fatalf("未启用定时发布不应返回错误: %v", err)
	}
	if len(got) != 4 {
		t.Fatalf("期望4个时间，实际%d个", len(got))
	}
	for i, at := range got {
		if !at.IsZero() {
			t.Errorf("第%d个时间应为零值（立即发布），实际 %v", i, at)
		}
	}
}

func TestGenerate_Scenario(t *testing.T) {
	// 5条视频、次日开始、每天2条、时间点 09:00/16:00 → 跨3天
	cfg := Config{
		Enabled:      true,
		StartDays:    1,
		VideosPerDay: 2,
		DailyTimes:   []string{"09:00", "16:00"},
	}
	got, err := Generate(frozenNow, 5, cfg)
	if err != nil {
		t.Fatalf("生成失败: %v", err)
	}

	want := []time.Time{
		time.Date(2026, 3, 11, 9, 0, 0, 0, time.Local),
		time.Date(2026, 3, 11, 16, 0, 0, 0, time.Local),
		time.Date(2026, 3, 12, 9, 0, 0, 0, time.Local),
		time.Date(2026, 3, 12, 16, 0, 0, 0, time.Local),
		time.Date(2026, 3, 13, 9, 0, 0, 0, time.Local),
	}
	if len(got) != len(want) {
		t.Fatalf("期望%d个时间，实际%d个", len(want), len(got))
	}
	for i := range want {
		if !got[i].Equal(want[i]) {
			t.Errorf("第%d个时间不符: 期望 %v 实际 %v", i, want[i], got[i])
		}
	}
}

func TestGenerate_CountAndOrdering(t *testing.T) {
	cases := []struct {
		name  string
		count int
		cfg   Config
	}{
		{"单时间点", 7, Config{Enabled: true, StartDays: 0, VideosPerDay: 1, DailyTimes: []string{"16:00"}}},
		{"每天多条", 9, Config{Enabled: true, StartDays: 2, VideosPerDay: 3, DailyTimes: []string{"06:00", "11:00", "14:00"}}},
		{"时间点少于每日条数需轮转", 8, Config{Enabled: true, StartDays: 1, VideosPerDay: 4, DailyTimes: []string{"09:00", "16:00"}}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Generate(frozenNow, tc.count, tc.cfg)
			if err != nil {
				t.Fatalf("生成失败: %v", err)
			}
			if len(got) != tc.count {
				t.Fatalf("期望%d个时间，实际%d个", tc.count, len(got))
			}
			for i := 1; i < len(got); i++ {
				if got[i].Before(got[i-1]) {
					t.Errorf("时间序列出现回退: [%d]=%v 在 [%d]=%v 之前", i, got[i], i-1, got[i-1])
				}
			}
		})
	}
}

func TestGenerate_Deterministic(t *testing.T) {
	cfg := Config{Enabled: true, StartDays: 1, VideosPerDay: 2, DailyTimes: []string{"09:00", "16:00"}}
	a, err := Generate(frozenNow, 6, cfg)
	if err != nil {
		t.Fatalf("生成失败: %v", err)
	}
	b, err := Generate(frozenNow, 6, cfg)
	if err != nil {
		t.Fatalf("生成失败: %v", err)
	}
	for i := range a {
		if !a[i].Equal(b[i]) {
			t.Errorf("相同输入结果不一致: [%d] %v != %v", i, a[i], b[i])
		}
	}
}

func TestGenerate_InvalidConfig(t *testing.T) {
	cases := []struct {
		name string
		cfg  Config
	}{
		{"时间点为空", Config{Enabled: true, StartDays: 1, VideosPerDay: 1}},
		{"每天0条", Config{Enabled: true, StartDays: 1, VideosPerDay: 0, DailyTimes: []string{"09:00"}}},
		{"时间点格式非法", Config{Enabled: true, StartDays: 1, VideosPerDay: 1, DailyTimes: []string{"九点"}}},
		{"时间点未递增", Config{Enabled: true, StartDays: 1, VideosPerDay: 2, DailyTimes: []string{"16:00", "09:00"}}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Generate(frozenNow, 3, tc.cfg)
			if err == nil {
				t.Fatal("期望返回 InvalidSchedule 错误，实际为 nil")
			}
			if !types.IsInvalidSchedule(err) {
				t.Errorf("期望 InvalidSchedule 错误，实际: %v", err)
			}
		})
	}
}
