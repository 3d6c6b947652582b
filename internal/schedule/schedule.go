// Package schedule 计算批量发布的定时时间表。
// 纯函数：相同参数和相同“当前时间”产生相同结果。
package schedule

import (
	"fmt"
	"time"

	"Bpublisher/internal/types"
)

// Config 定时发布配置
type Config struct {
	Enabled      bool
	StartDays    int      // 从今天起第几天开始发布
	VideosPerDay int      // 每天发布条数
	DailyTimes   []string // 每日时间点列表，"HH:MM"，须严格递增
}

// Generate 为 count 个视频生成发布时间序列。
// 未启用定时发布时返回 count 个零值时间（表示立即发布）。
// 返回序列长度恒等于 count 且非递减。
func Generate(now time.Time, count int, cfg Config) ([]time.Time, error) {
	if !cfg.Enabled {
		return make([]time.Time, count), nil
	}

	if cfg.VideosPerDay <= 0 {
		return nil, &types.InvalidScheduleError{Reason: fmt.Sprintf("videos_per_day 必须为正数: %d", cfg.VideosPerDay)}
	}
	if len(cfg.DailyTimes) == 0 {
		return nil, &types.InvalidScheduleError{Reason: "daily_times 不能为空"}
	}

	slots, err := parseDailyTimes(cfg.DailyTimes)
	if err != nil {
		return nil, err
	}

	// 每天条数超过时间点数量时，一轮时间点用完就推进到下一天，
	// 保证输出时间非递减。
	stride := (cfg.VideosPerDay + len(slots) - 1) / len(slots)

	result := make([]time.Time, 0, count)
	year, month, day := now.Date()
	base := time.Date(year, month, day, 0, 0, 0, 0, now.Location())

	for i := 0; i < count; i++ {
		posInDay := i % cfg.VideosPerDay
		dayOffset := cfg.StartDays + (i/cfg.VideosPerDay)*stride + posInDay/len(slots)
		slot := slots[posInDay%len(slots)]

		at := base.AddDate(0, 0, dayOffset).Add(slot)
		result = append(result, at)
	}

	return result, nil
}

// parseDailyTimes 解析并校验每日时间点，要求格式 HH:MM 且严格递增
func parseDailyTimes(dailyTimes []string) ([]time.Duration, error) {
	slots := make([]time.Duration, 0, len(dailyTimes))
	for _, s := range dailyTimes {
		t, err := time.Parse("15:04", s)
		if err != nil {
			return nil, &types.InvalidScheduleError{Reason: fmt.Sprintf("时间点格式非法（应为 HH:MM）: %q", s)}
		}
		d := time.Duration(t.Hour())*time.Hour + time.Duration(t.Minute())*time.Minute
		if len(slots) > 0 && d <= slots[len(slots)-1] {
			return nil, &types.InvalidScheduleError{Reason: fmt.Sprintf("时间点必须严格递增: %q", s)}
		}
		slots = append(slots, d)
	}
	return slots, nil
}
