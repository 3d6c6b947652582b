// Package store 用 sqlite 持久化每次上传尝试的结果，供 history 命令回查。
package store

import (
	"fmt"
	"time"

	"Bpublisher/internal/types"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// UploadRecord 一条上传尝试的落库记录
type UploadRecord struct {
	ID         string `gorm:"primaryKey"`
	Platform   string `gorm:"index"`
	VideoPath  string
	Account    string
	Status     string `gorm:"index"`
	Step       string // 失败时所在的状态机步骤，成功为空
	Error      string
	ScheduleAt time.Time
	FinishedAt time.Time
	CreatedAt  time.Time
}

type Store struct {
	db *gorm.DB
}

// Open 打开（必要时创建）sqlite 库并迁移表结构
func Open(path string) (*Store, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("打开数据库失败: %w", err)
	}
	if err := db.AutoMigrate(&UploadRecord{}); err != nil {
		return nil, fmt.Errorf("迁移表结构失败: %w", err)
	}
	return &Store{db: db}, nil
}

// Record 落库一条尝试结果，实现批次编排器的 Recorder 接口
func (s *Store) Record(outcome types.Outcome) error {
	record := UploadRecord{
		ID:         outcome.ID,
		Platform:   outcome.Platform,
		VideoPath:  outcome.VideoPath,
		Account:    outcome.Account,
		Status:     string(outcome.Status),
		Step:       outcome.Step,
		ScheduleAt: outcome.ScheduleAt,
		FinishedAt: outcome.FinishedAt,
	}
	if outcome.Err != nil {
		record.Error = outcome.Err.Error()
	}
	if err := s.db.Create(&record).Error; err != nil {
		return fmt.Errorf("保存上传记录失败: %w", err)
	}
	return nil
}

// Recent 按完成时间倒序返回最近的记录，platform 为空时不过滤
func (s *Store) Recent(platform string, limit int) ([]UploadRecord, error) {
	if limit <= 0 {
		limit = 50
	}
	query := s.db.Order("finished_at DESC").Limit(limit)
	if platform != "" {
		query = query.Where("platform = ?", platform)
	}
	var records []UploadRecord
	if err := query.Find(&records).Error; err != nil {
		return nil, fmt.Errorf("查询上传记录失败: %w", err)
	}
	return records, nil
}

func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
