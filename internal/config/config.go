package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

const (
	DefaultCookiePath = "storage/cookies"
	DefaultVideoPath  = "storage/videos"
	DefaultTempPath   = "storage/videos/tmp"
	DefaultLogPath    = "storage/logs"
	DefaultDbPath     = "storage/bpublisher.db"

	// DefaultFFmpegTimeout 子进程硬超时，保证工作协程不会被转码卡死
	DefaultFFmpegTimeout = 2 * time.Minute
)

type AppConfig struct {
	DbPath        string
	CookiePath    string
	VideoPath     string // 相对路径视频的根目录
	TempPath      string // 远程视频落地目录，批次结束后清理
	LogPath       string
	FFmpegTimeout time.Duration
	DebugMode     bool // 调试模式开关
	Headless      bool // 浏览器无头模式开关（true=隐藏浏览器窗口）
}

var Config *AppConfig

func Init() error {
	exePath, err := os.Executable()
	if err != nil {
		return err
	}
	baseDir := filepath.Dir(exePath)
	return InitWithBaseDir(baseDir)
}

// InitWithBaseDir 以指定根目录初始化配置，测试用
func InitWithBaseDir(baseDir string) error {
	Config = &AppConfig{
		DbPath:        filepath.Join(baseDir, DefaultDbPath),
		CookiePath:    filepath.Join(baseDir, DefaultCookiePath),
		VideoPath:     filepath.Join(baseDir, DefaultVideoPath),
		TempPath:      filepath.Join(baseDir, DefaultTempPath),
		LogPath:       filepath.Join(baseDir, DefaultLogPath),
		FFmpegTimeout: DefaultFFmpegTimeout,
		DebugMode:     os.Getenv("BPUBLISHER_DEBUG") == "true",
		Headless:      os.Getenv("BPUBLISHER_HEADLESS") == "true",
	}

	dirs := []string{
		Config.CookiePath,
		Config.VideoPath,
		Config.TempPath,
		Config.LogPath,
	}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create directory %s failed: %w", dir, err)
		}
	}

	return nil
}

// GetCookiePath 账号会话文件路径：<cookies>/<platform>_<name>.json
func GetCookiePath(platform, name string) string {
	return filepath.Join(Config.CookiePath, fmt.Sprintf("%s_%s.json", platform, name))
}
