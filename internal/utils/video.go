package utils

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"time"
)

// CheckFFmpeg 检查系统是否安装了 ffmpeg
func CheckFFmpeg() bool {
	_, err := exec.LookPath("ffmpeg")
	return err == nil
}

// ExtractFirstFrame 从视频抽取第一帧作为封面。
// 使用系统 ffmpeg 命令，子进程带硬超时，返回生成的封面路径。
func ExtractFirstFrame(ctx context.Context, videoPath string, timeout time.Duration) (string, error) {
	if _, err := os.Stat(videoPath); os.IsNotExist(err) {
		return "", fmt.Errorf("视频文件不存在: %s", videoPath)
	}

	if !CheckFFmpeg() {
		return "", fmt.Errorf("系统未安装 ffmpeg，无法抽取封面")
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	tempDir := os.TempDir()
	coverFileName := fmt.Sprintf("video_cover_%d_%d.jpg", time.Now().Unix(), time.Now().Nanosecond())
	coverPath := filepath.Join(tempDir, coverFileName)

	// -ss 00:00:01 从第1秒开始（避免黑帧）
	// -vframes 1 只抽取一帧
	// -q:v 2 高质量
	// 注意：-ss 放在 -i 之前是快速定位
	cmd := exec.CommandContext(ctx, "ffmpeg",
		"-nostdin",
		"-ss", "00:00:01",
		"-i", videoPath,
		"-vframes", "1",
		"-q:v", "2",
		"-y", coverPath,
	)
	output, err := cmd.CombinedOutput()
	if err != nil {
		os.Remove(coverPath)
		if ctx.Err() == context.DeadlineExceeded {
			return "", fmt.Errorf("ffmpeg 超时: %w", ctx.Err())
		}
		return "", fmt.Errorf("ffmpeg 执行失败: %v, 输出: %s", err, string(output))
	}

	fileInfo, err := os.Stat(coverPath)
	if err != nil || fileInfo.Size() == 0 {
		return "", fmt.Errorf("封面文件生成失败或为空")
	}

	return coverPath, nil
}
