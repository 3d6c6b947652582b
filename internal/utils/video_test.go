package utils

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

// stubFFmpeg 在临时目录放一个假 ffmpeg 并将其置于 PATH 首位
func stubFFmpeg(t *testing.T, script string) {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "ffmpeg")
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+script), 0755); err != nil {
		t.Fatal(err)
	}
	t.Setenv("PATH", dir+string(os.PathListSeparator)+os.Getenv("PATH"))
}

func writeTestVideo(t *testing.T) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "demo.mp4")
	if err := os.WriteFile(p, []byte("video"), 0644); err != nil {
		t.Fatal(err)
	}
	return p
}

func TestExtractFirstFrame(t *testing.T) {
	t.Run("生成封面", func(t *testing.T) {
		// 假 ffmpeg 往最后一个参数（封面路径）写入内容
		stubFFmpeg(t, `for last; do :; done`+"\n"+`printf img > "$last"`+"\n")

		cover, err := ExtractFirstFrame(context.Background(), writeTestVideo(t), 5*time.Second)
		if err != nil {
			t.Fatalf("抽取封面失败: %v", err)
		}
		defer os.Remove(cover)
		data, err := os.ReadFile(cover)
		if err != nil || len(data) == 0 {
			t.Errorf("封面文件应非空: %v", err)
		}
	})

	t.Run("子进程卡死受硬超时约束", func(t *testing.T) {
		stubFFmpeg(t, "exec sleep 10\n")

		start := time.Now()
		_, err := ExtractFirstFrame(context.Background(), writeTestVideo(t), 100*time.Millisecond)
		elapsed := time.Since(start)

		if err == nil {
			t.Fatal("卡死的子进程应返回错误")
		}
		if !errors.Is(err, context.DeadlineExceeded) {
			t.Errorf("期望超时错误，实际: %v", err)
		}
		if elapsed > 2*time.Second {
			t.Errorf("应在超时附近返回而非等待子进程结束，实际耗时 %v", elapsed)
		}
	})

	t.Run("视频不存在", func(t *testing.T) {
		if _, err := ExtractFirstFrame(context.Background(), "/no/such/video.mp4", time.Second); err == nil {
			t.Error("视频文件不存在应返回错误")
		}
	})
}
