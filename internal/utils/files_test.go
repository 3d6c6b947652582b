package utils

import (
	"os"
	"path/filepath"
	"testing"
)

func TestGetTitleAndHashtags(t *testing.T) {
	dir := t.TempDir()
	videoPath := filepath.Join(dir, "demo.mp4")
	if err := os.WriteFile(videoPath, []byte("video"), 0644); err != nil {
		t.Fatal(err)
	}

	t.Run("无同名文件回退到文件名", func(t *testing.T) {
		title, tags := GetTitleAndHashtags(videoPath)
		if title != "demo" {
			t.Errorf("标题不符: %q", title)
		}
		if len(tags) != 0 {
			t.Errorf("标签应为空: %v", tags)
		}
	})

	t.Run("从同名txt派生", func(t *testing.T) {
		sidecar := "风景混剪\n#旅行 #风景 #vlog\n"
		if err := os.WriteFile(filepath.Join(dir, "demo.txt"), []byte(sidecar), 0644); err != nil {
			t.Fatal(err)
		}
		title, tags := GetTitleAndHashtags(videoPath)
		if title != "风景混剪" {
			t.Errorf("标题不符: %q", title)
		}
		want := []string{"旅行", "风景", "vlog"}
		if len(tags) != len(want) {
			t.Fatalf("标签数不符: %v", tags)
		}
		for i := range want {
			if tags[i] != want[i] {
				t.Errorf("标签顺序不符: %v", tags)
			}
		}
	})

	t.Run("标题为空行时回退到文件名", func(t *testing.T) {
		if err := os.WriteFile(filepath.Join(dir, "demo.txt"), []byte("\n#tag\n"), 0644); err != nil {
			t.Fatal(err)
		}
		title, _ := GetTitleAndHashtags(videoPath)
		if title != "demo" {
			t.Errorf("标题不符: %q", title)
		}
	})

	t.Run("Windows换行", func(t *testing.T) {
		if err := os.WriteFile(filepath.Join(dir, "demo.txt"), []byte("标题\r\n#一个\r\n"), 0644); err != nil {
			t.Fatal(err)
		}
		title, tags := GetTitleAndHashtags(videoPath)
		if title != "标题" || len(tags) != 1 || tags[0] != "一个" {
			t.Errorf("解析不符: %q %v", title, tags)
		}
	})
}

func TestFindSiblingThumbnail(t *testing.T) {
	dir := t.TempDir()
	videoPath := filepath.Join(dir, "clip.mp4")

	if got := FindSiblingThumbnail(videoPath); got != "" {
		t.Errorf("无封面时应返回空串，实际 %q", got)
	}

	jpgPath := filepath.Join(dir, "clip.jpg")
	if err := os.WriteFile(jpgPath, []byte("img"), 0644); err != nil {
		t.Fatal(err)
	}
	if got := FindSiblingThumbnail(videoPath); got != jpgPath {
		t.Errorf("期望 %q 实际 %q", jpgPath, got)
	}

	// png 优先于 jpg
	pngPath := filepath.Join(dir, "clip.png")
	if err := os.WriteFile(pngPath, []byte("img"), 0644); err != nil {
		t.Fatal(err)
	}
	if got := FindSiblingThumbnail(videoPath); got != pngPath {
		t.Errorf("期望 %q 实际 %q", pngPath, got)
	}
}
