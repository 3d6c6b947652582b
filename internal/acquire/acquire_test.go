package acquire

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"Bpublisher/internal/types"
)

func TestResolve_LocalAbsolute(t *testing.T) {
	dir := t.TempDir()
	videoPath := filepath.Join(dir, "demo.mp4")
	if err := os.WriteFile(videoPath, []byte("fake video"), 0644); err != nil {
		t.Fatal(err)
	}

	r := NewResolver(dir, filepath.Join(dir, "tmp"))
	got, err := r.Resolve(context.Background(), types.VideoSource{Path: videoPath})
	if err != nil {
		t.Fatalf("解析本地文件失败: %v", err)
	}
	if got.Path != videoPath {
		t.Errorf("路径不符: 期望 %s 实际 %s", videoPath, got.Path)
	}
	if got.Temp {
		t.Error("持久本地文件不应标记为临时文件")
	}
}

func TestResolve_LocalRelative(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "demo.mp4"), []byte("fake video"), 0644); err != nil {
		t.Fatal(err)
	}

	r := NewResolver(dir, filepath.Join(dir, "tmp"))
	got, err := r.Resolve(context.Background(), types.VideoSource{Path: "demo.mp4"})
	if err != nil {
		t.Fatalf("解析相对路径失败: %v", err)
	}
	if got.Path != filepath.Join(dir, "demo.mp4") {
		t.Errorf("相对路径应解析到视频根目录下: %s", got.Path)
	}
}

func TestResolve_LocalNotFound(t *testing.T) {
	dir := t.TempDir()
	r := NewResolver(dir, filepath.Join(dir, "tmp"))

	_, err := r.Resolve(context.Background(), types.VideoSource{Path: "missing.mp4"})
	if err == nil {
		t.Fatal("期望 FileNotFound 错误，实际为 nil")
	}
	if !types.IsFileNotFound(err) {
		t.Errorf("期望 FileNotFound 错误，实际: %v", err)
	}
}

func TestResolve_SiblingThumbnail(t *testing.T) {
	dir := t.TempDir()
	videoPath := filepath.Join(dir, "demo.mp4")
	thumbPath := filepath.Join(dir, "demo.png")
	for _, p := range []string{videoPath, thumbPath} {
		if err := os.WriteFile(p, []byte("x"), 0644); err != nil {
			t.Fatal(err)
		}
	}

	r := NewResolver(dir, filepath.Join(dir, "tmp"))
	got, err := r.Resolve(context.Background(), types.VideoSource{Path: videoPath})
	if err != nil {
		t.Fatalf("解析失败: %v", err)
	}
	if got.Thumbnail != thumbPath {
		t.Errorf("应找到同名封面图 %s，实际 %q", thumbPath, got.Thumbnail)
	}
}

func TestResolve_RemoteDownloadAndCache(t *testing.T) {
	var fetchCount int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		atomic.AddInt32(&fetchCount, 1)
		w.Write([]byte("remote video bytes"))
	}))
	defer server.Close()

	dir := t.TempDir()
	tempDir := filepath.Join(dir, "tmp")
	r := NewResolver(dir, tempDir)
	source := types.VideoSource{URL: server.URL + "/y.mp4"}

	first, err := r.Resolve(context.Background(), source)
	if err != nil {
		t.Fatalf("首次下载失败: %v", err)
	}
	if !first.Temp {
		t.Error("远程来源应标记为临时文件")
	}
	if first.Hash == "" {
		t.Error("远程来源应带内容寻址哈希")
	}
	data, err := os.ReadFile(first.Path)
	if err != nil {
		t.Fatalf("读取落地文件失败: %v", err)
	}
	if string(data) != "remote video bytes" {
		t.Errorf("落地内容不符: %q", data)
	}

	// 幂等：二次解析复用缓存，不触发第二次下载
	second, err := r.Resolve(context.Background(), source)
	if err != nil {
		t.Fatalf("二次解析失败: %v", err)
	}
	if second.Path != first.Path {
		t.Errorf("二次解析路径应一致: %s != %s", second.Path, first.Path)
	}
	if n := atomic.LoadInt32(&fetchCount); n != 1 {
		t.Errorf("期望仅1次下载，实际%d次", n)
	}

	// 暂存文件不应残留
	matches, _ := filepath.Glob(filepath.Join(tempDir, "*.part"))
	if len(matches) != 0 {
		t.Errorf("暂存文件未清理: %v", matches)
	}
}

func TestResolve_RemoteNon2xx(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer server.Close()

	dir := t.TempDir()
	tempDir := filepath.Join(dir, "tmp")
	r := NewResolver(dir, tempDir)

	_, err := r.Resolve(context.Background(), types.VideoSource{URL: server.URL + "/gone.mp4"})
	if err == nil {
		t.Fatal("期望 AcquisitionFailed 错误，实际为 nil")
	}
	if !types.IsAcquisitionFailed(err) {
		t.Errorf("期望 AcquisitionFailed 错误，实际: %v", err)
	}

	// 失败不能在缓存目录留下任何文件
	entries, _ := os.ReadDir(tempDir)
	if len(entries) != 0 {
		t.Errorf("失败后缓存目录应为空，实际: %v", entries)
	}
}

func TestHashURL_Stable(t *testing.T) {
	a := hashURL("https://x/y.mp4")
	b := hashURL("https://x/y.mp4")
	if a != b {
		t.Errorf("同一URL哈希应稳定: %s != %s", a, b)
	}
	if a == hashURL("https://x/z.mp4") {
		t.Error("不同URL哈希不应相同")
	}
}
