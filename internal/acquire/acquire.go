// Package acquire 把本地路径或远程URL的视频来源统一解析为本地文件。
// 远程来源按URL哈希做内容寻址缓存，同一来源至多下载一次。
package acquire

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"io"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"time"

	"Bpublisher/internal/types"
	"Bpublisher/internal/utils"

	"github.com/imroc/req/v3"
)

const downloadChunkSize = 1024 * 1024

// Resolver 视频来源解析器
type Resolver struct {
	VideoRoot string // 相对路径的根目录
	TempDir   string // 远程视频落地目录
	Client    *req.Client

	// PreviewSeconds >0 时远程视频只截取前N秒（测试/预览用），
	// 通过 ffmpeg 边取边裁，子进程带硬超时
	PreviewSeconds int
	FFmpegTimeout  time.Duration
}

func NewResolver(videoRoot, tempDir string) *Resolver {
	client := req.C().
		SetTimeout(10 * time.Minute).
		DisableAutoReadResponse()
	return &Resolver{
		VideoRoot:     videoRoot,
		TempDir:       tempDir,
		Client:        client,
		FFmpegTimeout: 2 * time.Minute,
	}
}

// Resolve 把视频来源解析为本地文件。
// 本地来源只做存在性检查；远程来源命中缓存直接复用，否则下载。
func (r *Resolver) Resolve(ctx context.Context, source types.VideoSource) (*types.LocalVideoFile, error) {
	if source.IsRemote() {
		return r.resolveRemote(ctx, source)
	}
	return r.resolveLocal(source)
}

func (r *Resolver) resolveLocal(source types.VideoSource) (*types.LocalVideoFile, error) {
	p := source.Path
	if !filepath.IsAbs(p) {
		p = filepath.Join(r.VideoRoot, p)
	}

	if err := utils.EnsureFileExists(p); err != nil {
		return nil, &types.FileNotFoundError{Path: p}
	}

	return &types.LocalVideoFile{
		Path:      p,
		Thumbnail: utils.FindSiblingThumbnail(p),
	}, nil
}

func (r *Resolver) resolveRemote(ctx context.Context, source types.VideoSource) (*types.LocalVideoFile, error) {
	if err := os.MkdirAll(r.TempDir, 0755); err != nil {
		return nil, &types.AcquisitionFailedError{Source: source, Cause: err}
	}

	hash := hashURL(source.URL)
	target := filepath.Join(r.TempDir, r.cacheName(hash, source.URL))

	// 缓存命中：同一URL不重复下载
	if info, err := os.Stat(target); err == nil && !info.IsDir() {
		utils.Info(fmt.Sprintf("[-] 视频已缓存，直接使用: %s", target))
		return &types.LocalVideoFile{Path: target, Hash: hash, Temp: true}, nil
	}

	var err error
	if r.PreviewSeconds > 0 {
		err = r.fetchPreview(ctx, source.URL, target)
	} else {
		err = r.fetchFull(ctx, source.URL, target)
	}
	if err != nil {
		return nil, &types.AcquisitionFailedError{Source: source, Cause: err}
	}

	return &types.LocalVideoFile{Path: target, Hash: hash, Temp: true}, nil
}

// fetchFull 全量流式下载。先写入 .part 暂存名，成功后原子改名，
// 崩溃不会在缓存里留下半成品。
func (r *Resolver) fetchFull(ctx context.Context, rawURL, target string) error {
	utils.Info(fmt.Sprintf("[-] 开始下载远程视频: %s", rawURL))

	resp, err := r.Client.R().SetContext(ctx).Get(rawURL)
	if err != nil {
		return fmt.Errorf("请求失败: %w", err)
	}
	defer resp.Body.Close()

	if !resp.IsSuccessState() {
		return fmt.Errorf("响应状态异常: %s", resp.Status)
	}

	staging := target + ".part"
	f, err := os.Create(staging)
	if err != nil {
		return fmt.Errorf("创建暂存文件失败: %w", err)
	}

	buf := make([]byte, downloadChunkSize)
	if _, err := io.CopyBuffer(f, resp.Body, buf); err != nil {
		f.Close()
		os.Remove(staging)
		return fmt.Errorf("写入失败: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(staging)
		return err
	}

	if err := os.Rename(staging, target); err != nil {
		os.Remove(staging)
		return fmt.Errorf("落地失败: %w", err)
	}

	utils.Success(fmt.Sprintf("[+] 下载完成: %s", target))
	return nil
}

func (r *Resolver) cacheName(hash, rawURL string) string {
	if r.PreviewSeconds > 0 {
		return fmt.Sprintf("%s_preview_%ds.mp4", hash, r.PreviewSeconds)
	}
	suffix := ".mp4"
	if u, err := url.Parse(rawURL); err == nil {
		if ext := path.Ext(u.Path); ext != "" {
			suffix = ext
		}
	}
	return hash + suffix
}

func hashURL(rawURL string) string {
	sum := md5.Sum([]byte(rawURL))
	return hex.EncodeToString(sum[:])
}
