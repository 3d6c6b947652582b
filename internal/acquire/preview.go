package acquire

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strconv"

	"Bpublisher/internal/utils"
)

// fetchPreview 只截取远程视频前 N 秒，交给 ffmpeg 边取边裁。
// -nostdin 防止子进程等待交互输入卡死；context 超时保证有硬上限。
func (r *Resolver) fetchPreview(ctx context.Context, rawURL, target string) error {
	if !utils.CheckFFmpeg() {
		return fmt.Errorf("系统未安装 ffmpeg，无法截取预览")
	}

	utils.Info(fmt.Sprintf("[-] 下载远程视频前 %d 秒: %s", r.PreviewSeconds, rawURL))

	ctx, cancel := context.WithTimeout(ctx, r.FFmpegTimeout)
	defer cancel()

	staging := target + ".part"
	cmd := exec.CommandContext(ctx, "ffmpeg",
		"-y",
		"-nostdin",
		"-loglevel", "error",
		"-i", rawURL,
		"-t", strconv.Itoa(r.PreviewSeconds),
		"-c", "copy",
		"-f", "mp4",
		staging,
	)

	output, err := cmd.CombinedOutput()
	if err != nil {
		os.Remove(staging)
		if ctx.Err() == context.DeadlineExceeded {
			return fmt.Errorf("ffmpeg 超时: %w", ctx.Err())
		}
		return fmt.Errorf("ffmpeg 执行失败: %v, 输出: %s", err, string(output))
	}

	if err := os.Rename(staging, target); err != nil {
		os.Remove(staging)
		return fmt.Errorf("落地失败: %w", err)
	}

	utils.Success(fmt.Sprintf("[+] 预览片段已生成: %s", target))
	return nil
}
