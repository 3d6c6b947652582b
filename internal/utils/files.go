package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// GetTitleAndHashtags 从视频同名 .txt 文件读取标题和标签。
// 第一行为标题，第二行为空格分隔的 #话题 列表。
// 没有同名文件时以文件名（去扩展名）作为标题，标签为空。
func GetTitleAndHashtags(videoPath string) (string, []string) {
	stem := strings.TrimSuffix(videoPath, filepath.Ext(videoPath))
	txtPath := stem + ".txt"

	data, err := os.ReadFile(txtPath)
	if err != nil {
		return filepath.Base(stem), nil
	}

	lines := strings.Split(strings.ReplaceAll(string(data), "\r\n", "\n"), "\n")
	title := strings.TrimSpace(lines[0])
	if title == "" {
		title = filepath.Base(stem)
	}

	var tags []string
	if len(lines) > 1 {
		for _, field := range strings.Fields(lines[1]) {
			tag := strings.TrimPrefix(field, "#")
			if tag != "" {
				tags = append(tags, tag)
			}
		}
	}
	return title, tags
}

// FindSiblingThumbnail 查找视频同名封面图（.png/.jpg/.jpeg），没有返回空串
func FindSiblingThumbnail(videoPath string) string {
	stem := strings.TrimSuffix(videoPath, filepath.Ext(videoPath))
	for _, ext := range []string{".png", ".jpg", ".jpeg"} {
		candidate := stem + ext
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate
		}
	}
	return ""
}

// CleanupTempFile 清理临时文件
func CleanupTempFile(filePath string) {
	if filePath != "" {
		os.Remove(filePath)
	}
}

// EnsureFileExists 确认文件存在且不是目录
func EnsureFileExists(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if info.IsDir() {
		return fmt.Errorf("期望文件但实际是目录: %s", path)
	}
	return nil
}
