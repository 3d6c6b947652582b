package types

import (
	"errors"
	"fmt"
	"time"
)

// FileNotFoundError 引用的本地视频文件不存在，仅终止该条目
type FileNotFoundError struct {
	Path string
}

func (e *FileNotFoundError) Error() string {
	return fmt.Sprintf("视频文件不存在: %s", e.Path)
}

func IsFileNotFound(err error) bool {
	var e *FileNotFoundError
	return errors.As(err, &e)
}

// AcquisitionFailedError 远程来源下载/转码失败，仅终止该条目。
// 缓存目录只包含原子改名落地的完整文件，失败不会留下半成品。
type AcquisitionFailedError struct {
	Source VideoSource
	Cause  error
}

func (e *AcquisitionFailedError) Error() string {
	return fmt.Sprintf("视频获取失败: %s: %v", e.Source, e.Cause)
}

func (e *AcquisitionFailedError) Unwrap() error { return e.Cause }

func IsAcquisitionFailed(err error) bool {
	var e *AcquisitionFailedError
	return errors.As(err, &e)
}

// InvalidScheduleError 定时发布配置非法，整批任务开始前直接失败
type InvalidScheduleError struct {
	Reason string
}

func (e *InvalidScheduleError) Error() string {
	return fmt.Sprintf("定时发布配置非法: %s", e.Reason)
}

func IsInvalidSchedule(err error) bool {
	var e *InvalidScheduleError
	return errors.As(err, &e)
}

// ElementNotFoundError 页面元素等待超时。
// 这是主要失败模式，单次尝试内不自动重试，由编排器记录后继续下一条。
type ElementNotFoundError struct {
	Step     string
	Selector string
	Timeout  time.Duration
}

func (e *ElementNotFoundError) Error() string {
	return fmt.Sprintf("步骤 %s 未找到元素 %q (超时 %s)", e.Step, e.Selector, e.Timeout)
}

func IsElementNotFound(err error) bool {
	var e *ElementNotFoundError
	return errors.As(err, &e)
}

// NotAuthenticatedError 预检发现账号未登录，快速失败且不覆盖原有会话文件
type NotAuthenticatedError struct {
	Platform string
	Account  string
}

func (e *NotAuthenticatedError) Error() string {
	return fmt.Sprintf("[%s] 账号未登录: %s", e.Platform, e.Account)
}

func IsNotAuthenticated(err error) bool {
	var e *NotAuthenticatedError
	return errors.As(err, &e)
}
