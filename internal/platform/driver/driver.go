// Package driver 定义上传状态机消费的浏览器控制能力边界。
// 任何自动化后端（playwright 等）实现这组接口即可驱动所有平台流程。
package driver

import "time"

// WaitState 元素等待状态
type WaitState string

const (
	StateAttached WaitState = "attached"
	StateVisible  WaitState = "visible"
)

// LoadState 页面加载状态
type LoadState string

const (
	LoadDOMContentLoaded LoadState = "domcontentloaded"
	LoadNetworkIdle      LoadState = "networkidle"
)

// Browser 浏览器实例
type Browser interface {
	// NewContext 从会话文件恢复上下文；storageStatePath 为空或文件不存在时创建全新上下文
	NewContext(storageStatePath string) (Context, error)
	Close() error
}

// Context 浏览器上下文，一次上传尝试借用一个
type Context interface {
	NewPage() (Page, error)
	// SaveState 把会话状态序列化回指定路径（仅发布成功后调用）
	SaveState(path string) error
	Close() error
}

// Page 页面
type Page interface {
	Goto(url string) error
	WaitForLoadState(state LoadState) error
	Locator(selector string) Locator
	URL() string
}

// Locator 由选择器定位的元素句柄
type Locator interface {
	WaitFor(state WaitState, timeout time.Duration) error
	Click() error
	Fill(text string) error
	SetInputFiles(path string) error
	Count() (int, error)
}
