// Package platform 实现跨平台通用的上传状态机。
// 各平台的差异（选择器、超时、步骤开关）收敛为数据化的 Descriptor，
// 状态机本身只有一份。
package platform

import (
	"sort"
	"time"

	"Bpublisher/internal/platform/driver"
)

// StepSpec 单步交互的定位与等待参数
type StepSpec struct {
	Selectors []string         // 依次尝试的选择器，首个命中生效
	State     driver.WaitState // 等待状态，默认 visible
	Timeout   time.Duration    // 等待超时，默认 10s
	Settle    time.Duration    // 交互后的固定等待，留给前端动画
}

// Empty 该步骤未配置（平台没有此交互）
func (s StepSpec) Empty() bool {
	return len(s.Selectors) == 0
}

// Descriptor 平台能力描述：一份数据驱动通用状态机
type Descriptor struct {
	Name      string
	UploadURL string
	LoginURL  string

	// 预检标记：LoggedOutMarker 出现在页面上即判定未登录
	LoggedInMarker  string
	LoggedOutMarker string

	// 打开上传弹窗的点击序列，可为空（进入 UploadURL 即是上传表单）
	OpenDialog []StepSpec

	FileInput        StepSpec // 文件注入点，等待状态通常为 attached
	TitleInput       StepSpec
	DescriptionInput StepSpec // 可为空
	TagInput         StepSpec // 可为空：为空时标签并入标题
	ThumbnailInput   StepSpec // 封面文件注入点，可为空
	ProductLink      StepSpec // 商品链接输入，可为空（抖音）
	ProductTitle     StepSpec // 商品短标题输入，可为空（抖音）

	// “下一步”按钮：每轮点击后控件会重渲染，需等待后重新定位
	NextButton StepSpec
	NextClicks int // 固定的点击轮数上限

	// 可见性二选一
	PublicOption     StepSpec
	RestrictedOption StepSpec

	// 定时发布，可为空（平台不支持或未配置时忽略时间表）
	ScheduleToggle StepSpec
	ScheduleInput  StepSpec // 填入 "2006-01-02 15:04" 格式时间

	PublishButton StepSpec
	SuccessMarker StepSpec // 发布成功标记，可为空
}

var registry = map[string]*Descriptor{}

// Register 注册平台描述
func Register(d *Descriptor) {
	registry[d.Name] = d
}

// Get 按名称取平台描述
func Get(name string) (*Descriptor, bool) {
	d, ok := registry[name]
	return d, ok
}

// Names 返回已注册的平台名称，排序稳定
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
