package types

import "time"

// VideoSource 视频来源引用：本地路径或远程URL，构造后不可变
type VideoSource struct {
	URL  string // 远程地址，非空表示远程来源
	Path string // 本地路径（绝对或相对视频目录）
}

// IsRemote 是否为远程来源
func (s VideoSource) IsRemote() bool {
	return s.URL != ""
}

// String 用于日志展示
func (s VideoSource) String() string {
	if s.IsRemote() {
		return s.URL
	}
	return s.Path
}

// LocalVideoFile 已落地的本地视频文件
type LocalVideoFile struct {
	Path      string // 绝对路径
	Hash      string // 远程来源的内容寻址哈希，本地来源为空
	Thumbnail string // 同名封面图路径，可为空
	Temp      bool   // 位于临时目录，上传结束后由编排器清理
}

// VideoTask 单次上传任务的元数据
type VideoTask struct {
	Platform     string // 平台名称
	VideoPath    string
	Title        string
	Description  string
	Tags         []string  // 顺序即展示顺序
	Thumbnail    string    // 封面路径
	ScheduleAt   time.Time // 零值表示立即发布
	IsPublic     bool      // 可见性：公开/受限
	Category     string
	ProductLink  string // 商品链接（抖音）
	ProductTitle string // 商品短标题（抖音）
}

// AttemptStatus 单次上传的终态
type AttemptStatus string

const (
	AttemptPublished AttemptStatus = "published"
	AttemptFailed    AttemptStatus = "failed"
)

// Outcome 一次 (文件, 账号) 上传的结果
type Outcome struct {
	ID         string // 尝试ID
	Platform   string
	VideoPath  string
	Account    string // 账号会话文件路径
	Status     AttemptStatus
	Step       string // 失败时所在的状态机步骤
	Err        error
	ScheduleAt time.Time
	FinishedAt time.Time
}
