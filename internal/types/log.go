package types

// LogLevel 日志级别
type LogLevel string

const (
	LogLevelInfo    LogLevel = "info"
	LogLevelWarn    LogLevel = "warn"
	LogLevelError   LogLevel = "error"
	LogLevelDebug   LogLevel = "debug"
	LogLevelSuccess LogLevel = "success"
)

// SimpleLog 简洁日志条目
type SimpleLog struct {
	Date     string   `json:"date"`     // 日期，格式：2006/1/2
	Time     string   `json:"time"`     // 时间，格式：15:04:05
	Message  string   `json:"message"`  // 日志内容
	Platform string   `json:"platform"` // 平台标识 (tiktok/youtube/douyin等)
	Level    LogLevel `json:"level"`    // 日志级别
}
