// Package orchestrator 按 (文件 × 账号) 叉积串行驱动上传批次。
// 单条失败只记录结果，不影响其余条目。
package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"time"

	"Bpublisher/internal/acquire"
	"Bpublisher/internal/schedule"
	"Bpublisher/internal/types"
	"Bpublisher/internal/utils"

	"github.com/google/uuid"
)

// SessionRunner 一次上传尝试的执行器（平台状态机）
type SessionRunner interface {
	Run(ctx context.Context, task *types.VideoTask) error
}

// SessionFactory 按账号会话文件创建执行器
type SessionFactory func(accountFile string) SessionRunner

// Recorder 结果落库接口，可为空
type Recorder interface {
	Record(outcome types.Outcome) error
}

// Options 一个批次的全部参数
type Options struct {
	Platform     string
	Title        string   // 为空时从视频同名 .txt 派生
	Tags         []string
	Sources      []types.VideoSource
	Accounts     []string // 账号会话文件路径列表
	Thumbnail    string
	AutoCover    bool // 无封面时用 ffmpeg 抽取首帧
	Category     string
	IsPublic     bool
	ProductLink  string
	ProductTitle string
	Schedule     schedule.Config
}

// Orchestrator 批次编排器：单工作协程顺序执行所有尝试
type Orchestrator struct {
	resolver   *acquire.Resolver
	newSession SessionFactory
	recorder   Recorder         // 可为空
	now        func() time.Time // 可注入，测试冻结时钟用
}

func New(resolver *acquire.Resolver, factory SessionFactory) *Orchestrator {
	return &Orchestrator{
		resolver:   resolver,
		newSession: factory,
		now:        time.Now,
	}
}

// SetRecorder 注入结果存储
func (o *Orchestrator) SetRecorder(r Recorder) {
	o.recorder = r
}

// Run 执行整个批次，返回逐条结果。
// 只有批次前置校验（定时配置非法等）会让整体失败；
// 单条错误都隔离在各自的结果里。
func (o *Orchestrator) Run(ctx context.Context, opts Options) ([]types.Outcome, error) {
	if len(opts.Sources) == 0 {
		return nil, fmt.Errorf("视频列表为空")
	}
	if len(opts.Accounts) == 0 {
		return nil, fmt.Errorf("账号列表为空")
	}

	// 任何网络/UI调用之前先校验定时配置，非法直接终止整批。
	// 时间槽按文件位置分配：同一文件的所有账号共享同一发布时间。
	slots, err := schedule.Generate(o.now(), len(opts.Sources), opts.Schedule)
	if err != nil {
		return nil, err
	}

	// 同一URL解析到同一缓存路径，最后一个引用它的条目负责清理
	lastRef := make(map[string]int)
	for i, source := range opts.Sources {
		if source.IsRemote() {
			lastRef[source.URL] = i
		}
	}

	outcomes := make([]types.Outcome, 0, len(opts.Sources)*len(opts.Accounts))

	for i, source := range opts.Sources {
		file, err := o.resolver.Resolve(ctx, source)
		if err != nil {
			utils.Error(fmt.Sprintf("[-] 视频解析失败: %s: %v", source, err))
			for _, account := range opts.Accounts {
				outcomes = append(outcomes, o.record(types.Outcome{
					ID:         uuid.NewString(),
					Platform:   opts.Platform,
					VideoPath:  source.String(),
					Account:    account,
					Status:     types.AttemptFailed,
					Err:        err,
					FinishedAt: o.now(),
				}))
			}
			continue
		}

		task := o.buildTask(ctx, opts, file, slots[i])
		utils.Info(fmt.Sprintf("[-] 视频文件: %s", file.Path))
		utils.Info(fmt.Sprintf("[-] 标题: %s", task.Title))
		utils.Info(fmt.Sprintf("[-] 标签: %v", task.Tags))

		for _, account := range opts.Accounts {
			outcome := o.runAttempt(ctx, account, task)
			outcomes = append(outcomes, o.record(outcome))
		}

		// 远程派生的临时文件在该文件所有尝试结束后清理；
		// 持久本地文件永不删除
		if file.Temp && lastRef[source.URL] == i {
			utils.CleanupTempFile(file.Path)
		}
	}

	o.printSummary(opts.Platform, outcomes)
	return outcomes, nil
}

// runAttempt 执行单次 (文件, 账号) 尝试，吞掉包括 panic 在内的一切异常
func (o *Orchestrator) runAttempt(ctx context.Context, account string, task *types.VideoTask) (outcome types.Outcome) {
	outcome = types.Outcome{
		ID:         uuid.NewString(),
		Platform:   task.Platform,
		VideoPath:  task.VideoPath,
		Account:    account,
		ScheduleAt: task.ScheduleAt,
	}

	defer func() {
		if r := recover(); r != nil {
			outcome.Status = types.AttemptFailed
			outcome.Err = fmt.Errorf("意外异常: %v", r)
		}
		outcome.FinishedAt = o.now()
		if outcome.Status == types.AttemptFailed {
			utils.ErrorWithPlatform(task.Platform,
				fmt.Sprintf("上传失败: %s (账号 %s): %v", task.VideoPath, account, outcome.Err))
		}
	}()

	utils.InfoWithPlatform(task.Platform, fmt.Sprintf("开始上传: %s (账号 %s)", task.VideoPath, account))

	session := o.newSession(account)
	if err := session.Run(ctx, task); err != nil {
		outcome.Status = types.AttemptFailed
		outcome.Err = err
		outcome.Step = stepOf(err)
		return outcome
	}

	outcome.Status = types.AttemptPublished
	return outcome
}

func (o *Orchestrator) buildTask(ctx context.Context, opts Options, file *types.LocalVideoFile, scheduleAt time.Time) *types.VideoTask {
	title := opts.Title
	tags := opts.Tags
	if title == "" {
		// 未显式提供元数据时从视频同名 .txt 派生
		title, tags = utils.GetTitleAndHashtags(file.Path)
	}

	thumbnail := opts.Thumbnail
	if thumbnail == "" {
		thumbnail = file.Thumbnail
	}
	if thumbnail == "" && opts.AutoCover {
		cover, err := utils.ExtractFirstFrame(ctx, file.Path, o.resolver.FFmpegTimeout)
		if err != nil {
			utils.Warn(fmt.Sprintf("[-] 抽取封面失败，继续无封面上传: %v", err))
		} else {
			thumbnail = cover
		}
	}

	return &types.VideoTask{
		Platform:     opts.Platform,
		VideoPath:    file.Path,
		Title:        title,
		Tags:         tags,
		Thumbnail:    thumbnail,
		ScheduleAt:   scheduleAt,
		IsPublic:     opts.IsPublic,
		Category:     opts.Category,
		ProductLink:  opts.ProductLink,
		ProductTitle: opts.ProductTitle,
	}
}

func (o *Orchestrator) record(outcome types.Outcome) types.Outcome {
	if o.recorder != nil {
		if err := o.recorder.Record(outcome); err != nil {
			utils.Warn(fmt.Sprintf("[-] 结果落库失败: %v", err))
		}
	}
	return outcome
}

func (o *Orchestrator) printSummary(platform string, outcomes []types.Outcome) {
	var published, failed int
	for _, outcome := range outcomes {
		if outcome.Status == types.AttemptPublished {
			published++
		} else {
			failed++
		}
	}
	utils.InfoWithPlatform(platform,
		fmt.Sprintf("批次完成: 共%d条, 成功%d条, 失败%d条", len(outcomes), published, failed))
}

// stepOf 从错误中提取失败所在的状态机步骤
func stepOf(err error) string {
	var enf *types.ElementNotFoundError
	if errors.As(err, &enf) {
		return enf.Step
	}
	return ""
}
