package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"Bpublisher/internal/acquire"
	"Bpublisher/internal/config"
	"Bpublisher/internal/orchestrator"
	"Bpublisher/internal/platform"
	"Bpublisher/internal/platform/browser"
	"Bpublisher/internal/schedule"
	"Bpublisher/internal/store"
	"Bpublisher/internal/types"
	"Bpublisher/internal/utils"

	"github.com/spf13/cobra"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := config.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "bpublisher: 初始化配置失败: %v\n", err)
		os.Exit(1)
	}
	if err := utils.InitLogger(); err != nil {
		fmt.Fprintf(os.Stderr, "bpublisher: 初始化日志失败: %v\n", err)
		os.Exit(1)
	}

	if err := newRootCommand().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "bpublisher: %v\n", err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bpublisher",
		Short: "多平台视频批量发布工具",
		Long: fmt.Sprintf(`bpublisher 把本地或远程视频批量发布到各短视频平台。
支持的平台: %s`, strings.Join(platform.Names(), ", ")),
		SilenceUsage: true,
	}
	cmd.AddCommand(
		newPublishCmd(),
		newLoginCmd(),
		newHistoryCmd(),
	)
	return cmd
}

func newPublishCmd() *cobra.Command {
	var (
		platformName   string
		title          string
		tags           []string
		files          []string
		accounts       []string
		thumbnail      string
		autoCover      bool
		category       string
		isPublic       bool
		productLink    string
		productTitle   string
		enableTimer    bool
		startDays      int
		videosPerDay   int
		dailyTimes     []string
		previewSeconds int
	)

	cmd := &cobra.Command{
		Use:   "publish",
		Short: "把一批视频发布到指定平台的一个或多个账号",
		RunE: func(cmd *cobra.Command, args []string) error {
			desc, ok := platform.Get(platformName)
			if !ok {
				return fmt.Errorf("不支持的平台: %s (可选: %s)", platformName, strings.Join(platform.Names(), ", "))
			}

			sources := make([]types.VideoSource, 0, len(files))
			for _, f := range files {
				sources = append(sources, parseSource(f))
			}

			accountFiles := make([]string, 0, len(accounts))
			for _, name := range accounts {
				accountFiles = append(accountFiles, config.GetCookiePath(platformName, name))
			}

			resolver := acquire.NewResolver(config.Config.VideoPath, config.Config.TempPath)
			resolver.PreviewSeconds = previewSeconds
			resolver.FFmpegTimeout = config.Config.FFmpegTimeout

			b, err := browser.Launch(config.Config.Headless)
			if err != nil {
				return fmt.Errorf("启动浏览器失败: %w", err)
			}
			defer b.Close()

			o := orchestrator.New(resolver, func(accountFile string) orchestrator.SessionRunner {
				return platform.NewSession(desc, b, accountFile)
			})

			s, err := store.Open(config.Config.DbPath)
			if err != nil {
				utils.Warn(fmt.Sprintf("[-] 打开历史库失败，本批结果不落库: %v", err))
			} else {
				defer s.Close()
				o.SetRecorder(s)
			}

			outcomes, err := o.Run(cmd.Context(), orchestrator.Options{
				Platform:     platformName,
				Title:        title,
				Tags:         tags,
				Sources:      sources,
				Accounts:     accountFiles,
				Thumbnail:    thumbnail,
				AutoCover:    autoCover,
				Category:     category,
				IsPublic:     isPublic,
				ProductLink:  productLink,
				ProductTitle: productTitle,
				Schedule: schedule.Config{
					Enabled:      enableTimer,
					StartDays:    startDays,
					VideosPerDay: videosPerDay,
					DailyTimes:   dailyTimes,
				},
			})
			if err != nil {
				return err
			}

			var failed int
			for _, outcome := range outcomes {
				if outcome.Status == types.AttemptFailed {
					failed++
				}
			}
			if failed == len(outcomes) {
				return fmt.Errorf("全部%d条上传均失败", failed)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&platformName, "platform", "p", "", "目标平台")
	cmd.Flags().StringVarP(&title, "title", "t", "", "视频标题，为空时从视频同名 .txt 派生")
	cmd.Flags().StringSliceVar(&tags, "tags", nil, "话题标签（不带#）")
	cmd.Flags().StringSliceVarP(&files, "file", "f", nil, "视频文件名或 http(s) 地址，可多个")
	cmd.Flags().StringSliceVarP(&accounts, "account", "a", nil, "账号名，可多个")
	cmd.Flags().StringVar(&thumbnail, "thumbnail", "", "封面图路径，为空时尝试视频同名 .png")
	cmd.Flags().BoolVar(&autoCover, "auto-cover", false, "没有封面时用 ffmpeg 抽取视频首帧")
	cmd.Flags().StringVar(&category, "category", "", "视频分类")
	cmd.Flags().BoolVar(&isPublic, "public", true, "公开可见（false 为仅自己可见）")
	cmd.Flags().StringVar(&productLink, "product-link", "", "挂载商品链接（仅部分平台）")
	cmd.Flags().StringVar(&productTitle, "product-title", "", "挂载商品标题")
	cmd.Flags().BoolVar(&enableTimer, "enable-timer", false, "启用定时发布")
	cmd.Flags().IntVar(&startDays, "start-days", 0, "定时发布从几天后开始（0=今天，1=明天）")
	cmd.Flags().IntVar(&videosPerDay, "videos-per-day", 1, "每天发布条数")
	cmd.Flags().StringSliceVar(&dailyTimes, "daily-times", []string{"10:00"}, "每天的发布时间点 HH:MM，须递增")
	cmd.Flags().IntVar(&previewSeconds, "preview-seconds", 0, "远程视频只截取前N秒（测试用，0=完整下载）")
	_ = cmd.MarkFlagRequired("platform")
	_ = cmd.MarkFlagRequired("file")
	_ = cmd.MarkFlagRequired("account")
	return cmd
}

func newLoginCmd() *cobra.Command {
	var (
		platformName string
		account      string
		timeout      time.Duration
	)

	cmd := &cobra.Command{
		Use:   "login",
		Short: "打开浏览器登录平台并保存账号会话",
		RunE: func(cmd *cobra.Command, args []string) error {
			desc, ok := platform.Get(platformName)
			if !ok {
				return fmt.Errorf("不支持的平台: %s (可选: %s)", platformName, strings.Join(platform.Names(), ", "))
			}

			// 登录需要人工扫码/输密码，强制有头模式
			b, err := browser.Launch(false)
			if err != nil {
				return fmt.Errorf("启动浏览器失败: %w", err)
			}
			defer b.Close()

			cookieFile := config.GetCookiePath(platformName, account)
			session := platform.NewSession(desc, b, cookieFile)
			if err := session.Login(cmd.Context(), timeout); err != nil {
				return err
			}
			utils.SuccessWithPlatform(platformName, fmt.Sprintf("账号会话已保存: %s", cookieFile))
			return nil
		},
	}

	cmd.Flags().StringVarP(&platformName, "platform", "p", "", "目标平台")
	cmd.Flags().StringVarP(&account, "account", "a", "", "账号名（用于命名会话文件）")
	cmd.Flags().DurationVar(&timeout, "timeout", 200*time.Second, "等待人工完成登录的时长")
	_ = cmd.MarkFlagRequired("platform")
	_ = cmd.MarkFlagRequired("account")
	return cmd
}

func newHistoryCmd() *cobra.Command {
	var (
		platformName string
		limit        int
	)

	cmd := &cobra.Command{
		Use:   "history",
		Short: "查看最近的上传记录",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := store.Open(config.Config.DbPath)
			if err != nil {
				return err
			}
			defer s.Close()

			records, err := s.Recent(platformName, limit)
			if err != nil {
				return err
			}
			if len(records) == 0 {
				fmt.Println("暂无上传记录")
				return nil
			}

			for _, r := range records {
				line := fmt.Sprintf("%s  %-12s %-10s %s (%s)",
					r.FinishedAt.Format("2006-01-02 15:04:05"), r.Platform, r.Status, r.VideoPath, r.Account)
				if r.Error != "" {
					line += fmt.Sprintf("  步骤=%s 错误=%s", r.Step, r.Error)
				}
				fmt.Println(line)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&platformName, "platform", "p", "", "按平台过滤，为空显示全部")
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "显示条数")
	return cmd
}

// parseSource 区分远程地址和本地文件名
func parseSource(raw string) types.VideoSource {
	if strings.HasPrefix(raw, "http://") || strings.HasPrefix(raw, "https://") {
		return types.VideoSource{URL: raw}
	}
	return types.VideoSource{Path: raw}
}
