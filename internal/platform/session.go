package platform

import (
	"context"
	"fmt"
	"strings"
	"time"

	"Bpublisher/internal/platform/browser"
	"Bpublisher/internal/platform/driver"
	"Bpublisher/internal/types"
	"Bpublisher/internal/utils"
)

// 状态机步骤，严格顺序推进，失败时记录在 ElementNotFound 中
const (
	StepInit             = "init"
	StepDialogOpened     = "dialog_opened"
	StepFileInjected     = "file_injected"
	StepMetadataFilled   = "metadata_filled"
	StepStepsAdvanced    = "steps_advanced"
	StepVisibilitySet    = "visibility_set"
	StepPublished        = "published"
	StepSessionPersisted = "session_persisted"
)

const defaultElementTimeout = 10 * time.Second

// Session 一次 (文件, 账号) 上传尝试的状态机执行器。
// 浏览器上下文在尝试开始时获取，任何退出路径都会释放。
type Session struct {
	desc        *Descriptor
	browser     driver.Browser
	accountFile string

	// 可注入的休眠函数，测试置桩用
	sleep func(time.Duration)
	// 可注入的会话文件探测，默认读取Cookie配置表
	probe func(path, platform string) bool
}

func NewSession(desc *Descriptor, b driver.Browser, accountFile string) *Session {
	return &Session{
		desc:        desc,
		browser:     b,
		accountFile: accountFile,
		sleep:       time.Sleep,
		probe:       browser.ProbeSessionFile,
	}
}

// Run 驱动完整上传流程：
// Init → DialogOpened → FileInjected → MetadataFilled → StepsAdvanced →
// VisibilitySet → Published → SessionPersisted。
// 元素等待超时不在本次尝试内重试，直接返回 ElementNotFound。
func (s *Session) Run(ctx context.Context, task *types.VideoTask) error {
	name := s.desc.Name

	// 预检：启动浏览器前先探测会话文件，未登录快速失败
	if !s.probe(s.accountFile, name) {
		return &types.NotAuthenticatedError{Platform: name, Account: s.accountFile}
	}

	browserCtx, err := s.browser.NewContext(s.accountFile)
	if err != nil {
		return fmt.Errorf("获取浏览器上下文失败: %w", err)
	}
	defer browserCtx.Close()

	page, err := browserCtx.NewPage()
	if err != nil {
		return fmt.Errorf("获取页面失败: %w", err)
	}

	utils.InfoWithPlatform(name, "正在打开发布页面...")
	if err := page.Goto(s.desc.UploadURL); err != nil {
		return fmt.Errorf("打开发布页面失败: %w", err)
	}
	if err := page.WaitForLoadState(driver.LoadDOMContentLoaded); err != nil {
		return fmt.Errorf("等待页面加载失败: %w", err)
	}

	if err := s.checkAuthenticated(page); err != nil {
		return err
	}

	steps := []struct {
		name string
		run  func(context.Context, driver.Page, *types.VideoTask) error
	}{
		{StepDialogOpened, s.openDialog},
		{StepFileInjected, s.injectFile},
		{StepMetadataFilled, s.fillMetadata},
		{StepStepsAdvanced, s.advanceSteps},
		{StepVisibilitySet, s.setVisibility},
		{StepPublished, s.publish},
	}

	for _, step := range steps {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("上传已取消: %w", err)
		}
		if err := step.run(ctx, page, task); err != nil {
			return err
		}
	}

	// 发布成功后才回写会话文件，失败不覆盖原有登录态
	if err := browserCtx.SaveState(s.accountFile); err != nil {
		return fmt.Errorf("步骤 %s 保存会话失败: %w", StepSessionPersisted, err)
	}

	// 页面地址随发布完成跳转，记录下来便于核对落点
	utils.SuccessWithPlatform(name, fmt.Sprintf("发布成功: %s", page.URL()))
	return nil
}

// checkAuthenticated 页面内登录标记检查
func (s *Session) checkAuthenticated(page driver.Page) error {
	if s.desc.LoggedOutMarker != "" {
		if count, err := page.Locator(s.desc.LoggedOutMarker).Count(); err == nil && count > 0 {
			return &types.NotAuthenticatedError{Platform: s.desc.Name, Account: s.accountFile}
		}
	}
	if s.desc.LoggedInMarker != "" {
		marker := page.Locator(s.desc.LoggedInMarker)
		if err := marker.WaitFor(driver.StateAttached, defaultElementTimeout); err != nil {
			return &types.NotAuthenticatedError{Platform: s.desc.Name, Account: s.accountFile}
		}
	}
	return nil
}

func (s *Session) openDialog(ctx context.Context, page driver.Page, _ *types.VideoTask) error {
	for _, spec := range s.desc.OpenDialog {
		loc, err := s.await(page, StepDialogOpened, spec)
		if err != nil {
			return err
		}
		if err := loc.Click(); err != nil {
			return fmt.Errorf("步骤 %s 点击失败: %w", StepDialogOpened, err)
		}
		s.settle(spec.Settle)
	}
	return nil
}

func (s *Session) injectFile(ctx context.Context, page driver.Page, task *types.VideoTask) error {
	utils.InfoWithPlatform(s.desc.Name, fmt.Sprintf("正在注入视频文件: %s", task.VideoPath))

	loc, err := s.await(page, StepFileInjected, s.desc.FileInput)
	if err != nil {
		return err
	}
	if err := loc.SetInputFiles(task.VideoPath); err != nil {
		return fmt.Errorf("步骤 %s 注入文件失败: %w", StepFileInjected, err)
	}
	s.settle(s.desc.FileInput.Settle)
	return nil
}

func (s *Session) fillMetadata(ctx context.Context, page driver.Page, task *types.VideoTask) error {
	utils.InfoWithPlatform(s.desc.Name, "填写标题和标签...")

	title := task.Title
	if s.desc.TagInput.Empty() && len(task.Tags) > 0 {
		// 没有独立标签输入框的平台把话题并入标题
		title = title + " " + joinHashtags(task.Tags)
	}

	loc, err := s.await(page, StepMetadataFilled, s.desc.TitleInput)
	if err != nil {
		return err
	}
	if err := loc.Fill(title); err != nil {
		return fmt.Errorf("步骤 %s 填写标题失败: %w", StepMetadataFilled, err)
	}
	s.settle(s.desc.TitleInput.Settle)

	if !s.desc.DescriptionInput.Empty() && task.Description != "" {
		if err := s.fillOptional(page, s.desc.DescriptionInput, task.Description); err != nil {
			return err
		}
	}

	if !s.desc.TagInput.Empty() && len(task.Tags) > 0 {
		if err := s.fillOptional(page, s.desc.TagInput, joinHashtags(task.Tags)); err != nil {
			return err
		}
	}

	if !s.desc.ThumbnailInput.Empty() && task.Thumbnail != "" {
		loc, err := s.await(page, StepMetadataFilled, s.desc.ThumbnailInput)
		if err != nil {
			return err
		}
		if err := loc.SetInputFiles(task.Thumbnail); err != nil {
			return fmt.Errorf("步骤 %s 设置封面失败: %w", StepMetadataFilled, err)
		}
		s.settle(s.desc.ThumbnailInput.Settle)
	}

	if !s.desc.ProductLink.Empty() && task.ProductLink != "" {
		if err := s.fillOptional(page, s.desc.ProductLink, task.ProductLink); err != nil {
			return err
		}
	}
	if !s.desc.ProductTitle.Empty() && task.ProductTitle != "" {
		if err := s.fillOptional(page, s.desc.ProductTitle, task.ProductTitle); err != nil {
			return err
		}
	}

	return nil
}

// advanceSteps 连续点击固定轮数的“下一步”。
// 控件每轮点击后会重渲染，必须等待后重新定位同一控件。
func (s *Session) advanceSteps(ctx context.Context, page driver.Page, _ *types.VideoTask) error {
	for i := 0; i < s.desc.NextClicks; i++ {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("上传已取消: %w", err)
		}

		loc, err := s.await(page, StepStepsAdvanced, s.desc.NextButton)
		if err != nil {
			return err
		}
		if err := loc.Click(); err != nil {
			return fmt.Errorf("步骤 %s 第%d轮点击失败: %w", StepStepsAdvanced, i+1, err)
		}
		utils.InfoWithPlatform(s.desc.Name, fmt.Sprintf("下一步 (%d/%d)", i+1, s.desc.NextClicks))
		s.settle(s.desc.NextButton.Settle)
	}
	return nil
}

func (s *Session) setVisibility(ctx context.Context, page driver.Page, task *types.VideoTask) error {
	// 定时发布先于可见性设置（与各平台发布面板的布局一致）
	if !task.ScheduleAt.IsZero() && !s.desc.ScheduleToggle.Empty() {
		if err := s.setSchedule(page, task.ScheduleAt); err != nil {
			return err
		}
	}

	spec := s.desc.PublicOption
	if !task.IsPublic {
		spec = s.desc.RestrictedOption
	}
	if spec.Empty() {
		return nil
	}

	loc, err := s.await(page, StepVisibilitySet, spec)
	if err != nil {
		return err
	}
	if err := loc.Click(); err != nil {
		return fmt.Errorf("步骤 %s 选择可见性失败: %w", StepVisibilitySet, err)
	}
	s.settle(spec.Settle)
	return nil
}

func (s *Session) setSchedule(page driver.Page, at time.Time) error {
	utils.InfoWithPlatform(s.desc.Name, fmt.Sprintf("设置定时发布: %s", at.Format("2006-01-02 15:04")))

	loc, err := s.await(page, StepVisibilitySet, s.desc.ScheduleToggle)
	if err != nil {
		return err
	}
	if err := loc.Click(); err != nil {
		return fmt.Errorf("步骤 %s 打开定时发布失败: %w", StepVisibilitySet, err)
	}
	s.settle(s.desc.ScheduleToggle.Settle)

	if s.desc.ScheduleInput.Empty() {
		return nil
	}
	input, err := s.await(page, StepVisibilitySet, s.desc.ScheduleInput)
	if err != nil {
		return err
	}
	if err := input.Fill(at.Format("2006-01-02 15:04")); err != nil {
		return fmt.Errorf("步骤 %s 填写发布时间失败: %w", StepVisibilitySet, err)
	}
	s.settle(s.desc.ScheduleInput.Settle)
	return nil
}

func (s *Session) publish(ctx context.Context, page driver.Page, _ *types.VideoTask) error {
	utils.InfoWithPlatform(s.desc.Name, "准备发布...")

	loc, err := s.await(page, StepPublished, s.desc.PublishButton)
	if err != nil {
		return err
	}
	if err := loc.Click(); err != nil {
		return fmt.Errorf("步骤 %s 点击发布失败: %w", StepPublished, err)
	}
	s.settle(s.desc.PublishButton.Settle)

	if !s.desc.SuccessMarker.Empty() {
		if _, err := s.await(page, StepPublished, s.desc.SuccessMarker); err != nil {
			return err
		}
	}
	return nil
}

// Login 打开登录页等待人工完成登录，出现已登录标记后保存会话文件
func (s *Session) Login(ctx context.Context, timeout time.Duration) error {
	browserCtx, err := s.browser.NewContext("")
	if err != nil {
		return fmt.Errorf("获取浏览器上下文失败: %w", err)
	}
	defer browserCtx.Close()

	page, err := browserCtx.NewPage()
	if err != nil {
		return fmt.Errorf("获取页面失败: %w", err)
	}

	utils.InfoWithPlatform(s.desc.Name, "正在打开登录页面，请在浏览器中完成登录...")
	if err := page.Goto(s.desc.LoginURL); err != nil {
		return fmt.Errorf("打开登录页面失败: %w", err)
	}

	marker := page.Locator(s.desc.LoggedInMarker)
	if err := marker.WaitFor(driver.StateAttached, timeout); err != nil {
		return fmt.Errorf("等待登录完成超时: %w", err)
	}

	if err := browserCtx.SaveState(s.accountFile); err != nil {
		return fmt.Errorf("保存会话失败: %w", err)
	}
	utils.SuccessWithPlatform(s.desc.Name, fmt.Sprintf("登录成功，会话已保存: %s", s.accountFile))
	return nil
}

// await 按 StepSpec 定位元素并等待到位。
// 已存在的候选选择器优先；全部落空时阻塞等待首个选择器。
// 候选轮询和兜底等待共享同一截止时间，整步耗时不超过配置的超时，
// 超时返回 ElementNotFound。
func (s *Session) await(page driver.Page, step string, spec StepSpec) (driver.Locator, error) {
	state := spec.State
	if state == "" {
		state = driver.StateVisible
	}
	timeout := spec.Timeout
	if timeout == 0 {
		timeout = defaultElementTimeout
	}
	if spec.Empty() {
		return nil, &types.ElementNotFoundError{Step: step, Selector: "(未配置)", Timeout: timeout}
	}

	deadline := time.Now().Add(timeout)
	for _, sel := range spec.Selectors {
		remaining := time.Until(deadline)
		if remaining <= 0 {
			break
		}
		loc := page.Locator(sel)
		if count, err := loc.Count(); err == nil && count > 0 {
			if err := loc.WaitFor(state, remaining); err == nil {
				return loc, nil
			}
		}
	}

	if remaining := time.Until(deadline); remaining > 0 {
		loc := page.Locator(spec.Selectors[0])
		if err := loc.WaitFor(state, remaining); err == nil {
			return loc, nil
		}
	}
	return nil, &types.ElementNotFoundError{
		Step:     step,
		Selector: strings.Join(spec.Selectors, " | "),
		Timeout:  timeout,
	}
}

func (s *Session) fillOptional(page driver.Page, spec StepSpec, text string) error {
	loc, err := s.await(page, StepMetadataFilled, spec)
	if err != nil {
		return err
	}
	if err := loc.Fill(text); err != nil {
		return fmt.Errorf("步骤 %s 填写失败: %w", StepMetadataFilled, err)
	}
	s.settle(spec.Settle)
	return nil
}

func (s *Session) settle(d time.Duration) {
	if d > 0 {
		s.sleep(d)
	}
}

func joinHashtags(tags []string) string {
	parts := make([]string, 0, len(tags))
	for _, tag := range tags {
		tag = strings.TrimSpace(strings.TrimPrefix(tag, "#"))
		if tag != "" {
			parts = append(parts, "#"+tag)
		}
	}
	return strings.Join(parts, " ")
}
