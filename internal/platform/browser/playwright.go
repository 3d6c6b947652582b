// Package browser 提供 driver 接口的 playwright 实现，
// 以及账号会话文件的加载、探测与保存。
package browser

import (
	"fmt"
	"os"
	"time"

	"Bpublisher/internal/platform/driver"
	"Bpublisher/internal/utils"

	"github.com/playwright-community/playwright-go"
)

// Launch 启动浏览器。优先使用本地 Chrome，找不到时用 playwright 自带的 Chromium。
func Launch(headless bool) (driver.Browser, error) {
	pw, err := playwright.Run()
	if err != nil {
		return nil, fmt.Errorf("start playwright failed: %w", err)
	}

	launchOptions := playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(headless),
		Args: []string{
			"--disable-blink-features=AutomationControlled",
			"--no-sandbox",
			"--disable-setuid-sandbox",
			"--disable-dev-shm-usage",
			"--window-size=1920,1080",
			"--disable-infobars",
			"--disable-extensions",
			"--disable-background-networking",
			"--disable-popup-blocking",
		},
	}

	if chromePath := findLocalChrome(); chromePath != "" {
		launchOptions.ExecutablePath = playwright.String(chromePath)
		utils.Info("[-] 使用本地 Chrome")
	}

	b, err := pw.Chromium.Launch(launchOptions)
	if err != nil {
		pw.Stop()
		return nil, fmt.Errorf("launch browser failed: %w", err)
	}

	return &pwBrowser{pw: pw, browser: b}, nil
}

type pwBrowser struct {
	pw      *playwright.Playwright
	browser playwright.Browser
}

func (b *pwBrowser) NewContext(storageStatePath string) (driver.Context, error) {
	options := playwright.BrowserNewContextOptions{
		Viewport:    &playwright.Size{Width: 1920, Height: 1080},
		ColorScheme: playwright.ColorSchemeLight,
	}

	// 会话文件存在时恢复登录态
	if storageStatePath != "" {
		if _, err := os.Stat(storageStatePath); err == nil {
			options.StorageStatePath = playwright.String(storageStatePath)
		}
	}

	ctx, err := b.browser.NewContext(options)
	if err != nil {
		return nil, fmt.Errorf("create context failed: %w", err)
	}
	return &pwContext{ctx: ctx}, nil
}

func (b *pwBrowser) Close() error {
	err := b.browser.Close()
	if stopErr := b.pw.Stop(); err == nil {
		err = stopErr
	}
	return err
}

type pwContext struct {
	ctx playwright.BrowserContext
}

func (c *pwContext) NewPage() (driver.Page, error) {
	page, err := c.ctx.NewPage()
	if err != nil {
		return nil, err
	}
	page.SetDefaultTimeout(30000)
	page.SetDefaultNavigationTimeout(30000)
	return &pwPage{page: page}, nil
}

func (c *pwContext) SaveState(path string) error {
	if _, err := c.ctx.StorageState(path); err != nil {
		return fmt.Errorf("save storage state failed: %w", err)
	}
	return nil
}

func (c *pwContext) Close() error {
	return c.ctx.Close()
}

type pwPage struct {
	page playwright.Page
}

func (p *pwPage) Goto(url string) error {
	_, err := p.page.Goto(url, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateDomcontentloaded,
	})
	return err
}

func (p *pwPage) WaitForLoadState(state driver.LoadState) error {
	var pwState *playwright.LoadState
	switch state {
	case driver.LoadNetworkIdle:
		pwState = playwright.LoadStateNetworkidle
	default:
		pwState = playwright.LoadStateDomcontentloaded
	}
	return p.page.WaitForLoadState(playwright.PageWaitForLoadStateOptions{State: pwState})
}

func (p *pwPage) Locator(selector string) driver.Locator {
	return &pwLocator{locator: p.page.Locator(selector)}
}

func (p *pwPage) URL() string {
	return p.page.URL()
}

type pwLocator struct {
	locator playwright.Locator
}

func (l *pwLocator) WaitFor(state driver.WaitState, timeout time.Duration) error {
	pwState := playwright.WaitForSelectorStateVisible
	if state == driver.StateAttached {
		pwState = playwright.WaitForSelectorStateAttached
	}
	return l.locator.First().WaitFor(playwright.LocatorWaitForOptions{
		State:   pwState,
		Timeout: playwright.Float(float64(timeout.Milliseconds())),
	})
}

func (l *pwLocator) Click() error {
	return l.locator.First().Click()
}

func (l *pwLocator) Fill(text string) error {
	return l.locator.First().Fill(text)
}

func (l *pwLocator) SetInputFiles(path string) error {
	return l.locator.First().SetInputFiles(path)
}

func (l *pwLocator) Count() (int, error) {
	return l.locator.Count()
}

// findLocalChrome 查找本地 Chrome
func findLocalChrome() string {
	paths := []string{
		"/usr/bin/google-chrome",
		"/usr/bin/google-chrome-stable",
		"/opt/google/chrome/chrome",
		"/Applications/Google Chrome.app/Contents/MacOS/Google Chrome",
		`C:\Program Files\Google\Chrome\Application\chrome.exe`,
		`C:\Program Files (x86)\Google\Chrome\Application\chrome.exe`,
	}

	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}
