package frontend

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/playwright-community/playwright-go"
)

// PlaywrightLauncher 使用 chromium
type PlaywrightLauncher struct {
	Headless bool
}

// InstallBrowsers 下载 playwright 驱动和 chromium
func InstallBrowsers() error {
	if err := playwright.Install(&playwright.RunOptions{Browsers: []string{"chromium"}}); err != nil {
		return fmt.Errorf("安装浏览器失败: %w", err)
	}
	return nil
}

func (l PlaywrightLauncher) Launch() (Page, func() error, error) {
	pw, err := playwright.Run()
	if err != nil {
		return nil, nil, fmt.Errorf("启动 playwright 失败: %w", err)
	}

	browser, err := pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(l.Headless),
	})
	if err != nil {
		_ = pw.Stop()
		return nil, nil, fmt.Errorf("启动浏览器失败: %w", err)
	}

	page, err := browser.NewPage()
	if err != nil {
		return nil, nil, errors.Join(fmt.Errorf("打开页面失败: %w", err), browser.Close(), pw.Stop())
	}

	p := &browserPage{page: page}
	// 控制台事件来自 playwright 的事件协程
	page.OnConsole(func(msg playwright.ConsoleMessage) {
		p.appendLog(fmt.Sprintf("[%s] %s", msg.Type(), msg.Text()))
	})

	closeFn := func() error {
		return errors.Join(browser.Close(), pw.Stop())
	}
	return p, closeFn, nil
}

type browserPage struct {
	page playwright.Page

	mu   sync.Mutex
	logs []string
}

func (p *browserPage) appendLog(line string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.logs = append(p.logs, line)
}

func (p *browserPage) Console() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.logs...)
}

func (p *browserPage) Goto(ctx context.Context, url string, timeout time.Duration) error {
	// playwright 的导航不接受 ctx，取消时关闭页面让 Goto 提前返回
	stop := context.AfterFunc(ctx, func() { _ = p.page.Close() })
	defer stop()

	_, err := p.page.Goto(url, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateDomcontentloaded,
		Timeout:   playwright.Float(float64(timeout.Milliseconds())),
	})
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	return err
}

func (p *browserPage) Title() (string, error) {
	return p.page.Title()
}

func (p *browserPage) Count(selector string) (int, error) {
	return p.page.Locator(selector).Count()
}

func (p *browserPage) Texts(selector string) ([]string, error) {
	return p.page.Locator(selector).AllInnerTexts()
}

func (p *browserPage) ClickFirst(selector string) error {
	return p.page.Locator(selector).First().Click()
}

func (p *browserPage) Screenshot(path string) error {
	_, err := p.page.Screenshot(playwright.PageScreenshotOptions{
		Path:     playwright.String(path),
		FullPage: playwright.Bool(true),
	})
	return err
}
