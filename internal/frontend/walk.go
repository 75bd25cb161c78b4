package frontend

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"smoke_testing/internal/config"
	"smoke_testing/internal/model"
)

const (
	selMenuItem    = ".ant-menu-item"
	selDatePicker  = ".ant-picker"
	selQueryButton = `button:has-text("查询"), button:has-text("Query"), [type="submit"]`
	selToday       = ".ant-picker-cell-today"
	selTableRow    = "table tbody tr"
	selErrorTip    = ".ant-message-error, .ant-alert-error"
	selReportsMenu = `.ant-menu-item:has-text("报表"), .ant-menu-item:has-text("Report")`

	homeShot    = "homepage.png"
	reportsShot = "reports.png"

	maxConsoleLines = 5
)

// errPage 表示浏览器页面本身不可用，与页面元素缺失区分
var errPage = errors.New("页面操作失败")

// Reporter 接收浏览器测试的输出事件
type Reporter interface {
	Group(title string)
	Case(result model.TestResult)
	Abort(result model.TestResult)
	Lines(lines []string)
}

type Walker struct {
	cfg       *config.Config
	launcher  Launcher
	reporter  Reporter
	preflight func(ctx context.Context) model.TestResult
}

func NewWalker(cfg *config.Config, launcher Launcher, rep Reporter) *Walker {
	return &Walker{cfg: cfg, launcher: launcher, reporter: rep}
}

// WithPreflight 在启动浏览器之前先做一次页面可达性检查
func (w *Walker) WithPreflight() *Walker {
	w.preflight = func(ctx context.Context) model.TestResult {
		return Preflight(ctx, w.cfg.FrontendURL, w.cfg.NavTimeout)
	}
	return w
}

// walk 保存一次运行中的累计结果
type walk struct {
	run       model.Run
	page      Page
	pickers   int
	hasButton bool
	lines     []string // 下一条结果之后输出的附加信息
}

type step struct {
	title string
	fn    func(ctx context.Context, k *walk) model.TestResult
	fatal bool // 失败时中止后续步骤
}

// Run 依次执行各个步骤。首页加载失败时中止，其余问题只记录结果。
func (w *Walker) Run(ctx context.Context) model.Run {
	k := &walk{}

	if w.preflight != nil {
		w.reporter.Group("0️⃣ 前端页面检查")
		res := w.preflight(ctx)
		w.record(k, res)
		if !res.Passed {
			w.abort(k, res)
			return k.run
		}
	}

	page, closeFn, err := w.launcher.Launch()
	if err != nil {
		w.reporter.Group("1️⃣ 访问首页")
		res := model.TestResult{Name: "启动浏览器", Detail: model.Truncate(err.Error())}
		w.record(k, res)
		w.abort(k, res)
		return k.run
	}
	defer func() { _ = closeFn() }()
	k.page = page

	steps := []step{
		{title: "1️⃣ 访问首页", fn: w.home, fatal: true},
		{title: "2️⃣ 检查侧边栏菜单", fn: w.menu},
		{title: "3️⃣ 检查订单查询页面", fn: w.orderPage},
		{title: "4️⃣ 测试 API 调用", fn: w.query},
		{title: "5️⃣ 检查控制台日志", fn: w.console},
		{title: "6️⃣ 访问报表中心", fn: w.reports},
	}
	for _, s := range steps {
		if ctx.Err() != nil {
			k.run.Aborted = true
			break
		}
		w.reporter.Group(s.title)
		res := s.fn(ctx, k)
		w.record(k, res)
		if s.fatal && !res.Passed {
			w.abort(k, res)
			break
		}
	}
	return k.run
}

func (w *Walker) record(k *walk, res model.TestResult) {
	k.run.Results = append(k.run.Results, res)
	k.run.Summary = k.run.Summary.Add(res)
	w.reporter.Case(res)
	if len(k.lines) > 0 {
		w.reporter.Lines(k.lines)
		k.lines = nil
	}
}

func (w *Walker) abort(k *walk, res model.TestResult) {
	k.run.Aborted = true
	w.reporter.Abort(res)
}

func (w *Walker) home(ctx context.Context, k *walk) model.TestResult {
	res := model.TestResult{Name: "访问首页"}
	start := time.Now()

	if err := k.page.Goto(ctx, w.cfg.FrontendURL, w.cfg.NavTimeout); err != nil {
		res.Detail = model.Truncate("页面加载失败：" + err.Error())
		return res
	}
	// 等待前端渲染
	if err := pause(ctx, w.cfg.RenderWait); err != nil {
		res.Detail = model.Truncate(err.Error())
		return res
	}
	res.Duration = time.Since(start)

	title, err := k.page.Title()
	if err != nil {
		res.Detail = model.Truncate("读取标题失败：" + err.Error())
		return res
	}
	res.Passed = true
	res.Detail = fmt.Sprintf("页面加载成功，标题：%s", title)
	if err := k.page.Screenshot(filepath.Join(w.cfg.ScreenshotDir, homeShot)); err != nil {
		res.Warn = true
		res.Detail += "，截图失败：" + model.Truncate(err.Error())
	}
	return res
}

func (w *Walker) menu(_ context.Context, k *walk) model.TestResult {
	res := model.TestResult{Name: "侧边栏菜单", Passed: true}
	texts, err := k.page.Texts(selMenuItem)
	if err != nil {
		return failStep(res, fmt.Errorf("读取菜单失败：%w", err))
	}
	if len(texts) == 0 {
		res.Warn = true
		res.Detail = "未找到菜单项"
		return res
	}
	res.Items, res.Countable = len(texts), true
	res.Detail = fmt.Sprintf("找到 %d 个菜单项", len(texts))
	k.lines = texts
	return res
}

func (w *Walker) orderPage(_ context.Context, k *walk) model.TestResult {
	res := model.TestResult{Name: "订单查询页面", Passed: true}

	buttons, err := count(k.page, selQueryButton)
	if err == nil {
		k.hasButton = buttons > 0
		k.pickers, err = count(k.page, selDatePicker)
	}
	if err != nil {
		return failStep(res, err)
	}

	res.Detail = fmt.Sprintf("找到 %d 个日期选择器", k.pickers)
	if k.hasButton {
		res.Detail += "，找到查询按钮"
	} else {
		res.Warn = true
		res.Detail += "，未找到查询按钮"
	}
	return res
}

func (w *Walker) query(ctx context.Context, k *walk) model.TestResult {
	res := model.TestResult{Name: "查询调用", Passed: true}
	if !k.hasButton {
		res.Warn = true
		res.Detail = "跳过：未找到查询按钮"
		return res
	}

	if err := w.submitQuery(ctx, k); err != nil {
		if errors.Is(err, errPage) {
			return failStep(res, err)
		}
		res.Warn = true
		res.Detail = model.Truncate("查询执行失败：" + err.Error())
		return res
	}

	rows, err := count(k.page, selTableRow)
	if err != nil {
		return failStep(res, err)
	}
	if rows > 0 {
		res.Items, res.Countable = rows, true
		res.Detail = fmt.Sprintf("查询结果：%d 条数据", rows)
		return res
	}

	tips, err := count(k.page, selErrorTip)
	if err != nil {
		return failStep(res, err)
	}
	if tips > 0 {
		res.Passed = false
		res.Detail = "发现错误提示"
		return res
	}
	res.Warn = true
	res.Detail = "无数据（可能是日期范围无数据）"
	return res
}

// submitQuery 先选今天的日期，再点查询按钮
func (w *Walker) submitQuery(ctx context.Context, k *walk) error {
	if k.pickers > 0 {
		if err := k.page.ClickFirst(selDatePicker); err != nil {
			return err
		}
		if err := pause(ctx, w.cfg.ActionWait); err != nil {
			return err
		}
		n, err := count(k.page, selToday)
		if err != nil {
			return err
		}
		if n > 0 {
			if err := k.page.ClickFirst(selToday); err != nil {
				return err
			}
			if err := pause(ctx, w.cfg.ActionWait); err != nil {
				return err
			}
		}
	}
	if err := k.page.ClickFirst(selQueryButton); err != nil {
		return err
	}
	return pause(ctx, w.cfg.QueryWait)
}

func (w *Walker) console(_ context.Context, k *walk) model.TestResult {
	res := model.TestResult{Name: "控制台日志"}
	errs := ConsoleErrors(k.page.Console())
	if len(errs) == 0 {
		res.Passed = true
		res.Detail = "无错误日志"
		return res
	}

	res.Items, res.Countable = len(errs), true
	res.Detail = fmt.Sprintf("发现 %d 条错误日志", len(errs))
	if len(errs) > maxConsoleLines {
		errs = errs[:maxConsoleLines]
	}
	k.lines = errs
	return res
}

func (w *Walker) reports(ctx context.Context, k *walk) model.TestResult {
	res := model.TestResult{Name: "报表中心", Passed: true}

	if err := w.openReports(ctx, k); err != nil {
		res.Warn = true
		res.Detail = model.Truncate("访问报表中心失败：" + err.Error())
		return res
	}
	n, err := count(k.page, selReportsMenu)
	if err != nil {
		return failStep(res, err)
	}
	if n == 0 {
		res.Warn = true
		res.Detail = "未找到报表中心菜单"
		return res
	}
	if err := k.page.ClickFirst(selReportsMenu); err != nil {
		res.Warn = true
		res.Detail = model.Truncate("访问报表中心失败：" + err.Error())
		return res
	}
	if err := pause(ctx, w.cfg.PageWait); err != nil {
		res.Warn = true
		res.Detail = model.Truncate(err.Error())
		return res
	}
	if err := k.page.Screenshot(filepath.Join(w.cfg.ScreenshotDir, reportsShot)); err != nil {
		res.Warn = true
		res.Detail = model.Truncate("截图失败：" + err.Error())
		return res
	}
	res.Detail = "报表中心页面访问成功"
	return res
}

// openReports 重新加载首页
func (w *Walker) openReports(ctx context.Context, k *walk) error {
	if err := k.page.Goto(ctx, w.cfg.FrontendURL, w.cfg.NavTimeout); err != nil {
		return err
	}
	return pause(ctx, w.cfg.PageWait)
}

// count 统计元素数量，出错说明页面已不可用
func count(p Page, selector string) (int, error) {
	n, err := p.Count(selector)
	if err != nil {
		return 0, fmt.Errorf("%w：%v", errPage, err)
	}
	return n, nil
}

func failStep(res model.TestResult, err error) model.TestResult {
	res.Passed, res.Warn = false, false
	res.Detail = model.Truncate(err.Error())
	return res
}

// Screenshots 返回截图文件路径
func Screenshots(cfg *config.Config) []string {
	return []string{
		filepath.Join(cfg.ScreenshotDir, homeShot),
		filepath.Join(cfg.ScreenshotDir, reportsShot),
	}
}

// ConsoleErrors 过滤包含 error 或 failed（不区分大小写）的日志
func ConsoleErrors(logs []string) []string {
	var out []string
	for _, l := range logs {
		lower := strings.ToLower(l)
		if strings.Contains(lower, "error") || strings.Contains(lower, "failed") {
			out = append(out, l)
		}
	}
	return out
}

func pause(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
