package reporter

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/mattn/go-runewidth"

	"smoke_testing/internal/model"
)

const (
	ruleWidth     = 60
	notApplicable = "N/A"

	APIAbortNotice      = "后端未运行，退出测试"
	FrontendAbortNotice = "前端未就绪，退出测试"
)

type Reporter struct {
	w           io.Writer
	theme       Theme
	verbose     bool
	nameWidth   int
	abortNotice string
}

func New(w io.Writer, theme Theme, verbose bool) *Reporter {
	return &Reporter{w: w, theme: theme, verbose: verbose, abortNotice: APIAbortNotice}
}

// WithAbortNotice 替换中止时的提示语
func (r *Reporter) WithAbortNotice(notice string) *Reporter {
	r.abortNotice = notice
	return r
}

// AlignNames 按显示宽度对齐用例名称（中文占两列）
func (r *Reporter) AlignNames(names []string) {
	r.nameWidth = 0
	for _, n := range names {
		if w := runewidth.StringWidth(n); w > r.nameWidth {
			r.nameWidth = w
		}
	}
}

func (r *Reporter) Banner(title string) {
	rule := strings.Repeat("=", ruleWidth)
	fmt.Fprintln(r.w, rule)
	fmt.Fprintln(r.w, r.theme.Bold.Render(title))
	fmt.Fprintln(r.w, rule)
}

func (r *Reporter) Group(title string) {
	fmt.Fprintln(r.w)
	fmt.Fprintln(r.w, r.theme.Bold.Render(title))
}

func (r *Reporter) Case(res model.TestResult) {
	name := runewidth.FillRight(res.Name, r.nameWidth)

	switch {
	case res.Passed && res.Warn:
		fmt.Fprintln(r.w, r.theme.Warning.Render(fmt.Sprintf("%s %s: %s", r.theme.Icons.Warn, name, res.Detail)))
	case res.Passed:
		fmt.Fprintln(r.w, r.theme.Success.Render(fmt.Sprintf("%s %s: %s", r.theme.Icons.Pass, name, passText(res))))
	default:
		fmt.Fprintln(r.w, r.theme.Error.Render(fmt.Sprintf("%s %s: %s", r.theme.Icons.Fail, name, res.Detail)))
	}

	if r.verbose && res.Curl != "" {
		fmt.Fprintln(r.w, r.theme.Muted.Render("   "+res.Curl))
	}
}

// Lines 在用例下方输出附加信息（菜单项、控制台日志等）
func (r *Reporter) Lines(lines []string) {
	for _, l := range lines {
		fmt.Fprintln(r.w, r.theme.Muted.Render("      - "+l))
	}
}

func (r *Reporter) Abort(model.TestResult) {
	fmt.Fprintln(r.w, r.theme.Warning.Render(r.theme.Icons.Warn+" "+r.abortNotice))
}

// Summary 输出最终汇总
func (r *Reporter) Summary(run model.Run) {
	rule := strings.Repeat("=", ruleWidth)
	fmt.Fprintln(r.w)
	fmt.Fprintln(r.w, rule)
	fmt.Fprintln(r.w, r.theme.Bold.Render("📊 测试结果汇总"))
	fmt.Fprintln(r.w, rule)
	fmt.Fprintf(r.w, "%s 通过：%d\n", r.theme.Icons.Pass, run.Summary.Passed)
	fmt.Fprintf(r.w, "%s 失败：%d\n", r.theme.Icons.Fail, run.Summary.Failed)
	if warned := countWarn(run.Results); warned > 0 {
		fmt.Fprintf(r.w, "%s 警告：%d\n", r.theme.Icons.Warn, warned)
	}
	fmt.Fprintf(r.w, "总计：%d\n", run.Summary.Total())
	fmt.Fprintf(r.w, "总执行时间：%s\n", run.Duration().Round(time.Millisecond))
	fmt.Fprintln(r.w, rule)

	fmt.Fprintln(r.w)
	switch {
	case run.Aborted:
		fmt.Fprintln(r.w, r.theme.Error.Render(r.theme.Icons.Warn+" 测试已中止"))
	case run.Summary.Failed == 0:
		fmt.Fprintln(r.w, r.theme.Success.Render("🎉 所有测试通过！"))
	default:
		fmt.Fprintln(r.w, r.theme.Error.Render(fmt.Sprintf("%s 有 %d 个测试失败", r.theme.Icons.Warn, run.Summary.Failed)))
	}
}

func passText(res model.TestResult) string {
	switch {
	case res.Countable && res.Detail == strconv.Itoa(res.Items):
		return fmt.Sprintf("成功 (%d 条)", res.Items)
	case res.Detail == notApplicable:
		return "成功 (N/A 条)"
	case res.Detail == "":
		return "成功"
	}
	return res.Detail
}

func countWarn(results []model.TestResult) int {
	n := 0
	for _, res := range results {
		if res.Passed && res.Warn {
			n++
		}
	}
	return n
}
