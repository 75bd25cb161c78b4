package model

import "time"

// MaxDetailRunes 结果说明最多保留的字符数
const MaxDetailRunes = 60

type TestCase struct {
	Group         string // 分组标题
	Name          string // 测试用例名称
	Method        string // HTTP方法
	URL           string // 完整请求地址
	Body          any    // 请求体（nil 表示无请求体）
	ExpectSuccess bool   // 是否校验 success/status 字段
	Expect        string // 期望表达式（jq，可选）
}

type TestResult struct {
	Name       string
	Passed     bool
	Warn       bool   // 通过但有警告（仅前端测试使用）
	Detail     string // 条数或错误信息
	StatusCode int
	Items      int
	Countable  bool
	Duration   time.Duration
	Curl       string
}

// Summary 是按值传递的累加器
type Summary struct {
	Passed int
	Failed int
}

func (s Summary) Add(r TestResult) Summary {
	if r.Passed {
		s.Passed++
	} else {
		s.Failed++
	}
	return s
}

func (s Summary) Total() int {
	return s.Passed + s.Failed
}

type Run struct {
	Results []TestResult
	Summary Summary
	Aborted bool
}

// Duration 所有结果耗时之和
func (r Run) Duration() time.Duration {
	var total time.Duration
	for _, res := range r.Results {
		total += res.Duration
	}
	return total
}

// OK 所有用例通过且未中止
func (r Run) OK() bool {
	return !r.Aborted && r.Summary.Failed == 0
}

// Truncate 按字符截断结果说明
func Truncate(s string) string {
	rs := []rune(s)
	if len(rs) <= MaxDetailRunes {
		return s
	}
	return string(rs[:MaxDetailRunes])
}
