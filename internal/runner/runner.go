package runner

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"smoke_testing/internal/config"
	"smoke_testing/internal/model"
)

const notApplicable = "N/A"

// Reporter 接收运行过程中的输出事件
type Reporter interface {
	Group(title string)
	Case(result model.TestResult)
	Abort(result model.TestResult)
}

type Runner struct {
	client   *http.Client
	reporter Reporter
	verbose  bool
}

func New(cfg *config.Config, rep Reporter) *Runner {
	if rep == nil {
		rep = nopReporter{}
	}
	return &Runner{
		client:   &http.Client{Timeout: cfg.Timeout},
		reporter: rep,
		verbose:  cfg.Verbose,
	}
}

// RunAll 按声明顺序逐个执行。第一个用例是健康检查，失败则中止。
func (r *Runner) RunAll(ctx context.Context, cases []model.TestCase) model.Run {
	var run model.Run
	group := ""

	for i, tc := range cases {
		if ctx.Err() != nil {
			run.Aborted = true
			break
		}
		if tc.Group != "" && tc.Group != group {
			group = tc.Group
			r.reporter.Group(group)
		}

		result := r.RunCase(ctx, tc)
		run.Results = append(run.Results, result)
		run.Summary = run.Summary.Add(result)
		r.reporter.Case(result)

		if i == 0 && !result.Passed {
			run.Aborted = true
			r.reporter.Abort(result)
			break
		}
	}
	return run
}

// RunCase 执行单个用例，所有错误都转成失败结果，不会向外返回错误
func (r *Runner) RunCase(ctx context.Context, tc model.TestCase) (result model.TestResult) {
	result = model.TestResult{Name: tc.Name}
	start := time.Now()
	defer func() { result.Duration = time.Since(start) }()

	var payload []byte
	if tc.Body != nil {
		b, err := json.Marshal(tc.Body)
		if err != nil {
			return failed(result, fmt.Sprintf("序列化请求体失败: %v", err))
		}
		payload = b
	}

	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method(tc), tc.URL, reader)
	if err != nil {
		return failed(result, err.Error())
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if r.verbose {
		result.Curl = toCurl(req, payload)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return failed(result, err.Error())
	}
	defer resp.Body.Close()

	result.StatusCode = resp.StatusCode
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		result.Detail = fmt.Sprintf("HTTP %d", resp.StatusCode)
		return result
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return failed(result, err.Error())
	}

	env, doc, err := ParseEnvelope(body)
	if err != nil {
		return failed(result, err.Error())
	}

	if tc.ExpectSuccess && !env.OK() {
		result.Detail = model.Truncate(env.FailureText())
		return result
	}

	if tc.Expect != "" {
		if err := checkExpect(ctx, tc.Expect, doc); err != nil {
			return failed(result, err.Error())
		}
	}

	result.Passed = true
	if n, ok := env.Count(); ok {
		result.Items, result.Countable = n, true
		result.Detail = strconv.Itoa(n)
	} else {
		result.Detail = notApplicable
	}
	return result
}

func method(tc model.TestCase) string {
	if tc.Method != "" {
		return strings.ToUpper(tc.Method)
	}
	if tc.Body != nil {
		return http.MethodPost
	}
	return http.MethodGet
}

func failed(result model.TestResult, msg string) model.TestResult {
	result.Passed = false
	result.Detail = model.Truncate(msg)
	return result
}

// toCurl 将请求转换为 curl 命令
func toCurl(req *http.Request, body []byte) string {
	curl := fmt.Sprintf("curl -X %s", req.Method)

	keys := make([]string, 0, len(req.Header))
	for key := range req.Header {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		curl += fmt.Sprintf(" -H '%s: %s'", key, req.Header.Get(key))
	}

	if len(body) > 0 {
		curl += fmt.Sprintf(" -d '%s'", body)
	}

	curl += fmt.Sprintf(" '%s'", req.URL.String())
	return curl
}

type nopReporter struct{}

func (nopReporter) Group(string) {}
func (nopReporter) Case(model.TestResult) {}
func (nopReporter) Abort(model.TestResult) {}
