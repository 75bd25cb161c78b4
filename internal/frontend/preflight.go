package frontend

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gocolly/colly"

	"smoke_testing/internal/model"
)

// Preflight 在启动浏览器前用普通 HTTP 请求确认前端页面可以访问
func Preflight(ctx context.Context, url string, timeout time.Duration) model.TestResult {
	res := model.TestResult{Name: "前端页面"}
	if err := ctx.Err(); err != nil {
		res.Detail = model.Truncate(err.Error())
		return res
	}

	c := colly.NewCollector()
	c.SetRequestTimeout(timeout)
	c.WithTransport(ctxTransport{ctx: ctx, base: http.DefaultTransport})
	c.OnRequest(func(r *colly.Request) {
		if ctx.Err() != nil {
			r.Abort()
		}
	})

	var (
		status      int
		contentType string
		title       string
		mounted     bool
	)
	c.OnResponse(func(r *colly.Response) {
		status = r.StatusCode
		contentType = r.Headers.Get("Content-Type")
	})
	c.OnError(func(r *colly.Response, err error) {
		if r != nil {
			status = r.StatusCode
		}
	})
	c.OnHTML("title", func(e *colly.HTMLElement) {
		if title == "" {
			title = strings.TrimSpace(e.Text)
		}
	})
	c.OnHTML("#root, #app", func(*colly.HTMLElement) {
		mounted = true
	})

	start := time.Now()
	err := c.Visit(url)
	res.Duration = time.Since(start)
	res.StatusCode = status

	switch {
	case ctx.Err() != nil:
		res.Detail = model.Truncate(ctx.Err().Error())
		return res
	case err != nil && status >= 300:
		res.Detail = fmt.Sprintf("HTTP %d", status)
		return res
	case err != nil:
		res.Detail = model.Truncate(err.Error())
		return res
	case !strings.Contains(strings.ToLower(contentType), "html"):
		res.Detail = fmt.Sprintf("不是 HTML 页面 (%s)", contentType)
		return res
	}

	res.Passed = true
	res.Detail = fmt.Sprintf("HTTP %d，标题：%s", status, title)
	if !mounted {
		res.Warn = true
		res.Detail += "，未找到挂载节点"
	}
	return res
}

// ctxTransport 把请求绑定到 ctx，取消时中断连接
type ctxTransport struct {
	ctx  context.Context
	base http.RoundTripper
}

func (t ctxTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	// 保留请求自带的超时
	rctx, cancel := context.WithCancelCause(req.Context())
	context.AfterFunc(t.ctx, func() { cancel(context.Cause(t.ctx)) })
	return t.base.RoundTrip(req.WithContext(rctx))
}
