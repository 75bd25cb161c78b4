// Package frontend 用无头浏览器巡检报表前端：首页、侧边栏菜单、订单查询、
// 控制台错误和报表中心。
package frontend

import (
	"context"
	"time"
)

// Page 是浏览器页面上用到的最小操作集合
type Page interface {
	// Goto 在 ctx 取消时立即返回
	Goto(ctx context.Context, url string, timeout time.Duration) error
	Title() (string, error)
	Count(selector string) (int, error)
	Texts(selector string) ([]string, error)
	ClickFirst(selector string) error
	Screenshot(path string) error
	// Console 返回目前为止收到的控制台日志，格式为 "[type] text"
	Console() []string
}

// Launcher 启动浏览器并打开一个新页面，返回的 close 负责释放浏览器
type Launcher interface {
	Launch() (page Page, close func() error, err error)
}
