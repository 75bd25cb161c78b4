// Package suite 生成按顺序执行的接口用例：内置的报表平台用例，或从 xlsx/yaml 文件读取。
package suite

import (
	"fmt"
	"net/http"
	"path/filepath"
	"strings"

	"smoke_testing/internal/model"
)

const (
	GroupHealth  = "1️⃣ 健康检查"
	GroupOrders  = "2️⃣ 订单查询测试"
	GroupReports = "3️⃣ 其他报表测试"
	GroupExports = "4️⃣ 导出功能测试"

	queryDate = "2026-02-26"
)

// Spec 是文件中的一条用例定义，Path 相对于接口前缀
type Spec struct {
	Group         string         `yaml:"group"`
	Name          string         `yaml:"name"`
	Method        string         `yaml:"method"`
	Path          string         `yaml:"path"`
	Body          map[string]any `yaml:"body"`
	ExpectSuccess *bool          `yaml:"expect_success"`
	Expect        string         `yaml:"expect"`
}

// Default 返回报表平台的默认用例，健康检查必须排在第一位
func Default(apiBase string) []model.TestCase {
	dateRange := func() map[string]any {
		return map[string]any{"startTime": queryDate, "endTime": queryDate}
	}
	with := func(extra map[string]any) map[string]any {
		body := dateRange()
		for k, v := range extra {
			body[k] = v
		}
		return body
	}

	specs := []Spec{
		{Group: GroupHealth, Name: "健康检查", Path: "/health"},

		{Group: GroupOrders, Name: "订单-基础查询", Path: "/orders/query", Body: with(map[string]any{"page": 1, "pageSize": 20})},
		{Group: GroupOrders, Name: "订单-按状态筛选", Path: "/orders/query", Body: with(map[string]any{"status": "交易成功"})},
		{Group: GroupOrders, Name: "订单-按门店筛选", Path: "/orders/query", Body: with(map[string]any{"stationCodes": "2625"})},
		{Group: GroupOrders, Name: "订单-按订单号筛选", Path: "/orders/query", Body: with(map[string]any{"orderNumber": "ORD"})},

		{Group: GroupReports, Name: "商品渗透率", Path: "/reports/penetration/query", Body: dateRange()},
		{Group: GroupReports, Name: "搜索关键词", Path: "/reports/search-keyword/query", Body: dateRange()},
		{Group: GroupReports, Name: "优惠券", Path: "/reports/coupon/query", Body: map[string]any{"receiveStartTime": queryDate, "receiveEndTime": queryDate}},
		{Group: GroupReports, Name: "免运活动", Path: "/reports/freight-activity/query", Body: dateRange()},
		{Group: GroupReports, Name: "社群拉新", Path: "/reports/invitation/query", Body: dateRange()},
		{Group: GroupReports, Name: "商城用户", Path: "/reports/mall-user/query", Body: map[string]any{"date": queryDate}},
		{Group: GroupReports, Name: "助力活动", Path: "/reports/support/query", Body: dateRange()},

		{Group: GroupExports, Name: "订单导出", Path: "/orders/export", Body: with(map[string]any{"exportType": "order"})},
		{Group: GroupExports, Name: "社群拉新导出", Path: "/reports/invitation/export", Body: dateRange()},
		{Group: GroupExports, Name: "导出任务列表", Path: "/exports"},
	}

	cases := make([]model.TestCase, 0, len(specs))
	for _, s := range specs {
		cases = append(cases, s.toCase(apiBase))
	}
	return cases
}

// Load 按扩展名读取用例文件
func Load(path, sheet string, headerRow int, apiBase string) ([]model.TestCase, error) {
	var (
		specs []Spec
		err   error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx":
		specs, err = readSheet(path, sheet, headerRow)
	case ".yaml", ".yml":
		specs, err = readYAML(path)
	default:
		return nil, fmt.Errorf("不支持的用例文件格式: %s", path)
	}
	if err != nil {
		return nil, err
	}
	if len(specs) == 0 {
		return nil, fmt.Errorf("没有找到测试用例: %s", path)
	}

	cases := make([]model.TestCase, 0, len(specs))
	for i, s := range specs {
		if strings.TrimSpace(s.Name) == "" {
			return nil, fmt.Errorf("%s 第 %d 条用例缺少名称", path, i+1)
		}
		if strings.TrimSpace(s.Path) == "" {
			return nil, fmt.Errorf("用例 %q 缺少请求路径", s.Name)
		}
		cases = append(cases, s.toCase(apiBase))
	}
	return cases, nil
}

func (s Spec) toCase(apiBase string) model.TestCase {
	tc := model.TestCase{
		Group:         s.Group,
		Name:          s.Name,
		Method:        strings.ToUpper(strings.TrimSpace(s.Method)),
		URL:           resolveURL(apiBase, s.Path),
		ExpectSuccess: s.ExpectSuccess == nil || *s.ExpectSuccess,
		Expect:        strings.TrimSpace(s.Expect),
	}
	// 保持 nil 接口，避免把空 map 当作请求体
	if s.Body != nil {
		tc.Body = s.Body
	}
	if tc.Method == "" {
		tc.Method = http.MethodGet
		if s.Body != nil {
			tc.Method = http.MethodPost
		}
	}
	return tc
}

func resolveURL(apiBase, path string) string {
	path = strings.TrimSpace(path)
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	return strings.TrimRight(apiBase, "/") + "/" + strings.TrimLeft(path, "/")
}
