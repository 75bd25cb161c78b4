package suite

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
	"gopkg.in/yaml.v3"
)

// 表格列顺序
const (
	colGroup = iota
	colName
	colMethod
	colPath
	colBody
	colExpectSuccess
	colExpect
)

// SheetHeaders 用例表的表头
var SheetHeaders = []string{"分组", "用例名称", "请求方法", "请求路径", "请求体", "校验success", "期望表达式"}

func readSheet(path, sheet string, headerRow int) ([]Spec, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("无法打开Excel文件: %w", err)
	}
	defer f.Close()

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("无法读取工作表 %s: %w", sheet, err)
	}
	if headerRow > len(rows) {
		return nil, nil
	}

	var specs []Spec
	for i, row := range rows[headerRow:] {
		if blank(row) {
			continue
		}
		line := headerRow + i + 1

		spec := Spec{
			Group:  cell(row, colGroup),
			Name:   cell(row, colName),
			Method: cell(row, colMethod),
			Path:   cell(row, colPath),
			Expect: cell(row, colExpect),
		}
		if raw := cell(row, colBody); raw != "" {
			if err := json.Unmarshal([]byte(raw), &spec.Body); err != nil {
				return nil, fmt.Errorf("第 %d 行请求体不是有效 JSON: %w", line, err)
			}
		}
		if raw := cell(row, colExpectSuccess); raw != "" {
			v, err := parseFlag(raw)
			if err != nil {
				return nil, fmt.Errorf("第 %d 行校验success无效: %w", line, err)
			}
			spec.ExpectSuccess = &v
		}
		specs = append(specs, spec)
	}
	return specs, nil
}

type yamlSuite struct {
	Cases []Spec `yaml:"cases"`
}

func readYAML(path string) ([]Spec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("读取用例文件失败: %w", err)
	}
	var s yamlSuite
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("解析用例文件 %s 失败: %w", path, err)
	}
	return s.Cases, nil
}

func cell(row []string, col int) string {
	if col >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[col])
}

func blank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

func parseFlag(s string) (bool, error) {
	switch strings.TrimSpace(s) {
	case "是", "Y", "y", "yes":
		return true, nil
	case "否", "N", "n", "no":
		return false, nil
	}
	return strconv.ParseBool(s)
}
