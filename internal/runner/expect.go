package runner

import (
	"context"
	"fmt"

	"github.com/itchyny/gojq"
)

// checkExpect 用 jq 表达式校验响应体，第一个输出必须为真（非 false/null）
func checkExpect(ctx context.Context, expr string, doc any) error {
	query, err := gojq.Parse(expr)
	if err != nil {
		return fmt.Errorf("期望表达式无效: %w", err)
	}

	iter := query.RunWithContext(ctx, doc)
	v, ok := iter.Next()
	if !ok {
		return fmt.Errorf("期望不满足: %s", expr)
	}
	if err, isErr := v.(error); isErr {
		return fmt.Errorf("期望表达式执行失败: %w", err)
	}
	if v == nil || v == false {
		return fmt.Errorf("期望不满足: %s", expr)
	}
	return nil
}
