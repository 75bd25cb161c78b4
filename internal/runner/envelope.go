package runner

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrNotObject 响应体是合法 JSON 但不是对象，例如列表或 null
var ErrNotObject = errors.New("响应不是 JSON 对象")

// Flag 表示 success 字段的三种状态
type Flag int

const (
	FlagAbsent Flag = iota
	FlagTruthy
	FlagFalsy
)

// ItemShape 描述 data 字段中列表的位置
type ItemShape int

const (
	Uncountable ItemShape = iota
	ItemsList             // data.items 是列表
	DataList              // data 本身是列表
)

// Envelope 是接口响应的统一外壳：{success, status, error, data}
type Envelope struct {
	Success Flag
	Status  string
	Error   string
	Shape   ItemShape
	Items   []any
}

// ParseEnvelope 解析响应体，body 必须是 JSON 对象
func ParseEnvelope(body []byte) (Envelope, any, error) {
	var doc any
	if err := json.Unmarshal(body, &doc); err != nil {
		return Envelope{}, nil, err
	}

	var env Envelope
	obj, ok := doc.(map[string]any)
	if !ok {
		return env, doc, ErrNotObject
	}

	if v, present := obj["success"]; present {
		if truthy(v) {
			env.Success = FlagTruthy
		} else {
			env.Success = FlagFalsy
		}
	}
	if s, ok := obj["status"].(string); ok {
		env.Status = s
	}
	env.Error = errorText(obj["error"])

	switch data := obj["data"].(type) {
	case map[string]any:
		if items, ok := data["items"].([]any); ok {
			env.Shape, env.Items = ItemsList, items
		}
	case []any:
		env.Shape, env.Items = DataList, data
	}
	return env, doc, nil
}

// OK 判定顺序：success 存在时只看 success；否则看 status == "ok"
func (e Envelope) OK() bool {
	switch e.Success {
	case FlagTruthy:
		return true
	case FlagFalsy:
		return false
	}
	return e.Status == "ok"
}

// Count 返回条数，data 形状不明确时 ok 为 false
func (e Envelope) Count() (n int, ok bool) {
	if e.Shape == Uncountable {
		return 0, false
	}
	return len(e.Items), true
}

// FailureText 失败时展示的错误描述
func (e Envelope) FailureText() string {
	if e.Error != "" {
		return e.Error
	}
	return "未知错误"
}

func truthy(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case float64:
		return t != 0
	case string:
		return t != ""
	case []any:
		return len(t) > 0
	case map[string]any:
		return len(t) > 0
	}
	return true
}

func errorText(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case map[string]any:
		if msg, ok := t["message"].(string); ok {
			return msg
		}
	}
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprint(v)
	}
	return string(b)
}
