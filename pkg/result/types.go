// Package result 定义 state 执行结果树的数据模型
package result

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/jimyag/highstate/pkg/errors"
)

// IDDelimiter 任务 ID 各部分之间的分隔符
const IDDelimiter = "_|-"

// durationSuffix 文本形式耗时的单位后缀
const durationSuffix = " ms"

// 记录中的字段名
const (
	FieldResult        = "result"
	FieldComment       = "comment"
	FieldChanges       = "changes"
	FieldDuration      = "duration"
	FieldStartTime     = "start_time"
	FieldOrder         = "__run_num__"
	FieldWarnings      = "warnings"
	FieldExtra         = "data"
	FieldOrchestration = "__orchestration__"
)

// Outcome 任务结果三态
type Outcome int

const (
	Success Outcome = iota
	Failure
	Unknown // 未执行（test=True）
)

// String 返回结果的文本形式
func (o Outcome) String() string {
	switch o {
	case Success:
		return "True"
	case Failure:
		return "False"
	default:
		return "None"
	}
}

// ID 任务 ID 的四个组成部分
type ID struct {
	Module      string // state 模块，如 pkg
	Declaration string // 声明的 ID
	Name        string // 解析后的 name
	Function    string // 执行的函数，如 installed
}

// ParseID 拆分任务 ID，缺少的部分为空字符串，多余的部分并入 Function
func ParseID(raw string) ID {
	parts := strings.SplitN(raw, IDDelimiter, 4)
	for len(parts) < 4 {
		parts = append(parts, "")
	}
	return ID{
		Module:      parts[0],
		Declaration: parts[1],
		Name:        parts[2],
		Function:    parts[3],
	}
}

// Tree 顶层结果：主机 → 主机结果，保持输入顺序
type Tree []Host

// Host 单个主机的结果
type Host struct {
	Name   string
	Result HostResult
}

// HostResult 主机结果，只有 Scalar、ErrorList、RecordMap 三种实现
type HostResult interface {
	hostResult()
}

// Scalar 非 state 函数返回的单个值，总是视为 changed
type Scalar struct {
	Value interface{}
}

// ErrorList 编译失败时返回的错误列表
type ErrorList struct {
	Errors []string
}

// RecordMap 正常的任务记录集合
type RecordMap struct {
	Entries []Entry
}

func (Scalar) hostResult()    {}
func (ErrorList) hostResult() {}
func (RecordMap) hostResult() {}

// String 返回标量的文本形式
func (s Scalar) String() string {
	return Stringify(s.Value)
}

// Entry RecordMap 中的一项，尚未校验
type Entry struct {
	Key    string
	Value  interface{}
	Fields map[string]interface{} // Value 为 mapping 时有效

	nested   Tree
	isNested bool
}

// NewEntry 从原始值创建 Entry
func NewEntry(key string, value interface{}) Entry {
	e := Entry{Key: key, Value: value}
	if m, ok := value.(map[string]interface{}); ok {
		e.Fields = m
		if tree, ok := nestedFromValue(m[FieldChanges]); ok {
			e.nested = tree
			e.isNested = true
		}
	}
	return e
}

// IsMapping 值是否为非空 mapping
func (e Entry) IsMapping() bool {
	return len(e.Fields) > 0
}

// HasOrder 是否记录了执行顺序
func (e Entry) HasOrder() bool {
	_, ok := e.Fields[FieldOrder]
	return ok
}

// HasResult 是否包含 result 字段
func (e Entry) HasResult() bool {
	_, ok := e.Fields[FieldResult]
	return ok
}

// Record 返回 Entry 的类型化视图，缺少 result 时返回 false
func (e Entry) Record() (Record, bool) {
	if !e.HasResult() {
		return Record{}, false
	}

	rec := Record{
		Key:     e.Key,
		ID:      ParseID(e.Key),
		Result:  outcomeOf(e.Fields[FieldResult]),
		Comment: e.Fields[FieldComment],
		Changes: Changes{
			Value:    e.Fields[FieldChanges],
			Nested:   e.nested,
			IsNested: e.isNested,
		},
	}

	if raw, ok := e.Fields[FieldDuration]; ok {
		rec.Duration = Duration{Raw: raw, Present: true}
	}
	if raw, ok := e.Fields[FieldStartTime]; ok && raw != nil {
		rec.StartTime = Stringify(raw)
	}
	if raw, ok := e.Fields[FieldOrder]; ok {
		rec.Order = toInt(raw)
		rec.HasOrder = true
	}
	if raw, ok := e.Fields[FieldWarnings]; ok {
		rec.Warnings = stringList(raw)
		rec.HasWarnings = true
	}
	if raw, ok := e.Fields[FieldExtra]; ok {
		rec.Extra = raw
		rec.HasExtra = true
	}
	rec.Orchestration = IsTruthy(e.Fields[FieldOrchestration])

	return rec, true
}

// Record 单个任务的结果
type Record struct {
	Key           string
	ID            ID
	Result        Outcome
	Comment       interface{}
	Changes       Changes
	Duration      Duration
	StartTime     string
	Order         int
	HasOrder      bool
	Warnings      []string
	HasWarnings   bool
	Extra         interface{}
	HasExtra      bool
	Orchestration bool
}

// Changes 任务的 changes，可能嵌套了另一棵结果树
type Changes struct {
	Value    interface{}
	Nested   Tree
	IsNested bool
}

// Empty changes 是否为空
func (c Changes) Empty() bool {
	return !IsTruthy(c.Value)
}

// Duration 任务耗时（毫秒），可能是数字或带 " ms" 后缀的文本
type Duration struct {
	Raw     interface{}
	Present bool
}

// Millis 解析耗时；未设置时返回 0
// 文本只接受纯数字或以 " ms" 结尾的数字，非有限值视为无法解析
func (d Duration) Millis() (float64, error) {
	if !d.Present || d.Raw == nil {
		return 0, nil
	}

	var ms float64
	switch v := d.Raw.(type) {
	case int:
		ms = float64(v)
	case int64:
		ms = float64(v)
	case uint64:
		ms = float64(v)
	case float64:
		ms = v
	case float32:
		ms = float64(v)
	case string:
		num, _ := strings.CutSuffix(strings.TrimSpace(v), durationSuffix)
		f, err := strconv.ParseFloat(strings.TrimSpace(num), 64)
		if err != nil {
			return 0, errors.NewDurationError("", d.Raw, err)
		}
		ms = f
	default:
		return 0, errors.NewDurationError("", d.Raw, fmt.Errorf("unsupported type %T", d.Raw))
	}

	if math.IsNaN(ms) || math.IsInf(ms, 0) {
		return 0, errors.NewDurationError("", d.Raw, fmt.Errorf("not a finite number"))
	}
	return ms, nil
}

// CommentText 把 comment 规范化为单个字符串
// 依次尝试：字符串、字符串列表（按行拼接）、通用转换
func CommentText(v interface{}) string {
	for _, convert := range commentConverters {
		if s, ok := convert(v); ok {
			return s
		}
	}
	return fmt.Sprint(v)
}

var commentConverters = []func(interface{}) (string, bool){
	func(v interface{}) (string, bool) {
		s, ok := v.(string)
		return s, ok
	},
	func(v interface{}) (string, bool) {
		switch list := v.(type) {
		case []string:
			return strings.Join(list, "\n"), true
		case []interface{}:
			parts := make([]string, 0, len(list))
			for _, item := range list {
				parts = append(parts, Stringify(item))
			}
			return strings.Join(parts, "\n"), true
		}
		return "", false
	},
	func(v interface{}) (string, bool) {
		if v == nil {
			return "", true
		}
		return Stringify(v), true
	},
}

// Stringify 将任意值转换为文本，nil/布尔值使用 None/True/False
func Stringify(v interface{}) string {
	switch t := v.(type) {
	case nil:
		return "None"
	case string:
		return t
	case bool:
		if t {
			return "True"
		}
		return "False"
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case fmt.Stringer:
		return t.String()
	default:
		return fmt.Sprint(v)
	}
}

// IsTruthy 判断值是否为“非空”
func IsTruthy(v interface{}) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case string:
		return t != ""
	case int:
		return t != 0
	case int64:
		return t != 0
	case uint64:
		return t != 0
	case float64:
		return t != 0
	case map[string]interface{}:
		return len(t) > 0
	case []interface{}:
		return len(t) > 0
	case []string:
		return len(t) > 0
	default:
		return true
	}
}

func outcomeOf(v interface{}) Outcome {
	switch t := v.(type) {
	case nil:
		return Unknown
	case bool:
		if t {
			return Success
		}
		return Failure
	default:
		if IsTruthy(t) {
			return Success
		}
		return Failure
	}
}

func toInt(v interface{}) int {
	switch t := v.(type) {
	case int:
		return t
	case int64:
		return int(t)
	case uint64:
		return int(t)
	case float64:
		return int(t)
	case string:
		if n, err := strconv.Atoi(strings.TrimSpace(t)); err == nil {
			return n
		}
	}
	return 0
}

func stringList(v interface{}) []string {
	switch t := v.(type) {
	case nil:
		return nil
	case []string:
		return t
	case []interface{}:
		out := make([]string, 0, len(t))
		for _, item := range t {
			out = append(out, Stringify(item))
		}
		return out
	default:
		return []string{Stringify(t)}
	}
}
