// Package pretty 把任意结构输出为缩进的 YAML 文本
package pretty

import (
	"bytes"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultIndent 默认缩进
const DefaultIndent = 2

// PrettyIndent output_indent 为 "pretty" 时使用的缩进
const PrettyIndent = 4

// Dumper 结构化数据输出器
type Dumper struct {
	Indent int
}

// NewDumper 创建输出器，indent 超出 yaml 支持范围时使用默认值
func NewDumper(indent int) *Dumper {
	if indent < 2 || indent > 9 {
		indent = DefaultIndent
	}
	return &Dumper{Indent: indent}
}

// Dump 输出 value 的 YAML 表示，去掉末尾换行
// 编码失败时回退到 %#v
func (d *Dumper) Dump(value interface{}) string {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(d.Indent)
	if err := enc.Encode(value); err != nil {
		return fmt.Sprintf("%#v", value)
	}
	if err := enc.Close(); err != nil {
		return fmt.Sprintf("%#v", value)
	}
	return strings.TrimRight(buf.String(), "\n")
}
