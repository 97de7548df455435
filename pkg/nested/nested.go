// Package nested 以缩进的方式渲染任意嵌套结构
//
// 输出格式：
//
//	----------
//	key:
//	    value
//	list:
//	    - item
//	    |_
//	      ----------
//	      inner:
//	          value
package nested

import (
	"sort"
	"strings"

	"github.com/jimyag/highstate/pkg/color"
	"github.com/jimyag/highstate/pkg/result"
)

const separator = "----------"

// Renderer 通用结构渲染器
type Renderer struct {
	palette     color.Palette
	stripColors bool
}

// NewRenderer 创建渲染器
func NewRenderer(palette color.Palette, stripColors bool) *Renderer {
	return &Renderer{palette: palette, stripColors: stripColors}
}

// Render 从 indent 列开始渲染 value，keyColor 用于 mapping 的 key 和分隔线
func (r *Renderer) Render(value interface{}, indent int, keyColor string) string {
	lines := r.display(value, indent, "", keyColor, nil)
	return strings.Join(lines, "\n")
}

func (r *Renderer) display(value interface{}, indent int, prefix, keyColor string, out []string) []string {
	switch v := value.(type) {
	case nil, bool, int, int64, uint64, float64, float32:
		return append(out, r.line(indent, r.palette.Unknown, result.Stringify(v), prefix, ""))
	case string:
		first := true
		for _, l := range splitLines(v) {
			if r.stripColors {
				l = color.Strip(l)
			}
			p := prefix
			if !first {
				p = strings.Repeat(" ", len(prefix))
			}
			out = append(out, r.line(indent, r.palette.Success, l, p, ""))
			first = false
		}
		return out
	case []interface{}:
		for _, item := range v {
			switch item.(type) {
			case []interface{}, map[string]interface{}:
				out = append(out, r.line(indent, r.palette.Success, "|_", "", ""))
				p := "- "
				if _, ok := item.(map[string]interface{}); ok {
					p = ""
				}
				out = r.display(item, indent+2, p, keyColor, out)
			default:
				out = r.display(item, indent, "- ", keyColor, out)
			}
		}
		return out
	case map[string]interface{}:
		if indent > 0 {
			out = append(out, r.line(indent, keyColor, separator, "", ""))
		}
		keys := make([]string, 0, len(v))
		for k := range v {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			out = append(out, r.line(indent, keyColor, k, prefix, ":"))
			out = r.display(v[k], indent+4, "", keyColor, out)
		}
		return out
	default:
		return append(out, r.line(indent, r.palette.Success, result.Stringify(v), prefix, ""))
	}
}

func (r *Renderer) line(indent int, c, msg, prefix, suffix string) string {
	return strings.Repeat(" ", indent) + c + prefix + msg + r.palette.Reset + suffix
}

// splitLines 与 Python 的 splitlines 一致：空字符串没有行，不保留末尾空行
func splitLines(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(strings.TrimSuffix(s, "\n"), "\n")
}
