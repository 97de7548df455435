package highstate

import (
	"fmt"
	"strings"

	"github.com/jimyag/highstate/pkg/result"
)

// changesIndent 嵌套输出相对于 "Changes:" 的缩进
const changesIndent = 14

// maxNestedDepth 嵌套结果树的最大深度
const maxNestedDepth = 32

// formatChanges 渲染任务的 changes，返回是否视为变更以及文本
func (f *Formatter) formatChanges(rc renderContext, rec result.Record) (bool, string) {
	ch := rec.Changes
	if ch.Empty() {
		return false, ""
	}

	if rec.Orchestration {
		return true, f.nestedChanges(rc, ch.Value)
	}

	if _, ok := ch.Value.(map[string]interface{}); !ok {
		return true, "Invalid Changes data: " + result.Stringify(ch.Value)
	}

	if ch.IsNested {
		if rc.depth >= maxNestedDepth {
			return true, fmt.Sprintf("Invalid Changes data: nested result depth exceeds %d", maxNestedDepth)
		}
		return f.nestedTree(rc.nested(), ch.Nested)
	}

	return true, f.nestedChanges(rc, ch.Value)
}

// nestedTree 递归渲染 changes 中嵌套的结果树，每行缩进 14 个空格
func (f *Formatter) nestedTree(rc renderContext, tree result.Tree) (bool, string) {
	pad := strings.Repeat(" ", changesIndent)

	var (
		b       strings.Builder
		changed bool
	)
	for _, host := range tree {
		text, c := f.formatHost(rc, host.Name, host.Result)
		for _, line := range strings.Split(text, "\n") {
			b.WriteString("\n")
			b.WriteString(pad)
			b.WriteString(line)
		}
		changed = changed || c
	}
	return changed, b.String()
}

func (f *Formatter) nestedChanges(rc renderContext, value interface{}) string {
	return "\n" + f.opts.Renderer.Render(value, changesIndent, rc.palette.Accent)
}
