package highstate

import (
	"sort"
	"strconv"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/jimyag/highstate/pkg/color"
	"github.com/jimyag/highstate/pkg/result"
)

// commentIndent 注释续行对齐到 "Comment: " 之后
const commentIndent = 14

// warningsWidth 警告折行宽度
const warningsWidth = 80

const rule = "----------"

// recordBlock 渲染单个任务的详情块
func (f *Formatter) recordBlock(p color.Palette, rec result.Record, tcolor, ctext string) []string {
	field := func(label, value string) string {
		return "    " + tcolor + label + value + p.Reset
	}

	lines := []string{
		tcolor + rule + p.Reset,
		field("      ID: ", rec.ID.Declaration),
		field("Function: ", rec.ID.Module+"."+rec.ID.Function),
	}
	if rec.ID.Declaration != rec.ID.Name {
		lines = append(lines, field("    Name: ", rec.ID.Name))
	}
	lines = append(lines,
		field("  Result: ", rec.Result.String()),
		field(" Comment: ", commentText(rec)),
	)
	if f.opts.Profile && rec.StartTime != "" {
		lines = append(lines,
			field(" Started: ", rec.StartTime),
			field("Duration: ", durationText(rec.Duration)),
		)
	}
	lines = append(lines, tcolor+"     Changes:   "+ctext+p.Reset)
	return lines
}

// commentText 规范化注释并追加 data 字段
func commentText(rec result.Record) string {
	pad := "\n" + strings.Repeat(" ", commentIndent)
	comment := strings.ReplaceAll(strings.TrimSpace(result.CommentText(rec.Comment)), "\n", pad)

	if !rec.HasExtra {
		return comment
	}
	switch extra := rec.Extra.(type) {
	case []interface{}:
		for _, item := range extra {
			comment += " " + result.Stringify(item)
		}
	case map[string]interface{}:
		keys := make([]string, 0, len(extra))
		for k := range extra {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			comment += "\n\t\t" + k + ": " + result.Stringify(extra[k])
		}
	default:
		comment += " " + result.Stringify(extra)
	}
	return comment
}

func durationText(d result.Duration) string {
	if !d.Present {
		return ""
	}
	if ms, err := d.Millis(); err == nil {
		return strconv.FormatFloat(ms, 'f', -1, 64) + " ms"
	}
	return result.Stringify(d.Raw)
}

func warningsLine(p color.Palette, warnings []string) string {
	text := wrapText(strings.Join(warnings, "\n"), warningsWidth, commentIndent)
	return "   " + p.Warning + " Warnings: " + strings.TrimLeft(text, " ") + p.Reset
}

// wrapText 按单词折行，每行（含缩进）不超过 width 个显示列
// 超长的单词单独占一行
func wrapText(text string, width, indent int) string {
	pad := strings.Repeat(" ", indent)
	words := strings.Fields(text)
	if len(words) == 0 {
		return ""
	}

	var (
		lines []string
		cur   = pad + words[0]
		curW  = indent + runewidth.StringWidth(words[0])
	)
	for _, w := range words[1:] {
		ww := runewidth.StringWidth(w)
		if curW+1+ww > width {
			lines = append(lines, cur)
			cur, curW = pad+w, indent+ww
			continue
		}
		cur += " " + w
		curW += 1 + ww
	}
	lines = append(lines, cur)
	return strings.Join(lines, "\n")
}
