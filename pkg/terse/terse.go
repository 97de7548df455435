// Package terse 把单个任务渲染成一行简洁输出
package terse

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/jimyag/highstate/pkg/color"
	"github.com/jimyag/highstate/pkg/errors"
	"github.com/jimyag/highstate/pkg/logger"
	"github.com/jimyag/highstate/pkg/result"
)

// 任务状态
const (
	StatusClean   = "Clean"
	StatusChanged = "Changed"
	StatusFailed  = "Failed"
	StatusDiffers = "Differs"
)

// Options terse 输出选项
type Options struct {
	// Tabular 使用固定列宽的表格形式
	Tabular bool
	// Template 调用方提供的单行模板，优先于 Tabular
	Template string
	// Profile 输出 start_time 和 duration
	Profile bool
}

// Formatter 单行格式化器
type Formatter struct {
	palette color.Palette
	opts    Options
	tmpl    lineTemplate
}

// New 创建格式化器，模板在这里编译一次
func New(palette color.Palette, opts Options) (*Formatter, error) {
	f := &Formatter{palette: palette, opts: opts}
	if opts.Template != "" {
		tmpl, err := compile(opts.Template)
		if err != nil {
			return nil, errors.NewTemplateError("", err)
		}
		f.tmpl = tmpl
	}
	return f, nil
}

// Status 根据结果和 changes 计算状态
func Status(rec result.Record) string {
	switch {
	case rec.Result == result.Failure:
		return StatusFailed
	case rec.Result == result.Unknown:
		return StatusDiffers
	case !rec.Changes.Empty():
		return StatusChanged
	default:
		return StatusClean
	}
}

// Line 渲染一行，c 为任务颜色
func (f *Formatter) Line(rec result.Record, c string) string {
	if f.tmpl != nil {
		out, err := f.tmpl.render(f.fields(rec, c))
		if err == nil {
			return out
		}
		logger.Err(errors.NewTemplateError(rec.Key, err), map[string]interface{}{"state": rec.Key})
		return f.defaultLine(rec, c)
	}
	if f.opts.Tabular {
		return f.tabularLine(rec, c)
	}
	return f.defaultLine(rec, c)
}

func (f *Formatter) tabularLine(rec result.Record, c string) string {
	var b strings.Builder
	b.WriteString(f.warnings(rec))
	b.WriteString(c)
	if f.showProfile(rec) {
		fmt.Fprintf(&b, "%s [%7s ms] ", rec.StartTime, durationText(rec))
	}
	fmt.Fprintf(&b, "%4d %s.%s %s   Name: %s%s",
		rec.Order,
		runewidth.FillLeft(rec.ID.Module, 10),
		runewidth.FillRight(rec.ID.Function, 10),
		runewidth.FillRight(Status(rec), 7),
		rec.ID.Name,
		f.palette.Reset)
	return b.String()
}

func (f *Formatter) defaultLine(rec result.Record, c string) string {
	var b strings.Builder
	b.WriteString(f.warnings(rec))
	fmt.Fprintf(&b, " %s Name: %s - Function: %s.%s - Result: %s",
		c, rec.ID.Name, rec.ID.Module, rec.ID.Function, Status(rec))
	if f.showProfile(rec) {
		fmt.Fprintf(&b, " Started: - %s Duration: %s ms", rec.StartTime, durationText(rec))
	}
	b.WriteString(f.palette.Reset)
	return b.String()
}

func (f *Formatter) warnings(rec result.Record) string {
	if !rec.HasWarnings {
		return ""
	}
	return f.palette.Warning + "Warnings:\n" + strings.Join(rec.Warnings, "\n") + f.palette.Reset + "\n"
}

func (f *Formatter) showProfile(rec result.Record) bool {
	return f.opts.Profile && rec.StartTime != ""
}

func (f *Formatter) fields(rec result.Record, c string) map[string]interface{} {
	return map[string]interface{}{
		"color":       c,
		"reset":       f.palette.Reset,
		"order":       rec.Order,
		"id":          rec.Key,
		"module":      rec.ID.Module,
		"declaration": rec.ID.Declaration,
		"name":        rec.ID.Name,
		"function":    rec.ID.Function,
		"status":      Status(rec),
		"result":      rec.Result.String(),
		"comment":     result.CommentText(rec.Comment),
		"duration":    durationText(rec),
		"start_time":  rec.StartTime,
	}
}

// durationText 返回毫秒数，无法解析时原样输出
func durationText(rec result.Record) string {
	if !rec.Duration.Present {
		return ""
	}
	if ms, err := rec.Duration.Millis(); err == nil {
		return strconv.FormatFloat(ms, 'f', -1, 64)
	}
	return result.Stringify(rec.Duration.Raw)
}
