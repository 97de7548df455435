// Package highstate 将 state 执行结果树渲染为可读的文本报告
package highstate

import (
	"fmt"
	"sort"
	"strings"

	"github.com/jimyag/highstate/pkg/color"
	"github.com/jimyag/highstate/pkg/errors"
	"github.com/jimyag/highstate/pkg/logger"
	"github.com/jimyag/highstate/pkg/nested"
	"github.com/jimyag/highstate/pkg/pretty"
	"github.com/jimyag/highstate/pkg/result"
	"github.com/jimyag/highstate/pkg/terse"
)

const missingOrderMsg = "The State execution failed to record the order in which all states were executed. The state return missing data is:"

// Formatter 结果树格式化器，创建后只读，可重复使用
type Formatter struct {
	opts  Options
	terse *terse.Formatter
}

// renderContext 单次渲染的上下文，按值传递
// 嵌套结果树使用派生出的副本，不会影响调用方
type renderContext struct {
	palette color.Palette
	header  string // 主机头的初始颜色
	depth   int
}

func (rc renderContext) nested() renderContext {
	rc.header = rc.palette.Accent
	rc.depth++
	return rc
}

// New 创建格式化器
func New(opts Options) (*Formatter, error) {
	if opts.StateOutput == "" {
		opts.StateOutput = OutputFull
	}
	if opts.Renderer == nil {
		opts.Renderer = nested.NewRenderer(opts.Palette, opts.StripColors)
	}
	if opts.Dumper == nil {
		opts.Dumper = pretty.NewDumper(pretty.DefaultIndent)
	}

	tf, err := terse.New(opts.Palette, terse.Options{
		Tabular:  opts.Tabular,
		Template: opts.Template,
		Profile:  opts.Profile,
	})
	if err != nil {
		return nil, err
	}

	return &Formatter{opts: opts, terse: tf}, nil
}

// Format 渲染整棵结果树，主机之间用换行分隔
func (f *Formatter) Format(tree result.Tree) string {
	out := make([]string, 0, len(tree))
	for _, host := range tree {
		text, _ := f.FormatHost(host.Name, host.Result)
		out = append(out, text)
	}
	return strings.Join(out, "\n")
}

// FormatHost 渲染单个主机，返回文本以及是否有任务产生变更
func (f *Formatter) FormatHost(host string, hr result.HostResult) (string, bool) {
	return f.formatHost(f.rootContext(), host, hr)
}

func (f *Formatter) rootContext() renderContext {
	return renderContext{palette: f.opts.Palette, header: f.opts.Palette.Success}
}

func (f *Formatter) formatHost(rc renderContext, host string, hr result.HostResult) (text string, changed bool) {
	p := rc.palette
	if f.opts.StripColors {
		host = color.Strip(host)
	}

	// 单个主机出错不影响其他主机
	defer func() {
		if r := recover(); r != nil {
			err := errors.NewRenderError(host, fmt.Errorf("%v", r))
			logger.Err(err, map[string]interface{}{"host": host})
			text = p.Wrap(p.Failure, host+":") + "\n    " + p.Wrap(p.Failure, err.Error())
			changed = false
		}
	}()

	var (
		body   []string
		header = rc.header
	)

	switch v := hr.(type) {
	case result.Scalar:
		body = []string{rc.header + "    " + v.String() + p.Reset}
		header = p.Highlight
		changed = true
	case result.ErrorList:
		body = f.formatErrors(p, v)
		header = p.Warning
	case result.RecordMap:
		body, header, changed = f.formatRecords(rc, host, v)
	default:
		panic(fmt.Sprintf("unsupported host result %T", hr))
	}

	lines := make([]string, 0, len(body)+1)
	lines = append(lines, p.Wrap(header, host+":"))
	lines = append(lines, body...)
	return strings.Join(lines, "\n"), changed
}

func (f *Formatter) formatErrors(p color.Palette, el result.ErrorList) []string {
	lines := []string{"    " + p.Wrap(p.Warning, "Data failed to compile:")}
	for _, msg := range el.Errors {
		if f.opts.StripColors {
			msg = color.Strip(msg)
		}
		lines = append(lines, p.Wrap(p.Warning, "----------\n    "+msg))
	}
	return lines
}

func (f *Formatter) formatRecords(rc renderContext, host string, rm result.RecordMap) ([]string, string, bool) {
	p := rc.palette
	header := rc.header
	severity := severityOf(result.Success)

	var (
		preamble []string
		records  []result.Record
	)
	for _, e := range rm.Entries {
		if e.IsMapping() && !e.HasOrder() {
			preamble = append(preamble, missingOrderMsg, f.opts.Dumper.Dump(e.Value))
		}
		if rec, ok := e.Record(); ok {
			records = append(records, rec)
		}
	}

	sort.SliceStable(records, func(i, j int) bool {
		return records[i].Order < records[j].Order
	})

	summary := NewSummary(host)
	lines := preamble
	for _, rec := range records {
		summary.Count(rec.Result)

		if ms, err := rec.Duration.Millis(); err != nil {
			logger.Err(err, map[string]interface{}{"host": host, "state": rec.Key})
		} else if rec.Duration.Present {
			summary.AddDuration(ms)
		}

		tcolor := p.Success
		schanged, ctext := f.formatChanges(rc, rec)
		if schanged {
			summary.Changed++
			tcolor = p.Highlight
		}

		switch rec.Result {
		case result.Failure:
			tcolor = p.Failure
		case result.Unknown:
			tcolor = p.Unknown
		}
		// 主机头颜色只升级不降级：Failure > Unknown > Success
		if s := severityOf(rec.Result); s > severity {
			severity = s
			header = tcolor
		}

		if rec.Result == result.Success && !f.opts.Verbose {
			continue
		}

		if f.useTerse(rec, schanged) {
			lines = append(lines, f.terse.Line(rec, tcolor))
			continue
		}

		lines = append(lines, f.recordBlock(p, rec, tcolor, ctext)...)
		if rec.HasWarnings {
			summary.Warnings++
			lines = append(lines, warningsLine(p, rec.Warnings))
		}
	}

	lines = append(lines, summary.Lines(p, f.opts.Profile)...)
	return lines, header, summary.Changed > 0
}

func (f *Formatter) useTerse(rec result.Record, changed bool) bool {
	switch f.opts.StateOutput {
	case OutputTerse:
		return true
	case OutputMixed:
		return rec.Result == result.Success && !changed
	default:
		return false
	}
}

func severityOf(o result.Outcome) int {
	switch o {
	case result.Failure:
		return 2
	case result.Unknown:
		return 1
	default:
		return 0
	}
}
