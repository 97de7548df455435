package highstate

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/jimyag/highstate/pkg/color"
	"github.com/jimyag/highstate/pkg/result"
)

// 统计标签
const (
	labelSucceeded = "Succeeded"
	labelFailed    = "Failed"
	labelNotRun    = "Not Run"
	labelWarnings  = "Warnings"
)

var summaryLabels = []string{labelSucceeded, labelFailed, labelNotRun, labelWarnings}

// Summary 单个主机的统计信息，每次格式化主机时新建
type Summary struct {
	Host      string
	Success   int
	Failure   int
	Unknown   int
	Warnings  int
	Changed   int
	durations []float64
}

// NewSummary 创建统计
func NewSummary(host string) *Summary {
	return &Summary{Host: host}
}

// Count 记录一个任务结果
func (s *Summary) Count(o result.Outcome) {
	switch o {
	case result.Success:
		s.Success++
	case result.Failure:
		s.Failure++
	default:
		s.Unknown++
	}
}

// AddDuration 记录一个任务耗时（毫秒）
func (s *Summary) AddDuration(ms float64) {
	s.durations = append(s.durations, ms)
}

// Total 执行的任务总数，不含警告
func (s *Summary) Total() int {
	return s.Success + s.Failure + s.Unknown
}

// TotalDuration 所有可解析耗时之和（毫秒）
func (s *Summary) TotalDuration() float64 {
	var sum float64
	for _, d := range s.durations {
		sum += d
	}
	return sum
}

// width 分隔线宽度：最长标签 + 最长计数 + ": "
func (s *Summary) width() int {
	labelMax := 0
	for _, l := range summaryLabels {
		labelMax = max(labelMax, len(l))
	}
	countMax := 0
	for _, c := range []int{s.Success, s.Failure, s.Unknown, s.Warnings} {
		if c > 0 {
			countMax = max(countMax, len(strconv.Itoa(c)))
		}
	}
	return labelMax + countMax + 2
}

// Lines 渲染统计块
func (s *Summary) Lines(p color.Palette, profile bool) []string {
	w := s.width()
	dashes := strings.Repeat("-", w)
	counts := func(label string, n int) string {
		return fmt.Sprintf("%s: %*d", label, w-(len(label)+2), n)
	}

	lines := []string{
		p.Wrap(p.Highlight, "\nSummary for "+s.Host+"\n"+dashes),
	}

	var stats []string
	if s.Unknown > 0 {
		stats = append(stats, p.Wrap(p.Unknown, fmt.Sprintf("unchanged=%d", s.Unknown)))
	}
	if s.Changed > 0 {
		stats = append(stats, p.Wrap(p.Success, fmt.Sprintf("changed=%d", s.Changed)))
	}
	succeeded := p.Wrap(p.Success, counts(labelSucceeded, s.Success+s.Unknown))
	if len(stats) > 0 {
		succeeded += " (" + strings.Join(stats, ", ") + ")"
	}
	lines = append(lines, succeeded)

	failedColor := p.Highlight
	if s.Failure > 0 {
		failedColor = p.Failure
	}
	lines = append(lines, p.Wrap(failedColor, counts(labelFailed, s.Failure)))

	if s.Warnings > 0 {
		lines = append(lines, p.Wrap(p.Warning, counts(labelWarnings, s.Warnings)))
	}

	lines = append(lines, p.Wrap(p.Highlight,
		fmt.Sprintf("%s\nTotal states run: %*d", dashes, w-7, s.Total())))

	if profile {
		sum, unit := s.TotalDuration(), "ms"
		if sum > 999 {
			sum, unit = sum/1000, "s"
		}
		lines = append(lines, p.Wrap(p.Highlight,
			fmt.Sprintf("Total run time: %*s %s", w-5, fmt.Sprintf("%.3f", sum), unit)))
	}
	return lines
}
