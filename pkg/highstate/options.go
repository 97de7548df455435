package highstate

import (
	"strings"

	"github.com/jimyag/highstate/pkg/color"
	"github.com/jimyag/highstate/pkg/config"
	"github.com/jimyag/highstate/pkg/nested"
	"github.com/jimyag/highstate/pkg/pretty"
)

// OutputMode 单个任务的输出方式
type OutputMode string

const (
	// OutputFull 多行详情块
	OutputFull OutputMode = "full"
	// OutputTerse 每个任务一行
	OutputTerse OutputMode = "terse"
	// OutputMixed 未变更的成功任务一行，其余多行
	OutputMixed OutputMode = "mixed"
)

// ParseOutputMode 解析输出方式，未知值返回 OutputFull
func ParseOutputMode(s string) OutputMode {
	switch OutputMode(strings.ToLower(strings.TrimSpace(s))) {
	case OutputTerse:
		return OutputTerse
	case OutputMixed:
		return OutputMixed
	default:
		return OutputFull
	}
}

// Renderer 渲染非嵌套结果树的 changes
type Renderer interface {
	Render(value interface{}, indent int, color string) string
}

// Dumper 输出缺少执行顺序的记录
type Dumper interface {
	Dump(value interface{}) string
}

// Options 格式化选项
type Options struct {
	Palette     color.Palette
	StripColors bool
	// Verbose 同时输出成功的任务
	Verbose     bool
	StateOutput OutputMode
	// Tabular 和 Template 只在 terse/mixed 模式下使用
	Tabular  bool
	Template string
	// Profile 输出 start_time、duration 以及总耗时
	Profile bool

	Renderer Renderer
	Dumper   Dumper
}

// OptionsFromConfig 根据配置构建选项
func OptionsFromConfig(cfg *config.Config) (Options, error) {
	palette, err := color.Resolve(cfg.Color, cfg.ColorTheme).WithOverrides(cfg.ThemeOverrides)
	if err != nil {
		return Options{}, err
	}
	return Options{
		Palette:     palette,
		StripColors: cfg.StripColors,
		Verbose:     cfg.StateVerbose,
		StateOutput: ParseOutputMode(cfg.StateOutput),
		Tabular:     cfg.StateTabular.Enabled,
		Template:    cfg.StateTabular.Template,
		Profile:     cfg.StateOutputProfile,
		Dumper:      pretty.NewDumper(cfg.OutputIndent.Value()),
		Renderer:    nested.NewRenderer(palette, cfg.StripColors),
	}, nil
}
