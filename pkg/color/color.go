// Package color 解析报告使用的颜色主题
package color

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/x/ansi"

	"github.com/jimyag/highstate/pkg/logger"
)

// 颜色代码
const (
	Reset        = "\033[0m"
	Black        = "\033[0;30m"
	DarkGray     = "\033[1;30m"
	Red          = "\033[0;31m"
	LightRed     = "\033[1;31m"
	Green        = "\033[0;32m"
	LightGreen   = "\033[1;32m"
	Yellow       = "\033[0;33m"
	LightYellow  = "\033[1;33m"
	Blue         = "\033[0;34m"
	LightBlue    = "\033[1;34m"
	Magenta      = "\033[0;35m"
	LightMagenta = "\033[1;35m"
	Cyan         = "\033[0;36m"
	LightCyan    = "\033[1;36m"
	LightGray    = "\033[0;37m"
	White        = "\033[1;37m"
	DefaultColor = "\033[0;39m"
)

// names 主题文件中可用的颜色名
var names = map[string]string{
	"BLACK":         Black,
	"DARK_GRAY":     DarkGray,
	"RED":           Red,
	"LIGHT_RED":     LightRed,
	"GREEN":         Green,
	"LIGHT_GREEN":   LightGreen,
	"YELLOW":        Yellow,
	"LIGHT_YELLOW":  LightYellow,
	"BLUE":          Blue,
	"LIGHT_BLUE":    LightBlue,
	"MAGENTA":       Magenta,
	"LIGHT_MAGENTA": LightMagenta,
	"CYAN":          Cyan,
	"LIGHT_CYAN":    LightCyan,
	"LIGHT_GRAY":    LightGray,
	"WHITE":         White,
	"DEFAULT_COLOR": DefaultColor,
	"ENDC":          Reset,
}

// DefaultTheme 默认主题名
const DefaultTheme = "default"

// Palette 一次格式化调用中使用的颜色集合
// 禁用颜色时所有字段为空字符串
type Palette struct {
	Success   string
	Failure   string
	Unknown   string
	Highlight string
	Warning   string // 警告以及编译错误
	Accent    string // 嵌套结果树的主机头
	Reset     string
}

var themes = map[string]Palette{
	"default": {
		Success:   Green,
		Failure:   Red,
		Unknown:   LightYellow,
		Highlight: Cyan,
		Warning:   LightRed,
		Accent:    Cyan,
		Reset:     Reset,
	},
	"bright": {
		Success:   LightGreen,
		Failure:   LightRed,
		Unknown:   LightYellow,
		Highlight: LightCyan,
		Warning:   LightMagenta,
		Accent:    LightBlue,
		Reset:     Reset,
	},
	"monochrome": {},
}

// Themes 返回内置主题名（已排序）
func Themes() []string {
	list := make([]string, 0, len(themes))
	for name := range themes {
		list = append(list, name)
	}
	sort.Strings(list)
	return list
}

// Resolve 根据开关和主题名解析调色板
// 未知主题回退到 default
func Resolve(enabled bool, theme string) Palette {
	if !enabled {
		return Palette{}
	}
	if theme == "" {
		theme = DefaultTheme
	}
	p, ok := themes[strings.ToLower(theme)]
	if !ok {
		logger.Warnf("unknown color theme %q, using %s", theme, DefaultTheme)
		return themes[DefaultTheme]
	}
	return p
}

// WithOverrides 返回覆盖了部分 token 的调色板副本
// key 是 token 名（success、failure...），value 是颜色名（RED、LIGHT_GREEN...）或原始转义序列
func (p Palette) WithOverrides(overrides map[string]string) (Palette, error) {
	if len(overrides) == 0 {
		return p, nil
	}
	// 禁用颜色时保持为空
	if p == (Palette{}) {
		return p, nil
	}

	keys := make([]string, 0, len(overrides))
	for k := range overrides {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, token := range keys {
		code, err := lookup(overrides[token])
		if err != nil {
			return p, fmt.Errorf("theme override %s: %w", token, err)
		}
		switch strings.ToLower(token) {
		case "success":
			p.Success = code
		case "failure":
			p.Failure = code
		case "unknown":
			p.Unknown = code
		case "highlight":
			p.Highlight = code
		case "warning":
			p.Warning = code
		case "accent":
			p.Accent = code
		case "reset":
			p.Reset = code
		default:
			return p, fmt.Errorf("unknown color token %q", token)
		}
	}
	return p, nil
}

// Enabled 调色板是否会输出转义序列
func (p Palette) Enabled() bool {
	return p.Reset != ""
}

// Wrap 用指定颜色包裹文本
func (p Palette) Wrap(color, text string) string {
	return color + text + p.Reset
}

func lookup(value string) (string, error) {
	if strings.HasPrefix(value, "\033[") {
		return value, nil
	}
	if code, ok := names[strings.ToUpper(strings.TrimSpace(value))]; ok {
		return code, nil
	}
	return "", fmt.Errorf("unknown color %q", value)
}

// Strip 去除字符串中的终端转义序列
func Strip(s string) string {
	return ansi.Strip(s)
}
