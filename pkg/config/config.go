// Package config 读取输出相关的配置
package config

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"

	"github.com/jimyag/highstate/pkg/errors"
)

// 默认值
const (
	DefaultColorTheme  = "default"
	DefaultStateOutput = "full"
	DefaultLogLevel    = "warn"
	DefaultIndent      = 2
	prettyIndent       = 4
)

// Config 输出配置
type Config struct {
	Color              bool              `yaml:"color"`
	ColorTheme         string            `yaml:"color_theme"`
	ThemeOverrides     map[string]string `yaml:"theme_overrides"`
	OutputIndent       Indent            `yaml:"output_indent"`
	StripColors        bool              `yaml:"strip_colors"`
	StateVerbose       bool              `yaml:"state_verbose"`
	StateOutput        string            `yaml:"state_output"`
	StateTabular       Tabular           `yaml:"state_tabular"`
	StateOutputProfile bool              `yaml:"state_output_profile"`
	LogLevel           string            `yaml:"log_level"`
}

// Default 返回默认配置
func Default() *Config {
	return &Config{
		Color:        true,
		ColorTheme:   DefaultColorTheme,
		OutputIndent: Indent{Spaces: DefaultIndent},
		StripColors:  true,
		StateOutput:  DefaultStateOutput,
		LogLevel:     DefaultLogLevel,
	}
}

// Load 读取并校验配置文件，未出现的字段保持默认值
// path 为空时直接返回默认配置
func Load(fs afero.Fs, path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, errors.NewConfigError(path, err)
	}
	if strings.TrimSpace(string(data)) == "" {
		return cfg, nil
	}

	if err := Validate(data); err != nil {
		return nil, errors.NewConfigError(path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.NewConfigError(path, err)
	}
	return cfg, nil
}

// Indent output_indent：整数或 "pretty"
type Indent struct {
	Spaces int
	Pretty bool
}

// Value 返回实际使用的缩进
func (i Indent) Value() int {
	if i.Pretty {
		return prettyIndent
	}
	if i.Spaces <= 0 {
		return DefaultIndent
	}
	return i.Spaces
}

// UnmarshalYAML 解析整数或 "pretty"
func (i *Indent) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("output_indent must be an integer or \"pretty\"")
	}
	if node.Value == "pretty" {
		*i = Indent{Pretty: true}
		return nil
	}
	n, err := strconv.Atoi(node.Value)
	if err != nil {
		return fmt.Errorf("output_indent must be an integer or \"pretty\": %w", err)
	}
	*i = Indent{Spaces: n}
	return nil
}

// Tabular state_tabular：布尔值或单行模板
type Tabular struct {
	Enabled  bool
	Template string
}

// UnmarshalYAML 解析布尔值或模板字符串
func (t *Tabular) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("state_tabular must be a boolean or a template string")
	}
	if node.ShortTag() == "!!bool" {
		var b bool
		if err := node.Decode(&b); err != nil {
			return err
		}
		*t = Tabular{Enabled: b}
		return nil
	}
	*t = Tabular{Template: node.Value}
	return nil
}
