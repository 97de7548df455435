package terse

import (
	"bytes"
	"regexp"
	"text/template"

	"github.com/Masterminds/sprig/v3"
	"github.com/flosch/pongo2/v6"
)

// lineTemplate 已编译的单行模板
type lineTemplate interface {
	render(fields map[string]interface{}) (string, error)
}

// goTemplatePattern 匹配动作中任意位置的字段引用：{{ .name }}、{{ upper .name }}、{{ printf "%s" (.name) }}
// Jinja 的属性访问 {{ rec.name }} 前面不是空白或括号，不会匹配
var goTemplatePattern = regexp.MustCompile(`\{\{-?(?:[^}]*[\s(|])?\.[A-Za-z_]`)

// compile 根据语法选择模板引擎
// {{ .field }} 使用 text/template + sprig，其余按 Jinja 语法交给 pongo2
func compile(src string) (lineTemplate, error) {
	if goTemplatePattern.MatchString(src) {
		t, err := template.New("terse").Funcs(sprig.TxtFuncMap()).Parse(src)
		if err != nil {
			return nil, err
		}
		return goTemplate{t: t}, nil
	}

	// 终端输出不需要 HTML 转义
	t, err := pongo2.FromString("{% autoescape off %}" + src + "{% endautoescape %}")
	if err != nil {
		return nil, err
	}
	return jinjaTemplate{t: t}, nil
}

type goTemplate struct {
	t *template.Template
}

func (g goTemplate) render(fields map[string]interface{}) (string, error) {
	var buf bytes.Buffer
	if err := g.t.Execute(&buf, fields); err != nil {
		return "", err
	}
	return buf.String(), nil
}

type jinjaTemplate struct {
	t *pongo2.Template
}

func (j jinjaTemplate) render(fields map[string]interface{}) (string, error) {
	return j.t.Execute(pongo2.Context(fields))
}
