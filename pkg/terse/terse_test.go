package terse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jimyag/highstate/pkg/color"
	"github.com/jimyag/highstate/pkg/errors"
	"github.com/jimyag/highstate/pkg/result"
)

func record(key string, fields map[string]interface{}) result.Record {
	rec, ok := result.NewEntry(key, fields).Record()
	if !ok {
		panic("record without result")
	}
	return rec
}

func TestStatus(t *testing.T) {
	tests := []struct {
		name   string
		fields map[string]interface{}
		want   string
	}{
		{name: "clean", fields: map[string]interface{}{"result": true}, want: StatusClean},
		{name: "changed", fields: map[string]interface{}{"result": true, "changes": map[string]interface{}{"a": 1}}, want: StatusChanged},
		{name: "failed", fields: map[string]interface{}{"result": false, "changes": map[string]interface{}{"a": 1}}, want: StatusFailed},
		{name: "differs", fields: map[string]interface{}{"result": nil}, want: StatusDiffers},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Status(record("a_|-b_|-c_|-d", tt.fields)))
		})
	}
}

func TestFormatter_Line(t *testing.T) {
	p := color.Palette{Warning: "<W>", Reset: "</>"}
	installed := map[string]interface{}{
		"result":      true,
		"comment":     "installed",
		"duration":    "3.5 ms",
		"start_time":  "10:01:02.123",
		"__run_num__": 7,
	}
	warned := map[string]interface{}{
		"result":      false,
		"__run_num__": 1,
		"warnings":    []interface{}{"first", "second"},
	}

	tests := []struct {
		name   string
		opts   Options
		key    string
		fields map[string]interface{}
		want   string
	}{
		{
			name:   "default",
			key:    "pkg_|-vim_|-vim-enhanced_|-installed",
			fields: installed,
			want:   " <C> Name: vim-enhanced - Function: pkg.installed - Result: Clean</>",
		},
		{
			name:   "default with profile",
			opts:   Options{Profile: true},
			key:    "pkg_|-vim_|-vim_|-installed",
			fields: installed,
			want:   " <C> Name: vim - Function: pkg.installed - Result: Clean Started: - 10:01:02.123 Duration: 3.5 ms</>",
		},
		{
			name:   "tabular",
			opts:   Options{Tabular: true},
			key:    "pkg_|-vim_|-vim_|-installed",
			fields: installed,
			want:   "<C>   7        pkg.installed  Clean     Name: vim</>",
		},
		{
			name:   "tabular with profile",
			opts:   Options{Tabular: true, Profile: true},
			key:    "pkg_|-vim_|-vim_|-installed",
			fields: installed,
			want:   "<C>10:01:02.123 [    3.5 ms]    7        pkg.installed  Clean     Name: vim</>",
		},
		{
			name:   "warnings",
			key:    "cmd_|-x_|-x_|-run",
			fields: warned,
			want:   "<W>Warnings:\nfirst\nsecond</>\n <C> Name: x - Function: cmd.run - Result: Failed</>",
		},
		{
			name:   "go template",
			opts:   Options{Template: "{{ .color }}{{ .order }} {{ .name | upper }} {{ .status }}{{ .reset }}"},
			key:    "pkg_|-vim_|-vim_|-installed",
			fields: installed,
			want:   "<C>7 VIM Clean</>",
		},
		{
			name:   "go template with a function call first",
			opts:   Options{Template: "{{ upper .name }}-{{.order}}"},
			key:    "pkg_|-vim_|-vim_|-installed",
			fields: installed,
			want:   "VIM-7",
		},
		{
			name:   "go template with printf",
			opts:   Options{Template: `{{ printf "%-5s|" .name }}{{ printf "%s" (.status) }}`},
			key:    "pkg_|-vim_|-vim_|-installed",
			fields: installed,
			want:   "vim  |Clean",
		},
		{
			name:   "jinja template",
			opts:   Options{Template: "{{ color }}{{ module }}.{{ function }} <{{ comment|upper }}>{{ reset }}"},
			key:    "pkg_|-vim_|-vim_|-installed",
			fields: installed,
			want:   "<C>pkg.installed <INSTALLED></>",
		},
		{
			name:   "template takes precedence over tabular",
			opts:   Options{Tabular: true, Template: "{{ id }} {{ duration }}"},
			key:    "pkg_|-vim_|-vim_|-installed",
			fields: installed,
			want:   "pkg_|-vim_|-vim_|-installed 3.5",
		},
		{
			name:   "failing template falls back to the default line",
			opts:   Options{Template: `{{ .name }}{{ fail "boom" }}`},
			key:    "pkg_|-vim_|-vim_|-installed",
			fields: installed,
			want:   " <C> Name: vim - Function: pkg.installed - Result: Clean</>",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := New(p, tt.opts)
			require.NoError(t, err)
			assert.Equal(t, tt.want, f.Line(record(tt.key, tt.fields), "<C>"))
		})
	}
}

func TestCompile_EngineSelection(t *testing.T) {
	tests := []struct {
		src    string
		goText bool
	}{
		{src: "{{ .name }}", goText: true},
		{src: "{{.name}}", goText: true},
		{src: "{{- .name -}}", goText: true},
		{src: "{{ upper .name }}", goText: true},
		{src: `{{ printf "%-10s" .name }}`, goText: true},
		{src: "{{ .name | upper }}", goText: true},
		{src: "{{ name }}", goText: false},
		{src: "{{ name|upper }}", goText: false},
		{src: "{{ rec.name }}", goText: false},
		{src: "{{ 1.5 }}", goText: false},
		{src: "{% if name %}{{ name }}{% endif %}", goText: false},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			tmpl, err := compile(tt.src)
			require.NoError(t, err)
			_, isGo := tmpl.(goTemplate)
			assert.Equal(t, tt.goText, isGo)
		})
	}
}

func TestNew_InvalidTemplate(t *testing.T) {
	tests := []string{
		"{{ .name ",
		"{% if %}",
	}
	for _, src := range tests {
		t.Run(src, func(t *testing.T) {
			_, err := New(color.Palette{}, Options{Template: src})
			require.Error(t, err)
			assert.True(t, errors.IsKind(err, errors.KindTemplate))
		})
	}
}
