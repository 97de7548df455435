package result

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jimyag/highstate/pkg/errors"
)

func hostNames(tree Tree) []string {
	names := make([]string, 0, len(tree))
	for _, h := range tree {
		names = append(names, h.Name)
	}
	return names
}

func entryKeys(hr HostResult) []string {
	rm := hr.(RecordMap)
	keys := make([]string, 0, len(rm.Entries))
	for _, e := range rm.Entries {
		keys = append(keys, e.Key)
	}
	return keys
}

func TestDecode(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		hosts   []string
		check   func(t *testing.T, tree Tree)
		wantErr bool
	}{
		{
			name: "keeps host order",
			input: `
zeta: done
alpha: done
mid: done
`,
			hosts: []string{"zeta", "alpha", "mid"},
		},
		{
			name:  "json input",
			input: `{"b": {"x_|-y_|-z_|-w": {"result": true, "__run_num__": 0}}, "a": ["bad"]}`,
			hosts: []string{"b", "a"},
			check: func(t *testing.T, tree Tree) {
				assert.IsType(t, RecordMap{}, tree[0].Result)
				assert.Equal(t, ErrorList{Errors: []string{"bad"}}, tree[1].Result)
			},
		},
		{
			name: "data wrapper",
			input: `
data:
  web1: {a_|-a_|-a_|-a: {result: true}}
`,
			hosts: []string{"web1"},
		},
		{
			name:  "data host that is not a wrapper",
			input: `data: [compile error]`,
			hosts: []string{"data"},
		},
		{
			name: "host variants",
			input: `
scalar: 42
errors: [one, two]
empty: null
records: {}
`,
			hosts: []string{"scalar", "errors", "empty", "records"},
			check: func(t *testing.T, tree Tree) {
				assert.Equal(t, Scalar{Value: 42}, tree[0].Result)
				assert.Equal(t, ErrorList{Errors: []string{"one", "two"}}, tree[1].Result)
				assert.Equal(t, RecordMap{}, tree[2].Result)
				assert.Empty(t, tree[3].Result.(RecordMap).Entries)
			},
		},
		{
			name: "keeps record order",
			input: `
h:
  c_|-c_|-c_|-c: {result: true, __run_num__: 0}
  a_|-a_|-a_|-a: {result: true, __run_num__: 0}
  b_|-b_|-b_|-b: {result: true, __run_num__: 0}
`,
			hosts: []string{"h"},
			check: func(t *testing.T, tree Tree) {
				assert.Equal(t, []string{"c_|-c_|-c_|-c", "a_|-a_|-a_|-a", "b_|-b_|-b_|-b"}, entryKeys(tree[0].Result))
			},
		},
		{
			name: "nested tree keeps order",
			input: `
master:
  salt_|-o_|-o_|-state:
    result: true
    changes:
      out: highstate
      ret:
        web2:
          z_|-z_|-z_|-z: {result: true}
          y_|-y_|-y_|-y: {result: true}
        web1: done
`,
			hosts: []string{"master"},
			check: func(t *testing.T, tree Tree) {
				rec, ok := tree[0].Result.(RecordMap).Entries[0].Record()
				require.True(t, ok)
				require.True(t, rec.Changes.IsNested)
				assert.Equal(t, []string{"web2", "web1"}, hostNames(rec.Changes.Nested))
				assert.Equal(t, []string{"z_|-z_|-z_|-z", "y_|-y_|-y_|-y"}, entryKeys(rec.Changes.Nested[0].Result))
			},
		},
		{
			name: "anchors",
			input: `
base: &state {result: true, __run_num__: 0}
h:
  a_|-a_|-a_|-a: *state
`,
			hosts: []string{"base", "h"},
			check: func(t *testing.T, tree Tree) {
				rec, ok := tree[1].Result.(RecordMap).Entries[0].Record()
				require.True(t, ok)
				assert.Equal(t, Success, rec.Result)
			},
		},
		{
			name:  "empty document",
			input: "",
			hosts: []string{},
		},
		{
			name:  "null document",
			input: "~",
			hosts: []string{},
		},
		{
			name:    "not a mapping",
			input:   "[a, b]",
			wantErr: true,
		},
		{
			name:    "invalid yaml",
			input:   "a: [b",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tree, err := Decode([]byte(tt.input))
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.IsKind(err, errors.KindDecode))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.hosts, hostNames(tree))
			if tt.check != nil {
				tt.check(t, tree)
			}
		})
	}
}

func TestFromValue(t *testing.T) {
	tree, err := FromValue(map[string]interface{}{
		"web2": map[interface{}]interface{}{
			"b_|-b_|-b_|-b": map[interface{}]interface{}{"result": false},
			"a_|-a_|-a_|-a": map[interface{}]interface{}{"result": true},
		},
		"web1": []interface{}{"error"},
		"web3": nil,
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"web1", "web2", "web3"}, hostNames(tree))
	assert.Equal(t, ErrorList{Errors: []string{"error"}}, tree[0].Result)
	assert.Equal(t, []string{"a_|-a_|-a_|-a", "b_|-b_|-b_|-b"}, entryKeys(tree[1].Result))
	assert.Equal(t, RecordMap{}, tree[2].Result)

	t.Run("data wrapper", func(t *testing.T) {
		tree, err := FromValue(map[string]interface{}{
			"data": map[string]interface{}{"web1": "ok"},
		})
		require.NoError(t, err)
		assert.Equal(t, []string{"web1"}, hostNames(tree))
	})

	t.Run("nil", func(t *testing.T) {
		tree, err := FromValue(nil)
		require.NoError(t, err)
		assert.Empty(t, tree)
	})

	t.Run("not a mapping", func(t *testing.T) {
		_, err := FromValue("text")
		assert.True(t, errors.IsKind(err, errors.KindDecode))
	})
}
