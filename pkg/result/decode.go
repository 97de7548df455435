package result

import (
	"fmt"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/jimyag/highstate/pkg/errors"
)

// WrapperKey 顶层可选的元数据包装键
const WrapperKey = "data"

// nestedOutputter changes 中标识嵌套结果树的 out 值
const nestedOutputter = "highstate"

// Decode 解析 YAML 或 JSON 格式的结果树，保持 mapping 的输入顺序
func Decode(data []byte) (Tree, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, errors.NewDecodeError("failed to parse result data", err)
	}
	if len(doc.Content) == 0 {
		return Tree{}, nil
	}

	root := resolve(doc.Content[0])
	if isNull(root) {
		return Tree{}, nil
	}
	if root.Kind != yaml.MappingNode {
		return nil, errors.NewDecodeError(
			fmt.Sprintf("result data must be a mapping of hosts, got %s", kindName(root)), nil)
	}

	// 去掉外层的 data 包装
	if inner := mappingValue(root, WrapperKey); inner != nil && inner.Kind == yaml.MappingNode {
		root = inner
	}

	return decodeHosts(root)
}

func decodeHosts(node *yaml.Node) (Tree, error) {
	tree := make(Tree, 0, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		name := node.Content[i].Value
		hr, err := decodeHost(resolve(node.Content[i+1]))
		if err != nil {
			return nil, fmt.Errorf("host %s: %w", name, err)
		}
		tree = append(tree, Host{Name: name, Result: hr})
	}
	return tree, nil
}

func decodeHost(node *yaml.Node) (HostResult, error) {
	switch {
	case isNull(node):
		return RecordMap{}, nil
	case node.Kind == yaml.MappingNode:
		return decodeRecordMap(node)
	case node.Kind == yaml.SequenceNode:
		var items []interface{}
		if err := node.Decode(&items); err != nil {
			return nil, errors.NewDecodeError("failed to decode error list", err)
		}
		return ErrorList{Errors: stringList(normalize(items))}, nil
	default:
		var v interface{}
		if err := node.Decode(&v); err != nil {
			return nil, errors.NewDecodeError("failed to decode scalar result", err)
		}
		return Scalar{Value: v}, nil
	}
}

func decodeRecordMap(node *yaml.Node) (RecordMap, error) {
	rm := RecordMap{Entries: make([]Entry, 0, len(node.Content)/2)}
	for i := 0; i+1 < len(node.Content); i += 2 {
		key := node.Content[i].Value
		valNode := resolve(node.Content[i+1])

		var v interface{}
		if err := valNode.Decode(&v); err != nil {
			return RecordMap{}, errors.NewDecodeError(fmt.Sprintf("failed to decode state %s", key), err)
		}

		e := NewEntry(key, normalize(v))
		// 用节点重新解析嵌套结果树，保留其中的记录顺序
		if e.isNested && valNode.Kind == yaml.MappingNode {
			if retNode := nestedRetNode(valNode); retNode != nil {
				if tree, err := decodeHosts(retNode); err == nil {
					e.nested = tree
				}
			}
		}
		rm.Entries = append(rm.Entries, e)
	}
	return rm, nil
}

func nestedRetNode(record *yaml.Node) *yaml.Node {
	changes := mappingValue(record, FieldChanges)
	if changes == nil || changes.Kind != yaml.MappingNode {
		return nil
	}
	ret := mappingValue(changes, "ret")
	if ret == nil || ret.Kind != yaml.MappingNode {
		return nil
	}
	return ret
}

// FromValue 从 Go 值构建结果树
// Go map 没有顺序，主机和记录按 key 排序
func FromValue(v interface{}) (Tree, error) {
	v = normalize(v)
	if v == nil {
		return Tree{}, nil
	}
	m, ok := v.(map[string]interface{})
	if !ok {
		return nil, errors.NewDecodeError(fmt.Sprintf("result data must be a mapping of hosts, got %T", v), nil)
	}
	if inner, ok := m[WrapperKey].(map[string]interface{}); ok {
		m = inner
	}
	return hostsFromMap(m), nil
}

func hostsFromMap(m map[string]interface{}) Tree {
	tree := make(Tree, 0, len(m))
	for _, name := range sortedKeys(m) {
		tree = append(tree, Host{Name: name, Result: hostFromValue(m[name])})
	}
	return tree
}

func hostFromValue(v interface{}) HostResult {
	switch t := v.(type) {
	case nil:
		return RecordMap{}
	case map[string]interface{}:
		rm := RecordMap{Entries: make([]Entry, 0, len(t))}
		for _, key := range sortedKeys(t) {
			rm.Entries = append(rm.Entries, NewEntry(key, t[key]))
		}
		return rm
	case []interface{}, []string:
		return ErrorList{Errors: stringList(t)}
	default:
		return Scalar{Value: t}
	}
}

func nestedFromValue(changes interface{}) (Tree, bool) {
	m, ok := changes.(map[string]interface{})
	if !ok {
		return nil, false
	}
	if out, _ := m["out"].(string); out != nestedOutputter {
		return nil, false
	}
	ret, ok := m["ret"].(map[string]interface{})
	if !ok {
		return nil, false
	}
	return hostsFromMap(ret), true
}

// normalize 把 map[interface{}]interface{} 转成 map[string]interface{}
func normalize(v interface{}) interface{} {
	switch t := v.(type) {
	case map[string]interface{}:
		for k, item := range t {
			t[k] = normalize(item)
		}
		return t
	case map[interface{}]interface{}:
		out := make(map[string]interface{}, len(t))
		for k, item := range t {
			out[Stringify(k)] = normalize(item)
		}
		return out
	case []interface{}:
		for i, item := range t {
			t[i] = normalize(item)
		}
		return t
	default:
		return v
	}
}

func sortedKeys(m map[string]interface{}) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func resolve(node *yaml.Node) *yaml.Node {
	for node != nil && node.Kind == yaml.AliasNode {
		node = node.Alias
	}
	return node
}

func isNull(node *yaml.Node) bool {
	return node == nil || (node.Kind == yaml.ScalarNode && node.ShortTag() == "!!null")
}

func mappingValue(node *yaml.Node, key string) *yaml.Node {
	for i := 0; i+1 < len(node.Content); i += 2 {
		if node.Content[i].Value == key {
			return resolve(node.Content[i+1])
		}
	}
	return nil
}

func kindName(node *yaml.Node) string {
	switch node.Kind {
	case yaml.SequenceNode:
		return "sequence"
	case yaml.ScalarNode:
		return "scalar"
	default:
		return "document"
	}
}
