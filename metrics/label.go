package metrics

// Label 指标标签
//
// 标签值应保持低基数：node_id 可以，单个 id 不可以。
type Label struct {
	Key   string
	Value string
}

// L 创建 Label
func L(key, value string) Label {
	return Label{Key: key, Value: value}
}
