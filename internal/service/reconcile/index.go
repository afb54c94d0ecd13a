// Package reconcile 将主记录与关联集合拼接为展示记录
package reconcile

// Index 按ID建立的只读查找表，构建一次后重复使用
type Index[T any] struct {
	items map[string]T
}

// NewIndex 根据 key 函数建立索引，重复键保留最后一个
func NewIndex[T any](items []T, key func(T) string) *Index[T] {
	idx := &Index[T]{items: make(map[string]T, len(items))}
	for _, item := range items {
		if k := key(item); k != "" {
			idx.items[k] = item
		}
	}
	return idx
}

// Lookup 查找，空ID视为不存在
func (i *Index[T]) Lookup(id string) (T, bool) {
	if i == nil || id == "" {
		var zero T
		return zero, false
	}
	v, ok := i.items[id]
	return v, ok
}

// Len 索引条目数
func (i *Index[T]) Len() int {
	if i == nil {
		return 0
	}
	return len(i.items)
}
