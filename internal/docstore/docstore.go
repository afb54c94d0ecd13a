// Package docstore 文档存储抽象
// 集合与文档ID都是不透明字符串，文档内容为 JSON
package docstore

import (
	"context"
	"errors"
	"time"

	"gorm.io/datatypes"
)

// 存储错误
var (
	ErrNotFound      = errors.New("document not found")
	ErrAlreadyExists = errors.New("document already exists")
	ErrInvalidField  = errors.New("invalid field name")
)

// Document 存储中的一条文档
type Document struct {
	DatabaseID string         `gorm:"primaryKey;type:varchar(64)" json:"-"`
	Collection string         `gorm:"primaryKey;type:varchar(64)" json:"collection"`
	ID         string         `gorm:"primaryKey;type:varchar(64)" json:"id"`
	Data       datatypes.JSON `json:"data"`
	CreatedAt  time.Time      `gorm:"index" json:"createdAt"`
	UpdatedAt  time.Time      `json:"updatedAt"`
}

// TableName 表名
func (Document) TableName() string {
	return "documents"
}

// Op 过滤操作
type Op string

// 过滤操作
const (
	OpEqual       Op = "equal"
	OpSearch      Op = "search"
	OpGreaterThan Op = "greaterThan"
	OpLessThan    Op = "lessThan"
)

// Filter 文档字段过滤条件
type Filter struct {
	Field string
	Op    Op
	Value interface{}
}

// Equal 字段等于
func Equal(field string, value interface{}) Filter {
	return Filter{Field: field, Op: OpEqual, Value: value}
}

// Search 字段包含子串，不区分大小写
func Search(field, text string) Filter {
	return Filter{Field: field, Op: OpSearch, Value: text}
}

// GreaterThan 字段大于，时间值按 RFC3339 字符串比较
func GreaterThan(field string, value interface{}) Filter {
	return Filter{Field: field, Op: OpGreaterThan, Value: normalize(value)}
}

// LessThan 字段小于
func LessThan(field string, value interface{}) Filter {
	return Filter{Field: field, Op: OpLessThan, Value: normalize(value)}
}

func normalize(v interface{}) interface{} {
	if t, ok := v.(time.Time); ok {
		return t.UTC().Format(time.RFC3339Nano)
	}
	return v
}

// SortCreatedAt 按创建时间排序的特殊字段名
const SortCreatedAt = "$createdAt"

// ListOptions 列表查询参数
type ListOptions struct {
	Filters   []Filter
	Limit     int
	Offset    int
	SortField string
	SortDesc  bool
}

// ListResult 列表查询结果
type ListResult struct {
	Documents []Document
	Total     int64
}

// Store 文档存储
type Store interface {
	List(ctx context.Context, collection string, opts ListOptions) (*ListResult, error)
	Get(ctx context.Context, collection, id string) (*Document, error)
	Create(ctx context.Context, collection, id string, data map[string]interface{}) (*Document, error)
	Update(ctx context.Context, collection, id string, patch map[string]interface{}) (*Document, error)
	Delete(ctx context.Context, collection, id string) error
}
