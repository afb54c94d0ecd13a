// Package repository 提供数据访问层
// 在文档存储与类型化实体之间转换，其余代码不接触原始文档
package repository

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"

	"github.com/dumeirei/dorm-admin-backend/internal/common/errors"
	"github.com/dumeirei/dorm-admin-backend/internal/common/logger"
	"github.com/dumeirei/dorm-admin-backend/internal/docstore"
)

// Collection 类型化集合仓储
type Collection[T any] struct {
	store docstore.Store
	name  string
}

// NewCollection 创建集合仓储
func NewCollection[T any](store docstore.Store, name string) *Collection[T] {
	return &Collection[T]{store: store, name: name}
}

// Name 集合标识
func (c *Collection[T]) Name() string {
	return c.name
}

// Store 底层文档存储
func (c *Collection[T]) Store() docstore.Store {
	return c.store
}

// Decode 将文档转换为实体，文档ID写入实体的 id 字段
func (c *Collection[T]) Decode(doc docstore.Document) (T, error) {
	var v T
	if len(doc.Data) > 0 {
		if err := json.Unmarshal(doc.Data, &v); err != nil {
			return v, fmt.Errorf("decode %s/%s: %w", c.name, doc.ID, err)
		}
	}
	idJSON, _ := json.Marshal(map[string]string{"id": doc.ID})
	if err := json.Unmarshal(idJSON, &v); err != nil {
		return v, fmt.Errorf("decode %s/%s id: %w", c.name, doc.ID, err)
	}
	return v, nil
}

// DecodeAll 批量转换，无法解析的文档记录警告后跳过
func (c *Collection[T]) DecodeAll(docs []docstore.Document) []T {
	out := make([]T, 0, len(docs))
	for _, doc := range docs {
		v, err := c.Decode(doc)
		if err != nil {
			logger.Warn("skip malformed document",
				logger.Collection(c.name),
				logger.DocumentID(doc.ID),
				logger.Err(err),
			)
			continue
		}
		out = append(out, v)
	}
	return out
}

// DecodeAllStrict 批量转换，任一文档无法解析即返回错误
func (c *Collection[T]) DecodeAllStrict(docs []docstore.Document) ([]T, error) {
	out := make([]T, 0, len(docs))
	for _, doc := range docs {
		v, err := c.Decode(doc)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

// Encode 将实体转换为文档字段，id 不写入文档内容
func Encode(v interface{}) (map[string]interface{}, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	fields := map[string]interface{}{}
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, err
	}
	delete(fields, "id")
	return fields, nil
}

func (c *Collection[T]) readError(err error) error {
	if stderrors.Is(err, docstore.ErrNotFound) {
		return errors.ErrNotFound.WithError(err)
	}
	return errors.ErrFetchFailed.WithError(err)
}

func (c *Collection[T]) writeError(err error) error {
	if stderrors.Is(err, docstore.ErrNotFound) {
		return errors.ErrNotFound.WithError(err)
	}
	return errors.ErrWriteFailed.WithError(err)
}

// Get 根据ID获取
func (c *Collection[T]) Get(ctx context.Context, id string) (T, error) {
	doc, err := c.store.Get(ctx, c.name, id)
	if err != nil {
		var zero T
		return zero, c.readError(err)
	}
	v, err := c.Decode(*doc)
	if err != nil {
		return v, errors.ErrFetchFailed.WithError(err)
	}
	return v, nil
}

// List 获取单页列表
func (c *Collection[T]) List(ctx context.Context, opts docstore.ListOptions) ([]T, int64, error) {
	res, err := c.store.List(ctx, c.name, opts)
	if err != nil {
		return nil, 0, c.readError(err)
	}
	return c.DecodeAll(res.Documents), res.Total, nil
}

// Create 创建，id 为空时由存储生成
func (c *Collection[T]) Create(ctx context.Context, id string, v T) (T, error) {
	fields, err := Encode(v)
	if err != nil {
		return v, errors.ErrWriteFailed.WithError(err)
	}
	doc, err := c.store.Create(ctx, c.name, id, fields)
	if err != nil {
		return v, c.writeError(err)
	}
	return c.Decode(*doc)
}

// Update 合并更新部分字段
func (c *Collection[T]) Update(ctx context.Context, id string, patch map[string]interface{}) (T, error) {
	doc, err := c.store.Update(ctx, c.name, id, patch)
	if err != nil {
		var zero T
		return zero, c.writeError(err)
	}
	return c.Decode(*doc)
}

// Delete 删除
func (c *Collection[T]) Delete(ctx context.Context, id string) error {
	if err := c.store.Delete(ctx, c.name, id); err != nil {
		return c.writeError(err)
	}
	return nil
}
