package docstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var fieldPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// GormStore 基于 GORM 的文档存储，支持 PostgreSQL 与 SQLite
type GormStore struct {
	db         *gorm.DB
	databaseID string
}

// NewGormStore 创建文档存储
func NewGormStore(db *gorm.DB, databaseID string) *GormStore {
	return &GormStore{db: db, databaseID: databaseID}
}

// Migrate 创建文档表
func (s *GormStore) Migrate(ctx context.Context) error {
	return s.db.WithContext(ctx).AutoMigrate(&Document{})
}

func (s *GormStore) scope(ctx context.Context, collection string) *gorm.DB {
	return s.db.WithContext(ctx).Model(&Document{}).
		Where("database_id = ? AND collection = ?", s.databaseID, collection)
}

func (s *GormStore) postgres() bool {
	return s.db.Dialector.Name() == "postgres"
}

// fieldExpr 返回 JSON 字段的 SQL 表达式，numeric 时按数值比较
func (s *GormStore) fieldExpr(field string, numeric bool) string {
	if s.postgres() {
		if numeric {
			return fmt.Sprintf("(data->>'%s')::numeric", field)
		}
		return fmt.Sprintf("data->>'%s'", field)
	}
	return fmt.Sprintf("json_extract(data, '$.%s')", field)
}

func isNumeric(v interface{}) bool {
	switch v.(type) {
	case int, int32, int64, float32, float64:
		return true
	}
	return false
}

func (s *GormStore) applyFilters(q *gorm.DB, filters []Filter) (*gorm.DB, error) {
	for _, f := range filters {
		if !fieldPattern.MatchString(f.Field) {
			return nil, fmt.Errorf("%w: %q", ErrInvalidField, f.Field)
		}
		switch f.Op {
		case OpEqual:
			q = q.Where(datatypes.JSONQuery("data").Equals(f.Value, f.Field))
		case OpSearch:
			pattern := "%" + strings.ToLower(fmt.Sprint(f.Value)) + "%"
			q = q.Where(fmt.Sprintf("LOWER(%s) LIKE ?", s.fieldExpr(f.Field, false)), pattern)
		case OpGreaterThan:
			q = q.Where(fmt.Sprintf("%s > ?", s.fieldExpr(f.Field, isNumeric(f.Value))), f.Value)
		case OpLessThan:
			q = q.Where(fmt.Sprintf("%s < ?", s.fieldExpr(f.Field, isNumeric(f.Value))), f.Value)
		default:
			return nil, fmt.Errorf("unsupported filter op: %s", f.Op)
		}
	}
	return q, nil
}

// List 分页列出集合文档
func (s *GormStore) List(ctx context.Context, collection string, opts ListOptions) (*ListResult, error) {
	q, err := s.applyFilters(s.scope(ctx, collection), opts.Filters)
	if err != nil {
		return nil, err
	}

	var total int64
	if err := q.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, err
	}

	dir := "ASC"
	if opts.SortDesc {
		dir = "DESC"
	}
	switch {
	case opts.SortField == "" || opts.SortField == SortCreatedAt:
		q = q.Order("created_at " + dir)
	case fieldPattern.MatchString(opts.SortField):
		q = q.Order(s.fieldExpr(opts.SortField, false) + " " + dir)
	default:
		return nil, fmt.Errorf("%w: %q", ErrInvalidField, opts.SortField)
	}
	q = q.Order("id ASC")

	if opts.Limit > 0 {
		q = q.Limit(opts.Limit)
	}
	if opts.Offset > 0 {
		q = q.Offset(opts.Offset)
	}

	var docs []Document
	if err := q.Find(&docs).Error; err != nil {
		return nil, err
	}
	return &ListResult{Documents: docs, Total: total}, nil
}

// Get 获取单个文档
func (s *GormStore) Get(ctx context.Context, collection, id string) (*Document, error) {
	var doc Document
	err := s.scope(ctx, collection).Where("id = ?", id).First(&doc).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

// Create 创建文档，id 为空时生成 UUID
func (s *GormStore) Create(ctx context.Context, collection, id string, data map[string]interface{}) (*Document, error) {
	if id == "" {
		id = uuid.NewString()
	}
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("marshal document: %w", err)
	}

	doc := &Document{DatabaseID: s.databaseID, Collection: collection, ID: id, Data: datatypes.JSON(raw)}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var n int64
		if err := tx.Model(&Document{}).
			Where("database_id = ? AND collection = ? AND id = ?", s.databaseID, collection, id).
			Count(&n).Error; err != nil {
			return err
		}
		if n > 0 {
			return ErrAlreadyExists
		}
		return tx.Create(doc).Error
	})
	if err != nil {
		return nil, err
	}
	return doc, nil
}

// Update 合并更新文档字段，patch 中值为 nil 的字段会被删除
func (s *GormStore) Update(ctx context.Context, collection, id string, patch map[string]interface{}) (*Document, error) {
	var doc Document
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Where("database_id = ? AND collection = ? AND id = ?", s.databaseID, collection, id).First(&doc).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}

		fields := map[string]interface{}{}
		if len(doc.Data) > 0 {
			if err := json.Unmarshal(doc.Data, &fields); err != nil {
				return fmt.Errorf("decode document %s/%s: %w", collection, id, err)
			}
		}
		for k, v := range patch {
			if v == nil {
				delete(fields, k)
				continue
			}
			fields[k] = v
		}

		raw, err := json.Marshal(fields)
		if err != nil {
			return fmt.Errorf("marshal document: %w", err)
		}
		doc.Data = datatypes.JSON(raw)
		doc.UpdatedAt = time.Now()
		return tx.Model(&Document{}).
			Where("database_id = ? AND collection = ? AND id = ?", s.databaseID, collection, id).
			Updates(map[string]interface{}{"data": doc.Data, "updated_at": doc.UpdatedAt}).Error
	})
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

// Delete 删除文档
func (s *GormStore) Delete(ctx context.Context, collection, id string) error {
	res := s.scope(ctx, collection).Where("id = ?", id).Delete(&Document{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
