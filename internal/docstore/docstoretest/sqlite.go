// Package docstoretest 提供测试用的 SQLite 文档存储
package docstoretest

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/dumeirei/dorm-admin-backend/internal/docstore"
)

// DatabaseID 测试库标识
const DatabaseID = "test"

// NewStore 创建基于内存 SQLite 的文档存储
func NewStore(t testing.TB) *docstore.GormStore {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	// 内存库每个连接相互独立，限制为单连接
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	store := docstore.NewGormStore(db, DatabaseID)
	require.NoError(t, store.Migrate(context.Background()))
	return store
}

// Seed 批量写入测试文档
func Seed(t testing.TB, store docstore.Store, collection string, docs map[string]map[string]interface{}) {
	t.Helper()
	for id, data := range docs {
		_, err := store.Create(context.Background(), collection, id, data)
		require.NoError(t, err)
	}
}
