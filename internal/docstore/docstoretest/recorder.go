package docstoretest

import (
	"context"
	"sync"

	"github.com/dumeirei/dorm-admin-backend/internal/docstore"
)

// Recorder 包装文档存储，统计分页请求并可为指定集合注入错误
type Recorder struct {
	docstore.Store

	mu        sync.Mutex
	lists     map[string]int
	listErrs  map[string]error
	writeErrs map[string]error
}

// NewRecorder 创建包装器
func NewRecorder(store docstore.Store) *Recorder {
	return &Recorder{
		Store:     store,
		lists:     map[string]int{},
		listErrs:  map[string]error{},
		writeErrs: map[string]error{},
	}
}

// FailList 令该集合的读取返回 err
func (r *Recorder) FailList(collection string, err error) {
	r.mu.Lock()
	r.listErrs[collection] = err
	r.mu.Unlock()
}

// FailWrite 令该集合的写入返回 err
func (r *Recorder) FailWrite(collection string, err error) {
	r.mu.Lock()
	r.writeErrs[collection] = err
	r.mu.Unlock()
}

// ListCalls 集合的 List 调用次数
func (r *Recorder) ListCalls(collection string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.lists[collection]
}

func (r *Recorder) readErr(collection string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.listErrs[collection]
}

func (r *Recorder) writeErr(collection string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.writeErrs[collection]
}

// List 计数后转发
func (r *Recorder) List(ctx context.Context, collection string, opts docstore.ListOptions) (*docstore.ListResult, error) {
	r.mu.Lock()
	r.lists[collection]++
	r.mu.Unlock()
	if err := r.readErr(collection); err != nil {
		return nil, err
	}
	return r.Store.List(ctx, collection, opts)
}

// Get 转发
func (r *Recorder) Get(ctx context.Context, collection, id string) (*docstore.Document, error) {
	if err := r.readErr(collection); err != nil {
		return nil, err
	}
	return r.Store.Get(ctx, collection, id)
}

// Create 转发
func (r *Recorder) Create(ctx context.Context, collection, id string, data map[string]interface{}) (*docstore.Document, error) {
	if err := r.writeErr(collection); err != nil {
		return nil, err
	}
	return r.Store.Create(ctx, collection, id, data)
}

// Update 转发
func (r *Recorder) Update(ctx context.Context, collection, id string, patch map[string]interface{}) (*docstore.Document, error) {
	if err := r.writeErr(collection); err != nil {
		return nil, err
	}
	return r.Store.Update(ctx, collection, id, patch)
}

// Delete 转发
func (r *Recorder) Delete(ctx context.Context, collection, id string) error {
	if err := r.writeErr(collection); err != nil {
		return err
	}
	return r.Store.Delete(ctx, collection, id)
}
