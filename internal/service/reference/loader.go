// Package reference 关联数据加载
// 分页拉取页面所需的关联集合，单个集合失败时降级为空列表，不影响其他集合
package reference

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/dumeirei/dorm-admin-backend/internal/common/config"
	"github.com/dumeirei/dorm-admin-backend/internal/common/logger"
	"github.com/dumeirei/dorm-admin-backend/internal/common/metrics"
	"github.com/dumeirei/dorm-admin-backend/internal/common/tracing"
	"github.com/dumeirei/dorm-admin-backend/internal/docstore"
	"github.com/dumeirei/dorm-admin-backend/internal/notify"
	"github.com/dumeirei/dorm-admin-backend/internal/repository"
)

// 默认值
const (
	DefaultPageSize    = 100
	DefaultConcurrency = 4
)

// Loader 关联数据加载器，每次调用都重新拉取，不做跨调用缓存
type Loader struct {
	store       docstore.Store
	pageSize    int
	concurrency int
	notifier    notify.Notifier
	metrics     *metrics.Metrics
	log         *zap.Logger
}

// NewLoader 创建加载器
func NewLoader(store docstore.Store, cfg *config.ReferenceConfig, notifier notify.Notifier, m *metrics.Metrics) *Loader {
	l := &Loader{
		store:       store,
		pageSize:    DefaultPageSize,
		concurrency: DefaultConcurrency,
		notifier:    notifier,
		metrics:     m,
		log:         logger.Named("reference"),
	}
	if cfg != nil {
		if cfg.PageSize > 0 {
			l.pageSize = cfg.PageSize
		}
		if cfg.Concurrency > 0 {
			l.concurrency = cfg.Concurrency
		}
	}
	if l.notifier == nil {
		l.notifier = notify.Nop{}
	}
	return l
}

// PageSize 每页数量
func (l *Loader) PageSize() int {
	return l.pageSize
}

// LoadAll 分页拉取集合中满足条件的全部文档
// 返回的页短于 limit 或累计数量达到总数时结束；空集合只发出一次请求
func (l *Loader) LoadAll(ctx context.Context, collection string, filters ...docstore.Filter) ([]docstore.Document, error) {
	ctx, span := tracing.StartSpan(ctx, "reference.LoadAll", tracing.WithCollection(collection))
	defer span.End()

	var all []docstore.Document
	for offset := 0; ; {
		if err := ctx.Err(); err != nil {
			tracing.SetError(span, err)
			return nil, err
		}

		res, err := l.store.List(ctx, collection, docstore.ListOptions{
			Filters:   filters,
			Limit:     l.pageSize,
			Offset:    offset,
			SortField: docstore.SortCreatedAt,
		})
		if err != nil {
			tracing.SetError(span, err)
			return nil, fmt.Errorf("list %s at offset %d: %w", collection, offset, err)
		}
		l.metrics.RecordReferencePage(collection)

		all = append(all, res.Documents...)
		offset += len(res.Documents)

		if len(res.Documents) < l.pageSize || int64(len(all)) >= res.Total {
			break
		}
	}

	if all == nil {
		all = []docstore.Document{}
	}
	return all, nil
}

// Request 一个待加载的集合
type Request struct {
	Collection string
	Filters    []docstore.Filter
}

// For 创建加载请求
func For(collection string, filters ...docstore.Filter) Request {
	return Request{Collection: collection, Filters: filters}
}

// Warning 加载失败的集合
type Warning struct {
	Collection string `json:"collection"`
	Message    string `json:"message"`
}

// Snapshot 一次加载得到的各集合文档
type Snapshot struct {
	mu       sync.Mutex
	docs     map[string][]docstore.Document
	warnings []Warning
}

func newSnapshot() *Snapshot {
	return &Snapshot{docs: map[string][]docstore.Document{}}
}

func (s *Snapshot) set(collection string, docs []docstore.Document) {
	s.mu.Lock()
	s.docs[collection] = docs
	s.mu.Unlock()
}

func (s *Snapshot) fail(collection string, err error) {
	s.mu.Lock()
	s.docs[collection] = []docstore.Document{}
	s.warnings = append(s.warnings, Warning{Collection: collection, Message: err.Error()})
	s.mu.Unlock()
}

// Documents 集合的文档，未加载或加载失败时为空
func (s *Snapshot) Documents(collection string) []docstore.Document {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.docs[collection]
}

// Failed 集合是否加载失败
func (s *Snapshot) Failed(collection string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, w := range s.warnings {
		if w.Collection == collection {
			return true
		}
	}
	return false
}

// Warnings 加载失败的集合列表
func (s *Snapshot) Warnings() []Warning {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Warning, len(s.warnings))
	copy(out, s.warnings)
	return out
}

// Typed 将快照中的集合转换为类型化实体
func Typed[T any](s *Snapshot, c *repository.Collection[T]) []T {
	return c.DecodeAll(s.Documents(c.Name()))
}

// LoadSet 并发加载多个互不相关的集合
// 单个集合失败时记录警告并降级为空列表；只有 ctx 结束才返回错误
func (l *Loader) LoadSet(ctx context.Context, reqs ...Request) (*Snapshot, error) {
	snap := newSnapshot()

	var g errgroup.Group
	g.SetLimit(l.concurrency)
	for _, req := range reqs {
		req := req
		g.Go(func() error {
			docs, err := l.LoadAll(ctx, req.Collection, req.Filters...)
			if err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				l.degrade(ctx, snap, req.Collection, err)
				return nil
			}
			snap.set(req.Collection, docs)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return snap, nil
}

func (l *Loader) degrade(ctx context.Context, snap *Snapshot, collection string, err error) {
	snap.fail(collection, err)
	l.metrics.RecordReferenceFailure(collection)
	l.log.Warn("reference fetch failed, using empty list",
		logger.Collection(collection),
		logger.Err(err),
	)
	l.notifier.Warning(ctx, fmt.Sprintf("加载 %s 失败，数据可能不完整", collection))
}
