// Package search keeps a denormalized copy of catalog entities in a
// document store. Every reindex is a full rebuild.
package search

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"

	"go.uber.org/zap"
)

// Action is a bulk operation kind.
type Action string

const (
	ActionIndex  Action = "index"
	ActionDelete Action = "delete"
)

// BulkOp is one queued mutation.
type BulkOp struct {
	Action Action
	Index  string
	ID     string
	Doc    Document
}

// Hits is one page of search results.
type Hits struct {
	IDs   []int64
	Total int64
}

// DocumentStore is the external search engine.
type DocumentStore interface {
	// DeleteIndex drops the index; a missing index is not an error.
	DeleteIndex(ctx context.Context, index string) error
	Bulk(ctx context.Context, ops []BulkOp) error
	// Search runs a free-text query across every field.
	Search(ctx context.Context, index, query string, from, size int) (Hits, error)
}

// Row is an entity with an identifier.
type Row interface {
	DocumentID() int64
}

// Source binds an index to its projection and row loader.
type Source struct {
	Index      string
	Projection Projection
	Load       func(ctx context.Context) ([]Row, error)
}

var ErrUnknownIndex = errors.New("unknown index")

// ErrPageOutOfRange is returned for pages past MaxResultWindow.
var ErrPageOutOfRange = errors.New("page out of range")

// MaxResultWindow is the deepest hit a search may reach (from + size).
const MaxResultWindow = 10000

// MaxPage is the last page reachable with perPage hits per page.
func MaxPage(perPage int) int {
	if perPage < 1 {
		return 0
	}
	return MaxResultWindow / perPage
}

type Synchronizer struct {
	store   DocumentStore
	log     *zap.Logger
	sources map[string]Source

	mu sync.Mutex // one reindex pass at a time
}

// NewSynchronizer returns a no-op synchronizer when store is nil.
func NewSynchronizer(store DocumentStore, log *zap.Logger) *Synchronizer {
	if log == nil {
		log = zap.NewNop()
	}
	return &Synchronizer{store: store, log: log, sources: map[string]Source{}}
}

func (s *Synchronizer) Enabled() bool {
	return s.store != nil
}

func (s *Synchronizer) Register(src Source) {
	s.sources[src.Index] = src
}

// ReindexAll drops the index and re-adds every row as one bulk request.
func (s *Synchronizer) ReindexAll(ctx context.Context, index string) error {
	if !s.Enabled() {
		return nil
	}
	src, ok := s.sources[index]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownIndex, index)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := src.Load(ctx)
	if err != nil {
		return fmt.Errorf("load %s: %w", index, err)
	}

	q := newQueue(len(rows))
	for _, row := range rows {
		doc, err := src.Projection.Project(row)
		if err != nil {
			return err
		}
		q.add(BulkOp{
			Action: ActionIndex,
			Index:  index,
			ID:     strconv.FormatInt(row.DocumentID(), 10),
			Doc:    doc,
		})
	}

	if err := s.store.DeleteIndex(ctx, index); err != nil {
		return fmt.Errorf("drop %s: %w", index, err)
	}
	if err := q.flush(ctx, s.store); err != nil {
		return fmt.Errorf("bulk %s: %w", index, err)
	}

	s.log.Info("reindexed",
		zap.String("layer", "search"),
		zap.String("index", index),
		zap.Int("documents", len(rows)),
	)
	return nil
}

// Search returns ids in relevance order. Page starts at 1.
func (s *Synchronizer) Search(ctx context.Context, index, query string, page, perPage int) (Hits, error) {
	if !s.Enabled() {
		return Hits{IDs: []int64{}}, nil
	}
	if page < 1 {
		page = 1
	}
	if page > MaxPage(perPage) {
		return Hits{}, fmt.Errorf("%w: page %d, per page %d", ErrPageOutOfRange, page, perPage)
	}
	return s.store.Search(ctx, index, query, (page-1)*perPage, perPage)
}

// queue buffers mutations in order until flushed.
type queue struct {
	ops []BulkOp
}

func newQueue(capacity int) *queue {
	return &queue{ops: make([]BulkOp, 0, capacity)}
}

func (q *queue) add(op BulkOp) {
	q.ops = append(q.ops, op)
}

func (q *queue) flush(ctx context.Context, store DocumentStore) error {
	if len(q.ops) == 0 {
		return nil
	}
	err := store.Bulk(ctx, q.ops)
	q.ops = q.ops[:0]
	return err
}
