// Package repository 提供了数据访问层的实现。
package repository

import (
	"hash/fnv"
	"sync"
	"time"

	"meteo-bot-go/internal/model"
)

// ContextRepository 定义了会话上下文的存取接口。
// 实现必须保证同一 userID 的读-改-写串行执行，不同用户之间互不阻塞。
type ContextRepository interface {
	// GetOrCreate 返回该用户上下文的副本；不存在时先原子地创建。
	// 并发的首次调用不会产生两个不同的实例。
	GetOrCreate(userID string) model.ConversationContext
	// Update 在该用户的锁内执行 mutate 并回写，返回更新后的副本。
	Update(userID string, mutate func(*model.ConversationContext)) model.ConversationContext
	// Count 返回当前存活的上下文数量。
	Count() int
	// Snapshot 返回所有上下文的副本，用于管理接口。
	Snapshot() []model.ConversationContext
	// PruneIdle 删除空闲时间超过 idle 的上下文，返回删除数量。
	PruneIdle(idle time.Duration) int
}

const shardCount = 32

// contextShard 是一段独立加锁的用户分片。
type contextShard struct {
	mu       sync.Mutex
	contexts map[string]*model.ConversationContext
}

// memoryContextRepository 是 ContextRepository 的进程内实现。
// 按 userID 哈希分片加锁：同一用户的所有写操作在同一把锁内完成，
// 避免裸 get-then-put 造成的丢失更新。
type memoryContextRepository struct {
	shards [shardCount]*contextShard
	now    func() time.Time
}

// NewContextRepository 创建一个新的进程内 ContextRepository 实例。
func NewContextRepository(now func() time.Time) ContextRepository {
	if now == nil {
		now = time.Now
	}
	r := &memoryContextRepository{now: now}
	for i := range r.shards {
		r.shards[i] = &contextShard{contexts: make(map[string]*model.ConversationContext)}
	}
	return r
}

func (r *memoryContextRepository) shard(userID string) *contextShard {
	h := fnv.New32a()
	_, _ = h.Write([]byte(userID))
	return r.shards[h.Sum32()%shardCount]
}

// locked 调用方必须已持有分片锁。
func (s *contextShard) locked(userID string, now time.Time) *model.ConversationContext {
	ctx, ok := s.contexts[userID]
	if !ok {
		ctx = &model.ConversationContext{
			UserID:          userID,
			LastInteraction: now,
			MessageHistory:  make([]string, 0, model.HistoryLimit),
		}
		s.contexts[userID] = ctx
	}
	return ctx
}

func (r *memoryContextRepository) GetOrCreate(userID string) model.ConversationContext {
	s := r.shard(userID)
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.locked(userID, r.now()).Clone()
}

func (r *memoryContextRepository) Update(userID string, mutate func(*model.ConversationContext)) model.ConversationContext {
	s := r.shard(userID)
	s.mu.Lock()
	defer s.mu.Unlock()
	ctx := s.locked(userID, r.now())
	mutate(ctx)
	return ctx.Clone()
}

func (r *memoryContextRepository) Count() int {
	total := 0
	for _, s := range r.shards {
		s.mu.Lock()
		total += len(s.contexts)
		s.mu.Unlock()
	}
	return total
}

func (r *memoryContextRepository) Snapshot() []model.ConversationContext {
	var out []model.ConversationContext
	for _, s := range r.shards {
		s.mu.Lock()
		for _, ctx := range s.contexts {
			out = append(out, ctx.Clone())
		}
		s.mu.Unlock()
	}
	return out
}

func (r *memoryContextRepository) PruneIdle(idle time.Duration) int {
	cutoff := r.now().Add(-idle)
	removed := 0
	for _, s := range r.shards {
		s.mu.Lock()
		for userID, ctx := range s.contexts {
			if ctx.LastInteraction.Before(cutoff) {
				delete(s.contexts, userID)
				removed++
			}
		}
		s.mu.Unlock()
	}
	return removed
}
