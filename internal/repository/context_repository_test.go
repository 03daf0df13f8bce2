package repository

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"meteo-bot-go/internal/model"
)

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestGetOrCreate(t *testing.T) {
	base := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	repo := NewContextRepository(fixedClock(base))

	ctx := repo.GetOrCreate("user-1")
	require.Equal(t, "user-1", ctx.UserID)
	require.Equal(t, base, ctx.LastInteraction)
	require.Empty(t, ctx.MessageHistory)
	require.Equal(t, 1, repo.Count())

	// 再次获取返回同一个上下文，不会重复创建
	repo.GetOrCreate("user-1")
	require.Equal(t, 1, repo.Count())
}

func TestGetOrCreate_ConcurrentSingleInstance(t *testing.T) {
	repo := NewContextRepository(nil)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			repo.GetOrCreate("user-1")
		}()
	}
	wg.Wait()

	require.Equal(t, 1, repo.Count())
}

func TestUpdate_ConcurrentNoLostWrites(t *testing.T) {
	repo := NewContextRepository(nil)

	const writers = 100
	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			repo.Update("user-1", func(ctx *model.ConversationContext) {
				ctx.MessageCount++
			})
		}()
	}
	wg.Wait()

	require.Equal(t, writers, repo.GetOrCreate("user-1").MessageCount)
}

func TestGetOrCreate_ReturnsIndependentCopy(t *testing.T) {
	repo := NewContextRepository(nil)

	repo.Update("user-1", func(ctx *model.ConversationContext) {
		ctx.AppendMessage("bonjour")
	})

	copy1 := repo.GetOrCreate("user-1")
	copy1.MessageHistory[0] = "mutated"
	copy1.LastCity = "Nowhere"

	fresh := repo.GetOrCreate("user-1")
	require.Equal(t, "bonjour", fresh.MessageHistory[0])
	require.Empty(t, fresh.LastCity)
}

func TestSnapshot(t *testing.T) {
	repo := NewContextRepository(nil)

	for i := 0; i < 5; i++ {
		repo.GetOrCreate(fmt.Sprintf("user-%d", i))
	}

	snapshot := repo.Snapshot()
	require.Len(t, snapshot, 5)

	seen := make(map[string]bool)
	for _, ctx := range snapshot {
		seen[ctx.UserID] = true
	}
	require.Len(t, seen, 5)
}

func TestPruneIdle(t *testing.T) {
	current := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	repo := NewContextRepository(func() time.Time { return current })

	repo.GetOrCreate("user-old")
	current = current.Add(2 * time.Hour)
	repo.GetOrCreate("user-fresh")

	removed := repo.PruneIdle(time.Hour)
	require.Equal(t, 1, removed)
	require.Equal(t, 1, repo.Count())

	// 留下的是活跃用户
	require.Equal(t, "user-fresh", repo.Snapshot()[0].UserID)
}
