package service

import (
	"time"

	"meteo-bot-go/internal/model"
	"meteo-bot-go/internal/repository"
	"meteo-bot-go/pkg/log"
)

// 记住的城市只在最近一次交互后的这段时间内作为默认值提供。
const recentCityWindow = 5 * time.Minute

// ContextService 定义了会话上下文的业务操作。
type ContextService interface {
	// GetOrCreate 返回用户当前上下文的副本，首次引用时隐式创建。
	GetOrCreate(userID string) model.ConversationContext
	// RecordTurn 记录一轮对话：追加历史（FIFO 截断）、更新意图和时间戳。
	// extractedCity 为空时保留之前记住的城市，不清除。
	RecordTurn(userID, message string, intent model.Intent, extractedCity string) model.ConversationContext
	// HasRecentCity 判断上下文是否有可用的记忆城市：lastCity 非空
	// 且最近一次交互在 5 分钟以内。纯读操作。
	HasRecentCity(ctx model.ConversationContext) bool
	// ActiveCount 返回当前存活的上下文数量。
	ActiveCount() int
	// ListContexts 返回所有上下文的副本。
	ListContexts() []model.ConversationContext
	// StartSweeper 启动空闲上下文清理协程，返回停止函数。
	StartSweeper(ttl, interval time.Duration) func()
}

type contextService struct {
	repo repository.ContextRepository
	now  func() time.Time
}

// NewContextService 创建一个新的 ContextService。now 为 nil 时使用系统时钟。
func NewContextService(repo repository.ContextRepository, now func() time.Time) ContextService {
	if now == nil {
		now = time.Now
	}
	return &contextService{repo: repo, now: now}
}

func (s *contextService) GetOrCreate(userID string) model.ConversationContext {
	return s.repo.GetOrCreate(userID)
}

func (s *contextService) RecordTurn(userID, message string, intent model.Intent, extractedCity string) model.ConversationContext {
	now := s.now()
	updated := s.repo.Update(userID, func(ctx *model.ConversationContext) {
		ctx.AppendMessage(message)
		ctx.LastIntent = intent
		ctx.LastInteraction = now
		ctx.MessageCount++
		if extractedCity != "" {
			ctx.LastCity = extractedCity
		}
	})
	log.Debugf("updated context for user %s: intent=%s city=%s count=%d",
		userID, updated.LastIntent, updated.LastCity, updated.MessageCount)
	return updated
}

func (s *contextService) HasRecentCity(ctx model.ConversationContext) bool {
	if ctx.LastCity == "" {
		return false
	}
	return s.now().Sub(ctx.LastInteraction) <= recentCityWindow
}

func (s *contextService) ActiveCount() int {
	return s.repo.Count()
}

func (s *contextService) ListContexts() []model.ConversationContext {
	return s.repo.Snapshot()
}

// StartSweeper 定期清理空闲超过 ttl 的上下文，充当进程内的 TTL 淘汰策略。
func (s *contextService) StartSweeper(ttl, interval time.Duration) func() {
	stop := make(chan struct{})
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if removed := s.repo.PruneIdle(ttl); removed > 0 {
					log.Infof("清理了 %d 个空闲会话上下文", removed)
				}
			case <-stop:
				return
			}
		}
	}()
	return func() { close(stop) }
}
