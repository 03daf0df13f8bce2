package model

import "time"

// HistoryLimit 每个会话上下文保留的最近消息条数，超出后按 FIFO 淘汰最旧的。
const HistoryLimit = 10

// ConversationContext 表示单个用户的会话上下文。
// 所有实例归 ContextRepository 所有，外部只读取按值返回的副本；
// 修改必须通过仓库的 Update 操作完成，保证同一用户串行写。
type ConversationContext struct {
	UserID          string    `json:"userId"`
	LastIntent      Intent    `json:"lastIntent,omitempty"` // 首轮之前为空
	LastCity        string    `json:"lastCity,omitempty"`   // 最近一次提取或记住的城市
	LastInteraction time.Time `json:"lastInteraction"`
	MessageHistory  []string  `json:"messageHistory"`
	MessageCount    int       `json:"messageCount"` // 累计轮次，仅用于观测，不参与决策
}

// AppendMessage 将消息追加到历史，超出 HistoryLimit 时淘汰最旧的一条。
func (c *ConversationContext) AppendMessage(message string) {
	c.MessageHistory = append(c.MessageHistory, message)
	if len(c.MessageHistory) > HistoryLimit {
		c.MessageHistory = c.MessageHistory[len(c.MessageHistory)-HistoryLimit:]
	}
}

// Clone 返回上下文的深拷贝，历史切片独立，调用方可安全持有。
func (c *ConversationContext) Clone() ConversationContext {
	cp := *c
	cp.MessageHistory = make([]string, len(c.MessageHistory))
	copy(cp.MessageHistory, c.MessageHistory)
	return cp
}
