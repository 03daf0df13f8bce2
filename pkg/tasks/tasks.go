// Package tasks 定义了在处理队列中流转的任务结构。
package tasks

// IncomingMessage 表示一条待处理的入站文本消息。
// webhook handler 在确认回执之前把它投入队列（进程内或 Kafka），
// 由 Processor 异步完成整轮对话处理。
type IncomingMessage struct {
	UserID    string `json:"user_id"`    // 发送方的 WhatsApp 标识
	UserName  string `json:"user_name"`  // 发送方的展示名，可为空
	Text      string `json:"text"`       // 消息原文
	MessageID string `json:"message_id"` // 上游消息 ID，仅用于日志追踪
}
