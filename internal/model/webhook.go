package model

// WebhookRequest 对应 Meta WhatsApp Cloud API 推送的 webhook 负载。
// 只声明我们消费的字段，未知字段在反序列化时被忽略。
type WebhookRequest struct {
	Object string  `json:"object"`
	Entry  []Entry `json:"entry"`
}

// Entry 是 webhook 负载中的一个账号条目。
type Entry struct {
	ID      string   `json:"id"`
	Changes []Change `json:"changes"`
}

// Change 是条目下的一次变更通知。
type Change struct {
	Field string      `json:"field"`
	Value ChangeValue `json:"value"`
}

// ChangeValue 携带实际的消息列表。
type ChangeValue struct {
	MessagingProduct string            `json:"messaging_product"`
	Contacts         []WebhookContact  `json:"contacts"`
	Messages         []IncomingMessage `json:"messages"`
}

// WebhookContact 是发送方的联系人信息。
type WebhookContact struct {
	WaID    string `json:"wa_id"`
	Profile struct {
		Name string `json:"name"`
	} `json:"profile"`
}

// IncomingMessage 是一条入站消息。Type 不为 "text" 的消息被整体忽略。
type IncomingMessage struct {
	From      string       `json:"from"`
	ID        string       `json:"id"`
	Timestamp string       `json:"timestamp"`
	Type      string       `json:"type"`
	Text      *MessageText `json:"text,omitempty"`
}

// MessageText 是文本消息的正文。
type MessageText struct {
	Body string `json:"body"`
}
