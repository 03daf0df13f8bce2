// Package handler 包含了处理 HTTP 请求的控制器逻辑。
package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"meteo-bot-go/internal/model"
	"meteo-bot-go/pkg/log"
	"meteo-bot-go/pkg/tasks"
)

// TaskQueue 抽象了入站消息任务的投递端（进程内队列或 Kafka 生产者）。
type TaskQueue interface {
	Enqueue(task tasks.IncomingMessage) bool
}

// WebhookHandler 处理 Meta WhatsApp Cloud API 的 webhook 请求。
type WebhookHandler struct {
	verifyToken string
	queue       TaskQueue
}

// NewWebhookHandler 创建一个新的 WebhookHandler。
func NewWebhookHandler(verifyToken string, queue TaskQueue) *WebhookHandler {
	return &WebhookHandler{verifyToken: verifyToken, queue: queue}
}

// Verify 处理 Meta 的 webhook 验证握手（GET）。
// mode 为 subscribe 且校验串匹配时原样返回 challenge，否则 403。
func (h *WebhookHandler) Verify(c *gin.Context) {
	mode := c.Query("hub.mode")
	verifyToken := c.Query("hub.verify_token")
	challenge := c.Query("hub.challenge")

	if mode == "subscribe" && verifyToken == h.verifyToken {
		log.Info("Webhook 验证成功")
		c.String(http.StatusOK, challenge)
		return
	}

	log.Warnf("Webhook 验证失败: mode=%s", mode)
	c.String(http.StatusForbidden, "Forbidden")
}

// Receive 处理消息推送（POST）。文本消息逐条入队异步处理；
// 非文本消息、空负载或解析失败都被静默忽略。
// 无论处理结果如何都返回 200，否则 Meta 会不断重推。
func (h *WebhookHandler) Receive(c *gin.Context) {
	var req model.WebhookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warnf("无法解析 webhook 负载: %v", err)
		c.String(http.StatusOK, "EVENT_RECEIVED")
		return
	}

	for _, entry := range req.Entry {
		for _, change := range entry.Changes {
			names := contactNames(change.Value.Contacts)
			for _, message := range change.Value.Messages {
				if message.Type != "text" || message.Text == nil || message.From == "" {
					continue
				}
				h.queue.Enqueue(tasks.IncomingMessage{
					UserID:    message.From,
					UserName:  names[message.From],
					Text:      message.Text.Body,
					MessageID: message.ID,
				})
			}
		}
	}

	c.String(http.StatusOK, "EVENT_RECEIVED")
}

func contactNames(contacts []model.WebhookContact) map[string]string {
	names := make(map[string]string, len(contacts))
	for _, contact := range contacts {
		if contact.Profile.Name != "" {
			names[contact.WaID] = contact.Profile.Name
		}
	}
	return names
}
