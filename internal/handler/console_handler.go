package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"meteo-bot-go/internal/service"
	"meteo-bot-go/pkg/log"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // 本地调试工具，允许所有来源
	},
}

// ConsoleHandler 提供一个 WebSocket 调试控制台：
// 不经过 WhatsApp，直接与对话管道同步交互，便于本地验证意图识别与回复。
type ConsoleHandler struct {
	botService service.BotService
}

// NewConsoleHandler 创建一个新的 ConsoleHandler。
func NewConsoleHandler(botService service.BotService) *ConsoleHandler {
	return &ConsoleHandler{botService: botService}
}

// Handle 处理一个传入的 WebSocket 连接。
// 每个连接分配独立的用户标识，会话上下文互不串扰。
func (h *ConsoleHandler) Handle(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error("WebSocket 升级失败", err)
		return
	}
	defer conn.Close()

	userID := "console:" + uuid.NewString()
	log.Infof("调试控制台连接已建立: %s", userID)

	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			log.Warnf("从 WebSocket 读取消息失败: %v", err)
			return
		}

		text := strings.TrimSpace(string(message))
		if text == "" {
			continue
		}

		reply := h.botService.Reply(c.Request.Context(), userID, "console", text)
		if err := conn.WriteMessage(websocket.TextMessage, []byte(reply)); err != nil {
			log.Warnf("向 WebSocket 写入回复失败: %v", err)
			return
		}
	}
}
