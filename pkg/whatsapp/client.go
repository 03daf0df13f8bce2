// Package whatsapp 提供了一个通过 Meta Graph API 发送消息的客户端。
package whatsapp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"meteo-bot-go/internal/config"
)

const requestTimeout = 30 * time.Second

// Client 是 WhatsApp Cloud API 的出站消息客户端。
type Client struct {
	apiURL        string
	accessToken   string
	phoneNumberID string
	client        *http.Client
}

// NewClient 创建一个新的 WhatsApp 客户端实例。
func NewClient(cfg config.WhatsAppConfig) *Client {
	return &Client{
		apiURL:        cfg.APIURL,
		accessToken:   cfg.AccessToken,
		phoneNumberID: cfg.PhoneNumberID,
		client:        &http.Client{Timeout: requestTimeout},
	}
}

type textPayload struct {
	MessagingProduct string `json:"messaging_product"`
	To               string `json:"to"`
	Type             string `json:"type"`
	Text             struct {
		Body string `json:"body"`
	} `json:"text"`
}

// SendText 向指定用户发送一条文本消息。
func (c *Client) SendText(ctx context.Context, to, body string) error {
	payload := textPayload{
		MessagingProduct: "whatsapp",
		To:               to,
		Type:             "text",
	}
	payload.Text.Body = body

	reqBytes, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("序列化消息负载失败: %w", err)
	}

	url := fmt.Sprintf("%s/%s/messages", c.apiURL, c.phoneNumberID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(reqBytes))
	if err != nil {
		return fmt.Errorf("创建发送请求失败: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.accessToken)

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("调用 WhatsApp 接口失败: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("WhatsApp 接口返回错误 [%d]: %s", resp.StatusCode, string(respBody))
	}
	return nil
}
