// Package weather 提供了一个与 OpenWeatherMap 交互的客户端。
package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"meteo-bot-go/internal/config"
	"meteo-bot-go/internal/model"
)

// 外呼统一使用 30 秒超时。
const requestTimeout = 30 * time.Second

// Client 是 OpenWeatherMap 当前天气接口的客户端。
type Client struct {
	apiURL string
	apiKey string
	client *http.Client
}

// NewClient 创建一个新的天气客户端实例。
func NewClient(cfg config.WeatherConfig) *Client {
	return &Client{
		apiURL: cfg.APIURL,
		apiKey: cfg.APIKey,
		client: &http.Client{Timeout: requestTimeout},
	}
}

// currentWeatherResponse 对应 OpenWeatherMap /weather 的响应结构，
// 只声明我们消费的字段。
type currentWeatherResponse struct {
	Name    string `json:"name"`
	Weather []struct {
		Main        string `json:"main"`
		Description string `json:"description"`
	} `json:"weather"`
	Main struct {
		Temp      float64 `json:"temp"`
		FeelsLike float64 `json:"feels_like"`
		Pressure  int     `json:"pressure"`
		Humidity  int     `json:"humidity"`
	} `json:"main"`
	Wind struct {
		Speed float64 `json:"speed"`
	} `json:"wind"`
	Sys struct {
		Country string `json:"country"`
	} `json:"sys"`
}

// FetchCurrent 查询一个城市的当前天气，返回统一的 WeatherSnapshot。
// 城市不存在、网络错误或上游非 200 都作为 error 返回，由调用方统一降级。
func (c *Client) FetchCurrent(ctx context.Context, city string) (*model.WeatherSnapshot, error) {
	params := url.Values{}
	params.Set("q", city)
	params.Set("appid", c.apiKey)
	params.Set("units", "metric")
	params.Set("lang", "fr")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.apiURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("创建天气请求失败: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("调用天气接口失败: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("天气接口返回错误 [%d]: %s", resp.StatusCode, string(body))
	}

	var payload currentWeatherResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("解析天气响应失败: %w", err)
	}
	if len(payload.Weather) == 0 {
		return nil, fmt.Errorf("天气响应缺少 weather 字段, city=%s", city)
	}

	return &model.WeatherSnapshot{
		City:        payload.Name,
		Country:     payload.Sys.Country,
		Temperature: payload.Main.Temp,
		FeelsLike:   payload.Main.FeelsLike,
		Condition:   payload.Weather[0].Main,
		Description: payload.Weather[0].Description,
		WindSpeed:   payload.Wind.Speed,
		Humidity:    payload.Main.Humidity,
		Pressure:    payload.Main.Pressure,
	}, nil
}
