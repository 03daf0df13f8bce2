package service

import (
	"context"
	"fmt"
	"strings"
	"unicode"

	"meteo-bot-go/internal/model"
	"meteo-bot-go/internal/repository"
	"meteo-bot-go/pkg/log"
)

// WeatherFetcher 抽象了对天气服务商的实际调用，由 pkg/weather.Client 实现。
type WeatherFetcher interface {
	FetchCurrent(ctx context.Context, city string) (*model.WeatherSnapshot, error)
}

// WeatherService 定义了带缓存的天气查询与报告格式化。
type WeatherService interface {
	// GetWeather 返回一个城市的天气快照，优先命中缓存。
	// 失败（网络、超时、未知城市）统一以 error 返回，由调用方降级。
	GetWeather(ctx context.Context, city string) (*model.WeatherSnapshot, error)
	// FormatReport 把天气快照渲染成发给用户的文本报告。
	FormatReport(snapshot *model.WeatherSnapshot) string
}

type weatherService struct {
	fetcher WeatherFetcher
	cache   repository.WeatherCacheRepository // 可为 nil，此时不做缓存
}

// NewWeatherService 创建一个新的 WeatherService。cache 传 nil 时禁用缓存。
func NewWeatherService(fetcher WeatherFetcher, cache repository.WeatherCacheRepository) WeatherService {
	return &weatherService{fetcher: fetcher, cache: cache}
}

// GetWeather 先查缓存再回源。缓存故障只记录日志并继续回源，
// 绝不把缓存层的问题放大成用户可见的失败。
func (s *weatherService) GetWeather(ctx context.Context, city string) (*model.WeatherSnapshot, error) {
	if s.cache != nil {
		cached, err := s.cache.Get(ctx, city)
		if err != nil {
			log.Warnf("读取天气缓存失败，回源查询: city=%s, err=%v", city, err)
		} else if cached != nil {
			log.Debugf("天气缓存命中: city=%s", city)
			return cached, nil
		}
	}

	snapshot, err := s.fetcher.FetchCurrent(ctx, city)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, city, snapshot); err != nil {
			log.Warnf("写入天气缓存失败: city=%s, err=%v", city, err)
		}
	}
	return snapshot, nil
}

func (s *weatherService) FormatReport(snapshot *model.WeatherSnapshot) string {
	return fmt.Sprintf(`%s *Météo à %s, %s*

🌡️ *Température :* %.1f°C
🤔 *Ressenti :* %.1f°C
📊 *Conditions :* %s

💨 *Vent :* %.1f km/h
💧 *Humidité :* %d%%
🔽 *Pression :* %d hPa

_Données en temps réel_ ⏰`,
		conditionEmoji(snapshot.Condition),
		snapshot.City,
		snapshot.Country,
		snapshot.Temperature,
		snapshot.FeelsLike,
		capitalizeFirst(snapshot.Description),
		snapshot.WindSpeed*3.6, // m/s 转 km/h
		snapshot.Humidity,
		snapshot.Pressure,
	)
}

// conditionEmoji 按天气条件类别选择表情。
func conditionEmoji(condition string) string {
	switch strings.ToLower(condition) {
	case "clear":
		return "☀️"
	case "clouds":
		return "☁️"
	case "rain", "drizzle":
		return "🌧️"
	case "thunderstorm":
		return "⛈️"
	case "snow":
		return "❄️"
	case "mist", "fog", "haze":
		return "🌫️"
	default:
		return "🌤️"
	}
}

func capitalizeFirst(text string) string {
	runes := []rune(text)
	if len(runes) == 0 {
		return text
	}
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}
