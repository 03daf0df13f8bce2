package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"

	"meteo-bot-go/internal/model"
)

// WeatherCacheRepository 定义了天气查询结果的短期缓存接口。
type WeatherCacheRepository interface {
	// Get 返回缓存的快照；未命中时返回 (nil, nil)。
	Get(ctx context.Context, city string) (*model.WeatherSnapshot, error)
	// Set 写入快照并设置 TTL。
	Set(ctx context.Context, city string, snapshot *model.WeatherSnapshot) error
}

type redisWeatherCacheRepository struct {
	redisClient *redis.Client
	ttl         time.Duration
}

// NewWeatherCacheRepository 创建一个基于 Redis 的天气缓存实例。
func NewWeatherCacheRepository(redisClient *redis.Client, ttl time.Duration) WeatherCacheRepository {
	return &redisWeatherCacheRepository{redisClient: redisClient, ttl: ttl}
}

func cacheKey(city string) string {
	return fmt.Sprintf("weather:%s", strings.ToLower(strings.TrimSpace(city)))
}

func (r *redisWeatherCacheRepository) Get(ctx context.Context, city string) (*model.WeatherSnapshot, error) {
	jsonData, err := r.redisClient.Get(ctx, cacheKey(city)).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get cached weather: %w", err)
	}

	var snapshot model.WeatherSnapshot
	if err := json.Unmarshal([]byte(jsonData), &snapshot); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cached weather: %w", err)
	}
	return &snapshot, nil
}

func (r *redisWeatherCacheRepository) Set(ctx context.Context, city string, snapshot *model.WeatherSnapshot) error {
	jsonData, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("failed to marshal weather snapshot: %w", err)
	}
	if err := r.redisClient.Set(ctx, cacheKey(city), jsonData, r.ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache weather snapshot: %w", err)
	}
	return nil
}
