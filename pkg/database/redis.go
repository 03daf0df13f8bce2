// Package database 负责外部存储客户端的初始化。
package database

import (
	"context"

	"github.com/go-redis/redis/v8"

	"meteo-bot-go/pkg/log"
)

var RDB *redis.Client

// InitRedis 初始化 Redis 客户端连接。Redis 在本服务中只承担天气缓存，
// 连接失败时直接终止进程。
func InitRedis(addr, password string, db int) {
	RDB = redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	if err := RDB.Ping(context.Background()).Err(); err != nil {
		log.Fatal("failed to connect to redis", err)
	}

	log.Info("Redis client connected successfully")
}
