// Package config 负责加载和管理应用程序的配置。
package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// 全局配置变量，存储从配置文件加载的所有设置。
var Conf Config

// Config 是整个应用程序的配置结构体，与 config.yaml 文件结构对应。
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Log      LogConfig      `mapstructure:"log"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Kafka    KafkaConfig    `mapstructure:"kafka"`
	WhatsApp WhatsAppConfig `mapstructure:"whatsapp"`
	Weather  WeatherConfig  `mapstructure:"weather"`
	Admin    AdminConfig    `mapstructure:"admin"`
	Bot      BotConfig      `mapstructure:"bot"`
}

// ServerConfig 存储 HTTP 服务器相关的配置。
type ServerConfig struct {
	Port string `mapstructure:"port"`
	Mode string `mapstructure:"mode"`
}

// LogConfig 存储日志相关的配置。
type LogConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	OutputPath string `mapstructure:"output_path"`
}

// RedisConfig 存储 Redis 的配置，Redis 仅用作天气查询结果的短期缓存。
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// KafkaConfig 存储入站消息任务队列的 Kafka 配置。
// Enabled 为 false 时使用进程内 worker pool，无需任何 broker。
type KafkaConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Brokers string `mapstructure:"brokers"`
	Topic   string `mapstructure:"topic"`
	GroupID string `mapstructure:"group_id"`
}

// WhatsAppConfig 存储 Meta WhatsApp Cloud API 相关的配置。
type WhatsAppConfig struct {
	APIURL        string `mapstructure:"api_url"`
	AccessToken   string `mapstructure:"access_token"`
	PhoneNumberID string `mapstructure:"phone_number_id"`
	VerifyToken   string `mapstructure:"verify_token"`
}

// WeatherConfig 存储天气服务商（OpenWeatherMap）相关的配置。
type WeatherConfig struct {
	APIURL          string `mapstructure:"api_url"`
	APIKey          string `mapstructure:"api_key"`
	CacheTTLMinutes int    `mapstructure:"cache_ttl_minutes"`
}

// AdminConfig 存储管理接口的静态凭证与 JWT 配置。
// PasswordHash 为 bcrypt 哈希后的密码。
type AdminConfig struct {
	Username               string `mapstructure:"username"`
	PasswordHash           string `mapstructure:"password_hash"`
	JWTSecret              string `mapstructure:"jwt_secret"`
	AccessTokenExpireHours int    `mapstructure:"access_token_expire_hours"`
	RefreshTokenExpireDays int    `mapstructure:"refresh_token_expire_days"`
}

// BotConfig 存储对话管道的调优参数。
type BotConfig struct {
	Workers         int `mapstructure:"workers"`           // 处理入站消息的 worker 数量
	QueueSize       int `mapstructure:"queue_size"`        // 进程内任务队列容量
	ContextTTLHours int `mapstructure:"context_ttl_hours"` // 空闲会话上下文的清理阈值
}

// Init 初始化配置加载，从指定的路径读取 YAML 文件并解析到 Conf 变量中。
func Init(configPath string) {
	viper.SetConfigFile(configPath)
	viper.SetConfigType("yaml")

	if err := viper.ReadInConfig(); err != nil {
		panic(fmt.Errorf("读取配置文件失败: %w", err))
	}

	if err := viper.Unmarshal(&Conf); err != nil {
		panic(fmt.Errorf("无法将配置解析到结构体中: %w", err))
	}
}
