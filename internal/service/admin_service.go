package service

import (
	"errors"
	"sort"
	"time"

	"meteo-bot-go/internal/config"
	"meteo-bot-go/internal/model"
	"meteo-bot-go/pkg/hash"
	"meteo-bot-go/pkg/token"
)

// ErrInvalidCredentials 表示管理员用户名或密码不正确。
var ErrInvalidCredentials = errors.New("用户名或密码错误")

// BotStats 是管理接口暴露的运行统计。
type BotStats struct {
	ActiveContexts int    `json:"activeContexts"`
	ProcessedTurns uint64 `json:"processedTurns"`
	UptimeSeconds  int64  `json:"uptimeSeconds"`
}

// AdminService 接口定义了管理接口的业务操作。
type AdminService interface {
	// Login 校验配置中的静态管理员凭证，成功时签发 access/refresh token。
	Login(username, password string) (accessToken, refreshToken string, err error)
	// RefreshToken 用有效的 refresh token 换取新的 token 对。
	RefreshToken(refreshTokenString string) (newAccessToken, newRefreshToken string, err error)
	// Stats 返回运行统计。
	Stats() BotStats
	// ListContexts 返回所有存活的会话上下文，按最近交互时间倒序。
	ListContexts() []model.ConversationContext
}

type adminService struct {
	cfg            config.AdminConfig
	jwtManager     *token.JWTManager
	contextService ContextService
	botService     BotService
	startedAt      time.Time
}

// NewAdminService 创建一个新的 AdminService 实例。
func NewAdminService(cfg config.AdminConfig, jwtManager *token.JWTManager, contextService ContextService, botService BotService) AdminService {
	return &adminService{
		cfg:            cfg,
		jwtManager:     jwtManager,
		contextService: contextService,
		botService:     botService,
		startedAt:      time.Now(),
	}
}

func (s *adminService) Login(username, password string) (string, string, error) {
	if username != s.cfg.Username || !hash.CheckPasswordHash(password, s.cfg.PasswordHash) {
		return "", "", ErrInvalidCredentials
	}

	accessToken, err := s.jwtManager.GenerateToken(username)
	if err != nil {
		return "", "", err
	}
	refreshToken, err := s.jwtManager.GenerateRefreshToken(username)
	if err != nil {
		return "", "", err
	}
	return accessToken, refreshToken, nil
}

func (s *adminService) RefreshToken(refreshTokenString string) (string, string, error) {
	claims, err := s.jwtManager.VerifyToken(refreshTokenString)
	if err != nil {
		return "", "", err
	}
	if claims.Username != s.cfg.Username {
		return "", "", ErrInvalidCredentials
	}

	newAccessToken, err := s.jwtManager.GenerateToken(claims.Username)
	if err != nil {
		return "", "", err
	}
	newRefreshToken, err := s.jwtManager.GenerateRefreshToken(claims.Username)
	if err != nil {
		return "", "", err
	}
	return newAccessToken, newRefreshToken, nil
}

func (s *adminService) Stats() BotStats {
	return BotStats{
		ActiveContexts: s.contextService.ActiveCount(),
		ProcessedTurns: s.botService.ProcessedTurns(),
		UptimeSeconds:  int64(time.Since(s.startedAt).Seconds()),
	}
}

func (s *adminService) ListContexts() []model.ConversationContext {
	contexts := s.contextService.ListContexts()
	sort.Slice(contexts, func(i, j int) bool {
		return contexts[i].LastInteraction.After(contexts[j].LastInteraction)
	})
	return contexts
}
