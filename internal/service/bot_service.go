package service

import (
	"context"
	"sync/atomic"

	"meteo-bot-go/internal/model"
	"meteo-bot-go/pkg/log"
)

// BotService 定义了一轮完整的对话处理。
type BotService interface {
	// Reply 处理一条用户消息并返回要发送的回复文本。
	// 任何失败都在内部降级成友好文案，绝不向上抛错。
	Reply(ctx context.Context, userID, userName, text string) string
	// ProcessedTurns 返回进程启动以来处理过的轮次总数。
	ProcessedTurns() uint64
}

type botService struct {
	intentService  IntentService
	contextService ContextService
	replyService   ReplyService
	weatherService WeatherService

	processedTurns atomic.Uint64
}

// NewBotService 创建一个新的 BotService。
func NewBotService(
	intentService IntentService,
	contextService ContextService,
	replyService ReplyService,
	weatherService WeatherService,
) BotService {
	return &botService{
		intentService:  intentService,
		contextService: contextService,
		replyService:   replyService,
		weatherService: weatherService,
	}
}

// Reply 执行单轮管道：取上下文快照 → 分类与城市提取（基于同一条
// 规范化消息独立进行）→ 响应策略选路 → 执行 → 记录本轮到上下文。
// 决策使用的是更新前的上下文快照，"欢迎回来"因此只在第二轮起触发。
func (s *botService) Reply(ctx context.Context, userID, userName, text string) string {
	snapshot := s.contextService.GetOrCreate(userID)

	intent := s.intentService.Classify(text)
	city, _ := s.intentService.ExtractCity(text)
	log.Infof("用户 %s 的消息识别为 %s, city=%q", userID, intent, city)

	directive := s.replyService.Decide(snapshot, intent, city)

	var reply string
	switch directive.Kind {
	case DirectiveFetchWeather:
		reply = s.fetchWeatherReply(ctx, directive.City)
	case DirectiveSuggestRememberedCity:
		reply = s.replyService.SuggestRememberedCity(directive.City)
	case DirectiveGenericWeatherPrompt:
		reply = s.replyService.Canned(model.IntentWeather, userName)
	case DirectiveWelcomeBack:
		reply = s.replyService.WelcomeBack(directive.City)
	default:
		reply = s.replyService.Canned(intent, userName)
	}

	s.contextService.RecordTurn(userID, text, intent, city)
	s.processedTurns.Add(1)
	return reply
}

// fetchWeatherReply 查询天气并格式化；任何失败都映射为统一的降级文案。
func (s *botService) fetchWeatherReply(ctx context.Context, city string) string {
	snapshot, err := s.weatherService.GetWeather(ctx, city)
	if err != nil || snapshot == nil {
		log.Warnf("天气查询失败: city=%s, err=%v", city, err)
		return s.replyService.CityNotFound()
	}
	return s.weatherService.FormatReport(snapshot)
}

func (s *botService) ProcessedTurns() uint64 {
	return s.processedTurns.Load()
}
