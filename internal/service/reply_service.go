package service

import (
	"fmt"

	"meteo-bot-go/internal/model"
)

// DirectiveKind 标识响应策略选出的回复路径。
type DirectiveKind string

const (
	// DirectiveFetchWeather 本轮提取到了城市，直接查询天气。
	DirectiveFetchWeather DirectiveKind = "fetch_weather"
	// DirectiveSuggestRememberedCity 没提取到城市，但最近记住过一个。
	DirectiveSuggestRememberedCity DirectiveKind = "suggest_remembered_city"
	// DirectiveGenericWeatherPrompt 没有城市也没有记忆，提示用户给出城市。
	DirectiveGenericWeatherPrompt DirectiveKind = "generic_weather_prompt"
	// DirectiveWelcomeBack 老用户再次打招呼。
	DirectiveWelcomeBack DirectiveKind = "welcome_back"
	// DirectiveCannedReply 按意图选择固定模板回复。
	DirectiveCannedReply DirectiveKind = "canned_reply"
	// DirectiveClarification 无法识别意图，请求澄清。
	DirectiveClarification DirectiveKind = "clarification"
)

// ReplyDirective 是响应策略的输出。City 仅对天气相关路径有意义。
type ReplyDirective struct {
	Kind DirectiveKind
	City string
}

// ReplyService 定义了响应策略与回复文案的生成。
type ReplyService interface {
	// Decide 根据本轮意图、提取到的城市和用户上下文选择回复路径。
	// 优先级：带城市的天气请求 > 记忆城市建议 > 通用天气提示；
	// "欢迎回来"只在打招呼且已有历史时触发，从不覆盖显式的天气请求。
	Decide(ctx model.ConversationContext, intent model.Intent, extractedCity string) ReplyDirective
	// SuggestRememberedCity 生成引用记忆城市并请求确认的文案。
	SuggestRememberedCity(city string) string
	// WelcomeBack 生成老用户回归的文案，lastCity 非空时一并提及。
	WelcomeBack(lastCity string) string
	// Canned 返回意图对应的固定模板回复，userName 为空时使用默认称呼。
	Canned(intent model.Intent, userName string) string
	// CityNotFound 是天气查询失败（网络、超时、未知城市）的统一降级文案。
	CityNotFound() string
}

type replyService struct {
	contextService ContextService
}

// NewReplyService 创建一个新的 ReplyService。
func NewReplyService(contextService ContextService) ReplyService {
	return &replyService{contextService: contextService}
}

func (s *replyService) Decide(ctx model.ConversationContext, intent model.Intent, extractedCity string) ReplyDirective {
	switch intent {
	case model.IntentWeather:
		if extractedCity != "" {
			return ReplyDirective{Kind: DirectiveFetchWeather, City: extractedCity}
		}
		if s.contextService.HasRecentCity(ctx) {
			return ReplyDirective{Kind: DirectiveSuggestRememberedCity, City: ctx.LastCity}
		}
		return ReplyDirective{Kind: DirectiveGenericWeatherPrompt}
	case model.IntentGreeting:
		if len(ctx.MessageHistory) > 0 {
			return ReplyDirective{Kind: DirectiveWelcomeBack, City: ctx.LastCity}
		}
		return ReplyDirective{Kind: DirectiveCannedReply}
	case model.IntentUnknown:
		return ReplyDirective{Kind: DirectiveClarification}
	default:
		return ReplyDirective{Kind: DirectiveCannedReply}
	}
}

func (s *replyService) SuggestRememberedCity(city string) string {
	return fmt.Sprintf("🤔 Tu veux la météo pour *%s* comme la dernière fois ? Ou tu veux une autre ville ?", city)
}

func (s *replyService) WelcomeBack(lastCity string) string {
	suffix := ""
	if lastCity != "" {
		suffix = fmt.Sprintf(" (La dernière fois c'était %s)", lastCity)
	}
	return fmt.Sprintf("Re-bonjour ! 👋 Content de te revoir ! Tu veux la météo d'une ville ?%s", suffix)
}

func (s *replyService) Canned(intent model.Intent, userName string) string {
	name := userName
	if name == "" {
		name = "l'ami"
	}

	switch intent {
	case model.IntentGreeting:
		return fmt.Sprintf("Salut %s ! 👋 Je suis ton assistant météo. Donne-moi une ville et je te dis le temps qu'il fait ! ☀️🌧️", name)
	case model.IntentHelp:
		return `🤖 *Voici comment m'utiliser :*

📍 Demande la météo :
• "Météo à Paris"
• "Quel temps fait-il à Lyon ?"
• "Température Londres"
• Ou juste "Paris"

💬 Tu peux aussi me dire :
• Bonjour / Salut
• Merci
• Au revoir

Je comprends le langage naturel ! 🧠`
	case model.IntentThanks:
		return "De rien ! 😊 N'hésite pas si tu veux la météo d'une autre ville !"
	case model.IntentGoodbye:
		return "À bientôt ! 👋 Reviens quand tu veux pour la météo !"
	case model.IntentWeather:
		return "🌤️ Donne-moi le nom d'une ville et je te dirai la météo ! (Ex: Paris, Londres, Tokyo...)"
	default:
		return `🤔 Je n'ai pas bien compris...

Demande-moi la météo d'une ville (Ex: "Météo à Paris")
Ou tape "aide" pour voir ce que je peux faire !`
	}
}

func (s *replyService) CityNotFound() string {
	return "❌ Désolé, je n'ai pas trouvé cette ville. Vérifie l'orthographe ! 🤔"
}
