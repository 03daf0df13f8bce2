// Package service 包含了应用的业务逻辑层。
package service

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"meteo-bot-go/internal/model"
	"meteo-bot-go/pkg/log"
	"meteo-bot-go/pkg/textutil"
)

// 每个意图类别的关键词表（法语，已小写）。新增类别或关键词只改这里。
var intentKeywords = map[model.Intent][]string{
	model.IntentWeather:  {"météo", "meteo", "temps", "température", "temperature", "climat", "pluie", "soleil", "nuage", "vent"},
	model.IntentGreeting: {"bonjour", "salut", "hello", "hi", "bonsoir", "hey", "coucou"},
	model.IntentHelp:     {"aide", "help", "comment", "commande", "utiliser", "menu", "fonctionnalités", "fonctionnalites", "quoi faire", "que peux-tu"},
	model.IntentThanks:   {"merci", "thanks", "super", "génial", "cool", "parfait", "excellent"},
	model.IntentGoodbye:  {"au revoir", "bye", "salut", "adieu", "à plus", "a plus", "tchao"},
}

// 单独成词的招呼语。消息以招呼语开头且后面还有别的内容时，
// 打分前会先去掉这个前缀，让实际请求（如天气）胜出。
var salutationWords = map[string]struct{}{
	"bonjour": {}, "salut": {}, "hello": {}, "hi": {}, "bonsoir": {}, "hey": {}, "coucou": {},
}

// cityCharset 是城市名允许出现的字符（规范化之后）。
const cityCharset = `a-zàâäéèêëïîôùûüÿç\s-`

// 城市提取的短语模式，按固定优先级排列，先匹配者生效。
var cityPatterns = []*regexp.Regexp{
	// 天气词 + 介词 + 城市："météo à paris"
	regexp.MustCompile(`(?:météo|meteo|temps|température|temperature)\s+(?:à|a|de|pour|sur)\s+([` + cityCharset + `]+)`),
	// 介词 + 城市 + 天气词："à paris météo"
	regexp.MustCompile(`(?:à|a|de|pour|sur)\s+([` + cityCharset + `]+)\s+(?:météo|meteo|temps)`),
	// 行首城市 + 天气词："paris météo"
	regexp.MustCompile(`^([` + cityCharset + `]+)\s+(?:météo|meteo|temps|température)`),
	// 疑问句 + 介词 + 城市："quelle est la météo à paris"
	regexp.MustCompile(`(?:quel(?:le)?\s+(?:est|temps|météo|meteo)).*?(?:à|a|de|sur)\s+([` + cityCharset + `]+)`),
}

// IntentService 定义了意图识别与城市提取的接口。
type IntentService interface {
	// Classify 返回消息的最佳意图，空白输入或无关键词命中时返回 UNKNOWN。
	Classify(message string) model.Intent
	// ExtractCity 从消息中提取城市名（Title Case），没有可信候选时返回 false。
	ExtractCity(message string) (string, bool)
}

type intentService struct{}

// NewIntentService 创建一个新的 IntentService 实例。
func NewIntentService() IntentService {
	return &intentService{}
}

// Classify 对规范化后的消息按关键词打分：每命中一个关键词 +10，
// 消息以该关键词开头再 +5。分数最高的类别获胜；全零则为 UNKNOWN。
// 平分时按 model.ScoredIntents 的声明顺序决胜，保证结果确定。
func (s *intentService) Classify(message string) model.Intent {
	if strings.TrimSpace(message) == "" {
		return model.IntentUnknown
	}

	normalized := textutil.Normalize(message)
	if normalized == "" {
		return model.IntentUnknown
	}

	// 先在去掉招呼语前缀的文本上打分；若什么都没命中再回退到全文，
	// 避免 "bonjour quelle météo à paris" 被开头的 bonjour 抢走。
	best, bestScore := scoreIntents(stripLeadingSalutation(normalized))
	if bestScore == 0 {
		best, bestScore = scoreIntents(normalized)
	}

	log.Debugf("classified intent %s (score=%d) for message: %s", best, bestScore, normalized)
	return best
}

func scoreIntents(message string) (model.Intent, int) {
	best := model.IntentUnknown
	bestScore := 0
	for _, intent := range model.ScoredIntents {
		score := keywordScore(message, intentKeywords[intent])
		if score > bestScore {
			best = intent
			bestScore = score
		}
	}
	return best, bestScore
}

func keywordScore(message string, keywords []string) int {
	score := 0
	for _, keyword := range keywords {
		if strings.Contains(message, keyword) {
			score += 10
			if strings.HasPrefix(message, keyword) {
				score += 5
			}
		}
	}
	return score
}

// stripLeadingSalutation 去掉消息开头单独成词的招呼语。
// 消息只剩招呼语本身时原样返回，纯打招呼仍被识别为 GREETING。
func stripLeadingSalutation(message string) string {
	first, rest, found := strings.Cut(message, " ")
	if !found {
		return message
	}
	if _, ok := salutationWords[first]; !ok {
		return message
	}
	rest = strings.TrimSpace(rest)
	if rest == "" {
		return message
	}
	return rest
}

// ExtractCity 依次尝试各短语模式；都不命中时，对 1~3 个词的短消息
// 使用"裸城市名"回退。回退会把诸如 "ok merci" 之类的短语当成城市，
// 这是有意保留的启发式代价，由响应策略兜底。
func (s *intentService) ExtractCity(message string) (string, bool) {
	if strings.TrimSpace(message) == "" {
		return "", false
	}

	normalized := textutil.Normalize(message)

	for _, pattern := range cityPatterns {
		if m := pattern.FindStringSubmatch(normalized); m != nil {
			city := strings.TrimSpace(m[1])
			if city != "" {
				log.Debugf("extracted city %q via pattern from message: %s", city, normalized)
				return textutil.TitleCase(city), true
			}
		}
	}

	words := strings.Fields(normalized)
	if len(words) >= 1 && len(words) <= 3 {
		candidate := strings.Join(words, " ")
		if utf8.RuneCountInString(candidate) > 2 && !containsWeatherKeyword(candidate) {
			log.Debugf("treating short message as bare city name: %s", candidate)
			return textutil.TitleCase(candidate), true
		}
	}

	return "", false
}

func containsWeatherKeyword(text string) bool {
	for _, keyword := range intentKeywords[model.IntentWeather] {
		if strings.Contains(text, keyword) {
			return true
		}
	}
	return false
}
