// Package model 包含了应用的数据模型定义。
package model

// Intent 表示一条用户消息被识别出的意图类别。
type Intent string

const (
	IntentWeather  Intent = "WEATHER"  // 天气查询
	IntentGreeting Intent = "GREETING" // 打招呼
	IntentHelp     Intent = "HELP"     // 使用帮助
	IntentThanks   Intent = "THANKS"   // 感谢
	IntentGoodbye  Intent = "GOODBYE"  // 道别
	IntentUnknown  Intent = "UNKNOWN"  // 无法识别
)

// ScoredIntents 按固定优先级排列的可计分意图类别。
// 顺序即打分相同时的决胜顺序：排在前面的类别获胜。
var ScoredIntents = []Intent{
	IntentWeather,
	IntentGreeting,
	IntentHelp,
	IntentThanks,
	IntentGoodbye,
}
