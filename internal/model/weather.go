package model

// WeatherSnapshot 是一次天气查询的结果，单位：摄氏度、米/秒、百分比、hPa。
// 由天气客户端产出、格式化器消费，不做持久化。
type WeatherSnapshot struct {
	City        string  `json:"city"`
	Country     string  `json:"country"`
	Temperature float64 `json:"temperature"`
	FeelsLike   float64 `json:"feelsLike"`
	Condition   string  `json:"condition"`   // 条件类别，如 Clear / Rain / Clouds
	Description string  `json:"description"` // 本地化的详细描述
	WindSpeed   float64 `json:"windSpeed"`
	Humidity    int     `json:"humidity"`
	Pressure    int     `json:"pressure"`
}
