// Package entity はAI分析結果のドメインモデルを定義します。
package entity

// SentimentAnalysis は市場データとニュースに基づくセンチメント判定の結果です。
type SentimentAnalysis struct {
	Score      float64 `json:"score"`      // -1（弱気）〜 1（強気）
	Label      string  `json:"label"`      // "Bullish" | "Bearish" | "Neutral"
	Confidence float64 `json:"confidence"` // 0〜1
	Reasoning  string  `json:"reasoning"`
}

// InvestmentThesis は投資テーゼの生成結果です。
type InvestmentThesis struct {
	Thesis      string   `json:"thesis"`
	TimeHorizon string   `json:"timeHorizon"`
	RiskLevel   string   `json:"riskLevel"` // "Low" | "Medium" | "High"
	KeyFactors  []string `json:"keyFactors"`
	PriceTarget *float64 `json:"priceTarget"` // 目標株価（算出不能時はnull）
}
