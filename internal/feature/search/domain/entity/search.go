// Package entity は検索履歴のドメインモデルを定義します。
package entity

import (
	"time"

	mentity "insight_backend/internal/feature/market/domain/entity"
)

// TickerSearch はユーザーが実行した1回のティッカー調査の記録です。
// 市場スナップショットとAI分析の要点を併せて保存します。
type TickerSearch struct {
	ID             uint
	UserID         uint
	Ticker         string
	SentimentScore float64
	SentimentLabel string
	Thesis         string
	TimeHorizon    string
	RiskLevel      string
	PriceData      []mentity.PriceBar
	NewsLinks      []mentity.NewsArticle
	CreatedAt      time.Time
}
