package adapters

import (
	"encoding/json"
	"time"

	mentity "insight_backend/internal/feature/market/domain/entity"
	"insight_backend/internal/feature/search/domain/entity"
)

// TickerSearchModel is the GORM model for the ticker_searches table.
// Price history and news links are stored as JSON documents.
type TickerSearchModel struct {
	ID             uint      `gorm:"primaryKey"`
	UserID         uint      `gorm:"index;not null"`
	Ticker         string    `gorm:"size:16;not null"`
	SentimentScore float64   `gorm:"not null"`
	SentimentLabel string    `gorm:"size:16"`
	Thesis         string    `gorm:"type:text"`
	TimeHorizon    string    `gorm:"size:64"`
	RiskLevel      string    `gorm:"size:16"`
	PriceData      []byte    `gorm:"type:jsonb"`
	NewsLinks      []byte    `gorm:"type:jsonb"`
	CreatedAt      time.Time `gorm:"index;not null"`
}

// TableName returns the table name for GORM.
func (TickerSearchModel) TableName() string {
	return "ticker_searches"
}

// ToEntity converts the GORM model to a domain entity.
// Malformed JSON columns yield empty slices rather than an error.
func (m *TickerSearchModel) ToEntity() *entity.TickerSearch {
	var priceData []mentity.PriceBar
	if len(m.PriceData) > 0 {
		_ = json.Unmarshal(m.PriceData, &priceData)
	}
	var newsLinks []mentity.NewsArticle
	if len(m.NewsLinks) > 0 {
		_ = json.Unmarshal(m.NewsLinks, &newsLinks)
	}

	return &entity.TickerSearch{
		ID:             m.ID,
		UserID:         m.UserID,
		Ticker:         m.Ticker,
		SentimentScore: m.SentimentScore,
		SentimentLabel: m.SentimentLabel,
		Thesis:         m.Thesis,
		TimeHorizon:    m.TimeHorizon,
		RiskLevel:      m.RiskLevel,
		PriceData:      priceData,
		NewsLinks:      newsLinks,
		CreatedAt:      m.CreatedAt,
	}
}

// TickerSearchModelFromEntity converts a domain entity to a GORM model.
func TickerSearchModelFromEntity(s *entity.TickerSearch) (*TickerSearchModel, error) {
	priceData, err := json.Marshal(s.PriceData)
	if err != nil {
		return nil, err
	}
	newsLinks, err := json.Marshal(s.NewsLinks)
	if err != nil {
		return nil, err
	}

	return &TickerSearchModel{
		ID:             s.ID,
		UserID:         s.UserID,
		Ticker:         s.Ticker,
		SentimentScore: s.SentimentScore,
		SentimentLabel: s.SentimentLabel,
		Thesis:         s.Thesis,
		TimeHorizon:    s.TimeHorizon,
		RiskLevel:      s.RiskLevel,
		PriceData:      priceData,
		NewsLinks:      newsLinks,
		CreatedAt:      s.CreatedAt,
	}, nil
}
