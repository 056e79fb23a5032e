package adapters

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	mentity "insight_backend/internal/feature/market/domain/entity"
	"insight_backend/internal/feature/search/domain/entity"
	"insight_backend/internal/feature/search/usecase"
)

// setupSearchTestDB prepares an in-memory SQLite database for search testing.
func setupSearchTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err, "failed to initialize test database")

	err = db.AutoMigrate(&TickerSearchModel{})
	require.NoError(t, err, "failed to migrate table")

	return db
}

func sampleSearch(userID uint, ticker string) *entity.TickerSearch {
	target := time.Date(2025, 8, 20, 0, 0, 0, 0, time.UTC)
	return &entity.TickerSearch{
		UserID:         userID,
		Ticker:         ticker,
		SentimentScore: 0.6,
		SentimentLabel: "Bullish",
		Thesis:         "Strong buy.",
		TimeHorizon:    "12 months",
		RiskLevel:      "Medium",
		PriceData: []mentity.PriceBar{
			{Date: target, Open: 149.0, High: 152.0, Low: 148.5, Close: 150.0, Volume: 1000000},
		},
		NewsLinks: []mentity.NewsArticle{
			{Title: "Apple beats expectations", URL: "https://example.com/a1", Source: "Reuters"},
		},
	}
}

func TestSearchGorm_Create(t *testing.T) {
	db := setupSearchTestDB(t)
	repo := NewSearchGorm(db)

	search := sampleSearch(1, "AAPL")
	err := repo.Create(context.Background(), search)

	require.NoError(t, err)
	assert.NotZero(t, search.ID, "expected generated ID to be written back")

	// The JSON columns round-trip through the model
	got, err := repo.FindByID(context.Background(), search.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, "AAPL", got.Ticker)
	assert.Equal(t, 0.6, got.SentimentScore)
	require.Len(t, got.PriceData, 1)
	assert.Equal(t, 150.0, got.PriceData[0].Close)
	require.Len(t, got.NewsLinks, 1)
	assert.Equal(t, "Apple beats expectations", got.NewsLinks[0].Title)
}

func TestSearchGorm_FindRecentByUserID(t *testing.T) {
	db := setupSearchTestDB(t)
	repo := NewSearchGorm(db)

	// Seed 12 searches with increasing timestamps
	base := time.Date(2025, 8, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 12; i++ {
		model, err := TickerSearchModelFromEntity(sampleSearch(1, "AAPL"))
		require.NoError(t, err)
		model.CreatedAt = base.Add(time.Duration(i) * time.Hour)
		require.NoError(t, db.Create(model).Error)
	}
	// A record for another user must not appear
	other, err := TickerSearchModelFromEntity(sampleSearch(2, "TSLA"))
	require.NoError(t, err)
	other.CreatedAt = base.Add(100 * time.Hour)
	require.NoError(t, db.Create(other).Error)

	searches, err := repo.FindRecentByUserID(context.Background(), 1, 10)
	require.NoError(t, err)

	assert.Len(t, searches, 10, "expected the limit to apply")
	for _, s := range searches {
		assert.Equal(t, uint(1), s.UserID)
	}
	// Newest first
	for i := 1; i < len(searches); i++ {
		assert.False(t, searches[i].CreatedAt.After(searches[i-1].CreatedAt),
			"expected descending creation order")
	}
}

func TestSearchGorm_FindByID_NotFound(t *testing.T) {
	db := setupSearchTestDB(t)
	repo := NewSearchGorm(db)

	_, err := repo.FindByID(context.Background(), 999, 1)
	assert.True(t, errors.Is(err, usecase.ErrSearchNotFound))
}

func TestSearchGorm_FindByID_ScopedToUser(t *testing.T) {
	db := setupSearchTestDB(t)
	repo := NewSearchGorm(db)

	search := sampleSearch(1, "AAPL")
	require.NoError(t, repo.Create(context.Background(), search))

	// The owner can read it
	_, err := repo.FindByID(context.Background(), search.ID, 1)
	assert.NoError(t, err)

	// Another user cannot
	_, err = repo.FindByID(context.Background(), search.ID, 2)
	assert.True(t, errors.Is(err, usecase.ErrSearchNotFound))
}

func TestTickerSearchModel_ToEntity_MalformedJSON(t *testing.T) {
	model := &TickerSearchModel{
		ID:        1,
		UserID:    1,
		Ticker:    "AAPL",
		PriceData: []byte("not json"),
		NewsLinks: []byte("{broken"),
	}

	got := model.ToEntity()

	// Malformed columns degrade to empty slices instead of failing the read
	assert.Empty(t, got.PriceData)
	assert.Empty(t, got.NewsLinks)
	assert.Equal(t, "AAPL", got.Ticker)
}
