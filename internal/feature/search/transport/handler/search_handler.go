// Package handler はsearchフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"insight_backend/internal/api"
	sentity "insight_backend/internal/feature/search/domain/entity"
	susecase "insight_backend/internal/feature/search/usecase"

	musecase "insight_backend/internal/feature/market/usecase"
	"insight_backend/internal/platform/session"
)

// SearchUsecase はティッカー調査操作のユースケースインターフェースを定義します。
// Goの慣例に従い、インターフェースは利用者（handler）側で定義します。
type SearchUsecase interface {
	Search(ctx context.Context, userID uint, ticker string) (*susecase.SearchResult, error)
	History(ctx context.Context, userID uint) ([]*sentity.TickerSearch, error)
	Get(ctx context.Context, id, userID uint) (*sentity.TickerSearch, error)
}

// SearchHandler はティッカー調査のHTTPリクエストを処理します。
type SearchHandler struct {
	uc SearchUsecase
}

// NewSearchHandler は指定されたusecaseでSearchHandlerの新しいインスタンスを生成します。
func NewSearchHandler(uc SearchUsecase) *SearchHandler {
	return &SearchHandler{uc: uc}
}

// SearchHandler はティッカーを受け取り、市場データとAI分析をまとめて返します。
//
// エンドポイント例:
// POST /search {"ticker": "AAPL"}
func (h *SearchHandler) SearchHandler(c *gin.Context) {
	var req api.SearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "ticker is required"})
		return
	}

	userID := session.UserID(c)

	result, err := h.uc.Search(c.Request.Context(), userID, req.Ticker)
	if err != nil {
		h.writeSearchError(c, req.Ticker, err)
		return
	}

	c.JSON(http.StatusOK, toSearchResponse(result))
}

// writeSearchError はワークフローの失敗をHTTPステータスに対応付けます。
// データ未発見系は404、入力不備は400、それ以外（AI生成の失敗など）は502を返します。
func (h *SearchHandler) writeSearchError(c *gin.Context, ticker string, err error) {
	switch {
	case errors.Is(err, musecase.ErrEmptyTicker):
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "ticker is required"})
	case errors.Is(err, musecase.ErrNoQuoteData):
		c.JSON(http.StatusNotFound, api.ErrorResponse{
			Error: fmt.Sprintf("No data found for ticker %q. Please verify the symbol is correct.", ticker),
		})
	case errors.Is(err, musecase.ErrNoValidPrice):
		c.JSON(http.StatusNotFound, api.ErrorResponse{
			Error: fmt.Sprintf("No valid price data for ticker %q. The symbol may be delisted.", ticker),
		})
	case errors.Is(err, musecase.ErrNoHistory):
		c.JSON(http.StatusNotFound, api.ErrorResponse{
			Error: fmt.Sprintf("No price history available for ticker %q.", ticker),
		})
	default:
		slog.Error("search failed", "ticker", ticker, "error", err)
		c.JSON(http.StatusBadGateway, api.ErrorResponse{Error: "failed to complete analysis, please try again"})
	}
}

// HistoryHandler は認証済みユーザーの直近の調査履歴を返します。
//
// エンドポイント例:
// GET /searches
func (h *SearchHandler) HistoryHandler(c *gin.Context) {
	userID := session.UserID(c)

	searches, err := h.uc.History(c.Request.Context(), userID)
	if err != nil {
		slog.Error("failed to load search history", "user_id", userID, "error", err)
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "failed to load search history"})
		return
	}

	out := make([]api.SearchSummaryResponse, 0, len(searches))
	for _, s := range searches {
		out = append(out, api.SearchSummaryResponse{
			ID:             s.ID,
			Ticker:         s.Ticker,
			SentimentScore: s.SentimentScore,
			SentimentLabel: s.SentimentLabel,
			Thesis:         s.Thesis,
			TimeHorizon:    s.TimeHorizon,
			RiskLevel:      s.RiskLevel,
			CreatedAt:      s.CreatedAt.UTC().Format(time.RFC3339),
		})
	}

	c.JSON(http.StatusOK, out)
}

// ChartHandler は保存済みの調査記録から株価チャートをPNGで返します。
//
// エンドポイント例:
// GET /searches/:id/chart
func (h *SearchHandler) ChartHandler(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid search id"})
		return
	}

	userID := session.UserID(c)

	search, err := h.uc.Get(c.Request.Context(), uint(id), userID)
	if err != nil {
		if errors.Is(err, susecase.ErrSearchNotFound) {
			c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "search not found"})
			return
		}
		slog.Error("failed to load search", "search_id", id, "user_id", userID, "error", err)
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "failed to load search"})
		return
	}

	png, err := RenderPriceChart(search.Ticker, search.PriceData)
	if err != nil {
		slog.Error("failed to render chart", "search_id", id, "error", err)
		c.JSON(http.StatusUnprocessableEntity, api.ErrorResponse{Error: "not enough price data to render a chart"})
		return
	}

	c.Data(http.StatusOK, "image/png", png)
}

// toSearchResponse はワークフローの結果をAPI応答形式に変換します。
func toSearchResponse(result *susecase.SearchResult) api.SearchResponse {
	snapshot := result.Snapshot

	priceData := make([]api.PriceBarResponse, 0, len(snapshot.History))
	for _, b := range snapshot.History {
		priceData = append(priceData, api.PriceBarResponse{
			Date:   b.Date.UTC().Format("2006-01-02"),
			Open:   b.Open,
			High:   b.High,
			Low:    b.Low,
			Close:  b.Close,
			Volume: b.Volume,
		})
	}

	news := make([]api.ArticleResponse, 0, len(snapshot.News))
	for _, a := range snapshot.News {
		news = append(news, api.ArticleResponse{
			Title:       a.Title,
			URL:         a.URL,
			Source:      a.Source,
			PublishedAt: a.PublishedAt.UTC().Format(time.RFC3339),
			Description: a.Description,
			ImageURL:    a.ImageURL,
		})
	}

	return api.SearchResponse{
		Ticker: snapshot.Ticker,
		// 銘柄名の解決は未対応のため、表示用のプレースホルダーを返す
		CompanyName: fmt.Sprintf("%s Corporation", snapshot.Ticker),
		Quote: api.QuoteResponse{
			Price:         snapshot.Quote.Price,
			Change:        snapshot.Quote.Change,
			ChangePercent: snapshot.Quote.ChangePercent,
			Volume:        snapshot.Quote.Volume,
			MarketCap:     snapshot.Quote.MarketCap,
			EPS:           snapshot.Quote.EPS,
			High52Week:    snapshot.Quote.High52Week,
			Low52Week:     snapshot.Quote.Low52Week,
		},
		Sentiment: api.SentimentResponse{
			Score:      result.Sentiment.Score,
			Label:      result.Sentiment.Label,
			Confidence: result.Sentiment.Confidence,
			Reasoning:  result.Sentiment.Reasoning,
		},
		Thesis: api.ThesisResponse{
			Thesis:      result.Thesis.Thesis,
			TimeHorizon: result.Thesis.TimeHorizon,
			RiskLevel:   result.Thesis.RiskLevel,
			KeyFactors:  result.Thesis.KeyFactors,
			PriceTarget: result.Thesis.PriceTarget,
		},
		PriceData: priceData,
		News:      news,
	}
}
