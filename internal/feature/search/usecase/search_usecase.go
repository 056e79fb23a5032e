// Package usecase はティッカー調査ワークフローのビジネスロジックを提供します。
package usecase

import (
	"context"
	"log/slog"

	ientity "insight_backend/internal/feature/insight/domain/entity"
	mentity "insight_backend/internal/feature/market/domain/entity"
	"insight_backend/internal/feature/search/domain/entity"
)

// HistoryLimit は履歴一覧で返す最大件数です。
const HistoryLimit = 10

// SnapshotBuilder は市場スナップショットを組み立てるインターフェースです。
type SnapshotBuilder interface {
	Build(ctx context.Context, ticker string) (*mentity.MarketSnapshot, error)
}

// InsightGenerator は市場データからAI分析を生成するインターフェースです。
type InsightGenerator interface {
	AnalyzeSentiment(ctx context.Context, ticker string, quote *mentity.QuoteSnapshot, news []mentity.NewsArticle) (*ientity.SentimentAnalysis, error)
	GenerateThesis(ctx context.Context, ticker string, quote *mentity.QuoteSnapshot, sentiment *ientity.SentimentAnalysis, news []mentity.NewsArticle) (*ientity.InvestmentThesis, error)
}

// SearchRepository は検索履歴の永続化を行うインターフェースです。
type SearchRepository interface {
	Create(ctx context.Context, search *entity.TickerSearch) error
	FindRecentByUserID(ctx context.Context, userID uint, limit int) ([]*entity.TickerSearch, error)
	FindByID(ctx context.Context, id, userID uint) (*entity.TickerSearch, error)
}

// SearchResult は1回のティッカー調査の完全な結果です。
type SearchResult struct {
	Snapshot  *mentity.MarketSnapshot
	Sentiment *ientity.SentimentAnalysis
	Thesis    *ientity.InvestmentThesis
}

// SearchUsecase はティッカー調査ワークフローのユースケースです。
type SearchUsecase struct {
	snapshots SnapshotBuilder
	insights  InsightGenerator
	repo      SearchRepository
}

// NewSearchUsecase は新しいSearchUsecaseのインスタンスを生成します。
func NewSearchUsecase(snapshots SnapshotBuilder, insights InsightGenerator, repo SearchRepository) *SearchUsecase {
	return &SearchUsecase{snapshots: snapshots, insights: insights, repo: repo}
}

// Search はスナップショット取得→センチメント分析→テーゼ生成→履歴保存を順に実行します。
// 履歴の保存失敗はログに残すのみで、呼び出し元には結果をそのまま返します。
func (u *SearchUsecase) Search(ctx context.Context, userID uint, ticker string) (*SearchResult, error) {
	snapshot, err := u.snapshots.Build(ctx, ticker)
	if err != nil {
		return nil, err
	}

	sentiment, err := u.insights.AnalyzeSentiment(ctx, snapshot.Ticker, &snapshot.Quote, snapshot.News)
	if err != nil {
		return nil, err
	}

	thesis, err := u.insights.GenerateThesis(ctx, snapshot.Ticker, &snapshot.Quote, sentiment, snapshot.News)
	if err != nil {
		return nil, err
	}

	record := &entity.TickerSearch{
		UserID:         userID,
		Ticker:         snapshot.Ticker,
		SentimentScore: sentiment.Score,
		SentimentLabel: sentiment.Label,
		Thesis:         thesis.Thesis,
		TimeHorizon:    thesis.TimeHorizon,
		RiskLevel:      thesis.RiskLevel,
		PriceData:      snapshot.History,
		NewsLinks:      snapshot.News,
	}
	if err := u.repo.Create(ctx, record); err != nil {
		// 保存の失敗で調査結果を失わせない
		slog.Error("failed to save ticker search", "ticker", snapshot.Ticker, "user_id", userID, "error", err)
	}

	return &SearchResult{Snapshot: snapshot, Sentiment: sentiment, Thesis: thesis}, nil
}

// History はユーザーの直近の調査履歴を新しい順に返します。
func (u *SearchUsecase) History(ctx context.Context, userID uint) ([]*entity.TickerSearch, error) {
	return u.repo.FindRecentByUserID(ctx, userID, HistoryLimit)
}

// Get は指定IDの調査記録を返します。他ユーザーの記録は参照できません。
func (u *SearchUsecase) Get(ctx context.Context, id, userID uint) (*entity.TickerSearch, error) {
	return u.repo.FindByID(ctx, id, userID)
}
