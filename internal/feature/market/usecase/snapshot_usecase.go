// Package usecase はmarketフィーチャーのビジネスロジックを実装します。
package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"insight_backend/internal/feature/market/domain/entity"
)

const (
	// HistoryDays は検索1回あたりに取得する日足の固定期間（日数）です。
	HistoryDays = 30

	// DefaultEstimatedShares は時価総額を概算する際の想定発行済株式数です。
	// 実際の発行済株式数を参照しない明示的な近似値であり、金融モデルではありません。
	DefaultEstimatedShares = 500_000_000
)

// QuoteSource は1つの気配値データソースを抽象化します。
// データが得られない場合は ErrQuoteNotFound を返し、呼び出し側は次のソースを試します。
// Goの慣例に従い、インターフェースはプロバイダー（adapters）ではなくコンシューマー（usecase）が定義します。
type QuoteSource interface {
	FetchQuote(ctx context.Context, ticker string) (*entity.QuoteSnapshot, error)
}

// HistorySource は日足時系列データのソースを抽象化します。
// 失敗時はエラーではなく空のスライスを返します（致命判定は呼び出し側が行う）。
type HistorySource interface {
	FetchHistory(ctx context.Context, ticker string, days int) []entity.PriceBar
}

// NewsSource はニュース記事のソースを抽象化します。
// フォールバックを内蔵しており、常に1件以上の記事を返します。
type NewsSource interface {
	FetchNews(ctx context.Context, ticker string) []entity.NewsArticle
}

// snapshotUsecase は気配値・履歴・ニュースを固定順序で収集し、
// 1つのMarketSnapshotに組み立てるオーケストレータです。
type snapshotUsecase struct {
	quotes          []QuoteSource // フォールバックの優先順
	history         HistorySource
	news            NewsSource
	estimatedShares float64
}

// NewSnapshotUsecase はsnapshotUsecaseの新しいインスタンスを生成します。
// quotesは優先順に試行され、最初にデータを返したソースが採用されます。
func NewSnapshotUsecase(quotes []QuoteSource, history HistorySource, news NewsSource) *snapshotUsecase {
	return &snapshotUsecase{
		quotes:          quotes,
		history:         history,
		news:            news,
		estimatedShares: DefaultEstimatedShares,
	}
}

// SetEstimatedShares は時価総額の概算に使う想定株式数を上書きします。
func (su *snapshotUsecase) SetEstimatedShares(n float64) {
	su.estimatedShares = n
}

// Build は指定ティッカーの市場スナップショットを組み立てます。
// 処理は 気配値 → 履歴 → ニュース の固定順で逐次実行され、
// 前段が致命エラーになった時点で後段は呼ばれません。
func (su *snapshotUsecase) Build(ctx context.Context, ticker string) (*entity.MarketSnapshot, error) {
	ticker = strings.ToUpper(strings.TrimSpace(ticker))
	if ticker == "" {
		return nil, ErrEmptyTicker
	}

	// 気配値ソースを順に試行し、最初にデータを返したものを採用する
	var quote *entity.QuoteSnapshot
	for _, src := range su.quotes {
		q, err := src.FetchQuote(ctx, ticker)
		if err != nil {
			if !errors.Is(err, ErrQuoteNotFound) {
				// 想定外のエラーも「このソースにデータなし」として次へ進む
				slog.Warn("quote source failed", "ticker", ticker, "error", err)
			}
			continue
		}
		quote = q
		break
	}
	if quote == nil {
		return nil, ErrNoQuoteData
	}

	// 応答の形は認識できたが価格が含まれていないケースは致命エラー
	if quote.Price == 0 {
		return nil, ErrNoValidPrice
	}

	// 時価総額が欠けている場合は想定株式数で概算する
	if quote.MarketCap == 0 && quote.Price > 0 {
		quote.MarketCap = quote.Price * su.estimatedShares
		slog.Info("using estimated market cap", "ticker", ticker, "market_cap", quote.MarketCap)
	}

	history := su.history.FetchHistory(ctx, ticker, HistoryDays)
	if len(history) == 0 {
		return nil, ErrNoHistory
	}

	// ニュースはフォールバック内蔵のため必ず成功する
	news := su.news.FetchNews(ctx, ticker)

	return &entity.MarketSnapshot{
		Ticker:  ticker,
		Quote:   *quote,
		History: history,
		News:    news,
	}, nil
}
