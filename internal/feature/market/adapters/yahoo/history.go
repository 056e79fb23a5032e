package yahoo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"net/http"
	"net/url"
	"sort"
	"time"

	"insight_backend/internal/feature/market/domain/entity"
	"insight_backend/internal/feature/market/usecase"
)

// HistoryClient はYahoo Financeチャートエンドポイントから日足の価格履歴を取得する
// HistorySource実装です。2つのミラーを順に試行します。
type HistoryClient struct {
	cfg    Config
	client *http.Client
}

// HistoryClientがHistorySourceを実装していることをコンパイル時に検証します。
var _ usecase.HistorySource = (*HistoryClient)(nil)

// NewHistoryClient は指定された設定とHTTPクライアントでHistoryClientの新しいインスタンスを生成します。
func NewHistoryClient(cfg Config, client *http.Client) *HistoryClient {
	return &HistoryClient{cfg: cfg, client: client}
}

// chartBody はv8チャートAPIの応答です。OHLCVは並列配列で、
// timestampと各フィールド配列が同じインデックスで対応します。
type chartBody struct {
	Chart struct {
		Result []struct {
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Open   []*float64 `json:"open"`
					High   []*float64 `json:"high"`
					Low    []*float64 `json:"low"`
					Close  []*float64 `json:"close"`
					Volume []*int64   `json:"volume"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
	} `json:"chart"`
}

// FetchHistory は過去days日分の日足データを取得します。
// 全ミラーが失敗した場合や応答に期待する配列が無い場合は空のスライスを返し、
// 致命エラーかどうかの判定は呼び出し側に委ねます。
func (y *HistoryClient) FetchHistory(ctx context.Context, ticker string, days int) []entity.PriceBar {
	period2 := time.Now().Unix()
	period1 := period2 - int64(days)*86400

	for _, base := range y.cfg.BaseURLs {
		endpoint := fmt.Sprintf("%s/v8/finance/chart/%s?period1=%d&period2=%d&interval=1d",
			base, url.PathEscape(ticker), period1, period2)

		bars, err := y.fetchChart(ctx, endpoint)
		if err != nil {
			slog.Warn("history endpoint failed", "base", base, "ticker", ticker, "error", err)
			continue
		}
		return bars
	}
	return []entity.PriceBar{}
}

// fetchChart は1つのミラーに問い合わせ、並列配列をPriceBarのスライスに変換します。
func (y *HistoryClient) fetchChart(ctx context.Context, endpoint string) ([]entity.PriceBar, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	setBrowserHeaders(req)

	res, err := y.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := res.Body.Close(); err != nil {
			slog.Warn("failed to close response body", "error", err)
		}
	}()

	if res.StatusCode >= 400 {
		return nil, fmt.Errorf("yahoo http %d", res.StatusCode)
	}

	var body chartBody
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		return nil, err
	}

	if len(body.Chart.Result) == 0 {
		return nil, errors.New("missing chart result")
	}
	result := body.Chart.Result[0]
	if len(result.Timestamp) == 0 || len(result.Indicators.Quote) == 0 {
		return nil, errors.New("missing timestamp or quote arrays")
	}
	quote := result.Indicators.Quote[0]

	bars := make([]entity.PriceBar, 0, len(result.Timestamp))
	for i, ts := range result.Timestamp {
		// 2桁に丸めた後の終値が0以下のバーは破棄する
		c := round2(floatAt(quote.Close, i))
		if c <= 0 {
			continue
		}
		bars = append(bars, entity.PriceBar{
			Date:   time.Unix(ts, 0).UTC().Truncate(24 * time.Hour),
			Open:   round2(floatAt(quote.Open, i)),
			High:   round2(floatAt(quote.High, i)),
			Low:    round2(floatAt(quote.Low, i)),
			Close:  c,
			Volume: intAt(quote.Volume, i),
		})
	}

	// ミラーの返却順に依存しないよう昇順を保証する
	sort.Slice(bars, func(i, j int) bool { return bars[i].Date.Before(bars[j].Date) })
	return bars, nil
}

// round2 は小数第2位に丸めます。
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// floatAt は並列配列のi番目を返します。欠損（null・範囲外）は0扱いです。
func floatAt(vals []*float64, i int) float64 {
	if i < len(vals) && vals[i] != nil {
		return *vals[i]
	}
	return 0
}

// intAt は並列配列のi番目を返します。欠損（null・範囲外）は0扱いです。
func intAt(vals []*int64, i int) int64 {
	if i < len(vals) && vals[i] != nil {
		return *vals[i]
	}
	return 0
}
