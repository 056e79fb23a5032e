package yahoo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"

	"insight_backend/internal/feature/market/domain/entity"
	"insight_backend/internal/feature/market/usecase"
)

// QuoteClient はYahoo Financeから現在の気配値を取得するQuoteSource実装です。
// 複数のエンドポイントを順に試行し、最初に認識可能な応答を返したものを採用します。
type QuoteClient struct {
	cfg    Config
	client *http.Client
}

// QuoteClientがQuoteSourceを実装していることをコンパイル時に検証します。
var _ usecase.QuoteSource = (*QuoteClient)(nil)

// NewQuoteClient は指定された設定とHTTPクライアントでQuoteClientの新しいインスタンスを生成します。
func NewQuoteClient(cfg Config, client *http.Client) *QuoteClient {
	return &QuoteClient{cfg: cfg, client: client}
}

// quoteBody はYahoo Financeが返す2種類の応答形式を1つの構造体で受けます。
// v7の気配値リスト形式と、v8のチャートメタデータ形式のどちらかが埋まります。
type quoteBody struct {
	QuoteResponse struct {
		Result []quoteResult `json:"result"`
	} `json:"quoteResponse"`
	Chart struct {
		Result []struct {
			Meta chartMeta `json:"meta"`
		} `json:"result"`
	} `json:"chart"`
}

type quoteResult struct {
	RegularMarketPrice         float64 `json:"regularMarketPrice"`
	Ask                        float64 `json:"ask"`
	Bid                        float64 `json:"bid"`
	RegularMarketChange        float64 `json:"regularMarketChange"`
	RegularMarketChangePercent float64 `json:"regularMarketChangePercent"`
	RegularMarketVolume        int64   `json:"regularMarketVolume"`
	Volume                     int64   `json:"volume"`
	MarketCap                  float64 `json:"marketCap"`
	EpsTrailingTwelveMonths    float64 `json:"epsTrailingTwelveMonths"`
	FiftyTwoWeekHigh           float64 `json:"fiftyTwoWeekHigh"`
	FiftyTwoWeekLow            float64 `json:"fiftyTwoWeekLow"`
}

type chartMeta struct {
	RegularMarketPrice      float64 `json:"regularMarketPrice"`
	PreviousClose           float64 `json:"previousClose"`
	RegularMarketVolume     int64   `json:"regularMarketVolume"`
	MarketCap               float64 `json:"marketCap"`
	EpsTrailingTwelveMonths float64 `json:"epsTrailingTwelveMonths"`
	FiftyTwoWeekHigh        float64 `json:"fiftyTwoWeekHigh"`
	FiftyTwoWeekLow         float64 `json:"fiftyTwoWeekLow"`
}

// quoteEndpoints は試行順のエンドポイントURLを生成します。
// 各ミラーのv7気配値APIの後に、最初のミラーのv8チャートAPIを試します。
func (y *QuoteClient) quoteEndpoints(ticker string) []string {
	endpoints := make([]string, 0, len(y.cfg.BaseURLs)+1)
	for _, base := range y.cfg.BaseURLs {
		endpoints = append(endpoints,
			fmt.Sprintf("%s/v7/finance/quote?symbols=%s", base, url.QueryEscape(ticker)))
	}
	if len(y.cfg.BaseURLs) > 0 {
		endpoints = append(endpoints,
			fmt.Sprintf("%s/v8/finance/chart/%s?interval=1d&range=1d", y.cfg.BaseURLs[0], url.PathEscape(ticker)))
	}
	return endpoints
}

// FetchQuote は指定ティッカーの気配値スナップショットを取得します。
// 全エンドポイントが失敗（HTTPエラー・ネットワークエラー・未知の応答形式）した場合は
// usecase.ErrQuoteNotFound を返し、呼び出し側は次のソースにフォールバックします。
func (y *QuoteClient) FetchQuote(ctx context.Context, ticker string) (*entity.QuoteSnapshot, error) {
	for _, endpoint := range y.quoteEndpoints(ticker) {
		q, err := y.tryEndpoint(ctx, endpoint)
		if err != nil {
			slog.Debug("quote endpoint failed", "endpoint", endpoint, "error", err)
			continue
		}
		return q, nil
	}
	return nil, usecase.ErrQuoteNotFound
}

// tryEndpoint は1つのエンドポイントに問い合わせ、応答を気配値スナップショットに変換します。
func (y *QuoteClient) tryEndpoint(ctx context.Context, endpoint string) (*entity.QuoteSnapshot, error) {
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

	var body quoteBody
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		return nil, err
	}

	// 気配値リスト形式
	if len(body.QuoteResponse.Result) > 0 {
		q := body.QuoteResponse.Result[0]

		// 価格は 現在値 → 売り気配 → 買い気配 の優先順で採用する
		price := q.RegularMarketPrice
		if price == 0 {
			price = q.Ask
		}
		if price == 0 {
			price = q.Bid
		}

		volume := q.RegularMarketVolume
		if volume == 0 {
			volume = q.Volume
		}

		return &entity.QuoteSnapshot{
			Price:         price,
			Change:        q.RegularMarketChange,
			ChangePercent: q.RegularMarketChangePercent,
			Volume:        volume,
			MarketCap:     q.MarketCap,
			EPS:           q.EpsTrailingTwelveMonths,
			High52Week:    q.FiftyTwoWeekHigh,
			Low52Week:     q.FiftyTwoWeekLow,
		}, nil
	}

	// チャートメタデータ形式（前日比は現在値と前日終値から導出する）
	if len(body.Chart.Result) > 0 {
		m := body.Chart.Result[0].Meta

		price := m.RegularMarketPrice
		if price == 0 {
			price = m.PreviousClose
		}

		change := m.RegularMarketPrice - m.PreviousClose
		var changePercent float64
		if m.RegularMarketPrice != 0 && m.PreviousClose != 0 {
			changePercent = (m.RegularMarketPrice - m.PreviousClose) / m.PreviousClose * 100
		}

		return &entity.QuoteSnapshot{
			Price:         price,
			Change:        change,
			ChangePercent: changePercent,
			Volume:        m.RegularMarketVolume,
			MarketCap:     m.MarketCap,
			EPS:           m.EpsTrailingTwelveMonths,
			High52Week:    m.FiftyTwoWeekHigh,
			Low52Week:     m.FiftyTwoWeekLow,
		}, nil
	}

	return nil, errors.New("unrecognized response shape")
}
