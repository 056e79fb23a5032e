package entity

// MarketSnapshot は1回の検索で収集した市場データの集約です。
// リクエストごとに新規に構築され、キャッシュされません。
type MarketSnapshot struct {
	Ticker  string        // 正規化済み（大文字）ティッカー
	Quote   QuoteSnapshot // 現在の気配値
	History []PriceBar    // 日足の時系列（昇順）
	News    []NewsArticle // 関連ニュース（常に1件以上）
}
