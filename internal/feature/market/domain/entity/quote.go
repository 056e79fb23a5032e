// Package entity defines the domain models for the market feature.
package entity

// QuoteSnapshot は銘柄の現在値と関連する市場統計のある時点のスナップショットです。
// 上流ソースが返さなかった項目は0のままになります。
// Price == 0 は「利用可能なデータなし」を意味し、有効な気配値としては扱いません。
type QuoteSnapshot struct {
	Price         float64 // 現在値
	Change        float64 // 前日比
	ChangePercent float64 // 前日比（%）
	Volume        int64   // 出来高
	MarketCap     float64 // 時価総額（欠損時は概算で補完される場合がある）
	EPS           float64 // 1株当たり利益
	High52Week    float64 // 52週高値
	Low52Week     float64 // 52週安値
}
