package entity

import "time"

// PriceBar は1取引日分のOHLCV（始値・高値・安値・終値・出来高）データです。
// 終値が0以下のバーは利用前に破棄されます。
type PriceBar struct {
	Date   time.Time // 暦日（UTC）
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume int64
}
