package usecase

import "errors"

var (
	// ErrEmptyTicker は空のティッカーが指定されたことを表します。
	ErrEmptyTicker = errors.New("ticker is required")

	// ErrQuoteNotFound は単一のソースにデータが無かったことを表します。
	// 非致命エラーで、呼び出し側は次のソースにフォールバックします。
	ErrQuoteNotFound = errors.New("quote not found")

	// ErrNoQuoteData は全ての気配値ソースを試してもデータが得られなかったことを表します。
	ErrNoQuoteData = errors.New("no quote data for ticker")

	// ErrNoValidPrice は気配値は得られたが有効な価格が含まれていなかったことを表します。
	ErrNoValidPrice = errors.New("no valid price data")

	// ErrNoHistory は価格履歴が取得できなかったことを表します。
	// 履歴が無ければチャートも分析も成立しないため、検索全体の致命エラーです。
	ErrNoHistory = errors.New("no price history")
)
