package entity

import "time"

// NewsArticle は銘柄に関するニュース記事1件です。
// タイトルまたはURLが空の記事、プロバイダー側で削除済みの記事は
// 表示・分析に渡す前に除外されます。
type NewsArticle struct {
	Title       string
	URL         string
	Source      string
	PublishedAt time.Time
	Description string
	ImageURL    string // 任意
}
