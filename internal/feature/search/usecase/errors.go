package usecase

import "errors"

// ErrSearchNotFound は指定された調査記録が存在しない、または別ユーザーの記録である場合のエラーです。
var ErrSearchNotFound = errors.New("search not found")
