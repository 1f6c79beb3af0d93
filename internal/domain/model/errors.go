package model

import (
	"errors"
	"fmt"
)

// ErrIndexNotBuilt は類似度インデックス構築前に検索した場合のエラー
var ErrIndexNotBuilt = errors.New("類似度インデックスが構築されていません")

// CatalogLoadError はカタログ取り込み時の入力不正を表す
type CatalogLoadError struct {
	Category Category
	Index    int // -1 の場合はコレクション全体
	Reason   string
	Err      error
}

func (e *CatalogLoadError) Error() string {
	msg := fmt.Sprintf("カタログの読み込みに失敗 (category=%s", e.Category)
	if e.Index >= 0 {
		msg += fmt.Sprintf(", index=%d", e.Index)
	}
	msg += "): " + e.Reason
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *CatalogLoadError) Unwrap() error {
	return e.Err
}

// PlaceNotFoundError はルート最適化時に座標が引けないスポットを表す
type PlaceNotFoundError struct {
	Category Category
	Title    string
}

func (e *PlaceNotFoundError) Error() string {
	return fmt.Sprintf("%sに「%s」の座標が見つかりません", e.Category.Label(), e.Title)
}
