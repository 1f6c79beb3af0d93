package model

import (
	"strings"

	"github.com/paulmach/orb"
)

// Category はスポットのカテゴリ（観光地・カフェ・飲食店）
type Category string

const (
	CategoryAttraction Category = "attraction"
	CategoryCafe       Category = "cafe"
	CategoryRestaurant Category = "restaurant"
)

// AllCategories はコースを構成するカテゴリの固定順
func AllCategories() []Category {
	return []Category{CategoryAttraction, CategoryCafe, CategoryRestaurant}
}

// CategoryLabelMap はカテゴリIDから韓国語表記へのマッピング（プロンプト・検索クエリで使用）
var CategoryLabelMap = map[Category]string{
	CategoryAttraction: "관광지",
	CategoryCafe:       "카페",
	CategoryRestaurant: "음식점",
}

// Label はカテゴリの韓国語表記を返す
func (c Category) Label() string {
	if label, ok := CategoryLabelMap[c]; ok {
		return label
	}
	return string(c)
}

// ParseCategoryTag はLLM出力のタグ（英語・韓国語どちらも可）をカテゴリに変換する
func ParseCategoryTag(tag string) (Category, bool) {
	switch strings.ToLower(strings.TrimSpace(tag)) {
	case "attraction", "tour", "관광지":
		return CategoryAttraction, true
	case "cafe", "카페":
		return CategoryCafe, true
	case "restaurant", "음식점", "식당":
		return CategoryRestaurant, true
	default:
		return "", false
	}
}

// Location 緯度経度を表す基本的な型
type Location struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// ToPoint Location を orb.Point（[lng, lat]）に変換
func (l Location) ToPoint() orb.Point {
	return orb.Point{l.Longitude, l.Latitude}
}

// PlaceRecord カタログに登録されたスポット
// 取り込み後は変更しない
type PlaceRecord struct {
	Title          string         `json:"title"`
	Category       Category       `json:"category"`
	Content        string         `json:"content"`
	Address        string         `json:"address"`
	Facilities     []string       `json:"facilities"`
	Location       Location       `json:"coordinates"`
	HasCoordinates bool           `json:"has_coordinates"`
	Details        map[string]any `json:"details,omitempty"` // 営業時間・価格・画像など（解釈しない）
}

// FacilitiesText は設備タグをカンマ区切りの文字列に平坦化する
func (p *PlaceRecord) FacilitiesText() string {
	return strings.Join(p.Facilities, ", ")
}

// HasContent は説明文が存在するか
func (p *PlaceRecord) HasContent() bool {
	return strings.TrimSpace(p.Content) != ""
}

// IngestStats はカテゴリごとの取り込み結果
type IngestStats struct {
	Received   int `json:"received"`
	Loaded     int `json:"loaded"`
	Duplicates int `json:"duplicates"`
	Skipped    int `json:"skipped"` // タイトルなし
}
