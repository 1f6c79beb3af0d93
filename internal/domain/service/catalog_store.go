package service

import (
	"encoding/json"
	"fmt"
	"log"

	"Course-App/internal/domain/helper"
	"Course-App/internal/domain/model"
)

// Catalog はカテゴリ→タイトル→スポットの読み取り専用カタログ
type Catalog struct {
	places map[model.Category]map[string]*model.PlaceRecord
	order  map[model.Category][]string
	stats  map[model.Category]model.IngestStats
}

// 生レコードで解釈するキー（これ以外は Details にそのまま残す）
var interpretedKeys = map[string]struct{}{
	"title": {}, "content": {}, "description": {}, "address": {}, "facilities": {},
	"coordinates": {}, "latitude": {}, "longitude": {}, "mapx": {}, "mapy": {},
}

// IngestCatalog はカテゴリごとの生レコード（JSON配列）を取り込みカタログを構築する
// 入力が不正な場合は CatalogLoadError を返し、カタログは作らない
func IngestCatalog(raw map[model.Category]json.RawMessage) (*Catalog, error) {
	catalog := &Catalog{
		places: make(map[model.Category]map[string]*model.PlaceRecord),
		order:  make(map[model.Category][]string),
		stats:  make(map[model.Category]model.IngestStats),
	}

	total := 0
	for _, category := range model.AllCategories() {
		data, ok := raw[category]
		if !ok {
			return nil, &model.CatalogLoadError{Category: category, Index: -1, Reason: "コレクションが存在しません"}
		}

		places, order, stats, err := ingestCategory(category, data)
		if err != nil {
			return nil, err
		}

		catalog.places[category] = places
		catalog.order[category] = order
		catalog.stats[category] = stats
		total += stats.Loaded
		log.Printf("  %s: %d件 → %d件 (重複 %d件, タイトルなし %d件を除外)",
			category.Label(), stats.Received, stats.Loaded, stats.Duplicates, stats.Skipped)
	}

	log.Printf("✅ 合計 %d件のスポットを読み込み完了", total)
	return catalog, nil
}

func ingestCategory(category model.Category, data json.RawMessage) (map[string]*model.PlaceRecord, []string, model.IngestStats, error) {
	var records []map[string]any
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, nil, model.IngestStats{}, &model.CatalogLoadError{Category: category, Index: -1, Reason: "オブジェクトの配列ではありません", Err: err}
	}
	if records == nil {
		return nil, nil, model.IngestStats{}, &model.CatalogLoadError{Category: category, Index: -1, Reason: "コレクションが null です"}
	}

	places := make(map[string]*model.PlaceRecord, len(records))
	order := make([]string, 0, len(records))
	stats := model.IngestStats{Received: len(records)}

	for i, record := range records {
		if record == nil {
			return nil, nil, model.IngestStats{}, &model.CatalogLoadError{Category: category, Index: i, Reason: "レコードが null です"}
		}

		place, err := toPlaceRecord(category, record)
		if err != nil {
			return nil, nil, model.IngestStats{}, &model.CatalogLoadError{Category: category, Index: i, Reason: err.Error()}
		}

		if place.Title == "" {
			stats.Skipped++
			continue
		}
		if _, seen := places[place.Title]; seen {
			stats.Duplicates++
			continue
		}

		places[place.Title] = place
		order = append(order, place.Title)
	}

	stats.Loaded = len(order)
	return places, order, stats, nil
}

func toPlaceRecord(category model.Category, record map[string]any) (*model.PlaceRecord, error) {
	title, err := optionalString(record, "title")
	if err != nil {
		return nil, err
	}
	content, err := optionalString(record, "content")
	if err != nil {
		return nil, err
	}
	if content == "" {
		if content, err = optionalString(record, "description"); err != nil {
			return nil, err
		}
	}
	address, err := optionalString(record, "address")
	if err != nil {
		return nil, err
	}

	location, hasCoordinates := helper.ExtractLocation(record)

	details := make(map[string]any)
	for key, value := range record {
		if _, ok := interpretedKeys[key]; !ok {
			details[key] = value
		}
	}

	return &model.PlaceRecord{
		Title:          title,
		Category:       category,
		Content:        content,
		Address:        address,
		Facilities:     helper.ExtractFacilities(record["facilities"]),
		Location:       location,
		HasCoordinates: hasCoordinates,
		Details:        details,
	}, nil
}

func optionalString(record map[string]any, key string) (string, error) {
	value, ok := record[key]
	if !ok || value == nil {
		return "", nil
	}
	s, ok := value.(string)
	if !ok {
		return "", fmt.Errorf("%s が文字列ではありません (%T)", key, value)
	}
	return s, nil
}

// Lookup はカテゴリとタイトルでスポットを引く
func (c *Catalog) Lookup(category model.Category, title string) (*model.PlaceRecord, bool) {
	if c == nil {
		return nil, false
	}
	place, ok := c.places[category][title]
	return place, ok
}

// Places は指定カテゴリのスポットを取り込み順で返す
func (c *Catalog) Places(category model.Category) []*model.PlaceRecord {
	titles := c.order[category]
	places := make([]*model.PlaceRecord, 0, len(titles))
	for _, title := range titles {
		places = append(places, c.places[category][title])
	}
	return places
}

// Len は指定カテゴリのスポット数
func (c *Catalog) Len(category model.Category) int {
	return len(c.order[category])
}

// Stats は指定カテゴリの取り込み結果
func (c *Catalog) Stats(category model.Category) model.IngestStats {
	return c.stats[category]
}
