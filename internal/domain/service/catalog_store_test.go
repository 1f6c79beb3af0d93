package service

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"Course-App/internal/domain/model"
)

func rawCatalog(attraction, cafe, restaurant string) map[model.Category]json.RawMessage {
	return map[model.Category]json.RawMessage{
		model.CategoryAttraction: json.RawMessage(attraction),
		model.CategoryCafe:       json.RawMessage(cafe),
		model.CategoryRestaurant: json.RawMessage(restaurant),
	}
}

func TestIngestCatalog_Dedup(t *testing.T) {
	attractions := `[
		{"title": "경복궁", "content": "첫 번째", "address": "서울 종로구", "coordinates": {"latitude": 37.5796, "longitude": 126.9770}},
		{"title": "창덕궁", "content": "궁궐", "latitude": 37.5794, "longitude": 126.9910},
		{"title": "경복궁", "content": "두 번째"},
		{"title": "남산타워", "content": "전망", "mapy": "37.5512", "mapx": "126.9882"},
		{"title": "북촌한옥마을", "content": "한옥", "facilities": ["장애인 화장실 접근성이 좋음"]}
	]`

	catalog, err := IngestCatalog(rawCatalog(attractions, `[]`, `[]`))
	require.NoError(t, err)

	t.Run("5件中1件の重複で4件になる", func(t *testing.T) {
		assert.Equal(t, 4, catalog.Len(model.CategoryAttraction))
		stats := catalog.Stats(model.CategoryAttraction)
		assert.Equal(t, 5, stats.Received)
		assert.Equal(t, 4, stats.Loaded)
		assert.Equal(t, 1, stats.Duplicates)
	})

	t.Run("最初のレコードが残る", func(t *testing.T) {
		place, ok := catalog.Lookup(model.CategoryAttraction, "경복궁")
		require.True(t, ok)
		assert.Equal(t, "첫 번째", place.Content)
		assert.True(t, place.HasCoordinates)
		assert.InDelta(t, 37.5796, place.Location.Latitude, 1e-9)
	})

	t.Run("取り込み順を保持する", func(t *testing.T) {
		titles := []string{}
		for _, p := range catalog.Places(model.CategoryAttraction) {
			titles = append(titles, p.Title)
		}
		assert.Equal(t, []string{"경복궁", "창덕궁", "남산타워", "북촌한옥마을"}, titles)
	})

	t.Run("座標の取り出し元を順に試す", func(t *testing.T) {
		flat, _ := catalog.Lookup(model.CategoryAttraction, "창덕궁")
		assert.True(t, flat.HasCoordinates)
		assert.InDelta(t, 126.9910, flat.Location.Longitude, 1e-9)

		mapxy, _ := catalog.Lookup(model.CategoryAttraction, "남산타워")
		assert.True(t, mapxy.HasCoordinates)
		assert.InDelta(t, 37.5512, mapxy.Location.Latitude, 1e-9)

		none, _ := catalog.Lookup(model.CategoryAttraction, "북촌한옥마을")
		assert.False(t, none.HasCoordinates)
		assert.Equal(t, []string{"장애인 화장실 접근성이 좋음"}, none.Facilities)
	})
}

func TestIngestCatalog_SkipsEmptyTitle(t *testing.T) {
	catalog, err := IngestCatalog(rawCatalog(`[{"title": ""}, {"content": "no title"}, {"title": "덕수궁"}]`, `[]`, `[]`))
	require.NoError(t, err)

	assert.Equal(t, 1, catalog.Len(model.CategoryAttraction))
	assert.Equal(t, 2, catalog.Stats(model.CategoryAttraction).Skipped)
}

func TestIngestCatalog_KeepsUninterpretedKeys(t *testing.T) {
	catalog, err := IngestCatalog(rawCatalog(`[{"title": "덕수궁", "tel": "02-771-9951"}]`, `[]`, `[]`))
	require.NoError(t, err)

	place, ok := catalog.Lookup(model.CategoryAttraction, "덕수궁")
	require.True(t, ok)
	assert.Equal(t, "02-771-9951", place.Details["tel"])
	assert.NotContains(t, place.Details, "title")
}

func TestIngestCatalog_Malformed(t *testing.T) {
	tests := []struct {
		name     string
		raw      map[model.Category]json.RawMessage
		category model.Category
		index    int
	}{
		{
			name:     "カテゴリが欠けている",
			raw:      map[model.Category]json.RawMessage{model.CategoryAttraction: json.RawMessage(`[]`), model.CategoryCafe: json.RawMessage(`[]`)},
			category: model.CategoryRestaurant,
			index:    -1,
		},
		{
			name:     "配列ではない",
			raw:      rawCatalog(`[]`, `{"title": "카페"}`, `[]`),
			category: model.CategoryCafe,
			index:    -1,
		},
		{
			name:     "null のコレクション",
			raw:      rawCatalog(`null`, `[]`, `[]`),
			category: model.CategoryAttraction,
			index:    -1,
		},
		{
			name:     "null のレコード",
			raw:      rawCatalog(`[]`, `[]`, `[{"title": "식당"}, null]`),
			category: model.CategoryRestaurant,
			index:    1,
		},
		{
			name:     "タイトルが文字列ではない",
			raw:      rawCatalog(`[{"title": 123}]`, `[]`, `[]`),
			category: model.CategoryAttraction,
			index:    0,
		},
		{
			name:     "住所が文字列ではない",
			raw:      rawCatalog(`[]`, `[{"title": "카페", "address": ["서울"]}]`, `[]`),
			category: model.CategoryCafe,
			index:    0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			catalog, err := IngestCatalog(tt.raw)
			assert.Nil(t, catalog)

			var loadErr *model.CatalogLoadError
			require.ErrorAs(t, err, &loadErr)
			assert.Equal(t, tt.category, loadErr.Category)
			assert.Equal(t, tt.index, loadErr.Index)
		})
	}
}

func TestCatalog_LookupMissing(t *testing.T) {
	catalog, err := IngestCatalog(rawCatalog(`[]`, `[]`, `[]`))
	require.NoError(t, err)

	_, ok := catalog.Lookup(model.CategoryCafe, "없는 카페")
	assert.False(t, ok)

	var nilCatalog *Catalog
	_, ok = nilCatalog.Lookup(model.CategoryCafe, "없는 카페")
	assert.False(t, ok)
}
