package repository

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"Course-App/internal/domain/model"
	"Course-App/internal/domain/service"
)

func writeCatalogFiles(t *testing.T, dir string, skip model.Category) {
	t.Helper()
	contents := map[model.Category]string{
		model.CategoryAttraction: `[{"title": "경복궁", "content": "궁궐", "mapy": "37.5796", "mapx": "126.9770"}]`,
		model.CategoryCafe:       `[{"title": "카페 온화", "content": "조용한 카페"}, {"title": "카페 온화", "content": "중복"}]`,
		model.CategoryRestaurant: `[{"title": "토속촌", "content": "삼계탕"}]`,
	}
	for category, body := range contents {
		if category == skip {
			continue
		}
		require.NoError(t, os.WriteFile(filepath.Join(dir, CatalogFileNames[category]), []byte(body), 0o644))
	}
}

func TestJSONPlaceSource_LoadRawPlaces(t *testing.T) {
	t.Run("3ファイルを読み込みカタログにできる", func(t *testing.T) {
		dir := t.TempDir()
		writeCatalogFiles(t, dir, "")

		raw, err := NewJSONPlaceSource(dir).LoadRawPlaces(context.Background())
		require.NoError(t, err)
		assert.Len(t, raw, 3)

		catalog, err := service.IngestCatalog(raw)
		require.NoError(t, err)
		assert.Equal(t, 1, catalog.Len(model.CategoryCafe))

		place, ok := catalog.Lookup(model.CategoryAttraction, "경복궁")
		require.True(t, ok)
		assert.True(t, place.HasCoordinates)
	})

	t.Run("ファイルがなければ CatalogLoadError", func(t *testing.T) {
		dir := t.TempDir()
		writeCatalogFiles(t, dir, model.CategoryRestaurant)

		_, err := NewJSONPlaceSource(dir).LoadRawPlaces(context.Background())
		var loadErr *model.CatalogLoadError
		require.ErrorAs(t, err, &loadErr)
		assert.Equal(t, model.CategoryRestaurant, loadErr.Category)
		assert.ErrorIs(t, err, os.ErrNotExist)
	})
}

func TestDecodePlaceRows(t *testing.T) {
	payloads, err := decodePlaceRows([]byte(`[
		{"id": 3, "payload": {"title": "c"}},
		{"id": 1, "payload": {"title": "a"}},
		{"id": 2, "payload": {"title": "b"}}
	]`))
	require.NoError(t, err)
	require.Len(t, payloads, 3)
	assert.JSONEq(t, `{"title": "a"}`, string(payloads[0]))
	assert.JSONEq(t, `{"title": "c"}`, string(payloads[2]))

	_, err = decodePlaceRows([]byte(`{"id": 1}`))
	assert.Error(t, err)
}
