package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"Course-App/internal/domain/model"
	"Course-App/internal/domain/repository"
)

// CatalogFileNames はカテゴリごとのカタログファイル名
var CatalogFileNames = map[model.Category]string{
	model.CategoryAttraction: "tour_final.json",
	model.CategoryCafe:       "cafe_final.json",
	model.CategoryRestaurant: "restaurant_final.json",
}

// JSONPlaceSource はディレクトリ内のJSONファイルからスポットを読み込む
type JSONPlaceSource struct {
	dir string
}

func NewJSONPlaceSource(dir string) repository.PlaceSourceRepository {
	return &JSONPlaceSource{dir: dir}
}

// LoadRawPlaces は3カテゴリのファイルを読み込む。1つでも欠けていればエラー
func (s *JSONPlaceSource) LoadRawPlaces(ctx context.Context) (map[model.Category]json.RawMessage, error) {
	raw := make(map[model.Category]json.RawMessage, len(CatalogFileNames))
	for _, category := range model.AllCategories() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		path := filepath.Join(s.dir, CatalogFileNames[category])
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, &model.CatalogLoadError{
				Category: category,
				Index:    -1,
				Reason:   fmt.Sprintf("ファイル %s を読み込めません", path),
				Err:      err,
			}
		}
		raw[category] = data
		log.Printf("📄 %s を読み込み (%d bytes)", path, len(data))
	}
	return raw, nil
}
