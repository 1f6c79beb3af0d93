package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"Course-App/internal/domain/model"
	"Course-App/internal/domain/repository"
	"Course-App/internal/infrastructure/firestore"
)

const placesCollection = "places"

// FirestorePlaceSource は places コレクションからスポットを読み込む
// 各ドキュメントは category フィールドと元レコードのフィールドを持つ
type FirestorePlaceSource struct {
	client *firestore.FirestoreClient
}

func NewFirestorePlaceSource(client *firestore.FirestoreClient) repository.PlaceSourceRepository {
	return &FirestorePlaceSource{client: client}
}

func (r *FirestorePlaceSource) LoadRawPlaces(ctx context.Context) (map[model.Category]json.RawMessage, error) {
	raw := make(map[model.Category]json.RawMessage, 3)
	for _, category := range model.AllCategories() {
		docs, err := r.client.GetClient().Collection(placesCollection).
			Where("category", "==", string(category)).
			Documents(ctx).GetAll()
		if err != nil {
			return nil, fmt.Errorf("%s のドキュメント取得に失敗: %w", category.Label(), err)
		}

		// 重複タイトルはドキュメントIDが小さい方を採用する
		sort.Slice(docs, func(i, j int) bool { return docs[i].Ref.ID < docs[j].Ref.ID })

		records := make([]map[string]any, 0, len(docs))
		for _, doc := range docs {
			data := doc.Data()
			delete(data, "category")
			records = append(records, data)
		}

		encoded, err := json.Marshal(records)
		if err != nil {
			return nil, fmt.Errorf("%s のJSON変換に失敗: %w", category.Label(), err)
		}
		raw[category] = encoded
	}
	return raw, nil
}
