package service

import (
	"context"
	"fmt"
	"log"
	"math"
	"sort"
	"strings"

	"github.com/pgvector/pgvector-go"

	"Course-App/internal/domain/model"
	"Course-App/internal/domain/repository"
)

const embeddingBatchSize = 100

// EmbeddingDocument はインデックスに登録されたスポット1件分の文書
type EmbeddingDocument struct {
	Content    string
	Title      string
	Category   model.Category
	Address    string
	Facilities string
	Location   model.Location
	Vector     pgvector.Vector
}

// IndexQuery は類似度検索の条件
type IndexQuery struct {
	Text     string
	Category model.Category
	K        int
	FetchK   int
	Lambda   float64 // 大きいほど関連度重視、小さいほど多様性重視
	Region   string  // 空文字列なら地域フィルタなし
}

// SimilarityIndex はスポット説明文のベクトルインデックス（構築後は読み取り専用）
type SimilarityIndex struct {
	catalog   *Catalog
	embedder  repository.EmbeddingRepository
	documents map[model.Category][]EmbeddingDocument
}

// BuildSimilarityIndex は説明文を持つスポットを埋め込んでインデックスを構築する
func BuildSimilarityIndex(ctx context.Context, catalog *Catalog, embedder repository.EmbeddingRepository) (*SimilarityIndex, error) {
	if catalog == nil {
		return nil, fmt.Errorf("カタログが未設定です")
	}

	var docs []EmbeddingDocument
	for _, category := range model.AllCategories() {
		for _, place := range catalog.Places(category) {
			if !place.HasContent() {
				continue
			}
			docs = append(docs, EmbeddingDocument{
				Content:    place.Content,
				Title:      place.Title,
				Category:   category,
				Address:    place.Address,
				Facilities: place.FacilitiesText(),
				Location:   place.Location,
			})
		}
	}
	log.Printf("📝 %d件の文書を生成", len(docs))

	for start := 0; start < len(docs); start += embeddingBatchSize {
		end := min(start+embeddingBatchSize, len(docs))
		texts := make([]string, 0, end-start)
		for _, doc := range docs[start:end] {
			texts = append(texts, doc.Content)
		}

		vectors, err := embedder.EmbedDocuments(ctx, texts)
		if err != nil {
			return nil, fmt.Errorf("埋め込み生成に失敗 (%d-%d件目): %w", start, end, err)
		}
		if len(vectors) != len(texts) {
			return nil, fmt.Errorf("埋め込み件数が一致しません (期待 %d, 実際 %d)", len(texts), len(vectors))
		}
		for i, vec := range vectors {
			docs[start+i].Vector = vec
		}
	}

	index := &SimilarityIndex{
		catalog:   catalog,
		embedder:  embedder,
		documents: make(map[model.Category][]EmbeddingDocument),
	}
	for _, doc := range docs {
		index.documents[doc.Category] = append(index.documents[doc.Category], doc)
	}

	log.Printf("✅ 類似度インデックス構築完了")
	return index, nil
}

// Len は指定カテゴリの文書数
func (s *SimilarityIndex) Len(category model.Category) int {
	if s == nil {
		return 0
	}
	return len(s.documents[category])
}

// Query は関連度と多様性（MMR）を両立したスポット検索を行う
func (s *SimilarityIndex) Query(ctx context.Context, q IndexQuery) ([]*model.PlaceRecord, error) {
	if s == nil || s.documents == nil {
		return nil, model.ErrIndexNotBuilt
	}

	queryVector, err := s.embedder.EmbedQuery(ctx, q.Text)
	if err != nil {
		return nil, fmt.Errorf("検索クエリの埋め込みに失敗: %w", err)
	}

	docs := s.documents[q.Category]
	if len(docs) == 0 || q.K <= 0 {
		return []*model.PlaceRecord{}, nil
	}

	fetched := nearestDocuments(queryVector.Slice(), docs, max(q.FetchK, q.K))
	selected := maximalMarginalRelevance(queryVector.Slice(), fetched, q.K, q.Lambda)

	places := make([]*model.PlaceRecord, 0, len(selected))
	for _, doc := range selected {
		if place, ok := s.catalog.Lookup(doc.Category, doc.Title); ok {
			places = append(places, place)
		}
	}

	if q.Region != "" {
		places = applyRegionFilter(places, q.Region)
	}
	return places, nil
}

// applyRegionFilter は住所に地域名を含むスポットだけを残す
// 1件も残らない場合はフィルタを無視して元の候補を返す
func applyRegionFilter(places []*model.PlaceRecord, region string) []*model.PlaceRecord {
	filtered := make([]*model.PlaceRecord, 0, len(places))
	for _, place := range places {
		if strings.Contains(place.Address, region) {
			filtered = append(filtered, place)
		}
	}
	if len(filtered) == 0 {
		log.Printf("⚠️ 地域「%s」に一致する候補がないためフィルタを解除", region)
		return places
	}
	return filtered
}

type scoredDocument struct {
	doc   EmbeddingDocument
	score float64
}

// nearestDocuments はコサイン類似度の高い順に最大 n 件を返す
func nearestDocuments(query []float32, docs []EmbeddingDocument, n int) []scoredDocument {
	scored := make([]scoredDocument, 0, len(docs))
	for _, doc := range docs {
		scored = append(scored, scoredDocument{doc: doc, score: cosineSimilarity(query, doc.Vector.Slice())})
	}
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].score > scored[j].score
	})
	if len(scored) > n {
		scored = scored[:n]
	}
	return scored
}

// maximalMarginalRelevance は λ·sim(q,d) − (1−λ)·max sim(d,選択済み) が最大の文書を順に k 件選ぶ
func maximalMarginalRelevance(query []float32, candidates []scoredDocument, k int, lambda float64) []EmbeddingDocument {
	if len(candidates) == 0 {
		return nil
	}

	selected := make([]EmbeddingDocument, 0, min(k, len(candidates)))
	used := make([]bool, len(candidates))

	// 最初の1件は最も関連度の高い文書
	selected = append(selected, candidates[0].doc)
	used[0] = true

	for len(selected) < k && len(selected) < len(candidates) {
		bestIdx := -1
		bestScore := math.Inf(-1)
		for i, cand := range candidates {
			if used[i] {
				continue
			}
			redundancy := math.Inf(-1)
			for _, chosen := range selected {
				redundancy = math.Max(redundancy, cosineSimilarity(cand.doc.Vector.Slice(), chosen.Vector.Slice()))
			}
			score := lambda*cand.score - (1-lambda)*redundancy
			if score > bestScore {
				bestScore = score
				bestIdx = i
			}
		}
		if bestIdx < 0 {
			break
		}
		used[bestIdx] = true
		selected = append(selected, candidates[bestIdx].doc)
	}
	return selected
}

func cosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
