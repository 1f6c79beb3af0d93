package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/pgvector/pgvector-go"
	"github.com/stretchr/testify/require"

	"Course-App/internal/domain/model"
)

// fakeEmbedder はテキストごとに固定ベクトルを返す
type fakeEmbedder struct {
	vectors    map[string][]float32
	defaultVec []float32
	err        error
	gate       chan struct{}

	documentCalls atomic.Int32
	queryCalls    atomic.Int32
}

func newFakeEmbedder(vectors map[string][]float32) *fakeEmbedder {
	return &fakeEmbedder{vectors: vectors, defaultVec: []float32{0.5, 0.5}}
}

func (f *fakeEmbedder) vectorFor(text string) pgvector.Vector {
	if v, ok := f.vectors[text]; ok {
		return pgvector.NewVector(v)
	}
	return pgvector.NewVector(f.defaultVec)
}

func (f *fakeEmbedder) EmbedDocuments(ctx context.Context, texts []string) ([]pgvector.Vector, error) {
	f.documentCalls.Add(1)
	if f.gate != nil {
		select {
		case <-f.gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if f.err != nil {
		return nil, f.err
	}
	vectors := make([]pgvector.Vector, len(texts))
	for i, text := range texts {
		vectors[i] = f.vectorFor(text)
	}
	return vectors, nil
}

func (f *fakeEmbedder) EmbedQuery(ctx context.Context, text string) (pgvector.Vector, error) {
	f.queryCalls.Add(1)
	if f.err != nil {
		return pgvector.Vector{}, f.err
	}
	return f.vectorFor(text), nil
}

// fakeGenerator は固定の応答を返し、受け取ったプロンプトを記録する
type fakeGenerator struct {
	mu       sync.Mutex
	response string
	err      error
	prompts  []string
}

func (f *fakeGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.prompts = append(f.prompts, prompt)
	if f.err != nil {
		return "", f.err
	}
	return f.response, nil
}

func (f *fakeGenerator) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.prompts)
}

var errUpstream = errors.New("upstream unavailable")

// buildCatalog はカテゴリごとのレコードからカタログを作る
func buildCatalog(t *testing.T, records map[model.Category][]map[string]any) *Catalog {
	t.Helper()
	raw := make(map[model.Category]json.RawMessage)
	for _, category := range model.AllCategories() {
		items := records[category]
		if items == nil {
			items = []map[string]any{}
		}
		data, err := json.Marshal(items)
		require.NoError(t, err)
		raw[category] = data
	}
	catalog, err := IngestCatalog(raw)
	require.NoError(t, err)
	return catalog
}

func place(title, content, address string, lat, lng float64) map[string]any {
	return map[string]any{
		"title":       title,
		"content":     content,
		"address":     address,
		"coordinates": map[string]any{"latitude": lat, "longitude": lng},
	}
}

func placeRecords(category model.Category, titles ...string) []*model.PlaceRecord {
	places := make([]*model.PlaceRecord, 0, len(titles))
	for _, title := range titles {
		places = append(places, &model.PlaceRecord{Title: title, Category: category, Content: strings.Repeat(title, 2)})
	}
	return places
}
