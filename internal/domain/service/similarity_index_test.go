package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"Course-App/internal/domain/model"
)

const queryText = "조용한 관광지"

// 文書ベクトル: A がクエリに最も近く、A' は A とほぼ同じ、B は別方向
func mmrFixture(t *testing.T) (*Catalog, *fakeEmbedder) {
	catalog := buildCatalog(t, map[model.Category][]map[string]any{
		model.CategoryAttraction: {
			place("A", "doc-a", "서울 종로구 사직로", 37.57, 126.97),
			place("A2", "doc-a2", "서울 종로구 율곡로", 37.58, 126.98),
			place("B", "doc-b", "서울 중구 남산공원길", 37.55, 126.98),
			{"title": "NoContent", "address": "서울 종로구"},
		},
		model.CategoryCafe: {
			place("C", "doc-c", "서울 마포구", 37.55, 126.92),
		},
	})
	embedder := newFakeEmbedder(map[string][]float32{
		queryText: {1, 0},
		"doc-a":   {1, 0},
		"doc-a2":  {0.99, 0.141},
		"doc-b":   {0.6, 0.8},
		"doc-c":   {0, 1},
	})
	return catalog, embedder
}

func titlesOf(places []*model.PlaceRecord) []string {
	titles := make([]string, 0, len(places))
	for _, p := range places {
		titles = append(titles, p.Title)
	}
	return titles
}

func TestBuildSimilarityIndex(t *testing.T) {
	catalog, embedder := mmrFixture(t)

	index, err := BuildSimilarityIndex(context.Background(), catalog, embedder)
	require.NoError(t, err)

	t.Run("説明文のないスポットは登録しない", func(t *testing.T) {
		assert.Equal(t, 3, index.Len(model.CategoryAttraction))
		assert.Equal(t, 1, index.Len(model.CategoryCafe))
		assert.Equal(t, 0, index.Len(model.CategoryRestaurant))
	})

	t.Run("埋め込み失敗はエラー", func(t *testing.T) {
		failing := newFakeEmbedder(nil)
		failing.err = errUpstream
		_, err := BuildSimilarityIndex(context.Background(), catalog, failing)
		assert.ErrorIs(t, err, errUpstream)
	})
}

func TestSimilarityIndex_Query(t *testing.T) {
	catalog, embedder := mmrFixture(t)
	index, err := BuildSimilarityIndex(context.Background(), catalog, embedder)
	require.NoError(t, err)
	ctx := context.Background()

	t.Run("λ=1 では関連度順", func(t *testing.T) {
		places, err := index.Query(ctx, IndexQuery{Text: queryText, Category: model.CategoryAttraction, K: 2, FetchK: 3, Lambda: 1})
		require.NoError(t, err)
		assert.Equal(t, []string{"A", "A2"}, titlesOf(places))
	})

	t.Run("λ が小さいと似た文書を避ける", func(t *testing.T) {
		places, err := index.Query(ctx, IndexQuery{Text: queryText, Category: model.CategoryAttraction, K: 2, FetchK: 3, Lambda: 0.3})
		require.NoError(t, err)
		assert.Equal(t, []string{"A", "B"}, titlesOf(places))
	})

	t.Run("カテゴリで絞り込む", func(t *testing.T) {
		places, err := index.Query(ctx, IndexQuery{Text: queryText, Category: model.CategoryCafe, K: 5, FetchK: 10, Lambda: 0.7})
		require.NoError(t, err)
		assert.Equal(t, []string{"C"}, titlesOf(places))
	})

	t.Run("文書のないカテゴリは空", func(t *testing.T) {
		places, err := index.Query(ctx, IndexQuery{Text: queryText, Category: model.CategoryRestaurant, K: 5, FetchK: 10, Lambda: 0.7})
		require.NoError(t, err)
		assert.Empty(t, places)
	})

	t.Run("地域フィルタで住所を絞り込む", func(t *testing.T) {
		places, err := index.Query(ctx, IndexQuery{Text: queryText, Category: model.CategoryAttraction, K: 3, FetchK: 3, Lambda: 1, Region: "중구"})
		require.NoError(t, err)
		assert.Equal(t, []string{"B"}, titlesOf(places))
	})

	t.Run("地域に一致しなければフィルタを無視する", func(t *testing.T) {
		places, err := index.Query(ctx, IndexQuery{Text: queryText, Category: model.CategoryAttraction, K: 3, FetchK: 3, Lambda: 1, Region: "강남구"})
		require.NoError(t, err)
		assert.Len(t, places, 3)
	})

	t.Run("検索クエリの埋め込み失敗はエラー", func(t *testing.T) {
		embedder.err = errUpstream
		defer func() { embedder.err = nil }()
		_, err := index.Query(ctx, IndexQuery{Text: queryText, Category: model.CategoryAttraction, K: 3, FetchK: 3, Lambda: 1})
		assert.ErrorIs(t, err, errUpstream)
	})
}

func TestSimilarityIndex_QueryBeforeBuild(t *testing.T) {
	var index *SimilarityIndex
	_, err := index.Query(context.Background(), IndexQuery{Text: queryText, Category: model.CategoryCafe, K: 1})
	assert.ErrorIs(t, err, model.ErrIndexNotBuilt)
}

func TestSimilarityIndexProvider(t *testing.T) {
	t.Run("構築前の Current は ErrIndexNotBuilt", func(t *testing.T) {
		catalog, embedder := mmrFixture(t)
		provider := NewSimilarityIndexProvider(catalog, embedder)
		_, err := provider.Current()
		assert.ErrorIs(t, err, model.ErrIndexNotBuilt)
	})

	t.Run("同時に呼ばれても構築は1回", func(t *testing.T) {
		catalog, embedder := mmrFixture(t)
		embedder.gate = make(chan struct{})
		provider := NewSimilarityIndexProvider(catalog, embedder)

		const callers = 8
		results := make([]*SimilarityIndex, callers)
		var wg sync.WaitGroup
		for i := 0; i < callers; i++ {
			wg.Add(1)
			go func(idx int) {
				defer wg.Done()
				index, err := provider.Get(context.Background())
				assert.NoError(t, err)
				results[idx] = index
			}(i)
		}
		close(embedder.gate)
		wg.Wait()

		assert.Equal(t, int32(1), embedder.documentCalls.Load())
		for _, index := range results {
			assert.Same(t, results[0], index)
		}
	})

	t.Run("先に来た呼び出し元がキャンセルしても構築は続く", func(t *testing.T) {
		catalog, embedder := mmrFixture(t)
		embedder.gate = make(chan struct{})
		provider := NewSimilarityIndexProvider(catalog, embedder)

		ctx, cancel := context.WithCancel(context.Background())
		firstErr := make(chan error, 1)
		go func() {
			_, err := provider.Get(ctx)
			firstErr <- err
		}()
		require.Eventually(t, func() bool { return embedder.documentCalls.Load() == 1 }, time.Second, time.Millisecond)

		type result struct {
			index *SimilarityIndex
			err   error
		}
		second := make(chan result, 1)
		go func() {
			index, err := provider.Get(context.Background())
			second <- result{index: index, err: err}
		}()

		cancel()
		assert.ErrorIs(t, <-firstErr, context.Canceled)

		close(embedder.gate)
		got := <-second
		require.NoError(t, got.err)
		assert.Equal(t, 3, got.index.Len(model.CategoryAttraction))
		assert.Equal(t, int32(1), embedder.documentCalls.Load())

		current, err := provider.Current()
		require.NoError(t, err)
		assert.Same(t, got.index, current)
	})

	t.Run("構築失敗はキャッシュしない", func(t *testing.T) {
		catalog, embedder := mmrFixture(t)
		embedder.err = errUpstream
		provider := NewSimilarityIndexProvider(catalog, embedder)

		_, err := provider.Get(context.Background())
		require.ErrorIs(t, err, errUpstream)

		embedder.err = nil
		index, err := provider.Get(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 3, index.Len(model.CategoryAttraction))
	})

	t.Run("Rebuild は新しいインデックスを作る", func(t *testing.T) {
		catalog, embedder := mmrFixture(t)
		provider := NewSimilarityIndexProvider(catalog, embedder)

		first, err := provider.Get(context.Background())
		require.NoError(t, err)
		second, err := provider.Rebuild(context.Background())
		require.NoError(t, err)

		assert.NotSame(t, first, second)
		current, err := provider.Current()
		require.NoError(t, err)
		assert.Same(t, second, current)
	})
}
