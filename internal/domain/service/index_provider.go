package service

import (
	"context"
	"log"
	"sync"

	"golang.org/x/sync/singleflight"

	"Course-App/internal/domain/model"
	"Course-App/internal/domain/repository"
)

// SimilarityIndexProvider はプロセス内で1度だけ類似度インデックスを構築し共有する
// 同時に到着した最初のリクエスト群は1回の構築結果を共有する（構築失敗はキャッシュしない）
type SimilarityIndexProvider struct {
	catalog  *Catalog
	embedder repository.EmbeddingRepository

	mu    sync.RWMutex
	index *SimilarityIndex
	group singleflight.Group
}

// NewSimilarityIndexProvider は新しいSimilarityIndexProviderインスタンスを作成
func NewSimilarityIndexProvider(catalog *Catalog, embedder repository.EmbeddingRepository) *SimilarityIndexProvider {
	return &SimilarityIndexProvider{
		catalog:  catalog,
		embedder: embedder,
	}
}

// Get は構築済みのインデックスを返す。未構築なら構築する
func (p *SimilarityIndexProvider) Get(ctx context.Context) (*SimilarityIndex, error) {
	if index, err := p.Current(); err == nil {
		return index, nil
	}
	return p.build(ctx, false)
}

// Current は構築済みのインデックスを返す。未構築なら ErrIndexNotBuilt
func (p *SimilarityIndexProvider) Current() (*SimilarityIndex, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.index == nil {
		return nil, model.ErrIndexNotBuilt
	}
	return p.index, nil
}

// Rebuild はインデックスを作り直す。構築中も古いインデックスは読み取り可能
func (p *SimilarityIndexProvider) Rebuild(ctx context.Context) (*SimilarityIndex, error) {
	return p.build(ctx, true)
}

func (p *SimilarityIndexProvider) build(ctx context.Context, force bool) (*SimilarityIndex, error) {
	// 構築は呼び出し元のキャンセルに左右されない。待機だけを打ち切る
	buildCtx := context.WithoutCancel(ctx)
	ch := p.group.DoChan("similarity-index", func() (any, error) {
		if !force {
			if index, err := p.Current(); err == nil {
				return index, nil
			}
		}

		log.Printf("📚 類似度インデックス構築開始")
		index, err := BuildSimilarityIndex(buildCtx, p.catalog, p.embedder)
		if err != nil {
			return nil, err
		}

		p.mu.Lock()
		p.index = index
		p.mu.Unlock()
		return index, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		if res.Shared {
			log.Printf("♻️ 構築中のインデックスを共有")
		}
		return res.Val.(*SimilarityIndex), nil
	}
}
