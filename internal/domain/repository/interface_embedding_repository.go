package repository

import (
	"context"

	"github.com/pgvector/pgvector-go"
)

// EmbeddingRepository はテキストの埋め込みベクトル生成の責務を持つ
type EmbeddingRepository interface {
	// EmbedDocuments は入力と同じ順序でベクトルを返す
	EmbedDocuments(ctx context.Context, texts []string) ([]pgvector.Vector, error)
	EmbedQuery(ctx context.Context, text string) (pgvector.Vector, error)
}
