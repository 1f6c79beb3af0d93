package repository

import "context"

// TextGenerationRepository はプロンプトからテキストを生成する（コース生成・リランキング・説明生成で使用）
type TextGenerationRepository interface {
	Generate(ctx context.Context, prompt string) (string, error)
}
