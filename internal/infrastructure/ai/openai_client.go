package ai

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/pgvector/pgvector-go"
	openai "github.com/sashabaranov/go-openai"

	"Course-App/internal/domain/repository"
)

const (
	defaultEmbeddingModel = "text-embedding-3-large"
	defaultChatModel      = "gpt-4o-mini"
)

// OpenAIClient はOpenAI APIとの通信を担当するクライアント
type OpenAIClient struct {
	client         *openai.Client
	embeddingModel string
}

// NewOpenAIClient は新しいOpenAIClientインスタンスを作成
// baseURL が空でなければ接続先を差し替える（テスト用）
func NewOpenAIClient(apiKey, baseURL, embeddingModel string) *OpenAIClient {
	config := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		config.BaseURL = baseURL
	}
	if embeddingModel == "" {
		embeddingModel = defaultEmbeddingModel
	}
	return &OpenAIClient{
		client:         openai.NewClientWithConfig(config),
		embeddingModel: embeddingModel,
	}
}

var _ repository.EmbeddingRepository = (*OpenAIClient)(nil)

// EmbedDocuments は複数の文書を入力順のベクトルに変換する
func (c *OpenAIClient) EmbedDocuments(ctx context.Context, texts []string) ([]pgvector.Vector, error) {
	if len(texts) == 0 {
		return []pgvector.Vector{}, nil
	}

	resp, err := c.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Input: texts,
		Model: openai.EmbeddingModel(c.embeddingModel),
	})
	if err != nil {
		return nil, fmt.Errorf("埋め込みの生成に失敗: %w", err)
	}
	if len(resp.Data) != len(texts) {
		return nil, fmt.Errorf("埋め込み件数が一致しません (入力: %d, 出力: %d)", len(texts), len(resp.Data))
	}

	data := resp.Data
	sort.Slice(data, func(i, j int) bool { return data[i].Index < data[j].Index })

	vectors := make([]pgvector.Vector, len(data))
	for i, d := range data {
		vectors[i] = pgvector.NewVector(d.Embedding)
	}
	return vectors, nil
}

// EmbedQuery は検索クエリ1件をベクトルに変換する
func (c *OpenAIClient) EmbedQuery(ctx context.Context, text string) (pgvector.Vector, error) {
	vectors, err := c.EmbedDocuments(ctx, []string{text})
	if err != nil {
		return pgvector.Vector{}, err
	}
	return vectors[0], nil
}

// ChatGenerator はチャット補完でテキストを生成する
type ChatGenerator struct {
	client      *openai.Client
	model       string
	temperature float32
}

// NewChatGenerator は指定温度のChatGeneratorを作成する
// 生成には 0.7、判定（リランキング）には 0 を使う
func (c *OpenAIClient) NewChatGenerator(model string, temperature float32) *ChatGenerator {
	if model == "" {
		model = defaultChatModel
	}
	return &ChatGenerator{
		client:      c.client,
		model:       model,
		temperature: temperature,
	}
}

var _ repository.TextGenerationRepository = (*ChatGenerator)(nil)

// Generate はプロンプトに対する応答テキストを返す
func (g *ChatGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	temperature := g.temperature
	if temperature == 0 {
		// omitempty で 0 が送られないため最小の正の値で代用する
		temperature = math.SmallestNonzeroFloat32
	}

	resp, err := g.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: g.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleUser,
				Content: prompt,
			},
		},
		Temperature: temperature,
	})
	if err != nil {
		return "", fmt.Errorf("チャット補完に失敗: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("有効なレスポンスが生成されませんでした")
	}
	return resp.Choices[0].Message.Content, nil
}
