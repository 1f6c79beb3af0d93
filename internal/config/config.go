package config

import (
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// カタログの読み込み元
const (
	CatalogSourceJSON      = "json"
	CatalogSourcePostgres  = "postgres"
	CatalogSourceSupabase  = "supabase"
	CatalogSourceFirestore = "firestore"
)

// テキスト生成の利用先
const (
	LLMProviderOpenAI = "openai"
	LLMProviderGemini = "gemini"
)

// Config はアプリケーション設定
type Config struct {
	Port    string
	GinMode string

	LLMProvider    string
	OpenAIAPIKey   string
	OpenAIBaseURL  string
	EmbeddingModel string
	ChatModel      string
	GeminiAPIKey   string
	GeminiModel    string

	CatalogSource        string
	CatalogDir           string
	DatabaseURL          string
	SupabaseURL          string
	SupabaseAnonKey      string
	FirestoreProjectID   string
	FirestoreCredentials string
	GoogleMapsAPIKey     string
	BuildIndexOnStartup  bool
}

// Load は .env と環境変数から設定を読み込み検証する
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("⚠️ .envファイルが見つかりません、システム環境変数を使用")
	}
	return FromEnv(os.Getenv)
}

// FromEnv は getenv から設定を組み立てる
func FromEnv(getenv func(string) string) (*Config, error) {
	get := func(key, fallback string) string {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			return v
		}
		return fallback
	}

	cfg := &Config{
		Port:    get("PORT", "8080"),
		GinMode: get("GIN_MODE", "release"),

		LLMProvider:    strings.ToLower(get("LLM_PROVIDER", LLMProviderOpenAI)),
		OpenAIAPIKey:   get("OPENAI_API_KEY", ""),
		OpenAIBaseURL:  get("OPENAI_BASE_URL", ""),
		EmbeddingModel: get("EMBEDDING_MODEL", "text-embedding-3-large"),
		ChatModel:      get("CHAT_MODEL", "gpt-4o-mini"),
		GeminiAPIKey:   get("GEMINI_API_KEY", ""),
		GeminiModel:    get("GEMINI_MODEL", "gemini-2.5-flash"),

		CatalogSource:        strings.ToLower(get("CATALOG_SOURCE", CatalogSourceJSON)),
		CatalogDir:           get("CATALOG_DIR", "./data"),
		DatabaseURL:          get("DATABASE_URL", ""),
		SupabaseURL:          get("SUPABASE_URL", ""),
		SupabaseAnonKey:      get("SUPABASE_ANON_KEY", ""),
		FirestoreProjectID:   get("FIRESTORE_PROJECT_ID", ""),
		FirestoreCredentials: get("GOOGLE_APPLICATION_CREDENTIALS", ""),
		GoogleMapsAPIKey:     get("GOOGLE_MAPS_API_KEY", ""),
		BuildIndexOnStartup:  get("BUILD_INDEX_ON_STARTUP", "true") == "true",
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	// 埋め込みは常にOpenAIを使う
	if c.OpenAIAPIKey == "" {
		return fmt.Errorf("OPENAI_API_KEY環境変数が設定されていません")
	}

	switch c.LLMProvider {
	case LLMProviderOpenAI:
	case LLMProviderGemini:
		if c.GeminiAPIKey == "" {
			return fmt.Errorf("GEMINI_API_KEY環境変数が設定されていません")
		}
	default:
		return fmt.Errorf("LLM_PROVIDERの値が不正です: %s", c.LLMProvider)
	}

	switch c.CatalogSource {
	case CatalogSourceJSON:
		if c.CatalogDir == "" {
			return fmt.Errorf("CATALOG_DIR環境変数が設定されていません")
		}
	case CatalogSourcePostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL環境変数が設定されていません")
		}
	case CatalogSourceSupabase:
		if c.SupabaseURL == "" || c.SupabaseAnonKey == "" {
			return fmt.Errorf("SUPABASE_URLとSUPABASE_ANON_KEY環境変数が必要です")
		}
	case CatalogSourceFirestore:
		if c.FirestoreProjectID == "" {
			return fmt.Errorf("FIRESTORE_PROJECT_ID環境変数が設定されていません")
		}
	default:
		return fmt.Errorf("CATALOG_SOURCEの値が不正です: %s", c.CatalogSource)
	}
	return nil
}

// UseDirections は徒歩ルートAPIを使うかどうか
func (c *Config) UseDirections() bool {
	return c.GoogleMapsAPIKey != ""
}
