package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"Course-App/internal/config"
	"Course-App/internal/domain/model"
	domainRepo "Course-App/internal/domain/repository"
	"Course-App/internal/domain/service"
	"Course-App/internal/handler"
	"Course-App/internal/infrastructure/ai"
	"Course-App/internal/infrastructure/database"
	"Course-App/internal/infrastructure/firestore"
	"Course-App/internal/infrastructure/maps"
	"Course-App/internal/repository"
	"Course-App/internal/usecase"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("設定の読み込みに失敗: %v", err)
	}
	gin.SetMode(cfg.GinMode)

	ctx := context.Background()

	// カタログ読み込み
	source, closeSource, err := newPlaceSource(ctx, cfg)
	if err != nil {
		log.Fatalf("カタログ読み込み元の初期化に失敗: %v", err)
	}
	defer closeSource()

	raw, err := source.LoadRawPlaces(ctx)
	if err != nil {
		log.Fatalf("カタログの取得に失敗: %v", err)
	}
	catalog, err := service.IngestCatalog(raw)
	if err != nil {
		log.Fatalf("カタログの取り込みに失敗: %v", err)
	}
	for _, category := range model.AllCategories() {
		stats := catalog.Stats(category)
		log.Printf("✅ %s: %d件 (重複 %d件, スキップ %d件)", category.Label(), stats.Loaded, stats.Duplicates, stats.Skipped)
	}

	// AIクライアント
	openaiClient := ai.NewOpenAIClient(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL, cfg.EmbeddingModel)
	generator, judge := newTextGenerators(cfg, openaiClient)

	indexProvider := service.NewSimilarityIndexProvider(catalog, openaiClient)
	if cfg.BuildIndexOnStartup {
		if _, err := indexProvider.Get(ctx); err != nil {
			log.Fatalf("類似度インデックスの構築に失敗: %v", err)
		}
	}

	var walkingRoute domainRepo.WalkingRouteRepository
	if cfg.UseDirections() {
		walkingRoute = maps.NewGoogleDirectionsProvider(cfg.GoogleMapsAPIKey)
		log.Printf("🗺️ 徒歩距離にGoogle Directions APIを使用")
	}

	recommendationUseCase := usecase.NewCourseRecommendationUseCase(
		catalog,
		indexProvider,
		service.NewCandidateRanker(judge),
		service.NewCourseSynthesizer(generator),
		service.NewRouteOptimizer(catalog),
		service.NewExplanationGenerator(generator, catalog),
		walkingRoute,
	)
	recommendationHandler := handler.NewCourseRecommendationHandler(recommendationUseCase)

	router := handler.NewRouter(recommendationHandler)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		log.Printf("🚀 Course-App server starting on :%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("サーバー起動に失敗: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Printf("🛑 サーバーを停止中...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("⚠️ サーバー停止に失敗: %v", err)
	}
}

// newPlaceSource は設定に応じたカタログ読み込み元と後始末関数を返す
func newPlaceSource(ctx context.Context, cfg *config.Config) (domainRepo.PlaceSourceRepository, func(), error) {
	noop := func() {}

	switch cfg.CatalogSource {
	case config.CatalogSourcePostgres:
		client, err := database.NewPostgreSQLClient(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, noop, err
		}
		return repository.NewPostgresPlaceSource(client), func() { client.Close() }, nil
	case config.CatalogSourceSupabase:
		client, err := database.NewSupabaseClient(cfg.SupabaseURL, cfg.SupabaseAnonKey)
		if err != nil {
			return nil, noop, err
		}
		return repository.NewSupabasePlaceSource(client), noop, nil
	case config.CatalogSourceFirestore:
		client, err := firestore.NewFirestoreClient(ctx, cfg.FirestoreProjectID, cfg.FirestoreCredentials)
		if err != nil {
			return nil, noop, err
		}
		return repository.NewFirestorePlaceSource(client), func() { client.Close() }, nil
	case config.CatalogSourceJSON:
		return repository.NewJSONPlaceSource(cfg.CatalogDir), noop, nil
	default:
		return nil, noop, fmt.Errorf("未対応のカタログ読み込み元: %s", cfg.CatalogSource)
	}
}

// newTextGenerators はコース生成用（温度0.7）と判定用（温度0）の生成器を返す
func newTextGenerators(cfg *config.Config, openaiClient *ai.OpenAIClient) (generator, judge domainRepo.TextGenerationRepository) {
	if cfg.LLMProvider == config.LLMProviderGemini {
		log.Printf("🤖 テキスト生成にGeminiを使用 (%s)", cfg.GeminiModel)
		return ai.NewGeminiClient(cfg.GeminiAPIKey, ai.WithGeminiModel(cfg.GeminiModel), ai.WithGeminiTemperature(0.7)),
			ai.NewGeminiClient(cfg.GeminiAPIKey, ai.WithGeminiModel(cfg.GeminiModel), ai.WithGeminiTemperature(0))
	}
	log.Printf("🤖 テキスト生成にOpenAIを使用 (%s)", cfg.ChatModel)
	return openaiClient.NewChatGenerator(cfg.ChatModel, 0.7), openaiClient.NewChatGenerator(cfg.ChatModel, 0)
}
