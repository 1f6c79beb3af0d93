package usecase

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"Course-App/internal/domain/helper"
	"Course-App/internal/domain/model"
	"Course-App/internal/domain/repository"
	"Course-App/internal/domain/service"
)

// 検索パラメータ
const (
	retrievalK      = 50
	retrievalFetchK = 100
	retrievalLambda = 0.7
	candidateTopK   = 10
)

type CourseRecommendationUseCase interface {
	// Recommend はプロフィール・目的・地域から最大3件のコースを推薦する
	Recommend(ctx context.Context, req *model.RecommendRequest) ([]model.FinalCourse, error)
}

// courseRecommendationUseCaseImpl はCourseRecommendationUseCaseの実装
type courseRecommendationUseCaseImpl struct {
	catalog       *service.Catalog
	indexProvider *service.SimilarityIndexProvider
	ranker        *service.CandidateRanker
	synthesizer   *service.CourseSynthesizer
	optimizer     *service.RouteOptimizer
	explainer     *service.ExplanationGenerator
	walkingRoute  repository.WalkingRouteRepository
}

// NewCourseRecommendationUseCase は新しいCourseRecommendationUseCaseインスタンスを作成
// walkingRoute は nil でもよい（その場合は直線距離で所要時間を見積もる）
func NewCourseRecommendationUseCase(
	catalog *service.Catalog,
	indexProvider *service.SimilarityIndexProvider,
	ranker *service.CandidateRanker,
	synthesizer *service.CourseSynthesizer,
	optimizer *service.RouteOptimizer,
	explainer *service.ExplanationGenerator,
	walkingRoute repository.WalkingRouteRepository,
) CourseRecommendationUseCase {
	return &courseRecommendationUseCaseImpl{
		catalog:       catalog,
		indexProvider: indexProvider,
		ranker:        ranker,
		synthesizer:   synthesizer,
		optimizer:     optimizer,
		explainer:     explainer,
		walkingRoute:  walkingRoute,
	}
}

// Recommend はプロフィール・目的・地域から最大3件のコースを推薦する
func (u *courseRecommendationUseCaseImpl) Recommend(ctx context.Context, req *model.RecommendRequest) ([]model.FinalCourse, error) {
	log.Printf("🚀 コース推薦開始 (プロフィール: %s, 目的: %v, 地域: %q)", req.TravelerProfile, req.PurposeTags, req.RegionFilter())

	// Step 1: インデックス取得
	index, err := u.indexProvider.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("類似度インデックスの取得に失敗: %w", err)
	}

	// Step 2: カテゴリごとの候補検索
	pools, err := u.searchCandidatePools(ctx, index, req)
	if err != nil {
		return nil, err
	}

	// Step 3: コース案の生成
	drafts := u.synthesizer.Synthesize(ctx, req.TravelerProfile, req.PurposeTags, pools)
	if len(drafts) == 0 {
		log.Printf("⚠️ 有効なコース案がありません")
		return []model.FinalCourse{}, nil
	}
	log.Printf("✅ %d件のコース案を生成", len(drafts))

	// Step 4: 各コースの経路最適化と説明生成を並行実行
	courses := u.finalizeCourses(ctx, drafts, req.TravelerProfile)

	log.Printf("🎉 コース推薦完了 (%d件)", len(courses))
	return courses, nil
}

// searchCandidatePools は3カテゴリの候補を並行して検索・リランキングする
func (u *courseRecommendationUseCaseImpl) searchCandidatePools(ctx context.Context, index *service.SimilarityIndex, req *model.RecommendRequest) (model.CandidatePools, error) {
	categories := model.AllCategories()
	results := make([][]*model.PlaceRecord, len(categories))

	g, gctx := errgroup.WithContext(ctx)
	for i, category := range categories {
		g.Go(func() error {
			candidates, err := u.searchCategory(gctx, index, req, category)
			if err != nil {
				return err
			}
			results[i] = candidates
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	pools := make(model.CandidatePools, len(categories))
	for i, category := range categories {
		pools[category] = results[i]
		log.Printf("🔍 %s: %d件の候補", category.Label(), len(results[i]))
	}
	return pools, nil
}

func (u *courseRecommendationUseCaseImpl) searchCategory(ctx context.Context, index *service.SimilarityIndex, req *model.RecommendRequest, category model.Category) ([]*model.PlaceRecord, error) {
	query := BuildSearchQuery(req.TravelerProfile, req.PurposeTags, category)

	retrieved, err := index.Query(ctx, service.IndexQuery{
		Text:     query,
		Category: category,
		K:        retrievalK,
		FetchK:   retrievalFetchK,
		Lambda:   retrievalLambda,
		Region:   req.RegionFilter(),
	})
	if err != nil {
		if errors.Is(err, model.ErrIndexNotBuilt) {
			return nil, err
		}
		return nil, fmt.Errorf("%s の検索に失敗: %w", category.Label(), err)
	}

	reranked := u.ranker.Rerank(ctx, query, retrieved, candidateTopK*2)
	return dedupeByTitle(reranked, candidateTopK), nil
}

// BuildSearchQuery はカテゴリ別の検索クエリ文を組み立てる
func BuildSearchQuery(profile string, purposes []string, category model.Category) string {
	return fmt.Sprintf("%s에게 적합한 %s 분위기의 %s. 접근성이 좋고 시설이 잘 갖춰진 곳.",
		profile, strings.Join(purposes, ", "), category.Label())
}

// dedupeByTitle はタイトルの重複を除き先頭から limit 件を返す
func dedupeByTitle(places []*model.PlaceRecord, limit int) []*model.PlaceRecord {
	seen := make(map[string]struct{}, len(places))
	result := make([]*model.PlaceRecord, 0, limit)
	for _, place := range places {
		if _, ok := seen[place.Title]; ok {
			continue
		}
		seen[place.Title] = struct{}{}
		result = append(result, place)
		if len(result) == limit {
			break
		}
	}
	return result
}

// finalizeCourses は各コース案を最適化・説明付けし、コース案の順序で返す
func (u *courseRecommendationUseCaseImpl) finalizeCourses(ctx context.Context, drafts []model.CourseDraft, profile string) []model.FinalCourse {
	type courseResult struct {
		index  int
		course *model.FinalCourse
		err    error
	}

	resultChan := make(chan courseResult, len(drafts))
	var wg sync.WaitGroup

	for i, draft := range drafts {
		wg.Add(1)
		go func(idx int, d model.CourseDraft) {
			defer wg.Done()
			course, err := u.finalizeCourse(ctx, d, profile)
			resultChan <- courseResult{index: idx, course: course, err: err}
		}(i, draft)
	}

	// 別のgoroutineでwaitしてチャンネルを閉じる
	go func() {
		wg.Wait()
		close(resultChan)
	}()

	ordered := make([]*model.FinalCourse, len(drafts))
	for result := range resultChan {
		if result.err != nil {
			log.Printf("⚠️ コース%d を除外: %v", drafts[result.index].CourseID, result.err)
			continue
		}
		ordered[result.index] = result.course
	}

	courses := make([]model.FinalCourse, 0, len(drafts))
	for _, course := range ordered {
		if course != nil {
			courses = append(courses, *course)
		}
	}
	return courses
}

func (u *courseRecommendationUseCaseImpl) finalizeCourse(ctx context.Context, draft model.CourseDraft, profile string) (*model.FinalCourse, error) {
	optimized, err := u.optimizer.Optimize(draft)
	if err != nil {
		return nil, err
	}

	explanation := u.explainer.Explain(ctx, optimized, profile)

	course := &model.FinalCourse{
		CourseID:      optimized.CourseID,
		Title:         explanation.Title,
		Explanation:   explanation.Text,
		Advantages:    explanation.Advantages,
		VisitingOrder: optimized.VisitingOrder,
	}

	ordered := make([]*model.PlaceRecord, 0, len(optimized.Stops))
	for _, stop := range optimized.Stops {
		place, ok := u.catalog.Lookup(stop.Category, stop.PlaceTitle)
		if !ok {
			return nil, &model.PlaceNotFoundError{Category: stop.Category, Title: stop.PlaceTitle}
		}
		switch stop.Category {
		case model.CategoryAttraction:
			course.Attraction = place
		case model.CategoryCafe:
			course.Cafe = place
		case model.CategoryRestaurant:
			course.Restaurant = place
		}
		ordered = append(ordered, place)
	}

	course.Facilities = helper.SummarizeFacilities(ordered...)
	course.Walking = u.estimateWalking(ctx, optimized, ordered, profile)
	course.RouteGeoJSON = helper.BuildRouteGeoJSON(ordered)

	log.Printf("✅ コース%d: タイトル「%s」 (%.2fkm)", course.CourseID, course.Title, optimized.TotalDistanceKm)
	return course, nil
}

// estimateWalking は徒歩ルートAPIの距離を優先し、使えなければ直線距離で見積もる
func (u *courseRecommendationUseCaseImpl) estimateWalking(ctx context.Context, optimized *model.OptimizedCourse, ordered []*model.PlaceRecord, profile string) model.WalkingEstimate {
	if u.walkingRoute != nil {
		locations := make([]model.Location, 0, len(ordered))
		for _, place := range ordered {
			locations = append(locations, place.Location)
		}
		distance, err := u.walkingRoute.GetWalkingDistanceKm(ctx, locations)
		if err == nil && distance > 0 {
			return helper.EstimateWalking(distance, profile, true)
		}
		if err != nil {
			log.Printf("⚠️ 徒歩ルート取得に失敗、直線距離を使用: %v", err)
		}
	}
	return helper.EstimateWalking(optimized.TotalDistanceKm, profile, false)
}
