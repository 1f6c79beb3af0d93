package service

import (
	"context"
	"fmt"
	"log"
	"regexp"
	"strconv"
	"strings"

	"Course-App/internal/domain/model"
	"Course-App/internal/domain/repository"
)

const coursesPerBatch = 3

var (
	courseHeadingPattern = regexp.MustCompile(`(?m)^\s*#{2,}\s*(?:[Cc]ourse|코스)\s*(\d+)\s*[:：]`)
	courseTitlePattern   = regexp.MustCompile(`\[(.+?)\]`)
	coursePlacePattern   = regexp.MustCompile(`(?m)^\s*[-*]?\s*\[((?i:attraction|cafe|restaurant)|관광지|카페|음식점|식당)\]\s*(.+?)\s*$`)
)

// CourseSynthesizer は候補スポットからLLMでコース案を作り、重複を修復する
type CourseSynthesizer struct {
	generator repository.TextGenerationRepository
}

// NewCourseSynthesizer は新しいCourseSynthesizerインスタンスを作成
func NewCourseSynthesizer(generator repository.TextGenerationRepository) *CourseSynthesizer {
	return &CourseSynthesizer{generator: generator}
}

// Synthesize は最大3件のコース案を返す（0件も正常な結果）
// 各コースはカテゴリごとに1スポット、バッチ内でスポットの再利用はしない
func (s *CourseSynthesizer) Synthesize(ctx context.Context, profile string, purposes []string, pools model.CandidatePools) []model.CourseDraft {
	log.Printf("🤖 LLMでコース生成中...")

	response, err := s.generator.Generate(ctx, s.buildCoursePrompt(profile, purposes, pools))
	if err != nil {
		log.Printf("❌ コース生成に失敗: %v", err)
		return []model.CourseDraft{}
	}

	drafts := ParseCourseDrafts(response, pools)
	if len(drafts) == 0 {
		log.Printf("⚠️ コース案を解釈できませんでした")
	}
	return drafts
}

// buildCoursePrompt はコース生成用プロンプトを構築
func (s *CourseSynthesizer) buildCoursePrompt(profile string, purposes []string, pools model.CandidatePools) string {
	formatPlaces := func(category model.Category) string {
		var b strings.Builder
		for _, title := range pools.Titles(category) {
			fmt.Fprintf(&b, "- %s\n", title)
		}
		return b.String()
	}

	return fmt.Sprintf(`
당신은 서울 여행 전문가예요. %[1]s를 위한 %[2]d개 코스를 추천해주세요.

사용자: %[1]s
테마: %[3]s

[관광지 후보]
%[4]s
[카페 후보]
%[5]s
[음식점 후보]
%[6]s
필수 규칙:
1. 각 코스는 관광지 1개 + 카페 1개 + 음식점 1개 (총 3개 장소)
2. 모든 코스에 걸쳐 같은 장소를 두 번 사용하지 말 것
3. 가까운 장소끼리 묶기
4. 장소 이름은 후보 목록에서 정확히 복사

출력 형식 (이 형식만 출력):

## Course 1: [구체적이고 매력적인 제목]
[attraction] 관광지 이름
[cafe] 카페 이름
[restaurant] 음식점 이름

## Course 2: [구체적이고 매력적인 제목]
[attraction] 관광지 이름
[cafe] 카페 이름
[restaurant] 음식점 이름

## Course 3: [구체적이고 매력적인 제목]
[attraction] 관광지 이름
[cafe] 카페 이름
[restaurant] 음식점 이름
`,
		profile,
		coursesPerBatch,
		strings.Join(purposes, " "),
		formatPlaces(model.CategoryAttraction),
		formatPlaces(model.CategoryCafe),
		formatPlaces(model.CategoryRestaurant))
}

// ParseCourseDrafts はLLM出力からコース案を取り出し、重複スポットを未使用の候補で置き換える
// 3カテゴリが揃わないコースは捨てる
func ParseCourseDrafts(response string, pools model.CandidatePools) []model.CourseDraft {
	allocation := newPlaceAllocation()
	drafts := make([]model.CourseDraft, 0, coursesPerBatch)

	headings := courseHeadingPattern.FindAllStringSubmatchIndex(response, -1)
	for i, loc := range headings {
		courseID, err := strconv.Atoi(response[loc[2]:loc[3]])
		if err != nil {
			continue
		}

		blockEnd := len(response)
		if i+1 < len(headings) {
			blockEnd = headings[i+1][0]
		}
		block := response[loc[1]:blockEnd]

		draft, ok := allocateDraft(courseID, block, pools, allocation)
		if !ok {
			log.Printf("⚠️ コース%d: 3カテゴリが揃わないため除外", courseID)
			continue
		}
		drafts = append(drafts, draft)
		log.Printf("✅ コース%d: %s", draft.CourseID, draft.Title)
	}
	return drafts
}

// allocateDraft は1ブロック分のスポットを確保する。不成立なら確保を取り消す
func allocateDraft(courseID int, block string, pools model.CandidatePools, allocation *placeAllocation) (model.CourseDraft, bool) {
	draft := model.CourseDraft{
		CourseID: courseID,
		Title:    parseDraftTitle(block, courseID),
		Stops:    make([]model.CourseStop, 0, len(model.AllCategories())),
	}
	filled := make(map[model.Category]bool)

	for _, match := range coursePlacePattern.FindAllStringSubmatch(block, -1) {
		category, ok := model.ParseCategoryTag(match[1])
		if !ok || filled[category] {
			continue
		}
		name := strings.TrimSpace(match[2])
		if name == "" {
			continue
		}

		if !allocation.Reserve(category, name) {
			replacement, found := allocation.ReserveReplacement(category, pools.Titles(category))
			if !found {
				log.Printf("⚠️ 重複「%s」の代替候補がありません", name)
				continue
			}
			log.Printf("🔁 重複「%s」→「%s」に置換", name, replacement)
			name = replacement
		}

		filled[category] = true
		draft.Stops = append(draft.Stops, model.CourseStop{Category: category, PlaceTitle: name})
	}

	if len(draft.Stops) < len(model.AllCategories()) {
		for _, stop := range draft.Stops {
			allocation.Release(stop.Category, stop.PlaceTitle)
		}
		return model.CourseDraft{}, false
	}
	return draft, true
}

// parseDraftTitle は見出し行の [ ] 内をタイトルとして取り出す
func parseDraftTitle(block string, courseID int) string {
	headingLine, _, _ := strings.Cut(block, "\n")
	if m := courseTitlePattern.FindStringSubmatch(headingLine); m != nil && strings.TrimSpace(m[1]) != "" {
		return strings.TrimSpace(m[1])
	}
	if title := strings.TrimSpace(headingLine); title != "" {
		return title
	}
	return fmt.Sprintf("Course %d", courseID)
}
