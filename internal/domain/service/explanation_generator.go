package service

import (
	"context"
	"fmt"
	"log"
	"regexp"
	"strings"

	"Course-App/internal/domain/model"
	"Course-App/internal/domain/repository"
)

// AdvantagesMarker は説明文の長所リストの見出し
const AdvantagesMarker = "**advantages**"

// FallbackAdvantages は長所を解釈できない場合の固定文言
var FallbackAdvantages = []string{
	"접근성이 우수한 편리한 위치",
	"다양한 볼거리와 즐길거리",
	"쾌적하고 안전한 환경",
}

var (
	titleHeadingPattern  = regexp.MustCompile(`(?m)^[^\S\n]*#{3,}[^\S\n]*(?:[Cc]ourse [Tt]itle|코스\s*제목)[^\n]*\n[^\S\n]*(.+?)[^\S\n]*$`)
	titleBracketPattern  = regexp.MustCompile(`^\[(.+?)\]$`)
	titleMetaPattern     = regexp.MustCompile(`^(?:[Cc]ourse [Tt]itle|코스\s*제목|추천\s*이유)\s*[:\-]?\s*`)
	advantagesPattern    = regexp.MustCompile(`(?s)\*\*(?:[Aa]dvantages|이\s*코스의\s*장점)\*\*[^\n]*\n(.*)`)
	advantageLinePattern = regexp.MustCompile(`^\d+\.\s*(.+)$`)
)

var placeholderTitles = map[string]struct{}{
	"Course Title": {}, "course title": {}, "코스 제목": {}, "추천 이유": {},
}

// ExplanationGenerator はコースのタイトルと3つの長所を生成する
type ExplanationGenerator struct {
	generator repository.TextGenerationRepository
	catalog   *Catalog
}

// NewExplanationGenerator は新しいExplanationGeneratorインスタンスを作成
func NewExplanationGenerator(generator repository.TextGenerationRepository, catalog *Catalog) *ExplanationGenerator {
	return &ExplanationGenerator{generator: generator, catalog: catalog}
}

// Explain はコースの説明を生成する。失敗してもフォールバック文言で必ず結果を返す
func (g *ExplanationGenerator) Explain(ctx context.Context, course *model.OptimizedCourse, profile string) model.Explanation {
	fallbackTitle := course.Title
	if strings.TrimSpace(fallbackTitle) == "" {
		fallbackTitle = fmt.Sprintf("Course %d", course.CourseID)
	}

	content, err := g.generator.Generate(ctx, g.buildExplanationPrompt(course, profile))
	if err != nil {
		log.Printf("❌ コース%d の説明生成に失敗、フォールバック使用: %v", course.CourseID, err)
		return newExplanation(fallbackTitle, FallbackAdvantages, true)
	}

	title := ParseExplanationTitle(content, fallbackTitle)
	advantages := ParseAdvantages(content)
	if advantages.Fallback {
		log.Printf("⚠️ コース%d: 長所の抽出に失敗 (%s)、フォールバック使用", course.CourseID, advantages.Reason)
	}

	explanation := newExplanation(title.Value, advantages.Value, title.Fallback || advantages.Fallback)
	log.Printf("📌 コース%d: タイトル「%s」", course.CourseID, explanation.Title)
	return explanation
}

// buildExplanationPrompt は各スポットの説明文を埋め込んだプロンプトを構築
func (g *ExplanationGenerator) buildExplanationPrompt(course *model.OptimizedCourse, profile string) string {
	var places strings.Builder
	for _, stop := range course.Stops {
		place, ok := g.catalog.Lookup(stop.Category, stop.PlaceTitle)
		if !ok {
			continue
		}
		fmt.Fprintf(&places, "[%s]\n%s\n\n", place.Title, place.Content)
	}

	return fmt.Sprintf(`
당신은 서울 여행 전문가입니다. %s를 위한 하루 코스를 소개해주세요.

방문 장소:
%s
아래 형식으로 출력하세요:

### Course Title
경복궁에서 즐기는 예술과 맛의 여행

%s
1. 문화유산 감상 후 여유로운 휴식
2. 도보 이동 가능한 최적의 동선
3. 전통과 현대의 조화로운 경험

규칙:
- 장점은 반드시 3개
- 각 장점은 10-18자의 짧은 명사형 문구
- "1. ", "2. ", "3. " 형식 사용
- 장소명을 직접 쓰지 말 것
- ~합니다, ~있습니다 같은 문장형 금지
- 구체적인 편의시설(휠체어, 화장실 등) 언급 금지
`, profile, places.String(), AdvantagesMarker)
}

// ParseExplanationTitle は見出しの次の行をタイトルとして取り出す
// 見つからない・空・プレースホルダーの場合はフォールバック
func ParseExplanationTitle(content, fallback string) model.ParseResult[string] {
	m := titleHeadingPattern.FindStringSubmatch(content)
	if m == nil {
		return model.FallbackTo(fallback, "タイトル見出しがありません")
	}

	title := strings.TrimSpace(m[1])
	title = titleBracketPattern.ReplaceAllString(title, "$1")
	title = strings.TrimSpace(titleMetaPattern.ReplaceAllString(title, ""))

	if title == "" {
		return model.FallbackTo(fallback, "タイトルが空です")
	}
	if strings.HasPrefix(title, "**") || strings.HasPrefix(title, "#") {
		return model.FallbackTo(fallback, "タイトルの代わりに見出しがあります")
	}
	if _, ok := placeholderTitles[title]; ok {
		return model.FallbackTo(fallback, "タイトルがプレースホルダーです")
	}
	return model.Parsed(title)
}

// ParseAdvantages は見出しに続く "N. テキスト" 形式の行を3つ取り出す
// 見出しがない、または3行揃わない場合は固定文言
func ParseAdvantages(content string) model.ParseResult[[]string] {
	m := advantagesPattern.FindStringSubmatch(content)
	if m == nil {
		return model.FallbackTo(fallbackAdvantages(), "長所の見出しがありません")
	}

	advantages := make([]string, 0, 3)
	for _, line := range strings.Split(m[1], "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			if len(advantages) > 0 {
				break
			}
			continue
		}
		lm := advantageLinePattern.FindStringSubmatch(line)
		if lm == nil {
			break
		}
		advantages = append(advantages, strings.TrimSpace(lm[1]))
		if len(advantages) == 3 {
			break
		}
	}

	if len(advantages) < 3 {
		return model.FallbackTo(fallbackAdvantages(), fmt.Sprintf("長所が%d件しかありません", len(advantages)))
	}
	return model.Parsed(advantages)
}

func fallbackAdvantages() []string {
	advantages := make([]string, len(FallbackAdvantages))
	copy(advantages, FallbackAdvantages)
	return advantages
}

// FormatExplanation は長所リストを "**advantages**\n1. ...\n2. ...\n3. ..." 形式に整形する
func FormatExplanation(advantages []string) string {
	var b strings.Builder
	b.WriteString(AdvantagesMarker)
	for i, advantage := range advantages {
		fmt.Fprintf(&b, "\n%d. %s", i+1, advantage)
	}
	return b.String()
}

func newExplanation(title string, advantages []string, usedFallback bool) model.Explanation {
	return model.Explanation{
		Title:        title,
		Advantages:   advantages,
		Text:         FormatExplanation(advantages),
		UsedFallback: usedFallback,
	}
}
