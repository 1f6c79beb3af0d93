package service

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"strings"

	"Course-App/internal/domain/model"
	"Course-App/internal/domain/repository"
)

const rerankSnippetRunes = 100

// CandidateRanker はLLMの関連度判定で候補を並べ替える
type CandidateRanker struct {
	judge repository.TextGenerationRepository
}

// NewCandidateRanker は新しいCandidateRankerインスタンスを作成
func NewCandidateRanker(judge repository.TextGenerationRepository) *CandidateRanker {
	return &CandidateRanker{judge: judge}
}

// Rerank は候補を関連度順に並べ替え、最大 topK 件を返す
// 候補が topK 以下ならそのまま返す。判定に失敗した場合は元の順序で topK 件に切り詰める
func (r *CandidateRanker) Rerank(ctx context.Context, query string, candidates []*model.PlaceRecord, topK int) []*model.PlaceRecord {
	if len(candidates) <= topK {
		return candidates
	}

	fallback := candidates[:max(topK, 0)]

	response, err := r.judge.Generate(ctx, r.buildRerankPrompt(query, candidates, topK))
	if err != nil {
		log.Printf("⚠️ リランキングに失敗、元の順序を使用: %v", err)
		return fallback
	}

	result := parseRankedIndices(response, len(candidates), topK)
	if result.Fallback {
		log.Printf("⚠️ リランキング結果を解釈できません (%s)、元の順序を使用", result.Reason)
		return fallback
	}

	reranked := make([]*model.PlaceRecord, 0, len(result.Value))
	for _, idx := range result.Value {
		reranked = append(reranked, candidates[idx])
	}
	return reranked
}

// buildRerankPrompt はリランキング用プロンプトを構築
func (r *CandidateRanker) buildRerankPrompt(query string, candidates []*model.PlaceRecord, topK int) string {
	var docs strings.Builder
	for i, place := range candidates {
		fmt.Fprintf(&docs, "%d. %s: %s\n", i+1, place.Title, truncateRunes(place.Content, rerankSnippetRunes))
	}

	return fmt.Sprintf(`
쿼리: %s

문서 목록:
%s
관련성이 높은 순서대로 상위 %d개의 번호만 쉼표로 구분하여 출력하세요.
예: 3,1,5,2,7,4,9,6,8,10
`, query, docs.String(), topK)
}

// parseRankedIndices は "3,1,5" 形式の応答を0始まりのインデックスに変換する
// 数値でない・範囲外・重複した番号は捨てる
func parseRankedIndices(response string, n, topK int) model.ParseResult[[]int] {
	tokens := strings.FieldsFunc(response, func(r rune) bool {
		return r == ',' || r == '，' || r == ' ' || r == '\n' || r == '\t' || r == '\r'
	})

	seen := make(map[int]struct{})
	indices := make([]int, 0, topK)
	for _, token := range tokens {
		num, err := strconv.Atoi(strings.Trim(token, ".[]()"))
		if err != nil {
			continue
		}
		idx := num - 1
		if idx < 0 || idx >= n {
			continue
		}
		if _, dup := seen[idx]; dup {
			continue
		}
		seen[idx] = struct{}{}
		indices = append(indices, idx)
		if len(indices) >= topK {
			break
		}
	}

	if len(indices) == 0 {
		return model.FallbackTo[[]int](nil, "有効な番号がありません")
	}
	return model.Parsed(indices)
}

func truncateRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
