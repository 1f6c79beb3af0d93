package handler

import (
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"Course-App/internal/domain/model"
	"Course-App/internal/usecase"
)

// CourseRecommendationHandler はコース推薦APIのハンドラー
type CourseRecommendationHandler struct {
	recommendationUseCase usecase.CourseRecommendationUseCase
}

// NewCourseRecommendationHandler は新しいCourseRecommendationHandlerインスタンスを作成
func NewCourseRecommendationHandler(recommendationUseCase usecase.CourseRecommendationUseCase) *CourseRecommendationHandler {
	return &CourseRecommendationHandler{
		recommendationUseCase: recommendationUseCase,
	}
}

// RecommendCoursesResponse はコース推薦APIのレスポンス
type RecommendCoursesResponse struct {
	RequestID string              `json:"request_id"`
	Courses   []model.FinalCourse `json:"courses"`
}

// PostRecommendations はコースを推薦するエンドポイント
// POST /api/courses/recommendations
func (h *CourseRecommendationHandler) PostRecommendations(c *gin.Context) {
	requestID := uuid.NewString()
	var req model.RecommendRequest

	// リクエストボディのバインド
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":      "リクエストの形式が正しくありません",
			"details":    err.Error(),
			"request_id": requestID,
		})
		return
	}

	// バリデーション
	if err := h.validateRequest(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":      "バリデーションエラー",
			"details":    err.Error(),
			"request_id": requestID,
		})
		return
	}

	log.Printf("📨 [%s] コース推薦リクエスト受信", requestID)

	// UseCase呼び出し
	courses, err := h.recommendationUseCase.Recommend(c.Request.Context(), &req)
	if err != nil {
		log.Printf("❌ [%s] コース推薦に失敗: %v", requestID, err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":      "コース推薦の生成に失敗しました",
			"details":    err.Error(),
			"request_id": requestID,
		})
		return
	}

	if courses == nil {
		courses = []model.FinalCourse{}
	}

	// 成功レスポンス
	c.JSON(http.StatusOK, RecommendCoursesResponse{
		RequestID: requestID,
		Courses:   courses,
	})
}

// validateRequest はリクエストの詳細バリデーションを行い、値を正規化する
func (h *CourseRecommendationHandler) validateRequest(req *model.RecommendRequest) error {
	req.TravelerProfile = strings.TrimSpace(req.TravelerProfile)
	if req.TravelerProfile == "" {
		return &ValidationError{Field: "traveler_profile", Message: "旅行者プロフィールは必須です"}
	}

	if len(req.PurposeTags) == 0 {
		return &ValidationError{Field: "purpose_tags", Message: "旅行目的を1つ以上指定してください"}
	}
	for i, tag := range req.PurposeTags {
		tag = strings.TrimSpace(tag)
		if tag == "" {
			return &ValidationError{Field: "purpose_tags", Message: "空の旅行目的は指定できません"}
		}
		req.PurposeTags[i] = tag
	}

	// 空の地域指定は指定なしとして扱う
	if req.Region != nil {
		region := strings.TrimSpace(*req.Region)
		if region == "" {
			req.Region = nil
		} else {
			req.Region = &region
		}
	}

	return nil
}

// ValidationError はバリデーションエラーを表す
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

// PurposeOption は旅行目的の選択肢
type PurposeOption struct {
	Tag         string `json:"tag"`
	Description string `json:"description"`
}

// ProfileOption は旅行者プロフィールの選択肢
type ProfileOption struct {
	Profile     string `json:"profile"`
	Description string `json:"description"`
}

// GetOptions は入力画面の選択肢を返すエンドポイント
// GET /api/courses/options
func (h *CourseRecommendationHandler) GetOptions(c *gin.Context) {
	profiles := make([]ProfileOption, 0, len(model.GetAllProfiles()))
	for _, p := range model.GetAllProfiles() {
		profiles = append(profiles, ProfileOption{Profile: p, Description: model.ProfileDescriptionMap[p]})
	}

	purposes := make([]PurposeOption, 0, len(model.GetAllPurposes()))
	for _, p := range model.GetAllPurposes() {
		purposes = append(purposes, PurposeOption{Tag: p, Description: model.PurposeDescriptionMap[p]})
	}

	c.JSON(http.StatusOK, gin.H{
		"traveler_profiles": profiles,
		"purpose_tags":      purposes,
		"regions":           model.SeoulDistricts,
	})
}

// Health はヘルスチェックエンドポイント
// GET /api/health
func (h *CourseRecommendationHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
