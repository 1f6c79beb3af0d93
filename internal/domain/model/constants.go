package model

// 同行者（旅行者プロフィール）の定数
const (
	ProfileWheelchairUser = "휠체어 사용자"
	ProfileInfant         = "영유아"
	ProfileElderly        = "고령자"
)

// 旅行目的タグの定数
const (
	PurposeArt        = "예술"
	PurposeTradition  = "전통"
	PurposeNature     = "자연"
	PurposeExperience = "체험"
)

// 徒歩速度 (km/h)
const (
	WalkSpeedNormal = 4.0
	WalkSpeedSlow   = 2.5
)

// ProfileDescriptionMap はプロフィールから説明文へのマッピング
var ProfileDescriptionMap = map[string]string{
	ProfileWheelchairUser: "휠체어 접근 가능한 장소",
	ProfileInfant:         "유모차 이동이 편한 장소",
	ProfileElderly:        "편안하게 이동 가능한 장소",
}

// PurposeDescriptionMap は旅行目的から説明文へのマッピング
var PurposeDescriptionMap = map[string]string{
	PurposeArt:        "미술관, 박물관, 공연장",
	PurposeTradition:  "고궁, 전통 시장, 한옥마을",
	PurposeNature:     "공원, 정원, 산책로",
	PurposeExperience: "체험관, 놀이시설, 테마파크",
}

// SeoulDistricts はソウル市25区（가나다順）
var SeoulDistricts = []string{
	"강남구", "강동구", "강북구", "강서구", "관악구",
	"광진구", "구로구", "금천구", "노원구", "도봉구",
	"동대문구", "동작구", "마포구", "서대문구", "서초구",
	"성동구", "성북구", "송파구", "양천구", "영등포구",
	"용산구", "은평구", "종로구", "중구", "중랑구",
}

// GetAllProfiles は全プロフィールの一覧を取得する
func GetAllProfiles() []string {
	return []string{ProfileWheelchairUser, ProfileInfant, ProfileElderly}
}

// GetAllPurposes は全旅行目的の一覧を取得する
func GetAllPurposes() []string {
	return []string{PurposeArt, PurposeTradition, PurposeNature, PurposeExperience}
}

// WalkSpeedForProfile はプロフィールに応じた徒歩速度を返す
// 移動に配慮が必要な同行者はゆっくり歩く前提
func WalkSpeedForProfile(profile string) float64 {
	if _, ok := ProfileDescriptionMap[profile]; ok {
		return WalkSpeedSlow
	}
	return WalkSpeedNormal
}
