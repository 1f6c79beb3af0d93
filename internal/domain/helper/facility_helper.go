package helper

import (
	"strings"

	"Course-App/internal/domain/model"
)

var (
	elevatorPhrases   = []string{"장애인 엘리베이터 이용이 용이함", "장애인 엘리베이터가 있으나 일부 이용이 불편함"}
	wheelchairPhrases = []string{"진입로 접근성이 좋음", "휠체어 전용 매표소 있음", "휠체어 사용자 테이블 접근이 용이함"}
	parkingPhrases    = []string{"장애인 주차장 이용이 용이함", "장애인 주차장 이용이 조금 불편함"}
	toiletPhrases     = []string{"장애인 화장실 접근성이 좋음", "장애인 화장실이 있으나 일부 이용이 불편함"}
)

// SummarizeFacilities はコースの各スポットの設備タグを統合する
func SummarizeFacilities(places ...*model.PlaceRecord) model.FacilitySummary {
	var summary model.FacilitySummary
	for _, place := range places {
		if place == nil {
			continue
		}
		for _, facility := range place.Facilities {
			if containsAny(facility, elevatorPhrases) {
				summary.Elevator = true
			}
			if containsAny(facility, wheelchairPhrases) {
				summary.Wheelchair = true
			}
			if containsAny(facility, parkingPhrases) {
				summary.Parking = true
			}
			if containsAny(facility, toiletPhrases) {
				summary.Toilet = true
			}
		}
	}
	return summary
}

func containsAny(s string, phrases []string) bool {
	for _, phrase := range phrases {
		if strings.Contains(s, phrase) {
			return true
		}
	}
	return false
}
