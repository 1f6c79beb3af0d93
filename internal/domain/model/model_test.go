package model

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseCategoryTag(t *testing.T) {
	tests := map[string]Category{
		"attraction": CategoryAttraction,
		" Tour ":     CategoryAttraction,
		"관광지":        CategoryAttraction,
		"CAFE":       CategoryCafe,
		"카페":         CategoryCafe,
		"restaurant": CategoryRestaurant,
		"식당":         CategoryRestaurant,
	}
	for tag, want := range tests {
		got, ok := ParseCategoryTag(tag)
		assert.True(t, ok, tag)
		assert.Equal(t, want, got, tag)
	}

	_, ok := ParseCategoryTag("hotel")
	assert.False(t, ok)
}

func TestWalkSpeedForProfile(t *testing.T) {
	assert.Equal(t, WalkSpeedSlow, WalkSpeedForProfile(ProfileWheelchairUser))
	assert.Equal(t, WalkSpeedSlow, WalkSpeedForProfile(ProfileElderly))
	assert.Equal(t, WalkSpeedNormal, WalkSpeedForProfile("대학생"))
}

func TestCatalogLoadError(t *testing.T) {
	cause := errors.New("unexpected EOF")
	err := &CatalogLoadError{Category: CategoryCafe, Index: 2, Reason: "壊れたレコード", Err: cause}

	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "index=2")

	whole := &CatalogLoadError{Category: CategoryCafe, Index: -1, Reason: "コレクションが存在しません"}
	assert.NotContains(t, whole.Error(), "index=")
}

func TestRecommendRequest_RegionFilter(t *testing.T) {
	region := "종로구"
	assert.Equal(t, "종로구", (&RecommendRequest{Region: &region}).RegionFilter())
	assert.Equal(t, "", (&RecommendRequest{}).RegionFilter())
}
