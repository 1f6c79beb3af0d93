package service

import "Course-App/internal/domain/model"

type placeKey struct {
	category model.Category
	title    string
}

// placeAllocation は1回の推薦バッチ内で使用済みスポットを管理する
type placeAllocation struct {
	used map[placeKey]struct{}
}

func newPlaceAllocation() *placeAllocation {
	return &placeAllocation{used: make(map[placeKey]struct{})}
}

// Reserve は未使用なら確保して true を返す
func (a *placeAllocation) Reserve(category model.Category, title string) bool {
	key := placeKey{category: category, title: title}
	if _, ok := a.used[key]; ok {
		return false
	}
	a.used[key] = struct{}{}
	return true
}

// Release は確保を取り消す
func (a *placeAllocation) Release(category model.Category, title string) {
	delete(a.used, placeKey{category: category, title: title})
}

// ReserveReplacement は候補プールの先頭から未使用のスポットを探して確保する
func (a *placeAllocation) ReserveReplacement(category model.Category, pool []string) (string, bool) {
	for _, title := range pool {
		if a.Reserve(category, title) {
			return title, true
		}
	}
	return "", false
}
