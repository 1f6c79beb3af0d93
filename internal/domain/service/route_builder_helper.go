package service

// GeneratePermutations は3つのスポットの全順列を生成する
func GeneratePermutations[T any](stops []T) [][]T {
	if len(stops) != 3 {
		return nil
	}

	// 3! = 6通りの順列を明示的に生成
	return [][]T{
		{stops[0], stops[1], stops[2]}, // ABC
		{stops[0], stops[2], stops[1]}, // ACB
		{stops[1], stops[0], stops[2]}, // BAC
		{stops[1], stops[2], stops[0]}, // BCA
		{stops[2], stops[0], stops[1]}, // CAB
		{stops[2], stops[1], stops[0]}, // CBA
	}
}
