package model

// ParseResult はLLM出力のパース結果
// 成功した値か、決められたフォールバック値のどちらかを保持する
type ParseResult[T any] struct {
	Value    T
	Fallback bool
	Reason   string
}

// Parsed はパース成功の結果を作る
func Parsed[T any](value T) ParseResult[T] {
	return ParseResult[T]{Value: value}
}

// FallbackTo はフォールバック値の結果を作る
func FallbackTo[T any](value T, reason string) ParseResult[T] {
	return ParseResult[T]{Value: value, Fallback: true, Reason: reason}
}
