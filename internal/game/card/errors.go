package card

import "errors"

var (
	// ErrSecureRandom 安全随机源不可用
	ErrSecureRandom = errors.New("card: secure random source unavailable")
	// ErrInsufficientCards 牌堆剩余不足
	ErrInsufficientCards = errors.New("card: insufficient cards in deck")
	// ErrInvalidHandSize 手牌必须恰好 3 张
	ErrInvalidHandSize = errors.New("card: hand must have exactly 3 cards")
)
