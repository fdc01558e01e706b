package ports

import "brew-and-board/internal/core/domain"

type RateLimiterInterface interface {
	Check(key, profile string) domain.RateLimitDecision
	Close()
}
