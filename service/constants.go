package service

import "time"

const (
	MaxBaseAmount = 1_000_000_000_000.0 // 1 trillion; anything above is rejected as InvalidAmount

	DefaultHistoryLimit = 20
	MaxHistoryLimit     = 100

	cacheKeyPrefix  = "tax:"
	DefaultCacheTTL = 10 * time.Minute
)
