package constants

import "time"

const (
	UserCachePrefix       = "user" // by user id, CacheBuilder adds the colon
	UserCacheExpiry       = 7 * 24 * time.Hour
	ThemeStatsCachePrefix = "theme_stats"
	ThemeStatsCacheExpiry = 25 * time.Hour
)
