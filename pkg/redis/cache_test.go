package redis

import (
	"testing"
	"time"
)

func TestCacheTTLResolution(t *testing.T) {
	tests := []struct {
		name   string
		config *Config
		opts   *CacheOptions
		want   time.Duration
	}{
		{
			name:   "named cache uses configured TTL over default",
			config: NewRedisConfig().WithCacheTTL("todos", 300*time.Second),
			opts:   NewCacheOptions().WithCacheName("todos"),
			want:   300 * time.Second,
		},
		{
			name:   "named cache without entry falls back to default cache TTL",
			config: NewRedisConfig().WithDefaultCacheTTL(10 * time.Minute),
			opts:   NewCacheOptions().WithCacheName("todos"),
			want:   10 * time.Minute,
		},
		{
			name:   "unnamed cache uses option TTL",
			config: NewRedisConfig(),
			opts:   NewCacheOptions().WithTTL(45 * time.Second),
			want:   45 * time.Second,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cache := NewCache(NewClient(tt.config), tt.opts)
			if got := cache.getTTL(); got != tt.want {
				t.Errorf("getTTL() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCacheBuildCacheKey(t *testing.T) {
	named := NewCache(NewClient(nil), NewCacheOptions().WithCacheName("todos"))
	if got := named.buildCacheKey("42"); got != "todos::42" {
		t.Errorf("buildCacheKey(42) = %q, want %q", got, "todos::42")
	}

	unnamed := NewCache(NewClient(nil), NewCacheOptions())
	if got := unnamed.buildCacheKey("42"); got != "42" {
		t.Errorf("buildCacheKey(42) = %q, want %q", got, "42")
	}
}
