package config

import "time"

// DefaultAdapters returns the built-in configuration for the seven source
// variants of §4.2. Operators override individual fields via env vars in
// a future iteration; for now this table is the single source of truth a
// deployment starts from.
func DefaultAdapters() map[string]AdapterConfig {
	return map[string]AdapterConfig{
		"skyscan-meta": {
			ID:           "skyscan-meta",
			Enabled:      true,
			RateLimit:    RateLimitConfig{Capacity: 20, RefillPerSec: 5, BucketWait: time.Second},
			Timeout:      3 * time.Second,
			TierOverride: TierOverrideAuto,
			Credential:   CredentialNone,
			TrustScore:   40,
		},
		"fareport-agg": {
			ID:           "fareport-agg",
			Enabled:      true,
			RateLimit:    RateLimitConfig{Capacity: 50, RefillPerSec: 5, BucketWait: time.Second},
			Timeout:      2500 * time.Millisecond,
			TierOverride: TierOverrideAuto,
			Credential:   CredentialAPIKey,
			TrustScore:   70,
		},
		"wholesaler-x": {
			ID:           "wholesaler-x",
			Enabled:      true,
			RateLimit:    RateLimitConfig{Capacity: 10, RefillPerSec: 2, BucketWait: 2 * time.Second},
			Timeout:      4 * time.Second,
			TierOverride: TierOverrideComplementary,
			Credential:   CredentialAPIKey,
			TrustScore:   60,
		},
		"nusantara-air-direct": {
			ID:           "nusantara-air-direct",
			Enabled:      true,
			RateLimit:    RateLimitConfig{Capacity: 8, RefillPerSec: 1.5, BucketWait: 2 * time.Second},
			Timeout:      5 * time.Second,
			TierOverride: TierOverrideAuto,
			Credential:   CredentialNone,
			TrustScore:   85,
		},
		"globalink-gds": {
			ID:           "globalink-gds",
			Enabled:      true,
			RateLimit:    RateLimitConfig{Capacity: 100, RefillPerSec: 30, BucketWait: 500 * time.Millisecond},
			Timeout:      2 * time.Second,
			TierOverride: TierOverridePrimary,
			Credential:   CredentialOAuth,
			TrustScore:   80,
		},
		"legacy-air-browser": {
			ID:           "legacy-air-browser",
			Enabled:      true,
			RateLimit:    RateLimitConfig{Capacity: 2, RefillPerSec: 0.2, BucketWait: 5 * time.Second},
			Timeout:      20 * time.Second,
			TierOverride: TierOverrideFallback,
			Credential:   CredentialNone,
			TrustScore:   30,
		},
		"carrierhub-official": {
			ID:           "carrierhub-official",
			Enabled:      true,
			RateLimit:    RateLimitConfig{Capacity: 30, RefillPerSec: 10, BucketWait: time.Second},
			Timeout:      3 * time.Second,
			TierOverride: TierOverridePrimary,
			Credential:   CredentialOAuth,
			TrustScore:   100,
		},
	}
}
