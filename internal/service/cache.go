package service

import (
	"context"
	"strconv"

	"github.com/stain603/industrial-inventory-manager/internal/infra"

	"github.com/rs/zerolog/log"
)

// Suggestions are cached under a generation number. Writers bump the
// generation after committing, so a list computed from older data can only
// land under a generation nobody reads any more.
const (
	suggestionsCacheKey = "production:suggestions"
	suggestionsGenKey   = suggestionsCacheKey + ":gen"
)

func suggestionsKey(gen int64) string {
	return suggestionsCacheKey + ":" + strconv.FormatInt(gen, 10)
}

// suggestionsGeneration reads the current generation; a missing or broken
// counter reads as 0.
func suggestionsGeneration(ctx context.Context, cache infra.Cache) int64 {
	b, err := cache.Get(ctx, suggestionsGenKey)
	if err != nil {
		return 0
	}
	gen, err := strconv.ParseInt(string(b), 10, 64)
	if err != nil {
		return 0
	}
	return gen
}

// invalidateSuggestions starts a new generation after a write and drops the
// previous entry. Failures are logged; the stale entry still expires with its TTL.
func invalidateSuggestions(ctx context.Context, cache infra.Cache) {
	gen, err := cache.Incr(ctx, suggestionsGenKey)
	if err != nil {
		log.Warn().Err(err).Str("key", suggestionsGenKey).Msg("cache: invalidation failed")
		return
	}
	if err := cache.Del(ctx, suggestionsKey(gen-1)); err != nil {
		log.Warn().Err(err).Str("key", suggestionsKey(gen-1)).Msg("cache: dropping previous suggestions failed")
	}
}
