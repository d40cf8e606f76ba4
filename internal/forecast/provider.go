package forecast

import (
	"context"
)

// HistoryProvider abstracts the external weather archive that supplies
// the historical observation window for a coordinate.
type HistoryProvider interface {
	Name() string
	FetchHistory(ctx context.Context, coord Coordinate) (HistoricalWindow, error)
}

// Model is the opaque regression model contract. The model is fitted
// offline, loaded once at startup, and must be safe for concurrent use.
type Model interface {
	// NumFeatures is the exact vector length the model was trained on.
	NumFeatures() int
	// Predict returns the next-day minimum temperature in Celsius.
	Predict(features []float64) (float64, error)
}

// ReverseGeocoder resolves a human-readable place name for a coordinate.
// Lookups are best-effort: callers must treat any error as a soft failure.
type ReverseGeocoder interface {
	ReverseLookup(coord Coordinate) (string, error)
}

// Cache is the contract for the optional short-TTL prediction cache.
// Only the coordinate-derived pipeline output is cached; request-scoped
// fields (display name, echoed coordinates, target date) are assembled
// fresh on every request, cache hit or not.
type Cache interface {
	Get(key string) (CachedForecast, bool)
	Put(key string, cached CachedForecast)
}
