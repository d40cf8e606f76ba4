package forecast

import (
	"context"
	"fmt"
	"log"
	"math"
	"time"
)

// Config carries the orchestration knobs and optional collaborators.
type Config struct {
	// FeatureSet must match the loaded model's training layout.
	FeatureSet FeatureSet
	// ConfidenceDivisor scales recent variability; 0 means default.
	ConfidenceDivisor float64
	// Geocoder, when set, resolves display names for unnamed requests.
	Geocoder ReverseGeocoder
	// Cache, when set, short-circuits repeat requests for nearby points.
	Cache Cache
	// Now overrides the clock, for tests. Defaults to time.Now.
	Now func() time.Time
}

// Service orchestrates one prediction request: validate, fetch history,
// build features, predict, estimate confidence, resolve the display
// name, and assemble the response.
type Service struct {
	provider  HistoryProvider
	model     Model
	estimator ConfidenceEstimator
	set       FeatureSet
	geocoder  ReverseGeocoder
	cache     Cache
	now       func() time.Time
}

// NewService creates a Service around a history provider and a loaded model.
func NewService(provider HistoryProvider, model Model, cfg Config) *Service {
	set := cfg.FeatureSet
	if set == "" {
		set = FeatureSetFull
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	return &Service{
		provider:  provider,
		model:     model,
		estimator: NewConfidenceEstimator(cfg.ConfidenceDivisor),
		set:       set,
		geocoder:  cfg.Geocoder,
		cache:     cfg.Cache,
		now:       now,
	}
}

// Predict runs the full pipeline for one request. All failures except
// reverse geocoding abort the request with a domain error; geocoding
// failures fall back to a formatted coordinate and are only logged.
func (s *Service) Predict(ctx context.Context, req PredictionRequest) (PredictionResponse, error) {
	coord := Coordinate{Latitude: req.Latitude, Longitude: req.Longitude}
	if !coord.Valid() {
		return PredictionResponse{}, Errorf(KindInvalidCoordinates,
			"coordinates out of range: %s", coord)
	}

	key := cacheKey(coord)
	if s.cache != nil {
		if cached, ok := s.cache.Get(key); ok {
			return s.assemble(req, coord, cached), nil
		}
	}

	window, err := s.provider.FetchHistory(ctx, coord)
	if err != nil {
		return PredictionResponse{}, err
	}

	// The fetcher already enforces this, but the model call is the one
	// place a short window silently corrupts output, so re-check here.
	if len(window) < WindowDays {
		return PredictionResponse{}, Errorf(KindInsufficientHistory,
			"only %d of %d historical days available", len(window), WindowDays)
	}

	vec, err := BuildFeatures(window, s.set)
	if err != nil {
		return PredictionResponse{}, err
	}
	if want := s.model.NumFeatures(); len(vec) != want {
		return PredictionResponse{}, Errorf(KindShapeMismatch,
			"feature vector has %d values, model expects %d", len(vec), want)
	}

	predicted, err := s.model.Predict(vec)
	if err != nil {
		return PredictionResponse{}, WrapError(KindShapeMismatch, "model prediction failed", err)
	}

	minima := window.MinTemperatures()
	confidence := s.estimator.Estimate(minima)

	cached := CachedForecast{
		HistoricalData: displayHistory(window),
		Temperature:    round(predicted, 1),
		Confidence:     round(confidence, 2),
	}

	if s.cache != nil {
		s.cache.Put(key, cached)
	}
	return s.assemble(req, coord, cached), nil
}

// assemble builds the response from the coordinate-derived forecast and
// the current request: the supplied name, the request's own coordinates,
// and a target date relative to now, so cache hits never echo another
// request's fields.
func (s *Service) assemble(req PredictionRequest, coord Coordinate, cached CachedForecast) PredictionResponse {
	return PredictionResponse{
		Success: true,
		Location: Location{
			Name:      s.resolveName(req.LocationName, coord),
			Latitude:  coord.Latitude,
			Longitude: coord.Longitude,
		},
		HistoricalData: cached.HistoricalData,
		Prediction: Prediction{
			Date:        s.now().AddDate(0, 0, 1).Format("2006-01-02"),
			Temperature: cached.Temperature,
			Confidence:  cached.Confidence,
		},
	}
}

// resolveName picks the display name: the supplied one, else a
// best-effort reverse geocode, else the formatted coordinate.
func (s *Service) resolveName(supplied string, coord Coordinate) string {
	if supplied != "" {
		return supplied
	}
	if s.geocoder != nil {
		name, err := s.geocoder.ReverseLookup(coord)
		if err == nil && name != "" {
			return name
		}
		if err != nil {
			log.Printf("reverse geocoding failed for %s: %v", coord, err)
		}
	}
	return coord.String()
}

func displayHistory(window HistoricalWindow) []HistoricalEntry {
	entries := make([]HistoricalEntry, 0, len(window))
	for _, day := range window {
		entries = append(entries, HistoricalEntry{
			Date:        day.Date.Format("2006-01-02"),
			Temperature: round(day.MinTemperature, 1),
		})
	}
	return entries
}

// cacheKey rounds the coordinate to two decimals (roughly 1 km) so
// adjacent lookups share an entry.
func cacheKey(coord Coordinate) string {
	return fmt.Sprintf("%.2f:%.2f", coord.Latitude, coord.Longitude)
}

func round(v float64, decimals int) float64 {
	scale := math.Pow(10, float64(decimals))
	return math.Round(v*scale) / scale
}
