package forecast

import (
	"fmt"
	"time"
)

// WindowDays is the number of historical days the pipeline consumes.
// The regression model is fitted against windows of exactly this length.
const WindowDays = 14

// Coordinate is a validated-per-request geographic point.
type Coordinate struct {
	Latitude  float64
	Longitude float64
}

// Valid reports whether the coordinate lies within the inclusive
// [-90,90] x [-180,180] bounds.
func (c Coordinate) Valid() bool {
	return c.Latitude >= -90 && c.Latitude <= 90 &&
		c.Longitude >= -180 && c.Longitude <= 180
}

// String formats the coordinate as a display fallback when no place
// name is available.
func (c Coordinate) String() string {
	return fmt.Sprintf("%.4f, %.4f", c.Latitude, c.Longitude)
}

// DailyObservation is one day of weather history for a coordinate.
// Temperatures are in Celsius, precipitation and snowfall in mm,
// snow depth in cm.
type DailyObservation struct {
	Date           time.Time
	MinTemperature float64
	MaxTemperature float64
	Precipitation  float64
	Snowfall       float64
	AvgSnowDepth   float64
}

// Month returns the observation's calendar month (1-12).
func (d DailyObservation) Month() int {
	return int(d.Date.Month())
}

// HistoricalWindow is an ordered sequence of daily observations,
// oldest first, with strictly increasing contiguous dates. A complete
// window holds exactly WindowDays entries.
type HistoricalWindow []DailyObservation

// MinTemperatures returns the per-day minimum temperatures in window order.
func (w HistoricalWindow) MinTemperatures() []float64 {
	temps := make([]float64, len(w))
	for i, d := range w {
		temps[i] = d.MinTemperature
	}
	return temps
}

// FeatureVector is the flat, fixed-order numeric encoding fed into the
// regression model. Order is part of the model contract: reordering
// silently corrupts predictions.
type FeatureVector []float64

// Location is the display location echoed back to clients.
type Location struct {
	Name      string  `json:"name"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// HistoricalEntry is one day of history as shown to clients.
type HistoricalEntry struct {
	Date        string  `json:"date"`
	Temperature float64 `json:"temperature"`
}

// Prediction is the forecast section of a response. Confidence is a
// stability heuristic bounded to [0.7, 0.95], not a calibrated
// probability.
type Prediction struct {
	Date        string  `json:"date"`
	Temperature float64 `json:"temperature"`
	Confidence  float64 `json:"confidence"`
}

// CachedForecast is the coordinate-derived portion of a prediction
// that the optional cache may reuse across nearby requests. It carries
// no request-scoped fields: the display location and target date are
// derived from each request individually.
type CachedForecast struct {
	HistoricalData []HistoricalEntry
	Temperature    float64
	Confidence     float64
}

// PredictionRequest carries the client-supplied inputs for one prediction.
type PredictionRequest struct {
	Latitude     float64
	Longitude    float64
	LocationName string
}

// PredictionResponse is the full success payload for one request.
type PredictionResponse struct {
	Success        bool              `json:"success"`
	Location       Location          `json:"location"`
	HistoricalData []HistoricalEntry `json:"historicalData"`
	Prediction     Prediction        `json:"prediction"`
}
