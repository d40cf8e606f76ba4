package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/sony/gobreaker"

	"github.com/frostline/temp-prediction/internal/forecast"
)

// hourlySamplesPerDay is the number of sub-daily snow-depth samples the
// provider must return for every window day. Requiring the exact count
// keeps the fixed-divisor average exact even for the last day of the
// window.
const hourlySamplesPerDay = 24

// OpenMeteoProvider fetches the 14-day historical observation window
// from the Open-Meteo forecast endpoint (past days only).
type OpenMeteoProvider struct {
	name    string
	baseURL string
	httpCfg HTTPClientConfig
	circuit *gobreaker.CircuitBreaker
}

// NewOpenMeteoProvider creates the provider. baseURL overrides the
// production endpoint when non-empty (used by tests).
func NewOpenMeteoProvider(client *http.Client, baseURL string) *OpenMeteoProvider {
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "openmeteo-history",
		MaxRequests: 5,
		Interval:    1 * time.Minute,
		Timeout:     2 * time.Minute,
	})

	if baseURL == "" {
		baseURL = "https://api.open-meteo.com/v1/forecast"
	}

	return &OpenMeteoProvider{
		name:    "openmeteo",
		baseURL: baseURL,
		httpCfg: HTTPClientConfig{Client: client},
		circuit: cb,
	}
}

func (p *OpenMeteoProvider) Name() string {
	return p.name
}

// openMeteoPayload mirrors the slices-of-columns shape Open-Meteo
// returns. Pointer elements surface nulls as missing data instead of
// silent zeros.
type openMeteoPayload struct {
	Daily struct {
		Time             []string   `json:"time"`
		Temperature2mMin []*float64 `json:"temperature_2m_min"`
		Temperature2mMax []*float64 `json:"temperature_2m_max"`
		PrecipitationSum []*float64 `json:"precipitation_sum"`
		SnowfallSum      []*float64 `json:"snowfall_sum"`
	} `json:"daily"`
	Hourly struct {
		SnowDepth []*float64 `json:"snow_depth"`
	} `json:"hourly"`
}

// FetchHistory issues one request for the trailing 14-day window and
// normalizes it into a HistoricalWindow. Failures map onto the domain
// taxonomy and are never retried here.
func (p *OpenMeteoProvider) FetchHistory(ctx context.Context, coord forecast.Coordinate) (forecast.HistoricalWindow, error) {
	buildRequest := func() (*http.Request, error) {
		values := url.Values{}
		values.Set("latitude", fmt.Sprintf("%f", coord.Latitude))
		values.Set("longitude", fmt.Sprintf("%f", coord.Longitude))
		values.Set("daily", "temperature_2m_max,temperature_2m_min,precipitation_sum,snowfall_sum")
		values.Set("hourly", "snow_depth")
		values.Set("past_days", fmt.Sprintf("%d", forecast.WindowDays))
		values.Set("forecast_days", "0")
		values.Set("timezone", "auto")

		u := fmt.Sprintf("%s?%s", p.baseURL, values.Encode())
		return http.NewRequest(http.MethodGet, u, nil)
	}

	resp, err := doRequestWithBreaker(ctx, p.httpCfg, p.circuit, buildRequest)
	if err != nil {
		return nil, forecast.WrapError(forecast.KindUpstreamUnavailable,
			"weather provider request failed", err)
	}
	defer resp.Body.Close()

	var payload openMeteoPayload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, forecast.WrapError(forecast.KindMalformedUpstreamData,
			"weather provider returned an unreadable response", err)
	}

	return p.buildWindow(payload)
}

func (p *OpenMeteoProvider) buildWindow(payload openMeteoPayload) (forecast.HistoricalWindow, error) {
	daily := payload.Daily

	if len(daily.Time) < forecast.WindowDays {
		return nil, forecast.Errorf(forecast.KindInsufficientHistory,
			"weather provider returned %d of %d historical days", len(daily.Time), forecast.WindowDays)
	}
	if len(daily.Temperature2mMin) < forecast.WindowDays ||
		len(daily.Temperature2mMax) < forecast.WindowDays ||
		len(daily.PrecipitationSum) < forecast.WindowDays ||
		len(daily.SnowfallSum) < forecast.WindowDays {
		return nil, forecast.Errorf(forecast.KindMalformedUpstreamData,
			"weather provider response is missing daily fields")
	}
	if len(payload.Hourly.SnowDepth) < forecast.WindowDays*hourlySamplesPerDay {
		return nil, forecast.Errorf(forecast.KindMalformedUpstreamData,
			"weather provider returned %d snow depth samples, expected %d",
			len(payload.Hourly.SnowDepth), forecast.WindowDays*hourlySamplesPerDay)
	}

	window := make(forecast.HistoricalWindow, 0, forecast.WindowDays)
	var prevDate time.Time

	for i := 0; i < forecast.WindowDays; i++ {
		date, err := time.Parse("2006-01-02", daily.Time[i])
		if err != nil {
			return nil, forecast.WrapError(forecast.KindMalformedUpstreamData,
				"weather provider returned an unparseable date", err)
		}
		if i > 0 && !date.Equal(prevDate.AddDate(0, 0, 1)) {
			return nil, forecast.Errorf(forecast.KindMalformedUpstreamData,
				"weather provider returned non-contiguous dates around %s", daily.Time[i])
		}
		prevDate = date

		if daily.Temperature2mMin[i] == nil || daily.Temperature2mMax[i] == nil ||
			daily.PrecipitationSum[i] == nil || daily.SnowfallSum[i] == nil {
			return nil, forecast.Errorf(forecast.KindMalformedUpstreamData,
				"weather provider returned null daily values for %s", daily.Time[i])
		}

		depth, err := averageSnowDepth(payload.Hourly.SnowDepth, i)
		if err != nil {
			return nil, err
		}

		window = append(window, forecast.DailyObservation{
			Date:           date,
			MinTemperature: *daily.Temperature2mMin[i],
			MaxTemperature: *daily.Temperature2mMax[i],
			Precipitation:  *daily.PrecipitationSum[i],
			Snowfall:       *daily.SnowfallSum[i],
			AvgSnowDepth:   depth,
		})
	}

	return window, nil
}

// averageSnowDepth averages day i's hourlySamplesPerDay snow-depth
// samples. The caller guarantees the slice covers the full window, so
// the fixed divisor equals the sample count.
func averageSnowDepth(samples []*float64, day int) (float64, error) {
	start := day * hourlySamplesPerDay
	end := start + hourlySamplesPerDay

	var sum float64
	for i := start; i < end; i++ {
		if samples[i] == nil {
			return 0, forecast.Errorf(forecast.KindMalformedUpstreamData,
				"weather provider returned a null snow depth sample on day %d", day+1)
		}
		sum += *samples[i]
	}
	return sum / hourlySamplesPerDay, nil
}
