package providers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/frostline/temp-prediction/internal/forecast"
)

// meteoPayload builds a well-formed Open-Meteo style response with the
// given number of daily entries and hourly snow-depth samples.
func meteoPayload(days, hourlySamples int) map[string]any {
	base := time.Date(2026, 8, 18, 0, 0, 0, 0, time.UTC)

	times := make([]string, days)
	mins := make([]float64, days)
	maxs := make([]float64, days)
	precip := make([]float64, days)
	snow := make([]float64, days)
	for i := 0; i < days; i++ {
		times[i] = base.AddDate(0, 0, i).Format("2006-01-02")
		mins[i] = float64(i)
		maxs[i] = float64(i) + 8
		precip[i] = 0.5
		snow[i] = 0
	}

	depth := make([]float64, hourlySamples)
	for i := range depth {
		// All of a day's samples share one value, so the daily average
		// equals that value.
		depth[i] = float64(i / hourlySamplesPerDay)
	}

	return map[string]any{
		"daily": map[string]any{
			"time":               times,
			"temperature_2m_min": mins,
			"temperature_2m_max": maxs,
			"precipitation_sum":  precip,
			"snowfall_sum":       snow,
		},
		"hourly": map[string]any{
			"snow_depth": depth,
		},
	}
}

func servePayload(t *testing.T, payload any) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewEncoder(w).Encode(payload); err != nil {
			t.Errorf("failed to encode payload: %v", err)
		}
	}))
}

func TestFetchHistoryParsesWindow(t *testing.T) {
	srv := servePayload(t, meteoPayload(forecast.WindowDays, forecast.WindowDays*hourlySamplesPerDay))
	defer srv.Close()

	p := NewOpenMeteoProvider(srv.Client(), srv.URL)

	window, err := p.FetchHistory(context.Background(), forecast.Coordinate{Latitude: 40, Longitude: -74})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(window) != forecast.WindowDays {
		t.Fatalf("expected %d days, got %d", forecast.WindowDays, len(window))
	}
	first := window[0]
	if got := first.Date.Format("2006-01-02"); got != "2026-08-18" {
		t.Fatalf("expected first date 2026-08-18, got %s", got)
	}
	if first.MinTemperature != 0 || first.MaxTemperature != 8 {
		t.Fatalf("unexpected first day temperatures: %+v", first)
	}
	last := window[forecast.WindowDays-1]
	if last.MinTemperature != 13 {
		t.Fatalf("expected last day min 13, got %v", last.MinTemperature)
	}
	if last.AvgSnowDepth != float64(forecast.WindowDays-1) {
		t.Fatalf("expected last day avg snow depth %d, got %v", forecast.WindowDays-1, last.AvgSnowDepth)
	}
}

func TestFetchHistoryServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	p := NewOpenMeteoProvider(srv.Client(), srv.URL)

	_, err := p.FetchHistory(context.Background(), forecast.Coordinate{Latitude: 40, Longitude: -74})
	if !forecast.IsKind(err, forecast.KindUpstreamUnavailable) {
		t.Fatalf("expected upstream unavailable, got %v", err)
	}
}

func TestFetchHistoryShortDailyWindow(t *testing.T) {
	srv := servePayload(t, meteoPayload(10, 10*hourlySamplesPerDay))
	defer srv.Close()

	p := NewOpenMeteoProvider(srv.Client(), srv.URL)

	_, err := p.FetchHistory(context.Background(), forecast.Coordinate{Latitude: 40, Longitude: -74})
	if !forecast.IsKind(err, forecast.KindInsufficientHistory) {
		t.Fatalf("expected insufficient history, got %v", err)
	}
}

func TestFetchHistoryPartialHourlyDay(t *testing.T) {
	// One missing sample on the last day must not silently bias the
	// snow-depth average.
	srv := servePayload(t, meteoPayload(forecast.WindowDays, forecast.WindowDays*hourlySamplesPerDay-1))
	defer srv.Close()

	p := NewOpenMeteoProvider(srv.Client(), srv.URL)

	_, err := p.FetchHistory(context.Background(), forecast.Coordinate{Latitude: 40, Longitude: -74})
	if !forecast.IsKind(err, forecast.KindMalformedUpstreamData) {
		t.Fatalf("expected malformed upstream data, got %v", err)
	}
}

func TestFetchHistoryNullDailyValue(t *testing.T) {
	payload := meteoPayload(forecast.WindowDays, forecast.WindowDays*hourlySamplesPerDay)
	mins := payload["daily"].(map[string]any)["temperature_2m_min"].([]float64)
	withNull := make([]any, len(mins))
	for i, v := range mins {
		withNull[i] = v
	}
	withNull[3] = nil
	payload["daily"].(map[string]any)["temperature_2m_min"] = withNull

	srv := servePayload(t, payload)
	defer srv.Close()

	p := NewOpenMeteoProvider(srv.Client(), srv.URL)

	_, err := p.FetchHistory(context.Background(), forecast.Coordinate{Latitude: 40, Longitude: -74})
	if !forecast.IsKind(err, forecast.KindMalformedUpstreamData) {
		t.Fatalf("expected malformed upstream data, got %v", err)
	}
}

func TestFetchHistoryNonContiguousDates(t *testing.T) {
	payload := meteoPayload(forecast.WindowDays, forecast.WindowDays*hourlySamplesPerDay)
	times := payload["daily"].(map[string]any)["time"].([]string)
	times[5] = "2026-09-10" // gap in the sequence

	srv := servePayload(t, payload)
	defer srv.Close()

	p := NewOpenMeteoProvider(srv.Client(), srv.URL)

	_, err := p.FetchHistory(context.Background(), forecast.Coordinate{Latitude: 40, Longitude: -74})
	if !forecast.IsKind(err, forecast.KindMalformedUpstreamData) {
		t.Fatalf("expected malformed upstream data, got %v", err)
	}
}

func TestFetchHistoryUnreadableBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not json"))
	}))
	defer srv.Close()

	p := NewOpenMeteoProvider(srv.Client(), srv.URL)

	_, err := p.FetchHistory(context.Background(), forecast.Coordinate{Latitude: 40, Longitude: -74})
	if !forecast.IsKind(err, forecast.KindMalformedUpstreamData) {
		t.Fatalf("expected malformed upstream data, got %v", err)
	}
}
