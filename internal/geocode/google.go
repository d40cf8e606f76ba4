// Package geocode resolves display names for coordinates. Lookups are
// best-effort by contract: callers fall back to a formatted coordinate
// on any error.
package geocode

import (
	"errors"

	"github.com/kelvins/geocoder"

	"github.com/frostline/temp-prediction/internal/forecast"
)

// GoogleReverser reverse-geocodes through the Google Geocoding API.
type GoogleReverser struct{}

// NewGoogleReverser configures the underlying client with the API key.
func NewGoogleReverser(apiKey string) *GoogleReverser {
	geocoder.ApiKey = apiKey
	return &GoogleReverser{}
}

// ReverseLookup returns a human-readable place name for the coordinate.
func (g *GoogleReverser) ReverseLookup(coord forecast.Coordinate) (string, error) {
	addresses, err := geocoder.GeocodingReverse(geocoder.Location{
		Latitude:  coord.Latitude,
		Longitude: coord.Longitude,
	})
	if err != nil {
		return "", err
	}
	if len(addresses) == 0 {
		return "", errors.New("no address found for coordinate")
	}

	addr := addresses[0]
	if addr.FormattedAddress != "" {
		return addr.FormattedAddress, nil
	}
	return addr.FormatAddress(), nil
}
