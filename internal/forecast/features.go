package forecast

// FeatureSet selects which per-day fields are encoded into the feature
// vector. The choice must match what the loaded model was trained on.
type FeatureSet string

const (
	// FeatureSetFull encodes [minTemp, maxTemp, precipitation, snowfall,
	// avgSnowDepth, month] per day.
	FeatureSetFull FeatureSet = "full"
	// FeatureSetMinimal encodes [minTemp] per day.
	FeatureSetMinimal FeatureSet = "minimal"
)

// PerDay returns the number of feature values encoded per window day.
func (fs FeatureSet) PerDay() int {
	if fs == FeatureSetMinimal {
		return 1
	}
	return 6
}

// VectorLen returns the full feature-vector length for a complete window.
func (fs FeatureSet) VectorLen() int {
	return WindowDays * fs.PerDay()
}

// BuildFeatures flattens a complete historical window into the model's
// feature vector, oldest day first. Field order within a day is fixed
// and part of the model contract. The function is pure: identical
// windows always produce identical vectors.
func BuildFeatures(window HistoricalWindow, set FeatureSet) (FeatureVector, error) {
	if len(window) != WindowDays {
		return nil, Errorf(KindShapeMismatch,
			"historical window has %d days, model expects %d", len(window), WindowDays)
	}

	vec := make(FeatureVector, 0, set.VectorLen())
	for _, day := range window {
		if set == FeatureSetMinimal {
			vec = append(vec, day.MinTemperature)
			continue
		}
		vec = append(vec,
			day.MinTemperature,
			day.MaxTemperature,
			day.Precipitation,
			day.Snowfall,
			day.AvgSnowDepth,
			float64(day.Month()),
		)
	}
	return vec, nil
}
