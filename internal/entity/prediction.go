package entity

import "time"

type PredictionSource string

const (
	SourceManual PredictionSource = "manual"
	SourceImage  PredictionSource = "image"
)

// FeatureVector holds the morphometric inputs of the weight model, in model order.
type FeatureVector struct {
	Length1 float64 `json:"Length1"`
	Length2 float64 `json:"Length2"`
	Length3 float64 `json:"Length3"`
	Height  float64 `json:"Height"`
	Width   float64 `json:"Width"`
}

// FeatureNames is the column order the weight model was fitted with.
var FeatureNames = [5]string{"Length1", "Length2", "Length3", "Height", "Width"}

func (f FeatureVector) Values() [5]float64 {
	return [5]float64{f.Length1, f.Length2, f.Length3, f.Height, f.Width}
}

func FeatureVectorFrom(values [5]float64) FeatureVector {
	return FeatureVector{
		Length1: values[0],
		Length2: values[1],
		Length3: values[2],
		Height:  values[3],
		Width:   values[4],
	}
}

func (f FeatureVector) IsNonNegative() bool {
	for _, v := range f.Values() {
		if v < 0 {
			return false
		}
	}
	return true
}

type PredictionResult struct {
	PredictedWeightG float64          `json:"predicted_weight_g"`
	BiomassKg        float64          `json:"biomass_kg"`
	Quantity         int              `json:"quantity"`
	FeaturesUsed     FeatureVector    `json:"features_used"`
	TankID           string           `json:"tank_id"`
	Source           PredictionSource `json:"source"`
	Timestamp        time.Time        `json:"timestamp"`
}

// BiomassKg converts a per-fish weight in grams to total biomass in kilograms.
func BiomassKg(weightG float64, quantity int) float64 {
	return weightG * float64(quantity) / 1000.0
}
