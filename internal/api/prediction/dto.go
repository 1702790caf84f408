package prediction

import "FishBiomass/internal/entity"

const (
	DefaultManualTankID = "manual_tank"
	DefaultImageTankID  = "tank_1"
	DefaultQuantity     = 1
)

type ManualPredictionRequest struct {
	Length1 *float64 `json:"length1" validate:"required,gte=0"`
	Length2 *float64 `json:"length2" validate:"required,gte=0"`
	Length3 *float64 `json:"length3" validate:"required,gte=0"`
	Height  *float64 `json:"height" validate:"required,gte=0"`
	Width   *float64 `json:"width" validate:"required,gte=0"`
}

// Features assumes the request passed validation; missing fields read as zero.
func (r ManualPredictionRequest) Features() entity.FeatureVector {
	return entity.FeatureVector{
		Length1: deref(r.Length1),
		Length2: deref(r.Length2),
		Length3: deref(r.Length3),
		Height:  deref(r.Height),
		Width:   deref(r.Width),
	}
}

func deref(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}

type ManualPredictionQuery struct {
	TankID string `query:"tank_id" validate:"required,max=64"`
}

type ImagePredictionQuery struct {
	Quantity int    `query:"quantity" validate:"gte=1"`
	TankID   string `query:"tank_id" validate:"required,max=64"`
}

type ManualPredictionResponse struct {
	PredictedWeight float64 `json:"predicted_weight"`
	TankID          string  `json:"tank_id"`
}

type ImagePredictionResponse struct {
	ImageWidthPx    int                  `json:"image_width_px"`
	ImageHeightPx   int                  `json:"image_height_px"`
	FeaturesUsed    entity.FeatureVector `json:"features_used"`
	PredictedWeight float64              `json:"predicted_weight"`
	Quantity        int                  `json:"quantity"`
	BiomassKg       float64              `json:"biomass_kg"`
	TankID          string               `json:"tank_id"`
}
