package predictionService

import (
	"errors"
	"fmt"

	"FishBiomass/internal/api/prediction"
	"FishBiomass/internal/entity"
	contextPkg "FishBiomass/pkg/context"
	"FishBiomass/pkg/estimator"
	"FishBiomass/pkg/morphometry"
	"FishBiomass/pkg/vision"
	"github.com/sirupsen/logrus"
	"golang.org/x/net/context"
)

func (s *predictionService) PredictManual(ctx context.Context, req prediction.ManualPredictionRequest, tankID string) (*prediction.ManualPredictionResponse, error) {
	requestID := contextPkg.GetRequestID(ctx)

	features := req.Features()
	if !features.IsNonNegative() {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"features":   features,
		}).Warn("Rejected negative morphometric features")
		return nil, prediction.ErrInvalidRequest
	}

	weight, err := s.estimate(ctx, features)
	if err != nil {
		return nil, err
	}

	result := entity.PredictionResult{
		PredictedWeightG: weight,
		BiomassKg:        entity.BiomassKg(weight, 1),
		Quantity:         1,
		FeaturesUsed:     features,
		TankID:           tankID,
		Source:           entity.SourceManual,
		Timestamp:        s.now(),
	}

	if err := s.record(ctx, result); err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"request_id":       requestID,
		"tank_id":          tankID,
		"predicted_weight": weight,
	}).Info("Manual prediction completed")

	return &prediction.ManualPredictionResponse{
		PredictedWeight: weight,
		TankID:          tankID,
	}, nil
}

func (s *predictionService) PredictImage(ctx context.Context, imageData []byte, quantity int, tankID string) (*prediction.ImagePredictionResponse, error) {
	requestID := contextPkg.GetRequestID(ctx)

	if quantity < 1 {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"quantity":   quantity,
		}).Warn("Rejected non-positive quantity")
		return nil, prediction.ErrInvalidQuantity
	}

	img, format, err := s.extractor.Decode(imageData)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"size":       len(imageData),
			"error":      err.Error(),
		}).Warn("Failed to decode uploaded image")
		return nil, fmt.Errorf("%w: %w", prediction.ErrImageDecode, err)
	}

	box, err := s.extractor.Extract(img, vision.ModeFiltered)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"format":     format,
			"error":      err.Error(),
		}).Error("Failed to extract contour")
		return nil, fmt.Errorf("%w: %v", prediction.ErrExtractContour, err)
	}

	s.log.WithFields(logrus.Fields{
		"request_id": requestID,
		"format":     format,
		"width_px":   box.Width,
		"height_px":  box.Height,
		"fallback":   box.Fallback,
	}).Debug("Contour extracted")

	features := morphometry.ToFeatures(float64(box.Width), float64(box.Height))

	weight, err := s.estimate(ctx, features)
	if err != nil {
		return nil, err
	}

	biomass := entity.BiomassKg(weight, quantity)

	result := entity.PredictionResult{
		PredictedWeightG: weight,
		BiomassKg:        biomass,
		Quantity:         quantity,
		FeaturesUsed:     features,
		TankID:           tankID,
		Source:           entity.SourceImage,
		Timestamp:        s.now(),
	}

	if err := s.record(ctx, result); err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"request_id":       requestID,
		"tank_id":          tankID,
		"quantity":         quantity,
		"predicted_weight": weight,
		"biomass_kg":       biomass,
	}).Info("Image prediction completed")

	return &prediction.ImagePredictionResponse{
		ImageWidthPx:    box.Width,
		ImageHeightPx:   box.Height,
		FeaturesUsed:    features,
		PredictedWeight: weight,
		Quantity:        quantity,
		BiomassKg:       biomass,
		TankID:          tankID,
	}, nil
}

func (s *predictionService) estimate(ctx context.Context, features entity.FeatureVector) (float64, error) {
	requestID := contextPkg.GetRequestID(ctx)

	weight, err := s.estimator.Estimate(ctx, features)
	if err == nil {
		return weight, nil
	}

	s.log.WithFields(logrus.Fields{
		"request_id": requestID,
		"error":      err.Error(),
	}).Error("Weight estimation failed")

	switch {
	case errors.Is(err, estimator.ErrUnavailable):
		return 0, fmt.Errorf("%w: %v", prediction.ErrModelUnavailable, err)
	case errors.Is(err, estimator.ErrNegativeFeature):
		return 0, prediction.ErrInvalidRequest
	default:
		return 0, fmt.Errorf("%w: %v", prediction.ErrInternalServerError, err)
	}
}

// record is the last step of a prediction; a request whose deadline has
// already passed is not logged.
func (s *predictionService) record(ctx context.Context, result entity.PredictionResult) error {
	if err := ctx.Err(); err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": contextPkg.GetRequestID(ctx),
			"tank_id":    result.TankID,
			"error":      err.Error(),
		}).Warn("Prediction abandoned before recording")
		return err
	}

	if err := s.predictionRepository.AppendObservation(ctx, result); err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": contextPkg.GetRequestID(ctx),
			"tank_id":    result.TankID,
			"error":      err.Error(),
		}).Error("Failed to record prediction")
		return fmt.Errorf("%w: %v", prediction.ErrRecordObservation, err)
	}
	return nil
}
