package predictionService

import (
	"image"
	"time"

	"FishBiomass/internal/api/prediction"
	predictionRepository "FishBiomass/internal/api/prediction/repository"
	"FishBiomass/pkg/estimator"
	"FishBiomass/pkg/vision"
	"github.com/sirupsen/logrus"
	"golang.org/x/net/context"
)

type IPredictionService interface {
	PredictManual(ctx context.Context, req prediction.ManualPredictionRequest, tankID string) (*prediction.ManualPredictionResponse, error)
	PredictImage(ctx context.Context, imageData []byte, quantity int, tankID string) (*prediction.ImagePredictionResponse, error)
}

// BoxExtractor is satisfied by *vision.Extractor.
type BoxExtractor interface {
	Decode(data []byte) (image.Image, string, error)
	Extract(img image.Image, mode vision.Mode) (vision.BoundingBox, error)
}

type predictionService struct {
	log                  *logrus.Logger
	predictionRepository predictionRepository.Repository
	estimator            estimator.Estimator
	extractor            BoxExtractor
	now                  func() time.Time
}

func NewPredictionService(log *logrus.Logger, pr predictionRepository.Repository, est estimator.Estimator, ext BoxExtractor) IPredictionService {
	return &predictionService{
		log:                  log,
		predictionRepository: pr,
		estimator:            est,
		extractor:            ext,
		now:                  time.Now,
	}
}
