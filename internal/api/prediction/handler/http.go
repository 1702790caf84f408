package predictionHandler

import (
	predictionService "FishBiomass/internal/api/prediction/service"
	"FishBiomass/internal/middleware"
	"FishBiomass/pkg/utils"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type PredictionHandler struct {
	log               *logrus.Logger
	validator         *validator.Validate
	middleware        middleware.Middleware
	predictionService predictionService.IPredictionService
	utils             utils.IUtils
}

func New(
	log *logrus.Logger,
	validate *validator.Validate,
	middleware middleware.Middleware,
	predictionService predictionService.IPredictionService,
	utils utils.IUtils,
) *PredictionHandler {
	return &PredictionHandler{
		log:               log,
		validator:         validate,
		middleware:        middleware,
		predictionService: predictionService,
		utils:             utils,
	}
}

func (h *PredictionHandler) Start(srv fiber.Router) {
	srv.Post("/predict", h.middleware.NewRateLimiter, h.PredictManual)
	srv.Post("/predict-image", h.middleware.NewRateLimiter, h.PredictImage)
}
