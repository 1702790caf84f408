package predictionHandler

import (
	"errors"
	"time"

	"FishBiomass/internal/api/prediction"
	contextPkg "FishBiomass/pkg/context"
	"FishBiomass/pkg/handlerUtil"
	"FishBiomass/pkg/log"
	"FishBiomass/pkg/utils"
	"github.com/gofiber/fiber/v2"
	"golang.org/x/net/context"
)

const requestTimeout = 10 * time.Second

func (h *PredictionHandler) PredictManual(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), requestTimeout)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	h.log.WithFields(log.Fields{
		"request_id": requestID,
		"path":       ctx.Path(),
	}).Debug("Processing manual prediction request")

	var req prediction.ManualPredictionRequest
	if err := ctx.BodyParser(&req); err != nil {
		return errHandler.HandleValidationError(ctx, requestID, err, ctx.Path())
	}

	query := prediction.ManualPredictionQuery{TankID: prediction.DefaultManualTankID}
	if err := ctx.QueryParser(&query); err != nil {
		return errHandler.HandleValidationError(ctx, requestID, err, ctx.Path())
	}

	if err := h.validator.Struct(req); err != nil {
		return errHandler.HandleValidationError(ctx, requestID, err, ctx.Path())
	}
	if err := h.validator.Struct(query); err != nil {
		return errHandler.HandleValidationError(ctx, requestID, err, ctx.Path())
	}

	resp, err := h.predictionService.PredictManual(c, req, query.TankID)
	if errors.Is(err, context.DeadlineExceeded) {
		return errHandler.HandleRequestTimeout(ctx)
	}
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "predict_manual")
	}

	return errHandler.HandleSuccess(ctx, fiber.StatusOK, resp)
}

func (h *PredictionHandler) PredictImage(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), requestTimeout)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	h.log.WithFields(log.Fields{
		"request_id": requestID,
		"path":       ctx.Path(),
	}).Debug("Processing image prediction request")

	query := prediction.ImagePredictionQuery{
		Quantity: prediction.DefaultQuantity,
		TankID:   prediction.DefaultImageTankID,
	}
	if err := ctx.QueryParser(&query); err != nil {
		return errHandler.HandleValidationError(ctx, requestID, err, ctx.Path())
	}
	if err := h.validator.Struct(query); err != nil {
		return errHandler.HandleValidationError(ctx, requestID, err, ctx.Path())
	}

	file, err := ctx.FormFile("file")
	if err != nil {
		return errHandler.Handle(ctx, requestID, prediction.ErrMissingImage, ctx.Path(), "read_form_file")
	}

	if err := h.utils.ValidateImageFile(file); err != nil {
		return errHandler.Handle(ctx, requestID, uploadError(err), ctx.Path(), "validate_image_file")
	}

	data, err := h.utils.ReadFile(file)
	if err != nil {
		return errHandler.Handle(ctx, requestID, uploadError(err), ctx.Path(), "read_image_file")
	}

	h.log.WithFields(log.Fields{
		"request_id": requestID,
		"filename":   file.Filename,
		"size":       len(data),
		"quantity":   query.Quantity,
		"tank_id":    query.TankID,
	}).Debug("Image upload accepted")

	resp, err := h.predictionService.PredictImage(c, data, query.Quantity, query.TankID)
	if errors.Is(err, context.DeadlineExceeded) {
		return errHandler.HandleRequestTimeout(ctx)
	}
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "predict_image")
	}

	return errHandler.HandleSuccess(ctx, fiber.StatusOK, resp)
}

func uploadError(err error) error {
	switch {
	case errors.Is(err, utils.ErrNoFile):
		return prediction.ErrMissingImage
	case errors.Is(err, utils.ErrFileTooLarge):
		return prediction.ErrFileTooLarge
	case errors.Is(err, utils.ErrNotAnImage):
		return prediction.ErrInvalidFileType
	default:
		return err
	}
}
